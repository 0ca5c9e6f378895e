package session

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/meshview/pkg/errors"
	"github.com/matzehuels/meshview/pkg/manycore"
	"github.com/matzehuels/meshview/pkg/render/mesh/attributes"
	"github.com/matzehuels/meshview/pkg/render/mesh/bucket"
)

func newSystem() *manycore.System {
	sys := manycore.NewMesh(2, 2)
	for i := range sys.Cores {
		sys.Cores[i].Attributes = map[string]string{"load": []string{"5", "15", "25", "45"}[i]}
	}
	return sys
}

func fillConfig() *attributes.Configuration {
	return &attributes.Configuration{Core: attributes.Set{
		"@load": attributes.Fill{
			Bounds:  bucket.Bounds{10, 20, 30, 40},
			Colours: bucket.Colours{"#000", "#111", "#222", "#333"},
		},
	}}
}

func TestNewSession(t *testing.T) {
	sess, err := New(newSystem(), time.Minute)
	require.NoError(t, err)

	assert.NoError(t, ParseID(sess.ID))
	assert.False(t, sess.IsExpired())
	assert.True(t, strings.HasPrefix(string(sess.Render()), "<svg"))
}

func TestNewSessionRejectsMismatch(t *testing.T) {
	sys := newSystem()
	sys.Cores = sys.Cores[:3]

	_, err := New(sys, time.Minute)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeConfiguration))
}

func TestSessionUpdateRecordsConfiguration(t *testing.T) {
	sess, err := New(newSystem(), time.Minute)
	require.NoError(t, err)

	res, err := sess.Update(fillConfig())
	require.NoError(t, err)
	assert.Contains(t, res.Style, "#core3 {fill: #333;}")
	assert.NotNil(t, sess.Configuration)

	bad := &attributes.Configuration{Channel: attributes.Set{
		"@routingAlgorithm": attributes.Routing{Algorithm: "missing"},
	}}
	_, err = sess.Update(bad)
	require.Error(t, err)
	_, routed := sess.Configuration.RoutingAlgorithm()
	assert.False(t, routed, "failed update must not replace the recorded configuration")
}

func TestSessionClipPath(t *testing.T) {
	sess, err := New(newSystem(), time.Minute)
	require.NoError(t, err)

	require.NoError(t, sess.SetClipPath("0,0 100,0 100,100"))
	assert.Equal(t, "0,0 100,0 100,100", sess.ClipPath)
	assert.Contains(t, string(sess.Render()), `clip-path="url(#mainClip)"`)

	assert.Error(t, sess.SetClipPath("<script>"))
	assert.Equal(t, "0,0 100,0 100,100", sess.ClipPath)

	require.NoError(t, sess.SetClipPath(""))
	assert.Empty(t, sess.ClipPath)
	assert.NotContains(t, string(sess.Render()), "clip-path")
}

func TestParseID(t *testing.T) {
	assert.NoError(t, ParseID("7f1b5a43-6d8e-4c55-9d2b-2f1c0a9b8e71"))
	for _, id := range []string{"", "../etc/passwd", "abc"} {
		err := ParseID(id)
		require.Error(t, err, id)
		assert.True(t, errors.Is(err, errors.ErrCodeSessionNotFound), id)
	}
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(time.Minute)

	sess, err := New(newSystem(), time.Minute)
	require.NoError(t, err)
	require.NoError(t, store.Set(ctx, sess))
	assert.Equal(t, 1, store.Len())

	got, err := store.Get(ctx, sess.ID)
	require.NoError(t, err)
	assert.Same(t, sess, got)

	_, err = store.Get(ctx, "7f1b5a43-6d8e-4c55-9d2b-2f1c0a9b8e71")
	assert.True(t, errors.Is(err, errors.ErrCodeSessionNotFound))

	require.NoError(t, store.Delete(ctx, sess.ID))
	assert.Equal(t, 0, store.Len())
	_, err = store.Get(ctx, sess.ID)
	assert.True(t, errors.Is(err, errors.ErrCodeSessionNotFound))
}

func TestMemoryStoreExpiry(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(time.Minute)

	live, err := New(newSystem(), time.Minute)
	require.NoError(t, err)
	stale, err := New(newSystem(), time.Minute)
	require.NoError(t, err)
	stale.ExpiresAt = time.Now().Add(-time.Second)

	require.NoError(t, store.Set(ctx, live))
	require.NoError(t, store.Set(ctx, stale))

	_, err = store.Get(ctx, stale.ID)
	assert.True(t, errors.Is(err, errors.ErrCodeSessionNotFound))
	assert.Equal(t, 1, store.Len(), "expired session is dropped on access")

	live.ExpiresAt = time.Now().Add(-time.Second)
	removed, err := store.Cleanup(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
	assert.Equal(t, 0, store.Len())
}

func TestMemoryStoreGetExtendsExpiry(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(time.Hour)

	sess, err := New(newSystem(), time.Second)
	require.NoError(t, err)
	require.NoError(t, store.Set(ctx, sess))

	_, err = store.Get(ctx, sess.ID)
	require.NoError(t, err)
	assert.True(t, sess.ExpiresAt.After(time.Now().Add(30*time.Minute)))
}

func TestConcurrentUpdatesAreSerialized(t *testing.T) {
	sess, err := New(newSystem(), time.Minute)
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([]string, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res, err := sess.Update(fillConfig())
			if err == nil {
				results[i] = res.Style
			}
		}(i)
	}
	wg.Wait()

	for _, r := range results {
		assert.Equal(t, results[0], r)
	}
	assert.NotEmpty(t, results[0])
}

func TestFileStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store, err := NewFileStore(t.TempDir(), time.Hour)
	require.NoError(t, err)

	sess, err := New(newSystem(), time.Hour)
	require.NoError(t, err)
	want, err := sess.Update(fillConfig())
	require.NoError(t, err)
	require.NoError(t, sess.SetClipPath("0,0 10,0 10,10"))
	require.NoError(t, store.Set(ctx, sess))
	assert.Equal(t, 1, store.Len())

	got, err := store.Get(ctx, sess.ID)
	require.NoError(t, err)
	assert.NotSame(t, sess, got)
	assert.Equal(t, sess.ID, got.ID)
	assert.Equal(t, "0,0 10,0 10,10", got.ClipPath)
	assert.Equal(t, string(sess.Render()), string(got.Render()))

	again, err := got.Update(got.Configuration)
	require.NoError(t, err)
	assert.Equal(t, want, again)
}

func TestFileStoreMissingAndMalformed(t *testing.T) {
	ctx := context.Background()
	store, err := NewFileStore(t.TempDir(), time.Hour)
	require.NoError(t, err)

	_, err = store.Get(ctx, "7f1b5a43-6d8e-4c55-9d2b-2f1c0a9b8e71")
	assert.True(t, errors.Is(err, errors.ErrCodeSessionNotFound))

	_, err = store.Get(ctx, "../../secrets")
	assert.True(t, errors.Is(err, errors.ErrCodeSessionNotFound))
	assert.NoError(t, store.Delete(ctx, "../../secrets"))
}

func TestFileStoreCleanup(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	store, err := NewFileStore(dir, time.Hour)
	require.NoError(t, err)

	live, err := New(newSystem(), time.Hour)
	require.NoError(t, err)
	stale, err := New(newSystem(), time.Hour)
	require.NoError(t, err)
	stale.ExpiresAt = time.Now().Add(-time.Minute)

	require.NoError(t, store.Set(ctx, live))
	require.NoError(t, store.Set(ctx, stale))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0600))

	removed, err := store.Cleanup(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)
	assert.Equal(t, 1, store.Len())
	assert.Equal(t, dir, store.Path())
}
