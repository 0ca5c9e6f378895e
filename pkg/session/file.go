package session

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/matzehuels/meshview/pkg/render/mesh"
)

// FileStore persists sessions as JSON files in a directory. Get rebuilds
// the document from the stored description, configuration and clip path,
// so each Get returns an independent Session. Callers write changes back
// with Set.
type FileStore struct {
	mu      sync.RWMutex
	baseDir string
	ttl     time.Duration
	opts    []mesh.Option
}

// NewFileStore creates a new file-based session store. If baseDir is empty,
// defaults to the meshview sessions directory under the user config dir.
// opts are applied to every rebuilt document.
func NewFileStore(baseDir string, ttl time.Duration, opts ...mesh.Option) (*FileStore, error) {
	if baseDir == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("get config dir: %w", err)
		}
		baseDir = filepath.Join(base, "meshview", "sessions")
	}
	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return nil, fmt.Errorf("create session dir: %w", err)
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &FileStore{baseDir: baseDir, ttl: ttl, opts: opts}, nil
}

func (s *FileStore) sessionPath(id string) string {
	return filepath.Join(s.baseDir, id+".json")
}

// Get implements [Store].
func (s *FileStore) Get(ctx context.Context, id string) (*Session, error) {
	if err := ParseID(id); err != nil {
		return nil, err
	}

	s.mu.RLock()
	data, err := os.ReadFile(s.sessionPath(id))
	s.mu.RUnlock()
	if os.IsNotExist(err) {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, fmt.Errorf("read session file: %w", err)
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("parse session: %w", err)
	}
	if sess.IsExpired() {
		_ = s.Delete(ctx, id)
		return nil, notFound(id)
	}
	if err := sess.restore(s.opts...); err != nil {
		return nil, fmt.Errorf("restore session %s: %w", id, err)
	}
	sess.Touch(s.ttl)
	return &sess, nil
}

// Set implements [Store].
func (s *FileStore) Set(ctx context.Context, sess *Session) error {
	if err := ParseID(sess.ID); err != nil {
		return err
	}
	data, err := sess.Snapshot()
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.WriteFile(s.sessionPath(sess.ID), data, 0600); err != nil {
		return fmt.Errorf("write session file: %w", err)
	}
	return nil
}

// Delete implements [Store].
func (s *FileStore) Delete(ctx context.Context, id string) error {
	if ParseID(id) != nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.sessionPath(id)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove session file: %w", err)
	}
	return nil
}

// expiryOnly decodes just the expiry of a session file.
type expiryOnly struct {
	ExpiresAt time.Time `json:"expires_at"`
}

// Cleanup implements [Store].
func (s *FileStore) Cleanup(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return 0, fmt.Errorf("read session dir: %w", err)
	}

	now := time.Now()
	removed := 0
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		path := filepath.Join(s.baseDir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		var e expiryOnly
		if err := json.Unmarshal(data, &e); err != nil {
			continue
		}
		if now.After(e.ExpiresAt) {
			if os.Remove(path) == nil {
				removed++
			}
		}
	}
	return removed, nil
}

// Len implements [Store].
func (s *FileStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	matches, _ := filepath.Glob(filepath.Join(s.baseDir, "*.json"))
	return len(matches)
}

// Path returns the base directory for session files.
func (s *FileStore) Path() string {
	return s.baseDir
}

var _ Store = (*FileStore)(nil)
