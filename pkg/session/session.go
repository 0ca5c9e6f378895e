// Package session keeps the server-side state of interactive visualizer
// sessions.
//
// A [Session] owns one [mesh.Document] together with the inputs that
// produced its current state: the architecture description, the last
// applied attribute configuration and the clip path. Reconfiguration is
// serialized per session, so a document never sees two updates in flight.
//
// Two stores are provided:
//   - [MemoryStore]: live sessions in memory with sliding expiry
//   - [FileStore]: sessions persisted as JSON and rebuilt on lookup, so
//     they survive a server restart
//
// # Usage
//
//	sess, err := session.New(sys, session.DefaultTTL, mesh.WithLogger(logger))
//	if err != nil {
//	    return err
//	}
//	store.Set(ctx, sess)
//
//	sess, err = store.Get(ctx, id)
//	if errors.Is(err, errors.ErrCodeSessionNotFound) {
//	    // unknown or expired
//	}
//	res, err := sess.Update(cfg)
package session

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/meshview/pkg/errors"
	"github.com/matzehuels/meshview/pkg/manycore"
	"github.com/matzehuels/meshview/pkg/render/mesh"
	"github.com/matzehuels/meshview/pkg/render/mesh/attributes"
)

// DefaultTTL is the default idle lifetime of a session.
const DefaultTTL = time.Hour

// Session is one visualizer session.
type Session struct {
	ID            string                    `json:"id"`
	System        *manycore.System          `json:"system"`
	Configuration *attributes.Configuration `json:"configuration,omitempty"`
	ClipPath      string                    `json:"clip_path,omitempty"`
	CreatedAt     time.Time                 `json:"created_at"`
	ExpiresAt     time.Time                 `json:"expires_at"`

	mu  sync.Mutex
	doc *mesh.Document
}

// New composes a document for sys and wraps it in a session with a fresh
// random id.
func New(sys *manycore.System, ttl time.Duration, opts ...mesh.Option) (*Session, error) {
	doc, err := mesh.New(sys, opts...)
	if err != nil {
		return nil, err
	}
	return FromDocument(doc, ttl), nil
}

// FromDocument wraps an already composed document in a new session. The
// document's configuration and clip path are not recorded, so doc should
// be freshly composed.
func FromDocument(doc *mesh.Document, ttl time.Duration) *Session {
	now := time.Now()
	return &Session{
		ID:        uuid.NewString(),
		System:    doc.System(),
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
		doc:       doc,
	}
}

// ParseID checks that id has the session id format. It is used to reject
// malformed ids before any store lookup (file names are derived from ids).
func ParseID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return errors.New(errors.ErrCodeSessionNotFound, "session %q not found", id)
	}
	return nil
}

// restore rebuilds the document from the recorded inputs.
func (s *Session) restore(opts ...mesh.Option) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.System == nil {
		return errors.New(errors.ErrCodeInvalidInput, "session %s has no architecture description", s.ID)
	}
	doc, err := mesh.New(s.System, opts...)
	if err != nil {
		return err
	}
	if s.Configuration != nil {
		if _, err := doc.Update(s.Configuration); err != nil {
			return err
		}
	}
	if s.ClipPath != "" {
		if err := doc.SetClipPath(s.ClipPath); err != nil {
			return err
		}
	}
	s.doc = doc
	return nil
}

// IsExpired reports whether the session has outlived its expiry.
func (s *Session) IsExpired() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return time.Now().After(s.ExpiresAt)
}

// Touch extends the expiry to ttl from now.
func (s *Session) Touch(ttl time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ExpiresAt = time.Now().Add(ttl)
}

// Update applies cfg to the document. The configuration is recorded only
// if the update succeeds.
func (s *Session) Update(cfg *attributes.Configuration) (*mesh.UpdateResult, error) {
	return s.UpdateWith(cfg, (*mesh.Document).Update)
}

// UpdateFunc applies a configuration to a document.
type UpdateFunc func(doc *mesh.Document, cfg *attributes.Configuration) (*mesh.UpdateResult, error)

// UpdateWith is Update with the document update performed by fn, so
// callers can route it through an instrumented pipeline.
func (s *Session) UpdateWith(cfg *attributes.Configuration, fn UpdateFunc) (*mesh.UpdateResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	res, err := fn(s.doc, cfg)
	if err != nil {
		return nil, err
	}
	s.Configuration = cfg
	return res, nil
}

// SetClipPath clips the document, or removes the clip when points is empty.
func (s *Session) SetClipPath(points string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if points == "" {
		s.doc.ClearClipPath()
		s.ClipPath = ""
		return nil
	}
	if err := s.doc.SetClipPath(points); err != nil {
		return err
	}
	s.ClipPath = points
	return nil
}

// Render returns the full SVG in its current state.
func (s *Session) Render() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc.Render()
}

// Snapshot returns the JSON encoding of the session.
func (s *Session) Snapshot() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return json.Marshal(s)
}

// Store is the interface for session storage backends.
type Store interface {
	// Get returns the live session with the given id. Unknown and expired
	// sessions yield SESSION_NOT_FOUND. A successful Get extends the
	// session's expiry.
	Get(ctx context.Context, id string) (*Session, error)

	// Set stores or replaces a session.
	Set(ctx context.Context, sess *Session) error

	// Delete removes a session. Deleting an unknown id is not an error.
	Delete(ctx context.Context, id string) error

	// Cleanup removes expired sessions and returns how many it removed.
	Cleanup(ctx context.Context) (int, error)

	// Len returns the number of stored sessions.
	Len() int
}

func notFound(id string) error {
	return errors.New(errors.ErrCodeSessionNotFound, "session %q not found", id)
}
