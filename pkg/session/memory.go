package session

import (
	"context"
	"sync"
	"time"

	"github.com/matzehuels/meshview/pkg/observability"
)

// MemoryStore keeps live sessions in memory. Expiry slides: every Get
// pushes it ttl into the future.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	ttl      time.Duration
}

// NewMemoryStore creates an empty store. A ttl <= 0 selects [DefaultTTL].
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemoryStore{sessions: make(map[string]*Session), ttl: ttl}
}

// Get implements [Store].
func (m *MemoryStore) Get(ctx context.Context, id string) (*Session, error) {
	m.mu.RLock()
	sess, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, notFound(id)
	}
	if sess.IsExpired() {
		m.remove(ctx, id)
		return nil, notFound(id)
	}
	sess.Touch(m.ttl)
	return sess, nil
}

// Set implements [Store].
func (m *MemoryStore) Set(ctx context.Context, sess *Session) error {
	m.mu.Lock()
	m.sessions[sess.ID] = sess
	n := len(m.sessions)
	m.mu.Unlock()
	observability.HTTP().OnSessionsChanged(ctx, n)
	return nil
}

// Delete implements [Store].
func (m *MemoryStore) Delete(ctx context.Context, id string) error {
	m.remove(ctx, id)
	return nil
}

func (m *MemoryStore) remove(ctx context.Context, id string) {
	m.mu.Lock()
	delete(m.sessions, id)
	n := len(m.sessions)
	m.mu.Unlock()
	observability.HTTP().OnSessionsChanged(ctx, n)
}

// Cleanup implements [Store].
func (m *MemoryStore) Cleanup(ctx context.Context) (int, error) {
	m.mu.Lock()
	removed := 0
	for id, sess := range m.sessions {
		if sess.IsExpired() {
			delete(m.sessions, id)
			removed++
		}
	}
	n := len(m.sessions)
	m.mu.Unlock()
	if removed > 0 {
		observability.HTTP().OnSessionsChanged(ctx, n)
	}
	return removed, nil
}

// Len implements [Store].
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

var _ Store = (*MemoryStore)(nil)

// RunCleanup calls store.Cleanup every interval until ctx is done.
func RunCleanup(ctx context.Context, store Store, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_, _ = store.Cleanup(ctx)
		}
	}
}
