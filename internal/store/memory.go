// internal/store/memory.go
//
// In-memory implementation of the session Store.
// Active Bulls and Cows sessions live here for the lifetime of the process.
//
// Characteristics:
//   - Stores *game.Session objects keyed by ID, each tagged with its owner key.
//   - Lookups are scoped: a session is only returned to one of its owners.
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - State is lost when the process restarts; sessions are never persisted.
//   - ErrNotFound is returned for unknown and foreign session IDs alike.

package store

import (
	"context"
	"errors"
	"sync"

	"github.com/robalobadob/bullscows/internal/game"
)

// ErrNotFound is returned by Get for unknown IDs and for sessions owned by
// someone else.
var ErrNotFound = errors.New("not found")

// Store defines the lookup interface for active sessions.
type Store interface {
	// Save adds or replaces a session under the given owner key.
	Save(ctx context.Context, owner string, s *game.Session) error

	// Get retrieves a session by ID if its owner is one of owners.
	Get(ctx context.Context, id string, owners ...string) (*game.Session, error)

	// Delete drops a session. Unknown IDs are ignored.
	Delete(ctx context.Context, id string) error
}

type entry struct {
	owner   string
	session *game.Session
}

// memory is an in-memory map-based Store implementation.
type memory struct {
	mu       sync.RWMutex     // guards sessions map
	sessions map[string]entry // keyed by Session.ID
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() Store {
	return &memory{sessions: make(map[string]entry)}
}

func (m *memory) Save(ctx context.Context, owner string, s *game.Session) error {
	if owner == "" {
		return errors.New("store: empty owner")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = entry{owner: owner, session: s}
	return nil
}

func (m *memory) Get(ctx context.Context, id string, owners ...string) (*game.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	for _, o := range owners {
		if o != "" && o == e.owner {
			return e.session, nil
		}
	}
	return nil, ErrNotFound
}

func (m *memory) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}
