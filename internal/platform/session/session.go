// Package session tracks which user is signed in to this process.
package session

import (
	"context"
	"sync"

	"cardenal_backend/internal/feature/users/domain/entity"
)

// Store persists the current user id so it survives a process restart.
type Store interface {
	// Load returns the persisted id, or nil when none is stored.
	Load(ctx context.Context) (*int64, error)
	// Save persists id.
	Save(ctx context.Context, id int64) error
	// Delete removes the persisted id.
	Delete(ctx context.Context) error
}

// Manager holds the current user id in memory, optionally mirrored to a Store.
// When no id is held in memory, CurrentUserID consults the Store once.
type Manager struct {
	mu      sync.Mutex
	store   Store
	current *int64
	loaded  bool
}

// NewManager creates a Manager. store may be nil for a memory-only session.
func NewManager(store Store) *Manager {
	return &Manager{store: store}
}

// SetCurrent records user as signed in. A nil user clears the session.
func (m *Manager) SetCurrent(ctx context.Context, user *entity.User) error {
	if user == nil {
		return m.Clear(ctx)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.store != nil {
		if err := m.store.Save(ctx, user.ID); err != nil {
			return err
		}
	}
	id := user.ID
	m.current = &id
	m.loaded = true
	return nil
}

// CurrentUserID returns the signed-in user id, or nil when nobody is signed in.
func (m *Manager) CurrentUserID(ctx context.Context) (*int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current == nil && !m.loaded && m.store != nil {
		id, err := m.store.Load(ctx)
		if err != nil {
			return nil, err
		}
		m.current = id
		m.loaded = true
	}
	if m.current == nil {
		return nil, nil
	}
	id := *m.current
	return &id, nil
}

// Clear signs the current user out.
func (m *Manager) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.store != nil {
		if err := m.store.Delete(ctx); err != nil {
			return err
		}
	}
	m.current = nil
	m.loaded = true
	return nil
}
