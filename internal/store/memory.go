// internal/store/memory.go
//
// In-memory implementation of the Store interface.
// Used by tests and by `riddler play --no-save`.
//
// Characteristics:
//   - Keeps a deep copy of the last saved session, so later mutation of the
//     caller's session does not leak into the slot.
//   - Concurrency-safe via RWMutex.
//   - FailNext makes the next Save return a PersistenceError.
//   - State is lost when the process restarts.

package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/robalobadob/riddler/internal/game"
)

// Memory is a single-slot Store held in process memory.
type Memory struct {
	mu       sync.RWMutex
	slot     *game.Session
	saves    int
	failNext error
}

var _ Store = (*Memory)(nil)

func NewMemory() *Memory { return &Memory{} }

// Save stores a copy of s.
func (m *Memory) Save(_ context.Context, s *game.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failNext; err != nil {
		m.failNext = nil
		return &PersistenceError{Path: "memory", Op: "write", Err: err}
	}
	m.slot = s.Clone()
	m.saves++
	return nil
}

// Load returns a copy of the slot, or a default session if empty.
func (m *Memory) Load(_ context.Context) (*game.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.slot == nil {
		return game.DefaultSession(time.Now()), nil
	}
	return m.slot.Clone(), nil
}

func (m *Memory) Exists(_ context.Context) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.slot != nil, nil
}

// Saves reports how many saves succeeded.
func (m *Memory) Saves() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.saves
}

// FailNext makes the next Save fail with err (a generic error if nil).
func (m *Memory) FailNext(err error) {
	if err == nil {
		err = errors.New("disk full")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failNext = err
}
