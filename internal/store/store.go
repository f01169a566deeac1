// internal/store/store.go
//
// Persistence of the single save slot.
// Implementations:
//   - File: JSON document at a well-known path, atomic replace on save (file.go).
//   - Memory: process-local slot for tests and throwaway games (memory.go).
//
// Error kinds:
//   - PersistenceError: a save did not reach the slot.
//   - CorruptSaveError (matches ErrCorruptSave): the slot exists but does not parse.
// A missing slot is not an error: Load returns a default session.
package store

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"github.com/robalobadob/riddler/internal/game"
)

// Store persists exactly one session.
type Store interface {
	// Save replaces the slot with s.
	Save(ctx context.Context, s *game.Session) error

	// Load returns the slot's session, or a default session if the slot is empty.
	Load(ctx context.Context) (*game.Session, error)

	// Exists reports whether anything has been saved.
	Exists(ctx context.Context) (bool, error)
}

// ErrCorruptSave matches any CorruptSaveError.
var ErrCorruptSave = errors.New("corrupt save")

// CorruptSaveError reports an existing slot that could not be parsed.
type CorruptSaveError struct {
	Path string
	Err  error
}

func (e *CorruptSaveError) Error() string {
	return fmt.Sprintf("corrupt save %s: %v", e.Path, e.Err)
}

func (e *CorruptSaveError) Unwrap() error { return e.Err }

func (e *CorruptSaveError) Is(target error) bool { return target == ErrCorruptSave }

// PersistenceError reports a failed save. The in-memory session is unaffected.
type PersistenceError struct {
	Path string
	Op   string
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("save %s: %s: %v", e.Path, e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
