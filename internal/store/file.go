// internal/store/file.go
//
// File-backed save slot.
// Responsibilities:
//   - Save: write a temp file in the same directory, fsync, rename over the slot.
//   - Load: missing file → default session; unparsable → CorruptSaveError.

package store

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/riddler/internal/game"
)

// File keeps the slot as an indented JSON document on disk.
type File struct {
	path string
	now  func() time.Time
}

var _ Store = (*File)(nil)

// NewFile returns a slot at path. The file is created on first Save.
func NewFile(path string) *File {
	return &File{path: path, now: time.Now}
}

func (f *File) Path() string { return f.path }

// Save writes s to a temporary file next to the slot, flushes it, then
// renames it over the slot. A crash at any point leaves either the old or
// the new document in place.
func (f *File) Save(_ context.Context, s *game.Session) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return &PersistenceError{Path: f.path, Op: "encode", Err: err}
	}
	data = append(data, '\n')

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return &PersistenceError{Path: f.path, Op: "mkdir", Err: err}
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(f.path)+".*.tmp")
	if err != nil {
		return &PersistenceError{Path: f.path, Op: "create temp", Err: err}
	}
	tmpPath := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpPath) }

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		cleanup()
		return &PersistenceError{Path: f.path, Op: "write temp", Err: err}
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		cleanup()
		return &PersistenceError{Path: f.path, Op: "sync temp", Err: err}
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return &PersistenceError{Path: f.path, Op: "close temp", Err: err}
	}
	if err := os.Rename(tmpPath, f.path); err != nil {
		cleanup()
		return &PersistenceError{Path: f.path, Op: "rename", Err: err}
	}

	log.Debug().Str("path", f.path).Int("bytes", len(data)).Int("turns", s.Transcript.Len()).Msg("session saved")
	return nil
}

// Load reads the slot. A missing file yields a default session.
func (f *File) Load(_ context.Context) (*game.Session, error) {
	data, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		return game.DefaultSession(f.now()), nil
	}
	if err != nil {
		return nil, &PersistenceError{Path: f.path, Op: "read", Err: err}
	}
	s, err := game.DecodeSession(data)
	if err != nil {
		return nil, &CorruptSaveError{Path: f.path, Err: err}
	}
	return s, nil
}

func (f *File) Exists(_ context.Context) (bool, error) {
	_, err := os.Stat(f.path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, &PersistenceError{Path: f.path, Op: "stat", Err: err}
	}
	return true, nil
}
