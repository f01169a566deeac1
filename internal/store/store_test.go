package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/riddler/internal/game"
)

func sampleSession(t *testing.T) *game.Session {
	t.Helper()
	s := game.NewSession(2, time.Date(2026, 10, 17, 9, 30, 15, 123456789, time.FixedZone("CEST", 2*3600)))
	require.NoError(t, s.SetRiddle("The more you take, the more you leave behind. What am I?"))
	s.Transcript.AppendExchange("Craft an extremely challenging riddle", s.CurrentRiddle)
	s.UseHint()
	s.Transcript.AppendExchange("XYZ", "Look behind you, seeker.")
	s.BeginGuess()
	s.Transcript.AppendExchange("Here is the user's answer: footsteps", "yes")
	s.Award()
	return s
}

func TestFile_RoundTrip(t *testing.T) {
	ctx := context.Background()
	f := NewFile(filepath.Join(t.TempDir(), "nested", "riddler_save.json"))
	in := sampleSession(t)

	require.NoError(t, f.Save(ctx, in))
	out, err := f.Load(ctx)
	require.NoError(t, err)
	if diff := cmp.Diff(in, out); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
	require.Equal(t, 40, out.Score)

	ok, err := f.Exists(ctx)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestFile_MissingSlotIsDefault(t *testing.T) {
	ctx := context.Background()
	f := NewFile(filepath.Join(t.TempDir(), "none.json"))

	ok, err := f.Exists(ctx)
	require.NoError(t, err)
	require.False(t, ok)

	s, err := f.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, game.Medium, s.Difficulty)
	require.False(t, s.HasRiddle())
	require.True(t, s.Transcript.IsEmpty())
	require.False(t, s.StartedAt.IsZero())
}

func TestFile_CorruptSlot(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "save.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"difficulty": 1, "current_riddle": "half`), 0o644))

	_, err := NewFile(path).Load(ctx)
	require.ErrorIs(t, err, ErrCorruptSave)
	var ce *CorruptSaveError
	require.True(t, errors.As(err, &ce))
	require.Equal(t, path, ce.Path)
}

func TestFile_InterruptedSaveLeavesPreviousSlot(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	path := filepath.Join(dir, "save.json")
	f := NewFile(path)
	prev := sampleSession(t)
	require.NoError(t, f.Save(ctx, prev))

	// A save killed before the rename leaves only a partial temp file behind.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "save.json.12345.tmp"), []byte(`{"difficulty":`), 0o644))

	got, err := f.Load(ctx)
	require.NoError(t, err)
	require.Empty(t, cmp.Diff(prev, got))

	// The next save still succeeds and replaces the slot.
	next := game.NewSession(0, time.Now())
	require.NoError(t, f.Save(ctx, next))
	got, err = f.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, game.Easy, got.Difficulty)
}

func TestFile_SaveLeavesNoTempFiles(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	f := NewFile(filepath.Join(dir, "save.json"))
	require.NoError(t, f.Save(ctx, sampleSession(t)))
	require.NoError(t, f.Save(ctx, sampleSession(t)))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "save.json", entries[0].Name())
}

func TestFile_SaveFailureIsPersistenceError(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "not-a-dir")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))

	err := NewFile(filepath.Join(blocker, "save.json")).Save(context.Background(), sampleSession(t))
	var pe *PersistenceError
	require.True(t, errors.As(err, &pe))
}

func TestMemory_CopiesAndFailNext(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	s := sampleSession(t)
	require.NoError(t, m.Save(ctx, s))

	s.Transcript.AppendExchange("later", "mutation")
	got, err := m.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, 6, got.Transcript.Len())

	m.FailNext(nil)
	err = m.Save(ctx, s)
	var pe *PersistenceError
	require.True(t, errors.As(err, &pe))
	require.Equal(t, 1, m.Saves())

	got, err = m.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, 6, got.Transcript.Len())
}
