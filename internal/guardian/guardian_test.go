package guardian

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/riddler/internal/completion"
	"github.com/robalobadob/riddler/internal/game"
	"github.com/robalobadob/riddler/internal/prompts"
	"github.com/robalobadob/riddler/internal/store"
)

func newGuardian(t *testing.T, replies ...string) (*Guardian, *completion.Scripted, *store.Memory) {
	t.Helper()
	p, err := prompts.Default()
	require.NoError(t, err)
	c := completion.NewScripted(replies...)
	m := store.NewMemory()
	fixed := time.Date(2026, 10, 17, 8, 0, 0, 0, time.UTC)
	return New(c, m, p).WithClock(func() time.Time { return fixed }), c, m
}

func TestEndToEnd(t *testing.T) {
	ctx := context.Background()
	g, c, m := newGuardian(t, "What has roots nobody sees?", "It rises higher than trees.", "no", "yes")

	s, riddle, err := g.StartNewGame(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, "What has roots nobody sees?", riddle)
	require.Equal(t, riddle, s.CurrentRiddle)
	require.Equal(t, game.Medium, s.Difficulty)
	require.Zero(t, s.Attempts)
	require.Zero(t, s.HintsUsed)
	require.Zero(t, s.Score)

	hint, err := g.RequestHint(ctx, s)
	require.NoError(t, err)
	require.Equal(t, "It rises higher than trees.", hint)
	require.Equal(t, 1, s.HintsUsed)

	j, err := g.CheckGuess(ctx, s, "wrong")
	require.NoError(t, err)
	require.False(t, j.Correct)
	require.Equal(t, 1, s.Attempts)
	require.Zero(t, s.Score)

	j, err = g.CheckGuess(ctx, s, "right")
	require.NoError(t, err)
	require.True(t, j.Correct)
	require.Equal(t, 2, s.Attempts)
	require.Equal(t, 10, j.Points)
	require.Equal(t, 10, s.Score)
	require.Equal(t, 8, s.Transcript.Len())

	// Each call saw exactly the transcript accumulated before it.
	calls := c.Calls()
	require.Len(t, calls, 4)
	for i, call := range calls {
		require.Len(t, call.History, 2*i)
	}
	require.Equal(t, "XYZ", calls[1].Prompt)
	require.Contains(t, calls[2].Prompt, "Here is the user's answer: wrong")

	saved, err := m.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, 10, saved.Score)
	require.Equal(t, 4, m.Saves())
}

func TestStartNewGame_InvalidDifficultyIsMedium(t *testing.T) {
	g, c, _ := newGuardian(t, "riddle")
	s, _, err := g.StartNewGame(context.Background(), 9)
	require.NoError(t, err)
	require.Equal(t, game.Medium, s.Difficulty)
	require.Equal(t, "Create a moderately challenging riddle that requires some thought.", c.Calls()[0].Prompt)
	require.Empty(t, c.Calls()[0].History)
}

func TestStartNewGame_Failure(t *testing.T) {
	g, c, m := newGuardian(t)
	c.Fail(errors.New("connection refused"))

	s, _, err := g.StartNewGame(context.Background(), 0)
	require.Nil(t, s)
	require.ErrorIs(t, err, ErrGuardianUnavailable)
	var se *completion.ServiceError
	require.True(t, errors.As(err, &se), "cause is kept for display")
	require.Zero(t, m.Saves())
}

func TestRequestHint_FailureKeepsHintCountOnly(t *testing.T) {
	ctx := context.Background()
	g, c, m := newGuardian(t, "riddle")
	s, _, err := g.StartNewGame(ctx, 2)
	require.NoError(t, err)
	before, err := m.Load(ctx)
	require.NoError(t, err)

	c.Fail(errors.New("quota exceeded"))
	_, err = g.RequestHint(ctx, s)
	require.ErrorIs(t, err, ErrGuardianUnavailable)

	require.Equal(t, 1, s.HintsUsed)
	require.Equal(t, 2, s.Transcript.Len())
	after, err := m.Load(ctx)
	require.NoError(t, err)
	require.Zero(t, after.HintsUsed)
	require.True(t, before.Transcript.Equal(after.Transcript))
	require.Equal(t, 1, m.Saves())
}

func TestCheckGuess_JudgementParsing(t *testing.T) {
	cases := map[string]bool{
		"yes":      true,
		"Yes.":     true,
		" yes. ":   true,
		"no":       false,
		"":         false,
		"maybe":    false,
		"Yes, but": false,
	}
	for reply, want := range cases {
		g, _, _ := newGuardian(t, "riddle", reply)
		s, _, err := g.StartNewGame(context.Background(), 1)
		require.NoError(t, err)
		j, err := g.CheckGuess(context.Background(), s, "guess")
		require.NoError(t, err, "reply %q", reply)
		require.Equal(t, want, j.Correct, "reply %q", reply)
		require.Equal(t, reply, j.Text)
		if want {
			require.Equal(t, 25, s.Score)
		} else {
			require.Zero(t, s.Score)
		}
	}
}

func TestPersistenceFailureKeepsMutation(t *testing.T) {
	ctx := context.Background()
	g, _, m := newGuardian(t, "riddle", "yes", "the insight")
	s, _, err := g.StartNewGame(ctx, 0)
	require.NoError(t, err)

	m.FailNext(nil)
	j, err := g.CheckGuess(ctx, s, "answer")
	var pe *store.PersistenceError
	require.True(t, errors.As(err, &pe))
	require.True(t, j.Correct)
	require.Equal(t, 10, s.Score)
	require.Equal(t, 4, s.Transcript.Len())

	insight, err := g.RevealInsight(ctx, s)
	require.NoError(t, err)
	require.Equal(t, "the insight", insight)
	saved, err := m.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, 10, saved.Score)
	require.Equal(t, 6, saved.Transcript.Len())
}

func TestStartNewGame_BlankRiddleLeavesSlotAlone(t *testing.T) {
	ctx := context.Background()
	g, c, m := newGuardian(t, "first riddle")
	_, _, err := g.StartNewGame(ctx, 0)
	require.NoError(t, err)

	c.Push(" \t ")
	s, riddle, err := g.StartNewGame(ctx, 2)
	require.Nil(t, s)
	require.Empty(t, riddle)
	require.ErrorIs(t, err, ErrGuardianUnavailable)
	require.ErrorContains(t, err, "empty riddle")

	require.Equal(t, 1, m.Saves())
	saved, err := m.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, "first riddle", saved.CurrentRiddle)
}

func TestReplyIsMadeValidUTF8(t *testing.T) {
	g, _, _ := newGuardian(t, "riddle", "caf\xe9")
	s, _, err := g.StartNewGame(context.Background(), 1)
	require.NoError(t, err)
	hint, err := g.RequestHint(context.Background(), s)
	require.NoError(t, err)
	require.Equal(t, "caf\uFFFD", hint)
	require.Equal(t, hint, s.Transcript.Snapshot()[3].Text)
}
