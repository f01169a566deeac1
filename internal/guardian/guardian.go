// internal/guardian/guardian.go
//
// One guardian turn = one completion round trip.
// Every operation follows the same protocol:
//   1. build the prompt (fixed, or parameterized by difficulty / guess),
//   2. call the completer with the session's transcript so far,
//   3. on success append the (prompt, reply) pair and apply the mutation,
//   4. persist the session,
//   5. hand the reply back.
//
// Failures:
//   - Completer failure, or a blank riddle → *UnavailableError (matches
//     ErrGuardianUnavailable). Nothing is appended and nothing is saved.
//     Counters bumped before the call (hints, attempts) stay bumped.
//   - Save failure → *store.PersistenceError returned next to a valid reply.
//     The in-memory session keeps the mutation.
package guardian

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/riddler/internal/completion"
	"github.com/robalobadob/riddler/internal/game"
	"github.com/robalobadob/riddler/internal/prompts"
	"github.com/robalobadob/riddler/internal/store"
)

// ErrGuardianUnavailable matches every UnavailableError.
var ErrGuardianUnavailable = errors.New("the ancient guardian cannot respond")

var errEmptyRiddle = errors.New("empty riddle")

// UnavailableError carries the completion failure behind an aborted turn.
type UnavailableError struct {
	Op  string
	Err error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrGuardianUnavailable, e.Op, e.Err)
}

func (e *UnavailableError) Unwrap() error { return e.Err }

func (e *UnavailableError) Is(target error) bool { return target == ErrGuardianUnavailable }

// Judgement is the outcome of CheckGuess.
type Judgement struct {
	Correct bool
	Text    string // the guardian's raw reply
	Points  int    // score awarded by this guess, 0 unless Correct
}

// Guardian runs turns against a completer and persists through a store.
type Guardian struct {
	completer completion.Completer
	store     store.Store
	prompts   *prompts.Set
	now       func() time.Time
}

func New(c completion.Completer, st store.Store, p *prompts.Set) *Guardian {
	return &Guardian{completer: c, store: st, prompts: p, now: time.Now}
}

// WithClock replaces the session start clock.
func (g *Guardian) WithClock(now func() time.Time) *Guardian {
	g.now = now
	return g
}

// Store exposes the slot the guardian persists to.
func (g *Guardian) Store() store.Store { return g.store }

// StartNewGame creates a fresh session at difficulty d and asks for its riddle.
// On failure no session is returned and the slot is untouched. A blank reply
// counts as a failure.
func (g *Guardian) StartNewGame(ctx context.Context, d int) (*game.Session, string, error) {
	s := game.NewSession(d, g.now())
	prompt := g.prompts.RiddlePrompt(s.Difficulty)
	riddle, err := g.call(ctx, "start", s, prompt)
	if err != nil {
		return nil, "", err
	}
	if strings.TrimSpace(riddle) == "" {
		log.Warn().Str("op", "start").Msg("guardian returned an empty riddle")
		return nil, "", &UnavailableError{Op: "start", Err: errEmptyRiddle}
	}
	if err := s.SetRiddle(riddle); err != nil {
		return nil, "", err
	}
	g.record(s, "start", prompt, riddle)
	return s, riddle, g.persist(ctx, s)
}

// RequestHint counts the hint first, so a failed call still costs the player.
func (g *Guardian) RequestHint(ctx context.Context, s *game.Session) (string, error) {
	s.UseHint()
	hint, err := g.exchange(ctx, "hint", s, g.prompts.HintCode)
	if err != nil {
		return "", err
	}
	return hint, g.persist(ctx, s)
}

// CheckGuess counts the attempt, asks for a yes/no ruling on the literal
// guess and awards points on a yes. Malformed rulings count as no.
func (g *Guardian) CheckGuess(ctx context.Context, s *game.Session, guess string) (Judgement, error) {
	s.BeginGuess()
	reply, err := g.exchange(ctx, "judge", s, g.prompts.JudgePrompt(guess))
	if err != nil {
		return Judgement{}, err
	}
	j := Judgement{Correct: game.IsAffirmative(reply), Text: reply}
	if j.Correct {
		j.Points = s.Award()
	}
	log.Debug().Bool("correct", j.Correct).Int("attempts", s.Attempts).Int("points", j.Points).Msg("guess judged")
	return j, g.persist(ctx, s)
}

// RevealInsight asks for the promised wisdom after a solve.
func (g *Guardian) RevealInsight(ctx context.Context, s *game.Session) (string, error) {
	insight, err := g.exchange(ctx, "insight", s, g.prompts.Insight)
	if err != nil {
		return "", err
	}
	return insight, g.persist(ctx, s)
}

func (g *Guardian) exchange(ctx context.Context, op string, s *game.Session, prompt string) (string, error) {
	reply, err := g.call(ctx, op, s, prompt)
	if err != nil {
		return "", err
	}
	g.record(s, op, prompt, reply)
	return reply, nil
}

// call asks the completer without touching the transcript. Replies are
// forced to valid UTF-8 so they survive a save round trip.
func (g *Guardian) call(ctx context.Context, op string, s *game.Session, prompt string) (string, error) {
	start := time.Now()
	reply, err := g.completer.Complete(ctx, prompt, s.Transcript.Snapshot())
	if err != nil {
		log.Warn().Err(err).Str("op", op).Msg("guardian unavailable")
		return "", &UnavailableError{Op: op, Err: err}
	}
	log.Debug().Str("op", op).Dur("latency", time.Since(start)).Msg("guardian replied")
	return strings.ToValidUTF8(reply, "\uFFFD"), nil
}

func (g *Guardian) record(s *game.Session, op, prompt, reply string) {
	s.Transcript.AppendExchange(prompt, reply)
	log.Debug().Str("op", op).Int("turns", s.Transcript.Len()).Msg("guardian turn")
}

func (g *Guardian) persist(ctx context.Context, s *game.Session) error {
	if err := g.store.Save(ctx, s); err != nil {
		log.Warn().Err(err).Msg("session not saved")
		return err
	}
	return nil
}
