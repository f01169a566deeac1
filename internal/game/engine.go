// internal/game/engine.go
//
// Session state and the rules that mutate it.
// Responsibilities:
//   - Create fresh and default sessions.
//   - Count attempts and hints, award points on a solve.
//   - Score solves (base by difficulty minus attempt and hint penalties).
//   - Parse the guardian's yes/no judgement.
//   - Strict decoding and validation of persisted sessions.
//
// Notes:
//   - Nothing here talks to the completion service or the disk; the guardian
//     package drives these methods and persists the result.
package game

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"

	"github.com/pkg/errors"
)

const (
	attemptPenalty = 5
	hintPenalty    = 10
)

// ErrRiddleSet is returned when a session's riddle would be overwritten.
var ErrRiddleSet = errors.New("riddle already set for this session")

// ErrEmptyRiddle is returned when a blank riddle would be stored.
var ErrEmptyRiddle = errors.New("riddle is empty")

// Session is the full state of one riddle game.
type Session struct {
	Difficulty    Difficulty `json:"difficulty"`
	CurrentRiddle string     `json:"current_riddle"`
	Attempts      int        `json:"attempts"`
	HintsUsed     int        `json:"hints_used"`
	Transcript    Transcript `json:"transcript"`
	Score         int        `json:"score"`
	StartedAt     time.Time  `json:"date_started"`
}

// NewSession returns a zeroed session at the given tier.
// Out-of-range difficulties fall back to Medium.
func NewSession(d int, now time.Time) *Session {
	return &Session{
		Difficulty: NormalizeDifficulty(d),
		StartedAt:  now.Round(0).UTC(),
	}
}

// DefaultSession is what a process starts with before any game is played.
func DefaultSession(now time.Time) *Session {
	return NewSession(int(Medium), now)
}

// HasRiddle reports whether a riddle has been generated for this session.
func (s *Session) HasRiddle() bool { return strings.TrimSpace(s.CurrentRiddle) != "" }

// SetRiddle fixes the session's riddle. It can only happen once, and never
// to a blank string.
func (s *Session) SetRiddle(riddle string) error {
	if s.HasRiddle() {
		return ErrRiddleSet
	}
	if strings.TrimSpace(riddle) == "" {
		return ErrEmptyRiddle
	}
	s.CurrentRiddle = riddle
	return nil
}

// UseHint counts a granted hint.
func (s *Session) UseHint() { s.HintsUsed++ }

// BeginGuess counts a submitted guess.
func (s *Session) BeginGuess() { s.Attempts++ }

// Award adds the score for solving with the current counters and returns it.
func (s *Session) Award() int {
	pts := Score(s.Difficulty, s.Attempts, s.HintsUsed)
	s.Score += pts
	return pts
}

// Clone returns a deep copy.
func (s *Session) Clone() *Session {
	c := *s
	c.Transcript = Transcript{turns: s.Transcript.Snapshot()}
	return &c
}

// Validate checks the invariants a persisted session must satisfy.
func (s *Session) Validate() error {
	switch {
	case !s.Difficulty.Valid():
		return errors.Errorf("invalid difficulty %d", int(s.Difficulty))
	case s.Attempts < 0:
		return errors.Errorf("negative attempts %d", s.Attempts)
	case s.HintsUsed < 0:
		return errors.Errorf("negative hints_used %d", s.HintsUsed)
	case s.Score < 0:
		return errors.Errorf("negative score %d", s.Score)
	case s.StartedAt.IsZero():
		return errors.New("missing date_started")
	}
	return nil
}

// DecodeSession parses a persisted session. Unknown fields, trailing data
// and invariant violations are all rejected.
func DecodeSession(data []byte) (*Session, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	var s Session
	if err := dec.Decode(&s); err != nil {
		return nil, errors.Wrap(err, "decode session")
	}
	if dec.More() {
		return nil, errors.New("decode session: trailing data")
	}
	if err := s.Validate(); err != nil {
		return nil, errors.Wrap(err, "validate session")
	}
	return &s, nil
}

// Score computes the points for a solve.
//
// Base by difficulty: easy 10, medium 25, hard 50 (anything else 25).
// The first attempt is free, each further attempt costs 5, each hint 10.
// The result never drops below zero.
func Score(d Difficulty, attempts, hints int) int {
	base := 25
	switch d {
	case Easy:
		base = 10
	case Medium:
		base = 25
	case Hard:
		base = 50
	}
	extra := attempts - 1
	if extra < 0 {
		extra = 0
	}
	pts := base - extra*attemptPenalty - hints*hintPenalty
	if pts < 0 {
		return 0
	}
	return pts
}

// IsAffirmative reports whether a judgement accepts the guess.
// Only "yes" and "yes." count, ignoring case and surrounding whitespace.
func IsAffirmative(judgement string) bool {
	j := strings.ToLower(strings.TrimSpace(judgement))
	return j == "yes" || j == "yes."
}
