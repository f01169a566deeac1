// internal/controller/controller.go
//
// Session controller: sequences guardian turns through the menu/riddle
// state machine.
//
//	main_menu ─start→ difficulty_select ─difficulty→ active_riddle
//	main_menu ─continue→ active_riddle | no_saved_game
//	main_menu ─instructions→ instructions ─back→ main_menu
//	active_riddle ─answer "hint"/"riddle"/wrong guess→ active_riddle
//	active_riddle ─answer correct→ solved ─(insight)→ play_again
//	play_again ─again→ difficulty_select | quit
//	any ─quit→ quit (terminal)
//
// The controller owns exactly one session and processes one intent at a
// time. It persists nothing itself; the guardian saves after every turn.
package controller

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/riddler/internal/game"
	"github.com/robalobadob/riddler/internal/guardian"
	"github.com/robalobadob/riddler/internal/records"
	"github.com/robalobadob/riddler/internal/store"
)

// ErrInvalidIntent is returned for intents the current state does not accept.
var ErrInvalidIntent = errors.New("invalid intent")

const (
	keywordHint   = "hint"
	keywordRiddle = "riddle"
)

// Recorder receives one record per solved riddle.
type Recorder interface {
	Insert(ctx context.Context, r records.Record) (records.Record, error)
}

// Option configures a Controller.
type Option func(*Controller)

// WithRecorder logs solves to r. Failures are logged and otherwise ignored.
func WithRecorder(r Recorder) Option {
	return func(c *Controller) { c.recorder = r }
}

// WithInstructions sets the text returned for the instructions screen.
func WithInstructions(lines []string) Option {
	return func(c *Controller) { c.instructions = strings.Join(lines, "\n") }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// Controller is the game state machine.
type Controller struct {
	guardian     *guardian.Guardian
	recorder     Recorder
	instructions string
	now          func() time.Time

	state   State
	session *game.Session
}

// New returns a controller at the main menu holding a default session.
func New(g *guardian.Guardian, opts ...Option) *Controller {
	c := &Controller{guardian: g, now: time.Now, state: StateMainMenu}
	for _, o := range opts {
		o(c)
	}
	c.session = game.DefaultSession(c.now())
	return c
}

func (c *Controller) State() State { return c.state }

// Snapshot returns the current session counters.
func (c *Controller) Snapshot() Snapshot { return snapshotOf(c.session) }

// Current returns a result describing the current state without acting.
func (c *Controller) Current() Result { return c.result(kindFor(c.state)) }

// Dispatch applies one intent. The returned Result always describes the
// state after the call; err explains why the intent did not complete.
func (c *Controller) Dispatch(ctx context.Context, in Intent) (Result, error) {
	if c.state == StateQuit {
		return c.result(KindFarewell), c.invalid(in)
	}
	if in.Kind == IntentQuit {
		c.state = StateQuit
		return c.result(KindFarewell), nil
	}

	switch c.state {
	case StateMainMenu:
		switch in.Kind {
		case IntentStart:
			c.state = StateDifficultySelect
			return c.result(KindDifficultyMenu), nil
		case IntentContinue:
			return c.continueSaved(ctx)
		case IntentInstructions:
			c.state = StateInstructions
			r := c.result(KindInstructions)
			r.Text = c.instructions
			return r, nil
		}
	case StateDifficultySelect:
		switch in.Kind {
		case IntentDifficulty:
			return c.startGame(ctx, in.Difficulty)
		case IntentBack:
			c.state = StateMainMenu
			return c.result(KindMenu), nil
		}
	case StateActiveRiddle:
		if in.Kind == IntentAnswer {
			return c.answer(ctx, in.Text)
		}
	case StateSolved:
		if in.Kind == IntentInsight {
			return c.revealInsight(ctx, Result{})
		}
	case StatePlayAgain:
		if in.Kind == IntentPlayAgain {
			if in.Again {
				c.state = StateDifficultySelect
				return c.result(KindDifficultyMenu), nil
			}
			c.state = StateQuit
			return c.result(KindFarewell), nil
		}
	case StateInstructions, StateNoSavedGame:
		if in.Kind == IntentBack {
			c.state = StateMainMenu
			return c.result(KindMenu), nil
		}
	}
	return c.result(kindFor(c.state)), c.invalid(in)
}

func (c *Controller) continueSaved(ctx context.Context) (Result, error) {
	st := c.guardian.Store()
	ok, err := st.Exists(ctx)
	if err != nil {
		return c.result(KindMenu), err
	}
	if !ok {
		c.state = StateNoSavedGame
		return c.result(KindNoSavedGame), nil
	}
	s, err := st.Load(ctx)
	if err != nil {
		if errors.Is(err, store.ErrCorruptSave) {
			log.Warn().Err(err).Msg("saved game is corrupt")
		}
		return c.result(KindMenu), err
	}
	if !s.HasRiddle() {
		c.state = StateNoSavedGame
		return c.result(KindNoSavedGame), nil
	}
	c.session = s
	c.state = StateActiveRiddle
	r := c.result(KindRiddle)
	r.Text = s.CurrentRiddle
	return r, nil
}

func (c *Controller) startGame(ctx context.Context, d int) (Result, error) {
	s, riddle, err := c.guardian.StartNewGame(ctx, d)
	if s == nil {
		return c.result(KindDifficultyMenu), err
	}
	c.session = s
	c.state = StateActiveRiddle
	r := c.result(KindRiddle)
	r.Text = riddle
	return c.withSaveErr(r, err)
}

func (c *Controller) answer(ctx context.Context, text string) (Result, error) {
	text = strings.ToValidUTF8(strings.TrimSpace(text), "\uFFFD")
	switch strings.ToLower(text) {
	case "":
		return c.result(KindRiddle), errors.Wrap(ErrInvalidIntent, "empty answer")
	case keywordHint:
		hint, err := c.guardian.RequestHint(ctx, c.session)
		if isUnavailable(err) {
			return c.result(KindRiddle), err
		}
		r := c.result(KindHint)
		r.Text = hint
		return c.withSaveErr(r, err)
	case keywordRiddle:
		r := c.result(KindRiddleRepeat)
		r.Text = c.session.CurrentRiddle
		return r, nil
	}

	j, err := c.guardian.CheckGuess(ctx, c.session, text)
	if isUnavailable(err) {
		return c.result(KindRiddle), err
	}
	r := c.result(KindJudgement)
	r.Correct, r.Judgement, r.Points = j.Correct, j.Text, j.Points
	if r, err = c.withSaveErr(r, err); err != nil || !j.Correct {
		return r, err
	}

	c.state = StateSolved
	c.record(ctx, j.Points)
	return c.revealInsight(ctx, r)
}

// revealInsight asks for the insight; prev carries the judgement of the
// guess that led here so a failure can still show it.
func (c *Controller) revealInsight(ctx context.Context, prev Result) (Result, error) {
	insight, err := c.guardian.RevealInsight(ctx, c.session)
	if isUnavailable(err) {
		if prev.Kind == "" {
			prev = c.result(KindJudgement)
			prev.Correct = true
		}
		prev.State = c.state
		return prev, err
	}
	c.state = StatePlayAgain
	r := c.result(KindInsight)
	r.Text = insight
	r.Correct = true
	r.Judgement, r.Points = prev.Judgement, prev.Points
	return c.withSaveErr(r, err)
}

func (c *Controller) record(ctx context.Context, points int) {
	if c.recorder == nil {
		return
	}
	rec, err := c.recorder.Insert(ctx, records.FromSession(c.session, points, c.now()))
	if err != nil {
		log.Warn().Err(err).Msg("solve not recorded")
		return
	}
	log.Info().Str("id", rec.ID).Int("points", points).Msg("solve recorded")
}

// withSaveErr folds a persistence failure into the result; any other error
// is returned as is.
func (c *Controller) withSaveErr(r Result, err error) (Result, error) {
	if err == nil {
		return r, nil
	}
	var pe *store.PersistenceError
	if errors.As(err, &pe) {
		r.SaveErr = err
		return r, nil
	}
	return r, err
}

func (c *Controller) result(kind ResultKind) Result {
	return Result{State: c.state, Kind: kind, Session: snapshotOf(c.session)}
}

func (c *Controller) invalid(in Intent) error {
	return errors.Wrapf(ErrInvalidIntent, "%s in state %s", in.Kind, c.state)
}

func isUnavailable(err error) bool {
	return errors.Is(err, guardian.ErrGuardianUnavailable)
}

func kindFor(s State) ResultKind {
	switch s {
	case StateDifficultySelect:
		return KindDifficultyMenu
	case StateActiveRiddle:
		return KindRiddle
	case StateSolved:
		return KindJudgement
	case StatePlayAgain:
		return KindInsight
	case StateInstructions:
		return KindInstructions
	case StateNoSavedGame:
		return KindNoSavedGame
	case StateQuit:
		return KindFarewell
	default:
		return KindMenu
	}
}
