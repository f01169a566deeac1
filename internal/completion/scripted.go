// internal/completion/scripted.go
//
// Scripted backend for tests and offline play.
// Responsibilities:
//   - Serve queued replies and failures in FIFO order.
//   - Record every call (prompt + history) for assertions.
//   - NewOffline: one built-in riddle so the game runs without a provider.

package completion

import (
	"context"
	"strings"
	"sync"

	"github.com/pkg/errors"

	"github.com/robalobadob/riddler/internal/game"
)

const providerScripted = "scripted"

// Call records one request made to a Scripted completer.
type Call struct {
	Prompt  string
	History []game.Turn
}

type step struct {
	reply string
	err   error
}

// Scripted answers from a queue of canned replies. When the queue is empty
// it falls back to Fallback, or fails if none is set.
type Scripted struct {
	mu       sync.Mutex
	queue    []step
	calls    []Call
	Fallback func(prompt string, history []game.Turn) string
}

var _ Completer = (*Scripted)(nil)

// NewScripted queues the given replies in order.
func NewScripted(replies ...string) *Scripted {
	s := &Scripted{}
	for _, r := range replies {
		s.Push(r)
	}
	return s
}

// Push queues a reply.
func (s *Scripted) Push(reply string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queue = append(s.queue, step{reply: reply})
}

// Fail queues a failure; the next call returns it wrapped in a ServiceError.
func (s *Scripted) Fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queue = append(s.queue, step{err: err})
}

// Calls returns every request seen so far.
func (s *Scripted) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Call, len(s.calls))
	copy(out, s.calls)
	return out
}

func (s *Scripted) Complete(_ context.Context, prompt string, history []game.Turn) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, Call{Prompt: prompt, History: history})

	if len(s.queue) == 0 {
		if s.Fallback != nil {
			return s.Fallback(prompt, history), nil
		}
		return "", &ServiceError{Provider: providerScripted, Err: errors.New("no scripted reply left")}
	}
	next := s.queue[0]
	s.queue = s.queue[1:]
	if next.err != nil {
		return "", &ServiceError{Provider: providerScripted, Err: next.err}
	}
	return next.reply, nil
}

const (
	offlineRiddle  = "I have keys but open no locks. I have space but hold no room. You may enter, yet never go inside. What am I?"
	offlineAnswer  = "keyboard"
	offlineHint    = "Your fingers already rest upon the answer, seeker."
	offlineInsight = "The tools we touch every day hold the oldest secrets: every word you have ever typed passed through the keys of this humble guardian."
)

// NewOffline returns a Scripted completer that plays one fixed riddle
// without any network access.
func NewOffline(hintCode string) *Scripted {
	s := &Scripted{}
	s.Fallback = func(prompt string, history []game.Turn) string {
		p := strings.ToLower(prompt)
		switch {
		case len(history) == 0:
			return offlineRiddle
		case strings.TrimSpace(prompt) == hintCode:
			return offlineHint
		case strings.Contains(p, `"yes" or "no"`):
			if strings.Contains(p, offlineAnswer) {
				return "yes"
			}
			return "no"
		default:
			return offlineInsight
		}
	}
	return s
}
