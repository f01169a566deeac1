// internal/completion/completion.go
//
// The conversational completion capability the guardian talks to.
// Responsibilities:
//   - Define Completer: complete(prompt, history) -> reply text.
//   - Define ServiceError, the single failure kind every backend reports.
//
// Backends:
//   - OpenAI: chat completions via go-openai (openai.go).
//   - Gemini: Google GenAI SDK (gemini.go).
//   - Scripted: queued replies for tests and offline play (scripted.go).
//
// Every call is self-contained: the full history is passed in, no backend
// keeps conversation state between calls.
package completion

import (
	"context"
	"fmt"

	"github.com/robalobadob/riddler/internal/game"
)

// Completer produces the guardian's reply to prompt, given the transcript so far.
type Completer interface {
	Complete(ctx context.Context, prompt string, history []game.Turn) (string, error)
}

// ServiceError reports that the completion service was unreachable or
// rejected the call. Callers treat every ServiceError the same way.
type ServiceError struct {
	Provider string
	Status   int // HTTP status when the provider answered, else 0
	Err      error
}

func (e *ServiceError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: status %d: %v", e.Provider, e.Status, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Provider, e.Err)
}

func (e *ServiceError) Unwrap() error { return e.Err }
