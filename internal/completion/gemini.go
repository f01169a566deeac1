// internal/completion/gemini.go
//
// Gemini backend on google.golang.org/genai.
// Responsibilities:
//   - Send the preamble as system instruction and the transcript as contents.
//   - Report every failure as a ServiceError.

package completion

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"google.golang.org/genai"

	"github.com/robalobadob/riddler/internal/game"
)

const providerGemini = "gemini"

// GeminiConfig configures the Google GenAI backend.
type GeminiConfig struct {
	APIKey      string
	Model       string
	Temperature float64
	Timeout     time.Duration
	Preamble    string
}

// Gemini completes through Google's Gemini API.
type Gemini struct {
	client *genai.Client
	cfg    GeminiConfig
}

var _ Completer = (*Gemini)(nil)

// NewGemini creates the SDK client. It does not contact the service.
func NewGemini(ctx context.Context, cfg GeminiConfig) (*Gemini, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("gemini: API key is required")
	}
	if cfg.Model == "" {
		cfg.Model = "gemini-2.0-flash"
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, errors.Wrap(err, "gemini: create client")
	}
	return &Gemini{client: client, cfg: cfg}, nil
}

func (g *Gemini) Complete(ctx context.Context, prompt string, history []game.Turn) (string, error) {
	if g.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.cfg.Timeout)
		defer cancel()
	}

	contents := make([]*genai.Content, 0, len(history)+1)
	for _, t := range history {
		role := genai.Role(genai.RoleUser)
		if t.Role == game.RoleAssistant {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(t.Text, role))
	}
	contents = append(contents, genai.NewContentFromText(prompt, genai.RoleUser))

	cfg := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(g.cfg.Temperature)),
	}
	if g.cfg.Preamble != "" {
		cfg.SystemInstruction = genai.NewContentFromText(g.cfg.Preamble, genai.RoleUser)
	}

	start := time.Now()
	resp, err := g.client.Models.GenerateContent(ctx, g.cfg.Model, contents, cfg)
	if err != nil {
		return "", &ServiceError{Provider: providerGemini, Err: err}
	}
	if resp == nil || len(resp.Candidates) == 0 {
		return "", &ServiceError{Provider: providerGemini, Err: errors.New("no candidates returned")}
	}

	log.Debug().
		Str("provider", providerGemini).
		Str("model", g.cfg.Model).
		Int("history", len(history)).
		Dur("latency", time.Since(start)).
		Msg("completion")
	return resp.Text(), nil
}
