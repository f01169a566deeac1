// internal/completion/openai.go
//
// OpenAI-compatible chat-completions backend.
// Responsibilities:
//   - Map the preamble, transcript and prompt onto one chat request.
//   - Report every transport or API failure as a ServiceError.
//
// Built on github.com/sashabaranov/go-openai; BaseURL lets it target any
// compatible endpoint (and httptest servers in tests).

package completion

import (
	"context"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	openai "github.com/sashabaranov/go-openai"

	"github.com/robalobadob/riddler/internal/game"
)

const providerOpenAI = "openai"

// OpenAIConfig configures the chat-completions backend.
type OpenAIConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float64
	Timeout     time.Duration
	Preamble    string // sent as the system message on every call
}

// OpenAI talks to any OpenAI-compatible /chat/completions endpoint.
type OpenAI struct {
	cfg    OpenAIConfig
	client *openai.Client
}

var _ Completer = (*OpenAI)(nil)

func NewOpenAI(cfg OpenAIConfig) *OpenAI {
	if cfg.Model == "" {
		cfg.Model = openai.GPT4o
	}
	oc := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		oc.BaseURL = cfg.BaseURL
	}
	oc.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	return &OpenAI{cfg: cfg, client: openai.NewClientWithConfig(oc)}
}

func chatRole(r game.Role) string {
	if r == game.RoleAssistant {
		return openai.ChatMessageRoleAssistant
	}
	return openai.ChatMessageRoleUser
}

// Complete sends preamble, history and prompt as one request. No retries.
func (c *OpenAI) Complete(ctx context.Context, prompt string, history []game.Turn) (string, error) {
	if c.cfg.APIKey == "" {
		return "", &ServiceError{Provider: providerOpenAI, Err: errors.New("API key not configured")}
	}

	msgs := make([]openai.ChatCompletionMessage, 0, len(history)+2)
	if c.cfg.Preamble != "" {
		msgs = append(msgs, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: c.cfg.Preamble})
	}
	for _, t := range history {
		msgs = append(msgs, openai.ChatCompletionMessage{Role: chatRole(t.Role), Content: t.Text})
	}
	msgs = append(msgs, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: prompt})

	start := time.Now()
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.cfg.Model,
		Messages:    msgs,
		Temperature: float32(c.cfg.Temperature),
	})
	if err != nil {
		return "", openAIError(err)
	}
	if len(resp.Choices) == 0 {
		return "", &ServiceError{Provider: providerOpenAI, Err: errors.New("no completion returned")}
	}

	log.Debug().
		Str("provider", providerOpenAI).
		Str("model", c.cfg.Model).
		Int("history", len(history)).
		Dur("latency", time.Since(start)).
		Msg("completion")
	return resp.Choices[0].Message.Content, nil
}

func openAIError(err error) *ServiceError {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return &ServiceError{Provider: providerOpenAI, Status: apiErr.HTTPStatusCode, Err: errors.New(apiErr.Message)}
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return &ServiceError{Provider: providerOpenAI, Status: reqErr.HTTPStatusCode, Err: err}
	}
	return &ServiceError{Provider: providerOpenAI, Err: errors.Wrap(err, "request failed")}
}
