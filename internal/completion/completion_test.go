package completion

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pkg/errors"
	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/riddler/internal/game"
)

func TestOpenAI_SendsPreambleHistoryAndPrompt(t *testing.T) {
	var (
		got       openai.ChatCompletionRequest
		path, key string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path, key = r.URL.Path, r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&got)
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"yes"}}]}`))
	}))
	defer srv.Close()

	c := NewOpenAI(OpenAIConfig{APIKey: "sk-test", BaseURL: srv.URL, Model: "gpt-4o", Temperature: 0.9, Preamble: "guardian"})
	history := []game.Turn{
		{Role: game.RoleUser, Text: "make a riddle"},
		{Role: game.RoleAssistant, Text: "what walks on four legs"},
	}
	reply, err := c.Complete(context.Background(), "is it man?", history)
	require.NoError(t, err)
	require.Equal(t, "yes", reply)
	require.Equal(t, "/chat/completions", path)
	require.Equal(t, "Bearer sk-test", key)

	require.Equal(t, "gpt-4o", got.Model)
	require.InDelta(t, 0.9, got.Temperature, 1e-6)
	var sent [][2]string
	for _, m := range got.Messages {
		sent = append(sent, [2]string{m.Role, m.Content})
	}
	require.Equal(t, [][2]string{
		{"system", "guardian"},
		{"user", "make a riddle"},
		{"assistant", "what walks on four legs"},
		{"user", "is it man?"},
	}, sent)
}

func TestOpenAI_FailuresAreServiceErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"quota"}}`))
	}))
	defer srv.Close()

	c := NewOpenAI(OpenAIConfig{APIKey: "k", BaseURL: srv.URL})
	_, err := c.Complete(context.Background(), "p", nil)
	var se *ServiceError
	require.True(t, errors.As(err, &se))
	require.Equal(t, http.StatusTooManyRequests, se.Status)
	require.Equal(t, "openai", se.Provider)
	require.Contains(t, se.Error(), "quota")

	_, err = NewOpenAI(OpenAIConfig{BaseURL: srv.URL}).Complete(context.Background(), "p", nil)
	require.True(t, errors.As(err, &se), "missing key")
}

func TestOpenAI_EmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	_, err := NewOpenAI(OpenAIConfig{APIKey: "k", BaseURL: srv.URL}).Complete(context.Background(), "p", nil)
	var se *ServiceError
	require.True(t, errors.As(err, &se))
}

func TestScripted_QueueFailAndCalls(t *testing.T) {
	s := NewScripted("one")
	s.Fail(errors.New("down"))

	r, err := s.Complete(context.Background(), "a", nil)
	require.NoError(t, err)
	require.Equal(t, "one", r)

	_, err = s.Complete(context.Background(), "b", []game.Turn{{Role: game.RoleUser, Text: "a"}})
	var se *ServiceError
	require.True(t, errors.As(err, &se))
	require.EqualError(t, se.Err, "down")

	_, err = s.Complete(context.Background(), "c", nil)
	require.Error(t, err, "queue exhausted without fallback")

	calls := s.Calls()
	require.Len(t, calls, 3)
	require.Equal(t, "b", calls[1].Prompt)
	require.Len(t, calls[1].History, 1)
}

func TestOffline_PlaysOneRiddle(t *testing.T) {
	s := NewOffline("XYZ")
	ctx := context.Background()
	history := []game.Turn{{Role: game.RoleUser, Text: "riddle"}, {Role: game.RoleAssistant, Text: offlineRiddle}}

	r, err := s.Complete(ctx, "make one", nil)
	require.NoError(t, err)
	require.Equal(t, offlineRiddle, r)

	r, _ = s.Complete(ctx, "XYZ", history)
	require.Equal(t, offlineHint, r)

	r, _ = s.Complete(ctx, "Here is the user's answer: a Keyboard\nPlease answer exactly \"yes\" or \"no\"", history)
	require.True(t, game.IsAffirmative(r))

	r, _ = s.Complete(ctx, "Here is the user's answer: piano\nPlease answer exactly \"yes\" or \"no\"", history)
	require.False(t, game.IsAffirmative(r))
}
