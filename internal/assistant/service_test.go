// internal/assistant/service_test.go
package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"travel-cards/internal/config"
)

type MockCompleter struct {
	mock.Mock
}

func (m *MockCompleter) Complete(ctx context.Context, system, user string) (string, error) {
	args := m.Called(ctx, system, user)
	return args.String(0), args.Error(1)
}

type stubCatalog struct {
	snippet string
	err     error
}

func (s stubCatalog) ContextSnippet(context.Context, int) (string, error) {
	return s.snippet, s.err
}

func TestReply_UsesModelAnswer(t *testing.T) {
	c := new(MockCompleter)
	c.On("Complete", mock.Anything, mock.MatchedBy(func(system string) bool {
		return strings.Contains(system, "Aly Hajiani") && strings.Contains(system, "- Atlas (Travel)")
	}), "Which card has lounge access?").Return("  Try Atlas! ✈️ ", nil)

	svc := NewService(c, stubCatalog{snippet: "Current travel credit cards in our catalog:\n- Atlas (Travel)\n"})
	reply, degraded := svc.Reply(context.Background(), "Which card has lounge access?")

	assert.Equal(t, "Try Atlas! ✈️", reply)
	assert.False(t, degraded)
	c.AssertExpectations(t)
}

func TestReply_CatalogFailureOnlyDropsContext(t *testing.T) {
	c := new(MockCompleter)
	c.On("Complete", mock.Anything, systemPrompt, "hi").Return("hello", nil)

	svc := NewService(c, stubCatalog{err: errors.New("catalog down")})
	reply, degraded := svc.Reply(context.Background(), "hi")

	assert.Equal(t, "hello", reply)
	assert.False(t, degraded)
}

func TestReply_Fallbacks(t *testing.T) {
	failing := new(MockCompleter)
	failing.On("Complete", mock.Anything, mock.Anything, mock.Anything).Return("", errors.New("timeout"))
	empty := new(MockCompleter)
	empty.On("Complete", mock.Anything, mock.Anything, mock.Anything).Return("   ", nil)

	tests := []struct {
		name         string
		completer    Completer
		wantReply    string
		wantDegraded bool
	}{
		{"no completer", nil, FallbackReply, true},
		{"completion error", failing, FallbackReply, true},
		{"empty completion", empty, RephraseReply, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reply, degraded := NewService(tt.completer, nil).Reply(context.Background(), "hello")
			assert.Equal(t, tt.wantReply, reply)
			assert.Equal(t, tt.wantDegraded, degraded)
		})
	}
}

func TestOpenAICompleter(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		var req openAIRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "gpt-4o-mini", req.Model)
		assert.Equal(t, 200, req.MaxTokens)
		assert.InDelta(t, 0.7, req.Temperature, 1e-6)
		if assert.Len(t, req.Messages, 2) {
			assert.Equal(t, "system", req.Messages[0].Role)
			assert.Equal(t, "user", req.Messages[1].Role)
			assert.Equal(t, "hi", req.Messages[1].Content)
		}
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"hello there"}}]}`))
	}))
	defer srv.Close()

	c := NewOpenAICompleter(srv.URL, "sk-test", Params{Model: "gpt-4o-mini", MaxTokens: 200, Temperature: 0.7}, srv.Client())
	out, err := c.Complete(context.Background(), "sys", "hi")
	require.NoError(t, err)
	assert.Equal(t, "hello there", out)
}

func TestOpenAICompleter_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"bad status", http.StatusTooManyRequests, `{"error":{"message":"rate limited"}}`},
		{"no choices", http.StatusOK, `{"choices":[]}`},
		{"bad json", http.StatusOK, `not json`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := NewOpenAICompleter(srv.URL, "k", Params{}, srv.Client()).Complete(context.Background(), "s", "u")
			assert.Error(t, err)
		})
	}
}

func TestNewCompleter(t *testing.T) {
	c, err := NewCompleter(context.Background(), config.Config{LLMProvider: "openai"}, nil)
	require.NoError(t, err)
	assert.Nil(t, c)

	c, err = NewCompleter(context.Background(), config.Config{LLMProvider: "openai", OpenAIKey: "k"}, nil)
	require.NoError(t, err)
	assert.IsType(t, &OpenAICompleter{}, c)

	_, err = NewCompleter(context.Background(), config.Config{LLMProvider: "claude"}, nil)
	assert.Error(t, err)
}
