// internal/assistant/completer.go

// Package assistant answers free-form travel card questions with an LLM and
// falls back to a canned reply whenever the model cannot be used.
package assistant

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"travel-cards/internal/config"
)

// Completer produces one model answer for a system prompt and a user message.
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

type Params struct {
	Model       string
	MaxTokens   int
	Temperature float32
}

// NewCompleter builds the completer for the configured provider. It returns
// nil without an error when the provider has no API key; the assistant then
// answers with the fallback text.
func NewCompleter(ctx context.Context, cfg config.Config, httpClient *http.Client) (Completer, error) {
	switch cfg.LLMProvider {
	case "openai":
		if cfg.OpenAIKey == "" {
			slog.Warn("OPENAI_API_KEY not set, chat answers will use the fallback text")
			return nil, nil
		}
		return NewOpenAICompleter(cfg.OpenAIURL, cfg.OpenAIKey, Params{
			Model:       cfg.OpenAIModel,
			MaxTokens:   cfg.LLMMaxTokens,
			Temperature: cfg.LLMTemperature,
		}, httpClient), nil
	case "gemini":
		if cfg.GeminiKey == "" {
			slog.Warn("GEMINI_API_KEY not set, chat answers will use the fallback text")
			return nil, nil
		}
		g, err := NewGeminiCompleter(ctx, cfg.GeminiKey, Params{
			Model:       cfg.GeminiModel,
			MaxTokens:   cfg.LLMMaxTokens,
			Temperature: cfg.LLMTemperature,
		}, httpClient)
		if err != nil {
			return nil, err
		}
		return g, nil
	case "none", "":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown LLM provider %q", cfg.LLMProvider)
	}
}
