// internal/assistant/service.go
package assistant

import (
	"context"
	"log/slog"
	"strings"

	"travel-cards/internal/metrics"
)

const (
	FallbackReply = "Sorry, I'm having trouble right now. Feel free to ask me about travel credit cards, cashback offers, or any travel-related questions! ✈️"
	RephraseReply = "I'm here to help with travel card questions! Could you please rephrase your question?"
)

const systemPrompt = `You are Aly Hajiani's AI assistant, an expert in travel credit cards, cashback deals, and travel hacking.

Your personality:
- Friendly, knowledgeable, and enthusiastic about travel
- Provide practical, actionable advice
- Focus on travel credit cards, lounge access, cashback, and travel deals
- Keep responses concise but informative
- Use travel and credit card emojis appropriately
- Always mention specific benefits like "no forex fees", "lounge access", "travel insurance"

Your expertise includes:
- Travel credit card recommendations
- Cashback and reward optimization
- Airport lounge access strategies
- Travel insurance benefits
- Foreign exchange savings
- Hotel and flight booking strategies
- Credit card approval tips
- Annual fee vs benefits analysis

Keep responses under 150 words and always be helpful and encouraging about travel goals.`

// catalogCards is how many catalog cards are summarised into the prompt.
const catalogCards = 5

type CatalogContext interface {
	ContextSnippet(ctx context.Context, n int) (string, error)
}

type Service struct {
	completer Completer
	catalog   CatalogContext
}

// NewService accepts a nil completer (always fall back) and a nil catalog
// (no catalog context in the prompt).
func NewService(completer Completer, catalog CatalogContext) *Service {
	return &Service{completer: completer, catalog: catalog}
}

// Reply answers message. It never fails: when the model is unavailable the
// fallback text is returned and degraded is true.
func (s *Service) Reply(ctx context.Context, msg string) (reply string, degraded bool) {
	if s.completer == nil {
		metrics.ChatRepliesTotal.WithLabelValues("fallback").Inc()
		return FallbackReply, true
	}

	answer, err := s.completer.Complete(ctx, s.prompt(ctx), msg)
	if err != nil {
		slog.Error("chat completion failed", "error", err)
		metrics.ChatRepliesTotal.WithLabelValues("fallback").Inc()
		return FallbackReply, true
	}

	answer = strings.TrimSpace(answer)
	if answer == "" {
		metrics.ChatRepliesTotal.WithLabelValues("empty").Inc()
		return RephraseReply, false
	}
	metrics.ChatRepliesTotal.WithLabelValues("model").Inc()
	return answer, false
}

func (s *Service) prompt(ctx context.Context) string {
	if s.catalog == nil {
		return systemPrompt
	}
	snippet, err := s.catalog.ContextSnippet(ctx, catalogCards)
	if err != nil {
		slog.Warn("chat prompt without catalog context", "error", err)
		return systemPrompt
	}
	if snippet == "" {
		return systemPrompt
	}
	return systemPrompt + "\n\nWhen it helps, refer to these cards by name.\n" + snippet
}
