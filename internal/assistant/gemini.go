// internal/assistant/gemini.go
package assistant

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"google.golang.org/genai"

	"travel-cards/internal/metrics"
)

// GeminiCompleter calls the Gemini API through the genai SDK.
type GeminiCompleter struct {
	client *genai.Client
	params Params
}

func NewGeminiCompleter(ctx context.Context, apiKey string, params Params, httpClient *http.Client) (*GeminiCompleter, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: httpClient,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &GeminiCompleter{client: client, params: params}, nil
}

func (g *GeminiCompleter) Complete(ctx context.Context, system, user string) (string, error) {
	start := time.Now()
	defer func() { metrics.UpstreamDuration.WithLabelValues("gemini").Observe(time.Since(start).Seconds()) }()

	result, err := g.client.Models.GenerateContent(ctx, g.params.Model, genai.Text(user), &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(system, genai.RoleUser),
		Temperature:       genai.Ptr(g.params.Temperature),
		MaxOutputTokens:   int32(g.params.MaxTokens),
	})
	if err != nil {
		metrics.UpstreamRequestsTotal.WithLabelValues("gemini", metrics.OutcomeTransport).Inc()
		return "", fmt.Errorf("gemini generate content: %w", err)
	}
	metrics.UpstreamRequestsTotal.WithLabelValues("gemini", metrics.OutcomeOK).Inc()
	return result.Text(), nil
}
