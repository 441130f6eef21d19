// internal/assistant/openai.go
package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"travel-cards/internal/metrics"
)

type openAIRequest struct {
	Model       string    `json:"model"`
	Messages    []message `json:"messages"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
	Temperature float32   `json:"temperature"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIResponse struct {
	Choices []struct {
		Message message `json:"message"`
	} `json:"choices"`
}

// OpenAICompleter calls the chat completions endpoint.
type OpenAICompleter struct {
	apiURL     string
	apiKey     string
	params     Params
	httpClient *http.Client
}

func NewOpenAICompleter(apiURL, apiKey string, params Params, httpClient *http.Client) *OpenAICompleter {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &OpenAICompleter{apiURL: apiURL, apiKey: apiKey, params: params, httpClient: httpClient}
}

func (c *OpenAICompleter) Complete(ctx context.Context, system, user string) (string, error) {
	start := time.Now()
	defer func() { metrics.UpstreamDuration.WithLabelValues("openai").Observe(time.Since(start).Seconds()) }()

	reqBody := openAIRequest{
		Model: c.params.Model,
		Messages: []message{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		MaxTokens:   c.params.MaxTokens,
		Temperature: c.params.Temperature,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(jsonData))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.UpstreamRequestsTotal.WithLabelValues("openai", metrics.OutcomeTransport).Inc()
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		metrics.UpstreamRequestsTotal.WithLabelValues("openai", metrics.OutcomeStatus).Inc()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("openai API error (status %d): %s", resp.StatusCode, string(body))
	}

	var out openAIResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		metrics.UpstreamRequestsTotal.WithLabelValues("openai", metrics.OutcomeDecode).Inc()
		return "", fmt.Errorf("decode openai response: %w", err)
	}
	metrics.UpstreamRequestsTotal.WithLabelValues("openai", metrics.OutcomeOK).Inc()

	if len(out.Choices) == 0 {
		return "", fmt.Errorf("no choices in openai response")
	}
	return out.Choices[0].Message.Content, nil
}
