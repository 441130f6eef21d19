// internal/catalog/client.go

// Package catalog reads the card catalog API and serves filtered views of
// it to the pages, the bot and the chat assistant.
package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"travel-cards/internal/domain"
	"travel-cards/internal/metrics"
)

const target = "catalog"

type listRequest struct {
	Slug              string         `json:"slug"`
	BankIDs           []int          `json:"banks_ids"`
	CardNetworks      []string       `json:"card_networks"`
	AnnualFees        string         `json:"annualFees"`
	CreditScore       string         `json:"credit_score"`
	SortBy            string         `json:"sort_by"`
	FreeCards         string         `json:"free_cards"`
	EligiblityPayload map[string]any `json:"eligiblityPayload"`
	CardGeniusPayload map[string]any `json:"cardGeniusPayload"`
}

type listResponse struct {
	Data *struct {
		Cards []domain.CatalogCard `json:"cards"`
	} `json:"data"`
}

type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("catalog API status %d", e.StatusCode)
}

type Client struct {
	url        string
	slug       string
	httpClient *http.Client
}

func NewClient(url, slug string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{url: url, slug: slug, httpClient: httpClient}
}

// Fetch returns every card of the configured listing in catalog order.
func (c *Client) Fetch(ctx context.Context) ([]domain.CatalogCard, error) {
	start := time.Now()
	defer func() { metrics.UpstreamDuration.WithLabelValues(target).Observe(time.Since(start).Seconds()) }()

	body, err := json.Marshal(listRequest{
		Slug:              c.slug,
		BankIDs:           []int{},
		CardNetworks:      []string{},
		EligiblityPayload: map[string]any{},
		CardGeniusPayload: map[string]any{},
	})
	if err != nil {
		return nil, fmt.Errorf("encode catalog request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.UpstreamRequestsTotal.WithLabelValues(target, metrics.OutcomeTransport).Inc()
		return nil, fmt.Errorf("call catalog API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		metrics.UpstreamRequestsTotal.WithLabelValues(target, metrics.OutcomeStatus).Inc()
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, &StatusError{StatusCode: resp.StatusCode}
	}

	var out listResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		metrics.UpstreamRequestsTotal.WithLabelValues(target, metrics.OutcomeDecode).Inc()
		return nil, fmt.Errorf("decode catalog response: %w", err)
	}
	metrics.UpstreamRequestsTotal.WithLabelValues(target, metrics.OutcomeOK).Inc()

	if out.Data == nil || out.Data.Cards == nil {
		return []domain.CatalogCard{}, nil
	}
	return out.Data.Cards, nil
}
