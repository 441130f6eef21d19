// internal/cardgenius/client.go

// Package cardgenius talks to the card recommendation (scoring) API.
package cardgenius

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

const target = "recommendation"

// Payload is the request body of the scoring API. SelectedCardID is always
// sent as null.
type Payload struct {
	HotelsAnnual                      float64  `json:"hotels_annual"`
	FlightsAnnual                     float64  `json:"flights_annual"`
	DomesticLoungeUsageQuarterly      float64  `json:"domestic_lounge_usage_quarterly"`
	InternationalLoungeUsageQuarterly float64  `json:"international_lounge_usage_quarterly"`
	RailwayLoungeUsageQuarterly       *float64 `json:"railway_lounge_usage_quarterly,omitempty"`
	SelectedCardID                    *int     `json:"selected_card_id"`
}

// BuildPayload maps preferences onto the API's field names. Values are
// forwarded as they are.
func BuildPayload(prefs domain.UserPreferences) Payload {
	return Payload{
		HotelsAnnual:                      prefs.HotelsAnnual,
		FlightsAnnual:                     prefs.FlightsAnnual,
		DomesticLoungeUsageQuarterly:      prefs.DomesticLoungeUsageQuarterly,
		InternationalLoungeUsageQuarterly: prefs.InternationalLoungeUsageQuarterly,
		RailwayLoungeUsageQuarterly:       prefs.RailwayLoungeUsageQuarterly,
	}
}

type response struct {
	Savings []domain.CardRecommendation `json:"savings"`
}

// StatusError is returned when the API answers with a non-2xx status.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("recommendation API status %d: %s", e.StatusCode, e.Body)
}

type Client struct {
	url        string
	httpClient *http.Client
}

func NewClient(url string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{url: url, httpClient: httpClient}
}

// Recommend posts the visitor's profile and returns the scored cards in the
// API's ranking order. A response without "savings" is an empty list.
// Failures are not retried.
func (c *Client) Recommend(ctx context.Context, prefs domain.UserPreferences) ([]domain.CardRecommendation, error) {
	start := time.Now()
	defer func() { metrics.UpstreamDuration.WithLabelValues(target).Observe(time.Since(start).Seconds()) }()

	body, err := json.Marshal(BuildPayload(prefs))
	if err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.UpstreamRequestsTotal.WithLabelValues(target, metrics.OutcomeTransport).Inc()
		return nil, fmt.Errorf("call recommendation API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		metrics.UpstreamRequestsTotal.WithLabelValues(target, metrics.OutcomeStatus).Inc()
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: string(snippet)}
	}

	var out response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		metrics.UpstreamRequestsTotal.WithLabelValues(target, metrics.OutcomeDecode).Inc()
		return nil, fmt.Errorf("decode recommendation response: %w", err)
	}
	metrics.UpstreamRequestsTotal.WithLabelValues(target, metrics.OutcomeOK).Inc()

	if out.Savings == nil {
		return []domain.CardRecommendation{}, nil
	}
	return out.Savings, nil
}
