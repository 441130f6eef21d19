// internal/recommend/service.go

// Package recommend turns a visitor's travel profile into the list of
// cards shown on the recommendation page.
package recommend

import (
	"context"
	"log/slog"
	"time"

	"travel-cards/internal/domain"
	"travel-cards/internal/metrics"
	"travel-cards/internal/storage"
)

const (
	SourceWeb      = "web"
	SourceTelegram = "telegram"
)

type Recommender interface {
	Recommend(ctx context.Context, prefs domain.UserPreferences) ([]domain.CardRecommendation, error)
}

type Options struct {
	// FetchWindow is how many of the API's ranked cards are considered
	// before the lounge filter. 0 keeps them all.
	FetchWindow int
	// DisplayLimit caps the cards shown after filtering.
	DisplayLimit int
}

type Service struct {
	api   Recommender
	leads storage.LeadStorage
	opts  Options
}

// NewService wires the scoring API client. leads may be nil, in which case
// nothing is recorded.
func NewService(api Recommender, leads storage.LeadStorage, opts Options) *Service {
	return &Service{api: api, leads: leads, opts: opts}
}

// Recommend fetches scored cards, keeps those meeting both lounge
// requirements in API order and classifies the outcome. An upstream
// failure is returned as is; an empty result is not an error.
func (s *Service) Recommend(ctx context.Context, prefs domain.UserPreferences, source string) (domain.Recommendation, error) {
	start := time.Now()

	cards, err := s.api.Recommend(ctx, prefs)
	if err != nil {
		metrics.RecommendationsTotal.WithLabelValues("error").Inc()
		slog.Error("recommendation API call failed", "error", err, "source", source)
		return domain.Recommendation{}, err
	}

	received := len(cards)
	cards = domain.Truncate(cards, s.opts.FetchWindow)
	filtered := domain.FilterByLoungeRequirements(cards, prefs)
	rec := domain.NewRecommendation(domain.Truncate(filtered, s.opts.DisplayLimit), s.opts.DisplayLimit)

	metrics.RecommendationsTotal.WithLabelValues(string(rec.Status)).Inc()
	slog.Info("recommendation served",
		"source", source,
		"received", received,
		"considered", len(cards),
		"passed", len(filtered),
		"shown", rec.Count,
		"status", rec.Status,
		"took", time.Since(start),
	)

	s.saveLead(ctx, prefs, rec, source)
	return rec, nil
}

func (s *Service) saveLead(ctx context.Context, prefs domain.UserPreferences, rec domain.Recommendation, source string) {
	if s.leads == nil {
		return
	}
	_, err := s.leads.SaveLead(context.WithoutCancel(ctx), domain.Lead{
		Preferences:  prefs,
		Status:       rec.Status,
		MatchedCount: rec.Count,
		Source:       source,
	})
	if err != nil {
		slog.Warn("failed to record lead", "error", err, "status", rec.Status)
	}
}
