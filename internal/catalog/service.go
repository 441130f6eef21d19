// internal/catalog/service.go
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"travel-cards/internal/cache"
	"travel-cards/internal/domain"
)

var ErrCardNotFound = errors.New("card not found")

type Fetcher interface {
	Fetch(ctx context.Context) ([]domain.CatalogCard, error)
}

// Listing is one filtered page of the catalog. Brands always covers the
// whole catalog so the page can offer every card type.
type Listing struct {
	Cards  []domain.CatalogCard `json:"cards"`
	Count  int                  `json:"count"`
	Total  int                  `json:"total"`
	Brands []string             `json:"brands"`
}

type Service struct {
	fetcher  Fetcher
	cache    cache.Cache
	ttl      time.Duration
	cacheKey string
	group    singleflight.Group
}

// NewService wraps fetcher with c. A nil cache or a ttl <= 0 means every
// call reaches the API; concurrent calls still share one request.
func NewService(fetcher Fetcher, c cache.Cache, ttl time.Duration, slug string) *Service {
	return &Service{
		fetcher:  fetcher,
		cache:    c,
		ttl:      ttl,
		cacheKey: "catalog:" + slug,
	}
}

func (s *Service) cachingEnabled() bool {
	return s.cache != nil && s.ttl > 0
}

// Cards returns the full catalog. The slice is shared; callers must not
// modify it.
func (s *Service) Cards(ctx context.Context) ([]domain.CatalogCard, error) {
	if s.cachingEnabled() {
		if raw, ok := s.cache.Get(ctx, s.cacheKey); ok {
			var cards []domain.CatalogCard
			err := json.Unmarshal(raw, &cards)
			if err == nil {
				return cards, nil
			}
			slog.Warn("discarding unreadable catalog cache entry", "key", s.cacheKey, "error", err)
		}
	}

	// Shared by every waiting caller; the HTTP client timeout bounds it.
	v, err, shared := s.group.Do(s.cacheKey, func() (any, error) {
		cards, err := s.fetcher.Fetch(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}
		if s.cachingEnabled() {
			raw, err := json.Marshal(cards)
			if err == nil {
				err = s.cache.Set(ctx, s.cacheKey, raw, s.ttl)
			}
			if err != nil {
				slog.Warn("failed to cache catalog", "key", s.cacheKey, "error", err)
			}
		}
		return cards, nil
	})
	if err != nil {
		return nil, fmt.Errorf("fetch catalog: %w", err)
	}
	if shared {
		slog.Debug("catalog fetch shared between callers", "key", s.cacheKey)
	}
	return v.([]domain.CatalogCard), nil
}

func (s *Service) List(ctx context.Context, filter domain.CatalogFilter) (Listing, error) {
	cards, err := s.Cards(ctx)
	if err != nil {
		return Listing{}, err
	}
	filtered := filter.Apply(cards)
	return Listing{
		Cards:  filtered,
		Count:  len(filtered),
		Total:  len(cards),
		Brands: domain.Brands(cards),
	}, nil
}

// Top returns the first n cards of the listing, which the catalog already
// ranks.
func (s *Service) Top(ctx context.Context, n int) ([]domain.CatalogCard, error) {
	cards, err := s.Cards(ctx)
	if err != nil {
		return nil, err
	}
	if n > 0 && n < len(cards) {
		cards = cards[:n]
	}
	out := make([]domain.CatalogCard, len(cards))
	copy(out, cards)
	return out, nil
}

func (s *Service) Get(ctx context.Context, id int) (domain.CatalogCard, error) {
	cards, err := s.Cards(ctx)
	if err != nil {
		return domain.CatalogCard{}, err
	}
	for _, c := range cards {
		if c.ID == id {
			return c, nil
		}
	}
	return domain.CatalogCard{}, ErrCardNotFound
}

// ContextSnippet summarises the top n cards as plain text for a chat prompt.
func (s *Service) ContextSnippet(ctx context.Context, n int) (string, error) {
	cards, err := s.Top(ctx, n)
	if err != nil {
		return "", err
	}
	if len(cards) == 0 {
		return "", nil
	}

	var b strings.Builder
	b.WriteString("Current travel credit cards in our catalog:\n")
	for _, c := range cards {
		fmt.Fprintf(&b, "- %s", c.Name)
		if c.CardType != "" {
			fmt.Fprintf(&b, " (%s)", c.CardType)
		}
		if c.JoiningFeeText != "" {
			fmt.Fprintf(&b, "; joining fee: %s", c.JoiningFeeText)
		}
		if c.AnnualSaving != "" {
			fmt.Fprintf(&b, "; annual saving: %s", c.AnnualSaving)
		}
		if c.Rating > 0 {
			fmt.Fprintf(&b, "; rating %.1f", c.Rating)
		}
		if len(c.ProductUSPs) > 0 {
			fmt.Fprintf(&b, "; highlight: %s", c.ProductUSPs[0].Header)
		}
		b.WriteString("\n")
	}
	return b.String(), nil
}
