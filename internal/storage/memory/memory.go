// internal/storage/memory/memory.go

// Package memory keeps offers and leads in process. It backs the service
// when no database is configured.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"travel-cards/internal/domain"
)

type Storage struct {
	mu     sync.RWMutex
	offers []domain.TravelOffer
	leads  []domain.Lead
	nextID int64
	now    func() time.Time
}

func NewStorage(offers []domain.TravelOffer) *Storage {
	return &Storage{
		offers: append([]domain.TravelOffer(nil), offers...),
		nextID: 1,
		now:    time.Now,
	}
}

func (s *Storage) ListOffers(_ context.Context, filter domain.OfferFilter) ([]domain.TravelOffer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return filter.Apply(s.offers), nil
}

func (s *Storage) SaveLead(_ context.Context, lead domain.Lead) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	lead.ID = s.nextID
	s.nextID++
	if lead.CreatedAt.IsZero() {
		lead.CreatedAt = s.now().UTC()
	}
	s.leads = append(s.leads, lead)
	return lead.ID, nil
}

// RecentLeads returns up to limit leads, newest first.
func (s *Storage) RecentLeads(_ context.Context, limit int) ([]domain.Lead, error) {
	s.mu.RLock()
	out := append([]domain.Lead(nil), s.leads...)
	s.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	if out == nil {
		out = []domain.Lead{}
	}
	return out, nil
}

func (s *Storage) LeadStats(_ context.Context) (domain.LeadStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var st domain.LeadStats
	for _, l := range s.leads {
		st.Total++
		switch l.Status {
		case domain.StatusMatched:
			st.Matched++
		case domain.StatusPartial:
			st.Partial++
		case domain.StatusNoMatches:
			st.NoMatches++
		}
	}
	return st, nil
}
