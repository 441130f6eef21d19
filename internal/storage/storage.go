// internal/storage/storage.go
package storage

import (
	"context"
	"errors"

	"travel-cards/internal/domain"
)

var ErrNotConfigured = errors.New("storage not configured")

type OfferStorage interface {
	ListOffers(ctx context.Context, filter domain.OfferFilter) ([]domain.TravelOffer, error)
}

type LeadStorage interface {
	SaveLead(ctx context.Context, lead domain.Lead) (int64, error)
	RecentLeads(ctx context.Context, limit int) ([]domain.Lead, error)
	LeadStats(ctx context.Context) (domain.LeadStats, error)
}

type Storage interface {
	OfferStorage
	LeadStorage
}
