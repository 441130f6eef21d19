// internal/handler/landing.go
package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"travel-cards/internal/domain"
	"travel-cards/internal/storage"
)

// LandingHandler assembles the home page: featured catalog cards and the
// offer list, loaded concurrently.
type LandingHandler struct {
	catalog CatalogReader
	offers  storage.OfferStorage
}

func NewLandingHandler(c CatalogReader, offers storage.OfferStorage) *LandingHandler {
	return &LandingHandler{catalog: c, offers: offers}
}

type LandingResponse struct {
	TopCards      []domain.CatalogCard `json:"top_cards"`
	Offers        []domain.TravelOffer `json:"offers"`
	CatalogFailed bool                 `json:"catalog_failed"`
}

// Landing godoc
// @Summary Home page data
// @Success 200 {object} LandingResponse
// @Router /api/v1/landing [get]
func (h *LandingHandler) Landing(c *gin.Context) {
	var resp LandingResponse
	g, ctx := errgroup.WithContext(c.Request.Context())

	g.Go(func() error {
		cards, err := h.catalog.Top(ctx, defaultTopCards)
		if err != nil {
			// the page still renders offers without featured cards
			slog.Warn("landing without catalog cards", "error", err)
			resp.CatalogFailed = true
			return nil
		}
		resp.TopCards = cards
		return nil
	})
	g.Go(func() error {
		offers, err := h.offers.ListOffers(ctx, domain.OfferFilter{})
		if err != nil {
			return err
		}
		resp.Offers = offers
		return nil
	})

	if err := g.Wait(); err != nil {
		slog.Error("landing failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
		return
	}
	if resp.TopCards == nil {
		resp.TopCards = []domain.CatalogCard{}
	}
	c.JSON(http.StatusOK, resp)
}
