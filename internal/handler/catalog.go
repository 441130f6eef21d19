// internal/handler/catalog.go
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"travel-cards/internal/catalog"
	"travel-cards/internal/domain"
)

const defaultTopCards = 4

type CatalogReader interface {
	List(ctx context.Context, filter domain.CatalogFilter) (catalog.Listing, error)
	Top(ctx context.Context, n int) ([]domain.CatalogCard, error)
	Get(ctx context.Context, id int) (domain.CatalogCard, error)
}

type CatalogHandler struct {
	catalog CatalogReader
}

func NewCatalogHandler(c CatalogReader) *CatalogHandler {
	return &CatalogHandler{catalog: c}
}

// List godoc
// @Summary List catalog cards
// @Param q query string false "Search over name and nick name"
// @Param brand query string false "Card type"
// @Param fee query string false "all, free, low, medium, high"
// @Success 200 {object} catalog.Listing
// @Router /api/v1/cards [get]
func (h *CatalogHandler) List(c *gin.Context) {
	var filter domain.CatalogFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query"})
		return
	}
	if err := validateStruct(filter); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	listing, err := h.catalog.List(c.Request.Context(), filter)
	if err != nil {
		slog.Error("catalog list failed", "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to load cards"})
		return
	}
	c.JSON(http.StatusOK, listing)
}

// Top godoc
// @Summary First n cards of the catalog
// @Param n query int false "How many cards (default 4)"
// @Router /api/v1/cards/top [get]
func (h *CatalogHandler) Top(c *gin.Context) {
	n := defaultTopCards
	if raw := c.Query("n"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 || v > 50 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "n must be between 1 and 50"})
			return
		}
		n = v
	}

	cards, err := h.catalog.Top(c.Request.Context(), n)
	if err != nil {
		slog.Error("catalog top failed", "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to load cards"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"cards": cards, "count": len(cards)})
}

// Get godoc
// @Summary One catalog card
// @Param id path int true "Card id"
// @Router /api/v1/cards/{id} [get]
func (h *CatalogHandler) Get(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id must be a number"})
		return
	}

	card, err := h.catalog.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, catalog.ErrCardNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "card not found"})
			return
		}
		slog.Error("catalog get failed", "error", err, "id", id)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to load card"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"card": card, "commission": card.DetailCommission()})
}
