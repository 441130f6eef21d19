// internal/handler/offers.go
package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"travel-cards/internal/domain"
	"travel-cards/internal/storage"
)

type OfferHandler struct {
	store storage.OfferStorage
}

func NewOfferHandler(store storage.OfferStorage) *OfferHandler {
	return &OfferHandler{store: store}
}

// List godoc
// @Summary List partner cashback offers
// @Param q query string false "Search over brand, title and description"
// @Param brand query string false "Brand"
// @Param cashback query string false "Percent range, e.g. 6-10"
// @Param category query string false "Category"
// @Success 200 {object} map[string]any
// @Router /api/v1/offers [get]
func (h *OfferHandler) List(c *gin.Context) {
	var filter domain.OfferFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query"})
		return
	}
	if err := validateStruct(filter); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	offers, err := h.store.ListOffers(c.Request.Context(), filter)
	if err != nil {
		slog.Error("ListOffers failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"offers": offers, "count": len(offers)})
}
