// internal/handler/admin.go
package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"travel-cards/internal/storage"
)

type AdminHandler struct {
	leads storage.LeadStorage
}

func NewAdminHandler(leads storage.LeadStorage) *AdminHandler {
	return &AdminHandler{leads: leads}
}

// Leads godoc
// @Summary Recent recommendation requests and outcome totals
// @Param limit query int false "How many leads (default 50, max 500)"
// @Router /api/v1/admin/leads [get]
func (h *AdminHandler) Leads(c *gin.Context) {
	limit := 50
	if raw := c.Query("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 || v > 500 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be between 1 and 500"})
			return
		}
		limit = v
	}

	ctx := c.Request.Context()
	leads, err := h.leads.RecentLeads(ctx, limit)
	if err != nil {
		slog.Error("RecentLeads failed", "error", err, "limit", limit)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
		return
	}
	stats, err := h.leads.LeadStats(ctx)
	if err != nil {
		slog.Error("LeadStats failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"leads": leads, "stats": stats})
}
