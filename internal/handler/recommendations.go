// internal/handler/recommendations.go
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"travel-cards/internal/cardgenius"
	"travel-cards/internal/domain"
	"travel-cards/internal/recommend"
)

type Recommender interface {
	Recommend(ctx context.Context, prefs domain.UserPreferences, source string) (domain.Recommendation, error)
}

type RecommendationHandler struct {
	svc Recommender
}

func NewRecommendationHandler(svc Recommender) *RecommendationHandler {
	return &RecommendationHandler{svc: svc}
}

// RecommendRequest mirrors UserPreferences with every lounge and spend
// figure required.
type RecommendRequest struct {
	HotelsAnnual                      *float64 `json:"hotels_annual" validate:"required,finite,gte=0"`
	FlightsAnnual                     *float64 `json:"flights_annual" validate:"required,finite,gte=0"`
	DomesticLoungeUsageQuarterly      *float64 `json:"domestic_lounge_usage_quarterly" validate:"required,finite,gte=0"`
	InternationalLoungeUsageQuarterly *float64 `json:"international_lounge_usage_quarterly" validate:"required,finite,gte=0"`
	RailwayLoungeUsageQuarterly       *float64 `json:"railway_lounge_usage_quarterly" validate:"omitempty,finite,gte=0"`
}

func (r RecommendRequest) Preferences() domain.UserPreferences {
	return domain.UserPreferences{
		HotelsAnnual:                      *r.HotelsAnnual,
		FlightsAnnual:                     *r.FlightsAnnual,
		DomesticLoungeUsageQuarterly:      *r.DomesticLoungeUsageQuarterly,
		InternationalLoungeUsageQuarterly: *r.InternationalLoungeUsageQuarterly,
		RailwayLoungeUsageQuarterly:       r.RailwayLoungeUsageQuarterly,
	}
}

// Recommend godoc
// @Summary Recommend travel cards for a spending and lounge profile
// @Accept json
// @Produce json
// @Param request body RecommendRequest true "Travel profile"
// @Success 200 {object} domain.Recommendation
// @Failure 400 {object} map[string]string
// @Failure 502 {object} map[string]any
// @Router /api/v1/recommendations [post]
func (h *RecommendationHandler) Recommend(c *gin.Context) {
	var req RecommendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON"})
		return
	}
	if err := validateStruct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rec, err := h.svc.Recommend(c.Request.Context(), req.Preferences(), recommend.SourceWeb)
	if err != nil {
		status := http.StatusBadGateway
		if errors.Is(err, context.DeadlineExceeded) {
			status = http.StatusGatewayTimeout
		}
		var statusErr *cardgenius.StatusError
		if errors.As(err, &statusErr) {
			slog.Warn("recommendation API rejected request", "status", statusErr.StatusCode)
		}
		c.JSON(status, gin.H{"error": "Failed to fetch recommendations", "notice": domain.ErrorNotice})
		return
	}
	c.JSON(http.StatusOK, rec)
}
