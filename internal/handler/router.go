// internal/handler/router.go
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"travel-cards/internal/auth"
	"travel-cards/internal/metrics"
	"travel-cards/internal/middleware"
	"travel-cards/internal/storage"
)

type Deps struct {
	Tokens      *auth.TokenService
	AdminSecret string
	CORSOrigin  string

	Recommender Recommender
	Catalog     CatalogReader
	Store       storage.Storage
	Assistant   ChatResponder
	ChatLimiter *middleware.RateLimiter

	// Telegram is nil when the bot runs without a webhook.
	Telegram UpdateHandler
}

func NewRouter(d Deps) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestID(), middleware.Metrics(), middleware.CORS(d.CORSOrigin))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	if d.Telegram != nil {
		router.POST("/telegram", NewTelegramHandler(d.Telegram).Webhook)
	}

	sessions := NewSessionHandler(d.Tokens, d.AdminSecret)
	recommendations := NewRecommendationHandler(d.Recommender)
	cards := NewCatalogHandler(d.Catalog)
	offers := NewOfferHandler(d.Store)
	landing := NewLandingHandler(d.Catalog, d.Store)
	chat := NewChatHandler(d.Assistant)
	admin := NewAdminHandler(d.Store)

	authMiddleware := middleware.NewAuthMiddleware(d.Tokens)

	v1 := router.Group("/api/v1")
	{
		v1.POST("/session", sessions.Anonymous)
		v1.POST("/admin/login", sessions.AdminLogin)

		v1.POST("/recommendations", recommendations.Recommend)
		v1.GET("/cards", cards.List)
		v1.GET("/cards/top", cards.Top)
		v1.GET("/cards/:id", cards.Get)
		v1.GET("/offers", offers.List)
		v1.GET("/landing", landing.Landing)

		chatChain := []gin.HandlerFunc{authMiddleware.RequireRole(auth.RoleAnon, auth.RoleAdmin)}
		if d.ChatLimiter != nil {
			chatChain = append(chatChain, middleware.RateLimit(d.ChatLimiter))
		}
		v1.POST("/chat", append(chatChain, chat.Chat)...)

		v1.GET("/admin/leads", authMiddleware.RequireRole(auth.RoleAdmin), admin.Leads)
	}

	return router
}
