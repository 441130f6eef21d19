// cmd/api/main.go
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"travel-cards/internal/assistant"
	"travel-cards/internal/auth"
	"travel-cards/internal/cache"
	"travel-cards/internal/cardgenius"
	"travel-cards/internal/catalog"
	"travel-cards/internal/config"
	"travel-cards/internal/domain"
	"travel-cards/internal/handler"
	"travel-cards/internal/middleware"
	"travel-cards/internal/recommend"
	"travel-cards/internal/storage"
	"travel-cards/internal/storage/memory"
	"travel-cards/internal/storage/postgres"
	"travel-cards/internal/telegram"
)

func main() {
	cfg := config.MustLoad()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var store storage.Storage
	if cfg.DBConn != "" {
		pool, err := pgxpool.New(ctx, cfg.DBConn)
		if err != nil {
			slog.Error("failed to connect to DB", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		if err := pool.Ping(ctx); err != nil {
			slog.Error("failed to ping DB", "error", err)
			os.Exit(1)
		}
		store = postgres.NewStorage(pool)
	} else {
		slog.Warn("DATABASE_URL not set, using in-memory storage")
		store = memory.NewStorage(domain.DefaultOffers())
	}

	c, err := cache.New(ctx, cfg)
	if err != nil {
		slog.Error("failed to init cache", "error", err)
		os.Exit(1)
	}
	if r, ok := c.(*cache.Redis); ok {
		defer r.Close()
	}

	httpClient := &http.Client{Timeout: cfg.UpstreamTimeout}

	catalogSvc := catalog.NewService(catalog.NewClient(cfg.CatalogURL, cfg.CatalogSlug, httpClient), c, cfg.CatalogCacheTTL, cfg.CatalogSlug)
	recommender := recommend.NewService(cardgenius.NewClient(cfg.RecommendationURL, httpClient), store, recommend.Options{
		FetchWindow:  cfg.FetchWindow,
		DisplayLimit: cfg.DisplayLimit,
	})

	completer, err := assistant.NewCompleter(ctx, cfg, httpClient)
	if err != nil {
		slog.Error("failed to init LLM client", "error", err)
		os.Exit(1)
	}
	var chatCatalog assistant.CatalogContext
	if cfg.ChatCatalogContext {
		chatCatalog = catalogSvc
	}
	assistantSvc := assistant.NewService(completer, chatCatalog)

	chatLimiter := middleware.NewRateLimiter(cfg.ChatRateLimit, cfg.ChatRateWindow)
	defer chatLimiter.Stop()

	deps := handler.Deps{
		Tokens:      auth.NewTokenService(cfg),
		AdminSecret: cfg.AdminSecret,
		CORSOrigin:  cfg.CORSAllowOrigin,
		Recommender: recommender,
		Catalog:     catalogSvc,
		Store:       store,
		Assistant:   assistantSvc,
		ChatLimiter: chatLimiter,
	}

	// Telegram webhook
	if cfg.TelegramToken != "" && cfg.TelegramWebhookURL != "" {
		bot, err := telegram.NewBot(cfg.TelegramToken, telegram.NewResponder(recommender, catalogSvc, store, assistantSvc))
		if err != nil {
			slog.Error("failed to init telegram bot", "error", err)
			os.Exit(1)
		}
		webhookURL := cfg.TelegramWebhookURL + "/telegram"
		if err := bot.SetWebhook(webhookURL); err != nil {
			slog.Error("failed to set telegram webhook", "error", err)
			os.Exit(1)
		}
		slog.Info("telegram webhook set", "url", webhookURL, "bot", bot.UserName())
		deps.Telegram = bot
	}

	gin.SetMode(gin.ReleaseMode)
	server := &http.Server{
		Addr:         cfg.ServerPort,
		Handler:      handler.NewRouter(deps),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.UpstreamTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("server started", "addr", cfg.ServerPort)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		slog.Error("server failed", "error", err)
		return
	case <-ctx.Done():
		slog.Info("shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown failed", "error", err)
	}
	slog.Info("server exited")
}
