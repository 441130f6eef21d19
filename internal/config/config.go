// internal/config/config.go
package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultRecommendationURL = "https://card-recommendation-api-v2.bankkaro.com/cg/api/pro"
	defaultCatalogURL        = "https://bk-api.bankkaro.com/sp/api/cards"
	defaultOpenAIURL         = "https://api.openai.com/v1/chat/completions"
)

type Config struct {
	ServerPort string
	LogLevel   slog.Level
	DBConn     string

	JWTSecret    string
	JWTExpiresIn time.Duration
	AdminSecret  string

	RecommendationURL string
	CatalogURL        string
	CatalogSlug       string
	DisplayLimit      int
	FetchWindow       int
	UpstreamTimeout   time.Duration

	LLMProvider    string
	OpenAIKey      string
	OpenAIURL      string
	OpenAIModel    string
	GeminiKey      string
	GeminiModel    string
	LLMMaxTokens   int
	LLMTemperature float32

	ChatCatalogContext bool
	ChatRateLimit      int
	ChatRateWindow     time.Duration

	CacheBackend    string
	RedisAddr       string
	CatalogCacheTTL time.Duration

	TelegramToken      string
	TelegramWebhookURL string

	CORSAllowOrigin string
}

// MustLoad reads the environment, after loading .env when there is one.
// Malformed values fall back to their defaults with a warning.
func MustLoad() Config {
	if err := godotenv.Load(); err == nil {
		slog.Debug("loaded .env")
	}

	return Config{
		ServerPort: ":" + str("PORT", "8080"),
		LogLevel:   level(str("LOG_LEVEL", "info")),
		DBConn:     os.Getenv("DATABASE_URL"),

		JWTSecret:    str("JWT_SECRET", "your-super-secret-jwt-key-change-in-prod"),
		JWTExpiresIn: duration("JWT_EXPIRES_IN", 24*time.Hour),
		AdminSecret:  os.Getenv("ADMIN_SECRET"),

		RecommendationURL: str("RECOMMENDATION_API_URL", defaultRecommendationURL),
		CatalogURL:        str("CATALOG_API_URL", defaultCatalogURL),
		CatalogSlug:       str("CATALOG_SLUG", "best-travel-credit-card"),
		DisplayLimit:      integer("RECOMMENDATION_DISPLAY_LIMIT", 6),
		FetchWindow:       integer("RECOMMENDATION_FETCH_WINDOW", 12),
		UpstreamTimeout:   duration("UPSTREAM_TIMEOUT", 30*time.Second),

		LLMProvider:    strings.ToLower(str("LLM_PROVIDER", "openai")),
		OpenAIKey:      os.Getenv("OPENAI_API_KEY"),
		OpenAIURL:      str("OPENAI_API_URL", defaultOpenAIURL),
		OpenAIModel:    str("OPENAI_MODEL", "gpt-4o-mini"),
		GeminiKey:      os.Getenv("GEMINI_API_KEY"),
		GeminiModel:    str("GEMINI_MODEL", "gemini-2.0-flash"),
		LLMMaxTokens:   integer("LLM_MAX_TOKENS", 200),
		LLMTemperature: float32(float("LLM_TEMPERATURE", 0.7)),

		ChatCatalogContext: boolean("CHAT_CATALOG_CONTEXT", true),
		ChatRateLimit:      integer("CHAT_RATE_LIMIT", 20),
		ChatRateWindow:     duration("CHAT_RATE_WINDOW", time.Minute),

		CacheBackend:    strings.ToLower(str("CACHE_BACKEND", "memory")),
		RedisAddr:       str("REDIS_ADDR", "localhost:6379"),
		CatalogCacheTTL: duration("CATALOG_CACHE_TTL", 10*time.Minute),

		TelegramToken:      os.Getenv("TELEGRAM_BOT_TOKEN"),
		TelegramWebhookURL: os.Getenv("TELEGRAM_WEBHOOK_URL"),

		CORSAllowOrigin: str("CORS_ALLOW_ORIGIN", "*"),
	}
}

func str(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func integer(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		slog.Warn("invalid integer in env, using default", "key", key, "value", v, "default", def)
		return def
	}
	return n
}

func float(key string, def float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		slog.Warn("invalid number in env, using default", "key", key, "value", v, "default", def)
		return def
	}
	return f
}

func boolean(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("invalid bool in env, using default", "key", key, "value", v, "default", def)
		return def
	}
	return b
}

func duration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		slog.Warn("invalid duration in env, using default", "key", key, "value", v, "default", def)
		return def
	}
	return d
}

func level(s string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return l
}
