// internal/handler/handler_test.go
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"travel-cards/internal/auth"
	"travel-cards/internal/catalog"
	"travel-cards/internal/config"
	"travel-cards/internal/domain"
	"travel-cards/internal/middleware"
	"travel-cards/internal/storage/memory"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type MockRecommender struct {
	mock.Mock
}

func (m *MockRecommender) Recommend(ctx context.Context, prefs domain.UserPreferences, source string) (domain.Recommendation, error) {
	args := m.Called(ctx, prefs, source)
	return args.Get(0).(domain.Recommendation), args.Error(1)
}

type fakeCatalog struct {
	cards []domain.CatalogCard
	err   error
}

func (f fakeCatalog) List(_ context.Context, filter domain.CatalogFilter) (catalog.Listing, error) {
	if f.err != nil {
		return catalog.Listing{}, f.err
	}
	out := filter.Apply(f.cards)
	return catalog.Listing{Cards: out, Count: len(out), Total: len(f.cards), Brands: domain.Brands(f.cards)}, nil
}

func (f fakeCatalog) Top(_ context.Context, n int) ([]domain.CatalogCard, error) {
	if f.err != nil {
		return nil, f.err
	}
	if n < len(f.cards) {
		return f.cards[:n], nil
	}
	return f.cards, nil
}

func (f fakeCatalog) Get(_ context.Context, id int) (domain.CatalogCard, error) {
	if f.err != nil {
		return domain.CatalogCard{}, f.err
	}
	for _, c := range f.cards {
		if c.ID == id {
			return c, nil
		}
	}
	return domain.CatalogCard{}, catalog.ErrCardNotFound
}

type stubAssistant struct {
	reply    string
	degraded bool
}

func (s stubAssistant) Reply(context.Context, string) (string, bool) {
	return s.reply, s.degraded
}

type recordingBot struct {
	updates []tgbotapi.Update
}

func (b *recordingBot) HandleUpdate(_ context.Context, u tgbotapi.Update) {
	b.updates = append(b.updates, u)
}

type testEnv struct {
	router *gin.Engine
	tokens *auth.TokenService
	rec    *MockRecommender
	store  *memory.Storage
	bot    *recordingBot
}

func newEnv(t *testing.T, cat CatalogReader) *testEnv {
	t.Helper()
	tokens := auth.NewTokenService(config.Config{JWTSecret: "test", JWTExpiresIn: time.Hour})
	limiter := middleware.NewRateLimiter(3, time.Hour)
	t.Cleanup(limiter.Stop)

	env := &testEnv{
		tokens: tokens,
		rec:    new(MockRecommender),
		store:  memory.NewStorage(domain.DefaultOffers()),
		bot:    &recordingBot{},
	}
	env.router = NewRouter(Deps{
		Tokens:      tokens,
		AdminSecret: "open-sesame",
		CORSOrigin:  "*",
		Recommender: env.rec,
		Catalog:     cat,
		Store:       env.store,
		Assistant:   stubAssistant{reply: "Try a lounge card ✈️"},
		ChatLimiter: limiter,
		Telegram:    env.bot,
	})
	return env
}

func (e *testEnv) do(method, path, body, token string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func catalogFixture() fakeCatalog {
	return fakeCatalog{cards: []domain.CatalogCard{
		{ID: 1, Name: "Atlas", CardType: "Travel", JoiningFeeText: "5000", Commission: "2", CommissionType: "percentage"},
		{ID: 2, Name: "Millennia", CardType: "Cashback", JoiningFeeText: "0"},
		{ID: 3, Name: "Regalia", CardType: "Travel", JoiningFeeText: "2500", Commission: "500", CommissionType: "flat"},
	}}
}

func TestHealth(t *testing.T) {
	env := newEnv(t, catalogFixture())
	w := env.do(http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestMetricsEndpoint(t *testing.T) {
	env := newEnv(t, catalogFixture())
	env.do(http.MethodGet, "/health", "", "")

	w := env.do(http.MethodGet, "/metrics", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `http_requests_total{method="GET",route="/health",status="200"}`)
}

func TestRecommend(t *testing.T) {
	env := newEnv(t, catalogFixture())
	want := domain.UserPreferences{HotelsAnnual: 50000, FlightsAnnual: 75000, DomesticLoungeUsageQuarterly: 10, InternationalLoungeUsageQuarterly: 5}
	env.rec.On("Recommend", mock.Anything, want, "web").Return(domain.NewRecommendation(nil, 6), nil)

	w := env.do(http.MethodPost, "/api/v1/recommendations",
		`{"hotels_annual":50000,"flights_annual":75000,"domestic_lounge_usage_quarterly":10,"international_lounge_usage_quarterly":5}`, "")

	require.Equal(t, http.StatusOK, w.Code)
	var got map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "no_matches", got["status"])
	assert.Equal(t, []any{}, got["cards"])
	env.rec.AssertExpectations(t)
}

func TestRecommend_Validation(t *testing.T) {
	env := newEnv(t, catalogFixture())
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{"bad json", `{`, "Invalid JSON"},
		{"missing field", `{"hotels_annual":1,"flights_annual":1,"domestic_lounge_usage_quarterly":1}`, "international_lounge_usage_quarterly is required"},
		{"negative", `{"hotels_annual":-1,"flights_annual":1,"domestic_lounge_usage_quarterly":1,"international_lounge_usage_quarterly":1}`, "hotels_annual must be at least 0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(http.MethodPost, "/api/v1/recommendations", tt.body, "")
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantErr)
		})
	}
	env.rec.AssertNotCalled(t, "Recommend", mock.Anything, mock.Anything, mock.Anything)
}

func TestRecommend_UpstreamFailure(t *testing.T) {
	env := newEnv(t, catalogFixture())
	env.rec.On("Recommend", mock.Anything, mock.Anything, "web").Return(domain.Recommendation{}, errors.New("boom"))

	w := env.do(http.MethodPost, "/api/v1/recommendations",
		`{"hotels_annual":0,"flights_annual":0,"domestic_lounge_usage_quarterly":0,"international_lounge_usage_quarterly":0}`, "")

	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), "Oops!")
}

func TestCards(t *testing.T) {
	env := newEnv(t, catalogFixture())

	w := env.do(http.MethodGet, "/api/v1/cards?brand=travel&fee=medium", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	var listing catalog.Listing
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listing))
	require.Len(t, listing.Cards, 2)
	assert.Equal(t, 3, listing.Total)

	w = env.do(http.MethodGet, "/api/v1/cards?fee=huge", "", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(http.MethodGet, "/api/v1/cards/top?n=2", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"count":2`)

	w = env.do(http.MethodGet, "/api/v1/cards/top?n=0", "", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(http.MethodGet, "/api/v1/cards/1", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"commission":"2% Cashback"`)

	w = env.do(http.MethodGet, "/api/v1/cards/3", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"commission":"₹500"`)

	w = env.do(http.MethodGet, "/api/v1/cards/42", "", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"card not found"}`, w.Body.String())

	w = env.do(http.MethodGet, "/api/v1/cards/abc", "", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCards_UpstreamFailure(t *testing.T) {
	env := newEnv(t, fakeCatalog{err: errors.New("catalog down")})
	w := env.do(http.MethodGet, "/api/v1/cards", "", "")
	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestOffers(t *testing.T) {
	env := newEnv(t, catalogFixture())

	w := env.do(http.MethodGet, "/api/v1/offers?category=packages", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Cleartrip")
	assert.Contains(t, w.Body.String(), `"count":1`)

	w = env.do(http.MethodGet, "/api/v1/offers?cashback=abc", "", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLanding(t *testing.T) {
	env := newEnv(t, catalogFixture())
	w := env.do(http.MethodGet, "/api/v1/landing", "", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp LandingResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.TopCards, 3)
	assert.Len(t, resp.Offers, 8)
	assert.False(t, resp.CatalogFailed)
}

func TestLanding_CatalogDownStillServesOffers(t *testing.T) {
	env := newEnv(t, fakeCatalog{err: errors.New("catalog down")})
	w := env.do(http.MethodGet, "/api/v1/landing", "", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp LandingResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Empty(t, resp.TopCards)
	assert.NotNil(t, resp.TopCards)
	assert.Len(t, resp.Offers, 8)
	assert.True(t, resp.CatalogFailed)
}

func sessionToken(t *testing.T, env *testEnv) string {
	t.Helper()
	w := env.do(http.MethodPost, "/api/v1/session", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.NotEmpty(t, body.Token)
	return body.Token
}

func TestChat(t *testing.T) {
	env := newEnv(t, catalogFixture())

	w := env.do(http.MethodPost, "/api/v1/chat", `{"message":"hi"}`, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	token := sessionToken(t, env)
	w = env.do(http.MethodPost, "/api/v1/chat", `{"message":"best lounge card?"}`, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"response":"Try a lounge card ✈️","degraded":false}`, w.Body.String())

	w = env.do(http.MethodPost, "/api/v1/chat", `{"message":"   "}`, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "message must not be blank")
}

func TestChat_RateLimited(t *testing.T) {
	env := newEnv(t, catalogFixture())
	token := sessionToken(t, env)

	for i := 0; i < 3; i++ {
		w := env.do(http.MethodPost, "/api/v1/chat", `{"message":"hi"}`, token)
		require.Equal(t, http.StatusOK, w.Code)
	}
	w := env.do(http.MethodPost, "/api/v1/chat", `{"message":"hi"}`, token)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}

func TestAdmin(t *testing.T) {
	env := newEnv(t, catalogFixture())
	_, err := env.store.SaveLead(context.Background(), domain.Lead{Status: domain.StatusPartial, MatchedCount: 2, Source: "web"})
	require.NoError(t, err)

	w := env.do(http.MethodPost, "/api/v1/admin/login", `{"secret":"wrong"}`, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	anon := sessionToken(t, env)
	w = env.do(http.MethodGet, "/api/v1/admin/leads", "", anon)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = env.do(http.MethodPost, "/api/v1/admin/login", `{"secret":"open-sesame"}`, "")
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))

	w = env.do(http.MethodGet, "/api/v1/admin/leads?limit=10", "", body.Token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"partial":1`)
	assert.Contains(t, w.Body.String(), `"matched_count":2`)
}

func TestAdminLogin_Disabled(t *testing.T) {
	tokens := auth.NewTokenService(config.Config{JWTSecret: "test", JWTExpiresIn: time.Hour})
	router := NewRouter(Deps{Tokens: tokens, CORSOrigin: "*", Store: memory.NewStorage(nil), Catalog: catalogFixture()})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/login", strings.NewReader(`{"secret":"x"}`))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTelegramWebhook(t *testing.T) {
	env := newEnv(t, catalogFixture())

	w := env.do(http.MethodPost, "/telegram", `{"update_id":7,"message":{"message_id":1,"chat":{"id":42},"text":"/help"}}`, "")
	assert.Equal(t, http.StatusOK, w.Code)
	require.Len(t, env.bot.updates, 1)
	assert.Equal(t, 7, env.bot.updates[0].UpdateID)

	w = env.do(http.MethodPost, "/telegram", `nope`, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
