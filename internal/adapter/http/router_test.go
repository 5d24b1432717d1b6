package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/iho/boglefolio/internal/adapter/http/handler"
	apimiddleware "github.com/iho/boglefolio/internal/adapter/http/middleware"
	"github.com/iho/boglefolio/internal/infrastructure/auth"
	"github.com/iho/boglefolio/internal/usecase"
	"github.com/iho/boglefolio/internal/usecase/mocks"
)

func newRouterConfig(opts ...func(*RouterConfig)) RouterConfig {
	idGen := mocks.NewMockIDGenerator()
	accountRepo := mocks.NewMockAccountRepository()
	assetRepo := mocks.NewMockAssetRepository()
	txnRepo := mocks.NewMockTransactionRepository()
	userRepo := mocks.NewMockUserRepository()
	logger := zerolog.Nop()

	accountUC := usecase.NewAccountUseCase(accountRepo, idGen)
	assetUC := usecase.NewAssetUseCase(assetRepo, mocks.NewMockQuoteProvider(), mocks.NewMockCache(), time.Minute, idGen, logger)
	transactionUC := usecase.NewTransactionUseCase(txnRepo, accountRepo, assetRepo, idGen)
	userUC := usecase.NewUserUseCase(userRepo, idGen)
	importUC := usecase.NewImportUseCase(mocks.NewMockTransactionManager(), accountRepo, assetRepo, txnRepo, idGen, logger)

	jwtManager := auth.NewJWTManager("test-secret", time.Minute)

	cfg := RouterConfig{
		AccountHandler:     handler.NewAccountHandler(accountUC),
		AssetHandler:       handler.NewAssetHandler(assetUC),
		TransactionHandler: handler.NewTransactionHandler(transactionUC),
		UserHandler:        handler.NewUserHandler(userUC),
		AuthHandler:        handler.NewAuthHandler(userUC, jwtManager),
		ImportHandler:      handler.NewImportHandler(importUC),
		HealthHandler:      &handler.HealthHandler{},
		JWTManager:         jwtManager,
		Sessions:           mocks.NewMockSessionStore(),
	}

	for _, opt := range opts {
		opt(&cfg)
	}

	return cfg
}

func TestNewRouter_HealthEndpointAvailable(t *testing.T) {
	router := NewRouter(newRouterConfig())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected /health to return 200, got %d", rec.Code)
	}
}

func TestNewRouter_MetricsEndpointAvailable(t *testing.T) {
	router := NewRouter(newRouterConfig())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected /metrics to return 200, got %d", rec.Code)
	}
}

func TestNewRouter_ProtectedRoutesRequireToken(t *testing.T) {
	router := NewRouter(newRouterConfig())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/accounts/", nil)
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rec.Code)
	}
}

func TestNewRouter_RateLimiterBlocksExcessLogins(t *testing.T) {
	router := NewRouter(newRouterConfig(func(cfg *RouterConfig) {
		cfg.LoginRateLimit = apimiddleware.NewRateLimiter(1, 1)
	}))

	req1 := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", nil)
	req1.RemoteAddr = "1.2.3.4:1234"
	rec1 := httptest.NewRecorder()
	router.ServeHTTP(rec1, req1)
	if rec1.Code == http.StatusTooManyRequests {
		t.Fatalf("expected first request to pass the limiter, got %d", rec1.Code)
	}

	req2 := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", nil)
	req2.RemoteAddr = "1.2.3.4:1234"
	rec2 := httptest.NewRecorder()
	router.ServeHTTP(rec2, req2)
	if rec2.Code != http.StatusTooManyRequests {
		t.Fatalf("expected second request to be throttled, got %d", rec2.Code)
	}
}

func TestNewRouter_RegistersKeyRoutes(t *testing.T) {
	router := NewRouter(newRouterConfig())

	chiRoutes, ok := router.(chi.Router)
	if !ok {
		t.Fatal("router does not implement chi.Router")
	}

	seen := map[string]bool{}
	if err := chi.Walk(chiRoutes, func(method string, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		seen[method+" "+route] = true
		return nil
	}); err != nil {
		t.Fatalf("walk failed: %v", err)
	}

	expected := []string{
		"GET /health",
		"GET /ready",
		"POST /api/v1/auth/register",
		"POST /api/v1/auth/login",
		"GET /api/v1/auth/me",
		"POST /api/v1/accounts/",
		"GET /api/v1/accounts/{id}",
		"GET /api/v1/assets/{id}/price",
		"GET /api/v1/assets/{id}/history",
		"POST /api/v1/transactions/import",
		"POST /api/v1/users/",
		"PATCH /api/v1/users/{id}",
	}

	for _, route := range expected {
		if !seen[route] {
			t.Fatalf("expected route %s to be registered", route)
		}
	}
}
