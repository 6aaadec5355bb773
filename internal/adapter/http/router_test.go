package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/labelpay/labelpay/internal/adapter/http/handler"
	apimiddleware "github.com/labelpay/labelpay/internal/adapter/http/middleware"
	"github.com/labelpay/labelpay/internal/domain"
	"github.com/labelpay/labelpay/internal/infrastructure/auth"
	"github.com/labelpay/labelpay/internal/usecase"
	"github.com/labelpay/labelpay/internal/usecase/mocks"
)

func newRouterConfig(opts ...func(*RouterConfig)) RouterConfig {
	accountRepo := mocks.NewMockAccountRepository()
	accountRepo.Seed(&domain.Account{
		ID:     "sa-1",
		Email:  "root@example.com",
		Role:   domain.RoleSuperAdmin,
		Active: true,
	})

	txnRepo := mocks.NewMockTransactionRepository()
	shipmentRepo := mocks.NewMockShipmentRepository()
	batchRepo := mocks.NewMockBatchRepository()
	txManager := mocks.NewMockTransactionManager()
	idGen := mocks.NewMockIDGenerator()
	provider := mocks.NewMockShippingProvider()
	jwtManager := auth.NewJWTManager("test-secret", time.Hour)

	accountUC := usecase.NewAccountUseCase(accountRepo, idGen)
	creditUC := usecase.NewCreditUseCase(txManager, accountRepo, txnRepo, idGen, decimal.NewFromInt(10000))
	ledgerUC := usecase.NewLedgerUseCase(txnRepo, accountRepo)
	labelUC := usecase.NewLabelUseCase(txManager, accountRepo, txnRepo, shipmentRepo, provider, idGen, zerolog.Nop())
	batchUC := usecase.NewBatchUseCase(batchRepo, shipmentRepo, accountRepo, labelUC, idGen)
	reconciliationUC := usecase.NewReconciliationUseCase(accountRepo, txnRepo)

	cfg := RouterConfig{
		AuthHandler:           handler.NewAuthHandler(accountUC, jwtManager, zerolog.Nop()),
		AccountHandler:        handler.NewAccountHandler(accountUC),
		CreditHandler:         handler.NewCreditHandler(creditUC, passthroughRetrier{}),
		TransactionHandler:    handler.NewTransactionHandler(ledgerUC),
		ShipmentHandler:       handler.NewShipmentHandler(labelUC),
		BatchHandler:          handler.NewBatchHandler(batchUC),
		ReconciliationHandler: handler.NewReconciliationHandler(reconciliationUC),
		HealthHandler:         &handler.HealthHandler{},

		JWTManager:     jwtManager,
		AccountRepo:    accountRepo,
		IdempotencyTTL: time.Hour,
		Logger:         zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(&cfg)
	}

	return cfg
}

type passthroughRetrier struct{}

func (passthroughRetrier) Retry(ctx context.Context, operation func() error) error {
	return operation()
}

func superAdminToken(t *testing.T, cfg RouterConfig) string {
	t.Helper()
	token, err := cfg.JWTManager.Generate(&domain.Account{ID: "sa-1"})
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}
	return token
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

func TestNewRouter_ProtectedRoutesRequireToken(t *testing.T) {
	router := NewRouter(newRouterConfig())

	for _, route := range []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/v1/accounts/"},
		{http.MethodPost, "/api/v1/credits/assign"},
		{http.MethodGet, "/api/v1/transactions/"},
		{http.MethodPost, "/api/v1/shipping/labels"},
		{http.MethodGet, "/api/v1/reconciliation/"},
	} {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(route.method, route.path, strings.NewReader(`{}`))
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected %s %s to return 401 without a token, got %d", route.method, route.path, rec.Code)
		}
	}
}

func TestNewRouter_TokenGrantsAccess(t *testing.T) {
	cfg := newRouterConfig()
	router := NewRouter(cfg)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/accounts/me", nil)
	req.Header.Set("Authorization", "Bearer "+superAdminToken(t, cfg))
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestNewRouter_RateLimiterBlocksExcessRequests(t *testing.T) {
	rl := apimiddleware.NewRateLimiter(1, 1, nil)
	router := NewRouter(newRouterConfig(func(cfg *RouterConfig) {
		cfg.RateLimiter = rl
	}))

	req1 := httptest.NewRequest(http.MethodGet, "/health", nil)
	req1.RemoteAddr = "1.2.3.4:1234"
	rec1 := httptest.NewRecorder()
	router.ServeHTTP(rec1, req1)
	if rec1.Code != http.StatusOK {
		t.Fatalf("expected first request to succeed, got %d", rec1.Code)
	}

	req2 := httptest.NewRequest(http.MethodGet, "/health", nil)
	req2.RemoteAddr = "1.2.3.4:1234"
	rec2 := httptest.NewRecorder()
	router.ServeHTTP(rec2, req2)
	if rec2.Code != http.StatusTooManyRequests {
		t.Fatalf("expected second request to be throttled, got %d", rec2.Code)
	}
}

func TestNewRouter_IdempotencyMiddlewareInvokesStore(t *testing.T) {
	store := &stubIdempotencyStore{}
	cfg := newRouterConfig(func(cfg *RouterConfig) {
		cfg.IdempotencyStore = store
	})
	router := NewRouter(cfg)

	body := `{"name":"Main","email":"main@example.com","password":"supersecret","role":"RESELLER"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/accounts/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+superAdminToken(t, cfg))
	req.Header.Set(apimiddleware.IdempotencyKeyHeader, "key-123")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if !store.checkCalled {
		t.Fatal("expected idempotency store to be used")
	}
}

func TestNewRouter_RegistersKeyRoutes(t *testing.T) {
	router := NewRouter(newRouterConfig())

	chiRoutes, ok := router.(chi.Router)
	if !ok {
		t.Fatal("router does not implement chi.Routes")
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
		"POST /api/v1/auth/login",
		"POST /api/v1/accounts/",
		"GET /api/v1/accounts/",
		"GET /api/v1/accounts/{id}",
		"POST /api/v1/accounts/{id}/reset-password",
		"POST /api/v1/credits/assign",
		"POST /api/v1/credits/revoke",
		"GET /api/v1/transactions/",
		"GET /api/v1/transactions/{id}",
		"POST /api/v1/shipping/rates",
		"POST /api/v1/shipping/labels",
		"POST /api/v1/shipping/refunds",
		"POST /api/v1/batches/",
		"GET /api/v1/batches/",
		"POST /api/v1/batches/{id}/cancel",
		"GET /api/v1/reconciliation/",
	}

	for _, route := range expected {
		if !seen[route] {
			t.Fatalf("expected route %s to be registered", route)
		}
	}
}

type stubIdempotencyStore struct {
	checkCalled bool
}

func (s *stubIdempotencyStore) CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
	s.checkCalled = true
	return false, nil, nil
}

func (s *stubIdempotencyStore) Update(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	return nil
}

func (s *stubIdempotencyStore) Delete(ctx context.Context, key string) error {
	return nil
}
