package routes

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/machbridge/machbridge-backend/internal/countries"
	"github.com/machbridge/machbridge-backend/internal/pricing"
	"github.com/machbridge/machbridge-backend/internal/shippingroutes"
	"github.com/machbridge/machbridge-backend/internal/surcharges"
	"github.com/machbridge/machbridge-backend/pkg/config"
	"github.com/machbridge/machbridge-backend/pkg/logger"
	"github.com/machbridge/machbridge-backend/pkg/pagination"
	"github.com/machbridge/machbridge-backend/pkg/redis"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type stubPricingService struct {
	calcFn func(ctx context.Context, input pricing.CalculateInput) (*pricing.Calculation, error)
}

func (s stubPricingService) Calculate(ctx context.Context, input pricing.CalculateInput) (*pricing.Calculation, error) {
	if s.calcFn != nil {
		return s.calcFn(ctx, input)
	}
	return &pricing.Calculation{ProductID: input.ProductID, Quantity: input.Quantity}, nil
}

type stubRoutesService struct{}

func (stubRoutesService) Create(ctx context.Context, input shippingroutes.CreateInput) (*shippingroutes.RouteView, error) {
	panic("unimplemented")
}

func (stubRoutesService) Update(ctx context.Context, id uuid.UUID, input shippingroutes.UpdateInput) (*shippingroutes.RouteView, error) {
	panic("unimplemented")
}

func (stubRoutesService) Get(ctx context.Context, id uuid.UUID) (*shippingroutes.RouteView, error) {
	panic("unimplemented")
}

func (stubRoutesService) Delete(ctx context.Context, id uuid.UUID) error {
	panic("unimplemented")
}

func (stubRoutesService) List(ctx context.Context, params pagination.Params) (*shippingroutes.ListResult, error) {
	return &shippingroutes.ListResult{Routes: []shippingroutes.RouteView{}}, nil
}

type stubSurchargesService struct{}

func (stubSurchargesService) Create(ctx context.Context, input surcharges.CreateInput) (*surcharges.TierView, error) {
	panic("unimplemented")
}

func (stubSurchargesService) Update(ctx context.Context, id uuid.UUID, input surcharges.UpdateInput) (*surcharges.TierView, error) {
	panic("unimplemented")
}

func (stubSurchargesService) Get(ctx context.Context, id uuid.UUID) (*surcharges.TierView, error) {
	panic("unimplemented")
}

func (stubSurchargesService) Delete(ctx context.Context, id uuid.UUID) error {
	panic("unimplemented")
}

func (stubSurchargesService) List(ctx context.Context) ([]surcharges.TierView, error) {
	return []surcharges.TierView{}, nil
}

type stubCountriesService struct{}

func (stubCountriesService) Get(ctx context.Context, country string) (*countries.ParamsView, error) {
	return &countries.ParamsView{Country: country}, nil
}

func (stubCountriesService) Upsert(ctx context.Context, country string, input countries.UpsertInput) (*countries.ParamsView, error) {
	panic("unimplemented")
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "0"},
		RateLimit: config.RateLimitConfig{
			QuoteWindow:  time.Minute,
			QuoteIPLimit: 60,
		},
	}
}

func newTestRouter(cfg *config.Config, registry *prometheus.Registry) http.Handler {
	logg := logger.New(logger.Options{ServiceName: "test-routing", Level: logger.ParseLevel("debug"), Output: io.Discard})
	return NewRouter(Deps{
		Config:     cfg,
		Logger:     logg,
		DB:         stubPinger{},
		Redis:      (*redis.Client)(nil),
		Registry:   registry,
		Pricing:    stubPricingService{},
		Routes:     stubRoutesService{},
		Surcharges: stubSurchargesService{},
		Countries:  stubCountriesService{},
	})
}

func TestHealthLive(t *testing.T) {
	router := newTestRouter(testConfig(), nil)
	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for liveness got %d", resp.Code)
	}
	if env := resp.Header().Get("X-MachBridge-Env"); env != "test" {
		t.Fatalf("expected env header test got %q", env)
	}
}

func TestHealthReadySkipsNilRedis(t *testing.T) {
	router := newTestRouter(testConfig(), nil)
	req := httptest.NewRequest(http.MethodGet, "/health/ready", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for readiness got %d", resp.Code)
	}
}

func TestCalculateRouteWired(t *testing.T) {
	router := newTestRouter(testConfig(), nil)
	body := fmt.Sprintf(`{"product_id":%q,"quantity":10,"destination_country":"Spain"}`, uuid.NewString())
	req := httptest.NewRequest(http.MethodPost, "/api/v1/pricing/calculate", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for calculate got %d: %s", resp.Code, resp.Body.String())
	}

	var envelope struct {
		Success     bool                 `json:"success"`
		Calculation *pricing.Calculation `json:"calculation"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if !envelope.Success || envelope.Calculation == nil {
		t.Fatalf("expected success envelope with calculation got %s", resp.Body.String())
	}
	if envelope.Calculation.Quantity != 10 {
		t.Fatalf("expected quantity 10 echoed got %d", envelope.Calculation.Quantity)
	}
}

func TestCalculateRejectsInvalidBody(t *testing.T) {
	router := newTestRouter(testConfig(), nil)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/pricing/calculate", strings.NewReader("{"))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid payload got %d", resp.Code)
	}
}

func TestAdminGroupsWired(t *testing.T) {
	router := newTestRouter(testConfig(), nil)

	for _, path := range []string{
		"/api/admin/v1/shipping-routes",
		"/api/admin/v1/volume-surcharges",
		"/api/admin/v1/countries/Spain/parameters",
	} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		if resp.Code != http.StatusOK {
			t.Fatalf("expected 200 for %s got %d: %s", path, resp.Code, resp.Body.String())
		}
	}
}

func TestMetricsExposedWithRegistry(t *testing.T) {
	router := newTestRouter(testConfig(), prometheus.NewRegistry())
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for metrics got %d", resp.Code)
	}
}

func TestMetricsAbsentWithoutRegistry(t *testing.T) {
	router := newTestRouter(testConfig(), nil)
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 without registry got %d", resp.Code)
	}
}

func TestUnknownRouteReturns404(t *testing.T) {
	router := newTestRouter(testConfig(), nil)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/nope", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown route got %d", resp.Code)
	}
}
