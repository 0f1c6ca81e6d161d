package router

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	apphttp "checkout_phone_backend/internal/http"
	"checkout_phone_backend/platform/logger"
	"checkout_phone_backend/platform/metrics"
)

type routerConfig struct{}

func (routerConfig) GetHTTPAddr() string         { return ":0" }
func (routerConfig) GetCORSAllowAll() bool       { return false }
func (routerConfig) GetCORSOrigins() []string    { return []string{"https://shop.example.com"} }
func (routerConfig) GetCORSAllowCreds() bool     { return true }
func (routerConfig) GetJWTAccessSecret() string  { return "secret" }
func (routerConfig) GetPublicRatePerMinute() int { return 600 }
func (routerConfig) GetPublicRateBurst() int     { return 100 }

type pingModule struct{}

func (pingModule) Name() string { return "ping" }

func (pingModule) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.V1.GET("/ping", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	ctx.Admin.GET("/ping", func(c *gin.Context) { c.Status(http.StatusNoContent) })
}

type health struct{ err error }

func (h health) Ping(context.Context) error { return h.err }

func newApp(checkers ...apphttp.HealthChecker) *apphttp.App {
	gin.SetMode(gin.TestMode)
	return &apphttp.App{
		Config:  routerConfig{},
		Logger:  logger.NewDiscard(),
		Health:  checkers,
		Metrics: metrics.New(prometheus.NewRegistry()),
		Modules: []apphttp.Module{pingModule{}},
	}
}

func TestRoutesAndAuthGroups(t *testing.T) {
	engine := New(newApp())

	cases := []struct {
		path string
		want int
	}{
		{"/api/health", http.StatusOK},
		{"/api/ready", http.StatusOK},
		{"/api/v1/ping", http.StatusNoContent},
		{"/api/v1/admin/ping", http.StatusUnauthorized},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tc.path, nil))
		if rec.Code != tc.want {
			t.Fatalf("GET %s: expected %d, got %d", tc.path, tc.want, rec.Code)
		}
	}
}

func TestReadyReportsFailingDependency(t *testing.T) {
	engine := New(newApp(health{}, health{err: errors.New("redis down")}))

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/ready", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
}

func TestMetricsEndpointExposesLatency(t *testing.T) {
	engine := New(newApp())

	engine.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/ping", nil))
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "checkout_http_request_duration_seconds") {
		t.Fatalf("expected latency histogram in metrics output, got %d", rec.Code)
	}
}

func TestCORSAllowsConfiguredOrigin(t *testing.T) {
	engine := New(newApp())

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/ping", nil)
	req.Header.Set("Origin", "https://shop.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://shop.example.com" {
		t.Fatalf("expected allowed origin header, got %q", got)
	}
}
