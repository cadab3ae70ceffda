package httpserver

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/yndnr/printlink-go/internal/core/domain"
	"github.com/yndnr/printlink-go/internal/core/service"
	"github.com/yndnr/printlink-go/internal/storage/memory"
	"github.com/yndnr/printlink-go/internal/telemetry/metric"
	"github.com/yndnr/printlink-go/pkg/token"
)

// nopDialer never succeeds; router tests only need the read-side routes.
type nopDialer struct{}

func (nopDialer) Dial(context.Context, string, int, time.Duration) (domain.Socket, error) {
	return nil, context.DeadlineExceeded
}

func newTestRouterConfig(t *testing.T) *RouterConfig {
	t.Helper()
	svc := service.NewPrinterService(memory.NewRegistry(), nopDialer{}, service.DefaultPrinterServiceConfig())
	t.Cleanup(func() { svc.Shutdown(context.Background()) })
	return &RouterConfig{
		Service:     svc,
		Logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		Metrics:     metric.NewRegistry(),
		EnableAudit: true,
	}
}

func TestServer_ServeAndShutdown(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}

	s := New(ln.Addr().String(), NewRouter(newTestRouterConfig(t)), Options{
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
	})

	errChan := make(chan error, 1)
	go func() {
		errChan <- s.Serve(ln)
	}()

	resp, err := http.Get("http://" + ln.Addr().String() + "/health")
	if err != nil {
		t.Fatalf("GET /health: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("health status = %d", resp.StatusCode)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.Shutdown(ctx); err != nil {
		t.Errorf("Shutdown error: %v", err)
	}

	select {
	case err := <-errChan:
		if err != nil && err != http.ErrServerClosed {
			t.Errorf("Serve returned unexpected error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Error("timeout waiting for Serve to return")
	}
}

func TestServer_ServeTLS(t *testing.T) {
	// Borrow httptest's certificate and a client that trusts it.
	donor := httptest.NewTLSServer(http.NotFoundHandler())
	cert := donor.TLS.Certificates[0]
	client := donor.Client()
	donor.Close()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	s := New(ln.Addr().String(), NewRouter(newTestRouterConfig(t)), Options{
		TLSConfig: &tls.Config{Certificates: []tls.Certificate{cert}},
	})
	if !s.TLS() {
		t.Fatal("TLS() = false with a TLS config")
	}
	go s.Serve(ln)
	defer s.Shutdown(context.Background())

	resp, err := client.Get("https://" + ln.Addr().String() + "/health")
	if err != nil {
		t.Fatalf("GET /health over TLS: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("health status = %d", resp.StatusCode)
	}
	if resp.TLS == nil {
		t.Error("response was not served over TLS")
	}
}

func TestDefaultRouterConfig(t *testing.T) {
	cfg := DefaultRouterConfig()
	if cfg.GlobalRateLimit <= 0 {
		t.Error("GlobalRateLimit should be positive")
	}
	if !cfg.EnableAudit {
		t.Error("audit should be on by default")
	}
}

func TestRouter_StatusHasRequestID(t *testing.T) {
	router := NewRouter(newTestRouterConfig(t))

	req := httptest.NewRequest(http.MethodGet, "/v1/status", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", rec.Code, rec.Body.String())
	}
	id := rec.Header().Get("X-Request-ID")
	if !strings.HasPrefix(id, "req-") {
		t.Fatalf("X-Request-ID = %q", id)
	}

	var body struct {
		RequestID string `json:"request_id"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.RequestID != id {
		t.Errorf("envelope request_id = %q, header = %q", body.RequestID, id)
	}
}

func TestRouter_ConnectFailureMapsStatus(t *testing.T) {
	router := NewRouter(newTestRouterConfig(t))

	req := httptest.NewRequest(http.MethodPost, "/v1/connections", strings.NewReader(`{"host":"10.0.0.5","port":9100}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusGatewayTimeout {
		t.Errorf("status = %d, want 504; body=%s", rec.Code, rec.Body.String())
	}
}

func TestRouter_APIToken(t *testing.T) {
	cfg := newTestRouterConfig(t)
	cfg.APIToken = "s3cret-token"
	router := NewRouter(cfg)

	tests := []struct {
		name   string
		path   string
		header string
		want   int
	}{
		{"no token", "/v1/status", "", http.StatusUnauthorized},
		{"wrong token", "/v1/status", "Bearer nope", http.StatusUnauthorized},
		{"wrong scheme", "/v1/status", "Basic s3cret-token", http.StatusUnauthorized},
		{"right token", "/v1/status", "Bearer s3cret-token", http.StatusOK},
		{"health is open", "/health", "", http.StatusOK},
		{"metrics is open", "/metrics", "", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestRouter_APITokenSHA256(t *testing.T) {
	cfg := newTestRouterConfig(t)
	cfg.APITokenSHA256 = token.Hash("hashed-only")
	router := NewRouter(cfg)

	req := httptest.NewRequest(http.MethodGet, "/v1/status", nil)
	req.Header.Set("Authorization", "Bearer hashed-only")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/v1/status", nil)
	req.Header.Set("Authorization", "Bearer "+cfg.APITokenSHA256)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("sending the hash itself: status = %d, want 401", rec.Code)
	}
}

func TestRouter_MetricsEndpoint(t *testing.T) {
	router := NewRouter(newTestRouterConfig(t))

	// Generate one API request so the request counter has a sample.
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/v1/status", nil))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "printlink_requests_total") {
		t.Error("missing printlink_requests_total")
	}
	if !strings.Contains(body, `method="GET /v1/status"`) {
		t.Error("request metric should be labelled with the route pattern")
	}
}

func TestRouter_NoMetricsRegistry(t *testing.T) {
	cfg := newTestRouterConfig(t)
	cfg.Metrics = nil
	router := NewRouter(cfg)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404 when metrics are disabled", rec.Code)
	}
}
