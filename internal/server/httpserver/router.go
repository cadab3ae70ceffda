package httpserver

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/yndnr/printlink-go/internal/server/httpserver/handler"
	"github.com/yndnr/printlink-go/internal/telemetry/metric"
	"github.com/yndnr/printlink-go/pkg/token"
)

// RouterConfig holds configuration for the HTTP router.
type RouterConfig struct {
	// Service handles printer connection operations.
	Service handler.PrinterService

	// Logger for request logging.
	Logger *slog.Logger

	// Metrics receives request metrics and serves /metrics. Nil disables both.
	Metrics *metric.Registry

	// APIToken, when set, is required as a bearer token on /v1 routes.
	APIToken string

	// APITokenSHA256 is the hex SHA-256 of the bearer token. It takes
	// precedence over APIToken so the plain token need not be configured.
	APITokenSHA256 string

	// GlobalRateLimit is the rate limit per client IP (requests/second).
	// Zero disables rate limiting.
	GlobalRateLimit float64

	// EnableAudit enables audit logging for API requests.
	EnableAudit bool
}

// apiRoutes are served through the full middleware chain.
var apiRoutes = []string{
	"POST /v1/connections",
	"POST /v1/connections/reset",
	"POST /v1/connections/{id}/send",
	"POST /v1/connections/{id}/disconnect",
	"DELETE /v1/connections/{id}",
	"GET /v1/status",
}

// NewRouter creates and configures the HTTP router with all routes and middleware.
func NewRouter(cfg *RouterConfig) http.Handler {
	l := cfg.Logger
	if l == nil {
		l = slog.Default()
	}
	h := handler.New(cfg.Service, l)

	mux := http.NewServeMux()

	// Health endpoints: no auth, no rate limit.
	probe := Chain(h, Recover(l), RequestID(), Metrics(cfg.Metrics))
	mux.Handle("GET /health", probe)
	mux.Handle("GET /ready", probe)

	if cfg.Metrics != nil {
		mux.Handle("GET /metrics", Chain(cfg.Metrics.Handler(), Recover(l)))
	}

	// Order: Recover -> RequestID -> RateLimit -> Auth -> Audit -> Metrics -> Handler
	middlewares := []Middleware{Recover(l), RequestID()}
	if cfg.GlobalRateLimit > 0 {
		middlewares = append(middlewares, RateLimit(cfg.GlobalRateLimit))
	}
	middlewares = append(middlewares, Auth(cfg.tokenHash()))
	if cfg.EnableAudit {
		middlewares = append(middlewares, Audit(l))
	}
	middlewares = append(middlewares, Metrics(cfg.Metrics))

	api := Chain(h, middlewares...)
	for _, pattern := range apiRoutes {
		mux.Handle(pattern, api)
	}

	return mux
}

func (c *RouterConfig) tokenHash() string {
	switch {
	case c.APITokenSHA256 != "":
		return strings.ToLower(c.APITokenSHA256)
	case c.APIToken != "":
		return token.Hash(c.APIToken)
	default:
		return ""
	}
}

// DefaultRouterConfig returns default router configuration.
func DefaultRouterConfig() *RouterConfig {
	return &RouterConfig{
		GlobalRateLimit: 200,
		EnableAudit:     true,
	}
}
