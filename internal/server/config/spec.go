package config

import "time"

// ServerConfig is the root configuration for printlink-server.
type ServerConfig struct {
	Server   ServerSection   `koanf:"server"`
	Printer  PrinterSection  `koanf:"printer"`
	Security SecuritySection `koanf:"security"`
	Log      LogSection      `koanf:"log"`
	Metrics  MetricsSection  `koanf:"metrics"`
}

// ServerSection configures server endpoints.
type ServerSection struct {
	HTTP  HTTPConfig  `koanf:"http"`
	Local LocalConfig `koanf:"local"`
}

// HTTPConfig configures the HTTP server.
type HTTPConfig struct {
	Addr         string        `koanf:"addr"`
	ReadTimeout  time.Duration `koanf:"read_timeout"`
	WriteTimeout time.Duration `koanf:"write_timeout"`

	// RateLimit is the allowed requests per second per client IP.
	// Zero disables rate limiting.
	RateLimit float64 `koanf:"rate_limit"`

	TLS TLSConfig `koanf:"tls"`
}

// TLSConfig enables HTTPS when both files are set. The pair is reloaded
// when either file changes on disk.
type TLSConfig struct {
	CertFile string `koanf:"cert_file"`
	KeyFile  string `koanf:"key_file"`
}

// Enabled reports whether HTTPS is configured.
func (c TLSConfig) Enabled() bool {
	return c.CertFile != "" && c.KeyFile != ""
}

// LocalConfig configures the local management socket.
type LocalConfig struct {
	Enabled bool   `koanf:"enabled"`
	Path    string `koanf:"path"`
}

// PrinterSection configures printer connections.
type PrinterSection struct {
	// DefaultTimeout applies to connect requests without a timeout.
	DefaultTimeout time.Duration `koanf:"default_timeout"`

	// MaxTimeout is the largest timeout a caller may request.
	MaxTimeout time.Duration `koanf:"max_timeout"`

	// WriteTimeout bounds a single send. 0 inherits the connect timeout.
	WriteTimeout time.Duration `koanf:"write_timeout"`

	// MaxInflight bounds concurrently running operations. 0 = unbounded.
	MaxInflight int `koanf:"max_inflight"`

	// MaxConnections caps open connections. 0 = unlimited.
	MaxConnections int `koanf:"max_connections"`

	// ReuseAddress sets SO_REUSEADDR on printer sockets.
	ReuseAddress bool `koanf:"reuse_address"`
}

// SecuritySection configures security settings.
type SecuritySection struct {
	// APIToken, when set, is required as a bearer token on /v1 routes.
	APIToken string `koanf:"api_token"`

	// APITokenSHA256 is the hex SHA-256 of the bearer token, for
	// deployments that should not keep the token itself on disk.
	// Mutually exclusive with APIToken.
	APITokenSHA256 string `koanf:"api_token_sha256"`
}

// LogSection configures logging.
type LogSection struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// MetricsSection configures the Prometheus endpoint.
type MetricsSection struct {
	Enabled bool `koanf:"enabled"`
}
