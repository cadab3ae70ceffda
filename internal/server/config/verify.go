package config

import (
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/yndnr/printlink-go/internal/telemetry/logger"
	"github.com/yndnr/printlink-go/pkg/token"
)

// Verify validates the configuration.
func Verify(cfg *ServerConfig) error {
	if cfg == nil {
		return errors.New("config is nil")
	}
	if err := verifyServer(&cfg.Server); err != nil {
		return err
	}
	if err := verifyPrinter(&cfg.Printer); err != nil {
		return err
	}
	if err := verifySecurity(&cfg.Security); err != nil {
		return err
	}
	if err := verifyLog(&cfg.Log); err != nil {
		return err
	}
	return nil
}

func verifyServer(cfg *ServerSection) error {
	if cfg.HTTP.Addr == "" {
		return errors.New("server.http.addr is required")
	}
	if _, _, err := net.SplitHostPort(cfg.HTTP.Addr); err != nil {
		return fmt.Errorf("server.http.addr: %w", err)
	}
	if cfg.HTTP.ReadTimeout < 0 || cfg.HTTP.WriteTimeout < 0 {
		return errors.New("server.http timeouts must not be negative")
	}
	if cfg.HTTP.RateLimit < 0 {
		return errors.New("server.http.rate_limit must not be negative")
	}
	if (cfg.HTTP.TLS.CertFile == "") != (cfg.HTTP.TLS.KeyFile == "") {
		return errors.New("server.http.tls: cert_file and key_file must be set together")
	}
	if cfg.Local.Enabled && cfg.Local.Path == "" {
		return errors.New("server.local.path is required when the local socket is enabled")
	}
	return nil
}

func verifyPrinter(cfg *PrinterSection) error {
	if cfg.DefaultTimeout <= 0 {
		return errors.New("printer.default_timeout must be positive")
	}
	if cfg.MaxTimeout < 0 {
		return errors.New("printer.max_timeout must not be negative")
	}
	if cfg.MaxTimeout > 0 && cfg.DefaultTimeout > cfg.MaxTimeout {
		return fmt.Errorf("printer.default_timeout (%s) exceeds printer.max_timeout (%s)", cfg.DefaultTimeout, cfg.MaxTimeout)
	}
	if cfg.WriteTimeout < 0 {
		return errors.New("printer.write_timeout must not be negative")
	}
	if cfg.MaxInflight < 0 {
		return errors.New("printer.max_inflight must not be negative")
	}
	if cfg.MaxConnections < 0 {
		return errors.New("printer.max_connections must not be negative")
	}
	return nil
}

func verifySecurity(cfg *SecuritySection) error {
	if cfg.APIToken != "" && cfg.APITokenSHA256 != "" {
		return errors.New("security: set api_token or api_token_sha256, not both")
	}
	if cfg.APITokenSHA256 != "" && !token.ValidHash(cfg.APITokenSHA256) {
		return errors.New("security.api_token_sha256 must be 64 hex characters")
	}
	return nil
}

func verifyLog(cfg *LogSection) error {
	if _, err := logger.ParseLevel(cfg.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	switch strings.ToLower(cfg.Format) {
	case "", "json", "text", "console":
	default:
		return fmt.Errorf("log.format: unknown format %q", cfg.Format)
	}
	return nil
}
