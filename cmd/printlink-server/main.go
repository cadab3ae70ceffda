package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/yndnr/printlink-go/internal/core/service"
	"github.com/yndnr/printlink-go/internal/infra/buildinfo"
	"github.com/yndnr/printlink-go/internal/infra/confloader"
	"github.com/yndnr/printlink-go/internal/infra/shutdown"
	"github.com/yndnr/printlink-go/internal/infra/tcpsock"
	"github.com/yndnr/printlink-go/internal/infra/tlsroots"
	"github.com/yndnr/printlink-go/internal/server/config"
	"github.com/yndnr/printlink-go/internal/server/httpserver"
	"github.com/yndnr/printlink-go/internal/server/localserver"
	"github.com/yndnr/printlink-go/internal/storage/memory"
	"github.com/yndnr/printlink-go/internal/telemetry/logger"
	"github.com/yndnr/printlink-go/internal/telemetry/metric"
	"github.com/yndnr/printlink-go/pkg/token"
)

const shutdownTimeout = 30 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		configFile  = flag.String("config", "", "Path to configuration file")
		showVersion = flag.Bool("version", false, "Show version information")
		genToken    = flag.Bool("gen-token", false, "Generate an API token and its SHA-256, then exit")
		overrides   = setFlag{}
	)
	flag.Var(overrides, "set", "Override a config key, e.g. -set printer.max_connections=64 (repeatable)")
	flag.Parse()

	if *genToken {
		tok, err := token.Generate()
		if err != nil {
			return err
		}
		fmt.Printf("token:  %s\nsha256: %s\n", tok, token.Hash(tok))
		return nil
	}

	if *showVersion {
		info := buildinfo.Get()
		fmt.Printf("printlink-server %s (commit: %s, built: %s, %s)\n",
			info.Version, info.Commit, info.BuildTime, info.Platform)
		return nil
	}

	cfg, err := loadConfig(*configFile, overrides)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := initLogger(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	slogger := logger.Slog(log)

	safe := config.Sanitize(cfg)
	log.Info("starting printlink-server",
		"version", buildinfo.Version,
		"commit", buildinfo.Commit,
		"config", *configFile,
		"http_addr", safe.Server.HTTP.Addr,
		"local_socket", safe.Server.Local.Path,
		"max_connections", safe.Printer.MaxConnections,
		"max_inflight", safe.Printer.MaxInflight,
		"auth", safe.Security.APIToken != "" || safe.Security.APITokenSHA256 != "",
		"tls", cfg.Server.HTTP.TLS.Enabled())

	// Connection registry and printer service
	registry := memory.NewRegistry()

	var metrics *metric.Registry
	if cfg.Metrics.Enabled {
		metrics = metric.NewRegistry()
		if err := metrics.Register(metric.NewCollector(registry)); err != nil {
			return fmt.Errorf("register connection collector: %w", err)
		}
	}

	dialer := tcpsock.NewDialer(tcpsock.Options{
		ReuseAddress: cfg.Printer.ReuseAddress,
		WriteTimeout: cfg.Printer.WriteTimeout,
	})
	svc := service.NewPrinterService(registry, dialer,
		service.PrinterServiceConfig{
			DefaultTimeout: cfg.Printer.DefaultTimeout,
			MaxTimeout:     cfg.Printer.MaxTimeout,
			MaxConnections: cfg.Printer.MaxConnections,
		},
		service.WithExecutor(service.NewExecutor(int64(cfg.Printer.MaxInflight))),
		service.WithMetrics(metrics),
		service.WithLogger(log),
	)

	// Fail on a bad certificate before anything starts listening.
	var certs *tlsroots.Reloader
	if tlsCfg := cfg.Server.HTTP.TLS; tlsCfg.Enabled() {
		if certs, err = tlsroots.NewReloader(tlsCfg.CertFile, tlsCfg.KeyFile, slogger); err != nil {
			return fmt.Errorf("load TLS certificate: %w", err)
		}
	}

	shutdownHandler := shutdown.NewHandler(shutdownTimeout, shutdown.WithLogger(slogger))

	// Hooks run in reverse order: stop intake first, close printers last.
	shutdownHandler.OnShutdown("printers", func(ctx context.Context) error {
		cleared := svc.ActiveConnections()
		err := svc.Shutdown(ctx)
		log.Info("printer connections closed", "cleared", cleared)
		return err
	})

	if *configFile != "" {
		watcher, err := watchConfig(*configFile, overrides, cfg, log)
		if err != nil {
			// Hot reload is optional; the server still runs without it.
			log.Warn("config watcher disabled", "error", err)
		} else {
			shutdownHandler.OnShutdown("config-watcher", func(context.Context) error {
				return watcher.Stop()
			})
		}
	}

	if cfg.Server.Local.Enabled {
		localSrv := localserver.New(cfg.Server.Local.Path, localserver.NewHandler(svc), slogger)
		shutdownHandler.OnShutdown("local-server", localSrv.Shutdown)
		go func() {
			log.Info("local admin socket listening", "path", cfg.Server.Local.Path)
			if err := localSrv.ListenAndServe(); err != nil {
				log.Error("local server error", "error", err)
				shutdownHandler.Trigger("local server failed")
			}
		}()
	}

	router := httpserver.NewRouter(&httpserver.RouterConfig{
		Service:         svc,
		Logger:          slogger,
		Metrics:         metrics,
		APIToken:        cfg.Security.APIToken,
		APITokenSHA256:  cfg.Security.APITokenSHA256,
		GlobalRateLimit: cfg.Server.HTTP.RateLimit,
		EnableAudit:     true,
	})
	httpOpts := httpserver.Options{
		ReadTimeout:  cfg.Server.HTTP.ReadTimeout,
		WriteTimeout: cfg.Server.HTTP.WriteTimeout,
	}
	if certs != nil {
		if err := certs.Watch(); err != nil {
			log.Warn("certificate reload disabled", "error", err)
		} else {
			shutdownHandler.OnShutdown("cert-watcher", func(context.Context) error {
				return certs.Close()
			})
		}
		httpOpts.TLSConfig = certs.ServerConfig()
	}
	httpSrv := httpserver.New(cfg.Server.HTTP.Addr, router, httpOpts)
	shutdownHandler.OnShutdown("http-server", httpSrv.Shutdown)

	go func() {
		log.Info("HTTP server listening", "addr", cfg.Server.HTTP.Addr, "tls", httpSrv.TLS())
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("HTTP server error", "error", err)
			shutdownHandler.Trigger("http server failed")
		}
	}()

	log.Info("server started, press Ctrl+C to stop")
	if err := shutdownHandler.Wait(); err != nil {
		log.Error("shutdown error", "error", err)
		return err
	}

	log.Info("server stopped gracefully")
	return nil
}

// setFlag collects repeated -set key=value pairs.
type setFlag map[string]any

func (f setFlag) String() string { return fmt.Sprint(map[string]any(f)) }

func (f setFlag) Set(kv string) error {
	key, value, ok := strings.Cut(kv, "=")
	if !ok || key == "" {
		return fmt.Errorf("want key=value, got %q", kv)
	}
	f[key] = value
	return nil
}

// loadConfig layers defaults, file, environment and -set overrides.
func loadConfig(configFile string, overrides setFlag) (*config.ServerConfig, error) {
	cfg := config.Default()

	opts := []confloader.Option{confloader.WithOverrides(overrides)}
	if configFile != "" {
		opts = append(opts, confloader.WithConfigFile(configFile))
	}

	if err := confloader.NewLoader(opts...).Load(cfg); err != nil {
		return nil, err
	}

	if err := config.Verify(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// initLogger initializes the structured logger and installs it as the
// process default (including log/slog's default).
func initLogger(cfg *config.ServerConfig) (logger.Logger, error) {
	log, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: os.Stdout,
	})
	if err != nil {
		return nil, err
	}
	logger.SetDefault(log)
	return log, nil
}

// watchConfig re-reads the config file on change. Only log.level is
// applied live; other changes are reported and need a restart.
func watchConfig(path string, overrides setFlag, current *config.ServerConfig, log logger.Logger) (*confloader.Watcher, error) {
	w, err := confloader.NewWatcher(confloader.WithWatcherLogger(logger.Slog(log)))
	if err != nil {
		return nil, err
	}
	if err := w.Watch(path); err != nil {
		w.Stop()
		return nil, err
	}

	w.OnChange(func(string) {
		next, err := loadConfig(path, overrides)
		if err != nil {
			log.Warn("config reload rejected", "error", err)
			return
		}
		prev := logger.GetLevel()
		if err := logger.SetLevel(next.Log.Level); err == nil && logger.GetLevel() != prev {
			log.Info("log level changed", "from", prev, "to", logger.GetLevel())
		}
		if restartNeeded(current, next) {
			log.Warn("config changed; restart required for settings other than log.level")
		}
	})
	w.StartAsync()
	return w, nil
}

// restartNeeded reports whether anything besides log.level differs.
func restartNeeded(a, b *config.ServerConfig) bool {
	x, y := *a, *b
	x.Log.Level, y.Log.Level = "", ""
	return x != y
}
