package config

import "time"

// Default configuration values.
const (
	DefaultHTTPAddr         = "127.0.0.1:9180"
	DefaultHTTPReadTimeout  = 30 * time.Second
	DefaultHTTPWriteTimeout = 60 * time.Second
	DefaultRateLimit        = 200
	DefaultLocalSocket      = "/var/run/printlink/printlink.sock"

	DefaultPrinterTimeout    = 5 * time.Second
	DefaultPrinterMaxTimeout = 60 * time.Second

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
)

// Default returns the default server configuration.
func Default() *ServerConfig {
	return &ServerConfig{
		Server: ServerSection{
			HTTP: HTTPConfig{
				Addr:         DefaultHTTPAddr,
				ReadTimeout:  DefaultHTTPReadTimeout,
				WriteTimeout: DefaultHTTPWriteTimeout,
				RateLimit:    DefaultRateLimit,
			},
			Local: LocalConfig{
				Enabled: true,
				Path:    DefaultLocalSocket,
			},
		},
		Printer: PrinterSection{
			DefaultTimeout: DefaultPrinterTimeout,
			MaxTimeout:     DefaultPrinterMaxTimeout,
			ReuseAddress:   true,
		},
		Log: LogSection{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
		Metrics: MetricsSection{
			Enabled: true,
		},
	}
}
