package tlsroots

import (
	"crypto/tls"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/yndnr/printlink-go/internal/infra/confloader"
)

// ExpiryWarning is how close to NotAfter a loaded certificate must be
// before reloads log a warning.
const ExpiryWarning = 14 * 24 * time.Hour

// Reloader serves a certificate pair and replaces it when either file
// changes on disk. A pair that fails to load leaves the previous one in
// service.
type Reloader struct {
	certFile string
	keyFile  string
	logger   *slog.Logger

	cert    atomic.Pointer[tls.Certificate]
	watcher *confloader.Watcher
}

// NewReloader loads the pair once and returns a Reloader serving it.
func NewReloader(certFile, keyFile string, logger *slog.Logger) (*Reloader, error) {
	if logger == nil {
		logger = slog.Default()
	}
	r := &Reloader{certFile: certFile, keyFile: keyFile, logger: logger}
	if err := r.Reload(); err != nil {
		return nil, err
	}
	return r, nil
}

// Reload reads the pair from disk and swaps it in.
func (r *Reloader) Reload() error {
	cert, err := tls.LoadX509KeyPair(r.certFile, r.keyFile)
	if err != nil {
		return fmt.Errorf("tlsroots: load key pair: %w", err)
	}
	r.cert.Store(&cert)

	if leaf := cert.Leaf; leaf != nil {
		left := time.Until(leaf.NotAfter)
		attrs := []any{"cert_file", r.certFile, "subject", leaf.Subject.CommonName, "not_after", leaf.NotAfter}
		if left < ExpiryWarning {
			r.logger.Warn("certificate expires soon", append(attrs, "remaining", left.Round(time.Minute).String())...)
		} else {
			r.logger.Info("certificate loaded", attrs...)
		}
	}
	return nil
}

// GetCertificate is a tls.Config.GetCertificate hook.
func (r *Reloader) GetCertificate(*tls.ClientHelloInfo) (*tls.Certificate, error) {
	return r.cert.Load(), nil
}

// ServerConfig returns a server TLS config backed by the reloader.
func (r *Reloader) ServerConfig() *tls.Config {
	return &tls.Config{
		GetCertificate: r.GetCertificate,
		MinVersion:     tls.VersionTLS12,
	}
}

// Watch starts reloading on file changes in the background. Call Close
// to stop.
func (r *Reloader) Watch(opts ...confloader.WatcherOption) error {
	w, err := confloader.NewWatcher(append([]confloader.WatcherOption{confloader.WithWatcherLogger(r.logger)}, opts...)...)
	if err != nil {
		return fmt.Errorf("tlsroots: create watcher: %w", err)
	}
	for _, f := range []string{r.certFile, r.keyFile} {
		if err := w.Watch(f); err != nil {
			w.Stop()
			return fmt.Errorf("tlsroots: watch %s: %w", f, err)
		}
	}
	w.OnChange(func(path string) {
		if err := r.Reload(); err != nil {
			r.logger.Error("certificate reload failed, keeping previous", "file", path, "error", err)
		}
	})
	w.StartAsync()
	r.watcher = w
	return nil
}

// Close stops watching. The last loaded certificate stays in service.
func (r *Reloader) Close() error {
	if r.watcher == nil {
		return nil
	}
	return r.watcher.Stop()
}
