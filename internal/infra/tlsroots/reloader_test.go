package tlsroots

import (
	"bytes"
	"crypto/tls"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/yndnr/printlink-go/internal/infra/confloader"
)

func newPairFiles(t *testing.T) (certFile, keyFile string) {
	t.Helper()
	dir := t.TempDir()
	return filepath.Join(dir, "tls.crt"), filepath.Join(dir, "tls.key")
}

func commonName(t *testing.T, r *Reloader) string {
	t.Helper()
	cert, err := r.GetCertificate(nil)
	if err != nil || cert == nil || cert.Leaf == nil {
		t.Fatalf("GetCertificate() = %v, %v", cert, err)
	}
	return cert.Leaf.Subject.CommonName
}

func TestNewReloader(t *testing.T) {
	certFile, keyFile := newPairFiles(t)
	writePair(t, certFile, keyFile, "first", time.Now().Add(365*24*time.Hour))

	r, err := NewReloader(certFile, keyFile, nil)
	if err != nil {
		t.Fatalf("NewReloader() error = %v", err)
	}
	if got := commonName(t, r); got != "first" {
		t.Errorf("CommonName = %q, want first", got)
	}
	if r.ServerConfig().GetCertificate == nil {
		t.Error("ServerConfig() has no GetCertificate hook")
	}
	if err := r.Close(); err != nil {
		t.Errorf("Close() without Watch error = %v", err)
	}
}

func TestNewReloader_Invalid(t *testing.T) {
	certFile, keyFile := newPairFiles(t)
	if _, err := NewReloader(certFile, keyFile, nil); err == nil {
		t.Error("NewReloader(missing files) should fail")
	}

	os.WriteFile(certFile, []byte("invalid"), 0o644)
	os.WriteFile(keyFile, []byte("invalid"), 0o600)
	if _, err := NewReloader(certFile, keyFile, nil); err == nil {
		t.Error("NewReloader(invalid files) should fail")
	}
}

func TestReloader_ExpiryWarning(t *testing.T) {
	certFile, keyFile := newPairFiles(t)
	writePair(t, certFile, keyFile, "short", time.Now().Add(24*time.Hour))

	var buf bytes.Buffer
	if _, err := NewReloader(certFile, keyFile, slog.New(slog.NewTextHandler(&buf, nil))); err != nil {
		t.Fatalf("NewReloader() error = %v", err)
	}
	if !strings.Contains(buf.String(), "certificate expires soon") {
		t.Errorf("log = %q, want expiry warning", buf.String())
	}
}

func TestReloader_FailedReloadKeepsPrevious(t *testing.T) {
	certFile, keyFile := newPairFiles(t)
	writePair(t, certFile, keyFile, "good", time.Now().Add(365*24*time.Hour))

	r, err := NewReloader(certFile, keyFile, nil)
	if err != nil {
		t.Fatalf("NewReloader() error = %v", err)
	}
	os.WriteFile(certFile, []byte("truncated"), 0o644)

	if err := r.Reload(); err == nil {
		t.Error("Reload() of a broken pair should fail")
	}
	if got := commonName(t, r); got != "good" {
		t.Errorf("CommonName = %q, want previous certificate", got)
	}
}

func TestReloader_WatchPicksUpRotation(t *testing.T) {
	certFile, keyFile := newPairFiles(t)
	writePair(t, certFile, keyFile, "before", time.Now().Add(365*24*time.Hour))

	r, err := NewReloader(certFile, keyFile, nil)
	if err != nil {
		t.Fatalf("NewReloader() error = %v", err)
	}
	if err := r.Watch(confloader.WithDebounce(20 * time.Millisecond)); err != nil {
		t.Fatalf("Watch() error = %v", err)
	}
	defer r.Close()

	writePair(t, certFile, keyFile, "after", time.Now().Add(365*24*time.Hour))

	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if commonName(t, r) == "after" {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Errorf("CommonName = %q after rotation, want after", commonName(t, r))
}

func TestReloader_HTTPSRoundTrip(t *testing.T) {
	certFile, keyFile := newPairFiles(t)
	writePair(t, certFile, keyFile, "printlink", time.Now().Add(365*24*time.Hour))

	r, err := NewReloader(certFile, keyFile, nil)
	if err != nil {
		t.Fatalf("NewReloader() error = %v", err)
	}

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	srv := &http.Server{Handler: http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		io.WriteString(w, "ok")
	})}
	go srv.Serve(tls.NewListener(ln, r.ServerConfig()))
	defer srv.Close()

	clientCfg, err := ClientConfig(certFile)
	if err != nil {
		t.Fatalf("ClientConfig() error = %v", err)
	}
	client := &http.Client{Timeout: 5 * time.Second, Transport: &http.Transport{TLSClientConfig: clientCfg}}

	resp, err := client.Get("https://" + ln.Addr().String() + "/")
	if err != nil {
		t.Fatalf("GET error = %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if string(body) != "ok" {
		t.Errorf("body = %q, want ok", body)
	}

	// Without the CA file the self-signed certificate is rejected.
	plain, _ := ClientConfig("")
	client.Transport = &http.Transport{TLSClientConfig: plain}
	if _, err := client.Get("https://" + ln.Addr().String() + "/"); err == nil {
		t.Error("GET without CA should fail verification")
	}
}
