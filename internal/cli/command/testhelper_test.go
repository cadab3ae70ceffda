package command

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
)

// fakeAPI is an httptest server speaking the printlink response envelope.
type fakeAPI struct {
	*httptest.Server

	mu       sync.Mutex
	handlers map[string]http.HandlerFunc
	calls    []string
	bodies   []string
	headers  []http.Header
}

func newFakeAPI(t *testing.T) *fakeAPI {
	t.Helper()
	f := &fakeAPI{handlers: make(map[string]http.HandlerFunc)}
	f.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Method + " " + r.URL.Path
		body, _ := io.ReadAll(r.Body)

		f.mu.Lock()
		f.calls = append(f.calls, key)
		f.bodies = append(f.bodies, string(body))
		f.headers = append(f.headers, r.Header.Clone())
		h := f.handlers[key]
		f.mu.Unlock()

		if h == nil {
			fail(w, http.StatusNotFound, "HTTP-404", "no route "+key)
			return
		}
		h(w, r)
	}))
	t.Cleanup(f.Close)
	return f
}

// on registers a handler for "METHOD /path".
func (f *fakeAPI) on(route string, h http.HandlerFunc) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handlers[route] = h
}

func (f *fakeAPI) recorded() (calls, bodies []string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...), append([]string(nil), f.bodies...)
}

// ok writes a success envelope.
func ok(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]any{
		"code":       "OK",
		"message":    "Success",
		"request_id": "req-test",
		"data":       data,
	})
}

// fail writes an error envelope.
func fail(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]any{
		"code":       code,
		"message":    message,
		"request_id": "req-failed",
	})
}

// runCLI runs the app against server with an isolated config file.
func runCLI(t *testing.T, server string, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	return runCLIWithConfig(t, filepath.Join(t.TempDir(), "cli.yaml"), server, args...)
}

func runCLIWithConfig(t *testing.T, cfgPath, server string, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	app := App()
	var out, errOut bytes.Buffer
	app.Writer = &out
	app.ErrWriter = &errOut

	full := []string{"printlink-cli", "--config", cfgPath}
	if server != "" {
		full = append(full, "--server", server)
	}
	err = app.Run(append(full, args...))
	return out.String(), errOut.String(), err
}
