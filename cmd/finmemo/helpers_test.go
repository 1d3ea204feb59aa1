package main

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	finmemo "github.com/alnah/go-finmemo"
	"github.com/alnah/go-finmemo/internal/config"
)

// ---------------------------------------------------------------------------
// Test Infrastructure - Fake renderer and environment
// ---------------------------------------------------------------------------

// fakeRenderer records requests and returns a canned result or error.
type fakeRenderer struct {
	mu       sync.Mutex
	requests []finmemo.Request
	result   *finmemo.Result
	err      error
	closed   bool
}

func (f *fakeRenderer) Generate(_ context.Context, req finmemo.Request) (*finmemo.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)
	if f.err != nil {
		return nil, f.err
	}
	if f.result != nil {
		return f.result, nil
	}
	return &finmemo.Result{PDF: []byte("%PDF-1.7 fake"), HTML: []byte("<html></html>"), Pages: 3, RequestID: "req-1"}, nil
}

func (f *fakeRenderer) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

// testEnv bundles an Environment with the buffers and fakes behind it.
type testEnv struct {
	*Environment
	stdout   *bytes.Buffer
	stderr   *bytes.Buffer
	renderer *fakeRenderer
	vars     map[string]string

	// captured by the fake constructors
	cfg        *config.Config
	serveAddr  string
	serveCalls int
}

func newTestEnv(vars map[string]string) *testEnv {
	if vars == nil {
		vars = map[string]string{}
	}
	te := &testEnv{
		stdout:   &bytes.Buffer{},
		stderr:   &bytes.Buffer{},
		renderer: &fakeRenderer{},
		vars:     vars,
	}
	te.Environment = &Environment{
		Now:    func() time.Time { return time.Date(2026, 1, 12, 9, 0, 0, 0, time.UTC) },
		Stdout: te.stdout,
		Stderr: te.stderr,
		Getenv: func(k string) string { return te.vars[k] },
		Environ: func() []string {
			out := make([]string, 0, len(te.vars))
			for k, v := range te.vars {
				out = append(out, k+"="+v)
			}
			return out
		},
		NewRenderer: func(cfg *config.Config, _ func() time.Time) (Renderer, error) {
			te.cfg = cfg
			return te.renderer, nil
		},
		Serve: func(_ context.Context, addr string, handler http.Handler, _ time.Duration) error {
			te.serveAddr = addr
			te.serveCalls++
			if handler == nil {
				return errNilHandler
			}
			return nil
		},
	}
	return te
}

var errNilHandler = errors.New("nil handler")

// writeFile writes content under dir and returns the path.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
	return path
}

const samplePayload = `{
  "cover": {"mainTitle": "Riverside Lofts", "preparedFor": "Harbour Capital"},
  "loan": {"loanAmount": "$4,500,000"}
}`

func newTestConfig() *config.Config {
	return config.DefaultConfig()
}
