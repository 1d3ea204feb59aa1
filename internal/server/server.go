// Package server exposes the memo generator over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"k8s.io/klog/v2"

	finmemo "github.com/alnah/go-finmemo"
)

// Defaults for Options fields left at zero.
const (
	DefaultMaxUploadBytes  int64 = 64 << 20
	DefaultRequestTimeout        = 90 * time.Second
	DefaultShutdownTimeout       = 15 * time.Second

	// multipartMemory is kept in memory before spilling uploads to disk.
	multipartMemory = 32 << 20
	readHeaderLimit = 10 * time.Second
)

// Renderer generates one memorandum. *finmemo.GeneratorPool implements it.
type Renderer interface {
	Generate(ctx context.Context, req finmemo.Request) (*finmemo.Result, error)
}

// Options tunes request limits.
type Options struct {
	MaxPayloadBytes int64         // JSON document; 0 = finmemo.DefaultMaxPayloadBytes
	MaxUploadBytes  int64         // whole request body including images
	RequestTimeout  time.Duration // enforced by middleware.Timeout
}

func (o Options) withDefaults() Options {
	if o.MaxPayloadBytes <= 0 {
		o.MaxPayloadBytes = finmemo.DefaultMaxPayloadBytes
	}
	if o.MaxUploadBytes <= 0 {
		o.MaxUploadBytes = DefaultMaxUploadBytes
	}
	if o.RequestTimeout <= 0 {
		o.RequestTimeout = DefaultRequestTimeout
	}
	return o
}

// Server routes HTTP requests to a Renderer.
type Server struct {
	renderer Renderer
	opts     Options
	router   chi.Router
}

// New builds the router.
func New(renderer Renderer, opts Options) *Server {
	s := &Server{renderer: renderer, opts: opts.withDefaults()}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(accessLog)
	r.Use(middleware.Recoverer)
	r.Use(middleware.SetHeader("X-Content-Type-Options", "nosniff"))
	r.Use(middleware.SetHeader("X-Frame-Options", "DENY"))
	r.Use(middleware.Timeout(s.opts.RequestTimeout))

	r.Get("/health", s.handleHealth)
	r.With(middleware.Compress(5, "application/json")).
		Post("/api/generate", s.handleGenerate)

	s.router = r
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("OK"))
}

// accessLog writes one klog line per request.
func accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		klog.V(1).InfoS("http request",
			"requestId", middleware.GetReqID(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
		)
	})
}

// Serve accepts connections on ln until ctx is done, then shuts down
// gracefully, waiting up to shutdownTimeout for in-flight requests.
func Serve(ctx context.Context, ln net.Listener, handler http.Handler, shutdownTimeout time.Duration) error {
	if shutdownTimeout <= 0 {
		shutdownTimeout = DefaultShutdownTimeout
	}
	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: readHeaderLimit,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		klog.Infof("finance memo generator listening on %s", ln.Addr())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	klog.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}

// ListenAndServe listens on addr and calls Serve.
func ListenAndServe(ctx context.Context, addr string, handler http.Handler, shutdownTimeout time.Duration) error {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", addr, err)
	}
	return Serve(ctx, ln, handler, shutdownTimeout)
}
