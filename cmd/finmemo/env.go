package main

import (
	"context"
	"io"
	"net/http"
	"os"
	"time"

	finmemo "github.com/alnah/go-finmemo"
	"github.com/alnah/go-finmemo/internal/config"
	"github.com/alnah/go-finmemo/internal/server"
)

// Renderer generates memoranda and owns the browsers behind them.
type Renderer interface {
	Generate(ctx context.Context, req finmemo.Request) (*finmemo.Result, error)
	Close() error
}

// Compile-time interface check.
var _ Renderer = (*finmemo.GeneratorPool)(nil)

// ServeFunc runs the HTTP server until ctx is done.
type ServeFunc func(ctx context.Context, addr string, handler http.Handler, shutdownTimeout time.Duration) error

// Environment holds injectable dependencies for testability.
// Includes I/O, time, process environment and the rendering backend.
type Environment struct {
	Now         func() time.Time
	Stdout      io.Writer
	Stderr      io.Writer
	Getenv      func(string) string
	Environ     func() []string
	NewRenderer func(cfg *config.Config, now func() time.Time) (Renderer, error)
	Serve       ServeFunc
}

// DefaultEnv returns the production environment.
func DefaultEnv() *Environment {
	return &Environment{
		Now:         time.Now,
		Stdout:      os.Stdout,
		Stderr:      os.Stderr,
		Getenv:      os.Getenv,
		Environ:     os.Environ,
		NewRenderer: newPoolRenderer,
		Serve:       server.ListenAndServe,
	}
}
