package main

import (
	"context"
	"fmt"
	"time"

	"k8s.io/klog/v2"

	"github.com/alnah/go-finmemo/internal/server"
)

// requestSlack is added to the document timeout for the HTTP handler
// deadline so uploads and the response write are covered too.
const requestSlack = 30 * time.Second

// runServe starts the HTTP API and blocks until ctx is canceled.
func runServe(ctx context.Context, args []string, env *Environment) error {
	f, fs, err := parseServeFlags(args, env.Stderr)
	if err != nil {
		return err
	}

	cfg, err := resolveConfig(f.common, fs, &f.engine, env)
	if err != nil {
		return err
	}
	if fs.Changed("addr") {
		cfg.Server.Addr = f.addr
	}
	if fs.Changed("port") {
		cfg.Server.Port = f.port
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	renderer, err := env.NewRenderer(cfg, env.Now)
	if err != nil {
		return err
	}
	defer func() {
		if err := renderer.Close(); err != nil {
			klog.Warningf("closing renderer: %v", err)
		}
	}()

	handler := server.New(renderer, server.Options{
		MaxPayloadBytes: cfg.Server.MaxPayloadBytes,
		MaxUploadBytes:  cfg.Server.MaxUploadBytes,
		RequestTimeout:  cfg.Render.TimeoutDuration() + requestSlack,
	})

	addr := cfg.Server.ListenAddr()
	if !f.common.quiet {
		fmt.Fprintf(env.Stdout, "Finance memo generator running on %s\n", addr)
	}
	return env.Serve(ctx, addr, handler, cfg.Server.ShutdownDuration())
}
