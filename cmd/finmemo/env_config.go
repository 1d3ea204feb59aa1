package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/alnah/go-finmemo/internal/config"
)

// envPrefix scopes every variable read by finmemo.
const envPrefix = "FINMEMO_"

// envConfig holds configuration from environment variables.
// Provides container-friendly overrides without requiring YAML files.
type envConfig struct {
	ConfigPath  string // FINMEMO_CONFIG: config file name or path
	Addr        string // FINMEMO_ADDR: listen host
	Port        int    // FINMEMO_PORT, then PORT
	Timeout     string // FINMEMO_TIMEOUT: per-document timeout
	Workers     int    // FINMEMO_WORKERS: pooled generators
	Engine      string // FINMEMO_ENGINE: rod or chromedp
	TectonicBin string // FINMEMO_TECTONIC_BIN: cover compiler
	AssetPath   string // FINMEMO_ASSET_PATH: asset override directory
	PageSize    string // FINMEMO_PAGE_SIZE: a4, letter, legal
}

// knownEnvVars lists valid FINMEMO_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"FINMEMO_CONFIG":       true,
	"FINMEMO_ADDR":         true,
	"FINMEMO_PORT":         true,
	"FINMEMO_TIMEOUT":      true,
	"FINMEMO_WORKERS":      true,
	"FINMEMO_ENGINE":       true,
	"FINMEMO_TECTONIC_BIN": true,
	"FINMEMO_ASSET_PATH":   true,
	"FINMEMO_PAGE_SIZE":    true,
	"FINMEMO_CONTAINER":    true, // read by doctor
}

// loadEnvConfig reads configuration through getenv. Malformed numbers are
// ignored, like unset ones.
func loadEnvConfig(getenv func(string) string) *envConfig {
	cfg := &envConfig{
		ConfigPath:  getenv("FINMEMO_CONFIG"),
		Addr:        getenv("FINMEMO_ADDR"),
		Timeout:     getenv("FINMEMO_TIMEOUT"),
		Engine:      getenv("FINMEMO_ENGINE"),
		TectonicBin: getenv("FINMEMO_TECTONIC_BIN"),
		AssetPath:   getenv("FINMEMO_ASSET_PATH"),
		PageSize:    getenv("FINMEMO_PAGE_SIZE"),
	}

	// PORT is the platform convention (Render, Heroku, Cloud Run).
	for _, name := range []string{"FINMEMO_PORT", "PORT"} {
		if p, err := strconv.Atoi(getenv(name)); err == nil && p > 0 {
			cfg.Port = p
			break
		}
	}

	if w, err := strconv.Atoi(getenv("FINMEMO_WORKERS")); err == nil && w > 0 {
		cfg.Workers = w
	}

	return cfg
}

// warnUnknownEnvVars logs warnings for unrecognized FINMEMO_* variables.
// Helps catch typos like FINMEMO_WORKER instead of FINMEMO_WORKERS.
func warnUnknownEnvVars(w io.Writer, environ []string) {
	for _, env := range environ {
		if !strings.HasPrefix(env, envPrefix) {
			continue
		}
		name, _, _ := strings.Cut(env, "=")
		if !knownEnvVars[name] {
			fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
		}
	}
}

// applyEnvConfig overrides config file values with set environment values.
// CLI flags are applied afterwards, giving flags > env > file > defaults.
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	if env.Addr != "" {
		cfg.Server.Addr = env.Addr
	}
	if env.Port > 0 {
		cfg.Server.Port = env.Port
	}
	if env.Timeout != "" {
		cfg.Render.Timeout = env.Timeout
	}
	if env.Workers > 0 {
		cfg.Render.Workers = env.Workers
	}
	if env.Engine != "" {
		cfg.Render.Engine = env.Engine
	}
	if env.PageSize != "" {
		cfg.Render.PageSize = env.PageSize
	}
	if env.TectonicBin != "" {
		cfg.Typeset.Binary = env.TectonicBin
	}
	if env.AssetPath != "" {
		cfg.Assets.BasePath = env.AssetPath
	}
}
