package main

import (
	"errors"
	"testing"
	"time"

	finmemo "github.com/alnah/go-finmemo"
)

// ---------------------------------------------------------------------------
// TestGeneratorOptions - Config to Generator options
// ---------------------------------------------------------------------------

func TestGeneratorOptions(t *testing.T) {
	t.Parallel()

	t.Run("defaults", func(t *testing.T) {
		t.Parallel()

		opts, err := generatorOptions(newTestConfig(), time.Now)
		if err != nil {
			t.Fatalf("generatorOptions: %v", err)
		}
		if len(opts) == 0 {
			t.Error("expected options")
		}
	})

	t.Run("invalid page size", func(t *testing.T) {
		t.Parallel()

		cfg := newTestConfig()
		cfg.Render.PageSize = "tabloid"
		if _, err := generatorOptions(cfg, time.Now); !errors.Is(err, finmemo.ErrInvalidPageSize) {
			t.Errorf("error = %v, want ErrInvalidPageSize", err)
		}
	})
}

// ---------------------------------------------------------------------------
// TestNewPoolRenderer - Startup validation
// ---------------------------------------------------------------------------

func TestNewPoolRenderer_UnknownEngine(t *testing.T) {
	t.Parallel()

	cfg := newTestConfig()
	cfg.Render.Engine = "webkit"

	r, err := newPoolRenderer(cfg, time.Now)
	if !errors.Is(err, finmemo.ErrUnknownEngine) {
		t.Fatalf("error = %v, want ErrUnknownEngine", err)
	}
	if r != nil {
		t.Error("renderer should be nil on error")
	}
}

func TestNewPoolRenderer_InvalidAssetPath(t *testing.T) {
	t.Parallel()

	cfg := newTestConfig()
	cfg.Assets.BasePath = "/nonexistent/finmemo/assets"

	if _, err := newPoolRenderer(cfg, time.Now); !errors.Is(err, finmemo.ErrInvalidAssetPath) {
		t.Errorf("error = %v, want ErrInvalidAssetPath", err)
	}
}

func TestCoverDefaults(t *testing.T) {
	t.Parallel()

	cfg := newTestConfig()
	cfg.Cover.Subheadline1 = "Senior Debt"
	cfg.Cover.ReferenceNumber = "FM-2026-014"

	got := coverDefaults(cfg.Cover)
	if got.SubOne != "Senior Debt" || got.RefNumber != "FM-2026-014" {
		t.Errorf("coverDefaults() = %+v", got)
	}
}
