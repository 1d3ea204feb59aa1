package finmemo

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Engine names.
const (
	EngineRod      = "rod"
	EngineChromedp = "chromedp"
)

// DefaultImageWait bounds how long the renderer waits for each image.
const DefaultImageWait = 5 * time.Second

// IndexFileName is the body document inside the render directory.
const IndexFileName = "index.html"

// Engine prints a prepared HTML directory to PDF with a headless browser.
type Engine interface {
	Render(ctx context.Context, req RenderRequest) ([]byte, error)
	Close() error
}

// RenderRequest points an engine at a directory holding IndexFileName and
// everything it links to.
type RenderRequest struct {
	BaseDir   string
	ImageWait time.Duration
	Page      PageSize
}

// URL returns the file URL of the index document.
func (r RenderRequest) URL() string {
	return "file://" + filepath.ToSlash(filepath.Join(r.BaseDir, IndexFileName))
}

func (r RenderRequest) imageWaitMillis() int64 {
	if r.ImageWait <= 0 {
		return DefaultImageWait.Milliseconds()
	}
	return r.ImageWait.Milliseconds()
}

// settleScript resolves once web fonts are ready and every image has loaded,
// failed, or used up its wait. Broken images never block printing.
const settleScript = `(wait) => Promise.all([
  document.fonts ? document.fonts.ready : Promise.resolve(),
  ...Array.from(document.images).map((img) => img.complete
    ? Promise.resolve()
    : new Promise((done) => {
        img.addEventListener('load', done, { once: true });
        img.addEventListener('error', done, { once: true });
        setTimeout(done, wait);
      })),
]).then(() => true)`

// EngineOptions configure NewEngine.
type EngineOptions struct {
	Timeout     time.Duration
	BrowserPath string // empty: ROD_BROWSER_BIN or auto-detect
}

// NewEngine returns the named engine. Empty name selects EngineRod.
func NewEngine(name string, opts EngineOptions) (Engine, error) {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", EngineRod:
		return newRodEngine(opts), nil
	case EngineChromedp:
		return newChromedpEngine(opts), nil
	default:
		return nil, fmt.Errorf("%w: %q (want %s or %s)", ErrUnknownEngine, name, EngineRod, EngineChromedp)
	}
}

// remaining returns the time left before ctx's deadline, capped at fallback.
func remaining(ctx context.Context, fallback time.Duration) (time.Duration, error) {
	deadline, ok := ctx.Deadline()
	if !ok {
		return fallback, nil
	}
	left := time.Until(deadline)
	if left <= 0 {
		return 0, context.DeadlineExceeded
	}
	if left < fallback {
		return left, nil
	}
	return fallback, nil
}

// noSandbox reports whether Chrome must run without its sandbox: in CI, when
// ROD_NO_SANDBOX=1, or with a custom binary (usually a container image).
func noSandbox(bin string) bool {
	return os.Getenv("CI") == "true" || os.Getenv("ROD_NO_SANDBOX") == "1" || bin != ""
}
