package finmemo

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"k8s.io/klog/v2"

	"github.com/alnah/go-finmemo/internal/assets"
	"github.com/alnah/go-finmemo/internal/fileutil"
	"github.com/alnah/go-finmemo/internal/imaging"
	"github.com/alnah/go-finmemo/internal/pdfmerge"
	"github.com/alnah/go-finmemo/internal/pipeline"
	"github.com/alnah/go-finmemo/internal/typeset"
)

// DefaultTimeout bounds one whole Generate call.
const DefaultTimeout = 60 * time.Second

// CoverTypesetter renders the cover page PDF.
type CoverTypesetter interface {
	Render(ctx context.Context, params typeset.CoverParams, img *typeset.Image) ([]byte, error)
}

var _ CoverTypesetter = (*typeset.Typesetter)(nil)

// generatorConfig holds the values options set before NewGenerator wires
// the collaborators.
type generatorConfig struct {
	timeout      time.Duration
	imageWait    time.Duration
	fitTolerance float64
	pageSize     PageSize
	cover        CoverDefaults
	assetPath    string
	engineName   string
	browserPath  string
	typesetBin   string
	typesetArgs  []string
	now          func() time.Time
}

// Option configures a Generator.
type Option func(*Generator)

// WithTimeout bounds each Generate call. Non-positive values are ignored.
func WithTimeout(d time.Duration) Option {
	return func(g *Generator) {
		if d > 0 {
			g.cfg.timeout = d
		}
	}
}

// WithImageWait bounds the per-image wait of the body renderer.
func WithImageWait(d time.Duration) Option {
	return func(g *Generator) {
		if d > 0 {
			g.cfg.imageWait = d
		}
	}
}

// WithFit sets the relative aspect-ratio tolerance within which the cover
// photograph is cropped to fill its frame.
func WithFit(tolerance float64) Option {
	return func(g *Generator) {
		if tolerance >= 0 {
			g.cfg.fitTolerance = tolerance
		}
	}
}

// WithPageSize sets the body paper size.
func WithPageSize(size PageSize) Option {
	return func(g *Generator) {
		if size.Width > 0 && size.Height > 0 {
			g.cfg.pageSize = size
		}
	}
}

// WithCoverDefaults overrides the cover fallbacks. Blank fields keep the
// stock value.
func WithCoverDefaults(d CoverDefaults) Option {
	return func(g *Generator) {
		g.cfg.cover = d.merge(DefaultCoverDefaults())
	}
}

// WithAssetPath layers a custom asset directory over the embedded assets.
// Any file found there (body template, stylesheet, fonts, LaTeX sources)
// wins over the embedded one.
func WithAssetPath(path string) Option {
	return func(g *Generator) {
		g.cfg.assetPath = path
	}
}

// WithEngine injects the body renderer. The Generator closes it on Close.
func WithEngine(e Engine) Option {
	return func(g *Generator) {
		g.engine = e
	}
}

// WithEngineName selects a built-in engine (EngineRod or EngineChromedp).
func WithEngineName(name string) Option {
	return func(g *Generator) {
		g.cfg.engineName = name
	}
}

// WithBrowserPath sets the Chrome binary used by built-in engines.
func WithBrowserPath(path string) Option {
	return func(g *Generator) {
		g.cfg.browserPath = path
	}
}

// WithTypesetter injects the cover renderer.
func WithTypesetter(t CoverTypesetter) Option {
	return func(g *Generator) {
		g.typesetter = t
	}
}

// WithTypesetBinary configures the built-in typesetter's compiler command.
func WithTypesetBinary(bin string, args ...string) Option {
	return func(g *Generator) {
		g.cfg.typesetBin = bin
		g.cfg.typesetArgs = args
	}
}

// WithNow sets the clock used for "auto" dates.
func WithNow(now func() time.Time) Option {
	return func(g *Generator) {
		if now != nil {
			g.cfg.now = now
		}
	}
}

// Generator turns a Payload and its uploads into one memorandum PDF.
// Create with NewGenerator and Close when done. A Generator may serve
// concurrent Generate calls; every call works in its own workspaces.
type Generator struct {
	cfg        generatorConfig
	assets     assets.AssetLoader
	body       *pipeline.BodyTemplate
	engine     Engine
	typesetter CoverTypesetter
}

// NewGenerator creates a Generator. The browser is launched on first use.
func NewGenerator(opts ...Option) (*Generator, error) {
	g := &Generator{
		cfg: generatorConfig{
			timeout:      DefaultTimeout,
			imageWait:    DefaultImageWait,
			fitTolerance: imaging.DefaultFitTolerance,
			pageSize:     DefaultPageSize,
			cover:        DefaultCoverDefaults(),
			now:          time.Now,
		},
	}

	for _, opt := range opts {
		opt(g)
	}

	resolver, err := assets.NewAssetResolver(g.cfg.assetPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAssetPath, err)
	}
	g.assets = resolver

	src, err := g.assets.LoadTemplate(assets.BodyTemplateName)
	if err != nil {
		return nil, fmt.Errorf("loading body template: %w", err)
	}
	g.body, err = pipeline.ParseBody(src)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBodyTemplate, err)
	}

	if g.typesetter == nil {
		g.typesetter = typeset.New(
			typeset.WithAssets(g.assets),
			typeset.WithBinary(g.cfg.typesetBin),
			typeset.WithArgs(g.cfg.typesetArgs...),
		)
	}

	// Create engine if not injected (e.g., by tests)
	if g.engine == nil {
		g.engine, err = NewEngine(g.cfg.engineName, EngineOptions{
			Timeout:     g.cfg.timeout,
			BrowserPath: g.cfg.browserPath,
		})
		if err != nil {
			return nil, err
		}
	}

	return g, nil
}

// Generate runs the whole pipeline. The cover and the body render
// concurrently; the first failure cancels the other and is returned once
// both have released their resources.
func (g *Generator) Generate(ctx context.Context, req Request) (res *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrInternal, r)
		}
	}()

	if req.Payload == nil {
		return nil, ErrNilPayload
	}

	requestID := uuid.NewString()
	started := time.Now()
	now := g.cfg.now()

	ctx, cancel := context.WithTimeout(ctx, g.cfg.timeout)
	defer cancel()

	bundle := EncodeAssets(req.Files, g.cfg.fitTolerance)
	vm := Normalize(req.Payload, bundle)
	vm.Date = ResolveDate(vm.Date, now)

	html, err := g.body.Execute(vm, pipeline.Funcs{HasAnyValue: HasAnyValue, NL2BR: pipeline.NL2BR})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBodyTemplate, err)
	}

	params := CoverParams(req.Payload, g.cfg.cover, bundle.CoverFit, now)
	klog.V(2).Infof("[%s] cover fit %s (probed=%t %dx%d)", requestID, bundle.CoverFit,
		bundle.CoverProbed, bundle.CoverDimensions.Width, bundle.CoverDimensions.Height)

	var cover, body []byte
	group, gctx := errgroup.WithContext(ctx)
	group.Go(recovered("cover", func() error {
		pdf, err := g.typesetter.Render(gctx, params, coverImage(req.Files.CoverImage))
		if err != nil {
			return fmt.Errorf("%w: %w", ErrCoverRender, err)
		}
		cover = pdf
		return nil
	}))
	group.Go(recovered("body", func() error {
		pdf, err := g.renderBody(gctx, html)
		if err != nil {
			return err
		}
		body = pdf
		return nil
	}))
	if err := group.Wait(); err != nil {
		klog.Errorf("[%s] generate failed after %s: %v", requestID, time.Since(started), err)
		return nil, err
	}

	merged, err := pdfmerge.Merge(cover, body)
	if err != nil {
		klog.Errorf("[%s] merge failed: %v", requestID, err)
		return nil, fmt.Errorf("%w: %w", ErrMerge, err)
	}

	klog.V(1).Infof("[%s] generated %d pages (%d bytes) in %s", requestID, merged.Pages, len(merged.PDF), time.Since(started))
	return &Result{
		PDF:       merged.PDF,
		HTML:      html,
		Pages:     merged.Pages,
		RequestID: requestID,
	}, nil
}

// recovered turns a panic in a render goroutine into an error, so one bad
// request cannot take the process down.
func recovered(stage string, fn func() error) func() error {
	return func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				klog.Errorf("%s render panicked: %v\n%s", stage, r, debug.Stack())
				err = fmt.Errorf("%w: %s render: %v", ErrInternal, stage, r)
			}
		}()
		return fn()
	}
}

// renderBody writes the body document and its static files into a fresh
// workspace and prints it.
func (g *Generator) renderBody(ctx context.Context, html []byte) ([]byte, error) {
	ws, err := fileutil.NewWorkspace("body")
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := ws.Remove(); err != nil {
			klog.Warningf("body workspace: %v", err)
		}
	}()

	static, err := g.assets.LoadDir(assets.StaticDir)
	if err != nil && !errors.Is(err, assets.ErrDirNotFound) {
		return nil, fmt.Errorf("loading static assets: %w", err)
	}
	if static != nil {
		if err := ws.CopyFS(static); err != nil {
			return nil, fmt.Errorf("seeding body workspace: %w", err)
		}
	}
	if err := ws.WriteFile(IndexFileName, html); err != nil {
		return nil, err
	}

	return g.engine.Render(ctx, RenderRequest{
		BaseDir:   ws.Dir(),
		ImageWait: g.cfg.imageWait,
		Page:      g.cfg.pageSize,
	})
}

// Close releases the browser.
func (g *Generator) Close() error {
	if g.engine != nil {
		return g.engine.Close()
	}
	return nil
}
