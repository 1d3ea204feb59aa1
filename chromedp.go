package finmemo

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
)

var _ Engine = (*chromedpEngine)(nil)

// chromedpEngine renders through chromedp on one shared allocator. Every
// render opens a tab in a new browser context.
type chromedpEngine struct {
	timeout     time.Duration
	browserPath string

	mu            sync.Mutex
	allocCancel   context.CancelFunc
	browserCtx    context.Context
	browserCancel context.CancelFunc
}

func newChromedpEngine(opts EngineOptions) *chromedpEngine {
	return &chromedpEngine{timeout: opts.Timeout, browserPath: opts.BrowserPath}
}

// ensureBrowser starts the browser once and returns its context. Concurrent
// first renders wait for the same start; a failed start is retried by the
// next render.
func (e *chromedpEngine) ensureBrowser() (context.Context, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.browserCtx != nil {
		return e.browserCtx, nil
	}

	options := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)

	bin := e.browserPath
	if bin == "" {
		bin = os.Getenv("ROD_BROWSER_BIN")
	}
	if bin != "" {
		options = append(options, chromedp.ExecPath(bin))
	}
	if noSandbox(bin) {
		options = append(options, chromedp.NoSandbox)
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), options...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)

	// The first Run launches the browser.
	if err := chromedp.Run(browserCtx); err != nil {
		browserCancel()
		allocCancel()
		return nil, fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	e.allocCancel, e.browserCtx, e.browserCancel = allocCancel, browserCtx, browserCancel
	return browserCtx, nil
}

// Render navigates a fresh tab to req's index document and prints it.
func (e *chromedpEngine) Render(ctx context.Context, req RenderRequest) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	browserCtx, err := e.ensureBrowser()
	if err != nil {
		return nil, err
	}

	timeout, err := remaining(ctx, e.timeout)
	if err != nil {
		return nil, err
	}

	tabCtx, cancelTab := chromedp.NewContext(browserCtx, chromedp.WithNewBrowserContext())
	defer cancelTab()
	stop := context.AfterFunc(ctx, cancelTab)
	defer stop()

	execCtx, cancel := context.WithTimeout(tabCtx, timeout)
	defer cancel()

	if err := chromedp.Run(execCtx, chromedp.Navigate(req.URL())); err != nil {
		return nil, e.classify(ctx, ErrPageLoad, err)
	}

	var settled bool
	settle := fmt.Sprintf("(%s)(%d)", settleScript, req.imageWaitMillis())
	awaitPromise := func(p *runtime.EvaluateParams) *runtime.EvaluateParams {
		return p.WithAwaitPromise(true)
	}
	if err := chromedp.Run(execCtx, chromedp.Evaluate(settle, &settled, awaitPromise)); err != nil {
		return nil, e.classify(ctx, ErrPageLoad, err)
	}

	size := req.Page
	if size.Width == 0 || size.Height == 0 {
		size = DefaultPageSize
	}

	var pdf []byte
	err = chromedp.Run(execCtx, chromedp.ActionFunc(func(ctx context.Context) error {
		var err error
		pdf, _, err = page.PrintToPDF().
			WithPaperWidth(size.Width).
			WithPaperHeight(size.Height).
			WithMarginTop(0).
			WithMarginBottom(0).
			WithMarginLeft(0).
			WithMarginRight(0).
			WithPrintBackground(true).
			WithDisplayHeaderFooter(false).
			Do(ctx)
		return err
	}))
	if err != nil {
		return nil, e.classify(ctx, ErrPDFGeneration, err)
	}
	return pdf, nil
}

// classify prefers the caller's cancellation over the browser's error.
func (e *chromedpEngine) classify(ctx context.Context, sentinel, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	return fmt.Errorf("%w: %v", sentinel, err)
}

// Close stops the browser and its allocator.
func (e *chromedpEngine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.browserCancel != nil {
		e.browserCancel()
	}
	if e.allocCancel != nil {
		e.allocCancel()
	}
	e.browserCtx, e.browserCancel, e.allocCancel = nil, nil, nil
	return nil
}
