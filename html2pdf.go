package finmemo

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"k8s.io/klog/v2"

	"github.com/alnah/go-finmemo/internal/process"
)

var _ Engine = (*rodEngine)(nil)

// rodEngine renders with go-rod. Rod downloads Chromium on first run if no
// browser is found. Each render gets its own incognito context.
type rodEngine struct {
	timeout     time.Duration
	browserPath string

	mu       sync.Mutex
	launcher *launcher.Launcher
	browser  *rod.Browser
}

func newRodEngine(opts EngineOptions) *rodEngine {
	return &rodEngine{timeout: opts.Timeout, browserPath: opts.BrowserPath}
}

// ensureBrowser lazily launches and connects to the browser.
func (r *rodEngine) ensureBrowser() (*rod.Browser, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.browser != nil {
		return r.browser, nil
	}

	l := launcher.New()

	bin := r.browserPath
	if bin == "" {
		bin = os.Getenv("ROD_BROWSER_BIN")
	}
	if bin != "" {
		l = l.Bin(bin)
	}

	if noSandbox(bin) {
		l = l.NoSandbox(true)
	}

	u, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	klog.V(2).Infof("browser launched (pid %d)", l.PID())
	r.launcher = l
	r.browser = browser
	return browser, nil
}

// Render loads req's index document in a fresh incognito context and prints
// it edge to edge.
func (r *rodEngine) Render(ctx context.Context, req RenderRequest) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	browser, err := r.ensureBrowser()
	if err != nil {
		return nil, err
	}

	incognito, err := browser.Incognito()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageCreate, err)
	}
	defer func() { _ = incognito.Close() }()

	timeout, err := remaining(ctx, r.timeout)
	if err != nil {
		return nil, err
	}

	page, err := incognito.Page(proto.TargetCreateTarget{URL: req.URL()})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageCreate, err)
	}
	page = page.Context(ctx).Timeout(timeout)
	defer func() { _ = page.Close() }()

	if err := page.WaitLoad(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageLoad, err)
	}
	if _, err := page.Evaluate(rod.Eval(settleScript, req.imageWaitMillis()).ByPromise()); err != nil {
		return nil, fmt.Errorf("%w: waiting for fonts and images: %v", ErrPageLoad, err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	reader, err := page.PDF(printOptions(req.Page))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPDFGeneration, err)
	}

	pdf, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: reading PDF stream: %v", ErrPDFGeneration, err)
	}
	return pdf, nil
}

// printOptions prints at the exact paper size with no margins, backgrounds
// on and no browser header or footer.
func printOptions(size PageSize) *proto.PagePrintToPDF {
	if size.Width == 0 || size.Height == 0 {
		size = DefaultPageSize
	}
	return &proto.PagePrintToPDF{
		PaperWidth:          floatPtr(size.Width),
		PaperHeight:         floatPtr(size.Height),
		MarginTop:           floatPtr(0),
		MarginBottom:        floatPtr(0),
		MarginLeft:          floatPtr(0),
		MarginRight:         floatPtr(0),
		PrintBackground:     true,
		DisplayHeaderFooter: false,
	}
}

// Close shuts the browser down and kills its process group.
func (r *rodEngine) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.browser == nil {
		return nil
	}
	err := r.browser.Close()
	if r.launcher != nil {
		if pid := r.launcher.PID(); pid > 0 {
			process.KillProcessGroup(pid)
		}
		r.launcher.Kill()
		r.launcher = nil
	}
	r.browser = nil
	return err
}

func floatPtr(v float64) *float64 {
	return &v
}
