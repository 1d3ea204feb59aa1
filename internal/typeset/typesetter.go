package typeset

import (
	"context"
	"fmt"
	"io/fs"
	"os/exec"
	"strings"
	"time"

	"k8s.io/klog/v2"

	"github.com/alnah/go-finmemo/internal/assets"
	"github.com/alnah/go-finmemo/internal/fileutil"
)

// DefaultBinary is the compiler looked up on PATH.
const DefaultBinary = "tectonic"

// OutDirPlaceholder in compiler arguments is replaced by the workspace path.
const OutDirPlaceholder = "{outdir}"

// DefaultArgs compiles the cover entry into the workspace.
var DefaultArgs = []string{"-X", "compile", assets.CoverEntry, "--outdir", OutDirPlaceholder}

// DirLoader supplies the LaTeX support directory.
type DirLoader interface {
	LoadDir(name string) (fs.FS, error)
}

// Typesetter compiles cover pages. It holds no per-request state and is safe
// for concurrent use.
type Typesetter struct {
	bin    string
	args   []string
	runner Runner
	assets DirLoader
}

// Option configures a Typesetter.
type Option func(*Typesetter)

// WithBinary sets the compiler binary (name on PATH or absolute path).
func WithBinary(bin string) Option {
	return func(t *Typesetter) {
		if bin != "" {
			t.bin = bin
		}
	}
}

// WithArgs replaces the compiler arguments. OutDirPlaceholder is expanded.
func WithArgs(args ...string) Option {
	return func(t *Typesetter) {
		if len(args) > 0 {
			t.args = append([]string(nil), args...)
		}
	}
}

// WithRunner replaces the process runner (tests use a fake).
func WithRunner(r Runner) Option {
	return func(t *Typesetter) {
		if r != nil {
			t.runner = r
		}
	}
}

// WithAssets sets where the LaTeX support files come from.
func WithAssets(loader DirLoader) Option {
	return func(t *Typesetter) {
		if loader != nil {
			t.assets = loader
		}
	}
}

// New creates a Typesetter using Tectonic and the embedded cover template
// unless overridden.
func New(opts ...Option) *Typesetter {
	t := &Typesetter{
		bin:    DefaultBinary,
		args:   DefaultArgs,
		runner: ExecRunner{},
		assets: assets.NewEmbeddedLoader(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Binary returns the configured compiler binary.
func (t *Typesetter) Binary() string { return t.bin }

// LookPath resolves the compiler binary on PATH.
func (t *Typesetter) LookPath() (string, error) {
	path, err := exec.LookPath(t.bin)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrTypesetterNotFound, t.bin)
	}
	return path, nil
}

// Render typesets one cover page and returns its PDF bytes. The workspace is
// removed before Render returns, whatever the outcome.
func (t *Typesetter) Render(ctx context.Context, params CoverParams, img *Image) ([]byte, error) {
	ws, err := fileutil.NewWorkspace("cover")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrWorkspace, err)
	}
	defer func() {
		if rmErr := ws.Remove(); rmErr != nil {
			klog.Warningf("typeset: %v", rmErr)
		}
	}()

	if err := t.prepare(ws, params, img); err != nil {
		return nil, err
	}

	start := time.Now()
	res, err := t.runner.Run(ctx, ws.Dir(), t.bin, t.expandArgs(ws.Dir()))
	if err != nil {
		return nil, err
	}
	if res.ExitCode != 0 {
		compileErr := &CompileError{
			ExitCode: res.ExitCode,
			Stdout:   string(res.Stdout),
			Stderr:   string(res.Stderr),
		}
		klog.Errorf("typeset: %s exited with status %d\n%s", t.bin, res.ExitCode, compileErr.Diagnostics())
		return nil, compileErr
	}
	klog.V(2).Infof("typeset: cover compiled in %s", time.Since(start).Round(time.Millisecond))

	pdf, err := ws.ReadFile(OutputFileName)
	if err != nil {
		return nil, fmt.Errorf("%w: compiler produced no %s", ErrTypesetFailed, OutputFileName)
	}
	return pdf, nil
}

// prepare seeds the workspace with support files, the image and the
// parameter file.
func (t *Typesetter) prepare(ws *fileutil.Workspace, params CoverParams, img *Image) error {
	support, err := t.assets.LoadDir(assets.LatexDir)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWorkspace, err)
	}
	if err := ws.CopyFS(support); err != nil {
		return fmt.Errorf("%w: %v", ErrWorkspace, err)
	}

	imagePath := ""
	if img != nil && len(img.Data) > 0 {
		normalized := &Image{Data: img.Data, Ext: normalizeExt(img.Ext)}
		if err := ws.WriteFile(normalized.FileName(), normalized.Data); err != nil {
			return fmt.Errorf("%w: %v", ErrWorkspace, err)
		}
		imagePath = normalized.FileName()
	}

	if err := ws.WriteFile(ParamFileName, ParamFile(params, imagePath)); err != nil {
		return fmt.Errorf("%w: %v", ErrWorkspace, err)
	}
	return nil
}

func (t *Typesetter) expandArgs(dir string) []string {
	args := make([]string, len(t.args))
	for i, a := range t.args {
		args[i] = strings.ReplaceAll(a, OutDirPlaceholder, dir)
	}
	return args
}

// normalizeExt limits the image suffix to what the cover template includes.
func normalizeExt(ext string) string {
	switch strings.ToLower(ext) {
	case ".jpg", ".jpeg":
		return ".jpg"
	default:
		return ".png"
	}
}
