package finmemo

// Notes:
// - Shared fixtures for the root package tests: minimal PDFs that pdfcpu
//   accepts, image bytes from the standard encoders, and fakes for the two
//   external renderers (browser engine and cover typesetter).

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/alnah/go-finmemo/internal/typeset"
)

// ---------------------------------------------------------------------------
// Fixtures
// ---------------------------------------------------------------------------

// minimalPDF builds a valid PDF with the given number of A4 pages.
func minimalPDF(pages int) []byte {
	var b bytes.Buffer
	var offsets []int
	obj := func(body string) {
		offsets = append(offsets, b.Len())
		fmt.Fprintf(&b, "%d 0 obj\n%s\nendobj\n", len(offsets), body)
	}

	b.WriteString("%PDF-1.4\n")
	kids := ""
	for i := 0; i < pages; i++ {
		kids += fmt.Sprintf("%d 0 R ", 4+2*i)
	}
	obj("<< /Type /Catalog /Pages 2 0 R >>")
	obj(fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", kids, pages))
	obj("<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>")
	for i := 0; i < pages; i++ {
		content := fmt.Sprintf("BT /F1 12 Tf 72 720 Td (page %d) Tj ET", i+1)
		obj(fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 595 842] "+
			"/Resources << /Font << /F1 3 0 R >> >> /Contents %d 0 R >>", 5+2*i))
		obj(fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content), content))
	}

	xref := b.Len()
	fmt.Fprintf(&b, "xref\n0 %d\n", len(offsets)+1)
	b.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&b, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&b, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(offsets)+1, xref)
	return b.Bytes()
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.RGBA{G: 120, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode() error = %v", err)
	}
	return buf.Bytes()
}

func jpegBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		t.Fatalf("jpeg.Encode() error = %v", err)
	}
	return buf.Bytes()
}

// ---------------------------------------------------------------------------
// Fakes
// ---------------------------------------------------------------------------

// fakeEngine records what it was asked to print. With blockUntilCancel it
// waits for ctx instead of printing.
type fakeEngine struct {
	mu               sync.Mutex
	pages            int
	err              error
	blockUntilCancel bool

	calls     int
	baseDir   string
	indexHTML []byte
	files     []string
	req       RenderRequest
	ctxErr    error
	closed    bool
}

func (f *fakeEngine) Render(ctx context.Context, req RenderRequest) ([]byte, error) {
	f.mu.Lock()
	f.calls++
	f.req = req
	f.baseDir = req.BaseDir
	f.indexHTML, _ = os.ReadFile(filepath.Join(req.BaseDir, IndexFileName))
	f.files = nil
	_ = filepath.WalkDir(req.BaseDir, func(path string, d os.DirEntry, err error) error {
		if err == nil && !d.IsDir() {
			rel, _ := filepath.Rel(req.BaseDir, path)
			f.files = append(f.files, filepath.ToSlash(rel))
		}
		return nil
	})
	block, pages, err := f.blockUntilCancel, f.pages, f.err
	f.mu.Unlock()

	if block {
		<-ctx.Done()
		f.mu.Lock()
		f.ctxErr = ctx.Err()
		f.mu.Unlock()
		return nil, ctx.Err()
	}
	if err != nil {
		return nil, err
	}
	if pages == 0 {
		pages = 1
	}
	return minimalPDF(pages), nil
}

func (f *fakeEngine) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

// fakeTypesetter returns a one-page cover and remembers its inputs.
type fakeTypesetter struct {
	mu     sync.Mutex
	err    error
	pages  int
	params typeset.CoverParams
	image  *typeset.Image
}

func (f *fakeTypesetter) Render(_ context.Context, params typeset.CoverParams, img *typeset.Image) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.params = params
	f.image = img
	if f.err != nil {
		return nil, f.err
	}
	pages := f.pages
	if pages == 0 {
		pages = 1
	}
	return minimalPDF(pages), nil
}

// failingRunner stands in for the compiler process and exits non-zero. It
// records the workspace it ran in.
type failingRunner struct {
	mu  sync.Mutex
	dir string
}

func (r *failingRunner) Run(_ context.Context, dir, _ string, _ []string) (typeset.RunResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.dir = dir
	return typeset.RunResult{ExitCode: 1, Stderr: []byte("! Undefined control sequence.")}, nil
}

func (r *failingRunner) workspace() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.dir
}

// newTestGenerator builds a Generator around fakes.
func newTestGenerator(t *testing.T, engine Engine, ts CoverTypesetter, opts ...Option) *Generator {
	t.Helper()
	all := append([]Option{WithEngine(engine), WithTypesetter(ts)}, opts...)
	gen, err := NewGenerator(all...)
	if err != nil {
		t.Fatalf("NewGenerator() error = %v", err)
	}
	t.Cleanup(func() { _ = gen.Close() })
	return gen
}
