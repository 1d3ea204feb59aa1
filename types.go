package finmemo

import (
	"fmt"
	"html/template"
	"strings"

	"github.com/alnah/go-finmemo/internal/imaging"
)

// Page size names.
const (
	PageSizeA4     = "a4"
	PageSizeLetter = "letter"
	PageSizeLegal  = "legal"
)

// PageSize is a physical paper size in inches. The body is always printed
// with zero margins; banding comes from the document's own markup.
type PageSize struct {
	Name   string
	Width  float64
	Height float64
}

var pageSizes = map[string]PageSize{
	PageSizeA4:     {Name: PageSizeA4, Width: 8.27, Height: 11.69},
	PageSizeLetter: {Name: PageSizeLetter, Width: 8.5, Height: 11},
	PageSizeLegal:  {Name: PageSizeLegal, Width: 8.5, Height: 14},
}

// DefaultPageSize is A4, the size the cover template is laid out for.
var DefaultPageSize = pageSizes[PageSizeA4]

// LookupPageSize resolves a page size name (case-insensitive). Empty means A4.
func LookupPageSize(name string) (PageSize, error) {
	if strings.TrimSpace(name) == "" {
		return DefaultPageSize, nil
	}
	size, ok := pageSizes[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return PageSize{}, fmt.Errorf("%w: %q", ErrInvalidPageSize, name)
	}
	return size, nil
}

// MaxPropertyImages caps the property gallery; extra uploads are dropped.
const MaxPropertyImages = 6

// File is one uploaded file.
type File struct {
	Name        string // original file name, may be empty
	ContentType string // declared MIME type, may be empty
	Data        []byte
}

// Empty reports whether f carries no bytes.
func (f *File) Empty() bool {
	return f == nil || len(f.Data) == 0
}

// Files are the uploads accompanying a payload. Every slot is optional.
type Files struct {
	CoverImage     *File
	Logo           *File
	FooterLogo     *File
	PropertyImages []*File
}

// Request is one document generation request.
type Request struct {
	Payload *Payload
	Files   Files
}

// Result is a generated memorandum.
type Result struct {
	PDF       []byte
	HTML      []byte // rendered body, kept for debugging
	Pages     int
	RequestID string
}

// Fit is how the cover photograph fills its frame.
type Fit = imaging.Fit

// Cover fits.
const (
	FitCover   = imaging.FitCover
	FitContain = imaging.FitContain
)

// Dimensions is an image size in pixels.
type Dimensions = imaging.Dimensions

// AssetBundle holds the uploads as inline data URIs. Missing slots are empty.
type AssetBundle struct {
	CoverImage     template.URL
	Logo           template.URL
	FooterLogo     template.URL
	PropertyImages []template.URL

	CoverFit        Fit
	CoverDimensions Dimensions
	CoverProbed     bool // false when the cover dimensions are unknown
}
