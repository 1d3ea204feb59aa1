// Package pdfmerge assembles the final memorandum: the cover's first page
// followed by every body page, in order. Page content is never re-flowed;
// pdfcpu copies page objects structurally.
package pdfmerge

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// Sentinel errors for merging.
var (
	ErrInvalidPDF = errors.New("invalid PDF")
	ErrEmptyBody  = errors.New("body PDF has no pages")
)

// Artifact names used in error messages.
const (
	Cover = "cover"
	Body  = "body"
)

// Result is the merged document.
type Result struct {
	PDF   []byte
	Pages int
}

var disableConfigDir sync.Once

func newConfig() *model.Configuration {
	// pdfcpu otherwise creates a config directory under the user's home.
	disableConfigDir.Do(api.DisableConfigDir)

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return conf
}

// PageCount parses pdf and returns its number of pages.
func PageCount(pdf []byte) (int, error) {
	return pageCount(pdf, "document", newConfig())
}

func pageCount(pdf []byte, name string, conf *model.Configuration) (int, error) {
	if len(pdf) == 0 {
		return 0, fmt.Errorf("%w: %s is empty", ErrInvalidPDF, name)
	}
	n, err := api.PageCount(bytes.NewReader(pdf), conf)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", ErrInvalidPDF, name, err)
	}
	return n, nil
}

// Merge places page 1 of cover before all pages of body. The result has
// exactly 1 + body page count pages. Inputs are not modified.
func Merge(cover, body []byte) (*Result, error) {
	conf := newConfig()

	coverPages, err := pageCount(cover, Cover, conf)
	if err != nil {
		return nil, err
	}
	if coverPages == 0 {
		return nil, fmt.Errorf("%w: %s has no pages", ErrInvalidPDF, Cover)
	}
	bodyPages, err := pageCount(body, Body, conf)
	if err != nil {
		return nil, err
	}
	if bodyPages == 0 {
		return nil, ErrEmptyBody
	}

	firstPage := cover
	if coverPages > 1 {
		var trimmed bytes.Buffer
		if err := api.Trim(bytes.NewReader(cover), &trimmed, []string{"1"}, conf); err != nil {
			return nil, fmt.Errorf("%w: %s: trimming to page 1: %v", ErrInvalidPDF, Cover, err)
		}
		firstPage = trimmed.Bytes()
	}

	var out bytes.Buffer
	sources := []io.ReadSeeker{bytes.NewReader(firstPage), bytes.NewReader(body)}
	if err := api.MergeRaw(sources, &out, false, conf); err != nil {
		return nil, fmt.Errorf("merging %s and %s: %w", Cover, Body, err)
	}

	pages, err := pageCount(out.Bytes(), "merged document", conf)
	if err != nil {
		return nil, err
	}
	if pages != 1+bodyPages {
		return nil, fmt.Errorf("merged document has %d pages, want %d", pages, 1+bodyPages)
	}
	return &Result{PDF: out.Bytes(), Pages: pages}, nil
}
