package typeset

import (
	"bytes"
	"fmt"
	"strings"
)

// Fixed file names inside the workspace.
const (
	ParamFileName  = "cover-data.tex"
	ImageBaseName  = "cover-image"
	OutputFileName = "cover.pdf"
)

// CoverParams are the resolved cover strings. Values are raw user text;
// ParamFile escapes them.
type CoverParams struct {
	MainTitle      string
	SubOne         string
	SubTwo         string
	Headline       string
	ProjectName    string
	LoanAmount     string
	Date           string
	RefNumber      string
	CompanyWebsite string
	CompanyLine    string // may span lines
	ImageFit       string // "cover" or "contain"
}

// Image is the optional cover photograph.
type Image struct {
	Data []byte
	Ext  string // ".png" or ".jpg"
}

// FileName returns the image name inside the workspace.
func (img *Image) FileName() string {
	return ImageBaseName + img.Ext
}

// ParamFile renders cover-data.tex. imagePath is the workspace-relative image
// name, or empty when the cover has no photograph.
func ParamFile(p CoverParams, imagePath string) []byte {
	fit := p.ImageFit
	if fit != "cover" {
		fit = "contain"
	}

	var b bytes.Buffer
	b.WriteString("% generated per request; do not edit\n")
	define(&b, "MainTitle", inline(p.MainTitle))
	define(&b, "SubOne", inline(p.SubOne))
	define(&b, "SubTwo", inline(p.SubTwo))
	define(&b, "Headline", inline(p.Headline))
	define(&b, "ProjectName", inline(p.ProjectName))
	define(&b, "LoanAmount", inline(p.LoanAmount))
	define(&b, "DateLine", inline(p.Date))
	define(&b, "RefNumber", inline(p.RefNumber))
	define(&b, "CompanyWebsite", inline(p.CompanyWebsite))
	define(&b, "CompanyLine", EscapeLines(p.CompanyLine))
	// Image name and fit are generated here, never user text.
	define(&b, "CoverImagePath", imagePath)
	define(&b, "CoverImageFit", fit)
	return b.Bytes()
}

// inline escapes a single-line value; stray line breaks would end the
// \newcommand argument early.
func inline(s string) string {
	return Escape(strings.Join(strings.Fields(s), " "))
}

func define(b *bytes.Buffer, name, value string) {
	fmt.Fprintf(b, "\\newcommand*{\\%s}{%s}\n", name, value)
}
