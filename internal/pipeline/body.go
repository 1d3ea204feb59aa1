package pipeline

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"strings"
)

// Sentinel errors for body rendering.
var (
	ErrBodyParse     = errors.New("body template parse failed")
	ErrBodyRender    = errors.New("body template rendering failed")
	ErrFuncsNotBound = errors.New("body template helpers not provided")
)

// Template function names available to the body template.
const (
	FuncHasAnyValue = "hasAnyValue"
	FuncNL2BR       = "nl2br"
)

// Funcs are the helpers injected into one Execute call.
type Funcs struct {
	HasAnyValue func(v any) bool
	NL2BR       func(v any) template.HTML
}

func (f Funcs) funcMap() template.FuncMap {
	return template.FuncMap{
		FuncHasAnyValue: f.HasAnyValue,
		FuncNL2BR:       f.NL2BR,
	}
}

// unbound stands in at parse time so the parser knows the helper names.
var unbound = template.FuncMap{
	FuncHasAnyValue: func(any) (bool, error) { return false, ErrFuncsNotBound },
	FuncNL2BR:       func(any) (template.HTML, error) { return "", ErrFuncsNotBound },
}

// BodyTemplate is a parsed body template. It is never executed directly, so
// it can be cloned concurrently.
type BodyTemplate struct {
	tmpl *template.Template
}

// ParseBody parses the body template source.
func ParseBody(src string) (*BodyTemplate, error) {
	tmpl, err := template.New("body").Option("missingkey=error").Funcs(unbound).Parse(src)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBodyParse, err)
	}
	return &BodyTemplate{tmpl: tmpl}, nil
}

// Execute renders data with the given helpers bound. Output is returned only
// when the whole template executed.
func (b *BodyTemplate) Execute(data any, funcs Funcs) ([]byte, error) {
	if funcs.HasAnyValue == nil || funcs.NL2BR == nil {
		return nil, ErrFuncsNotBound
	}

	tmpl, err := b.tmpl.Clone()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBodyRender, err)
	}
	tmpl.Funcs(funcs.funcMap())

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBodyRender, err)
	}
	return buf.Bytes(), nil
}

// NL2BR escapes v as HTML text and converts \r\n and \n into <br/>.
func NL2BR(v any) template.HTML {
	s := template.HTMLEscapeString(toString(v))
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return template.HTML(strings.ReplaceAll(s, "\n", "<br/>")) // #nosec G203 -- escaped above
}

func toString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprint(val)
	}
}
