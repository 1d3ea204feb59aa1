package pipeline

// Notes:
// - The embedded memo template is parsed here to catch syntax errors early;
//   section gating against real view-models is tested in the root package.

import (
	"errors"
	"html/template"
	"strings"
	"sync"
	"testing"

	"github.com/alnah/go-finmemo/internal/assets"
)

type note string

func (n note) String() string { return string(n) }

func presentFuncs() Funcs {
	return Funcs{
		HasAnyValue: func(v any) bool { return strings.TrimSpace(toString(v)) != "" },
		NL2BR:       NL2BR,
	}
}

// ---------------------------------------------------------------------------
// TestNL2BR - Escaping with forced line breaks
// ---------------------------------------------------------------------------

func TestNL2BR(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input any
		want  template.HTML
	}{
		{name: "plain", input: "one line", want: "one line"},
		{name: "lf", input: "a\nb", want: "a<br/>b"},
		{name: "crlf", input: "a\r\nb", want: "a<br/>b"},
		{name: "blank line kept", input: "a\n\nb", want: "a<br/><br/>b"},
		{name: "markup escaped", input: "<script>alert(1)</script>\n&", want: "&lt;script&gt;alert(1)&lt;/script&gt;<br/>&amp;"},
		{name: "quotes escaped", input: `"x" 'y'`, want: "&#34;x&#34; &#39;y&#39;"},
		{name: "stringer", input: note("a\nb"), want: "a<br/>b"},
		{name: "number", input: 42, want: "42"},
		{name: "nil", input: nil, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := NL2BR(tt.input); got != tt.want {
				t.Errorf("NL2BR(%v) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestBodyTemplate - Parsing and per-call helper injection
// ---------------------------------------------------------------------------

func TestParseBody_Invalid(t *testing.T) {
	t.Parallel()

	if _, err := ParseBody("{{if}}"); !errors.Is(err, ErrBodyParse) {
		t.Errorf("ParseBody() error = %v, want ErrBodyParse", err)
	}
	if _, err := ParseBody("{{unknownFunc .}}"); !errors.Is(err, ErrBodyParse) {
		t.Errorf("ParseBody() error = %v, want ErrBodyParse for unknown function", err)
	}
}

func TestBodyTemplate_Execute(t *testing.T) {
	t.Parallel()

	tmpl, err := ParseBody(`{{if hasAnyValue .Title}}<h2>{{.Title}}</h2>{{end}}<p>{{nl2br .Body}}</p>`)
	if err != nil {
		t.Fatalf("ParseBody() error = %v", err)
	}

	t.Run("escapes values and converts newlines", func(t *testing.T) {
		t.Parallel()

		got, err := tmpl.Execute(map[string]string{"Title": "<b>Loan</b>", "Body": "x & y\nz"}, presentFuncs())
		if err != nil {
			t.Fatalf("Execute() error = %v", err)
		}
		want := "<h2>&lt;b&gt;Loan&lt;/b&gt;</h2><p>x &amp; y<br/>z</p>"
		if string(got) != want {
			t.Errorf("Execute() = %q, want %q", got, want)
		}
	})

	t.Run("absent section emits no heading", func(t *testing.T) {
		t.Parallel()

		got, err := tmpl.Execute(map[string]string{"Title": "   ", "Body": ""}, presentFuncs())
		if err != nil {
			t.Fatalf("Execute() error = %v", err)
		}
		if strings.Contains(string(got), "<h2>") {
			t.Errorf("Execute() = %q, want no heading", got)
		}
	})

	t.Run("helpers come from the call", func(t *testing.T) {
		t.Parallel()

		never := presentFuncs()
		never.HasAnyValue = func(any) bool { return false }

		got, err := tmpl.Execute(map[string]string{"Title": "Loan", "Body": ""}, never)
		if err != nil {
			t.Fatalf("Execute() error = %v", err)
		}
		if strings.Contains(string(got), "<h2>") {
			t.Errorf("Execute() = %q, injected HasAnyValue was ignored", got)
		}
	})

	t.Run("missing helpers", func(t *testing.T) {
		t.Parallel()

		_, err := tmpl.Execute(map[string]string{}, Funcs{NL2BR: NL2BR})
		if !errors.Is(err, ErrFuncsNotBound) {
			t.Errorf("Execute() error = %v, want ErrFuncsNotBound", err)
		}
	})
}

func TestBodyTemplate_ConcurrentExecute(t *testing.T) {
	t.Parallel()

	tmpl, err := ParseBody(`<p>{{nl2br .}}</p>`)
	if err != nil {
		t.Fatalf("ParseBody() error = %v", err)
	}

	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := tmpl.Execute("a\nb", presentFuncs()); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Errorf("concurrent Execute() error = %v", err)
	}
}

func TestBodyTemplate_ExecutionErrorReturnsNoOutput(t *testing.T) {
	t.Parallel()

	tmpl, err := ParseBody(`<p>partial</p>{{.Missing.Field}}`)
	if err != nil {
		t.Fatalf("ParseBody() error = %v", err)
	}
	got, err := tmpl.Execute(struct{}{}, presentFuncs())
	if !errors.Is(err, ErrBodyRender) {
		t.Fatalf("Execute() error = %v, want ErrBodyRender", err)
	}
	if got != nil {
		t.Errorf("Execute() = %q, want nil on failure", got)
	}
}

func TestEmbeddedBodyTemplate_Parses(t *testing.T) {
	t.Parallel()

	src, err := assets.LoadTemplate(assets.BodyTemplateName)
	if err != nil {
		t.Fatalf("LoadTemplate() error = %v", err)
	}
	if _, err := ParseBody(src); err != nil {
		t.Fatalf("ParseBody(embedded) error = %v", err)
	}
}
