package typeset

import (
	"regexp"
	"strings"
	"testing"
)

var defineLine = regexp.MustCompile(`^\\newcommand\*\{\\([A-Za-z]+)\}\{(.*)\}$`)

// parseParamFile maps macro names to their raw bodies.
func parseParamFile(t *testing.T, data []byte) map[string]string {
	t.Helper()
	got := make(map[string]string)
	for _, line := range strings.Split(strings.TrimSpace(string(data)), "\n") {
		if strings.HasPrefix(line, "%") {
			continue
		}
		m := defineLine.FindStringSubmatch(line)
		if m == nil {
			t.Fatalf("unexpected line in param file: %q", line)
		}
		got[m[1]] = m[2]
	}
	return got
}

// ---------------------------------------------------------------------------
// TestParamFile - cover-data.tex generation
// ---------------------------------------------------------------------------

func TestParamFile(t *testing.T) {
	t.Parallel()

	params := CoverParams{
		MainTitle:      "Global Capital Commercial",
		SubOne:         "Confidential",
		SubTwo:         "Finance Memorandum",
		Headline:       "Construction Finance",
		ProjectName:    "Warra_Project {Stage 2}",
		LoanAmount:     "$50,000,000",
		Date:           "1 March 2025",
		RefNumber:      "PRP.17213",
		CompanyWebsite: "globalcapital.com.au",
		CompanyLine:    "Line one & co\nLine #2",
		ImageFit:       "cover",
	}

	got := parseParamFile(t, ParamFile(params, "cover-image.jpg"))

	want := map[string]string{
		"MainTitle":      "Global Capital Commercial",
		"SubOne":         "Confidential",
		"SubTwo":         "Finance Memorandum",
		"Headline":       "Construction Finance",
		"ProjectName":    `Warra\_Project \{Stage 2\}`,
		"LoanAmount":     `\$50,000,000`,
		"DateLine":       "1 March 2025",
		"RefNumber":      "PRP.17213",
		"CompanyWebsite": "globalcapital.com.au",
		"CompanyLine":    `Line one \& co\newline{}Line \#2`,
		"CoverImagePath": "cover-image.jpg",
		"CoverImageFit":  "cover",
	}
	for name, value := range want {
		if got[name] != value {
			t.Errorf("\\%s = %q, want %q", name, got[name], value)
		}
	}
	if len(got) != len(want) {
		t.Errorf("param file defines %d macros, want %d", len(got), len(want))
	}
}

func TestParamFile_NoImage(t *testing.T) {
	t.Parallel()

	got := parseParamFile(t, ParamFile(CoverParams{ImageFit: "stretch"}, ""))
	if got["CoverImagePath"] != "" {
		t.Errorf("CoverImagePath = %q, want empty", got["CoverImagePath"])
	}
	if got["CoverImageFit"] != "contain" {
		t.Errorf("CoverImageFit = %q, want contain for unknown fit", got["CoverImageFit"])
	}
}

func TestParamFile_UserTextNeverBreaksOut(t *testing.T) {
	t.Parallel()

	hostile := "}\\def\\x{1}\n\n\\input{/etc/passwd}%"
	params := CoverParams{
		MainTitle:      hostile,
		SubOne:         hostile,
		SubTwo:         hostile,
		Headline:       hostile,
		ProjectName:    hostile,
		LoanAmount:     hostile,
		Date:           hostile,
		RefNumber:      hostile,
		CompanyWebsite: hostile,
		CompanyLine:    hostile,
	}

	got := parseParamFile(t, ParamFile(params, ""))
	for name, body := range got {
		if name == "CoverImagePath" || name == "CoverImageFit" {
			continue
		}
		assertNoBareReserved(t, body)
	}
}
