package finmemo

import (
	"strings"
	"time"

	"k8s.io/klog/v2"

	"github.com/alnah/go-finmemo/internal/dateutil"
	"github.com/alnah/go-finmemo/internal/typeset"
)

// CoverDefaults are the cover strings used when the payload leaves a field
// blank.
type CoverDefaults struct {
	MainTitle      string `yaml:"mainTitle"`
	SubOne         string `yaml:"subheadline1"`
	SubTwo         string `yaml:"subheadline2"`
	Headline       string `yaml:"headline"`
	ProjectName    string `yaml:"projectName"`
	LoanAmount     string `yaml:"loanAmount"`
	RefNumber      string `yaml:"referenceNumber"`
	CompanyWebsite string `yaml:"companyWebsite"`
	CompanyLine    string `yaml:"companyLine"`
}

// DefaultCoverDefaults returns the stock Global Capital cover.
func DefaultCoverDefaults() CoverDefaults {
	return CoverDefaults{
		MainTitle:      "Global Capital Commercial",
		SubOne:         "Confidential",
		SubTwo:         "Finance Memorandum",
		Headline:       "Construction Finance",
		ProjectName:    "Warra Project Pty Ltd",
		LoanAmount:     "$50,000,000",
		RefNumber:      "PRP.17213",
		CompanyWebsite: "globalcapital.com.au",
		CompanyLine: "Global Capital Corporation Pty Ltd | ABN 14 097 482 114 | " +
			"Telephone 612 9222 9100 | info@globalcapital.com.au\n" +
			"Level 43 Governor Phillip Tower, 1 Farrer Place Sydney NSW Australia 2000 | " +
			"PO Box R196 Royal Exchange NSW 1225",
	}
}

// merge fills blank fields of d from base.
func (d CoverDefaults) merge(base CoverDefaults) CoverDefaults {
	pick := func(v, fallback string) string {
		if strings.TrimSpace(v) == "" {
			return fallback
		}
		return v
	}
	return CoverDefaults{
		MainTitle:      pick(d.MainTitle, base.MainTitle),
		SubOne:         pick(d.SubOne, base.SubOne),
		SubTwo:         pick(d.SubTwo, base.SubTwo),
		Headline:       pick(d.Headline, base.Headline),
		ProjectName:    pick(d.ProjectName, base.ProjectName),
		LoanAmount:     pick(d.LoanAmount, base.LoanAmount),
		RefNumber:      pick(d.RefNumber, base.RefNumber),
		CompanyWebsite: pick(d.CompanyWebsite, base.CompanyWebsite),
		CompanyLine:    pick(d.CompanyLine, base.CompanyLine),
	}
}

// ResolveDate expands "auto" and "auto:FORMAT" against now. Anything else,
// including a malformed auto format, is returned as written.
func ResolveDate(value string, now time.Time) string {
	resolved, err := dateutil.ResolveDate(strings.TrimSpace(value), now)
	if err != nil {
		klog.V(2).Infof("date %q left as written: %v", value, err)
		return value
	}
	return resolved
}

// CoverParams resolves the cover strings: first non-blank of the payload
// candidates, then the default. The date has no default.
func CoverParams(p *Payload, defaults CoverDefaults, fit Fit, now time.Time) typeset.CoverParams {
	return typeset.CoverParams{
		MainTitle:      firstText(defaults.MainTitle, p.Cover.MainTitle),
		SubOne:         firstText(defaults.SubOne, p.Cover.Subheadline1),
		SubTwo:         firstText(defaults.SubTwo, p.Cover.Subheadline2),
		Headline:       firstText(defaults.Headline, p.Cover.Headline),
		ProjectName:    firstText(defaults.ProjectName, p.Cover.ProjectName, p.Cover.PreparedFor),
		LoanAmount:     firstText(defaults.LoanAmount, p.Cover.FinanceRequired, p.Loan.LoanAmount),
		Date:           ResolveDate(string(p.Meta.Date), now),
		RefNumber:      firstText(defaults.RefNumber, p.Meta.ReferenceNumber),
		CompanyWebsite: firstText(defaults.CompanyWebsite, p.Cover.CompanyWebsite),
		CompanyLine:    firstText(defaults.CompanyLine, p.Cover.CompanyLine),
		ImageFit:       string(fit),
	}
}

func firstText(fallback string, candidates ...Text) string {
	for _, c := range candidates {
		if !c.Blank() {
			return strings.TrimSpace(string(c))
		}
	}
	return fallback
}
