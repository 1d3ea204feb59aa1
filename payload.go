package finmemo

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"

	"github.com/alnah/go-finmemo/internal/yamlutil"
)

// DefaultMaxPayloadBytes bounds the document accepted by DecodePayload and
// LoadPayloadFile.
const DefaultMaxPayloadBytes int64 = yamlutil.MaxDocumentSize

// Text is a scalar form value. It decodes from JSON strings and numbers
// (kept verbatim); null and booleans decode to the empty string, so a
// checkbox never makes a section visible on its own.
type Text string

// String returns the raw value.
func (t Text) String() string { return string(t) }

// Blank reports whether the value is empty or whitespace only.
func (t Text) Blank() bool { return strings.TrimSpace(string(t)) == "" }

// UnmarshalJSON implements json.Unmarshaler.
func (t *Text) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch string(data) {
	case "", "null", "true", "false":
		*t = ""
		return nil
	}
	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = Text(s)
	case '{', '[':
		return fmt.Errorf("expected a scalar value, got %s", scalarKind(data))
	default:
		*t = Text(data)
	}
	return nil
}

// UnmarshalYAML implements the goccy/go-yaml BytesUnmarshaler interface so
// YAML payload files accept unquoted numbers.
func (t *Text) UnmarshalYAML(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		*t = ""
		return nil
	}
	var v any
	if err := yamlutil.Unmarshal(data, &v); err != nil {
		return err
	}
	switch val := v.(type) {
	case nil, bool:
		*t = ""
	case string:
		*t = Text(val)
	case map[string]any, []any:
		return fmt.Errorf("expected a scalar value, got %s", collectionKind(val))
	default:
		*t = Text(fmt.Sprint(val))
	}
	return nil
}

func scalarKind(data []byte) string {
	if data[0] == '{' {
		return "object"
	}
	return "array"
}

func collectionKind(v any) string {
	if _, ok := v.(map[string]any); ok {
		return "mapping"
	}
	return "sequence"
}

// Payload is the validated, defaulted form submission for one document.
// It is never mutated once DecodePayload returns it.
type Payload struct {
	Meta                 Meta                 `json:"meta"`
	Cover                CoverText            `json:"cover"`
	Loan                 Loan                 `json:"loan"`
	Proposal             Proposal             `json:"proposal"`
	SalesMarketing       SalesMarketing       `json:"salesMarketing"`
	Property             Property             `json:"property"`
	Funding              Funding              `json:"funding"`
	Security             SecurityPackage      `json:"security"`
	ProfessionalContacts ProfessionalContacts `json:"professionalContacts"`
	Legal                Legal                `json:"legal"`
	Recommendation       Recommendation       `json:"recommendation"`
	Footers              Footers              `json:"footers"`

	PartiesToLoan   []Party          `json:"partiesToLoan"`
	ExecSummary     []KeyValue       `json:"execSummary"`
	Presales        []Presale        `json:"presales"`
	Lots            []Lot            `json:"lots"`
	FeasibilityRows []FeasibilityRow `json:"feasibilityRows"`
	Borrowers       []Borrower       `json:"borrowers"`
	Guarantors      []Guarantor      `json:"guarantors"`
	Financials      Financials       `json:"financials"`
}

// Meta identifies the memorandum.
type Meta struct {
	ReferenceNumber Text `json:"referenceNumber"`
	MemoTitle       Text `json:"memoTitle"`
	PreparedFor     Text `json:"preparedFor"`
	PreparedBy      Text `json:"preparedBy"`
	Date            Text `json:"date"` // literal, "auto" or "auto:FORMAT"
}

// CoverText holds the strings typeset on the cover page.
type CoverText struct {
	MainTitle       Text `json:"mainTitle"`
	Subheadline1    Text `json:"subheadline1"`
	Subheadline2    Text `json:"subheadline2"`
	Headline        Text `json:"headline"`
	Subheadline     Text `json:"subheadline"`
	ProjectName     Text `json:"projectName"`
	PreparedFor     Text `json:"preparedFor"`
	FinanceRequired Text `json:"financeRequired"`
	CompanyWebsite  Text `json:"companyWebsite"`
	CompanyLine     Text `json:"companyLine"`
}

// Loan describes the requested facility.
type Loan struct {
	LoanAmount            Text `json:"loanAmount"`
	Purpose               Text `json:"purpose"`
	LoanType              Text `json:"loanType"`
	LVR                   Text `json:"lvr"`
	Term                  Text `json:"term"`
	InterestRate          Text `json:"interestRate"`
	SecurityType          Text `json:"securityType"`
	SecurityLocation      Text `json:"securityLocation"`
	CreditReports         Text `json:"creditReports"`
	AnticipatedSettlement Text `json:"anticipatedSettlement"`
	ExitStrategy          Text `json:"exitStrategy"`
}

// Proposal is free prose describing the project.
type Proposal struct {
	Summary    Text `json:"summary"`
	Background Text `json:"background"`
}

// SalesMarketing describes how the finished product will be sold.
type SalesMarketing struct {
	Strategy   Text `json:"strategy"`
	Agent      Text `json:"agent"`
	Commentary Text `json:"commentary"`
}

// Property describes the security property.
type Property struct {
	Address       Text `json:"address"`
	TitleDetails  Text `json:"titleDetails"`
	Zoning        Text `json:"zoning"`
	SiteArea      Text `json:"siteArea"`
	Description   Text `json:"description"`
	Valuation     Text `json:"valuation"`
	Valuer        Text `json:"valuer"`
	ValuationDate Text `json:"valuationDate"`
}

// Funding lists the sources and uses of funds.
type Funding struct {
	Notes Text        `json:"notes"`
	Rows  []AmountRow `json:"rows"`
}

// SecurityPackage lists the securities offered.
type SecurityPackage struct {
	Notes Text          `json:"notes"`
	Rows  []SecurityRow `json:"rows"`
}

// ProfessionalContacts names the borrower's advisers.
type ProfessionalContacts struct {
	Solicitor  Contact `json:"solicitor"`
	Accountant Contact `json:"accountant"`
}

// Contact is one adviser.
type Contact struct {
	Name  Text `json:"name"`
	Firm  Text `json:"firm"`
	Phone Text `json:"phone"`
	Email Text `json:"email"`
}

// Legal holds the confidentiality and disclaimer wording.
type Legal struct {
	ConfidentialityHeading Text `json:"confidentialityHeading"`
	ConfidentialityBody    Text `json:"confidentialityBody"`
	DisclaimerBody         Text `json:"disclaimerBody"`
	ContactName            Text `json:"contactName"`
	ContactEmail           Text `json:"contactEmail"`
	ContactPhone           Text `json:"contactPhone"`
}

// Recommendation closes the memorandum.
type Recommendation struct {
	Heading          Text `json:"heading"`
	Body             Text `json:"body"`
	AnnexuresHeading Text `json:"annexuresHeading"`
	AnnexuresIntro   Text `json:"annexuresIntro"`
	AnnexuresList    Text `json:"annexuresList"`
}

// Footers holds the running footer text.
type Footers struct {
	Confidentiality Text `json:"confidentiality"`
}

// Party is one party to the loan.
type Party struct {
	Name       Text `json:"name"`
	Role       Text `json:"role"`
	EntityType Text `json:"entityType"`
}

// KeyValue is one executive summary line.
type KeyValue struct {
	Key   Text `json:"key"`
	Value Text `json:"value"`
}

// Presale is one pre-sold lot.
type Presale struct {
	Buyer   Text `json:"buyer"`
	Lot     Text `json:"lot"`
	Price   Text `json:"price"`
	Deposit Text `json:"deposit"`
	Status  Text `json:"status"`
}

// Lot is one lot of the development.
type Lot struct {
	Stage  Text `json:"stage"`
	Lot    Text `json:"lot"`
	Size   Text `json:"size"`
	Price  Text `json:"price"`
	Status Text `json:"status"`
}

// FeasibilityRow is one feasibility line item. Group is optional.
type FeasibilityRow struct {
	Group  Text `json:"group"`
	Label  Text `json:"label"`
	Amount Text `json:"amount"`
	Notes  Text `json:"notes"`
}

// AmountRow is a labelled amount (funding, assets, liabilities).
type AmountRow struct {
	Label  Text `json:"label"`
	Amount Text `json:"amount"`
}

// SecurityRow is one security item.
type SecurityRow struct {
	Name    Text `json:"name"`
	Details Text `json:"details"`
}

// Borrower is one borrowing entity.
type Borrower struct {
	Name       Text `json:"name"`
	EntityType Text `json:"entityType"`
	ABN        Text `json:"abn"`
	Role       Text `json:"role"`
	Address    Text `json:"address"`
	Notes      Text `json:"notes"`
}

// Guarantor is one guarantor.
type Guarantor struct {
	FullName     Text `json:"fullName"`
	Relationship Text `json:"relationship"`
	NetWorth     Text `json:"netWorth"`
	Bio          Text `json:"bio"`
}

// Financials holds the company and per-individual asset/liability statements.
type Financials struct {
	CompanyAssets      []AmountRow  `json:"companyAssets"`
	CompanyLiabilities []AmountRow  `json:"companyLiabilities"`
	Individuals        []Individual `json:"individuals"`
}

// Individual is one person's asset and liability block.
type Individual struct {
	Name  Text            `json:"name"`
	Rows  []IndividualRow `json:"rows"`
	Notes Text            `json:"notes"`
}

// IndividualRow is one line of an individual's statement.
type IndividualRow struct {
	Label  Text `json:"label"`
	Amount Text `json:"amount"`
	Type   Text `json:"type"` // "asset" or "liability"; free text
}

// NewPayload returns a payload holding only defaults.
func NewPayload() *Payload {
	p := &Payload{}
	p.applyDefaults()
	return p
}

// DecodePayload reads a JSON payload, tolerating unknown keys, and applies
// defaults. Returns ErrInvalidPayload for unparseable input and
// ErrPayloadTooLarge when the document exceeds maxBytes.
func DecodePayload(r io.Reader, maxBytes int64) (*Payload, error) {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxPayloadBytes
	}
	data, err := io.ReadAll(io.LimitReader(r, maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("%w: reading payload: %w", ErrInvalidPayload, err)
	}
	if int64(len(data)) > maxBytes {
		return nil, fmt.Errorf("%w: %d bytes max", ErrPayloadTooLarge, maxBytes)
	}
	return parsePayloadJSON(data)
}

func parsePayloadJSON(data []byte) (*Payload, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("%w: empty document", ErrInvalidPayload)
	}
	var p Payload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	p.applyDefaults()
	return &p, nil
}

// LoadPayloadFile reads a payload from disk. Files ending in .json are decoded
// as JSON; anything else is decoded as YAML.
func LoadPayloadFile(path string) (*Payload, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- user-provided path
	if err != nil {
		return nil, fmt.Errorf("reading payload file: %w", err)
	}
	if int64(len(data)) > DefaultMaxPayloadBytes {
		return nil, fmt.Errorf("%w: %d bytes max", ErrPayloadTooLarge, DefaultMaxPayloadBytes)
	}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return parsePayloadJSON(data)
	}

	var p Payload
	if err := yamlutil.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	p.applyDefaults()
	return &p, nil
}

// applyDefaults replaces absent collections with empty ones and seeds the
// single blank guarantor row the form always carries.
func (p *Payload) applyDefaults() {
	p.PartiesToLoan = nonNil(p.PartiesToLoan)
	p.ExecSummary = nonNil(p.ExecSummary)
	p.Presales = nonNil(p.Presales)
	p.Lots = nonNil(p.Lots)
	p.FeasibilityRows = nonNil(p.FeasibilityRows)
	p.Borrowers = nonNil(p.Borrowers)
	p.Funding.Rows = nonNil(p.Funding.Rows)
	p.Security.Rows = nonNil(p.Security.Rows)
	p.Financials.CompanyAssets = nonNil(p.Financials.CompanyAssets)
	p.Financials.CompanyLiabilities = nonNil(p.Financials.CompanyLiabilities)
	p.Financials.Individuals = nonNil(p.Financials.Individuals)
	for i := range p.Financials.Individuals {
		p.Financials.Individuals[i].Rows = nonNil(p.Financials.Individuals[i].Rows)
	}
	if len(p.Guarantors) == 0 {
		p.Guarantors = []Guarantor{{}}
	}
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
