package finmemo

import "strings"

// DefaultFeasibilityGroup collects feasibility rows without a group label.
const DefaultFeasibilityGroup = "Lines"

// Section names an optional part of the memorandum body.
type Section string

// Tracked sections. Visible returns true for any other name.
const (
	SectionMeta                 Section = "meta"
	SectionExecSummary          Section = "execSummary"
	SectionLoan                 Section = "loan"
	SectionPartiesToLoan        Section = "partiesToLoan"
	SectionProposal             Section = "proposal"
	SectionProperty             Section = "property"
	SectionPropertyImages       Section = "propertyImages"
	SectionSalesMarketing       Section = "salesMarketing"
	SectionPresales             Section = "presales"
	SectionLots                 Section = "lots"
	SectionFeasibility          Section = "feasibility"
	SectionFunding              Section = "funding"
	SectionSecurity             Section = "security"
	SectionBorrowers            Section = "borrowers"
	SectionGuarantors           Section = "guarantors"
	SectionFinancials           Section = "financials"
	SectionProfessionalContacts Section = "professionalContacts"
	SectionRecommendation       Section = "recommendation"
	SectionLegal                Section = "legal"
)

// Visibility holds one flag per tracked section.
type Visibility map[Section]bool

// Visible reports whether s should render. Untracked sections always do.
func (v Visibility) Visible(s Section) bool {
	shown, tracked := v[s]
	return !tracked || shown
}

// FeasibilityGroup is a named run of feasibility rows in input order.
type FeasibilityGroup struct {
	Name string
	Rows []FeasibilityRow
}

// ViewModel is everything the body template reads. Payload fields are
// promoted, so the template addresses them directly (.Loan, .Lots, ...).
type ViewModel struct {
	*Payload

	Feasibility []FeasibilityGroup
	Assets      AssetBundle
	Visibility  Visibility
	Date        string // resolved memo date
}

// Visible reports whether the named section has any content.
func (vm *ViewModel) Visible(s Section) bool {
	return vm.Visibility.Visible(s)
}

// Normalize builds the view-model. It does no I/O and never mutates p.
func Normalize(p *Payload, bundle AssetBundle) *ViewModel {
	return &ViewModel{
		Payload:     p,
		Feasibility: GroupFeasibility(p.FeasibilityRows),
		Assets:      bundle,
		Visibility:  computeVisibility(p, bundle),
		Date:        strings.TrimSpace(string(p.Meta.Date)),
	}
}

// GroupFeasibility buckets rows by trimmed group label, blank labels going to
// DefaultFeasibilityGroup. Groups appear in first-seen order and keep their
// rows' relative order.
func GroupFeasibility(rows []FeasibilityRow) []FeasibilityGroup {
	groups := []FeasibilityGroup{}
	index := make(map[string]int)

	for _, row := range rows {
		name := strings.TrimSpace(string(row.Group))
		if name == "" {
			name = DefaultFeasibilityGroup
		}
		i, ok := index[name]
		if !ok {
			i = len(groups)
			index[name] = i
			groups = append(groups, FeasibilityGroup{Name: name})
		}
		groups[i].Rows = append(groups[i].Rows, row)
	}
	return groups
}

func computeVisibility(p *Payload, bundle AssetBundle) Visibility {
	sections := map[Section]any{
		SectionMeta:                 p.Meta,
		SectionExecSummary:          p.ExecSummary,
		SectionLoan:                 p.Loan,
		SectionPartiesToLoan:        p.PartiesToLoan,
		SectionProposal:             p.Proposal,
		SectionProperty:             p.Property,
		SectionPropertyImages:       bundle.PropertyImages,
		SectionSalesMarketing:       p.SalesMarketing,
		SectionPresales:             p.Presales,
		SectionLots:                 p.Lots,
		SectionFeasibility:          p.FeasibilityRows,
		SectionFunding:              p.Funding,
		SectionSecurity:             p.Security,
		SectionBorrowers:            p.Borrowers,
		SectionGuarantors:           p.Guarantors,
		SectionFinancials:           p.Financials,
		SectionProfessionalContacts: p.ProfessionalContacts,
		SectionRecommendation:       p.Recommendation,
		SectionLegal:                p.Legal,
	}

	vis := make(Visibility, len(sections))
	for s, v := range sections {
		vis[s] = HasAnyValue(v)
	}
	return vis
}
