package finmemo

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// TestDecodePayload - JSON decoding and defaults
// ---------------------------------------------------------------------------

func TestDecodePayload(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		wantErr error
		check   func(t *testing.T, p *Payload)
	}{
		{
			name:  "minimal object gets defaults",
			input: `{}`,
			check: func(t *testing.T, p *Payload) {
				if p.Lots == nil || p.FeasibilityRows == nil || p.Funding.Rows == nil {
					t.Error("collections should default to empty slices")
				}
				if len(p.Guarantors) != 1 || p.Guarantors[0] != (Guarantor{}) {
					t.Errorf("Guarantors = %+v, want one blank row", p.Guarantors)
				}
			},
		},
		{
			name:  "explicit empty guarantors get the blank row",
			input: `{"guarantors": []}`,
			check: func(t *testing.T, p *Payload) {
				if len(p.Guarantors) != 1 {
					t.Errorf("len(Guarantors) = %d, want 1", len(p.Guarantors))
				}
			},
		},
		{
			name:  "guarantors kept as given",
			input: `{"guarantors": [{"fullName": "Jane Doe"}, {"fullName": "John Roe"}]}`,
			check: func(t *testing.T, p *Payload) {
				if len(p.Guarantors) != 2 || p.Guarantors[1].FullName != "John Roe" {
					t.Errorf("Guarantors = %+v", p.Guarantors)
				}
			},
		},
		{
			name:  "unknown keys ignored",
			input: `{"meta": {"referenceNumber": "PRP.001", "colour": "blue"}, "extra": [1, 2]}`,
			check: func(t *testing.T, p *Payload) {
				if p.Meta.ReferenceNumber != "PRP.001" {
					t.Errorf("ReferenceNumber = %q, want %q", p.Meta.ReferenceNumber, "PRP.001")
				}
			},
		},
		{
			name:  "numbers kept verbatim",
			input: `{"loan": {"loanAmount": 5000000, "lvr": 65.5, "term": 0}}`,
			check: func(t *testing.T, p *Payload) {
				if p.Loan.LoanAmount != "5000000" || p.Loan.LVR != "65.5" || p.Loan.Term != "0" {
					t.Errorf("Loan = %+v", p.Loan)
				}
			},
		},
		{
			name:  "null and booleans",
			input: `{"loan": {"purpose": null, "creditReports": true, "lvr": false}}`,
			check: func(t *testing.T, p *Payload) {
				if p.Loan.Purpose != "" || p.Loan.CreditReports != "" || p.Loan.LVR != "" {
					t.Errorf("Loan = %+v", p.Loan)
				}
			},
		},
		{
			name:  "nested individual rows",
			input: `{"financials": {"individuals": [{"name": "Jane", "rows": [{"label": "Home", "amount": "1,200,000", "type": "asset"}]}, {"name": "John"}]}}`,
			check: func(t *testing.T, p *Payload) {
				ind := p.Financials.Individuals
				if len(ind) != 2 || len(ind[0].Rows) != 1 || ind[0].Rows[0].Type != "asset" {
					t.Fatalf("Individuals = %+v", ind)
				}
				if ind[1].Rows == nil {
					t.Error("individual without rows should get an empty slice")
				}
			},
		},
		{
			name:    "object where scalar expected",
			input:   `{"meta": {"referenceNumber": {"a": 1}}}`,
			wantErr: ErrInvalidPayload,
		},
		{
			name:    "malformed JSON",
			input:   `{"meta": `,
			wantErr: ErrInvalidPayload,
		},
		{
			name:    "empty body",
			input:   "  \n",
			wantErr: ErrInvalidPayload,
		},
		{
			name:    "top-level array",
			input:   `[]`,
			wantErr: ErrInvalidPayload,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p, err := DecodePayload(strings.NewReader(tt.input), DefaultMaxPayloadBytes)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("DecodePayload() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("DecodePayload() unexpected error: %v", err)
			}
			tt.check(t, p)
		})
	}
}

func TestDecodePayload_TooLarge(t *testing.T) {
	t.Parallel()

	body := `{"proposal": {"summary": "` + strings.Repeat("x", 200) + `"}}`

	_, err := DecodePayload(strings.NewReader(body), 100)
	if !errors.Is(err, ErrPayloadTooLarge) {
		t.Fatalf("DecodePayload() error = %v, want %v", err, ErrPayloadTooLarge)
	}

	if _, err := DecodePayload(strings.NewReader(body), int64(len(body))); err != nil {
		t.Fatalf("DecodePayload() at exact limit: %v", err)
	}
}

// ---------------------------------------------------------------------------
// TestLoadPayloadFile - JSON and YAML files
// ---------------------------------------------------------------------------

func TestLoadPayloadFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatal(err)
		}
		return path
	}

	t.Run("json", func(t *testing.T) {
		t.Parallel()

		p, err := LoadPayloadFile(write("memo.json", `{"cover": {"projectName": "Warra"}}`))
		if err != nil {
			t.Fatalf("LoadPayloadFile() error = %v", err)
		}
		if p.Cover.ProjectName != "Warra" {
			t.Errorf("ProjectName = %q, want %q", p.Cover.ProjectName, "Warra")
		}
	})

	t.Run("yaml uses json field names", func(t *testing.T) {
		t.Parallel()

		p, err := LoadPayloadFile(write("memo.yaml", `
meta:
  referenceNumber: PRP.002
loan:
  loanAmount: 12500000
feasibilityRows:
  - group: Income
    label: Lot sales
    amount: "$9,000,000"
`))
		if err != nil {
			t.Fatalf("LoadPayloadFile() error = %v", err)
		}
		if p.Meta.ReferenceNumber != "PRP.002" {
			t.Errorf("ReferenceNumber = %q", p.Meta.ReferenceNumber)
		}
		if p.Loan.LoanAmount != "12500000" {
			t.Errorf("LoanAmount = %q, want %q", p.Loan.LoanAmount, "12500000")
		}
		if len(p.FeasibilityRows) != 1 || p.FeasibilityRows[0].Group != "Income" {
			t.Errorf("FeasibilityRows = %+v", p.FeasibilityRows)
		}
		if len(p.Guarantors) != 1 {
			t.Errorf("defaults not applied: Guarantors = %+v", p.Guarantors)
		}
	})

	t.Run("yaml booleans are blank", func(t *testing.T) {
		t.Parallel()

		p, err := LoadPayloadFile(write("flags.yaml", "loan:\n  lvr: false\n  creditReports: yes\n  purpose: true\n"))
		if err != nil {
			t.Fatalf("LoadPayloadFile() error = %v", err)
		}
		if p.Loan.LVR != "" || p.Loan.Purpose != "" {
			t.Errorf("Loan = %+v, want boolean fields blank", p.Loan)
		}
	})

	t.Run("invalid yaml", func(t *testing.T) {
		t.Parallel()

		_, err := LoadPayloadFile(write("bad.yml", "meta: [unclosed"))
		if !errors.Is(err, ErrInvalidPayload) {
			t.Errorf("LoadPayloadFile() error = %v, want %v", err, ErrInvalidPayload)
		}
	})

	t.Run("oversized yaml", func(t *testing.T) {
		t.Parallel()

		body := "meta:\n  memoTitle: " + strings.Repeat("x", int(DefaultMaxPayloadBytes)) + "\n"
		_, err := LoadPayloadFile(write("huge.yaml", body))
		if !errors.Is(err, ErrPayloadTooLarge) {
			t.Errorf("LoadPayloadFile() error = %v, want %v", err, ErrPayloadTooLarge)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		_, err := LoadPayloadFile(filepath.Join(dir, "nope.json"))
		if !errors.Is(err, os.ErrNotExist) {
			t.Errorf("LoadPayloadFile() error = %v, want not exist", err)
		}
	})
}

func TestText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in        Text
		wantBlank bool
	}{
		{"", true},
		{"   \n\t", true},
		{"0", false},
		{" a ", false},
	}

	for _, tt := range tests {
		if got := tt.in.Blank(); got != tt.wantBlank {
			t.Errorf("Text(%q).Blank() = %v, want %v", tt.in, got, tt.wantBlank)
		}
	}
}
