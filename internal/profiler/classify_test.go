package profiler

import (
	"testing"

	"github.com/tordrt/catalogue/internal/catalog"
	"github.com/tordrt/catalogue/internal/knowledge"
)

func TestClassify(t *testing.T) {
	p := New(knowledge.Default())

	tests := []struct {
		column string
		want   catalog.PiiLevel
	}{
		{"email", catalog.PII},
		{"PersonEmail", catalog.PII},
		{"CUST_NAME", catalog.PII},
		{"username", catalog.PII},
		{"date_of_birth", catalog.PII},
		{"risk_score", catalog.SPII},
		{"FICO", catalog.SPII},
		{"annual_income", catalog.SPII},
		{"customer_id", catalog.Confidential},
		{"account_number", catalog.Confidential},
		{"credit_limit", catalog.Confidential},
		{"composite_score", catalog.Confidential},
		{"segment", catalog.Public},
		{"transaction_id", catalog.Public},
		{"mcc_code", catalog.Public},
	}

	for _, tt := range tests {
		t.Run(tt.column, func(t *testing.T) {
			if got := p.Classify(tt.column); got != tt.want {
				t.Errorf("Classify(%q) = %s, want %s", tt.column, got, tt.want)
			}
		})
	}
}

func TestClassifyPriority(t *testing.T) {
	kb, err := knowledge.New(knowledge.Definition{
		PiiRules: []knowledge.RuleSet{
			{Level: catalog.Confidential, Patterns: []string{"score"}},
			{Level: catalog.SPII, Patterns: []string{"risk"}},
			{Level: catalog.PII, Columns: []string{"Risk_Contact"}},
		},
	})
	if err != nil {
		t.Fatalf("knowledge.New() error: %v", err)
	}
	p := New(kb)

	tests := []struct {
		column string
		want   catalog.PiiLevel
	}{
		{"risk_score", catalog.SPII},
		{"Risk_Contact", catalog.PII},
		{"risk_contact", catalog.SPII},
		{"match_score", catalog.Confidential},
		{"region", catalog.Public},
	}

	for _, tt := range tests {
		t.Run(tt.column, func(t *testing.T) {
			if got := p.Classify(tt.column); got != tt.want {
				t.Errorf("Classify(%q) = %s, want %s", tt.column, got, tt.want)
			}
		})
	}
}

func TestClassifyWithoutRules(t *testing.T) {
	kb, err := knowledge.New(knowledge.Definition{})
	if err != nil {
		t.Fatalf("knowledge.New() error: %v", err)
	}

	if got := New(kb).Classify("email"); got != catalog.Public {
		t.Errorf("Classify(email) = %s, want PUBLIC", got)
	}
}
