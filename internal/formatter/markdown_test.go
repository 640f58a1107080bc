package formatter

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestMarkdownFormatter(t *testing.T) {
	var buf bytes.Buffer
	if err := NewMarkdownFormatter(&buf).Format(testCatalogue()); err != nil {
		t.Fatalf("Format() error: %v", err)
	}
	out := buf.String()

	tests := []struct {
		name string
		want string
	}{
		{"title", "# Data Catalogue"},
		{"report section", "## Quality Report"},
		{"company", "- **Company:** Horizon Bank Holdings"},
		{"rows with separators", "- **Rows:** 1,234"},
		{"sensitivity", "- PII: 1"},
		{"table header", "## dim_customer"},
		{"owner", "- **Owner:** Data Engineering"},
		{"column row", "fico_score"},
		{"glossary term", "- **FICO Score** (fico_score): Credit score."},
		{"upstream", "- core_banking_customers (bronze) via SSN_HASH → ssn_hash: Name split"},
		{"downstream", "### Downstream\n\n- dim_account"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !strings.Contains(out, tt.want) {
				t.Errorf("output missing %q", tt.want)
			}
		})
	}

	if strings.Index(out, "## dim_customer") > strings.Index(out, "## scratch") {
		t.Error("tables should be written in catalogue order")
	}
}

func TestMarkdownFormatterSkipsEmptySections(t *testing.T) {
	c := testCatalogue()

	var buf bytes.Buffer
	NewMarkdownFormatter(&buf).FormatTable(c.Tables[1])
	out := buf.String()

	for _, section := range []string{"### Columns", "### Upstream", "### Downstream", "### Glossary", "**Source:**"} {
		if strings.Contains(out, section) {
			t.Errorf("unexpected %q for a table without data", section)
		}
	}
}

func TestMultiFileFormatter(t *testing.T) {
	dir := t.TempDir()

	written, err := NewMultiFileFormatter(dir).Format(testCatalogue())
	if err != nil {
		t.Fatalf("Format() error: %v", err)
	}
	if len(written) != 3 {
		t.Fatalf("wrote %d files, want 3: %v", len(written), written)
	}

	overview, err := os.ReadFile(filepath.Join(dir, OverviewFile))
	if err != nil {
		t.Fatalf("Failed to read overview: %v", err)
	}
	for _, want := range []string{"# Catalogue Overview", "### bronze", "### gold", "- **dim_customer** (quality 95.0, 2 sensitive columns)", "- **scratch** (quality 0.0)"} {
		if !strings.Contains(string(overview), want) {
			t.Errorf("overview missing %q", want)
		}
	}
	if strings.Index(string(overview), "### bronze") > strings.Index(string(overview), "### gold") {
		t.Error("layers should be listed alphabetically")
	}

	customer, err := os.ReadFile(filepath.Join(dir, "dim_customer.md"))
	if err != nil {
		t.Fatalf("Failed to read table file: %v", err)
	}
	if !strings.Contains(string(customer), "### Feeds\n\n- dim_account (gold) via customer_id") {
		t.Errorf("table file missing consumers:\n%s", customer)
	}
}

func TestFindConsumers(t *testing.T) {
	graph := testCatalogue().Lineage

	consumers := findConsumers("dim_customer", graph)
	if len(consumers) != 1 || consumers[0].Table != "dim_account" {
		t.Errorf("findConsumers(dim_customer) = %+v", consumers)
	}

	if got := findConsumers("fact_transactions", graph); len(got) != 0 {
		t.Errorf("findConsumers(fact_transactions) = %+v, want none", got)
	}
}
