package formatter

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/tordrt/catalogue/internal/catalog"
)

// piiOrder is the display order of sensitivity levels
var piiOrder = []catalog.PiiLevel{catalog.PII, catalog.SPII, catalog.Confidential, catalog.Public}

// MarkdownFormatter formats the catalogue as markdown
type MarkdownFormatter struct {
	writer io.Writer
}

// NewMarkdownFormatter creates a new markdown formatter
func NewMarkdownFormatter(w io.Writer) *MarkdownFormatter {
	return &MarkdownFormatter{writer: w}
}

// Format writes the report and every table as a single document
func (f *MarkdownFormatter) Format(c *catalog.Catalogue) error {
	_, _ = fmt.Fprintln(f.writer, "# Data Catalogue")
	_, _ = fmt.Fprintln(f.writer)

	f.FormatReport(c.Report)

	for _, tp := range c.Tables {
		f.FormatTable(tp)
	}
	return nil
}

// FormatReport writes the corpus summary and the quality ranking
func (f *MarkdownFormatter) FormatReport(r catalog.QualityReport) {
	_, _ = fmt.Fprintln(f.writer, "## Quality Report")
	_, _ = fmt.Fprintln(f.writer)

	if r.Company != "" {
		_, _ = fmt.Fprintf(f.writer, "- **Company:** %s\n", r.Company)
	}
	_, _ = fmt.Fprintf(f.writer, "- **Report date:** %s\n", r.ReportDate)
	if r.RunID != "" {
		_, _ = fmt.Fprintf(f.writer, "- **Run:** %s\n", r.RunID)
	}
	_, _ = fmt.Fprintf(f.writer, "- **Tables:** %d\n", r.TotalTables)
	_, _ = fmt.Fprintf(f.writer, "- **Rows:** %s\n", humanize.Comma(int64(r.TotalRows)))
	_, _ = fmt.Fprintf(f.writer, "- **Columns:** %d\n", r.TotalColumns)
	_, _ = fmt.Fprintf(f.writer, "- **Size:** %s\n", r.TotalSizeHuman)
	_, _ = fmt.Fprintf(f.writer, "- **Average quality:** %.1f\n", r.AvgQualityScore)
	_, _ = fmt.Fprintln(f.writer)

	if len(r.PiiColumnDistribution) > 0 {
		_, _ = fmt.Fprintln(f.writer, "### Sensitivity")
		_, _ = fmt.Fprintln(f.writer)
		for _, level := range piiOrder {
			if n, ok := r.PiiColumnDistribution[level]; ok {
				_, _ = fmt.Fprintf(f.writer, "- %s: %d\n", level, n)
			}
		}
		_, _ = fmt.Fprintln(f.writer)
	}

	if len(r.TablesByQuality) > 0 {
		_, _ = fmt.Fprintln(f.writer, "### Tables by quality")
		_, _ = fmt.Fprintln(f.writer)

		t := table.NewWriter()
		t.AppendHeader(table.Row{"Table", "Layer", "Score"})
		for _, ts := range r.TablesByQuality {
			t.AppendRow(table.Row{ts.Table, ts.Layer, fmt.Sprintf("%.1f", ts.Score)})
		}
		_, _ = fmt.Fprintln(f.writer, t.RenderMarkdown())
		_, _ = fmt.Fprintln(f.writer)
	}
}

// FormatTable writes one table profile (exported for use by multifile formatter)
func (f *MarkdownFormatter) FormatTable(tp catalog.TableProfile) {
	_, _ = fmt.Fprintf(f.writer, "## %s\n\n", tp.TableName)

	_, _ = fmt.Fprintf(f.writer, "- **Layer:** %s\n", tp.Layer)
	_, _ = fmt.Fprintf(f.writer, "- **Owner:** %s\n", tp.Owner)
	_, _ = fmt.Fprintf(f.writer, "- **Rows:** %s\n", humanize.Comma(int64(tp.TotalRows)))
	_, _ = fmt.Fprintf(f.writer, "- **Size:** %s\n", tp.FileSizeHuman)
	_, _ = fmt.Fprintf(f.writer, "- **Quality score:** %.1f\n", tp.QualityScore)
	_, _ = fmt.Fprintf(f.writer, "- **Refresh:** %s\n", tp.RefreshFrequency)
	_, _ = fmt.Fprintf(f.writer, "- **SLA:** %s\n", tp.SLA)
	if len(tp.Tags) > 0 {
		_, _ = fmt.Fprintf(f.writer, "- **Tags:** %s\n", strings.Join(tp.Tags, ", "))
	}
	if tp.FilePath != "" {
		_, _ = fmt.Fprintf(f.writer, "- **Source:** `%s`\n", tp.FilePath)
	}
	_, _ = fmt.Fprintln(f.writer)

	f.FormatColumns(tp.Columns)
	f.FormatLineage(tp.Lineage)
}

// FormatColumns writes the column table
func (f *MarkdownFormatter) FormatColumns(columns []catalog.ColumnProfile) {
	if len(columns) == 0 {
		return
	}

	_, _ = fmt.Fprintln(f.writer, "### Columns")
	_, _ = fmt.Fprintln(f.writer)

	t := table.NewWriter()
	t.AppendHeader(table.Row{"Column", "Type", "Sensitivity", "Null %", "Distinct", "Quality", "Term"})
	for _, cp := range columns {
		term := ""
		if cp.Glossary != nil {
			term = cp.Glossary.Term
		}
		t.AppendRow(table.Row{
			cp.ColumnName,
			cp.DataType,
			cp.PiiClassification,
			fmt.Sprintf("%.2f", cp.NullRate),
			cp.DistinctCount,
			fmt.Sprintf("%.1f", cp.QualityScore),
			term,
		})
	}
	_, _ = fmt.Fprintln(f.writer, t.RenderMarkdown())
	_, _ = fmt.Fprintln(f.writer)

	var described []catalog.ColumnProfile
	for _, cp := range columns {
		if cp.Glossary != nil {
			described = append(described, cp)
		}
	}
	if len(described) == 0 {
		return
	}

	_, _ = fmt.Fprintln(f.writer, "### Glossary")
	_, _ = fmt.Fprintln(f.writer)
	for _, cp := range described {
		_, _ = fmt.Fprintf(f.writer, "- **%s** (%s): %s _Steward: %s_\n",
			cp.Glossary.Term, cp.ColumnName, cp.Glossary.Definition, cp.Glossary.Steward)
	}
	_, _ = fmt.Fprintln(f.writer)
}

// FormatLineage writes upstream sources and downstream consumers
func (f *MarkdownFormatter) FormatLineage(lin catalog.LineageEntry) {
	if len(lin.Upstream) > 0 {
		_, _ = fmt.Fprintln(f.writer, "### Upstream")
		_, _ = fmt.Fprintln(f.writer)
		for _, up := range lin.Upstream {
			_, _ = fmt.Fprintf(f.writer, "- %s (%s) via %s: %s\n", up.Table, up.Layer, up.Join, up.Transform)
		}
		_, _ = fmt.Fprintln(f.writer)
	}

	if len(lin.Downstream) > 0 {
		_, _ = fmt.Fprintln(f.writer, "### Downstream")
		_, _ = fmt.Fprintln(f.writer)
		for _, name := range lin.Downstream {
			_, _ = fmt.Fprintf(f.writer, "- %s\n", name)
		}
		_, _ = fmt.Fprintln(f.writer)
	}
}
