package formatter

import (
	"fmt"
	"io"
	"maps"
	"slices"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/tordrt/catalogue/internal/catalog"
)

// Summary is what the console reports after a run
type Summary struct {
	Report        catalog.QualityReport
	GlossaryTerms int
	OutputDir     string
	Missing       []string

	// Failed describes tables skipped because they could not be read
	Failed []string
}

// SummaryFormatter prints run totals as console tables
type SummaryFormatter struct {
	writer io.Writer
	style  table.Style
}

// NewSummaryFormatter creates a new summary formatter
func NewSummaryFormatter(w io.Writer) *SummaryFormatter {
	return &SummaryFormatter{writer: w, style: table.StyleLight}
}

// Format writes the totals table, the per-layer table, then any missing or
// unreadable tables
func (f *SummaryFormatter) Format(s Summary) error {
	r := s.Report

	totals := table.NewWriter()
	totals.SetOutputMirror(f.writer)
	totals.SetStyle(f.style)
	if r.Company != "" {
		totals.SetTitle("Catalogue complete: %s", r.Company)
	} else {
		totals.SetTitle("Catalogue complete")
	}
	totals.AppendRows([]table.Row{
		{"Tables profiled", r.TotalTables},
		{"Total rows", humanize.Comma(int64(r.TotalRows))},
		{"Total columns", humanize.Comma(int64(r.TotalColumns))},
		{"Total size", humanize.IBytes(uint64(max(r.TotalSizeBytes, 0)))},
		{"Avg quality score", fmt.Sprintf("%.1f%%", r.AvgQualityScore)},
		{"Glossary terms", s.GlossaryTerms},
		{"Output", s.OutputDir},
	})
	totals.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
	})
	totals.Render()

	if len(r.LayerStatistics) > 0 {
		layers := table.NewWriter()
		layers.SetOutputMirror(f.writer)
		layers.SetStyle(f.style)
		layers.AppendHeader(table.Row{"Layer", "Tables", "Rows", "Avg quality"})
		for _, name := range slices.Sorted(maps.Keys(r.LayerStatistics)) {
			ls := r.LayerStatistics[name]
			layers.AppendRow(table.Row{name, ls.Tables, humanize.Comma(int64(ls.Rows)), fmt.Sprintf("%.1f", ls.AvgQuality)})
		}
		layers.SetColumnConfigs([]table.ColumnConfig{
			{Number: 2, Align: text.AlignRight},
			{Number: 3, Align: text.AlignRight},
			{Number: 4, Align: text.AlignRight},
		})
		layers.Render()
	}

	if len(s.Missing) > 0 {
		_, _ = fmt.Fprintf(f.writer, "Skipped %d missing tables:\n", len(s.Missing))
		for _, m := range s.Missing {
			_, _ = fmt.Fprintf(f.writer, "  - %s\n", m)
		}
	}

	if len(s.Failed) > 0 {
		_, _ = fmt.Fprintf(f.writer, "Failed to read %d tables:\n", len(s.Failed))
		for _, m := range s.Failed {
			_, _ = fmt.Fprintf(f.writer, "  - %s\n", m)
		}
	}

	return nil
}
