package profiler

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/tordrt/catalogue/internal/catalog"
)

// ReportMeta identifies a run in its quality report
type ReportMeta struct {
	RunID   string
	Company string
}

// Aggregate builds the corpus quality report and the glossary export.
// At least one table profile is required.
func (p *Profiler) Aggregate(profiles []catalog.TableProfile, meta ReportMeta) (catalog.QualityReport, catalog.GlossaryExport, error) {
	report, err := p.QualityReport(profiles, meta)
	if err != nil {
		return catalog.QualityReport{}, nil, err
	}
	return report, GlossaryExport(profiles), nil
}

// QualityReport rolls table profiles up into corpus and per-layer totals and
// ranks tables by ascending quality score
func (p *Profiler) QualityReport(profiles []catalog.TableProfile, meta ReportMeta) (catalog.QualityReport, error) {
	if len(profiles) == 0 {
		return catalog.QualityReport{}, ErrEmptyCorpus
	}

	report := catalog.QualityReport{
		RunID:                 meta.RunID,
		ReportDate:            p.timestamp(),
		Company:               meta.Company,
		TotalTables:           len(profiles),
		PiiColumnDistribution: make(map[catalog.PiiLevel]int),
		LayerStatistics:       make(map[string]catalog.LayerStats),
		TablesByQuality:       make([]catalog.TableScore, 0, len(profiles)),
	}

	var scoreSum float64
	layerScores := make(map[string]float64)

	for _, tp := range profiles {
		report.TotalRows += tp.TotalRows
		report.TotalColumns += tp.TotalColumns
		report.TotalSizeBytes += tp.FileSizeBytes
		scoreSum += tp.QualityScore

		for level, n := range tp.PiiSummary {
			report.PiiColumnDistribution[level] += n
		}

		ls := report.LayerStatistics[tp.Layer]
		ls.Tables++
		ls.Rows += tp.TotalRows
		report.LayerStatistics[tp.Layer] = ls
		layerScores[tp.Layer] += tp.QualityScore

		report.TablesByQuality = append(report.TablesByQuality, catalog.TableScore{
			Table: tp.TableName,
			Score: tp.QualityScore,
			Layer: tp.Layer,
		})
	}

	for layer, ls := range report.LayerStatistics {
		ls.AvgQuality = round(layerScores[layer]/float64(ls.Tables), 1)
		report.LayerStatistics[layer] = ls
	}

	slices.SortStableFunc(report.TablesByQuality, func(a, b catalog.TableScore) int {
		return cmp.Compare(a.Score, b.Score)
	})

	report.AvgQualityScore = round(scoreSum/float64(len(profiles)), 1)
	report.TotalSizeHuman = fmt.Sprintf("%.1f MB", float64(report.TotalSizeBytes)/(1<<20))

	return report, nil
}

// GlossaryExport collects the glossary terms attached to any column. The
// first table a column appears in supplies the term; later tables are only
// appended to found_in.
func GlossaryExport(profiles []catalog.TableProfile) catalog.GlossaryExport {
	terms := make(catalog.GlossaryExport)
	for _, tp := range profiles {
		for _, cp := range tp.Columns {
			if cp.Glossary == nil {
				continue
			}
			term, ok := terms[cp.ColumnName]
			if !ok {
				term = catalog.GlossaryTerm{
					GlossaryEntry:     *cp.Glossary,
					PiiClassification: cp.PiiClassification,
					FoundIn:           []string{},
				}
			}
			if !slices.Contains(term.FoundIn, tp.TableName) {
				term.FoundIn = append(term.FoundIn, tp.TableName)
			}
			terms[cp.ColumnName] = term
		}
	}
	return terms
}
