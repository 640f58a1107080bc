package profiler

import (
	"fmt"
	"slices"
	"strings"

	"github.com/tordrt/catalogue/internal/catalog"
)

const (
	defaultOwner   = "Data Engineering"
	unknownSetting = "Unknown"
)

// tagRule adds tags when its predicate holds for a table name
type tagRule struct {
	match func(table string) bool
	tags  []string
}

func contains(substrings ...string) func(string) bool {
	return func(table string) bool {
		for _, s := range substrings {
			if strings.Contains(table, s) {
				return true
			}
		}
		return false
	}
}

func prefixed(prefix string) func(string) bool {
	return func(table string) bool {
		return strings.HasPrefix(table, prefix)
	}
}

var tagRules = []tagRule{
	{match: contains("customer"), tags: []string{"customer", "entity"}},
	{match: contains("transaction", "payment"), tags: []string{"financial", "transactional"}},
	{match: contains("fraud"), tags: []string{"fraud", "compliance", "aml"}},
	{match: contains("risk"), tags: []string{"risk", "regulatory"}},
	{match: prefixed("dim_"), tags: []string{"dimension"}},
	{match: prefixed("fact_"), tags: []string{"fact"}},
	{match: contains("partner"), tags: []string{"partnership"}},
	{match: contains("digital", "click"), tags: []string{"digital"}},
	{match: contains("mdm", "match"), tags: []string{"mdm", "data_quality"}},
}

// ProfileTable profiles every column of a table and rolls the results up.
// Only a table without a name is an error; empty tables produce zeroed
// ratios and scores.
func (p *Profiler) ProfileTable(t *catalog.RawTable) (catalog.TableProfile, error) {
	if t == nil || t.Name == "" {
		return catalog.TableProfile{}, ErrMissingTableName
	}

	totalRows := len(t.Rows)
	columns := make([]catalog.ColumnProfile, 0, len(t.Columns))
	piiSummary := make(map[catalog.PiiLevel]int)
	var scoreSum float64

	for _, col := range t.Columns {
		cp := p.ProfileColumn(col, t.Values(col), totalRows)
		columns = append(columns, cp)
		piiSummary[cp.PiiClassification]++
		scoreSum += cp.QualityScore
	}

	var quality float64
	if len(columns) > 0 {
		quality = round(scoreSum/float64(len(columns)), 1)
	}

	tp := catalog.TableProfile{
		TableName:        t.Name,
		Layer:            t.Layer,
		FilePath:         t.Location,
		TotalRows:        totalRows,
		TotalColumns:     len(t.Columns),
		FileSizeBytes:    t.SizeBytes,
		FileSizeHuman:    FileSizeHuman(t.SizeBytes),
		ProfiledAt:       p.timestamp(),
		QualityScore:     quality,
		PiiSummary:       piiSummary,
		Columns:          columns,
		Owner:            defaultOwner,
		RefreshFrequency: unknownSetting,
		SLA:              unknownSetting,
		Tags:             autoTags(t.Name, t.Layer, columns),
	}

	if lin, ok := p.kb.LineageEntry(t.Name); ok {
		tp.Lineage = lin
		if lin.Steward != "" {
			tp.Owner = lin.Steward
		}
		if lin.Refresh != "" {
			tp.RefreshFrequency = lin.Refresh
		}
		if lin.SLA != "" {
			tp.SLA = lin.SLA
		}
	}

	return tp, nil
}

// autoTags derives the sorted, de-duplicated tag set of a table
func autoTags(table, layer string, columns []catalog.ColumnProfile) []string {
	set := map[string]struct{}{layer: {}}

	if slices.ContainsFunc(columns, func(cp catalog.ColumnProfile) bool {
		return cp.PiiClassification.IsSensitive()
	}) {
		set["contains_pii"] = struct{}{}
	}

	for _, rule := range tagRules {
		if rule.match(table) {
			for _, tag := range rule.tags {
				set[tag] = struct{}{}
			}
		}
	}

	tags := make([]string, 0, len(set))
	for tag := range set {
		tags = append(tags, tag)
	}
	slices.Sort(tags)
	return tags
}

// FileSizeHuman renders a byte count in KB below one MiB and in MB above
func FileSizeHuman(size int64) string {
	if size < 1<<20 {
		return fmt.Sprintf("%.1f KB", float64(size)/1024)
	}
	return fmt.Sprintf("%.1f MB", float64(size)/(1<<20))
}
