// Package knowledge holds the static lookup tables consulted while profiling:
// the PII rule table, the business glossary, the lineage graph, and the
// layer-to-tables discovery map.
//
// A Base is built once and never mutated afterwards, so a single value can be
// shared by any number of concurrent profilers.
package knowledge

import (
	"fmt"
	"maps"
	"regexp"
	"slices"

	"github.com/tordrt/catalogue/internal/catalog"
)

// levelPriority is the order in which classification levels are tested.
// PUBLIC is the implicit default and has no rules.
var levelPriority = []catalog.PiiLevel{catalog.PII, catalog.SPII, catalog.Confidential}

// RuleSet is the serialized form of the rules for one classification level
type RuleSet struct {
	Level    catalog.PiiLevel `yaml:"level"`
	Columns  []string         `yaml:"columns"`
	Patterns []string         `yaml:"patterns"`
}

// Layer is one entry of the discovery map
type Layer struct {
	Name   string   `yaml:"name"`
	Tables []string `yaml:"tables"`
}

// Definition is the serialized form of a Base
type Definition struct {
	PiiRules []RuleSet                        `yaml:"pii_rules"`
	Glossary map[string]catalog.GlossaryEntry `yaml:"glossary"`
	Lineage  map[string]catalog.LineageEntry  `yaml:"lineage"`
	Layers   []Layer                          `yaml:"layers"`
}

// Rule is a compiled classification rule: an exact-name allowlist plus
// regular expressions searched against the lowercased column name
type Rule struct {
	Level    catalog.PiiLevel
	columns  map[string]struct{}
	patterns []*regexp.Regexp
}

// Matches reports whether the column name satisfies this rule
func (r Rule) Matches(columnName, lowered string) bool {
	if _, ok := r.columns[columnName]; ok {
		return true
	}
	for _, p := range r.patterns {
		if p.MatchString(lowered) {
			return true
		}
	}
	return false
}

// Base is an immutable set of knowledge tables
type Base struct {
	rules    []Rule
	glossary map[string]catalog.GlossaryEntry
	lineage  map[string]catalog.LineageEntry
	layers   []Layer
}

// New compiles a definition into a Base. Rules are ordered by
// classification priority regardless of their order in the definition.
func New(def Definition) (*Base, error) {
	b := &Base{
		glossary: maps.Clone(def.Glossary),
		lineage:  make(map[string]catalog.LineageEntry, len(def.Lineage)),
	}
	if b.glossary == nil {
		b.glossary = map[string]catalog.GlossaryEntry{}
	}
	for name, e := range def.Lineage {
		b.lineage[name] = cloneLineage(e)
	}

	seen := make(map[catalog.PiiLevel]bool)
	for _, rs := range def.PiiRules {
		if !slices.Contains(levelPriority, rs.Level) {
			return nil, fmt.Errorf("invalid classification level %q (must be PII, SPII or CONFIDENTIAL)", rs.Level)
		}
		if seen[rs.Level] {
			return nil, fmt.Errorf("duplicate rules for classification level %s", rs.Level)
		}
		seen[rs.Level] = true

		rule := Rule{Level: rs.Level, columns: make(map[string]struct{}, len(rs.Columns))}
		for _, c := range rs.Columns {
			rule.columns[c] = struct{}{}
		}
		for _, p := range rs.Patterns {
			re, err := regexp.Compile(p)
			if err != nil {
				return nil, fmt.Errorf("failed to compile %s pattern %q: %w", rs.Level, p, err)
			}
			rule.patterns = append(rule.patterns, re)
		}
		b.rules = append(b.rules, rule)
	}
	slices.SortStableFunc(b.rules, func(x, y Rule) int {
		return slices.Index(levelPriority, x.Level) - slices.Index(levelPriority, y.Level)
	})

	layerNames := make(map[string]bool)
	for _, l := range def.Layers {
		if l.Name == "" {
			return nil, fmt.Errorf("discovery layer without a name")
		}
		if layerNames[l.Name] {
			return nil, fmt.Errorf("duplicate discovery layer %s", l.Name)
		}
		layerNames[l.Name] = true
		b.layers = append(b.layers, Layer{Name: l.Name, Tables: slices.Clone(l.Tables)})
	}

	return b, nil
}

// Rules returns the classification rules in priority order
func (b *Base) Rules() []Rule {
	return slices.Clone(b.rules)
}

// GlossaryEntry looks up the glossary entry for a column name
func (b *Base) GlossaryEntry(column string) (catalog.GlossaryEntry, bool) {
	e, ok := b.glossary[column]
	return e, ok
}

// LineageEntry looks up the lineage of a table by exact name. The entry is
// a copy the caller may modify.
func (b *Base) LineageEntry(table string) (catalog.LineageEntry, bool) {
	e, ok := b.lineage[table]
	if !ok {
		return catalog.LineageEntry{}, false
	}
	return cloneLineage(e), true
}

// LineageGraph returns a deep copy of the whole lineage graph
func (b *Base) LineageGraph() map[string]catalog.LineageEntry {
	graph := make(map[string]catalog.LineageEntry, len(b.lineage))
	for name, e := range b.lineage {
		graph[name] = cloneLineage(e)
	}
	return graph
}

func cloneLineage(e catalog.LineageEntry) catalog.LineageEntry {
	e.Upstream = slices.Clone(e.Upstream)
	e.Downstream = slices.Clone(e.Downstream)
	return e
}

// Layers returns the discovery map in its configured order
func (b *Base) Layers() []Layer {
	out := make([]Layer, len(b.layers))
	for i, l := range b.layers {
		out[i] = Layer{Name: l.Name, Tables: slices.Clone(l.Tables)}
	}
	return out
}
