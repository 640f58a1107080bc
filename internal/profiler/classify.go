package profiler

import (
	"strings"

	"github.com/tordrt/catalogue/internal/catalog"
)

// Classify determines the sensitivity level of a column from its name.
// Levels are tested PII, SPII, CONFIDENTIAL in that order; the first rule
// set that matches wins and PUBLIC is the default.
func (p *Profiler) Classify(columnName string) catalog.PiiLevel {
	lowered := strings.ToLower(columnName)
	for _, rule := range p.kb.Rules() {
		if rule.Matches(columnName, lowered) {
			return rule.Level
		}
	}
	return catalog.Public
}
