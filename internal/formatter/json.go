package formatter

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tordrt/catalogue/internal/catalog"
)

// Artifact file names written next to the per-table profiles
const (
	MasterCatalogueFile = "master_catalogue.json"
	QualityReportFile   = "quality_report.json"
	GlossaryFile        = "business_glossary.json"
	LineageFile         = "lineage_map.json"

	profileSuffix = "_profile.json"
)

// JSONFormatter writes the catalogue as a set of JSON documents in a
// directory
type JSONFormatter struct {
	OutputDir string
}

// NewJSONFormatter creates a new JSON formatter
func NewJSONFormatter(outputDir string) *JSONFormatter {
	return &JSONFormatter{OutputDir: outputDir}
}

// ProfilePath returns the file a table profile is written to
func (f *JSONFormatter) ProfilePath(table string) string {
	return filepath.Join(f.OutputDir, table+profileSuffix)
}

// Format writes one profile per table followed by the corpus artifacts and
// returns the paths it wrote
func (f *JSONFormatter) Format(c *catalog.Catalogue) ([]string, error) {
	if err := os.MkdirAll(f.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	var written []string
	write := func(path string, v any) error {
		if err := writeJSON(path, v); err != nil {
			return err
		}
		written = append(written, path)
		return nil
	}

	for _, tp := range c.Tables {
		if err := write(f.ProfilePath(tp.TableName), tp); err != nil {
			return written, fmt.Errorf("failed to write profile for %s: %w", tp.TableName, err)
		}
	}

	tables := c.Tables
	if tables == nil {
		tables = []catalog.TableProfile{}
	}
	glossary := c.Glossary
	if glossary == nil {
		glossary = catalog.GlossaryExport{}
	}
	lineage := c.Lineage
	if lineage == nil {
		lineage = map[string]catalog.LineageEntry{}
	}

	artifacts := []struct {
		name  string
		value any
	}{
		{MasterCatalogueFile, tables},
		{QualityReportFile, c.Report},
		{GlossaryFile, glossary},
		{LineageFile, lineage},
	}
	for _, a := range artifacts {
		if err := write(filepath.Join(f.OutputDir, a.name), a.value); err != nil {
			return written, fmt.Errorf("failed to write %s: %w", a.name, err)
		}
	}

	return written, nil
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0644)
}
