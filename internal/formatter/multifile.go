package formatter

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/tordrt/catalogue/internal/catalog"
)

// OverviewFile is the index written by the multi-file formatter
const OverviewFile = "_overview.md"

// MultiFileFormatter writes the catalogue as an overview plus one markdown
// file per table
type MultiFileFormatter struct {
	OutputDir string
}

// NewMultiFileFormatter creates a new multi-file formatter
func NewMultiFileFormatter(outputDir string) *MultiFileFormatter {
	return &MultiFileFormatter{OutputDir: outputDir}
}

// Format writes the overview and the per-table files and returns the paths
// it wrote
func (f *MultiFileFormatter) Format(c *catalog.Catalogue) ([]string, error) {
	// Create output directory if it doesn't exist
	if err := os.MkdirAll(f.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	var written []string

	overview := filepath.Join(f.OutputDir, OverviewFile)
	if err := f.writeOverview(overview, c); err != nil {
		return nil, fmt.Errorf("failed to write overview: %w", err)
	}
	written = append(written, overview)

	for _, tp := range c.Tables {
		path := filepath.Join(f.OutputDir, tp.TableName+".md")
		if err := f.writeTableFile(path, tp, c.Lineage); err != nil {
			return written, fmt.Errorf("failed to write table file for %s: %w", tp.TableName, err)
		}
		written = append(written, path)
	}

	return written, nil
}

func (f *MultiFileFormatter) writeOverview(path string, c *catalog.Catalogue) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() { _ = file.Close() }()

	md := NewMarkdownFormatter(file)

	_, _ = fmt.Fprintf(file, "# Catalogue Overview\n\n")
	_, _ = fmt.Fprintf(file, "Each table has a corresponding file: `<table_name>.md`\n\n")

	md.FormatReport(c.Report)

	_, _ = fmt.Fprintf(file, "## Tables\n\n")

	// Group by layer, tables alphabetically inside each
	byLayer := make(map[string][]catalog.TableProfile)
	for _, tp := range c.Tables {
		byLayer[tp.Layer] = append(byLayer[tp.Layer], tp)
	}
	layers := make([]string, 0, len(byLayer))
	for layer := range byLayer {
		layers = append(layers, layer)
	}
	slices.Sort(layers)

	for _, layer := range layers {
		_, _ = fmt.Fprintf(file, "### %s\n\n", layer)

		tables := byLayer[layer]
		slices.SortFunc(tables, func(a, b catalog.TableProfile) int {
			return strings.Compare(a.TableName, b.TableName)
		})
		for _, tp := range tables {
			_, _ = fmt.Fprintf(file, "- **%s** (quality %.1f", tp.TableName, tp.QualityScore)
			if n := sensitiveColumns(tp); n > 0 {
				_, _ = fmt.Fprintf(file, ", %d sensitive columns", n)
			}
			_, _ = fmt.Fprintf(file, ")\n")
		}
		_, _ = fmt.Fprintln(file)
	}

	return nil
}

// writeTableFile writes a single table to its own file
func (f *MultiFileFormatter) writeTableFile(path string, tp catalog.TableProfile, graph map[string]catalog.LineageEntry) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() { _ = file.Close() }()

	NewMarkdownFormatter(file).FormatTable(tp)

	// Add consumers the graph knows about
	feeds := findConsumers(tp.TableName, graph)
	if len(feeds) > 0 {
		_, _ = fmt.Fprintf(file, "### Feeds\n\n")
		for _, c := range feeds {
			_, _ = fmt.Fprintf(file, "- %s (%s) via %s\n", c.Table, c.Layer, c.Join)
		}
		_, _ = fmt.Fprintln(file)
	}

	return nil
}

// Consumer is a table that lists another table as one of its upstreams
type Consumer struct {
	Table string
	Layer string
	Join  string
}

// findConsumers finds every lineage entry naming table as an upstream,
// ordered by consumer name
func findConsumers(table string, graph map[string]catalog.LineageEntry) []Consumer {
	var consumers []Consumer

	for name, entry := range graph {
		for _, up := range entry.Upstream {
			if up.Table == table {
				consumers = append(consumers, Consumer{Table: name, Layer: entry.Layer, Join: up.Join})
			}
		}
	}

	slices.SortFunc(consumers, func(a, b Consumer) int {
		return strings.Compare(a.Table, b.Table)
	})
	return consumers
}

func sensitiveColumns(tp catalog.TableProfile) int {
	n := 0
	for level, count := range tp.PiiSummary {
		if level.IsSensitive() {
			n += count
		}
	}
	return n
}
