package catalog

import (
	"maps"
	"slices"
)

// DataType is the semantic type inferred for a column
type DataType string

const (
	TypeUnknown    DataType = "unknown"
	TypeBoolean    DataType = "boolean"
	TypeDate       DataType = "date"
	TypeDateTime   DataType = "datetime"
	TypeInteger    DataType = "integer"
	TypeDecimal    DataType = "decimal"
	TypeIdentifier DataType = "identifier"
	TypeEmail      DataType = "email"
	TypePhone      DataType = "phone"
	TypeString     DataType = "string"
)

// IsNumeric reports whether numeric statistics apply to the type
func (t DataType) IsNumeric() bool {
	return t == TypeInteger || t == TypeDecimal
}

// IsTextual reports whether string-length statistics apply to the type
func (t DataType) IsTextual() bool {
	switch t {
	case TypeString, TypeEmail, TypePhone, TypeIdentifier:
		return true
	}
	return false
}

// PiiLevel is a column sensitivity classification
type PiiLevel string

const (
	PII          PiiLevel = "PII"
	SPII         PiiLevel = "SPII"
	Confidential PiiLevel = "CONFIDENTIAL"
	Public       PiiLevel = "PUBLIC"
)

// IsSensitive reports whether values at this level must be masked
func (l PiiLevel) IsSensitive() bool {
	return l == PII || l == SPII
}

// MaskedValue replaces every sample or top value of a sensitive column
const MaskedValue = "***MASKED***"

// RawTable is one table as supplied by a source reader
type RawTable struct {
	Name      string
	Layer     string
	Location  string
	Columns   []string
	Rows      []map[string]string
	SizeBytes int64
}

// Values returns the column's values across all rows, "" for absent keys
func (t *RawTable) Values(column string) []string {
	values := make([]string, len(t.Rows))
	for i, row := range t.Rows {
		values[i] = row[column]
	}
	return values
}

// ValueCount is one entry of a column's most frequent values
type ValueCount struct {
	Value string  `json:"value"`
	Count int     `json:"count"`
	Pct   float64 `json:"pct"`
}

// NumericStats is present only for integer and decimal columns
type NumericStats struct {
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	StdDev float64 `json:"std_dev"`
}

// LengthStats is present only for textual columns with values
type LengthStats struct {
	MinLength int     `json:"min_length"`
	MaxLength int     `json:"max_length"`
	AvgLength float64 `json:"avg_length"`
}

// GlossaryEntry is a human-authored business definition keyed by column name
type GlossaryEntry struct {
	Term       string `json:"term" yaml:"term"`
	Definition string `json:"definition" yaml:"definition"`
	Domain     string `json:"domain" yaml:"domain"`
	Steward    string `json:"steward" yaml:"steward"`
}

// ColumnProfile is the profile of a single column.
//
// TopValues is nil for CONFIDENTIAL non-boolean columns, which omits the key
// entirely; an empty non-nil slice is still emitted as [].
type ColumnProfile struct {
	ColumnName        string   `json:"column_name"`
	DataType          DataType `json:"data_type"`
	PiiClassification PiiLevel `json:"pii_classification"`
	TotalCount        int      `json:"total_count"`
	NullCount         int      `json:"null_count"`
	NullRate          float64  `json:"null_rate"`
	DistinctCount     int      `json:"distinct_count"`
	CardinalityRatio  float64  `json:"cardinality_ratio"`
	IsUnique          bool     `json:"is_unique"`

	*NumericStats

	TopValues    []ValueCount `json:"top_values,omitzero"`
	SampleValues []string     `json:"sample_values"`

	*LengthStats

	QualityScore float64        `json:"quality_score"`
	Glossary     *GlossaryEntry `json:"glossary,omitempty"`
}

// Upstream is one source feeding a table in the lineage graph
type Upstream struct {
	Table     string `json:"table" yaml:"table"`
	Layer     string `json:"layer" yaml:"layer"`
	Join      string `json:"join" yaml:"join"`
	Transform string `json:"transform" yaml:"transform"`
}

// LineageEntry describes where a table comes from and who consumes it.
// The zero value encodes as {} for tables the lineage graph does not know.
type LineageEntry struct {
	Layer      string     `json:"layer,omitempty" yaml:"layer"`
	Upstream   []Upstream `json:"upstream,omitzero" yaml:"upstream"`
	Downstream []string   `json:"downstream,omitzero" yaml:"downstream"`
	Refresh    string     `json:"refresh,omitempty" yaml:"refresh"`
	SLA        string     `json:"sla,omitempty" yaml:"sla"`
	Steward    string     `json:"steward,omitempty" yaml:"steward,omitempty"`
}

// TableProfile aggregates the column profiles of one table
type TableProfile struct {
	TableName        string           `json:"table_name"`
	Layer            string           `json:"layer"`
	FilePath         string           `json:"file_path"`
	TotalRows        int              `json:"total_rows"`
	TotalColumns     int              `json:"total_columns"`
	FileSizeBytes    int64            `json:"file_size_bytes"`
	FileSizeHuman    string           `json:"file_size_human"`
	ProfiledAt       string           `json:"profiled_at"`
	QualityScore     float64          `json:"quality_score"`
	PiiSummary       map[PiiLevel]int `json:"pii_summary"`
	Columns          []ColumnProfile  `json:"columns"`
	Lineage          LineageEntry     `json:"lineage"`
	Owner            string           `json:"owner"`
	RefreshFrequency string           `json:"refresh_frequency"`
	SLA              string           `json:"sla"`
	Tags             []string         `json:"tags"`
}

// LayerStats is the per-layer rollup of a quality report
type LayerStats struct {
	Tables     int     `json:"tables"`
	Rows       int     `json:"rows"`
	AvgQuality float64 `json:"avg_quality"`
}

// TableScore is one entry of the quality ranking
type TableScore struct {
	Table string  `json:"table"`
	Score float64 `json:"score"`
	Layer string  `json:"layer"`
}

// QualityReport is the corpus-wide quality rollup
type QualityReport struct {
	RunID                 string                `json:"run_id"`
	ReportDate            string                `json:"report_date"`
	Company               string                `json:"company"`
	TotalTables           int                   `json:"total_tables"`
	TotalRows             int                   `json:"total_rows"`
	TotalColumns          int                   `json:"total_columns"`
	TotalSizeBytes        int64                 `json:"total_size_bytes"`
	TotalSizeHuman        string                `json:"total_size_human"`
	AvgQualityScore       float64               `json:"avg_quality_score"`
	PiiColumnDistribution map[PiiLevel]int      `json:"pii_column_distribution"`
	LayerStatistics       map[string]LayerStats `json:"layer_statistics"`
	TablesByQuality       []TableScore          `json:"tables_by_quality"`
}

// GlossaryTerm is a glossary entry together with the tables it was found in
type GlossaryTerm struct {
	GlossaryEntry
	PiiClassification PiiLevel `json:"pii_classification"`
	FoundIn           []string `json:"found_in"`
}

// GlossaryExport maps column names to their glossary terms. JSON encoding
// orders it by column name.
type GlossaryExport map[string]GlossaryTerm

// Names returns the exported column names in sorted order
func (g GlossaryExport) Names() []string {
	return slices.Sorted(maps.Keys(g))
}

// Catalogue is everything produced by one run
type Catalogue struct {
	Tables   []TableProfile
	Report   QualityReport
	Glossary GlossaryExport
	Lineage  map[string]LineageEntry
}
