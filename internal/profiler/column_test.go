package profiler

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"reflect"
	"strconv"
	"strings"
	"testing"

	"github.com/tordrt/catalogue/internal/catalog"
	"github.com/tordrt/catalogue/internal/knowledge"
)

func newTestProfiler() *Profiler {
	return New(knowledge.Default(), WithClock(fixedClock))
}

func TestProfileColumnEmail(t *testing.T) {
	p := newTestProfiler()

	cp := p.ProfileColumn("email", []string{"a@x.com", "b@x.com", "", "a@x.com"}, 4)

	if cp.NullCount != 1 {
		t.Errorf("NullCount = %d, want 1", cp.NullCount)
	}
	if cp.DistinctCount != 2 {
		t.Errorf("DistinctCount = %d, want 2", cp.DistinctCount)
	}
	if cp.DataType != catalog.TypeEmail {
		t.Errorf("DataType = %s, want email", cp.DataType)
	}
	if cp.PiiClassification != catalog.PII {
		t.Errorf("PiiClassification = %s, want PII", cp.PiiClassification)
	}
	if cp.IsUnique {
		t.Error("IsUnique = true, want false")
	}
	if cp.NullRate != 25 {
		t.Errorf("NullRate = %v, want 25", cp.NullRate)
	}
	if cp.CardinalityRatio != 50 {
		t.Errorf("CardinalityRatio = %v, want 50", cp.CardinalityRatio)
	}
	if cp.QualityScore != 87.5 {
		t.Errorf("QualityScore = %v, want 87.5", cp.QualityScore)
	}

	wantTop := []catalog.ValueCount{{Value: catalog.MaskedValue, Count: 3, Pct: 100}}
	if !reflect.DeepEqual(cp.TopValues, wantTop) {
		t.Errorf("TopValues = %+v, want %+v", cp.TopValues, wantTop)
	}
	wantSamples := []string{catalog.MaskedValue, catalog.MaskedValue, catalog.MaskedValue}
	if !reflect.DeepEqual(cp.SampleValues, wantSamples) {
		t.Errorf("SampleValues = %v, want %v", cp.SampleValues, wantSamples)
	}

	if cp.LengthStats == nil {
		t.Fatal("LengthStats missing for email column")
	}
	if cp.MinLength != 7 || cp.MaxLength != 7 || cp.AvgLength != 7 {
		t.Errorf("LengthStats = %+v, want 7/7/7", *cp.LengthStats)
	}
	if cp.NumericStats != nil {
		t.Error("NumericStats present for email column")
	}
}

func TestProfileColumnAllNull(t *testing.T) {
	p := newTestProfiler()

	cp := p.ProfileColumn("notes", make([]string, 10), 10)

	if cp.DataType != catalog.TypeUnknown {
		t.Errorf("DataType = %s, want unknown", cp.DataType)
	}
	if cp.QualityScore != 65 {
		t.Errorf("QualityScore = %v, want 65", cp.QualityScore)
	}
	if cp.NullRate != 100 {
		t.Errorf("NullRate = %v, want 100", cp.NullRate)
	}
	if cp.IsUnique {
		t.Error("IsUnique = true for a column without values")
	}
	if cp.TopValues == nil || len(cp.TopValues) != 0 {
		t.Errorf("TopValues = %#v, want empty non-nil slice", cp.TopValues)
	}
	if len(cp.SampleValues) != 0 {
		t.Errorf("SampleValues = %v, want none", cp.SampleValues)
	}
	if cp.LengthStats != nil || cp.NumericStats != nil {
		t.Error("statistics blocks present for an all-null column")
	}
}

func TestProfileColumnNoRows(t *testing.T) {
	p := newTestProfiler()

	cp := p.ProfileColumn("notes", nil, 0)

	if cp.NullRate != 0 || cp.CardinalityRatio != 0 {
		t.Errorf("ratios = %v/%v, want 0/0", cp.NullRate, cp.CardinalityRatio)
	}
	if cp.QualityScore != 90 {
		t.Errorf("QualityScore = %v, want 90", cp.QualityScore)
	}
}

func TestProfileColumnNumeric(t *testing.T) {
	p := newTestProfiler()

	cp := p.ProfileColumn("quantity", []string{"4", "1", "3", "2"}, 4)

	if cp.DataType != catalog.TypeInteger {
		t.Fatalf("DataType = %s, want integer", cp.DataType)
	}
	if cp.NumericStats == nil {
		t.Fatal("NumericStats missing")
	}
	want := catalog.NumericStats{Min: 1, Max: 4, Mean: 2.5, Median: 3, StdDev: 1.12}
	if *cp.NumericStats != want {
		t.Errorf("NumericStats = %+v, want %+v", *cp.NumericStats, want)
	}
	if !cp.IsUnique {
		t.Error("IsUnique = false, want true")
	}
	if cp.LengthStats != nil {
		t.Error("LengthStats present for numeric column")
	}
}

func TestProfileColumnMalformedNumeric(t *testing.T) {
	p := newTestProfiler()

	values := make([]string, 0, 101)
	for i := range 100 {
		values = append(values, strconv.Itoa(i+2))
	}
	values = append(values, "n/a")

	cp := p.ProfileColumn("units", values, len(values))

	if cp.DataType != catalog.TypeInteger {
		t.Errorf("DataType = %s, want integer", cp.DataType)
	}
	if cp.NumericStats != nil {
		t.Errorf("NumericStats = %+v, want dropped", *cp.NumericStats)
	}
	if cp.QualityScore != 100 {
		t.Errorf("QualityScore = %v, want 100", cp.QualityScore)
	}
}

func TestProfileColumnNumericOverflow(t *testing.T) {
	var logs bytes.Buffer
	p := New(knowledge.Default(), WithClock(fixedClock), WithLogger(slog.New(slog.NewTextHandler(&logs, nil))))

	cp := p.ProfileColumn("units", []string{"1e308", "1e308"}, 2)

	if cp.DataType != catalog.TypeInteger {
		t.Errorf("DataType = %s, want integer", cp.DataType)
	}
	if cp.NumericStats != nil {
		t.Errorf("NumericStats = %+v, want dropped", *cp.NumericStats)
	}
	if !strings.Contains(logs.String(), "numeric statistics dropped") || !strings.Contains(logs.String(), "column=units") {
		t.Errorf("expected a dropped-statistics warning, got %q", logs.String())
	}
}

func TestProfileColumnRoundsDecimalValue(t *testing.T) {
	p := newTestProfiler()

	cp := p.ProfileColumn("qty", []string{"2.72", "2.73"}, 2)
	if cp.NumericStats == nil {
		t.Fatal("NumericStats missing")
	}
	if cp.NumericStats.Mean != 2.73 {
		t.Errorf("Mean = %v, want 2.73", cp.NumericStats.Mean)
	}

	// 13 four-letter and 7 five-letter codes: 87 characters over 20 values
	values := make([]string, 0, 20)
	for i := range 20 {
		if i < 13 {
			values = append(values, "abcd")
		} else {
			values = append(values, "abcde")
		}
	}
	cp = p.ProfileColumn("code", values, len(values))
	if cp.LengthStats == nil {
		t.Fatal("LengthStats missing")
	}
	if cp.LengthStats.AvgLength != 4.3 {
		t.Errorf("AvgLength = %v, want 4.3", cp.LengthStats.AvgLength)
	}
}

func TestProfileColumnTopValues(t *testing.T) {
	tests := []struct {
		name        string
		column      string
		values      []string
		wantTop     []catalog.ValueCount
		wantSamples []string
	}{
		{
			name:   "confidential column omits top values",
			column: "balance",
			values: []string{"10", "20"},
			wantTop: nil,
			wantSamples: []string{"10", "20"},
		},
		{
			name:   "confidential boolean keeps top values",
			column: "account_active",
			values: []string{"yes", "no", "yes"},
			wantTop: []catalog.ValueCount{
				{Value: "yes", Count: 2, Pct: 66.7},
				{Value: "no", Count: 1, Pct: 33.3},
			},
			wantSamples: []string{"yes", "no"},
		},
		{
			name:   "sensitive boolean keeps top values but masks samples",
			column: "email_opt_in",
			values: []string{"true", "false", "true", "true"},
			wantTop: []catalog.ValueCount{
				{Value: "true", Count: 3, Pct: 75},
				{Value: "false", Count: 1, Pct: 25},
			},
			wantSamples: []string{catalog.MaskedValue, catalog.MaskedValue, catalog.MaskedValue},
		},
		{
			name:   "public ties keep first occurrence order",
			column: "segment",
			values: []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "c"},
			wantTop: []catalog.ValueCount{
				{Value: "c", Count: 2, Pct: 20},
				{Value: "a", Count: 1, Pct: 10},
				{Value: "b", Count: 1, Pct: 10},
				{Value: "d", Count: 1, Pct: 10},
				{Value: "e", Count: 1, Pct: 10},
				{Value: "f", Count: 1, Pct: 10},
				{Value: "g", Count: 1, Pct: 10},
				{Value: "h", Count: 1, Pct: 10},
			},
			wantSamples: []string{"a", "b", "c", "d", "e"},
		},
	}

	p := newTestProfiler()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cp := p.ProfileColumn(tt.column, tt.values, len(tt.values))

			if !reflect.DeepEqual(cp.TopValues, tt.wantTop) {
				t.Errorf("TopValues = %+v, want %+v", cp.TopValues, tt.wantTop)
			}
			if !reflect.DeepEqual(cp.SampleValues, tt.wantSamples) {
				t.Errorf("SampleValues = %v, want %v", cp.SampleValues, tt.wantSamples)
			}
		})
	}
}

func TestProfileColumnGlossary(t *testing.T) {
	p := newTestProfiler()

	cp := p.ProfileColumn("fico_score", []string{"700", "710"}, 2)
	if cp.Glossary == nil || cp.Glossary.Term != "FICO Score" {
		t.Errorf("Glossary = %+v, want FICO Score", cp.Glossary)
	}

	cp = p.ProfileColumn("unlisted", []string{"x"}, 1)
	if cp.Glossary != nil {
		t.Errorf("Glossary = %+v, want none", cp.Glossary)
	}
}

func TestProfileColumnInvariants(t *testing.T) {
	p := newTestProfiler()

	inputs := [][]string{
		{},
		{"", ""},
		{"a", "a", "a"},
		{"1", " ", "2", "2"},
		{"x@y.com", "", "z@y.com"},
		{"2024-01-01", "2024-01-02", ""},
		{"CUST-1", "CUST-2", "CUST-3"},
	}

	for _, values := range inputs {
		t.Run(strings.Join(values, ","), func(t *testing.T) {
			cp := p.ProfileColumn("col", values, len(values))

			nonEmpty := cp.TotalCount - cp.NullCount
			if nonEmpty < 0 {
				t.Fatalf("NullCount %d exceeds TotalCount %d", cp.NullCount, cp.TotalCount)
			}
			if cp.DistinctCount > nonEmpty {
				t.Errorf("DistinctCount %d exceeds non-empty count %d", cp.DistinctCount, nonEmpty)
			}
			if cp.NullRate < 0 || cp.NullRate > 100 {
				t.Errorf("NullRate %v out of range", cp.NullRate)
			}
			if cp.CardinalityRatio < 0 || cp.CardinalityRatio > 100 {
				t.Errorf("CardinalityRatio %v out of range", cp.CardinalityRatio)
			}
			wantUnique := nonEmpty > 0 && cp.DistinctCount == nonEmpty
			if cp.IsUnique != wantUnique {
				t.Errorf("IsUnique = %v, want %v", cp.IsUnique, wantUnique)
			}
			if cp.QualityScore < 65 || cp.QualityScore > 100 {
				t.Errorf("QualityScore %v out of range", cp.QualityScore)
			}
		})
	}
}

func TestProfileColumnIdempotent(t *testing.T) {
	p := newTestProfiler()
	values := []string{"b", "a", "", "c", "a", "d", "e", "f", "g"}

	first, err := json.Marshal(p.ProfileColumn("segment", values, len(values)))
	if err != nil {
		t.Fatalf("Marshal error: %v", err)
	}
	second, err := json.Marshal(p.ProfileColumn("segment", values, len(values)))
	if err != nil {
		t.Fatalf("Marshal error: %v", err)
	}

	if string(first) != string(second) {
		t.Errorf("profiles differ:\n%s\n%s", first, second)
	}
}

func TestColumnProfileJSON(t *testing.T) {
	p := newTestProfiler()

	tests := []struct {
		name        string
		column      string
		values      []string
		wantKeys    []string
		missingKeys []string
	}{
		{
			name:        "confidential numeric",
			column:      "balance",
			values:      []string{"10.5", "20"},
			wantKeys:    []string{"min", "max", "mean", "median", "std_dev", "sample_values", "glossary"},
			missingKeys: []string{"top_values", "min_length"},
		},
		{
			name:        "public empty column",
			column:      "notes",
			values:      []string{"", ""},
			wantKeys:    []string{"top_values", "sample_values"},
			missingKeys: []string{"min", "min_length", "glossary"},
		},
		{
			name:        "public string",
			column:      "segment",
			values:      []string{"affluent", "mass_market"},
			wantKeys:    []string{"top_values", "min_length", "max_length", "avg_length"},
			missingKeys: []string{"min", "std_dev"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(p.ProfileColumn(tt.column, tt.values, len(tt.values)))
			if err != nil {
				t.Fatalf("Marshal error: %v", err)
			}

			var fields map[string]any
			if err := json.Unmarshal(data, &fields); err != nil {
				t.Fatalf("Unmarshal error: %v", err)
			}

			for _, k := range tt.wantKeys {
				if _, ok := fields[k]; !ok {
					t.Errorf("expected key %q in %s", k, data)
				}
			}
			for _, k := range tt.missingKeys {
				if _, ok := fields[k]; ok {
					t.Errorf("unexpected key %q in %s", k, data)
				}
			}
		})
	}
}
