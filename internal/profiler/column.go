package profiler

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"unicode/utf8"

	"github.com/tordrt/catalogue/internal/catalog"
)

const (
	topValueLimit       = 8
	sampleValueLimit    = 5
	maskedSampleLimit   = 3
	nullPenaltyWeight   = 50
	maxNullPenalty      = 25
	unknownTypePenalty  = 10
	initialQualityScore = 100
)

// valueCounts holds the distinct non-empty values of a column in
// first-occurrence order together with their frequencies
type valueCounts struct {
	order  []string
	counts map[string]int
}

func countValues(values []string) valueCounts {
	vc := valueCounts{counts: make(map[string]int)}
	for _, v := range values {
		if _, ok := vc.counts[v]; !ok {
			vc.order = append(vc.order, v)
		}
		vc.counts[v]++
	}
	return vc
}

// top returns the n most frequent values, ties broken by first occurrence
func (vc valueCounts) top(n int) []string {
	ranked := slices.Clone(vc.order)
	slices.SortStableFunc(ranked, func(a, b string) int {
		return cmp.Compare(vc.counts[b], vc.counts[a])
	})
	return head(ranked, n)
}

// ProfileColumn builds the profile of one column. Data problems such as
// nulls, empty input or unparseable numbers never fail the column; they are
// absorbed into defaults.
func (p *Profiler) ProfileColumn(name string, values []string, totalRows int) catalog.ColumnProfile {
	nonEmpty := nonEmptyValues(values)
	vc := countValues(nonEmpty)
	nullCount := totalRows - len(nonEmpty)

	dtype := InferType(values)
	level := p.Classify(name)

	cp := catalog.ColumnProfile{
		ColumnName:        name,
		DataType:          dtype,
		PiiClassification: level,
		TotalCount:        totalRows,
		NullCount:         nullCount,
		NullRate:          percent(nullCount, totalRows, 2),
		DistinctCount:     len(vc.order),
		CardinalityRatio:  percent(len(vc.order), totalRows, 2),
		IsUnique:          len(nonEmpty) > 0 && len(vc.order) == len(nonEmpty),
	}

	if dtype.IsNumeric() {
		stats, err := numericStats(nonEmpty)
		if err != nil {
			p.logger.Warn("numeric statistics dropped", "column", name, "error", err)
		}
		cp.NumericStats = stats
	}

	switch {
	case level == catalog.Public || dtype == catalog.TypeBoolean:
		cp.TopValues = topValues(vc, len(nonEmpty))
	case level.IsSensitive():
		cp.TopValues = []catalog.ValueCount{{Value: catalog.MaskedValue, Count: len(nonEmpty), Pct: 100}}
	}

	if level.IsSensitive() {
		cp.SampleValues = make([]string, min(maskedSampleLimit, len(nonEmpty)))
		for i := range cp.SampleValues {
			cp.SampleValues[i] = catalog.MaskedValue
		}
	} else {
		cp.SampleValues = slices.Clone(head(vc.order, sampleValueLimit))
		if cp.SampleValues == nil {
			cp.SampleValues = []string{}
		}
	}

	if dtype.IsTextual() {
		cp.LengthStats = lengthStats(nonEmpty)
	}

	cp.QualityScore = qualityScore(nullCount, totalRows, dtype)

	if entry, ok := p.kb.GlossaryEntry(name); ok {
		cp.Glossary = &entry
	}

	return cp
}

func topValues(vc valueCounts, nonEmpty int) []catalog.ValueCount {
	out := make([]catalog.ValueCount, 0, topValueLimit)
	for _, v := range vc.top(topValueLimit) {
		out = append(out, catalog.ValueCount{
			Value: v,
			Count: vc.counts[v],
			Pct:   percent(vc.counts[v], nonEmpty, 1),
		})
	}
	return out
}

// numericStats computes min, max, mean, median and population standard
// deviation. The median is the element at index n/2 of the sorted values,
// and the deviation is taken around the mean rounded to two places.
func numericStats(values []string) (*catalog.NumericStats, error) {
	if len(values) == 0 {
		return nil, fmt.Errorf("no values")
	}

	nums := make([]float64, len(values))
	for i, v := range values {
		f, err := parseNumber(v)
		if err != nil {
			return nil, fmt.Errorf("value %d: %w", i, err)
		}
		nums[i] = f
	}

	var sum float64
	for _, f := range nums {
		sum += f
	}
	mean := round(sum/float64(len(nums)), 2)

	var variance float64
	for _, f := range nums {
		variance += (f - mean) * (f - mean)
	}
	variance /= float64(len(nums))
	if math.IsInf(sum, 0) || math.IsInf(variance, 0) {
		return nil, fmt.Errorf("numeric overflow")
	}

	sorted := slices.Clone(nums)
	slices.Sort(sorted)

	return &catalog.NumericStats{
		Min:    sorted[0],
		Max:    sorted[len(sorted)-1],
		Mean:   mean,
		Median: sorted[len(sorted)/2],
		StdDev: round(math.Sqrt(variance), 2),
	}, nil
}

func lengthStats(values []string) *catalog.LengthStats {
	if len(values) == 0 {
		return nil
	}

	minLen, maxLen, total := math.MaxInt, 0, 0
	for _, v := range values {
		n := utf8.RuneCountInString(v)
		minLen = min(minLen, n)
		maxLen = max(maxLen, n)
		total += n
	}

	return &catalog.LengthStats{
		MinLength: minLen,
		MaxLength: maxLen,
		AvgLength: round(float64(total)/float64(len(values)), 1),
	}
}

// qualityScore starts at 100, subtracts up to 25 for nulls and 10 for an
// unknown type
func qualityScore(nullCount, totalRows int, dtype catalog.DataType) float64 {
	score := float64(initialQualityScore)
	if nullCount > 0 && totalRows > 0 {
		score -= math.Min(float64(nullCount)/float64(totalRows)*nullPenaltyWeight, maxNullPenalty)
	}
	if dtype == catalog.TypeUnknown {
		score -= unknownTypePenalty
	}
	return round(score, 1)
}
