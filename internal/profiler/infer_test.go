package profiler

import (
	"strconv"
	"testing"

	"github.com/tordrt/catalogue/internal/catalog"
)

func TestInferType(t *testing.T) {
	tests := []struct {
		name   string
		values []string
		want   catalog.DataType
	}{
		{name: "no values", values: nil, want: catalog.TypeUnknown},
		{name: "only blanks", values: []string{"", "  ", "\t"}, want: catalog.TypeUnknown},
		{name: "boolean words", values: []string{"true", "False", "YES", "no"}, want: catalog.TypeBoolean},
		{name: "zeros and ones are boolean", values: []string{"1", "0", "1"}, want: catalog.TypeBoolean},
		{name: "blanks ignored", values: []string{"", "yes", " ", "no"}, want: catalog.TypeBoolean},
		{name: "date", values: []string{"2024-01-01", "2024-02-29"}, want: catalog.TypeDate},
		{name: "datetime", values: []string{"2024-01-01T10:00:00", "2024-01-02T11:30:00Z"}, want: catalog.TypeDateTime},
		{name: "mixed date shapes", values: []string{"2024-01-01", "2024-01-01T10:00:00"}, want: catalog.TypeString},
		{name: "integer", values: []string{"1", "2", "30"}, want: catalog.TypeInteger},
		{name: "integral floats", values: []string{"1.0", "2", "-7.00"}, want: catalog.TypeInteger},
		{name: "decimal", values: []string{"1.5", "2", "3"}, want: catalog.TypeDecimal},
		{name: "padded numbers", values: []string{" 12 ", "3"}, want: catalog.TypeInteger},
		{name: "infinity is not numeric", values: []string{"inf", "12"}, want: catalog.TypeString},
		{name: "nan is not numeric", values: []string{"nan", "12"}, want: catalog.TypeString},
		{name: "digit separators", values: []string{"1_000", "2_500.5"}, want: catalog.TypeDecimal},
		{name: "doubled separator", values: []string{"1__000", "12"}, want: catalog.TypeString},
		{name: "trailing separator", values: []string{"1000_", "12"}, want: catalog.TypeString},
		{name: "hex float is not numeric", values: []string{"0x1p4", "12"}, want: catalog.TypeString},
		{name: "out of range", values: []string{"1e400", "12"}, want: catalog.TypeString},
		{name: "bare fraction and exponent", values: []string{".5", "5.", "1E3"}, want: catalog.TypeDecimal},
		{name: "identifier", values: []string{"CUST-001", "ACC_22", "PARTY-9"}, want: catalog.TypeIdentifier},
		{name: "lowercase prefix is not identifier", values: []string{"cust-001"}, want: catalog.TypeString},
		{name: "email", values: []string{"hello", "a@b.com"}, want: catalog.TypeEmail},
		{name: "phone", values: []string{"555-0100", "+1 555 0100"}, want: catalog.TypePhone},
		{name: "string", values: []string{"alpha", "beta"}, want: catalog.TypeString},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := InferType(tt.values); got != tt.want {
				t.Errorf("InferType(%q) = %s, want %s", tt.values, got, tt.want)
			}
		})
	}
}

func TestInferTypeSamplesLeadingValues(t *testing.T) {
	numbers := make([]string, 0, 101)
	for i := range 100 {
		numbers = append(numbers, strconv.Itoa(i+2))
	}

	tests := []struct {
		name   string
		values []string
		want   catalog.DataType
	}{
		{
			name:   "non-numeric token after position 100",
			values: append(append([]string{}, numbers...), "n/a"),
			want:   catalog.TypeInteger,
		},
		{
			name:   "non-numeric token inside the sample",
			values: append([]string{"n/a"}, numbers...),
			want:   catalog.TypeString,
		},
		{
			name:   "email marker after position 10",
			values: []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j", "k@l.com"},
			want:   catalog.TypeString,
		},
		{
			name:   "blanks do not count towards the sample",
			values: []string{"", "", "", "", "", "", "", "", "", "", "x@y.com"},
			want:   catalog.TypeEmail,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := InferType(tt.values); got != tt.want {
				t.Errorf("InferType() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestInferTypeBooleanSample(t *testing.T) {
	values := make([]string, 0, 51)
	for range 50 {
		values = append(values, "yes")
	}
	values = append(values, "maybe")

	if got := InferType(values); got != catalog.TypeBoolean {
		t.Errorf("InferType() = %s, want boolean", got)
	}
}

func TestTypeRuleOrder(t *testing.T) {
	want := []string{"boolean", "date", "numeric", "identifier", "email", "phone"}
	if len(typeRules) != len(want) {
		t.Fatalf("got %d type rules, want %d", len(typeRules), len(want))
	}
	for i, rule := range typeRules {
		if rule.name != want[i] {
			t.Errorf("typeRules[%d] = %s, want %s", i, rule.name, want[i])
		}
	}
}
