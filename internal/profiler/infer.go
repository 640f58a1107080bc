package profiler

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/tordrt/catalogue/internal/catalog"
)

var (
	boolTokens = map[string]struct{}{
		"true": {}, "false": {}, "1": {}, "0": {}, "yes": {}, "no": {},
	}

	datePatterns = []*regexp.Regexp{
		regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`),
		regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T`),
	}

	identifierPattern = regexp.MustCompile(`^[A-Z]{2,5}[-_]\d+`)

	// decimal literals with optional single underscores between digits;
	// hexadecimal forms and bare underscores are rejected
	numberPattern = regexp.MustCompile(`^[+-]?(?:\d(?:_?\d)*(?:\.(?:\d(?:_?\d)*)?)?|\.\d(?:_?\d)*)(?:[eE][+-]?\d(?:_?\d)*)?$`)
)

// typeRule inspects at most sample leading non-empty values
type typeRule struct {
	name   string
	sample int
	infer  func(values []string) (catalog.DataType, bool)
}

// typeRules are evaluated in order; the first match wins
var typeRules = []typeRule{
	{name: "boolean", sample: 50, infer: inferBoolean},
	{name: "date", sample: 20, infer: inferDate},
	{name: "numeric", sample: 100, infer: inferNumeric},
	{name: "identifier", sample: 10, infer: inferIdentifier},
	{name: "email", sample: 10, infer: inferEmail},
	{name: "phone", sample: 10, infer: inferPhone},
}

// InferType determines the semantic type of a column from its raw values.
// Blank values are ignored; a column without any other value is unknown.
func InferType(values []string) catalog.DataType {
	nonEmpty := nonEmptyValues(values)
	if len(nonEmpty) == 0 {
		return catalog.TypeUnknown
	}

	for _, rule := range typeRules {
		if t, ok := rule.infer(head(nonEmpty, rule.sample)); ok {
			return t
		}
	}
	return catalog.TypeString
}

func inferBoolean(values []string) (catalog.DataType, bool) {
	for _, v := range values {
		if _, ok := boolTokens[strings.ToLower(v)]; !ok {
			return "", false
		}
	}
	return catalog.TypeBoolean, true
}

func inferDate(values []string) (catalog.DataType, bool) {
	for _, pattern := range datePatterns {
		if allMatch(pattern, values) {
			if strings.Contains(values[0], "T") {
				return catalog.TypeDateTime, true
			}
			return catalog.TypeDate, true
		}
	}
	return "", false
}

func inferNumeric(values []string) (catalog.DataType, bool) {
	integral := true
	for _, v := range values {
		f, err := parseNumber(v)
		if err != nil {
			return "", false
		}
		if f != math.Trunc(f) {
			integral = false
		}
	}
	if integral {
		return catalog.TypeInteger, true
	}
	return catalog.TypeDecimal, true
}

func inferIdentifier(values []string) (catalog.DataType, bool) {
	if allMatch(identifierPattern, values) {
		return catalog.TypeIdentifier, true
	}
	return "", false
}

func inferEmail(values []string) (catalog.DataType, bool) {
	for _, v := range values {
		if strings.Contains(v, "@") {
			return catalog.TypeEmail, true
		}
	}
	return "", false
}

func inferPhone(values []string) (catalog.DataType, bool) {
	for _, v := range values {
		if strings.HasPrefix(v, "+") {
			return catalog.TypePhone, true
		}
	}
	return "", false
}

// parseNumber parses a decimal numeric token. Surrounding whitespace and
// digit-separating underscores are allowed; hexadecimal, infinities, NaN and
// out-of-range values are rejected.
func parseNumber(s string) (float64, error) {
	token := strings.TrimSpace(s)
	if !numberPattern.MatchString(token) {
		return 0, fmt.Errorf("parsing %q: invalid number", s)
	}
	f, err := strconv.ParseFloat(strings.ReplaceAll(token, "_", ""), 64)
	if err != nil {
		return 0, err
	}
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, fmt.Errorf("parsing %q: non-finite number", s)
	}
	return f, nil
}

func allMatch(re *regexp.Regexp, values []string) bool {
	for _, v := range values {
		if !re.MatchString(v) {
			return false
		}
	}
	return true
}

// nonEmptyValues drops empty and whitespace-only values, keeping the rest verbatim
func nonEmptyValues(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			out = append(out, v)
		}
	}
	return out
}

func head(values []string, n int) []string {
	if len(values) > n {
		return values[:n]
	}
	return values
}
