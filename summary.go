package dashgrid

import (
	"fmt"
	"strconv"
	"strings"
)

// GrandTotal keys the summary over every matched record
const GrandTotal = "_total"

// Measure aggregates one column per group
type Measure struct {
	Column string `json:"column" yaml:"column"`
	Func   string `json:"func" yaml:"func"` // SUM, AVG, COUNT, MIN, MAX
	Label  string `json:"label,omitempty" yaml:"label"`
}

// Name is the label, or FUNC(column) when no label is set.
func (m Measure) Name() string {
	if m.Label != "" {
		return m.Label
	}
	return fmt.Sprintf("%s(%s)", strings.ToUpper(m.Func), m.Column)
}

// Summary holds the aggregates of one bucket
type Summary struct {
	Count  int                `json:"count"`
	Values map[string]float64 `json:"values"`
}

// Summarize aggregates each group and the whole matched set.
func Summarize[R Fielder](groups []Group[R], matched []R, measures []Measure) map[string]Summary {
	out := make(map[string]Summary, len(groups)+1)
	for _, g := range groups {
		out[g.Label] = summarize(g.Records, measures)
	}
	out[GrandTotal] = summarize(matched, measures)
	return out
}

func summarize[R Fielder](records []R, measures []Measure) Summary {
	s := Summary{Count: len(records), Values: make(map[string]float64, len(measures))}
	for _, m := range measures {
		s.Values[m.Name()] = aggregateValue(records, m)
	}
	return s
}

// aggregateValue computes SUM, COUNT, AVG, MIN or MAX of a column over
// records. Absent values are skipped; present non-numeric values count as 0.
func aggregateValue[R Fielder](records []R, m Measure) float64 {
	fn := strings.ToUpper(m.Func)
	var sum, lo, hi float64
	count := 0

	for _, rec := range records {
		raw, ok := rec.Field(m.Column)
		if isMissing(raw, ok) {
			continue
		}
		v := extractFloat(raw)
		if count == 0 {
			lo, hi = v, v
		}
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
		sum += v
		count++
	}

	switch fn {
	case "COUNT":
		return float64(count)
	case "AVG":
		if count > 0 {
			return sum / float64(count)
		}
		return 0
	case "MIN":
		return lo
	case "MAX":
		return hi
	default:
		return sum
	}
}

// extractFloat coerces a field value to a number, 0 when it is not one.
func extractFloat(v interface{}) float64 {
	if f, ok := toFloat(v); ok {
		return f
	}
	switch val := v.(type) {
	case bool:
		if val {
			return 1
		}
		return 0
	case string:
		f, _ := parseFloat(val)
		return f
	default:
		f, _ := parseFloat(fmt.Sprintf("%v", val))
		return f
	}
}

func parseFloat(s string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
