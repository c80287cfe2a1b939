package dashgrid

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ApplySearch keeps records where any column's value contains term,
// case-insensitively. A blank term matches everything.
func ApplySearch[R Fielder](records []R, term string, columns []ColumnDescriptor) []R {
	needle := strings.ToLower(strings.TrimSpace(term))
	out := make([]R, 0, len(records))
	if needle == "" {
		return append(out, records...)
	}

	for _, rec := range records {
		for _, c := range columns {
			v, _ := rec.Field(c.Key)
			if strings.Contains(strings.ToLower(Stringify(v)), needle) {
				out = append(out, rec)
				break
			}
		}
	}
	return out
}

// ApplyColumnFilters keeps records matching every non-empty filter.
// Each filter is a case-insensitive substring test against the field value.
func ApplyColumnFilters[R Fielder](records []R, filters map[string]string) []R {
	active := make(map[string]string, len(filters))
	for key, val := range filters {
		if val = strings.TrimSpace(val); val != "" {
			active[key] = strings.ToLower(val)
		}
	}

	out := make([]R, 0, len(records))
	for _, rec := range records {
		if matchesAll(rec, active) {
			out = append(out, rec)
		}
	}
	return out
}

func matchesAll[R Fielder](rec R, active map[string]string) bool {
	for key, needle := range active {
		v, _ := rec.Field(key)
		if !strings.Contains(strings.ToLower(Stringify(v)), needle) {
			return false
		}
	}
	return true
}

// Stringify renders a field value for matching and grouping.
// Absent and nil values become the empty string.
func Stringify(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case []byte:
		return string(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case bool:
		return strconv.FormatBool(val)
	case time.Time:
		if val.IsZero() {
			return ""
		}
		return val.Format(time.RFC3339)
	case *time.Time:
		if val == nil {
			return ""
		}
		return Stringify(*val)
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprintf("%v", val)
	}
}
