package dashgrid

import (
	"cmp"
	"slices"
	"strings"
	"time"
)

// Ranking lists a finite value domain from lowest to highest rank.
// Matching is case-insensitive.
type Ranking []string

var (
	// PriorityRanking orders task priorities, low < medium < high < critical.
	PriorityRanking = Ranking{"low", "medium", "high", "critical"}
	// WorkflowRanking orders workflow stages in the order work moves through them.
	WorkflowRanking = Ranking{"todo", "in-progress", "review", "done"}
)

// Rank returns the position of v in the ranking.
func (r Ranking) Rank(v string) (int, bool) {
	v = strings.ToLower(strings.TrimSpace(v))
	for i, level := range r {
		if strings.ToLower(level) == v {
			return i, true
		}
	}
	return 0, false
}

// ApplySort orders records by key. With SortNone or an empty key the input
// order is kept. Records without the field always sort last, whatever the
// direction. With a ranking, values outside it follow every ranked value in
// lexicographic order whatever the direction, as RankComparator orders
// groups. Equal keys keep their input order.
func ApplySort[R Fielder](records []R, key string, dir SortDirection, ranking Ranking) []R {
	out := slices.Clone(records)
	if out == nil {
		out = []R{}
	}
	if key == "" || (dir != SortAsc && dir != SortDesc) {
		return out
	}

	slices.SortStableFunc(out, func(a, b R) int {
		av, aok := a.Field(key)
		bv, bok := b.Field(key)
		aMissing, bMissing := isMissing(av, aok), isMissing(bv, bok)
		switch {
		case aMissing && bMissing:
			return 0
		case aMissing:
			return 1
		case bMissing:
			return -1
		}

		if len(ranking) > 0 {
			_, aRanked := ranking.Rank(Stringify(av))
			_, bRanked := ranking.Rank(Stringify(bv))
			switch {
			case aRanked && !bRanked:
				return -1
			case !aRanked && bRanked:
				return 1
			case !aRanked && !bRanked:
				return strings.Compare(Stringify(av), Stringify(bv))
			}
		}

		c := CompareValues(av, bv, ranking)
		if dir == SortDesc {
			return -c
		}
		return c
	})
	return out
}

// CompareValues orders two present values. With a ranking, ranked values
// compare by rank and precede unranked ones, and two unranked values compare
// as strings, matching RankComparator. Without one, numbers compare
// numerically and dates chronologically. Anything else, including mixed
// types, falls back to case-sensitive string comparison.
func CompareValues(a, b interface{}, ranking Ranking) int {
	if len(ranking) > 0 {
		sa, sb := Stringify(a), Stringify(b)
		ra, aok := ranking.Rank(sa)
		rb, bok := ranking.Rank(sb)
		switch {
		case aok && bok:
			return cmp.Compare(ra, rb)
		case aok:
			return -1
		case bok:
			return 1
		default:
			return strings.Compare(sa, sb)
		}
	}

	if fa, ok := toFloat(a); ok {
		if fb, ok := toFloat(b); ok {
			return cmp.Compare(fa, fb)
		}
	}

	if ta, ok := toTime(a); ok {
		if tb, ok := toTime(b); ok {
			return ta.Compare(tb)
		}
	}

	return strings.Compare(Stringify(a), Stringify(b))
}

func isMissing(v interface{}, ok bool) bool {
	if !ok || v == nil {
		return true
	}
	if s, isStr := v.(string); isStr {
		return strings.TrimSpace(s) == ""
	}
	switch t := v.(type) {
	case time.Time:
		return t.IsZero()
	case *time.Time:
		return t == nil || t.IsZero()
	}
	return false
}

// toFloat converts numeric Go values. Numeric-looking strings are left to the
// string comparison.
func toFloat(v interface{}) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, true
	case float32:
		return float64(val), true
	case int:
		return float64(val), true
	case int8:
		return float64(val), true
	case int16:
		return float64(val), true
	case int32:
		return float64(val), true
	case int64:
		return float64(val), true
	case uint:
		return float64(val), true
	case uint8:
		return float64(val), true
	case uint16:
		return float64(val), true
	case uint32:
		return float64(val), true
	case uint64:
		return float64(val), true
	default:
		return 0, false
	}
}

var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"Jan 2, 2006",
}

// toTime accepts time values and strings in one of the common date layouts.
func toTime(v interface{}) (time.Time, bool) {
	switch val := v.(type) {
	case time.Time:
		return val, true
	case *time.Time:
		if val == nil {
			return time.Time{}, false
		}
		return *val, true
	case string:
		return ParseDate(val)
	default:
		return time.Time{}, false
	}
}

// ParseDate tries each supported layout in turn.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
