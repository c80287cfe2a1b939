package dashgrid

import (
	"slices"
	"strings"
)

const (
	// DefaultGroupLabel labels the single bucket of an ungrouped query
	DefaultGroupLabel = "All"
	// FallbackGroupLabel collects records whose group field is absent or empty
	FallbackGroupLabel = "Uncategorized"
)

// Group is one labeled bucket of records, in the order they were sorted
type Group[R Fielder] struct {
	Label   string
	Records []R
}

// GroupOptions overrides the bucket labels
type GroupOptions struct {
	DefaultLabel  string
	FallbackLabel string
}

// GroupBy partitions records by the stringified value of key. Buckets appear
// in first-occurrence order. With an empty key or "none" a single bucket
// holds every record.
func GroupBy[R Fielder](records []R, key string, opts GroupOptions) []Group[R] {
	defaultLabel := opts.DefaultLabel
	if defaultLabel == "" {
		defaultLabel = DefaultGroupLabel
	}
	fallback := opts.FallbackLabel
	if fallback == "" {
		fallback = FallbackGroupLabel
	}

	if key == "" || key == GroupNone {
		return []Group[R]{{Label: defaultLabel, Records: slices.Clone(records)}}
	}

	index := make(map[string]int)
	groups := []Group[R]{}
	for _, rec := range records {
		v, _ := rec.Field(key)
		label := strings.TrimSpace(Stringify(v))
		if label == "" {
			label = fallback
		}
		i, ok := index[label]
		if !ok {
			i = len(groups)
			index[label] = i
			groups = append(groups, Group[R]{Label: label})
		}
		groups[i].Records = append(groups[i].Records, rec)
	}
	return groups
}

// KeyComparator orders group labels
type KeyComparator func(a, b string) int

// RankComparator orders labels by their rank; descending puts the highest
// rank first. Labels outside the ranking follow every ranked label and are
// ordered lexicographically among themselves.
func RankComparator(r Ranking, descending bool) KeyComparator {
	return func(a, b string) int {
		ra, aok := r.Rank(a)
		rb, bok := r.Rank(b)
		switch {
		case aok && bok:
			if descending {
				return rb - ra
			}
			return ra - rb
		case aok:
			return -1
		case bok:
			return 1
		default:
			return strings.Compare(a, b)
		}
	}
}

// OrderGroupKeys returns keys sorted by cmp. A nil comparator sorts
// lexicographically.
func OrderGroupKeys(keys []string, cmp KeyComparator) []string {
	out := slices.Clone(keys)
	if cmp == nil {
		cmp = strings.Compare
	}
	slices.SortStableFunc(out, func(a, b string) int { return cmp(a, b) })
	return out
}

// SortGroups reorders buckets by label; the records inside each bucket keep
// their order.
func SortGroups[R Fielder](groups []Group[R], cmp KeyComparator) []Group[R] {
	out := slices.Clone(groups)
	if cmp == nil {
		cmp = strings.Compare
	}
	slices.SortStableFunc(out, func(a, b Group[R]) int {
		return cmp(a.Label, b.Label)
	})
	return out
}

// FlattenGroups concatenates the buckets in order.
func FlattenGroups[R Fielder](groups []Group[R]) []R {
	n := 0
	for _, g := range groups {
		n += len(g.Records)
	}
	flat := make([]R, 0, n)
	for _, g := range groups {
		flat = append(flat, g.Records...)
	}
	return flat
}

// Labels lists the bucket labels in order.
func Labels[R Fielder](groups []Group[R]) []string {
	labels := make([]string, len(groups))
	for i, g := range groups {
		labels[i] = g.Label
	}
	return labels
}
