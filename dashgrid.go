// Package dashgrid derives filtered, sorted, grouped and paginated views
// over in-memory record sets for dashboard widgets.
//
// Every widget (data table, task list, kanban board, insight list) is an
// instantiation of the same pipeline with different column descriptors:
//
//	view, err := dashgrid.DeriveView(tasks, columns, dashgrid.Query{
//	    Sort:  &dashgrid.SortSpec{Key: "priority", Direction: dashgrid.SortDesc},
//	    Page:  &dashgrid.PageRequest{Number: 1, Size: 10},
//	})
//
// The engine never mutates its inputs; every view is built from new slices.
package dashgrid

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidPageSize is returned when a page window has a non-positive size.
var ErrInvalidPageSize = errors.New("page size must be positive")

// Fielder is implemented by any record the engine can query.
// The boolean reports whether the field is present on the record.
type Fielder interface {
	Field(key string) (interface{}, bool)
}

// Record is the untyped form of a row: field name to scalar value.
type Record map[string]interface{}

// Field implements Fielder
func (r Record) Field(key string) (interface{}, bool) {
	v, ok := r[key]
	return v, ok
}

// Format selects how a column value is displayed
type Format string

const (
	FormatText       Format = "text"
	FormatNumber     Format = "number"
	FormatCurrency   Format = "currency"
	FormatPercentage Format = "percentage"
	FormatDate       Format = "date"
)

// ColumnDescriptor describes one displayable field of a record
type ColumnDescriptor struct {
	Key        string  `json:"key" yaml:"key"`
	Label      string  `json:"label" yaml:"label"`
	Sortable   bool    `json:"sortable" yaml:"sortable"`
	Filterable bool    `json:"filterable" yaml:"filterable"`
	Format     Format  `json:"format" yaml:"format"`
	Width      string  `json:"width,omitempty" yaml:"width"` // display hint only
	Ranking    Ranking `json:"ranking,omitempty" yaml:"-"`   // optional value domain for sort and group order
}

// SortDirection is one state of the three-state column sort toggle
type SortDirection string

const (
	SortNone SortDirection = "none"
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// ParseSortDirection accepts asc/desc/none in any case, plus the long forms.
// Anything else maps to SortNone.
func ParseSortDirection(s string) SortDirection {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "asc", "ascending":
		return SortAsc
	case "desc", "descending":
		return SortDesc
	default:
		return SortNone
	}
}

// Next returns the following toggle state: asc -> desc -> none -> asc.
func (d SortDirection) Next() SortDirection {
	switch d {
	case SortAsc:
		return SortDesc
	case SortDesc:
		return SortNone
	default:
		return SortAsc
	}
}

// SortSpec names the sort column and direction
type SortSpec struct {
	Key       string        `json:"key"`
	Direction SortDirection `json:"direction"`
}

// PageRequest is a 1-indexed pagination window
type PageRequest struct {
	Number int `json:"page"`
	Size   int `json:"page_size"`
}

// GroupNone disables grouping when used as a group key
const GroupNone = "none"

// Query is the caller-owned state a view is derived from
type Query struct {
	Search  string            `json:"search"`
	Filters map[string]string `json:"filters,omitempty"`
	Sort    *SortSpec         `json:"sort,omitempty"`
	GroupBy string            `json:"group_by,omitempty"`
	Page    *PageRequest      `json:"page,omitempty"`

	// Presentation knobs, all optional
	GroupOrder    KeyComparator `json:"-"`
	DefaultGroup  string        `json:"-"`
	FallbackGroup string        `json:"-"`
	Measures      []Measure     `json:"measures,omitempty"`
}

// DerivedView is the result of running a Query over a record set
type DerivedView[R Fielder] struct {
	Rows         []R
	Groups       []Group[R] // nil when the query is not grouped
	Summaries    map[string]Summary
	TotalMatched int
	TotalSource  int
	TotalPages   int
	Page         int
	PageSize     int
}

// DeriveView runs search, column filters, sort, grouping and pagination in
// that order. Pagination only windows the already ordered output.
func DeriveView[R Fielder](records []R, columns []ColumnDescriptor, q Query) (*DerivedView[R], error) {
	if q.Page != nil && q.Page.Size <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidPageSize, q.Page.Size)
	}

	matched := ApplySearch(records, q.Search, columns)
	matched = ApplyColumnFilters(matched, q.Filters)

	if q.Sort != nil {
		matched = ApplySort(matched, q.Sort.Key, q.Sort.Direction, rankingFor(columns, q.Sort.Key))
	}

	view := &DerivedView[R]{
		TotalMatched: len(matched),
		TotalSource:  len(records),
	}

	ordered := matched
	if q.GroupBy != "" && q.GroupBy != GroupNone {
		groups := GroupBy(matched, q.GroupBy, GroupOptions{
			DefaultLabel:  q.DefaultGroup,
			FallbackLabel: q.FallbackGroup,
		})
		cmp := q.GroupOrder
		if cmp == nil {
			if r := rankingFor(columns, q.GroupBy); r != nil {
				cmp = RankComparator(r, false)
			}
		}
		if cmp != nil {
			groups = SortGroups(groups, cmp)
		}
		view.Groups = groups
		ordered = FlattenGroups(groups)
	}

	if len(q.Measures) > 0 {
		view.Summaries = Summarize(view.Groups, matched, q.Measures)
	}

	if q.Page == nil {
		view.Rows = ordered
		view.PageSize = len(ordered)
		if len(ordered) > 0 {
			view.TotalPages = 1
			view.Page = 1
		}
		return view, nil
	}

	rows, totalPages, err := Paginate(ordered, q.Page.Number, q.Page.Size)
	if err != nil {
		return nil, err
	}
	view.Rows = rows
	view.TotalPages = totalPages
	view.Page = q.Page.Number
	view.PageSize = q.Page.Size
	return view, nil
}

// Column finds a descriptor by key
func Column(columns []ColumnDescriptor, key string) (ColumnDescriptor, bool) {
	for _, c := range columns {
		if c.Key == key {
			return c, true
		}
	}
	return ColumnDescriptor{}, false
}

func rankingFor(columns []ColumnDescriptor, key string) Ranking {
	if c, ok := Column(columns, key); ok {
		return c.Ranking
	}
	return nil
}
