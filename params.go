package dashgrid

import (
	"net/url"
	"strconv"
	"strings"
)

// Defaults seeds a Query when the request leaves a parameter out
type Defaults struct {
	PageSize       int               `json:"page_size" yaml:"page_size"`
	SortColumn     string            `json:"sort_column" yaml:"sort_column"`
	SortDirection  string            `json:"sort_direction" yaml:"sort_direction"`
	GroupBy        string            `json:"group_by" yaml:"group_by"`
	GroupOrderDesc bool              `json:"group_order_desc" yaml:"group_order_desc"`
	Filters        map[string]string `json:"filters" yaml:"filters"`
	Search         string            `json:"search" yaml:"search"`
}

// reserved parameters never become column filters
var reserved = map[string]bool{
	"search": true, "sort": true, "group": true, "page": true, "page_size": true,
	"limit": true, "offset": true, "session": true, "toggle": true, "config": true, "_": true,
}

// ParseParams builds a Query from request parameters:
//
//	search=text  sort=field:dir  group=field  page=2  page_size=25  <column>=filter
//
// Only filterable columns become filters and only known columns can be sorted.
// limit/offset are accepted as an alternative to page/page_size.
func ParseParams(q url.Values, columns []ColumnDescriptor, d Defaults) Query {
	query := Query{
		Search:  d.Search,
		GroupBy: d.GroupBy,
		Filters: make(map[string]string),
	}
	if q.Has("search") {
		query.Search = q.Get("search")
	}
	if q.Has("group") {
		query.GroupBy = q.Get("group")
	}

	for key, val := range d.Filters {
		query.Filters[key] = val
	}
	for key, values := range q {
		if reserved[key] || len(values) == 0 {
			continue
		}
		if c, ok := Column(columns, key); ok && c.Filterable {
			query.Filters[key] = values[0]
		}
	}

	query.Sort = parseSort(q["sort"], columns)
	if query.Sort == nil && d.SortColumn != "" {
		query.Sort = &SortSpec{Key: d.SortColumn, Direction: ParseSortDirection(d.SortDirection)}
	}

	size := d.PageSize
	if size <= 0 {
		size = 10
	}
	if v, ok := atoi(q.Get("page_size")); ok {
		size = v
	} else if v, ok := atoi(q.Get("limit")); ok {
		size = v
	}

	page := 1
	if v, ok := atoi(q.Get("page")); ok {
		page = v
	} else if v, ok := atoi(q.Get("offset")); ok && size > 0 {
		page = v/size + 1
	}
	query.Page = &PageRequest{Number: page, Size: size}

	return query
}

// parseSort takes the first valid "field:dir" entry. Entries may also be
// comma separated within one parameter.
func parseSort(sorts []string, columns []ColumnDescriptor) *SortSpec {
	var all []string
	for _, s := range sorts {
		all = append(all, strings.Split(s, ",")...)
	}

	for _, s := range all {
		parts := strings.Split(strings.TrimSpace(s), ":")
		if len(parts) != 2 {
			continue
		}
		c, ok := Column(columns, parts[0])
		if !ok || !c.Sortable {
			continue
		}
		return &SortSpec{Key: c.Key, Direction: ParseSortDirection(parts[1])}
	}
	return nil
}

func atoi(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, false
	}
	return n, true
}
