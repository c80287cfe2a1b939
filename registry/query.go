package registry

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/gnemet/dashgrid"
)

// QueryRunner derives a widget view for a query
type QueryRunner func(ctx context.Context, q dashgrid.Query) (interface{}, error)

// QuerySchema builds the input schema of a widget query tool. Filter keys
// are limited to filterable columns and sort keys to sortable ones.
func QuerySchema(columns []dashgrid.ColumnDescriptor) json.RawMessage {
	filterProps := map[string]interface{}{}
	sortKeys := []string{}
	groupKeys := []string{dashgrid.GroupNone}
	for _, c := range columns {
		if c.Filterable {
			filterProps[c.Key] = map[string]interface{}{"type": "string"}
		}
		if c.Sortable {
			sortKeys = append(sortKeys, c.Key)
		}
		groupKeys = append(groupKeys, c.Key)
	}

	var sortKey interface{} = map[string]interface{}{"enum": sortKeys}
	if len(sortKeys) == 0 {
		sortKey = map[string]interface{}{"type": "string", "maxLength": 0}
	}

	schema := map[string]interface{}{
		"$schema":              "http://json-schema.org/draft-07/schema#",
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]interface{}{
			"search": map[string]interface{}{"type": "string"},
			"filters": map[string]interface{}{
				"type":                 "object",
				"properties":           filterProps,
				"additionalProperties": false,
			},
			"sort": map[string]interface{}{
				"type":                 "object",
				"required":             []string{"key"},
				"additionalProperties": false,
				"properties": map[string]interface{}{
					"key":       sortKey,
					"direction": map[string]interface{}{"enum": []string{"asc", "desc", "none"}},
				},
			},
			"group_by": map[string]interface{}{"enum": groupKeys},
			"page": map[string]interface{}{
				"type":                 "object",
				"required":             []string{"page", "page_size"},
				"additionalProperties": false,
				"properties": map[string]interface{}{
					"page":      map[string]interface{}{"type": "integer", "minimum": 1},
					"page_size": map[string]interface{}{"type": "integer", "minimum": 1},
				},
			},
		},
	}

	data, err := json.Marshal(schema)
	if err != nil {
		// only maps, strings and slices above
		panic(fmt.Sprintf("registry: marshal query schema: %v", err))
	}
	return data
}

// RegisterQuery registers "query_<widget>" running run on the decoded query.
func RegisterQuery(r *Registry, widget, title string, columns []dashgrid.ColumnDescriptor, run QueryRunner) error {
	desc := fmt.Sprintf("Search, filter, sort, group and page the %s widget", widget)
	if title != "" {
		desc = fmt.Sprintf("Search, filter, sort, group and page %s", title)
	}

	return r.Register("query_"+widget, desc, QuerySchema(columns), func(ctx context.Context, input json.RawMessage) (interface{}, error) {
		var q dashgrid.Query
		if err := json.Unmarshal(input, &q); err != nil {
			return nil, fmt.Errorf("decode query: %w", err)
		}
		if q.Sort != nil && q.Sort.Direction == "" {
			q.Sort.Direction = dashgrid.SortAsc
		}
		return run(ctx, q)
	})
}
