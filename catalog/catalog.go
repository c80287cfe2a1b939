// Package catalog loads widget definitions (columns, defaults, group order
// tables, measures) from YAML and validates them against a JSON schema.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gnemet/dashgrid"
	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

//go:embed schema.json
var schemaJSON string

var (
	ErrUnknownWidget  = errors.New("unknown widget")
	ErrUnknownRanking = errors.New("unknown ranking")
)

// SchemaError lists every schema violation of a catalog document
type SchemaError struct {
	Source string
	Errors []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s does not match the catalog schema: %s", e.Source, strings.Join(e.Errors, "; "))
}

// Catalog is the set of widgets a dashboard can render
type Catalog struct {
	Version  string              `yaml:"version"`
	Title    string              `yaml:"title"`
	Rankings map[string][]string `yaml:"rankings"`
	Widgets  []Widget            `yaml:"widgets"`
}

// Widget is one table, task list, kanban board or insight list
type Widget struct {
	Name     string             `yaml:"name"`
	Title    string             `yaml:"title"`
	Kind     string             `yaml:"kind"`
	KeyField string             `yaml:"key_field"`
	Columns  []ColumnDef        `yaml:"columns"`
	Defaults dashgrid.Defaults  `yaml:"defaults"`
	Measures []dashgrid.Measure `yaml:"measures"`
}

// ColumnDef is the catalog form of a column descriptor
type ColumnDef struct {
	Key        string            `yaml:"key"`
	Label      string            `yaml:"label"`
	Labels     map[string]string `yaml:"labels"`
	Sortable   bool              `yaml:"sortable"`
	Filterable bool              `yaml:"filterable"`
	Format     string            `yaml:"format"`
	Width      string            `yaml:"width"`
	Ranking    string            `yaml:"ranking"`
}

// builtinRankings can be referenced by name without declaring them
var builtinRankings = map[string]dashgrid.Ranking{
	"priority": dashgrid.PriorityRanking,
	"workflow": dashgrid.WorkflowRanking,
}

// Load reads and validates a catalog file
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return parse(data, filepath.Base(path))
}

// Parse validates and decodes catalog YAML
func Parse(data []byte) (*Catalog, error) {
	return parse(data, "catalog")
}

func parse(data []byte, source string) (*Catalog, error) {
	if err := validate(gojsonschema.NewStringLoader(schemaJSON), data, source); err != nil {
		return nil, err
	}

	var cat Catalog
	if err := yaml.Unmarshal(data, &cat); err != nil {
		return nil, fmt.Errorf("decode %s: %w", source, err)
	}

	seen := make(map[string]bool, len(cat.Widgets))
	for _, w := range cat.Widgets {
		if seen[w.Name] {
			return nil, fmt.Errorf("%s: duplicate widget %q", source, w.Name)
		}
		seen[w.Name] = true
		if _, err := cat.Descriptors(w, "en"); err != nil {
			return nil, fmt.Errorf("%s: widget %q: %w", source, w.Name, err)
		}
	}
	return &cat, nil
}

// ValidateWithSchema checks a catalog file against a schema file on disk,
// the way the validate command does for catalogs under review.
func ValidateWithSchema(schemaPath, catalogPath string) error {
	abs, err := filepath.Abs(schemaPath)
	if err != nil {
		return fmt.Errorf("invalid schema path: %w", err)
	}
	data, err := os.ReadFile(catalogPath)
	if err != nil {
		return err
	}
	return validate(gojsonschema.NewReferenceLoader("file://"+abs), data, filepath.Base(catalogPath))
}

// Validate checks a catalog file against the embedded schema
func Validate(catalogPath string) error {
	data, err := os.ReadFile(catalogPath)
	if err != nil {
		return err
	}
	return validate(gojsonschema.NewStringLoader(schemaJSON), data, filepath.Base(catalogPath))
}

func validate(schema gojsonschema.JSONLoader, data []byte, source string) error {
	var doc interface{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("decode %s: %w", source, err)
	}

	result, err := gojsonschema.Validate(schema, gojsonschema.NewGoLoader(doc))
	if err != nil {
		return fmt.Errorf("validate %s: %w", source, err)
	}
	if result.Valid() {
		return nil
	}

	schemaErr := &SchemaError{Source: source}
	for _, desc := range result.Errors() {
		schemaErr.Errors = append(schemaErr.Errors, desc.String())
	}
	return schemaErr
}

// Widget finds a widget by name
func (c *Catalog) Widget(name string) (Widget, error) {
	for _, w := range c.Widgets {
		if w.Name == name {
			return w, nil
		}
	}
	return Widget{}, fmt.Errorf("%w: %s", ErrUnknownWidget, name)
}

// Ranking resolves a ranking declared in the catalog or a built-in one
func (c *Catalog) Ranking(name string) (dashgrid.Ranking, error) {
	if levels, ok := c.Rankings[name]; ok {
		return dashgrid.Ranking(levels), nil
	}
	if r, ok := builtinRankings[name]; ok {
		return r, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownRanking, name)
}

// Descriptors converts a widget's columns for the engine, picking labels
// for lang with English as fallback.
func (c *Catalog) Descriptors(w Widget, lang string) ([]dashgrid.ColumnDescriptor, error) {
	cols := make([]dashgrid.ColumnDescriptor, 0, len(w.Columns))
	for _, def := range w.Columns {
		col := dashgrid.ColumnDescriptor{
			Key:        def.Key,
			Label:      def.label(lang),
			Sortable:   def.Sortable,
			Filterable: def.Filterable,
			Format:     dashgrid.Format(def.Format),
			Width:      def.Width,
		}
		if col.Format == "" {
			col.Format = dashgrid.FormatText
		}
		if def.Ranking != "" {
			r, err := c.Ranking(def.Ranking)
			if err != nil {
				return nil, fmt.Errorf("column %s: %w", def.Key, err)
			}
			col.Ranking = r
		}
		cols = append(cols, col)
	}
	return cols, nil
}

func (d ColumnDef) label(lang string) string {
	if l, ok := d.Labels[lang]; ok {
		return l
	}
	if l, ok := d.Labels["en"]; ok {
		return l
	}
	if d.Label != "" {
		return d.Label
	}
	return d.Key
}

// Query builds the initial query for a widget from its defaults.
func (c *Catalog) Query(w Widget, cols []dashgrid.ColumnDescriptor) dashgrid.Query {
	q := dashgrid.ParseParams(nil, cols, w.Defaults)
	q.Measures = w.Measures
	if q.GroupBy != "" {
		if col, ok := dashgrid.Column(cols, q.GroupBy); ok && col.Ranking != nil {
			q.GroupOrder = dashgrid.RankComparator(col.Ranking, w.Defaults.GroupOrderDesc)
		}
	}
	return q
}
