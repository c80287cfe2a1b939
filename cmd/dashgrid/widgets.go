package main

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/gnemet/dashgrid"
	"github.com/gnemet/dashgrid/catalog"
	"github.com/gnemet/dashgrid/internal/metrics"
	"github.com/gnemet/dashgrid/internal/mockdata"
	"github.com/gnemet/dashgrid/registry"
)

// widget is a dashgrid.Handler of any record type
type widget interface {
	http.Handler
	Run(ctx context.Context, q dashgrid.Query) (*dashgrid.TableResult, error)
}

type app struct {
	catalog *catalog.Catalog
	widgets map[string]widget
	tools   *registry.Registry
	metrics *metrics.Metrics // nil outside serve
}

// newApp loads the catalog, generates the mock dataset and builds one
// handler per widget. sessions may be nil.
func newApp(sessions dashgrid.SessionStore) (*app, error) {
	cat, err := catalog.Load(cfg.Catalog.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog %s: %w", cfg.Catalog.Path, err)
	}

	ds := mockdata.Generate(mockdata.Options{
		Seed:     cfg.Data.Seed,
		Tasks:    cfg.Data.Tasks,
		Days:     cfg.Data.Days,
		Insights: cfg.Data.Insights,
		Start:    time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
	})
	formatter := dashgrid.NewFormatter(cfg.Locale)

	a := &app{
		catalog: cat,
		widgets: make(map[string]widget, len(cat.Widgets)),
		tools:   registry.New(logger),
	}
	for _, w := range cat.Widgets {
		cols, err := cat.Descriptors(w, cfg.Catalog.Lang)
		if err != nil {
			return nil, fmt.Errorf("widget %s: %w", w.Name, err)
		}

		var h widget
		switch w.Kind {
		case "tasks", "kanban":
			h = newHandler(w, cols, ds.Tasks, formatter, sessions)
		case "revenue", "table":
			h = newHandler(w, cols, ds.Revenue, formatter, sessions)
		case "insights":
			h = newHandler(w, cols, ds.Insights, formatter, sessions)
		default:
			return nil, fmt.Errorf("widget %s: unsupported kind %q", w.Name, w.Kind)
		}
		a.widgets[w.Name] = h

		run := h.Run
		err = registry.RegisterQuery(a.tools, w.Name, w.Title, cols, func(ctx context.Context, q dashgrid.Query) (interface{}, error) {
			return run(ctx, q)
		})
		if err != nil {
			return nil, err
		}
	}

	logger.Info("Catalog loaded", "path", cfg.Catalog.Path, "widgets", len(a.widgets), "tasks", len(ds.Tasks), "revenue_rows", len(ds.Revenue), "insights", len(ds.Insights))
	return a, nil
}

func newHandler[R dashgrid.Fielder](w catalog.Widget, cols []dashgrid.ColumnDescriptor, records []R, f *dashgrid.Formatter, sessions dashgrid.SessionStore) *dashgrid.Handler[R] {
	return &dashgrid.Handler[R]{
		Name:      w.Name,
		Title:     w.Title,
		KeyField:  w.KeyField,
		Columns:   cols,
		Defaults:  w.Defaults,
		Measures:  w.Measures,
		Source:    func(context.Context) ([]R, error) { return records, nil },
		Formatter: f,
		Sessions:  sessions,
		Logger:    logger,
	}
}

func (a *app) widget(name string) (widget, error) {
	h, ok := a.widgets[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", catalog.ErrUnknownWidget, name)
	}
	return h, nil
}

func (a *app) names() []string {
	names := make([]string, 0, len(a.widgets))
	for name := range a.widgets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
