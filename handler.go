package dashgrid

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
)

// SessionStore keeps the caller-owned query between requests
type SessionStore interface {
	Get(sid string) (Query, bool)
	Put(sid, widget string, q Query) error
	ToggleSort(sid, key string) (Query, error)
}

// RowResult is one rendered row
type RowResult struct {
	Key   string            `json:"key"`
	Cells map[string]string `json:"cells"`
}

// GroupResult describes one bucket of a grouped view
type GroupResult struct {
	Label string   `json:"label"`
	Count int      `json:"count"`
	Keys  []string `json:"keys"`
}

// TableResult contains the data a widget renders
type TableResult struct {
	Widget       string             `json:"widget"`
	Title        string             `json:"title,omitempty"`
	Rows         []RowResult        `json:"rows"`
	Groups       []GroupResult      `json:"groups,omitempty"`
	Summaries    map[string]Summary `json:"summaries,omitempty"`
	TotalMatched int                `json:"total_matched"`
	TotalSource  int                `json:"total_source"`
	TotalPages   int                `json:"total_pages"`
	Page         int                `json:"page"`
	PageSize     int                `json:"page_size"`
	Query        Query              `json:"query"`
	Columns      []ColumnDescriptor `json:"columns"`
}

// Handler serves one widget's derived view as JSON
type Handler[R Fielder] struct {
	Name      string
	Title     string
	KeyField  string
	Columns   []ColumnDescriptor
	Defaults  Defaults
	Measures  []Measure
	Source    func(ctx context.Context) ([]R, error)
	Formatter *Formatter
	Sessions  SessionStore
	Logger    *slog.Logger
}

func (h *Handler[R]) logger() *slog.Logger {
	if h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

func (h *Handler[R]) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()
	query, err := h.resolveQuery(params)
	if err != nil {
		h.logger().Warn("View session unavailable", "widget", h.Name, "error", err)
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	result, err := h.Run(r.Context(), query)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, ErrInvalidPageSize) {
			status = http.StatusBadRequest
		}
		h.logger().Error("Failed to derive view", "widget", h.Name, "error", err)
		http.Error(w, err.Error(), status)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(result); err != nil {
		h.logger().Error("Failed to encode view", "widget", h.Name, "error", err)
	}
}

// resolveQuery parses the request and reconciles it with the session. A
// request that only names its session replays the stored query.
func (h *Handler[R]) resolveQuery(params url.Values) (Query, error) {
	query := ParseParams(params, h.Columns, h.Defaults)
	sid := params.Get("session")
	if h.Sessions == nil || sid == "" {
		return query, nil
	}

	if stored, ok := h.Sessions.Get(sid); ok && !hasQueryParams(params) {
		query = stored
	}
	if err := h.Sessions.Put(sid, h.Name, query); err != nil {
		return query, err
	}

	if key := params.Get("toggle"); key != "" {
		if c, ok := Column(h.Columns, key); ok && c.Sortable {
			return h.Sessions.ToggleSort(sid, key)
		}
	}
	return query, nil
}

func hasQueryParams(params url.Values) bool {
	for key := range params {
		switch key {
		case "session", "toggle", "config", "_":
		default:
			return true
		}
	}
	return false
}

// Run derives the view for q and renders it.
func (h *Handler[R]) Run(ctx context.Context, q Query) (*TableResult, error) {
	records, err := h.Source(ctx)
	if err != nil {
		return nil, err
	}

	if q.GroupOrder == nil && q.GroupBy != "" {
		if r := rankingFor(h.Columns, q.GroupBy); r != nil {
			q.GroupOrder = RankComparator(r, h.Defaults.GroupOrderDesc)
		}
	}
	if len(q.Measures) == 0 {
		q.Measures = h.Measures
	}

	view, err := DeriveView(records, h.Columns, q)
	if err != nil {
		return nil, err
	}

	f := h.Formatter
	if f == nil {
		f = defaultFormatter
	}

	result := &TableResult{
		Widget:       h.Name,
		Title:        h.Title,
		Rows:         make([]RowResult, 0, len(view.Rows)),
		Summaries:    view.Summaries,
		TotalMatched: view.TotalMatched,
		TotalSource:  view.TotalSource,
		TotalPages:   view.TotalPages,
		Page:         view.Page,
		PageSize:     view.PageSize,
		Query:        q,
		Columns:      h.Columns,
	}
	for _, rec := range view.Rows {
		result.Rows = append(result.Rows, RowResult{
			Key:   h.keyOf(rec),
			Cells: f.FormatRow(rec, h.Columns),
		})
	}
	for _, g := range view.Groups {
		keys := make([]string, len(g.Records))
		for i, rec := range g.Records {
			keys[i] = h.keyOf(rec)
		}
		result.Groups = append(result.Groups, GroupResult{Label: g.Label, Count: len(g.Records), Keys: keys})
	}

	h.logger().Debug("Derived view", "widget", h.Name, "matched", view.TotalMatched, "source", view.TotalSource, "page", view.Page)
	return result, nil
}

func (h *Handler[R]) keyOf(rec R) string {
	if h.KeyField == "" {
		return ""
	}
	v, _ := rec.Field(h.KeyField)
	return Stringify(v)
}
