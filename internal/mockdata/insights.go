package mockdata

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/gnemet/dashgrid"
)

// Insight is one AI-generated observation shown in the insight list
type Insight struct {
	ID         string
	Title      string
	Category   string
	Impact     string // uses the priority scale
	Metric     string
	Change     float64 // fraction, may be negative
	Confidence float64 // fraction in [0,1]
	CreatedAt  time.Time
}

// InsightColumns describes the insight list widget
var InsightColumns = []dashgrid.ColumnDescriptor{
	{Key: "title", Label: "Insight", Sortable: true, Filterable: true, Format: dashgrid.FormatText, Width: "40%"},
	{Key: "category", Label: "Category", Sortable: true, Filterable: true, Format: dashgrid.FormatText},
	{Key: "impact", Label: "Impact", Sortable: true, Filterable: true, Format: dashgrid.FormatText, Ranking: dashgrid.PriorityRanking},
	{Key: "metric", Label: "Metric", Filterable: true, Format: dashgrid.FormatText},
	{Key: "change", Label: "Change", Sortable: true, Format: dashgrid.FormatPercentage},
	{Key: "confidence", Label: "Confidence", Sortable: true, Format: dashgrid.FormatPercentage},
	{Key: "created_at", Label: "Created", Sortable: true, Format: dashgrid.FormatDate},
}

// Field implements dashgrid.Fielder
func (in Insight) Field(key string) (interface{}, bool) {
	switch key {
	case "id":
		return in.ID, true
	case "title":
		return in.Title, true
	case "category":
		return in.Category, in.Category != ""
	case "impact":
		return in.Impact, true
	case "metric":
		return in.Metric, true
	case "change":
		return in.Change, true
	case "confidence":
		return in.Confidence, true
	case "created_at":
		return in.CreatedAt, true
	}
	return nil, false
}

var (
	insightCategories = []string{"revenue", "engagement", "operations", "risk", ""}
	insightMetrics    = []string{"revenue", "orders", "conversion", "cycle time", "churn"}
	insightTemplates  = []string{
		"Unusual shift in %s",
		"%s trending against forecast",
		"Weekly %s anomaly detected",
	}
)

// Insights generates n insights created over the days after start.
func Insights(n int, start time.Time, seed int64) []Insight {
	r := rand.New(rand.NewSource(seed))
	out := make([]Insight, 0, n)
	for i := 0; i < n; i++ {
		metric := pick(r, insightMetrics)
		out = append(out, Insight{
			ID:         newID(r),
			Title:      fmt.Sprintf(pick(r, insightTemplates), metric),
			Category:   pick(r, insightCategories),
			Impact:     pick(r, dashgrid.PriorityRanking),
			Metric:     metric,
			Change:     math.Round((r.Float64()-0.5)*0.6*1000) / 1000,
			Confidence: math.Round((0.5+r.Float64()*0.5)*100) / 100,
			CreatedAt:  start.Add(time.Duration(r.Intn(30*24)) * time.Hour),
		})
	}
	return out
}
