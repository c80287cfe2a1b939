package mockdata

import (
	"math"
	"math/rand"
	"time"

	"github.com/gnemet/dashgrid"
)

// RevenueDay is one day of sales for one channel
type RevenueDay struct {
	Date       time.Time
	Channel    string
	Revenue    float64
	Orders     int
	Conversion float64 // fraction in [0,1]
}

// RevenueColumns describes the revenue data table
var RevenueColumns = []dashgrid.ColumnDescriptor{
	{Key: "date", Label: "Date", Sortable: true, Filterable: true, Format: dashgrid.FormatDate},
	{Key: "channel", Label: "Channel", Sortable: true, Filterable: true, Format: dashgrid.FormatText},
	{Key: "revenue", Label: "Revenue", Sortable: true, Format: dashgrid.FormatCurrency},
	{Key: "orders", Label: "Orders", Sortable: true, Format: dashgrid.FormatNumber},
	{Key: "conversion", Label: "Conversion", Sortable: true, Format: dashgrid.FormatPercentage},
}

// Field implements dashgrid.Fielder
func (d RevenueDay) Field(key string) (interface{}, bool) {
	switch key {
	case "id":
		return d.Date.Format("2006-01-02") + "/" + d.Channel, true
	case "date":
		return d.Date, true
	case "channel":
		return d.Channel, true
	case "revenue":
		return d.Revenue, true
	case "orders":
		return d.Orders, true
	case "conversion":
		return d.Conversion, true
	}
	return nil, false
}

var channels = []string{"web", "mobile", "partner"}

// RevenueDays generates days*len(channels) rows with a weekly cycle.
func RevenueDays(days int, start time.Time, seed int64) []RevenueDay {
	r := rand.New(rand.NewSource(seed))
	out := make([]RevenueDay, 0, days*len(channels))
	for i := 0; i < days; i++ {
		day := start.AddDate(0, 0, i)
		weekly := 1 + 0.25*math.Sin(2*math.Pi*float64(i)/7)
		for j, ch := range channels {
			orders := int(float64(40+r.Intn(60)) * weekly / float64(j+1))
			avg := 35 + r.Float64()*40
			out = append(out, RevenueDay{
				Date:       day,
				Channel:    ch,
				Revenue:    round2(float64(orders) * avg),
				Orders:     orders,
				Conversion: math.Round((0.01+r.Float64()*0.05)*10000) / 10000,
			})
		}
	}
	return out
}
