package dashgrid

import (
	"math"
	"testing"
)

func TestSummarize(t *testing.T) {
	records := []Record{
		{"status": "open", "amount": 10},
		{"status": "open", "amount": "5.5"},
		{"status": "open"},
		{"status": "closed", "amount": -2},
		{"status": "closed", "amount": nil},
	}
	measures := []Measure{
		{Column: "amount", Func: "sum"},
		{Column: "amount", Func: "AVG"},
		{Column: "amount", Func: "COUNT"},
		{Column: "amount", Func: "MIN"},
		{Column: "amount", Func: "MAX", Label: "Peak"},
	}

	got := Summarize(GroupBy(records, "status", GroupOptions{}), records, measures)

	tests := []struct {
		bucket, measure string
		want            float64
	}{
		{"open", "SUM(amount)", 15.5},
		{"open", "AVG(amount)", 7.75},
		{"open", "COUNT(amount)", 2},
		{"open", "MIN(amount)", 5.5},
		{"open", "Peak", 10},
		{"closed", "SUM(amount)", -2},
		{"closed", "MIN(amount)", -2},
		{GrandTotal, "SUM(amount)", 13.5},
		{GrandTotal, "COUNT(amount)", 3},
		{GrandTotal, "Peak", 10},
	}
	for _, tt := range tests {
		v, ok := got[tt.bucket].Values[tt.measure]
		if !ok {
			t.Errorf("%s: missing measure %s", tt.bucket, tt.measure)
			continue
		}
		if math.Abs(v-tt.want) > 1e-9 {
			t.Errorf("%s %s: expected %v, got %v", tt.bucket, tt.measure, tt.want, v)
		}
	}

	if got["open"].Count != 3 || got[GrandTotal].Count != 5 {
		t.Errorf("Expected record counts 3 and 5, got %d and %d", got["open"].Count, got[GrandTotal].Count)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	got := Summarize[Record](nil, nil, []Measure{{Column: "x", Func: "AVG"}})
	if got[GrandTotal].Count != 0 || got[GrandTotal].Values["AVG(x)"] != 0 {
		t.Errorf("Expected zero summary, got %+v", got[GrandTotal])
	}
}

func TestMeasureName(t *testing.T) {
	if got := (Measure{Column: "hours", Func: "avg"}).Name(); got != "AVG(hours)" {
		t.Errorf("Expected AVG(hours), got %s", got)
	}
	if got := (Measure{Column: "hours", Func: "avg", Label: "Mean"}).Name(); got != "Mean" {
		t.Errorf("Expected label, got %s", got)
	}
}
