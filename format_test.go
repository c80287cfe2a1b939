package dashgrid

import (
	"testing"
	"time"
)

func TestFormatValue(t *testing.T) {
	tests := []struct {
		name   string
		in     interface{}
		format Format
		want   string
	}{
		{"currency", 1234.5, FormatCurrency, "$1,234.50"},
		{"currency negative", -5, FormatCurrency, "-$5.00"},
		{"currency numeric string", "42", FormatCurrency, "$42.00"},
		{"percentage fraction", 0.256, FormatPercentage, "25.6%"},
		{"percentage zero", 0, FormatPercentage, "0.0%"},
		{"number int", 1234567, FormatNumber, "1,234,567"},
		{"number whole float", 2500.0, FormatNumber, "2,500"},
		{"date time", time.Date(2024, time.March, 5, 10, 0, 0, 0, time.UTC), FormatDate, "3/5/2024"},
		{"date string", "2024-03-05", FormatDate, "3/5/2024"},
		{"malformed date", "soon", FormatDate, "soon"},
		{"text", "hello", FormatText, "hello"},
		{"text bool", true, FormatText, "true"},
		{"non numeric currency", "n/a", FormatCurrency, "n/a"},
		{"nil", nil, FormatCurrency, "-"},
		{"blank", "  ", FormatText, "-"},
	}
	for _, tt := range tests {
		if got := FormatValue(tt.in, tt.format); got != tt.want {
			t.Errorf("%s: expected %q, got %q", tt.name, tt.want, got)
		}
	}
}

func TestFormatterOptions(t *testing.T) {
	f := NewFormatter(FormatOptions{Locale: "hu", CurrencySymbol: "€", Placeholder: "n/a"})

	if got := f.Format(nil, FormatText); got != "n/a" {
		t.Errorf("Expected custom placeholder, got %q", got)
	}
	if got := f.Format("2024-03-05", FormatDate); got != "2024. 03. 05." {
		t.Errorf("Expected Hungarian date, got %q", got)
	}

	f = NewFormatter(FormatOptions{Locale: "not a locale", DateLayout: "2006-01-02"})
	if got := f.Format(time.Date(2024, 1, 9, 0, 0, 0, 0, time.UTC), FormatDate); got != "2024-01-09" {
		t.Errorf("Expected explicit layout, got %q", got)
	}
}

func TestFormatRow(t *testing.T) {
	cols := []ColumnDescriptor{
		{Key: "title", Format: FormatText},
		{Key: "revenue", Format: FormatCurrency},
		{Key: "due", Format: FormatDate},
	}
	cells := defaultFormatter.FormatRow(Record{"title": "Q1", "revenue": 10}, cols)

	want := map[string]string{"title": "Q1", "revenue": "$10.00", "due": "-"}
	for k, v := range want {
		if cells[k] != v {
			t.Errorf("cell %s: expected %q, got %q", k, v, cells[k])
		}
	}
}
