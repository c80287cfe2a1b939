package dashgrid

import (
	"math"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Placeholder is shown for absent values
const Placeholder = "-"

// FormatOptions configures a Formatter. Zero values fall back to en-US.
type FormatOptions struct {
	Locale         string `yaml:"tag"`
	CurrencySymbol string `yaml:"currency_symbol"`
	DateLayout     string `yaml:"date_layout"`
	Placeholder    string `yaml:"placeholder"`
}

// Formatter renders values for display. It holds no state beyond its
// configuration and is safe for concurrent use.
type Formatter struct {
	printer     *message.Printer
	symbol      string
	dateLayout  string
	placeholder string
}

var localeDateLayouts = map[string]string{
	"en-US": "1/2/2006",
	"en-GB": "02/01/2006",
	"de":    "2.1.2006",
	"hu":    "2006. 01. 02.",
}

// NewFormatter builds a Formatter for the given options. An unparsable
// locale falls back to American English.
func NewFormatter(opts FormatOptions) *Formatter {
	tag, err := language.Parse(opts.Locale)
	if err != nil || opts.Locale == "" {
		tag = language.AmericanEnglish
	}

	layout := opts.DateLayout
	if layout == "" {
		layout = localeDateLayouts[tag.String()]
		if layout == "" {
			base, _ := tag.Base()
			layout = localeDateLayouts[base.String()]
		}
		if layout == "" {
			layout = localeDateLayouts["en-US"]
		}
	}

	f := &Formatter{
		printer:     message.NewPrinter(tag),
		symbol:      opts.CurrencySymbol,
		dateLayout:  layout,
		placeholder: opts.Placeholder,
	}
	if f.symbol == "" {
		f.symbol = "$"
	}
	if f.placeholder == "" {
		f.placeholder = Placeholder
	}
	return f
}

var defaultFormatter = NewFormatter(FormatOptions{})

// FormatValue formats v with the en-US formatter.
func FormatValue(v interface{}, format Format) string {
	return defaultFormatter.Format(v, format)
}

// Format renders v. Percentages are fractions: 0.256 displays as 25.6%.
// Values that do not fit the format are shown as text.
func (f *Formatter) Format(v interface{}, format Format) string {
	if isMissing(v, true) {
		return f.placeholder
	}

	switch format {
	case FormatCurrency:
		if n, ok := numeric(v); ok {
			sign := ""
			if n < 0 {
				sign = "-"
				n = -n
			}
			return sign + f.symbol + f.printer.Sprintf("%.2f", n)
		}
	case FormatPercentage:
		if n, ok := numeric(v); ok {
			return f.printer.Sprintf("%.1f", n*100) + "%"
		}
	case FormatNumber:
		if n, ok := numeric(v); ok {
			if n == math.Trunc(n) && math.Abs(n) < 1e15 {
				return f.printer.Sprintf("%d", int64(n))
			}
			return f.printer.Sprint(number.Decimal(n, number.MaxFractionDigits(3)))
		}
	case FormatDate:
		if t, ok := toTime(v); ok {
			return t.Format(f.dateLayout)
		}
	}
	return Stringify(v)
}

// FormatRow renders every column of rec keyed by column key.
func (f *Formatter) FormatRow(rec Fielder, columns []ColumnDescriptor) map[string]string {
	cells := make(map[string]string, len(columns))
	for _, c := range columns {
		v, ok := rec.Field(c.Key)
		if !ok {
			cells[c.Key] = f.placeholder
			continue
		}
		cells[c.Key] = f.Format(v, c.Format)
	}
	return cells
}

// numeric accepts Go numbers and numeric strings.
func numeric(v interface{}) (float64, bool) {
	if n, ok := toFloat(v); ok {
		return n, true
	}
	if s, ok := v.(string); ok {
		return parseFloat(strings.TrimSpace(s))
	}
	return 0, false
}
