package report

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/inkline-labs/tabreport/internal/summary"
)

// printer formats numbers with grouped thousands. English grouping is
// used for all outputs so the same input renders the same bytes
// everywhere.
var printer = message.NewPrinter(language.English)

// FormatMeasure renders an aggregated value for display. Currency
// measures get a dollar sign and two decimals; whole numbers drop the
// fraction.
func FormatMeasure(m summary.Measure, v float64) string {
	if m.Currency {
		return printer.Sprintf("$%.2f", v)
	}
	if v == math.Trunc(v) {
		return printer.Sprintf("%d", int64(v))
	}
	return printer.Sprintf("%.2f", v)
}

// FormatFloat renders a statistic value with two decimals.
func FormatFloat(v float64) string {
	return printer.Sprintf("%.2f", v)
}
