package render

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FormatAmount renders a monetary value with two decimals, a decimal comma
// and the trailing currency symbol, e.g. "125,00 €". The convention is
// fixed, not configurable.
func FormatAmount(d decimal.Decimal) string {
	return strings.Replace(d.StringFixed(2), ".", ",", 1) + " €"
}
