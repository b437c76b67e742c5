package ledger

import "github.com/shopspring/decimal"

// Tolerance is the amount under which a balance is considered settled.
var Tolerance = decimal.RequireFromString("0.01")

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// Round rounds to cents, half away from zero.
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// Settled reports whether due is within Tolerance of zero.
func Settled(due decimal.Decimal) bool {
	return due.LessThanOrEqual(Tolerance)
}
