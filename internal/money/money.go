// Package money renders exact decimal amounts in a configured currency.
package money

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Format renders an amount in the given ISO currency code, e.g.
// Format(dec("1234.50"), "USD") -> "$1,234.50". The currency code comes from
// configuration and is threaded in by the caller; there is no process-wide
// default.
func Format(amount decimal.Decimal, currencyCode string) string {
	cur := money.GetCurrency(currencyCode)
	if cur == nil {
		return amount.StringFixed(2) + " " + currencyCode
	}
	minor := amount.Shift(int32(cur.Fraction)).Round(0)
	return money.New(minor.IntPart(), currencyCode).Display()
}
