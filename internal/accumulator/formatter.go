package accumulator

import (
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// MoneyFormatter formats known ISO 4217 currencies with their own symbol and
// minor-unit precision. Other commodities get two decimals, prefixed by the
// commodity name when there is one.
type MoneyFormatter struct{}

func (MoneyFormatter) Format(amount decimal.Decimal, currency string) string {
	if currency != "" {
		if c := money.GetCurrency(strings.ToUpper(currency)); c != nil {
			minor := amount.Shift(int32(c.Fraction)).RoundBank(0)
			return c.Formatter().Format(minor.IntPart())
		}
	}
	return PlainFormatter{}.Format(amount, currency)
}

// PlainFormatter always uses the two-decimal form.
type PlainFormatter struct{}

func (PlainFormatter) Format(amount decimal.Decimal, currency string) string {
	s := amount.StringFixed(2)
	if currency == "" {
		return s
	}
	return currency + " " + s
}
