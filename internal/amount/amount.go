// Package amount parses the amount tokens hledger-web renders, such as
// "-34.56", "$-34.56", "AU$ -34.56", "-34.56 AU$" or "1.000,50".
package amount

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	// ErrInvalid is returned for tokens that are not an amount.
	ErrInvalid = errors.New("invalid amount")
	// ErrBothCurrencies is returned when a currency appears before and after the number.
	ErrBothCurrencies = errors.New("currency on both sides of amount")
	// ErrOutOfRange is returned when the value does not fit a float32.
	ErrOutOfRange = errors.New("amount out of range")
)

// Amount is a signed value in a currency. Currency is "" when none was given.
type Amount struct {
	Value    float32
	Currency string
}

// sign? prefix-currency? sign? number suffix-currency?
// A currency is any run without digits, separators, signs or spaces.
var reToken = regexp.MustCompile(`^([+-])?(?:([^\d\s.,+-]+) ?)?([+-])?(\d(?:[\d.,]*\d)?)(?: ?([^\d\s.,+-]+))?$`)

// Parse parses a single amount token.
func Parse(token string) (Amount, error) {
	s := strings.TrimSpace(token)
	m := reToken.FindStringSubmatch(s)
	if m == nil {
		return Amount{}, fmt.Errorf("%w: %q", ErrInvalid, token)
	}
	outerSign, prefix, innerSign, number, suffix := m[1], m[2], m[3], m[4], m[5]

	if prefix != "" && suffix != "" {
		return Amount{}, fmt.Errorf("%w: %q", ErrBothCurrencies, token)
	}
	if outerSign != "" && innerSign != "" {
		return Amount{}, fmt.Errorf("%w: %q: more than one sign", ErrInvalid, token)
	}

	d, err := ParseNumber(number)
	if err != nil {
		return Amount{}, fmt.Errorf("%w: %q", err, token)
	}
	if outerSign == "-" || innerSign == "-" {
		d = d.Neg()
	}

	f, _ := d.Float64()
	if math.Abs(f) > math.MaxFloat32 {
		return Amount{}, fmt.Errorf("%w: %q", ErrOutOfRange, token)
	}

	return Amount{Value: float32(f), Currency: prefix + suffix}, nil
}

// ParseNumber parses an unsigned digit run that may contain '.' and ','.
//
// With both separators present the rightmost one is the decimal point and the
// other groups thousands. With only one of them, a single occurrence is the
// decimal point and repeated occurrences are grouping.
func ParseNumber(s string) (decimal.Decimal, error) {
	normalized, err := normalize(s)
	if err != nil {
		return decimal.Zero, err
	}
	d, err := decimal.NewFromString(normalized)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %s", ErrInvalid, err)
	}
	return d, nil
}

func normalize(s string) (string, error) {
	dot := strings.LastIndex(s, ".")
	comma := strings.LastIndex(s, ",")

	switch {
	case dot >= 0 && comma >= 0:
		mark, group := ".", ","
		if comma > dot {
			mark, group = ",", "."
		}
		if strings.Count(s, mark) > 1 {
			return "", fmt.Errorf("%w: repeated decimal mark in %q", ErrInvalid, s)
		}
		s = strings.ReplaceAll(s, group, "")
		return strings.Replace(s, mark, ".", 1), nil
	case comma >= 0:
		if strings.Count(s, ",") > 1 {
			return strings.ReplaceAll(s, ",", ""), nil
		}
		return strings.Replace(s, ",", ".", 1), nil
	case dot >= 0:
		if strings.Count(s, ".") > 1 {
			return strings.ReplaceAll(s, ".", ""), nil
		}
		return s, nil
	}
	return s, nil
}
