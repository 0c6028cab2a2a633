package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// MaxAmount is the largest amount accepted for correction
var MaxAmount = decimal.New(1, 15)

// MaxAmountPlaces bounds the decimal places of an accepted amount
const MaxAmountPlaces = 10

// ValidateAmount rejects amounts that are negative or too large to format.
// The exponent is checked before any comparison: a decimal parsed from
// "1e2000000" is cheap to hold but expensive to rescale or print, so the
// error for those cases does not echo the value.
func ValidateAmount(d decimal.Decimal) error {
	if d.IsZero() {
		return nil
	}
	exp := d.Exponent()
	if exp > 15 {
		return &ValidationError{Field: FieldAmount, Reason: ReasonTooLarge}
	}
	if exp < -MaxAmountPlaces {
		return &ValidationError{Field: FieldAmount, Reason: ReasonTooPrecise}
	}
	if d.Abs().GreaterThan(MaxAmount) {
		return &ValidationError{Field: FieldAmount, Reason: ReasonTooLarge}
	}
	if d.IsNegative() {
		return &ValidationError{Field: FieldAmount, Value: d.String(), Reason: ReasonNegative}
	}
	return nil
}

// RoundCurrency rounds half-up to two decimal places for display.
// decimal.Round rounds half away from zero, which is half-up for the
// non-negative amounts this API produces.
func RoundCurrency(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// FormatBRL formats an amount in the Brazilian convention: 1.234.567,89
func FormatBRL(d decimal.Decimal) string {
	fixed := d.StringFixed(2)

	negative := strings.HasPrefix(fixed, "-")
	fixed = strings.TrimPrefix(fixed, "-")

	intPart, fracPart, _ := strings.Cut(fixed, ".")

	var b strings.Builder
	if negative {
		b.WriteByte('-')
	}
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	b.WriteByte(',')
	b.WriteString(fracPart)

	return b.String()
}
