package domain

import (
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// CorrectionRequest asks for an amount to be moved from one period to another
type CorrectionRequest struct {
	Amount decimal.Decimal // Must be non-negative
	From   Period
	To     Period
}

// CorrectionResult holds the outcome of a monetary correction.
// Values are kept at full precision; rounding happens at presentation.
type CorrectionResult struct {
	InitialAmount   decimal.Decimal
	InitialPeriod   Period
	FinalPeriod     Period
	InitialIndex    decimal.Decimal
	FinalIndex      decimal.Decimal
	Factor          decimal.Decimal // FinalIndex / InitialIndex
	CorrectedAmount decimal.Decimal
}

// Percentage returns the correction as a percentage: (factor - 1) * 100
func (r *CorrectionResult) Percentage() decimal.Decimal {
	return r.Factor.Sub(decimal.NewFromInt(1)).Mul(hundred)
}
