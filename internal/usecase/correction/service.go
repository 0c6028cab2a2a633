package correction

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/simaogato/ipca-api/internal/domain"
)

// IndexFinder resolves the index point for a month and year.
// lookup.LookupService satisfies it.
type IndexFinder interface {
	Find(ctx context.Context, month, year int) (*domain.IndexPoint, error)
}

// CorrectionService handles monetary correction by the IPCA
type CorrectionService struct {
	Finder IndexFinder
}

// NewCorrectionService creates a new CorrectionService instance
func NewCorrectionService(finder IndexFinder) *CorrectionService {
	return &CorrectionService{
		Finder: finder,
	}
}

// Correct moves an amount from one period to another
// Logic: CorrectedAmount = Amount * (Index(To) / Index(From))
// The factor is computed once and then applied, so the result scales
// linearly with the amount and equal periods return the amount unchanged.
// No rounding is applied here.
func (s *CorrectionService) Correct(ctx context.Context, req domain.CorrectionRequest) (*domain.CorrectionResult, error) {
	if err := domain.ValidateAmount(req.Amount); err != nil {
		return nil, err
	}

	initial, err := s.Finder.Find(ctx, req.From.Month, req.From.Year)
	if err != nil {
		return nil, &domain.SideError{Side: domain.SideInitial, Err: err}
	}

	final, err := s.Finder.Find(ctx, req.To.Month, req.To.Year)
	if err != nil {
		return nil, &domain.SideError{Side: domain.SideFinal, Err: err}
	}

	factor := decimal.NewFromInt(1)
	if initial.Period != final.Period {
		factor = final.Value.Div(initial.Value)
	}

	return &domain.CorrectionResult{
		InitialAmount:   req.Amount,
		InitialPeriod:   initial.Period,
		FinalPeriod:     final.Period,
		InitialIndex:    initial.Value,
		FinalIndex:      final.Value,
		Factor:          factor,
		CorrectedAmount: req.Amount.Mul(factor),
	}, nil
}
