package lookup

import (
	"context"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
	"github.com/simaogato/ipca-api/internal/domain"
)

// AnnualAverage is the mean of the monthly index values available for a year
type AnnualAverage struct {
	Year    int
	Average decimal.Decimal
	Points  []domain.IndexPoint // The months that contributed, in calendar order
}

// YearAverage is one entry of AnnualAverages: the average, or the reason
// the year has none
type YearAverage struct {
	Year    int
	Average *AnnualAverage
	Err     error // *domain.ValidationError or *domain.NotFoundError
}

// LookupService handles index lookups over the loaded series
type LookupService struct {
	IndexRepo domain.IndexRepository
}

// NewLookupService creates a new LookupService instance
func NewLookupService(indexRepo domain.IndexRepository) *LookupService {
	return &LookupService{
		IndexRepo: indexRepo,
	}
}

// Find returns the index point for a month and year
// Logic:
//   - month outside [1,12] or year outside the covered years -> *domain.ValidationError
//   - in range but missing from the series -> *domain.NotFoundError
func (s *LookupService) Find(ctx context.Context, month, year int) (*domain.IndexPoint, error) {
	coverage, err := s.IndexRepo.Coverage(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read series coverage: %w", err)
	}

	if err := validatePeriod(coverage, month, year); err != nil {
		return nil, err
	}

	return s.IndexRepo.Find(ctx, domain.NewPeriod(month, year))
}

// Filter is the public filter operation; it behaves exactly like Find
func (s *LookupService) Filter(ctx context.Context, month, year int) (*domain.IndexPoint, error) {
	return s.Find(ctx, month, year)
}

// All returns the full series in chronological order
func (s *LookupService) All(ctx context.Context) ([]domain.IndexPoint, error) {
	return s.IndexRepo.All(ctx)
}

// Coverage returns the span of the loaded series
func (s *LookupService) Coverage(ctx context.Context) (domain.Coverage, error) {
	return s.IndexRepo.Coverage(ctx)
}

// AnnualAverage computes the mean index of a year over the given months.
// An empty months slice means all twelve months. Months missing from the
// series are skipped; if none is present a *domain.NotFoundError is returned.
func (s *LookupService) AnnualAverage(ctx context.Context, year int, months []int) (*AnnualAverage, error) {
	coverage, err := s.IndexRepo.Coverage(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read series coverage: %w", err)
	}

	if len(months) == 0 {
		months = []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}
	}

	// Validate every month up front so the caller gets a range error
	// rather than a partial average
	for _, month := range months {
		if err := validatePeriod(coverage, month, year); err != nil {
			return nil, err
		}
	}

	unique := uniqueSorted(months)

	points := make([]domain.IndexPoint, 0, len(unique))
	sum := decimal.Zero
	for _, month := range unique {
		point, err := s.IndexRepo.Find(ctx, domain.NewPeriod(month, year))
		if err != nil {
			if domain.IsNotFound(err) {
				continue
			}
			return nil, err
		}
		points = append(points, *point)
		sum = sum.Add(point.Value)
	}

	if len(points) == 0 {
		return nil, &domain.NotFoundError{Period: domain.NewPeriod(unique[0], year)}
	}

	return &AnnualAverage{
		Year:    year,
		Average: sum.Div(decimal.NewFromInt(int64(len(points)))),
		Points:  points,
	}, nil
}

// AnnualAverages computes AnnualAverage for each year, in the order given.
// A year without data is reported in its entry instead of failing the call;
// only unexpected repository errors abort.
func (s *LookupService) AnnualAverages(ctx context.Context, years []int, months []int) ([]YearAverage, error) {
	results := make([]YearAverage, 0, len(years))
	for _, year := range years {
		avg, err := s.AnnualAverage(ctx, year, months)
		if err != nil && !domain.IsValidation(err) && !domain.IsNotFound(err) {
			return nil, err
		}
		results = append(results, YearAverage{Year: year, Average: avg, Err: err})
	}
	return results, nil
}

// validatePeriod checks month and year against the calendar and the series coverage
func validatePeriod(coverage domain.Coverage, month, year int) error {
	if month < 1 || month > 12 {
		return domain.NewRangeError(domain.FieldMonth, month, 1, 12)
	}
	if year < coverage.First.Year || year > coverage.Last.Year {
		return domain.NewRangeError(domain.FieldYear, year, coverage.First.Year, coverage.Last.Year)
	}
	return nil
}

func uniqueSorted(values []int) []int {
	seen := make(map[int]bool, len(values))
	out := make([]int, 0, len(values))
	for _, v := range values {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	sort.Ints(out)
	return out
}
