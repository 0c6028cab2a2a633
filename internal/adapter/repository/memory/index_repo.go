package memory

import (
	"context"

	"github.com/simaogato/ipca-api/internal/domain"
)

// indexRepository implements domain.IndexRepository over a loaded series
type indexRepository struct {
	series *domain.IndexSeries
}

// NewIndexRepository creates a repository serving the given series.
// The series is never modified, so the repository needs no locking.
func NewIndexRepository(series *domain.IndexSeries) domain.IndexRepository {
	return &indexRepository{series: series}
}

// All returns every point in chronological order
func (r *indexRepository) All(ctx context.Context) ([]domain.IndexPoint, error) {
	return r.series.All(), nil
}

// Find retrieves the point for a period
func (r *indexRepository) Find(ctx context.Context, period domain.Period) (*domain.IndexPoint, error) {
	point, ok := r.series.Get(period)
	if !ok {
		return nil, &domain.NotFoundError{Period: period}
	}
	return &point, nil
}

// Coverage returns the span of the series
func (r *indexRepository) Coverage(ctx context.Context) (domain.Coverage, error) {
	return domain.Coverage{
		First: r.series.First().Period,
		Last:  r.series.Last().Period,
		Count: r.series.Len(),
	}, nil
}
