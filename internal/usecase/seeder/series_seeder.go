package seeder

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/simaogato/ipca-api/internal/domain"
)

// SeriesSource yields a validated series, normally a *loader.SeriesLoader
type SeriesSource interface {
	Load(ctx context.Context) (*domain.IndexSeries, error)
}

// SeedResult reports what a seeding run did
type SeedResult struct {
	Points  int           // Points in the source series
	Written int           // Rows inserted or updated
	First   domain.Period
	Last    domain.Period
}

// SeriesSeeder copies the IPCA series from an upstream source into a writable store
type SeriesSeeder struct {
	source SeriesSource
	writer domain.IndexWriter
	logger *slog.Logger
}

// NewSeriesSeeder creates a new SeriesSeeder instance
func NewSeriesSeeder(source SeriesSource, writer domain.IndexWriter, logger *slog.Logger) *SeriesSeeder {
	if logger == nil {
		logger = slog.Default()
	}
	return &SeriesSeeder{
		source: source,
		writer: writer,
		logger: logger,
	}
}

// Seed ensures the store holds every point of the source series.
// Existing rows with the same value are left untouched, so running it
// repeatedly only writes new or revised months.
func (s *SeriesSeeder) Seed(ctx context.Context) (*SeedResult, error) {
	if err := s.writer.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("failed to prepare index store: %w", err)
	}

	series, err := s.source.Load(ctx)
	if err != nil {
		return nil, err
	}

	written, err := s.writer.Upsert(ctx, series.All())
	if err != nil {
		return nil, fmt.Errorf("failed to write IPCA series: %w", err)
	}

	result := &SeedResult{
		Points:  series.Len(),
		Written: written,
		First:   series.First().Period,
		Last:    series.Last().Period,
	}

	s.logger.Info("IPCA series seeded",
		"points", result.Points,
		"written", result.Written,
		"first", result.First.String(),
		"last", result.Last.String(),
	)

	return result, nil
}
