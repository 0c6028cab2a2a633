package domain

import (
	"context"
)

// Coverage summarises the span of the loaded series
type Coverage struct {
	First Period
	Last  Period
	Count int
}

// IndexRepository defines read access to the loaded IPCA series
type IndexRepository interface {
	// All returns every point in chronological order
	All(ctx context.Context) ([]IndexPoint, error)

	// Find retrieves the point for a period
	// Returns a *NotFoundError if the series has no point for it
	Find(ctx context.Context, period Period) (*IndexPoint, error)

	// Coverage returns the first and last periods and the number of points
	Coverage(ctx context.Context) (Coverage, error)
}

// SeriesProvider fetches the raw IPCA series from an external source.
// It is called once at startup.
type SeriesProvider interface {
	// FetchSeries returns the full series, in any order
	FetchSeries(ctx context.Context) ([]IndexPoint, error)

	// Name identifies the source in logs and status output
	Name() string
}

// IndexWriter persists index points into a store that can later serve as a SeriesProvider
type IndexWriter interface {
	// EnsureSchema creates the backing table if it does not exist
	EnsureSchema(ctx context.Context) error

	// Upsert inserts missing points and updates changed values.
	// It returns the number of rows written.
	Upsert(ctx context.Context, points []IndexPoint) (int, error)
}
