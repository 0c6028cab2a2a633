package domain

import (
	"errors"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// Period identifies one month of the index series
type Period struct {
	Year  int
	Month int
}

// NewPeriod creates a Period from a month and a year
func NewPeriod(month, year int) Period {
	return Period{Year: year, Month: month}
}

// String renders the period as MM/YYYY, the key format used by the public API
func (p Period) String() string {
	return fmt.Sprintf("%02d/%d", p.Month, p.Year)
}

// Before reports whether p comes strictly before other
func (p Period) Before(other Period) bool {
	if p.Year != other.Year {
		return p.Year < other.Year
	}
	return p.Month < other.Month
}

// IndexPoint represents a single monthly observation of the IPCA index
type IndexPoint struct {
	Period Period
	Value  decimal.Decimal // Index level, always positive
}

// Validate ensures the point adheres to domain rules
func (p IndexPoint) Validate() error {
	if p.Period.Month < 1 || p.Period.Month > 12 {
		return fmt.Errorf("index point %s: month must be between 1 and 12", p.Period)
	}
	if p.Period.Year <= 0 {
		return fmt.Errorf("index point %s: year must be positive", p.Period)
	}
	if p.Value.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("index point %s: value must be positive", p.Period)
	}
	return nil
}

// IndexSeries is the immutable, chronologically ordered IPCA series.
// It is built once at startup and only read afterwards, so it is safe for
// concurrent use without locking.
type IndexSeries struct {
	points []IndexPoint
	byKey  map[Period]int
}

// NewIndexSeries builds a series from raw points.
// Points may arrive in any order; the result is sorted chronologically.
// Returns an error if the input is empty, a point is invalid or a period repeats.
func NewIndexSeries(points []IndexPoint) (*IndexSeries, error) {
	if len(points) == 0 {
		return nil, errors.New("index series must have at least one point")
	}

	sorted := make([]IndexPoint, len(points))
	copy(sorted, points)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Period.Before(sorted[j].Period)
	})

	byKey := make(map[Period]int, len(sorted))
	for i, point := range sorted {
		if err := point.Validate(); err != nil {
			return nil, err
		}
		if _, exists := byKey[point.Period]; exists {
			return nil, fmt.Errorf("duplicate index point for %s", point.Period)
		}
		byKey[point.Period] = i
	}

	return &IndexSeries{points: sorted, byKey: byKey}, nil
}

// All returns a copy of the points in chronological order
func (s *IndexSeries) All() []IndexPoint {
	out := make([]IndexPoint, len(s.points))
	copy(out, s.points)
	return out
}

// Get returns the point stored for the period
func (s *IndexSeries) Get(period Period) (IndexPoint, bool) {
	i, ok := s.byKey[period]
	if !ok {
		return IndexPoint{}, false
	}
	return s.points[i], true
}

// Len returns the number of points
func (s *IndexSeries) Len() int {
	return len(s.points)
}

// First returns the oldest point
func (s *IndexSeries) First() IndexPoint {
	return s.points[0]
}

// Last returns the most recent point
func (s *IndexSeries) Last() IndexPoint {
	return s.points[len(s.points)-1]
}

// YearRange returns the first and last years covered by the series
func (s *IndexSeries) YearRange() (int, int) {
	return s.First().Period.Year, s.Last().Period.Year
}

// Since returns a new series holding only the points at or after start.
// Returns an error if nothing is left.
func (s *IndexSeries) Since(start Period) (*IndexSeries, error) {
	kept := make([]IndexPoint, 0, len(s.points))
	for _, point := range s.points {
		if !point.Period.Before(start) {
			kept = append(kept, point)
		}
	}
	if len(kept) == 0 {
		return nil, fmt.Errorf("index series has no points from %s onward", start)
	}
	return NewIndexSeries(kept)
}
