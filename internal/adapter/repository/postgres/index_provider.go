package postgres

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/simaogato/ipca-api/internal/domain"
)

// indexProvider implements domain.SeriesProvider over the ipca_index table:
//
//	CREATE TABLE ipca_index (
//	    year  INTEGER NOT NULL,
//	    month INTEGER NOT NULL CHECK (month BETWEEN 1 AND 12),
//	    value NUMERIC NOT NULL CHECK (value > 0),
//	    PRIMARY KEY (year, month)
//	);
type indexProvider struct {
	db *DB
}

// NewIndexProvider creates a series provider backed by Postgres
func NewIndexProvider(db *DB) domain.SeriesProvider {
	return &indexProvider{db: db}
}

// Name identifies the provider
func (p *indexProvider) Name() string {
	return "postgres"
}

// FetchSeries reads every row of ipca_index in chronological order
func (p *indexProvider) FetchSeries(ctx context.Context) ([]domain.IndexPoint, error) {
	query := `
		SELECT year, month, value
		FROM ipca_index
		ORDER BY year, month
	`

	rows, err := p.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query ipca_index: %w", err)
	}
	defer rows.Close()

	var points []domain.IndexPoint
	for rows.Next() {
		var year, month int
		var valueStr string

		if err := rows.Scan(&year, &month, &valueStr); err != nil {
			return nil, fmt.Errorf("failed to scan ipca_index row: %w", err)
		}

		// Parse value (NUMERIC)
		value, err := decimal.NewFromString(valueStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse value for %02d/%d: %w", month, year, err)
		}

		points = append(points, domain.IndexPoint{
			Period: domain.NewPeriod(month, year),
			Value:  value,
		})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate ipca_index rows: %w", err)
	}

	return points, nil
}
