package postgres

import (
	"context"
	"fmt"

	"github.com/simaogato/ipca-api/internal/domain"
)

const createIndexTable = `
	CREATE TABLE IF NOT EXISTS ipca_index (
		year  INTEGER NOT NULL,
		month INTEGER NOT NULL CHECK (month BETWEEN 1 AND 12),
		value NUMERIC NOT NULL CHECK (value > 0),
		PRIMARY KEY (year, month)
	)
`

type indexWriter struct {
	db *DB
}

// NewIndexWriter creates a domain.IndexWriter over the ipca_index table
func NewIndexWriter(db *DB) domain.IndexWriter {
	return &indexWriter{db: db}
}

// EnsureSchema creates ipca_index if it does not exist
func (w *indexWriter) EnsureSchema(ctx context.Context) error {
	if _, err := w.db.ExecContext(ctx, createIndexTable); err != nil {
		return fmt.Errorf("failed to create ipca_index: %w", err)
	}
	return nil
}

// Upsert writes all points in one transaction. Rows whose value is
// unchanged are not rewritten and do not count towards the result.
func (w *indexWriter) Upsert(ctx context.Context, points []domain.IndexPoint) (int, error) {
	dbTx, err := w.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer dbTx.Rollback()

	stmt, err := dbTx.PrepareContext(ctx, `
		INSERT INTO ipca_index (year, month, value)
		VALUES ($1, $2, $3)
		ON CONFLICT (year, month) DO UPDATE
		SET value = EXCLUDED.value
		WHERE ipca_index.value <> EXCLUDED.value
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare upsert: %w", err)
	}
	defer stmt.Close()

	written := 0
	for _, p := range points {
		res, err := stmt.ExecContext(ctx, p.Period.Year, p.Period.Month, p.Value.String())
		if err != nil {
			return 0, fmt.Errorf("failed to upsert %s: %w", p.Period, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("failed to read affected rows: %w", err)
		}
		written += int(n)
	}

	if err := dbTx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return written, nil
}
