//go:build integration

package postgres

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simaogato/ipca-api/internal/domain"
)

// getDBConnectionString returns the database connection string from environment or default
func getDBConnectionString() string {
	if connStr := os.Getenv("DB_CONN_STR"); connStr != "" {
		return connStr
	}
	host := os.Getenv("DB_HOST")
	if host == "" {
		host = "localhost"
	}
	return fmt.Sprintf("host=%s port=5432 user=postgres password=postgres dbname=ipca sslmode=disable", host)
}

func TestIndexWriterAndProvider(t *testing.T) {
	ctx := context.Background()

	db, err := NewDB(ctx, getDBConnectionString())
	require.NoError(t, err)
	defer db.Close()

	writer := NewIndexWriter(db)
	require.NoError(t, writer.EnsureSchema(ctx))
	_, err = db.ExecContext(ctx, `DELETE FROM ipca_index`)
	require.NoError(t, err)

	seed := []domain.IndexPoint{
		{Period: domain.NewPeriod(1, 2023), Value: decimal.RequireFromString("6508.40")},
		{Period: domain.NewPeriod(12, 1993), Value: decimal.NewFromInt(100)},
		{Period: domain.NewPeriod(1, 2020), Value: decimal.RequireFromString("5331.40")},
	}
	written, err := writer.Upsert(ctx, seed)
	require.NoError(t, err)
	assert.Equal(t, 3, written)

	// Unchanged rows are skipped, revised ones rewritten
	seed[2].Value = decimal.RequireFromString("5331.42")
	written, err = writer.Upsert(ctx, seed)
	require.NoError(t, err)
	assert.Equal(t, 1, written)

	points, err := NewIndexProvider(db).FetchSeries(ctx)
	require.NoError(t, err)
	require.Len(t, points, 3)

	assert.Equal(t, domain.NewPeriod(12, 1993), points[0].Period)
	assert.Equal(t, domain.NewPeriod(1, 2020), points[1].Period)
	assert.Equal(t, "5331.42", points[1].Value.String())
	assert.Equal(t, domain.NewPeriod(1, 2023), points[2].Period)
}
