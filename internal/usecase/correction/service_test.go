package correction

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/simaogato/ipca-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockIndexFinder is a mock implementation of IndexFinder for testing
type MockIndexFinder struct {
	mock.Mock
}

func (m *MockIndexFinder) Find(ctx context.Context, month, year int) (*domain.IndexPoint, error) {
	args := m.Called(ctx, month, year)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.IndexPoint), args.Error(1)
}

func indexPoint(month, year int, value string) *domain.IndexPoint {
	return &domain.IndexPoint{
		Period: domain.NewPeriod(month, year),
		Value:  decimal.RequireFromString(value),
	}
}

func request(amount string, fromMonth, fromYear, toMonth, toYear int) domain.CorrectionRequest {
	return domain.CorrectionRequest{
		Amount: decimal.RequireFromString(amount),
		From:   domain.NewPeriod(fromMonth, fromYear),
		To:     domain.NewPeriod(toMonth, toYear),
	}
}

func newFinder(ctx context.Context) *MockIndexFinder {
	finder := new(MockIndexFinder)
	finder.On("Find", ctx, 1, 2020).Return(indexPoint(1, 2020, "5331.42"), nil)
	finder.On("Find", ctx, 1, 2023).Return(indexPoint(1, 2023, "6508.40"), nil)
	return finder
}

func TestCorrect_Example(t *testing.T) {
	ctx := context.Background()
	finder := newFinder(ctx)
	service := NewCorrectionService(finder)

	result, err := service.Correct(ctx, request("1000", 1, 2020, 1, 2023))

	require.NoError(t, err)
	assert.Equal(t, "1220.76", domain.RoundCurrency(result.CorrectedAmount).StringFixed(2))
	assert.True(t, result.InitialAmount.Equal(decimal.NewFromInt(1000)))
	assert.Equal(t, "5331.42", result.InitialIndex.String())
	assert.Equal(t, "6508.4", result.FinalIndex.String())
	assert.Equal(t, domain.NewPeriod(1, 2020), result.InitialPeriod)
	assert.Equal(t, domain.NewPeriod(1, 2023), result.FinalPeriod)
	assert.Equal(t, "22.0763", result.Percentage().Round(4).String())
	finder.AssertExpectations(t)
}

func TestCorrect_SameDateReturnsAmount(t *testing.T) {
	ctx := context.Background()
	finder := newFinder(ctx)
	service := NewCorrectionService(finder)

	for _, amount := range []string{"0", "0.01", "1000", "123456.789"} {
		result, err := service.Correct(ctx, request(amount, 1, 2020, 1, 2020))

		require.NoError(t, err)
		assert.True(t, result.CorrectedAmount.Equal(decimal.RequireFromString(amount)), amount)
		assert.True(t, result.Percentage().IsZero())
	}
}

func TestCorrect_ScaleLinear(t *testing.T) {
	ctx := context.Background()
	finder := newFinder(ctx)
	service := NewCorrectionService(finder)

	base, err := service.Correct(ctx, request("1000", 1, 2020, 1, 2023))
	require.NoError(t, err)

	for _, k := range []string{"2", "0.5", "3.75", "1000"} {
		factor := decimal.RequireFromString(k)
		scaled, err := service.Correct(ctx, domain.CorrectionRequest{
			Amount: decimal.NewFromInt(1000).Mul(factor),
			From:   domain.NewPeriod(1, 2020),
			To:     domain.NewPeriod(1, 2023),
		})

		require.NoError(t, err)
		assert.True(t, scaled.CorrectedAmount.Equal(base.CorrectedAmount.Mul(factor)), k)
	}
}

func TestCorrect_ReversedDatesInvertRatio(t *testing.T) {
	ctx := context.Background()
	finder := newFinder(ctx)
	service := NewCorrectionService(finder)

	result, err := service.Correct(ctx, request("1220.76", 1, 2023, 1, 2020))

	require.NoError(t, err)
	assert.Equal(t, "1000.00", domain.RoundCurrency(result.CorrectedAmount).StringFixed(2))
	assert.True(t, result.Percentage().IsNegative())
}

func TestCorrect_ZeroAmount(t *testing.T) {
	ctx := context.Background()
	finder := newFinder(ctx)
	service := NewCorrectionService(finder)

	result, err := service.Correct(ctx, request("0", 1, 2020, 1, 2023))

	require.NoError(t, err)
	assert.True(t, result.CorrectedAmount.IsZero())
}

func TestCorrect_NegativeAmount(t *testing.T) {
	ctx := context.Background()
	finder := new(MockIndexFinder)
	service := NewCorrectionService(finder)

	result, err := service.Correct(ctx, request("-0.01", 1, 2020, 1, 2023))

	assert.Nil(t, result)
	var vErr *domain.ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, domain.FieldAmount, vErr.Field)
	assert.Equal(t, domain.ReasonNegative, vErr.Reason)

	// Negative amounts are rejected before any lookup
	finder.AssertNotCalled(t, "Find")
}

func TestCorrect_AmountOutOfBounds(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name   string
		amount string
		reason domain.Reason
	}{
		{"Huge exponent", "1e2000000", domain.ReasonTooLarge},
		{"Above maximum", "2000000000000000", domain.ReasonTooLarge},
		{"Tiny exponent", "1e-2000000", domain.ReasonTooPrecise},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			finder := new(MockIndexFinder)
			service := NewCorrectionService(finder)

			result, err := service.Correct(ctx, request(tt.amount, 1, 2020, 1, 2023))

			assert.Nil(t, result)
			var vErr *domain.ValidationError
			require.True(t, errors.As(err, &vErr))
			assert.Equal(t, domain.FieldAmount, vErr.Field)
			assert.Equal(t, tt.reason, vErr.Reason)
			finder.AssertNotCalled(t, "Find")
		})
	}
}

func TestCorrect_InitialSideFailure(t *testing.T) {
	ctx := context.Background()
	finder := new(MockIndexFinder)
	service := NewCorrectionService(finder)

	finder.On("Find", ctx, 13, 2020).Return(nil, domain.NewRangeError(domain.FieldMonth, 13, 1, 12))

	_, err := service.Correct(ctx, request("100", 13, 2020, 1, 2023))

	var side *domain.SideError
	require.True(t, errors.As(err, &side))
	assert.Equal(t, domain.SideInitial, side.Side)
	assert.True(t, domain.IsValidation(err))

	// The final date is never looked up once the initial one fails
	finder.AssertNumberOfCalls(t, "Find", 1)
}

func TestCorrect_FinalSideFailure(t *testing.T) {
	ctx := context.Background()
	finder := new(MockIndexFinder)
	service := NewCorrectionService(finder)

	finder.On("Find", ctx, 1, 2020).Return(indexPoint(1, 2020, "5331.42"), nil)
	finder.On("Find", ctx, 2, 2024).Return(nil, &domain.NotFoundError{Period: domain.NewPeriod(2, 2024)})

	_, err := service.Correct(ctx, request("100", 1, 2020, 2, 2024))

	var side *domain.SideError
	require.True(t, errors.As(err, &side))
	assert.Equal(t, domain.SideFinal, side.Side)
	assert.True(t, domain.IsNotFound(err))
	finder.AssertExpectations(t)
}
