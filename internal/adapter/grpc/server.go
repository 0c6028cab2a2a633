package grpc

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/shopspring/decimal"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/simaogato/ipca-api/internal/domain"
	"github.com/simaogato/ipca-api/internal/usecase/correction"
	"github.com/simaogato/ipca-api/internal/usecase/lookup"
	statususecase "github.com/simaogato/ipca-api/internal/usecase/status"
)

// Server implements the IndexService gRPC server
type Server struct {
	LookupService     *lookup.LookupService
	CorrectionService *correction.CorrectionService
	StatusService     *statususecase.StatusService
}

var _ IndexServiceServer = (*Server)(nil)

// NewServer creates a new gRPC server instance
func NewServer(
	lookupService *lookup.LookupService,
	correctionService *correction.CorrectionService,
	statusService *statususecase.StatusService,
) *Server {
	return &Server{
		LookupService:     lookupService,
		CorrectionService: correctionService,
		StatusService:     statusService,
	}
}

// ListSeries handles the ListSeries RPC.
// Response: {"info": string, "points": [{"period": "MM/YYYY", "value": string}]}
func (s *Server) ListSeries(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	points, err := s.LookupService.All(ctx)
	if err != nil {
		return nil, mapError(err)
	}

	st, err := s.StatusService.GetStatus(ctx)
	if err != nil {
		return nil, mapError(err)
	}

	values := make([]any, 0, len(points))
	for _, p := range points {
		values = append(values, map[string]any{
			"period": p.Period.String(),
			"value":  p.Value.String(),
		})
	}

	return newStruct(map[string]any{
		"info":   st.Info(),
		"points": values,
	})
}

// Lookup handles the Lookup RPC.
// Request: {"month": n, "year": n}
func (s *Server) Lookup(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	month, err := intField(req, "month")
	if err != nil {
		return nil, err
	}
	year, err := intField(req, "year")
	if err != nil {
		return nil, err
	}

	point, err := s.LookupService.Find(ctx, month, year)
	if err != nil {
		return nil, mapError(err)
	}

	return newStruct(map[string]any{
		"period": point.Period.String(),
		"value":  point.Value.String(),
	})
}

// Correct handles the Correct RPC.
// Request: {"amount": string|number, "from_month", "from_year", "to_month", "to_year"}.
// Decimal results are returned as strings; corrected_amount is rounded to cents.
func (s *Server) Correct(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	amount, err := decimalField(req, "amount")
	if err != nil {
		return nil, err
	}

	ints := make(map[string]int, 4)
	for _, name := range []string{"from_month", "from_year", "to_month", "to_year"} {
		v, err := intField(req, name)
		if err != nil {
			return nil, err
		}
		ints[name] = v
	}

	result, err := s.CorrectionService.Correct(ctx, domain.CorrectionRequest{
		Amount: amount,
		From:   domain.NewPeriod(ints["from_month"], ints["from_year"]),
		To:     domain.NewPeriod(ints["to_month"], ints["to_year"]),
	})
	if err != nil {
		return nil, mapError(err)
	}

	corrected := domain.RoundCurrency(result.CorrectedAmount)
	return newStruct(map[string]any{
		"initial_amount":     result.InitialAmount.String(),
		"initial_period":     result.InitialPeriod.String(),
		"final_period":       result.FinalPeriod.String(),
		"initial_index":      result.InitialIndex.String(),
		"final_index":        result.FinalIndex.String(),
		"corrected_amount":   corrected.StringFixed(2),
		"correction_percent": result.Percentage().Round(4).String(),
		"formatted_amount":   domain.FormatBRL(corrected),
	})
}

func newStruct(fields map[string]any) (*structpb.Struct, error) {
	st, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "failed to build response: %v", err)
	}
	return st, nil
}

// intField reads a whole number sent either as a JSON number or a numeric string
func intField(req *structpb.Struct, name string) (int, error) {
	v, ok := req.GetFields()[name]
	if !ok {
		return 0, status.Errorf(codes.InvalidArgument, "missing field %s", name)
	}

	switch kind := v.GetKind().(type) {
	case *structpb.Value_NumberValue:
		f := kind.NumberValue
		if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
			return 0, status.Errorf(codes.InvalidArgument, "invalid %s format: %v is not an integer", name, f)
		}
		return int(f), nil
	case *structpb.Value_StringValue:
		n, err := strconv.Atoi(kind.StringValue)
		if err != nil {
			return 0, status.Errorf(codes.InvalidArgument, "invalid %s format: %v", name, err)
		}
		return n, nil
	default:
		return 0, status.Errorf(codes.InvalidArgument, "invalid %s format: expected a number", name)
	}
}

func decimalField(req *structpb.Struct, name string) (decimal.Decimal, error) {
	v, ok := req.GetFields()[name]
	if !ok {
		return decimal.Zero, status.Errorf(codes.InvalidArgument, "missing field %s", name)
	}

	switch kind := v.GetKind().(type) {
	case *structpb.Value_NumberValue:
		f := kind.NumberValue
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return decimal.Zero, status.Errorf(codes.InvalidArgument, "invalid %s format: %v is not a finite number", name, f)
		}
		return decimal.NewFromFloat(f), nil
	case *structpb.Value_StringValue:
		d, err := decimal.NewFromString(kind.StringValue)
		if err != nil {
			return decimal.Zero, status.Errorf(codes.InvalidArgument, "invalid %s format: %v", name, err)
		}
		return d, nil
	default:
		return decimal.Zero, status.Errorf(codes.InvalidArgument, "invalid %s format: expected a number", name)
	}
}

// mapError converts domain errors to gRPC status errors
func mapError(err error) error {
	if err == nil {
		return nil
	}

	var (
		ve *domain.ValidationError
		nf *domain.NotFoundError
	)
	switch {
	case errors.As(err, &ve):
		return status.Errorf(codes.InvalidArgument, "%s", err)
	case errors.As(err, &nf):
		return status.Errorf(codes.NotFound, "%s", err)
	}

	return status.Errorf(codes.Internal, "%s", fmt.Sprint(err))
}
