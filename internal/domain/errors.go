package domain

import (
	"errors"
	"fmt"
)

// Field names reported by ValidationError
const (
	FieldMonth  = "month"
	FieldYear   = "year"
	FieldAmount = "amount"
)

// Reason describes why a value was rejected
type Reason string

const (
	ReasonOutOfRange Reason = "out_of_range"
	ReasonNegative   Reason = "negative"
	ReasonTooLarge   Reason = "too_large"
	ReasonTooPrecise Reason = "too_precise"
)

// ValidationError reports a request parameter outside its accepted domain.
// Min and Max are only meaningful for ReasonOutOfRange.
type ValidationError struct {
	Field  string
	Value  string
	Reason Reason
	Min    int
	Max    int
}

func (e *ValidationError) Error() string {
	subject := e.Field
	if e.Value != "" {
		subject += " " + e.Value
	}
	switch e.Reason {
	case ReasonOutOfRange:
		return fmt.Sprintf("invalid %s: must be between %d and %d", subject, e.Min, e.Max)
	case ReasonNegative:
		return fmt.Sprintf("invalid %s: must not be negative", subject)
	case ReasonTooLarge:
		return fmt.Sprintf("invalid %s: must not exceed %s", subject, MaxAmount)
	case ReasonTooPrecise:
		return fmt.Sprintf("invalid %s: at most %d decimal places", subject, MaxAmountPlaces)
	default:
		return fmt.Sprintf("invalid %s", subject)
	}
}

// NewRangeError creates a ValidationError for an integer outside [min, max]
func NewRangeError(field string, value, min, max int) *ValidationError {
	return &ValidationError{
		Field:  field,
		Value:  fmt.Sprint(value),
		Reason: ReasonOutOfRange,
		Min:    min,
		Max:    max,
	}
}

// NotFoundError reports a well-formed period missing from the series
type NotFoundError struct {
	Period Period
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("index not found for %s", e.Period)
}

// Side names one endpoint of a correction
type Side string

const (
	SideInitial Side = "initial"
	SideFinal   Side = "final"
)

// SideError tags a lookup failure with the correction endpoint that caused it
type SideError struct {
	Side Side
	Err  error
}

func (e *SideError) Error() string {
	return fmt.Sprintf("%s date: %v", e.Side, e.Err)
}

func (e *SideError) Unwrap() error {
	return e.Err
}

// IsValidation reports whether err carries a ValidationError
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// IsNotFound reports whether err carries a NotFoundError
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}
