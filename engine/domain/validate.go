package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for validation failures.
var (
	ErrMissingStartPlace       = errors.New("start_place is required")
	ErrMissingDestinationPlace = errors.New("destination_place is required")
	ErrNegativePrice           = errors.New("trip_price must be non-negative")
	ErrInvalidDuration         = errors.New("trip_duration_days must be at least 1")
	ErrInvalidGroupSize        = errors.New("group_size must be at least 1")
	ErrInvalidTopK             = errors.New("top_k must be at least 1")
)

// ValidationError wraps a sentinel with the offending field.
type ValidationError struct {
	Field   string
	Wrapped error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation: %s: %s", e.Field, e.Wrapped)
}

func (e *ValidationError) Unwrap() error { return e.Wrapped }

// ValidatePlanRequest checks required fields and bounds on optional ones.
// Zero-valued optional fields are allowed; defaults come from WithDefaults.
func ValidatePlanRequest(r PlanRequest) error {
	if strings.TrimSpace(r.StartPlace) == "" {
		return &ValidationError{Field: "start_place", Wrapped: ErrMissingStartPlace}
	}
	if strings.TrimSpace(r.DestinationPlace) == "" {
		return &ValidationError{Field: "destination_place", Wrapped: ErrMissingDestinationPlace}
	}
	if r.TripPrice != nil && *r.TripPrice < 0 {
		return &ValidationError{Field: "trip_price", Wrapped: ErrNegativePrice}
	}
	if r.TripDurationDays < 0 {
		return &ValidationError{Field: "trip_duration_days", Wrapped: ErrInvalidDuration}
	}
	if r.GroupSize < 0 {
		return &ValidationError{Field: "group_size", Wrapped: ErrInvalidGroupSize}
	}
	if r.TopK < 0 {
		return &ValidationError{Field: "top_k", Wrapped: ErrInvalidTopK}
	}
	return nil
}
