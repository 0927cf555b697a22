package sizing

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidDimension is returned when the screen size cannot form a module grid.
	ErrInvalidDimension = errors.New("sizing: invalid dimension")
	// ErrInvalidPitch is returned when the pitch is not positive or not offered.
	ErrInvalidPitch = errors.New("sizing: invalid pitch")
	// ErrUnknownCatalogKey is returned when a selection names a missing catalog entry.
	ErrUnknownCatalogKey = errors.New("sizing: unknown catalog key")
	// ErrInvalidCapacity is returned when a per-unit constraint is not positive.
	ErrInvalidCapacity = errors.New("sizing: invalid capacity")
)

// ValidationError names the offending input field.
type ValidationError struct {
	Kind   error
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%v: %s: %s", e.Kind, e.Field, e.Reason)
}

// Unwrap exposes the error kind to errors.Is.
func (e *ValidationError) Unwrap() error { return e.Kind }

// KindName returns a stable machine name for the error kind.
func (e *ValidationError) KindName() string {
	switch e.Kind {
	case ErrInvalidDimension:
		return "invalid_dimension"
	case ErrInvalidPitch:
		return "invalid_pitch"
	case ErrUnknownCatalogKey:
		return "unknown_catalog_key"
	case ErrInvalidCapacity:
		return "invalid_capacity"
	default:
		return "invalid_input"
	}
}

func invalid(kind error, field, format string, args ...any) *ValidationError {
	return &ValidationError{Kind: kind, Field: field, Reason: fmt.Sprintf(format, args...)}
}
