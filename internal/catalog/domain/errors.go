package catalog

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownKey is returned when a lookup key is absent from the catalog.
	ErrUnknownKey = errors.New("catalog: unknown key")
	// ErrInvalidEntry is returned when a catalog entry breaks an invariant.
	ErrInvalidEntry = errors.New("catalog: invalid entry")
	// ErrNilCatalog is returned when a nil catalog is used.
	ErrNilCatalog = errors.New("catalog: nil catalog")
)

// KeyError reports which table a missing key was looked up in.
type KeyError struct {
	Table string
	Key   string
}

func (e *KeyError) Error() string {
	return fmt.Sprintf("catalog: unknown %s %q", e.Table, e.Key)
}

// Unwrap lets errors.Is match ErrUnknownKey.
func (e *KeyError) Unwrap() error { return ErrUnknownKey }

func invalidEntry(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidEntry, fmt.Sprintf(format, args...))
}
