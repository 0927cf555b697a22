package application

import "errors"

var (
	// ErrUnsupportedFormat is returned for unknown export formats.
	ErrUnsupportedFormat = errors.New("sizing: unsupported export format")
	// ErrInvalidProject is returned when the project passport is malformed.
	ErrInvalidProject = errors.New("sizing: invalid project")
	// ErrNoCatalog is returned when no catalog snapshot is available.
	ErrNoCatalog = errors.New("sizing: catalog unavailable")
)
