package types

import (
	"errors"
	"fmt"
)

// Error taxonomy. Failures are contained at the smallest scope that makes
// sense: per-edge inside an upsert, per-episode inside a batch. Only
// configuration faults discovered at startup abort the process.
var (
	// ErrValidation marks bad or missing input fields, including
	// unparsable reference times. Episode-scoped.
	ErrValidation = errors.New("validation error")

	// ErrParse marks LLM output that is not valid JSON. Extraction
	// degrades to an empty structured graph; the episode still succeeds.
	ErrParse = errors.New("extraction parse error")

	// ErrUpsert marks a partial or full graph-write failure. Surfaced
	// per-episode, never fatal to a batch.
	ErrUpsert = errors.New("graph upsert error")

	// ErrStore marks a connectivity or store-side fault.
	ErrStore = errors.New("graph store error")

	// ErrSearch marks a failure of the underlying semantic search call.
	ErrSearch = errors.New("search error")

	// ErrConfig marks missing or invalid required configuration.
	// Fatal at startup only.
	ErrConfig = errors.New("configuration error")
)

// Validationf wraps ErrValidation with a formatted message.
func Validationf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// Configf wraps ErrConfig with a formatted message.
func Configf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrConfig, fmt.Sprintf(format, args...))
}
