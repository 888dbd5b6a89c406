package domain

import "errors"

// Failure classes converted to degraded results at component boundaries.
var (
	ErrTransport       = errors.New("transport error")
	ErrProvider        = errors.New("provider error")
	ErrConfiguration   = errors.New("configuration error")
	ErrExtractionEmpty = errors.New("no extractable text")
)

// Degradable reports whether err belongs to the expected failure taxonomy.
// Anything else is treated as a bug and surfaced to the caller.
func Degradable(err error) bool {
	return errors.Is(err, ErrTransport) ||
		errors.Is(err, ErrProvider) ||
		errors.Is(err, ErrConfiguration) ||
		errors.Is(err, ErrExtractionEmpty)
}
