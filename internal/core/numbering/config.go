// Package numbering provides order-number generation: date-scoped,
// zero-padded sequential identifiers for purchase orders, shipping
// orders and sales (e.g. 20240315001, SO20240315001).
//
// The package is pure domain logic. Storage access goes through the
// RecordStore contract; the PostgreSQL implementation lives in the
// infrastructure layer.
package numbering

import (
	"pharmos/internal/core/apperror"
)

// SequenceConfig holds identifier formatting configuration.
// It is immutable per order type and validated at construction,
// never at generation time.
type SequenceConfig struct {
	// Prefix is prepended before the date part (e.g. "SO")
	Prefix string

	// ShortYear uses a 2-digit year in the date part (YYMMDD)
	ShortYear bool

	// Digits is the zero-padded width of the sequence part (>= 1)
	Digits int

	// Start is the first sequence value for a fresh day (>= 0)
	Start int
}

// DefaultSequenceConfig returns the standard configuration:
// no prefix, 4-digit year, 3 sequence digits starting at 1.
func DefaultSequenceConfig() SequenceConfig {
	return SequenceConfig{
		Prefix: "",
		Digits: 3,
		Start:  1,
	}
}

// Validate checks configuration invariants.
func (c SequenceConfig) Validate() error {
	if c.Digits < 1 {
		return apperror.NewConfiguration("sequence digits must be at least 1").
			WithDetail("digits", c.Digits)
	}
	if c.Start < 0 {
		return apperror.NewConfiguration("sequence start must not be negative").
			WithDetail("start", c.Start)
	}
	return nil
}

// Capacity returns the number of representable sequence values (10^Digits).
func (c SequenceConfig) Capacity() int {
	return pow10(c.Digits)
}

func pow10(n int) int {
	p := 1
	for i := 0; i < n; i++ {
		p *= 10
	}
	return p
}
