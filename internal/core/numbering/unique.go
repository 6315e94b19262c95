package numbering

import (
	"context"
	"fmt"

	"pharmos/internal/core/apperror"
)

// DefaultMaxUniqueAttempts bounds suffix probing in EnsureUnique.
const DefaultMaxUniqueAttempts = 1000

// EnsureUnique returns a value guaranteed absent from table.field.
// If base is unused it is returned unchanged; otherwise "base-1", "base-2",
// ... are probed in order until a free value is found. The loop is bounded:
// after maxAttempts collisions a distinct UNIQUENESS_EXHAUSTED error is
// returned rather than spinning forever. maxAttempts <= 0 selects
// DefaultMaxUniqueAttempts.
//
// This operates on arbitrary caller-chosen strings (user-edited or imported
// numbers), independent of the Allocator.
func EnsureUnique(ctx context.Context, store RecordStore, table, field, base string, maxAttempts int) (string, error) {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxUniqueAttempts
	}

	exists, err := store.Exists(ctx, table, field, base)
	if err != nil {
		return "", err
	}
	if !exists {
		return base, nil
	}

	for i := 1; i <= maxAttempts; i++ {
		candidate := fmt.Sprintf("%s-%d", base, i)
		exists, err := store.Exists(ctx, table, field, candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
	}

	return "", apperror.NewUniquenessExhausted(base, maxAttempts)
}
