package numbering

import (
	"context"
	"fmt"
	"time"

	"pharmos/internal/core/apperror"
	"pharmos/pkg/logger"
)

// Strategy selects how the next sequence value is obtained.
type Strategy int

const (
	// StrategyCounter uses an atomic per-(field, datePrefix) counter in the
	// store. Safe under concurrent allocation; the default.
	StrategyCounter Strategy = iota

	// StrategyScan reads the latest same-day record and increments its
	// sequence client-side. Matches the historical behavior exactly
	// (including the malformed-tail fallback) but two concurrent calls can
	// compute the same value; use only behind a store-level uniqueness
	// constraint or for single-writer deployments.
	StrategyScan
)

// Allocator computes the next order identifier for a single table/field
// pair. Construct one per order type via the Router, or directly in tests.
type Allocator struct {
	store    RecordStore
	table    string
	field    string
	cfg      SequenceConfig
	strategy Strategy
}

// NewAllocator validates its inputs and returns an allocator.
// A nil store, empty table/field or Digits < 1 are configuration errors,
// raised here and never at generation time.
func NewAllocator(store RecordStore, table, field string, cfg SequenceConfig, strategy Strategy) (*Allocator, error) {
	if store == nil {
		return nil, apperror.NewConfiguration("record store is required")
	}
	if table == "" || field == "" {
		return nil, apperror.NewConfiguration("table and field are required").
			WithDetail("table", table).
			WithDetail("field", field)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Allocator{
		store:    store,
		table:    table,
		field:    field,
		cfg:      cfg,
		strategy: strategy,
	}, nil
}

// Allocate returns the next identifier for the business day of now.
// Store errors propagate unchanged; retry policy belongs to the caller.
func (a *Allocator) Allocate(ctx context.Context, now time.Time) (string, error) {
	prefix := DatePrefix(now, a.cfg)

	var next int
	var err error
	switch a.strategy {
	case StrategyScan:
		next, err = a.nextFromScan(ctx, prefix)
	default:
		next, err = a.nextFromCounter(ctx, prefix)
	}
	if err != nil {
		return "", err
	}

	return prefix + FormatSequence(a.wrap(next), a.cfg.Digits), nil
}

// nextFromScan implements the legacy read-then-increment contract.
func (a *Allocator) nextFromScan(ctx context.Context, prefix string) (int, error) {
	latest, found, err := a.store.FindLatestByPrefix(ctx, a.table, a.field, prefix)
	if err != nil {
		return 0, err
	}
	if !found {
		return a.cfg.Start, nil
	}

	seq, ok := ExtractSequence(latest, prefix, a.cfg.Digits)
	if !ok {
		// Malformed legacy value: restart at Start rather than fail the
		// allocation. Two malformed rows on the same day can both trigger
		// this reset; accepted behavior, hence the warning.
		logger.Warn(ctx, "malformed sequence tail, restarting sequence",
			"table", a.table,
			"field", a.field,
			"value", latest,
			"start", a.cfg.Start)
		return a.cfg.Start, nil
	}
	return seq + 1, nil
}

// nextFromCounter maps the day-counter onto the configured sequence range.
// Counter value 1 corresponds to Start.
func (a *Allocator) nextFromCounter(ctx context.Context, prefix string) (int, error) {
	n, err := a.store.NextCounter(ctx, CounterKey(a.field, prefix))
	if err != nil {
		return 0, err
	}
	return a.cfg.Start + int(n) - 1, nil
}

// wrap applies the wraparound policy: values are reduced modulo 10^Digits
// and a result of exactly 0 is replaced with Start, so 0 is never emitted
// as a fresh-start value.
func (a *Allocator) wrap(n int) int {
	n %= a.cfg.Capacity()
	if n < 0 {
		n += a.cfg.Capacity()
	}
	if n == 0 {
		n = a.cfg.Start
	}
	return n
}

// CounterKey names the atomic counter for one identifier column and one
// business day, e.g. "poid:20240315".
func CounterKey(field, datePrefix string) string {
	return fmt.Sprintf("%s:%s", field, datePrefix)
}
