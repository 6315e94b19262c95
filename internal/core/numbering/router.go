package numbering

import (
	"context"
	"time"

	"pharmos/internal/core/apperror"
	"pharmos/pkg/logger"
)

// RouterOptions configures a Router.
type RouterOptions struct {
	// Strategy used by Generate. Default is StrategyCounter.
	Strategy Strategy

	// MaxUniqueAttempts bounds GenerateUnique suffix probing.
	// Default is DefaultMaxUniqueAttempts.
	MaxUniqueAttempts int

	// Now supplies the clock; overridable in tests. Default time.Now.
	Now func() time.Time
}

// DefaultRouterOptions returns production defaults.
func DefaultRouterOptions() *RouterOptions {
	return &RouterOptions{
		Strategy:          StrategyCounter,
		MaxUniqueAttempts: DefaultMaxUniqueAttempts,
		Now:               time.Now,
	}
}

// Router is the single entry point for order-number generation. It maps an
// OrderType to its table and identifier column and dispatches to the
// Allocator and EnsureUnique. Every call is stateless and re-reads store
// state; the only persisted state lives behind RecordStore.
type Router struct {
	store             RecordStore
	strategy          Strategy
	maxUniqueAttempts int
	now               func() time.Time
}

// NewRouter creates a router over the given store.
func NewRouter(store RecordStore, opts *RouterOptions) (*Router, error) {
	if store == nil {
		return nil, apperror.NewConfiguration("record store is required")
	}
	if opts == nil {
		opts = DefaultRouterOptions()
	}
	r := &Router{
		store:             store,
		strategy:          opts.Strategy,
		maxUniqueAttempts: opts.MaxUniqueAttempts,
		now:               opts.Now,
	}
	if r.maxUniqueAttempts <= 0 {
		r.maxUniqueAttempts = DefaultMaxUniqueAttempts
	}
	if r.now == nil {
		r.now = time.Now
	}
	return r, nil
}

// Generate returns a fresh identifier for the given order type.
// A non-nil override replaces the type's default SequenceConfig and is
// validated like any other configuration.
func (r *Router) Generate(ctx context.Context, t OrderType, override *SequenceConfig) (string, error) {
	if !t.Valid() {
		return "", apperror.NewUnsupportedOrderType(t.String())
	}

	cfg := t.DefaultConfig()
	if override != nil {
		cfg = *override
	}

	alloc, err := NewAllocator(r.store, t.Table(), t.Field(), cfg, r.strategy)
	if err != nil {
		return "", err
	}

	number, err := alloc.Allocate(ctx, r.now())
	if err != nil {
		return "", err
	}

	logger.Debug(ctx, "order number generated",
		"order_type", t.String(),
		"number", number)
	return number, nil
}

// IsUnique reports whether candidate is unused for the given order type.
func (r *Router) IsUnique(ctx context.Context, t OrderType, candidate string) (bool, error) {
	if !t.Valid() {
		return false, apperror.NewUnsupportedOrderType(t.String())
	}
	exists, err := r.store.Exists(ctx, t.Table(), t.Field(), candidate)
	if err != nil {
		return false, err
	}
	return !exists, nil
}

// GenerateUnique disambiguates a caller-supplied base identifier,
// returning it unchanged when free or a "-N"-suffixed variant otherwise.
func (r *Router) GenerateUnique(ctx context.Context, t OrderType, base string) (string, error) {
	if !t.Valid() {
		return "", apperror.NewUnsupportedOrderType(t.String())
	}
	return EnsureUnique(ctx, r.store, t.Table(), t.Field(), base, r.maxUniqueAttempts)
}

// SeedCounter aligns the day-counter with existing records, for migration
// from scan-based numbering. The counter is set to the count of sequence
// values already consumed today, so the next counter allocation continues
// where the scan would have.
func (r *Router) SeedCounter(ctx context.Context, t OrderType, now time.Time) error {
	if !t.Valid() {
		return apperror.NewUnsupportedOrderType(t.String())
	}

	cfg := t.DefaultConfig()
	prefix := DatePrefix(now, cfg)

	latest, found, err := r.store.FindLatestByPrefix(ctx, t.Table(), t.Field(), prefix)
	if err != nil {
		return err
	}

	var consumed int64
	if found {
		if seq, ok := ExtractSequence(latest, prefix, cfg.Digits); ok {
			consumed = int64(seq - cfg.Start + 1)
			if consumed < 0 {
				consumed = 0
			}
		}
	}

	if err := r.store.SetCounter(ctx, CounterKey(t.Field(), prefix), consumed); err != nil {
		return err
	}

	logger.Info(ctx, "order counter seeded",
		"order_type", t.String(),
		"prefix", prefix,
		"consumed", consumed)
	return nil
}
