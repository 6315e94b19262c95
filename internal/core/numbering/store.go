package numbering

import "context"

// RecordStore is the storage contract the numbering subsystem depends on.
// It is injected explicitly into allocators and the router; there is no
// ambient or singleton store reference.
//
// Implementations live in the infrastructure layer. Table and field names
// always come from the closed OrderType enum, never from caller input.
type RecordStore interface {
	// FindLatestByPrefix returns the greatest field value starting with
	// prefix, ordered lexicographically descending. Lexicographic order is
	// correct here because all same-day identifiers share a fixed-width
	// prefix and a fixed-width sequence. The second return is false when
	// no matching record exists.
	FindLatestByPrefix(ctx context.Context, table, field, prefix string) (string, bool, error)

	// Exists reports whether any record has exactly value in field.
	Exists(ctx context.Context, table, field, value string) (bool, error)

	// NextCounter atomically increments and returns the named counter,
	// creating it at 1 on first use. This is the concurrency-safe
	// allocation primitive: N concurrent calls observe N distinct values.
	NextCounter(ctx context.Context, key string) (int64, error)

	// SetCounter sets a counter to an absolute value (migration/seeding).
	SetCounter(ctx context.Context, key string, value int64) error
}
