package orders

import (
	"context"

	"pharmos/internal/core/id"
	"pharmos/internal/core/numbering"
)

// Repository is the persistence contract for order records.
// The implementation lives in infrastructure/storage/postgres/order_repo.
type Repository interface {
	// Create inserts a new order into the table of its kind.
	Create(ctx context.Context, order *Order) error

	// GetByNumber loads an order by its identifier.
	// Returns apperror.CodeNotFound when no such order exists.
	GetByNumber(ctx context.Context, kind numbering.OrderType, number string) (*Order, error)
}

// AllocationRecorder is the audit contract for issued numbers.
// The implementation lives in infrastructure/storage/postgres.
type AllocationRecorder interface {
	LogAllocation(ctx context.Context, orderType, number, source string, orderID id.ID, payload map[string]any) error
}
