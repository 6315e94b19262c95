package orders

import (
	"context"
	"fmt"
	"time"

	"pharmos/internal/core/id"
	"pharmos/internal/core/numbering"
	"pharmos/internal/core/tx"
	"pharmos/pkg/logger"
)

// Service provides business operations for orders.
type Service struct {
	repo      Repository
	numbers   *numbering.Router
	audit     AllocationRecorder // optional
	txManager tx.Manager
}

// NewService creates a new order service.
// audit may be nil when the allocation trail is disabled.
func NewService(
	repo Repository,
	numbers *numbering.Router,
	audit AllocationRecorder,
	txManager tx.Manager,
) *Service {
	return &Service{
		repo:      repo,
		numbers:   numbers,
		audit:     audit,
		txManager: txManager,
	}
}

// Create creates a new order, generating its number when the caller left
// it empty or disambiguating a caller-supplied base otherwise. The insert
// and the audit entry run in one transaction; the order number itself is
// minted before the transaction, matching the numbering contract (the
// counter allocation is atomic on its own).
func (s *Service) Create(ctx context.Context, order *Order) error {
	if err := order.Validate(); err != nil {
		return err
	}

	source := "generated"
	if order.Number == "" {
		number, err := s.numbers.Generate(ctx, order.Kind, nil)
		if err != nil {
			return fmt.Errorf("generate number: %w", err)
		}
		order.Number = number
	} else {
		base := order.Number
		number, err := s.numbers.GenerateUnique(ctx, order.Kind, base)
		if err != nil {
			return fmt.Errorf("ensure unique number: %w", err)
		}
		source = "supplied"
		if number != base {
			source = "disambiguated"
		}
		order.Number = number
	}

	if id.IsNil(order.ID) {
		order.ID = id.New()
	}
	now := time.Now().UTC()
	if order.CreatedAt.IsZero() {
		order.CreatedAt = now
	}
	order.UpdatedAt = now
	if order.OrderDate.IsZero() {
		order.OrderDate = now
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, order); err != nil {
			return fmt.Errorf("create order: %w", err)
		}

		if s.audit != nil {
			err := s.audit.LogAllocation(ctx, order.Kind.String(), order.Number, source, order.ID,
				map[string]any{"counterparty": order.Counterparty})
			if err != nil {
				return fmt.Errorf("audit allocation: %w", err)
			}
		}

		return nil
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "order created",
		"id", order.ID,
		"kind", order.Kind.String(),
		"number", order.Number,
		"number_source", source)

	return nil
}

// GetByNumber retrieves an order by kind and identifier.
// Runs in a read-only transaction when the manager supports it.
func (s *Service) GetByNumber(ctx context.Context, kind numbering.OrderType, number string) (*Order, error) {
	ro, ok := s.txManager.(tx.ReadOnlyManager)
	if !ok {
		return s.repo.GetByNumber(ctx, kind, number)
	}

	var order *Order
	err := ro.ReadOnly(ctx, func(ctx context.Context) error {
		var err error
		order, err = s.repo.GetByNumber(ctx, kind, number)
		return err
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// NextNumber returns a fresh identifier for the given kind without
// creating an order. Used by the UI to show the number before submit;
// the shown value is advisory, Create re-checks nothing because counter
// allocations are never reused.
func (s *Service) NextNumber(ctx context.Context, kind numbering.OrderType, override *numbering.SequenceConfig) (string, error) {
	return s.numbers.Generate(ctx, kind, override)
}

// CheckNumber reports whether candidate is free for the given kind.
func (s *Service) CheckNumber(ctx context.Context, kind numbering.OrderType, candidate string) (bool, error) {
	return s.numbers.IsUnique(ctx, kind, candidate)
}

// ReserveUnique disambiguates a caller-supplied base identifier.
func (s *Service) ReserveUnique(ctx context.Context, kind numbering.OrderType, base string) (string, error) {
	return s.numbers.GenerateUnique(ctx, kind, base)
}
