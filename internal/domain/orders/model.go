// Package orders provides the order-creation workflow for purchase orders,
// shipping orders and sales. It is the primary consumer of the numbering
// subsystem: every created order is persisted together with its generated
// (or disambiguated) order number.
package orders

import (
	"time"

	"pharmos/internal/core/apperror"
	"pharmos/internal/core/id"
	"pharmos/internal/core/numbering"
	"pharmos/internal/core/types"
)

// Order represents one order record of any of the three kinds.
// Number is the only field the numbering subsystem touches; it is computed
// once at creation time and never regenerated afterwards.
type Order struct {
	ID   id.ID                `db:"id" json:"id"`
	Kind numbering.OrderType  `db:"-" json:"kind"`

	// Number is the human-readable order identifier (e.g. 20240315001).
	// Left empty by the caller to have one generated; a caller-supplied
	// value is disambiguated against existing records instead.
	Number string `db:"-" json:"number"`

	// Counterparty is the supplier (purchase), carrier (shipping)
	// or customer (sale) reference.
	Counterparty string `db:"counterparty" json:"counterparty"`

	// OrderDate is the business date of the order.
	OrderDate time.Time `db:"order_date" json:"orderDate"`

	// Total order amount.
	Total types.Money `db:"total" json:"total"`

	Note string `db:"note" json:"note,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// NewOrder creates an order of the given kind with the business date set
// to now.
func NewOrder(kind numbering.OrderType, counterparty string, total types.Money) *Order {
	return &Order{
		ID:           id.New(),
		Kind:         kind,
		Counterparty: counterparty,
		OrderDate:    time.Now(),
		Total:        total,
	}
}

// Validate checks business invariants before persistence.
func (o *Order) Validate() error {
	if !o.Kind.Valid() {
		return apperror.NewUnsupportedOrderType(o.Kind.String())
	}
	if o.Counterparty == "" {
		return apperror.NewValidation("counterparty is required")
	}
	if o.Total.IsNegative() {
		return apperror.NewValidation("total must not be negative")
	}
	return nil
}
