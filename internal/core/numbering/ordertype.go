package numbering

import (
	"strings"

	"pharmos/internal/core/apperror"
)

// OrderType is the closed set of order kinds that carry generated numbers.
// Each variant knows its own table and identifier column, so adding a new
// kind requires an explicit code change here rather than a string match
// that can silently fall through.
type OrderType int

const (
	// OrderTypePurchase is a purchase order placed with a supplier.
	OrderTypePurchase OrderType = iota
	// OrderTypeShipping is an outbound shipping order.
	OrderTypeShipping
	// OrderTypeSale is a point-of-sale transaction.
	OrderTypeSale
)

// ParseOrderType resolves a caller-supplied kind string.
// Matching is case-insensitive; unknown kinds are rejected,
// never mapped to a default.
func ParseOrderType(s string) (OrderType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "purchase":
		return OrderTypePurchase, nil
	case "shipping":
		return OrderTypeShipping, nil
	case "sale":
		return OrderTypeSale, nil
	default:
		return 0, apperror.NewUnsupportedOrderType(s)
	}
}

// String returns the canonical lowercase name.
func (t OrderType) String() string {
	switch t {
	case OrderTypePurchase:
		return "purchase"
	case OrderTypeShipping:
		return "shipping"
	case OrderTypeSale:
		return "sale"
	default:
		return "unknown"
	}
}

// Table returns the record table holding this order kind.
func (t OrderType) Table() string {
	switch t {
	case OrderTypePurchase:
		return "purchase_orders"
	case OrderTypeShipping:
		return "shipping_orders"
	default:
		return "sales"
	}
}

// Field returns the identifier column for this order kind.
func (t OrderType) Field() string {
	switch t {
	case OrderTypePurchase:
		return "poid"
	case OrderTypeShipping:
		return "soid"
	default:
		return "sale_number"
	}
}

// Valid reports whether t is one of the known variants.
func (t OrderType) Valid() bool {
	return t == OrderTypePurchase || t == OrderTypeShipping || t == OrderTypeSale
}

// DefaultConfig returns the numbering configuration for this order kind.
func (t OrderType) DefaultConfig() SequenceConfig {
	return DefaultSequenceConfig()
}
