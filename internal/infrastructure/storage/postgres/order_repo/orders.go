// Package order_repo provides the PostgreSQL implementation of the orders
// repository. Each order kind lives in its own table with its own
// identifier column; both names come from the closed OrderType enum.
package order_repo

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"pharmos/internal/core/apperror"
	"pharmos/internal/core/id"
	"pharmos/internal/core/numbering"
	"pharmos/internal/core/types"
	"pharmos/internal/domain/orders"
	"pharmos/internal/infrastructure/storage/postgres"
)

// OrderRepo persists order records.
type OrderRepo struct {
	txManager *postgres.TxManager
}

// Ensure compile-time interface compliance.
var _ orders.Repository = (*OrderRepo)(nil)

// NewOrderRepo creates a new order repository.
func NewOrderRepo(txManager *postgres.TxManager) *OrderRepo {
	return &OrderRepo{txManager: txManager}
}

// Builder returns a new squirrel builder with PostgreSQL placeholder format.
func (r *OrderRepo) Builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// orderRow is the scan target; the kind-specific identifier column is
// aliased to "number" in every select.
type orderRow struct {
	ID           id.ID       `db:"id"`
	Number       string      `db:"number"`
	Counterparty string      `db:"counterparty"`
	OrderDate    time.Time   `db:"order_date"`
	Total        types.Money `db:"total"`
	Note         string      `db:"note"`
	CreatedAt    time.Time   `db:"created_at"`
	UpdatedAt    time.Time   `db:"updated_at"`
}

func (row *orderRow) toEntity(kind numbering.OrderType) *orders.Order {
	return &orders.Order{
		ID:           row.ID,
		Kind:         kind,
		Number:       row.Number,
		Counterparty: row.Counterparty,
		OrderDate:    row.OrderDate,
		Total:        row.Total,
		Note:         row.Note,
		CreatedAt:    row.CreatedAt,
		UpdatedAt:    row.UpdatedAt,
	}
}

// Create inserts a new order into the table of its kind.
func (r *OrderRepo) Create(ctx context.Context, order *orders.Order) error {
	kind := order.Kind

	q := r.Builder().
		Insert(kind.Table()).
		SetMap(map[string]any{
			"id":           order.ID,
			kind.Field():   order.Number,
			"counterparty": order.Counterparty,
			"order_date":   order.OrderDate,
			"total":        order.Total,
			"note":         order.Note,
			"created_at":   order.CreatedAt,
			"updated_at":   order.UpdatedAt,
		})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert %s: %w", kind.Table(), err)
	}

	return nil
}

// GetByNumber loads an order by its identifier.
func (r *OrderRepo) GetByNumber(ctx context.Context, kind numbering.OrderType, number string) (*orders.Order, error) {
	q := r.Builder().
		Select(
			"id",
			kind.Field()+" AS number",
			"counterparty",
			"order_date",
			"total",
			"note",
			"created_at",
			"updated_at",
		).
		From(kind.Table()).
		Where(squirrel.Eq{kind.Field(): number})

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var row orderRow
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &row, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound(kind.String()+" order", number)
		}
		return nil, fmt.Errorf("get %s by number: %w", kind.Table(), err)
	}

	return row.toEntity(kind), nil
}
