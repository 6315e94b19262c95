package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"pharmos/internal/core/numbering"
)

// OrderStore implements numbering.RecordStore on PostgreSQL.
// Table and field names always come from the closed OrderType enum,
// never from caller input, so they are interpolated, not parameterized.
type OrderStore struct {
	txManager *TxManager
}

// Ensure compile-time interface compliance.
var _ numbering.RecordStore = (*OrderStore)(nil)

// NewOrderStore creates a record store backed by the given transaction manager.
// Reads participate in an active transaction when one is present in context.
func NewOrderStore(txManager *TxManager) *OrderStore {
	return &OrderStore{txManager: txManager}
}

// builder returns a new squirrel builder with PostgreSQL placeholder format.
func (s *OrderStore) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// latestByPrefixQuery builds the same-day scan: the lexicographically
// greatest identifier sharing the fixed-width prefix.
func (s *OrderStore) latestByPrefixQuery(table, field, prefix string) squirrel.SelectBuilder {
	return s.builder().
		Select(field).
		From(table).
		Where(squirrel.Like{field: prefix + "%"}).
		OrderBy(field + " DESC").
		Limit(1)
}

// existsQuery builds the exact-match existence probe.
func (s *OrderStore) existsQuery(table, field, value string) squirrel.SelectBuilder {
	return s.builder().
		Select("1").
		From(table).
		Where(squirrel.Eq{field: value}).
		Limit(1)
}

// FindLatestByPrefix implements numbering.RecordStore.
func (s *OrderStore) FindLatestByPrefix(ctx context.Context, table, field, prefix string) (string, bool, error) {
	sql, args, err := s.latestByPrefixQuery(table, field, prefix).ToSql()
	if err != nil {
		return "", false, fmt.Errorf("build latest query: %w", err)
	}

	var value string
	err = s.txManager.GetQuerier(ctx).QueryRow(ctx, sql, args...).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("latest %s by prefix: %w", field, err)
	}
	return value, true, nil
}

// Exists implements numbering.RecordStore.
func (s *OrderStore) Exists(ctx context.Context, table, field, value string) (bool, error) {
	sql, args, err := s.existsQuery(table, field, value).ToSql()
	if err != nil {
		return false, fmt.Errorf("build exists query: %w", err)
	}

	var one int
	err = s.txManager.GetQuerier(ctx).QueryRow(ctx, sql, args...).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("exists %s: %w", field, err)
	}
	return true, nil
}

// NextCounter implements numbering.RecordStore using UPSERT + RETURNING,
// which PostgreSQL guarantees atomic: concurrent callers each observe a
// distinct value.
func (s *OrderStore) NextCounter(ctx context.Context, key string) (int64, error) {
	var num int64
	err := s.txManager.GetQuerier(ctx).QueryRow(ctx, `
        INSERT INTO order_counters (key, current_val)
        VALUES ($1, 1)
        ON CONFLICT (key) DO UPDATE SET current_val = order_counters.current_val + 1
        RETURNING current_val
	`, key).Scan(&num)
	if err != nil {
		return 0, fmt.Errorf("next counter: %w", err)
	}
	return num, nil
}

// SetCounter implements numbering.RecordStore (migration/seeding).
func (s *OrderStore) SetCounter(ctx context.Context, key string, value int64) error {
	var result int64
	err := s.txManager.GetQuerier(ctx).QueryRow(ctx, `
		INSERT INTO order_counters (key, current_val)
		VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET current_val = EXCLUDED.current_val
		RETURNING current_val
	`, key, value).Scan(&result)
	if err != nil {
		return fmt.Errorf("set counter: %w", err)
	}
	return nil
}
