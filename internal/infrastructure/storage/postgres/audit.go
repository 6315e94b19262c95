// Package postgres provides PostgreSQL infrastructure components.
package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/klauspost/compress/zstd"

	"pharmos/internal/core/id"
)

// AllocationSource records how an order number came to exist.
type AllocationSource string

const (
	// SourceGenerated: minted fresh by the allocator.
	SourceGenerated AllocationSource = "generated"
	// SourceDisambiguated: caller-supplied base, suffixed until unique.
	SourceDisambiguated AllocationSource = "disambiguated"
	// SourceSupplied: caller-supplied and accepted as-is.
	SourceSupplied AllocationSource = "supplied"
)

// CompressionAlgo specifies the compression algorithm used.
type CompressionAlgo string

const (
	CompressionNone CompressionAlgo = "none"
	CompressionZstd CompressionAlgo = "zstd"
)

// AllocationEntry is one row of the number allocation audit trail.
// Payload holds free-form request context (client, override config, base
// identifier); large payloads are zstd-compressed before insert.
type AllocationEntry struct {
	ID                id.ID            `db:"id"`
	OrderType         string           `db:"order_type"`
	Number            string           `db:"number"`
	Source            AllocationSource `db:"source"`
	OrderID           id.ID            `db:"order_id"`
	Payload           json.RawMessage  `db:"payload"`
	PayloadCompressed []byte           `db:"payload_compressed"`
	CompressionAlgo   CompressionAlgo  `db:"compression_algo"`
	CreatedAt         time.Time        `db:"created_at"`
}

// AllocationAudit persists the allocation audit trail.
type AllocationAudit struct {
	txManager         *TxManager
	encoder           *zstd.Encoder
	decoder           *zstd.Decoder
	compressThreshold int // bytes, default 10KB
}

// NewAllocationAudit creates the audit service.
func NewAllocationAudit(txManager *TxManager) (*AllocationAudit, error) {
	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}

	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}

	return &AllocationAudit{
		txManager:         txManager,
		encoder:           encoder,
		decoder:           decoder,
		compressThreshold: 10 * 1024, // 10KB
	}, nil
}

// Log records an allocation entry. Runs on the querier from context, so it
// joins the order-creation transaction when called inside one.
func (s *AllocationAudit) Log(ctx context.Context, entry AllocationEntry) error {
	if id.IsNil(entry.ID) {
		entry.ID = id.New()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	// Compress large payloads
	entry.CompressionAlgo = CompressionNone
	if len(entry.Payload) > s.compressThreshold {
		entry.PayloadCompressed = s.encoder.EncodeAll(entry.Payload, nil)
		entry.Payload = nil
		entry.CompressionAlgo = CompressionZstd
	}

	sql := `
		INSERT INTO number_audit (
			id, order_type, number, source, order_id,
			payload, payload_compressed, compression_algo, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	querier := s.txManager.GetQuerier(ctx)
	_, err := querier.Exec(ctx, sql,
		entry.ID, entry.OrderType, entry.Number, entry.Source, entry.OrderID,
		entry.Payload, entry.PayloadCompressed, entry.CompressionAlgo,
		entry.CreatedAt,
	)

	return err
}

// LogAllocation is a convenience method for recording an issued number.
func (s *AllocationAudit) LogAllocation(
	ctx context.Context,
	orderType, number, source string,
	orderID id.ID,
	payload map[string]any,
) error {
	var raw json.RawMessage
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal payload: %w", err)
		}
		raw = b
	}

	return s.Log(ctx, AllocationEntry{
		OrderType: orderType,
		Number:    number,
		Source:    AllocationSource(source),
		OrderID:   orderID,
		Payload:   raw,
	})
}

// History retrieves the audit trail for one order type, newest first.
func (s *AllocationAudit) History(ctx context.Context, orderType string, limit int) ([]AllocationEntry, error) {
	sql := `
		SELECT id, order_type, number, source, order_id,
			   payload, payload_compressed, compression_algo, created_at
		FROM number_audit
		WHERE order_type = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := s.txManager.GetQuerier(ctx).Query(ctx, sql, orderType, limit)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var entries []AllocationEntry
	for rows.Next() {
		var e AllocationEntry
		err := rows.Scan(
			&e.ID, &e.OrderType, &e.Number, &e.Source, &e.OrderID,
			&e.Payload, &e.PayloadCompressed, &e.CompressionAlgo, &e.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}

		// Decompress if needed
		if e.CompressionAlgo == CompressionZstd && len(e.PayloadCompressed) > 0 {
			decompressed, err := s.decoder.DecodeAll(e.PayloadCompressed, nil)
			if err != nil {
				return nil, fmt.Errorf("decompress payload: %w", err)
			}
			e.Payload = decompressed
			e.PayloadCompressed = nil
		}

		entries = append(entries, e)
	}

	return entries, rows.Err()
}
