package dto

import (
	"encoding/json"
	"time"

	"pharmos/internal/core/id"
	"pharmos/internal/core/numbering"
	"pharmos/internal/core/types"
	"pharmos/internal/domain/orders"
	"pharmos/internal/infrastructure/storage/postgres"
)

// --- Number generation ---

// SequenceConfigDTO optionally overrides the per-type numbering defaults.
type SequenceConfigDTO struct {
	Prefix    string `json:"prefix"`
	ShortYear bool   `json:"shortYear"`
	Digits    int    `json:"digits" binding:"omitempty,min=1"`
	Start     int    `json:"start" binding:"omitempty,min=0"`
}

// ToConfig maps the DTO to the domain configuration.
func (d SequenceConfigDTO) ToConfig() numbering.SequenceConfig {
	cfg := numbering.SequenceConfig{
		Prefix:    d.Prefix,
		ShortYear: d.ShortYear,
		Digits:    d.Digits,
		Start:     d.Start,
	}
	if cfg.Digits == 0 {
		cfg.Digits = numbering.DefaultSequenceConfig().Digits
	}
	return cfg
}

// GenerateNumberRequest is the body for POST /orders/:type/number.
type GenerateNumberRequest struct {
	Config *SequenceConfigDTO `json:"config"`
}

// UniqueNumberRequest is the body for POST /orders/:type/number/unique.
type UniqueNumberRequest struct {
	Base string `json:"base" binding:"required"`
}

// NumberResponse carries a generated identifier.
type NumberResponse struct {
	OrderType string `json:"orderType"`
	Number    string `json:"number"`
}

// CheckNumberResponse reports candidate availability.
type CheckNumberResponse struct {
	OrderType string `json:"orderType"`
	Candidate string `json:"candidate"`
	Unique    bool   `json:"unique"`
}

// --- Orders ---

// CreateOrderRequest is the body for POST /orders.
type CreateOrderRequest struct {
	Kind         string `json:"kind" binding:"required"`
	Number       string `json:"number"`
	Counterparty string `json:"counterparty" binding:"required"`
	OrderDate    string `json:"orderDate"`
	Total        string `json:"total"`
	Note         string `json:"note"`
}

// ToEntity maps the request to a domain order.
// Kind is resolved separately so unsupported values surface as a typed error.
func (r CreateOrderRequest) ToEntity(kind numbering.OrderType) (*orders.Order, error) {
	total := types.Zero()
	if r.Total != "" {
		var err error
		total, err = types.NewMoneyFromString(r.Total)
		if err != nil {
			return nil, err
		}
	}

	order := orders.NewOrder(kind, r.Counterparty, total)
	order.Number = r.Number
	order.Note = r.Note

	if r.OrderDate != "" {
		d, err := time.Parse("2006-01-02", r.OrderDate)
		if err != nil {
			return nil, err
		}
		order.OrderDate = d
	}

	return order, nil
}

// OrderResponse is the API shape of an order.
type OrderResponse struct {
	ID           string    `json:"id"`
	Kind         string    `json:"kind"`
	Number       string    `json:"number"`
	Counterparty string    `json:"counterparty"`
	OrderDate    time.Time `json:"orderDate"`
	Total        string    `json:"total"`
	Note         string    `json:"note,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// FromOrder maps a domain order to its API shape.
func FromOrder(o *orders.Order) OrderResponse {
	return OrderResponse{
		ID:           o.ID.String(),
		Kind:         o.Kind.String(),
		Number:       o.Number,
		Counterparty: o.Counterparty,
		OrderDate:    o.OrderDate,
		Total:        o.Total.String(),
		Note:         o.Note,
		CreatedAt:    o.CreatedAt,
		UpdatedAt:    o.UpdatedAt,
	}
}

// --- Allocation audit ---

// AllocationEntryResponse is one row of the allocation trail.
type AllocationEntryResponse struct {
	ID        string          `json:"id"`
	OrderType string          `json:"orderType"`
	Number    string          `json:"number"`
	Source    string          `json:"source"`
	OrderID   string          `json:"orderId,omitempty"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
}

// FromAllocationEntry maps an audit entry to its API shape.
func FromAllocationEntry(e postgres.AllocationEntry) AllocationEntryResponse {
	resp := AllocationEntryResponse{
		ID:        e.ID.String(),
		OrderType: e.OrderType,
		Number:    e.Number,
		Source:    string(e.Source),
		Payload:   e.Payload,
		CreatedAt: e.CreatedAt,
	}
	if !id.IsNil(e.OrderID) {
		resp.OrderID = e.OrderID.String()
	}
	return resp
}
