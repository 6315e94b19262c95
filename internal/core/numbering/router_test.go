package numbering

import (
	"context"
	"testing"
	"time"

	"pharmos/internal/core/apperror"
)

func TestParseOrderType(t *testing.T) {
	tests := []struct {
		in      string
		want    OrderType
		wantErr bool
	}{
		{"purchase", OrderTypePurchase, false},
		{"shipping", OrderTypeShipping, false},
		{"sale", OrderTypeSale, false},
		{"PURCHASE", OrderTypePurchase, false},
		{"  Sale ", OrderTypeSale, false},
		{"invoice", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseOrderType(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseOrderType(%q): expected error", tt.in)
			} else if !apperror.IsUnsupportedOrderType(err) {
				t.Errorf("ParseOrderType(%q): expected UNSUPPORTED_ORDER_TYPE, got %v", tt.in, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseOrderType(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseOrderType(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestOrderTypeMapping(t *testing.T) {
	tests := []struct {
		t     OrderType
		table string
		field string
	}{
		{OrderTypePurchase, "purchase_orders", "poid"},
		{OrderTypeShipping, "shipping_orders", "soid"},
		{OrderTypeSale, "sales", "sale_number"},
	}

	for _, tt := range tests {
		if got := tt.t.Table(); got != tt.table {
			t.Errorf("%s.Table() = %q, want %q", tt.t, got, tt.table)
		}
		if got := tt.t.Field(); got != tt.field {
			t.Errorf("%s.Field() = %q, want %q", tt.t, got, tt.field)
		}
	}
}

func newTestRouter(t *testing.T, store RecordStore, strategy Strategy) *Router {
	t.Helper()
	opts := DefaultRouterOptions()
	opts.Strategy = strategy
	opts.Now = func() time.Time { return testDay }

	r, err := NewRouter(store, opts)
	if err != nil {
		t.Fatalf("NewRouter: %v", err)
	}
	return r
}

func TestRouterGenerateRoutesPerType(t *testing.T) {
	ctx := context.Background()
	store := NewMockStore()
	store.Add("purchase_orders", "poid", "20240315004")
	store.Add("shipping_orders", "soid", "20240315009")

	r := newTestRouter(t, store, StrategyScan)

	tests := []struct {
		kind OrderType
		want string
	}{
		{OrderTypePurchase, "20240315005"},
		{OrderTypeShipping, "20240315010"},
		{OrderTypeSale, "20240315001"},
	}

	for _, tt := range tests {
		got, err := r.Generate(ctx, tt.kind, nil)
		if err != nil {
			t.Fatalf("Generate(%s): %v", tt.kind, err)
		}
		if got != tt.want {
			t.Errorf("Generate(%s) = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestRouterGenerateOverride(t *testing.T) {
	ctx := context.Background()
	r := newTestRouter(t, NewMockStore(), StrategyScan)

	override := &SequenceConfig{Prefix: "SO", ShortYear: true, Digits: 5, Start: 1}
	got, err := r.Generate(ctx, OrderTypeShipping, override)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if got != "SO24031500001" {
		t.Errorf("Generate() = %q, want %q", got, "SO24031500001")
	}

	if _, err := r.Generate(ctx, OrderTypeShipping, &SequenceConfig{Digits: 0}); err == nil {
		t.Error("expected error for invalid override config")
	}
}

func TestRouterRejectsUnknownType(t *testing.T) {
	ctx := context.Background()
	r := newTestRouter(t, NewMockStore(), StrategyCounter)

	if _, err := r.Generate(ctx, OrderType(99), nil); !apperror.IsUnsupportedOrderType(err) {
		t.Errorf("Generate: expected UNSUPPORTED_ORDER_TYPE, got %v", err)
	}
	if _, err := r.GenerateUnique(ctx, OrderType(99), "X"); !apperror.IsUnsupportedOrderType(err) {
		t.Errorf("GenerateUnique: expected UNSUPPORTED_ORDER_TYPE, got %v", err)
	}
	if err := r.SeedCounter(ctx, OrderType(99), testDay); !apperror.IsUnsupportedOrderType(err) {
		t.Errorf("SeedCounter: expected UNSUPPORTED_ORDER_TYPE, got %v", err)
	}
}

func TestRouterIsUnique(t *testing.T) {
	ctx := context.Background()
	store := NewMockStore()
	store.Add("sales", "sale_number", "20240315001")

	r := newTestRouter(t, store, StrategyCounter)

	unique, err := r.IsUnique(ctx, OrderTypeSale, "20240315001")
	if err != nil {
		t.Fatalf("IsUnique: %v", err)
	}
	if unique {
		t.Error("existing value reported unique")
	}

	unique, err = r.IsUnique(ctx, OrderTypeSale, "20240315002")
	if err != nil {
		t.Fatalf("IsUnique: %v", err)
	}
	if !unique {
		t.Error("free value reported taken")
	}
}

func TestRouterGenerateUnique(t *testing.T) {
	ctx := context.Background()
	store := NewMockStore()
	store.Add("purchase_orders", "poid", "PO-7", "PO-7-1")

	r := newTestRouter(t, store, StrategyCounter)

	got, err := r.GenerateUnique(ctx, OrderTypePurchase, "PO-7")
	if err != nil {
		t.Fatalf("GenerateUnique: %v", err)
	}
	if got != "PO-7-2" {
		t.Errorf("GenerateUnique() = %q, want %q", got, "PO-7-2")
	}
}

func TestRouterSeedCounter(t *testing.T) {
	ctx := context.Background()
	store := NewMockStore()
	store.Add("sales", "sale_number", "20240315007")

	r := newTestRouter(t, store, StrategyCounter)

	if err := r.SeedCounter(ctx, OrderTypeSale, testDay); err != nil {
		t.Fatalf("SeedCounter: %v", err)
	}

	// Counter continues after the latest existing record.
	got, err := r.Generate(ctx, OrderTypeSale, nil)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if got != "20240315008" {
		t.Errorf("Generate after seed = %q, want %q", got, "20240315008")
	}
}
