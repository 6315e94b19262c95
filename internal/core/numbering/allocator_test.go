package numbering

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"pharmos/internal/core/apperror"
)

var testDay = time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

func newScanAllocator(t *testing.T, store RecordStore, cfg SequenceConfig) *Allocator {
	t.Helper()
	a, err := NewAllocator(store, "shipping_orders", "soid", cfg, StrategyScan)
	if err != nil {
		t.Fatalf("NewAllocator: %v", err)
	}
	return a
}

func TestNewAllocatorValidation(t *testing.T) {
	cfg := DefaultSequenceConfig()

	if _, err := NewAllocator(nil, "t", "f", cfg, StrategyScan); err == nil {
		t.Error("expected error for nil store")
	}
	if _, err := NewAllocator(NewMockStore(), "", "f", cfg, StrategyScan); err == nil {
		t.Error("expected error for empty table")
	}
	if _, err := NewAllocator(NewMockStore(), "t", "", cfg, StrategyScan); err == nil {
		t.Error("expected error for empty field")
	}
	if _, err := NewAllocator(NewMockStore(), "t", "f", SequenceConfig{Digits: 0}, StrategyScan); err == nil {
		t.Error("expected error for invalid config")
	}
}

func TestAllocateScan(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		cfg      SequenceConfig
		existing []string
		want     string
	}{
		{
			name: "empty store starts at Start",
			cfg:  SequenceConfig{Prefix: "SO", Digits: 3, Start: 1},
			want: "SO20240315001",
		},
		{
			name:     "increments latest same-day value",
			cfg:      SequenceConfig{Digits: 3, Start: 1},
			existing: []string{"20240315007", "20240315003"},
			want:     "20240315008",
		},
		{
			name:     "wraps 999 back to Start",
			cfg:      SequenceConfig{Digits: 3, Start: 1},
			existing: []string{"20240315999"},
			want:     "20240315001",
		},
		{
			name:     "malformed tail restarts at Start",
			cfg:      SequenceConfig{Prefix: "SO", Digits: 3, Start: 1},
			existing: []string{"SO20240315ABC"},
			want:     "SO20240315001",
		},
		{
			name:     "legacy garbage with numeric tail still increments",
			cfg:      SequenceConfig{Digits: 3, Start: 1},
			existing: []string{"20240315-ABC-010"},
			want:     "20240315011",
		},
		{
			name:     "previous day records are ignored",
			cfg:      SequenceConfig{Digits: 3, Start: 1},
			existing: []string{"20240314042"},
			want:     "20240315001",
		},
		{
			name:     "short year layout",
			cfg:      SequenceConfig{ShortYear: true, Digits: 3, Start: 1},
			existing: []string{"240315004"},
			want:     "240315005",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := NewMockStore()
			store.Add("shipping_orders", "soid", tt.existing...)

			a := newScanAllocator(t, store, tt.cfg)
			got, err := a.Allocate(ctx, testDay)
			if err != nil {
				t.Fatalf("Allocate: %v", err)
			}
			if got != tt.want {
				t.Errorf("Allocate() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAllocateScanStoreError(t *testing.T) {
	store := NewMockStore()
	store.Err = errors.New("connection reset")

	a := newScanAllocator(t, store, DefaultSequenceConfig())
	if _, err := a.Allocate(context.Background(), testDay); err == nil {
		t.Fatal("expected store error to propagate")
	}
}

func TestAllocateCounterSequence(t *testing.T) {
	ctx := context.Background()
	store := NewMockStore()

	a, err := NewAllocator(store, "purchase_orders", "poid", DefaultSequenceConfig(), StrategyCounter)
	if err != nil {
		t.Fatalf("NewAllocator: %v", err)
	}

	want := []string{"20240315001", "20240315002", "20240315003"}
	for i, w := range want {
		got, err := a.Allocate(ctx, testDay)
		if err != nil {
			t.Fatalf("Allocate #%d: %v", i+1, err)
		}
		if got != w {
			t.Errorf("Allocate #%d = %q, want %q", i+1, got, w)
		}
	}

	// A different day gets its own counter.
	nextDay := testDay.AddDate(0, 0, 1)
	got, err := a.Allocate(ctx, nextDay)
	if err != nil {
		t.Fatalf("Allocate next day: %v", err)
	}
	if got != "20240316001" {
		t.Errorf("Allocate next day = %q, want %q", got, "20240316001")
	}
}

func TestAllocateCounterWraparound(t *testing.T) {
	ctx := context.Background()
	store := NewMockStore()

	cfg := SequenceConfig{Digits: 3, Start: 1}
	a, err := NewAllocator(store, "purchase_orders", "poid", cfg, StrategyCounter)
	if err != nil {
		t.Fatalf("NewAllocator: %v", err)
	}

	// 999 values consumed today; the next allocation wraps to Start.
	key := CounterKey("poid", DatePrefix(testDay, cfg))
	if err := store.SetCounter(ctx, key, 999); err != nil {
		t.Fatalf("SetCounter: %v", err)
	}

	got, err := a.Allocate(ctx, testDay)
	if err != nil {
		t.Fatalf("Allocate: %v", err)
	}
	if got != "20240315001" {
		t.Errorf("Allocate after exhaustion = %q, want %q", got, "20240315001")
	}
}

func TestAllocateCounterConcurrent(t *testing.T) {
	ctx := context.Background()
	store := NewMockStore()

	a, err := NewAllocator(store, "sales", "sale_number", DefaultSequenceConfig(), StrategyCounter)
	if err != nil {
		t.Fatalf("NewAllocator: %v", err)
	}

	const n = 50
	var wg sync.WaitGroup
	results := make(chan string, n)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			num, err := a.Allocate(ctx, testDay)
			if err != nil {
				t.Errorf("Allocate: %v", err)
				return
			}
			results <- num
		}()
	}
	wg.Wait()
	close(results)

	seen := make(map[string]bool, n)
	for num := range results {
		if seen[num] {
			t.Errorf("duplicate identifier allocated: %s", num)
		}
		seen[num] = true
	}
	if len(seen) != n {
		t.Errorf("expected %d distinct identifiers, got %d", n, len(seen))
	}
}

func TestCounterKey(t *testing.T) {
	if got := CounterKey("poid", "20240315"); got != "poid:20240315" {
		t.Errorf("CounterKey() = %q, want %q", got, "poid:20240315")
	}
}

func TestConfigurationErrorsCarryCode(t *testing.T) {
	_, err := NewAllocator(nil, "t", "f", DefaultSequenceConfig(), StrategyScan)
	appErr, ok := apperror.AsAppError(err)
	if !ok {
		t.Fatalf("expected AppError, got %T", err)
	}
	if appErr.Code != apperror.CodeConfiguration {
		t.Errorf("error code = %s, want %s", appErr.Code, apperror.CodeConfiguration)
	}
}
