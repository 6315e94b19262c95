package numbering

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"pharmos/internal/core/apperror"
)

func TestEnsureUniqueBaseFree(t *testing.T) {
	store := NewMockStore()

	got, err := EnsureUnique(context.Background(), store, "sales", "sale_number", "20240315001", 10)
	if err != nil {
		t.Fatalf("EnsureUnique: %v", err)
	}
	if got != "20240315001" {
		t.Errorf("EnsureUnique() = %q, want base unchanged", got)
	}
}

func TestEnsureUniqueSuffixProbing(t *testing.T) {
	store := NewMockStore()
	store.Add("sales", "sale_number", "20240315001")

	got, err := EnsureUnique(context.Background(), store, "sales", "sale_number", "20240315001", 10)
	if err != nil {
		t.Fatalf("EnsureUnique: %v", err)
	}
	if got != "20240315001-1" {
		t.Errorf("EnsureUnique() = %q, want %q", got, "20240315001-1")
	}

	// First suffix taken too, probing continues to -2.
	store.Add("sales", "sale_number", "20240315001-1")

	got, err = EnsureUnique(context.Background(), store, "sales", "sale_number", "20240315001", 10)
	if err != nil {
		t.Fatalf("EnsureUnique: %v", err)
	}
	if got != "20240315001-2" {
		t.Errorf("EnsureUnique() = %q, want %q", got, "20240315001-2")
	}
}

func TestEnsureUniqueExhaustion(t *testing.T) {
	store := NewMockStore()
	store.Add("sales", "sale_number", "X")
	for i := 1; i <= 3; i++ {
		store.Add("sales", "sale_number", fmt.Sprintf("X-%d", i))
	}

	_, err := EnsureUnique(context.Background(), store, "sales", "sale_number", "X", 3)
	if err == nil {
		t.Fatal("expected exhaustion error")
	}
	if !apperror.IsUniquenessExhausted(err) {
		t.Errorf("expected UNIQUENESS_EXHAUSTED, got %v", err)
	}
}

func TestEnsureUniqueStoreError(t *testing.T) {
	store := NewMockStore()
	store.Err = errors.New("connection reset")

	_, err := EnsureUnique(context.Background(), store, "sales", "sale_number", "X", 3)
	if err == nil {
		t.Fatal("expected store error to propagate")
	}
	if apperror.IsUniquenessExhausted(err) {
		t.Error("store error must not be reported as exhaustion")
	}
}
