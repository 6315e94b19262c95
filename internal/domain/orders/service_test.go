package orders

import (
	"context"
	"testing"
	"time"

	"pharmos/internal/core/apperror"
	"pharmos/internal/core/id"
	"pharmos/internal/core/numbering"
	"pharmos/internal/core/types"
)

// Mock objects

type mockRepo struct {
	created []*Order
	byKey   map[string]*Order
}

func newMockRepo() *mockRepo {
	return &mockRepo{byKey: make(map[string]*Order)}
}

func (m *mockRepo) key(kind numbering.OrderType, number string) string {
	return kind.String() + "/" + number
}

func (m *mockRepo) Create(ctx context.Context, order *Order) error {
	m.created = append(m.created, order)
	m.byKey[m.key(order.Kind, order.Number)] = order
	return nil
}

func (m *mockRepo) GetByNumber(ctx context.Context, kind numbering.OrderType, number string) (*Order, error) {
	order, ok := m.byKey[m.key(kind, number)]
	if !ok {
		return nil, apperror.NewNotFound("order", number)
	}
	return order, nil
}

type mockRecorder struct {
	entries []string // "orderType/number/source"
}

func (m *mockRecorder) LogAllocation(ctx context.Context, orderType, number, source string, orderID id.ID, payload map[string]any) error {
	m.entries = append(m.entries, orderType+"/"+number+"/"+source)
	return nil
}

// noopTxManager runs fn directly; the real implementation wraps it in a
// database transaction.
type noopTxManager struct{}

func (noopTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func newTestService(t *testing.T, store *numbering.MockStore, recorder AllocationRecorder) (*Service, *mockRepo) {
	t.Helper()

	opts := numbering.DefaultRouterOptions()
	opts.Now = func() time.Time {
		return time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	}
	router, err := numbering.NewRouter(store, opts)
	if err != nil {
		t.Fatalf("NewRouter: %v", err)
	}

	repo := newMockRepo()
	return NewService(repo, router, recorder, noopTxManager{}), repo
}

func TestServiceCreateGeneratesNumber(t *testing.T) {
	ctx := context.Background()
	recorder := &mockRecorder{}
	svc, repo := newTestService(t, numbering.NewMockStore(), recorder)

	order := NewOrder(numbering.OrderTypeShipping, "Acme Logistics", types.MustMoney("150.00"))
	if err := svc.Create(ctx, order); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if order.Number != "20240315001" {
		t.Errorf("order number = %q, want %q", order.Number, "20240315001")
	}
	if id.IsNil(order.ID) {
		t.Error("order ID not assigned")
	}
	if len(repo.created) != 1 {
		t.Fatalf("expected 1 persisted order, got %d", len(repo.created))
	}
	if len(recorder.entries) != 1 || recorder.entries[0] != "shipping/20240315001/generated" {
		t.Errorf("unexpected audit entries: %v", recorder.entries)
	}
}

func TestServiceCreateSuppliedNumberKept(t *testing.T) {
	ctx := context.Background()
	recorder := &mockRecorder{}
	svc, _ := newTestService(t, numbering.NewMockStore(), recorder)

	order := NewOrder(numbering.OrderTypeSale, "Walk-in", types.MustMoney("9.99"))
	order.Number = "CUSTOM-1"
	if err := svc.Create(ctx, order); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if order.Number != "CUSTOM-1" {
		t.Errorf("order number = %q, want supplied value kept", order.Number)
	}
	if len(recorder.entries) != 1 || recorder.entries[0] != "sale/CUSTOM-1/supplied" {
		t.Errorf("unexpected audit entries: %v", recorder.entries)
	}
}

func TestServiceCreateDisambiguatesCollision(t *testing.T) {
	ctx := context.Background()
	store := numbering.NewMockStore()
	store.Add("sales", "sale_number", "CUSTOM-1")

	recorder := &mockRecorder{}
	svc, _ := newTestService(t, store, recorder)

	order := NewOrder(numbering.OrderTypeSale, "Walk-in", types.MustMoney("9.99"))
	order.Number = "CUSTOM-1"
	if err := svc.Create(ctx, order); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if order.Number != "CUSTOM-1-1" {
		t.Errorf("order number = %q, want %q", order.Number, "CUSTOM-1-1")
	}
	if len(recorder.entries) != 1 || recorder.entries[0] != "sale/CUSTOM-1-1/disambiguated" {
		t.Errorf("unexpected audit entries: %v", recorder.entries)
	}
}

func TestServiceCreateValidation(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestService(t, numbering.NewMockStore(), nil)

	order := NewOrder(numbering.OrderTypePurchase, "", types.Zero())
	err := svc.Create(ctx, order)
	if err == nil {
		t.Fatal("expected validation error")
	}
	appErr, ok := apperror.AsAppError(err)
	if !ok || appErr.Code != apperror.CodeValidation {
		t.Errorf("expected VALIDATION_ERROR, got %v", err)
	}
	if len(repo.created) != 0 {
		t.Error("invalid order must not be persisted")
	}
}

func TestServiceCreateWithoutRecorder(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, numbering.NewMockStore(), nil)

	order := NewOrder(numbering.OrderTypePurchase, "PharmaSupply GmbH", types.MustMoney("1200.50"))
	if err := svc.Create(ctx, order); err != nil {
		t.Fatalf("Create: %v", err)
	}
}

func TestServiceGetByNumber(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, numbering.NewMockStore(), nil)

	order := NewOrder(numbering.OrderTypePurchase, "PharmaSupply GmbH", types.MustMoney("1200.50"))
	if err := svc.Create(ctx, order); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := svc.GetByNumber(ctx, numbering.OrderTypePurchase, order.Number)
	if err != nil {
		t.Fatalf("GetByNumber: %v", err)
	}
	if got.ID != order.ID {
		t.Errorf("GetByNumber returned wrong order: %v", got.ID)
	}

	if _, err := svc.GetByNumber(ctx, numbering.OrderTypePurchase, "missing"); !apperror.IsNotFound(err) {
		t.Errorf("expected NOT_FOUND, got %v", err)
	}
}
