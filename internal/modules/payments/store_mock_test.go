package payments

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/monaltech/saleor/internal/modules/checkout"
	"github.com/monaltech/saleor/internal/modules/orders"
)

// mockStore implements Store for reconciler and gateway tests. Atomic
// runs the callback against the mock itself.
type mockStore struct {
	mock.Mock
}

func (m *mockStore) Atomic(ctx context.Context, fn func(Store) error) error {
	args := m.Called(ctx)
	if err := args.Error(0); err != nil {
		return err
	}
	return fn(m)
}

func (m *mockStore) PaymentByID(ctx context.Context, id string) (*Payment, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(*Payment)
	return p, args.Error(1)
}

func (m *mockStore) PaymentByReference(ctx context.Context, reference string) (*Payment, error) {
	args := m.Called(ctx, reference)
	p, _ := args.Get(0).(*Payment)
	return p, args.Error(1)
}

func (m *mockStore) CheckoutForPayment(ctx context.Context, p *Payment) (*checkout.Checkout, error) {
	args := m.Called(ctx, p)
	ck, _ := args.Get(0).(*checkout.Checkout)
	return ck, args.Error(1)
}

func (m *mockStore) LastTransaction(ctx context.Context, f TransactionFilter) (*Transaction, error) {
	args := m.Called(ctx, f)
	t, _ := args.Get(0).(*Transaction)
	return t, args.Error(1)
}

func (m *mockStore) CreateTransaction(ctx context.Context, t *Transaction) error {
	return m.Called(ctx, t).Error(0)
}

func (m *mockStore) SaveTransaction(ctx context.Context, t *Transaction, cols ...string) error {
	return m.Called(ctx, t, cols).Error(0)
}

func (m *mockStore) SavePayment(ctx context.Context, p *Payment, cols ...string) error {
	return m.Called(ctx, p, cols).Error(0)
}

func (m *mockStore) CompleteCheckout(ctx context.Context, ck *checkout.Checkout, response map[string]string) (*orders.Order, error) {
	args := m.Called(ctx, ck, response)
	o, _ := args.Get(0).(*orders.Order)
	return o, args.Error(1)
}

func (m *mockStore) EnsureFinancialEntry(ctx context.Context, e *orders.FinancialEntry) error {
	return m.Called(ctx, e).Error(0)
}
