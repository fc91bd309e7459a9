package payments

import (
	"context"

	"github.com/monaltech/saleor/internal/modules/checkout"
	"github.com/monaltech/saleor/internal/modules/orders"
)

// TransactionFilter narrows transaction lookups.
type TransactionFilter struct {
	PaymentID      string
	Token          string
	Kind           TransactionKind
	ActionRequired bool
	IsSuccess      bool
}

// Store is the persistence capability the reconciler and gateway adapter
// run against.
//
// Locking contract: PaymentByID, PaymentByReference and
// CheckoutForPayment must lock the returned row for update when called
// inside Atomic, so concurrent notify/return deliveries for the same
// payment serialize on the payment row. Lookups that find nothing return
// (nil, nil); errors are reserved for infrastructure failures.
//
// CompleteCheckout lives on the Store so order creation joins the same
// atomic transaction as the transaction upsert: a failed completion
// rolls back everything.
type Store interface {
	// Atomic runs fn against a Store bound to one database transaction,
	// committing only when fn returns nil.
	Atomic(ctx context.Context, fn func(Store) error) error

	PaymentByID(ctx context.Context, id string) (*Payment, error)
	PaymentByReference(ctx context.Context, reference string) (*Payment, error)
	CheckoutForPayment(ctx context.Context, p *Payment) (*checkout.Checkout, error)

	LastTransaction(ctx context.Context, f TransactionFilter) (*Transaction, error)
	CreateTransaction(ctx context.Context, t *Transaction) error
	SaveTransaction(ctx context.Context, t *Transaction, cols ...string) error
	SavePayment(ctx context.Context, p *Payment, cols ...string) error

	CompleteCheckout(ctx context.Context, ck *checkout.Checkout, response map[string]string) (*orders.Order, error)
	EnsureFinancialEntry(ctx context.Context, e *orders.FinancialEntry) error
}
