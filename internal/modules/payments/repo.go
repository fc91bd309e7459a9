package payments

import (
	"context"
	"errors"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/monaltech/saleor/internal/modules/checkout"
	"github.com/monaltech/saleor/internal/modules/orders"
)

// Repo is the gorm/MySQL Store.
type Repo struct {
	db *gorm.DB
}

func NewRepo(db *gorm.DB) *Repo { return &Repo{db: db} }

// DB returns the underlying database connection for direct queries.
func (r *Repo) DB() *gorm.DB { return r.db }

// Atomic retries once on a MySQL deadlock or lock wait timeout; the
// retried attempt runs against a fresh transaction.
func (r *Repo) Atomic(ctx context.Context, fn func(Store) error) error {
	run := func() error {
		return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return fn(&Repo{db: tx})
		})
	}
	err := run()
	if isDeadlock(err) {
		return run()
	}
	return err
}

// PaymentByID locks the payment row (SELECT ... FOR UPDATE) when called
// inside Atomic.
func (r *Repo) PaymentByID(ctx context.Context, id string) (*Payment, error) {
	var p Payment
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&p, "id = ? AND gateway = ?", id, GatewayID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *Repo) PaymentByReference(ctx context.Context, reference string) (*Payment, error) {
	var p Payment
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&p, "reference = ? AND gateway = ?", reference, GatewayID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *Repo) CheckoutForPayment(ctx context.Context, p *Payment) (*checkout.Checkout, error) {
	if p.CheckoutID == nil {
		return nil, nil
	}
	var ck checkout.Checkout
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&ck, "id = ?", *p.CheckoutID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &ck, nil
}

func (r *Repo) LastTransaction(ctx context.Context, f TransactionFilter) (*Transaction, error) {
	var t Transaction
	err := r.db.WithContext(ctx).
		Where("payment_id = ? AND token = ? AND kind = ? AND action_required = ? AND is_success = ?",
			f.PaymentID, f.Token, f.Kind, f.ActionRequired, f.IsSuccess).
		Order("created_at DESC").
		First(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// CreateTransaction inserts a transaction row. A unique key on
// (payment_id, token, kind) turns concurrent duplicate deliveries into
// ErrDuplicateTransaction instead of double rows.
func (r *Repo) CreateTransaction(ctx context.Context, t *Transaction) error {
	if err := r.db.WithContext(ctx).Create(t).Error; err != nil {
		if isDup(err) {
			return ErrDuplicateTransaction
		}
		return err
	}
	return nil
}

func (r *Repo) SaveTransaction(ctx context.Context, t *Transaction, cols ...string) error {
	if len(cols) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(t).
		Select(cols).
		Updates(t).Error
}

func (r *Repo) SavePayment(ctx context.Context, p *Payment, cols ...string) error {
	if len(cols) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(p).
		Select(cols).
		Updates(p).Error
}

func (r *Repo) CompleteCheckout(ctx context.Context, ck *checkout.Checkout, response map[string]string) (*orders.Order, error) {
	return checkout.CompleteInTx(ctx, r.db, ck, response)
}

// EnsureFinancialEntry writes a ledger entry once per
// (ref_type, ref_id, event).
func (r *Repo) EnsureFinancialEntry(ctx context.Context, e *orders.FinancialEntry) error {
	var cnt int64
	if err := r.db.WithContext(ctx).
		Model(&orders.FinancialEntry{}).
		Where("ref_type = ? AND ref_id = ? AND event = ?", e.RefType, e.RefID, e.Event).
		Count(&cnt).Error; err != nil {
		return err
	}
	if cnt > 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(e).Error
}

func isDup(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == 1062
}

func isDeadlock(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && (me.Number == 1213 || me.Number == 1205)
}
