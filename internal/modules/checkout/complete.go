package checkout

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/monaltech/saleor/internal/modules/orders"
)

var ErrNotCompletable = errors.New("checkout not completable")

// CompleteInTx turns a checkout into an order. It runs inside an
// externally provided tx (no nested tx) so the caller's reconciliation
// transaction stays atomic; the checkout row must already be locked by
// the caller.
//
// Idempotent: a checkout already completed resolves to its existing
// order instead of creating a second one.
func CompleteInTx(ctx context.Context, tx *gorm.DB, ck *Checkout, response map[string]string) (*orders.Order, error) {
	if ck.Status == StatusCompleted {
		var existing orders.Order
		err := tx.WithContext(ctx).First(&existing, "checkout_id = ?", ck.ID).Error
		if err == nil {
			return &existing, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		return nil, ErrNotCompletable
	}
	if ck.Status != StatusOpen {
		return nil, ErrNotCompletable
	}

	now := time.Now()
	order := orders.Order{
		ID:         uuid.NewString(),
		CheckoutID: &ck.ID,
		UserID:     ck.UserID,
		TotalCents: ck.TotalCents,
		Currency:   ck.Currency,
		Status:     orders.StatusCreated,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if ck.UserID == nil && ck.Email != "" {
		email := ck.Email
		order.GuestEmail = &email
	}
	if err := tx.WithContext(ctx).Create(&order).Error; err != nil {
		return nil, err
	}

	completed := now
	if err := tx.WithContext(ctx).Model(&Checkout{}).
		Where("id = ?", ck.ID).
		Updates(map[string]any{
			"status":       StatusCompleted,
			"completed_at": &completed,
			"updated_at":   now,
		}).Error; err != nil {
		return nil, err
	}

	ck.Status = StatusCompleted
	ck.CompletedAt = &completed
	return &order, nil
}
