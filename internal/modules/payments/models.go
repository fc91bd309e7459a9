package payments

import (
	"time"

	"gorm.io/datatypes"
)

// GatewayID identifies this gateway on payment rows so other gateways'
// payments are never touched by this reconciler.
const GatewayID = "monaltech.payments.cybersource"

type Payment struct {
	ID      string `gorm:"type:char(36);primaryKey"`
	Gateway string `gorm:"type:varchar(64);not null;uniqueIndex:ux_payments_gateway_reference,priority:1"`

	// Reference is the reference_number sent to the gateway and echoed
	// back on notifications (the order id when known, else the payment
	// id).
	Reference string `gorm:"type:varchar(64);not null;uniqueIndex:ux_payments_gateway_reference,priority:2"`

	Token string `gorm:"type:varchar(64);not null"`

	CheckoutID *string `gorm:"type:char(36);index:ix_payments_checkout_id"`
	OrderID    *string `gorm:"type:char(36);index:ix_payments_order_id"`

	ToConfirm bool `gorm:"not null"`
	IsActive  bool `gorm:"not null;default:1"`

	TotalCents int    `gorm:"not null"`
	Currency   string `gorm:"type:char(3);not null"`

	CreatedAt time.Time `gorm:"type:datetime(3);not null"`
	UpdatedAt time.Time `gorm:"type:datetime(3);not null"`
}

func (Payment) TableName() string { return "payments" }

// Transaction is one recorded step of a payment attempt. Appended or
// updated by the reconciler, never deleted.
type Transaction struct {
	ID        string `gorm:"type:char(36);primaryKey"`
	PaymentID string `gorm:"type:char(36);not null;index:ix_transactions_payment_id;uniqueIndex:ux_transactions_payment_token_kind,priority:1"`

	Kind  TransactionKind `gorm:"type:varchar(32);not null;uniqueIndex:ux_transactions_payment_token_kind,priority:3"`
	Token string          `gorm:"type:varchar(64);not null;uniqueIndex:ux_transactions_payment_token_kind,priority:2"`

	ActionRequired bool `gorm:"not null"`
	IsSuccess      bool `gorm:"not null"`

	SearchableKey string `gorm:"type:varchar(64);index:ix_transactions_searchable_key"`

	Amount   string `gorm:"type:varchar(32);not null"`
	Currency string `gorm:"type:char(3);not null"`

	RawResponse datatypes.JSON `gorm:"type:json"`
	Error       *string        `gorm:"type:varchar(255)"`

	CreatedAt time.Time `gorm:"type:datetime(3);not null"`
	UpdatedAt time.Time `gorm:"type:datetime(3);not null"`
}

func (Transaction) TableName() string { return "transactions" }
