package orders

import "time"

const (
	StatusCreated = "created"
	StatusPaid    = "paid"
)

type Order struct {
	ID         string  `gorm:"type:char(36);primaryKey"`
	CheckoutID *string `gorm:"type:char(36);index:ix_orders_checkout_id"`
	UserID     *string `gorm:"type:char(36);index:ix_orders_user_id"`
	GuestEmail *string `gorm:"type:varchar(255)"`

	TotalCents int    `gorm:"not null"`
	Currency   string `gorm:"type:char(3);not null"`
	Status     string `gorm:"type:varchar(32);not null"`

	PaidAt    *time.Time `gorm:"type:datetime(3)"`
	CreatedAt time.Time  `gorm:"type:datetime(3);not null"`
	UpdatedAt time.Time  `gorm:"type:datetime(3);not null"`
}

func (Order) TableName() string { return "orders" }

// FinancialEntry is the append-only money ledger. One row per financial
// event per referenced record; writers must dedupe on (ref_type, ref_id,
// event).
type FinancialEntry struct {
	ID          string    `gorm:"type:char(36);primaryKey"`
	OrderID     string    `gorm:"type:char(36);not null;index:ix_order_fin_entries_order_created,priority:1"`
	Event       string    `gorm:"type:varchar(32);not null"`
	AmountCents int       `gorm:"not null"`
	Currency    string    `gorm:"type:char(3);not null"`
	RefType     string    `gorm:"type:varchar(16);not null;index:ix_order_fin_entries_ref,priority:1"`
	RefID       string    `gorm:"type:char(36);not null;index:ix_order_fin_entries_ref,priority:2"`
	CreatedAt   time.Time `gorm:"type:datetime(3);not null;index:ix_order_fin_entries_order_created,priority:2"`
}

func (FinancialEntry) TableName() string { return "order_financial_entries" }
