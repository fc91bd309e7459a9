package checkout

import "time"

const (
	StatusOpen      = "open"
	StatusCompleted = "completed"
)

type Checkout struct {
	ID     string  `gorm:"type:char(36);primaryKey"`
	UserID *string `gorm:"type:char(36);index:ix_checkouts_user_id"`
	Email  string  `gorm:"type:varchar(255);not null"`

	TotalCents int    `gorm:"not null"`
	Currency   string `gorm:"type:char(3);not null"`
	Status     string `gorm:"type:varchar(32);not null"`

	CompletedAt *time.Time `gorm:"type:datetime(3)"`
	CreatedAt   time.Time  `gorm:"type:datetime(3);not null"`
	UpdatedAt   time.Time  `gorm:"type:datetime(3);not null"`
}

func (Checkout) TableName() string { return "checkouts" }
