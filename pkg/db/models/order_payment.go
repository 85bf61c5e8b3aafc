package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderPayment is an append-only payment record.
type OrderPayment struct {
	ID        uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	OrderID   uuid.UUID       `gorm:"column:order_id;type:uuid;not null"`
	Amount    decimal.Decimal `gorm:"column:amount;type:numeric(14,2);not null"`
	PaidAt    time.Time       `gorm:"column:paid_at;not null"`
	Method    string          `gorm:"column:method;not null"`
	Reference *string         `gorm:"column:reference"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
}

func (p *OrderPayment) BeforeCreate(*gorm.DB) error {
	ensureID(&p.ID)
	return nil
}
