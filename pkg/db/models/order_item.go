package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderItem is one product line of an order. SellPrice is a snapshot taken at creation.
type OrderItem struct {
	ID                uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	OrderID           uuid.UUID       `gorm:"column:order_id;type:uuid;not null"`
	Position          int             `gorm:"column:position;not null"`
	ProductID         uuid.UUID       `gorm:"column:product_id;type:uuid;not null"`
	Quantity          int             `gorm:"column:quantity;not null"`
	SellPrice         decimal.Decimal `gorm:"column:sell_price;type:numeric(14,2);not null"`
	FulfilledQuantity int             `gorm:"column:fulfilled_quantity;not null"`
	CreatedAt         time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (i *OrderItem) BeforeCreate(*gorm.DB) error {
	ensureID(&i.ID)
	return nil
}

// Outstanding is the quantity still owed to the customer.
func (i OrderItem) Outstanding() int {
	if i.FulfilledQuantity >= i.Quantity {
		return 0
	}
	return i.Quantity - i.FulfilledQuantity
}

// LineTotal is quantity times the snapshot price.
func (i OrderItem) LineTotal() decimal.Decimal {
	return i.SellPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
