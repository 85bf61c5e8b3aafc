package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ProductCustomerPrice overrides the sell price of a product for one customer.
type ProductCustomerPrice struct {
	ID              uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	ProductID       uuid.UUID       `gorm:"column:product_id;type:uuid;not null"`
	CustomerID      uuid.UUID       `gorm:"column:customer_id;type:uuid;not null"`
	CustomSellPrice decimal.Decimal `gorm:"column:custom_sell_price;type:numeric(14,2);not null"`
	CreatedAt       time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (ProductCustomerPrice) TableName() string { return "product_customer_prices" }

func (p *ProductCustomerPrice) BeforeCreate(*gorm.DB) error {
	ensureID(&p.ID)
	return nil
}
