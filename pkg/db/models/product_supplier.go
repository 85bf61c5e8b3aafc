package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ProductSupplier records what a given supplier charges for a product.
type ProductSupplier struct {
	ID               uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	ProductID        uuid.UUID       `gorm:"column:product_id;type:uuid;not null"`
	SupplierID       uuid.UUID       `gorm:"column:supplier_id;type:uuid;not null"`
	PurchasePrice    decimal.Decimal `gorm:"column:purchase_price;type:numeric(14,2);not null"`
	IsPreferred      bool            `gorm:"column:is_preferred;not null"`
	LastPurchaseDate *time.Time      `gorm:"column:last_purchase_date"`
	CreatedAt        time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (ProductSupplier) TableName() string { return "product_suppliers" }

func (p *ProductSupplier) BeforeCreate(*gorm.DB) error {
	ensureID(&p.ID)
	return nil
}
