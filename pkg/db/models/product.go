package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product is a stocked catalog item.
type Product struct {
	ID             uuid.UUID              `gorm:"column:id;type:uuid;primaryKey"`
	Name           string                 `gorm:"column:name;not null"`
	Description    *string                `gorm:"column:description"`
	SKU            *string                `gorm:"column:sku;uniqueIndex"`
	Category       *string                `gorm:"column:category"`
	Tags           pq.StringArray         `gorm:"column:tags;type:text[]"`
	CompanyName    *string                `gorm:"column:company_name"`
	RetailPrice    decimal.Decimal        `gorm:"column:retail_price;type:numeric(14,2);not null"`
	PurchasePrice  decimal.Decimal        `gorm:"column:purchase_price;type:numeric(14,2);not null"`
	SellPrice      decimal.Decimal        `gorm:"column:sell_price;type:numeric(14,2);not null"`
	QuantityOnHand int                    `gorm:"column:quantity_on_hand;not null"`
	Suppliers      []ProductSupplier      `gorm:"foreignKey:ProductID"`
	CustomerPrices []ProductCustomerPrice `gorm:"foreignKey:ProductID"`
	CreatedAt      time.Time              `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time              `gorm:"column:updated_at;autoUpdateTime"`
}

func (p *Product) BeforeCreate(*gorm.DB) error {
	ensureID(&p.ID)
	if p.Tags == nil {
		p.Tags = pq.StringArray{}
	}
	return nil
}

// CategoryName returns the category or "Uncategorized".
func (p Product) CategoryName() string {
	if p.Category == nil || *p.Category == "" {
		return "Uncategorized"
	}
	return *p.Category
}

// SupplierPrice returns the supplier specific purchase price, if any.
func (p Product) SupplierPrice(supplierID uuid.UUID) (decimal.Decimal, bool) {
	for _, s := range p.Suppliers {
		if s.SupplierID == supplierID {
			return s.PurchasePrice, true
		}
	}
	return decimal.Zero, false
}

// CustomerPrice returns the customer specific sell price, if any.
func (p Product) CustomerPrice(customerID uuid.UUID) (decimal.Decimal, bool) {
	for _, c := range p.CustomerPrices {
		if c.CustomerID == customerID {
			return c.CustomSellPrice, true
		}
	}
	return decimal.Zero, false
}
