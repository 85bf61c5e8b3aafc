package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/wholesale-backend/pkg/enums"
)

// Order is a customer sales order. TotalAmount is fixed when the order is created.
type Order struct {
	ID              uuid.UUID           `gorm:"column:id;type:uuid;primaryKey"`
	OrderNumber     string              `gorm:"column:order_number;not null;uniqueIndex"`
	CustomerID      uuid.UUID           `gorm:"column:customer_id;type:uuid;not null"`
	Customer        *Customer           `gorm:"foreignKey:CustomerID"`
	OrderDate       time.Time           `gorm:"column:order_date;not null"`
	Status          enums.OrderStatus   `gorm:"column:status;type:order_status;not null"`
	PaymentStatus   enums.PaymentStatus `gorm:"column:payment_status;type:payment_status;not null"`
	TotalAmount     decimal.Decimal     `gorm:"column:total_amount;type:numeric(14,2);not null"`
	Notes           *string             `gorm:"column:notes"`
	FulfillmentDate *time.Time          `gorm:"column:fulfillment_date"`
	Items           []OrderItem         `gorm:"foreignKey:OrderID"`
	Payments        []OrderPayment      `gorm:"foreignKey:OrderID"`
	CreatedAt       time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

func (o *Order) BeforeCreate(*gorm.DB) error {
	ensureID(&o.ID)
	return nil
}

// PaidAmount sums the recorded payments.
func (o Order) PaidAmount() decimal.Decimal {
	total := decimal.Zero
	for _, p := range o.Payments {
		total = total.Add(p.Amount)
	}
	return total
}

// ItemForProduct returns the index of the line carrying productID or -1.
func (o Order) ItemForProduct(productID uuid.UUID) int {
	for i := range o.Items {
		if o.Items[i].ProductID == productID {
			return i
		}
	}
	return -1
}
