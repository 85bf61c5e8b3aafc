package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/wholesale-backend/pkg/types"
)

// Customer is a retail store buying on account. OutstandingBalance is only
// moved by order creation, deletion, cancellation and payments.
type Customer struct {
	ID                 uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	Name               string          `gorm:"column:name;not null"`
	StoreID            *string         `gorm:"column:store_id;uniqueIndex"`
	ContactPerson      *string         `gorm:"column:contact_person"`
	Email              *string         `gorm:"column:email"`
	Phone              *string         `gorm:"column:phone"`
	Address            types.Address   `gorm:"column:address;type:jsonb"`
	PaymentTerms       *string         `gorm:"column:payment_terms"`
	CreditLimit        decimal.Decimal `gorm:"column:credit_limit;type:numeric(14,2);not null"`
	OutstandingBalance decimal.Decimal `gorm:"column:outstanding_balance;type:numeric(14,2);not null"`
	Notes              *string         `gorm:"column:notes"`
	CreatedAt          time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (c *Customer) BeforeCreate(*gorm.DB) error {
	ensureID(&c.ID)
	return nil
}
