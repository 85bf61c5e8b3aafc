package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/wholesale-backend/pkg/types"
)

// Supplier is a vendor the business purchases stock from.
type Supplier struct {
	ID                uuid.UUID     `gorm:"column:id;type:uuid;primaryKey"`
	Name              string        `gorm:"column:name;not null"`
	ContactPerson     *string       `gorm:"column:contact_person"`
	Email             *string       `gorm:"column:email"`
	Phone             *string       `gorm:"column:phone"`
	Address           types.Address `gorm:"column:address;type:jsonb"`
	ReliabilityRating float64       `gorm:"column:reliability_rating;type:numeric(3,1);not null"`
	PaymentTerms      *string       `gorm:"column:payment_terms"`
	Notes             *string       `gorm:"column:notes"`
	CreatedAt         time.Time     `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time     `gorm:"column:updated_at;autoUpdateTime"`
}

func (s *Supplier) BeforeCreate(*gorm.DB) error {
	ensureID(&s.ID)
	return nil
}
