package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/wholesale-backend/pkg/enums"
)

// DemandList is a purchase request to a single supplier.
type DemandList struct {
	ID              uuid.UUID              `gorm:"column:id;type:uuid;primaryKey"`
	SupplierID      uuid.UUID              `gorm:"column:supplier_id;type:uuid;not null"`
	Supplier        *Supplier              `gorm:"foreignKey:SupplierID"`
	DemandDate      time.Time              `gorm:"column:demand_date;not null"`
	Status          enums.DemandListStatus `gorm:"column:status;type:demand_list_status;not null"`
	EstimatedTotal  decimal.Decimal        `gorm:"column:estimated_total;type:numeric(14,2);not null"`
	Notes           *string                `gorm:"column:notes"`
	FulfillmentDate *time.Time             `gorm:"column:fulfillment_date"`
	Items           []DemandListItem       `gorm:"foreignKey:DemandListID"`
	CreatedAt       time.Time              `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time              `gorm:"column:updated_at;autoUpdateTime"`
}

func (d *DemandList) BeforeCreate(*gorm.DB) error {
	ensureID(&d.ID)
	return nil
}
