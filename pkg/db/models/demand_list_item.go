package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	dbtypes "github.com/angelmondragon/wholesale-backend/pkg/db/types"
	"github.com/angelmondragon/wholesale-backend/pkg/enums"
)

// DemandListItem is one requested product. RelatedOrders lists the sales
// orders waiting on this stock.
type DemandListItem struct {
	ID                uuid.UUID              `gorm:"column:id;type:uuid;primaryKey"`
	DemandListID      uuid.UUID              `gorm:"column:demand_list_id;type:uuid;not null"`
	Position          int                    `gorm:"column:position;not null"`
	ProductID         uuid.UUID              `gorm:"column:product_id;type:uuid;not null"`
	Quantity          int                    `gorm:"column:quantity;not null"`
	PurchasePrice     decimal.Decimal        `gorm:"column:purchase_price;type:numeric(14,2);not null"`
	AvailableQuantity int                    `gorm:"column:available_quantity;not null"`
	Status            enums.DemandItemStatus `gorm:"column:status;type:demand_item_status;not null"`
	RelatedOrders     dbtypes.UUIDArray      `gorm:"column:related_orders;type:uuid[];not null"`
	CreatedAt         time.Time              `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time              `gorm:"column:updated_at;autoUpdateTime"`
}

func (i *DemandListItem) BeforeCreate(*gorm.DB) error {
	ensureID(&i.ID)
	if i.RelatedOrders == nil {
		i.RelatedOrders = dbtypes.UUIDArray{}
	}
	return nil
}

// LineTotal is quantity times the snapshot purchase price.
func (i DemandListItem) LineTotal() decimal.Decimal {
	return i.PurchasePrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
