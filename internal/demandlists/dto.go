package demandlists

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/wholesale-backend/pkg/db/models"
	"github.com/angelmondragon/wholesale-backend/pkg/enums"
)

type ItemDTO struct {
	ID                uuid.UUID              `json:"id"`
	ProductID         uuid.UUID              `json:"product"`
	Quantity          int                    `json:"quantity"`
	PurchasePrice     decimal.Decimal        `json:"purchasePrice"`
	AvailableQuantity int                    `json:"availableQuantity"`
	Status            enums.DemandItemStatus `json:"status"`
	RelatedOrders     []uuid.UUID            `json:"relatedOrders"`
	LineTotal         decimal.Decimal        `json:"lineTotal"`
}

type DemandListDTO struct {
	ID              uuid.UUID              `json:"id"`
	SupplierID      uuid.UUID              `json:"supplier"`
	SupplierName    string                 `json:"supplierName,omitempty"`
	DemandDate      time.Time              `json:"demandDate"`
	Status          enums.DemandListStatus `json:"status"`
	EstimatedTotal  decimal.Decimal        `json:"estimatedTotal"`
	Notes           *string                `json:"notes,omitempty"`
	FulfillmentDate *time.Time             `json:"fulfillmentDate,omitempty"`
	Items           []ItemDTO              `json:"items"`
	CreatedAt       time.Time              `json:"createdAt"`
	UpdatedAt       time.Time              `json:"updatedAt"`
}

type ItemInput struct {
	ProductID     uuid.UUID
	Quantity      int
	RelatedOrders []uuid.UUID
}

type CreateInput struct {
	SupplierID uuid.UUID
	Items      []ItemInput
	Notes      *string
	DemandDate *time.Time
}

// UpdateInput replaces Items only when non-nil, and only on drafts.
type UpdateInput struct {
	Notes *string
	Items *[]ItemInput
}

type ListFilter struct {
	Status     *enums.DemandListStatus
	SupplierID *uuid.UUID
}

func FromModel(d *models.DemandList) *DemandListDTO {
	if d == nil {
		return nil
	}
	dto := &DemandListDTO{
		ID:              d.ID,
		SupplierID:      d.SupplierID,
		DemandDate:      d.DemandDate,
		Status:          d.Status,
		EstimatedTotal:  d.EstimatedTotal,
		Notes:           d.Notes,
		FulfillmentDate: d.FulfillmentDate,
		Items:           make([]ItemDTO, 0, len(d.Items)),
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}
	if d.Supplier != nil {
		dto.SupplierName = d.Supplier.Name
	}
	for _, item := range d.Items {
		dto.Items = append(dto.Items, ItemDTO{
			ID:                item.ID,
			ProductID:         item.ProductID,
			Quantity:          item.Quantity,
			PurchasePrice:     item.PurchasePrice,
			AvailableQuantity: item.AvailableQuantity,
			Status:            item.Status,
			RelatedOrders:     append([]uuid.UUID{}, item.RelatedOrders...),
			LineTotal:         item.LineTotal(),
		})
	}
	return dto
}
