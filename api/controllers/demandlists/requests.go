package demandlists

import (
	"time"

	"github.com/google/uuid"

	demandsvc "github.com/angelmondragon/wholesale-backend/internal/demandlists"
	"github.com/angelmondragon/wholesale-backend/internal/fulfillment"
)

type demandItemRequest struct {
	Product       uuid.UUID   `json:"product" validate:"required"`
	Quantity      int         `json:"quantity" validate:"min=1"`
	RelatedOrders []uuid.UUID `json:"relatedOrders,omitempty"`
}

type createDemandListRequest struct {
	Supplier   uuid.UUID           `json:"supplier" validate:"required"`
	Items      []demandItemRequest `json:"items" validate:"required,min=1,dive"`
	Notes      *string             `json:"notes,omitempty"`
	DemandDate *time.Time          `json:"demandDate,omitempty"`
}

type updateDemandListRequest struct {
	Notes *string              `json:"notes,omitempty"`
	Items *[]demandItemRequest `json:"items,omitempty" validate:"omitempty,min=1,dive"`
}

type statusRequest struct {
	Status string `json:"status" validate:"required"`
}

type receivedItemRequest struct {
	Product           uuid.UUID `json:"product" validate:"required"`
	AvailableQuantity int       `json:"availableQuantity" validate:"gte=0"`
}

type fulfillRequest struct {
	Items []receivedItemRequest `json:"items" validate:"required,min=1,dive"`
}

func itemInputs(rows []demandItemRequest) []demandsvc.ItemInput {
	out := make([]demandsvc.ItemInput, 0, len(rows))
	for _, row := range rows {
		out = append(out, demandsvc.ItemInput{
			ProductID:     row.Product,
			Quantity:      row.Quantity,
			RelatedOrders: row.RelatedOrders,
		})
	}
	return out
}

func (r createDemandListRequest) toInput() demandsvc.CreateInput {
	return demandsvc.CreateInput{
		SupplierID: r.Supplier,
		Items:      itemInputs(r.Items),
		Notes:      r.Notes,
		DemandDate: r.DemandDate,
	}
}

func (r updateDemandListRequest) toInput() demandsvc.UpdateInput {
	input := demandsvc.UpdateInput{Notes: r.Notes}
	if r.Items != nil {
		items := itemInputs(*r.Items)
		input.Items = &items
	}
	return input
}

func (r fulfillRequest) toItems() []fulfillment.ReceivedItem {
	out := make([]fulfillment.ReceivedItem, 0, len(r.Items))
	for _, row := range r.Items {
		out = append(out, fulfillment.ReceivedItem{ProductID: row.Product, AvailableQuantity: row.AvailableQuantity})
	}
	return out
}
