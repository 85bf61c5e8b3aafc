package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/wholesale-backend/pkg/db/models"
	"github.com/angelmondragon/wholesale-backend/pkg/enums"
)

type OrderItemDTO struct {
	ID                uuid.UUID       `json:"id"`
	ProductID         uuid.UUID       `json:"product"`
	Quantity          int             `json:"quantity"`
	SellPrice         decimal.Decimal `json:"sellPrice"`
	FulfilledQuantity int             `json:"fulfilledQuantity"`
	LineTotal         decimal.Decimal `json:"lineTotal"`
}

type PaymentDTO struct {
	ID        uuid.UUID       `json:"id"`
	Amount    decimal.Decimal `json:"amount"`
	PaidAt    time.Time       `json:"paidAt"`
	Method    string          `json:"method"`
	Reference *string         `json:"reference,omitempty"`
}

type OrderDTO struct {
	ID              uuid.UUID           `json:"id"`
	OrderNumber     string              `json:"orderNumber"`
	CustomerID      uuid.UUID           `json:"customer"`
	CustomerName    string              `json:"customerName,omitempty"`
	OrderDate       time.Time           `json:"orderDate"`
	Status          enums.OrderStatus   `json:"status"`
	PaymentStatus   enums.PaymentStatus `json:"paymentStatus"`
	TotalAmount     decimal.Decimal     `json:"totalAmount"`
	PaidAmount      decimal.Decimal     `json:"paidAmount"`
	Notes           *string             `json:"notes,omitempty"`
	FulfillmentDate *time.Time          `json:"fulfillmentDate,omitempty"`
	Items           []OrderItemDTO      `json:"items"`
	Payments        []PaymentDTO        `json:"payments"`
	CreatedAt       time.Time           `json:"createdAt"`
	UpdatedAt       time.Time           `json:"updatedAt"`
}

// ItemInput is one requested line of a new order.
type ItemInput struct {
	ProductID uuid.UUID
	Quantity  int
}

type CreateInput struct {
	CustomerID uuid.UUID
	Items      []ItemInput
	Notes      *string
	OrderDate  *time.Time
}

type PaymentInput struct {
	Amount    decimal.Decimal
	Method    *string
	Reference *string
	PaidAt    *time.Time
}

// ListFilter narrows List; nil fields are ignored.
type ListFilter struct {
	Status     *enums.OrderStatus
	CustomerID *uuid.UUID
}

func FromModel(o *models.Order) *OrderDTO {
	if o == nil {
		return nil
	}
	dto := &OrderDTO{
		ID:              o.ID,
		OrderNumber:     o.OrderNumber,
		CustomerID:      o.CustomerID,
		OrderDate:       o.OrderDate,
		Status:          o.Status,
		PaymentStatus:   o.PaymentStatus,
		TotalAmount:     o.TotalAmount,
		PaidAmount:      o.PaidAmount(),
		Notes:           o.Notes,
		FulfillmentDate: o.FulfillmentDate,
		Items:           make([]OrderItemDTO, 0, len(o.Items)),
		Payments:        make([]PaymentDTO, 0, len(o.Payments)),
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
	if o.Customer != nil {
		dto.CustomerName = o.Customer.Name
	}
	for _, item := range o.Items {
		dto.Items = append(dto.Items, OrderItemDTO{
			ID:                item.ID,
			ProductID:         item.ProductID,
			Quantity:          item.Quantity,
			SellPrice:         item.SellPrice,
			FulfilledQuantity: item.FulfilledQuantity,
			LineTotal:         item.LineTotal(),
		})
	}
	for _, p := range o.Payments {
		dto.Payments = append(dto.Payments, PaymentDTO{
			ID:        p.ID,
			Amount:    p.Amount,
			PaidAt:    p.PaidAt,
			Method:    p.Method,
			Reference: p.Reference,
		})
	}
	return dto
}
