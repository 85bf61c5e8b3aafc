package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/wholesale-backend/internal/fulfillment"
	ordersvc "github.com/angelmondragon/wholesale-backend/internal/orders"
)

type orderItemRequest struct {
	Product  uuid.UUID `json:"product" validate:"required"`
	Quantity int       `json:"quantity" validate:"min=1"`
}

type createOrderRequest struct {
	Customer  uuid.UUID          `json:"customer" validate:"required"`
	Items     []orderItemRequest `json:"items" validate:"required,min=1,dive"`
	Notes     *string            `json:"notes,omitempty"`
	OrderDate *time.Time         `json:"orderDate,omitempty"`
}

type updateOrderRequest struct {
	Notes *string `json:"notes"`
}

type statusRequest struct {
	Status string `json:"status" validate:"required"`
}

type paymentRequest struct {
	Amount    decimal.Decimal `json:"amount" validate:"gt=0"`
	Method    *string         `json:"method,omitempty"`
	Reference *string         `json:"reference,omitempty"`
	PaidAt    *time.Time      `json:"paidAt,omitempty"`
}

type fulfilledItemRequest struct {
	Product           uuid.UUID `json:"product" validate:"required"`
	FulfilledQuantity int       `json:"fulfilledQuantity" validate:"gte=0"`
}

type fulfillRequest struct {
	Items []fulfilledItemRequest `json:"items" validate:"required,min=1,dive"`
}

func (r createOrderRequest) toInput() ordersvc.CreateInput {
	items := make([]ordersvc.ItemInput, 0, len(r.Items))
	for _, item := range r.Items {
		items = append(items, ordersvc.ItemInput{ProductID: item.Product, Quantity: item.Quantity})
	}
	return ordersvc.CreateInput{
		CustomerID: r.Customer,
		Items:      items,
		Notes:      r.Notes,
		OrderDate:  r.OrderDate,
	}
}

func (r paymentRequest) toInput() ordersvc.PaymentInput {
	return ordersvc.PaymentInput{
		Amount:    r.Amount,
		Method:    r.Method,
		Reference: r.Reference,
		PaidAt:    r.PaidAt,
	}
}

func (r fulfillRequest) toItems() []fulfillment.FulfilledItem {
	items := make([]fulfillment.FulfilledItem, 0, len(r.Items))
	for _, item := range r.Items {
		items = append(items, fulfillment.FulfilledItem{ProductID: item.Product, FulfilledQuantity: item.FulfilledQuantity})
	}
	return items
}
