package enums

import (
	"fmt"
	"strings"

	"github.com/angelmondragon/wholesale-backend/pkg/fsm"
)

// OrderStatus tracks a sales order from intake to fulfillment.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "Pending"
	OrderStatusProcessing OrderStatus = "Processing"
	OrderStatusPartial    OrderStatus = "Partial"
	OrderStatusFulfilled  OrderStatus = "Fulfilled"
	OrderStatusCancelled  OrderStatus = "Cancelled"
)

var validOrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusProcessing,
	OrderStatusPartial,
	OrderStatusFulfilled,
	OrderStatusCancelled,
}

// OrderMachine is the transition table every order status change goes through.
var OrderMachine = fsm.New("order", map[OrderStatus][]OrderStatus{
	OrderStatusPending:    {OrderStatusProcessing, OrderStatusPartial, OrderStatusFulfilled, OrderStatusCancelled},
	OrderStatusProcessing: {OrderStatusPartial, OrderStatusFulfilled, OrderStatusCancelled},
	OrderStatusPartial:    {OrderStatusFulfilled, OrderStatusCancelled},
	OrderStatusFulfilled:  {},
	OrderStatusCancelled:  {},
})

// String implements fmt.Stringer.
func (o OrderStatus) String() string {
	return string(o)
}

// IsValid reports whether the value is a known OrderStatus.
func (o OrderStatus) IsValid() bool {
	for _, candidate := range validOrderStatuses {
		if candidate == o {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the order can no longer change.
func (o OrderStatus) IsTerminal() bool {
	return o == OrderStatusFulfilled || o == OrderStatusCancelled
}

// IsSold reports whether the order counts towards sales figures.
func (o OrderStatus) IsSold() bool {
	return o == OrderStatusFulfilled || o == OrderStatusPartial
}

// ParseOrderStatus converts raw input into an OrderStatus, ignoring case.
func ParseOrderStatus(value string) (OrderStatus, error) {
	value = strings.TrimSpace(value)
	for _, candidate := range validOrderStatuses {
		if strings.EqualFold(string(candidate), value) {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid order status %q", value)
}
