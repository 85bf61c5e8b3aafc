package fulfillment

import (
	"github.com/angelmondragon/wholesale-backend/pkg/db/models"
	"github.com/angelmondragon/wholesale-backend/pkg/enums"
)

// ItemStatus grades one demand list line by what the supplier could deliver.
func ItemStatus(available, requested int) enums.DemandItemStatus {
	switch {
	case available >= requested:
		return enums.DemandItemStatusAvailable
	case available > 0:
		return enums.DemandItemStatusPartial
	default:
		return enums.DemandItemStatusUnavailable
	}
}

// ListStatus is Fulfilled once every line is Available, Partial when this
// delivery brought anything, and current otherwise.
func ListStatus(items []models.DemandListItem, received bool, current enums.DemandListStatus) enums.DemandListStatus {
	all := len(items) > 0
	for _, item := range items {
		if item.Status != enums.DemandItemStatusAvailable {
			all = false
			break
		}
	}
	switch {
	case all:
		return enums.DemandListStatusFulfilled
	case received:
		return enums.DemandListStatusPartial
	default:
		return current
	}
}

// Fulfillable is how much of available can go to the order line.
func Fulfillable(item models.OrderItem, available int) int {
	return max(0, min(item.Outstanding(), available))
}

// OrderStatus recomputes an order from its lines: Fulfilled when nothing is
// outstanding, Partial when anything was delivered, current otherwise.
func OrderStatus(items []models.OrderItem, current enums.OrderStatus) enums.OrderStatus {
	if len(items) == 0 {
		return current
	}
	all, some := true, false
	for _, item := range items {
		if item.FulfilledQuantity < item.Quantity {
			all = false
		}
		if item.FulfilledQuantity > 0 {
			some = true
		}
	}
	switch {
	case all:
		return enums.OrderStatusFulfilled
	case some:
		return enums.OrderStatusPartial
	default:
		return current
	}
}
