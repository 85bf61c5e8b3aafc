package fulfillment

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/angelmondragon/wholesale-backend/pkg/db/models"
	"github.com/angelmondragon/wholesale-backend/pkg/enums"
)

func TestItemStatus(t *testing.T) {
	cases := []struct {
		available, requested int
		want                 enums.DemandItemStatus
	}{
		{10, 10, enums.DemandItemStatusAvailable},
		{12, 10, enums.DemandItemStatusAvailable},
		{4, 10, enums.DemandItemStatusPartial},
		{0, 10, enums.DemandItemStatusUnavailable},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ItemStatus(tc.available, tc.requested), "%d of %d", tc.available, tc.requested)
	}
}

func TestListStatus(t *testing.T) {
	available := models.DemandListItem{Status: enums.DemandItemStatusAvailable}
	partial := models.DemandListItem{Status: enums.DemandItemStatusPartial}
	pending := models.DemandListItem{Status: enums.DemandItemStatusPending}

	assert.Equal(t, enums.DemandListStatusFulfilled, ListStatus([]models.DemandListItem{available, available}, true, enums.DemandListStatusSubmitted))
	assert.Equal(t, enums.DemandListStatusPartial, ListStatus([]models.DemandListItem{available, partial}, true, enums.DemandListStatusSubmitted))
	assert.Equal(t, enums.DemandListStatusConfirmed, ListStatus([]models.DemandListItem{pending}, false, enums.DemandListStatusConfirmed))
	assert.Equal(t, enums.DemandListStatusSubmitted, ListStatus(nil, false, enums.DemandListStatusSubmitted))
}

func TestFulfillable(t *testing.T) {
	item := models.OrderItem{Quantity: 5, FulfilledQuantity: 2}
	assert.Equal(t, 3, Fulfillable(item, 10))
	assert.Equal(t, 1, Fulfillable(item, 1))
	assert.Equal(t, 0, Fulfillable(item, 0))
	assert.Equal(t, 0, Fulfillable(models.OrderItem{Quantity: 2, FulfilledQuantity: 2}, 4))
}

func TestOrderStatus(t *testing.T) {
	done := models.OrderItem{Quantity: 2, FulfilledQuantity: 2}
	half := models.OrderItem{Quantity: 4, FulfilledQuantity: 2}
	none := models.OrderItem{Quantity: 4}

	assert.Equal(t, enums.OrderStatusFulfilled, OrderStatus([]models.OrderItem{done, done}, enums.OrderStatusPending))
	assert.Equal(t, enums.OrderStatusPartial, OrderStatus([]models.OrderItem{done, none}, enums.OrderStatusPending))
	assert.Equal(t, enums.OrderStatusPartial, OrderStatus([]models.OrderItem{half}, enums.OrderStatusProcessing))
	assert.Equal(t, enums.OrderStatusProcessing, OrderStatus([]models.OrderItem{none}, enums.OrderStatusProcessing))
	assert.Equal(t, enums.OrderStatusPending, OrderStatus(nil, enums.OrderStatusPending))
}
