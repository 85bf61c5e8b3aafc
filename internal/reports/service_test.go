package reports

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/angelmondragon/wholesale-backend/pkg/config"
	"github.com/angelmondragon/wholesale-backend/pkg/db/dbtest"
	"github.com/angelmondragon/wholesale-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/wholesale-backend/pkg/errors"
)

var testReportsConfig = config.ReportsConfig{
	DefaultWindow:       30 * 24 * time.Hour,
	AnalysisWindow:      90 * 24 * time.Hour,
	ForecastLookback:    90 * 24 * time.Hour,
	ForecastDefaultDays: 30,
}

func newTestService(t *testing.T, now time.Time) (*service, *gorm.DB) {
	t.Helper()
	conn := dbtest.Open(t)
	svc, err := NewService(NewRepository(conn), testReportsConfig, nil)
	require.NoError(t, err)
	impl := svc.(*service)
	impl.now = func() time.Time { return now }
	return impl, conn
}

func TestNewServiceValidatesConfig(t *testing.T) {
	_, err := NewService(nil, testReportsConfig, nil)
	require.Error(t, err)
	_, err = NewService(NewRepository(dbtest.Open(t)), config.ReportsConfig{}, nil)
	require.Error(t, err)
}

func TestSalesCountsOnlySoldOrdersInWindow(t *testing.T) {
	now := time.Date(2025, 3, 31, 9, 0, 0, 0, time.UTC)
	svc, conn := newTestService(t, now)
	customer := dbtest.Customer(t, conn, "Corner Market")
	soap := dbtest.Product(t, conn, "Soap", "10", 10)

	dbtest.Order(t, conn, customer, enums.OrderStatusFulfilled, now.AddDate(0, 0, -2), dbtest.OrderLine{Product: soap, Quantity: 5, Fulfilled: 5})
	dbtest.Order(t, conn, customer, enums.OrderStatusPartial, now.AddDate(0, 0, -1), dbtest.OrderLine{Product: soap, Quantity: 3, Fulfilled: 1})
	dbtest.Order(t, conn, customer, enums.OrderStatusPending, now.AddDate(0, 0, -1), dbtest.OrderLine{Product: soap, Quantity: 9})
	dbtest.Order(t, conn, customer, enums.OrderStatusFulfilled, now.AddDate(0, 0, -45), dbtest.OrderLine{Product: soap, Quantity: 1, Fulfilled: 1})

	report, err := svc.Sales(context.Background(), Query{})
	require.NoError(t, err)
	assert.Equal(t, 2, report.TotalOrders)
	assert.True(t, report.TotalSales.Equal(dbtest.Dec("80")), report.TotalSales.String())
	require.Len(t, report.SalesByCustomer, 1)
	assert.Equal(t, "Corner Market", report.SalesByCustomer[0].Key)
	require.Len(t, report.SalesByProduct, 1)
	assert.Equal(t, 6, report.SalesByProduct[0].Quantity)

	wide, err := svc.Sales(context.Background(), Query{StartDate: "2025-01-01", EndDate: "2025-03-31"})
	require.NoError(t, err)
	assert.Equal(t, 3, wide.TotalOrders)
}

func TestRevenueRejectsUnknownGroupBy(t *testing.T) {
	svc, _ := newTestService(t, time.Now().UTC())

	_, err := svc.Revenue(context.Background(), Query{}, "year")
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	report, err := svc.Revenue(context.Background(), Query{}, "")
	require.NoError(t, err)
	assert.Equal(t, enums.ReportGroupByDay, report.Period.GroupBy)
	assert.Empty(t, report.TimelineData)
}

func TestDemandForecastPeriod(t *testing.T) {
	now := time.Date(2025, 3, 31, 9, 0, 0, 0, time.UTC)
	svc, conn := newTestService(t, now)
	customer := dbtest.Customer(t, conn, "Corner Market")
	soap := dbtest.Product(t, conn, "Soap", "10", 10)
	dbtest.Order(t, conn, customer, enums.OrderStatusFulfilled, now.AddDate(0, 0, -10), dbtest.OrderLine{Product: soap, Quantity: 90, Fulfilled: 90})

	report, err := svc.DemandForecast(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, 30, report.ForecastPeriod)
	assert.Equal(t, 90, report.LookbackDays)
	require.Len(t, report.ProductForecasts, 1)
	assert.Equal(t, 30, report.ProductForecasts[0].ProjectedDemand)

	report, err = svc.DemandForecast(context.Background(), "7")
	require.NoError(t, err)
	assert.Equal(t, 7, report.ProductForecasts[0].ProjectedDemand)

	for _, bad := range []string{"0", "366", "soon"} {
		_, err := svc.DemandForecast(context.Background(), bad)
		assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation), bad)
	}
}

func TestSupplierPerformanceUsesFulfillmentDate(t *testing.T) {
	now := time.Date(2025, 3, 31, 9, 0, 0, 0, time.UTC)
	svc, conn := newTestService(t, now)
	supplier := dbtest.Supplier(t, conn, "Acme")
	soap := dbtest.Product(t, conn, "Soap", "10", 0)
	list := dbtest.DemandList(t, conn, supplier, enums.DemandListStatusFulfilled, dbtest.DemandLine{Product: soap, Quantity: 10})
	fulfilled := now.AddDate(0, 0, -3)
	require.NoError(t, conn.Table("demand_lists").Where("id = ?", list.ID).Update("fulfillment_date", fulfilled).Error)
	require.NoError(t, conn.Table("demand_list_items").Where("demand_list_id = ?", list.ID).Update("available_quantity", 10).Error)
	dbtest.DemandList(t, conn, supplier, enums.DemandListStatusSubmitted, dbtest.DemandLine{Product: soap, Quantity: 4})

	report, err := svc.SupplierPerformance(context.Background(), Query{})
	require.NoError(t, err)
	require.Len(t, report.SupplierPerformance, 1)
	s := report.SupplierPerformance[0]
	assert.Equal(t, 1, s.DemandListCount)
	assert.Equal(t, 10, s.ItemsFulfilled)
	assert.Equal(t, "100", s.FulfilledPercent.String())
	assert.True(t, s.TotalPurchased.Equal(dbtest.Dec("50")))
}

func TestInventoryAndLowStock(t *testing.T) {
	svc, conn := newTestService(t, time.Now().UTC())
	dbtest.Product(t, conn, "Empty", "10", 0)
	dbtest.Product(t, conn, "Low", "10", 4)
	dbtest.Product(t, conn, "Plenty", "10", 200)

	inv, err := svc.Inventory(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, inv.TotalProducts)
	assert.True(t, inv.InventoryValue.Equal(dbtest.Dec("1020")), inv.InventoryValue.String())

	low, err := svc.LowStock(context.Background())
	require.NoError(t, err)
	require.Len(t, low.LowStockItems, 1)
	assert.Equal(t, "Low", low.LowStockItems[0].Name)
	require.Len(t, low.OutOfStockItems, 1)
}
