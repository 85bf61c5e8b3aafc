package reports

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/wholesale-backend/pkg/db/models"
	"github.com/angelmondragon/wholesale-backend/pkg/enums"
)

func dec(v string) decimal.Decimal { return decimal.RequireFromString(v) }

func strPtr(v string) *string { return &v }

func day(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 12, 0, 0, 0, time.UTC) }

type fixture struct {
	soap, rice, idle models.Product
	alpha, beta      models.Customer
	orders           []models.Order
}

func newFixture() fixture {
	f := fixture{
		soap:  models.Product{ID: uuid.New(), Name: "Soap", Category: strPtr("Household"), PurchasePrice: dec("5"), SellPrice: dec("10"), QuantityOnHand: 10},
		rice:  models.Product{ID: uuid.New(), Name: "Rice", Category: strPtr("Pantry"), PurchasePrice: dec("10"), SellPrice: dec("20"), QuantityOnHand: 120},
		idle:  models.Product{ID: uuid.New(), Name: "Idle", PurchasePrice: dec("1"), SellPrice: dec("2")},
		alpha: models.Customer{ID: uuid.New(), Name: "Alpha"},
		beta:  models.Customer{ID: uuid.New(), Name: "Beta"},
	}
	f.orders = []models.Order{
		{
			ID: uuid.New(), CustomerID: f.alpha.ID, Customer: &f.alpha, OrderDate: day(2025, 1, 2),
			Status: enums.OrderStatusFulfilled, TotalAmount: dec("110"),
			Items: []models.OrderItem{
				{ProductID: f.soap.ID, Quantity: 5, FulfilledQuantity: 5, SellPrice: dec("10")},
				{ProductID: f.rice.ID, Quantity: 3, FulfilledQuantity: 1, SellPrice: dec("20")},
			},
		},
		{
			ID: uuid.New(), CustomerID: f.beta.ID, Customer: &f.beta, OrderDate: day(2025, 1, 1),
			Status: enums.OrderStatusPartial, TotalAmount: dec("30"),
			Items: []models.OrderItem{
				{ProductID: f.soap.ID, Quantity: 3, FulfilledQuantity: 2, SellPrice: dec("10")},
			},
		},
	}
	return f
}

func (f fixture) products() []models.Product {
	return []models.Product{f.soap, f.rice, f.idle}
}

func TestMargin(t *testing.T) {
	assert.Equal(t, "40", Margin(dec("100"), dec("60")).String())
	assert.Equal(t, "66.67", Margin(dec("3"), dec("1")).String())
	assert.True(t, Margin(decimal.Zero, dec("5")).IsZero())
}

func TestSoldQuantityCapsAtOrdered(t *testing.T) {
	assert.Equal(t, 3, SoldQuantity(models.OrderItem{Quantity: 3, FulfilledQuantity: 5}))
	assert.Equal(t, 2, SoldQuantity(models.OrderItem{Quantity: 3, FulfilledQuantity: 2}))
}

func TestBuildSales(t *testing.T) {
	f := newFixture()
	report := BuildSales(f.orders, productIndex(f.products()), Window{})

	assert.True(t, report.TotalSales.Equal(dec("140")))
	assert.Equal(t, 2, report.TotalOrders)

	require.Len(t, report.SalesByProduct, 2)
	assert.Equal(t, "Rice", report.SalesByProduct[0].Key)
	assert.Equal(t, 1, report.SalesByProduct[0].Quantity)
	assert.True(t, report.SalesByProduct[0].Revenue.Equal(dec("20")))
	assert.Equal(t, "Soap", report.SalesByProduct[1].Key)
	assert.Equal(t, 2, report.SalesByProduct[1].Lines)
	assert.Equal(t, 7, report.SalesByProduct[1].Quantity)
	assert.True(t, report.SalesByProduct[1].Revenue.Equal(dec("70")))

	require.Len(t, report.SalesByCategory, 2)
	assert.Equal(t, "Household", report.SalesByCategory[0].Key)

	require.Len(t, report.SalesByCustomer, 2)
	assert.Equal(t, "Alpha", report.SalesByCustomer[0].Key)
	assert.True(t, report.SalesByCustomer[0].Amount.Equal(dec("110")))

	require.Len(t, report.SalesTimeline, 2)
	assert.Equal(t, "2025-01-01", report.SalesTimeline[0].Key)
	assert.True(t, report.SalesTimeline[0].Amount.Equal(dec("30")))
	assert.Equal(t, "2025-01-02", report.SalesTimeline[1].Key)
}

func TestBuildInventoryBuckets(t *testing.T) {
	var products []models.Product
	for _, q := range []int{0, 5, 10, 50, 100, 150} {
		products = append(products, models.Product{ID: uuid.New(), Name: "P", PurchasePrice: dec("2"), QuantityOnHand: q})
	}
	report := BuildInventory(products)

	assert.Equal(t, 6, report.TotalProducts)
	assert.True(t, report.InventoryValue.Equal(dec("630")), report.InventoryValue.String())
	assert.Len(t, report.OutOfStockItems, 1)
	assert.Len(t, report.LowStockItems, 2)
	require.Len(t, report.OverstockItems, 2)
	assert.True(t, report.OverstockItems[1].Value.Equal(dec("300")))
	require.Len(t, report.InventoryByCategory, 1)
	assert.Equal(t, "Uncategorized", report.InventoryByCategory[0].Category)
	assert.Equal(t, 315, report.InventoryByCategory[0].QuantityTotal)
	assert.Equal(t, StockThresholds{Low: 10, Overstock: 100}, report.StockThresholds)

	low := BuildLowStock(products)
	assert.Len(t, low.LowStockItems, 2)
	assert.Len(t, low.OutOfStockItems, 1)
}

func TestBuildProductPerformance(t *testing.T) {
	f := newFixture()
	report := BuildProductPerformance(f.orders, f.products(), Window{})

	require.Len(t, report.ProductPerformance, 2)
	soap := report.ProductPerformance[0]
	assert.Equal(t, "Soap", soap.Name)
	assert.Equal(t, 7, soap.QuantitySold)
	assert.True(t, soap.Revenue.Equal(dec("70")))
	assert.True(t, soap.Cost.Equal(dec("35")))
	assert.True(t, soap.Profit.Equal(dec("35")))
	assert.Equal(t, "50", soap.MarginPercentage.String())
	assert.Equal(t, 2, soap.TimesOrdered)
	assert.Equal(t, "Rice", report.ProductPerformance[1].Name)
	assert.Len(t, report.TopPerformers, 2)
	require.Len(t, report.CategoryPerformance, 2)
	assert.Equal(t, "Household", report.CategoryPerformance[0].Category)
}

func TestBuildCustomerAnalysis(t *testing.T) {
	alpha := models.Customer{ID: uuid.New(), Name: "Alpha", OutstandingBalance: dec("15")}
	beta := models.Customer{ID: uuid.New(), Name: "Beta"}
	gamma := models.Customer{ID: uuid.New(), Name: "Gamma"}
	orders := []models.Order{
		{CustomerID: alpha.ID, OrderDate: day(2025, 3, 1), Status: enums.OrderStatusFulfilled, TotalAmount: dec("100")},
		{CustomerID: alpha.ID, OrderDate: day(2025, 3, 3), Status: enums.OrderStatusPending, TotalAmount: dec("50")},
		{CustomerID: beta.ID, OrderDate: day(2025, 5, 30), Status: enums.OrderStatusPartial, TotalAmount: dec("300")},
		{CustomerID: beta.ID, OrderDate: day(2025, 5, 31), Status: enums.OrderStatusCancelled, TotalAmount: dec("900")},
	}
	now := day(2025, 6, 1)

	report := BuildCustomerAnalysis([]models.Customer{alpha, beta, gamma}, orders, Window{}, now)

	require.Len(t, report.CustomerAnalysis, 3)
	a := report.CustomerAnalysis[0]
	assert.Equal(t, 2, a.OrderCount)
	assert.True(t, a.TotalSpent.Equal(dec("150")))
	assert.Equal(t, "75", a.AverageOrderValue.String())
	require.NotNil(t, a.Recency)
	assert.Equal(t, 90, *a.Recency)
	assert.True(t, a.OutstandingBalance.Equal(dec("15")))
	assert.Nil(t, report.CustomerAnalysis[2].Recency)

	assert.Equal(t, []string{"Beta", "Alpha", "Gamma"}, customerNames(report.TopCustomers))
	assert.Equal(t, []string{"Alpha", "Beta", "Gamma"}, customerNames(report.MostFrequent))
	assert.Equal(t, []string{"Beta", "Alpha"}, customerNames(report.HighestAOV))
	assert.Equal(t, []string{"Alpha"}, customerNames(report.AtRiskCustomers))
}

func customerNames(rows []CustomerStats) []string {
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.Name)
	}
	return out
}

func TestBuildSupplierPerformance(t *testing.T) {
	acme := models.Supplier{ID: uuid.New(), Name: "Acme", ReliabilityRating: 4}
	idle := models.Supplier{ID: uuid.New(), Name: "Idle", ReliabilityRating: 3}
	first := day(2025, 2, 1)
	second := day(2025, 2, 10)
	lists := []models.DemandList{
		{SupplierID: acme.ID, Status: enums.DemandListStatusFulfilled, FulfillmentDate: &second, Items: []models.DemandListItem{
			{Quantity: 10, AvailableQuantity: 8, PurchasePrice: dec("2")},
		}},
		{SupplierID: acme.ID, Status: enums.DemandListStatusPartial, FulfillmentDate: &first, Items: []models.DemandListItem{
			{Quantity: 10, AvailableQuantity: 8, PurchasePrice: dec("3")},
		}},
	}

	report := BuildSupplierPerformance([]models.Supplier{acme, idle}, lists, Window{})

	require.Len(t, report.SupplierPerformance, 2)
	s := report.SupplierPerformance[0]
	assert.Equal(t, 2, s.DemandListCount)
	assert.Equal(t, 20, s.ItemsRequested)
	assert.Equal(t, 16, s.ItemsFulfilled)
	assert.True(t, s.TotalPurchased.Equal(dec("40")))
	assert.Equal(t, "80", s.FulfilledPercent.String())
	require.NotNil(t, s.LastFulfillmentDate)
	assert.Equal(t, second, *s.LastFulfillmentDate)
	assert.Equal(t, 4.0, s.ReliabilityRating)

	assert.Equal(t, "Acme", report.TopSuppliers[0].Name)
	require.Len(t, report.MostReliable, 1)
	assert.Equal(t, "Acme", report.MostReliable[0].Name)
}

func TestPeriodKey(t *testing.T) {
	assert.Equal(t, "2025-01-01", PeriodKey(day(2025, 1, 1), enums.ReportGroupByDay))
	assert.Equal(t, "2025-W01", PeriodKey(day(2024, 12, 30), enums.ReportGroupByWeek))
	assert.Equal(t, "2025-W02", PeriodKey(day(2025, 1, 6), enums.ReportGroupByWeek))
	assert.Equal(t, "2025-01", PeriodKey(day(2025, 1, 31), enums.ReportGroupByMonth))
}

func TestBuildRevenue(t *testing.T) {
	f := newFixture()
	report := BuildRevenue(f.orders, productIndex(f.products()), enums.ReportGroupByMonth, Window{})

	// revenue is the order total; cost is 7 soap at 5 plus 1 rice at 10
	assert.True(t, report.TotalRevenue.Equal(dec("140")))
	assert.True(t, report.TotalCost.Equal(dec("45")))
	assert.True(t, report.TotalProfit.Equal(dec("95")))
	assert.Equal(t, "67.86", report.ProfitMargin.String())
	require.Len(t, report.TimelineData, 1)
	assert.Equal(t, "2025-01", report.TimelineData[0].Period)
	assert.Equal(t, 2, report.TimelineData[0].Orders)
	assert.Equal(t, enums.ReportGroupByMonth, report.Period.GroupBy)
}

func TestBuildDemandForecast(t *testing.T) {
	f := newFixture()
	orders := []models.Order{{Items: []models.OrderItem{
		{ProductID: f.soap.ID, Quantity: 100, FulfilledQuantity: 90},
	}}}

	report := BuildDemandForecast(f.products(), orders, 30, 90)

	require.Len(t, report.ProductForecasts, 3)
	soap := report.ProductForecasts[0]
	assert.Equal(t, 90, soap.TotalDemand)
	assert.InDelta(t, 1.0, soap.AverageDailyDemand, 1e-9)
	assert.Equal(t, 30, soap.ProjectedDemand)
	assert.Equal(t, 10, soap.DaysUntilStockout)
	assert.Equal(t, 26, soap.RecommendedOrder)

	rice := report.ProductForecasts[1]
	assert.Equal(t, NoStockoutDays, rice.DaysUntilStockout)
	assert.Equal(t, 0, rice.RecommendedOrder)

	require.Len(t, report.AtRiskProducts, 1)
	assert.Equal(t, "Soap", report.AtRiskProducts[0].Name)
	require.Len(t, report.CategoryForecasts, 3)
	assert.Equal(t, "Household", report.CategoryForecasts[0].Category)
	assert.Equal(t, 10, report.CategoryForecasts[0].AvgDaysUntilStockout)
}

func TestBuildProfitMargins(t *testing.T) {
	f := newFixture()
	f.orders[0].Items[1].SellPrice = dec("25")

	report := BuildProfitMargins(f.orders, productIndex(f.products()), Window{})

	require.Len(t, report.ProductMargins, 2)
	assert.Equal(t, "Rice", report.ProductMargins[0].Name)
	assert.Equal(t, "60", report.ProductMargins[0].Margin.String())
	assert.Equal(t, "Soap", report.ProductMargins[1].Name)
	assert.Equal(t, 7, report.ProductMargins[1].Units)
	assert.Equal(t, "Soap", report.BottomMarginProducts[0].Name)
	require.Len(t, report.CategoryMargins, 2)
	assert.Equal(t, "Pantry", report.CategoryMargins[0].Category)
	assert.True(t, report.TotalRevenue.Equal(dec("95")))
	assert.True(t, report.TotalCost.Equal(dec("45")))
	assert.Equal(t, "52.63", report.OverallMargin.String())
}
