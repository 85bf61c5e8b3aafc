package reports

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/wholesale-backend/pkg/enums"
)

// Period echoes the window a report was computed over.
type Period struct {
	Start   time.Time           `json:"start"`
	End     time.Time           `json:"end"`
	GroupBy enums.ReportGroupBy `json:"groupBy,omitempty"`
}

type SalesBucket struct {
	Key      string          `json:"key"`
	Lines    int             `json:"lines"`
	Quantity int             `json:"quantity"`
	Revenue  decimal.Decimal `json:"revenue"`
}

type AmountBucket struct {
	Key    string          `json:"key"`
	Amount decimal.Decimal `json:"amount"`
}

type SalesReport struct {
	TotalSales      decimal.Decimal `json:"totalSales"`
	TotalOrders     int             `json:"totalOrders"`
	SalesByProduct  []SalesBucket   `json:"salesByProduct"`
	SalesByCategory []SalesBucket   `json:"salesByCategory"`
	SalesByCustomer []AmountBucket  `json:"salesByCustomer"`
	SalesTimeline   []AmountBucket  `json:"salesTimeline"`
	Period          Period          `json:"period"`
}

type CategoryStock struct {
	Category      string          `json:"category"`
	Count         int             `json:"count"`
	Value         decimal.Decimal `json:"value"`
	QuantityTotal int             `json:"quantityTotal"`
}

type StockItem struct {
	ID             uuid.UUID        `json:"id"`
	Name           string           `json:"name"`
	SKU            *string          `json:"sku,omitempty"`
	Category       *string          `json:"category,omitempty"`
	QuantityOnHand int              `json:"quantityOnHand"`
	Value          *decimal.Decimal `json:"value,omitempty"`
}

type StockThresholds struct {
	Low       int `json:"low"`
	Overstock int `json:"overstock"`
}

type InventoryReport struct {
	TotalProducts       int             `json:"totalProducts"`
	InventoryValue      decimal.Decimal `json:"inventoryValue"`
	InventoryByCategory []CategoryStock `json:"inventoryByCategory"`
	LowStockItems       []StockItem     `json:"lowStockItems"`
	OutOfStockItems     []StockItem     `json:"outOfStockItems"`
	OverstockItems      []StockItem     `json:"overstockItems"`
	StockThresholds     StockThresholds `json:"stockThresholds"`
}

type LowStockReport struct {
	LowStockItems   []StockItem     `json:"lowStockItems"`
	OutOfStockItems []StockItem     `json:"outOfStockItems"`
	StockThresholds StockThresholds `json:"stockThresholds"`
}

type ProductPerformance struct {
	ID               uuid.UUID       `json:"id"`
	Name             string          `json:"name"`
	SKU              *string         `json:"sku,omitempty"`
	Category         string          `json:"category"`
	QuantitySold     int             `json:"quantitySold"`
	Revenue          decimal.Decimal `json:"revenue"`
	Cost             decimal.Decimal `json:"cost"`
	Profit           decimal.Decimal `json:"profit"`
	MarginPercentage decimal.Decimal `json:"marginPercentage"`
	TimesOrdered     int             `json:"timesOrdered"`
}

type CategoryPerformance struct {
	Category         string          `json:"category"`
	ProductCount     int             `json:"productCount"`
	QuantitySold     int             `json:"quantitySold"`
	Revenue          decimal.Decimal `json:"revenue"`
	Cost             decimal.Decimal `json:"cost"`
	Profit           decimal.Decimal `json:"profit"`
	MarginPercentage decimal.Decimal `json:"marginPercentage"`
}

type ProductPerformanceReport struct {
	ProductPerformance  []ProductPerformance  `json:"productPerformance"`
	TopPerformers       []ProductPerformance  `json:"topPerformers"`
	CategoryPerformance []CategoryPerformance `json:"categoryPerformance"`
	Period              Period                `json:"period"`
}

type CustomerStats struct {
	ID                 uuid.UUID       `json:"id"`
	Name               string          `json:"name"`
	StoreID            *string         `json:"storeId,omitempty"`
	OrderCount         int             `json:"orderCount"`
	TotalSpent         decimal.Decimal `json:"totalSpent"`
	LastOrderDate      *time.Time      `json:"lastOrderDate"`
	AverageOrderValue  decimal.Decimal `json:"averageOrderValue"`
	Recency            *int            `json:"recency"`
	OutstandingBalance decimal.Decimal `json:"outstandingBalance"`
}

type CustomerAnalysisReport struct {
	CustomerAnalysis []CustomerStats `json:"customerAnalysis"`
	TopCustomers     []CustomerStats `json:"topCustomers"`
	MostFrequent     []CustomerStats `json:"mostFrequent"`
	HighestAOV       []CustomerStats `json:"highestAOV"`
	AtRiskCustomers  []CustomerStats `json:"atRiskCustomers"`
	Period           Period          `json:"period"`
}

type SupplierStats struct {
	ID                  uuid.UUID       `json:"id"`
	Name                string          `json:"name"`
	DemandListCount     int             `json:"demandListCount"`
	ItemsRequested      int             `json:"itemsRequested"`
	ItemsFulfilled      int             `json:"itemsFulfilled"`
	TotalPurchased      decimal.Decimal `json:"totalPurchased"`
	FulfilledPercent    decimal.Decimal `json:"fulfilledPercent"`
	ReliabilityRating   float64         `json:"reliabilityRating"`
	LastFulfillmentDate *time.Time      `json:"lastFulfillmentDate"`
}

type SupplierPerformanceReport struct {
	SupplierPerformance []SupplierStats `json:"supplierPerformance"`
	TopSuppliers        []SupplierStats `json:"topSuppliers"`
	MostReliable        []SupplierStats `json:"mostReliable"`
	Period              Period          `json:"period"`
}

type RevenuePeriod struct {
	Period  string          `json:"period"`
	Revenue decimal.Decimal `json:"revenue"`
	Cost    decimal.Decimal `json:"cost"`
	Profit  decimal.Decimal `json:"profit"`
	Orders  int             `json:"orders"`
}

type RevenueReport struct {
	TotalRevenue decimal.Decimal `json:"totalRevenue"`
	TotalCost    decimal.Decimal `json:"totalCost"`
	TotalProfit  decimal.Decimal `json:"totalProfit"`
	ProfitMargin decimal.Decimal `json:"profitMargin"`
	TimelineData []RevenuePeriod `json:"timelineData"`
	Period       Period          `json:"period"`
}

type ProductForecast struct {
	ID                 uuid.UUID `json:"id"`
	Name               string    `json:"name"`
	Category           string    `json:"category"`
	CurrentStock       int       `json:"currentStock"`
	TotalDemand        int       `json:"totalDemand"`
	AverageDailyDemand float64   `json:"averageDailyDemand"`
	ProjectedDemand    int       `json:"projectedDemand"`
	DaysUntilStockout  int       `json:"daysUntilStockout"`
	RecommendedOrder   int       `json:"recommendedOrder"`
}

type CategoryForecast struct {
	Category             string `json:"category"`
	TotalProjectedDemand int    `json:"totalProjectedDemand"`
	TotalCurrentStock    int    `json:"totalCurrentStock"`
	AvgDaysUntilStockout int    `json:"avgDaysUntilStockout"`
	ProductCount         int    `json:"productCount"`
}

type DemandForecastReport struct {
	ForecastPeriod    int                `json:"forecastPeriod"`
	LookbackDays      int                `json:"lookbackDays"`
	ProductForecasts  []ProductForecast  `json:"productForecasts"`
	AtRiskProducts    []ProductForecast  `json:"atRiskProducts"`
	CategoryForecasts []CategoryForecast `json:"categoryForecasts"`
}

type MarginRow struct {
	ID       *uuid.UUID      `json:"id,omitempty"`
	Name     string          `json:"name,omitempty"`
	Category string          `json:"category"`
	Revenue  decimal.Decimal `json:"revenue"`
	Cost     decimal.Decimal `json:"cost"`
	Profit   decimal.Decimal `json:"profit"`
	Margin   decimal.Decimal `json:"margin"`
	Units    int             `json:"units"`
}

type ProfitMarginReport struct {
	TotalRevenue         decimal.Decimal `json:"totalRevenue"`
	TotalCost            decimal.Decimal `json:"totalCost"`
	TotalProfit          decimal.Decimal `json:"totalProfit"`
	OverallMargin        decimal.Decimal `json:"overallMargin"`
	ProductMargins       []MarginRow     `json:"productMargins"`
	CategoryMargins      []MarginRow     `json:"categoryMargins"`
	TopMarginProducts    []MarginRow     `json:"topMarginProducts"`
	BottomMarginProducts []MarginRow     `json:"bottomMarginProducts"`
	Period               Period          `json:"period"`
}
