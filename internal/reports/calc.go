package reports

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/wholesale-backend/pkg/db/models"
	"github.com/angelmondragon/wholesale-backend/pkg/enums"
)

const (
	LowStockThreshold  = 10
	OverstockThreshold = 100
	AtRiskRecencyDays  = 60
	NoStockoutDays     = 999
	topN               = 10
	atRiskProductsN    = 20
)

var (
	hundred     = decimal.NewFromInt(100)
	reorderRate = decimal.RequireFromString("1.2")
)

// SoldQuantity is the delivered part of a line, never more than was ordered.
func SoldQuantity(item models.OrderItem) int {
	return max(0, min(item.Quantity, item.FulfilledQuantity))
}

// Margin is profit over revenue in percent, rounded to two places.
func Margin(revenue, cost decimal.Decimal) decimal.Decimal {
	if !revenue.IsPositive() {
		return decimal.Zero
	}
	return revenue.Sub(cost).Div(revenue).Mul(hundred).Round(2)
}

func qty(n int) decimal.Decimal {
	return decimal.NewFromInt(int64(n))
}

func byKey[T any](m map[string]*T, key func(*T) string) []T {
	out := make([]T, 0, len(m))
	for _, v := range m {
		out = append(out, *v)
	}
	slices.SortFunc(out, func(a, b T) int { return cmp.Compare(key(&a), key(&b)) })
	return out
}

func head[T any](items []T, n int) []T {
	return slices.Clone(items[:min(n, len(items))])
}

// BuildSales aggregates sold orders by product, category, customer and day.
func BuildSales(orders []models.Order, products map[uuid.UUID]models.Product, w Window) SalesReport {
	report := SalesReport{TotalSales: decimal.Zero, Period: w.period()}
	byProduct := map[string]*SalesBucket{}
	byCategory := map[string]*SalesBucket{}
	byCustomer := map[string]*AmountBucket{}
	byDate := map[string]*AmountBucket{}

	add := func(m map[string]*SalesBucket, key string, sold int, revenue decimal.Decimal) {
		b, ok := m[key]
		if !ok {
			b = &SalesBucket{Key: key, Revenue: decimal.Zero}
			m[key] = b
		}
		b.Lines++
		b.Quantity += sold
		b.Revenue = b.Revenue.Add(revenue)
	}
	addAmount := func(m map[string]*AmountBucket, key string, amount decimal.Decimal) {
		b, ok := m[key]
		if !ok {
			b = &AmountBucket{Key: key, Amount: decimal.Zero}
			m[key] = b
		}
		b.Amount = b.Amount.Add(amount)
	}

	for _, order := range orders {
		report.TotalSales = report.TotalSales.Add(order.TotalAmount)
		report.TotalOrders++
		addAmount(byDate, order.OrderDate.UTC().Format(dateLayout), order.TotalAmount)

		customer := "Unknown"
		if order.Customer != nil {
			customer = order.Customer.Name
		}
		addAmount(byCustomer, customer, order.TotalAmount)

		for _, item := range order.Items {
			name, category := "Unknown", "Uncategorized"
			if p, ok := products[item.ProductID]; ok {
				name, category = p.Name, p.CategoryName()
			}
			sold := SoldQuantity(item)
			revenue := item.SellPrice.Mul(qty(sold))
			add(byProduct, name, sold, revenue)
			add(byCategory, category, sold, revenue)
		}
	}

	bucketKey := func(b *SalesBucket) string { return b.Key }
	amountKey := func(b *AmountBucket) string { return b.Key }
	report.SalesByProduct = byKey(byProduct, bucketKey)
	report.SalesByCategory = byKey(byCategory, bucketKey)
	report.SalesByCustomer = byKey(byCustomer, amountKey)
	report.SalesTimeline = byKey(byDate, amountKey)
	return report
}

func stockItem(p models.Product) StockItem {
	return StockItem{ID: p.ID, Name: p.Name, SKU: p.SKU, Category: p.Category, QuantityOnHand: p.QuantityOnHand}
}

// BuildInventory values stock at purchase price and buckets it by level.
// Overstock only applies to products above the low threshold.
func BuildInventory(products []models.Product) InventoryReport {
	report := InventoryReport{
		TotalProducts:   len(products),
		InventoryValue:  decimal.Zero,
		LowStockItems:   []StockItem{},
		OutOfStockItems: []StockItem{},
		OverstockItems:  []StockItem{},
		StockThresholds: StockThresholds{Low: LowStockThreshold, Overstock: OverstockThreshold},
	}
	categories := map[string]*CategoryStock{}

	for _, p := range products {
		value := p.PurchasePrice.Mul(qty(p.QuantityOnHand))
		report.InventoryValue = report.InventoryValue.Add(value)

		name := p.CategoryName()
		c, ok := categories[name]
		if !ok {
			c = &CategoryStock{Category: name, Value: decimal.Zero}
			categories[name] = c
		}
		c.Count++
		c.Value = c.Value.Add(value)
		c.QuantityTotal += p.QuantityOnHand

		switch {
		case p.QuantityOnHand == 0:
			report.OutOfStockItems = append(report.OutOfStockItems, stockItem(p))
		case p.QuantityOnHand <= LowStockThreshold:
			report.LowStockItems = append(report.LowStockItems, stockItem(p))
		case p.QuantityOnHand >= OverstockThreshold:
			item := stockItem(p)
			item.Value = &value
			report.OverstockItems = append(report.OverstockItems, item)
		}
	}
	report.InventoryByCategory = byKey(categories, func(c *CategoryStock) string { return c.Category })
	return report
}

func BuildLowStock(products []models.Product) LowStockReport {
	inv := BuildInventory(products)
	return LowStockReport{
		LowStockItems:   inv.LowStockItems,
		OutOfStockItems: inv.OutOfStockItems,
		StockThresholds: inv.StockThresholds,
	}
}

// BuildProductPerformance costs sold quantities at the product's current
// purchase price. Products without sales are left out.
func BuildProductPerformance(orders []models.Order, products []models.Product, w Window) ProductPerformanceReport {
	perf := make(map[uuid.UUID]*ProductPerformance, len(products))
	for _, p := range products {
		perf[p.ID] = &ProductPerformance{
			ID:       p.ID,
			Name:     p.Name,
			SKU:      p.SKU,
			Category: p.CategoryName(),
			Revenue:  decimal.Zero,
			Cost:     decimal.Zero,
			Profit:   decimal.Zero,
		}
	}
	purchase := make(map[uuid.UUID]decimal.Decimal, len(products))
	for _, p := range products {
		purchase[p.ID] = p.PurchasePrice
	}

	for _, order := range orders {
		for _, item := range order.Items {
			row, ok := perf[item.ProductID]
			if !ok {
				continue
			}
			sold := SoldQuantity(item)
			revenue := item.SellPrice.Mul(qty(sold))
			cost := purchase[item.ProductID].Mul(qty(sold))
			row.QuantitySold += sold
			row.Revenue = row.Revenue.Add(revenue)
			row.Cost = row.Cost.Add(cost)
			row.Profit = row.Profit.Add(revenue.Sub(cost))
			row.TimesOrdered++
		}
	}

	rows := make([]ProductPerformance, 0, len(perf))
	for _, row := range perf {
		if row.QuantitySold == 0 {
			continue
		}
		row.MarginPercentage = Margin(row.Revenue, row.Cost)
		rows = append(rows, *row)
	}
	slices.SortFunc(rows, func(a, b ProductPerformance) int {
		if c := b.Profit.Cmp(a.Profit); c != 0 {
			return c
		}
		return cmp.Compare(a.Name, b.Name)
	})

	categories := map[string]*CategoryPerformance{}
	for _, row := range rows {
		c, ok := categories[row.Category]
		if !ok {
			c = &CategoryPerformance{Category: row.Category, Revenue: decimal.Zero, Cost: decimal.Zero, Profit: decimal.Zero}
			categories[row.Category] = c
		}
		c.ProductCount++
		c.QuantitySold += row.QuantitySold
		c.Revenue = c.Revenue.Add(row.Revenue)
		c.Cost = c.Cost.Add(row.Cost)
		c.Profit = c.Profit.Add(row.Profit)
	}
	for _, c := range categories {
		c.MarginPercentage = Margin(c.Revenue, c.Cost)
	}

	return ProductPerformanceReport{
		ProductPerformance:  rows,
		TopPerformers:       head(rows, topN),
		CategoryPerformance: byKey(categories, func(c *CategoryPerformance) string { return c.Category }),
		Period:              w.period(),
	}
}

// BuildCustomerAnalysis ranks every customer by what they ordered in the
// window. Cancelled orders do not count.
func BuildCustomerAnalysis(customers []models.Customer, orders []models.Order, w Window, now time.Time) CustomerAnalysisReport {
	stats := make(map[uuid.UUID]*CustomerStats, len(customers))
	ordered := make([]uuid.UUID, 0, len(customers))
	for _, c := range customers {
		stats[c.ID] = &CustomerStats{
			ID:                 c.ID,
			Name:               c.Name,
			StoreID:            c.StoreID,
			TotalSpent:         decimal.Zero,
			AverageOrderValue:  decimal.Zero,
			OutstandingBalance: c.OutstandingBalance,
		}
		ordered = append(ordered, c.ID)
	}

	for _, order := range orders {
		if order.Status == enums.OrderStatusCancelled {
			continue
		}
		s, ok := stats[order.CustomerID]
		if !ok {
			continue
		}
		s.OrderCount++
		s.TotalSpent = s.TotalSpent.Add(order.TotalAmount)
		if s.LastOrderDate == nil || order.OrderDate.After(*s.LastOrderDate) {
			d := order.OrderDate.UTC()
			s.LastOrderDate = &d
		}
	}

	all := make([]CustomerStats, 0, len(ordered))
	for _, id := range ordered {
		s := stats[id]
		if s.OrderCount > 0 {
			s.AverageOrderValue = s.TotalSpent.Div(qty(s.OrderCount)).Round(2)
		}
		if s.LastOrderDate != nil {
			days := int(math.Round(now.Sub(*s.LastOrderDate).Hours() / 24))
			s.Recency = &days
		}
		all = append(all, *s)
	}

	byName := func(a, b CustomerStats) int { return cmp.Compare(a.Name, b.Name) }

	top := slices.Clone(all)
	slices.SortStableFunc(top, func(a, b CustomerStats) int {
		if c := b.TotalSpent.Cmp(a.TotalSpent); c != 0 {
			return c
		}
		return byName(a, b)
	})

	frequent := slices.Clone(all)
	slices.SortStableFunc(frequent, func(a, b CustomerStats) int {
		if c := cmp.Compare(b.OrderCount, a.OrderCount); c != 0 {
			return c
		}
		return byName(a, b)
	})

	aov := slices.DeleteFunc(slices.Clone(all), func(c CustomerStats) bool { return c.OrderCount == 0 })
	slices.SortStableFunc(aov, func(a, b CustomerStats) int {
		if c := b.AverageOrderValue.Cmp(a.AverageOrderValue); c != 0 {
			return c
		}
		return byName(a, b)
	})

	atRisk := slices.DeleteFunc(slices.Clone(all), func(c CustomerStats) bool {
		return c.Recency == nil || *c.Recency <= AtRiskRecencyDays
	})
	slices.SortStableFunc(atRisk, func(a, b CustomerStats) int { return cmp.Compare(*a.Recency, *b.Recency) })

	return CustomerAnalysisReport{
		CustomerAnalysis: all,
		TopCustomers:     head(top, topN),
		MostFrequent:     head(frequent, topN),
		HighestAOV:       head(aov, topN),
		AtRiskCustomers:  atRisk,
		Period:           w.period(),
	}
}

// BuildSupplierPerformance scores suppliers on the demand lists they
// delivered in the window.
func BuildSupplierPerformance(suppliers []models.Supplier, lists []models.DemandList, w Window) SupplierPerformanceReport {
	stats := make(map[uuid.UUID]*SupplierStats, len(suppliers))
	ordered := make([]uuid.UUID, 0, len(suppliers))
	for _, s := range suppliers {
		stats[s.ID] = &SupplierStats{
			ID:                s.ID,
			Name:              s.Name,
			TotalPurchased:    decimal.Zero,
			FulfilledPercent:  decimal.Zero,
			ReliabilityRating: s.ReliabilityRating,
		}
		ordered = append(ordered, s.ID)
	}

	for _, list := range lists {
		s, ok := stats[list.SupplierID]
		if !ok {
			continue
		}
		s.DemandListCount++
		for _, item := range list.Items {
			s.ItemsRequested += item.Quantity
			s.ItemsFulfilled += item.AvailableQuantity
			s.TotalPurchased = s.TotalPurchased.Add(item.PurchasePrice.Mul(qty(item.AvailableQuantity)))
		}
		if list.FulfillmentDate != nil && (s.LastFulfillmentDate == nil || list.FulfillmentDate.After(*s.LastFulfillmentDate)) {
			d := list.FulfillmentDate.UTC()
			s.LastFulfillmentDate = &d
		}
	}

	all := make([]SupplierStats, 0, len(ordered))
	for _, id := range ordered {
		s := stats[id]
		if s.ItemsRequested > 0 {
			s.FulfilledPercent = qty(s.ItemsFulfilled).Div(qty(s.ItemsRequested)).Mul(hundred).Round(2)
		}
		all = append(all, *s)
	}

	top := slices.Clone(all)
	slices.SortStableFunc(top, func(a, b SupplierStats) int {
		if c := b.TotalPurchased.Cmp(a.TotalPurchased); c != 0 {
			return c
		}
		return cmp.Compare(a.Name, b.Name)
	})
	reliable := slices.DeleteFunc(slices.Clone(all), func(s SupplierStats) bool { return s.ItemsRequested == 0 })
	slices.SortStableFunc(reliable, func(a, b SupplierStats) int {
		if c := b.FulfilledPercent.Cmp(a.FulfilledPercent); c != 0 {
			return c
		}
		return cmp.Compare(a.Name, b.Name)
	})

	return SupplierPerformanceReport{
		SupplierPerformance: all,
		TopSuppliers:        head(top, topN),
		MostReliable:        head(reliable, topN),
		Period:              w.period(),
	}
}

// PeriodKey buckets t by day (2006-01-02), ISO week (2006-W01) or month (2006-01).
func PeriodKey(t time.Time, groupBy enums.ReportGroupBy) string {
	t = t.UTC()
	switch groupBy {
	case enums.ReportGroupByWeek:
		year, week := t.ISOWeek()
		return fmt.Sprintf("%d-W%02d", year, week)
	case enums.ReportGroupByMonth:
		return t.Format("2006-01")
	default:
		return t.Format(dateLayout)
	}
}

// BuildRevenue books each order's total as revenue and its delivered
// quantities at current purchase price as cost.
func BuildRevenue(orders []models.Order, products map[uuid.UUID]models.Product, groupBy enums.ReportGroupBy, w Window) RevenueReport {
	report := RevenueReport{
		TotalRevenue: decimal.Zero,
		TotalCost:    decimal.Zero,
		TotalProfit:  decimal.Zero,
		Period:       w.period(),
	}
	report.Period.GroupBy = groupBy
	periods := map[string]*RevenuePeriod{}

	for _, order := range orders {
		key := PeriodKey(order.OrderDate, groupBy)
		p, ok := periods[key]
		if !ok {
			p = &RevenuePeriod{Period: key, Revenue: decimal.Zero, Cost: decimal.Zero, Profit: decimal.Zero}
			periods[key] = p
		}
		cost := decimal.Zero
		for _, item := range order.Items {
			if product, ok := products[item.ProductID]; ok {
				cost = cost.Add(product.PurchasePrice.Mul(qty(SoldQuantity(item))))
			}
		}
		profit := order.TotalAmount.Sub(cost)

		p.Revenue = p.Revenue.Add(order.TotalAmount)
		p.Cost = p.Cost.Add(cost)
		p.Profit = p.Profit.Add(profit)
		p.Orders++

		report.TotalRevenue = report.TotalRevenue.Add(order.TotalAmount)
		report.TotalCost = report.TotalCost.Add(cost)
		report.TotalProfit = report.TotalProfit.Add(profit)
	}
	report.ProfitMargin = Margin(report.TotalRevenue, report.TotalCost)
	report.TimelineData = byKey(periods, func(p *RevenuePeriod) string { return p.Period })
	return report
}

// BuildDemandForecast projects demand from what sold over the trailing
// lookbackDays and suggests a reorder covering the projection plus 20%.
func BuildDemandForecast(products []models.Product, orders []models.Order, forecastDays, lookbackDays int) DemandForecastReport {
	demand := make(map[uuid.UUID]int, len(products))
	for _, order := range orders {
		for _, item := range order.Items {
			demand[item.ProductID] += SoldQuantity(item)
		}
	}

	forecasts := make([]ProductForecast, 0, len(products))
	categories := map[string]*CategoryForecast{}
	for _, p := range products {
		f := ProductForecast{
			ID:           p.ID,
			Name:         p.Name,
			Category:     p.CategoryName(),
			CurrentStock: p.QuantityOnHand,
			TotalDemand:  demand[p.ID],
		}
		if lookbackDays > 0 {
			f.AverageDailyDemand = float64(f.TotalDemand) / float64(lookbackDays)
		}
		f.ProjectedDemand = int(math.Round(f.AverageDailyDemand * float64(forecastDays)))
		f.DaysUntilStockout = NoStockoutDays
		if f.AverageDailyDemand > 0 {
			f.DaysUntilStockout = int(math.Round(float64(f.CurrentStock) / f.AverageDailyDemand))
		}
		reorder, _ := qty(f.ProjectedDemand).Mul(reorderRate).Sub(qty(f.CurrentStock)).Round(0).Float64()
		f.RecommendedOrder = max(0, int(reorder))
		forecasts = append(forecasts, f)

		c, ok := categories[f.Category]
		if !ok {
			c = &CategoryForecast{Category: f.Category}
			categories[f.Category] = c
		}
		c.TotalProjectedDemand += f.ProjectedDemand
		c.TotalCurrentStock += f.CurrentStock
		c.AvgDaysUntilStockout += f.DaysUntilStockout
		c.ProductCount++
	}
	for _, c := range categories {
		c.AvgDaysUntilStockout = int(math.Round(float64(c.AvgDaysUntilStockout) / float64(c.ProductCount)))
	}

	atRisk := slices.DeleteFunc(slices.Clone(forecasts), func(f ProductForecast) bool { return f.AverageDailyDemand <= 0 })
	slices.SortStableFunc(atRisk, func(a, b ProductForecast) int {
		if c := cmp.Compare(a.DaysUntilStockout, b.DaysUntilStockout); c != 0 {
			return c
		}
		return cmp.Compare(a.Name, b.Name)
	})

	return DemandForecastReport{
		ForecastPeriod:    forecastDays,
		LookbackDays:      lookbackDays,
		ProductForecasts:  forecasts,
		AtRiskProducts:    head(atRisk, atRiskProductsN),
		CategoryForecasts: byKey(categories, func(c *CategoryForecast) string { return c.Category }),
	}
}

// BuildProfitMargins reports margins on delivered quantities per product and
// category, highest margin first.
func BuildProfitMargins(orders []models.Order, products map[uuid.UUID]models.Product, w Window) ProfitMarginReport {
	report := ProfitMarginReport{TotalRevenue: decimal.Zero, TotalCost: decimal.Zero, Period: w.period()}
	byProduct := map[uuid.UUID]*MarginRow{}
	byCategory := map[string]*MarginRow{}

	for _, order := range orders {
		for _, item := range order.Items {
			product, ok := products[item.ProductID]
			if !ok {
				continue
			}
			sold := SoldQuantity(item)
			revenue := item.SellPrice.Mul(qty(sold))
			cost := product.PurchasePrice.Mul(qty(sold))
			report.TotalRevenue = report.TotalRevenue.Add(revenue)
			report.TotalCost = report.TotalCost.Add(cost)

			row, ok := byProduct[product.ID]
			if !ok {
				id := product.ID
				row = &MarginRow{ID: &id, Name: product.Name, Category: product.CategoryName(), Revenue: decimal.Zero, Cost: decimal.Zero}
				byProduct[product.ID] = row
			}
			row.Revenue = row.Revenue.Add(revenue)
			row.Cost = row.Cost.Add(cost)
			row.Units += sold

			cat, ok := byCategory[row.Category]
			if !ok {
				cat = &MarginRow{Category: row.Category, Revenue: decimal.Zero, Cost: decimal.Zero}
				byCategory[row.Category] = cat
			}
			cat.Revenue = cat.Revenue.Add(revenue)
			cat.Cost = cat.Cost.Add(cost)
			cat.Units += sold
		}
	}

	finish := func(rows []MarginRow) []MarginRow {
		for i := range rows {
			rows[i].Profit = rows[i].Revenue.Sub(rows[i].Cost)
			rows[i].Margin = Margin(rows[i].Revenue, rows[i].Cost)
		}
		slices.SortStableFunc(rows, func(a, b MarginRow) int {
			if c := b.Margin.Cmp(a.Margin); c != 0 {
				return c
			}
			return cmp.Compare(a.Name+a.Category, b.Name+b.Category)
		})
		return rows
	}

	productRows := make([]MarginRow, 0, len(byProduct))
	for _, row := range byProduct {
		productRows = append(productRows, *row)
	}
	categoryRows := make([]MarginRow, 0, len(byCategory))
	for _, row := range byCategory {
		categoryRows = append(categoryRows, *row)
	}

	report.ProductMargins = finish(productRows)
	report.CategoryMargins = finish(categoryRows)
	report.TotalProfit = report.TotalRevenue.Sub(report.TotalCost)
	report.OverallMargin = Margin(report.TotalRevenue, report.TotalCost)
	report.TopMarginProducts = head(report.ProductMargins, topN)
	bottom := slices.Clone(report.ProductMargins)
	slices.Reverse(bottom)
	report.BottomMarginProducts = head(bottom, topN)
	return report
}
