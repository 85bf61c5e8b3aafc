// Package reports computes read-only statistics over orders, stock,
// customers and suppliers.
package reports

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/angelmondragon/wholesale-backend/pkg/config"
	"github.com/angelmondragon/wholesale-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/wholesale-backend/pkg/errors"
	"github.com/angelmondragon/wholesale-backend/pkg/metrics"
)

const maxForecastDays = 365

// Query carries the raw window bounds a caller asked for.
type Query struct {
	StartDate string
	EndDate   string
}

type Service interface {
	Sales(ctx context.Context, q Query) (*SalesReport, error)
	Inventory(ctx context.Context) (*InventoryReport, error)
	LowStock(ctx context.Context) (*LowStockReport, error)
	ProductPerformance(ctx context.Context, q Query) (*ProductPerformanceReport, error)
	CustomerAnalysis(ctx context.Context, q Query) (*CustomerAnalysisReport, error)
	SupplierPerformance(ctx context.Context, q Query) (*SupplierPerformanceReport, error)
	Revenue(ctx context.Context, q Query, groupBy string) (*RevenueReport, error)
	DemandForecast(ctx context.Context, period string) (*DemandForecastReport, error)
	ProfitMargins(ctx context.Context, q Query) (*ProfitMarginReport, error)
}

type service struct {
	repo    *Repository
	cfg     config.ReportsConfig
	metrics *metrics.OperationMetrics
	now     func() time.Time
}

func NewService(repo *Repository, cfg config.ReportsConfig, ops *metrics.OperationMetrics) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("reports repository required")
	}
	if cfg.DefaultWindow <= 0 || cfg.AnalysisWindow <= 0 || cfg.ForecastLookback < 24*time.Hour {
		return nil, fmt.Errorf("report windows must be positive")
	}
	if cfg.ForecastDefaultDays <= 0 {
		cfg.ForecastDefaultDays = 30
	}
	return &service{
		repo:    repo,
		cfg:     cfg,
		metrics: ops,
		now:     func() time.Time { return time.Now().UTC() },
	}, nil
}

func (s *service) Sales(ctx context.Context, q Query) (_ *SalesReport, err error) {
	done := s.metrics.Track("report.sales")
	defer func() { done(err) }()

	w, err := ResolveWindow(q.StartDate, q.EndDate, s.cfg.DefaultWindow, s.now())
	if err != nil {
		return nil, err
	}
	orders, err := s.repo.SoldOrders(ctx, w)
	if err != nil {
		return nil, loadError(err, "orders")
	}
	products, err := s.repo.Products(ctx)
	if err != nil {
		return nil, loadError(err, "products")
	}
	report := BuildSales(orders, productIndex(products), w)
	return &report, nil
}

func (s *service) Inventory(ctx context.Context) (_ *InventoryReport, err error) {
	done := s.metrics.Track("report.inventory")
	defer func() { done(err) }()

	products, err := s.repo.Products(ctx)
	if err != nil {
		return nil, loadError(err, "products")
	}
	report := BuildInventory(products)
	return &report, nil
}

func (s *service) LowStock(ctx context.Context) (_ *LowStockReport, err error) {
	done := s.metrics.Track("report.low_stock")
	defer func() { done(err) }()

	products, err := s.repo.Products(ctx)
	if err != nil {
		return nil, loadError(err, "products")
	}
	report := BuildLowStock(products)
	return &report, nil
}

func (s *service) ProductPerformance(ctx context.Context, q Query) (_ *ProductPerformanceReport, err error) {
	done := s.metrics.Track("report.product_performance")
	defer func() { done(err) }()

	w, err := ResolveWindow(q.StartDate, q.EndDate, s.cfg.DefaultWindow, s.now())
	if err != nil {
		return nil, err
	}
	orders, err := s.repo.SoldOrders(ctx, w)
	if err != nil {
		return nil, loadError(err, "orders")
	}
	products, err := s.repo.Products(ctx)
	if err != nil {
		return nil, loadError(err, "products")
	}
	report := BuildProductPerformance(orders, products, w)
	return &report, nil
}

func (s *service) CustomerAnalysis(ctx context.Context, q Query) (_ *CustomerAnalysisReport, err error) {
	done := s.metrics.Track("report.customer_analysis")
	defer func() { done(err) }()

	now := s.now()
	w, err := ResolveWindow(q.StartDate, q.EndDate, s.cfg.AnalysisWindow, now)
	if err != nil {
		return nil, err
	}
	customers, err := s.repo.Customers(ctx)
	if err != nil {
		return nil, loadError(err, "customers")
	}
	orders, err := s.repo.Orders(ctx, w)
	if err != nil {
		return nil, loadError(err, "orders")
	}
	report := BuildCustomerAnalysis(customers, orders, w, now)
	return &report, nil
}

func (s *service) SupplierPerformance(ctx context.Context, q Query) (_ *SupplierPerformanceReport, err error) {
	done := s.metrics.Track("report.supplier_performance")
	defer func() { done(err) }()

	w, err := ResolveWindow(q.StartDate, q.EndDate, s.cfg.AnalysisWindow, s.now())
	if err != nil {
		return nil, err
	}
	suppliers, err := s.repo.Suppliers(ctx)
	if err != nil {
		return nil, loadError(err, "suppliers")
	}
	lists, err := s.repo.DeliveredDemandLists(ctx, w)
	if err != nil {
		return nil, loadError(err, "demand lists")
	}
	report := BuildSupplierPerformance(suppliers, lists, w)
	return &report, nil
}

func (s *service) Revenue(ctx context.Context, q Query, groupBy string) (_ *RevenueReport, err error) {
	done := s.metrics.Track("report.revenue")
	defer func() { done(err) }()

	group, err := enums.ParseReportGroupBy(strings.ToLower(strings.TrimSpace(groupBy)))
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "groupBy must be one of day, week, month").
			WithDetails(map[string]any{"field": "groupBy"})
	}
	w, err := ResolveWindow(q.StartDate, q.EndDate, s.cfg.DefaultWindow, s.now())
	if err != nil {
		return nil, err
	}
	orders, err := s.repo.SoldOrders(ctx, w)
	if err != nil {
		return nil, loadError(err, "orders")
	}
	products, err := s.repo.Products(ctx)
	if err != nil {
		return nil, loadError(err, "products")
	}
	report := BuildRevenue(orders, productIndex(products), group, w)
	return &report, nil
}

func (s *service) DemandForecast(ctx context.Context, period string) (_ *DemandForecastReport, err error) {
	done := s.metrics.Track("report.demand_forecast")
	defer func() { done(err) }()

	days, err := s.forecastDays(period)
	if err != nil {
		return nil, err
	}
	now := s.now()
	w := Window{Start: now.Add(-s.cfg.ForecastLookback), End: now}
	orders, err := s.repo.SoldOrders(ctx, w)
	if err != nil {
		return nil, loadError(err, "orders")
	}
	products, err := s.repo.Products(ctx)
	if err != nil {
		return nil, loadError(err, "products")
	}
	lookbackDays := int(s.cfg.ForecastLookback / (24 * time.Hour))
	report := BuildDemandForecast(products, orders, days, lookbackDays)
	return &report, nil
}

func (s *service) forecastDays(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return s.cfg.ForecastDefaultDays, nil
	}
	days, err := strconv.Atoi(raw)
	if err != nil || days < 1 || days > maxForecastDays {
		return 0, pkgerrors.Newf(pkgerrors.CodeValidation, "period must be a whole number of days between 1 and %d", maxForecastDays).
			WithDetails(map[string]any{"field": "period"})
	}
	return days, nil
}

func (s *service) ProfitMargins(ctx context.Context, q Query) (_ *ProfitMarginReport, err error) {
	done := s.metrics.Track("report.profit_margins")
	defer func() { done(err) }()

	w, err := ResolveWindow(q.StartDate, q.EndDate, s.cfg.DefaultWindow, s.now())
	if err != nil {
		return nil, err
	}
	orders, err := s.repo.SoldOrders(ctx, w)
	if err != nil {
		return nil, loadError(err, "orders")
	}
	products, err := s.repo.Products(ctx)
	if err != nil {
		return nil, loadError(err, "products")
	}
	report := BuildProfitMargins(orders, productIndex(products), w)
	return &report, nil
}

func loadError(err error, what string) error {
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load "+what)
}
