package reports

import (
	"context"
	"net/http"
	"strings"

	"github.com/angelmondragon/wholesale-backend/api/responses"
	reportsvc "github.com/angelmondragon/wholesale-backend/internal/reports"
	pkgerrors "github.com/angelmondragon/wholesale-backend/pkg/errors"
	"github.com/angelmondragon/wholesale-backend/pkg/logger"
)

func unavailable() error {
	return pkgerrors.New(pkgerrors.CodeInternal, "report service unavailable")
}

// queryFromRequest reads ?startDate= and ?endDate=. Parsing and defaults
// belong to the report service so every report resolves its window the same way.
func queryFromRequest(r *http.Request) reportsvc.Query {
	q := r.URL.Query()
	return reportsvc.Query{
		StartDate: strings.TrimSpace(q.Get("startDate")),
		EndDate:   strings.TrimSpace(q.Get("endDate")),
	}
}

func serve[T any](svc reportsvc.Service, logg *logger.Logger, build func(ctx context.Context, r *http.Request) (T, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, unavailable())
			return
		}
		report, err := build(r.Context(), r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, report)
	}
}

func Sales(svc reportsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return serve(svc, logg, func(ctx context.Context, r *http.Request) (*reportsvc.SalesReport, error) {
		return svc.Sales(ctx, queryFromRequest(r))
	})
}

func Inventory(svc reportsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return serve(svc, logg, func(ctx context.Context, _ *http.Request) (*reportsvc.InventoryReport, error) {
		return svc.Inventory(ctx)
	})
}

func LowStock(svc reportsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return serve(svc, logg, func(ctx context.Context, _ *http.Request) (*reportsvc.LowStockReport, error) {
		return svc.LowStock(ctx)
	})
}

func ProductPerformance(svc reportsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return serve(svc, logg, func(ctx context.Context, r *http.Request) (*reportsvc.ProductPerformanceReport, error) {
		return svc.ProductPerformance(ctx, queryFromRequest(r))
	})
}

func CustomerAnalysis(svc reportsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return serve(svc, logg, func(ctx context.Context, r *http.Request) (*reportsvc.CustomerAnalysisReport, error) {
		return svc.CustomerAnalysis(ctx, queryFromRequest(r))
	})
}

func SupplierPerformance(svc reportsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return serve(svc, logg, func(ctx context.Context, r *http.Request) (*reportsvc.SupplierPerformanceReport, error) {
		return svc.SupplierPerformance(ctx, queryFromRequest(r))
	})
}

// Revenue buckets revenue by ?groupBy= (day, week or month; default day).
func Revenue(svc reportsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return serve(svc, logg, func(ctx context.Context, r *http.Request) (*reportsvc.RevenueReport, error) {
		return svc.Revenue(ctx, queryFromRequest(r), strings.TrimSpace(r.URL.Query().Get("groupBy")))
	})
}

// DemandForecast projects demand over ?period= days.
func DemandForecast(svc reportsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return serve(svc, logg, func(ctx context.Context, r *http.Request) (*reportsvc.DemandForecastReport, error) {
		return svc.DemandForecast(ctx, strings.TrimSpace(r.URL.Query().Get("period")))
	})
}

func ProfitMargins(svc reportsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return serve(svc, logg, func(ctx context.Context, r *http.Request) (*reportsvc.ProfitMarginReport, error) {
		return svc.ProfitMargins(ctx, queryFromRequest(r))
	})
}
