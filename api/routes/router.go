package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/wholesale-backend/api/controllers"
	authcontrollers "github.com/angelmondragon/wholesale-backend/api/controllers/auth"
	customercontrollers "github.com/angelmondragon/wholesale-backend/api/controllers/customers"
	demandcontrollers "github.com/angelmondragon/wholesale-backend/api/controllers/demandlists"
	ordercontrollers "github.com/angelmondragon/wholesale-backend/api/controllers/orders"
	productcontrollers "github.com/angelmondragon/wholesale-backend/api/controllers/products"
	reportcontrollers "github.com/angelmondragon/wholesale-backend/api/controllers/reports"
	suppliercontrollers "github.com/angelmondragon/wholesale-backend/api/controllers/suppliers"
	usercontrollers "github.com/angelmondragon/wholesale-backend/api/controllers/users"
	"github.com/angelmondragon/wholesale-backend/api/middleware"
	"github.com/angelmondragon/wholesale-backend/internal/auth"
	"github.com/angelmondragon/wholesale-backend/internal/customers"
	"github.com/angelmondragon/wholesale-backend/internal/demandlists"
	"github.com/angelmondragon/wholesale-backend/internal/fulfillment"
	"github.com/angelmondragon/wholesale-backend/internal/orders"
	"github.com/angelmondragon/wholesale-backend/internal/products"
	"github.com/angelmondragon/wholesale-backend/internal/reports"
	"github.com/angelmondragon/wholesale-backend/internal/suppliers"
	"github.com/angelmondragon/wholesale-backend/internal/users"
	"github.com/angelmondragon/wholesale-backend/pkg/auth/session"
	"github.com/angelmondragon/wholesale-backend/pkg/config"
	"github.com/angelmondragon/wholesale-backend/pkg/db"
	"github.com/angelmondragon/wholesale-backend/pkg/enums"
	"github.com/angelmondragon/wholesale-backend/pkg/logger"
	"github.com/angelmondragon/wholesale-backend/pkg/metrics"
	pkgredis "github.com/angelmondragon/wholesale-backend/pkg/redis"
)

// ReportsPermission is the token permission that unlocks /api/reports for
// non-admin users.
const ReportsPermission = "reports:read"

// Store is the Redis surface the HTTP layer needs: idempotency records,
// auth throttling and the readiness probe.
type Store interface {
	pkgredis.IdempotencyStore
	FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error)
	Ping(ctx context.Context) error
}

type Services struct {
	Auth        auth.Service
	Users       users.Service
	Products    products.Service
	Suppliers   suppliers.Service
	Customers   customers.Service
	Orders      orders.Service
	DemandLists demandlists.Service
	Fulfillment fulfillment.Service
	Reports     reports.Service
}

// Observability carries the Prometheus collectors. A nil Gatherer leaves
// /metrics unmounted.
type Observability struct {
	HTTP     *metrics.HTTPMetrics
	Gatherer prometheus.Gatherer
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	store Store,
	sessions session.AccessSessionChecker,
	obs Observability,
	svc Services,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.CORS(cfg.CORS),
		middleware.Metrics(obs.HTTP),
		middleware.Logging(logg),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	deps := map[string]controllers.Pinger{"database": dbP, "redis": store}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps))
	})

	if obs.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(obs.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api", func(r chi.Router) {
		// credential endpoints
		r.Group(func(r chi.Router) {
			r.With(middleware.AuthRateLimit(registerPolicy, store, logg)).Post("/users", authcontrollers.Register(svc.Auth, logg))
			r.With(middleware.AuthRateLimit(loginPolicy, store, logg)).Post("/users/login", authcontrollers.Login(svc.Auth, logg))
			r.Post("/users/refresh", authcontrollers.Refresh(svc.Auth, logg))
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, sessions, logg))
			r.Use(middleware.Idempotency(store, cfg.FeatureFlags.RequireIdemKey, logg))

			r.Post("/users/logout", authcontrollers.Logout(svc.Auth, logg))
			r.Get("/users/profile", usercontrollers.Profile(svc.Users, logg))
			r.Put("/users/profile", usercontrollers.UpdateProfile(svc.Users, logg))

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(logg, enums.UserRoleAdmin))
				r.Get("/users", usercontrollers.List(svc.Users, logg))
				r.Get("/users/{id}", usercontrollers.Get(svc.Users, logg))
				r.Put("/users/{id}", usercontrollers.Update(svc.Users, logg))
				r.Delete("/users/{id}", usercontrollers.Delete(svc.Users, logg))
				r.Put("/users/{id}/permissions", usercontrollers.SetPermissions(svc.Users, logg))
			})

			r.Route("/products", func(r chi.Router) {
				r.Get("/", productcontrollers.List(svc.Products, logg))
				r.Post("/", productcontrollers.Create(svc.Products, logg))
				r.Get("/lowstock", productcontrollers.ListLowStock(svc.Products, logg))
				r.Get("/supplier/{supplierId}", productcontrollers.ListBySupplier(svc.Products, "supplierId", logg))
				r.Get("/category/{category}", productcontrollers.ListByCategory(svc.Products, logg))
				r.Get("/{id}", productcontrollers.Get(svc.Products, logg))
				r.Put("/{id}", productcontrollers.Update(svc.Products, logg))
				r.Delete("/{id}", productcontrollers.Delete(svc.Products, logg))
				r.Put("/{id}/inventory", productcontrollers.UpdateInventory(svc.Products, logg))
			})

			r.Route("/suppliers", func(r chi.Router) {
				r.Get("/", suppliercontrollers.List(svc.Suppliers, logg))
				r.Post("/", suppliercontrollers.Create(svc.Suppliers, logg))
				r.Get("/{id}", suppliercontrollers.Get(svc.Suppliers, logg))
				r.Put("/{id}", suppliercontrollers.Update(svc.Suppliers, logg))
				r.Delete("/{id}", suppliercontrollers.Delete(svc.Suppliers, logg))
				r.Get("/{id}/products", productcontrollers.ListBySupplier(svc.Products, "id", logg))
				r.Put("/{id}/reliability", suppliercontrollers.UpdateReliability(svc.Suppliers, logg))
			})

			r.Route("/customers", func(r chi.Router) {
				r.Get("/", customercontrollers.List(svc.Customers, logg))
				r.Post("/", customercontrollers.Create(svc.Customers, logg))
				r.Get("/{id}", customercontrollers.Get(svc.Customers, logg))
				r.Put("/{id}", customercontrollers.Update(svc.Customers, logg))
				r.Delete("/{id}", customercontrollers.Delete(svc.Customers, logg))
				r.Get("/{id}/orders", customercontrollers.Orders(svc.Orders, logg))
			})

			r.Route("/orders", func(r chi.Router) {
				r.Get("/", ordercontrollers.List(svc.Orders, logg))
				r.Post("/", ordercontrollers.Create(svc.Orders, logg))
				r.Get("/status/{status}", ordercontrollers.ListByStatus(svc.Orders, logg))
				r.Get("/{id}", ordercontrollers.Get(svc.Orders, logg))
				r.Put("/{id}", ordercontrollers.Update(svc.Orders, logg))
				r.Delete("/{id}", ordercontrollers.Delete(svc.Orders, logg))
				r.Put("/{id}/status", ordercontrollers.UpdateStatus(svc.Orders, logg))
				r.Put("/{id}/fulfill", ordercontrollers.Fulfill(svc.Fulfillment, logg))
				r.Post("/{id}/payment", ordercontrollers.RecordPayment(svc.Orders, logg))
			})

			r.Route("/demandlists", func(r chi.Router) {
				r.Get("/", demandcontrollers.List(svc.DemandLists, logg))
				r.Post("/", demandcontrollers.Create(svc.DemandLists, logg))
				r.Get("/supplier/{supplierId}", demandcontrollers.ListBySupplier(svc.DemandLists, logg))
				r.Get("/{id}", demandcontrollers.Get(svc.DemandLists, logg))
				r.Put("/{id}", demandcontrollers.Update(svc.DemandLists, logg))
				r.Delete("/{id}", demandcontrollers.Delete(svc.DemandLists, logg))
				r.Put("/{id}/status", demandcontrollers.UpdateStatus(svc.DemandLists, logg))
				r.Post("/{id}/fulfill", demandcontrollers.Fulfill(svc.Fulfillment, logg))
			})

			r.Route("/reports", func(r chi.Router) {
				r.Use(middleware.RequirePermission(ReportsPermission, logg))
				r.Get("/sales", reportcontrollers.Sales(svc.Reports, logg))
				r.Get("/inventory", reportcontrollers.Inventory(svc.Reports, logg))
				r.Get("/low-stock", reportcontrollers.LowStock(svc.Reports, logg))
				r.Get("/product-performance", reportcontrollers.ProductPerformance(svc.Reports, logg))
				r.Get("/customer-analysis", reportcontrollers.CustomerAnalysis(svc.Reports, logg))
				r.Get("/supplier-performance", reportcontrollers.SupplierPerformance(svc.Reports, logg))
				r.Get("/revenue", reportcontrollers.Revenue(svc.Reports, logg))
				r.Get("/demand-forecast", reportcontrollers.DemandForecast(svc.Reports, logg))
				r.Get("/profit-margins", reportcontrollers.ProfitMargins(svc.Reports, logg))
				r.Get("/profit-margin", reportcontrollers.ProfitMargins(svc.Reports, logg))
			})
		})
	})

	return r
}
