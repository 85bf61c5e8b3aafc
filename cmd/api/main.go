package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"

	"github.com/angelmondragon/wholesale-backend/api/routes"
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
	"github.com/angelmondragon/wholesale-backend/pkg/logger"
	"github.com/angelmondragon/wholesale-backend/pkg/metrics"
	"github.com/angelmondragon/wholesale-backend/pkg/migrate"
	"github.com/angelmondragon/wholesale-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Env:         cfg.App.Env,
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	// money is rendered as JSON numbers
	decimal.MarshalJSONWithoutQuotes = true

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logg); err != nil {
		logg.Error(context.Background(), "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logg *logger.Logger) (err error) {
	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		return fmt.Errorf("bootstrap database: %w", err)
	}
	defer func() {
		err = multierr.Append(err, dbClient.Close())
	}()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		return fmt.Errorf("run dev migrations: %w", err)
	}

	redisClient, err := redis.New(ctx, cfg.Redis, logg)
	if err != nil {
		return fmt.Errorf("bootstrap redis: %w", err)
	}
	defer func() {
		err = multierr.Append(err, redisClient.Close())
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		return fmt.Errorf("create session manager: %w", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	ops := metrics.NewOperationMetrics(registry)

	services, err := buildServices(cfg, logg, dbClient, sessionManager, ops)
	if err != nil {
		return err
	}

	addr := ":" + cfg.App.Port
	if port := os.Getenv("PORT"); port != "" {
		addr = ":" + port
	}
	logCtx := logg.WithFields(ctx, map[string]any{"env": cfg.App.Env, "addr": addr})

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(cfg, logg, dbClient, redisClient, sessionManager,
			routes.Observability{HTTP: metrics.NewHTTPMetrics(registry), Gatherer: registry},
			services,
		),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logg.Info(logCtx, "starting api server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	logg.Info(logCtx, "shutting down api server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return <-serveErr
}

func buildServices(cfg *config.Config, logg *logger.Logger, dbClient *db.Client, sessions *session.Manager, ops *metrics.OperationMetrics) (routes.Services, error) {
	conn := dbClient.DB()
	userRepo := users.NewRepository(conn)
	ordersRepo := orders.NewRepository(conn)
	demandRepo := demandlists.NewRepository(conn)

	var errs error
	authSvc, err := auth.NewService(auth.ServiceParams{
		UserRepo:       userRepo,
		SessionManager: sessions,
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
		Logger:         logg,
	})
	errs = multierr.Append(errs, err)

	userSvc, err := users.NewService(users.ServiceParams{
		Repo:     userRepo,
		Sessions: sessions,
		Password: cfg.Password,
		Logger:   logg,
	})
	errs = multierr.Append(errs, err)

	productSvc, err := products.NewService(products.NewRepository(conn), dbClient, logg)
	errs = multierr.Append(errs, err)

	supplierSvc, err := suppliers.NewService(suppliers.NewRepository(conn), logg)
	errs = multierr.Append(errs, err)

	customerSvc, err := customers.NewService(customers.NewRepository(conn), dbClient, logg)
	errs = multierr.Append(errs, err)

	orderSvc, err := orders.NewService(ordersRepo, dbClient, logg, ops)
	errs = multierr.Append(errs, err)

	demandSvc, err := demandlists.NewService(demandRepo, dbClient, logg)
	errs = multierr.Append(errs, err)

	fulfillSvc, err := fulfillment.NewService(fulfillment.ServiceParams{
		TxRunner:    dbClient,
		DemandLists: demandRepo,
		Orders:      ordersRepo,
		Metrics:     ops,
		Logger:      logg,
	})
	errs = multierr.Append(errs, err)

	reportSvc, err := reports.NewService(reports.NewRepository(conn), cfg.Reports, ops)
	errs = multierr.Append(errs, err)

	if errs != nil {
		return routes.Services{}, fmt.Errorf("build services: %w", errs)
	}
	return routes.Services{
		Auth:        authSvc,
		Users:       userSvc,
		Products:    productSvc,
		Suppliers:   supplierSvc,
		Customers:   customerSvc,
		Orders:      orderSvc,
		DemandLists: demandSvc,
		Fulfillment: fulfillSvc,
		Reports:     reportSvc,
	}, nil
}
