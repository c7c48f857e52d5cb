package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/machbridge/machbridge-backend/api/routes"
	"github.com/machbridge/machbridge-backend/internal/countries"
	"github.com/machbridge/machbridge-backend/internal/pricing"
	"github.com/machbridge/machbridge-backend/internal/products"
	"github.com/machbridge/machbridge-backend/internal/shippingroutes"
	"github.com/machbridge/machbridge-backend/internal/surcharges"
	"github.com/machbridge/machbridge-backend/pkg/config"
	"github.com/machbridge/machbridge-backend/pkg/db"
	"github.com/machbridge/machbridge-backend/pkg/logger"
	"github.com/machbridge/machbridge-backend/pkg/metrics"
	"github.com/machbridge/machbridge-backend/pkg/migrate"
	"github.com/machbridge/machbridge-backend/pkg/redis"
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
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	registry := prometheus.NewRegistry()
	calcMetrics := metrics.NewCalculationMetrics(registry)

	conn := dbClient.DB()
	countryRepo := countries.NewRepository(conn)
	routeRepo := shippingroutes.NewRepository(conn)
	surchargeRepo := surcharges.NewRepository(conn)

	pricingService := pricing.NewService(
		products.NewRepository(conn),
		countryRepo,
		routeRepo,
		surchargeRepo,
		logg,
		calcMetrics,
	)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:     cfg,
			Logger:     logg,
			DB:         dbClient,
			Redis:      redisClient,
			Registry:   registry,
			Pricing:    pricingService,
			Routes:     shippingroutes.NewService(routeRepo, logg),
			Surcharges: surcharges.NewService(surchargeRepo, logg),
			Countries:  countries.NewService(countryRepo, logg),
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
