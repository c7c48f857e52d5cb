package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/machbridge/machbridge-backend/api/controllers"
	"github.com/machbridge/machbridge-backend/api/middleware"
	"github.com/machbridge/machbridge-backend/internal/countries"
	"github.com/machbridge/machbridge-backend/internal/pricing"
	"github.com/machbridge/machbridge-backend/internal/shippingroutes"
	"github.com/machbridge/machbridge-backend/internal/surcharges"
	"github.com/machbridge/machbridge-backend/pkg/config"
	"github.com/machbridge/machbridge-backend/pkg/db"
	"github.com/machbridge/machbridge-backend/pkg/logger"
	"github.com/machbridge/machbridge-backend/pkg/redis"
)

// Deps carries everything the router wires into handlers.
type Deps struct {
	Config     *config.Config
	Logger     *logger.Logger
	DB         db.Pinger
	Redis      *redis.Client
	Registry   *prometheus.Registry
	Pricing    pricing.Service
	Routes     shippingroutes.Service
	Surcharges surcharges.Service
	Countries  countries.Service
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	quotePolicy := middleware.NewQuoteRateLimitPolicy(
		"quote",
		cfg.RateLimit.QuoteWindow,
		cfg.RateLimit.QuoteIPLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, controllers.ReadinessDeps(deps.DB, deps.Redis)))
	})

	if deps.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/pricing", func(r chi.Router) {
		quote := controllers.CalculateLandedCost(deps.Pricing, logg)
		if deps.Redis != nil {
			r.With(middleware.QuoteRateLimit(quotePolicy, deps.Redis, logg)).Post("/calculate", quote)
			return
		}
		r.Post("/calculate", quote)
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Route("/shipping-routes", func(r chi.Router) {
			r.Get("/", controllers.AdminListShippingRoutes(deps.Routes, logg))
			r.Post("/", controllers.AdminCreateShippingRoute(deps.Routes, logg))
			r.Route("/{routeID}", func(r chi.Router) {
				r.Get("/", controllers.AdminGetShippingRoute(deps.Routes, logg))
				r.Patch("/", controllers.AdminUpdateShippingRoute(deps.Routes, logg))
				r.Delete("/", controllers.AdminDeleteShippingRoute(deps.Routes, logg))
			})
		})

		r.Route("/volume-surcharges", func(r chi.Router) {
			r.Get("/", controllers.AdminListSurcharges(deps.Surcharges, logg))
			r.Post("/", controllers.AdminCreateSurcharge(deps.Surcharges, logg))
			r.Route("/{surchargeID}", func(r chi.Router) {
				r.Get("/", controllers.AdminGetSurcharge(deps.Surcharges, logg))
				r.Patch("/", controllers.AdminUpdateSurcharge(deps.Surcharges, logg))
				r.Delete("/", controllers.AdminDeleteSurcharge(deps.Surcharges, logg))
			})
		})

		r.Route("/countries/{country}/parameters", func(r chi.Router) {
			r.Get("/", controllers.AdminGetCountryParams(deps.Countries, logg))
			r.Put("/", controllers.AdminUpsertCountryParams(deps.Countries, logg))
		})
	})

	return r
}
