package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mercanto/storefront-backend/api/controllers"
	"github.com/mercanto/storefront-backend/api/middleware"
	"github.com/mercanto/storefront-backend/internal/fulfillment"
	"github.com/mercanto/storefront-backend/internal/notifications"
	"github.com/mercanto/storefront-backend/internal/returns"
	"github.com/mercanto/storefront-backend/internal/shipping"
	"github.com/mercanto/storefront-backend/pkg/config"
	"github.com/mercanto/storefront-backend/pkg/db"
	"github.com/mercanto/storefront-backend/pkg/logger"
	pkgredis "github.com/mercanto/storefront-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	cache pkgredis.Pinger,
	idempotencyStore pkgredis.IdempotencyStore,
	limiter middleware.RateLimiterStore,
	registry *prometheus.Registry,
	fulfillmentService fulfillment.Service,
	returnsService returns.Service,
	shippingService shipping.Service,
	notificationsService notifications.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, dbP, cache, logg))
	})

	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.RateLimit(
			middleware.NewRateLimitPolicy("api", cfg.RateLimit.Window, cfg.RateLimit.Requests),
			limiter,
			logg,
		))
		r.Use(middleware.Idempotency(idempotencyStore, logg))

		r.Route("/supplier-orders", func(r chi.Router) {
			r.Get("/", controllers.ListSupplierOrders(fulfillmentService, logg))
			r.Get("/{id}", controllers.GetSupplierOrder(fulfillmentService, logg))
			r.Post("/{id}/advance", controllers.AdvanceSupplierOrder(fulfillmentService, logg))
		})

		r.Route("/returns", func(r chi.Router) {
			r.Get("/", controllers.ListReturns(returnsService, logg))
			r.Get("/{id}", controllers.GetReturn(returnsService, logg))
			r.Post("/bulk-approve", controllers.BulkApproveReturns(returnsService, logg))
			r.Post("/{id}/transition", controllers.TransitionReturn(returnsService, logg))
			r.Post("/{id}/refund", controllers.RefundReturn(returnsService, logg))
		})

		r.Route("/shipping", func(r chi.Router) {
			r.Get("/rates", controllers.ListShippingRates(shippingService, logg))
			r.Post("/labels", controllers.GenerateShippingLabel(shippingService, logg))
		})

		r.Route("/notifications", func(r chi.Router) {
			r.Get("/", controllers.ListNotifications(notificationsService, logg))
			r.Get("/{id}", controllers.GetNotification(notificationsService, logg))
			r.Post("/{id}/resend", controllers.ResendNotification(notificationsService, logg))
		})
	})

	return r
}
