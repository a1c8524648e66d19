package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/utafrali/storefront/internal/service"
	"github.com/utafrali/storefront/pkg/health"
	"github.com/utafrali/storefront/pkg/middleware"
)

// Services bundles the service dependencies of the router.
type Services struct {
	Catalog  *service.CatalogService
	Cart     *service.CartService
	Checkout *service.CheckoutService
	Payment  *service.PaymentService
	Coupon   *service.CouponService
	Refund   *service.RefundService
}

// NewRouter creates a chi router with all storefront routes registered.
func NewRouter(
	svcs Services,
	healthHandler *health.Handler,
	corsCfg middleware.CORSConfig,
	logger *slog.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.CORS(corsCfg))
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Tracing("storefront"))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.PrometheusMetrics("storefront"))

	// Health and metrics endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	catalogHandler := NewCatalogHandler(svcs.Catalog, logger)
	cartHandler := NewCartHandler(svcs.Cart, logger)
	checkoutHandler := NewCheckoutHandler(svcs.Checkout, logger)
	paymentHandler := NewPaymentHandler(svcs.Payment, logger)
	couponHandler := NewCouponHandler(svcs.Coupon, logger)
	refundHandler := NewRefundHandler(svcs.Refund, logger)

	r.Route("/api/v1", func(r chi.Router) {
		// Public catalog reads
		r.Group(func(r chi.Router) {
			r.Use(middleware.CacheControl(60))

			r.Get("/items", catalogHandler.ListItems)
			r.Get("/items/{slug}", catalogHandler.GetItem)
		})

		// Refunds are looked up by ref code, no user identity needed.
		r.Group(func(r chi.Router) {
			r.Use(ContentTypeJSON)

			r.Post("/refunds", refundHandler.RequestRefund)
		})

		// Everything against the active order requires the user header.
		r.Group(func(r chi.Router) {
			r.Use(RequireUser)
			r.Use(ContentTypeJSON)

			r.Post("/items", catalogHandler.CreateItem)

			r.Get("/cart", cartHandler.GetCart)
			r.Post("/cart/items", cartHandler.AddItem)
			r.Delete("/cart/items/{slug}", cartHandler.RemoveItem)
			r.Delete("/cart/items/{slug}/one", cartHandler.RemoveSingleItem)

			r.Post("/checkout", checkoutHandler.Checkout)
			r.Post("/payment", paymentHandler.Pay)
			r.Post("/coupons/apply", couponHandler.ApplyCoupon)
		})
	})

	return r
}
