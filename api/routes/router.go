package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/squareeyes/storefront/api/controllers"
	"github.com/squareeyes/storefront/api/middleware"
	"github.com/squareeyes/storefront/internal/cart"
	"github.com/squareeyes/storefront/internal/catalog"
	"github.com/squareeyes/storefront/internal/checkout"
	"github.com/squareeyes/storefront/internal/favourites"
	"github.com/squareeyes/storefront/internal/recommend"
	"github.com/squareeyes/storefront/pkg/config"
	"github.com/squareeyes/storefront/pkg/kv"
	"github.com/squareeyes/storefront/pkg/logger"
	"github.com/squareeyes/storefront/pkg/metrics"
)

// RouterParams collects everything the HTTP surface needs.
type RouterParams struct {
	Config     *config.Config
	Logger     *logger.Logger
	Metrics    *metrics.StorefrontMetrics
	Backend    kv.Store
	Catalog    catalog.Service
	Cart       *cart.Store
	Checkout   *checkout.Manager
	Favourites *favourites.Service
	Feed       *recommend.Feed
	Registry   *prometheus.Registry
}

func NewRouter(p RouterParams) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(p.Logger),
		middleware.RequestID(p.Logger),
		middleware.Session(p.Logger),
		middleware.Logging(p.Logger, p.Metrics),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(p.Config))
		r.Get("/ready", controllers.HealthReady(p.Config, p.Logger, p.Backend))
	})

	if p.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(p.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/catalog", func(r chi.Router) {
			r.Get("/", controllers.CatalogList(p.Catalog, p.Logger))
			r.Get("/{itemId}", controllers.CatalogGet(p.Catalog, p.Logger))
		})

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.CartGet(p.Cart, p.Logger))
			r.Delete("/", controllers.CartClear(p.Cart, p.Logger))
			r.Post("/items", controllers.CartAddItem(p.Cart, p.Logger))
			r.Patch("/items/{itemId}", controllers.CartUpdateQty(p.Cart, p.Logger))
			r.Delete("/items/{itemId}", controllers.CartRemoveItem(p.Cart, p.Logger))
		})

		r.Route("/favourites", func(r chi.Router) {
			r.Get("/", controllers.FavouritesList(p.Favourites, p.Logger))
			r.Post("/{itemId}/toggle", controllers.FavouritesToggle(p.Favourites, p.Logger))
		})

		r.Get("/recommendations", controllers.Recommendations(p.Feed, p.Logger))

		r.Route("/checkout", func(r chi.Router) {
			r.Get("/", controllers.CheckoutStatus(p.Checkout, p.Logger))
			r.Post("/begin", controllers.CheckoutBegin(p.Checkout, p.Logger))
			r.Post("/back", controllers.CheckoutBack(p.Checkout, p.Logger))
			r.Post("/submit", controllers.CheckoutSubmit(p.Checkout, p.Logger))
		})

		r.Get("/orders/last", controllers.OrderLast(p.Checkout, p.Logger))
	})

	return r
}
