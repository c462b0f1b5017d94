package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/cartlyhq/cartly-backend/api/controllers"
	"github.com/cartlyhq/cartly-backend/api/middleware"
	"github.com/cartlyhq/cartly-backend/internal/auth"
	"github.com/cartlyhq/cartly-backend/internal/cart"
	"github.com/cartlyhq/cartly-backend/internal/currency"
	"github.com/cartlyhq/cartly-backend/internal/orders"
	"github.com/cartlyhq/cartly-backend/internal/products"
	"github.com/cartlyhq/cartly-backend/internal/reviews"
	"github.com/cartlyhq/cartly-backend/internal/wishlist"
	"github.com/cartlyhq/cartly-backend/pkg/config"
	"github.com/cartlyhq/cartly-backend/pkg/logger"
	pkgredis "github.com/cartlyhq/cartly-backend/pkg/redis"
)

// Deps bundles everything the router mounts.
type Deps struct {
	Config   *config.Config
	Logger   *logger.Logger
	Registry *prometheus.Registry

	DB    controllers.Pinger
	Redis controllers.Pinger

	Idempotency pkgredis.IdempotencyStore

	Auth     auth.Service
	Products products.Service
	Cart     cart.Service
	Orders   orders.Service
	Reviews  reviews.Service
	Wishlist wishlist.Service
	Currency currency.Service
}

// NewRouter wires the full HTTP surface.
func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, map[string]controllers.Pinger{
			"database": deps.DB,
			"redis":    deps.Redis,
		}))
	})

	if deps.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	requireAuth := middleware.Auth(cfg.JWT, deps.Auth, logg)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", controllers.Register(deps.Auth, logg))
			r.Post("/login", controllers.Login(deps.Auth, logg))
			r.Post("/refresh", controllers.Refresh(deps.Auth, logg))

			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				r.Post("/logout", controllers.Logout(deps.Auth, logg))
				r.Get("/me", controllers.Me(deps.Auth, logg))
				r.Put("/me", controllers.UpdateMe(deps.Auth, logg))
				r.Put("/change-password", controllers.ChangePassword(deps.Auth, logg))
			})
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ProductsList(deps.Products, logg))
			r.Get("/{id}", controllers.ProductsGet(deps.Products, logg))
			r.Get("/{id}/reviews", controllers.ReviewsListByProduct(deps.Reviews, logg))
		})

		r.Route("/currency", func(r chi.Router) {
			r.Get("/countries", controllers.CurrencyCountries(deps.Currency, logg))
			r.Get("/rates", controllers.CurrencyRates(deps.Currency, logg))
			r.Get("/convert", controllers.CurrencyConvert(deps.Currency, logg))
		})

		r.Route("/cart", func(r chi.Router) {
			r.Use(requireAuth)
			r.Get("/", controllers.CartFetch(deps.Cart, logg))
			r.Post("/", controllers.CartAdd(deps.Cart, logg))
			r.Put("/{id}", controllers.CartUpdateQuantity(deps.Cart, logg))
			r.Delete("/{id}", controllers.CartRemove(deps.Cart, logg))
			r.Delete("/", controllers.CartClear(deps.Cart, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Use(requireAuth)
			r.Use(middleware.Idempotency(deps.Idempotency, logg))
			r.Post("/create", controllers.OrdersCreate(deps.Orders, logg))
			r.Get("/my-orders", controllers.OrdersListMine(deps.Orders, logg))
			r.Get("/{id}", controllers.OrdersGet(deps.Orders, logg))
			r.Put("/{id}/cancel", controllers.OrdersCancel(deps.Orders, logg))
		})

		r.Route("/reviews", func(r chi.Router) {
			r.Use(requireAuth)
			r.Post("/", controllers.ReviewsCreate(deps.Reviews, logg))
			r.Get("/my-reviews", controllers.ReviewsListMine(deps.Reviews, logg))
			r.Put("/{id}", controllers.ReviewsUpdate(deps.Reviews, logg))
			r.Delete("/{id}", controllers.ReviewsDelete(deps.Reviews, logg))
		})

		r.Route("/wishlist", func(r chi.Router) {
			r.Use(requireAuth)
			r.Get("/", controllers.WishlistList(deps.Wishlist, logg))
			r.Post("/", controllers.WishlistAdd(deps.Wishlist, logg))
			r.Delete("/{productId}", controllers.WishlistRemove(deps.Wishlist, logg))
		})
	})

	return r
}
