package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/brunovilar/pedezap-backend/api/controllers"
	"github.com/brunovilar/pedezap-backend/api/middleware"
	"github.com/brunovilar/pedezap-backend/internal/auth"
	"github.com/brunovilar/pedezap-backend/internal/cart"
	"github.com/brunovilar/pedezap-backend/internal/catalog"
	"github.com/brunovilar/pedezap-backend/internal/media"
	"github.com/brunovilar/pedezap-backend/internal/orders"
	"github.com/brunovilar/pedezap-backend/internal/storefront"
	"github.com/brunovilar/pedezap-backend/internal/stores"
	"github.com/brunovilar/pedezap-backend/pkg/auth/session"
	"github.com/brunovilar/pedezap-backend/pkg/config"
	"github.com/brunovilar/pedezap-backend/pkg/db"
	"github.com/brunovilar/pedezap-backend/pkg/logger"
	"github.com/brunovilar/pedezap-backend/pkg/redis"
	"github.com/brunovilar/pedezap-backend/pkg/storage/gcs"
)

// Params bundles everything the router wires together.
type Params struct {
	Config   *config.Config
	Logger   *logger.Logger
	Registry *prometheus.Registry

	DBPinger    db.Pinger
	RedisPinger redis.Pinger
	GCSPinger   gcs.Pinger

	SessionChecker session.AccessSessionChecker

	AuthService       auth.Service
	StorefrontService storefront.Service
	CartService       cart.Service
	CheckoutService   orders.Service
	StoreService      stores.Service
	CategoryService   catalog.CategoryService
	ProductService    catalog.ProductService
	ExtraService      catalog.ExtraService
	MediaService      media.Service
}

func NewRouter(p Params) http.Handler {
	cfg := p.Config
	logg := p.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.CORSOrigins),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, p.DBPinger, p.RedisPinger, p.GCSPinger))
	})

	if p.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(p.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", controllers.AuthRegister(p.AuthService, logg))
			r.Post("/login", controllers.AuthLogin(p.AuthService, logg))
			r.With(middleware.Auth(cfg.JWT, p.SessionChecker, logg)).
				Post("/logout", controllers.AuthLogout(p.AuthService, logg))
		})

		r.Route("/storefront/{slug}", func(r chi.Router) {
			r.Get("/", controllers.StorefrontShow(p.StorefrontService, logg))
			r.Get("/store", controllers.StorefrontStore(p.StorefrontService, logg))
			r.Post("/checkout", controllers.Checkout(p.CheckoutService, logg))
		})

		r.Route("/carts/{cartKey}", func(r chi.Router) {
			r.Get("/", controllers.CartFetch(p.CartService, logg))
			r.Delete("/", controllers.CartClear(p.CartService, logg))
			r.Put("/tenant", controllers.CartSetTenant(p.CartService, logg))
			r.Post("/items", controllers.CartAddItem(p.CartService, logg))
			r.Put("/items/quantity", controllers.CartSetQuantity(p.CartService, logg))
			r.Delete("/items/{productID}", controllers.CartRemoveItem(p.CartService, logg))
		})
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, p.SessionChecker, logg))

		r.Get("/store", controllers.StoreProfile(p.StoreService, logg))
		r.Put("/store", controllers.StoreUpdate(p.StoreService, logg))

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", controllers.CategoryList(p.CategoryService, logg))
			r.Post("/", controllers.CategoryCreate(p.CategoryService, logg))
			r.Put("/reorder", controllers.CategoryReorder(p.CategoryService, logg))
			r.Put("/{categoryID}", controllers.CategoryUpdate(p.CategoryService, logg))
			r.Delete("/{categoryID}", controllers.CategoryDelete(p.CategoryService, logg))
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ProductList(p.ProductService, logg))
			r.Post("/", controllers.ProductCreate(p.ProductService, logg))
			r.Put("/{productID}", controllers.ProductUpdate(p.ProductService, logg))
			r.Delete("/{productID}", controllers.ProductDelete(p.ProductService, logg))
			r.Put("/{productID}/extras", controllers.ProductSetExtras(p.ProductService, logg))
		})

		r.Route("/extras", func(r chi.Router) {
			r.Get("/", controllers.ExtraList(p.ExtraService, logg))
			r.Post("/", controllers.ExtraCreate(p.ExtraService, logg))
			r.Put("/{extraID}", controllers.ExtraUpdate(p.ExtraService, logg))
			r.Delete("/{extraID}", controllers.ExtraDelete(p.ExtraService, logg))
		})

		r.Post("/media/upload", controllers.MediaUpload(p.MediaService, int64(cfg.Media.MaxUploadMB)<<20, logg))
		r.Delete("/media", controllers.MediaDelete(p.MediaService, logg))
	})

	return r
}
