package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/brunovilar/pedezap-backend/api/routes"
	"github.com/brunovilar/pedezap-backend/internal/auth"
	"github.com/brunovilar/pedezap-backend/internal/cart"
	"github.com/brunovilar/pedezap-backend/internal/catalog"
	"github.com/brunovilar/pedezap-backend/internal/media"
	"github.com/brunovilar/pedezap-backend/internal/orders"
	"github.com/brunovilar/pedezap-backend/internal/storefront"
	"github.com/brunovilar/pedezap-backend/internal/stores"
	"github.com/brunovilar/pedezap-backend/internal/users"
	"github.com/brunovilar/pedezap-backend/pkg/auth/session"
	"github.com/brunovilar/pedezap-backend/pkg/config"
	"github.com/brunovilar/pedezap-backend/pkg/db"
	"github.com/brunovilar/pedezap-backend/pkg/logger"
	"github.com/brunovilar/pedezap-backend/pkg/metrics"
	"github.com/brunovilar/pedezap-backend/pkg/migrate"
	"github.com/brunovilar/pedezap-backend/pkg/redis"
	"github.com/brunovilar/pedezap-backend/pkg/storage/gcs"
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

	dbClient, err := db.New(context.Background(), cfg.DB, cfg.FeatureFlags.UseSQLite, logg)
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

	// GCS is optional in dev; media uploads stay disabled without it.
	var gcsClient *gcs.Client
	var mediaService media.Service
	gcsClient, err = gcs.NewClient(context.Background(), cfg.GCS, cfg.GCP, logg)
	if err != nil {
		logg.Warn(context.Background(), "gcs client unavailable, media uploads disabled")
		gcsClient = nil
	} else {
		mediaService, err = media.NewService(gcsClient, cfg.Media)
		if err != nil {
			logg.Error(context.Background(), "failed to create media service", err)
			os.Exit(1)
		}
	}

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	usersRepo := users.NewRepository(dbClient.DB())
	storesRepo := stores.NewRepository(dbClient.DB())
	catalogRepo := catalog.NewRepository(dbClient.DB())

	authService, err := auth.NewService(auth.ServiceParams{
		Users:          usersRepo,
		Stores:         storesRepo,
		Transactor:     dbClient,
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	cartPort, err := cart.NewRedisPort(redisClient, cfg.Orders.CartTTL)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart port", err)
		os.Exit(1)
	}

	cartService, err := cart.NewService(cartPort, catalogRepo, storesRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}

	formatter, err := orders.NewFormatter(cfg.Orders.Timezone, time.Now)
	if err != nil {
		logg.Error(context.Background(), "failed to create order formatter", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	orderMetrics := metrics.NewOrderMetrics(registry)

	checkoutService, err := orders.NewService(storesRepo, cartPort, formatter, orderMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout service", err)
		os.Exit(1)
	}

	storeService, err := stores.NewService(storesRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create store service", err)
		os.Exit(1)
	}

	storefrontService, err := storefront.NewService(storesRepo, catalogRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create storefront service", err)
		os.Exit(1)
	}

	categoryService, err := catalog.NewCategoryService(catalogRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create category service", err)
		os.Exit(1)
	}

	productService, err := catalog.NewProductService(catalogRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create product service", err)
		os.Exit(1)
	}

	extraService, err := catalog.NewExtraService(catalogRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create extra service", err)
		os.Exit(1)
	}

	var gcsPinger gcs.Pinger
	if gcsClient != nil {
		gcsPinger = gcsClient
	}

	router := routes.NewRouter(routes.Params{
		Config:   cfg,
		Logger:   logg,
		Registry: registry,

		DBPinger:    dbClient,
		RedisPinger: redisClient,
		GCSPinger:   gcsPinger,

		SessionChecker: sessionManager,

		AuthService:       authService,
		StorefrontService: storefrontService,
		CartService:       cartService,
		CheckoutService:   checkoutService,
		StoreService:      storeService,
		CategoryService:   categoryService,
		ProductService:    productService,
		ExtraService:      extraService,
		MediaService:      mediaService,
	})

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
		Addr:    addr,
		Handler: router,
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
