package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/cartlyhq/cartly-backend/api/routes"
	"github.com/cartlyhq/cartly-backend/internal/auth"
	"github.com/cartlyhq/cartly-backend/internal/cart"
	"github.com/cartlyhq/cartly-backend/internal/currency"
	"github.com/cartlyhq/cartly-backend/internal/customers"
	"github.com/cartlyhq/cartly-backend/internal/orders"
	"github.com/cartlyhq/cartly-backend/internal/products"
	"github.com/cartlyhq/cartly-backend/internal/promos"
	"github.com/cartlyhq/cartly-backend/internal/reviews"
	"github.com/cartlyhq/cartly-backend/internal/wishlist"
	"github.com/cartlyhq/cartly-backend/pkg/auth/session"
	"github.com/cartlyhq/cartly-backend/pkg/config"
	"github.com/cartlyhq/cartly-backend/pkg/db"
	"github.com/cartlyhq/cartly-backend/pkg/logger"
	"github.com/cartlyhq/cartly-backend/pkg/metrics"
	"github.com/cartlyhq/cartly-backend/pkg/migrate"
	"github.com/cartlyhq/cartly-backend/pkg/redis"
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
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	checkoutMetrics := metrics.NewCheckoutMetrics(registry)

	conn := dbClient.DB()
	customerRepo := customers.NewRepository(conn)
	productRepo := products.NewRepository(conn)
	cartRepo := cart.NewRepository(conn)
	promoRepo := promos.NewRepository(conn)
	orderRepo := orders.NewRepository(conn)
	reviewRepo := reviews.NewRepository(conn)
	wishlistRepo := wishlist.NewRepository(conn)

	sessionCache, err := session.NewRedisCache(redisClient)
	exitOn(logg, "session cache", err)

	authService, err := auth.NewService(auth.ServiceParams{
		CustomerRepo: customerRepo,
		TokenRepo:    auth.NewTokenRepository(conn),
		Cache:        sessionCache,
		JWT:          cfg.JWT,
		Password:     cfg.Password,
		Logger:       logg,
	})
	exitOn(logg, "auth service", err)

	productService, err := products.NewService(products.ServiceParams{
		ProductRepo: productRepo,
	})
	exitOn(logg, "product service", err)

	cartService, err := cart.NewService(cart.ServiceParams{
		CartRepo:    cartRepo,
		ProductRepo: productRepo,
	})
	exitOn(logg, "cart service", err)

	promoService, err := promos.NewService(promos.ServiceParams{
		PromoRepo: promoRepo,
	})
	exitOn(logg, "promo service", err)

	orderService, err := orders.NewService(orders.ServiceParams{
		OrderRepo:    orderRepo,
		CartRepo:     cartRepo,
		ProductRepo:  productRepo,
		CustomerRepo: customerRepo,
		PromoService: promoService,
		Metrics:      checkoutMetrics,
		Logger:       logg,
	})
	exitOn(logg, "order service", err)

	reviewService, err := reviews.NewService(reviews.ServiceParams{
		ReviewRepo:  reviewRepo,
		ProductRepo: productRepo,
	})
	exitOn(logg, "review service", err)

	wishlistService, err := wishlist.NewService(wishlist.ServiceParams{
		WishlistRepo: wishlistRepo,
		ProductRepo:  productRepo,
	})
	exitOn(logg, "wishlist service", err)

	currencyService, err := currency.NewService(currency.ServiceParams{
		Cache:        currency.NewRedisKV(redisClient),
		Logger:       logg,
		HTTPClient:   &http.Client{Timeout: cfg.Currency.HTTPTimeout},
		CountriesURL: cfg.Currency.CountriesURL,
		RatesURL:     cfg.Currency.RatesURL,
	})
	exitOn(logg, "currency service", err)

	handler := routes.NewRouter(routes.Deps{
		Config:   cfg,
		Logger:   logg,
		Registry: registry,
		DB:       dbClient,
		Redis:    redisClient,

		Idempotency: redisClient,

		Auth:     authService,
		Products: productService,
		Cart:     cartService,
		Orders:   orderService,
		Reviews:  reviewService,
		Wishlist: wishlistService,
		Currency: currencyService,
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
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case sig := <-shutdown:
		logg.Info(logg.WithField(ctx, "signal", sig.String()), "shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
		}
	}
}

func exitOn(logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(context.Background(), "failed to create "+resource, err)
	os.Exit(1)
}
