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
	"go.uber.org/multierr"

	"github.com/giftconnect/giftconnect-backend/api/controllers"
	"github.com/giftconnect/giftconnect-backend/api/middleware"
	"github.com/giftconnect/giftconnect-backend/api/routes"
	"github.com/giftconnect/giftconnect-backend/internal/admin"
	"github.com/giftconnect/giftconnect-backend/internal/auth"
	"github.com/giftconnect/giftconnect-backend/internal/cart"
	"github.com/giftconnect/giftconnect-backend/internal/giftrequests"
	"github.com/giftconnect/giftconnect-backend/internal/gifts"
	"github.com/giftconnect/giftconnect-backend/internal/storage"
	"github.com/giftconnect/giftconnect-backend/internal/users"
	"github.com/giftconnect/giftconnect-backend/pkg/auth/session"
	"github.com/giftconnect/giftconnect-backend/pkg/config"
	"github.com/giftconnect/giftconnect-backend/pkg/db"
	"github.com/giftconnect/giftconnect-backend/pkg/env"
	"github.com/giftconnect/giftconnect-backend/pkg/logger"
	"github.com/giftconnect/giftconnect-backend/pkg/metrics"
	"github.com/giftconnect/giftconnect-backend/pkg/migrate"
	"github.com/giftconnect/giftconnect-backend/pkg/observability"
	"github.com/giftconnect/giftconnect-backend/pkg/redis"
	"github.com/giftconnect/giftconnect-backend/pkg/security"
)

const shutdownTimeout = 15 * time.Second

type closer interface {
	Close() error
}

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

	flush, err := observability.Init(cfg.Sentry, cfg.App, env.Get("GIFTCONNECT_RELEASE", "dev"))
	if err != nil {
		logg.Error(context.Background(), "failed to init sentry", err)
		os.Exit(1)
	}
	defer flush()

	var closers []closer
	readiness := map[string]controllers.Pinger{}

	store, err := openStorage(context.Background(), cfg, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap storage", err)
		os.Exit(1)
	}
	closers = append(closers, store)
	readiness["storage"] = store

	var (
		sessionStore session.Store
		limiter      middleware.RateLimiter
	)
	if cfg.Redis.Disabled {
		logg.Warn(context.Background(), "redis disabled; using in-process sessions without auth rate limiting")
		sessionStore = session.NewMemoryStore()
	} else {
		redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap redis", err)
			os.Exit(1)
		}
		closers = append(closers, redisClient)
		readiness["redis"] = redisClient
		sessionStore = redisClient
		limiter = redisClient
	}

	sessionManager, err := session.NewManager(sessionStore, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	httpMetrics := metrics.NewHTTPMetrics(registry)
	domainMetrics := metrics.NewMarketplaceMetrics(registry)

	authService, err := auth.NewService(auth.ServiceParams{
		Users:          store,
		SessionManager: sessionManager,
		Hasher:         security.NewHasher(cfg.Password),
		JWTConfig:      cfg.JWT,
		SeedConfig:     cfg.Seed,
		Logger:         logg,
		Metrics:        domainMetrics,
	})
	requireService(logg, "auth", err)

	if cfg.FeatureFlags.SeedAdmin {
		if err := authService.SeedAdmin(context.Background()); err != nil {
			logg.Error(context.Background(), "failed to seed admin", err)
			os.Exit(1)
		}
	}

	userService, err := users.NewService(store)
	requireService(logg, "users", err)
	giftService, err := gifts.NewService(store, domainMetrics)
	requireService(logg, "gifts", err)
	cartService, err := cart.NewService(store, domainMetrics)
	requireService(logg, "cart", err)
	requestService, err := giftrequests.NewService(giftrequests.ServiceParams{Store: store, Logger: logg, Metrics: domainMetrics})
	requireService(logg, "gift requests", err)
	adminService, err := admin.NewService(admin.ServiceParams{Store: store, Logger: logg, Metrics: domainMetrics})
	requireService(logg, "admin", err)

	addr := ":" + env.Get("PORT", cfg.App.Port)
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": env.Get("DYNO", "local"),
		"storage":  cfg.Storage.Backend,
	})

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Dependencies{
			Config:             cfg,
			Logger:             logg,
			Sessions:           sessionManager,
			Users:              store,
			RateLimiter:        limiter,
			Readiness:          readiness,
			HTTPMetrics:        httpMetrics,
			Gatherer:           registry,
			AuthService:        authService,
			UserService:        userService,
			GiftService:        giftService,
			CartService:        cartService,
			GiftRequestService: requestService,
			AdminService:       adminService,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logg.Info(ctx, "starting api server")
		serveErr <- server.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	exitCode := 0
	select {
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			exitCode = 1
		}
	case sig := <-stop:
		logg.Info(logg.WithField(ctx, "signal", sig.String()), "shutting down api server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	errs := server.Shutdown(shutdownCtx)
	for i := len(closers) - 1; i >= 0; i-- {
		errs = multierr.Append(errs, closers[i].Close())
	}
	if errs != nil {
		logg.Error(ctx, "errors during shutdown", errs)
		exitCode = 1
	}

	if exitCode != 0 {
		flush()
		os.Exit(exitCode)
	}
}

// openStorage picks the in-memory or gorm-backed store from config.
func openStorage(ctx context.Context, cfg *config.Config, logg *logger.Logger) (storage.Storage, error) {
	if !cfg.Storage.UsesSQL() {
		logg.Info(ctx, "using in-memory storage")
		return storage.NewMemStorage(), nil
	}

	client, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		return nil, err
	}
	gormStore, err := storage.NewGormStorage(client)
	if err != nil {
		return nil, multierr.Append(err, client.Close())
	}

	if client.IsSQLite() {
		err = gormStore.AutoMigrate(ctx)
	} else {
		err = migrate.MaybeRunDev(ctx, cfg, logg, client)
	}
	if err != nil {
		return nil, multierr.Append(err, client.Close())
	}
	return gormStore, nil
}

func requireService(logg *logger.Logger, name string, err error) {
	if err == nil {
		return
	}
	logg.Error(logg.WithField(context.Background(), "service", name), "failed to create service", err)
	os.Exit(1)
}
