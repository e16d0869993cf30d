package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vocabuilder/api/internal/auth"
	"github.com/vocabuilder/api/internal/cache"
	"github.com/vocabuilder/api/internal/config"
	"github.com/vocabuilder/api/internal/database"
	"github.com/vocabuilder/api/internal/handler"
	"github.com/vocabuilder/api/internal/limiter"
	"github.com/vocabuilder/api/internal/logging"
	"github.com/vocabuilder/api/internal/scheduler"
	"github.com/vocabuilder/api/internal/store"
	"github.com/vocabuilder/api/internal/validator"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

func main() {
	cfg := config.Load()

	log, err := logging.New(cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	if err := cfg.Validate(); err != nil {
		log.Fatal("invalid configuration", zap.Error(err))
	}

	// Initialize database
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal("failed to migrate database", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if n, err := database.SeedLanguages(ctx, db); err != nil {
		log.Warn("failed to seed languages", zap.Error(err))
	} else if n > 0 {
		log.Info("seeded default languages", zap.Int("count", n))
	}

	// Redis is optional (fail-open): no cache and no rate limiting without it
	var (
		redisCache *cache.RedisCache
		rateLimit  *limiter.Limiter
	)
	redisCache, err = cache.NewRedisCache(cfg.RedisURL)
	if err != nil {
		log.Warn("failed to connect to Redis, continuing without cache", zap.Error(err))
		redisCache = nil
	} else {
		defer redisCache.Close()
		if cfg.RateLimitEnabled {
			rateLimit = limiter.NewLimiter(limiter.NewRedisStorage(redisCache.Client()), limiter.DefaultLimits)
		}
	}

	languageStore := store.NewLanguageStore(db)
	languages := validator.NewLanguageValidator()
	if n, err := languages.Load(ctx, languageStore); err != nil {
		log.Warn("failed to load language codes, accepting any code", zap.Error(err))
	} else {
		log.Info("language codes loaded", zap.Int("count", n))
	}

	var googleConfig *oauth2.Config
	if cfg.GoogleEnabled() {
		googleConfig = auth.NewGoogleConfig(cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURL)
	}

	var maintenance *scheduler.MaintenanceScheduler
	if cfg.SchedulerEnabled {
		maintenance = scheduler.NewMaintenanceScheduler(
			store.NewRefreshTokenStore(db),
			languages,
			languageStore,
			scheduler.SchedulerConfig{Interval: cfg.SchedulerInterval},
			log,
		)
		go maintenance.Start(ctx)
		defer maintenance.Stop()
	}

	router, err := handler.NewRouter(handler.RouterConfig{
		DB:           db,
		Cache:        redisCache,
		Limiter:      rateLimit,
		Languages:    languages,
		Scheduler:    maintenance,
		JWTSecret:    cfg.JWTSecret,
		AdminEmails:  cfg.AdminEmails,
		GoogleConfig: googleConfig,
		FrontendURL:  cfg.FrontendURL,
		CORSOrigin:   cfg.CORSOrigin,
		Log:          log,
	})
	if err != nil {
		log.Fatal("failed to build router", zap.Error(err))
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("API server starting", zap.String("port", cfg.Port), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", zap.Error(err))
	}
}
