package main // Entry point package

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/iliyamo/cafe-finder/internal/config"
	"github.com/iliyamo/cafe-finder/internal/database"
	"github.com/iliyamo/cafe-finder/internal/handler"
	"github.com/iliyamo/cafe-finder/internal/logger"
	"github.com/iliyamo/cafe-finder/internal/middleware"
	"github.com/iliyamo/cafe-finder/internal/queue"
	"github.com/iliyamo/cafe-finder/internal/repository"
	"github.com/iliyamo/cafe-finder/internal/router"
	"github.com/iliyamo/cafe-finder/internal/service"
	"github.com/iliyamo/cafe-finder/internal/validation"
	"github.com/iliyamo/cafe-finder/internal/web"
)

func main() {
	cfg := config.Load() // Load environment config

	lg, err := logger.New(cfg.IsProd(), cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = lg.Sync() }()

	driver, dsn, err := database.DSN(cfg)
	if err != nil {
		lg.Fatal("database config", zap.Error(err))
	}
	db, err := database.Open(driver, dsn)
	if err != nil {
		lg.Fatal("database open", zap.String("driver", driver), zap.Error(err))
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := database.EnsureSchema(ctx, db); err != nil {
		lg.Fatal("database schema", zap.Error(err))
	}

	events := config.LoadEventsConfig()
	var publisher service.EventPublisher = queue.NopPublisher{}
	if events.Enabled {
		publisher = queue.NewPublisher(events.URL, lg)
	}
	if events.ConsumerEnabled {
		consumer := queue.NewConsumer(events.URL, events.LogDir, lg)
		go func() {
			if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				lg.Error("cafe consumer stopped", zap.Error(err))
			}
		}()
	}

	cafes := service.NewCafeService(repository.NewCafeRepo(db), validation.New(), publisher, lg)

	renderer, err := web.NewRenderer()
	if err != nil {
		lg.Fatal("templates", zap.Error(err))
	}

	rdb, err := config.NewRedisClient(ctx, config.LoadRedisConfig())
	switch {
	case err != nil:
		lg.Warn("redis unavailable; cache and rate limiting disabled", zap.Error(err))
	case rdb == nil:
		lg.Info("redis disabled")
	default:
		defer rdb.Close()
	}
	cacheCfg := config.LoadCacheConfig()

	e := echo.New() // Create Echo instance
	e.HideBanner = true
	e.Renderer = renderer
	e.Use(echomw.Recover())
	e.Use(middleware.RequestLogger(lg))

	router.RegisterRoutes(e, db)
	rlCfg := config.LoadRateLimitConfig()
	mws := router.Middlewares{
		CSRF:          middleware.CSRF(handler.CSRFContextKey, cfg.IsProd()),
		Cache:         middleware.NewRedisCache(cacheCfg, rdb),
		RateLimit:     middleware.NewTokenBucket(rlCfg, rdb, lg, nil),
		PageRateLimit: middleware.NewTokenBucket(rlCfg, rdb, lg, handler.RateLimitedPage),
		Invalidate:    middleware.NewCacheInvalidator(cacheCfg, rdb, lg),
	}
	h := handler.NewCafeHandler(cafes)
	router.RegisterPages(e, h, mws)
	router.RegisterAPI(e, h, mws)

	addr := ":" + cfg.Port
	lg.Info("listening", zap.String("addr", addr), zap.String("env", cfg.Env), zap.String("db", driver))

	go func() {
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			lg.Fatal("server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		lg.Error("shutdown", zap.Error(err))
	}
}
