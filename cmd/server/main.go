package main // Entry point package

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/dmolina/building-table-reservation/internal/cache"
	"github.com/dmolina/building-table-reservation/internal/config"
	"github.com/dmolina/building-table-reservation/internal/database"
	"github.com/dmolina/building-table-reservation/internal/handler"
	"github.com/dmolina/building-table-reservation/internal/logger"
	"github.com/dmolina/building-table-reservation/internal/metrics"
	"github.com/dmolina/building-table-reservation/internal/middleware"
	"github.com/dmolina/building-table-reservation/internal/queue"
	"github.com/dmolina/building-table-reservation/internal/repository"
	"github.com/dmolina/building-table-reservation/internal/router"
	"github.com/dmolina/building-table-reservation/internal/service"
	"github.com/dmolina/building-table-reservation/internal/tenant"
)

func main() {
	_ = godotenv.Load() // .env is optional; real env vars win

	cfg := config.Load()
	if err := logger.Init(cfg.Env); err != nil {
		panic("init logger: " + err.Error())
	}
	defer logger.Sync()
	log := logger.L()

	// The tenant registry and the per-building pools are built once here.
	// Either failing is unrecoverable: without buildings there is nothing
	// to serve.
	registry, err := tenant.New(cfg.Tenants)
	if err != nil {
		log.Fatal("invalid building configuration", zap.Error(err))
	}
	pools, err := database.OpenAll(cfg.Tenants)
	if err != nil {
		log.Fatal("open building databases", zap.Error(err))
	}
	defer pools.Close()
	log.Info("connected to building databases", zap.Strings("buildings", registry.IDs()))

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Warn("redis unavailable; using in-process cache, rate limiting disabled")
	}
	listingCache := cache.New(config.LoadCacheConfig(), rdb)

	users := repository.NewUserRepo(pools)
	tables := repository.NewTableRepo(pools)
	turns := repository.NewTurnRepo(pools)
	reservations := repository.NewReservationRepo(pools)

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.CORS())
	e.Use(middleware.RequestID())
	e.Use(logger.RequestLogger())
	e.Use(metrics.Middleware())

	router.Register(e, router.Deps{
		Cfg:          cfg,
		Registry:     registry,
		Auth:         handler.NewAuthHandler(cfg, users),
		Browse:       handler.NewBrowseHandler(tables, turns, registry),
		Reservations: handler.NewReservationHandler(reservations, listingCache, service.PublishReservationEvent),
		Redis:        rdb,
	})

	// Background consumer keeps its own reconnect loop.
	go queue.StartReservationConsumer()

	go func() {
		addr := ":" + cfg.Port
		log.Info("listening", zap.String("addr", addr), zap.String("env", cfg.Env))
		if err := e.Start(addr); err != nil {
			log.Info("server stopped", zap.Error(err))
		}
	}()

	// Graceful shutdown on SIGINT/SIGTERM.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Error("shutdown", zap.Error(err))
	}
}
