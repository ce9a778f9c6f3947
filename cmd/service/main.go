// @title        Vidly API
// @version      1.0
// @description  影片出租管理 API：類型、電影、顧客、使用者與租借/歸還
// @host         localhost:8080
// @BasePath     /api
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name x-auth-token
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"vidly/internal/cache"
	"vidly/internal/config"
	"vidly/internal/database"
	"vidly/internal/events"
	"vidly/internal/logging"
	"vidly/internal/middleware"
	"vidly/internal/obs"
	"vidly/internal/router"
	"vidly/internal/service"
	"vidly/internal/worker"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"

	_ "vidly/docs" // 引入 swag 產出的 docs

	echoSwagger "github.com/swaggo/echo-swagger"
)

const shutdownTimeout = 10 * time.Second

var (
	loadConfig      = config.Load
	newLogger       = logging.New
	initTracer      = obs.InitTracer
	newPgxPool      = database.NewPgxPool
	newRedisClient  = cache.NewRedisClient
	runMigrationsFn = database.RunMigrations
	newPublisher    = events.NewPublisher
	newWorkerPool   = worker.NewPool
	startServer     = func(e *echo.Echo, addr string) error { return e.Start(addr) }
	exitFunc        = os.Exit
)

func newServer(cfg config.Config, d router.Deps, log logrus.FieldLogger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = service.NewCustomValidator()
	e.HTTPErrorHandler = middleware.ErrorHandler(log)

	e.Use(echomw.Recover())
	e.Use(middleware.RequestLogger(log))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: []string{
			echo.HeaderOrigin,
			echo.HeaderContentType,
			echo.HeaderAccept,
			echo.HeaderAuthorization,
			middleware.HeaderAuthToken,
		},
		ExposeHeaders: []string{middleware.HeaderAuthToken},
	}))

	router.Setup(e, d)

	// Swagger UI
	e.GET("/swagger/*", echoSwagger.WrapHandler)
	return e
}

func run(ctx context.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("設定載入失敗: %w", err)
	}

	log, err := newLogger(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return fmt.Errorf("無效的 LOG_LEVEL: %w", err)
	}

	shutdownTracer, err := initTracer(ctx, cfg.ServiceName, cfg.OTLPEndpoint)
	if err != nil {
		return fmt.Errorf("Tracer 初始化失敗: %w", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdownTracer(sctx); err != nil {
			log.WithError(err).Warn("tracer shutdown failed")
		}
	}()

	if err := runMigrationsFn(cfg.DatabaseURL); err != nil {
		return fmt.Errorf("Migration 執行失敗: %w", err)
	}

	db, err := newPgxPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("DB 連線失敗: %w", err)
	}
	defer db.Close()

	rdb, err := newRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		return fmt.Errorf("Redis 連線失敗: %w", err)
	}
	defer func() {
		if err := rdb.Close(); err != nil {
			log.WithError(err).Warn("redis close failed")
		}
	}()

	pub, err := newPublisher(cfg.AMQPURL, cfg.EventsExchange)
	if err != nil {
		return fmt.Errorf("RabbitMQ 連線失敗: %w", err)
	}
	defer func() {
		if err := pub.Close(); err != nil {
			log.WithError(err).Warn("publisher close failed")
		}
	}()

	// pool 先停，尚未送出的事件才能在 publisher 關閉前送完
	wp := newWorkerPool(cfg.WorkerCount, log)
	defer wp.Stop()

	e := newServer(cfg, router.Deps{
		DB:        db,
		Cache:     rdb,
		Notifier:  events.NewDispatcher(pub, wp, log),
		Log:       log,
		JWTSecret: cfg.JWTSecret,
		JWTTTL:    cfg.JWTTTL,
		CacheTTL:  cfg.CacheTTL,
	}, log)

	errCh := make(chan error, 1)
	go func() { errCh <- startServer(e, cfg.HTTPAddr) }()
	log.WithField("addr", cfg.HTTPAddr).Info("http server started")

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP 服務錯誤: %w", err)
		}
		return nil
	case <-ctx.Done():
		log.Info("shutting down")
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return e.Shutdown(sctx)
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		exitFunc(1)
	}
}
