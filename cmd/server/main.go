package main // Entry point package

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/stayin-booking/internal/config"
	"github.com/iliyamo/stayin-booking/internal/database"
	"github.com/iliyamo/stayin-booking/internal/handler"
	"github.com/iliyamo/stayin-booking/internal/logging"
	"github.com/iliyamo/stayin-booking/internal/middleware"
	"github.com/iliyamo/stayin-booking/internal/queue"
	"github.com/iliyamo/stayin-booking/internal/repository"
	"github.com/iliyamo/stayin-booking/internal/router"
	"github.com/iliyamo/stayin-booking/internal/service"
	"github.com/iliyamo/stayin-booking/internal/utils"
	"github.com/iliyamo/stayin-booking/internal/wizard"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, ".env load warning: %v\n", err)
	}
	cfg := config.Load()
	rlCfg := config.LoadRateLimitConfig()

	logger := logging.New(os.Stdout, logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	slog.SetDefault(logger)

	var rdb *redis.Client
	if strings.EqualFold(cfg.StoreBackend, "redis") || rlCfg.Enabled {
		rdb = config.NewRedisClient()
		if rdb == nil {
			slog.Warn("redis unreachable; rate limiting disabled")
		}
	}

	backend, storeName, err := openBackend(cfg, rdb)
	if err != nil {
		slog.Error("session store", "backend", cfg.StoreBackend, "err", err)
		os.Exit(1)
	}
	defer func() { _ = backend.Close() }()
	if rdb != nil && storeName != "redis" {
		defer func() { _ = rdb.Close() }()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	registry := wizard.NewRegistry()
	defer registry.Close()
	go registry.Sweep(ctx, time.Minute, cfg.WizardIdle)

	var publisher service.ReservationPublisher = service.NopPublisher{}
	if cfg.RabbitEnabled {
		publisher = service.RabbitPublisher{URL: cfg.RabbitURL}
		consumer := &queue.Consumer{URL: cfg.RabbitURL, LogPath: queue.DefaultLogPath}
		go func() {
			if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				slog.Error("reservation consumer stopped", "err", err)
			}
		}()
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			attrs := []any{"method", v.Method, "uri", v.URI, "status", v.Status, "latency", v.Latency}
			if v.Error != nil {
				slog.Error("request", append(attrs, "err", v.Error)...)
				return nil
			}
			slog.Info("request", attrs...)
			return nil
		},
	}))
	e.Use(middleware.Session(middleware.SessionConfig{
		Secret: cfg.SessionSecret,
		TTL:    cfg.SessionTTL,
		Secure: !strings.EqualFold(cfg.Env, "dev"),
	}, backend))
	e.Use(middleware.RateLimit(rlCfg, rdb))

	hasher := utils.NewHasher(cfg.BcryptCost)
	router.RegisterRoutes(e, handler.HealthHandler{Store: storeName})
	router.RegisterPages(e, handler.NewPageHandler(time.Now))
	router.RegisterAuth(e, handler.NewAuthHandler(hasher), handler.NewProfileHandler(hasher))
	router.RegisterBooking(e, handler.NewBookingHandler(registry, publisher, cfg.SubmitDelay, time.Now))
	router.RegisterRatings(e, handler.NewRatingHandler(time.Now))
	router.RegisterStatic(e, cfg.StaticDir)

	addr := ":" + cfg.Port
	go func() {
		slog.Info("listening", "addr", addr, "env", cfg.Env, "store", storeName, "rabbitmq", cfg.RabbitEnabled)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server stopped", "err", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	slog.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		slog.Error("graceful shutdown failed", "err", err)
	}
}

// openBackend picks the Session Store.  A redis request without a reachable
// server degrades to memory; a mysql request that cannot connect is fatal.
func openBackend(cfg config.Config, rdb *redis.Client) (repository.Backend, string, error) {
	switch strings.ToLower(cfg.StoreBackend) {
	case "redis":
		if rdb == nil {
			slog.Warn("STORE_BACKEND=redis but redis is unreachable; using memory")
			return repository.NewMemoryBackend(), "memory", nil
		}
		return repository.NewRedisBackend(rdb, cfg.StorePrefix, cfg.SessionTTL), "redis", nil
	case "mysql":
		db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
		if err != nil {
			return nil, "", fmt.Errorf("open mysql: %w", err)
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := database.EnsureSchema(ctx, db); err != nil {
			_ = db.Close()
			return nil, "", fmt.Errorf("ensure schema: %w", err)
		}
		return repository.NewMySQLBackend(db), "mysql", nil
	case "", "memory":
		return repository.NewMemoryBackend(), "memory", nil
	default:
		return nil, "", fmt.Errorf("unknown STORE_BACKEND %q", cfg.StoreBackend)
	}
}
