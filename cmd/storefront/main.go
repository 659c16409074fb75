package main

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/redis/go-redis/v9"
	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/config"
	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/events"
	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/handlers"
	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/logging"
	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/metrics"
	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/repository"
	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/server"
	"github.com/tm-acme-shop/acme-shop-storefront-service/internal/service"

	_ "github.com/lib/pq"
)

func main() {
	cfg := config.Load()

	logger := logging.New(logging.Options{
		Service: "storefront-service",
		Env:     cfg.Env,
		Level:   cfg.LogLevel,
	})

	checks := map[string]handlers.Pinger{}

	var orderRepo repository.OrderRepository
	switch cfg.Storage.Driver {
	case config.StorageDriverMemory:
		orderRepo = repository.NewMemoryOrderRepository(logger)
	case config.StorageDriverPostgres:
		db, err := initDatabase(cfg, logger)
		if err != nil {
			logger.Error("Failed to connect to database", "error", err.Error())
			os.Exit(1)
		}
		defer db.Close()

		pgRepo := repository.NewPostgresOrderRepository(db, logger)
		if err := pgRepo.EnsureSchema(context.Background()); err != nil {
			logger.Error("Failed to prepare database schema", "error", err.Error())
			os.Exit(1)
		}
		orderRepo = pgRepo
		checks["database"] = pgRepo
	default:
		logger.Error("Unknown storage driver", "driver", cfg.Storage.Driver)
		os.Exit(1)
	}

	var orderCache repository.OrderListCache
	if cfg.Features.EnableOrderCaching {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Host + ":" + strconv.Itoa(cfg.Redis.Port),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()

		redisCache := repository.NewRedisOrderCache(rdb, cfg.Redis.TTL, logger)
		orderCache = redisCache
		checks["cache"] = redisCache
	}

	var publisher events.Publisher
	if cfg.Features.EnableOrderEvents {
		publisher = events.NewKafkaPublisher(cfg.Kafka, logger)
	} else {
		publisher = events.NewNoopPublisher(logger)
	}
	defer publisher.Close()

	m := metrics.New()
	orderService := service.NewOrderService(orderRepo, orderCache, publisher, m, logger)
	h := handlers.NewHandlers(orderService, checks, logger)

	srv, err := server.New(cfg, h, m, logger)
	if err != nil {
		logger.Error("Failed to build server", "error", err.Error())
		os.Exit(1)
	}

	go func() {
		logger.Info("Server starting",
			"port", cfg.Server.Port,
			"storage_driver", cfg.Storage.Driver,
			"enable_order_events", cfg.Features.EnableOrderEvents,
			"enable_order_caching", cfg.Features.EnableOrderCaching,
		)
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			logger.Error("Server failed to start", "error", err.Error())
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", "error", err.Error())
	}

	logger.Info("Server exited")
}

func initDatabase(cfg *config.Config, logger *slog.Logger) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.Database.ConnectionString())
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.Database.MaxLifetime)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("Database connected",
		"host", cfg.Database.Host,
		"name", cfg.Database.Name,
	)

	return db, nil
}
