package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"order-admin/config"
	_ "order-admin/docs"
	"order-admin/internal/cache"
	"order-admin/internal/consumer"
	"order-admin/internal/database"
	"order-admin/internal/logger"
	"order-admin/internal/outbox"
	"order-admin/internal/producer"
	"order-admin/internal/repository"
	"order-admin/internal/router"
	"order-admin/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// @Title Order Admin API
// @Version 1.0
// @Description Products, orders and the order lifecycle with inventory adjustment
// @BasePath /
func main() {
	_ = godotenv.Load()
	isDev := os.Getenv("ENV") == "development"
	if err := logger.Init(isDev); err != nil {
		panic(err)
	}

	defer logger.Sync()

	log := logger.L()

	cfg := config.Load(log)
	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}

	db := database.ConnectDB(&cfg.DB.Config, log)
	defer database.CloseDB(db, log)

	repos := repository.New(db)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	opts := service.Options{Timeout: cfg.OpTimeout}
	if cfg.Kafka.Enabled {
		opts.EventsTopic = cfg.Kafka.Topic
	}

	var products service.ProductService = service.NewProductService(repos, opts)
	var (
		stock service.StockListener
		rdb   *cache.RedisClient
	)
	if cfg.Redis.Enabled {
		var err error
		rdb, err = cache.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, log)
		if err != nil {
			log.Fatal("redis connect failed", zap.Error(err))
		}
		defer rdb.Close()

		cached := cache.NewCachedProductService(products, rdb, time.Duration(cfg.Redis.TTLSeconds)*time.Second, log)
		products = cached
		stock = cached
	}

	orders := service.NewOrderService(repos, stock, opts)

	if cfg.Kafka.Enabled {
		prod := producer.NewOrderEventsProducer(cfg.Kafka.Brokers)
		defer prod.Close()

		relay := outbox.NewRelay(repos, prod, cfg.Outbox.BatchSize, log)
		sched := outbox.NewScheduler(relay, cfg.Outbox.Interval, cfg.Outbox.Retention, log)
		sched.Start(ctx)
		defer sched.Stop()

		if stock != nil {
			cons := consumer.NewOrderEventsConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.Topic, stock, log)
			defer cons.Close()
			go func() {
				if err := cons.Run(ctx); err != nil {
					log.Error("order events consumer stopped", zap.Error(err))
				}
			}()
		}
	}

	health := func(ctx context.Context) error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		if err := sqlDB.PingContext(ctx); err != nil {
			return err
		}
		if rdb != nil {
			return rdb.Ping(ctx)
		}
		return nil
	}

	srv := &http.Server{
		Addr:              cfg.Port,
		Handler:           router.Router(products, orders, health, log),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info("Starting HTTP server", zap.String("addr", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down HTTP server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown failed", zap.Error(err))
		return
	}
	log.Info("HTTP server stopped gracefully")
}
