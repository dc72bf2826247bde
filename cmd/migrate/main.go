package main

import (
	"context"
	"os"
	"time"

	"order-admin/config"
	"order-admin/internal/database"
	"order-admin/internal/logger"
	"order-admin/internal/migrate"

	"go.uber.org/zap"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()
	isDev := os.Getenv("ENV") == "development"
	if err := logger.Init(isDev); err != nil {
		panic(err)
	}

	defer logger.Sync()

	log := logger.L()

	cfg := config.Load(log)

	db := database.ConnectDBForMigration(&cfg.DB.Config, log)
	defer database.CloseDB(db, log)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	opts := migrate.DefaultMigrateOptions()
	log.Info("Параметры миграции",
		zap.String("db", cfg.DB.Name),
		zap.Bool("extensions", opts.CreateExtensions),
		zap.Bool("checks", opts.CreateChecks),
		zap.Bool("indexes", opts.CreateIndexes),
		zap.Bool("fks", opts.CreateFKsViaSQL),
		zap.Bool("updated_at_trigger", opts.CreateUpdatedAtTrigger),
	)

	if err := migrate.MigrateDB(ctx, db, log, opts); err != nil {
		log.Fatal("Ошибка при выполнении миграции", zap.Error(err))
	}

	log.Info("Миграция успешно завершена")
}
