package migrate

import (
	"context"

	"order-admin/internal/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type MigrateOptions struct {
	CreateExtensions       bool // pgcrypto, pg_trgm
	CreateChecks           bool // CHECK-ограничения целостности
	CreateIndexes          bool // индексы и UNIQUE
	CreateFKsViaSQL        bool // FK через SQL (order_items.product_id)
	CreateUpdatedAtTrigger bool // триггер обновления updated_at
}

func DefaultMigrateOptions() MigrateOptions {
	return MigrateOptions{
		CreateExtensions:       true,
		CreateChecks:           true,
		CreateIndexes:          true,
		CreateFKsViaSQL:        true,
		CreateUpdatedAtTrigger: true,
	}
}

type step struct {
	name string
	sql  string
}

func exec(ctx context.Context, db *gorm.DB, log *zap.Logger, steps []step) error {
	for _, s := range steps {
		if err := db.WithContext(ctx).Exec(s.sql).Error; err != nil {
			log.Error("Не удалось выполнить шаг миграции", zap.String("step", s.name), zap.Error(err))
			return err
		}
	}
	return nil
}

func MigrateDB(ctx context.Context, db *gorm.DB, log *zap.Logger, opt MigrateOptions) error {
	log.Info("Начало миграции базы данных")

	if opt.CreateExtensions {
		log.Info("Создание расширений PostgreSQL")
		if err := exec(ctx, db, log, []step{
			{"pgcrypto", `CREATE EXTENSION IF NOT EXISTS pgcrypto`},
			{"pg_trgm", `CREATE EXTENSION IF NOT EXISTS pg_trgm`},
		}); err != nil {
			return err
		}
	}

	log.Info("Создание таблиц")
	if err := db.WithContext(ctx).AutoMigrate(
		&models.Product{},
		&models.Order{},
		&models.OrderItem{},
		&models.InventoryLog{},
		&models.OutboxEvent{},
	); err != nil {
		log.Error("Не удалось создать таблицы", zap.Error(err))
		return err
	}

	if opt.CreateUpdatedAtTrigger {
		log.Info("Создание триггеров updated_at")
		steps := []step{{"set_updated_at", `
CREATE OR REPLACE FUNCTION set_updated_at() RETURNS trigger AS $$
BEGIN NEW.updated_at = now(); RETURN NEW; END; $$ LANGUAGE plpgsql;
`}}
		for _, table := range []string{"products", "orders", "order_items"} {
			steps = append(steps, step{"trg_" + table + "_updated", `
DROP TRIGGER IF EXISTS trg_` + table + `_updated ON ` + table + `;
CREATE TRIGGER trg_` + table + `_updated
BEFORE UPDATE ON ` + table + `
FOR EACH ROW EXECUTE FUNCTION set_updated_at();
`})
		}
		if err := exec(ctx, db, log, steps); err != nil {
			return err
		}
	}

	if opt.CreateChecks {
		log.Info("Создание CHECK-ограничений")
		if err := exec(ctx, db, log, []step{
			{"chk_products_price_non_negative", `
ALTER TABLE products DROP CONSTRAINT IF EXISTS chk_products_price_non_negative;
ALTER TABLE products ADD CONSTRAINT chk_products_price_non_negative CHECK (price >= 0);
`},
			// Последний рубеж: сервис проверяет остаток до списания.
			{"chk_products_stock_non_negative", `
ALTER TABLE products DROP CONSTRAINT IF EXISTS chk_products_stock_non_negative;
ALTER TABLE products ADD CONSTRAINT chk_products_stock_non_negative CHECK (stock_quantity >= 0);
`},
			{"chk_products_name_len", `
ALTER TABLE products DROP CONSTRAINT IF EXISTS chk_products_name_len;
ALTER TABLE products ADD CONSTRAINT chk_products_name_len CHECK (char_length(name) BETWEEN 3 AND 255);
`},
			{"chk_orders_status_allowed", `
ALTER TABLE orders DROP CONSTRAINT IF EXISTS chk_orders_status_allowed;
ALTER TABLE orders ADD CONSTRAINT chk_orders_status_allowed
  CHECK (status IN ('pending','confirmed','cancelled'));
`},
			{"chk_orders_total_non_negative", `
ALTER TABLE orders DROP CONSTRAINT IF EXISTS chk_orders_total_non_negative;
ALTER TABLE orders ADD CONSTRAINT chk_orders_total_non_negative CHECK (total_amount >= 0);
`},
			{"chk_order_items_quantity_gt_zero", `
ALTER TABLE order_items DROP CONSTRAINT IF EXISTS chk_order_items_quantity_gt_zero;
ALTER TABLE order_items ADD CONSTRAINT chk_order_items_quantity_gt_zero CHECK (quantity > 0);
`},
			{"chk_order_items_prices_non_negative", `
ALTER TABLE order_items DROP CONSTRAINT IF EXISTS chk_order_items_prices_non_negative;
ALTER TABLE order_items ADD CONSTRAINT chk_order_items_prices_non_negative
  CHECK (unit_price >= 0 AND subtotal >= 0);
`},
			{"chk_inventory_logs_change_type", `
ALTER TABLE inventory_logs DROP CONSTRAINT IF EXISTS chk_inventory_logs_change_type;
ALTER TABLE inventory_logs ADD CONSTRAINT chk_inventory_logs_change_type
  CHECK (change_type IN ('order_created','order_cancelled'));
`},
		}); err != nil {
			return err
		}
	}

	if opt.CreateIndexes {
		log.Info("Создание индексов")
		if err := exec(ctx, db, log, []step{
			{"ux_order_items_order_product", `
CREATE UNIQUE INDEX IF NOT EXISTS ux_order_items_order_product ON order_items (order_id, product_id);
`},
			{"ix_orders_status_created", `
CREATE INDEX IF NOT EXISTS ix_orders_status_created ON orders (status, created_at DESC);
`},
			{"ix_products_name_trgm", `
CREATE INDEX IF NOT EXISTS ix_products_name_trgm ON products USING gin (lower(name) gin_trgm_ops);
`},
			{"ix_inventory_logs_product_created", `
CREATE INDEX IF NOT EXISTS ix_inventory_logs_product_created ON inventory_logs (product_id, created_at DESC);
`},
			// Частичный индекс под выборку релея.
			{"ix_outbox_events_unpublished", `
CREATE INDEX IF NOT EXISTS ix_outbox_events_unpublished ON outbox_events (created_at) WHERE published_at IS NULL;
`},
		}); err != nil {
			return err
		}
	}

	if opt.CreateFKsViaSQL {
		log.Info("Создание внешних ключей")
		if err := exec(ctx, db, log, []step{
			// Каскад order_items -> orders создаёт AutoMigrate (fk_orders_items).
			{"drop_fk_order_items_order", `
ALTER TABLE order_items DROP CONSTRAINT IF EXISTS fk_order_items_order;
`},
			{"fk_order_items_product", `
ALTER TABLE order_items
  DROP CONSTRAINT IF EXISTS fk_order_items_product,
  ADD CONSTRAINT fk_order_items_product
    FOREIGN KEY (product_id) REFERENCES products(id) ON DELETE SET NULL;
`},
			// inventory_logs только дописывается: order_id и product_id без FK.
			{"drop_fk_inventory_logs", `
ALTER TABLE inventory_logs
  DROP CONSTRAINT IF EXISTS fk_inventory_logs_product,
  DROP CONSTRAINT IF EXISTS fk_inventory_logs_order;
`},
		}); err != nil {
			return err
		}
	}

	log.Info("Миграция базы данных успешно завершена")
	return nil
}
