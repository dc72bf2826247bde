package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"order-admin/internal/migrate"
	"order-admin/internal/models"
	"order-admin/internal/repository"
	"order-admin/testutil"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	db := testutil.SetupTestPostgres(t)
	if err := migrate.MigrateDB(context.Background(), db, zap.NewNop(), migrate.DefaultMigrateOptions()); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func mkProduct(t *testing.T, repo repository.ProductRepo, name, price string, stock int) *models.Product {
	t.Helper()
	p := &models.Product{Name: name, Price: decimal.RequireFromString(price), StockQuantity: stock}
	if err := repo.Create(context.Background(), p); err != nil {
		t.Fatalf("create product %s: %v", name, err)
	}
	return p
}

func TestMigrate_Idempotent(t *testing.T) {
	db := setupDB(t)
	if err := migrate.MigrateDB(context.Background(), db, zap.NewNop(), migrate.DefaultMigrateOptions()); err != nil {
		t.Fatalf("second migrate: %v", err)
	}
}

func TestMigrate_ForeignKeys(t *testing.T) {
	db := setupDB(t)

	type fk struct {
		Name     string
		OnDelete string
	}
	var toOrders []fk
	if err := db.Raw(`
SELECT conname AS name, confdeltype::text AS on_delete
FROM pg_constraint
WHERE contype = 'f' AND conrelid = 'order_items'::regclass AND confrelid = 'orders'::regclass`).
		Scan(&toOrders).Error; err != nil {
		t.Fatalf("query order_items fks: %v", err)
	}
	if len(toOrders) != 1 || toOrders[0].OnDelete != "c" {
		t.Fatalf("want one cascading order_items -> orders fk, got %+v", toOrders)
	}

	var logFKs int64
	if err := db.Raw(`
SELECT count(*) FROM pg_constraint
WHERE contype = 'f' AND conrelid = 'inventory_logs'::regclass`).
		Scan(&logFKs).Error; err != nil {
		t.Fatalf("query inventory_logs fks: %v", err)
	}
	if logFKs != 0 {
		t.Fatalf("inventory_logs must carry no fks, got %d", logFKs)
	}
}

func TestProductRepo_CRUD_And_Search(t *testing.T) {
	db := setupDB(t)
	repo := repository.NewProductRepo(db)
	ctx := context.Background()

	kb := mkProduct(t, repo, "Keyboard", "49.90", 10)
	mkProduct(t, repo, "Mouse", "19.99", 5)
	mkProduct(t, repo, "USB Keyboard Cable", "4.50", 100)

	got, err := repo.GetByID(ctx, kb.ID)
	if err != nil || got == nil {
		t.Fatalf("GetByID: %v %v", got, err)
	}
	if !got.Price.Equal(decimal.RequireFromString("49.90")) {
		t.Fatalf("price mismatch: %s", got.Price)
	}

	missing, err := repo.GetByID(ctx, uuid.New())
	if err != nil || missing != nil {
		t.Fatalf("GetByID missing: %v %v", missing, err)
	}

	byName, err := repo.GetByName(ctx, "Mouse")
	if err != nil || byName == nil {
		t.Fatalf("GetByName: %v %v", byName, err)
	}

	list, err := repo.List(ctx, repository.ProductListFilter{Query: "keyB"})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 2 || list[0].Name != "Keyboard" || list[1].Name != "USB Keyboard Cable" {
		t.Fatalf("List search mismatch: %+v", list)
	}

	for _, q := range []string{"%", "_", `\`} {
		list, err := repo.List(ctx, repository.ProductListFilter{Query: q})
		if err != nil {
			t.Fatalf("List %q: %v", q, err)
		}
		if len(list) != 0 {
			t.Fatalf("List %q should match nothing: %+v", q, list)
		}
	}
	mkProduct(t, repo, "Cable 100% copper_v2", "7.00", 3)
	for _, q := range []string{"100%", "r_v2"} {
		list, err := repo.List(ctx, repository.ProductListFilter{Query: q})
		if err != nil || len(list) != 1 || list[0].Name != "Cable 100% copper_v2" {
			t.Fatalf("List %q: %+v %v", q, list, err)
		}
	}

	all, err := repo.List(ctx, repository.ProductListFilter{})
	if err != nil || len(all) != 4 {
		t.Fatalf("List all: %d %v", len(all), err)
	}

	ok, err := repo.UpdateFields(ctx, kb.ID, map[string]any{"stock_quantity": 7})
	if err != nil || !ok {
		t.Fatalf("UpdateFields: ok=%v err=%v", ok, err)
	}
	got, _ = repo.GetByID(ctx, kb.ID)
	if got.StockQuantity != 7 {
		t.Fatalf("stock after update: %d", got.StockQuantity)
	}
	if got.UpdatedAt.Before(got.CreatedAt) {
		t.Fatalf("updated_at went backwards: %v < %v", got.UpdatedAt, got.CreatedAt)
	}

	ok, err = repo.Delete(ctx, kb.ID)
	if err != nil || !ok {
		t.Fatalf("Delete: ok=%v err=%v", ok, err)
	}
	ok, err = repo.Delete(ctx, kb.ID)
	if err != nil || ok {
		t.Fatalf("Delete twice: ok=%v err=%v", ok, err)
	}
}

func TestProductRepo_UniqueName(t *testing.T) {
	db := setupDB(t)
	repo := repository.NewProductRepo(db)

	mkProduct(t, repo, "Monitor", "199.00", 1)
	err := repo.Create(context.Background(), &models.Product{Name: "Monitor", Price: decimal.NewFromInt(1)})
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Fatalf("expected ErrDuplicatedKey, got %v", err)
	}
}

func TestProductRepo_StockNeverNegative(t *testing.T) {
	db := setupDB(t)
	repo := repository.NewProductRepo(db)
	ctx := context.Background()

	p := mkProduct(t, repo, "Headset", "59.00", 3)

	ok, err := repo.DecreaseStock(ctx, p.ID, 5)
	if err != nil || ok {
		t.Fatalf("DecreaseStock over stock: ok=%v err=%v", ok, err)
	}
	ok, err = repo.DecreaseStock(ctx, p.ID, 3)
	if err != nil || !ok {
		t.Fatalf("DecreaseStock exact: ok=%v err=%v", ok, err)
	}
	got, _ := repo.GetByID(ctx, p.ID)
	if got.StockQuantity != 0 {
		t.Fatalf("stock = %d, want 0", got.StockQuantity)
	}

	ok, err = repo.IncreaseStock(ctx, p.ID, 4)
	if err != nil || !ok {
		t.Fatalf("IncreaseStock: ok=%v err=%v", ok, err)
	}
	got, _ = repo.GetByID(ctx, p.ID)
	if got.StockQuantity != 4 {
		t.Fatalf("stock = %d, want 4", got.StockQuantity)
	}

	// CHECK constraint backs the conditional update.
	if _, err := repo.UpdateFields(ctx, p.ID, map[string]any{"stock_quantity": -1}); err == nil {
		t.Fatalf("expected check violation for negative stock")
	}
}

func TestOrderRepo_Items_Total_And_List(t *testing.T) {
	db := setupDB(t)
	repos := repository.New(db)
	ctx := context.Background()

	kb := mkProduct(t, repos.Products, "Keyboard", "50.00", 10)
	ms := mkProduct(t, repos.Products, "Mouse", "20.00", 10)

	ord := &models.Order{OrderNumber: "ORD-" + uuid.NewString(), Status: models.OrderStatusPending}
	if err := repos.Orders.Create(ctx, ord); err != nil {
		t.Fatalf("Create order: %v", err)
	}

	for _, line := range []struct {
		p   *models.Product
		qty int
	}{{kb, 2}, {ms, 1}} {
		pid := line.p.ID
		it := &models.OrderItem{
			OrderID:     ord.ID,
			ProductID:   &pid,
			ProductName: line.p.Name,
			Quantity:    line.qty,
			UnitPrice:   line.p.Price,
			Subtotal:    line.p.Price.Mul(decimal.NewFromInt(int64(line.qty))),
		}
		if err := repos.OrderItems.Create(ctx, it); err != nil {
			t.Fatalf("Create item: %v", err)
		}
	}

	dup := kb.ID
	err := repos.OrderItems.Create(ctx, &models.OrderItem{
		OrderID: ord.ID, ProductID: &dup, ProductName: kb.Name, Quantity: 1,
		UnitPrice: kb.Price, Subtotal: kb.Price,
	})
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Fatalf("expected duplicate line rejection, got %v", err)
	}

	total, err := repos.OrderItems.SumByOrder(ctx, ord.ID)
	if err != nil {
		t.Fatalf("SumByOrder: %v", err)
	}
	if !total.Equal(decimal.RequireFromString("120.00")) {
		t.Fatalf("total = %s, want 120.00", total)
	}
	if err := repos.Orders.UpdateTotal(ctx, ord.ID, total); err != nil {
		t.Fatalf("UpdateTotal: %v", err)
	}

	line, err := repos.OrderItems.GetByOrderAndProduct(ctx, ord.ID, kb.ID)
	if err != nil || line == nil {
		t.Fatalf("GetByOrderAndProduct: %v %v", line, err)
	}
	if err := repos.OrderItems.UpdateLine(ctx, line.ID, 3, kb.Price, decimal.RequireFromString("150.00")); err != nil {
		t.Fatalf("UpdateLine: %v", err)
	}

	got, err := repos.Orders.GetByID(ctx, ord.ID)
	if err != nil || got == nil {
		t.Fatalf("GetByID: %v %v", got, err)
	}
	if len(got.Items) != 2 || got.Items[0].ProductName != "Keyboard" || got.Items[0].Quantity != 3 {
		t.Fatalf("items mismatch: %+v", got.Items)
	}

	empty := &models.Order{OrderNumber: "ORD-" + uuid.NewString(), Status: models.OrderStatusPending}
	if err := repos.Orders.Create(ctx, empty); err != nil {
		t.Fatalf("Create empty order: %v", err)
	}

	rows, err := repos.Orders.List(ctx, repository.OrderListFilter{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("List len = %d", len(rows))
	}
	// newest first
	if rows[0].ID != empty.ID || rows[0].ItemCount != 0 || rows[0].ItemsSummary != "" {
		t.Fatalf("empty order row mismatch: %+v", rows[0])
	}
	if rows[1].ItemCount != 2 || rows[1].ItemsSummary != "Keyboard (3), Mouse (1)" {
		t.Fatalf("summary mismatch: %+v", rows[1])
	}

	st := models.OrderStatusConfirmed
	if err := repos.Orders.UpdateStatus(ctx, ord.ID, st); err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	filtered, err := repos.Orders.List(ctx, repository.OrderListFilter{Status: &st})
	if err != nil || len(filtered) != 1 || filtered[0].ID != ord.ID {
		t.Fatalf("List by status: %+v %v", filtered, err)
	}

	// Deleting a product keeps the line with its snapshot.
	if _, err := repos.Products.Delete(ctx, ms.ID); err != nil {
		t.Fatalf("delete product: %v", err)
	}
	got, _ = repos.Orders.GetByID(ctx, ord.ID)
	if len(got.Items) != 2 || got.Items[1].ProductID != nil || got.Items[1].ProductName != "Mouse" {
		t.Fatalf("snapshot line mismatch: %+v", got.Items[1])
	}

	ok, err := repos.Orders.Delete(ctx, ord.ID)
	if err != nil || !ok {
		t.Fatalf("Delete: ok=%v err=%v", ok, err)
	}
	items, err := repos.OrderItems.GetByOrderID(ctx, ord.ID)
	if err != nil || len(items) != 0 {
		t.Fatalf("items should cascade: %d %v", len(items), err)
	}
	exists, err := repos.Orders.Exists(ctx, ord.ID)
	if err != nil || exists {
		t.Fatalf("Exists after delete: %v %v", exists, err)
	}
}

func TestInventoryLogRepo_ListByOrderAndProduct(t *testing.T) {
	db := setupDB(t)
	repos := repository.New(db)
	ctx := context.Background()

	p := mkProduct(t, repos.Products, "Webcam", "35.00", 10)
	ord := &models.Order{OrderNumber: "ORD-" + uuid.NewString(), Status: models.OrderStatusConfirmed}
	if err := repos.Orders.Create(ctx, ord); err != nil {
		t.Fatalf("Create order: %v", err)
	}

	pid := p.ID
	if err := repos.InventoryLogs.BulkCreate(ctx, []models.InventoryLog{
		{ProductID: &pid, ChangeType: models.ChangeOrderCreated, QuantityChange: -2, Reason: "Order confirmed", OrderID: &ord.ID},
		{ProductID: &pid, ChangeType: models.ChangeOrderCancelled, QuantityChange: 2, Reason: "Order cancelled", OrderID: &ord.ID},
	}); err != nil {
		t.Fatalf("BulkCreate: %v", err)
	}
	if err := repos.InventoryLogs.BulkCreate(ctx, nil); err != nil {
		t.Fatalf("BulkCreate empty: %v", err)
	}

	byOrder, err := repos.InventoryLogs.ListByOrder(ctx, ord.ID)
	if err != nil || len(byOrder) != 2 {
		t.Fatalf("ListByOrder: %d %v", len(byOrder), err)
	}
	byProduct, err := repos.InventoryLogs.ListByProduct(ctx, p.ID)
	if err != nil || len(byProduct) != 2 {
		t.Fatalf("ListByProduct: %d %v", len(byProduct), err)
	}

	bad := models.InventoryLog{ProductID: &pid, ChangeType: "restock", QuantityChange: 1, Reason: "x"}
	if err := repos.InventoryLogs.BulkCreate(ctx, []models.InventoryLog{bad}); err == nil {
		t.Fatalf("expected change_type check violation")
	}
}

func TestOutboxRepo_FetchMarkPurge(t *testing.T) {
	db := setupDB(t)
	repos := repository.New(db)
	ctx := context.Background()

	agg := uuid.New()
	for i := 0; i < 3; i++ {
		if err := repos.Outbox.Save(ctx, &models.OutboxEvent{
			Topic: "orders.events", EventType: "order.created", AggregateID: agg,
			Payload: datatypes.JSON(`{"n":1}`),
		}); err != nil {
			t.Fatalf("Save: %v", err)
		}
	}

	batch, err := repos.Outbox.FetchUnpublished(ctx, 2)
	if err != nil || len(batch) != 2 {
		t.Fatalf("FetchUnpublished: %d %v", len(batch), err)
	}
	if batch[0].ID >= batch[1].ID {
		t.Fatalf("batch not ordered by id: %d %d", batch[0].ID, batch[1].ID)
	}

	if err := repos.Outbox.MarkPublished(ctx, batch[0].ID); err != nil {
		t.Fatalf("MarkPublished: %v", err)
	}
	if err := repos.Outbox.MarkFailed(ctx, batch[1].ID, "broker down"); err != nil {
		t.Fatalf("MarkFailed: %v", err)
	}

	rows, err := repos.Outbox.ListByAggregate(ctx, agg)
	if err != nil || len(rows) != 3 {
		t.Fatalf("ListByAggregate: %d %v", len(rows), err)
	}
	if rows[0].PublishedAt == nil {
		t.Fatalf("row 0 should be published")
	}
	if rows[1].Attempts != 1 || rows[1].LastError == nil || *rows[1].LastError != "broker down" {
		t.Fatalf("row 1 failure not recorded: %+v", rows[1])
	}

	left, err := repos.Outbox.FetchUnpublished(ctx, 10)
	if err != nil || len(left) != 2 {
		t.Fatalf("FetchUnpublished after mark: %d %v", len(left), err)
	}

	n, err := repos.Outbox.PurgePublished(ctx, time.Now().Add(time.Minute))
	if err != nil || n != 1 {
		t.Fatalf("PurgePublished: %d %v", n, err)
	}
}

func TestOutboxRepo_SkipLocked(t *testing.T) {
	db := setupDB(t)
	repos := repository.New(db)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if err := repos.Outbox.Save(ctx, &models.OutboxEvent{
			Topic: "orders.events", EventType: "order.created", AggregateID: uuid.New(),
			Payload: datatypes.JSON(`{}`),
		}); err != nil {
			t.Fatalf("Save: %v", err)
		}
	}

	locked := make(chan struct{})
	release := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- repos.WithTx(ctx, func(tx *repository.Repository) error {
			if _, err := tx.Outbox.FetchUnpublished(ctx, 1); err != nil {
				return err
			}
			close(locked)
			<-release
			return nil
		})
	}()

	<-locked
	var second []models.OutboxEvent
	err := repos.WithTx(ctx, func(tx *repository.Repository) error {
		var err error
		second, err = tx.Outbox.FetchUnpublished(ctx, 10)
		return err
	})
	close(release)
	if err != nil {
		t.Fatalf("second fetch: %v", err)
	}
	if len(second) != 1 {
		t.Fatalf("second relay should see only the unlocked row, got %d", len(second))
	}
	if err := <-done; err != nil {
		t.Fatalf("first tx: %v", err)
	}
}

func TestWithTx_RollsBack(t *testing.T) {
	db := setupDB(t)
	repos := repository.New(db)
	ctx := context.Background()

	boom := errors.New("boom")
	err := repos.WithTx(ctx, func(tx *repository.Repository) error {
		if err := tx.Products.Create(ctx, &models.Product{Name: "Ghost", Price: decimal.NewFromInt(1)}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("WithTx err = %v", err)
	}
	p, err := repos.Products.GetByName(ctx, "Ghost")
	if err != nil || p != nil {
		t.Fatalf("product should be rolled back: %v %v", p, err)
	}
}
