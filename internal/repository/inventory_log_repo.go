package repository

import (
	"context"

	"order-admin/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// InventoryLogRepo has no update or delete: the log is append-only.
type InventoryLogRepo interface {
	BulkCreate(ctx context.Context, logs []models.InventoryLog) error
	ListByOrder(ctx context.Context, orderID uuid.UUID) ([]models.InventoryLog, error)
	ListByProduct(ctx context.Context, productID uuid.UUID) ([]models.InventoryLog, error)
}

type inventoryLogRepo struct{ db *gorm.DB }

func NewInventoryLogRepo(db *gorm.DB) InventoryLogRepo { return &inventoryLogRepo{db: db} }

func (r *inventoryLogRepo) BulkCreate(ctx context.Context, logs []models.InventoryLog) error {
	if len(logs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&logs).Error
}

func (r *inventoryLogRepo) ListByOrder(ctx context.Context, orderID uuid.UUID) ([]models.InventoryLog, error) {
	rows := []models.InventoryLog{}
	err := r.db.WithContext(ctx).Where("order_id = ?", orderID).Order("created_at ASC").Find(&rows).Error
	return rows, err
}

func (r *inventoryLogRepo) ListByProduct(ctx context.Context, productID uuid.UUID) ([]models.InventoryLog, error) {
	rows := []models.InventoryLog{}
	err := r.db.WithContext(ctx).Where("product_id = ?", productID).Order("created_at DESC").Find(&rows).Error
	return rows, err
}
