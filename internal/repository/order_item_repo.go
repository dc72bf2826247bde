package repository

import (
	"context"
	"errors"

	"order-admin/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type OrderItemRepo interface {
	Create(ctx context.Context, item *models.OrderItem) error
	GetByOrderAndProduct(ctx context.Context, orderID, productID uuid.UUID) (*models.OrderItem, error)
	GetByOrderID(ctx context.Context, orderID uuid.UUID) ([]models.OrderItem, error)
	UpdateLine(ctx context.Context, id uuid.UUID, quantity int, unitPrice, subtotal decimal.Decimal) error
	SumByOrder(ctx context.Context, orderID uuid.UUID) (decimal.Decimal, error)
}

type orderItemRepo struct{ db *gorm.DB }

func NewOrderItemRepo(db *gorm.DB) OrderItemRepo { return &orderItemRepo{db: db} }

func (r *orderItemRepo) Create(ctx context.Context, item *models.OrderItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *orderItemRepo) GetByOrderAndProduct(ctx context.Context, orderID, productID uuid.UUID) (*models.OrderItem, error) {
	var it models.OrderItem
	err := r.db.WithContext(ctx).First(&it, "order_id = ? AND product_id = ?", orderID, productID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &it, nil
}

func (r *orderItemRepo) GetByOrderID(ctx context.Context, orderID uuid.UUID) ([]models.OrderItem, error) {
	rows := []models.OrderItem{}
	err := r.db.WithContext(ctx).Where("order_id = ?", orderID).Order("created_at ASC").Find(&rows).Error
	return rows, err
}

func (r *orderItemRepo) UpdateLine(ctx context.Context, id uuid.UUID, quantity int, unitPrice, subtotal decimal.Decimal) error {
	return r.db.WithContext(ctx).Model(&models.OrderItem{}).Where("id = ?", id).Updates(map[string]any{
		"quantity":   quantity,
		"unit_price": unitPrice,
		"subtotal":   subtotal,
	}).Error
}

func (r *orderItemRepo) SumByOrder(ctx context.Context, orderID uuid.UUID) (decimal.Decimal, error) {
	type aggRow struct {
		Total decimal.Decimal
	}

	var res aggRow
	err := r.db.WithContext(ctx).Model(&models.OrderItem{}).
		Select("COALESCE(SUM(subtotal),0) AS total").
		Where("order_id = ?", orderID).
		Scan(&res).Error
	return res.Total, err
}
