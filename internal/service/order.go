package service

import (
	"context"
	"time"

	"order-admin/internal/models"
	"order-admin/internal/repository"

	"github.com/google/uuid"
)

type ListFilter struct {
	Status *models.OrderStatus
}

type OrderService interface {
	CreateOrder(ctx context.Context, in CreateOrderInput) (*models.Order, error)
	GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error)
	ListOrders(ctx context.Context, f ListFilter) ([]repository.OrderSummary, error)
	AddItem(ctx context.Context, orderID uuid.UUID, in OrderItemInput) (*models.Order, error)
	ConfirmOrder(ctx context.Context, id uuid.UUID) (*models.Order, error)
	CancelOrder(ctx context.Context, id uuid.UUID) (*models.Order, error)
	DeleteOrder(ctx context.Context, id uuid.UUID) error
	InventoryLogs(ctx context.Context, orderID uuid.UUID) ([]models.InventoryLog, error)
}

type Options struct {
	// EventsTopic is the Kafka topic recorded on outbox rows; empty disables events.
	EventsTopic string
	Timeout     time.Duration
}

type ProductFilter struct {
	Search string
}

type ProductService interface {
	Create(ctx context.Context, in ProductInput) (*models.Product, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Product, error)
	List(ctx context.Context, f ProductFilter) ([]models.Product, error)
	Update(ctx context.Context, id uuid.UUID, patch ProductPatch) (*models.Product, error)
	Delete(ctx context.Context, id uuid.UUID) error
	InventoryLogs(ctx context.Context, productID uuid.UUID) ([]models.InventoryLog, error)
}
