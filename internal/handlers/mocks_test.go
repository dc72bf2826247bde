package handlers_test

import (
	"context"

	"order-admin/internal/models"
	"order-admin/internal/repository"
	"order-admin/internal/service"

	"github.com/google/uuid"
)

type mockProductService struct {
	CreateFn        func(ctx context.Context, in service.ProductInput) (*models.Product, error)
	GetFn           func(ctx context.Context, id uuid.UUID) (*models.Product, error)
	ListFn          func(ctx context.Context, f service.ProductFilter) ([]models.Product, error)
	UpdateFn        func(ctx context.Context, id uuid.UUID, patch service.ProductPatch) (*models.Product, error)
	DeleteFn        func(ctx context.Context, id uuid.UUID) error
	InventoryLogsFn func(ctx context.Context, id uuid.UUID) ([]models.InventoryLog, error)
}

func (m *mockProductService) Create(ctx context.Context, in service.ProductInput) (*models.Product, error) {
	return m.CreateFn(ctx, in)
}

func (m *mockProductService) Get(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	return m.GetFn(ctx, id)
}

func (m *mockProductService) List(ctx context.Context, f service.ProductFilter) ([]models.Product, error) {
	return m.ListFn(ctx, f)
}

func (m *mockProductService) Update(ctx context.Context, id uuid.UUID, patch service.ProductPatch) (*models.Product, error) {
	return m.UpdateFn(ctx, id, patch)
}

func (m *mockProductService) Delete(ctx context.Context, id uuid.UUID) error {
	return m.DeleteFn(ctx, id)
}

func (m *mockProductService) InventoryLogs(ctx context.Context, id uuid.UUID) ([]models.InventoryLog, error) {
	return m.InventoryLogsFn(ctx, id)
}

type mockOrderService struct {
	CreateOrderFn   func(ctx context.Context, in service.CreateOrderInput) (*models.Order, error)
	GetOrderFn      func(ctx context.Context, id uuid.UUID) (*models.Order, error)
	ListOrdersFn    func(ctx context.Context, f service.ListFilter) ([]repository.OrderSummary, error)
	AddItemFn       func(ctx context.Context, id uuid.UUID, in service.OrderItemInput) (*models.Order, error)
	ConfirmOrderFn  func(ctx context.Context, id uuid.UUID) (*models.Order, error)
	CancelOrderFn   func(ctx context.Context, id uuid.UUID) (*models.Order, error)
	DeleteOrderFn   func(ctx context.Context, id uuid.UUID) error
	InventoryLogsFn func(ctx context.Context, id uuid.UUID) ([]models.InventoryLog, error)
}

func (m *mockOrderService) CreateOrder(ctx context.Context, in service.CreateOrderInput) (*models.Order, error) {
	return m.CreateOrderFn(ctx, in)
}

func (m *mockOrderService) GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	return m.GetOrderFn(ctx, id)
}

func (m *mockOrderService) ListOrders(ctx context.Context, f service.ListFilter) ([]repository.OrderSummary, error) {
	return m.ListOrdersFn(ctx, f)
}

func (m *mockOrderService) AddItem(ctx context.Context, id uuid.UUID, in service.OrderItemInput) (*models.Order, error) {
	return m.AddItemFn(ctx, id, in)
}

func (m *mockOrderService) ConfirmOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	return m.ConfirmOrderFn(ctx, id)
}

func (m *mockOrderService) CancelOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	return m.CancelOrderFn(ctx, id)
}

func (m *mockOrderService) DeleteOrder(ctx context.Context, id uuid.UUID) error {
	return m.DeleteOrderFn(ctx, id)
}

func (m *mockOrderService) InventoryLogs(ctx context.Context, id uuid.UUID) ([]models.InventoryLog, error) {
	return m.InventoryLogsFn(ctx, id)
}
