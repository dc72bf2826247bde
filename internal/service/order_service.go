package service

import (
	"context"
	"fmt"
	"time"

	"order-admin/internal/models"
	"order-admin/internal/repository"

	"github.com/google/uuid"
)

type orderService struct {
	repo    *repository.Repository
	stock   StockListener
	topic   string
	timeout time.Duration
	now     func() time.Time
}

// NewOrderService wires the lifecycle. stock may be nil.
func NewOrderService(repo *repository.Repository, stock StockListener, opts Options) OrderService {
	return &orderService{
		repo:    repo,
		stock:   stock,
		topic:   opts.EventsTopic,
		timeout: opts.Timeout,
		now:     time.Now,
	}
}

func (s *orderService) CreateOrder(ctx context.Context, in CreateOrderInput) (*models.Order, error) {
	if err := in.Validate().err(); err != nil {
		return nil, err
	}

	ctx, cancel := opContext(ctx, s.timeout)
	defer cancel()

	var order *models.Order
	err := s.repo.WithTx(ctx, func(tx *repository.Repository) error {
		ord := &models.Order{
			OrderNumber: newOrderNumber(),
			Status:      models.OrderStatusPending,
		}
		if err := tx.Orders.Create(ctx, ord); err != nil {
			return internalError("create order", err)
		}

		// Same lock order as confirm and cancel.
		if _, err := tx.Products.LockByIDs(ctx, in.productIDs()); err != nil {
			return internalError("lock products", err)
		}
		for _, it := range in.Items {
			if err := s.addItemTx(ctx, tx, ord.ID, it); err != nil {
				return err
			}
		}

		full, err := tx.Orders.GetByID(ctx, ord.ID)
		if err != nil {
			return internalError("reload order", err)
		}
		order = full

		return internalError("enqueue order event", enqueueEvent(ctx, tx, s.topic, EventOrderCreated, order, s.now()))
	})
	if err != nil {
		return nil, internalError("create order", err)
	}
	return order, nil
}

func (s *orderService) GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	ctx, cancel := opContext(ctx, s.timeout)
	defer cancel()

	ord, err := s.repo.Orders.GetByID(ctx, id)
	if err != nil {
		return nil, internalError("get order", err)
	}
	if ord == nil {
		return nil, ErrOrderNotFound
	}
	return ord, nil
}

func (s *orderService) ListOrders(ctx context.Context, f ListFilter) ([]repository.OrderSummary, error) {
	ctx, cancel := opContext(ctx, s.timeout)
	defer cancel()

	list, err := s.repo.Orders.List(ctx, repository.OrderListFilter{Status: f.Status})
	if err != nil {
		return nil, internalError("list orders", err)
	}
	return list, nil
}

func (s *orderService) AddItem(ctx context.Context, orderID uuid.UUID, in OrderItemInput) (*models.Order, error) {
	if err := in.Validate().err(); err != nil {
		return nil, err
	}

	ctx, cancel := opContext(ctx, s.timeout)
	defer cancel()

	var order *models.Order
	err := s.repo.WithTx(ctx, func(tx *repository.Repository) error {
		ord, err := tx.Orders.GetByIDForUpdate(ctx, orderID)
		if err != nil {
			return internalError("lock order", err)
		}
		if ord == nil {
			return ErrOrderNotFound
		}
		if ord.Status != models.OrderStatusPending {
			return ErrOrderNotPending
		}

		if err := s.addItemTx(ctx, tx, ord.ID, in); err != nil {
			return err
		}

		order, err = tx.Orders.GetByID(ctx, ord.ID)
		return internalError("reload order", err)
	})
	if err != nil {
		return nil, internalError("add item", err)
	}
	return order, nil
}

// addItemTx merges or inserts one line and recomputes the order total.
// The product row stays locked until the surrounding transaction ends.
func (s *orderService) addItemTx(ctx context.Context, tx *repository.Repository, orderID uuid.UUID, in OrderItemInput) error {
	p, err := tx.Products.GetByIDForUpdate(ctx, in.ProductID)
	if err != nil {
		return internalError("lock product", err)
	}
	if p == nil {
		return ErrProductNotFound
	}
	if p.StockQuantity < in.Quantity {
		return insufficientStock("Insufficient stock. Available: %d", p.StockQuantity)
	}

	existing, err := tx.OrderItems.GetByOrderAndProduct(ctx, orderID, p.ID)
	if err != nil {
		return internalError("find order item", err)
	}

	if existing != nil {
		qty := existing.Quantity + in.Quantity
		if qty > maxCount {
			var fe FieldErrors
			fe.add("quantity", "max", fmt.Sprintf("quantity must be at most %d", maxCount))
			return fe.err()
		}
		// Re-priced at the current product price, not blended.
		if err := tx.OrderItems.UpdateLine(ctx, existing.ID, qty, p.Price, lineSubtotal(qty, p.Price)); err != nil {
			return internalError("merge order item", err)
		}
	} else {
		productID := p.ID
		item := &models.OrderItem{
			OrderID:     orderID,
			ProductID:   &productID,
			ProductName: p.Name,
			Quantity:    in.Quantity,
			UnitPrice:   p.Price,
			Subtotal:    lineSubtotal(in.Quantity, p.Price),
		}
		if err := tx.OrderItems.Create(ctx, item); err != nil {
			return internalError("create order item", err)
		}
	}

	total, err := tx.OrderItems.SumByOrder(ctx, orderID)
	if err != nil {
		return internalError("sum order items", err)
	}
	return internalError("update order total", tx.Orders.UpdateTotal(ctx, orderID, total))
}

func (s *orderService) ConfirmOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	ctx, cancel := opContext(ctx, s.timeout)
	defer cancel()

	var (
		order   *models.Order
		touched []uuid.UUID
	)
	err := s.repo.WithTx(ctx, func(tx *repository.Repository) error {
		ord, err := tx.Orders.GetByIDForUpdate(ctx, id)
		if err != nil {
			return internalError("lock order", err)
		}
		if ord == nil {
			return ErrOrderNotFound
		}
		switch ord.Status {
		case models.OrderStatusConfirmed:
			return ErrAlreadyConfirmed
		case models.OrderStatusCancelled:
			return ErrAlreadyCancelled
		}

		items, err := tx.OrderItems.GetByOrderID(ctx, ord.ID)
		if err != nil {
			return internalError("load order items", err)
		}
		if len(items) == 0 {
			return ErrOrderHasNoItems
		}

		products, err := lockProducts(ctx, tx, items)
		if err != nil {
			return err
		}

		for _, it := range items {
			if it.ProductID == nil {
				return notFound("Product %s no longer exists", it.ProductName)
			}
			p, ok := products[*it.ProductID]
			if !ok {
				return notFound("Product %s no longer exists", it.ProductName)
			}
			if p.StockQuantity < it.Quantity {
				return insufficientStock("Insufficient stock for %s. Available: %d", p.Name, p.StockQuantity)
			}
		}

		logs := make([]models.InventoryLog, 0, len(items))
		for _, it := range items {
			ok, err := tx.Products.DecreaseStock(ctx, *it.ProductID, it.Quantity)
			if err != nil {
				return internalError("decrease stock", err)
			}
			if !ok {
				p := products[*it.ProductID]
				return insufficientStock("Insufficient stock for %s. Available: %d", p.Name, p.StockQuantity)
			}
			logs = append(logs, models.InventoryLog{
				ProductID:      it.ProductID,
				ChangeType:     models.ChangeOrderCreated,
				QuantityChange: -it.Quantity,
				Reason:         fmt.Sprintf("Order %s confirmed", ord.OrderNumber),
				OrderID:        &ord.ID,
			})
			touched = append(touched, *it.ProductID)
		}
		if err := tx.InventoryLogs.BulkCreate(ctx, logs); err != nil {
			return internalError("write inventory logs", err)
		}

		if err := tx.Orders.UpdateStatus(ctx, ord.ID, models.OrderStatusConfirmed); err != nil {
			return internalError("update order status", err)
		}

		order, err = tx.Orders.GetByID(ctx, ord.ID)
		if err != nil {
			return internalError("reload order", err)
		}
		return internalError("enqueue order event", enqueueEvent(ctx, tx, s.topic, EventOrderConfirmed, order, s.now()))
	})
	if err != nil {
		return nil, internalError("confirm order", err)
	}

	s.notifyStock(ctx, touched)
	return order, nil
}

func (s *orderService) CancelOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	ctx, cancel := opContext(ctx, s.timeout)
	defer cancel()

	var (
		order   *models.Order
		touched []uuid.UUID
	)
	err := s.repo.WithTx(ctx, func(tx *repository.Repository) error {
		ord, err := tx.Orders.GetByIDForUpdate(ctx, id)
		if err != nil {
			return internalError("lock order", err)
		}
		if ord == nil {
			return ErrOrderNotFound
		}

		switch ord.Status {
		case models.OrderStatusCancelled:
			return ErrAlreadyCancelled
		case models.OrderStatusConfirmed:
			touched, err = s.restoreStockTx(ctx, tx, ord)
			if err != nil {
				return err
			}
		default:
			// pending: nothing was ever decremented
		}

		if err := tx.Orders.UpdateStatus(ctx, ord.ID, models.OrderStatusCancelled); err != nil {
			return internalError("update order status", err)
		}

		order, err = tx.Orders.GetByID(ctx, ord.ID)
		if err != nil {
			return internalError("reload order", err)
		}
		return internalError("enqueue order event", enqueueEvent(ctx, tx, s.topic, EventOrderCancelled, order, s.now()))
	})
	if err != nil {
		return nil, internalError("cancel order", err)
	}

	s.notifyStock(ctx, touched)
	return order, nil
}

// restoreStockTx puts confirmed quantities back. Lines whose product has
// since been deleted are skipped.
func (s *orderService) restoreStockTx(ctx context.Context, tx *repository.Repository, ord *models.Order) ([]uuid.UUID, error) {
	items, err := tx.OrderItems.GetByOrderID(ctx, ord.ID)
	if err != nil {
		return nil, internalError("load order items", err)
	}
	products, err := lockProducts(ctx, tx, items)
	if err != nil {
		return nil, err
	}

	var (
		logs    []models.InventoryLog
		touched []uuid.UUID
	)
	for _, it := range items {
		if it.ProductID == nil {
			continue
		}
		if _, ok := products[*it.ProductID]; !ok {
			continue
		}
		if _, err := tx.Products.IncreaseStock(ctx, *it.ProductID, it.Quantity); err != nil {
			return nil, internalError("increase stock", err)
		}
		logs = append(logs, models.InventoryLog{
			ProductID:      it.ProductID,
			ChangeType:     models.ChangeOrderCancelled,
			QuantityChange: it.Quantity,
			Reason:         fmt.Sprintf("Order %s cancelled", ord.OrderNumber),
			OrderID:        &ord.ID,
		})
		touched = append(touched, *it.ProductID)
	}
	if err := tx.InventoryLogs.BulkCreate(ctx, logs); err != nil {
		return nil, internalError("write inventory logs", err)
	}
	return touched, nil
}

func (s *orderService) DeleteOrder(ctx context.Context, id uuid.UUID) error {
	ctx, cancel := opContext(ctx, s.timeout)
	defer cancel()

	ok, err := s.repo.Orders.Delete(ctx, id)
	if err != nil {
		return internalError("delete order", err)
	}
	if !ok {
		return ErrOrderNotFound
	}
	return nil
}

func (s *orderService) InventoryLogs(ctx context.Context, orderID uuid.UUID) ([]models.InventoryLog, error) {
	ctx, cancel := opContext(ctx, s.timeout)
	defer cancel()

	exists, err := s.repo.Orders.Exists(ctx, orderID)
	if err != nil {
		return nil, internalError("check order", err)
	}
	if !exists {
		return nil, ErrOrderNotFound
	}
	logs, err := s.repo.InventoryLogs.ListByOrder(ctx, orderID)
	if err != nil {
		return nil, internalError("list inventory logs", err)
	}
	return logs, nil
}

func (s *orderService) notifyStock(ctx context.Context, ids []uuid.UUID) {
	if s.stock == nil || len(ids) == 0 {
		return
	}
	s.stock.StockChanged(context.WithoutCancel(ctx), ids)
}

func lockProducts(ctx context.Context, tx *repository.Repository, items []models.OrderItem) (map[uuid.UUID]models.Product, error) {
	ids := make([]uuid.UUID, 0, len(items))
	for _, it := range items {
		if it.ProductID != nil {
			ids = append(ids, *it.ProductID)
		}
	}
	list, err := tx.Products.LockByIDs(ctx, ids)
	if err != nil {
		return nil, internalError("lock products", err)
	}
	m := make(map[uuid.UUID]models.Product, len(list))
	for _, p := range list {
		m[p.ID] = p
	}
	return m, nil
}
