package service

import (
	"context"
	"encoding/json"
	"time"

	"order-admin/internal/models"
	"order-admin/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

const (
	EventOrderCreated   = "order.created"
	EventOrderConfirmed = "order.confirmed"
	EventOrderCancelled = "order.cancelled"
)

type OrderEventItem struct {
	ProductID   *uuid.UUID      `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

type OrderEvent struct {
	EventType   string             `json:"event_type"`
	OrderID     uuid.UUID          `json:"order_id"`
	OrderNumber string             `json:"order_number"`
	Status      models.OrderStatus `json:"status"`
	TotalAmount decimal.Decimal    `json:"total_amount"`
	Items       []OrderEventItem   `json:"items"`
	OccurredAt  time.Time          `json:"occurred_at"`
}

// StockChanged reports whether the event moved product stock.
func (e OrderEvent) StockChanged() bool {
	return e.EventType == EventOrderConfirmed || e.EventType == EventOrderCancelled
}

func (e OrderEvent) ProductIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(e.Items))
	for _, it := range e.Items {
		if it.ProductID != nil {
			ids = append(ids, *it.ProductID)
		}
	}
	return ids
}

func newOrderEvent(eventType string, ord *models.Order, at time.Time) OrderEvent {
	items := make([]OrderEventItem, 0, len(ord.Items))
	for _, it := range ord.Items {
		items = append(items, OrderEventItem{
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			Subtotal:    it.Subtotal,
		})
	}
	return OrderEvent{
		EventType:   eventType,
		OrderID:     ord.ID,
		OrderNumber: ord.OrderNumber,
		Status:      ord.Status,
		TotalAmount: ord.TotalAmount,
		Items:       items,
		OccurredAt:  at,
	}
}

// StockListener is told which products changed stock after a commit.
type StockListener interface {
	StockChanged(ctx context.Context, productIDs []uuid.UUID)
}

// enqueueEvent writes the event to the outbox inside the caller's transaction.
// An empty topic disables publishing.
func enqueueEvent(ctx context.Context, tx *repository.Repository, topic, eventType string, ord *models.Order, at time.Time) error {
	if topic == "" {
		return nil
	}
	payload, err := json.Marshal(newOrderEvent(eventType, ord, at))
	if err != nil {
		return err
	}
	return tx.Outbox.Save(ctx, &models.OutboxEvent{
		Topic:       topic,
		EventType:   eventType,
		AggregateID: ord.ID,
		Payload:     datatypes.JSON(payload),
	})
}
