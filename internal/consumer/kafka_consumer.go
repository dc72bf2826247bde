package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"time"

	"order-admin/internal/service"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// OrderEventsConsumer keeps product caches on every instance in step with
// stock moved by confirm and cancel.
type OrderEventsConsumer struct {
	reader *kafka.Reader
	stock  service.StockListener
	log    *zap.Logger
}

func NewOrderEventsConsumer(brokers []string, groupID, topic string, stock service.StockListener, log *zap.Logger) *OrderEventsConsumer {
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:           brokers,
		GroupID:           groupID,
		Topic:             topic,
		MinBytes:          1,
		MaxBytes:          10e6,
		CommitInterval:    time.Second,
		HeartbeatInterval: 3 * time.Second,
		SessionTimeout:    30 * time.Second,
	})
	return &OrderEventsConsumer{reader: r, stock: stock, log: log}
}

func (c *OrderEventsConsumer) Run(ctx context.Context) error {
	c.log.Info("kafka consumer started")
	for {
		m, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, io.EOF) {
				return nil
			}
			c.log.Error("read message", zap.Error(err))
			continue
		}
		if err := c.Handle(ctx, m.Value); err != nil {
			c.log.Error("handle order event", zap.ByteString("value", m.Value), zap.Error(err))
		}
	}
}

// Handle applies one encoded order event.
func (c *OrderEventsConsumer) Handle(ctx context.Context, value []byte) error {
	var ev service.OrderEvent
	if err := json.Unmarshal(value, &ev); err != nil {
		return err
	}
	if !ev.StockChanged() {
		return nil
	}
	ids := ev.ProductIDs()
	if len(ids) == 0 {
		return nil
	}
	c.stock.StockChanged(ctx, ids)
	c.log.Debug("product cache invalidated",
		zap.String("event_type", ev.EventType),
		zap.String("order_id", ev.OrderID.String()),
		zap.Int("products", len(ids)))
	return nil
}

func (c *OrderEventsConsumer) Close() error { return c.reader.Close() }
