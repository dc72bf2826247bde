package producer

import (
	"context"
	"time"

	"github.com/segmentio/kafka-go"
)

// OrderEventsProducer writes already-encoded events; the topic travels on
// each message so one writer serves every outbox topic.
type OrderEventsProducer struct {
	writer *kafka.Writer
}

func NewOrderEventsProducer(brokers []string) *OrderEventsProducer {
	return &OrderEventsProducer{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Balancer:               &kafka.Hash{},
			RequiredAcks:           kafka.RequireAll,
			AllowAutoTopicCreation: true,
		},
	}
}

func (p *OrderEventsProducer) Publish(ctx context.Context, topic, key string, value []byte) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return p.writer.WriteMessages(ctx, kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: value,
	})
}

func (p *OrderEventsProducer) Close() error {
	return p.writer.Close()
}
