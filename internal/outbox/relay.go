package outbox

import (
	"context"
	"time"

	"order-admin/internal/repository"

	"go.uber.org/zap"
)

type Publisher interface {
	Publish(ctx context.Context, topic, key string, value []byte) error
}

// Relay moves committed outbox rows to the broker. Delivery is at least
// once: a crash between publish and commit republishes the batch.
type Relay struct {
	repo      *repository.Repository
	pub       Publisher
	batchSize int
	log       *zap.Logger
}

func NewRelay(repo *repository.Repository, pub Publisher, batchSize int, log *zap.Logger) *Relay {
	if batchSize <= 0 {
		batchSize = 50
	}
	return &Relay{repo: repo, pub: pub, batchSize: batchSize, log: log}
}

// ProcessBatch publishes one batch and returns how many rows were published.
func (r *Relay) ProcessBatch(ctx context.Context) (int, error) {
	published := 0
	err := r.repo.WithTx(ctx, func(tx *repository.Repository) error {
		events, err := tx.Outbox.FetchUnpublished(ctx, r.batchSize)
		if err != nil {
			return err
		}
		if len(events) == 0 {
			return nil
		}

		r.log.Debug("processing outbox events", zap.Int("count", len(events)))

		for _, ev := range events {
			if err := r.pub.Publish(ctx, ev.Topic, ev.AggregateID.String(), ev.Payload); err != nil {
				r.log.Error("outbox publish failed",
					zap.Int64("id", ev.ID),
					zap.String("event_type", ev.EventType),
					zap.Int("attempts", ev.Attempts+1),
					zap.Error(err))
				if dbErr := tx.Outbox.MarkFailed(ctx, ev.ID, err.Error()); dbErr != nil {
					return dbErr
				}
				continue
			}
			if err := tx.Outbox.MarkPublished(ctx, ev.ID); err != nil {
				return err
			}
			published++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	if published > 0 {
		r.log.Info("outbox events published", zap.Int("count", published))
	}
	return published, nil
}

// PurgePublished removes published rows older than retention.
func (r *Relay) PurgePublished(ctx context.Context, retention time.Duration) (int64, error) {
	n, err := r.repo.Outbox.PurgePublished(ctx, time.Now().Add(-retention))
	if err != nil {
		r.log.Error("failed to purge published outbox events", zap.Error(err))
		return 0, err
	}
	if n > 0 {
		r.log.Info("purged published outbox events", zap.Int64("count", n))
	}
	return n, nil
}
