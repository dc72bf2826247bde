package repository

import (
	"context"
	"time"

	"order-admin/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const MaxOutboxAttempts = 10

type OutboxRepo interface {
	Save(ctx context.Context, ev *models.OutboxEvent) error
	// FetchUnpublished locks a batch with SKIP LOCKED so several relays can run.
	FetchUnpublished(ctx context.Context, limit int) ([]models.OutboxEvent, error)
	MarkPublished(ctx context.Context, id int64) error
	MarkFailed(ctx context.Context, id int64, errMsg string) error
	PurgePublished(ctx context.Context, before time.Time) (int64, error)
	ListByAggregate(ctx context.Context, aggregateID uuid.UUID) ([]models.OutboxEvent, error)
}

type outboxRepo struct{ db *gorm.DB }

func NewOutboxRepo(db *gorm.DB) OutboxRepo { return &outboxRepo{db: db} }

func (r *outboxRepo) Save(ctx context.Context, ev *models.OutboxEvent) error {
	return r.db.WithContext(ctx).Create(ev).Error
}

func (r *outboxRepo) FetchUnpublished(ctx context.Context, limit int) ([]models.OutboxEvent, error) {
	if limit <= 0 {
		limit = 50
	}
	var list []models.OutboxEvent
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"}).
		Where("published_at IS NULL AND attempts < ?", MaxOutboxAttempts).
		Order("id ASC").
		Limit(limit).
		Find(&list).Error
	return list, err
}

func (r *outboxRepo) MarkPublished(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Model(&models.OutboxEvent{}).Where("id = ?", id).Updates(map[string]any{
		"published_at": gorm.Expr("now()"),
		"last_error":   nil,
	}).Error
}

func (r *outboxRepo) MarkFailed(ctx context.Context, id int64, errMsg string) error {
	return r.db.WithContext(ctx).Model(&models.OutboxEvent{}).Where("id = ?", id).Updates(map[string]any{
		"attempts":   gorm.Expr("attempts + 1"),
		"last_error": errMsg,
	}).Error
}

func (r *outboxRepo) PurgePublished(ctx context.Context, before time.Time) (int64, error) {
	tx := r.db.WithContext(ctx).
		Where("published_at IS NOT NULL AND published_at < ?", before).
		Delete(&models.OutboxEvent{})
	return tx.RowsAffected, tx.Error
}

func (r *outboxRepo) ListByAggregate(ctx context.Context, aggregateID uuid.UUID) ([]models.OutboxEvent, error) {
	rows := []models.OutboxEvent{}
	err := r.db.WithContext(ctx).Where("aggregate_id = ?", aggregateID).Order("id ASC").Find(&rows).Error
	return rows, err
}
