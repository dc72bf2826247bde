package repository

import (
	"context"

	"gorm.io/gorm"
)

type Repository struct {
	DB            *gorm.DB
	Products      ProductRepo
	Orders        OrderRepo
	OrderItems    OrderItemRepo
	InventoryLogs InventoryLogRepo
	Outbox        OutboxRepo
}

func buildRepository(db *gorm.DB) *Repository {
	return &Repository{
		DB:            db,
		Products:      NewProductRepo(db),
		Orders:        NewOrderRepo(db),
		OrderItems:    NewOrderItemRepo(db),
		InventoryLogs: NewInventoryLogRepo(db),
		Outbox:        NewOutboxRepo(db),
	}
}

func New(db *gorm.DB) *Repository { return buildRepository(db) }

// WithTx runs fn against a repository set bound to one transaction.
// Any error returned by fn rolls everything back.
func (r *Repository) WithTx(ctx context.Context, fn func(tx *Repository) error) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(buildRepository(tx))
	})
}
