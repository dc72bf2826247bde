package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"order-admin/internal/models"
	"order-admin/internal/service"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

// CachedProductService is a read-through cache for single products.
// Cache failures never fail the request; they fall back to the database.
type CachedProductService struct {
	next  service.ProductService
	store Store
	ttl   time.Duration
	log   *zap.Logger
}

func NewCachedProductService(next service.ProductService, store Store, ttl time.Duration, log *zap.Logger) *CachedProductService {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &CachedProductService{next: next, store: store, ttl: ttl, log: log}
}

func productKey(id uuid.UUID) string { return fmt.Sprintf("product:%s", id) }

func (s *CachedProductService) Create(ctx context.Context, in service.ProductInput) (*models.Product, error) {
	return s.next.Create(ctx, in)
}

func (s *CachedProductService) Get(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	key := productKey(id)

	raw, err := s.store.Get(ctx, key)
	switch {
	case err == nil:
		var p models.Product
		if err := json.Unmarshal(raw, &p); err == nil {
			return &p, nil
		}
		s.log.Warn("cached product is corrupt", zap.String("key", key))
	case !errors.Is(err, ErrMiss):
		s.log.Warn("product cache get failed", zap.String("key", key), zap.Error(err))
	}

	p, err := s.next.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(p); err == nil {
		if err := s.store.Set(ctx, key, data, s.ttl); err != nil {
			s.log.Warn("product cache set failed", zap.String("key", key), zap.Error(err))
		}
	}
	return p, nil
}

func (s *CachedProductService) List(ctx context.Context, f service.ProductFilter) ([]models.Product, error) {
	return s.next.List(ctx, f)
}

func (s *CachedProductService) Update(ctx context.Context, id uuid.UUID, patch service.ProductPatch) (*models.Product, error) {
	p, err := s.next.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, id)
	return p, nil
}

func (s *CachedProductService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.next.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, id)
	return nil
}

func (s *CachedProductService) InventoryLogs(ctx context.Context, productID uuid.UUID) ([]models.InventoryLog, error) {
	return s.next.InventoryLogs(ctx, productID)
}

// StockChanged drops entries whose stock moved through an order.
func (s *CachedProductService) StockChanged(ctx context.Context, productIDs []uuid.UUID) {
	s.invalidate(ctx, productIDs...)
}

func (s *CachedProductService) invalidate(ctx context.Context, ids ...uuid.UUID) {
	if len(ids) == 0 {
		return
	}
	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, productKey(id))
	}
	if err := s.store.Del(ctx, keys...); err != nil {
		s.log.Warn("product cache invalidation failed", zap.Strings("keys", keys), zap.Error(err))
	}
}
