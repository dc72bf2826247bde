package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"order-admin/internal/models"
	"order-admin/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type productService struct {
	repo    *repository.Repository
	timeout time.Duration
}

func NewProductService(repo *repository.Repository, opts Options) ProductService {
	return &productService{repo: repo, timeout: opts.Timeout}
}

func (s *productService) Create(ctx context.Context, in ProductInput) (*models.Product, error) {
	if err := in.Validate().err(); err != nil {
		return nil, err
	}

	ctx, cancel := opContext(ctx, s.timeout)
	defer cancel()

	p := &models.Product{
		Name:          strings.TrimSpace(in.Name),
		Description:   trimOptional(in.Description),
		Price:         in.Price,
		StockQuantity: *in.StockQuantity,
	}

	err := s.repo.WithTx(ctx, func(tx *repository.Repository) error {
		if existing, err := tx.Products.GetByName(ctx, p.Name); err != nil {
			return internalError("find product by name", err)
		} else if existing != nil {
			return ErrProductNameTaken
		}
		return tx.Products.Create(ctx, p)
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, ErrProductNameTaken
	}
	if err != nil {
		return nil, internalError("create product", err)
	}
	return p, nil
}

func (s *productService) Get(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	ctx, cancel := opContext(ctx, s.timeout)
	defer cancel()

	p, err := s.repo.Products.GetByID(ctx, id)
	if err != nil {
		return nil, internalError("get product", err)
	}
	if p == nil {
		return nil, ErrProductNotFound
	}
	return p, nil
}

func (s *productService) List(ctx context.Context, f ProductFilter) ([]models.Product, error) {
	ctx, cancel := opContext(ctx, s.timeout)
	defer cancel()

	list, err := s.repo.Products.List(ctx, repository.ProductListFilter{Query: f.Search})
	if err != nil {
		return nil, internalError("list products", err)
	}
	return list, nil
}

func (s *productService) Update(ctx context.Context, id uuid.UUID, patch ProductPatch) (*models.Product, error) {
	if err := patch.Validate().err(); err != nil {
		return nil, err
	}

	ctx, cancel := opContext(ctx, s.timeout)
	defer cancel()

	var updated *models.Product
	err := s.repo.WithTx(ctx, func(tx *repository.Repository) error {
		cur, err := tx.Products.GetByIDForUpdate(ctx, id)
		if err != nil {
			return internalError("lock product", err)
		}
		if cur == nil {
			return ErrProductNotFound
		}

		fields := map[string]any{}
		if patch.Name != nil {
			name := strings.TrimSpace(*patch.Name)
			if name != cur.Name {
				other, err := tx.Products.GetByName(ctx, name)
				if err != nil {
					return internalError("find product by name", err)
				}
				if other != nil && other.ID != cur.ID {
					return ErrProductNameTaken
				}
			}
			fields["name"] = name
		}
		if patch.Description != nil {
			fields["description"] = trimOptional(patch.Description)
		}
		if patch.Price != nil {
			fields["price"] = *patch.Price
		}
		if patch.StockQuantity != nil {
			fields["stock_quantity"] = *patch.StockQuantity
		}

		if _, err := tx.Products.UpdateFields(ctx, id, fields); err != nil {
			return err
		}

		updated, err = tx.Products.GetByID(ctx, id)
		return err
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, ErrProductNameTaken
	}
	if err != nil {
		return nil, internalError("update product", err)
	}
	return updated, nil
}

func (s *productService) Delete(ctx context.Context, id uuid.UUID) error {
	ctx, cancel := opContext(ctx, s.timeout)
	defer cancel()

	ok, err := s.repo.Products.Delete(ctx, id)
	if err != nil {
		return internalError("delete product", err)
	}
	if !ok {
		return ErrProductNotFound
	}
	return nil
}

func (s *productService) InventoryLogs(ctx context.Context, productID uuid.UUID) ([]models.InventoryLog, error) {
	ctx, cancel := opContext(ctx, s.timeout)
	defer cancel()

	p, err := s.repo.Products.GetByID(ctx, productID)
	if err != nil {
		return nil, internalError("get product", err)
	}
	if p == nil {
		return nil, ErrProductNotFound
	}
	logs, err := s.repo.InventoryLogs.ListByProduct(ctx, productID)
	if err != nil {
		return nil, internalError("list inventory logs", err)
	}
	return logs, nil
}

func trimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
