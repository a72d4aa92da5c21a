package service

import (
	"context"
	"errors"

	"github.com/terraflow/scm-backend/internal/model"
	"github.com/terraflow/scm-backend/internal/repository"
	"gorm.io/gorm"
)

type ProductService interface {
	Create(ctx context.Context, p *model.Product) error
	SetStock(ctx context.Context, id, callerID uint64, role model.Role, stock int64) (*model.Product, error)
}

type productService struct {
	repo   repository.ProductRepository
	notify NotificationService
}

func NewProductService(repo repository.ProductRepository, notify NotificationService) ProductService {
	return &productService{repo: repo, notify: notify}
}

func (s *productService) Create(ctx context.Context, p *model.Product) error {
	if p.Name == "" || p.SKU == "" || p.SupplierID == 0 {
		return ErrValidation
	}
	return s.repo.Create(ctx, p)
}

// SetStock writes an absolute stock level. Admins may adjust any product,
// suppliers only their own. Dropping under the minimum raises a stock alert
// for the admins.
func (s *productService) SetStock(ctx context.Context, id, callerID uint64, role model.Role, stock int64) (*model.Product, error) {
	if stock < 0 {
		return nil, ErrValidation
	}
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if role != model.RoleAdmin && p.SupplierID != callerID {
		return nil, ErrForbidden
	}
	if err := s.repo.UpdateStock(ctx, id, stock); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	p.Stock = stock
	if stock < p.MinStock {
		s.notify.NotifyLowStock(ctx, p)
	}
	return p, nil
}
