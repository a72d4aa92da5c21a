package repository

import (
	"context"

	"github.com/terraflow/scm-backend/internal/model"
	"gorm.io/gorm"
)

type MaterialRequestRepository interface {
	Create(ctx context.Context, m *model.MaterialRequest) error
	FindByID(ctx context.Context, id uint64) (*model.MaterialRequest, error)
	Update(ctx context.Context, m *model.MaterialRequest) error
	ListBySupplier(ctx context.Context, supplierID uint64) ([]model.MaterialRequest, error)
}

type materialRequestRepository struct {
	db *gorm.DB
}

func NewMaterialRequestRepository(db *gorm.DB) MaterialRequestRepository {
	return &materialRequestRepository{db: db}
}

func (r *materialRequestRepository) Create(ctx context.Context, m *model.MaterialRequest) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *materialRequestRepository) FindByID(ctx context.Context, id uint64) (*model.MaterialRequest, error) {
	var m model.MaterialRequest
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *materialRequestRepository) Update(ctx context.Context, m *model.MaterialRequest) error {
	return r.db.WithContext(ctx).Save(m).Error
}

func (r *materialRequestRepository) ListBySupplier(ctx context.Context, supplierID uint64) ([]model.MaterialRequest, error) {
	var list []model.MaterialRequest
	if err := r.db.WithContext(ctx).
		Where("supplier_id = ?", supplierID).
		Order("created_at DESC").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}
