package service

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"github.com/terraflow/scm-backend/internal/model"
	"github.com/terraflow/scm-backend/internal/repository"
	"gorm.io/gorm"
)

type MaterialRequestService interface {
	Create(ctx context.Context, adminID, productID uint64, quantity decimal.Decimal, note string) (*model.MaterialRequest, error)
	UpdateStatus(ctx context.Context, id, supplierID uint64, status model.MaterialRequestStatus) (*model.MaterialRequest, error)
	ListBySupplier(ctx context.Context, supplierID uint64) ([]model.MaterialRequest, error)
}

type materialRequestService struct {
	repo        repository.MaterialRequestRepository
	productRepo repository.ProductRepository
	notify      NotificationService
}

func NewMaterialRequestService(repo repository.MaterialRequestRepository, productRepo repository.ProductRepository, notify NotificationService) MaterialRequestService {
	return &materialRequestService{repo: repo, productRepo: productRepo, notify: notify}
}

// Create addresses the request to the supplier owning the product and
// notifies that supplier. The notification is best-effort: the request is
// committed regardless.
func (s *materialRequestService) Create(ctx context.Context, adminID, productID uint64, quantity decimal.Decimal, note string) (*model.MaterialRequest, error) {
	if !quantity.IsPositive() {
		return nil, ErrValidation
	}
	p, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	m := &model.MaterialRequest{
		ProductID:   productID,
		SupplierID:  p.SupplierID,
		RequestedBy: adminID,
		Quantity:    quantity,
		Status:      model.MaterialRequestStatusPending,
		Note:        note,
	}
	if err := s.repo.Create(ctx, m); err != nil {
		return nil, err
	}
	s.notify.NotifyMaterialRequestCreated(ctx, m, p.Name)
	return m, nil
}

func (s *materialRequestService) UpdateStatus(ctx context.Context, id, supplierID uint64, status model.MaterialRequestStatus) (*model.MaterialRequest, error) {
	switch status {
	case model.MaterialRequestStatusApproved, model.MaterialRequestStatusRejected, model.MaterialRequestStatusDelivered:
	default:
		return nil, ErrValidation
	}
	m, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if m.SupplierID != supplierID {
		// Ownership failures read as not found so ids cannot be probed.
		return nil, ErrNotFound
	}
	m.Status = status
	if err := s.repo.Update(ctx, m); err != nil {
		return nil, err
	}
	s.notify.NotifyMaterialRequestStatus(ctx, m)
	return m, nil
}

func (s *materialRequestService) ListBySupplier(ctx context.Context, supplierID uint64) ([]model.MaterialRequest, error) {
	return s.repo.ListBySupplier(ctx, supplierID)
}
