package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/terraflow/scm-backend/internal/model"
	"github.com/terraflow/scm-backend/internal/repository"
	"gorm.io/gorm"
)

type OrderService interface {
	Create(ctx context.Context, customerID uint64, total decimal.Decimal) (*model.Order, error)
	UpdateStatus(ctx context.Context, id uint64, status model.OrderStatus) (*model.Order, error)
	ListByCustomer(ctx context.Context, customerID uint64) ([]model.Order, error)
}

type orderService struct {
	repo   repository.OrderRepository
	notify NotificationService
}

func NewOrderService(repo repository.OrderRepository, notify NotificationService) OrderService {
	return &orderService{repo: repo, notify: notify}
}

func (s *orderService) Create(ctx context.Context, customerID uint64, total decimal.Decimal) (*model.Order, error) {
	if customerID == 0 || total.IsNegative() {
		return nil, ErrValidation
	}
	o := &model.Order{
		OrderNumber: "ORD-" + uuid.NewString(),
		CustomerID:  customerID,
		TotalAmount: total,
		Status:      model.OrderStatusPending,
	}
	if err := s.repo.Create(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

// UpdateStatus is an admin operation; the customer on the order is notified.
func (s *orderService) UpdateStatus(ctx context.Context, id uint64, status model.OrderStatus) (*model.Order, error) {
	switch status {
	case model.OrderStatusProcessing, model.OrderStatusShipped, model.OrderStatusDelivered, model.OrderStatusCancelled:
	default:
		return nil, ErrValidation
	}
	o, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	o.Status = status
	if err := s.repo.Update(ctx, o); err != nil {
		return nil, err
	}
	s.notify.NotifyOrderStatus(ctx, o)
	return o, nil
}

func (s *orderService) ListByCustomer(ctx context.Context, customerID uint64) ([]model.Order, error) {
	return s.repo.ListByCustomer(ctx, customerID)
}
