package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/terraflow/scm-backend/internal/model"
	"github.com/terraflow/scm-backend/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CreateNotificationInput is the payload for directly created notifications.
type CreateNotificationInput struct {
	UserID      uint64
	Type        string
	Title       string
	Message     string
	RelatedType string
	RelatedID   *uint64
	Priority    string
}

type NotificationService interface {
	Create(ctx context.Context, in CreateNotificationInput) (*model.Notification, error)
	List(ctx context.Context, userID uint64, unreadOnly bool, limit, offset int) ([]model.Notification, int64, error)
	MarkRead(ctx context.Context, id, userID uint64) error
	Delete(ctx context.Context, id, userID uint64) error
	Cleanup(ctx context.Context, userID uint64, age time.Duration) (int64, error)
	Stats(ctx context.Context, userID uint64) (*repository.NotificationStats, error)

	// Event translation. These are best-effort: the triggering domain write
	// must not fail because a notification could not be stored, so errors are
	// logged and swallowed.
	NotifyMaterialRequestCreated(ctx context.Context, req *model.MaterialRequest, productName string)
	NotifyMaterialRequestStatus(ctx context.Context, req *model.MaterialRequest)
	NotifyOrderStatus(ctx context.Context, o *model.Order)
	NotifyLowStock(ctx context.Context, p *model.Product)
}

type notificationService struct {
	repo     repository.NotificationRepository
	userRepo repository.UserRepository
	log      *zap.Logger
}

func NewNotificationService(repo repository.NotificationRepository, userRepo repository.UserRepository, log *zap.Logger) NotificationService {
	if log == nil {
		log = zap.NewNop()
	}
	return &notificationService{repo: repo, userRepo: userRepo, log: log}
}

func (s *notificationService) Create(ctx context.Context, in CreateNotificationInput) (*model.Notification, error) {
	if in.UserID == 0 || in.Type == "" || in.Title == "" {
		return nil, ErrValidation
	}
	switch in.Priority {
	case "":
		in.Priority = model.PriorityNormal
	case model.PriorityNormal, model.PriorityHigh, model.PriorityUrgent:
	default:
		return nil, ErrValidation
	}
	ok, err := s.userRepo.Exists(ctx, in.UserID)
	if err != nil {
		return nil, err
	}
	if !ok {
		// Recipient must exist; the related reference stays advisory.
		return nil, ErrValidation
	}
	n := &model.Notification{
		UserID:      in.UserID,
		Type:        in.Type,
		Title:       in.Title,
		Message:     in.Message,
		RelatedType: in.RelatedType,
		RelatedID:   in.RelatedID,
		Priority:    in.Priority,
	}
	if err := s.repo.Create(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}

func (s *notificationService) List(ctx context.Context, userID uint64, unreadOnly bool, limit, offset int) ([]model.Notification, int64, error) {
	list, err := s.repo.ListByUser(ctx, userID, unreadOnly, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	cnt, err := s.repo.CountUnread(ctx, userID)
	if err != nil {
		return nil, 0, err
	}
	return list, cnt, nil
}

func (s *notificationService) MarkRead(ctx context.Context, id, userID uint64) error {
	if err := s.repo.MarkRead(ctx, id, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

func (s *notificationService) Delete(ctx context.Context, id, userID uint64) error {
	if err := s.repo.Delete(ctx, id, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

func (s *notificationService) Cleanup(ctx context.Context, userID uint64, age time.Duration) (int64, error) {
	if age <= 0 {
		age = 30 * 24 * time.Hour
	}
	return s.repo.DeleteOlderThan(ctx, userID, time.Now().Add(-age))
}

func (s *notificationService) Stats(ctx context.Context, userID uint64) (*repository.NotificationStats, error) {
	return s.repo.Stats(ctx, userID)
}

// notify inserts one row, logging and swallowing failures.
func (s *notificationService) notify(ctx context.Context, n *model.Notification) {
	if n.UserID == 0 || n.Type == "" {
		return
	}
	if n.Priority == "" {
		n.Priority = model.PriorityNormal
	}
	if err := s.repo.Create(ctx, n); err != nil {
		s.log.Warn("notification dropped",
			zap.Uint64("user_id", n.UserID),
			zap.String("type", n.Type),
			zap.Error(err))
	}
}

// notifyAdmins fans one event out to every admin user.
func (s *notificationService) notifyAdmins(ctx context.Context, build func(adminID uint64) *model.Notification) {
	admins, err := s.userRepo.ListByRole(ctx, model.RoleAdmin)
	if err != nil {
		s.log.Warn("admin fan-out skipped", zap.Error(err))
		return
	}
	for _, a := range admins {
		s.notify(ctx, build(a.ID))
	}
}

func (s *notificationService) NotifyMaterialRequestCreated(ctx context.Context, req *model.MaterialRequest, productName string) {
	id := req.ID
	s.notify(ctx, &model.Notification{
		UserID:      req.SupplierID,
		Type:        model.NotificationTypeMaterialRequest,
		Title:       "New material request",
		Message:     fmt.Sprintf("Request #%d: %s x %s", req.ID, productName, req.Quantity.String()),
		RelatedType: "material_request",
		RelatedID:   &id,
	})
}

func (s *notificationService) NotifyMaterialRequestStatus(ctx context.Context, req *model.MaterialRequest) {
	id := req.ID
	s.notifyAdmins(ctx, func(adminID uint64) *model.Notification {
		return &model.Notification{
			UserID:      adminID,
			Type:        model.NotificationTypeMaterialUpdate,
			Title:       "Material request " + string(req.Status),
			Message:     fmt.Sprintf("Supplier updated request #%d to %s", req.ID, req.Status),
			RelatedType: "material_request",
			RelatedID:   &id,
		}
	})
}

func (s *notificationService) NotifyOrderStatus(ctx context.Context, o *model.Order) {
	id := o.ID
	s.notify(ctx, &model.Notification{
		UserID:      o.CustomerID,
		Type:        model.NotificationTypeOrderUpdate,
		Title:       "Order " + string(o.Status),
		Message:     fmt.Sprintf("Order %s is now %s", o.OrderNumber, o.Status),
		RelatedType: "order",
		RelatedID:   &id,
	})
}

func (s *notificationService) NotifyLowStock(ctx context.Context, p *model.Product) {
	id := p.ID
	priority := model.PriorityHigh
	if p.Stock <= 0 {
		priority = model.PriorityUrgent
	}
	s.notifyAdmins(ctx, func(adminID uint64) *model.Notification {
		return &model.Notification{
			UserID:      adminID,
			Type:        model.NotificationTypeStockAlert,
			Title:       "Low stock: " + p.Name,
			Message:     fmt.Sprintf("%s stock is %d (minimum %d)", p.Name, p.Stock, p.MinStock),
			RelatedType: "product",
			RelatedID:   &id,
			Priority:    priority,
		}
	})
}
