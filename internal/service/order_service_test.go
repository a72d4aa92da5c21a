package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/terraflow/scm-backend/internal/model"
	"github.com/terraflow/scm-backend/internal/repository"
)

func TestOrderStatusChangeNotifiesCustomer(t *testing.T) {
	db := newTestDB(t)
	notifSvc, notifRepo := newNotificationService(t, db)
	orderSvc := NewOrderService(repository.NewOrderRepository(db), notifSvc)
	ctx := context.Background()

	customer := seedUser(t, db, "customer", model.RoleCustomer)

	o, err := orderSvc.Create(ctx, customer.ID, decimalFromInt(250))
	require.NoError(t, err)
	require.Equal(t, model.OrderStatusPending, o.Status)
	require.NotEmpty(t, o.OrderNumber)

	// order creation itself does not notify anyone
	got, err := notifRepo.ListByUser(ctx, customer.ID, false, 50, 0)
	require.NoError(t, err)
	require.Empty(t, got)

	updated, err := orderSvc.UpdateStatus(ctx, o.ID, model.OrderStatusShipped)
	require.NoError(t, err)
	require.Equal(t, model.OrderStatusShipped, updated.Status)

	got, err = notifRepo.ListByUser(ctx, customer.ID, false, 50, 0)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, model.NotificationTypeOrderUpdate, got[0].Type)
	require.Equal(t, "order", got[0].RelatedType)
	require.Equal(t, o.ID, *got[0].RelatedID)
}

func TestOrderUpdateStatusValidation(t *testing.T) {
	db := newTestDB(t)
	notifSvc, _ := newNotificationService(t, db)
	orderSvc := NewOrderService(repository.NewOrderRepository(db), notifSvc)
	ctx := context.Background()

	customer := seedUser(t, db, "customer", model.RoleCustomer)
	o, err := orderSvc.Create(ctx, customer.ID, decimalFromInt(250))
	require.NoError(t, err)

	_, err = orderSvc.UpdateStatus(ctx, o.ID, model.OrderStatus("teleported"))
	require.ErrorIs(t, err, ErrValidation)

	_, err = orderSvc.UpdateStatus(ctx, 999, model.OrderStatusShipped)
	require.ErrorIs(t, err, ErrNotFound)

	_, err = orderSvc.Create(ctx, 0, decimalFromInt(10))
	require.ErrorIs(t, err, ErrValidation)
}
