package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/terraflow/scm-backend/internal/model"
	"github.com/terraflow/scm-backend/internal/service"
)

type OrderHandler struct {
	svc service.OrderService
}

func NewOrderHandler(svc service.OrderService) *OrderHandler {
	return &OrderHandler{svc: svc}
}

type OrderResponse struct {
	ID          uint64 `json:"id"`
	OrderNumber string `json:"orderNumber"`
	CustomerID  uint64 `json:"customerId"`
	TotalAmount string `json:"totalAmount"`
	Status      string `json:"status"`
	CreatedAt   string `json:"createdAt"`
	UpdatedAt   string `json:"updatedAt"`
}

func toOrderResponse(o *model.Order) OrderResponse {
	return OrderResponse{
		ID:          o.ID,
		OrderNumber: o.OrderNumber,
		CustomerID:  o.CustomerID,
		TotalAmount: o.TotalAmount.String(),
		Status:      string(o.Status),
		CreatedAt:   o.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   o.UpdatedAt.Format(time.RFC3339),
	}
}

func (h *OrderHandler) Create(c echo.Context) error {
	uid := callerID(c)
	var body struct {
		TotalAmount string `json:"total_amount"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, Fail("invalid body"))
	}
	total, err := decimal.NewFromString(body.TotalAmount)
	if err != nil {
		return c.JSON(http.StatusBadRequest, Fail("invalid amount"))
	}
	o, err := h.svc.Create(c.Request().Context(), uid, total)
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			return c.JSON(http.StatusBadRequest, Fail("invalid order"))
		}
		return c.JSON(http.StatusInternalServerError, Fail("failed to create order"))
	}
	return c.JSON(http.StatusCreated, OK(toOrderResponse(o)))
}

func (h *OrderHandler) UpdateStatus(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, Fail("invalid id"))
	}
	var body struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, Fail("invalid body"))
	}
	o, err := h.svc.UpdateStatus(c.Request().Context(), id, model.OrderStatus(body.Status))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			return c.JSON(http.StatusBadRequest, Fail("invalid status"))
		case errors.Is(err, service.ErrNotFound):
			return c.JSON(http.StatusNotFound, Fail("order not found"))
		default:
			return c.JSON(http.StatusInternalServerError, Fail("failed to update order"))
		}
	}
	return c.JSON(http.StatusOK, OK(toOrderResponse(o)))
}

func (h *OrderHandler) ListMine(c echo.Context) error {
	uid := callerID(c)
	list, err := h.svc.ListByCustomer(c.Request().Context(), uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, Fail("failed to fetch orders"))
	}
	resp := make([]OrderResponse, 0, len(list))
	for i := range list {
		resp = append(resp, toOrderResponse(&list[i]))
	}
	return c.JSON(http.StatusOK, OK(map[string]interface{}{"orders": resp}))
}
