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

type MaterialRequestHandler struct {
	svc service.MaterialRequestService
}

func NewMaterialRequestHandler(svc service.MaterialRequestService) *MaterialRequestHandler {
	return &MaterialRequestHandler{svc: svc}
}

type MaterialRequestResponse struct {
	ID          uint64 `json:"id"`
	ProductID   uint64 `json:"productId"`
	SupplierID  uint64 `json:"supplierId"`
	RequestedBy uint64 `json:"requestedBy"`
	Quantity    string `json:"quantity"`
	Status      string `json:"status"`
	Note        string `json:"note,omitempty"`
	CreatedAt   string `json:"createdAt"`
	UpdatedAt   string `json:"updatedAt"`
}

func toMaterialRequestResponse(m *model.MaterialRequest) MaterialRequestResponse {
	return MaterialRequestResponse{
		ID:          m.ID,
		ProductID:   m.ProductID,
		SupplierID:  m.SupplierID,
		RequestedBy: m.RequestedBy,
		Quantity:    m.Quantity.String(),
		Status:      string(m.Status),
		Note:        m.Note,
		CreatedAt:   m.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   m.UpdatedAt.Format(time.RFC3339),
	}
}

func (h *MaterialRequestHandler) Create(c echo.Context) error {
	uid := callerID(c)
	var body struct {
		ProductID uint64 `json:"product_id"`
		Quantity  string `json:"quantity"`
		Note      string `json:"note"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, Fail("invalid body"))
	}
	qty, err := decimal.NewFromString(body.Quantity)
	if err != nil {
		return c.JSON(http.StatusBadRequest, Fail("invalid quantity"))
	}
	m, err := h.svc.Create(c.Request().Context(), uid, body.ProductID, qty, body.Note)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			return c.JSON(http.StatusBadRequest, Fail("invalid request"))
		case errors.Is(err, service.ErrNotFound):
			return c.JSON(http.StatusNotFound, Fail("product not found"))
		default:
			return c.JSON(http.StatusInternalServerError, Fail("failed to create request"))
		}
	}
	return c.JSON(http.StatusCreated, OK(toMaterialRequestResponse(m)))
}

func (h *MaterialRequestHandler) UpdateStatus(c echo.Context) error {
	uid := callerID(c)
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
	m, err := h.svc.UpdateStatus(c.Request().Context(), id, uid, model.MaterialRequestStatus(body.Status))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			return c.JSON(http.StatusBadRequest, Fail("invalid status"))
		case errors.Is(err, service.ErrNotFound):
			return c.JSON(http.StatusNotFound, Fail("request not found"))
		default:
			return c.JSON(http.StatusInternalServerError, Fail("failed to update request"))
		}
	}
	return c.JSON(http.StatusOK, OK(toMaterialRequestResponse(m)))
}

func (h *MaterialRequestHandler) ListMine(c echo.Context) error {
	uid := callerID(c)
	list, err := h.svc.ListBySupplier(c.Request().Context(), uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, Fail("failed to fetch requests"))
	}
	resp := make([]MaterialRequestResponse, 0, len(list))
	for i := range list {
		resp = append(resp, toMaterialRequestResponse(&list[i]))
	}
	return c.JSON(http.StatusOK, OK(map[string]interface{}{"requests": resp}))
}
