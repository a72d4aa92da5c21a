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

type ProductHandler struct {
	svc service.ProductService
}

func NewProductHandler(svc service.ProductService) *ProductHandler {
	return &ProductHandler{svc: svc}
}

type ProductResponse struct {
	ID         uint64 `json:"id"`
	Name       string `json:"name"`
	SKU        string `json:"sku"`
	Price      string `json:"price"`
	Stock      int64  `json:"stock"`
	MinStock   int64  `json:"minStock"`
	SupplierID uint64 `json:"supplierId"`
	CreatedAt  string `json:"createdAt"`
}

func toProductResponse(p *model.Product) ProductResponse {
	return ProductResponse{
		ID:         p.ID,
		Name:       p.Name,
		SKU:        p.SKU,
		Price:      p.Price.String(),
		Stock:      p.Stock,
		MinStock:   p.MinStock,
		SupplierID: p.SupplierID,
		CreatedAt:  p.CreatedAt.Format(time.RFC3339),
	}
}

func (h *ProductHandler) Create(c echo.Context) error {
	var body struct {
		Name       string `json:"name"`
		SKU        string `json:"sku"`
		Price      string `json:"price"`
		Stock      int64  `json:"stock"`
		MinStock   int64  `json:"min_stock"`
		SupplierID uint64 `json:"supplier_id"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, Fail("invalid body"))
	}
	price, err := decimal.NewFromString(body.Price)
	if err != nil {
		return c.JSON(http.StatusBadRequest, Fail("invalid price"))
	}
	p := &model.Product{
		Name:       body.Name,
		SKU:        body.SKU,
		Price:      price,
		Stock:      body.Stock,
		MinStock:   body.MinStock,
		SupplierID: body.SupplierID,
	}
	if err := h.svc.Create(c.Request().Context(), p); err != nil {
		if errors.Is(err, service.ErrValidation) {
			return c.JSON(http.StatusBadRequest, Fail("invalid product"))
		}
		return c.JSON(http.StatusInternalServerError, Fail("failed to create product"))
	}
	return c.JSON(http.StatusCreated, OK(toProductResponse(p)))
}

func (h *ProductHandler) SetStock(c echo.Context) error {
	uid := callerID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, Fail("invalid id"))
	}
	var body struct {
		Stock int64 `json:"stock"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, Fail("invalid body"))
	}
	p, err := h.svc.SetStock(c.Request().Context(), id, uid, callerRole(c), body.Stock)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			return c.JSON(http.StatusBadRequest, Fail("invalid stock"))
		case errors.Is(err, service.ErrForbidden):
			return c.JSON(http.StatusForbidden, Fail("forbidden"))
		case errors.Is(err, service.ErrNotFound):
			return c.JSON(http.StatusNotFound, Fail("product not found"))
		default:
			return c.JSON(http.StatusInternalServerError, Fail("failed to update stock"))
		}
	}
	return c.JSON(http.StatusOK, OK(toProductResponse(p)))
}
