package server

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/terraflow/scm-backend/internal/handler"
	appmw "github.com/terraflow/scm-backend/internal/middleware"
	"github.com/terraflow/scm-backend/internal/model"
	"github.com/terraflow/scm-backend/internal/repository"
	"github.com/terraflow/scm-backend/internal/service"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Server struct {
	e *echo.Echo
}

func New(db *gorm.DB, jwtSecret string, log *zap.Logger) *Server {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.Logger())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	userRepo := repository.NewUserRepository(db)
	notifRepo := repository.NewNotificationRepository(db)
	productRepo := repository.NewProductRepository(db)
	requestRepo := repository.NewMaterialRequestRepository(db)
	orderRepo := repository.NewOrderRepository(db)

	notifSvc := service.NewNotificationService(notifRepo, userRepo, log)
	productSvc := service.NewProductService(productRepo, notifSvc)
	requestSvc := service.NewMaterialRequestService(requestRepo, productRepo, notifSvc)
	orderSvc := service.NewOrderService(orderRepo, notifSvc)

	notifHandler := handler.NewNotificationHandler(notifSvc)
	productHandler := handler.NewProductHandler(productSvc)
	requestHandler := handler.NewMaterialRequestHandler(requestSvc)
	orderHandler := handler.NewOrderHandler(orderSvc)

	authMw := appmw.NewAuthMiddleware(jwtSecret)
	adminOnly := authMw.RequireRole(model.RoleAdmin)

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"ok": "true"})
	})

	api := e.Group("/api", authMw.RequireAuth)

	api.GET("/notifications", notifHandler.List)
	api.POST("/notifications", notifHandler.Create, adminOnly)
	api.PATCH("/notifications/:id/read", notifHandler.MarkRead)
	api.DELETE("/notifications/:id", notifHandler.Delete)
	api.DELETE("/notifications/old/cleanup", notifHandler.Cleanup)
	api.GET("/notifications/stats", notifHandler.Stats)

	api.POST("/material-requests", requestHandler.Create, adminOnly)
	api.PATCH("/material-requests/:id/status", requestHandler.UpdateStatus, authMw.RequireRole(model.RoleSupplier))
	api.GET("/me/material-requests", requestHandler.ListMine, authMw.RequireRole(model.RoleSupplier))

	api.POST("/orders", orderHandler.Create, authMw.RequireRole(model.RoleCustomer))
	api.PATCH("/orders/:id/status", orderHandler.UpdateStatus, adminOnly)
	api.GET("/me/orders", orderHandler.ListMine)

	api.POST("/products", productHandler.Create, adminOnly)
	api.PATCH("/products/:id/stock", productHandler.SetStock)

	return &Server{e: e}
}

func (s *Server) Start(addr string) error {
	return s.e.Start(addr)
}

// Handler exposes the routing tree for tests.
func (s *Server) Handler() http.Handler {
	return s.e
}
