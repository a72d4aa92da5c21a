package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/terraflow/scm-backend/internal/model"
	"github.com/terraflow/scm-backend/internal/service"
)

type NotificationHandler struct {
	svc service.NotificationService
}

func NewNotificationHandler(svc service.NotificationService) *NotificationHandler {
	return &NotificationHandler{svc: svc}
}

type NotificationResponse struct {
	ID          uint64  `json:"id"`
	Type        string  `json:"type"`
	Title       string  `json:"title"`
	Message     string  `json:"message"`
	RelatedType string  `json:"relatedType,omitempty"`
	RelatedID   *uint64 `json:"relatedId,omitempty"`
	Priority    string  `json:"priority"`
	IsRead      bool    `json:"isRead"`
	CreatedAt   string  `json:"createdAt"`
}

func toNotificationResponse(n model.Notification) NotificationResponse {
	return NotificationResponse{
		ID:          n.ID,
		Type:        n.Type,
		Title:       n.Title,
		Message:     n.Message,
		RelatedType: n.RelatedType,
		RelatedID:   n.RelatedID,
		Priority:    n.Priority,
		IsRead:      n.IsRead,
		CreatedAt:   n.CreatedAt.Format(time.RFC3339),
	}
}

func (h *NotificationHandler) List(c echo.Context) error {
	uid := callerID(c)
	limit := 0
	if lStr := c.QueryParam("limit"); lStr != "" {
		if lParsed, err := strconv.Atoi(lStr); err == nil && lParsed > 0 {
			limit = lParsed
		}
	}
	offset := 0
	if oStr := c.QueryParam("offset"); oStr != "" {
		if oParsed, err := strconv.Atoi(oStr); err == nil && oParsed > 0 {
			offset = oParsed
		}
	}
	unreadOnly := c.QueryParam("unread_only") == "true"
	list, unreadCount, err := h.svc.List(c.Request().Context(), uid, unreadOnly, limit, offset)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, Fail("failed to fetch notifications"))
	}
	resp := make([]NotificationResponse, 0, len(list))
	for _, n := range list {
		resp = append(resp, toNotificationResponse(n))
	}
	return c.JSON(http.StatusOK, OK(map[string]interface{}{
		"notifications": resp,
		"unreadCount":   unreadCount,
	}))
}

type createNotificationRequest struct {
	UserID      uint64  `json:"user_id"`
	Type        string  `json:"type"`
	Title       string  `json:"title"`
	Message     string  `json:"message"`
	RelatedType string  `json:"related_type"`
	RelatedID   *uint64 `json:"related_id"`
	Priority    string  `json:"priority"`
}

// Create targets an arbitrary user and is therefore gated to admins at the
// routing layer.
func (h *NotificationHandler) Create(c echo.Context) error {
	var body createNotificationRequest
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, Fail("invalid body"))
	}
	n, err := h.svc.Create(c.Request().Context(), service.CreateNotificationInput{
		UserID:      body.UserID,
		Type:        body.Type,
		Title:       body.Title,
		Message:     body.Message,
		RelatedType: body.RelatedType,
		RelatedID:   body.RelatedID,
		Priority:    body.Priority,
	})
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			return c.JSON(http.StatusBadRequest, Fail("invalid notification"))
		}
		return c.JSON(http.StatusInternalServerError, Fail("failed to create notification"))
	}
	return c.JSON(http.StatusCreated, OK(toNotificationResponse(*n)))
}

func (h *NotificationHandler) MarkRead(c echo.Context) error {
	uid := callerID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, Fail("invalid id"))
	}
	if err := h.svc.MarkRead(c.Request().Context(), id, uid); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return c.JSON(http.StatusNotFound, Fail("notification not found"))
		}
		return c.JSON(http.StatusInternalServerError, Fail("failed to mark read"))
	}
	return c.JSON(http.StatusOK, OK(nil))
}

func (h *NotificationHandler) Delete(c echo.Context) error {
	uid := callerID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, Fail("invalid id"))
	}
	if err := h.svc.Delete(c.Request().Context(), id, uid); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return c.JSON(http.StatusNotFound, Fail("notification not found"))
		}
		return c.JSON(http.StatusInternalServerError, Fail("failed to delete notification"))
	}
	return c.JSON(http.StatusOK, OK(nil))
}

// Cleanup sweeps the caller's notifications older than ?days (default 30).
// Admins may pass all=true for a global sweep.
func (h *NotificationHandler) Cleanup(c echo.Context) error {
	uid := callerID(c)
	days := 30
	if dStr := c.QueryParam("days"); dStr != "" {
		if dParsed, err := strconv.Atoi(dStr); err == nil && dParsed > 0 {
			days = dParsed
		}
	}
	scope := uid
	if c.QueryParam("all") == "true" && callerRole(c) == model.RoleAdmin {
		scope = 0
	}
	deleted, err := h.svc.Cleanup(c.Request().Context(), scope, time.Duration(days)*24*time.Hour)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, Fail("cleanup failed"))
	}
	return c.JSON(http.StatusOK, OK(map[string]interface{}{"deleted": deleted}))
}

func (h *NotificationHandler) Stats(c echo.Context) error {
	uid := callerID(c)
	s, err := h.svc.Stats(c.Request().Context(), uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, Fail("failed to fetch stats"))
	}
	return c.JSON(http.StatusOK, OK(map[string]interface{}{
		"total":        s.Total,
		"unread":       s.Unread,
		"urgentUnread": s.UrgentUnread,
		"last24h":      s.Last24h,
	}))
}
