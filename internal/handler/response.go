package handler

import (
	"github.com/labstack/echo/v4"
	"github.com/terraflow/scm-backend/internal/model"
)

// Envelope is the fixed response shape: { success, data?, message? }.
type Envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
}

func OK(data interface{}) Envelope {
	return Envelope{Success: true, Data: data}
}

func Fail(message string) Envelope {
	return Envelope{Success: false, Message: message}
}

func callerID(c echo.Context) uint64 {
	id, _ := c.Get("user_id").(uint64)
	return id
}

func callerRole(c echo.Context) model.Role {
	r, _ := c.Get("role").(model.Role)
	return r
}
