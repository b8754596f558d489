package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

type HealthHandler struct {
	online func() int
}

func NewHealthHandler(online func() int) *HealthHandler {
	return &HealthHandler{online: online}
}

func (h *HealthHandler) CheckHealth(c echo.Context) error {
	body := map[string]interface{}{
		"status": "ok",
		"time":   time.Now().Format(time.RFC3339),
	}
	if h.online != nil {
		body["connected_users"] = h.online()
	}
	return c.JSON(http.StatusOK, body)
}
