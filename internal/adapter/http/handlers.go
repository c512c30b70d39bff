package http

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

type Handler struct {
	service string
	now     func() time.Time
}

func NewHandler() *Handler { return &Handler{service: "eva-gate", now: time.Now} }

func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"status":  "ok",
		"service": h.service,
		"time":    h.now().UTC().Format(time.RFC3339Nano),
	})
}
