package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"eva-framework/internal/domain/trace"
	"eva-framework/internal/usecase/screening"
)

type ScreeningHandler struct{ uc *screening.Usecase }

func NewScreeningHandler(uc *screening.Usecase) *ScreeningHandler {
	return &ScreeningHandler{uc: uc}
}

// Evaluate never rejects sparse input; only an unreadable body is a 400.
func (h *ScreeningHandler) Evaluate(c echo.Context) error {
	var req evaluateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	dto, err := h.uc.Evaluate(c.Request().Context(), req.toInput())
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "request cancelled"})
		}
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "evaluation failed"})
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *ScreeningHandler) Policy(c echo.Context) error {
	return c.JSON(http.StatusOK, h.uc.Policy())
}

type traceParam struct {
	ID string `param:"id" validate:"required,hex32"`
}

func (h *ScreeningHandler) GetTrace(c echo.Context) error {
	p := traceParam{ID: c.Param("id")}
	if err := c.Validate(&p); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	dto, err := h.uc.GetTrace(c.Request().Context(), p.ID)
	switch {
	case errors.Is(err, trace.ErrStoreDisabled):
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: "trace store disabled"})
	case errors.Is(err, trace.ErrNotFound):
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: "not found"})
	case err != nil:
		c.Logger().Errorf("get trace %s: %v", p.ID, err)
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "trace unavailable"})
	}
	return c.JSON(http.StatusOK, dto)
}
