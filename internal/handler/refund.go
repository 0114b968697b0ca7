package handler

import (
	"errors"
	"net/http"

	"pixa-backend/internal/dto"
	"pixa-backend/internal/service"

	"github.com/labstack/echo/v4"
)

type RefundHandler struct {
	refundService service.RefundService
}

func NewRefundHandler(refundService service.RefundService) *RefundHandler {
	return &RefundHandler{
		refundService: refundService,
	}
}

func (h *RefundHandler) RequestRefund(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := userIDFromContext(c)
	if err != nil {
		return err
	}

	var req dto.RefundRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}
	if req.Cost <= 0 || req.Reason == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "cost and reason are required")
	}

	result, err := h.refundService.RequestRefund(ctx, userID, &req)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "no ledger for user")
		}
		return err
	}

	return c.JSON(http.StatusOK, result)
}
