package handler

import (
	"errors"
	"net/http"
	"strconv"

	"pixa-backend/internal/dto"
	"pixa-backend/internal/service"

	"github.com/labstack/echo/v4"
)

type CreditsHandler struct {
	ledgerService service.LedgerService
}

func NewCreditsHandler(ledgerService service.LedgerService) *CreditsHandler {
	return &CreditsHandler{
		ledgerService: ledgerService,
	}
}

func userIDFromContext(c echo.Context) (string, error) {
	userID, _ := c.Get("user_id").(string)
	if userID == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "missing user identity")
	}
	return userID, nil
}

func (h *CreditsHandler) Bootstrap(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := userIDFromContext(c)
	if err != nil {
		return err
	}

	snapshot, err := h.ledgerService.Bootstrap(ctx, userID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, snapshot)
}

func (h *CreditsHandler) Me(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := userIDFromContext(c)
	if err != nil {
		return err
	}

	snapshot, err := h.ledgerService.Snapshot(ctx, userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "no ledger for user")
		}
		return err
	}

	return c.JSON(http.StatusOK, snapshot)
}

func (h *CreditsHandler) Debit(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := userIDFromContext(c)
	if err != nil {
		return err
	}

	var req dto.DebitRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}
	if req.Cost <= 0 || req.Feature == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "cost and feature are required")
	}

	snapshot, err := h.ledgerService.Debit(ctx, userID, req.Cost, req.Feature)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInsufficientCredits):
			return echo.NewHTTPError(http.StatusPaymentRequired, "insufficient credits")
		case errors.Is(err, service.ErrUserNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "no ledger for user")
		}
		return err
	}

	return c.JSON(http.StatusOK, snapshot)
}

func (h *CreditsHandler) Transactions(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := userIDFromContext(c)
	if err != nil {
		return err
	}

	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	entries, err := h.ledgerService.History(ctx, userID, limit)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, entries)
}
