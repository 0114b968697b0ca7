package handler

import (
	"errors"
	"net/http"
	"strconv"

	"pixa-backend/internal/dto"
	"pixa-backend/internal/service"

	"github.com/labstack/echo/v4"
)

type GenerationHandler struct {
	generationService service.GenerationService
}

func NewGenerationHandler(generationService service.GenerationService) *GenerationHandler {
	return &GenerationHandler{
		generationService: generationService,
	}
}

func (h *GenerationHandler) Generate(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := userIDFromContext(c)
	if err != nil {
		return err
	}

	var req dto.GenerateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}
	if req.Feature == "" || req.Prompt == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "feature and prompt are required")
	}

	resp, err := h.generationService.Generate(ctx, userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInsufficientCredits):
			return echo.NewHTTPError(http.StatusPaymentRequired, "insufficient credits")
		case errors.Is(err, service.ErrUserNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "no ledger for user")
		}
		return err
	}

	return c.JSON(http.StatusOK, resp)
}

func (h *GenerationHandler) ListCreations(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := userIDFromContext(c)
	if err != nil {
		return err
	}

	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	entries, err := h.generationService.ListCreations(ctx, userID, limit)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, entries)
}
