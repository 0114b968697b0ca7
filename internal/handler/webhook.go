package handler

import (
	"io"
	"net/http"

	"pixa-backend/internal/service"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const signatureHeader = "X-Razorpay-Signature"

type WebhookHandler struct {
	webhookService service.WebhookService
	log            *zap.Logger
}

func NewWebhookHandler(webhookService service.WebhookService, log *zap.Logger) *WebhookHandler {
	return &WebhookHandler{
		webhookService: webhookService,
		log:            log.Named("webhook.handler"),
	}
}

// RazorpayWebhook receives provider payment events. The raw body is read
// before any parsing so the signature is verified against exactly the bytes
// the provider signed.
func (h *WebhookHandler) RazorpayWebhook(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "unreadable body"})
	}

	signature := c.Request().Header.Get(signatureHeader)
	if !h.webhookService.VerifySignature(body, signature) {
		h.log.Warn("webhook signature mismatch", zap.String("remote", c.RealIP()))
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid signature"})
	}

	outcome, err := h.webhookService.ProcessEvent(c.Request().Context(), body)
	if err != nil {
		// Nothing was committed, a provider retry is safe.
		h.log.Error("webhook processing failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal processing error"})
	}

	switch outcome {
	case service.OutcomeIgnored:
		return c.JSON(http.StatusOK, map[string]string{"status": "ignored"})
	case service.OutcomeMissingMetadata:
		return c.JSON(http.StatusOK, map[string]string{"status": "ok", "warning": "Metadata missing"})
	default:
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	}
}
