package handlers

import (
	"errors"
	"io"
	"net/http"

	"foodtruck_backend/internal/payments"
	"foodtruck_backend/internal/services"
	"foodtruck_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// Providers send small JSON events; anything bigger is not ours.
const maxWebhookBody = 1 << 20

type WebhookHandler struct {
	webhookService services.WebhookService
}

func NewWebhookHandler(ws services.WebhookService) *WebhookHandler {
	return &WebhookHandler{webhookService: ws}
}

// Receive verifies and applies a provider callback. The body must be read raw
// because signatures are computed over the exact bytes.
func (h *WebhookHandler) Receive(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
	if err != nil {
		utils.RespondValidationFailed(c, "Failed to read request body")
		return
	}

	moved, err := h.webhookService.Ingest(c.Request.Context(), payments.WebhookRequest{
		Body:    body,
		Headers: c.Request.Header,
		URL:     requestOrigin(c) + c.Request.URL.RequestURI(),
	})
	if err != nil {
		if errors.Is(err, services.ErrWebhookInvalid) {
			utils.LogWarn("Webhook rejected", map[string]interface{}{"error": err.Error()})
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeWebhookInvalid, "Webhook signature verification failed", err.Error()))
			return
		}
		// Non-2xx makes the provider redeliver.
		respondServiceError(c, err, "Failed to process webhook.")
		return
	}

	utils.LogDebug("Webhook processed", map[string]interface{}{"orders_paid": moved})
	c.JSON(http.StatusOK, gin.H{"success": true, "received": true})
}
