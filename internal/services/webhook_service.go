package services

import (
	"context"
	"fmt"

	"foodtruck_backend/internal/payments"
	"foodtruck_backend/pkg/utils"
)

// WebhookService turns signed provider callbacks into order transitions.
type WebhookService interface {
	// Ingest returns ErrWebhookInvalid, with nothing written, for unsigned or
	// badly signed payloads. Otherwise it returns how many orders moved to paid.
	Ingest(ctx context.Context, req payments.WebhookRequest) (int, error)
}

type webhookService struct {
	provider     payments.Provider
	orderService OrderService
}

func NewWebhookService(provider payments.Provider, orderService OrderService) WebhookService {
	return &webhookService{provider: provider, orderService: orderService}
}

func (s *webhookService) Ingest(ctx context.Context, req payments.WebhookRequest) (int, error) {
	result, err := s.provider.ValidateWebhook(ctx, req)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrWebhookInvalid, err)
	}
	if !result.Valid {
		utils.LogWarn("Rejected webhook with invalid signature", map[string]interface{}{"provider": s.provider.Name()})
		return 0, ErrWebhookInvalid
	}

	paid := 0
	for _, evt := range result.Events {
		if evt.Type != payments.EventPaymentCompleted || evt.OrderID == "" {
			continue
		}
		moved, err := s.orderService.MarkPaid(ctx, PaymentCompletion{
			OrderID:           evt.OrderID,
			ProviderPaymentID: evt.ProviderPaymentID,
			CustomerName:      evt.CustomerName,
			CustomerEmail:     evt.CustomerEmail,
		})
		if err != nil {
			return paid, err
		}
		if moved {
			paid++
		}
	}
	return paid, nil
}
