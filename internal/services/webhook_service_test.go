package services

import (
	"context"
	"errors"
	"testing"

	"foodtruck_backend/internal/models"
	"foodtruck_backend/internal/payments"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func seedPendingOrder(t *testing.T, env *testEnv, id string) {
	t.Helper()
	require.NoError(t, env.orderRepo.Create(context.Background(), &models.Order{
		ID:     id,
		Status: models.OrderStatusPending,
		Items:  []models.OrderItem{{CategoryID: "drinks", ItemName: "Milk Tea", Quantity: 1, UnitPrice: 5}},
		Total:  5,
	}))
}

func completed(orderID string) *payments.WebhookResult {
	return &payments.WebhookResult{
		Valid:  true,
		Events: []payments.WebhookEvent{{Type: payments.EventPaymentCompleted, OrderID: orderID, ProviderPaymentID: "pay_1"}},
	}
}

func TestWebhookService_IngestIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	seedPendingOrder(t, env, "order-1")
	env.provider.On("ValidateWebhook", mock.Anything, mock.Anything).Return(completed("order-1"), nil)
	ctx := context.Background()

	moved, err := env.webhooks.Ingest(ctx, payments.WebhookRequest{Body: []byte(`{}`)})
	require.NoError(t, err)
	assert.Equal(t, 1, moved)
	putsAfterFirst := env.store.Puts()

	moved, err = env.webhooks.Ingest(ctx, payments.WebhookRequest{Body: []byte(`{}`)})
	require.NoError(t, err)
	assert.Equal(t, 0, moved)
	assert.Equal(t, putsAfterFirst, env.store.Puts())

	order, err := env.orderRepo.GetByID(ctx, "order-1")
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusPaid, order.Status)
	assert.Equal(t, "pay_1", order.ProviderPaymentID)
}

func TestWebhookService_InvalidSignatureWritesNothing(t *testing.T) {
	env := newTestEnv(t)
	seedPendingOrder(t, env, "order-1")
	putsBefore := env.store.Puts()

	env.provider.On("ValidateWebhook", mock.Anything, mock.Anything).Return(&payments.WebhookResult{Valid: false}, nil).Once()
	_, err := env.webhooks.Ingest(context.Background(), payments.WebhookRequest{Body: []byte(`{}`)})
	assert.ErrorIs(t, err, ErrWebhookInvalid)

	env.provider.On("ValidateWebhook", mock.Anything, mock.Anything).Return(nil, errors.New("malformed payload")).Once()
	_, err = env.webhooks.Ingest(context.Background(), payments.WebhookRequest{Body: []byte(`garbage`)})
	assert.ErrorIs(t, err, ErrWebhookInvalid)

	assert.Equal(t, putsBefore, env.store.Puts())
	order, err := env.orderRepo.GetByID(context.Background(), "order-1")
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusPending, order.Status)
}

func TestWebhookService_IgnoresUnrelatedEvents(t *testing.T) {
	env := newTestEnv(t)
	seedPendingOrder(t, env, "order-1")
	putsBefore := env.store.Puts()

	env.provider.On("ValidateWebhook", mock.Anything, mock.Anything).Return(&payments.WebhookResult{
		Valid: true,
		Events: []payments.WebhookEvent{
			{Type: "payment_failed", OrderID: "order-1"},
			{Type: payments.EventPaymentCompleted},
			{Type: payments.EventPaymentCompleted, OrderID: "order-unknown"},
		},
	}, nil)

	moved, err := env.webhooks.Ingest(context.Background(), payments.WebhookRequest{})
	require.NoError(t, err)
	assert.Zero(t, moved)
	assert.Equal(t, putsBefore, env.store.Puts())
}

func TestWebhookService_DoesNotResurrectCancelledOrders(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, env.orderRepo.Create(context.Background(), &models.Order{ID: "order-1", Status: models.OrderStatusCancelled}))
	env.provider.On("ValidateWebhook", mock.Anything, mock.Anything).Return(completed("order-1"), nil)

	moved, err := env.webhooks.Ingest(context.Background(), payments.WebhookRequest{})
	require.NoError(t, err)
	assert.Zero(t, moved)

	order, err := env.orderRepo.GetByID(context.Background(), "order-1")
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusCancelled, order.Status)
}
