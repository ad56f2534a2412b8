package services

import (
	"context"
	"testing"
	"time"

	"foodtruck_backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func doneItem(qty int) models.OrderItem {
	statuses := make([]models.PrepStatus, qty)
	for i := range statuses {
		statuses[i] = models.PrepStatusDone
	}
	return models.OrderItem{ItemName: "Bao", Quantity: qty, PrepStatuses: statuses}
}

func TestProjectPrepQueue(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	orders := []models.Order{
		{ID: "recently-done", Status: models.OrderStatusPaid, CreatedAt: now.Add(-time.Hour),
			UpdatedAt: now.Add(-(14*time.Minute + 59*time.Second)), Items: []models.OrderItem{doneItem(2)}},
		{ID: "done-long-ago", Status: models.OrderStatusPaid, CreatedAt: now.Add(-time.Hour),
			UpdatedAt: now.Add(-(15*time.Minute + time.Second)), Items: []models.OrderItem{doneItem(1)}},
		{ID: "pending", Status: models.OrderStatusPending, CreatedAt: now.Add(-3 * time.Hour),
			Items: []models.OrderItem{{ItemName: "Bao", Quantity: 1}}},
		{ID: "oldest-active", Status: models.OrderStatusPaid, CreatedAt: now.Add(-2 * time.Hour),
			Items: []models.OrderItem{{ItemName: "Bao", Quantity: 2, PrepStatuses: []models.PrepStatus{models.PrepStatusStarted}}}},
		{ID: "cancelled", Status: models.OrderStatusCancelled, CreatedAt: now.Add(-time.Minute),
			Items: []models.OrderItem{{ItemName: "Bao", Quantity: 1}}},
		{ID: "fulfilled", Status: models.OrderStatusFulfilled, CreatedAt: now.Add(-time.Minute),
			Items: []models.OrderItem{{ItemName: "Bao", Quantity: 1}}},
	}

	queue := ProjectPrepQueue(orders, now)
	require.Len(t, queue, 2)
	assert.Equal(t, "oldest-active", queue[0].ID)
	assert.Equal(t, "recently-done", queue[1].ID)
	assert.Equal(t, []models.PrepStatus{models.PrepStatusStarted, models.PrepStatusQueued}, queue[0].Items[0].PrepStatuses)

	// The projection must not write back into the caller's slice.
	assert.Len(t, orders[3].Items[0].PrepStatuses, 1)
}

func TestProjectPrepQueue_FallsBackToCreatedAt(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	orders := []models.Order{
		{ID: "fresh", Status: models.OrderStatusPaid, CreatedAt: now.Add(-5 * time.Minute), Items: []models.OrderItem{doneItem(1)}},
		{ID: "stale", Status: models.OrderStatusPaid, CreatedAt: now.Add(-20 * time.Minute), Items: []models.OrderItem{doneItem(1)}},
	}

	queue := ProjectPrepQueue(orders, now)
	require.Len(t, queue, 1)
	assert.Equal(t, "fresh", queue[0].ID)
}

func TestPrepQueueService_GetQueue(t *testing.T) {
	env := newTestEnv(t)
	order := newPaidCashOrder(t, env, 1)
	fixed := time.Now().UTC()
	env.queue.(*prepQueueService).now = func() time.Time { return fixed }

	queue, err := env.queue.GetQueue(context.Background())
	require.NoError(t, err)
	assert.True(t, queue.Timestamp.Equal(fixed))
	require.Len(t, queue.Orders, 1)
	assert.Equal(t, order.ID, queue.Orders[0].ID)

	_, err = env.orders.PatchOrder(context.Background(), PatchOrderRequest{
		ID:             order.ID,
		ItemPrepStatus: &ItemPrepStatusUpdate{Status: models.PrepStatusDone},
	})
	require.NoError(t, err)

	env.queue.(*prepQueueService).now = func() time.Time { return time.Now().UTC().Add(16 * time.Minute) }
	queue, err = env.queue.GetQueue(context.Background())
	require.NoError(t, err)
	assert.Empty(t, queue.Orders)
}
