package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"foodtruck_backend/internal/models"
	"foodtruck_backend/internal/payments"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestOrderService_CheckoutMilkTeaEndToEnd(t *testing.T) {
	env := newTestEnv(t)
	env.seedMenu(t, models.MenuItem{Name: "Milk Tea", Price: 5.00})
	env.enableOnlineOrdering(t)
	ctx := context.Background()

	env.provider.On("CreateOnlineCheckout", mock.Anything, mock.MatchedBy(func(r payments.CheckoutRequest) bool {
		return r.TotalCents == 1000 && r.Origin == "https://truck.example" && r.OrderID != ""
	})).Return(&payments.OnlineCheckoutResult{ClientSecret: "cs_secret", ProviderSessionID: "cs_test_1"}, nil).Once()

	resp, err := env.orders.Checkout(ctx, CheckoutRequest{Items: []CartItemRequest{drink("Milk Tea", 2)}}, "https://truck.example")
	require.NoError(t, err)
	assert.Equal(t, "cs_secret", resp.ClientSecret)

	order, err := env.orderRepo.GetByID(ctx, resp.OrderID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.Equal(t, models.OrderSourceOnline, order.Source)
	assert.Equal(t, models.PaymentMethodOnline, order.PaymentMethod)
	assert.Equal(t, 10.00, order.Total)
	assert.Equal(t, "cs_test_1", order.ProviderSessionID)

	queue, err := env.queue.GetQueue(ctx)
	require.NoError(t, err)
	assert.Empty(t, queue.Orders, "pending orders stay off the kitchen display")

	env.provider.On("ValidateWebhook", mock.Anything, mock.Anything).Return(&payments.WebhookResult{
		Valid:  true,
		Events: []payments.WebhookEvent{{Type: payments.EventPaymentCompleted, OrderID: resp.OrderID, ProviderPaymentID: "pi_1", CustomerEmail: "sam@example.com"}},
	}, nil)

	moved, err := env.webhooks.Ingest(ctx, payments.WebhookRequest{Body: []byte(`{}`)})
	require.NoError(t, err)
	assert.Equal(t, 1, moved)

	public, err := env.orders.GetBySessionID(ctx, "cs_test_1")
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusPaid, public.Status)
	assert.Equal(t, "sam@example.com", public.CustomerEmail)

	queue, err = env.queue.GetQueue(ctx)
	require.NoError(t, err)
	require.Len(t, queue.Orders, 1)
	assert.Equal(t, []models.PrepStatus{models.PrepStatusQueued, models.PrepStatusQueued}, queue.Orders[0].Items[0].PrepStatuses)
	env.provider.AssertExpectations(t)
}

func TestOrderService_CheckoutGuards(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.orders.Checkout(ctx, CheckoutRequest{}, "https://truck.example")
	assert.ErrorIs(t, err, ErrEmptyCart)

	_, err = env.orders.Checkout(ctx, CheckoutRequest{Items: []CartItemRequest{drink("Milk Tea", 1)}}, "https://truck.example")
	assert.ErrorIs(t, err, ErrFeatureDisabled)

	env.enableOnlineOrdering(t)
	_, err = env.orders.Checkout(ctx, CheckoutRequest{Items: []CartItemRequest{drink("Milk Tea", 1)}}, "https://truck.example")
	assert.ErrorIs(t, err, ErrMenuUnavailable)

	orders, err := env.orders.ListOrders(ctx)
	require.NoError(t, err)
	assert.Empty(t, orders)
	env.provider.AssertNotCalled(t, "CreateOnlineCheckout", mock.Anything, mock.Anything)
}

func TestOrderService_CheckoutProviderFailureStoresNothing(t *testing.T) {
	env := newTestEnv(t)
	env.seedMenu(t, models.MenuItem{Name: "Milk Tea", Price: 5.00})
	env.enableOnlineOrdering(t)
	putsBefore := env.store.Puts()

	provErr := &payments.ProviderError{Provider: "mock", Message: "card declined", Err: errors.New("declined")}
	env.provider.On("CreateOnlineCheckout", mock.Anything, mock.Anything).Return(nil, provErr)

	_, err := env.orders.Checkout(context.Background(), CheckoutRequest{Items: []CartItemRequest{drink("Milk Tea", 1)}}, "https://truck.example")
	assert.ErrorIs(t, err, payments.ErrProvider)
	assert.Equal(t, putsBefore, env.store.Puts())
}

func TestOrderService_CashChange(t *testing.T) {
	env := newTestEnv(t)
	env.seedMenu(t, models.MenuItem{Name: "Bao", Price: 7.50})
	ctx := context.Background()

	tendered := 10.00
	order, err := env.orders.CreatePosOrder(ctx, PosOrderRequest{
		Items:         []CartItemRequest{drink("Bao", 1)},
		PaymentMethod: models.PaymentMethodCash,
		CashTendered:  &tendered,
		CustomerName:  "Walk-up",
	})
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusPaid, order.Status)
	assert.Equal(t, models.OrderSourcePOS, order.Source)
	require.NotNil(t, order.ChangeDue)
	assert.Equal(t, 2.50, *order.ChangeDue)
	assert.Equal(t, 10.00, *order.CashTendered)
}

func TestOrderService_CashInsufficientCreatesNothing(t *testing.T) {
	env := newTestEnv(t)
	env.seedMenu(t, models.MenuItem{Name: "Bao", Price: 7.50})
	ctx := context.Background()

	short := 5.00
	_, err := env.orders.CreatePosOrder(ctx, PosOrderRequest{
		Items:         []CartItemRequest{drink("Bao", 1)},
		PaymentMethod: models.PaymentMethodCash,
		CashTendered:  &short,
	})
	assert.ErrorIs(t, err, ErrInsufficientCash)

	_, err = env.orders.CreatePosOrder(ctx, PosOrderRequest{
		Items:         []CartItemRequest{drink("Bao", 1)},
		PaymentMethod: models.PaymentMethodCash,
	})
	assert.ErrorIs(t, err, ErrInsufficientCash)

	orders, err := env.orders.ListOrders(ctx)
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestOrderService_PosOrderRejectsProviderMethods(t *testing.T) {
	env := newTestEnv(t)
	env.seedMenu(t, models.MenuItem{Name: "Bao", Price: 7.50})

	_, err := env.orders.CreatePosOrder(context.Background(), PosOrderRequest{
		Items:         []CartItemRequest{drink("Bao", 1)},
		PaymentMethod: models.PaymentMethodOnline,
	})
	assert.ErrorIs(t, err, ErrInvalidPayment)
}

func TestOrderService_ExternalCardNeedsNoCash(t *testing.T) {
	env := newTestEnv(t)
	env.seedMenu(t, models.MenuItem{Name: "Bao", Price: 7.50})

	order, err := env.orders.CreatePosOrder(context.Background(), PosOrderRequest{
		Items:         []CartItemRequest{drink("Bao", 2)},
		PaymentMethod: models.PaymentMethodCardExternal,
	})
	require.NoError(t, err)
	assert.Equal(t, 15.00, order.Total)
	assert.Nil(t, order.ChangeDue)
}

func TestOrderService_PosCardPayment(t *testing.T) {
	env := newTestEnv(t)
	env.seedMenu(t, models.MenuItem{Name: "Bao", Price: 7.50})
	ctx := context.Background()

	// Synchronous capture: no client secret, order is paid at once.
	env.provider.On("CreatePosPayment", mock.Anything, mock.MatchedBy(func(r payments.PaymentRequest) bool {
		return r.SourceID == "cnon:ok"
	})).Return(&payments.PosPaymentResult{ProviderPaymentID: "sq_pay_1"}, nil).Once()
	resp, err := env.orders.CreatePosCardPayment(ctx, PosPaymentRequest{Items: []CartItemRequest{drink("Bao", 1)}, SourceID: "cnon:ok"})
	require.NoError(t, err)
	require.NotNil(t, resp.Order)
	assert.Equal(t, models.OrderStatusPaid, resp.Order.Status)
	assert.Equal(t, models.PaymentMethodPosCard, resp.Order.PaymentMethod)

	// Client confirms: order waits for the webhook.
	env.provider.On("CreatePosPayment", mock.Anything, mock.Anything).
		Return(&payments.PosPaymentResult{ClientSecret: "pi_secret", ProviderPaymentID: "pi_2"}, nil).Once()
	resp, err = env.orders.CreatePosCardPayment(ctx, PosPaymentRequest{Items: []CartItemRequest{drink("Bao", 1)}})
	require.NoError(t, err)
	assert.Equal(t, "pi_secret", resp.ClientSecret)
	assert.Nil(t, resp.Order)

	order, err := env.orderRepo.GetByID(ctx, resp.OrderID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.Equal(t, "pi_2", order.ProviderPaymentID)
}

func TestOrderService_PosCheckoutLinkAndTerminal(t *testing.T) {
	env := newTestEnv(t)
	env.seedMenu(t, models.MenuItem{Name: "Bao", Price: 7.50})
	ctx := context.Background()

	env.provider.On("CreatePosCheckoutLink", mock.Anything, mock.Anything).
		Return(&payments.CheckoutLinkResult{CheckoutURL: "https://pay.example/l/1", ProviderSessionID: "plink_1"}, nil)
	link, err := env.orders.CreatePosCheckoutLink(ctx, PosPaymentRequest{Items: []CartItemRequest{drink("Bao", 1)}}, "https://truck.example")
	require.NoError(t, err)
	assert.Equal(t, "https://pay.example/l/1", link.CheckoutURL)

	env.provider.On("CreateTerminalPayment", mock.Anything, mock.MatchedBy(func(r payments.PaymentRequest) bool {
		return r.TotalCents == 1500
	})).Return(&payments.TerminalPaymentResult{TerminalPaymentID: "tc_1", ProviderPaymentID: "tc_1"}, nil)
	term, err := env.orders.CreateTerminalPayment(ctx, PosPaymentRequest{Items: []CartItemRequest{drink("Bao", 2)}})
	require.NoError(t, err)
	assert.Equal(t, "tc_1", term.TerminalPaymentID)

	orders, err := env.orders.ListOrders(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, models.PaymentMethodPosLink, orders[0].PaymentMethod)
	assert.Equal(t, models.PaymentMethodPosTerminal, orders[1].PaymentMethod)
	for _, o := range orders {
		assert.Equal(t, models.OrderStatusPending, o.Status)
	}

	env.provider.On("GetTerminalPaymentStatus", mock.Anything, "tc_1").
		Return(&payments.TerminalStatusResult{Status: payments.TerminalStatusInProgress}, nil)
	status, err := env.orders.GetTerminalStatus(ctx, "tc_1")
	require.NoError(t, err)
	assert.Equal(t, payments.TerminalStatusInProgress, status.Status)

	_, err = env.orders.GetTerminalStatus(ctx, "")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func newPaidCashOrder(t *testing.T, env *testEnv, qty int) *models.Order {
	t.Helper()
	env.seedMenu(t, models.MenuItem{Name: "Bao", Price: 7.50})
	order, err := env.orders.CreatePosOrder(context.Background(), PosOrderRequest{
		Items:         []CartItemRequest{drink("Bao", qty)},
		PaymentMethod: models.PaymentMethodCardExternal,
	})
	require.NoError(t, err)
	return order
}

func TestOrderService_PatchUnitPrepStatus(t *testing.T) {
	env := newTestEnv(t)
	order := newPaidCashOrder(t, env, 3)
	ctx := context.Background()

	updated, err := env.orders.PatchOrder(ctx, PatchOrderRequest{
		ID:             order.ID,
		ItemPrepStatus: &ItemPrepStatusUpdate{ItemIndex: 0, UnitIndex: 1, Status: models.PrepStatusStarted},
	})
	require.NoError(t, err)
	assert.Equal(t, []models.PrepStatus{models.PrepStatusQueued, models.PrepStatusStarted, models.PrepStatusQueued}, updated.Items[0].PrepStatuses)
	assert.Equal(t, models.OrderStatusPaid, updated.Status)
}

func TestOrderService_PatchRejectsBadInput(t *testing.T) {
	env := newTestEnv(t)
	order := newPaidCashOrder(t, env, 2)
	ctx := context.Background()
	putsBefore := env.store.Puts()

	bogus := models.OrderStatus("refunded")
	tests := []struct {
		name string
		req  PatchOrderRequest
		want error
	}{
		{"missing id", PatchOrderRequest{}, ErrInvalidInput},
		{"unknown order", PatchOrderRequest{ID: "order-missing"}, ErrOrderNotFound},
		{"bad status", PatchOrderRequest{ID: order.ID, Status: &bogus}, ErrInvalidOrderStatus},
		{"bad prep status", PatchOrderRequest{ID: order.ID, ItemPrepStatus: &ItemPrepStatusUpdate{Status: "burnt"}}, ErrInvalidPrepStatus},
		{"item out of range", PatchOrderRequest{ID: order.ID, ItemPrepStatus: &ItemPrepStatusUpdate{ItemIndex: 1, Status: models.PrepStatusDone}}, ErrInvalidItemIndex},
		{"unit out of range", PatchOrderRequest{ID: order.ID, ItemPrepStatus: &ItemPrepStatusUpdate{UnitIndex: 2, Status: models.PrepStatusDone}}, ErrInvalidUnitIndex},
		{"negative unit", PatchOrderRequest{ID: order.ID, ItemPrepStatus: &ItemPrepStatusUpdate{UnitIndex: -1, Status: models.PrepStatusDone}}, ErrInvalidUnitIndex},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.orders.PatchOrder(ctx, tt.req)
			assert.ErrorIs(t, err, tt.want)
		})
	}
	assert.Equal(t, putsBefore, env.store.Puts())
}

func TestOrderService_PatchStatusAndNotes(t *testing.T) {
	env := newTestEnv(t)
	order := newPaidCashOrder(t, env, 1)
	fixed := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	env.orders.(*orderService).now = func() time.Time { return fixed }

	fulfilled := models.OrderStatusFulfilled
	notes := "picked up"
	updated, err := env.orders.PatchOrder(context.Background(), PatchOrderRequest{ID: order.ID, Status: &fulfilled, AdminNotes: &notes})
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusFulfilled, updated.Status)
	assert.Equal(t, "picked up", updated.AdminNotes)
	assert.True(t, updated.UpdatedAt.Equal(fixed))
	assert.Equal(t, order.Items, updated.Items)
}

func TestOrderService_MarkPaidOnlyFromPending(t *testing.T) {
	env := newTestEnv(t)
	order := newPaidCashOrder(t, env, 1)
	ctx := context.Background()
	putsBefore := env.store.Puts()

	moved, err := env.orders.MarkPaid(ctx, PaymentCompletion{OrderID: order.ID})
	require.NoError(t, err)
	assert.False(t, moved)

	moved, err = env.orders.MarkPaid(ctx, PaymentCompletion{OrderID: "order-unknown"})
	require.NoError(t, err)
	assert.False(t, moved)
	assert.Equal(t, putsBefore, env.store.Puts())
}

func TestOrderService_GetBySessionIDHidesAdminFields(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	require.NoError(t, env.orderRepo.Create(ctx, &models.Order{
		ID:                "order-1",
		Status:            models.OrderStatusPaid,
		ProviderSessionID: "cs_1",
		AdminNotes:        "regular",
		Items:             []models.OrderItem{{ItemName: "Bao", Quantity: 1, UnitPrice: 7.5, PrepStatuses: []models.PrepStatus{models.PrepStatusDone}}},
	}))

	public, err := env.orders.GetBySessionID(ctx, "cs_1")
	require.NoError(t, err)
	assert.Equal(t, "order-1", public.ID)
	assert.Nil(t, public.Items[0].PrepStatuses)

	_, err = env.orders.GetBySessionID(ctx, "cs_other")
	assert.ErrorIs(t, err, ErrOrderNotFound)
	_, err = env.orders.GetBySessionID(ctx, "")
	assert.ErrorIs(t, err, ErrInvalidInput)
}
