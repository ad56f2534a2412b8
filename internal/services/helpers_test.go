package services

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"foodtruck_backend/internal/models"
	"foodtruck_backend/internal/payments"
	"foodtruck_backend/internal/repositories"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockProvider struct {
	mock.Mock
}

func (m *MockProvider) Name() string { return "mock" }

func (m *MockProvider) CreateOnlineCheckout(ctx context.Context, req payments.CheckoutRequest) (*payments.OnlineCheckoutResult, error) {
	args := m.Called(ctx, req)
	res, _ := args.Get(0).(*payments.OnlineCheckoutResult)
	return res, args.Error(1)
}

func (m *MockProvider) CreatePosPayment(ctx context.Context, req payments.PaymentRequest) (*payments.PosPaymentResult, error) {
	args := m.Called(ctx, req)
	res, _ := args.Get(0).(*payments.PosPaymentResult)
	return res, args.Error(1)
}

func (m *MockProvider) CreatePosCheckoutLink(ctx context.Context, req payments.CheckoutRequest) (*payments.CheckoutLinkResult, error) {
	args := m.Called(ctx, req)
	res, _ := args.Get(0).(*payments.CheckoutLinkResult)
	return res, args.Error(1)
}

func (m *MockProvider) CreateTerminalPayment(ctx context.Context, req payments.PaymentRequest) (*payments.TerminalPaymentResult, error) {
	args := m.Called(ctx, req)
	res, _ := args.Get(0).(*payments.TerminalPaymentResult)
	return res, args.Error(1)
}

func (m *MockProvider) GetTerminalPaymentStatus(ctx context.Context, id string) (*payments.TerminalStatusResult, error) {
	args := m.Called(ctx, id)
	res, _ := args.Get(0).(*payments.TerminalStatusResult)
	return res, args.Error(1)
}

func (m *MockProvider) CancelTerminalPayment(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockProvider) CreateTerminalConnectionToken(ctx context.Context) (*payments.ConnectionToken, error) {
	args := m.Called(ctx)
	res, _ := args.Get(0).(*payments.ConnectionToken)
	return res, args.Error(1)
}

func (m *MockProvider) ValidateWebhook(ctx context.Context, req payments.WebhookRequest) (*payments.WebhookResult, error) {
	args := m.Called(ctx, req)
	res, _ := args.Get(0).(*payments.WebhookResult)
	return res, args.Error(1)
}

func (m *MockProvider) PublicConfig() payments.PublicConfig {
	return payments.PublicConfig{Provider: "mock"}
}

type testEnv struct {
	store       *repositories.MemoryDocumentStore
	blobs       *repositories.MemoryBlobStore
	contentRepo repositories.ContentRepository
	orderRepo   repositories.OrderRepository
	provider    *MockProvider
	orders      OrderService
	webhooks    WebhookService
	queue       PrepQueueService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{
		store:    repositories.NewMemoryDocumentStore(),
		blobs:    repositories.NewMemoryBlobStore(),
		provider: new(MockProvider),
	}
	env.contentRepo = repositories.NewContentRepository(env.store)
	env.orderRepo = repositories.NewOrderRepository(env.store)
	env.orders = NewOrderService(env.orderRepo, env.contentRepo, NewPriceResolver(env.contentRepo), env.provider, nil, time.Second)
	env.webhooks = NewWebhookService(env.provider, env.orders)
	env.queue = NewPrepQueueService(env.orders)
	return env
}

func (e *testEnv) putJSON(t *testing.T, key string, v interface{}) {
	t.Helper()
	raw, err := json.Marshal(v)
	require.NoError(t, err)
	require.NoError(t, e.contentRepo.PutRaw(context.Background(), key, raw))
}

func (e *testEnv) seedMenu(t *testing.T, items ...models.MenuItem) {
	t.Helper()
	e.putJSON(t, models.ContentMenu, models.MenuData{Categories: []models.MenuCategory{
		{ID: "drinks", Name: "Drinks", Items: items},
	}})
}

func (e *testEnv) enableOnlineOrdering(t *testing.T) {
	t.Helper()
	e.putJSON(t, models.ContentSettings, models.Settings{OnlineOrderingEnabled: true})
}

func drink(name string, qty int) CartItemRequest {
	return CartItemRequest{CategoryID: "drinks", ItemName: name, Quantity: qty}
}
