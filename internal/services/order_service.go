package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"foodtruck_backend/internal/events"
	"foodtruck_backend/internal/models"
	"foodtruck_backend/internal/payments"
	"foodtruck_backend/internal/repositories"
	"foodtruck_backend/pkg/utils"

	"github.com/shopspring/decimal"
)

// --- Data Transfer Objects (DTOs) ---

type CheckoutRequest struct {
	Items []CartItemRequest `json:"items"`
}

type CheckoutResponse struct {
	OrderID      string `json:"orderId"`
	ClientSecret string `json:"clientSecret,omitempty"`
	CheckoutURL  string `json:"checkoutUrl,omitempty"`
}

// PosOrderRequest records an in-person sale paid outside any provider.
type PosOrderRequest struct {
	Items         []CartItemRequest    `json:"items"`
	PaymentMethod models.PaymentMethod `json:"paymentMethod"`
	CashTendered  *float64             `json:"cashTendered"`
	CustomerName  string               `json:"customerName"`
}

// PosPaymentRequest starts a provider-backed POS charge.
type PosPaymentRequest struct {
	Items        []CartItemRequest `json:"items"`
	SourceID     string            `json:"sourceId"`
	CustomerName string            `json:"customerName"`
}

type PosPaymentResponse struct {
	OrderID      string        `json:"orderId"`
	ClientSecret string        `json:"clientSecret,omitempty"`
	Order        *models.Order `json:"order,omitempty"`
}

type CheckoutLinkResponse struct {
	OrderID     string `json:"orderId"`
	CheckoutURL string `json:"checkoutUrl"`
}

type TerminalIntentResponse struct {
	OrderID           string `json:"orderId"`
	TerminalPaymentID string `json:"terminalPaymentId"`
	ClientSecret      string `json:"clientSecret,omitempty"`
}

type ItemPrepStatusUpdate struct {
	ItemIndex int               `json:"itemIndex"`
	UnitIndex int               `json:"unitIndex"`
	Status    models.PrepStatus `json:"status"`
}

// PatchOrderRequest is the admin update. Only the listed fields can change.
type PatchOrderRequest struct {
	ID             string                `json:"id"`
	Status         *models.OrderStatus   `json:"status"`
	AdminNotes     *string               `json:"adminNotes"`
	ItemPrepStatus *ItemPrepStatusUpdate `json:"itemPrepStatus"`
}

// PaymentCompletion is a normalized "this order was paid" signal.
type PaymentCompletion struct {
	OrderID           string
	ProviderPaymentID string
	CustomerName      string
	CustomerEmail     string
}

// --- OrderService Interface ---
type OrderService interface {
	Checkout(ctx context.Context, req CheckoutRequest, origin string) (*CheckoutResponse, error)
	CreatePosOrder(ctx context.Context, req PosOrderRequest) (*models.Order, error)
	CreatePosCardPayment(ctx context.Context, req PosPaymentRequest) (*PosPaymentResponse, error)
	CreatePosCheckoutLink(ctx context.Context, req PosPaymentRequest, origin string) (*CheckoutLinkResponse, error)
	CreateTerminalPayment(ctx context.Context, req PosPaymentRequest) (*TerminalIntentResponse, error)
	GetTerminalStatus(ctx context.Context, terminalPaymentID string) (*payments.TerminalStatusResult, error)
	CancelTerminalPayment(ctx context.Context, terminalPaymentID string) error
	CreateConnectionToken(ctx context.Context) (*payments.ConnectionToken, error)
	PaymentConfig() payments.PublicConfig

	GetBySessionID(ctx context.Context, sessionID string) (*models.PublicOrder, error)
	ListOrders(ctx context.Context) ([]models.Order, error)
	PatchOrder(ctx context.Context, req PatchOrderRequest) (*models.Order, error)
	// MarkPaid moves a pending order to paid. It reports false, without
	// writing, when the order is missing or not pending.
	MarkPaid(ctx context.Context, completion PaymentCompletion) (bool, error)
}

// --- orderService Implementation ---
type orderService struct {
	orderRepo       repositories.OrderRepository
	contentRepo     repositories.ContentRepository
	resolver        PriceResolver
	provider        payments.Provider
	publisher       events.OrderPublisher
	providerTimeout time.Duration
	now             func() time.Time
}

// NewOrderService creates a new instance of OrderService.
func NewOrderService(
	orderRepo repositories.OrderRepository,
	contentRepo repositories.ContentRepository,
	resolver PriceResolver,
	provider payments.Provider,
	publisher events.OrderPublisher,
	providerTimeout time.Duration,
) OrderService {
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	return &orderService{
		orderRepo:       orderRepo,
		contentRepo:     contentRepo,
		resolver:        resolver,
		provider:        provider,
		publisher:       publisher,
		providerTimeout: providerTimeout,
		now:             func() time.Time { return time.Now().UTC() },
	}
}

func (s *orderService) providerCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.providerTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.providerTimeout)
}

func (s *orderService) newOrder(cart *ResolvedCart, status models.OrderStatus, source models.OrderSource, method models.PaymentMethod) *models.Order {
	now := s.now()
	return &models.Order{
		ID:            utils.NewEntityID("order", now),
		Items:         cart.Items,
		Total:         cart.Total,
		Status:        status,
		Source:        source,
		PaymentMethod: method,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// store appends the order and announces it. Publish failures are logged only.
func (s *orderService) store(ctx context.Context, order *models.Order) error {
	if err := s.orderRepo.Create(ctx, order); err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	utils.LogInfo("Order created", map[string]interface{}{
		"order_id": order.ID, "status": order.Status, "source": order.Source, "payment_method": order.PaymentMethod, "total": order.Total,
	})
	s.publish(ctx, order, s.publisher.PublishOrderCreated)
	if order.Status == models.OrderStatusPaid {
		s.publish(ctx, order, s.publisher.PublishOrderPaid)
	}
	return nil
}

func (s *orderService) publish(ctx context.Context, order *models.Order, fn func(context.Context, *models.Order) error) {
	if err := fn(ctx, order); err != nil {
		utils.LogError(err, "Order event publish failed", map[string]interface{}{"order_id": order.ID})
	}
}

func (s *orderService) Checkout(ctx context.Context, req CheckoutRequest, origin string) (*CheckoutResponse, error) {
	if len(req.Items) == 0 {
		return nil, ErrEmptyCart
	}

	settings, err := s.contentRepo.GetSettings(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: loading settings: %v", ErrPersistence, err)
	}
	if !settings.OnlineOrderingEnabled {
		return nil, ErrFeatureDisabled
	}

	cart, err := s.resolver.Resolve(ctx, req.Items, ResolveOptions{MaxQuantity: OnlineMaxQuantity})
	if err != nil {
		return nil, err
	}

	order := s.newOrder(cart, models.OrderStatusPending, models.OrderSourceOnline, models.PaymentMethodOnline)

	pctx, cancel := s.providerCtx(ctx)
	defer cancel()
	session, err := s.provider.CreateOnlineCheckout(pctx, payments.CheckoutRequest{
		LineItems:  cart.LineItems,
		TotalCents: cart.TotalCents,
		OrderID:    order.ID,
		Origin:     origin,
	})
	if err != nil {
		return nil, err
	}
	order.ProviderSessionID = session.ProviderSessionID

	if err := s.store(ctx, order); err != nil {
		return nil, err
	}
	return &CheckoutResponse{OrderID: order.ID, ClientSecret: session.ClientSecret, CheckoutURL: session.CheckoutURL}, nil
}

// CreatePosOrder records a cash or externally-processed card sale as already paid.
func (s *orderService) CreatePosOrder(ctx context.Context, req PosOrderRequest) (*models.Order, error) {
	if req.PaymentMethod != models.PaymentMethodCash && req.PaymentMethod != models.PaymentMethodCardExternal {
		return nil, ErrInvalidPayment
	}

	cart, err := s.resolver.Resolve(ctx, req.Items, ResolveOptions{})
	if err != nil {
		return nil, err
	}

	var tendered, change *float64
	if req.PaymentMethod == models.PaymentMethodCash {
		// cashTendered is compared as sent against the already rounded total.
		if req.CashTendered == nil || *req.CashTendered < cart.Total {
			return nil, ErrInsufficientCash
		}
		cash := *req.CashTendered
		due := utils.RoundMoney(decimal.NewFromFloat(cash).Sub(decimal.NewFromFloat(cart.Total)))
		tendered, change = &cash, &due
	}

	order := s.newOrder(cart, models.OrderStatusPaid, models.OrderSourcePOS, req.PaymentMethod)
	order.CustomerName = req.CustomerName
	order.CashTendered = tendered
	order.ChangeDue = change

	if err := s.store(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

// CreatePosCardPayment charges through the provider. Backends that capture
// synchronously produce a paid order; others return a client secret.
func (s *orderService) CreatePosCardPayment(ctx context.Context, req PosPaymentRequest) (*PosPaymentResponse, error) {
	cart, err := s.resolver.Resolve(ctx, req.Items, ResolveOptions{})
	if err != nil {
		return nil, err
	}

	order := s.newOrder(cart, models.OrderStatusPending, models.OrderSourcePOS, models.PaymentMethodPosCard)
	order.CustomerName = req.CustomerName

	pctx, cancel := s.providerCtx(ctx)
	defer cancel()
	res, err := s.provider.CreatePosPayment(pctx, payments.PaymentRequest{
		LineItems:  cart.LineItems,
		TotalCents: cart.TotalCents,
		OrderID:    order.ID,
		SourceID:   req.SourceID,
	})
	if err != nil {
		return nil, err
	}
	order.ProviderPaymentID = res.ProviderPaymentID
	if res.ClientSecret == "" {
		order.Status = models.OrderStatusPaid
	}

	if err := s.store(ctx, order); err != nil {
		return nil, err
	}

	out := &PosPaymentResponse{OrderID: order.ID, ClientSecret: res.ClientSecret}
	if order.Status == models.OrderStatusPaid {
		out.Order = order
	}
	return out, nil
}

func (s *orderService) CreatePosCheckoutLink(ctx context.Context, req PosPaymentRequest, origin string) (*CheckoutLinkResponse, error) {
	cart, err := s.resolver.Resolve(ctx, req.Items, ResolveOptions{})
	if err != nil {
		return nil, err
	}

	order := s.newOrder(cart, models.OrderStatusPending, models.OrderSourcePOS, models.PaymentMethodPosLink)
	order.CustomerName = req.CustomerName

	pctx, cancel := s.providerCtx(ctx)
	defer cancel()
	link, err := s.provider.CreatePosCheckoutLink(pctx, payments.CheckoutRequest{
		LineItems:  cart.LineItems,
		TotalCents: cart.TotalCents,
		OrderID:    order.ID,
		Origin:     origin,
	})
	if err != nil {
		return nil, err
	}
	order.ProviderSessionID = link.ProviderSessionID

	if err := s.store(ctx, order); err != nil {
		return nil, err
	}
	return &CheckoutLinkResponse{OrderID: order.ID, CheckoutURL: link.CheckoutURL}, nil
}

func (s *orderService) CreateTerminalPayment(ctx context.Context, req PosPaymentRequest) (*TerminalIntentResponse, error) {
	cart, err := s.resolver.Resolve(ctx, req.Items, ResolveOptions{})
	if err != nil {
		return nil, err
	}

	order := s.newOrder(cart, models.OrderStatusPending, models.OrderSourcePOS, models.PaymentMethodPosTerminal)
	order.CustomerName = req.CustomerName

	pctx, cancel := s.providerCtx(ctx)
	defer cancel()
	res, err := s.provider.CreateTerminalPayment(pctx, payments.PaymentRequest{
		LineItems:  cart.LineItems,
		TotalCents: cart.TotalCents,
		OrderID:    order.ID,
	})
	if err != nil {
		return nil, err
	}
	order.ProviderPaymentID = res.ProviderPaymentID

	if err := s.store(ctx, order); err != nil {
		return nil, err
	}
	return &TerminalIntentResponse{OrderID: order.ID, TerminalPaymentID: res.TerminalPaymentID, ClientSecret: res.ClientSecret}, nil
}

func (s *orderService) GetTerminalStatus(ctx context.Context, terminalPaymentID string) (*payments.TerminalStatusResult, error) {
	if utils.IsEmpty(terminalPaymentID) {
		return nil, fmt.Errorf("%w: missing terminal payment id", ErrInvalidInput)
	}
	pctx, cancel := s.providerCtx(ctx)
	defer cancel()
	return s.provider.GetTerminalPaymentStatus(pctx, terminalPaymentID)
}

func (s *orderService) CancelTerminalPayment(ctx context.Context, terminalPaymentID string) error {
	if utils.IsEmpty(terminalPaymentID) {
		return fmt.Errorf("%w: missing terminal payment id", ErrInvalidInput)
	}
	pctx, cancel := s.providerCtx(ctx)
	defer cancel()
	if err := s.provider.CancelTerminalPayment(pctx, terminalPaymentID); err != nil {
		return err
	}
	utils.LogInfo("Terminal payment cancelled", map[string]interface{}{"terminal_payment_id": terminalPaymentID})
	return nil
}

func (s *orderService) CreateConnectionToken(ctx context.Context) (*payments.ConnectionToken, error) {
	pctx, cancel := s.providerCtx(ctx)
	defer cancel()
	return s.provider.CreateTerminalConnectionToken(pctx)
}

func (s *orderService) PaymentConfig() payments.PublicConfig {
	return s.provider.PublicConfig()
}

func (s *orderService) GetBySessionID(ctx context.Context, sessionID string) (*models.PublicOrder, error) {
	if utils.IsEmpty(sessionID) {
		return nil, fmt.Errorf("%w: missing session_id", ErrInvalidInput)
	}
	order, err := s.orderRepo.FindBySessionID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	public := order.Public()
	return &public, nil
}

func (s *orderService) ListOrders(ctx context.Context) ([]models.Order, error) {
	orders, err := s.orderRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return orders, nil
}

func (s *orderService) PatchOrder(ctx context.Context, req PatchOrderRequest) (*models.Order, error) {
	if utils.IsEmpty(req.ID) {
		return nil, fmt.Errorf("%w: missing order id", ErrInvalidInput)
	}
	if req.Status != nil && !req.Status.Valid() {
		return nil, ErrInvalidOrderStatus
	}
	if ps := req.ItemPrepStatus; ps != nil {
		if !ps.Status.Valid() {
			return nil, ErrInvalidPrepStatus
		}
		if ps.ItemIndex < 0 {
			return nil, ErrInvalidItemIndex
		}
		if ps.UnitIndex < 0 {
			return nil, ErrInvalidUnitIndex
		}
	}

	becamePaid := false
	updated, err := s.orderRepo.Update(ctx, req.ID, func(o *models.Order) (bool, error) {
		if ps := req.ItemPrepStatus; ps != nil {
			if ps.ItemIndex >= len(o.Items) {
				return false, ErrInvalidItemIndex
			}
			item := &o.Items[ps.ItemIndex]
			if ps.UnitIndex >= item.Quantity {
				return false, ErrInvalidUnitIndex
			}
			item.PrepStatuses = normalizedPrepStatuses(*item)
			item.PrepStatuses[ps.UnitIndex] = ps.Status
		}
		if req.Status != nil {
			becamePaid = o.Status != models.OrderStatusPaid && *req.Status == models.OrderStatusPaid
			o.Status = *req.Status
		}
		if req.AdminNotes != nil {
			o.AdminNotes = *req.AdminNotes
		}
		o.UpdatedAt = s.now()
		return true, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrNotFound):
			return nil, ErrOrderNotFound
		case errors.Is(err, ErrInvalidItemIndex), errors.Is(err, ErrInvalidUnitIndex):
			return nil, err
		default:
			return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
		}
	}

	if becamePaid {
		s.publish(ctx, updated, s.publisher.PublishOrderPaid)
	}
	return updated, nil
}

// normalizedPrepStatuses returns a slice of exactly Quantity entries, keeping
// existing values and filling the rest with queued.
func normalizedPrepStatuses(item models.OrderItem) []models.PrepStatus {
	out := make([]models.PrepStatus, item.Quantity)
	for i := range out {
		out[i] = item.UnitStatus(i)
	}
	return out
}

func (s *orderService) MarkPaid(ctx context.Context, completion PaymentCompletion) (bool, error) {
	transitioned := false
	updated, err := s.orderRepo.Update(ctx, completion.OrderID, func(o *models.Order) (bool, error) {
		if o.Status != models.OrderStatusPending {
			return false, nil
		}
		o.Status = models.OrderStatusPaid
		if completion.ProviderPaymentID != "" {
			o.ProviderPaymentID = completion.ProviderPaymentID
		}
		if completion.CustomerName != "" {
			o.CustomerName = completion.CustomerName
		}
		if completion.CustomerEmail != "" {
			o.CustomerEmail = completion.CustomerEmail
		}
		o.UpdatedAt = s.now()
		transitioned = true
		return true, nil
	})
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			utils.LogWarn("Payment completion for unknown order", map[string]interface{}{"order_id": completion.OrderID})
			return false, nil
		}
		return false, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	if !transitioned {
		utils.LogInfo("Payment completion ignored, order not pending", map[string]interface{}{"order_id": completion.OrderID, "status": updated.Status})
		return false, nil
	}
	utils.LogInfo("Order marked paid", map[string]interface{}{"order_id": updated.ID, "provider_payment_id": updated.PaymentID()})
	s.publish(ctx, updated, s.publisher.PublishOrderPaid)
	return true, nil
}
