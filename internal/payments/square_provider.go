package payments

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"foodtruck_backend/internal/config"

	"github.com/google/uuid"
	square "github.com/square/square-go-sdk"
	"github.com/square/square-go-sdk/checkout"
	squareclient "github.com/square/square-go-sdk/client"
	"github.com/square/square-go-sdk/core"
	"github.com/square/square-go-sdk/option"
	"github.com/square/square-go-sdk/terminal"
)

const (
	squareProviderName = "square"

	squareSignatureHeader = "X-Square-Hmacsha256-Signature"
)

type SquareProvider struct {
	cfg    config.SquareConfig
	client *squareclient.Client
}

func squareBaseURL(environment string) string {
	if environment == "production" {
		return square.Environments.Production
	}
	return square.Environments.Sandbox
}

// NewSquareProvider builds the Square backend. opts are applied after the
// defaults, so option.WithBaseURL can point it at a test server.
func NewSquareProvider(cfg config.SquareConfig, opts ...option.RequestOption) *SquareProvider {
	if cfg.DeviceID == "" {
		cfg.DeviceID = "default"
	}
	base := []option.RequestOption{
		option.WithBaseURL(squareBaseURL(cfg.Environment)),
		option.WithToken(cfg.AccessToken),
		option.WithMaxAttempts(1),
	}
	return &SquareProvider{
		cfg:    cfg,
		client: squareclient.NewClient(append(base, opts...)...),
	}
}

func (p *SquareProvider) Name() string { return squareProviderName }

func usd(cents int64) *square.Money {
	return &square.Money{Amount: square.Int64(cents), Currency: square.CurrencyUsd.Ptr()}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// squareError turns an SDK failure into a ProviderError carrying the first
// error detail Square returned.
func squareError(err error) error {
	var apiErr *core.APIError
	if !errors.As(err, &apiErr) {
		return providerError(squareProviderName, err)
	}
	msg := fmt.Sprintf("square API returned %d", apiErr.StatusCode)
	if cause := apiErr.Unwrap(); cause != nil {
		var body struct {
			Errors []*square.Error `json:"errors"`
		}
		if json.Unmarshal([]byte(cause.Error()), &body) == nil && len(body.Errors) > 0 {
			if detail := deref(body.Errors[0].GetDetail()); detail != "" {
				msg = detail
			}
		}
	}
	return &ProviderError{Provider: squareProviderName, Message: msg, Err: err}
}

func (p *SquareProvider) createPaymentLink(ctx context.Context, req CheckoutRequest) (*square.PaymentLink, error) {
	items := make([]*square.OrderLineItem, 0, len(req.LineItems))
	for _, it := range req.LineItems {
		items = append(items, &square.OrderLineItem{
			Name:           square.String(it.Name),
			Quantity:       strconv.FormatInt(it.Quantity, 10),
			BasePriceMoney: usd(it.UnitAmountCents),
		})
	}

	resp, err := p.client.Checkout.PaymentLinks.Create(ctx, &checkout.CreatePaymentLinkRequest{
		IdempotencyKey: square.String(uuid.NewString()),
		Order: &square.Order{
			LocationID: p.cfg.LocationID,
			LineItems:  items,
			Metadata:   map[string]*string{"orderId": square.String(req.OrderID)},
		},
		CheckoutOptions: &square.CheckoutOptions{
			RedirectURL: square.String(req.Origin + "/order/success?session_id=sq_" + req.OrderID),
		},
	})
	if err != nil {
		return nil, squareError(err)
	}
	link := resp.GetPaymentLink()
	if link == nil {
		return nil, &ProviderError{Provider: squareProviderName, Message: "square returned no payment link"}
	}
	return link, nil
}

func (p *SquareProvider) CreateOnlineCheckout(ctx context.Context, req CheckoutRequest) (*OnlineCheckoutResult, error) {
	link, err := p.createPaymentLink(ctx, req)
	if err != nil {
		return nil, err
	}
	return &OnlineCheckoutResult{CheckoutURL: deref(link.GetURL()), ProviderSessionID: deref(link.GetID())}, nil
}

func (p *SquareProvider) CreatePosCheckoutLink(ctx context.Context, req CheckoutRequest) (*CheckoutLinkResult, error) {
	link, err := p.createPaymentLink(ctx, req)
	if err != nil {
		return nil, err
	}
	return &CheckoutLinkResult{CheckoutURL: deref(link.GetURL()), ProviderSessionID: deref(link.GetID())}, nil
}

// CreatePosPayment charges a Web Payments SDK card token synchronously.
func (p *SquareProvider) CreatePosPayment(ctx context.Context, req PaymentRequest) (*PosPaymentResult, error) {
	if req.SourceID == "" {
		return nil, ErrMissingSource
	}
	resp, err := p.client.Payments.Create(ctx, &square.CreatePaymentRequest{
		IdempotencyKey: uuid.NewString(),
		SourceID:       req.SourceID,
		AmountMoney:    usd(req.TotalCents),
		LocationID:     square.String(p.cfg.LocationID),
		Note:           square.String("Order " + req.OrderID),
		ReferenceID:    square.String(req.OrderID),
	})
	if err != nil {
		return nil, squareError(err)
	}
	return &PosPaymentResult{ProviderPaymentID: deref(resp.GetPayment().GetID())}, nil
}

// checkoutPaymentID falls back to the checkout id until Square attaches a payment.
func checkoutPaymentID(c *square.TerminalCheckout) string {
	if ids := c.GetPaymentIDs(); len(ids) > 0 {
		return ids[0]
	}
	return deref(c.GetID())
}

func (p *SquareProvider) CreateTerminalPayment(ctx context.Context, req PaymentRequest) (*TerminalPaymentResult, error) {
	resp, err := p.client.Terminal.Checkouts.Create(ctx, &terminal.CreateTerminalCheckoutRequest{
		IdempotencyKey: uuid.NewString(),
		Checkout: &square.TerminalCheckout{
			AmountMoney:   usd(req.TotalCents),
			ReferenceID:   square.String(req.OrderID),
			Note:          square.String("Order " + req.OrderID),
			DeviceOptions: &square.DeviceCheckoutOptions{DeviceID: p.cfg.DeviceID},
			PaymentType:   square.CheckoutOptionsPaymentTypeCardPresent.Ptr(),
		},
	})
	if err != nil {
		return nil, squareError(err)
	}
	c := resp.GetCheckout()
	if c == nil {
		return nil, &ProviderError{Provider: squareProviderName, Message: "square returned no terminal checkout"}
	}
	return &TerminalPaymentResult{
		TerminalPaymentID: deref(c.GetID()),
		ProviderPaymentID: checkoutPaymentID(c),
	}, nil
}

func squareTerminalStatus(status string) TerminalStatus {
	switch status {
	case "PENDING":
		return TerminalStatusPending
	case "IN_PROGRESS":
		return TerminalStatusInProgress
	case "COMPLETED":
		return TerminalStatusCompleted
	case "CANCELED", "CANCELLED", "CANCEL_REQUESTED":
		return TerminalStatusCancelled
	default:
		return TerminalStatusPending
	}
}

func (p *SquareProvider) GetTerminalPaymentStatus(ctx context.Context, terminalPaymentID string) (*TerminalStatusResult, error) {
	resp, err := p.client.Terminal.Checkouts.Get(ctx, &terminal.GetCheckoutsRequest{CheckoutID: terminalPaymentID})
	if err != nil {
		return nil, squareError(err)
	}
	c := resp.GetCheckout()
	out := &TerminalStatusResult{Status: squareTerminalStatus(deref(c.GetStatus()))}
	if ids := c.GetPaymentIDs(); len(ids) > 0 {
		out.ProviderPaymentID = ids[0]
	}
	return out, nil
}

func (p *SquareProvider) CancelTerminalPayment(ctx context.Context, terminalPaymentID string) error {
	if _, err := p.client.Terminal.Checkouts.Cancel(ctx, &terminal.CancelCheckoutsRequest{CheckoutID: terminalPaymentID}); err != nil {
		return squareError(err)
	}
	return nil
}

// CreateTerminalConnectionToken is a Stripe Terminal concept; Square pairs devices itself.
func (p *SquareProvider) CreateTerminalConnectionToken(context.Context) (*ConnectionToken, error) {
	return nil, ErrNotSupported
}

type squareWebhookBody struct {
	Type string `json:"type"`
	Data struct {
		Object struct {
			Payment *square.Payment `json:"payment"`
		} `json:"object"`
	} `json:"data"`
}

func (p *SquareProvider) ValidateWebhook(ctx context.Context, req WebhookRequest) (*WebhookResult, error) {
	signature := req.Headers.Get(squareSignatureHeader)
	// The SDK accepts an empty body as valid, so it is rejected here.
	if signature == "" || p.cfg.WebhookSignatureKey == "" || len(req.Body) == 0 {
		return &WebhookResult{Valid: false}, nil
	}
	notificationURL := p.cfg.WebhookURL
	if notificationURL == "" {
		notificationURL = req.URL
	}
	if err := p.client.Webhooks.VerifySignature(ctx, &square.VerifySignatureRequest{
		RequestBody:     string(req.Body),
		SignatureHeader: signature,
		SignatureKey:    p.cfg.WebhookSignatureKey,
		NotificationURL: notificationURL,
	}); err != nil {
		return &WebhookResult{Valid: false}, nil
	}

	var body squareWebhookBody
	if err := json.Unmarshal(req.Body, &body); err != nil {
		return &WebhookResult{Valid: false}, nil
	}

	result := &WebhookResult{Valid: true}
	payment := body.Data.Object.Payment
	if body.Type == "payment.updated" && deref(payment.GetStatus()) == "COMPLETED" && deref(payment.GetReferenceID()) != "" {
		result.Events = append(result.Events, WebhookEvent{
			Type:              EventPaymentCompleted,
			OrderID:           deref(payment.GetReferenceID()),
			ProviderPaymentID: deref(payment.GetID()),
			CustomerEmail:     deref(payment.GetBuyerEmailAddress()),
		})
	}
	return result, nil
}

func (p *SquareProvider) PublicConfig() PublicConfig {
	return PublicConfig{
		Provider:      squareProviderName,
		ApplicationID: p.cfg.ApplicationID,
		LocationID:    p.cfg.LocationID,
		Environment:   p.cfg.Environment,
	}
}
