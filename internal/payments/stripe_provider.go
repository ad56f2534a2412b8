package payments

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"foodtruck_backend/internal/config"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/client"
	"github.com/stripe/stripe-go/v81/webhook"
)

const stripeProviderName = "stripe"

type StripeProvider struct {
	api            *client.API
	webhookSecret  string
	publishableKey string
}

// NewStripeProvider builds the Stripe backend. backends may be nil to use Stripe's API.
func NewStripeProvider(cfg config.StripeConfig, backends *stripe.Backends) *StripeProvider {
	return &StripeProvider{
		api:            client.New(cfg.SecretKey, backends),
		webhookSecret:  cfg.WebhookSecret,
		publishableKey: cfg.PublishableKey,
	}
}

func (p *StripeProvider) Name() string { return stripeProviderName }

func stripeErr(err error) error {
	var se *stripe.Error
	if errors.As(err, &se) && se.Msg != "" {
		return &ProviderError{Provider: stripeProviderName, Message: se.Msg, Err: err}
	}
	return providerError(stripeProviderName, err)
}

func stripeLineItems(items []LineItem) []*stripe.CheckoutSessionLineItemParams {
	out := make([]*stripe.CheckoutSessionLineItemParams, 0, len(items))
	for _, it := range items {
		out = append(out, &stripe.CheckoutSessionLineItemParams{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency: stripe.String(string(stripe.CurrencyUSD)),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String(it.Name),
				},
				UnitAmount: stripe.Int64(it.UnitAmountCents),
			},
			Quantity: stripe.Int64(it.Quantity),
		})
	}
	return out
}

// CreateOnlineCheckout opens an embedded Checkout Session.
func (p *StripeProvider) CreateOnlineCheckout(ctx context.Context, req CheckoutRequest) (*OnlineCheckoutResult, error) {
	params := &stripe.CheckoutSessionParams{
		UIMode:             stripe.String("embedded"),
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems:          stripeLineItems(req.LineItems),
		ReturnURL:          stripe.String(req.Origin + "/order/success?session_id={CHECKOUT_SESSION_ID}"),
	}
	params.Context = ctx
	params.AddMetadata("orderId", req.OrderID)
	params.SetIdempotencyKey(uuid.NewString())

	session, err := p.api.CheckoutSessions.New(params)
	if err != nil {
		return nil, stripeErr(err)
	}
	return &OnlineCheckoutResult{ClientSecret: session.ClientSecret, ProviderSessionID: session.ID}, nil
}

// CreatePosPayment creates a PaymentIntent the POS confirms with Stripe Elements.
func (p *StripeProvider) CreatePosPayment(ctx context.Context, req PaymentRequest) (*PosPaymentResult, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(req.TotalCents),
		Currency: stripe.String(string(stripe.CurrencyUSD)),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.Context = ctx
	params.AddMetadata("orderId", req.OrderID)
	params.AddMetadata("source", "pos")
	params.SetIdempotencyKey(uuid.NewString())

	pi, err := p.api.PaymentIntents.New(params)
	if err != nil {
		return nil, stripeErr(err)
	}
	return &PosPaymentResult{ClientSecret: pi.ClientSecret, ProviderPaymentID: pi.ID}, nil
}

// CreatePosCheckoutLink creates a hosted Checkout Session for a customer's phone.
func (p *StripeProvider) CreatePosCheckoutLink(ctx context.Context, req CheckoutRequest) (*CheckoutLinkResult, error) {
	params := &stripe.CheckoutSessionParams{
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems:          stripeLineItems(req.LineItems),
		SuccessURL:         stripe.String(req.Origin + "/order/success?session_id={CHECKOUT_SESSION_ID}"),
		CancelURL:          stripe.String(req.Origin + "/admin/pos"),
	}
	params.Context = ctx
	params.AddMetadata("orderId", req.OrderID)
	params.AddMetadata("source", "pos")
	params.SetIdempotencyKey(uuid.NewString())

	session, err := p.api.CheckoutSessions.New(params)
	if err != nil {
		return nil, stripeErr(err)
	}
	return &CheckoutLinkResult{CheckoutURL: session.URL, ProviderSessionID: session.ID}, nil
}

// CreateTerminalPayment creates a card_present PaymentIntent for a Stripe reader.
func (p *StripeProvider) CreateTerminalPayment(ctx context.Context, req PaymentRequest) (*TerminalPaymentResult, error) {
	params := &stripe.PaymentIntentParams{
		Amount:             stripe.Int64(req.TotalCents),
		Currency:           stripe.String(string(stripe.CurrencyUSD)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card_present"}),
		CaptureMethod:      stripe.String(string(stripe.PaymentIntentCaptureMethodAutomatic)),
	}
	params.Context = ctx
	params.AddMetadata("orderId", req.OrderID)
	params.AddMetadata("source", "pos_terminal")
	params.SetIdempotencyKey(uuid.NewString())

	pi, err := p.api.PaymentIntents.New(params)
	if err != nil {
		return nil, stripeErr(err)
	}
	return &TerminalPaymentResult{TerminalPaymentID: pi.ID, ProviderPaymentID: pi.ID, ClientSecret: pi.ClientSecret}, nil
}

func stripeTerminalStatus(status stripe.PaymentIntentStatus) TerminalStatus {
	switch status {
	case stripe.PaymentIntentStatusRequiresPaymentMethod:
		return TerminalStatusPending
	case stripe.PaymentIntentStatusRequiresConfirmation, stripe.PaymentIntentStatusRequiresAction, stripe.PaymentIntentStatusProcessing:
		return TerminalStatusInProgress
	case stripe.PaymentIntentStatusSucceeded:
		return TerminalStatusCompleted
	case stripe.PaymentIntentStatusCanceled:
		return TerminalStatusCancelled
	default:
		return TerminalStatusPending
	}
}

func (p *StripeProvider) GetTerminalPaymentStatus(ctx context.Context, terminalPaymentID string) (*TerminalStatusResult, error) {
	params := &stripe.PaymentIntentParams{}
	params.Context = ctx
	pi, err := p.api.PaymentIntents.Get(terminalPaymentID, params)
	if err != nil {
		return nil, stripeErr(err)
	}
	return &TerminalStatusResult{Status: stripeTerminalStatus(pi.Status), ProviderPaymentID: pi.ID}, nil
}

func (p *StripeProvider) CancelTerminalPayment(ctx context.Context, terminalPaymentID string) error {
	params := &stripe.PaymentIntentCancelParams{}
	params.Context = ctx
	params.SetIdempotencyKey(uuid.NewString())
	if _, err := p.api.PaymentIntents.Cancel(terminalPaymentID, params); err != nil {
		return stripeErr(err)
	}
	return nil
}

func (p *StripeProvider) CreateTerminalConnectionToken(ctx context.Context) (*ConnectionToken, error) {
	params := &stripe.TerminalConnectionTokenParams{}
	params.Context = ctx
	token, err := p.api.TerminalConnectionTokens.New(params)
	if err != nil {
		return nil, stripeErr(err)
	}
	return &ConnectionToken{Secret: token.Secret}, nil
}

// ValidateWebhook verifies the Stripe-Signature header and extracts completions.
func (p *StripeProvider) ValidateWebhook(_ context.Context, req WebhookRequest) (*WebhookResult, error) {
	signature := req.Headers.Get("Stripe-Signature")
	if signature == "" || p.webhookSecret == "" {
		return &WebhookResult{Valid: false}, nil
	}

	event, err := webhook.ConstructEventWithOptions(req.Body, signature, p.webhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
	if err != nil {
		return &WebhookResult{Valid: false}, nil
	}

	result := &WebhookResult{Valid: true}
	if event.Data == nil {
		return result, nil
	}

	switch string(event.Type) {
	case "checkout.session.completed":
		var session stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
			return nil, fmt.Errorf("decoding checkout session: %w", err)
		}
		orderID := session.Metadata["orderId"]
		if orderID == "" {
			return result, nil
		}
		evt := WebhookEvent{Type: EventPaymentCompleted, OrderID: orderID}
		if session.PaymentIntent != nil {
			evt.ProviderPaymentID = session.PaymentIntent.ID
		}
		if session.CustomerDetails != nil {
			evt.CustomerName = session.CustomerDetails.Name
			evt.CustomerEmail = session.CustomerDetails.Email
		}
		result.Events = append(result.Events, evt)
	case "payment_intent.succeeded":
		var pi stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
			return nil, fmt.Errorf("decoding payment intent: %w", err)
		}
		orderID := pi.Metadata["orderId"]
		if orderID == "" {
			return result, nil
		}
		result.Events = append(result.Events, WebhookEvent{Type: EventPaymentCompleted, OrderID: orderID, ProviderPaymentID: pi.ID})
	}
	return result, nil
}

func (p *StripeProvider) PublicConfig() PublicConfig {
	return PublicConfig{Provider: stripeProviderName, PublishableKey: p.publishableKey}
}
