package payments

import (
	"context"
	"errors"
	"net/http"
)

var (
	// ErrProvider marks failures reported by the payment backend.
	ErrProvider = errors.New("payment provider error")
	// ErrMissingSource is returned when a backend needs a tokenized card and none was sent.
	ErrMissingSource = errors.New("payment source is required")
	// ErrNotSupported is returned for optional capabilities a backend lacks.
	ErrNotSupported = errors.New("operation not supported by payment provider")
)

// ProviderError carries the backend's own message so it can be shown to staff.
type ProviderError struct {
	Provider string
	Message  string
	Err      error
}

func (e *ProviderError) Error() string {
	return e.Provider + ": " + e.Message
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

func (e *ProviderError) Is(target error) bool {
	return target == ErrProvider
}

func providerError(provider string, err error) error {
	if err == nil {
		return nil
	}
	return &ProviderError{Provider: provider, Message: err.Error(), Err: err}
}

// LineItem is what the backend shows on its hosted pages and receipts.
type LineItem struct {
	Name            string
	UnitAmountCents int64
	Quantity        int64
}

type CheckoutRequest struct {
	LineItems  []LineItem
	TotalCents int64
	OrderID    string
	// Origin is the scheme+host the customer's browser used; return URLs are built from it.
	Origin string
}

type PaymentRequest struct {
	LineItems  []LineItem
	TotalCents int64
	OrderID    string
	// SourceID is a tokenized card nonce; required by backends that charge synchronously.
	SourceID string
}

type OnlineCheckoutResult struct {
	ClientSecret      string
	CheckoutURL       string
	ProviderSessionID string
}

type PosPaymentResult struct {
	// Empty ClientSecret means the charge already completed.
	ClientSecret      string
	ProviderPaymentID string
}

type CheckoutLinkResult struct {
	CheckoutURL       string
	ProviderSessionID string
}

type TerminalPaymentResult struct {
	TerminalPaymentID string
	ProviderPaymentID string
	ClientSecret      string
}

type TerminalStatus string

const (
	TerminalStatusPending    TerminalStatus = "pending"
	TerminalStatusInProgress TerminalStatus = "in_progress"
	TerminalStatusCompleted  TerminalStatus = "completed"
	TerminalStatusCancelled  TerminalStatus = "cancelled"
	TerminalStatusError      TerminalStatus = "error"
)

type TerminalStatusResult struct {
	Status            TerminalStatus `json:"status"`
	ProviderPaymentID string         `json:"providerPaymentId,omitempty"`
}

type ConnectionToken struct {
	Secret string `json:"secret"`
}

// WebhookRequest is the raw inbound callback. URL is the absolute notification
// URL; Square signs it together with the body.
type WebhookRequest struct {
	Body    []byte
	Headers http.Header
	URL     string
}

const EventPaymentCompleted = "payment_completed"

type WebhookEvent struct {
	Type              string
	OrderID           string
	ProviderPaymentID string
	CustomerName      string
	CustomerEmail     string
}

type WebhookResult struct {
	Valid  bool
	Events []WebhookEvent
}

// PublicConfig is safe to expose to browsers.
type PublicConfig struct {
	Provider       string `json:"provider"`
	PublishableKey string `json:"publishableKey,omitempty"`
	ApplicationID  string `json:"applicationId,omitempty"`
	LocationID     string `json:"locationId,omitempty"`
	Environment    string `json:"environment,omitempty"`
}

// Provider is implemented by each card-processing backend.
type Provider interface {
	Name() string
	CreateOnlineCheckout(ctx context.Context, req CheckoutRequest) (*OnlineCheckoutResult, error)
	CreatePosPayment(ctx context.Context, req PaymentRequest) (*PosPaymentResult, error)
	CreatePosCheckoutLink(ctx context.Context, req CheckoutRequest) (*CheckoutLinkResult, error)
	CreateTerminalPayment(ctx context.Context, req PaymentRequest) (*TerminalPaymentResult, error)
	GetTerminalPaymentStatus(ctx context.Context, terminalPaymentID string) (*TerminalStatusResult, error)
	CancelTerminalPayment(ctx context.Context, terminalPaymentID string) error
	CreateTerminalConnectionToken(ctx context.Context) (*ConnectionToken, error)
	ValidateWebhook(ctx context.Context, req WebhookRequest) (*WebhookResult, error)
	PublicConfig() PublicConfig
}
