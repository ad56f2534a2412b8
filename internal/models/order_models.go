package models

import "time"

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusPaid      OrderStatus = "paid"
	OrderStatusFulfilled OrderStatus = "fulfilled"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// Valid reports whether s is one of the four order statuses.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusPaid, OrderStatusFulfilled, OrderStatusCancelled:
		return true
	}
	return false
}

type OrderSource string

const (
	OrderSourceOnline OrderSource = "online"
	OrderSourcePOS    OrderSource = "pos"
)

type PaymentMethod string

const (
	PaymentMethodOnline       PaymentMethod = "online"
	PaymentMethodPosCard      PaymentMethod = "pos_card"
	PaymentMethodPosTerminal  PaymentMethod = "pos_terminal"
	PaymentMethodPosLink      PaymentMethod = "pos_link"
	PaymentMethodCash         PaymentMethod = "cash"
	PaymentMethodCardExternal PaymentMethod = "card_external"

	// Written by older deployments; still accepted when reading.
	PaymentMethodLegacyStripePos      PaymentMethod = "stripe_pos"
	PaymentMethodLegacyStripeTerminal PaymentMethod = "stripe_terminal"
)

// Canonical maps legacy Stripe-era method names onto their current equivalents.
func (m PaymentMethod) Canonical() PaymentMethod {
	switch m {
	case PaymentMethodLegacyStripePos:
		return PaymentMethodPosCard
	case PaymentMethodLegacyStripeTerminal:
		return PaymentMethodPosTerminal
	}
	return m
}

type PrepStatus string

const (
	PrepStatusQueued  PrepStatus = "queued"
	PrepStatusStarted PrepStatus = "started"
	PrepStatusDone    PrepStatus = "done"
)

func (s PrepStatus) Valid() bool {
	switch s {
	case PrepStatusQueued, PrepStatusStarted, PrepStatusDone:
		return true
	}
	return false
}

// OrderItem is a priced line. UnitPrice is a snapshot taken at creation.
type OrderItem struct {
	CategoryID   string       `json:"categoryId"`
	ItemName     string       `json:"itemName"`
	Quantity     int          `json:"quantity"`
	UnitPrice    float64      `json:"unitPrice"`
	Notes        []string     `json:"notes,omitempty"`
	PrepStatuses []PrepStatus `json:"prepStatuses,omitempty"`
}

// UnitStatus returns the prep status of one unit, defaulting to queued.
func (i OrderItem) UnitStatus(unit int) PrepStatus {
	if unit < len(i.PrepStatuses) && i.PrepStatuses[unit] != "" {
		return i.PrepStatuses[unit]
	}
	return PrepStatusQueued
}

type Order struct {
	ID            string        `json:"id"`
	Items         []OrderItem   `json:"items"`
	Total         float64       `json:"total"`
	Status        OrderStatus   `json:"status"`
	Source        OrderSource   `json:"source,omitempty"`
	PaymentMethod PaymentMethod `json:"paymentMethod,omitempty"`

	ProviderSessionID string `json:"providerSessionId,omitempty"`
	ProviderPaymentID string `json:"providerPaymentId,omitempty"`

	// Legacy linkage from the Stripe-only era. Read as a fallback, never written.
	StripeSessionID       string `json:"stripeSessionId,omitempty"`
	StripePaymentIntentID string `json:"stripePaymentIntentId,omitempty"`

	CustomerName  string `json:"customerName,omitempty"`
	CustomerEmail string `json:"customerEmail,omitempty"`

	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
	AdminNotes string    `json:"adminNotes,omitempty"`

	CashTendered *float64 `json:"cashTendered,omitempty"`
	ChangeDue    *float64 `json:"changeDue,omitempty"`
}

// PaymentID is the provider payment id, falling back to the legacy Stripe field.
func (o *Order) PaymentID() string {
	if o.ProviderPaymentID != "" {
		return o.ProviderPaymentID
	}
	return o.StripePaymentIntentID
}

// ViaPaymentLink reports whether the order was paid through a hosted
// payment link, the only flow whose redirect carries "sq_<orderId>".
func (o *Order) ViaPaymentLink() bool {
	if o.ProviderSessionID == "" {
		return false
	}
	return o.PaymentMethod == PaymentMethodOnline || o.PaymentMethod == PaymentMethodPosLink
}

// LastTouched is UpdatedAt, or CreatedAt for records that never stored one.
func (o *Order) LastTouched() time.Time {
	if o.UpdatedAt.IsZero() {
		return o.CreatedAt
	}
	return o.UpdatedAt
}

// PublicOrder is what the customer-facing lookup may see.
type PublicOrder struct {
	ID            string      `json:"id"`
	Items         []OrderItem `json:"items"`
	Total         float64     `json:"total"`
	CustomerName  string      `json:"customerName,omitempty"`
	CustomerEmail string      `json:"customerEmail,omitempty"`
	Status        OrderStatus `json:"status"`
	CreatedAt     time.Time   `json:"createdAt"`
}

func (o *Order) Public() PublicOrder {
	items := make([]OrderItem, len(o.Items))
	for i, it := range o.Items {
		items[i] = OrderItem{CategoryID: it.CategoryID, ItemName: it.ItemName, Quantity: it.Quantity, UnitPrice: it.UnitPrice, Notes: it.Notes}
	}
	return PublicOrder{
		ID:            o.ID,
		Items:         items,
		Total:         o.Total,
		CustomerName:  o.CustomerName,
		CustomerEmail: o.CustomerEmail,
		Status:        o.Status,
		CreatedAt:     o.CreatedAt,
	}
}
