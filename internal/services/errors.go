package services

import "errors"

var (
	ErrEmptyCart            = errors.New("cart is empty")
	ErrInvalidItem          = errors.New("invalid cart item")
	ErrItemNotFound         = errors.New("item not found")
	ErrMenuUnavailable      = errors.New("menu not available")
	ErrFeatureDisabled      = errors.New("online ordering is currently disabled")
	ErrInvalidInput         = errors.New("invalid request")
	ErrInsufficientCash     = errors.New("insufficient cash tendered")
	ErrInvalidPayment       = errors.New("invalid payment method")
	ErrPersistence          = errors.New("failed to persist record")
	ErrWebhookInvalid       = errors.New("invalid webhook signature")
	ErrOrderNotFound        = errors.New("order not found")
	ErrInvalidOrderStatus   = errors.New("invalid order status")
	ErrInvalidPrepStatus    = errors.New("invalid prep status")
	ErrInvalidItemIndex     = errors.New("invalid item index")
	ErrInvalidUnitIndex     = errors.New("invalid unit index")
	ErrBookingNotFound      = errors.New("booking not found")
	ErrBookingValidation    = errors.New("booking data validation error")
	ErrInvalidBookingStatus = errors.New("invalid booking status")
	ErrImageNotFound        = errors.New("image not found")
	ErrInvalidImage         = errors.New("invalid image")
	ErrUnknownContentKey    = errors.New("unknown content key")
	ErrInvalidAdminKey      = errors.New("invalid admin key")
	ErrAdminNotConfigured   = errors.New("admin access is not configured")
)
