package payments

import (
	"foodtruck_backend/internal/config"
)

// New picks the backend once at startup.
func New(cfg config.PaymentsConfig) Provider {
	if cfg.Provider == config.ProviderSquare {
		return NewSquareProvider(cfg.Square)
	}
	return NewStripeProvider(cfg.Stripe, nil)
}
