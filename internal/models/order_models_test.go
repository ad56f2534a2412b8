package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrder_PaymentIDFallsBackToLegacyField(t *testing.T) {
	assert.Equal(t, "pay_1", (&Order{ProviderPaymentID: "pay_1", StripePaymentIntentID: "pi_old"}).PaymentID())
	assert.Equal(t, "pi_old", (&Order{StripePaymentIntentID: "pi_old"}).PaymentID())
	assert.Empty(t, (&Order{}).PaymentID())
}

func TestPaymentMethod_Canonical(t *testing.T) {
	cases := map[PaymentMethod]PaymentMethod{
		PaymentMethodLegacyStripePos:      PaymentMethodPosCard,
		PaymentMethodLegacyStripeTerminal: PaymentMethodPosTerminal,
		PaymentMethodCash:                 PaymentMethodCash,
		PaymentMethodOnline:               PaymentMethodOnline,
	}
	for in, want := range cases {
		assert.Equal(t, want, in.Canonical(), string(in))
	}
}

func TestOrder_ViaPaymentLink(t *testing.T) {
	assert.True(t, (&Order{ProviderSessionID: "pl_1", PaymentMethod: PaymentMethodOnline}).ViaPaymentLink())
	assert.True(t, (&Order{ProviderSessionID: "pl_1", PaymentMethod: PaymentMethodPosLink}).ViaPaymentLink())
	assert.False(t, (&Order{PaymentMethod: PaymentMethodOnline}).ViaPaymentLink())
	assert.False(t, (&Order{ProviderSessionID: "pi_1", PaymentMethod: PaymentMethodPosCard}).ViaPaymentLink())
	assert.False(t, (&Order{PaymentMethod: PaymentMethodCash}).ViaPaymentLink())
}
