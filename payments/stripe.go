// Package payments integrates the external payment collaborator used for
// physical reward fulfillment. No money moves here: sessions are created with
// a zero amount purely to collect and confirm shipping metadata.
package payments

import (
	"context"
	"strconv"

	"github.com/google/uuid"
	stripe "github.com/stripe/stripe-go/v78"
	"github.com/stripe/stripe-go/v78/client"

	"github.com/fitquest/fitquest/engine"
)

// StripeCollector implements engine.PaymentCollector on the Stripe API.
type StripeCollector struct {
	api *client.API
}

var _ engine.PaymentCollector = (*StripeCollector)(nil)

// NewStripeCollector builds a collector with the given secret key.
func NewStripeCollector(secretKey string) *StripeCollector {
	api := &client.API{}
	api.Init(secretKey, nil)
	return &StripeCollector{api: api}
}

// CollectShipping creates a zero-amount PaymentIntent tagged with reward and
// shipping metadata and returns its client secret for the front end's
// confirmation step.
func (c *StripeCollector) CollectShipping(ctx context.Context, s engine.ShippingSession) (string, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(0),
		Currency: stripe.String(string(stripe.CurrencyUSD)),
	}
	params.Context = ctx
	params.SetIdempotencyKey(uuid.NewString())

	params.AddMetadata("user_id", strconv.FormatUint(uint64(s.UserID), 10))
	params.AddMetadata("reward_id", strconv.FormatUint(uint64(s.Reward.ID), 10))
	params.AddMetadata("reward_title", s.Reward.Title)
	params.AddMetadata("reward_description", s.Reward.Description)
	params.AddMetadata("shipping_name", s.Shipping.Name)
	params.AddMetadata("shipping_address", s.Shipping.Address)
	params.AddMetadata("shipping_city", s.Shipping.City)
	params.AddMetadata("shipping_state", s.Shipping.State)
	params.AddMetadata("shipping_zip", s.Shipping.PostalCode)
	params.AddMetadata("shipping_country", s.Shipping.Country)

	intent, err := c.api.PaymentIntents.New(params)
	if err != nil {
		return "", err
	}
	return intent.ClientSecret, nil
}
