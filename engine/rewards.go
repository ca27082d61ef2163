package engine

import (
	"context"

	"github.com/fitquest/fitquest/models"
	"github.com/fitquest/fitquest/storage"
)

// ShippingDetails captures where a physical reward should be sent. Every
// field is required.
type ShippingDetails struct {
	Name       string `json:"shipping_name"`
	Address    string `json:"shipping_address"`
	City       string `json:"shipping_city"`
	State      string `json:"shipping_state"`
	PostalCode string `json:"shipping_zip"`
	Country    string `json:"shipping_country"`
}

func (s *ShippingDetails) missingFields() []string {
	var missing []string
	if s == nil {
		return []string{"shipping_name", "shipping_address", "shipping_city", "shipping_state", "shipping_zip", "shipping_country"}
	}
	for _, f := range []struct {
		name  string
		value string
	}{
		{"shipping_name", s.Name},
		{"shipping_address", s.Address},
		{"shipping_city", s.City},
		{"shipping_state", s.State},
		{"shipping_zip", s.PostalCode},
		{"shipping_country", s.Country},
	} {
		if f.value == "" {
			missing = append(missing, f.name)
		}
	}
	return missing
}

// ShippingSession is the request sent to the payment collaborator for a
// physical redemption. The session carries a zero amount: points are the
// currency, the collaborator only captures and confirms shipping metadata.
type ShippingSession struct {
	UserID   uint
	Reward   models.Reward
	Shipping ShippingDetails
}

// PaymentCollector is the external payment collaborator. Implementations
// return an opaque client secret the front end uses for its confirmation
// step.
type PaymentCollector interface {
	CollectShipping(ctx context.Context, session ShippingSession) (clientSecret string, err error)
}

// Redemption is the outcome of a successful redeem call. ClientSecret is set
// only for physical rewards.
type Redemption struct {
	UserReward   *models.UserReward `json:"userReward"`
	IsPhysical   bool               `json:"isPhysicalReward"`
	ClientSecret string             `json:"clientSecret,omitempty"`
}

// Rewards mediates the point-for-reward exchange.
type Rewards struct {
	store     storage.Store
	collector PaymentCollector
}

// NewRewards creates the redemption engine. collector may be nil when no
// physical rewards are served (tests, offline mode); physical redemptions
// then fail with ExternalCollaboratorError.
func NewRewards(store storage.Store, collector PaymentCollector) *Rewards {
	return &Rewards{store: store, collector: collector}
}

// Redeem exchanges points for the reward. The category alone decides the
// branch: "Real World" rewards require complete shipping details and a
// payment-collection handshake, everything else redeems directly.
//
// The affordability check and debit run as one atomic store operation, so two
// racing redemptions can never both pass against a stale balance. Validation
// and affordability failures leave all state untouched.
func (r *Rewards) Redeem(ctx context.Context, userID, rewardID uint, shipping *ShippingDetails) (*Redemption, error) {
	reward, err := r.store.GetReward(ctx, rewardID)
	if err != nil {
		return nil, err
	}

	if !reward.IsPhysical() {
		userReward, err := r.store.RedeemReward(ctx, userID, rewardID)
		if err != nil {
			return nil, err
		}
		return &Redemption{UserReward: userReward, IsPhysical: false}, nil
	}

	if missing := shipping.missingFields(); len(missing) > 0 {
		return nil, &ValidationError{Fields: missing}
	}

	userReward, err := r.store.RedeemReward(ctx, userID, rewardID)
	if err != nil {
		return nil, err
	}

	secret, err := r.collectShipping(ctx, ShippingSession{
		UserID:   userID,
		Reward:   *reward,
		Shipping: *shipping,
	})
	if err != nil {
		return nil, err
	}

	return &Redemption{
		UserReward:   userReward,
		IsPhysical:   true,
		ClientSecret: secret,
	}, nil
}

func (r *Rewards) collectShipping(ctx context.Context, session ShippingSession) (string, error) {
	if r.collector == nil {
		return "", &ExternalCollaboratorError{Op: "collect-shipping", Err: errNoCollector}
	}
	secret, err := r.collector.CollectShipping(ctx, session)
	if err != nil {
		return "", &ExternalCollaboratorError{Op: "collect-shipping", Err: err}
	}
	return secret, nil
}
