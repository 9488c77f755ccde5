package stripe

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/client"
	"github.com/user/aimpact-scanner/internal/repository"
)

// GatewayImpl provides a concrete implementation for the PaymentGateway
// interface using the Stripe API.
type GatewayImpl struct {
	api *client.API
}

// NewGateway creates a new Stripe-backed payment gateway.
func NewGateway(secretKey string) *GatewayImpl {
	api := &client.API{}
	api.Init(secretKey, nil)
	return &GatewayImpl{api: api}
}

// CreateCustomer provisions a Stripe customer tagged with the owning
// user id.
func (g *GatewayImpl) CreateCustomer(ctx context.Context, email string, userID uuid.UUID) (string, error) {
	params := &stripe.CustomerParams{
		Params: stripe.Params{Context: ctx},
		Email:  stripe.String(email),
	}
	params.AddMetadata("user_id", userID.String())

	customer, err := g.api.Customers.New(params)
	if err != nil {
		return "", fmt.Errorf("failed to create stripe customer: %w", err)
	}
	return customer.ID, nil
}

// CreateCheckoutSession creates a hosted subscription checkout session
// scoped to an existing customer and price.
func (g *GatewayImpl) CreateCheckoutSession(ctx context.Context, p repository.CheckoutParams) (*repository.CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{
		Params:   stripe.Params{Context: ctx},
		Customer: stripe.String(p.CustomerID),
		Mode:     stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(p.PriceID),
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(p.SuccessURL),
		CancelURL:  stripe.String(p.CancelURL),
	}
	params.AddMetadata("tier", p.Tier)

	session, err := g.api.CheckoutSessions.New(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create checkout session: %w", err)
	}

	return &repository.CheckoutSession{
		ID:  session.ID,
		URL: session.URL,
	}, nil
}
