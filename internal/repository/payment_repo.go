package repository

import (
	"context"

	"github.com/google/uuid"
)

// CheckoutParams carries everything needed to create a hosted checkout
// session for an existing payment-processor customer.
type CheckoutParams struct {
	CustomerID string
	PriceID    string
	Tier       string
	SuccessURL string
	CancelURL  string
}

// CheckoutSession is the created session the client is redirected to.
type CheckoutSession struct {
	ID  string
	URL string
}

// PaymentGateway defines the contract with the external payment
// processor.
type PaymentGateway interface {
	// CreateCustomer provisions a customer record and returns its id.
	CreateCustomer(ctx context.Context, email string, userID uuid.UUID) (string, error)
	// CreateCheckoutSession creates a hosted checkout session scoped to a
	// customer and price.
	CreateCheckoutSession(ctx context.Context, params CheckoutParams) (*CheckoutSession, error)
}
