package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/user/aimpact-scanner/internal/repository"
	"github.com/user/aimpact-scanner/pkg/metrics"
)

// CheckoutRequest carries a validated checkout invocation.
type CheckoutRequest struct {
	PriceID    string
	UserID     uuid.UUID
	Tier       string
	SuccessURL string
	CancelURL  string
}

// CheckoutOutcome is returned to the caller for client redirection.
type CheckoutOutcome struct {
	SessionID  string
	URL        string
	CustomerID string
}

// CheckoutInitiator defines the interface for creating hosted checkout
// sessions.
type CheckoutInitiator interface {
	CreateSession(ctx context.Context, req CheckoutRequest) (*CheckoutOutcome, error)
}

type checkoutUseCase struct {
	userRepo          repository.UserRepository
	gateway           repository.PaymentGateway
	defaultSuccessURL string
	defaultCancelURL  string
}

// NewCheckoutInitiator creates the checkout use case.
func NewCheckoutInitiator(
	userRepo repository.UserRepository,
	gateway repository.PaymentGateway,
	defaultSuccessURL, defaultCancelURL string,
) CheckoutInitiator {
	return &checkoutUseCase{
		userRepo:          userRepo,
		gateway:           gateway,
		defaultSuccessURL: defaultSuccessURL,
		defaultCancelURL:  defaultCancelURL,
	}
}

// CreateSession lazily provisions a payment-processor customer for the
// user, persists its id, and creates a checkout session. The provisioning
// is check-then-create: two concurrent first checkouts for one brand-new
// user can race into duplicate customers. Known and accepted; the second
// customer is simply never referenced again.
func (uc *checkoutUseCase) CreateSession(ctx context.Context, req CheckoutRequest) (*CheckoutOutcome, error) {
	user, err := uc.userRepo.FindByID(ctx, req.UserID)
	if err != nil {
		return nil, err
	}

	customerID := user.StripeCustomerID
	if customerID == "" {
		customerID, err = uc.gateway.CreateCustomer(ctx, user.Email, user.ID)
		if err != nil {
			metrics.CheckoutsTotal.WithLabelValues("failed").Inc()
			return nil, err
		}
		// Persisting the id is what makes the next request reuse this
		// customer instead of creating another one.
		if err := uc.userRepo.SetStripeCustomerID(ctx, user.ID, customerID); err != nil {
			metrics.CheckoutsTotal.WithLabelValues("failed").Inc()
			return nil, fmt.Errorf("failed to persist customer id: %w", err)
		}
		slog.Info("Provisioned payment customer", "user_id", user.ID, "customer_id", customerID)
	}

	successURL := req.SuccessURL
	if successURL == "" {
		successURL = uc.defaultSuccessURL
	}
	cancelURL := req.CancelURL
	if cancelURL == "" {
		cancelURL = uc.defaultCancelURL
	}

	session, err := uc.gateway.CreateCheckoutSession(ctx, repository.CheckoutParams{
		CustomerID: customerID,
		PriceID:    req.PriceID,
		Tier:       req.Tier,
		SuccessURL: successURL,
		CancelURL:  cancelURL,
	})
	if err != nil {
		metrics.CheckoutsTotal.WithLabelValues("failed").Inc()
		return nil, err
	}

	metrics.CheckoutsTotal.WithLabelValues("created").Inc()
	slog.Info("Checkout session created", "user_id", user.ID, "session_id", session.ID, "tier", req.Tier)

	return &CheckoutOutcome{
		SessionID:  session.ID,
		URL:        session.URL,
		CustomerID: customerID,
	}, nil
}
