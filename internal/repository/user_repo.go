package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/user/aimpact-scanner/internal/entity"
)

// ErrUserNotFound is returned when no user row exists for an id.
var ErrUserNotFound = errors.New("user not found")

// UserRepository defines the interface for the `users` table.
type UserRepository interface {
	// FindByID retrieves a user, or ErrUserNotFound.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	// SetStripeCustomerID persists a lazily provisioned payment-processor
	// customer id onto the user row.
	SetStripeCustomerID(ctx context.Context, id uuid.UUID, customerID string) error
}
