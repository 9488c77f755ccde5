package entity

import (
	"time"

	"github.com/google/uuid"
)

// User mirrors the `users` PostgreSQL table schema. StripeCustomerID is
// empty until the first checkout lazily provisions a customer.
type User struct {
	ID               uuid.UUID
	Email            string
	StripeCustomerID string
	SubscriptionTier string
	CreatedAt        time.Time
}
