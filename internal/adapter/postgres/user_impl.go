package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/user/aimpact-scanner/internal/entity"
	"github.com/user/aimpact-scanner/internal/repository"
)

// UserRepoImpl provides a concrete implementation for the UserRepository
// interface using PostgreSQL.
type UserRepoImpl struct {
	db *pgxpool.Pool
}

// NewUserRepo creates a new instance of UserRepoImpl.
func NewUserRepo(db *pgxpool.Pool) *UserRepoImpl {
	return &UserRepoImpl{db: db}
}

// FindByID retrieves a user by its id.
func (r *UserRepoImpl) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	query := `
		SELECT id, email, COALESCE(stripe_customer_id, ''), COALESCE(subscription_tier, 'free'), created_at
		FROM users
		WHERE id = $1;
	`
	row := r.db.QueryRow(ctx, query, id)

	var u entity.User
	err := row.Scan(
		&u.ID,
		&u.Email,
		&u.StripeCustomerID,
		&u.SubscriptionTier,
		&u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrUserNotFound
		}
		return nil, err
	}

	return &u, nil
}

// SetStripeCustomerID persists the payment-processor customer id onto the
// user row.
func (r *UserRepoImpl) SetStripeCustomerID(ctx context.Context, id uuid.UUID, customerID string) error {
	query := `UPDATE users SET stripe_customer_id = $2 WHERE id = $1;`
	tag, err := r.db.Exec(ctx, query, id, customerID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrUserNotFound
	}
	return nil
}
