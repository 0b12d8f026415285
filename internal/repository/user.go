package repository

import (
	"context"

	"github.com/ErlanBelekov/student-gifts/internal/domain"
)

// UserRepository returns *domain.Error for every expected failure:
// EntityNotFound on a lookup miss, Service for anything the store reports.
type UserRepository interface {
	Create(ctx context.Context, user domain.NewUser) error
	// GetByEmail loads the user together with the gifts they claimed.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	// Exists returns nil when a user with this email is stored.
	Exists(ctx context.Context, email string) error
	// FindCredentials returns the stored password hash for email.
	FindCredentials(ctx context.Context, email string) (string, error)
	UpdatePassword(ctx context.Context, email, passwordHash string) error
	// ClaimGift links a gift to the user. Claiming twice is not an error.
	ClaimGift(ctx context.Context, email, giftID string) error
}
