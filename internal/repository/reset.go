package repository

import (
	"context"
	"time"
)

// ResetTokenStore holds pending one-time password reset tokens keyed by email.
type ResetTokenStore interface {
	// Save replaces any pending token for email.
	Save(ctx context.Context, email, token string, ttl time.Duration) error
	// Consume removes the pending token for email if it equals token and
	// reports whether it did. A second Consume with the same token returns false.
	Consume(ctx context.Context, email, token string) (bool, error)
}
