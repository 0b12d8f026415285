package postgres

import (
	"context"
	"errors"

	"github.com/ErlanBelekov/student-gifts/internal/domain"
	"github.com/jackc/pgx/v5"
)

type UserRepository struct {
	db DBTX
}

func NewUserRepository(db DBTX) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, u domain.NewUser) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO users (email, password_hash, full_name) VALUES ($1, $2, $3)`,
		u.Email, u.PasswordHash, u.FullName,
	)
	if err != nil {
		if pgCode(err) == pgUniqueViolation {
			return domain.NewService(domain.ReasonUserExists, domain.ServiceDetails{
				Type:        domain.ServiceInternal,
				ServiceName: serviceName,
				System:      systemName,
				Reason:      domain.ReasonUserExists,
				Value:       u.Email,
			}).Wrap(err)
		}
		return queryFailed("Failed to create user", "users.create", err).With("email", u.Email)
	}
	return nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	row := r.db.QueryRow(ctx,
		`SELECT email, full_name, created_at FROM users WHERE email = $1`, email)

	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, notFound("User not found", "users by email").With("email", email)
		}
		return nil, queryFailed("Failed to get user", "users.get", err).With("email", email)
	}

	rows, err := r.db.Query(ctx, `
		SELECT `+giftColumns+`
		FROM gifts g
		JOIN user_gifts ug ON ug.gift_id = g.id
		WHERE ug.user_email = $1
		ORDER BY ug.claimed_at ASC`, email)
	if err != nil {
		return nil, queryFailed("Failed to get claimed gifts", "users.get", err).With("email", email)
	}
	gifts, err := collectGifts(rows)
	if err != nil {
		return nil, queryFailed("Failed to get claimed gifts", "users.get", err).With("email", email)
	}
	u.ClaimedGifts = gifts

	return u, nil
}

func (r *UserRepository) Exists(ctx context.Context, email string) error {
	var found bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`, email).Scan(&found)
	if err != nil {
		return queryFailed("Failed to search user", "users.exists", err).With("email", email)
	}
	if !found {
		return notFound("User not found", "users by email").With("email", email)
	}
	return nil
}

func (r *UserRepository) FindCredentials(ctx context.Context, email string) (string, error) {
	var hash string
	err := r.db.QueryRow(ctx,
		`SELECT password_hash FROM users WHERE email = $1`, email).Scan(&hash)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", notFound("User not found", "users by credentials").With("email", email)
		}
		return "", queryFailed("Failed to search user", "users.credentials", err).With("email", email)
	}
	return hash, nil
}

func (r *UserRepository) UpdatePassword(ctx context.Context, email, passwordHash string) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE users SET password_hash = $2, updated_at = NOW() WHERE email = $1`,
		email, passwordHash)
	if err != nil {
		return queryFailed("Failed to update user", "users.update_password", err).With("email", email)
	}
	if tag.RowsAffected() == 0 {
		return notFound("User not found", "users by email").With("email", email)
	}
	return nil
}

func (r *UserRepository) ClaimGift(ctx context.Context, email, giftID string) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO user_gifts (user_email, gift_id) VALUES ($1, $2)
		ON CONFLICT (user_email, gift_id) DO NOTHING`,
		email, giftID)
	if err != nil {
		// Unknown user/gift or a gift id that is not a UUID.
		if code := pgCode(err); code == pgForeignKeyViolation || code == pgInvalidTextRepr {
			return notFound("User or gift not found", "user_gifts claim").
				With("email", email).With("gift_id", giftID)
		}
		return queryFailed("Failed to claim gift", "users.claim_gift", err).
			With("email", email).With("gift_id", giftID)
	}
	return nil
}

// pgx.Row and pgx.Rows both implement this.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*domain.User, error) {
	var u domain.User
	if err := row.Scan(&u.Email, &u.FullName, &u.CreatedAt); err != nil {
		return nil, err
	}
	u.ClaimedGifts = []domain.Gift{}
	return &u, nil
}
