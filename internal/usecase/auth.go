package usecase

import (
	"context"
	"log/slog"
	"net/url"
	"time"

	"github.com/ErlanBelekov/student-gifts/internal/domain"
	"github.com/ErlanBelekov/student-gifts/internal/email"
	"github.com/ErlanBelekov/student-gifts/internal/metrics"
	"github.com/ErlanBelekov/student-gifts/internal/repository"
)

const serviceName = "AuthUsecase"

type TokenIssuer interface {
	Create(email string) (string, error)
	Verify(raw string) (string, error)
	TTL() time.Duration
}

type PasswordHasher interface {
	Hash(plain string) (string, error)
	Compare(hash, plain string) (bool, error)
}

type AuthUsecase struct {
	users         repository.UserRepository
	resets        repository.ResetTokenStore
	tokens        TokenIssuer
	hasher        PasswordHasher
	email         email.Sender
	resetLinkBase string
	logger        *slog.Logger
}

func NewAuthUsecase(
	users repository.UserRepository,
	resets repository.ResetTokenStore,
	tokens TokenIssuer,
	hasher PasswordHasher,
	emailSender email.Sender,
	resetLinkBase string,
	logger *slog.Logger,
) *AuthUsecase {
	return &AuthUsecase{
		users:         users,
		resets:        resets,
		tokens:        tokens,
		hasher:        hasher,
		email:         emailSender,
		resetLinkBase: resetLinkBase,
		logger:        logger.With("component", "auth"),
	}
}

// Authenticate returns a session token for matching credentials. An unknown
// email and a wrong password produce the same EntityNotFound error.
func (u *AuthUsecase) Authenticate(ctx context.Context, creds domain.SignInCreds) (tok string, err error) {
	defer func() { metrics.AuthEventsTotal.WithLabelValues("sign_in", metrics.Outcome(err)).Inc() }()

	hash, err := u.users.FindCredentials(ctx, creds.Email)
	if err != nil {
		if domain.IsKind(err, domain.KindEntityNotFound) {
			return "", badCredentials(creds.Email)
		}
		return "", serviceError(domain.ReasonAuthenticationFailed, creds.Email, err)
	}

	ok, err := u.hasher.Compare(hash, creds.Password)
	if err != nil {
		return "", serviceError(domain.ReasonAuthenticationFailed, creds.Email, err)
	}
	if !ok {
		return "", badCredentials(creds.Email)
	}

	tok, err = u.tokens.Create(creds.Email)
	if err != nil {
		return "", serviceError(domain.ReasonAuthenticationFailed, creds.Email, err)
	}
	return tok, nil
}

// CreateUser registers a new account and returns its first session token.
func (u *AuthUsecase) CreateUser(ctx context.Context, form domain.SignUpFormData) (tok string, err error) {
	defer func() { metrics.AuthEventsTotal.WithLabelValues("sign_up", metrics.Outcome(err)).Inc() }()

	err = u.users.Exists(ctx, form.Email)
	switch {
	case err == nil:
		return "", serviceError(domain.ReasonUserExists, form.Email, nil)
	case !domain.IsKind(err, domain.KindEntityNotFound):
		return "", serviceError(domain.ReasonUserCreationFailed, form.Email, err)
	}

	hash, err := u.hasher.Hash(form.Password)
	if err != nil {
		return "", serviceError(domain.ReasonUserCreationFailed, form.Email, err)
	}

	err = u.users.Create(ctx, domain.NewUser{Email: form.Email, PasswordHash: hash, FullName: form.FullName})
	if err != nil {
		// Lost a race with a concurrent sign-up for the same email.
		if domain.HasReason(err, domain.ReasonUserExists) {
			return "", err
		}
		return "", serviceError(domain.ReasonUserCreationFailed, form.Email, err)
	}

	tok, err = u.tokens.Create(form.Email)
	if err != nil {
		return "", serviceError(domain.ReasonUserCreationFailed, form.Email, err)
	}
	return tok, nil
}

// MatchUser starts a password reset: it issues a one-time token for an
// existing user, stores it as pending and mails a reset link. The token is
// also returned.
func (u *AuthUsecase) MatchUser(ctx context.Context, emailAddr string) (tok string, err error) {
	defer func() { metrics.AuthEventsTotal.WithLabelValues("match_user", metrics.Outcome(err)).Inc() }()

	if err = u.users.Exists(ctx, emailAddr); err != nil {
		return "", err
	}

	tok, err = u.tokens.Create(emailAddr)
	if err != nil {
		return "", serviceError(domain.ReasonPasswordUpdateFailed, emailAddr, err)
	}
	if err = u.resets.Save(ctx, emailAddr, tok, u.tokens.TTL()); err != nil {
		return "", serviceError(domain.ReasonPasswordUpdateFailed, emailAddr, err)
	}

	subject, body := email.ResetPassword(u.resetLink(emailAddr, tok))
	if sendErr := u.email.Send(ctx, emailAddr, subject, body); sendErr != nil {
		u.logger.WarnContext(ctx, "send reset email failed", "email", emailAddr, "error", sendErr)
	}

	return tok, nil
}

// UpdatePassword sets a new password using a token from MatchUser. The
// token must verify, belong to creds.Email and still be pending; it is
// consumed on success. Every token failure is "Invalid or missing token".
func (u *AuthUsecase) UpdatePassword(ctx context.Context, creds domain.SignInCreds, resetToken string) (err error) {
	defer func() { metrics.AuthEventsTotal.WithLabelValues("update_password", metrics.Outcome(err)).Inc() }()

	if resetToken == "" {
		return invalidOrMissingToken(creds.Email)
	}

	owner, err := u.tokens.Verify(resetToken)
	if err != nil {
		return invalidOrMissingToken(creds.Email).Wrap(err)
	}
	if owner != creds.Email {
		return invalidOrMissingToken(creds.Email)
	}

	ok, err := u.resets.Consume(ctx, creds.Email, resetToken)
	if err != nil {
		return serviceError(domain.ReasonPasswordUpdateFailed, creds.Email, err)
	}
	if !ok {
		return invalidOrMissingToken(creds.Email)
	}

	hash, err := u.hasher.Hash(creds.Password)
	if err != nil {
		return serviceError(domain.ReasonPasswordUpdateFailed, creds.Email, err)
	}
	return u.users.UpdatePassword(ctx, creds.Email, hash)
}

func (u *AuthUsecase) resetLink(emailAddr, tok string) string {
	q := url.Values{}
	q.Set("email", emailAddr)
	q.Set("token", tok)
	return u.resetLinkBase + "/reset-password?" + q.Encode()
}

func badCredentials(emailAddr string) *domain.Error {
	return domain.NewNotFound("User not found", domain.NotFoundDetails{
		Query:  "users by credentials",
		System: "Postgres",
	}).With("email", emailAddr)
}

func invalidOrMissingToken(emailAddr string) *domain.Error {
	return serviceError(domain.ReasonInvalidOrMissingToken, emailAddr, nil)
}

func serviceError(reason, emailAddr string, cause error) *domain.Error {
	d := domain.ServiceDetails{
		Type:        domain.ServiceInternal,
		ServiceName: serviceName,
		System:      "Auth",
		Reason:      reason,
		Value:       emailAddr,
	}
	e := domain.NewService(reason, d).With("email", emailAddr)
	if cause != nil {
		e.Wrap(cause)
	}
	return e
}
