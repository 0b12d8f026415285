// Package token issues and verifies the signed bearer tokens handed to
// signed-in users and to password reset links.
package token

import (
	"fmt"
	"strings"
	"time"

	"github.com/ErlanBelekov/student-gifts/internal/domain"
	"github.com/golang-jwt/jwt/v5"
)

const DefaultTTL = time.Hour

type claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

type Manager struct {
	key    []byte
	method jwt.SigningMethod
	ttl    time.Duration
	now    func() time.Time
}

// NewManager accepts HS256, HS384 and HS512.
func NewManager(secret []byte, alg string, ttl time.Duration) (*Manager, error) {
	method := jwt.GetSigningMethod(alg)
	if _, ok := method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unsupported signing algorithm %q", alg)
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Manager{key: secret, method: method, ttl: ttl, now: time.Now}, nil
}

// TTL is how long issued tokens stay valid.
func (m *Manager) TTL() time.Duration {
	return m.ttl
}

func (m *Manager) Create(email string) (string, error) {
	now := m.now()
	t := jwt.NewWithClaims(m.method, claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	})
	signed, err := t.SignedString(m.key)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks signature, algorithm and expiry and returns the email the
// token was issued for. Every failure is the same "Invalid token" error.
func (m *Manager) Verify(raw string) (string, error) {
	raw = StripBearer(raw)
	if raw == "" {
		return "", invalid("empty token", nil)
	}

	var c claims
	_, err := jwt.ParseWithClaims(raw, &c, func(*jwt.Token) (any, error) {
		return m.key, nil
	},
		jwt.WithValidMethods([]string{m.method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return "", invalid(err.Error(), err)
	}
	if c.Email == "" {
		return "", invalid("missing email claim", nil)
	}
	return c.Email, nil
}

// StripBearer accepts both "Bearer <token>" and a bare token.
func StripBearer(header string) string {
	header = strings.TrimSpace(header)
	if len(header) > 7 && strings.EqualFold(header[:7], "bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return header
}

func invalid(value string, cause error) *domain.Error {
	e := domain.NewService(domain.ReasonInvalidToken, domain.ServiceDetails{
		Type:        domain.ServiceInternal,
		ServiceName: "TokenManager",
		System:      "JWT",
		Reason:      domain.ReasonInvalidToken,
		Value:       value,
	})
	if cause != nil {
		e.Wrap(cause)
	}
	return e
}
