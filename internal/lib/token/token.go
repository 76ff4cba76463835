package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

// ExpiredError is returned when a token is correctly signed but its
// expiry has passed. It carries the original expiry so callers can show
// it to the user. errors.Is(err, ErrTokenExpired) matches it.
type ExpiredError struct {
	ExpiredAt time.Time
}

func (e *ExpiredError) Error() string {
	return fmt.Sprintf("token expired at %s", e.ExpiredAt.UTC().Format(time.RFC3339))
}

func (e *ExpiredError) Is(target error) bool {
	return target == ErrTokenExpired
}

// Payload is the decoded content of a verified token.
type Payload struct {
	Sub       string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Config is the immutable per-purpose configuration of a Manager.
// Every purpose (access, refresh, password reset, email confirmation)
// gets its own secret, so a token signed for one purpose never verifies
// under another.
type Config struct {
	Secret string        `yaml:"secret" env-required:"true"`
	TTL    time.Duration `yaml:"ttl" env-required:"true"`
}

// Manager signs and verifies HS256 tokens scoped to a single purpose.
type Manager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewManager(cfg Config) *Manager {
	return &Manager{
		secret: []byte(cfg.Secret),
		ttl:    cfg.TTL,
		now:    time.Now,
	}
}

// TTL returns the configured token lifetime.
func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// Generate signs a token asserting identity for sub, valid for the
// configured TTL.
func (m *Manager) Generate(sub string) (string, error) {
	const op = "token.Generate"

	now := m.now()

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   sub,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
	})

	signed, err := t.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return signed, nil
}

// Verify decodes tokenString and validates its signature and expiry.
// A missing, malformed or foreign-signed token yields ErrInvalidToken;
// a correctly signed but stale token yields *ExpiredError.
func (m *Manager) Verify(tokenString string) (Payload, error) {
	const op = "token.Verify"

	if tokenString == "" {
		return Payload{}, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	claims := &jwt.RegisteredClaims{}

	_, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (interface{}, error) { return m.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		// Expiry is only reported once the signature checked out, so the
		// exp claim can be trusted here.
		if errors.Is(err, jwt.ErrTokenExpired) && claims.ExpiresAt != nil {
			return Payload{}, fmt.Errorf("%s: %w", op, &ExpiredError{ExpiredAt: claims.ExpiresAt.Time})
		}

		return Payload{}, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	p := Payload{Sub: claims.Subject}
	if claims.IssuedAt != nil {
		p.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		p.ExpiresAt = claims.ExpiresAt.Time
	}

	return p, nil
}
