package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"reno_market/internal/domain/models"
	"reno_market/internal/lib/logger/sl"
	"reno_market/internal/lib/token"
	"reno_market/internal/storage"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserExist          = errors.New("user already exist")
	ErrUserNotFound       = errors.New("user not found")
)

const (
	// RefreshCookieName is the HTTP-only cookie carrying the refresh
	// token. It is scoped to the refresh endpoint only, so the browser
	// never sends it anywhere else.
	RefreshCookieName = "rt"
	RefreshCookiePath = "/refresh_token"
)

//go:generate go run github.com/vektra/mockery/v2@v2.53.3 --all
type UserSaver interface {
	SaveUser(ctx context.Context, user models.User) (uuid.UUID, error)
}

type UserProvider interface {
	UserByEmail(ctx context.Context, email string) (models.User, error)
	TouchLastLogin(ctx context.Context, userID uuid.UUID) error
}

// Auth binds the access and refresh token managers to their transport
// conventions (bearer header vs rt cookie) and owns the credential
// flows. Refresh tokens are stateless: logout only clears the cookie,
// there is no server-side revocation list.
type Auth struct {
	log         *slog.Logger
	usrSaver    UserSaver
	usrProvider UserProvider
	access      *token.Manager
	refresh     *token.Manager
}

func New(log *slog.Logger, userSaver UserSaver, userProvider UserProvider, access, refresh *token.Manager) *Auth {
	return &Auth{
		log:         log,
		usrSaver:    userSaver,
		usrProvider: userProvider,
		access:      access,
		refresh:     refresh,
	}
}

func (a *Auth) AccessTokenTTL() time.Duration {
	return a.access.TTL()
}

// GenerateAccessToken signs a short-lived bearer token for userID. The
// caller embeds it in the response payload.
func (a *Auth) GenerateAccessToken(userID uuid.UUID) (string, error) {
	const op = "auth.GenerateAccessToken"

	t, err := a.access.Generate(userID.String())
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return t, nil
}

// VerifyAccessToken extracts the bearer token from the Authorization
// header and verifies it. A missing header verifies an empty token,
// which fails as invalid. Typed token errors propagate unchanged.
func (a *Auth) VerifyAccessToken(r *http.Request) (token.Payload, error) {
	return a.access.Verify(bearerToken(r))
}

// GenerateRefreshToken issues a refresh token and sets it as the rt
// cookie on the outgoing response.
func (a *Auth) GenerateRefreshToken(w http.ResponseWriter, userID uuid.UUID) error {
	const op = "auth.GenerateRefreshToken"

	t, err := a.refresh.Generate(userID.String())
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     RefreshCookieName,
		Value:    t,
		Path:     RefreshCookiePath,
		MaxAge:   int(a.refresh.TTL().Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})

	return nil
}

// VerifyRefreshToken reads the rt cookie and verifies it. A missing
// cookie verifies an empty token, which fails as invalid.
func (a *Auth) VerifyRefreshToken(r *http.Request) (token.Payload, error) {
	var value string
	if c, err := r.Cookie(RefreshCookieName); err == nil {
		value = c.Value
	}

	return a.refresh.Verify(value)
}

// InvalidateRefreshToken clears the rt cookie. This is the only logout
// semantic: a copy of the token stays valid until its natural expiry.
func (a *Auth) InvalidateRefreshToken(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     RefreshCookieName,
		Value:    "",
		Path:     RefreshCookiePath,
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}

func (a *Auth) Login(ctx context.Context, email, password string) (models.User, error) {
	const op = "auth.Login"

	log := a.log.With(
		slog.String("op", op),
		slog.String("email", email),
	)

	log.Info("attempting to login user")

	user, err := a.usrProvider.UserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			a.log.Warn("user not found", sl.Err(err))

			return models.User{}, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
		}
		a.log.Error("failed to get user", sl.Err(err))

		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	if err := bcrypt.CompareHashAndPassword(user.Password, []byte(password)); err != nil {
		a.log.Info("invalid credentials", sl.Err(err))

		return models.User{}, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	if err := a.usrProvider.TouchLastLogin(ctx, user.ID); err != nil {
		a.log.Warn("failed to update last login", sl.Err(err))
	}

	log.Info("user logged in successfully")

	return user, nil
}

func (a *Auth) RegisterNewUser(ctx context.Context, name, email, phone, pass string) (uuid.UUID, error) {
	const op = "auth.RegisterNewUser"

	log := a.log.With(
		slog.String("op", op),
		slog.String("email", email),
	)

	log.Info("register user")

	passHash, err := bcrypt.GenerateFromPassword([]byte(pass), bcrypt.DefaultCost)
	if err != nil {
		log.Error("failed to generate password hash", sl.Err(err))

		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	id, err := a.usrSaver.SaveUser(ctx, models.User{
		Name:     name,
		Email:    email,
		Phone:    phone,
		Password: passHash,
	})
	if err != nil {
		if errors.Is(err, storage.ErrUserExists) {
			log.Warn("user already exist", slog.Any("error", err.Error()))

			return uuid.Nil, fmt.Errorf("%s: %w", op, ErrUserExist)
		}

		log.Error("failed to save user", sl.Err(err))

		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("user registered")

	return id, nil
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}

	return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
}
