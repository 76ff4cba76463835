package passreset

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"reno_market/internal/domain/models"
	"reno_market/internal/lib/logger/sl"
	"reno_market/internal/lib/token"
	"reno_market/internal/services/mailer"
	"reno_market/internal/storage"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type UserProvider interface {
	UserByEmail(ctx context.Context, email string) (models.User, error)
	UpdatePassword(ctx context.Context, userID uuid.UUID, password []byte) error
}

// Service issues and consumes password-reset tokens. The token itself
// carries no used flag: a still-unexpired token verifies again, the
// short TTL is the only bound on its lifetime.
type Service struct {
	log     *slog.Logger
	users   UserProvider
	tokens  *token.Manager
	mail    mailer.Mailer
	baseURL string
}

func New(log *slog.Logger, users UserProvider, tokens *token.Manager, mail mailer.Mailer, baseURL string) *Service {
	return &Service{
		log:     log,
		users:   users,
		tokens:  tokens,
		mail:    mail,
		baseURL: baseURL,
	}
}

// RequestReset mails a reset link to email. An unknown address is
// reported as success so the endpoint does not leak which emails are
// registered.
func (s *Service) RequestReset(ctx context.Context, email string) error {
	const op = "passreset.RequestReset"

	log := s.log.With(
		slog.String("op", op),
		slog.String("email", email),
	)

	user, err := s.users.UserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			log.Info("reset requested for unknown email")

			return nil
		}

		log.Error("failed to get user", sl.Err(err))

		return fmt.Errorf("%s: %w", op, err)
	}

	resetToken, err := s.tokens.Generate(user.ID.String())
	if err != nil {
		log.Error("failed to generate reset token", sl.Err(err))

		return fmt.Errorf("%s: %w", op, err)
	}

	link := fmt.Sprintf("%s/reset-password?token=%s", s.baseURL, resetToken)

	body := fmt.Sprintf(
		"Hi %s,\n\nFollow the link below to choose a new password. The link expires in %s.\n\n%s\n",
		user.Name, s.tokens.TTL(), link,
	)

	if err := s.mail.Send(ctx, user.Email, "Reset your password", body); err != nil {
		log.Error("failed to send reset mail", sl.Err(err))

		return fmt.Errorf("%s: %w", op, err)
	}

	log.Info("reset mail sent")

	return nil
}

// ResetPassword verifies resetToken and updates the user's password.
// Token errors (invalid, expired) propagate to the caller unchanged.
func (s *Service) ResetPassword(ctx context.Context, resetToken, newPassword string) error {
	const op = "passreset.ResetPassword"

	log := s.log.With(slog.String("op", op))

	payload, err := s.tokens.Verify(resetToken)
	if err != nil {
		log.Warn("reset token rejected", sl.Err(err))

		return err
	}

	userID, err := uuid.Parse(payload.Sub)
	if err != nil {
		return fmt.Errorf("%s: %w", op, token.ErrInvalidToken)
	}

	passHash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Error("failed to generate password hash", sl.Err(err))

		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.users.UpdatePassword(ctx, userID, passHash); err != nil {
		log.Error("failed to update password", sl.Err(err))

		return fmt.Errorf("%s: %w", op, err)
	}

	log.Info("password reset", slog.String("user_id", userID.String()))

	return nil
}
