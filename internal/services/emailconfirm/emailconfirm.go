package emailconfirm

import (
	"context"
	"fmt"
	"log/slog"

	"reno_market/internal/domain/models"
	"reno_market/internal/lib/logger/sl"
	"reno_market/internal/lib/token"
	"reno_market/internal/services/mailer"

	"github.com/google/uuid"
)

type UserConfirmer interface {
	ConfirmEmail(ctx context.Context, userID uuid.UUID) error
}

// Service issues and consumes email-confirmation tokens mailed to
// freshly registered users. Like the reset tokens, they are not marked
// used: confirming twice is a harmless no-op on an already confirmed
// row.
type Service struct {
	log     *slog.Logger
	users   UserConfirmer
	tokens  *token.Manager
	mail    mailer.Mailer
	baseURL string
}

func New(log *slog.Logger, users UserConfirmer, tokens *token.Manager, mail mailer.Mailer, baseURL string) *Service {
	return &Service{
		log:     log,
		users:   users,
		tokens:  tokens,
		mail:    mail,
		baseURL: baseURL,
	}
}

// SendConfirmation mails a confirmation link to user.
func (s *Service) SendConfirmation(ctx context.Context, user models.User) error {
	const op = "emailconfirm.SendConfirmation"

	log := s.log.With(
		slog.String("op", op),
		slog.String("email", user.Email),
	)

	confirmToken, err := s.tokens.Generate(user.ID.String())
	if err != nil {
		log.Error("failed to generate confirmation token", sl.Err(err))

		return fmt.Errorf("%s: %w", op, err)
	}

	link := fmt.Sprintf("%s/confirm-email?token=%s", s.baseURL, confirmToken)

	body := fmt.Sprintf(
		"Hi %s,\n\nConfirm your email address by following the link below. The link expires in %s.\n\n%s\n",
		user.Name, s.tokens.TTL(), link,
	)

	if err := s.mail.Send(ctx, user.Email, "Confirm your email address", body); err != nil {
		log.Error("failed to send confirmation mail", sl.Err(err))

		return fmt.Errorf("%s: %w", op, err)
	}

	log.Info("confirmation mail sent")

	return nil
}

// Confirm verifies confirmToken and marks the user's email confirmed.
// Token errors propagate unchanged.
func (s *Service) Confirm(ctx context.Context, confirmToken string) error {
	const op = "emailconfirm.Confirm"

	log := s.log.With(slog.String("op", op))

	payload, err := s.tokens.Verify(confirmToken)
	if err != nil {
		log.Warn("confirmation token rejected", sl.Err(err))

		return err
	}

	userID, err := uuid.Parse(payload.Sub)
	if err != nil {
		return fmt.Errorf("%s: %w", op, token.ErrInvalidToken)
	}

	if err := s.users.ConfirmEmail(ctx, userID); err != nil {
		log.Error("failed to confirm email", sl.Err(err))

		return fmt.Errorf("%s: %w", op, err)
	}

	log.Info("email confirmed", slog.String("user_id", userID.String()))

	return nil
}
