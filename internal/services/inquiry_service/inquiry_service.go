package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"reno_market/internal/domain/models"
	"reno_market/internal/lib/logger/sl"
	"reno_market/internal/repository"
	"reno_market/internal/storage"
	"reno_market/internal/transport/http/dto"

	"github.com/google/uuid"
)

var (
	ErrInquiryNotFound     = errors.New("inquiry not found")
	ErrProjectNotPublished = errors.New("project is not published")
	ErrInvalidTransition   = errors.New("invalid inquiry status transition")
)

type InquiryService struct {
	log      *slog.Logger
	repo     repository.InquiryRepository
	projects repository.ProjectRepository
}

func NewInquiryService(log *slog.Logger, repo repository.InquiryRepository, projects repository.ProjectRepository) *InquiryService {
	return &InquiryService{
		log:      log,
		repo:     repo,
		projects: projects,
	}
}

// CreateInquiry opens an inquiry against a published project. Drafts
// and archived projects do not accept inquiries.
func (s *InquiryService) CreateInquiry(ctx context.Context, senderID uuid.UUID, req dto.CreateInquiryRequest) (*models.Inquiry, error) {
	const op = "inquiry_service.CreateInquiry"

	log := s.log.With(
		slog.String("op", op),
		slog.String("project_id", req.ProjectID.String()),
	)

	project, err := s.projects.ProjectByID(ctx, req.ProjectID)
	if err != nil {
		if errors.Is(err, storage.ErrProjectNotFound) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrProjectNotFound)
		}

		log.Error("failed to load project", sl.Err(err))

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if project.Status != models.ProjectStatusPublished {
		return nil, fmt.Errorf("%s: %w", op, ErrProjectNotPublished)
	}

	inquiry := models.Inquiry{
		ProjectID:      req.ProjectID,
		SenderID:       senderID,
		RecipientEmail: req.RecipientEmail,
		Message:        req.Message,
		Status:         models.InquiryStatusPending,
	}

	id, err := s.repo.SaveInquiry(ctx, inquiry)
	if err != nil {
		log.Error("failed to save inquiry", sl.Err(err))

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("inquiry created", slog.String("inquiry_id", id.String()))

	saved, err := s.repo.InquiryByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &saved, nil
}

// SubmitQuote records a quote and moves a pending inquiry to quoted.
// Additional quotes on an already quoted inquiry keep the status as is.
func (s *InquiryService) SubmitQuote(ctx context.Context, inquiryID uuid.UUID, req dto.SubmitQuoteRequest) (*models.Quote, error) {
	const op = "inquiry_service.SubmitQuote"

	log := s.log.With(
		slog.String("op", op),
		slog.String("inquiry_id", inquiryID.String()),
	)

	inquiry, err := s.getInquiry(ctx, op, inquiryID)
	if err != nil {
		return nil, err
	}

	if inquiry.Status != models.InquiryStatusPending && inquiry.Status != models.InquiryStatusQuoted {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidTransition)
	}

	quote := models.Quote{
		InquiryID:   inquiryID,
		AmountCents: req.AmountCents,
		Message:     req.Message,
	}

	quoteID, err := s.repo.SaveQuote(ctx, quote)
	if err != nil {
		log.Error("failed to save quote", sl.Err(err))

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if inquiry.Status == models.InquiryStatusPending {
		if err := s.repo.UpdateInquiryStatus(ctx, inquiryID, models.InquiryStatusQuoted); err != nil {
			log.Error("failed to update inquiry status", sl.Err(err))

			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	log.Info("quote submitted", slog.String("quote_id", quoteID.String()))

	quote.ID = quoteID

	return &quote, nil
}

// AcceptQuote moves a quoted inquiry to accepted.
func (s *InquiryService) AcceptQuote(ctx context.Context, inquiryID uuid.UUID) error {
	return s.resolve(ctx, "inquiry_service.AcceptQuote", inquiryID, models.InquiryStatusAccepted)
}

// DeclineQuote moves a quoted inquiry to declined.
func (s *InquiryService) DeclineQuote(ctx context.Context, inquiryID uuid.UUID) error {
	return s.resolve(ctx, "inquiry_service.DeclineQuote", inquiryID, models.InquiryStatusDeclined)
}

func (s *InquiryService) ListProjectInquiries(ctx context.Context, projectID uuid.UUID) ([]models.Inquiry, error) {
	const op = "inquiry_service.ListProjectInquiries"

	inquiries, err := s.repo.ListProjectInquiries(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return inquiries, nil
}

func (s *InquiryService) ListInquiryQuotes(ctx context.Context, inquiryID uuid.UUID) ([]models.Quote, error) {
	const op = "inquiry_service.ListInquiryQuotes"

	quotes, err := s.repo.ListInquiryQuotes(ctx, inquiryID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return quotes, nil
}

func (s *InquiryService) resolve(ctx context.Context, op string, inquiryID uuid.UUID, status models.InquiryStatus) error {
	inquiry, err := s.getInquiry(ctx, op, inquiryID)
	if err != nil {
		return err
	}

	if inquiry.Status != models.InquiryStatusQuoted {
		return fmt.Errorf("%s: %w", op, ErrInvalidTransition)
	}

	if err := s.repo.UpdateInquiryStatus(ctx, inquiryID, status); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("inquiry resolved",
		slog.String("op", op),
		slog.String("inquiry_id", inquiryID.String()),
		slog.String("status", string(status)),
	)

	return nil
}

func (s *InquiryService) getInquiry(ctx context.Context, op string, inquiryID uuid.UUID) (models.Inquiry, error) {
	inquiry, err := s.repo.InquiryByID(ctx, inquiryID)
	if err != nil {
		if errors.Is(err, storage.ErrInquiryNotFound) {
			return models.Inquiry{}, fmt.Errorf("%s: %w", op, ErrInquiryNotFound)
		}

		return models.Inquiry{}, fmt.Errorf("%s: %w", op, err)
	}

	return inquiry, nil
}
