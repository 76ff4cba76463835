package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"reno_market/internal/domain/models"
	"reno_market/internal/storage"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

type InquiryRepo struct {
	db *pgxpool.Pool
	sb sq.StatementBuilderType
}

func NewInquiryRepository(db *pgxpool.Pool) *InquiryRepo {
	return &InquiryRepo{
		db: db,
		sb: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

var inquiryColumns = []string{"id", "project_id", "sender_id", "recipient_email", "message", "status", "created_at"}

func (r *InquiryRepo) SaveInquiry(ctx context.Context, inquiry models.Inquiry) (uuid.UUID, error) {
	const op = "repository.inquiry_repository.SaveInquiry"

	query, args, err := r.sb.Insert("inquiries").
		Columns("project_id", "sender_id", "recipient_email", "message", "status", "created_at").
		Values(inquiry.ProjectID, inquiry.SenderID, inquiry.RecipientEmail, inquiry.Message, inquiry.Status, time.Now().UTC()).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s: can't build sql: %w", op, err)
	}

	var id uuid.UUID
	if err := r.db.QueryRow(ctx, query, args...).Scan(&id); err != nil {
		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	return id, nil
}

func (r *InquiryRepo) InquiryByID(ctx context.Context, inquiryID uuid.UUID) (models.Inquiry, error) {
	const op = "repository.inquiry_repository.InquiryByID"

	query, args, err := r.sb.Select(inquiryColumns...).From("inquiries").Where(sq.Eq{"id": inquiryID}).ToSql()
	if err != nil {
		return models.Inquiry{}, fmt.Errorf("%s: can't build sql: %w", op, err)
	}

	var inq models.Inquiry
	err = r.db.QueryRow(ctx, query, args...).Scan(
		&inq.ID, &inq.ProjectID, &inq.SenderID, &inq.RecipientEmail, &inq.Message, &inq.Status, &inq.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Inquiry{}, fmt.Errorf("%s: %w", op, storage.ErrInquiryNotFound)
		}
		return models.Inquiry{}, fmt.Errorf("%s: %w", op, err)
	}

	return inq, nil
}

func (r *InquiryRepo) UpdateInquiryStatus(ctx context.Context, inquiryID uuid.UUID, status models.InquiryStatus) error {
	const op = "repository.inquiry_repository.UpdateInquiryStatus"

	query, args, err := r.sb.Update("inquiries").Set("status", status).Where(sq.Eq{"id": inquiryID}).ToSql()
	if err != nil {
		return fmt.Errorf("%s: can't build sql: %w", op, err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrInquiryNotFound)
	}

	return nil
}

func (r *InquiryRepo) ListProjectInquiries(ctx context.Context, projectID uuid.UUID) ([]models.Inquiry, error) {
	const op = "repository.inquiry_repository.ListProjectInquiries"

	query, args, err := r.sb.Select(inquiryColumns...).
		From("inquiries").
		Where(sq.Eq{"project_id": projectID}).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: can't build sql: %w", op, err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var inquiries []models.Inquiry
	for rows.Next() {
		var inq models.Inquiry
		if err := rows.Scan(&inq.ID, &inq.ProjectID, &inq.SenderID, &inq.RecipientEmail, &inq.Message, &inq.Status, &inq.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		inquiries = append(inquiries, inq)
	}

	return inquiries, nil
}

func (r *InquiryRepo) SaveQuote(ctx context.Context, quote models.Quote) (uuid.UUID, error) {
	const op = "repository.inquiry_repository.SaveQuote"

	query, args, err := r.sb.Insert("quotes").
		Columns("inquiry_id", "amount_cents", "message", "created_at").
		Values(quote.InquiryID, quote.AmountCents, quote.Message, time.Now().UTC()).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s: can't build sql: %w", op, err)
	}

	var id uuid.UUID
	if err := r.db.QueryRow(ctx, query, args...).Scan(&id); err != nil {
		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	return id, nil
}

func (r *InquiryRepo) ListInquiryQuotes(ctx context.Context, inquiryID uuid.UUID) ([]models.Quote, error) {
	const op = "repository.inquiry_repository.ListInquiryQuotes"

	query, args, err := r.sb.Select("id", "inquiry_id", "amount_cents", "message", "created_at").
		From("quotes").
		Where(sq.Eq{"inquiry_id": inquiryID}).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: can't build sql: %w", op, err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var quotes []models.Quote
	for rows.Next() {
		var q models.Quote
		if err := rows.Scan(&q.ID, &q.InquiryID, &q.AmountCents, &q.Message, &q.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		quotes = append(quotes, q)
	}

	return quotes, nil
}
