package repository

import (
	"context"
	"errors"
	"fmt"

	"reno_market/internal/domain/models"
	"reno_market/internal/storage"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

type MediaRepo struct {
	db *pgxpool.Pool
	sb sq.StatementBuilderType
}

func NewMediaRepository(db *pgxpool.Pool) *MediaRepo {
	return &MediaRepo{
		db: db,
		sb: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

var mediaColumns = []string{"id", "uploader_id", "project_id", "storage_key", "original_filename", "mime_type", "file_size", "created_at"}

func (r *MediaRepo) CreateMedia(ctx context.Context, media *models.Media) (*models.Media, error) {
	const op = "repository.media_repository.CreateMedia"

	query, args, err := r.sb.Insert("media").
		Columns("id", "uploader_id", "project_id", "storage_key", "original_filename", "mime_type", "file_size", "created_at").
		Values(media.ID, media.UploaderID, media.ProjectID, media.StorageKey, media.OriginalFilename, media.MimeType, media.FileSize, media.CreatedAt).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: can't build sql: %w", op, err)
	}

	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return media, nil
}

func (r *MediaRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Media, error) {
	const op = "repository.media_repository.FindByID"

	query, args, err := r.sb.Select(mediaColumns...).From("media").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: can't build sql: %w", op, err)
	}

	var m models.Media
	err = r.db.QueryRow(ctx, query, args...).Scan(
		&m.ID, &m.UploaderID, &m.ProjectID, &m.StorageKey, &m.OriginalFilename, &m.MimeType, &m.FileSize, &m.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrMediaNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &m, nil
}

func (r *MediaRepo) ListProjectMedia(ctx context.Context, projectID uuid.UUID) ([]models.Media, error) {
	const op = "repository.media_repository.ListProjectMedia"

	query, args, err := r.sb.Select(mediaColumns...).
		From("media").
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

	var media []models.Media
	for rows.Next() {
		var m models.Media
		if err := rows.Scan(&m.ID, &m.UploaderID, &m.ProjectID, &m.StorageKey, &m.OriginalFilename, &m.MimeType, &m.FileSize, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		media = append(media, m)
	}

	return media, nil
}

func (r *MediaRepo) DeleteMedia(ctx context.Context, id uuid.UUID) error {
	const op = "repository.media_repository.DeleteMedia"

	query, args, err := r.sb.Delete("media").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("%s: can't build sql: %w", op, err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrMediaNotFound)
	}

	return nil
}
