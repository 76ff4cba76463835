package services

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"time"

	"reno_market/internal/domain/models"
	"reno_market/internal/lib/logger/sl"
	"reno_market/internal/repository"
	storage "reno_market/internal/storage/s3"
	"reno_market/internal/transport/http/dto"

	"github.com/google/uuid"
)

type MediaService struct {
	log         *slog.Logger
	repo        repository.MediaRepository
	fileStorage storage.FileStorage
}

func NewMediaService(log *slog.Logger, repo repository.MediaRepository, fileStorage storage.FileStorage) *MediaService {
	return &MediaService{
		log:         log,
		repo:        repo,
		fileStorage: fileStorage,
	}
}

// UploadMedia streams the multipart file into the bucket and records
// the media row. The object is removed again if the database write
// fails.
func (s *MediaService) UploadMedia(ctx context.Context, input dto.MediaUploadInput) (*models.Media, error) {
	const op = "media_service.UploadMedia"

	log := s.log.With(
		slog.String("op", op),
		slog.String("uploader_id", input.UploaderID.String()),
	)

	file, err := input.File.Open()
	if err != nil {
		log.Error("failed to open uploaded file", sl.Err(err))

		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer file.Close()

	key := storageKey(input)
	contentType := input.File.Header.Get("Content-Type")

	if err := s.fileStorage.Save(ctx, key, contentType, file, input.File.Size); err != nil {
		log.Error("failed to store object", sl.Err(err))

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	media := &models.Media{
		ID:               uuid.New(),
		UploaderID:       input.UploaderID,
		ProjectID:        input.ProjectID,
		StorageKey:       key,
		OriginalFilename: input.File.Filename,
		MimeType:         contentType,
		FileSize:         input.File.Size,
		CreatedAt:        time.Now().UTC(),
	}

	if err := media.Validate(); err != nil {
		_ = s.fileStorage.Delete(ctx, key)
		log.Error("media validation failed", sl.Err(err))

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	created, err := s.repo.CreateMedia(ctx, media)
	if err != nil {
		_ = s.fileStorage.Delete(ctx, key)
		log.Error("failed to save media row", sl.Err(err))

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("media uploaded", slog.String("media_id", created.ID.String()), slog.String("key", key))

	return created, nil
}

// MediaURL returns a short lived presigned GET link for the object.
func (s *MediaService) MediaURL(ctx context.Context, mediaID uuid.UUID) (string, error) {
	const op = "media_service.MediaURL"

	media, err := s.repo.FindByID(ctx, mediaID)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	url, err := s.fileStorage.PresignedGetURL(ctx, media.StorageKey)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return url, nil
}

func (s *MediaService) ListProjectMedia(ctx context.Context, projectID uuid.UUID) ([]models.Media, error) {
	const op = "media_service.ListProjectMedia"

	media, err := s.repo.ListProjectMedia(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return media, nil
}

// DeleteMedia removes the database row first, then the object. A
// failed object delete leaves an orphan in the bucket rather than a
// dangling row.
func (s *MediaService) DeleteMedia(ctx context.Context, mediaID uuid.UUID) error {
	const op = "media_service.DeleteMedia"

	media, err := s.repo.FindByID(ctx, mediaID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.repo.DeleteMedia(ctx, mediaID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.fileStorage.Delete(ctx, media.StorageKey); err != nil {
		s.log.Warn("failed to delete object", slog.String("op", op), sl.Err(err))
	}

	return nil
}

func storageKey(input dto.MediaUploadInput) string {
	name := uuid.New().String() + path.Ext(input.File.Filename)
	if input.ProjectID != nil {
		return path.Join("projects", input.ProjectID.String(), name)
	}

	return path.Join("user_uploads", input.UploaderID.String(), name)
}
