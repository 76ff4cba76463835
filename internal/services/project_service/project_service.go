package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"reno_market/internal/domain/models"
	"reno_market/internal/lib/logger/sl"
	"reno_market/internal/repository"
	"reno_market/internal/storage"
	"reno_market/internal/transport/http/dto"

	"github.com/google/uuid"
)

var (
	ErrProjectNotFound = errors.New("project not found")
	ErrNotProjectOwner = errors.New("not the project owner")
)

const summaryTTL = 5 * time.Minute

type ProjectService struct {
	log   *slog.Logger
	repo  repository.ProjectRepository
	cache repository.SummaryCache
}

func NewProjectService(log *slog.Logger, repo repository.ProjectRepository, cache repository.SummaryCache) *ProjectService {
	return &ProjectService{
		log:   log,
		repo:  repo,
		cache: cache,
	}
}

func (s *ProjectService) CreateProject(ctx context.Context, ownerID uuid.UUID, req dto.CreateProjectRequest) (*models.Project, error) {
	const op = "project_service.CreateProject"

	log := s.log.With(
		slog.String("op", op),
		slog.String("owner_id", ownerID.String()),
	)

	slug, err := uniqueSlug(ctx, s.repo, req.Title)
	if err != nil {
		log.Error("failed to build slug", sl.Err(err))

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	project := models.Project{
		OwnerID:     ownerID,
		Slug:        slug,
		Title:       req.Title,
		Description: req.Description,
		Status:      models.ProjectStatusDraft,
		Tags:        req.Tags,
	}

	id, err := s.repo.SaveProject(ctx, project)
	if err != nil {
		log.Error("failed to save project", sl.Err(err))

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("project created", slog.String("project_id", id.String()), slog.String("slug", slug))

	created, err := s.repo.ProjectByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &created, nil
}

func (s *ProjectService) GetProjectBySlug(ctx context.Context, slug string) (*models.Project, error) {
	const op = "project_service.GetProjectBySlug"

	project, err := s.repo.ProjectBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, storage.ErrProjectNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrProjectNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &project, nil
}

func (s *ProjectService) UpdateProject(ctx context.Context, callerID, projectID uuid.UUID, req dto.UpdateProjectRequest) (*models.Project, error) {
	const op = "project_service.UpdateProject"

	if err := s.requireOwner(ctx, op, callerID, projectID); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Tags != nil {
		updates["tags"] = req.Tags
	}

	if len(updates) > 0 {
		if err := s.repo.UpdateProjectFields(ctx, projectID, updates); err != nil {
			s.log.Error("failed to update project", slog.String("op", op), sl.Err(err))

			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	project, err := s.repo.ProjectByID(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &project, nil
}

func (s *ProjectService) PublishProject(ctx context.Context, callerID, projectID uuid.UUID) (*models.Project, error) {
	return s.setStatus(ctx, "project_service.PublishProject", callerID, projectID, models.ProjectStatusPublished)
}

func (s *ProjectService) ArchiveProject(ctx context.Context, callerID, projectID uuid.UUID) (*models.Project, error) {
	return s.setStatus(ctx, "project_service.ArchiveProject", callerID, projectID, models.ProjectStatusArchived)
}

func (s *ProjectService) DeleteProject(ctx context.Context, callerID, projectID uuid.UUID) error {
	const op = "project_service.DeleteProject"

	if err := s.requireOwner(ctx, op, callerID, projectID); err != nil {
		return err
	}

	if err := s.repo.DeleteProject(ctx, projectID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.invalidateSummary(ctx, projectID)

	return nil
}

func (s *ProjectService) ListProjects(ctx context.Context, ownerID uuid.UUID, statusFilter string, page, perPage int) (*dto.ProjectListResponse, error) {
	const op = "project_service.ListProjects"

	projects, total, err := s.repo.ListProjects(ctx, ownerID, statusFilter, page, perPage)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	resp := &dto.ProjectListResponse{
		Projects:   make([]dto.ProjectResponse, 0, len(projects)),
		TotalCount: total,
		Page:       page,
		PerPage:    perPage,
	}
	for _, p := range projects {
		resp.Projects = append(resp.Projects, ToProjectResponse(p))
	}

	return resp, nil
}

func ToProjectResponse(p models.Project) dto.ProjectResponse {
	return dto.ProjectResponse{
		ID:          p.ID,
		OwnerID:     p.OwnerID,
		Slug:        p.Slug,
		Title:       p.Title,
		Description: p.Description,
		Status:      string(p.Status),
		Tags:        p.Tags,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func (s *ProjectService) AddRoom(ctx context.Context, callerID uuid.UUID, room models.Room) (uuid.UUID, error) {
	const op = "project_service.AddRoom"

	if err := s.requireOwner(ctx, op, callerID, room.ProjectID); err != nil {
		return uuid.Nil, err
	}

	id, err := s.repo.AddRoom(ctx, room)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	s.invalidateSummary(ctx, room.ProjectID)

	return id, nil
}

func (s *ProjectService) ListRooms(ctx context.Context, projectID uuid.UUID) ([]models.Room, error) {
	const op = "project_service.ListRooms"

	rooms, err := s.repo.ListRooms(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return rooms, nil
}

func (s *ProjectService) AddProduct(ctx context.Context, callerID, projectID uuid.UUID, product models.Product) (uuid.UUID, error) {
	const op = "project_service.AddProduct"

	if err := s.requireOwner(ctx, op, callerID, projectID); err != nil {
		return uuid.Nil, err
	}

	id, err := s.repo.AddProduct(ctx, product)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	s.invalidateSummary(ctx, projectID)

	return id, nil
}

func (s *ProjectService) ListProducts(ctx context.Context, roomID uuid.UUID) ([]models.Product, error) {
	const op = "project_service.ListProducts"

	products, err := s.repo.ListProducts(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return products, nil
}

// GetSummary returns the aggregated room/product/inquiry view of a
// project, served from the redis cache when fresh.
func (s *ProjectService) GetSummary(ctx context.Context, projectID uuid.UUID) (models.ProjectSummary, error) {
	const op = "project_service.GetSummary"

	if summary, err := s.cache.GetSummary(ctx, projectID); err == nil {
		return summary, nil
	} else if !errors.Is(err, storage.ErrCacheMiss) {
		s.log.Warn("summary cache read failed", slog.String("op", op), sl.Err(err))
	}

	summary, err := s.repo.ProjectSummary(ctx, projectID)
	if err != nil {
		return models.ProjectSummary{}, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.cache.SetSummary(ctx, summary, summaryTTL); err != nil {
		s.log.Warn("summary cache write failed", slog.String("op", op), sl.Err(err))
	}

	return summary, nil
}

func (s *ProjectService) setStatus(ctx context.Context, op string, callerID, projectID uuid.UUID, status models.ProjectStatus) (*models.Project, error) {
	if err := s.requireOwner(ctx, op, callerID, projectID); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateProjectFields(ctx, projectID, map[string]interface{}{"status": status}); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	project, err := s.repo.ProjectByID(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &project, nil
}

func (s *ProjectService) requireOwner(ctx context.Context, op string, callerID, projectID uuid.UUID) error {
	project, err := s.repo.ProjectByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, storage.ErrProjectNotFound) {
			return fmt.Errorf("%s: %w", op, ErrProjectNotFound)
		}

		return fmt.Errorf("%s: %w", op, err)
	}

	if project.OwnerID != callerID {
		return fmt.Errorf("%s: %w", op, ErrNotProjectOwner)
	}

	return nil
}

func (s *ProjectService) invalidateSummary(ctx context.Context, projectID uuid.UUID) {
	if err := s.cache.InvalidateSummary(ctx, projectID); err != nil {
		s.log.Warn("summary cache invalidation failed", sl.Err(err))
	}
}
