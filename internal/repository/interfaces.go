package repository

import (
	"context"
	"time"

	"reno_market/internal/domain/models"

	"github.com/google/uuid"
)

type UserRepository interface {
	SaveUser(ctx context.Context, user models.User) (uuid.UUID, error)
	UserByEmail(ctx context.Context, email string) (models.User, error)
	UserByID(ctx context.Context, userID uuid.UUID) (models.User, error)
	IsAdmin(ctx context.Context, userID uuid.UUID) (bool, error)
	UpdatePassword(ctx context.Context, userID uuid.UUID, password []byte) error
	ConfirmEmail(ctx context.Context, userID uuid.UUID) error
	TouchLastLogin(ctx context.Context, userID uuid.UUID) error
}

type ProjectRepository interface {
	SaveProject(ctx context.Context, project models.Project) (uuid.UUID, error)
	ProjectByID(ctx context.Context, projectID uuid.UUID) (models.Project, error)
	ProjectBySlug(ctx context.Context, slug string) (models.Project, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	UpdateProjectFields(ctx context.Context, projectID uuid.UUID, updates map[string]interface{}) error
	DeleteProject(ctx context.Context, projectID uuid.UUID) error
	ListProjects(ctx context.Context, ownerID uuid.UUID, statusFilter string, page, perPage int) ([]models.Project, int, error)

	AddRoom(ctx context.Context, room models.Room) (uuid.UUID, error)
	DeleteRoom(ctx context.Context, roomID uuid.UUID) error
	ListRooms(ctx context.Context, projectID uuid.UUID) ([]models.Room, error)

	AddProduct(ctx context.Context, product models.Product) (uuid.UUID, error)
	DeleteProduct(ctx context.Context, productID uuid.UUID) error
	ListProducts(ctx context.Context, roomID uuid.UUID) ([]models.Product, error)

	ProjectSummary(ctx context.Context, projectID uuid.UUID) (models.ProjectSummary, error)
}

type InquiryRepository interface {
	SaveInquiry(ctx context.Context, inquiry models.Inquiry) (uuid.UUID, error)
	InquiryByID(ctx context.Context, inquiryID uuid.UUID) (models.Inquiry, error)
	UpdateInquiryStatus(ctx context.Context, inquiryID uuid.UUID, status models.InquiryStatus) error
	ListProjectInquiries(ctx context.Context, projectID uuid.UUID) ([]models.Inquiry, error)
	SaveQuote(ctx context.Context, quote models.Quote) (uuid.UUID, error)
	ListInquiryQuotes(ctx context.Context, inquiryID uuid.UUID) ([]models.Quote, error)
}

type MediaRepository interface {
	CreateMedia(ctx context.Context, media *models.Media) (*models.Media, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Media, error)
	ListProjectMedia(ctx context.Context, projectID uuid.UUID) ([]models.Media, error)
	DeleteMedia(ctx context.Context, id uuid.UUID) error
}

// SummaryCache stores computed project summaries with a TTL.
type SummaryCache interface {
	GetSummary(ctx context.Context, projectID uuid.UUID) (models.ProjectSummary, error)
	SetSummary(ctx context.Context, summary models.ProjectSummary, ttl time.Duration) error
	InvalidateSummary(ctx context.Context, projectID uuid.UUID) error
}
