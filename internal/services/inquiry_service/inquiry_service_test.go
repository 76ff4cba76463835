package services

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"reno_market/internal/domain/models"
	"reno_market/internal/storage"
	"reno_market/internal/transport/http/dto"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockInquiryRepository struct {
	mock.Mock
}

func (m *MockInquiryRepository) SaveInquiry(ctx context.Context, inquiry models.Inquiry) (uuid.UUID, error) {
	args := m.Called(ctx, inquiry)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *MockInquiryRepository) InquiryByID(ctx context.Context, inquiryID uuid.UUID) (models.Inquiry, error) {
	args := m.Called(ctx, inquiryID)
	return args.Get(0).(models.Inquiry), args.Error(1)
}

func (m *MockInquiryRepository) UpdateInquiryStatus(ctx context.Context, inquiryID uuid.UUID, status models.InquiryStatus) error {
	args := m.Called(ctx, inquiryID, status)
	return args.Error(0)
}

func (m *MockInquiryRepository) ListProjectInquiries(ctx context.Context, projectID uuid.UUID) ([]models.Inquiry, error) {
	args := m.Called(ctx, projectID)
	return args.Get(0).([]models.Inquiry), args.Error(1)
}

func (m *MockInquiryRepository) SaveQuote(ctx context.Context, quote models.Quote) (uuid.UUID, error) {
	args := m.Called(ctx, quote)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *MockInquiryRepository) ListInquiryQuotes(ctx context.Context, inquiryID uuid.UUID) ([]models.Quote, error) {
	args := m.Called(ctx, inquiryID)
	return args.Get(0).([]models.Quote), args.Error(1)
}

type MockProjectProvider struct {
	mock.Mock
}

func (m *MockProjectProvider) ProjectByID(ctx context.Context, projectID uuid.UUID) (models.Project, error) {
	args := m.Called(ctx, projectID)
	return args.Get(0).(models.Project), args.Error(1)
}

func (m *MockProjectProvider) SaveProject(ctx context.Context, project models.Project) (uuid.UUID, error) {
	args := m.Called(ctx, project)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *MockProjectProvider) ProjectBySlug(ctx context.Context, slug string) (models.Project, error) {
	args := m.Called(ctx, slug)
	return args.Get(0).(models.Project), args.Error(1)
}

func (m *MockProjectProvider) SlugExists(ctx context.Context, slug string) (bool, error) {
	args := m.Called(ctx, slug)
	return args.Bool(0), args.Error(1)
}

func (m *MockProjectProvider) UpdateProjectFields(ctx context.Context, projectID uuid.UUID, updates map[string]interface{}) error {
	args := m.Called(ctx, projectID, updates)
	return args.Error(0)
}

func (m *MockProjectProvider) DeleteProject(ctx context.Context, projectID uuid.UUID) error {
	args := m.Called(ctx, projectID)
	return args.Error(0)
}

func (m *MockProjectProvider) ListProjects(ctx context.Context, ownerID uuid.UUID, statusFilter string, page, perPage int) ([]models.Project, int, error) {
	args := m.Called(ctx, ownerID, statusFilter, page, perPage)
	return args.Get(0).([]models.Project), args.Int(1), args.Error(2)
}

func (m *MockProjectProvider) AddRoom(ctx context.Context, room models.Room) (uuid.UUID, error) {
	args := m.Called(ctx, room)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *MockProjectProvider) DeleteRoom(ctx context.Context, roomID uuid.UUID) error {
	args := m.Called(ctx, roomID)
	return args.Error(0)
}

func (m *MockProjectProvider) ListRooms(ctx context.Context, projectID uuid.UUID) ([]models.Room, error) {
	args := m.Called(ctx, projectID)
	return args.Get(0).([]models.Room), args.Error(1)
}

func (m *MockProjectProvider) AddProduct(ctx context.Context, product models.Product) (uuid.UUID, error) {
	args := m.Called(ctx, product)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *MockProjectProvider) DeleteProduct(ctx context.Context, productID uuid.UUID) error {
	args := m.Called(ctx, productID)
	return args.Error(0)
}

func (m *MockProjectProvider) ListProducts(ctx context.Context, roomID uuid.UUID) ([]models.Product, error) {
	args := m.Called(ctx, roomID)
	return args.Get(0).([]models.Product), args.Error(1)
}

func (m *MockProjectProvider) ProjectSummary(ctx context.Context, projectID uuid.UUID) (models.ProjectSummary, error) {
	args := m.Called(ctx, projectID)
	return args.Get(0).(models.ProjectSummary), args.Error(1)
}

func newTestService(repo *MockInquiryRepository, projects *MockProjectProvider) *InquiryService {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewInquiryService(log, repo, projects)
}

func TestInquiryService_CreateInquiry(t *testing.T) {
	ctx := context.Background()
	senderID := uuid.New()
	projectID := uuid.New()
	inquiryID := uuid.New()

	req := dto.CreateInquiryRequest{
		ProjectID:      projectID,
		RecipientEmail: "contractor@example.com",
		Message:        "Please quote the kitchen remodel",
	}

	t.Run("published project accepts inquiries", func(t *testing.T) {
		repo := new(MockInquiryRepository)
		projects := new(MockProjectProvider)
		service := newTestService(repo, projects)

		projects.On("ProjectByID", ctx, projectID).Return(models.Project{
			ID:     projectID,
			Status: models.ProjectStatusPublished,
		}, nil).Once()

		repo.On("SaveInquiry", ctx, mock.MatchedBy(func(i models.Inquiry) bool {
			return i.Status == models.InquiryStatusPending && i.SenderID == senderID
		})).Return(inquiryID, nil).Once()

		repo.On("InquiryByID", ctx, inquiryID).Return(models.Inquiry{
			ID:     inquiryID,
			Status: models.InquiryStatusPending,
		}, nil).Once()

		inquiry, err := service.CreateInquiry(ctx, senderID, req)
		require.NoError(t, err)
		assert.Equal(t, models.InquiryStatusPending, inquiry.Status)

		repo.AssertExpectations(t)
	})

	t.Run("draft project rejects inquiries", func(t *testing.T) {
		repo := new(MockInquiryRepository)
		projects := new(MockProjectProvider)
		service := newTestService(repo, projects)

		projects.On("ProjectByID", ctx, projectID).Return(models.Project{
			ID:     projectID,
			Status: models.ProjectStatusDraft,
		}, nil).Once()

		_, err := service.CreateInquiry(ctx, senderID, req)
		assert.ErrorIs(t, err, ErrProjectNotPublished)

		repo.AssertNotCalled(t, "SaveInquiry", mock.Anything, mock.Anything)
	})

	t.Run("missing project", func(t *testing.T) {
		repo := new(MockInquiryRepository)
		projects := new(MockProjectProvider)
		service := newTestService(repo, projects)

		projects.On("ProjectByID", ctx, projectID).Return(models.Project{}, storage.ErrProjectNotFound).Once()

		_, err := service.CreateInquiry(ctx, senderID, req)
		assert.ErrorIs(t, err, storage.ErrProjectNotFound)
	})
}

func TestInquiryService_SubmitQuote(t *testing.T) {
	ctx := context.Background()
	inquiryID := uuid.New()
	quoteID := uuid.New()

	req := dto.SubmitQuoteRequest{AmountCents: 250000, Message: "Two week estimate"}

	t.Run("pending inquiry becomes quoted", func(t *testing.T) {
		repo := new(MockInquiryRepository)
		projects := new(MockProjectProvider)
		service := newTestService(repo, projects)

		repo.On("InquiryByID", ctx, inquiryID).Return(models.Inquiry{
			ID:     inquiryID,
			Status: models.InquiryStatusPending,
		}, nil).Once()

		repo.On("SaveQuote", ctx, mock.MatchedBy(func(q models.Quote) bool {
			return q.InquiryID == inquiryID && q.AmountCents == 250000
		})).Return(quoteID, nil).Once()

		repo.On("UpdateInquiryStatus", ctx, inquiryID, models.InquiryStatusQuoted).Return(nil).Once()

		quote, err := service.SubmitQuote(ctx, inquiryID, req)
		require.NoError(t, err)
		assert.Equal(t, quoteID, quote.ID)

		repo.AssertExpectations(t)
	})

	t.Run("second quote keeps status quoted", func(t *testing.T) {
		repo := new(MockInquiryRepository)
		projects := new(MockProjectProvider)
		service := newTestService(repo, projects)

		repo.On("InquiryByID", ctx, inquiryID).Return(models.Inquiry{
			ID:     inquiryID,
			Status: models.InquiryStatusQuoted,
		}, nil).Once()

		repo.On("SaveQuote", ctx, mock.AnythingOfType("models.Quote")).Return(quoteID, nil).Once()

		_, err := service.SubmitQuote(ctx, inquiryID, req)
		require.NoError(t, err)

		repo.AssertNotCalled(t, "UpdateInquiryStatus", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("accepted inquiry rejects new quotes", func(t *testing.T) {
		repo := new(MockInquiryRepository)
		projects := new(MockProjectProvider)
		service := newTestService(repo, projects)

		repo.On("InquiryByID", ctx, inquiryID).Return(models.Inquiry{
			ID:     inquiryID,
			Status: models.InquiryStatusAccepted,
		}, nil).Once()

		_, err := service.SubmitQuote(ctx, inquiryID, req)
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})
}

func TestInquiryService_AcceptDecline(t *testing.T) {
	ctx := context.Background()
	inquiryID := uuid.New()

	t.Run("quoted inquiry can be accepted", func(t *testing.T) {
		repo := new(MockInquiryRepository)
		projects := new(MockProjectProvider)
		service := newTestService(repo, projects)

		repo.On("InquiryByID", ctx, inquiryID).Return(models.Inquiry{
			ID:     inquiryID,
			Status: models.InquiryStatusQuoted,
		}, nil).Once()
		repo.On("UpdateInquiryStatus", ctx, inquiryID, models.InquiryStatusAccepted).Return(nil).Once()

		require.NoError(t, service.AcceptQuote(ctx, inquiryID))
		repo.AssertExpectations(t)
	})

	t.Run("pending inquiry cannot be declined", func(t *testing.T) {
		repo := new(MockInquiryRepository)
		projects := new(MockProjectProvider)
		service := newTestService(repo, projects)

		repo.On("InquiryByID", ctx, inquiryID).Return(models.Inquiry{
			ID:     inquiryID,
			Status: models.InquiryStatusPending,
		}, nil).Once()

		err := service.DeclineQuote(ctx, inquiryID)
		assert.ErrorIs(t, err, ErrInvalidTransition)

		repo.AssertNotCalled(t, "UpdateInquiryStatus", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("missing inquiry", func(t *testing.T) {
		repo := new(MockInquiryRepository)
		projects := new(MockProjectProvider)
		service := newTestService(repo, projects)

		repo.On("InquiryByID", ctx, inquiryID).Return(models.Inquiry{}, storage.ErrInquiryNotFound).Once()

		err := service.AcceptQuote(ctx, inquiryID)
		assert.ErrorIs(t, err, ErrInquiryNotFound)
	})
}
