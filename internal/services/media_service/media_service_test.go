package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/textproto"
	"strings"
	"testing"

	"reno_market/internal/domain/models"
	"reno_market/internal/storage"
	"reno_market/internal/transport/http/dto"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockMediaRepository struct {
	mock.Mock
}

func (m *MockMediaRepository) CreateMedia(ctx context.Context, media *models.Media) (*models.Media, error) {
	args := m.Called(ctx, media)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Media), args.Error(1)
}

func (m *MockMediaRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Media, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Media), args.Error(1)
}

func (m *MockMediaRepository) ListProjectMedia(ctx context.Context, projectID uuid.UUID) ([]models.Media, error) {
	args := m.Called(ctx, projectID)
	return args.Get(0).([]models.Media), args.Error(1)
}

func (m *MockMediaRepository) DeleteMedia(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockFileStorage struct {
	mock.Mock
}

func (m *MockFileStorage) Save(ctx context.Context, key, contentType string, body io.Reader, size int64) error {
	args := m.Called(ctx, key, contentType, body, size)
	return args.Error(0)
}

func (m *MockFileStorage) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockFileStorage) PresignedGetURL(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

// buildFileHeader produces a real multipart.FileHeader backed by an
// in-memory form, so input.File.Open works in tests.
func buildFileHeader(t *testing.T, filename, contentType, content string) *multipart.FileHeader {
	t.Helper()

	var buf strings.Builder
	w := multipart.NewWriter(&buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
	h.Set("Content-Type", contentType)

	part, err := w.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	reader := multipart.NewReader(strings.NewReader(buf.String()), w.Boundary())
	form, err := reader.ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })

	files := form.File["file"]
	require.Len(t, files, 1)

	return files[0]
}

func newTestService(repo *MockMediaRepository, fs *MockFileStorage) *MediaService {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewMediaService(log, repo, fs)
}

func TestMediaService_UploadMedia(t *testing.T) {
	ctx := context.Background()
	uploaderID := uuid.New()
	projectID := uuid.New()

	fh := buildFileHeader(t, "plan.png", "image/png", "fake png bytes")

	input := dto.MediaUploadInput{
		File:       fh,
		UploaderID: uploaderID,
		ProjectID:  &projectID,
	}

	t.Run("stores object under the project prefix", func(t *testing.T) {
		repo := new(MockMediaRepository)
		fs := new(MockFileStorage)
		service := newTestService(repo, fs)

		var savedKey string
		fs.On("Save", ctx, mock.MatchedBy(func(key string) bool {
			savedKey = key
			return strings.HasPrefix(key, "projects/"+projectID.String()+"/") && strings.HasSuffix(key, ".png")
		}), "image/png", mock.Anything, fh.Size).Return(nil).Once()

		created := &models.Media{ID: uuid.New()}
		repo.On("CreateMedia", ctx, mock.MatchedBy(func(m *models.Media) bool {
			return m.UploaderID == uploaderID &&
				m.OriginalFilename == "plan.png" &&
				m.MimeType == "image/png" &&
				m.FileSize == fh.Size &&
				m.StorageKey == savedKey
		})).Run(func(mock.Arguments) { created.StorageKey = savedKey }).Return(created, nil).Once()

		media, err := service.UploadMedia(ctx, input)
		require.NoError(t, err)
		assert.Equal(t, savedKey, media.StorageKey)

		repo.AssertExpectations(t)
		fs.AssertExpectations(t)
	})

	t.Run("object is removed when the row insert fails", func(t *testing.T) {
		repo := new(MockMediaRepository)
		fs := new(MockFileStorage)
		service := newTestService(repo, fs)

		fs.On("Save", ctx, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()
		repo.On("CreateMedia", ctx, mock.Anything).Return(nil, errors.New("insert failed")).Once()
		fs.On("Delete", ctx, mock.Anything).Return(nil).Once()

		_, err := service.UploadMedia(ctx, input)
		assert.Error(t, err)

		fs.AssertExpectations(t)
	})

	t.Run("storage failure aborts before the insert", func(t *testing.T) {
		repo := new(MockMediaRepository)
		fs := new(MockFileStorage)
		service := newTestService(repo, fs)

		fs.On("Save", ctx, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(errors.New("bucket gone")).Once()

		_, err := service.UploadMedia(ctx, input)
		assert.Error(t, err)

		repo.AssertNotCalled(t, "CreateMedia", mock.Anything, mock.Anything)
	})
}

func TestMediaService_MediaURL(t *testing.T) {
	ctx := context.Background()
	mediaID := uuid.New()

	repo := new(MockMediaRepository)
	fs := new(MockFileStorage)
	service := newTestService(repo, fs)

	repo.On("FindByID", ctx, mediaID).Return(&models.Media{
		ID:         mediaID,
		StorageKey: "projects/p/plan.png",
	}, nil).Once()
	fs.On("PresignedGetURL", ctx, "projects/p/plan.png").Return("https://bucket.example/signed", nil).Once()

	url, err := service.MediaURL(ctx, mediaID)
	require.NoError(t, err)
	assert.Equal(t, "https://bucket.example/signed", url)
}

func TestMediaService_DeleteMedia(t *testing.T) {
	ctx := context.Background()
	mediaID := uuid.New()

	t.Run("row and object removed", func(t *testing.T) {
		repo := new(MockMediaRepository)
		fs := new(MockFileStorage)
		service := newTestService(repo, fs)

		repo.On("FindByID", ctx, mediaID).Return(&models.Media{ID: mediaID, StorageKey: "k"}, nil).Once()
		repo.On("DeleteMedia", ctx, mediaID).Return(nil).Once()
		fs.On("Delete", ctx, "k").Return(nil).Once()

		require.NoError(t, service.DeleteMedia(ctx, mediaID))
		fs.AssertExpectations(t)
	})

	t.Run("missing media", func(t *testing.T) {
		repo := new(MockMediaRepository)
		fs := new(MockFileStorage)
		service := newTestService(repo, fs)

		repo.On("FindByID", ctx, mediaID).Return(nil, storage.ErrMediaNotFound).Once()

		err := service.DeleteMedia(ctx, mediaID)
		assert.ErrorIs(t, err, storage.ErrMediaNotFound)

		fs.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})
}
