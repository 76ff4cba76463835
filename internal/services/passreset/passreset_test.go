package passreset

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"reno_market/internal/domain/models"
	"reno_market/internal/lib/token"
	"reno_market/internal/storage"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type MockUserProvider struct {
	mock.Mock
}

func (m *MockUserProvider) UserByEmail(ctx context.Context, email string) (models.User, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(models.User), args.Error(1)
}

func (m *MockUserProvider) UpdatePassword(ctx context.Context, userID uuid.UUID, password []byte) error {
	args := m.Called(ctx, userID, password)
	return args.Error(0)
}

type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) Send(ctx context.Context, to, subject, body string) error {
	args := m.Called(ctx, to, subject, body)
	return args.Error(0)
}

var testCtx = context.Background()

func newTestService(users UserProvider, mail *MockMailer) (*Service, *token.Manager) {
	tokens := token.NewManager(token.Config{Secret: "reset-secret", TTL: 2 * time.Hour})

	return New(
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		users,
		tokens,
		mail,
		"https://reno.market",
	), tokens
}

func TestRequestReset_SendsLink(t *testing.T) {
	user := models.User{ID: uuid.New(), Name: "Ann", Email: "u@d.com"}

	users := new(MockUserProvider)
	users.On("UserByEmail", testCtx, "u@d.com").Return(user, nil)

	mail := new(MockMailer)
	mail.On("Send", testCtx, "u@d.com", "Reset your password", mock.MatchedBy(func(body string) bool {
		return strings.Contains(body, "https://reno.market/reset-password?token=")
	})).Return(nil)

	svc, _ := newTestService(users, mail)

	require.NoError(t, svc.RequestReset(testCtx, "u@d.com"))
	mail.AssertExpectations(t)
}

func TestRequestReset_UnknownEmailIsSilent(t *testing.T) {
	users := new(MockUserProvider)
	users.On("UserByEmail", testCtx, "ghost@d.com").Return(models.User{}, storage.ErrUserNotFound)

	mail := new(MockMailer)

	svc, _ := newTestService(users, mail)

	assert.NoError(t, svc.RequestReset(testCtx, "ghost@d.com"))
	mail.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestResetPassword_Success(t *testing.T) {
	userID := uuid.New()

	users := new(MockUserProvider)
	users.On("UpdatePassword", testCtx, userID, mock.MatchedBy(func(hash []byte) bool {
		return bcrypt.CompareHashAndPassword(hash, []byte("new-password")) == nil
	})).Return(nil)

	svc, tokens := newTestService(users, new(MockMailer))

	resetToken, err := tokens.Generate(userID.String())
	require.NoError(t, err)

	require.NoError(t, svc.ResetPassword(testCtx, resetToken, "new-password"))
	users.AssertExpectations(t)
}

func TestResetPassword_InvalidToken(t *testing.T) {
	users := new(MockUserProvider)
	svc, _ := newTestService(users, new(MockMailer))

	err := svc.ResetPassword(testCtx, "garbage", "new-password")

	assert.ErrorIs(t, err, token.ErrInvalidToken)
	users.AssertNotCalled(t, "UpdatePassword", mock.Anything, mock.Anything, mock.Anything)
}

func TestResetPassword_ForeignPurposeToken(t *testing.T) {
	// An access token must not open the reset path.
	access := token.NewManager(token.Config{Secret: "access-secret", TTL: time.Hour})
	accessToken, err := access.Generate(uuid.New().String())
	require.NoError(t, err)

	svc, _ := newTestService(new(MockUserProvider), new(MockMailer))

	err = svc.ResetPassword(testCtx, accessToken, "new-password")
	assert.ErrorIs(t, err, token.ErrInvalidToken)
}

func TestResetPassword_ReuseBeforeExpiryStillVerifies(t *testing.T) {
	// Tokens carry no used flag; a second reset with the same token
	// succeeds until it expires.
	userID := uuid.New()

	users := new(MockUserProvider)
	users.On("UpdatePassword", testCtx, userID, mock.Anything).Return(nil).Twice()

	svc, tokens := newTestService(users, new(MockMailer))

	resetToken, err := tokens.Generate(userID.String())
	require.NoError(t, err)

	require.NoError(t, svc.ResetPassword(testCtx, resetToken, "first"))
	require.NoError(t, svc.ResetPassword(testCtx, resetToken, "second"))
	users.AssertExpectations(t)
}
