package http_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"reno_market/internal/domain/models"
	"reno_market/internal/lib/token"
	authsvc "reno_market/internal/services/auth"
	emailconfirmsvc "reno_market/internal/services/emailconfirm"
	httprouters "reno_market/internal/transport/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type testValidator struct {
	validator *validator.Validate
}

func (v *testValidator) Validate(i interface{}) error {
	return v.validator.Struct(i)
}

type MockUserProvider struct {
	mock.Mock
}

func (m *MockUserProvider) UserByEmail(ctx context.Context, email string) (models.User, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(models.User), args.Error(1)
}

func (m *MockUserProvider) TouchLastLogin(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

type MockUserSaver struct {
	mock.Mock
}

func (m *MockUserSaver) SaveUser(ctx context.Context, user models.User) (uuid.UUID, error) {
	args := m.Called(ctx, user)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

type MockUserConfirmer struct {
	mock.Mock
}

func (m *MockUserConfirmer) ConfirmEmail(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

type nopMailer struct{}

func (nopMailer) Send(ctx context.Context, to, subject, body string) error { return nil }

type testEnv struct {
	echo     *echo.Echo
	routers  *httprouters.Routers
	auth     *authsvc.Auth
	provider *MockUserProvider
	saver    *MockUserSaver
}

func newTestEnv(t *testing.T, accessTTL, refreshTTL time.Duration) *testEnv {
	t.Helper()

	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	access := token.NewManager(token.Config{Secret: "access-secret", TTL: accessTTL})
	refresh := token.NewManager(token.Config{Secret: "refresh-secret", TTL: refreshTTL})
	confirm := token.NewManager(token.Config{Secret: "confirm-secret", TTL: 24 * time.Hour})

	provider := new(MockUserProvider)
	saver := new(MockUserSaver)
	confirmer := new(MockUserConfirmer)

	auth := authsvc.New(log, saver, provider, access, refresh)
	emailConfirm := emailconfirmsvc.New(log, confirmer, confirm, nopMailer{}, "https://reno.market")

	routers := httprouters.NewRouter(log, nil, auth, nil, emailConfirm, nil, nil, nil)

	e := echo.New()
	e.Validator = &testValidator{validator: validator.New()}

	return &testEnv{
		echo:     e,
		routers:  routers,
		auth:     auth,
		provider: provider,
		saver:    saver,
	}
}

func hashPassword(t *testing.T, password string) []byte {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	require.NoError(t, err)

	return hash
}

func findCookie(resp *http.Response, name string) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestLoginHandler(t *testing.T) {
	env := newTestEnv(t, 15*time.Minute, 720*time.Hour)

	userID := uuid.New()
	user := models.User{
		ID:       userID,
		Email:    "owner@example.com",
		Password: hashPassword(t, "correct-horse"),
	}

	env.provider.On("UserByEmail", mock.Anything, "owner@example.com").Return(user, nil)
	env.provider.On("TouchLastLogin", mock.Anything, userID).Return(nil)

	body := `{"email":"owner@example.com","password":"correct-horse"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/login", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := env.echo.NewContext(req, rec)

	require.NoError(t, env.routers.Login(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Status string           `json:"status"`
		Data   models.TokenPair `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "success", resp.Status)
	assert.Equal(t, userID, resp.Data.UserID)
	assert.NotEmpty(t, resp.Data.AccessToken)
	assert.Equal(t, int64(900), resp.Data.ExpiresIn)

	// The returned access token must verify back through the bearer
	// header convention.
	authedReq := httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
	authedReq.Header.Set("Authorization", "Bearer "+resp.Data.AccessToken)
	payload, err := env.auth.VerifyAccessToken(authedReq)
	require.NoError(t, err)
	assert.Equal(t, userID.String(), payload.Sub)

	cookie := findCookie(rec.Result(), authsvc.RefreshCookieName)
	require.NotNil(t, cookie, "login must set the refresh cookie")
	assert.Equal(t, authsvc.RefreshCookiePath, cookie.Path)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, http.SameSiteStrictMode, cookie.SameSite)
	assert.NotEmpty(t, cookie.Value)
}

func TestLoginHandler_WrongPassword(t *testing.T) {
	env := newTestEnv(t, 15*time.Minute, 720*time.Hour)

	user := models.User{
		ID:       uuid.New(),
		Email:    "owner@example.com",
		Password: hashPassword(t, "correct-horse"),
	}
	env.provider.On("UserByEmail", mock.Anything, "owner@example.com").Return(user, nil)

	body := `{"email":"owner@example.com","password":"wrong-password"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/login", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := env.echo.NewContext(req, rec)

	require.NoError(t, env.routers.Login(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Nil(t, findCookie(rec.Result(), authsvc.RefreshCookieName))
}

func TestRefreshHandler(t *testing.T) {
	env := newTestEnv(t, 15*time.Minute, 720*time.Hour)

	userID := uuid.New()

	// Obtain a refresh cookie the way login would set it.
	seed := httptest.NewRecorder()
	require.NoError(t, env.auth.GenerateRefreshToken(seed, userID))
	cookie := findCookie(seed.Result(), authsvc.RefreshCookieName)
	require.NotNil(t, cookie)

	req := httptest.NewRequest(http.MethodPost, "/refresh_token", nil)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	c := env.echo.NewContext(req, rec)

	require.NoError(t, env.routers.Refresh(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data models.TokenPair `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, userID, resp.Data.UserID)
	assert.NotEmpty(t, resp.Data.AccessToken)

	rotated := findCookie(rec.Result(), authsvc.RefreshCookieName)
	require.NotNil(t, rotated, "refresh must rotate the cookie")
	assert.NotEmpty(t, rotated.Value)
}

func TestRefreshHandler_MissingCookie(t *testing.T) {
	env := newTestEnv(t, 15*time.Minute, 720*time.Hour)

	req := httptest.NewRequest(http.MethodPost, "/refresh_token", nil)
	rec := httptest.NewRecorder()
	c := env.echo.NewContext(req, rec)

	require.NoError(t, env.routers.Refresh(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid_refresh_token")
}

func TestRefreshHandler_ExpiredToken(t *testing.T) {
	// A negative TTL issues tokens that are already past their expiry.
	env := newTestEnv(t, 15*time.Minute, -time.Minute)

	seed := httptest.NewRecorder()
	require.NoError(t, env.auth.GenerateRefreshToken(seed, uuid.New()))
	cookie := findCookie(seed.Result(), authsvc.RefreshCookieName)
	require.NotNil(t, cookie)

	req := httptest.NewRequest(http.MethodPost, "/refresh_token", nil)
	req.AddCookie(&http.Cookie{Name: cookie.Name, Value: cookie.Value})
	rec := httptest.NewRecorder()
	c := env.echo.NewContext(req, rec)

	require.NoError(t, env.routers.Refresh(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "expired_token")
	assert.Contains(t, rec.Body.String(), "Token expired at")
}

func TestLogoutHandler(t *testing.T) {
	env := newTestEnv(t, 15*time.Minute, 720*time.Hour)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/logout", nil)
	rec := httptest.NewRecorder()
	c := env.echo.NewContext(req, rec)

	require.NoError(t, env.routers.Logout(c))
	require.Equal(t, http.StatusOK, rec.Code)

	header := rec.Header().Get("Set-Cookie")
	assert.Contains(t, header, authsvc.RefreshCookieName+"=;")
	assert.Contains(t, header, "Max-Age=0")
}

func TestRegisterHandler(t *testing.T) {
	env := newTestEnv(t, 15*time.Minute, 720*time.Hour)

	userID := uuid.New()
	env.saver.On("SaveUser", mock.Anything, mock.MatchedBy(func(u models.User) bool {
		return u.Email == "new@example.com" &&
			bcrypt.CompareHashAndPassword(u.Password, []byte("long-enough-pass")) == nil
	})).Return(userID, nil).Once()

	body := `{"name":"New User","email":"new@example.com","password":"long-enough-pass"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/register", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := env.echo.NewContext(req, rec)

	require.NoError(t, env.routers.Register(c))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), userID.String())

	env.saver.AssertExpectations(t)
}

func TestRegisterHandler_ShortPassword(t *testing.T) {
	env := newTestEnv(t, 15*time.Minute, 720*time.Hour)

	body := `{"name":"New User","email":"new@example.com","password":"short"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/register", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := env.echo.NewContext(req, rec)

	require.NoError(t, env.routers.Register(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	env.saver.AssertNotCalled(t, "SaveUser", mock.Anything, mock.Anything)
}

func TestConfirmEmailHandler_InvalidToken(t *testing.T) {
	env := newTestEnv(t, 15*time.Minute, 720*time.Hour)

	body := `{"token":"not-a-jwt"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/confirm-email", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := env.echo.NewContext(req, rec)

	require.NoError(t, env.routers.ConfirmEmail(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid_token")
}

func TestConfirmEmailHandler_AccessTokenRejected(t *testing.T) {
	env := newTestEnv(t, 15*time.Minute, 720*time.Hour)

	// A valid token from another purpose must not confirm an email.
	accessToken, err := env.auth.GenerateAccessToken(uuid.New())
	require.NoError(t, err)

	body := `{"token":"` + accessToken + `"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/confirm-email", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := env.echo.NewContext(req, rec)

	require.NoError(t, env.routers.ConfirmEmail(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid_token")
}
