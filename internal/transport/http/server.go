package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"reno_market/internal/domain/models"
	"reno_market/internal/lib/logger/sl"
	"reno_market/internal/lib/token"
	authsvc "reno_market/internal/services/auth"
	inquirysvc "reno_market/internal/services/inquiry_service"
	projectsvc "reno_market/internal/services/project_service"
	"reno_market/internal/storage"
	"reno_market/internal/transport/http/dto"
	"reno_market/internal/transport/http/dto/request"
	"reno_market/internal/transport/http/dto/response"

	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"

	_ "reno_market/docs"
)

// userIDKey is the echo context key set by the auth middleware.
const userIDKey = "user_id"

type AuthService interface {
	Login(ctx context.Context, email, password string) (models.User, error)
	RegisterNewUser(ctx context.Context, name, email, phone, pass string) (uuid.UUID, error)
	AccessTokenTTL() time.Duration
	GenerateAccessToken(userID uuid.UUID) (string, error)
	VerifyAccessToken(r *http.Request) (token.Payload, error)
	GenerateRefreshToken(w http.ResponseWriter, userID uuid.UUID) error
	VerifyRefreshToken(r *http.Request) (token.Payload, error)
	InvalidateRefreshToken(w http.ResponseWriter)
}

type UserService interface {
	GetUserById(ctx context.Context, userID uuid.UUID) (models.User, error)
	IsAdmin(ctx context.Context, userID uuid.UUID) (bool, error)
}

type PasswordResetService interface {
	RequestReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, resetToken, newPassword string) error
}

type EmailConfirmService interface {
	SendConfirmation(ctx context.Context, user models.User) error
	Confirm(ctx context.Context, confirmToken string) error
}

type ProjectService interface {
	CreateProject(ctx context.Context, ownerID uuid.UUID, req dto.CreateProjectRequest) (*models.Project, error)
	GetProjectBySlug(ctx context.Context, slug string) (*models.Project, error)
	UpdateProject(ctx context.Context, callerID, projectID uuid.UUID, req dto.UpdateProjectRequest) (*models.Project, error)
	PublishProject(ctx context.Context, callerID, projectID uuid.UUID) (*models.Project, error)
	ArchiveProject(ctx context.Context, callerID, projectID uuid.UUID) (*models.Project, error)
	DeleteProject(ctx context.Context, callerID, projectID uuid.UUID) error
	ListProjects(ctx context.Context, ownerID uuid.UUID, statusFilter string, page, perPage int) (*dto.ProjectListResponse, error)
	AddRoom(ctx context.Context, callerID uuid.UUID, room models.Room) (uuid.UUID, error)
	ListRooms(ctx context.Context, projectID uuid.UUID) ([]models.Room, error)
	AddProduct(ctx context.Context, callerID, projectID uuid.UUID, product models.Product) (uuid.UUID, error)
	ListProducts(ctx context.Context, roomID uuid.UUID) ([]models.Product, error)
	GetSummary(ctx context.Context, projectID uuid.UUID) (models.ProjectSummary, error)
}

type InquiryService interface {
	CreateInquiry(ctx context.Context, senderID uuid.UUID, req dto.CreateInquiryRequest) (*models.Inquiry, error)
	SubmitQuote(ctx context.Context, inquiryID uuid.UUID, req dto.SubmitQuoteRequest) (*models.Quote, error)
	AcceptQuote(ctx context.Context, inquiryID uuid.UUID) error
	DeclineQuote(ctx context.Context, inquiryID uuid.UUID) error
	ListProjectInquiries(ctx context.Context, projectID uuid.UUID) ([]models.Inquiry, error)
	ListInquiryQuotes(ctx context.Context, inquiryID uuid.UUID) ([]models.Quote, error)
}

type MediaService interface {
	UploadMedia(ctx context.Context, input dto.MediaUploadInput) (*models.Media, error)
	MediaURL(ctx context.Context, mediaID uuid.UUID) (string, error)
	ListProjectMedia(ctx context.Context, projectID uuid.UUID) ([]models.Media, error)
	DeleteMedia(ctx context.Context, mediaID uuid.UUID) error
}

type Routers struct {
	log            *slog.Logger
	UserService    UserService
	AuthService    AuthService
	PassReset      PasswordResetService
	EmailConfirm   EmailConfirmService
	ProjectService ProjectService
	InquiryService InquiryService
	MediaService   MediaService
}

func NewRouter(
	log *slog.Logger,
	userService UserService,
	authService AuthService,
	passReset PasswordResetService,
	emailConfirm EmailConfirmService,
	projectService ProjectService,
	inquiryService InquiryService,
	mediaService MediaService,
) *Routers {
	return &Routers{
		log:            log,
		UserService:    userService,
		AuthService:    authService,
		PassReset:      passReset,
		EmailConfirm:   emailConfirm,
		ProjectService: projectService,
		InquiryService: inquiryService,
		MediaService:   mediaService,
	}
}

// Login godoc
// @Summary User login
// @Description Authenticates by email and password. Returns an access token and sets the refresh cookie.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body request.LoginRequest true "Login credentials"
// @Success 200 {object} response.Response{data=models.TokenPair} "Access token pair"
// @Failure 400 {object} response.ErrorResponse "Invalid request format"
// @Failure 401 {object} response.ErrorResponse "Authentication failed"
// @Router /api/v1/login [post]
func (r *Routers) Login(c echo.Context) error {
	const op = "http.routers.Login"

	log := r.log.With(
		slog.String("op", op),
	)

	var req request.LoginRequest

	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	if err := c.Validate(req); err != nil {
		log.Warn("invalid format request", slog.String("email", req.Email))
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("invalid_request", err.Error()))
	}

	user, err := r.AuthService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		log.Warn("login failed", sl.Err(err))
		return c.JSON(http.StatusUnauthorized, response.ErrAuthenticationFailed)
	}

	pair, err := r.issueTokens(c, user.ID)
	if err != nil {
		log.Error("failed to issue tokens", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrInternal)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(pair))
}

// Register godoc
// @Summary Register a new account
// @Description Creates a user and sends the email confirmation link. Returns the user ID.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body request.RegisterRequest true "Registration data"
// @Success 201 {object} response.Response{data=object{user_id=string}} "Created"
// @Failure 400 {object} response.ErrorResponse "Invalid request format"
// @Failure 409 {object} response.ErrorResponse "User already exists"
// @Failure 500 {object} response.ErrorResponse "Internal server error"
// @Router /api/v1/register [post]
func (r *Routers) Register(c echo.Context) error {
	const op = "http.routers.Register"

	log := r.log.With(
		slog.String("op", op),
	)

	var req request.RegisterRequest

	if err := c.Bind(&req); err != nil {
		log.Error("failed to bind request", sl.Err(err))
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	if err := c.Validate(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("invalid_request", err.Error()))
	}

	userID, err := r.AuthService.RegisterNewUser(c.Request().Context(), req.Name, req.Email, req.Phone, req.Password)
	if err != nil {
		if errors.Is(err, authsvc.ErrUserExist) {
			log.Warn("user already exists", slog.String("email", req.Email))
			return c.JSON(http.StatusConflict, response.ErrUserAlreadyExists)
		}

		log.Error("registration failed", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrInternal)
	}

	// Confirmation mail failure does not fail the registration, the
	// link can be re-requested later.
	if err := r.EmailConfirm.SendConfirmation(c.Request().Context(), models.User{
		ID:    userID,
		Name:  req.Name,
		Email: req.Email,
	}); err != nil {
		log.Warn("failed to send confirmation mail", sl.Err(err))
	}

	log.Info("user registered successfully", slog.String("user_id", userID.String()))

	return c.JSON(http.StatusCreated, response.SuccessResponse(map[string]uuid.UUID{
		"user_id": userID,
	}))
}

// Refresh godoc
// @Summary Rotate the token pair
// @Description Verifies the rt cookie, issues a fresh access token and replaces the refresh cookie.
// @Tags auth
// @Produce json
// @Success 200 {object} response.Response{data=models.TokenPair} "New token pair"
// @Failure 401 {object} response.ErrorResponse "Missing, invalid or expired refresh token"
// @Router /refresh_token [post]
func (r *Routers) Refresh(c echo.Context) error {
	const op = "http.routers.Refresh"

	log := r.log.With(
		slog.String("op", op),
	)

	payload, err := r.AuthService.VerifyRefreshToken(c.Request())
	if err != nil {
		var expired *token.ExpiredError
		if errors.As(err, &expired) {
			log.Info("refresh token expired", slog.Time("expired_at", expired.ExpiredAt))
			return c.JSON(http.StatusUnauthorized, response.ExpiredTokenResponse(expired.ExpiredAt))
		}

		log.Warn("refresh token rejected", sl.Err(err))
		return c.JSON(http.StatusUnauthorized, response.ErrInvalidRefreshToken)
	}

	userID, err := uuid.Parse(payload.Sub)
	if err != nil {
		log.Error("malformed subject in refresh token", sl.Err(err))
		return c.JSON(http.StatusUnauthorized, response.ErrInvalidRefreshToken)
	}

	pair, err := r.issueTokens(c, userID)
	if err != nil {
		log.Error("failed to issue tokens", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrInternal)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(pair))
}

// Logout godoc
// @Summary Log out
// @Description Clears the refresh cookie. Previously issued tokens stay valid until expiry.
// @Tags auth
// @Produce json
// @Success 200 {object} response.Response "Logged out"
// @Router /api/v1/logout [post]
func (r *Routers) Logout(c echo.Context) error {
	r.AuthService.InvalidateRefreshToken(c.Response())

	return c.JSON(http.StatusOK, response.Response{
		Status:  "success",
		Message: "logged out",
	})
}

// Me godoc
// @Summary Current user profile
// @Tags users
// @Produce json
// @Success 200 {object} models.User
// @Failure 401 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/v1/users/me [get]
func (r *Routers) Me(c echo.Context) error {
	const op = "http.routers.Me"

	userID, err := userIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, response.ErrInvalidAccessToken)
	}

	user, err := r.UserService.GetUserById(c.Request().Context(), userID)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, response.ErrNotFound)
		}

		r.log.Error("failed to get user", slog.String("op", op), sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrInternal)
	}

	return c.JSON(http.StatusOK, user)
}

// IsAdminPermission godoc
// @Summary Check whether a user is an administrator
// @Description Also stores the user in the server-side session used by admin-only routes.
// @Tags users
// @Produce json
// @Param user_id path string true "User UUID" format(uuid)
// @Success 200 {object} map[string]bool
// @Failure 400 {object} response.ErrorResponse "Invalid UUID"
// @Failure 500 {object} response.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/v1/users/{user_id}/is-admin [get]
func (r *Routers) IsAdminPermission(c echo.Context) error {
	const op = "http.routers.IsAdminPermission"

	log := r.log.With(
		slog.String("op", op),
	)

	userID, err := uuidParam(c, "user_id")
	if err != nil {
		return err
	}

	isAdmin, err := r.UserService.IsAdmin(c.Request().Context(), userID)
	if err != nil {
		log.Error("failed to check admin status", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrInternal)
	}

	sess, _ := session.Get("session", c)
	sess.Values[userIDKey] = userID.String()
	if err := sess.Save(c.Request(), c.Response()); err != nil {
		log.Warn("failed to save session", sl.Err(err))
	}

	return c.JSON(http.StatusOK, map[string]bool{
		"is_admin": isAdmin,
	})
}

// RequestPasswordReset godoc
// @Summary Request a password reset link
// @Description Always answers 200, whether or not the email is registered.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body request.PasswordResetRequest true "Account email"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse "Invalid request format"
// @Router /api/v1/password-reset/request [post]
func (r *Routers) RequestPasswordReset(c echo.Context) error {
	const op = "http.routers.RequestPasswordReset"

	var req request.PasswordResetRequest

	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("invalid_request", err.Error()))
	}

	if err := r.PassReset.RequestReset(c.Request().Context(), req.Email); err != nil {
		r.log.Error("failed to request reset", slog.String("op", op), sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrInternal)
	}

	return c.JSON(http.StatusOK, response.Response{
		Status:  "success",
		Message: "reset link sent if the account exists",
	})
}

// ConfirmPasswordReset godoc
// @Summary Set a new password using a reset token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body request.PasswordResetConfirm true "Reset token and new password"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse "Invalid request format"
// @Failure 401 {object} response.ErrorResponse "Invalid or expired token"
// @Router /api/v1/password-reset/confirm [post]
func (r *Routers) ConfirmPasswordReset(c echo.Context) error {
	const op = "http.routers.ConfirmPasswordReset"

	var req request.PasswordResetConfirm

	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("invalid_request", err.Error()))
	}

	if err := r.PassReset.ResetPassword(c.Request().Context(), req.Token, req.NewPassword); err != nil {
		if status, resp, ok := tokenErrorResponse(err); ok {
			return c.JSON(status, resp)
		}

		r.log.Error("failed to reset password", slog.String("op", op), sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrInternal)
	}

	return c.JSON(http.StatusOK, response.Response{
		Status:  "success",
		Message: "password updated",
	})
}

// ConfirmEmail godoc
// @Summary Confirm an email address
// @Tags auth
// @Accept json
// @Produce json
// @Param request body request.EmailConfirmRequest true "Confirmation token"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.ErrorResponse "Invalid request format"
// @Failure 401 {object} response.ErrorResponse "Invalid or expired token"
// @Router /api/v1/confirm-email [post]
func (r *Routers) ConfirmEmail(c echo.Context) error {
	const op = "http.routers.ConfirmEmail"

	var req request.EmailConfirmRequest

	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("invalid_request", err.Error()))
	}

	if err := r.EmailConfirm.Confirm(c.Request().Context(), req.Token); err != nil {
		if status, resp, ok := tokenErrorResponse(err); ok {
			return c.JSON(status, resp)
		}

		r.log.Error("failed to confirm email", slog.String("op", op), sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrInternal)
	}

	return c.JSON(http.StatusOK, response.Response{
		Status:  "success",
		Message: "email confirmed",
	})
}

// CreateProject godoc
// @Summary Create a renovation project
// @Tags projects
// @Accept json
// @Produce json
// @Param request body dto.CreateProjectRequest true "Project data"
// @Success 201 {object} response.Response{data=dto.ProjectResponse}
// @Failure 400 {object} response.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/v1/projects [post]
func (r *Routers) CreateProject(c echo.Context) error {
	const op = "http.routers.CreateProject"

	userID, err := userIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, response.ErrInvalidAccessToken)
	}

	var req dto.CreateProjectRequest

	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("invalid_request", err.Error()))
	}

	project, err := r.ProjectService.CreateProject(c.Request().Context(), userID, req)
	if err != nil {
		r.log.Error("failed to create project", slog.String("op", op), sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrInternal)
	}

	return c.JSON(http.StatusCreated, response.SuccessResponse(projectsvc.ToProjectResponse(*project)))
}

// GetProject godoc
// @Summary Get a project by slug
// @Tags projects
// @Produce json
// @Param slug path string true "Project slug"
// @Success 200 {object} response.Response{data=dto.ProjectResponse}
// @Failure 404 {object} response.ErrorResponse
// @Router /api/v1/projects/{slug} [get]
func (r *Routers) GetProject(c echo.Context) error {
	const op = "http.routers.GetProject"

	project, err := r.ProjectService.GetProjectBySlug(c.Request().Context(), c.Param("slug"))
	if err != nil {
		if errors.Is(err, projectsvc.ErrProjectNotFound) {
			return c.JSON(http.StatusNotFound, response.ErrNotFound)
		}

		r.log.Error("failed to get project", slog.String("op", op), sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrInternal)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(projectsvc.ToProjectResponse(*project)))
}

// ListProjects godoc
// @Summary List own projects
// @Tags projects
// @Produce json
// @Param status query string false "Status filter" Enums(draft, published, archived)
// @Param page query int false "Page number, 1-based"
// @Param per_page query int false "Page size"
// @Success 200 {object} response.Response{data=dto.ProjectListResponse}
// @Security ApiKeyAuth
// @Router /api/v1/projects [get]
func (r *Routers) ListProjects(c echo.Context) error {
	const op = "http.routers.ListProjects"

	userID, err := userIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, response.ErrInvalidAccessToken)
	}

	page := queryInt(c, "page", 1)
	perPage := queryInt(c, "per_page", 20)

	list, err := r.ProjectService.ListProjects(c.Request().Context(), userID, c.QueryParam("status"), page, perPage)
	if err != nil {
		r.log.Error("failed to list projects", slog.String("op", op), sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrInternal)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(list))
}

// UpdateProject godoc
// @Summary Update project fields
// @Tags projects
// @Accept json
// @Produce json
// @Param project_id path string true "Project UUID" format(uuid)
// @Param request body dto.UpdateProjectRequest true "Fields to update"
// @Success 200 {object} response.Response{data=dto.ProjectResponse}
// @Failure 403 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/v1/projects/{project_id} [patch]
func (r *Routers) UpdateProject(c echo.Context) error {
	const op = "http.routers.UpdateProject"

	userID, projectID, err := callerAndParam(c, "project_id")
	if err != nil {
		return err
	}

	var req dto.UpdateProjectRequest

	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("invalid_request", err.Error()))
	}

	project, err := r.ProjectService.UpdateProject(c.Request().Context(), userID, projectID, req)
	if err != nil {
		return r.projectError(c, op, err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(projectsvc.ToProjectResponse(*project)))
}

// PublishProject godoc
// @Summary Publish a project
// @Tags projects
// @Produce json
// @Param project_id path string true "Project UUID" format(uuid)
// @Success 200 {object} response.Response{data=dto.ProjectResponse}
// @Security ApiKeyAuth
// @Router /api/v1/projects/{project_id}/publish [post]
func (r *Routers) PublishProject(c echo.Context) error {
	const op = "http.routers.PublishProject"

	userID, projectID, err := callerAndParam(c, "project_id")
	if err != nil {
		return err
	}

	project, err := r.ProjectService.PublishProject(c.Request().Context(), userID, projectID)
	if err != nil {
		return r.projectError(c, op, err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(projectsvc.ToProjectResponse(*project)))
}

// ArchiveProject godoc
// @Summary Archive a project
// @Tags projects
// @Produce json
// @Param project_id path string true "Project UUID" format(uuid)
// @Success 200 {object} response.Response{data=dto.ProjectResponse}
// @Security ApiKeyAuth
// @Router /api/v1/projects/{project_id}/archive [post]
func (r *Routers) ArchiveProject(c echo.Context) error {
	const op = "http.routers.ArchiveProject"

	userID, projectID, err := callerAndParam(c, "project_id")
	if err != nil {
		return err
	}

	project, err := r.ProjectService.ArchiveProject(c.Request().Context(), userID, projectID)
	if err != nil {
		return r.projectError(c, op, err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(projectsvc.ToProjectResponse(*project)))
}

// DeleteProject godoc
// @Summary Delete a project
// @Tags projects
// @Produce json
// @Param project_id path string true "Project UUID" format(uuid)
// @Success 200 {object} response.Response
// @Security ApiKeyAuth
// @Router /api/v1/projects/{project_id} [delete]
func (r *Routers) DeleteProject(c echo.Context) error {
	const op = "http.routers.DeleteProject"

	userID, projectID, err := callerAndParam(c, "project_id")
	if err != nil {
		return err
	}

	if err := r.ProjectService.DeleteProject(c.Request().Context(), userID, projectID); err != nil {
		return r.projectError(c, op, err)
	}

	return c.JSON(http.StatusOK, response.Response{Status: "success", Message: "project deleted"})
}

// AddRoom godoc
// @Summary Add a room to a project
// @Tags projects
// @Accept json
// @Produce json
// @Param project_id path string true "Project UUID" format(uuid)
// @Param request body dto.AddRoomRequest true "Room data"
// @Success 201 {object} response.Response{data=object{room_id=string}}
// @Security ApiKeyAuth
// @Router /api/v1/projects/{project_id}/rooms [post]
func (r *Routers) AddRoom(c echo.Context) error {
	const op = "http.routers.AddRoom"

	userID, projectID, err := callerAndParam(c, "project_id")
	if err != nil {
		return err
	}

	var req dto.AddRoomRequest

	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("invalid_request", err.Error()))
	}

	roomID, err := r.ProjectService.AddRoom(c.Request().Context(), userID, models.Room{
		ProjectID: projectID,
		Name:      req.Name,
		Kind:      req.Kind,
		AreaSqm:   req.AreaSqm,
	})
	if err != nil {
		return r.projectError(c, op, err)
	}

	return c.JSON(http.StatusCreated, response.SuccessResponse(map[string]uuid.UUID{"room_id": roomID}))
}

// ListRooms godoc
// @Summary List rooms of a project
// @Tags projects
// @Produce json
// @Param project_id path string true "Project UUID" format(uuid)
// @Success 200 {object} response.Response{data=[]models.Room}
// @Router /api/v1/projects/{project_id}/rooms [get]
func (r *Routers) ListRooms(c echo.Context) error {
	const op = "http.routers.ListRooms"

	projectID, err := uuidParam(c, "project_id")
	if err != nil {
		return err
	}

	rooms, err := r.ProjectService.ListRooms(c.Request().Context(), projectID)
	if err != nil {
		r.log.Error("failed to list rooms", slog.String("op", op), sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrInternal)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(rooms))
}

// AddProduct godoc
// @Summary Add a product to a room
// @Tags projects
// @Accept json
// @Produce json
// @Param project_id path string true "Project UUID" format(uuid)
// @Param request body dto.AddProductRequest true "Product data"
// @Success 201 {object} response.Response{data=object{product_id=string}}
// @Security ApiKeyAuth
// @Router /api/v1/projects/{project_id}/products [post]
func (r *Routers) AddProduct(c echo.Context) error {
	const op = "http.routers.AddProduct"

	userID, projectID, err := callerAndParam(c, "project_id")
	if err != nil {
		return err
	}

	var req dto.AddProductRequest

	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("invalid_request", err.Error()))
	}

	productID, err := r.ProjectService.AddProduct(c.Request().Context(), userID, projectID, models.Product{
		RoomID:         req.RoomID,
		Name:           req.Name,
		Category:       req.Category,
		Quantity:       req.Quantity,
		UnitPriceCents: req.UnitPriceCents,
		URL:            req.URL,
	})
	if err != nil {
		return r.projectError(c, op, err)
	}

	return c.JSON(http.StatusCreated, response.SuccessResponse(map[string]uuid.UUID{"product_id": productID}))
}

// ListProducts godoc
// @Summary List products of a room
// @Tags projects
// @Produce json
// @Param room_id path string true "Room UUID" format(uuid)
// @Success 200 {object} response.Response{data=[]models.Product}
// @Router /api/v1/rooms/{room_id}/products [get]
func (r *Routers) ListProducts(c echo.Context) error {
	const op = "http.routers.ListProducts"

	roomID, err := uuidParam(c, "room_id")
	if err != nil {
		return err
	}

	products, err := r.ProjectService.ListProducts(c.Request().Context(), roomID)
	if err != nil {
		r.log.Error("failed to list products", slog.String("op", op), sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrInternal)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(products))
}

// ProjectSummary godoc
// @Summary Aggregated project summary
// @Description Room, product and inquiry counts plus total cost. Served from cache when fresh.
// @Tags projects
// @Produce json
// @Param project_id path string true "Project UUID" format(uuid)
// @Success 200 {object} response.Response{data=dto.ProjectSummaryResponse}
// @Router /api/v1/projects/{project_id}/summary [get]
func (r *Routers) ProjectSummary(c echo.Context) error {
	const op = "http.routers.ProjectSummary"

	projectID, err := uuidParam(c, "project_id")
	if err != nil {
		return err
	}

	summary, err := r.ProjectService.GetSummary(c.Request().Context(), projectID)
	if err != nil {
		r.log.Error("failed to build summary", slog.String("op", op), sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrInternal)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(summary))
}

// CreateInquiry godoc
// @Summary Open an inquiry on a published project
// @Tags inquiries
// @Accept json
// @Produce json
// @Param request body dto.CreateInquiryRequest true "Inquiry data"
// @Success 201 {object} response.Response{data=dto.InquiryResponse}
// @Failure 400 {object} response.ErrorResponse
// @Failure 409 {object} response.ErrorResponse "Project is not published"
// @Security ApiKeyAuth
// @Router /api/v1/inquiries [post]
func (r *Routers) CreateInquiry(c echo.Context) error {
	const op = "http.routers.CreateInquiry"

	userID, err := userIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, response.ErrInvalidAccessToken)
	}

	var req dto.CreateInquiryRequest

	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("invalid_request", err.Error()))
	}

	inquiry, err := r.InquiryService.CreateInquiry(c.Request().Context(), userID, req)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrProjectNotFound):
			return c.JSON(http.StatusNotFound, response.ErrNotFound)
		case errors.Is(err, inquirysvc.ErrProjectNotPublished):
			return c.JSON(http.StatusConflict, response.ErrorResponseWithDetails("project_not_published", "Only published projects accept inquiries"))
		}

		r.log.Error("failed to create inquiry", slog.String("op", op), sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrInternal)
	}

	return c.JSON(http.StatusCreated, response.SuccessResponse(inquiry))
}

// ListProjectInquiries godoc
// @Summary List inquiries of a project
// @Tags inquiries
// @Produce json
// @Param project_id path string true "Project UUID" format(uuid)
// @Success 200 {object} response.Response{data=[]dto.InquiryResponse}
// @Security ApiKeyAuth
// @Router /api/v1/projects/{project_id}/inquiries [get]
func (r *Routers) ListProjectInquiries(c echo.Context) error {
	const op = "http.routers.ListProjectInquiries"

	projectID, err := uuidParam(c, "project_id")
	if err != nil {
		return err
	}

	inquiries, err := r.InquiryService.ListProjectInquiries(c.Request().Context(), projectID)
	if err != nil {
		r.log.Error("failed to list inquiries", slog.String("op", op), sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrInternal)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(inquiries))
}

// SubmitQuote godoc
// @Summary Submit a quote for an inquiry
// @Tags inquiries
// @Accept json
// @Produce json
// @Param inquiry_id path string true "Inquiry UUID" format(uuid)
// @Param request body dto.SubmitQuoteRequest true "Quote data"
// @Success 201 {object} response.Response{data=dto.QuoteResponse}
// @Failure 409 {object} response.ErrorResponse "Inquiry already resolved"
// @Security ApiKeyAuth
// @Router /api/v1/inquiries/{inquiry_id}/quotes [post]
func (r *Routers) SubmitQuote(c echo.Context) error {
	const op = "http.routers.SubmitQuote"

	inquiryID, err := uuidParam(c, "inquiry_id")
	if err != nil {
		return err
	}

	var req dto.SubmitQuoteRequest

	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("invalid_request", err.Error()))
	}

	quote, err := r.InquiryService.SubmitQuote(c.Request().Context(), inquiryID, req)
	if err != nil {
		return r.inquiryError(c, op, err)
	}

	return c.JSON(http.StatusCreated, response.SuccessResponse(quote))
}

// AcceptQuote godoc
// @Summary Accept a quoted inquiry
// @Tags inquiries
// @Produce json
// @Param inquiry_id path string true "Inquiry UUID" format(uuid)
// @Success 200 {object} response.Response
// @Security ApiKeyAuth
// @Router /api/v1/inquiries/{inquiry_id}/accept [post]
func (r *Routers) AcceptQuote(c echo.Context) error {
	const op = "http.routers.AcceptQuote"

	inquiryID, err := uuidParam(c, "inquiry_id")
	if err != nil {
		return err
	}

	if err := r.InquiryService.AcceptQuote(c.Request().Context(), inquiryID); err != nil {
		return r.inquiryError(c, op, err)
	}

	return c.JSON(http.StatusOK, response.Response{Status: "success", Message: "inquiry accepted"})
}

// DeclineQuote godoc
// @Summary Decline a quoted inquiry
// @Tags inquiries
// @Produce json
// @Param inquiry_id path string true "Inquiry UUID" format(uuid)
// @Success 200 {object} response.Response
// @Security ApiKeyAuth
// @Router /api/v1/inquiries/{inquiry_id}/decline [post]
func (r *Routers) DeclineQuote(c echo.Context) error {
	const op = "http.routers.DeclineQuote"

	inquiryID, err := uuidParam(c, "inquiry_id")
	if err != nil {
		return err
	}

	if err := r.InquiryService.DeclineQuote(c.Request().Context(), inquiryID); err != nil {
		return r.inquiryError(c, op, err)
	}

	return c.JSON(http.StatusOK, response.Response{Status: "success", Message: "inquiry declined"})
}

// ListInquiryQuotes godoc
// @Summary List quotes of an inquiry
// @Tags inquiries
// @Produce json
// @Param inquiry_id path string true "Inquiry UUID" format(uuid)
// @Success 200 {object} response.Response{data=[]dto.QuoteResponse}
// @Security ApiKeyAuth
// @Router /api/v1/inquiries/{inquiry_id}/quotes [get]
func (r *Routers) ListInquiryQuotes(c echo.Context) error {
	const op = "http.routers.ListInquiryQuotes"

	inquiryID, err := uuidParam(c, "inquiry_id")
	if err != nil {
		return err
	}

	quotes, err := r.InquiryService.ListInquiryQuotes(c.Request().Context(), inquiryID)
	if err != nil {
		r.log.Error("failed to list quotes", slog.String("op", op), sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrInternal)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(quotes))
}

// UploadMedia godoc
// @Summary Upload a media file
// @Tags media
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "File to upload"
// @Param project_id formData string false "Project UUID to attach to" format(uuid)
// @Success 201 {object} models.Media
// @Failure 400 {object} response.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/v1/media/upload [post]
func (r *Routers) UploadMedia(c echo.Context) error {
	const op = "http.routers.UploadMedia"

	log := r.log.With(
		slog.String("op", op),
	)

	userID, err := userIDFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, response.ErrInvalidAccessToken)
	}

	file, err := c.FormFile("file")
	if err != nil {
		log.Warn("empty file in request", sl.Err(err))
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("invalid_request", "File is required"))
	}

	input := dto.MediaUploadInput{
		File:       file,
		UploaderID: userID,
	}

	if v := c.FormValue("project_id"); v != "" {
		projectID, err := uuid.Parse(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("invalid_request", "invalid project_id"))
		}
		input.ProjectID = &projectID
	}

	media, err := r.MediaService.UploadMedia(c.Request().Context(), input)
	if err != nil {
		log.Error("failed to upload media", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrInternal)
	}

	log.Info("media uploaded",
		slog.String("media_id", media.ID.String()),
		slog.Int64("file_size", media.FileSize),
	)

	return c.JSON(http.StatusCreated, media)
}

// MediaURL godoc
// @Summary Presigned download link for a media object
// @Tags media
// @Produce json
// @Param media_id path string true "Media UUID" format(uuid)
// @Success 200 {object} response.Response{data=object{url=string}}
// @Failure 404 {object} response.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/v1/media/{media_id}/url [get]
func (r *Routers) MediaURL(c echo.Context) error {
	const op = "http.routers.MediaURL"

	mediaID, err := uuidParam(c, "media_id")
	if err != nil {
		return err
	}

	url, err := r.MediaService.MediaURL(c.Request().Context(), mediaID)
	if err != nil {
		if errors.Is(err, storage.ErrMediaNotFound) {
			return c.JSON(http.StatusNotFound, response.ErrNotFound)
		}

		r.log.Error("failed to presign media url", slog.String("op", op), sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrInternal)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(map[string]string{"url": url}))
}

// ListProjectMedia godoc
// @Summary List media of a project
// @Tags media
// @Produce json
// @Param project_id path string true "Project UUID" format(uuid)
// @Success 200 {object} response.Response{data=[]models.Media}
// @Router /api/v1/projects/{project_id}/media [get]
func (r *Routers) ListProjectMedia(c echo.Context) error {
	const op = "http.routers.ListProjectMedia"

	projectID, err := uuidParam(c, "project_id")
	if err != nil {
		return err
	}

	media, err := r.MediaService.ListProjectMedia(c.Request().Context(), projectID)
	if err != nil {
		r.log.Error("failed to list media", slog.String("op", op), sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrInternal)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(media))
}

// DeleteMedia godoc
// @Summary Delete a media object
// @Tags media
// @Produce json
// @Param media_id path string true "Media UUID" format(uuid)
// @Success 200 {object} response.Response
// @Failure 404 {object} response.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/v1/media/{media_id} [delete]
func (r *Routers) DeleteMedia(c echo.Context) error {
	const op = "http.routers.DeleteMedia"

	mediaID, err := uuidParam(c, "media_id")
	if err != nil {
		return err
	}

	if err := r.MediaService.DeleteMedia(c.Request().Context(), mediaID); err != nil {
		if errors.Is(err, storage.ErrMediaNotFound) {
			return c.JSON(http.StatusNotFound, response.ErrNotFound)
		}

		r.log.Error("failed to delete media", slog.String("op", op), sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrInternal)
	}

	return c.JSON(http.StatusOK, response.Response{Status: "success", Message: "media deleted"})
}

// issueTokens signs an access token and rotates the refresh cookie on
// the response.
func (r *Routers) issueTokens(c echo.Context, userID uuid.UUID) (*models.TokenPair, error) {
	accessToken, err := r.AuthService.GenerateAccessToken(userID)
	if err != nil {
		return nil, err
	}

	if err := r.AuthService.GenerateRefreshToken(c.Response(), userID); err != nil {
		return nil, err
	}

	return &models.TokenPair{
		UserID:      userID,
		AccessToken: accessToken,
		ExpiresIn:   int64(r.AuthService.AccessTokenTTL().Seconds()),
	}, nil
}

func (r *Routers) projectError(c echo.Context, op string, err error) error {
	switch {
	case errors.Is(err, projectsvc.ErrProjectNotFound):
		return c.JSON(http.StatusNotFound, response.ErrNotFound)
	case errors.Is(err, projectsvc.ErrNotProjectOwner):
		return c.JSON(http.StatusForbidden, response.ErrForbidden)
	}

	r.log.Error("project operation failed", slog.String("op", op), sl.Err(err))

	return c.JSON(http.StatusInternalServerError, response.ErrInternal)
}

func (r *Routers) inquiryError(c echo.Context, op string, err error) error {
	switch {
	case errors.Is(err, inquirysvc.ErrInquiryNotFound):
		return c.JSON(http.StatusNotFound, response.ErrNotFound)
	case errors.Is(err, inquirysvc.ErrInvalidTransition):
		return c.JSON(http.StatusConflict, response.ErrorResponseWithDetails("invalid_transition", "Inquiry status does not allow this operation"))
	}

	r.log.Error("inquiry operation failed", slog.String("op", op), sl.Err(err))

	return c.JSON(http.StatusInternalServerError, response.ErrInternal)
}

// tokenErrorResponse maps purpose token verification failures to their
// HTTP shape. Returns ok=false for non-token errors.
func tokenErrorResponse(err error) (int, response.ErrorResponse, bool) {
	var expired *token.ExpiredError
	if errors.As(err, &expired) {
		return http.StatusUnauthorized, response.ExpiredTokenResponse(expired.ExpiredAt), true
	}

	if errors.Is(err, token.ErrInvalidToken) {
		return http.StatusUnauthorized, response.ErrorResponseWithDetails("invalid_token", "Token is invalid"), true
	}

	return 0, response.ErrorResponse{}, false
}

func userIDFromContext(c echo.Context) (uuid.UUID, error) {
	id, ok := c.Get(userIDKey).(uuid.UUID)
	if !ok {
		return uuid.Nil, errors.New("no authenticated user in context")
	}

	return id, nil
}

// SetUserID stores the authenticated user on the echo context. Used by
// the auth middleware and by handler tests.
func SetUserID(c echo.Context, userID uuid.UUID) {
	c.Set(userIDKey, userID)
}

func uuidParam(c echo.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}

	return id, nil
}

func callerAndParam(c echo.Context, name string) (uuid.UUID, uuid.UUID, error) {
	userID, err := userIDFromContext(c)
	if err != nil {
		return uuid.Nil, uuid.Nil, echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}

	paramID, err := uuidParam(c, name)
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}

	return userID, paramID, nil
}

func queryInt(c echo.Context, name string, def int) int {
	v, err := strconv.Atoi(c.QueryParam(name))
	if err != nil || v < 1 {
		return def
	}

	return v
}
