package httpapp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"reno_market/internal/lib/logger/sl"
	"reno_market/internal/lib/token"
	"reno_market/internal/metrics"
	appmw "reno_market/internal/middleware"
	httprouters "reno_market/internal/transport/http"
	"reno_market/internal/transport/http/dto/response"

	"github.com/arl/statsviz"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	echoSwagger "github.com/swaggo/echo-swagger"
)

type CustomValidator struct {
	validator *validator.Validate
}

func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

type Server struct {
	m       *http.ServeMux
	log     *slog.Logger
	e       *echo.Echo
	routers *httprouters.Routers
	host    string
	port    string
}

func New(log *slog.Logger, sessionSecret, host, port string, routers *httprouters.Routers) *Server {
	e := echo.New()
	e.HideBanner = true

	validate := validator.New()
	e.Validator = &CustomValidator{validator: validate}

	e.Use(session.Middleware(sessions.NewCookieStore([]byte(sessionSecret))))

	e.Use(middleware.CORS())
	e.Use(middleware.Recover())
	e.Use(appmw.PrometheusMetrics)

	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:      true,
		LogStatus:   true,
		LogRemoteIP: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			log.Info("request",
				slog.String("URI", v.URI),
				slog.Int("status", v.Status),
				slog.String("remote ip", v.RemoteIP),
			)

			return nil
		},
	}))

	mux := http.NewServeMux()
	if err := statsviz.Register(mux); err != nil {
		log.Info("statsviz start with error", slog.Any("error:", err.Error()))
	}

	return &Server{
		m:       mux,
		log:     log,
		e:       e,
		routers: routers,
		host:    host,
		port:    port,
	}
}

func (s *Server) MustRun() {
	const op = "http.Server.MustRun"

	s.log.Info(op, slog.String("Start", "server"))

	if err := s.Start(); err != nil {
		panic(err)
	}
}

func (s *Server) Start() error {
	const op = "http.Server.Start"

	if err := s.e.Start(fmt.Sprintf(":%s", s.port)); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("%s server stopped: %w", op, err)
	}

	return nil
}

func (s *Server) Stop() error {
	const op = "http.Server.Stop"

	optCtx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()

	s.log.Info("stopping", op, "http server")

	if err := s.e.Shutdown(optCtx); err != nil {
		return fmt.Errorf("%s could not shutdown server gracefuly: %w", op, err)
	}

	return nil
}

// authMiddleware verifies the bearer access token and stores the
// authenticated user on the context. Expired tokens answer with their
// expiry timestamp so clients know to refresh rather than re-login.
func (s *Server) authMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		payload, err := s.routers.AuthService.VerifyAccessToken(c.Request())
		if err != nil {
			var expired *token.ExpiredError
			if errors.As(err, &expired) {
				metrics.TokenVerifyFailures.WithLabelValues("access", "expired").Inc()
				return c.JSON(http.StatusUnauthorized, response.ExpiredTokenResponse(expired.ExpiredAt))
			}

			metrics.TokenVerifyFailures.WithLabelValues("access", "invalid").Inc()
			return c.JSON(http.StatusUnauthorized, response.ErrInvalidAccessToken)
		}

		userID, err := uuid.Parse(payload.Sub)
		if err != nil {
			s.log.Warn("malformed subject in access token", sl.Err(err))
			return c.JSON(http.StatusUnauthorized, response.ErrInvalidAccessToken)
		}

		httprouters.SetUserID(c, userID)

		return next(c)
	}
}

func (s *Server) adminOnlyMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		sess, err := session.Get("session", c)
		if err != nil {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "session required"})
		}

		userID, ok := sess.Values["user_id"].(string)
		if !ok || userID == "" {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "authentication required"})
		}

		parsedUUID, err := uuid.Parse(userID)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid user ID format"})
		}

		isAdmin, err := s.routers.UserService.IsAdmin(c.Request().Context(), parsedUUID)
		if err != nil || !isAdmin {
			return c.JSON(http.StatusForbidden, map[string]string{"error": "admin access required"})
		}

		return next(c)
	}
}

func (s *Server) BuildRouters() {
	// The refresh cookie is scoped to this exact path, so the route
	// lives outside the api group.
	s.e.POST("/refresh_token", s.routers.Refresh)

	s.e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	debug := s.e.Group("/debug")
	{
		debug.GET("/statsviz/", echo.WrapHandler(s.m))
		debug.GET("/statsviz/*", echo.WrapHandler(s.m))
	}

	swagger := s.e.Group("/swag")
	{
		swagger.GET("/swagger/*", echoSwagger.WrapHandler)
	}

	api := s.e.Group("/api/v1")
	{
		api.POST("/register", s.routers.Register)
		api.POST("/login", s.routers.Login)
		api.POST("/logout", s.routers.Logout)
		api.POST("/password-reset/request", s.routers.RequestPasswordReset)
		api.POST("/password-reset/confirm", s.routers.ConfirmPasswordReset)
		api.POST("/confirm-email", s.routers.ConfirmEmail)

		// Public catalogue surface.
		api.GET("/projects/slug/:slug", s.routers.GetProject)
		api.GET("/projects/:project_id/rooms", s.routers.ListRooms)
		api.GET("/projects/:project_id/summary", s.routers.ProjectSummary)
		api.GET("/projects/:project_id/media", s.routers.ListProjectMedia)
		api.GET("/rooms/:room_id/products", s.routers.ListProducts)

		authed := api.Group("", s.authMiddleware)
		{
			authed.GET("/users/me", s.routers.Me)
			authed.GET("/users/:user_id/is-admin", s.routers.IsAdminPermission)

			authed.POST("/projects", s.routers.CreateProject)
			authed.GET("/projects", s.routers.ListProjects)
			authed.PATCH("/projects/:project_id", s.routers.UpdateProject)
			authed.DELETE("/projects/:project_id", s.routers.DeleteProject)
			authed.POST("/projects/:project_id/publish", s.routers.PublishProject)
			authed.POST("/projects/:project_id/archive", s.routers.ArchiveProject)
			authed.POST("/projects/:project_id/rooms", s.routers.AddRoom)
			authed.POST("/projects/:project_id/products", s.routers.AddProduct)
			authed.GET("/projects/:project_id/inquiries", s.routers.ListProjectInquiries)

			authed.POST("/inquiries", s.routers.CreateInquiry)
			authed.POST("/inquiries/:inquiry_id/quotes", s.routers.SubmitQuote)
			authed.GET("/inquiries/:inquiry_id/quotes", s.routers.ListInquiryQuotes)
			authed.POST("/inquiries/:inquiry_id/accept", s.routers.AcceptQuote)
			authed.POST("/inquiries/:inquiry_id/decline", s.routers.DeclineQuote)

			authed.POST("/media/upload", s.routers.UploadMedia)
			authed.GET("/media/:media_id/url", s.routers.MediaURL)
			authed.DELETE("/media/:media_id", s.routers.DeleteMedia, s.adminOnlyMiddleware)
		}
	}
}
