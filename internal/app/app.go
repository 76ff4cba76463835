package app

import (
	"context"
	"log/slog"

	httpapp "reno_market/internal/app/http"
	"reno_market/internal/config"
	"reno_market/internal/lib/token"
	"reno_market/internal/repository"
	authsvc "reno_market/internal/services/auth"
	emailconfirmsvc "reno_market/internal/services/emailconfirm"
	inquirysvc "reno_market/internal/services/inquiry_service"
	"reno_market/internal/services/mailer"
	mediasvc "reno_market/internal/services/media_service"
	passresetsvc "reno_market/internal/services/passreset"
	projectsvc "reno_market/internal/services/project_service"
	usersvc "reno_market/internal/services/user_service"
	redisapp "reno_market/internal/storage/redis"
	s3storage "reno_market/internal/storage/s3"
	httprouters "reno_market/internal/transport/http"
)

type App struct {
	HTTPServer *httpapp.Server

	repo  *repository.Repository
	redis *redisapp.Client
}

func New(ctx context.Context, log *slog.Logger, cfg *config.Config) *App {
	if err := repository.RunMigrations(ctx, cfg.DSN); err != nil {
		panic(err)
	}

	repo, err := repository.NewRepository(ctx, cfg.DSN)
	if err != nil {
		panic(err)
	}

	redisClient := redisapp.NewClient(cfg.Redis.RedisAddr, cfg.Redis.RedisPassword, cfg.Redis.RedisDB)
	if err := redisClient.HealthCheck(ctx); err != nil {
		log.Warn("redis is not reachable, summary cache degraded", slog.Any("error", err.Error()))
	}
	summaryCache := repository.NewRedisSummaryCache(redisClient)

	fileStorage, err := s3storage.NewS3Storage(ctx, cfg.S3)
	if err != nil {
		panic(err)
	}

	var mail mailer.Mailer
	if cfg.Env == "local" {
		mail = mailer.NewLogMailer(log)
	} else {
		mail = mailer.NewSMTPMailer(cfg.SMTP)
	}

	accessTokens := token.NewManager(cfg.Tokens.Access)
	refreshTokens := token.NewManager(cfg.Tokens.Refresh)
	resetTokens := token.NewManager(cfg.Tokens.PasswordReset)
	confirmTokens := token.NewManager(cfg.Tokens.EmailConfirm)

	authService := authsvc.New(log, repo.User, repo.User, accessTokens, refreshTokens)
	userService := usersvc.NewUserService(log, repo.User)
	passReset := passresetsvc.New(log, repo.User, resetTokens, mail, cfg.PublicBaseURL)
	emailConfirm := emailconfirmsvc.New(log, repo.User, confirmTokens, mail, cfg.PublicBaseURL)
	projectService := projectsvc.NewProjectService(log, repo.Project, summaryCache)
	inquiryService := inquirysvc.NewInquiryService(log, repo.Inquiry, repo.Project)
	mediaService := mediasvc.NewMediaService(log, repo.Media, fileStorage)

	routers := httprouters.NewRouter(
		log,
		userService,
		authService,
		passReset,
		emailConfirm,
		projectService,
		inquiryService,
		mediaService,
	)

	server := httpapp.New(log, cfg.SessionSecret, cfg.HTTP.Host, cfg.HTTP.Port, routers)

	return &App{
		HTTPServer: server,
		repo:       repo,
		redis:      redisClient,
	}
}

// Stop releases the storage handles after the HTTP server has drained.
func (a *App) Stop() {
	a.repo.Close()
	a.redis.Close()
}
