package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"artschool-backend/internal/config"
	"artschool-backend/internal/database"
	"artschool-backend/internal/handler"
	"artschool-backend/internal/middleware"
	"artschool-backend/internal/repository"
	"artschool-backend/internal/router"
	"artschool-backend/internal/service"
	"artschool-backend/internal/storage"
	"artschool-backend/internal/token"
)

type App struct {
	server *http.Server
	db     *database.DB
}

func New() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	photoStore, err := storage.New(cfg.PhotoRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize photo storage: %w", err)
	}

	slog.Info("connecting to PostgreSQL")
	db, err := database.New(context.Background(), cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.EnsureSchema(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ensure database schema: %w", err)
	}

	pool := db.Pool
	userRepo := repository.NewUserRepository(pool)
	progressRepo := repository.NewProgressRepository(pool)
	videoRepo := repository.NewVideoRepository(pool)
	albumRepo := repository.NewAlbumRepository(pool)
	slog.Info("database ready")

	tokenService, err := token.New(cfg.JWTSecret)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize token service: %w", err)
	}

	authService := service.NewAuthService(userRepo, tokenService, cfg.AccessTokenTTL)
	progressService := service.NewProgressService(progressRepo)
	adminService := service.NewAdminService(userRepo, progressRepo)
	videoService := service.NewVideoService(videoRepo)
	albumService := service.NewAlbumService(albumRepo, photoStore, cfg.ThumbnailRoot)

	yandexClient := service.NewYandexClient(cfg.YandexClientID, cfg.YandexClientSecret, cfg.YandexRedirectURI)
	oauthService := service.NewOAuthService(userRepo, tokenService, yandexClient, cfg.AccessTokenTTL)

	authMiddleware := middleware.NewAuthMiddleware(tokenService, userRepo)

	appRouter := router.New(cfg, authMiddleware, router.Handlers{
		Auth:     handler.NewAuthHandler(authService),
		OAuth:    handler.NewOAuthHandler(oauthService),
		Progress: handler.NewProgressHandler(progressService),
		Admin:    handler.NewAdminHandler(adminService),
		Video:    handler.NewVideoHandler(videoService),
		Album:    handler.NewAlbumHandler(albumService, cfg.MaxUploadSize),
	}, db)

	server := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           appRouter,
		ReadHeaderTimeout: cfg.ServerReadHeaderTimeout,
		WriteTimeout:      cfg.ServerWriteTimeout,
		IdleTimeout:       cfg.ServerIdleTimeout,
	}

	return &App{server: server, db: db}, nil
}

func (a *App) Run() error {
	go func() {
		slog.Info("server starting", "addr", a.server.Addr)
		if serveErr := a.server.ListenAndServe(); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			slog.Error("server failed", "error", serveErr)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.server.Shutdown(ctx); err != nil {
		a.db.Close()
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	a.db.Close()
	slog.Info("server stopped")
	return nil
}
