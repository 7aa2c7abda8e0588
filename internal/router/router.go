package router

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"artschool-backend/internal/config"
	"artschool-backend/internal/handler"
	"artschool-backend/internal/middleware"
)

// Handlers groups the HTTP handlers so the route table stays readable.
type Handlers struct {
	Auth     *handler.AuthHandler
	OAuth    *handler.OAuthHandler
	Progress *handler.ProgressHandler
	Admin    *handler.AdminHandler
	Video    *handler.VideoHandler
	Album    *handler.AlbumHandler
}

type HealthChecker interface {
	Health(ctx context.Context) error
}

func New(cfg *config.Config, authMiddleware *middleware.AuthMiddleware, h Handlers, db HealthChecker) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery)
	r.Use(middleware.Logging)
	r.Use(middleware.CORS(cfg.CORSOrigins))

	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		ctx, cancel := context.WithTimeout(req.Context(), 2*time.Second)
		defer cancel()

		if err := db.Health(ctx); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("database unavailable"))
			return
		}

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/api/v1", func(api chi.Router) {
		api.Use(middleware.Timeout(cfg.RequestTimeout))

		api.Route("/auth", func(auth chi.Router) {
			auth.Post("/register", h.Auth.Register)
			auth.Post("/login", h.Auth.Login)
			auth.With(authMiddleware.RequireAuth).Get("/me", h.Auth.Me)

			auth.Get("/yandex", h.OAuth.AuthURL)
			auth.Get("/yandex/callback", h.OAuth.Callback)
		})

		api.With(authMiddleware.RequireAuth).Get("/progress", h.Progress.Get)
		api.With(authMiddleware.RequireAuth).Post("/progress", h.Progress.Set)

		api.Get("/videos", h.Video.List)
		api.With(authMiddleware.RequireAuth).Get("/videos/{id}", h.Video.Get)

		api.Route("/albums", func(albums chi.Router) {
			albums.Get("/", h.Album.ListAlbums)
			albums.Get("/{albumID}/photos", h.Album.ListPhotos)
			albums.Get("/{albumID}/photos/{photoID}/file", h.Album.ServePhoto)
			albums.Get("/{albumID}/photos/{photoID}/thumbnail", h.Album.ServeThumbnail)
		})

		api.Route("/admin", func(admin chi.Router) {
			admin.Use(authMiddleware.RequireAuth)
			admin.Use(authMiddleware.RequireAdmin)

			admin.Get("/users", h.Admin.ListUsers)
			admin.Post("/users", h.Admin.CreateAdmin)
			admin.Get("/users/{id}", h.Admin.GetUser)
			admin.Put("/users/{id}", h.Admin.UpdateUser)
			admin.Delete("/users/{id}", h.Admin.DeleteUser)
			admin.Put("/users/{id}/admin", h.Admin.ToggleAdmin)
			admin.Get("/stats", h.Admin.Stats)

			admin.Post("/videos", h.Video.Create)
			admin.Put("/videos/{id}", h.Video.Update)
			admin.Delete("/videos/{id}", h.Video.Delete)

			admin.Post("/albums", h.Album.CreateAlbum)
			admin.Delete("/albums/{albumID}", h.Album.DeleteAlbum)
			admin.Post("/albums/{albumID}/photos", h.Album.UploadPhoto)
			admin.Delete("/albums/{albumID}/photos/{photoID}", h.Album.DeletePhoto)
		})
	})

	return r
}
