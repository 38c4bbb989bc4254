// Package api exposes the conversion engine and the site collaborators
// (uploads, login, posts) over HTTP.
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/Tech2AI-collab/tech2ai-hub/internal/config"
	"github.com/Tech2AI-collab/tech2ai-hub/internal/domain"
	"github.com/Tech2AI-collab/tech2ai-hub/internal/observability"
	"github.com/Tech2AI-collab/tech2ai-hub/internal/posts"
	"github.com/Tech2AI-collab/tech2ai-hub/internal/uploads"
)

// Deps are the services the router wires into handlers.
type Deps struct {
	Config  *config.Config
	Loader  domain.Loader
	Posts   *posts.Store
	Uploads *uploads.Store
	Logger  *observability.Logger
}

// NewRouter creates the HTTP router with all routes configured.
func NewRouter(d Deps) http.Handler {
	if d.Logger == nil {
		d.Logger = observability.Nop()
	}
	cfg := d.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(RequestLogger(d.Logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(CORS(cfg.Server.AllowedOrigins))
	if cfg.Server.WriteTimeout > 0 {
		r.Use(chimiddleware.Timeout(cfg.Server.WriteTimeout))
	}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"status":  "healthy",
			"service": "tech2ai-hub",
			"time":    time.Now().UTC().Format(time.RFC3339),
		})
	})

	authHandler := NewAuthHandler(d.Logger, func() string { return cfg.Auth.AdminPassword })
	uploadHandler := NewUploadHandler(d.Logger, d.Uploads, cfg.Server.MaxUploadBytes)
	postsHandler := NewPostsHandler(d.Logger, d.Posts)
	convertHandler := NewConvertHandler(d.Logger, d.Loader, cfg.Conversion, cfg.Server.MaxUploadBytes)

	r.Route("/api", func(r chi.Router) {
		r.Post("/login", authHandler.Login)
		r.Post("/upload", uploadHandler.Upload)
		r.Post("/convert", convertHandler.Convert)

		r.Route("/posts", func(r chi.Router) {
			r.Get("/", postsHandler.List)
			r.Post("/", postsHandler.Create)
			r.Get("/{slug}", postsHandler.Get)
			r.Put("/{slug}", postsHandler.Update)
			r.Delete("/{slug}", postsHandler.Delete)
			r.Post("/{slug}/views", postsHandler.View)
		})
	})

	if d.Uploads != nil {
		files := http.StripPrefix("/uploads/", http.FileServer(http.Dir(d.Uploads.Root())))
		r.Get("/uploads/*", files.ServeHTTP)
	}

	return r
}
