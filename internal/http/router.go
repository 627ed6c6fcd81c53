package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/pribylovaa/lapa-nations/internal/http/handlers"
	"github.com/pribylovaa/lapa-nations/internal/http/middleware"
	"github.com/pribylovaa/lapa-nations/internal/service"
)

// Options — параметры сборки HTTP-роутера.
type Options struct {
	Logger   *slog.Logger
	Timeout  time.Duration
	BasePath string // например, "/api"; если пустой — роуты регистрируются на корне.
}

// NewRouter собирает http.Handler с chi и подключёнными middleware/роутами.
// Таймаут и метрики длительности не применяются к SSE-стримам.
func NewRouter(svc *service.Service, opts Options) http.Handler {
	root := chi.NewRouter()

	// Middleware (внешний -> внутренний).
	root.Use(
		middleware.Recover(),            // ловим паники
		middleware.RequestID(),          // X-Request-Id до логирования
		middleware.Session(),            // X-Session-Id в контекст
		middleware.Logging(opts.Logger), // request-scoped логгер и запись "http"
	)

	h := handlers.New(svc)

	if opts.BasePath != "" {
		sub := chi.NewRouter()
		registerRoutes(sub, h, opts.Timeout)
		root.Mount(opts.BasePath, sub)
		return root
	}

	registerRoutes(root, h, opts.Timeout)
	return root
}

// registerRoutes — единая точка регистрации всех REST/SSE-эндпойнтов.
func registerRoutes(r chi.Router, h *handlers.Handlers, timeout time.Duration) {
	r.Group(func(r chi.Router) {
		r.Use(middleware.Metrics(), middleware.Timeout(timeout))

		// countries
		r.Post("/countries", h.RegisterCountry)
		r.Get("/countries", h.ListCountries)
		r.Get("/countries/{id}", h.GetCountry)

		// news
		r.Post("/news", h.PublishNews)
		r.Get("/news", h.ListNews)
		r.Get("/news/{id}", h.GetNews)
		r.Post("/news/{id}/likes", h.LikeNews)
		r.Post("/news/{id}/comments", h.CommentNews)
		r.Post("/news/images/presign", h.ImagePresign)
		r.Post("/news/images/confirm", h.ImageConfirm)

		// global comments
		r.Get("/comments", h.ListGlobalComments)
		r.Post("/comments", h.PostGlobalComment)

		// link preview
		r.Post("/unfurl", h.Unfurl)
		r.Get("/links", h.ListLinks)
		r.Post("/links", h.AddLink)
		r.Patch("/links/{id}", h.UpdateLinkNotes)
		r.Delete("/links/{id}", h.DeleteLink)

		// session
		r.Get("/session", h.GetSession)
		r.Patch("/session", h.UpdateSession)
	})

	// streams (SSE)
	r.Get("/countries/stream", h.StreamCountries)
	r.Get("/news/stream", h.StreamNews)
	r.Get("/comments/stream", h.StreamGlobalComments)
}
