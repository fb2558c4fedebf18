package web

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/photocore/eventgallery/internal/auth"
	"github.com/photocore/eventgallery/internal/logger"
	"github.com/photocore/eventgallery/internal/web/handlers"
)

// Server веб-сервер BFF галерей
type Server struct {
	addr    string
	h       *handlers.Handlers
	viewers *auth.Viewers
	router  *chi.Mux
	http    *http.Server
}

// NewServer создает новый веб-сервер
func NewServer(addr string, h *handlers.Handlers, viewers *auth.Viewers) *Server {
	s := &Server{
		addr:    addr,
		h:       h,
		viewers: viewers,
	}

	s.setupRoutes()
	s.http = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler возвращает корневой обработчик
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestLogger(&middleware.DefaultLogFormatter{Logger: logger.AccessLog, NoColor: true}))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))

	h := s.h
	timeout := middleware.Timeout(60 * time.Second)

	r.With(timeout).Get("/healthz", h.Health)
	r.With(timeout).Get("/placeholder/{n}/{size}", h.Placeholder)

	r.Route("/api", func(r chi.Router) {
		r.Use(s.viewers.Middleware)

		r.Route("/galleries/{uuid}", func(r chi.Router) {
			// Скачивание выполняется до конца без таймаута маршрута
			r.Post("/{kind}/export/download", h.Download)

			r.Group(func(r chi.Router) {
				r.Use(timeout)

				// Поиск
				r.Get("/search", h.MountSearch)
				r.Post("/search/query", h.SearchQuery)
				r.Post("/search/page", h.SearchPage)
				r.Post("/search/more", h.SearchMore)
				r.Post("/search/match", h.SearchMatch)

				// Закрытая галерея
				r.Get("/share", h.MountShare)
				r.Post("/share/access", h.ShareAccess)
				r.Post("/share/page", h.SharePage)

				// Выбор и экспорт
				r.Get("/{kind}/selection", h.Selection)
				r.Post("/{kind}/selection/toggle", h.ToggleSelection)
				r.Post("/{kind}/selection/all", h.SelectAllVisible)
				r.Post("/{kind}/selection/clear", h.ClearSelection)
				r.Post("/{kind}/export/archive", h.Archive)
				r.Post("/{kind}/export/share", h.Share)
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(timeout)
			r.Get("/stats", h.Stats)
			r.Get("/exports/{job}", h.Job)
			r.Get("/exports/{job}/file", h.JobFile)
		})
	})

	s.router = r
}

// Start запускает веб-сервер. Возвращает nil после Shutdown
func (s *Server) Start() error {
	log.Printf("Starting server on http://%s", s.addr)
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown останавливает сервер, дожидаясь активных запросов
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
