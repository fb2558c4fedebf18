package app

import (
	"fmt"
	"time"

	"github.com/photocore/eventgallery/internal/auth"
	"github.com/photocore/eventgallery/internal/cache"
	"github.com/photocore/eventgallery/internal/config"
	"github.com/photocore/eventgallery/internal/export"
	"github.com/photocore/eventgallery/internal/gateway"
	"github.com/photocore/eventgallery/internal/media"
	"github.com/photocore/eventgallery/internal/session"
	"github.com/photocore/eventgallery/internal/storage"
	"github.com/photocore/eventgallery/internal/web"
	"github.com/photocore/eventgallery/internal/web/handlers"
	"github.com/photocore/eventgallery/internal/worker"
)

// App собранные зависимости сервиса
type App struct {
	Server   *web.Server
	Sessions *session.Manager
	Pool     *worker.Pool

	store  *storage.Store
	jobs   *cache.Cache
	images *cache.Cache
}

// New собирает сервис из конфигурации и запускает фоновые воркеры
func New(live *config.Live) (*App, error) {
	cfg := live.Get()

	store, err := storage.NewMemoryStore()
	if err != nil {
		return nil, fmt.Errorf("failed to open grant store: %w", err)
	}

	client := gateway.NewClient(cfg.Backend.URL, gateway.WithTimeout(cfg.Backend.Timeout))

	phones, err := export.NewPhoneValidator(cfg.Export.CountryCode, cfg.Export.PhonePattern)
	if err != nil {
		store.Close()
		return nil, err
	}

	// Результаты экспорта живут отдельно, заглушки не вытесняют их
	jobCache := cache.New(cache.Config{
		DefaultExpiration: cfg.Export.JobTTL,
	})
	imageCache := cache.New(cache.Config{
		DefaultExpiration: time.Hour,
		MaxItems:          2 * media.MaxPlaceholder,
	})

	pool := worker.NewPool(worker.Options{
		Workers:   cfg.Export.Workers,
		QueueSize: cfg.Export.QueueSize,
	})

	engine := export.NewEngine(client, client, phones)
	jobs := export.NewJobService(engine, pool, jobCache, cfg.Export.JobTTL)
	sessions := session.NewManager(client, store, live)
	placeholders := media.NewPlaceholderRenderer(cfg.Placeholder, imageCache)

	h := handlers.NewHandlers(sessions, engine, jobs, placeholders, pool, store)
	srv := web.NewServer(cfg.Addr(), h, auth.NewViewers(cfg.Session.CookieMaxAge))

	pool.Start()

	return &App{
		Server:   srv,
		Sessions: sessions,
		Pool:     pool,
		store:    store,
		jobs:     jobCache,
		images:   imageCache,
	}, nil
}

// Close останавливает воркеры и освобождает ресурсы
func (a *App) Close() error {
	a.Pool.Stop()
	a.Sessions.Close()
	a.jobs.Stop()
	a.images.Stop()
	return a.store.Close()
}
