package session

import (
	"context"
	"fmt"
	"strings"

	"github.com/photocore/eventgallery/internal/cache"
	"github.com/photocore/eventgallery/internal/config"
	"github.com/photocore/eventgallery/internal/gallery"
	"github.com/photocore/eventgallery/internal/logger"
	"github.com/photocore/eventgallery/internal/storage"
)

// PlaceholderBase маршрут картинок-заглушек
const PlaceholderBase = "/placeholder"

// Backend API ассетов, нужное сессиям
type Backend interface {
	gallery.AssetGateway
	gallery.ShareAuthenticator
	BaseURL() string
}

// Manager хранит сессии галерей по ключу зритель:тип:галерея.
// Неактивные сессии удаляются по истечении IdleTimeout.
type Manager struct {
	backend  Backend
	grants   gallery.GrantStore
	live     *config.Live
	cache    *cache.Cache
	sessions *cache.Typed[*Session]
}

// NewManager создает менеджер сессий
func NewManager(backend Backend, grants gallery.GrantStore, live *config.Live) *Manager {
	cfg := live.Get()
	c := cache.New(cache.Config{
		DefaultExpiration: cfg.Session.IdleTimeout,
		MaxItems:          cfg.Session.MaxSessions,
		Sliding:           true,
	})

	return &Manager{
		backend:  backend,
		grants:   grants,
		live:     live,
		cache:    c,
		sessions: cache.NewTyped[*Session](c, "session:"),
	}
}

// Mount открывает галерею заново: прежняя сессия зрителя с ее выбором,
// режимом и страницей отбрасывается. Страница поиска сразу загружает ассеты.
func (m *Manager) Mount(ctx context.Context, viewer string, kind Kind, opts Options) (*Session, error) {
	opts.GalleryUUID = strings.TrimSpace(opts.GalleryUUID)
	opts.Title = strings.TrimSpace(opts.Title)
	if viewer == "" || opts.GalleryUUID == "" {
		return nil, fmt.Errorf("%w: viewer and gallery are required", gallery.ErrValidation)
	}

	key := sessionKey(viewer, kind, opts.GalleryUUID)

	s := m.build(viewer, kind, opts)
	m.sessions.Set(key, s)

	logger.InfoLog.Printf("Session: mounted %s gallery %s (private=%t preview=%t)", kind, opts.GalleryUUID, opts.Private, opts.Preview)

	if s.Orchestrator != nil {
		if err := s.Orchestrator.Mount(ctx); err != nil {
			return s, err
		}
	}
	return s, nil
}

// Get возвращает существующую сессию
func (m *Manager) Get(viewer string, kind Kind, galleryUUID string) (*Session, bool) {
	return m.sessions.Get(sessionKey(viewer, kind, galleryUUID))
}

// Count количество активных сессий
func (m *Manager) Count() int {
	return m.cache.Count()
}

// Close останавливает фоновую очистку
func (m *Manager) Close() {
	m.cache.Stop()
}

func (m *Manager) build(viewer string, kind Kind, opts Options) *Session {
	cfg := m.live.Get()

	// Закрытая галерея всегда приватная
	private := opts.Private || kind == KindShare

	state := gallery.NewState(gallery.StateOptions{
		PageSize:  cfg.Gallery.PageSize,
		Private:   private,
		Preview:   opts.Preview,
		PageTitle: opts.Title,
	})
	notices := gallery.NewNoticeLog(20)
	urls := gallery.NewURLBuilder(m.backend.BaseURL(), opts.GalleryUUID, opts.Title)
	placeholders := gallery.PlaceholderAssets(PlaceholderBase, opts.Title, cfg.Gallery.PreviewCount)

	s := &Session{
		Kind:    kind,
		Options: opts,
		State:   state,
		Notices: notices,
	}

	switch kind {
	case KindShare:
		s.Gate = gallery.NewShareGate(gallery.ShareGateConfig{
			Auth:         m.backend,
			Grants:       m.grants,
			GrantKey:     storage.GrantKey(viewer, opts.GalleryUUID),
			GrantTTL:     cfg.Share.GrantTTL,
			State:        state,
			URLs:         urls,
			Notifier:     notices,
			Placeholders: placeholders,
		})
	default:
		s.Orchestrator = gallery.NewOrchestrator(gallery.OrchestratorConfig{
			Gateway:      m.backend,
			State:        state,
			URLs:         urls,
			Notifier:     notices,
			ResetDelay:   cfg.Gallery.ProgressResetDelay,
			Placeholders: placeholders,
		})
	}
	return s
}

func sessionKey(viewer string, kind Kind, galleryUUID string) string {
	return viewer + ":" + string(kind) + ":" + galleryUUID
}
