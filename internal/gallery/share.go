package gallery

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/photocore/eventgallery/internal/auth"
	"github.com/photocore/eventgallery/internal/gateway"
	"github.com/photocore/eventgallery/internal/logger"
	"github.com/photocore/eventgallery/internal/storage"
)

// GateStatus состояние доступа к закрытой галерее
type GateStatus string

const (
	GateLocked      GateStatus = "locked"
	GateAuthorizing GateStatus = "authorizing"
	GateAuthorized  GateStatus = "authorized"
)

// ShareAuthenticator обменивает данные доступа на список ассетов
type ShareAuthenticator interface {
	ShareAuthenticate(ctx context.Context, galleryUUID, contactID, accessCode string) ([]string, error)
}

// GrantStore хранилище выданных доступов
type GrantStore interface {
	SaveGrant(key string, g *storage.ShareGrant, ttl time.Duration) error
	GetGrant(key string) (*storage.ShareGrant, error)
}

// ShareGateConfig зависимости ShareGate
type ShareGateConfig struct {
	Auth     ShareAuthenticator
	Grants   GrantStore
	GrantKey string
	GrantTTL time.Duration
	State    *State
	URLs     URLBuilder
	Notifier Notifier
	// Заглушки для режима предпросмотра
	Placeholders []AssetMeta
}

// ShareGate закрытая галерея: один раз получает список ID по данным доступа,
// после чего листает его локально без запросов к бэкенду.
type ShareGate struct {
	mu       sync.Mutex
	status   GateStatus
	ids      []string
	contact  string
	codeHash []byte
	preview  []AssetMeta

	auth     ShareAuthenticator
	grants   GrantStore
	grantKey string
	grantTTL time.Duration
	state    *State
	urls     URLBuilder
	notifier Notifier
}

// NewShareGate создает шлюз. Если для сессии уже выдан доступ, он восстанавливается
func NewShareGate(cfg ShareGateConfig) *ShareGate {
	n := cfg.Notifier
	if n == nil {
		n = discardNotifier{}
	}
	g := &ShareGate{
		status:   GateLocked,
		auth:     cfg.Auth,
		grants:   cfg.Grants,
		grantKey: cfg.GrantKey,
		grantTTL: cfg.GrantTTL,
		state:    cfg.State,
		urls:     cfg.URLs,
		notifier: n,
		preview:  cfg.Placeholders,
	}

	if cfg.State.Preview() {
		g.enterPreview()
		return g
	}

	g.restore()
	return g
}

// Status возвращает текущее состояние доступа
func (g *ShareGate) Status() GateStatus {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.status
}

// State возвращает состояние галереи
func (g *ShareGate) State() *State {
	return g.state
}

// HandleAccess проверяет данные доступа через бэкенд.
// При успехе сохраняет упорядоченный список ID и показывает первую страницу.
func (g *ShareGate) HandleAccess(ctx context.Context, contact, code string) error {
	contact = strings.TrimSpace(contact)
	code = strings.TrimSpace(code)
	if contact == "" || code == "" {
		g.notifier.Notify(NoticeWarning, "Please enter your contact and access code.")
		return fmt.Errorf("%w: contact and access code are required", ErrValidation)
	}

	g.mu.Lock()
	switch g.status {
	case GateAuthorizing:
		g.mu.Unlock()
		return ErrBusy
	case GateAuthorized:
		// Список ассетов неизменен в пределах сессии
		same := g.contact == contact && auth.CheckAccessCode(g.codeHash, code)
		g.mu.Unlock()
		if same {
			return nil
		}
		return fmt.Errorf("%w: gallery is already unlocked for this session", ErrValidation)
	}
	g.status = GateAuthorizing
	g.mu.Unlock()

	ids, err := g.auth.ShareAuthenticate(ctx, g.urls.GalleryUUID, contact, code)
	if err != nil {
		g.lock()
		var se *gateway.StatusError
		if errors.As(err, &se) && se.IsAuthError() {
			g.notifier.Notify(NoticeError, "Invalid contact or access code.")
			return fmt.Errorf("%w: %v", ErrAccessDenied, err)
		}
		logger.ErrorLog.Printf("Share gallery %s: authentication failed: %v", g.urls.GalleryUUID, err)
		g.notifier.Notify(NoticeError, "Could not verify access. Please try again.")
		return err
	}

	if len(ids) == 0 {
		g.lock()
		g.notifier.Notify(NoticeWarning, "No photos found for this contact.")
		return ErrNoAssets
	}

	hash, err := auth.HashAccessCode(code)
	if err != nil {
		// Без хеша повторный ввод того же кода будет отклонен, доступ остается
		logger.ErrorLog.Printf("Share gallery %s: failed to hash access code: %v", g.urls.GalleryUUID, err)
	}

	g.mu.Lock()
	g.ids = append([]string(nil), ids...)
	g.contact = contact
	g.codeHash = hash
	g.status = GateAuthorized
	g.mu.Unlock()

	g.persist()
	g.ShowPage(1)
	return nil
}

// ShowPage показывает страницу из локального списка. Сетевых вызовов нет.
// В состоянии Locked ничего не делает.
func (g *ShareGate) ShowPage(page int) {
	if page < 1 {
		page = 1
	}

	g.mu.Lock()
	if g.status != GateAuthorized {
		g.mu.Unlock()
		return
	}
	ids := g.ids
	preview := g.preview
	g.mu.Unlock()

	pageSize := g.state.Query().PageSize

	if g.state.Preview() {
		slice, _ := paginateAssets(preview, page, pageSize)
		g.state.SetLocalPage(page, slice, len(preview))
		return
	}

	slice, _ := Paginate(ids, page, pageSize)
	g.state.SetLocalPage(page, g.urls.Assets(slice), len(ids))
}

// AssetIDs возвращает полученный список ID
func (g *ShareGate) AssetIDs() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.ids...)
}

func (g *ShareGate) lock() {
	g.mu.Lock()
	g.status = GateLocked
	g.mu.Unlock()
}

func (g *ShareGate) enterPreview() {
	g.mu.Lock()
	g.ids = make([]string, len(g.preview))
	for i, a := range g.preview {
		g.ids[i] = a.ID
	}
	g.status = GateAuthorized
	g.mu.Unlock()

	g.ShowPage(1)
}

func (g *ShareGate) restore() {
	if g.grants == nil || g.grantKey == "" {
		return
	}

	grant, err := g.grants.GetGrant(g.grantKey)
	if err != nil {
		logger.ErrorLog.Printf("Share gallery %s: failed to load grant: %v", g.urls.GalleryUUID, err)
		return
	}
	if grant == nil || len(grant.AssetIDs) == 0 {
		return
	}

	g.mu.Lock()
	g.ids = grant.AssetIDs
	g.contact = grant.Contact
	g.codeHash = grant.CodeHash
	g.status = GateAuthorized
	g.mu.Unlock()

	g.ShowPage(1)
}

func (g *ShareGate) persist() {
	if g.grants == nil || g.grantKey == "" {
		return
	}

	g.mu.Lock()
	grant := &storage.ShareGrant{
		GalleryUUID: g.urls.GalleryUUID,
		Contact:     g.contact,
		CodeHash:    g.codeHash,
		AssetIDs:    append([]string(nil), g.ids...),
		GrantedAt:   time.Now(),
	}
	g.mu.Unlock()

	if err := g.grants.SaveGrant(g.grantKey, grant, g.grantTTL); err != nil {
		logger.ErrorLog.Printf("Share gallery %s: failed to save grant: %v", g.urls.GalleryUUID, err)
	}
}
