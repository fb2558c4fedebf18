package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/photocore/eventgallery/internal/auth"
	"github.com/photocore/eventgallery/internal/export"
	"github.com/photocore/eventgallery/internal/gallery"
	"github.com/photocore/eventgallery/internal/gateway"
	"github.com/photocore/eventgallery/internal/media"
	"github.com/photocore/eventgallery/internal/session"
	"github.com/photocore/eventgallery/internal/storage"
	"github.com/photocore/eventgallery/internal/worker"
)

// Handlers содержит все HTTP-обработчики
type Handlers struct {
	sessions     *session.Manager
	exports      *export.Engine
	jobs         *export.JobService
	placeholders *media.PlaceholderRenderer
	pool         *worker.Pool
	store        *storage.Store
}

// NewHandlers создает новый экземпляр обработчиков
func NewHandlers(
	sessions *session.Manager,
	exports *export.Engine,
	jobs *export.JobService,
	placeholders *media.PlaceholderRenderer,
	pool *worker.Pool,
	store *storage.Store,
) *Handlers {
	return &Handlers{
		sessions:     sessions,
		exports:      exports,
		jobs:         jobs,
		placeholders: placeholders,
		pool:         pool,
		store:        store,
	}
}

// stateResponse состояние галереи вместе с накопленными уведомлениями
type stateResponse struct {
	State   gallery.Snapshot   `json:"state"`
	Gate    gallery.GateStatus `json:"gate,omitempty"`
	Notices []gallery.Notice   `json:"notices"`
	Error   string             `json:"error,omitempty"`
}

// === Служебные ===

// Health проверка живости
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	h.jsonResponse(w, map[string]string{"status": "ok"})
}

// Stats статистика сессий, очереди и хранилища доступов
func (h *Handlers) Stats(w http.ResponseWriter, r *http.Request) {
	grants, err := h.store.GetStats()
	if err != nil {
		h.jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	h.jsonResponse(w, map[string]interface{}{
		"sessions": h.sessions.Count(),
		"queue":    h.pool.Stats(),
		"grants":   grants,
	})
}

// Placeholder отдает картинку-заглушку для режима предпросмотра
func (h *Handlers) Placeholder(w http.ResponseWriter, r *http.Request) {
	n, err := strconv.Atoi(chi.URLParam(r, "n"))
	if err != nil {
		http.Error(w, "Invalid placeholder", http.StatusBadRequest)
		return
	}

	data, err := h.placeholders.Render(n, chi.URLParam(r, "size"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.Write(data)
}

// === Вспомогательные ===

// session находит смонтированную сессию по параметрам маршрута
func (h *Handlers) session(w http.ResponseWriter, r *http.Request, kind session.Kind) (*session.Session, bool) {
	viewer := auth.GetViewerID(r)
	uuid := chi.URLParam(r, "uuid")

	s, ok := h.sessions.Get(viewer, kind, uuid)
	if !ok {
		h.jsonError(w, "Gallery is not open, reload the page", http.StatusNotFound)
		return nil, false
	}
	return s, true
}

// kindSession то же, что session, но тип берется из URL
func (h *Handlers) kindSession(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	kind, err := session.ParseKind(chi.URLParam(r, "kind"))
	if err != nil {
		h.jsonError(w, err.Error(), http.StatusNotFound)
		return nil, false
	}
	return h.session(w, r, kind)
}

// respondState отвечает снимком состояния. При ошибке состояние тоже
// возвращается, чтобы UI показал уведомления
func (h *Handlers) respondState(w http.ResponseWriter, s *session.Session, err error) {
	resp := stateResponse{
		State:   s.State.Snapshot(),
		Notices: s.Notices.Drain(),
	}
	if s.Gate != nil {
		resp.Gate = s.Gate.Status()
	}

	w.Header().Set("Content-Type", "application/json")
	if err != nil {
		resp.Error = err.Error()
		w.WriteHeader(errorStatus(err))
	}
	json.NewEncoder(w).Encode(resp)
}

// decode читает JSON тела запроса. Пустое тело допустимо
func decode(r *http.Request, v interface{}) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// errorStatus переводит ошибку в HTTP-статус
func errorStatus(err error) int {
	var se *gateway.StatusError
	switch {
	case errors.Is(err, gallery.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, gallery.ErrAccessDenied):
		return http.StatusForbidden
	case errors.Is(err, gallery.ErrNoAssets):
		return http.StatusNotFound
	case errors.Is(err, gallery.ErrBusy):
		return http.StatusConflict
	case errors.Is(err, worker.ErrQueueFull), errors.Is(err, worker.ErrStopped):
		return http.StatusServiceUnavailable
	case errors.As(err, &se):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handlers) jsonResponse(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(data)
}

func (h *Handlers) jsonStatus(w http.ResponseWriter, data interface{}, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(data)
}

func (h *Handlers) jsonError(w http.ResponseWriter, message string, code int) {
	if code >= http.StatusInternalServerError {
		log.Printf("HTTP %d: %s", code, message)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
