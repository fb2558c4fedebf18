package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/photocore/eventgallery/internal/auth"
	"github.com/photocore/eventgallery/internal/session"
)

// === Закрытые галереи ===

// MountShare открывает закрытую галерею. Выданный ранее доступ восстанавливается
func (h *Handlers) MountShare(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	opts := session.Options{
		GalleryUUID: chi.URLParam(r, "uuid"),
		Title:       q.Get("title"),
		Preview:     parseBool(q.Get("preview")),
	}

	s, err := h.sessions.Mount(r.Context(), auth.GetViewerID(r), session.KindShare, opts)
	if s == nil {
		h.jsonError(w, err.Error(), errorStatus(err))
		return
	}
	h.respondState(w, s, err)
}

// ShareAccess проверяет контакт и код доступа
func (h *Handlers) ShareAccess(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r, session.KindShare)
	if !ok {
		return
	}

	var req struct {
		Contact string `json:"contact"`
		Code    string `json:"code"`
	}
	if err := decode(r, &req); err != nil {
		h.jsonError(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	err := s.Gate.HandleAccess(r.Context(), req.Contact, req.Code)
	h.respondState(w, s, err)
}

// SharePage показывает страницу полученного списка
func (h *Handlers) SharePage(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r, session.KindShare)
	if !ok {
		return
	}

	var req struct {
		Page int `json:"page"`
	}
	if err := decode(r, &req); err != nil {
		h.jsonError(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	s.Gate.ShowPage(req.Page)
	h.respondState(w, s, nil)
}
