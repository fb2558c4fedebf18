package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/photocore/eventgallery/internal/auth"
	"github.com/photocore/eventgallery/internal/gallery"
	"github.com/photocore/eventgallery/internal/session"
)

// === Поиск по галерее ===

// MountSearch открывает страницу поиска и загружает первую страницу
func (h *Handlers) MountSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	opts := session.Options{
		GalleryUUID: chi.URLParam(r, "uuid"),
		Title:       q.Get("title"),
		Private:     parseBool(q.Get("private")),
		Preview:     parseBool(q.Get("preview")),
	}

	s, err := h.sessions.Mount(r.Context(), auth.GetViewerID(r), session.KindSearch, opts)
	if s == nil {
		h.jsonError(w, err.Error(), errorStatus(err))
		return
	}
	h.respondState(w, s, err)
}

// SearchQuery меняет режим поиска
func (h *Handlers) SearchQuery(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r, session.KindSearch)
	if !ok {
		return
	}

	var req struct {
		Mode     string `json:"mode"`
		Query    string `json:"query"`
		PersonID string `json:"person_id"`
	}
	if err := decode(r, &req); err != nil {
		h.jsonError(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	mode, err := gallery.ParseMode(req.Mode)
	if err != nil {
		h.respondState(w, s, err)
		return
	}

	err = s.Orchestrator.ChangeQuery(r.Context(), mode, req.Query, req.PersonID)
	h.respondState(w, s, err)
}

// SearchPage переходит на страницу
func (h *Handlers) SearchPage(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r, session.KindSearch)
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

	err := s.Orchestrator.ChangePage(r.Context(), req.Page)
	h.respondState(w, s, err)
}

// SearchMore подгружает следующую страницу результатов поиска
func (h *Handlers) SearchMore(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r, session.KindSearch)
	if !ok {
		return
	}

	err := s.Orchestrator.LoadMore(r.Context())
	h.respondState(w, s, err)
}

// SearchMatch применяет результат распознавания лица по загруженному фото
func (h *Handlers) SearchMatch(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r, session.KindSearch)
	if !ok {
		return
	}

	var signal gallery.MatchSignal
	if err := decode(r, &signal); err != nil {
		h.jsonError(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	err := s.Orchestrator.ApplyMatch(r.Context(), signal)
	h.respondState(w, s, err)
}

func parseBool(s string) bool {
	v, _ := strconv.ParseBool(s)
	return v
}
