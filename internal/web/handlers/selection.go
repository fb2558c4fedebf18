package handlers

import (
	"fmt"
	"net/http"

	"github.com/photocore/eventgallery/internal/gallery"
	"github.com/photocore/eventgallery/internal/session"
)

// selectionResponse выбор без остального состояния
type selectionResponse struct {
	SelectedCount     int                     `json:"selected_count"`
	Entries           []gallery.SelectedAsset `json:"entries"`
	PreviewThumbnails []string                `json:"preview_thumbnails"`
	Notices           []gallery.Notice        `json:"notices"`
}

// Selection возвращает выбранные ассеты
func (h *Handlers) Selection(w http.ResponseWriter, r *http.Request) {
	s, ok := h.kindSession(w, r)
	if !ok {
		return
	}
	h.respondSelection(w, s)
}

// ToggleSelection выбирает или снимает выбор с ассета текущей страницы
func (h *Handlers) ToggleSelection(w http.ResponseWriter, r *http.Request) {
	s, ok := h.kindSession(w, r)
	if !ok {
		return
	}

	var req struct {
		ID string `json:"id"`
	}
	if err := decode(r, &req); err != nil {
		h.jsonError(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	// Снять выбор можно и с ассета другой страницы
	sel := s.State.Selection()
	if sel.IsSelected(req.ID) {
		sel.Toggle(gallery.AssetMeta{ID: req.ID})
		h.respondSelection(w, s)
		return
	}

	asset, found := visibleAsset(s.State, req.ID)
	if !found {
		h.respondState(w, s, fmt.Errorf("%w: asset %q is not on the current page", gallery.ErrValidation, req.ID))
		return
	}
	sel.Toggle(asset)
	h.respondSelection(w, s)
}

// SelectAllVisible переключает выбор всей текущей страницы
func (h *Handlers) SelectAllVisible(w http.ResponseWriter, r *http.Request) {
	s, ok := h.kindSession(w, r)
	if !ok {
		return
	}
	s.State.Selection().SelectAllVisible(s.State.Images())
	h.respondSelection(w, s)
}

// ClearSelection очищает выбор
func (h *Handlers) ClearSelection(w http.ResponseWriter, r *http.Request) {
	s, ok := h.kindSession(w, r)
	if !ok {
		return
	}
	s.State.Selection().Clear()
	h.respondSelection(w, s)
}

func (h *Handlers) respondSelection(w http.ResponseWriter, s *session.Session) {
	sel := s.State.Selection()
	entries := sel.Entries()
	h.jsonResponse(w, selectionResponse{
		SelectedCount:     len(entries),
		Entries:           entries,
		PreviewThumbnails: sel.PreviewThumbnails(4),
		Notices:           s.Notices.Drain(),
	})
}

func visibleAsset(state *gallery.State, id string) (gallery.AssetMeta, bool) {
	for _, a := range state.Images() {
		if a.ID == id {
			return a, true
		}
	}
	return gallery.AssetMeta{}, false
}
