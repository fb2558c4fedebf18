package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/photocore/eventgallery/internal/auth"
	"github.com/photocore/eventgallery/internal/export"
	"github.com/photocore/eventgallery/internal/gallery"
)

// errExportRunning в сессии уже выполняется экспорт
var errExportRunning = fmt.Errorf("%w: export is already running", gallery.ErrBusy)

// === Экспорт ===

// Download отдает выбранное одним файлом или zip-архивом
func (h *Handlers) Download(w http.ResponseWriter, r *http.Request) {
	s, ok := h.kindSession(w, r)
	if !ok {
		return
	}
	if !s.BeginExport() {
		h.respondState(w, s, errExportRunning)
		return
	}
	defer s.EndExport()

	// Уход клиента не прерывает сборку архива
	ctx := context.WithoutCancel(r.Context())
	res, err := h.exports.Download(ctx, s.State.Selection(), s.Options.Title, s.Notices)
	if err != nil {
		h.respondState(w, s, err)
		return
	}

	if res.File == nil {
		h.jsonResponse(w, map[string]interface{}{
			"report":  res.Report,
			"notices": s.Notices.Drain(),
		})
		return
	}

	w.Header().Set("X-Export-Report", res.Report.String())
	serveFile(w, res.File)
}

// Archive ставит сборку архива в фоновую очередь
func (h *Handlers) Archive(w http.ResponseWriter, r *http.Request) {
	s, ok := h.kindSession(w, r)
	if !ok {
		return
	}

	job, err := h.jobs.SubmitArchive(auth.GetViewerID(r), s.State.Selection(), s.Options.Title, s.Notices)
	if err != nil {
		h.respondState(w, s, err)
		return
	}

	h.jsonStatus(w, map[string]interface{}{
		"job":     job,
		"notices": s.Notices.Drain(),
	}, http.StatusAccepted)
}

// Share отправляет гостевую ссылку на выбранные ассеты
func (h *Handlers) Share(w http.ResponseWriter, r *http.Request) {
	s, ok := h.kindSession(w, r)
	if !ok {
		return
	}

	var req struct {
		Contact string `json:"contact"`
	}
	if err := decode(r, &req); err != nil {
		h.jsonError(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	if !s.BeginExport() {
		h.respondState(w, s, errExportRunning)
		return
	}
	defer s.EndExport()

	ids := s.State.Selection().IDs()
	res, err := h.exports.Share(r.Context(), s.Options.GalleryUUID, ids, req.Contact, s.Notices)
	if err != nil {
		h.respondState(w, s, err)
		return
	}

	h.jsonResponse(w, map[string]interface{}{
		"share":   res,
		"notices": s.Notices.Drain(),
	})
}

// Job возвращает состояние фоновой сборки архива
func (h *Handlers) Job(w http.ResponseWriter, r *http.Request) {
	job, ok := h.ownJob(w, r)
	if !ok {
		return
	}
	h.jsonResponse(w, job)
}

// JobFile отдает собранный архив
func (h *Handlers) JobFile(w http.ResponseWriter, r *http.Request) {
	job, ok := h.ownJob(w, r)
	if !ok {
		return
	}

	file := job.File()
	if job.Status != export.JobDone || file == nil {
		h.jsonError(w, "Archive is not ready", http.StatusConflict)
		return
	}

	w.Header().Set("X-Export-Report", job.Report.String())
	serveFile(w, file)
}

func (h *Handlers) ownJob(w http.ResponseWriter, r *http.Request) (*export.Job, bool) {
	job, ok := h.jobs.Get(chi.URLParam(r, "job"))
	if !ok || job.Owner() != auth.GetViewerID(r) {
		h.jsonError(w, "Export not found", http.StatusNotFound)
		return nil, false
	}
	return job, true
}

func serveFile(w http.ResponseWriter, file *export.File) {
	w.Header().Set("Content-Type", file.ContentType)
	w.Header().Set("Content-Disposition", "attachment; filename="+strconv.Quote(file.Name))
	w.Header().Set("Content-Length", strconv.Itoa(len(file.Data)))
	w.Write(file.Data)
}
