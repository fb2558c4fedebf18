package export

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/photocore/eventgallery/internal/gallery"
	"github.com/photocore/eventgallery/internal/gateway"
	"github.com/photocore/eventgallery/internal/logger"
)

// ErrCompression не удалось собрать архив
var ErrCompression = errors.New("failed to build archive")

// Downloader скачивает файл по абсолютному URL
type Downloader interface {
	Download(ctx context.Context, url string) (*gateway.Blob, error)
}

// GuestSharer создает гостевую ссылку на набор ассетов
type GuestSharer interface {
	CreateGuestShare(ctx context.Context, galleryUUID, contact string, assetIDs []string) (*gateway.GuestShare, error)
}

// File готовый к отдаче файл
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// Report итог пакетного скачивания
type Report struct {
	Success int `json:"success"`
	Total   int `json:"total"`
}

// String возвращает отчет вида "3/5"
func (r Report) String() string {
	return strconv.Itoa(r.Success) + "/" + strconv.Itoa(r.Total)
}

// Result результат Download. File == nil, если выбор пуст
type Result struct {
	File   *File  `json:"-"`
	Report Report `json:"report"`
}

// ShareResult результат Share
type ShareResult struct {
	Contact string `json:"contact"`
	URL     string `json:"url,omitempty"`
}

// Engine экспорт выбранных ассетов: скачивание файла или zip-архива
// и отправка гостевой ссылки
type Engine struct {
	dl     Downloader
	sharer GuestSharer
	phones *PhoneValidator
	now    func() time.Time
}

// Option настраивает Engine
type Option func(*Engine)

// WithClock задает источник времени (имя архива, время записей без EXIF)
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// NewEngine создает движок экспорта
func NewEngine(dl Downloader, sharer GuestSharer, phones *PhoneValidator, opts ...Option) *Engine {
	e := &Engine{
		dl:     dl,
		sharer: sharer,
		phones: phones,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Download скачивает выбранное: один файл как есть, несколько - zip-архивом.
// Начатый экспорт не прерывается отменой ctx. После скачивания
// выбор снимается с экспортированных ассетов.
func (e *Engine) Download(ctx context.Context, sel *gallery.Selection, pageTitle string, n gallery.Notifier) (*Result, error) {
	if n == nil {
		n = gallery.Discard
	}
	ctx = context.WithoutCancel(ctx)
	entries := sel.Entries()

	switch len(entries) {
	case 0:
		return &Result{}, nil
	case 1:
		file, err := e.Single(ctx, entries[0])
		if err != nil {
			n.Notify(gallery.NoticeError, "Could not download the photo. Please try again.")
			return nil, err
		}
		sel.Remove(entries[0].ID)
		return &Result{File: file, Report: Report{Success: 1, Total: 1}}, nil
	}

	file, report, err := e.Archive(ctx, entries, pageTitle)
	notifyArchive(n, report, err)
	if err != nil {
		return &Result{Report: report}, err
	}

	sel.Remove(entryIDs(entries)...)
	return &Result{File: file, Report: report}, nil
}

// Single скачивает один ассет
func (e *Engine) Single(ctx context.Context, asset gallery.SelectedAsset) (*File, error) {
	blob, err := e.dl.Download(ctx, asset.Entry.Download)
	if err != nil {
		return nil, fmt.Errorf("failed to download asset %s: %w", asset.ID, err)
	}

	ext := Extension(blob.ContentType, blob.Data)
	contentType := blob.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	return &File{
		Name:        entryName(asset.Entry.Filename, 1, ext),
		ContentType: contentType,
		Data:        blob.Data,
	}, nil
}

// Archive последовательно скачивает ассеты и собирает zip в памяти.
// Ошибки отдельных файлов пропускаются и учитываются в отчете, архив
// собирается даже при 0 успешных. Отмена ctx сборку не останавливает.
func (e *Engine) Archive(ctx context.Context, entries []gallery.SelectedAsset, pageTitle string) (*File, Report, error) {
	ctx = context.WithoutCancel(ctx)
	report := Report{Total: len(entries)}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	for i, asset := range entries {
		blob, err := e.dl.Download(ctx, asset.Entry.Download)
		if err != nil {
			logger.ErrorLog.Printf("Export: failed to download asset %s: %v", asset.ID, err)
			continue
		}

		ext := Extension(blob.ContentType, blob.Data)
		hdr := &zip.FileHeader{
			Name:     entryName(asset.Entry.Filename, i+1, ext),
			Method:   zip.Deflate,
			Modified: e.now(),
		}
		if t, ok := captureTime(blob.Data); ok {
			hdr.Modified = t
		}

		w, err := zw.CreateHeader(hdr)
		if err != nil {
			return nil, report, fmt.Errorf("%w: %v", ErrCompression, err)
		}
		if _, err := w.Write(blob.Data); err != nil {
			return nil, report, fmt.Errorf("%w: %v", ErrCompression, err)
		}
		report.Success++
	}

	if err := zw.Close(); err != nil {
		return nil, report, fmt.Errorf("%w: %v", ErrCompression, err)
	}

	return &File{
		Name:        archiveName(pageTitle, e.now()),
		ContentType: "application/zip",
		Data:        buf.Bytes(),
	}, report, nil
}

// Share отправляет гостевую ссылку на выбранные ассеты по номеру телефона.
// Неверный номер отклоняется без обращения к бэкенду.
func (e *Engine) Share(ctx context.Context, galleryUUID string, ids []string, contact string, n gallery.Notifier) (*ShareResult, error) {
	if n == nil {
		n = gallery.Discard
	}
	if len(ids) == 0 {
		n.Notify(gallery.NoticeWarning, "Select at least one photo to share.")
		return nil, fmt.Errorf("%w: nothing selected", gallery.ErrValidation)
	}

	phone, ok := e.phones.Check(contact)
	if !ok {
		n.Notify(gallery.NoticeWarning, "Please enter a valid phone number.")
		return nil, fmt.Errorf("%w: invalid phone number", gallery.ErrValidation)
	}

	share, err := e.sharer.CreateGuestShare(ctx, galleryUUID, phone, ids)
	if err != nil {
		n.Notify(gallery.NoticeError, "Could not share photos. Please try again.")
		return nil, fmt.Errorf("failed to create guest share: %w", err)
	}

	result := &ShareResult{Contact: phone}
	if share != nil && share.ShareURL != "" {
		result.URL = share.ShareURL
		n.Notify(gallery.NoticeSuccess, "Share link copied to clipboard.")
	} else {
		n.Notify(gallery.NoticeSuccess, "Photos shared successfully.")
	}
	return result, nil
}

func notifyArchive(n gallery.Notifier, report Report, err error) {
	switch {
	case errors.Is(err, ErrCompression):
		n.Notify(gallery.NoticeError, "Could not create the archive. Please try again.")
	case err != nil:
		n.Notify(gallery.NoticeError, "Download was interrupted. Please try again.")
	case report.Success == 0:
		n.Notify(gallery.NoticeError, fmt.Sprintf("Downloaded %s photos. None of the selected photos could be downloaded.", report))
	case report.Success < report.Total:
		n.Notify(gallery.NoticeWarning, fmt.Sprintf("Downloaded %s photos. Some photos could not be downloaded.", report))
	default:
		n.Notify(gallery.NoticeSuccess, fmt.Sprintf("Downloaded %s photos.", report))
	}
}

func entryIDs(entries []gallery.SelectedAsset) []string {
	ids := make([]string, len(entries))
	for i, e := range entries {
		ids[i] = e.ID
	}
	return ids
}

// entryName {filename}.{ext}, без имени - Image_{index}.{ext}
func entryName(filename string, index int, ext string) string {
	if filename == "" {
		filename = "Image_" + strconv.Itoa(index)
	}
	return filename + "." + ext
}

// archiveName {pageTitle}_{unix millis}.zip
func archiveName(pageTitle string, now time.Time) string {
	if pageTitle == "" {
		pageTitle = "Event"
	}
	return pageTitle + "_" + strconv.FormatInt(now.UnixMilli(), 10) + ".zip"
}
