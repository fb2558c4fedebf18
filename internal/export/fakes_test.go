package export

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/photocore/eventgallery/internal/gallery"
	"github.com/photocore/eventgallery/internal/gateway"
)

var errNotFound = errors.New("not found")

type fakeDownloader struct {
	mu    sync.Mutex
	blobs map[string]*gateway.Blob
	calls []string
	// after вызывается после каждой загрузки с ее порядковым номером
	after func(n int)
}

func (f *fakeDownloader) Download(ctx context.Context, url string) (*gateway.Blob, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, url)
	if f.after != nil {
		defer f.after(len(f.calls))
	}
	// Как и HTTP-клиент, отмененный контекст не дает скачать файл
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	blob, ok := f.blobs[url]
	if !ok {
		return nil, errNotFound
	}
	return blob, nil
}

func (f *fakeDownloader) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

type fakeSharer struct {
	calls   int
	contact string
	ids     []string
	share   *gateway.GuestShare
	err     error
}

func (f *fakeSharer) CreateGuestShare(ctx context.Context, galleryUUID, contact string, ids []string) (*gateway.GuestShare, error) {
	f.calls++
	f.contact = contact
	f.ids = ids
	if f.err != nil {
		return nil, f.err
	}
	return f.share, nil
}

var testURLs = gallery.NewURLBuilder("https://api.example.com", "g1", "Wedding")

// selectionWith выбирает ассеты; для ids из missing загрузка завершится ошибкой
func selectionWith(dl *fakeDownloader, ids []string, missing ...string) *gallery.Selection {
	skip := map[string]bool{}
	for _, id := range missing {
		skip[id] = true
	}

	sel := gallery.NewSelection()
	for _, a := range testURLs.Assets(ids) {
		sel.Toggle(a)
		if !skip[a.ID] {
			dl.blobs[a.Download] = &gateway.Blob{Data: []byte("data-" + a.ID), ContentType: "image/png"}
		}
	}
	return sel
}

func newDownloader() *fakeDownloader {
	return &fakeDownloader{blobs: map[string]*gateway.Blob{}}
}

var fixedNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func newTestEngine(t *testing.T, dl *fakeDownloader, sharer *fakeSharer) *Engine {
	t.Helper()
	phones, err := NewPhoneValidator("84", `^84\d{8,10}$`)
	require.NoError(t, err)
	return NewEngine(dl, sharer, phones, WithClock(func() time.Time { return fixedNow }))
}
