package gallery

import (
	"fmt"
	"net/url"
	"strings"
)

// SizeVariant размер превью, который отдает бэкенд
type SizeVariant string

const (
	SizeThumbnail SizeVariant = "thumbnail"
	SizePreview   SizeVariant = "preview"
)

// AssetMeta представляет ассет, готовый к отображению.
// URL не приходят с бэкенда, а вычисляются из ID.
type AssetMeta struct {
	ID       string `json:"id"`
	Thumb    string `json:"thumb"`
	Preview  string `json:"preview"`
	Download string `json:"download"`
	Filename string `json:"filename"` // {pageTitle}_{id}
}

// Entry возвращает запись выбора (AssetMeta без ID)
func (a AssetMeta) Entry() SelectionEntry {
	return SelectionEntry{
		Thumb:    a.Thumb,
		Preview:  a.Preview,
		Download: a.Download,
		Filename: a.Filename,
	}
}

// URLBuilder строит URL ассетов галереи
type URLBuilder struct {
	Backend     string
	GalleryUUID string
	PageTitle   string
}

// NewURLBuilder создает построитель URL
func NewURLBuilder(backend, galleryUUID, pageTitle string) URLBuilder {
	return URLBuilder{
		Backend:     strings.TrimRight(backend, "/"),
		GalleryUUID: galleryUUID,
		PageTitle:   pageTitle,
	}
}

// ThumbnailURL возвращает URL превью указанного размера
func (b URLBuilder) ThumbnailURL(id string, size SizeVariant) string {
	q := url.Values{}
	q.Set("assetId", id)
	q.Set("size", string(size))
	return b.Backend + "/assets/thumbnail/" + url.PathEscape(b.GalleryUUID) + "?" + q.Encode()
}

// ImageURL возвращает URL оригинала
func (b URLBuilder) ImageURL(id string) string {
	q := url.Values{}
	q.Set("assetId", id)
	return b.Backend + "/assets/image/" + url.PathEscape(b.GalleryUUID) + "?" + q.Encode()
}

// Asset гидрирует ID в AssetMeta
func (b URLBuilder) Asset(id string) AssetMeta {
	return AssetMeta{
		ID:       id,
		Thumb:    b.ThumbnailURL(id, SizeThumbnail),
		Preview:  b.ThumbnailURL(id, SizePreview),
		Download: b.ImageURL(id),
		Filename: b.PageTitle + "_" + id,
	}
}

// Assets гидрирует список ID с сохранением порядка
func (b URLBuilder) Assets(ids []string) []AssetMeta {
	out := make([]AssetMeta, 0, len(ids))
	for _, id := range ids {
		out = append(out, b.Asset(id))
	}
	return out
}

// PlaceholderAssets создает заглушки для режима предпросмотра.
// base - префикс маршрута, отдающего картинки-заглушки.
func PlaceholderAssets(base, pageTitle string, count int) []AssetMeta {
	base = strings.TrimRight(base, "/")
	out := make([]AssetMeta, 0, count)
	for i := 1; i <= count; i++ {
		id := fmt.Sprintf("placeholder-%d", i)
		out = append(out, AssetMeta{
			ID:       id,
			Thumb:    fmt.Sprintf("%s/%d/%s", base, i, SizeThumbnail),
			Preview:  fmt.Sprintf("%s/%d/%s", base, i, SizePreview),
			Download: fmt.Sprintf("%s/%d/%s", base, i, SizePreview),
			Filename: pageTitle + "_" + id,
		})
	}
	return out
}
