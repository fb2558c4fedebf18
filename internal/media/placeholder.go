package media

import (
	"bytes"
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"

	"github.com/photocore/eventgallery/internal/cache"
	"github.com/photocore/eventgallery/internal/config"
)

// Размеры заглушек
const (
	SizeThumbnail = "thumbnail"
	SizePreview   = "preview"
)

// MaxPlaceholder номер заглушки ограничен, чтобы кэш не рос бесконечно
const MaxPlaceholder = 100

// palette фоновые цвета заглушек
var palette = []color.NRGBA{
	{R: 0xd8, G: 0xc3, B: 0xa5, A: 0xff},
	{R: 0xa5, G: 0xbe, B: 0xd8, A: 0xff},
	{R: 0xbf, G: 0xd8, B: 0xa5, A: 0xff},
	{R: 0xd8, G: 0xa5, B: 0xbc, A: 0xff},
	{R: 0xc9, G: 0xa5, B: 0xd8, A: 0xff},
}

// PlaceholderRenderer рисует JPEG-заглушки для галерей в режиме предпросмотра
type PlaceholderRenderer struct {
	thumbnail int
	preview   int
	quality   int
	images    *cache.Typed[[]byte]
}

// NewPlaceholderRenderer создает генератор заглушек
func NewPlaceholderRenderer(cfg config.PlaceholderConfig, c *cache.Cache) *PlaceholderRenderer {
	return &PlaceholderRenderer{
		thumbnail: cfg.Thumbnail,
		preview:   cfg.Preview,
		quality:   cfg.Quality,
		images:    cache.NewTyped[[]byte](c, "placeholder:"),
	}
}

// Render возвращает JPEG заглушки номер n указанного размера
func (r *PlaceholderRenderer) Render(n int, size string) ([]byte, error) {
	if n < 1 || n > MaxPlaceholder {
		return nil, fmt.Errorf("placeholder %d out of range", n)
	}

	var maxSize int
	switch size {
	case SizeThumbnail:
		maxSize = r.thumbnail
	case SizePreview:
		maxSize = r.preview
	default:
		return nil, fmt.Errorf("unknown placeholder size: %s", size)
	}

	key := fmt.Sprintf("%d:%s", n, size)
	return r.images.GetOrSet(key, func() ([]byte, error) {
		return r.render(n, maxSize)
	})
}

func (r *PlaceholderRenderer) render(n, maxSize int) ([]byte, error) {
	// Чередуем альбомную и книжную ориентацию
	w, h := maxSize, maxSize*2/3
	if n%2 == 0 {
		w, h = h, w
	}

	bg := palette[(n-1)%len(palette)]
	img := imaging.New(w, h, bg)

	inner := imaging.New(w/2, h/2, color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0x60})
	img = imaging.Overlay(img, inner, image.Pt(w/4, h/4), 1.0)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(r.quality)); err != nil {
		return nil, fmt.Errorf("failed to encode placeholder: %w", err)
	}
	return buf.Bytes(), nil
}
