package export

import (
	"strings"

	"github.com/h2non/filetype"
)

// defaultExtension используется, если формат определить не удалось
const defaultExtension = "jpg"

// Extension определяет расширение файла по Content-Type ответа.
// Если тип не указан или это application/octet-stream, формат
// определяется по magic bytes содержимого.
func Extension(contentType string, data []byte) string {
	mt := strings.ToLower(strings.TrimSpace(contentType))
	if i := strings.IndexByte(mt, ';'); i >= 0 {
		mt = strings.TrimSpace(mt[:i])
	}

	slash := strings.IndexByte(mt, '/')
	if mt == "" || mt == "application/octet-stream" || slash < 0 {
		return sniffExtension(data)
	}

	// image/svg+xml -> svg
	sub := mt[slash+1:]
	if i := strings.IndexByte(sub, '+'); i >= 0 {
		sub = sub[:i]
	}
	if sub == "" {
		return sniffExtension(data)
	}
	return sub
}

func sniffExtension(data []byte) string {
	if len(data) == 0 {
		return defaultExtension
	}

	// Для определения типа достаточно заголовка
	head := data
	if len(head) > 512 {
		head = head[:512]
	}

	kind, err := filetype.Match(head)
	if err != nil || kind == filetype.Unknown {
		return defaultExtension
	}
	return kind.Extension
}
