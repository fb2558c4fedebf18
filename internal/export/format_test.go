package export

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var pngHeader = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A, 0, 0, 0, 0x0D, 0x49, 0x48, 0x44, 0x52}

func TestExtension(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		data        []byte
		want        string
	}{
		{"jpeg", "image/jpeg", nil, "jpeg"},
		{"with params", "image/png; charset=binary", nil, "png"},
		{"svg", "image/svg+xml", nil, "svg"},
		{"upper case", "Image/WEBP", nil, "webp"},
		{"sniffed", "application/octet-stream", pngHeader, "png"},
		{"missing type sniffed", "", pngHeader, "png"},
		{"unknown bytes", "", []byte("hello"), "jpg"},
		{"no data", "", nil, "jpg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Extension(tt.contentType, tt.data))
		})
	}
}

func TestCaptureTime_NoExif(t *testing.T) {
	_, ok := captureTime([]byte("not an image"))
	assert.False(t, ok)
}
