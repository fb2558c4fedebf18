package export

import (
	"bytes"
	"time"

	"github.com/rwcarlsen/goexif/exif"
)

// captureTime извлекает дату съемки из EXIF
func captureTime(data []byte) (time.Time, bool) {
	x, err := exif.Decode(bytes.NewReader(data))
	if err != nil {
		return time.Time{}, false
	}

	t, err := x.DateTime()
	if err != nil || t.IsZero() {
		return time.Time{}, false
	}
	return t, true
}
