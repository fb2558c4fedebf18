package storage

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// GrantKey строит ключ доступа из идентификаторов зрителя и галереи
func GrantKey(parts ...string) string {
	hash := sha256.Sum256([]byte(strings.Join(parts, "\x00")))
	return hex.EncodeToString(hash[:])
}
