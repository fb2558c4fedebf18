package storage

import (
	"time"
)

// ShareGrant выданный бэкендом доступ к закрытой галерее.
// Список ассетов неизменен в пределах сессии.
type ShareGrant struct {
	GalleryUUID string    `json:"gallery_uuid"`
	Contact     string    `json:"contact"`
	CodeHash    []byte    `json:"code_hash"` // bcrypt от кода доступа
	AssetIDs    []string  `json:"asset_ids"`
	GrantedAt   time.Time `json:"granted_at"`
}

// Stats содержит статистику хранилища
type Stats struct {
	Grants   int   `json:"grants"`
	LSMSize  int64 `json:"lsm_size"`
	VlogSize int64 `json:"vlog_size"`
}
