package gateway

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// FlexString принимает из JSON строку, число или null
type FlexString string

// UnmarshalJSON реализует json.Unmarshaler
func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("expected string or number, got %s", string(data))
	}
	*f = FlexString(n.String())
	return nil
}

// AssetRef ссылка на ассет в ответе бэкенда (только ID)
type AssetRef struct {
	ID FlexString `json:"id"`
}

// AssetPage страница ассетов
type AssetPage struct {
	IDs      []string
	Total    int
	HasTotal bool   // false для поиска по ключевому слову
	NextPage string // Непрозрачный курсор, пусто = конец
}

type assetListResponse struct {
	Items    []AssetRef `json:"items"`
	Total    *int       `json:"total"`
	Count    *int       `json:"count"`
	NextPage FlexString `json:"nextPage"`
}

func (r *assetListResponse) page() *AssetPage {
	p := &AssetPage{
		IDs:      make([]string, 0, len(r.Items)),
		NextPage: string(r.NextPage),
	}
	for _, item := range r.Items {
		if item.ID == "" {
			continue
		}
		p.IDs = append(p.IDs, string(item.ID))
	}

	switch {
	case r.Total != nil:
		p.Total, p.HasTotal = *r.Total, true
	case r.Count != nil:
		p.Total, p.HasTotal = *r.Count, true
	}
	return p
}

// PersonStats статистика по человеку
type PersonStats struct {
	Assets int `json:"assets"`
}

type searchRequest struct {
	Keyword string `json:"keyword"`
	Page    int    `json:"page"`
	Count   int    `json:"count"`
}

type shareAuthRequest struct {
	ContactID  string `json:"contactId"`
	AccessCode string `json:"accessCode"`
}

type shareAuthResponse struct {
	AssetIDs []FlexString `json:"assetIds"`
}

func (r *shareAuthResponse) ids() []string {
	ids := make([]string, 0, len(r.AssetIDs))
	for _, id := range r.AssetIDs {
		if id != "" {
			ids = append(ids, string(id))
		}
	}
	return ids
}

type guestShareRequest struct {
	Contact  string   `json:"contact"`
	AssetIDs []string `json:"assetIds"`
}

// GuestShare результат создания гостевой ссылки
type GuestShare struct {
	ShareURL string `json:"shareUrl,omitempty"`
}

// Blob загруженный файл
type Blob struct {
	Data        []byte
	ContentType string
}

// StatusError ответ бэкенда с кодом не 2xx
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return "backend returned HTTP " + strconv.Itoa(e.StatusCode) + ": " + e.Body
}

// IsAuthError проверяет, отклонил ли бэкенд учетные данные
func (e *StatusError) IsAuthError() bool {
	return e.StatusCode == 401 || e.StatusCode == 403
}
