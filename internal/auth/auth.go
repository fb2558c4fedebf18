package auth

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Context key для хранения ID зрителя
type contextKey string

const ViewerKey contextKey = "viewer"

// ViewerCookie имя cookie анонимного зрителя
const ViewerCookie = "viewer"

// GetViewerID извлекает ID зрителя из контекста запроса
func GetViewerID(r *http.Request) string {
	if id, ok := r.Context().Value(ViewerKey).(string); ok {
		return id
	}
	return ""
}

// Viewers выдает анонимным зрителям cookie, к которой привязаны сессии галерей.
// Вход администраторов сюда не относится.
type Viewers struct {
	maxAge int
}

// NewViewers создает сервис cookie зрителей
func NewViewers(maxAge int) *Viewers {
	return &Viewers{maxAge: maxAge}
}

// Middleware гарантирует наличие ID зрителя в контексте
func (v *Viewers) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := ""
		if cookie, err := r.Cookie(ViewerCookie); err == nil {
			if _, err := uuid.Parse(cookie.Value); err == nil {
				id = cookie.Value
			}
		}

		if id == "" {
			id = uuid.NewString()
			http.SetCookie(w, &http.Cookie{
				Name:     ViewerCookie,
				Value:    id,
				Path:     "/",
				MaxAge:   v.maxAge,
				HttpOnly: true,
				Secure:   r.TLS != nil,
				SameSite: http.SameSiteLaxMode,
			})
		}

		ctx := context.WithValue(r.Context(), ViewerKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// HashAccessCode хеширует код доступа к закрытой галерее
func HashAccessCode(code string) ([]byte, error) {
	return bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
}

// CheckAccessCode сравнивает код с сохраненным хешем
func CheckAccessCode(hash []byte, code string) bool {
	if len(hash) == 0 {
		return false
	}
	return bcrypt.CompareHashAndPassword(hash, []byte(code)) == nil
}
