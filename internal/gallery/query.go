package gallery

import "fmt"

// Mode стратегия получения ассетов
type Mode string

const (
	ModeAll     Mode = "all"
	ModePerson  Mode = "person"
	ModeKeyword Mode = "keyword"
)

// ParseMode проверяет строковое значение режима
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeAll, ModePerson, ModeKeyword:
		return Mode(s), nil
	case "":
		return ModeAll, nil
	}
	return "", fmt.Errorf("%w: unknown mode %q", ErrValidation, s)
}

// QueryState параметры запроса галереи.
// Значим только параметр активного режима.
type QueryState struct {
	Mode           Mode   `json:"mode"`
	Query          string `json:"query"`
	PersonID       string `json:"person_id,omitempty"`
	Page           int    `json:"page"`
	PageSize       int    `json:"page_size"`
	NextPageCursor string `json:"next_page,omitempty"`
}

// NewQueryState создает состояние для монтирования галереи
func NewQueryState(pageSize int) QueryState {
	if pageSize <= 0 {
		pageSize = 20
	}
	return QueryState{Mode: ModeAll, Page: 1, PageSize: pageSize}
}

// sameSource проверяет, совпадают ли режим и его параметры
func (q QueryState) sameSource(mode Mode, query, personID string) bool {
	return q.Mode == mode && q.Query == query && q.PersonID == personID
}
