package gallery

import (
	"fmt"
	"sync"
)

// Phase фаза цикла загрузки
type Phase string

const (
	PhaseIdle    Phase = "idle"
	PhaseLoading Phase = "loading"
	PhaseLoaded  Phase = "loaded"
	PhaseError   Phase = "error"
)

// EventKind тип события состояния
type EventKind string

const (
	EventChanged         EventKind = "changed"
	EventScrollToGallery EventKind = "scroll_to_gallery"
)

// Event событие для подписчиков (UI)
type Event struct {
	Kind EventKind
}

// StateOptions параметры монтирования галереи
type StateOptions struct {
	PageSize  int
	Private   bool // Приватная галерея: режим all недоступен
	Preview   bool // Предпросмотр из редактора шаблонов: без запросов к бэкенду
	PageTitle string
}

// State единственный контейнер состояния галереи.
// Сеттеры только меняют состояние, сетевых вызовов здесь нет.
type State struct {
	mu         sync.RWMutex
	query      QueryState
	images     []AssetMeta
	total      int
	noResults  bool
	loading    bool
	overlay    bool
	progress   int
	phase      Phase
	private    bool
	preview    bool
	pageTitle  string
	generation uint64

	selection *Selection

	subsMu  sync.Mutex
	subs    map[int]func(Event)
	nextSub int
}

// NewState создает состояние галереи в режиме all
func NewState(opts StateOptions) *State {
	return &State{
		query:     NewQueryState(opts.PageSize),
		phase:     PhaseIdle,
		private:   opts.Private,
		preview:   opts.Preview,
		pageTitle: opts.PageTitle,
		selection: NewSelection(),
		subs:      make(map[int]func(Event)),
	}
}

// Subscribe регистрирует обработчик событий. Возвращает функцию отписки
func (s *State) Subscribe(fn func(Event)) func() {
	s.subsMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.subsMu.Unlock()

	return func() {
		s.subsMu.Lock()
		delete(s.subs, id)
		s.subsMu.Unlock()
	}
}

// Emit рассылает событие подписчикам
func (s *State) Emit(kind EventKind) {
	s.subsMu.Lock()
	fns := make([]func(Event), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subsMu.Unlock()

	for _, fn := range fns {
		fn(Event{Kind: kind})
	}
}

// === Чтение ===

func (s *State) Query() QueryState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.query
}

func (s *State) Images() []AssetMeta {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]AssetMeta(nil), s.images...)
}

func (s *State) Total() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.total
}

func (s *State) NoResults() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.noResults
}

func (s *State) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

func (s *State) Progress() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.progress
}

func (s *State) Phase() Phase {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.phase
}

func (s *State) Private() bool { return s.private }

func (s *State) Preview() bool { return s.preview }

func (s *State) PageTitle() string { return s.pageTitle }

// Selection возвращает набор выбранных ассетов
func (s *State) Selection() *Selection { return s.selection }

// TotalPages = max(1, ceil(total/pageSize))
func (s *State) TotalPages() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return totalPages(s.total, s.query.PageSize)
}

// SelectedCount количество выбранных ассетов
func (s *State) SelectedCount() int {
	return s.selection.Count()
}

// PreviewThumbnails первые 4 выбранных превью в порядке выбора
func (s *State) PreviewThumbnails() []string {
	return s.selection.PreviewThumbnails(4)
}

// === Сеттеры ===

// SetQuery меняет режим и его параметры. Страница сбрасывается на 1.
// Возвращает false, если ничего не изменилось.
func (s *State) SetQuery(mode Mode, query, personID string) bool {
	s.mu.Lock()
	if s.query.sameSource(mode, query, personID) {
		s.mu.Unlock()
		return false
	}
	s.query.Mode = mode
	s.query.Query = query
	s.query.PersonID = personID
	s.query.Page = 1
	s.query.NextPageCursor = ""
	s.mu.Unlock()

	s.Emit(EventChanged)
	return true
}

// SetPage меняет номер страницы. Возвращает false, если страница та же
func (s *State) SetPage(page int) bool {
	if page < 1 {
		page = 1
	}

	s.mu.Lock()
	if s.query.Page == page {
		s.mu.Unlock()
		return false
	}
	s.query.Page = page
	s.mu.Unlock()

	s.Emit(EventChanged)
	return true
}

// ClearImages очищает результаты перед новой загрузкой
func (s *State) ClearImages() {
	s.mu.Lock()
	s.images = nil
	s.noResults = false
	s.mu.Unlock()

	s.Emit(EventChanged)
}

// BeginFetch начинает новый цикл загрузки и возвращает его номер.
// Результаты более старых циклов после этого отбрасываются.
func (s *State) BeginFetch(overlay bool) uint64 {
	s.mu.Lock()
	s.generation++
	gen := s.generation
	s.loading = true
	s.overlay = overlay
	s.phase = PhaseLoading
	s.progress = 0
	s.mu.Unlock()

	s.Emit(EventChanged)
	return gen
}

// IsCurrent проверяет, является ли цикл последним начатым
func (s *State) IsCurrent(gen uint64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return gen == s.generation
}

// SetProgress двигает прогресс вперед (значения меньше текущего игнорируются)
func (s *State) SetProgress(gen uint64, value int) {
	if value > 100 {
		value = 100
	}

	s.mu.Lock()
	if gen != s.generation || value <= s.progress {
		s.mu.Unlock()
		return
	}
	s.progress = value
	s.mu.Unlock()

	s.Emit(EventChanged)
}

// SetTotal задает общее количество ассетов
func (s *State) SetTotal(gen uint64, total int) bool {
	s.mu.Lock()
	if gen != s.generation {
		s.mu.Unlock()
		return false
	}
	s.total = total
	s.mu.Unlock()

	s.Emit(EventChanged)
	return true
}

// ReplaceImages заменяет результаты страницы
func (s *State) ReplaceImages(gen uint64, assets []AssetMeta) bool {
	s.mu.Lock()
	if gen != s.generation {
		s.mu.Unlock()
		return false
	}
	s.images = assets
	s.noResults = len(assets) == 0
	s.mu.Unlock()

	s.Emit(EventChanged)
	return true
}

// AppendImages дописывает результаты (бесконечная прокрутка)
func (s *State) AppendImages(gen uint64, assets []AssetMeta, cursor string) bool {
	s.mu.Lock()
	if gen != s.generation {
		s.mu.Unlock()
		return false
	}
	s.images = append(s.images, assets...)
	s.query.NextPageCursor = cursor
	s.noResults = len(s.images) == 0
	s.mu.Unlock()

	s.Emit(EventChanged)
	return true
}

// FinishFetch снимает флаги загрузки. Для устаревшего цикла ничего не делает
func (s *State) FinishFetch(gen uint64, failed bool) bool {
	s.mu.Lock()
	if gen != s.generation {
		s.mu.Unlock()
		return false
	}
	s.loading = false
	s.overlay = false
	if failed {
		s.phase = PhaseError
	} else {
		s.phase = PhaseLoaded
		s.progress = 100
	}
	s.mu.Unlock()

	s.Emit(EventChanged)
	return true
}

// ResetProgress обнуляет прогресс после завершения цикла
func (s *State) ResetProgress(gen uint64) {
	s.mu.Lock()
	if gen != s.generation || s.loading {
		s.mu.Unlock()
		return
	}
	s.progress = 0
	s.mu.Unlock()

	s.Emit(EventChanged)
}

// SetLocalPage показывает страницу, вычисленную без обращения к бэкенду
func (s *State) SetLocalPage(page int, assets []AssetMeta, total int) {
	s.mu.Lock()
	s.query.Page = page
	s.images = assets
	s.total = total
	s.noResults = len(assets) == 0
	s.phase = PhaseLoaded
	s.mu.Unlock()

	s.Emit(EventChanged)
}

// === Снимок для UI ===

// Snapshot неизменяемая копия состояния для отрисовки
type Snapshot struct {
	Mode              Mode        `json:"mode"`
	Query             string      `json:"query"`
	PersonID          string      `json:"person_id,omitempty"`
	Page              int         `json:"page"`
	PageSize          int         `json:"page_size"`
	NextPage          string      `json:"next_page,omitempty"`
	HasMore           bool        `json:"has_more"`
	Images            []AssetMeta `json:"images"`
	Total             int         `json:"total"`
	TotalPages        int         `json:"total_pages"`
	ShowTotal         bool        `json:"show_total"`
	TotalLabel        string      `json:"total_label,omitempty"`
	NoResults         bool        `json:"no_results"`
	Loading           bool        `json:"loading"`
	Overlay           bool        `json:"overlay"`
	Progress          int         `json:"progress"`
	Phase             Phase       `json:"phase"`
	Private           bool        `json:"private"`
	Preview           bool        `json:"preview"`
	PageTitle         string      `json:"page_title"`
	SelectedCount     int         `json:"selected_count"`
	SelectedIDs       []string    `json:"selected_ids"`
	PreviewThumbnails []string    `json:"preview_thumbnails"`
}

// Snapshot возвращает снимок состояния
func (s *State) Snapshot() Snapshot {
	s.mu.RLock()
	snap := Snapshot{
		Mode:       s.query.Mode,
		Query:      s.query.Query,
		PersonID:   s.query.PersonID,
		Page:       s.query.Page,
		PageSize:   s.query.PageSize,
		NextPage:   s.query.NextPageCursor,
		Images:     append([]AssetMeta{}, s.images...),
		Total:      s.total,
		TotalPages: totalPages(s.total, s.query.PageSize),
		NoResults:  s.noResults,
		Loading:    s.loading,
		Overlay:    s.overlay,
		Progress:   s.progress,
		Phase:      s.phase,
		Private:    s.private,
		Preview:    s.preview,
		PageTitle:  s.pageTitle,
	}
	s.mu.RUnlock()

	// В режиме keyword общее количество неизвестно
	if snap.Mode == ModeKeyword {
		snap.HasMore = snap.NextPage != ""
	} else {
		snap.ShowTotal = true
		snap.TotalLabel = showingLabel(snap.Page, snap.PageSize, snap.Total)
	}

	snap.SelectedIDs = s.selection.IDs()
	snap.SelectedCount = len(snap.SelectedIDs)
	snap.PreviewThumbnails = s.selection.PreviewThumbnails(4)
	return snap
}

func totalPages(total, pageSize int) int {
	if pageSize <= 0 || total <= 0 {
		return 1
	}
	pages := (total + pageSize - 1) / pageSize
	if pages < 1 {
		return 1
	}
	return pages
}

func showingLabel(page, pageSize, total int) string {
	if total <= 0 {
		return ""
	}
	from := (page-1)*pageSize + 1
	to := page * pageSize
	if to > total {
		to = total
	}
	if from > total {
		return fmt.Sprintf("Showing 0 of %d", total)
	}
	return fmt.Sprintf("Showing %d-%d of %d", from, to, total)
}
