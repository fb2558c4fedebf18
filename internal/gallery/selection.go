package gallery

import (
	"sort"
	"sync"
)

// SelectionEntry выбранный ассет без ID (ID - ключ карты)
type SelectionEntry struct {
	Thumb    string `json:"thumb"`
	Preview  string `json:"preview"`
	Download string `json:"download"`
	Filename string `json:"filename"`
}

// SelectedAsset запись выбора вместе с ID
type SelectedAsset struct {
	ID    string         `json:"id"`
	Entry SelectionEntry `json:"entry"`
}

type selected struct {
	entry SelectionEntry
	seq   uint64
}

// Selection набор выбранных ассетов, не зависящий от страницы и режима.
// Сбрасывается только явным Clear.
type Selection struct {
	mu      sync.RWMutex
	items   map[string]selected
	nextSeq uint64
}

// NewSelection создает пустой набор
func NewSelection() *Selection {
	return &Selection{items: make(map[string]selected)}
}

// Toggle добавляет или убирает ассет. Возвращает true, если ассет теперь выбран
func (s *Selection) Toggle(asset AssetMeta) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[asset.ID]; ok {
		delete(s.items, asset.ID)
		return false
	}
	s.add(asset)
	return true
}

// SelectAllVisible переключает выбор текущей страницы: если выбраны все
// ассеты страницы - снимает выбор именно с них, иначе выбирает все.
// Выбор на других страницах не затрагивается.
func (s *Selection) SelectAllVisible(page []AssetMeta) {
	if len(page) == 0 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	allSelected := true
	for _, a := range page {
		if _, ok := s.items[a.ID]; !ok {
			allSelected = false
			break
		}
	}

	for _, a := range page {
		if allSelected {
			delete(s.items, a.ID)
			continue
		}
		if _, ok := s.items[a.ID]; !ok {
			s.add(a)
		}
	}
}

// Clear очищает выбор
func (s *Selection) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = make(map[string]selected)
}

// Remove снимает выбор с перечисленных ассетов, остальные не трогает
func (s *Selection) Remove(ids ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range ids {
		delete(s.items, id)
	}
}

// IsSelected проверяет, выбран ли ассет
func (s *Selection) IsSelected(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.items[id]
	return ok
}

// Count возвращает количество выбранных ассетов
func (s *Selection) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Entries возвращает выбранные ассеты в порядке добавления
func (s *Selection) Entries() []SelectedAsset {
	s.mu.RLock()
	type row struct {
		id  string
		sel selected
	}
	rows := make([]row, 0, len(s.items))
	for id, sel := range s.items {
		rows = append(rows, row{id: id, sel: sel})
	}
	s.mu.RUnlock()

	sort.Slice(rows, func(i, j int) bool {
		return rows[i].sel.seq < rows[j].sel.seq
	})

	out := make([]SelectedAsset, len(rows))
	for i, r := range rows {
		out[i] = SelectedAsset{ID: r.id, Entry: r.sel.entry}
	}
	return out
}

// IDs возвращает ID выбранных ассетов в порядке добавления
func (s *Selection) IDs() []string {
	entries := s.Entries()
	ids := make([]string, len(entries))
	for i, e := range entries {
		ids[i] = e.ID
	}
	return ids
}

// PreviewThumbnails возвращает превью первых n выбранных ассетов
func (s *Selection) PreviewThumbnails(n int) []string {
	entries := s.Entries()
	if len(entries) > n {
		entries = entries[:n]
	}
	thumbs := make([]string, len(entries))
	for i, e := range entries {
		thumbs[i] = e.Entry.Thumb
	}
	return thumbs
}

func (s *Selection) add(asset AssetMeta) {
	s.nextSeq++
	s.items[asset.ID] = selected{entry: asset.Entry(), seq: s.nextSeq}
}
