package session

import (
	"fmt"
	"sync/atomic"

	"github.com/photocore/eventgallery/internal/gallery"
)

// Kind тип страницы галереи
type Kind string

const (
	KindSearch Kind = "search"
	KindShare  Kind = "share"
)

// ParseKind проверяет тип страницы
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindSearch, KindShare:
		return Kind(s), nil
	}
	return "", fmt.Errorf("%w: unknown gallery kind %q", gallery.ErrValidation, s)
}

// Options параметры монтирования галереи
type Options struct {
	GalleryUUID string
	Title       string
	Private     bool
	Preview     bool
}

// Session состояние одной страницы галереи одного зрителя
type Session struct {
	Kind    Kind
	Options Options
	State   *gallery.State
	Notices *gallery.NoticeLog

	// Orchestrator задан для KindSearch, Gate - для KindShare
	Orchestrator *gallery.Orchestrator
	Gate         *gallery.ShareGate

	exporting atomic.Bool
}

// BeginExport занимает слот экспорта. Одновременно выполняется один экспорт
func (s *Session) BeginExport() bool {
	return s.exporting.CompareAndSwap(false, true)
}

// EndExport освобождает слот экспорта
func (s *Session) EndExport() {
	s.exporting.Store(false)
}

// Exporting проверяет, выполняется ли экспорт
func (s *Session) Exporting() bool {
	return s.exporting.Load()
}
