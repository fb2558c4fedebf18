package gallery

import (
	"sync"
	"time"
)

// NoticeLevel уровень пользовательского уведомления
type NoticeLevel string

const (
	NoticeInfo    NoticeLevel = "info"
	NoticeSuccess NoticeLevel = "success"
	NoticeWarning NoticeLevel = "warning"
	NoticeError   NoticeLevel = "error"
)

// Notice уведомление для пользователя
type Notice struct {
	Level   NoticeLevel `json:"level"`
	Message string      `json:"message"`
	Time    time.Time   `json:"time"`
}

// Notifier принимает уведомления для показа в UI
type Notifier interface {
	Notify(level NoticeLevel, message string)
}

// NoticeLog буфер уведомлений, который UI забирает вместе с состоянием
type NoticeLog struct {
	mu      sync.Mutex
	notices []Notice
	limit   int
}

// NewNoticeLog создает буфер на limit последних уведомлений
func NewNoticeLog(limit int) *NoticeLog {
	if limit <= 0 {
		limit = 20
	}
	return &NoticeLog{limit: limit}
}

// Notify реализует Notifier
func (l *NoticeLog) Notify(level NoticeLevel, message string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.notices = append(l.notices, Notice{Level: level, Message: message, Time: time.Now()})
	if len(l.notices) > l.limit {
		l.notices = l.notices[len(l.notices)-l.limit:]
	}
}

// Drain возвращает накопленные уведомления и очищает буфер
func (l *NoticeLog) Drain() []Notice {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := l.notices
	l.notices = nil
	if out == nil {
		out = []Notice{}
	}
	return out
}

// Discard Notifier, который отбрасывает уведомления
var Discard Notifier = discardNotifier{}

type discardNotifier struct{}

func (discardNotifier) Notify(NoticeLevel, string) {}
