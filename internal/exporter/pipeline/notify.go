package pipeline

import (
	"sync"
	"time"

	"design-exporter/internal/common/logger"
)

// ============================================================
// Notifications
// ============================================================

type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
)

type Notification struct {
	Message  string    `json:"message"`
	Severity Severity  `json:"severity"`
	At       time.Time `json:"at"`
}

// Notifier: приёмник сообщений для пользователя.
type Notifier interface {
	Notify(message string, severity Severity)
}

// NotifierFunc позволяет передать функцию как Notifier.
type NotifierFunc func(message string, severity Severity)

func (f NotifierFunc) Notify(message string, severity Severity) {
	f(message, severity)
}

// LogNotifier дублирует сообщения в структурный лог.
type LogNotifier struct {
	Run  string
	Room string
}

func (n LogNotifier) Notify(message string, severity Severity) {
	event := logger.Info()
	switch severity {
	case SeverityError:
		event = logger.Error()
	case SeverityWarning:
		event = logger.Warn()
	}
	event.Str("run", n.Run).Str("room", n.Room).Str("severity", string(severity)).Msg(message)
}

// Recorder накапливает сообщения; безопасен для конкурентного чтения.
type Recorder struct {
	mu    sync.Mutex
	items []Notification
}

func (r *Recorder) Notify(message string, severity Severity) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, Notification{Message: message, Severity: severity, At: time.Now().UTC()})
}

// Items возвращает копию накопленных сообщений.
func (r *Recorder) Items() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Notification, len(r.items))
	copy(out, r.items)
	return out
}

type multi []Notifier

func (m multi) Notify(message string, severity Severity) {
	for _, n := range m {
		n.Notify(message, severity)
	}
}

// Multi рассылает каждое сообщение всем непустым приёмникам по порядку.
func Multi(notifiers ...Notifier) Notifier {
	out := make(multi, 0, len(notifiers))
	for _, n := range notifiers {
		if n != nil {
			out = append(out, n)
		}
	}
	return out
}
