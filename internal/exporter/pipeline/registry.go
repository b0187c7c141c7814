package pipeline

import (
	"errors"
	"sync"
	"time"

	"design-exporter/internal/common/logger"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
)

// ============================================================
// Run Registry
// ============================================================

var ErrRunNotFound = errors.New("export run not found")

// RunStatus: снимок состояния запуска для API.
type RunStatus struct {
	ID            string         `json:"id"`
	Room          string         `json:"room"`
	Path          string         `json:"path"`
	State         State          `json:"state"`
	FailedStage   State          `json:"failedStage,omitempty"`
	Error         string         `json:"error,omitempty"`
	Archive       string         `json:"archive,omitempty"`
	Notifications []Notification `json:"notifications"`
	History       []Transition   `json:"history"`
	StartedAt     time.Time      `json:"startedAt"`
	FinishedAt    *time.Time     `json:"finishedAt,omitempty"`
}

func (s RunStatus) clone() RunStatus {
	s.Notifications = append([]Notification(nil), s.Notifications...)
	s.History = append([]Transition(nil), s.History...)
	if s.FinishedAt != nil {
		t := *s.FinishedAt
		s.FinishedAt = &t
	}
	return s
}

// Registry хранит статусы запусков в памяти.
type Registry struct {
	mu   sync.Mutex
	runs map[string]*RunStatus // run id -> status
	now  func() time.Time
}

func NewRegistry() *Registry {
	return &Registry{
		runs: make(map[string]*RunStatus),
		now:  time.Now,
	}
}

// Begin регистрирует новый запуск и выдаёт ему UUID.
func (r *Registry) Begin(room, path string) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := uuid.NewString()
	r.runs[id] = &RunStatus{
		ID:        id,
		Room:      room,
		Path:      path,
		State:     StateIdle,
		StartedAt: r.now().UTC(),
	}
	return id
}

// Notifier пишет сообщения запуска в его статус.
func (r *Registry) Notifier(id string) Notifier {
	return NotifierFunc(func(message string, severity Severity) {
		r.update(id, func(s *RunStatus) {
			s.Notifications = append(s.Notifications, Notification{Message: message, Severity: severity, At: r.now().UTC()})
		})
	})
}

// Observer отражает переходы машины состояний в статусе.
func (r *Registry) Observer(id string) func(Transition) {
	return func(t Transition) {
		r.update(id, func(s *RunStatus) {
			s.State = t.To
			s.History = append(s.History, t)
		})
	}
}

// Finish фиксирует итог запуска.
func (r *Registry) Finish(id string, out *Outcome) {
	r.update(id, func(s *RunStatus) {
		finished := r.now().UTC()
		s.FinishedAt = &finished
		if out == nil {
			return
		}
		s.State = out.State
		if out.Failure != nil {
			s.FailedStage = out.Failure.Stage
			s.Error = userMessage(out.Failure.Err)
		}
		if out.Archive != nil {
			s.Archive = out.Archive.Filename
		}
	})
}

func (r *Registry) update(id string, fn func(s *RunStatus)) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.runs[id]; ok {
		fn(s)
	}
}

// Get возвращает копию статуса.
func (r *Registry) Get(id string) (RunStatus, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.runs[id]
	if !ok {
		return RunStatus{}, ErrRunNotFound
	}
	return s.clone(), nil
}

// Sweep удаляет завершённые запуски старше retention и возвращает их число.
func (r *Registry) Sweep(retention time.Duration) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := r.now().Add(-retention)
	removed := 0
	for id, s := range r.runs {
		if s.FinishedAt != nil && s.FinishedAt.Before(cutoff) {
			delete(r.runs, id)
			removed++
		}
	}
	return removed
}

// StartSweeper запускает периодическую очистку по расписанию cron.
// Вызывающий останавливает её через Stop у возвращённого планировщика.
func (r *Registry) StartSweeper(schedule string, retention time.Duration) (*cron.Cron, error) {
	c := cron.New()
	if _, err := c.AddFunc(schedule, func() {
		if n := r.Sweep(retention); n > 0 {
			logger.Debug().Int("removed", n).Msg("Export runs swept")
		}
	}); err != nil {
		return nil, err
	}
	c.Start()
	return c, nil
}
