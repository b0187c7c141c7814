// Package pipeline проводит запуск экспорта через стадии: шаблонный путь
// и путь через модели, с явной машиной состояний и уведомлениями.
package pipeline

import (
	"context"
	"errors"

	"design-exporter/internal/common/logger"
	"design-exporter/internal/exporter/models"
)

// ============================================================
// Stage dependencies
// ============================================================

type SnapshotSource interface {
	Extract(ctx context.Context, room string) (*models.Snapshot, error)
}

type Capturer interface {
	Capture(ctx context.Context, markup string, snap *models.Snapshot) (*models.Bitmap, error)
}

type StructureInferrer interface {
	Infer(ctx context.Context, bitmap *models.Bitmap, snap *models.Snapshot) (models.UIStructure, error)
}

type CodeGenerator interface {
	Generate(ctx context.Context, structure models.UIStructure) ([]models.GeneratedFile, error)
}

type Compiler interface {
	Compile(snap *models.Snapshot) ([]models.GeneratedFile, error)
}

type Packager interface {
	Package(files []models.GeneratedFile, projectName string) (*models.ArchiveBlob, error)
}

// ============================================================
// Stage runner
// ============================================================

// Outcome содержит итог запуска: архив при успехе или Failure при ошибке.
type Outcome struct {
	Archive *models.ArchiveBlob
	State   State
	Failure *Failure
	History []Transition
}

type stage struct {
	state State
	run   func(ctx context.Context) error
}

// runInfo: контекст запуска для логов и сообщений.
type runInfo struct {
	id     string
	room   string
	path   string
	notify Notifier

	// failureText строит сообщение пользователю об ошибке на стадии.
	failureText func(stage State, err error) string
}

// runStages проходит стадии по порядку. Перед каждой стадией проверяется
// контекст; первая ошибка переводит машину в Failed, дальше ничего не вызывается.
func runStages(ctx context.Context, m *Machine, info runInfo, stages []stage) error {
	for _, st := range stages {
		if err := m.Advance(st.state); err != nil {
			return fail(m, info, err)
		}
		if err := ctx.Err(); err != nil {
			return fail(m, info, err)
		}
		logger.Debug().Str("run", info.id).Str("room", info.room).Str("stage", string(st.state)).Msg("Stage started")
		if err := st.run(ctx); err != nil {
			return fail(m, info, err)
		}
	}
	if err := m.Advance(StateDone); err != nil {
		return fail(m, info, err)
	}
	return nil
}

func fail(m *Machine, info runInfo, err error) error {
	failure := m.Fail(err)

	event := logger.Error().
		Err(err).
		Str("run", info.id).
		Str("room", info.room).
		Str("path", info.path).
		Str("stage", string(failure.Stage))
	if code := models.CodeOf(err); code != "" {
		event = event.Str("code", string(code))
	}
	if raw := models.RawOf(err); raw != "" {
		event = event.Str("raw", raw)
	}
	event.Msg("Export run failed")

	info.notify.Notify(info.failureText(failure.Stage, err), SeverityError)
	return failure
}

func outcomeOf(m *Machine, blob *models.ArchiveBlob) *Outcome {
	out := &Outcome{State: m.State(), Failure: m.Failure(), History: m.History()}
	if out.State == StateDone {
		out.Archive = blob
	}
	return out
}

// userMessage: короткое описание ошибки без служебного кода.
func userMessage(err error) string {
	var ee *models.ExportError
	if errors.As(err, &ee) && ee.Message != "" {
		return ee.Message
	}
	if errors.Is(err, context.Canceled) {
		return "the request was cancelled"
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "the request timed out"
	}
	return err.Error()
}
