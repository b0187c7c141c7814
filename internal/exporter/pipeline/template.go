package pipeline

import (
	"context"
	"fmt"

	"design-exporter/internal/common/logger"
	"design-exporter/internal/exporter/models"
)

// ============================================================
// Template path
// ============================================================

const templateSuccessMessage = "Flutter project generated. Unzip it and run \"flutter pub get\" to install the dependencies."

type TemplateRunner struct {
	snapshots SnapshotSource
	compiler  Compiler
	pack      Packager
}

func NewTemplateRunner(snapshots SnapshotSource, compiler Compiler, pack Packager) *TemplateRunner {
	return &TemplateRunner{snapshots: snapshots, compiler: compiler, pack: pack}
}

type TemplateRequest struct {
	RunID   string
	Room    string
	Notify  Notifier
	Observe func(Transition)
}

// Run выполняет Extracting → Compiling → Packaging без внешних вызовов.
func (r *TemplateRunner) Run(ctx context.Context, req TemplateRequest) (*Outcome, error) {
	m := newMachine(templateTransitions, req.Observe)
	info := runInfo{
		id:     req.RunID,
		room:   req.Room,
		path:   "template",
		notify: Multi(LogNotifier{Run: req.RunID, Room: req.Room}, req.Notify),
		failureText: func(_ State, err error) string {
			return fmt.Sprintf("Error generating the Flutter project: %s. Please try again.", userMessage(err))
		},
	}

	var (
		snap  *models.Snapshot
		files []models.GeneratedFile
		blob  *models.ArchiveBlob
	)

	stages := []stage{
		{StateExtracting, func(ctx context.Context) error {
			var err error
			snap, err = r.snapshots.Extract(ctx, req.Room)
			return err
		}},
		{StateCompiling, func(context.Context) error {
			var err error
			files, err = r.compiler.Compile(snap)
			return err
		}},
		{StatePackaging, func(context.Context) error {
			var err error
			blob, err = r.pack.Package(files, req.Room)
			return err
		}},
	}

	if err := runStages(ctx, m, info, stages); err != nil {
		return outcomeOf(m, nil), err
	}

	logger.Info().
		Str("run", req.RunID).
		Str("room", req.Room).
		Str("archive", blob.Filename).
		Int("layers", len(snap.LayerIDs)).
		Msg("Template export finished")
	info.notify.Notify(templateSuccessMessage, SeveritySuccess)
	return outcomeOf(m, blob), nil
}
