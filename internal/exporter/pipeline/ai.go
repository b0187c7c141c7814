package pipeline

import (
	"context"
	"fmt"

	"design-exporter/internal/common/logger"
	"design-exporter/internal/exporter/models"
)

// ============================================================
// AI Pipeline
// ============================================================

const (
	aiStartedMessage = "Generating the Flutter project with AI..."
	aiSuccessMessage = "Flutter project generated with AI. Unzip it and run \"flutter pub get\" to install the dependencies."
)

var aiStageMessages = map[State]string{
	StateCapturing:          "could not capture the design canvas",
	StateInferringStructure: "could not analyze the design",
	StateGeneratingCode:     "could not generate the Flutter code",
	StatePackaging:          "could not package the project",
}

type AIPipeline struct {
	snapshots SnapshotSource
	capture   Capturer
	infer     StructureInferrer
	generate  CodeGenerator
	pack      Packager
}

func NewAIPipeline(snapshots SnapshotSource, capture Capturer, infer StructureInferrer, generate CodeGenerator, pack Packager) *AIPipeline {
	return &AIPipeline{
		snapshots: snapshots,
		capture:   capture,
		infer:     infer,
		generate:  generate,
		pack:      pack,
	}
}

// AIRequest: один запуск пути через модели.
// Surface: разметка поверхности дизайна; пустая строка значит
// «отрисовать поверхность из снимка».
type AIRequest struct {
	RunID   string
	Room    string
	Surface string
	Notify  Notifier
	Observe func(Transition)
}

// Run выполняет Capturing → InferringStructure → GeneratingCode → Packaging.
// Каждый внешний вызов делается один раз; при ошибке запуск завершается
// в Failed и возвращает *Failure.
func (p *AIPipeline) Run(ctx context.Context, req AIRequest) (*Outcome, error) {
	m := newMachine(aiTransitions, req.Observe)
	info := runInfo{
		id:     req.RunID,
		room:   req.Room,
		path:   "ai",
		notify: Multi(LogNotifier{Run: req.RunID, Room: req.Room}, req.Notify),
		failureText: func(stage State, err error) string {
			return fmt.Sprintf("Error generating the Flutter project with AI: %s: %s", aiStageMessages[stage], userMessage(err))
		},
	}
	info.notify.Notify(aiStartedMessage, SeverityInfo)

	var (
		snap      *models.Snapshot
		bitmap    *models.Bitmap
		structure models.UIStructure
		files     []models.GeneratedFile
		blob      *models.ArchiveBlob
	)

	stages := []stage{
		{StateCapturing, func(ctx context.Context) error {
			var err error
			if snap, err = p.snapshots.Extract(ctx, req.Room); err != nil {
				return err
			}
			bitmap, err = p.capture.Capture(ctx, req.Surface, snap)
			return err
		}},
		{StateInferringStructure, func(ctx context.Context) error {
			var err error
			structure, err = p.infer.Infer(ctx, bitmap, snap)
			return err
		}},
		{StateGeneratingCode, func(ctx context.Context) error {
			var err error
			files, err = p.generate.Generate(ctx, structure)
			return err
		}},
		{StatePackaging, func(ctx context.Context) error {
			var err error
			blob, err = p.pack.Package(files, req.Room)
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
		Int("views", len(structure)).
		Int("files", len(files)).
		Msg("AI export finished")
	info.notify.Notify(aiSuccessMessage, SeveritySuccess)
	return outcomeOf(m, blob), nil
}
