package pipeline

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"testing"

	"design-exporter/internal/exporter/archive"
	"design-exporter/internal/exporter/capture"
	"design-exporter/internal/exporter/models"
	"design-exporter/internal/exporter/snapshot"
	"design-exporter/internal/exporter/store"
	"design-exporter/internal/exporter/template"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// calls записывает порядок обращений к стадиям.
type calls []string

type fakeInfer struct {
	log       *calls
	structure models.UIStructure
	err       error
	got       *models.Bitmap
}

func (f *fakeInfer) Infer(_ context.Context, bitmap *models.Bitmap, _ *models.Snapshot) (models.UIStructure, error) {
	*f.log = append(*f.log, "infer")
	f.got = bitmap
	return f.structure, f.err
}

type fakeGenerate struct {
	log   *calls
	files []models.GeneratedFile
	err   error
}

func (f *fakeGenerate) Generate(_ context.Context, _ models.UIStructure) ([]models.GeneratedFile, error) {
	*f.log = append(*f.log, "generate")
	return f.files, f.err
}

type countingPackager struct {
	log  *calls
	pack *archive.Packager
}

func (p *countingPackager) Package(files []models.GeneratedFile, name string) (*models.ArchiveBlob, error) {
	*p.log = append(*p.log, "package")
	return p.pack.Package(files, name)
}

func seededStore(t *testing.T) *store.MemoryStore {
	t.Helper()
	s := store.NewMemoryStore()
	require.NoError(t, s.Save(context.Background(), &store.Document{
		Room: "Demo Room",
		Layers: map[string]*models.Layer{
			"r1": {Type: models.LayerRectangle, X: 10, Y: 20, Width: 100, Height: 50, Fill: &models.RGB{R: 255}},
		},
		LayerIDs: []string{"r1"},
	}))
	return s
}

type aiFixture struct {
	log      calls
	infer    *fakeInfer
	generate *fakeGenerate
	pipeline *AIPipeline
}

func newAIFixture(t *testing.T) *aiFixture {
	f := &aiFixture{}
	f.infer = &fakeInfer{log: &f.log, structure: models.UIStructure{{Name: "Home"}}}
	f.generate = &fakeGenerate{log: &f.log, files: []models.GeneratedFile{
		{Path: "pubspec.yaml", Content: "name: home\n"},
		{Path: "lib/main.dart", Content: "void main() {}\n"},
	}}
	f.pipeline = NewAIPipeline(
		snapshot.NewExtractor(seededStore(t)),
		capture.NewService(2),
		f.infer,
		f.generate,
		&countingPackager{log: &f.log, pack: archive.NewPackager()},
	)
	return f
}

func states(history []Transition) []State {
	out := make([]State, len(history))
	for i, t := range history {
		out[i] = t.To
	}
	return out
}

func TestAIPipelineHappyPath(t *testing.T) {
	f := newAIFixture(t)
	rec := &Recorder{}
	var observed []Transition

	out, err := f.pipeline.Run(context.Background(), AIRequest{
		RunID:   "run-1",
		Room:    "Demo Room",
		Notify:  rec,
		Observe: func(tr Transition) { observed = append(observed, tr) },
	})
	require.NoError(t, err)

	assert.Equal(t, StateDone, out.State)
	assert.Nil(t, out.Failure)
	assert.Equal(t, []State{StateCapturing, StateInferringStructure, StateGeneratingCode, StatePackaging, StateDone}, states(out.History))
	assert.Equal(t, out.History, observed)
	assert.Equal(t, calls{"infer", "generate", "package"}, f.log)

	require.NotNil(t, f.infer.got)
	assert.Equal(t, capture.MIMEType, f.infer.got.MIMEType)
	assert.Equal(t, 220, f.infer.got.Width)

	require.NotNil(t, out.Archive)
	assert.Equal(t, "Demo_Room_flutter_project.zip", out.Archive.Filename)
	zr, err := zip.NewReader(bytes.NewReader(out.Archive.Data), int64(len(out.Archive.Data)))
	require.NoError(t, err)
	assert.NotEmpty(t, zr.File)

	items := rec.Items()
	require.Len(t, items, 2)
	assert.Equal(t, SeverityInfo, items[0].Severity)
	assert.Equal(t, SeveritySuccess, items[1].Severity)
	assert.Contains(t, items[1].Message, "flutter pub get")
}

func TestAIPipelineCaptureUnavailableCallsNoModel(t *testing.T) {
	f := newAIFixture(t)
	rec := &Recorder{}

	out, err := f.pipeline.Run(context.Background(), AIRequest{
		Room:    "Demo Room",
		Surface: "<div><p>nothing to capture</p></div>",
		Notify:  rec,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrCaptureUnavailable)

	var failure *Failure
	require.True(t, errors.As(err, &failure))
	assert.Equal(t, StateCapturing, failure.Stage)

	assert.Equal(t, StateFailed, out.State)
	assert.Nil(t, out.Archive)
	assert.Empty(t, f.log, "no model client may be called")

	items := rec.Items()
	require.Len(t, items, 2)
	assert.Equal(t, SeverityError, items[1].Severity)
	assert.Contains(t, items[1].Message, "could not capture the design canvas")
}

func TestAIPipelineStopsAtFailingStage(t *testing.T) {
	f := newAIFixture(t)
	f.generate.err = models.NewParseError(models.ErrCodeCodeGenParse, "response is not a JSON array of files", "oops", nil)

	out, err := f.pipeline.Run(context.Background(), AIRequest{Room: "Demo Room"})
	assert.ErrorIs(t, err, models.ErrCodeGenParse)
	assert.Equal(t, calls{"infer", "generate"}, f.log)
	assert.Equal(t, StateGeneratingCode, out.Failure.Stage)
	assert.Equal(t, []State{StateCapturing, StateInferringStructure, StateGeneratingCode, StateFailed}, states(out.History))
}

func TestAIPipelineMissingRoom(t *testing.T) {
	f := newAIFixture(t)
	out, err := f.pipeline.Run(context.Background(), AIRequest{Room: "ghost"})
	assert.ErrorIs(t, err, models.ErrSnapshotUnreadable)
	assert.ErrorIs(t, err, store.ErrRoomNotFound)
	assert.Equal(t, StateCapturing, out.Failure.Stage)
	assert.Empty(t, f.log)
}

func TestAIPipelineCancelledContext(t *testing.T) {
	f := newAIFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out, err := f.pipeline.Run(ctx, AIRequest{Room: "Demo Room"})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, StateCapturing, out.Failure.Stage)
	assert.Empty(t, f.log)
}

func TestTemplateRunnerEndToEnd(t *testing.T) {
	runner := NewTemplateRunner(snapshot.NewExtractor(seededStore(t)), template.NewCompiler(), archive.NewPackager())
	rec := &Recorder{}

	out, err := runner.Run(context.Background(), TemplateRequest{Room: "Demo Room", Notify: rec})
	require.NoError(t, err)
	assert.Equal(t, []State{StateExtracting, StateCompiling, StatePackaging, StateDone}, states(out.History))

	zr, err := zip.NewReader(bytes.NewReader(out.Archive.Data), int64(len(out.Archive.Data)))
	require.NoError(t, err)
	names := make(map[string]bool)
	for _, file := range zr.File {
		names[file.Name] = true
	}
	assert.True(t, names[template.PathCanvasElements])
	assert.True(t, names[template.PathPubspec])

	items := rec.Items()
	require.Len(t, items, 1)
	assert.Equal(t, SeveritySuccess, items[0].Severity)
}

func TestTemplateRunnerMissingRoom(t *testing.T) {
	runner := NewTemplateRunner(snapshot.NewExtractor(store.NewMemoryStore()), template.NewCompiler(), archive.NewPackager())
	rec := &Recorder{}

	out, err := runner.Run(context.Background(), TemplateRequest{Room: "nope", Notify: rec})
	assert.ErrorIs(t, err, models.ErrSnapshotUnreadable)
	assert.Equal(t, StateExtracting, out.Failure.Stage)
	require.Len(t, rec.Items(), 1)
	assert.Equal(t, SeverityError, rec.Items()[0].Severity)
}

func TestMachineRejectsSkippedStage(t *testing.T) {
	m := newMachine(aiTransitions, nil)
	assert.Error(t, m.Advance(StateGeneratingCode))
	require.NoError(t, m.Advance(StateCapturing))

	failure := m.Fail(errors.New("boom"))
	assert.Equal(t, StateCapturing, failure.Stage)
	assert.Equal(t, StateFailed, m.State())
	assert.Error(t, m.Advance(StateInferringStructure), "failed is terminal")
	assert.Same(t, failure, m.Fail(errors.New("again")))
}

func TestMultiSkipsNil(t *testing.T) {
	a, b := &Recorder{}, &Recorder{}
	Multi(a, nil, b).Notify("hi", SeverityWarning)
	assert.Len(t, a.Items(), 1)
	assert.Len(t, b.Items(), 1)
}
