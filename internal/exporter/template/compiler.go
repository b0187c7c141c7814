// Package template детерминированно компилирует снимок дизайна в проект Flutter.
// Никаких внешних вызовов: одинаковый снимок всегда даёт одинаковые файлы.
package template

import (
	"strings"

	"design-exporter/internal/exporter/models"
)

// ============================================================
// Template Compiler
// ============================================================

const defaultTitle = "Canvas Design"

// Пути файлов проекта относительно корня архива.
const (
	PathPubspec         = "pubspec.yaml"
	PathAnalysisOptions = "analysis_options.yaml"
	PathMain            = "lib/main.dart"
	PathCanvasScreen    = "lib/canvas_screen.dart"
	PathCanvasElements  = "lib/canvas_elements.dart"
	PathTheme           = "lib/theme.dart"
	PathAndroidManifest = "android/app/src/main/AndroidManifest.xml"
	PathInfoPlist       = "ios/Runner/Info.plist"
	PathReadme          = "README.md"
)

type Compiler struct{}

func NewCompiler() *Compiler {
	return &Compiler{}
}

// Compile возвращает файлы проекта. Единственная ошибка: негодный снимок.
func (c *Compiler) Compile(snap *models.Snapshot) ([]models.GeneratedFile, error) {
	if err := snap.Validate(); err != nil {
		return nil, models.NewError(models.ErrCodeSnapshotUnreadable, "snapshot rejected by compiler", err)
	}

	title := strings.TrimSpace(snap.RoomName)
	if title == "" {
		title = defaultTitle
	}
	projectID := ProjectID(snap.RoomName)

	pubspec, err := renderPubspec(projectID)
	if err != nil {
		return nil, err
	}
	analysis, err := renderAnalysisOptions()
	if err != nil {
		return nil, err
	}

	return []models.GeneratedFile{
		{Path: PathPubspec, Content: pubspec},
		{Path: PathAnalysisOptions, Content: analysis},
		{Path: PathMain, Content: renderMain(title)},
		{Path: PathCanvasScreen, Content: canvasScreen},
		{Path: PathCanvasElements, Content: renderCanvasElements(snap)},
		{Path: PathTheme, Content: themeDart},
		{Path: PathAndroidManifest, Content: renderAndroidManifest(title)},
		{Path: PathInfoPlist, Content: renderInfoPlist(title, projectID)},
		{Path: PathReadme, Content: renderReadme(title)},
	}, nil
}
