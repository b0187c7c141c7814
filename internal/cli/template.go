package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"design-exporter/internal/exporter/archive"
	"design-exporter/internal/exporter/models"
	"design-exporter/internal/exporter/pipeline"
	"design-exporter/internal/exporter/snapshot"
	"design-exporter/internal/exporter/store"
	"design-exporter/internal/exporter/template"

	"github.com/spf13/cobra"
)

// ============================================================
// Offline template export
// ============================================================

func NewTemplateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "template",
		Short: "Export a design file as a Flutter project without the service",
		Long: `Reads a design document (layers, layerIds, backgroundColor) from a JSON file,
runs the template path and writes <room>_flutter_project.zip into the output directory.`,
		Example: `  exporter template --snapshot design.json --out ./exports
  exporter template --snapshot design.json --room "My Room"`,
		RunE: runTemplate,
	}
	cmd.Flags().StringP("snapshot", "s", "", "design document JSON file (required)")
	cmd.Flags().StringP("out", "o", ".", "output directory")
	cmd.Flags().StringP("room", "r", "", "room name (default: document room or file name)")
	_ = cmd.MarkFlagRequired("snapshot")
	return cmd
}

// loadDocument читает документ дизайна; имя комнаты берётся из флага,
// затем из документа, затем из имени файла.
func loadDocument(path, room string) (*store.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc store.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	switch {
	case strings.TrimSpace(room) != "":
		doc.Room = strings.TrimSpace(room)
	case strings.TrimSpace(doc.Room) == "":
		doc.Room = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	if doc.Layers == nil {
		doc.Layers = map[string]*models.Layer{}
	}
	return &doc, nil
}

func runTemplate(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("snapshot")
	out, _ := cmd.Flags().GetString("out")
	room, _ := cmd.Flags().GetString("room")

	doc, err := loadDocument(path, room)
	if err != nil {
		return err
	}

	designs := store.NewMemoryStore()
	if err := designs.Save(cmd.Context(), doc); err != nil {
		return err
	}

	runner := pipeline.NewTemplateRunner(snapshot.NewExtractor(designs), template.NewCompiler(), archive.NewPackager())
	outcome, err := runner.Run(cmd.Context(), pipeline.TemplateRequest{Room: doc.Room})
	if err != nil {
		return err
	}

	saved, err := archive.NewDirSaver(out).Save(outcome.Archive)
	if err != nil {
		return fmt.Errorf("save archive: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), saved)
	return nil
}
