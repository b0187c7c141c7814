package cli

import (
	"archive/zip"
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"design-exporter/internal/common/config"
	"design-exporter/internal/exporter/pipeline"
	"design-exporter/internal/exporter/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const designJSON = `{
  "layers": {
    "r1": {"type": "rectangle", "x": 10, "y": 20, "width": 100, "height": 50, "fill": {"r": 255, "g": 0, "b": 0}},
    "p1": {"type": "path", "x": 0, "y": 0, "width": 5, "height": 5}
  },
  "layerIds": ["r1", "p1"]
}`

func writeDesign(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(designJSON), 0o600))
	return path
}

func TestTemplateCommandWritesArchive(t *testing.T) {
	in := writeDesign(t, "my design.json")
	outDir := filepath.Join(t.TempDir(), "exports")

	var stdout bytes.Buffer
	root := NewRootCmd()
	root.SetOut(&stdout)
	root.SetArgs([]string{"template", "--snapshot", in, "--out", outDir})
	require.NoError(t, root.Execute())

	saved := strings.TrimSpace(stdout.String())
	assert.Equal(t, filepath.Join(outDir, "my_design_flutter_project.zip"), saved)

	zr, err := zip.OpenReader(saved)
	require.NoError(t, err)
	defer zr.Close()
	assert.NotEmpty(t, zr.File)
}

func TestTemplateCommandRoomFlag(t *testing.T) {
	in := writeDesign(t, "design.json")
	outDir := t.TempDir()

	root := NewRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetArgs([]string{"template", "-s", in, "-o", outDir, "--room", "Shop Front"})
	require.NoError(t, root.Execute())

	_, err := os.Stat(filepath.Join(outDir, "Shop_Front_flutter_project.zip"))
	assert.NoError(t, err)
}

func TestTemplateCommandRequiresSnapshot(t *testing.T) {
	root := NewRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"template"})
	assert.Error(t, root.Execute())
}

func TestLoadDocumentKeepsDocumentRoom(t *testing.T) {
	path := filepath.Join(t.TempDir(), "x.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"room":"Lobby","layerIds":[]}`), 0o600))

	doc, err := loadDocument(path, "")
	require.NoError(t, err)
	assert.Equal(t, "Lobby", doc.Room)
	assert.NotNil(t, doc.Layers)

	_, err = loadDocument(filepath.Join(t.TempDir(), "absent.json"), "")
	assert.Error(t, err)
}

func TestNewAppServesHealthAndRoutes(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)
	app := NewApp(cfg, store.NewMemoryStore(), pipeline.NewRegistry())

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/exports/unknown", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodPost, "/api/v1/rooms/ghost/exports/template", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
