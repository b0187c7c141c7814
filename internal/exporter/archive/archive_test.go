package archive

import (
	"bytes"
	"io"
	"os"
	"testing"

	"design-exporter/internal/common/logger"
	"design-exporter/internal/exporter/models"

	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gen(paths ...string) []models.GeneratedFile {
	out := make([]models.GeneratedFile, 0, len(paths))
	for _, p := range paths {
		out = append(out, models.GeneratedFile{Path: p, Content: "content of " + p})
	}
	return out
}

func TestBuildTreeReusesFolders(t *testing.T) {
	root, err := BuildTree(gen("a/b/x.txt", "a/b/y.txt", "a/c/z.txt"))
	require.NoError(t, err)

	var dirs, files []string
	require.NoError(t, root.Walk(func(e Entry) error {
		if e.Dir {
			dirs = append(dirs, e.Path)
		} else {
			files = append(files, e.Path)
		}
		return nil
	}))

	assert.Equal(t, []string{"a/", "a/b/", "a/c/"}, dirs)
	assert.Equal(t, []string{"a/b/x.txt", "a/b/y.txt", "a/c/z.txt"}, files)

	folders, leaves := root.Counts()
	assert.Equal(t, 3, folders)
	assert.Equal(t, 3, leaves)
}

func TestFolderIsIdempotent(t *testing.T) {
	root := NewFolder("")
	first, err := root.Folder("lib")
	require.NoError(t, err)
	second, err := root.Folder("lib")
	require.NoError(t, err)
	assert.Same(t, first, second)
}

func TestBuildTreePathRules(t *testing.T) {
	root, err := BuildTree([]models.GeneratedFile{
		{Path: "/lib//main.dart", Content: "v1"},
		{Path: "lib/main.dart", Content: "v2"},
		{Path: "./README.md", Content: "readme"},
	})
	require.NoError(t, err)

	got := map[string]string{}
	require.NoError(t, root.Walk(func(e Entry) error {
		if !e.Dir {
			got[e.Path] = e.Content
		}
		return nil
	}))
	assert.Equal(t, map[string]string{"lib/main.dart": "v2", "README.md": "readme"}, got)

	for _, bad := range []string{"../evil.txt", "lib/", "", "///", "a/../b.txt"} {
		_, err := BuildTree([]models.GeneratedFile{{Path: bad}})
		assert.Error(t, err, "path %q", bad)
	}

	_, err = BuildTree(gen("lib", "lib/main.dart"))
	assert.Error(t, err, "file and folder share a name")
}

func TestBuildTreeLogsDuplicatePaths(t *testing.T) {
	var buf bytes.Buffer
	logger.InitWithWriter(logger.Config{Level: "warn", Format: "json"}, &buf)
	t.Cleanup(func() { logger.InitWithWriter(logger.Config{Level: "info"}, os.Stderr) })

	root, err := BuildTree([]models.GeneratedFile{
		{Path: "lib/main.dart", Content: "first"},
		{Path: "lib/app.dart", Content: "app"},
		{Path: "/lib/main.dart", Content: "second"},
	})
	require.NoError(t, err)

	var got []Entry
	require.NoError(t, root.Walk(func(e Entry) error {
		if !e.Dir {
			got = append(got, e)
		}
		return nil
	}))
	assert.Equal(t, []Entry{
		{Path: "lib/main.dart", Content: "second"},
		{Path: "lib/app.dart", Content: "app"},
	}, got)

	assert.Contains(t, buf.String(), "Duplicate file path")
	assert.Contains(t, buf.String(), `"path":"lib/main.dart"`)
	assert.Contains(t, buf.String(), `"again":"/lib/main.dart"`)
}

func TestBuildTreeQuietWithoutDuplicates(t *testing.T) {
	var buf bytes.Buffer
	logger.InitWithWriter(logger.Config{Level: "warn", Format: "json"}, &buf)
	t.Cleanup(func() { logger.InitWithWriter(logger.Config{Level: "info"}, os.Stderr) })

	_, err := BuildTree(gen("lib/main.dart", "main.dart", "test/main.dart"))
	require.NoError(t, err)
	assert.Empty(t, buf.String())
}

func TestPackageProducesZip(t *testing.T) {
	blob, err := NewPackager().Package(gen("pubspec.yaml", "lib/main.dart", "lib/views/home_view.dart"), "My  App")
	require.NoError(t, err)
	assert.Equal(t, "My_App_flutter_project.zip", blob.Filename)

	zr, err := zip.NewReader(bytes.NewReader(blob.Data), int64(len(blob.Data)))
	require.NoError(t, err)

	contents := map[string]string{}
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			contents[f.Name] = "<dir>"
			continue
		}
		rc, err := f.Open()
		require.NoError(t, err)
		data, err := io.ReadAll(rc)
		require.NoError(t, rc.Close())
		require.NoError(t, err)
		contents[f.Name] = string(data)
	}

	assert.Equal(t, map[string]string{
		"pubspec.yaml":             "content of pubspec.yaml",
		"lib/":                     "<dir>",
		"lib/main.dart":            "content of lib/main.dart",
		"lib/views/":               "<dir>",
		"lib/views/home_view.dart": "content of lib/views/home_view.dart",
	}, contents)
}

func TestPackageFailsWhole(t *testing.T) {
	blob, err := NewPackager().Package(gen("ok.txt", "../escape.txt"), "x")
	assert.Nil(t, blob)
	assert.ErrorIs(t, err, models.ErrPackaging)

	blob, err = NewPackager().Package(nil, "x")
	assert.Nil(t, blob)
	assert.ErrorIs(t, err, models.ErrPackaging)
}

func TestArchiveFilename(t *testing.T) {
	assert.Equal(t, "Sales_Dashboard_flutter_project.zip", ArchiveFilename("Sales \t Dashboard"))
	assert.Equal(t, "a_b_c_flutter_project.zip", ArchiveFilename("a/b:c"))
	assert.Equal(t, "design_flutter_project.zip", ArchiveFilename("   "))
}

func TestDirSaver(t *testing.T) {
	dir := t.TempDir()
	saver := NewDirSaver(dir + "/out")

	path, err := saver.Save(&models.ArchiveBlob{Filename: "demo_flutter_project.zip", Data: []byte("PK")})
	require.NoError(t, err)
	assert.Equal(t, dir+"/out/demo_flutter_project.zip", path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte("PK"), data)

	entries, err := os.ReadDir(dir + "/out")
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no partial files left behind")
}
