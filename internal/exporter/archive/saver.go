package archive

import (
	"fmt"
	"os"
	"path/filepath"

	"design-exporter/internal/exporter/models"
)

// ============================================================
// Directory Saver
// ============================================================

// DirSaver сохраняет готовые архивы в каталог на диске.
type DirSaver struct {
	root string
}

func NewDirSaver(root string) *DirSaver {
	return &DirSaver{root: root}
}

func (s *DirSaver) Path(blob *models.ArchiveBlob) string {
	return filepath.Join(s.root, filepath.Base(blob.Filename))
}

func (s *DirSaver) EnsureDir() error {
	if err := os.MkdirAll(s.root, 0o755); err != nil {
		return fmt.Errorf("mkdir output dir: %w", err)
	}
	return nil
}

// Save пишет архив во временный файл и переименовывает его,
// чтобы на диске не оставалось недописанных архивов.
func (s *DirSaver) Save(blob *models.ArchiveBlob) (string, error) {
	if err := s.EnsureDir(); err != nil {
		return "", err
	}

	target := s.Path(blob)
	tmp, err := os.CreateTemp(s.root, ".partial-*.zip")
	if err != nil {
		return "", fmt.Errorf("create temp archive: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(blob.Data); err != nil {
		_ = tmp.Close()
		return "", fmt.Errorf("write archive: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close archive: %w", err)
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		return "", fmt.Errorf("rename archive: %w", err)
	}
	return target, nil
}
