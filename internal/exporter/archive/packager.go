package archive

import (
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"design-exporter/internal/exporter/models"

	"github.com/klauspost/compress/zip"
	"github.com/valyala/bytebufferpool"
)

// ============================================================
// Packager
// ============================================================

// ProjectSuffix добавляется к имени каждого архива.
const ProjectSuffix = "_flutter_project.zip"

type Packager struct {
	pool *bytebufferpool.Pool
	now  func() time.Time
}

func NewPackager() *Packager {
	return &Packager{pool: &bytebufferpool.Pool{}, now: time.Now}
}

// Package собирает архив целиком или не собирает ничего: при любой ошибке
// возвращается PackagingError и ни одного байта архива.
func (p *Packager) Package(files []models.GeneratedFile, projectName string) (*models.ArchiveBlob, error) {
	if len(files) == 0 {
		return nil, models.NewError(models.ErrCodePackaging, "no files to package", nil)
	}

	root, err := BuildTree(files)
	if err != nil {
		return nil, models.NewError(models.ErrCodePackaging, "invalid project layout", err)
	}

	buf := p.pool.Get()
	defer p.pool.Put(buf)

	if err := p.writeZip(buf, root); err != nil {
		return nil, models.NewError(models.ErrCodePackaging, "write archive", err)
	}

	data := make([]byte, buf.Len())
	copy(data, buf.B)

	return &models.ArchiveBlob{Filename: ArchiveFilename(projectName), Data: data}, nil
}

func (p *Packager) writeZip(w io.Writer, root *Folder) error {
	zw := zip.NewWriter(w)
	modified := p.now()

	err := root.Walk(func(e Entry) error {
		if e.Dir {
			_, err := zw.CreateHeader(&zip.FileHeader{Name: e.Path, Method: zip.Store, Modified: modified})
			return err
		}
		fw, err := zw.CreateHeader(&zip.FileHeader{Name: e.Path, Method: zip.Deflate, Modified: modified})
		if err != nil {
			return err
		}
		_, err = io.WriteString(fw, e.Content)
		return err
	})
	if err != nil {
		_ = zw.Close()
		return fmt.Errorf("add entry: %w", err)
	}
	return zw.Close()
}

// ============================================================
// Filenames
// ============================================================

var (
	whitespaceRun = regexp.MustCompile(`\s+`)
	unsafeChars   = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1f]`)
)

// ArchiveFilename: серии пробелов и небезопасные для файловой системы
// символы заменяются на "_".
func ArchiveFilename(projectName string) string {
	name := whitespaceRun.ReplaceAllString(strings.TrimSpace(projectName), "_")
	name = unsafeChars.ReplaceAllString(name, "_")
	if name == "" {
		name = "design"
	}
	return name + ProjectSuffix
}
