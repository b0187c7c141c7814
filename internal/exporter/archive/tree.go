// Package archive собирает плоский список файлов в дерево папок и упаковывает его в ZIP.
package archive

import (
	"fmt"
	"strings"

	"design-exporter/internal/common/logger"
	"design-exporter/internal/exporter/models"
)

// ============================================================
// Folder tree
// ============================================================

// Folder: узел дерева проекта. Папки создаются лениво и переиспользуются:
// на одном уровне не бывает двух папок с одним именем.
type Folder struct {
	Name string

	folders     map[string]*Folder
	folderOrder []string
	files       map[string]string
	fileOrder   []string
}

func NewFolder(name string) *Folder {
	return &Folder{
		Name:    name,
		folders: make(map[string]*Folder),
		files:   make(map[string]string),
	}
}

// Folder возвращает дочернюю папку, создавая её при первом обращении.
func (f *Folder) Folder(name string) (*Folder, error) {
	if child, ok := f.folders[name]; ok {
		return child, nil
	}
	if _, clash := f.files[name]; clash {
		return nil, fmt.Errorf("%q is both a file and a folder", name)
	}
	child := NewFolder(name)
	f.folders[name] = child
	f.folderOrder = append(f.folderOrder, name)
	return child, nil
}

// Put кладёт файл в папку. Повторная запись перезаписывает содержимое.
func (f *Folder) Put(name, content string) error {
	if _, clash := f.folders[name]; clash {
		return fmt.Errorf("%q is both a file and a folder", name)
	}
	if _, exists := f.files[name]; !exists {
		f.fileOrder = append(f.fileOrder, name)
	}
	f.files[name] = content
	return nil
}

// Entry: элемент обхода дерева. Path папок заканчивается на "/".
type Entry struct {
	Path    string
	Dir     bool
	Content string
}

// Walk обходит дерево в глубину без рекурсии, в порядке добавления.
func (f *Folder) Walk(fn func(Entry) error) error {
	type frame struct {
		folder *Folder
		prefix string
	}
	stack := []frame{{folder: f}}

	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if top.prefix != "" {
			if err := fn(Entry{Path: top.prefix, Dir: true}); err != nil {
				return err
			}
		}
		for _, name := range top.folder.fileOrder {
			if err := fn(Entry{Path: top.prefix + name, Content: top.folder.files[name]}); err != nil {
				return err
			}
		}
		for i := len(top.folder.folderOrder) - 1; i >= 0; i-- {
			name := top.folder.folderOrder[i]
			stack = append(stack, frame{folder: top.folder.folders[name], prefix: top.prefix + name + "/"})
		}
	}
	return nil
}

// Counts возвращает число папок (без корня) и файлов в дереве.
func (f *Folder) Counts() (folders, files int) {
	_ = f.Walk(func(e Entry) error {
		if e.Dir {
			folders++
		} else {
			files++
		}
		return nil
	})
	return folders, files
}

// BuildTree раскладывает файлы по дереву, разбивая пути по "/".
// Повтор пути перезаписывает файл и пишется в лог.
func BuildTree(files []models.GeneratedFile) (*Folder, error) {
	root := NewFolder("")
	seen := make(map[string]string, len(files))

	for _, file := range files {
		dirs, name, err := splitPath(file.Path)
		if err != nil {
			return nil, err
		}
		key := strings.Join(append(append([]string(nil), dirs...), name), "/")
		if prev, dup := seen[key]; dup {
			logger.Warn().
				Str("path", key).
				Str("first", prev).
				Str("again", file.Path).
				Msg("Duplicate file path, keeping the last one")
		}
		seen[key] = file.Path

		current := root
		for _, dir := range dirs {
			current, err = current.Folder(dir)
			if err != nil {
				return nil, fmt.Errorf("path %q: %w", file.Path, err)
			}
		}
		if err := current.Put(name, file.Content); err != nil {
			return nil, fmt.Errorf("path %q: %w", file.Path, err)
		}
	}
	return root, nil
}

// splitPath пропускает пустые сегменты и "." и отвергает "..".
func splitPath(path string) ([]string, string, error) {
	var segments []string
	for _, seg := range strings.Split(path, "/") {
		switch seg {
		case "", ".":
			continue
		case "..":
			return nil, "", fmt.Errorf("path %q escapes the project root", path)
		}
		segments = append(segments, seg)
	}
	if len(segments) == 0 || strings.HasSuffix(path, "/") {
		return nil, "", fmt.Errorf("path %q has no file name", path)
	}
	return segments[:len(segments)-1], segments[len(segments)-1], nil
}
