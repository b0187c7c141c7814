package codegen

import (
	"encoding/json"
	"fmt"
	"path"
	"regexp"
	"strings"

	"design-exporter/internal/exporter/models"
)

// ============================================================
// Response repair
// ============================================================

// repairStep: чистое преобразование текста ответа. Шаги применяются по
// порядку, после каждого делается попытка разбора.
type repairStep struct {
	name  string
	apply func(string) string
}

var repairSteps = []repairStep{
	{name: "trim", apply: strings.TrimSpace},
	{name: "strip_fence", apply: stripFence},
	{name: "slice_brackets", apply: sliceBrackets},
}

var (
	openingFence = regexp.MustCompile("^```[A-Za-z0-9_-]*")
	closingFence = regexp.MustCompile("```$")
)

// stripFence снимает открывающий (```json или ```) и закрывающий маркеры.
func stripFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = openingFence.ReplaceAllString(s, "")
	s = closingFence.ReplaceAllString(strings.TrimSpace(s), "")
	return strings.TrimSpace(s)
}

// sliceBrackets вырезает участок от первой "[" до последней "]".
func sliceBrackets(s string) string {
	first := strings.Index(s, "[")
	last := strings.LastIndex(s, "]")
	if first == -1 || last <= first {
		return s
	}
	return s[first : last+1]
}

// DecodeFiles разбирает строго JSON-массив файлов: непустой, у каждого
// элемента непустая строка path и строка content, пути не повторяются.
func DecodeFiles(text string) ([]models.GeneratedFile, error) {
	var items []map[string]any
	if err := json.Unmarshal([]byte(text), &items); err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("empty file list")
	}

	files := make([]models.GeneratedFile, len(items))
	seen := make(map[string]int, len(items))
	for i, item := range items {
		if item == nil {
			return nil, fmt.Errorf("files[%d] is not an object", i)
		}
		p, ok := item["path"].(string)
		if !ok || strings.TrimSpace(p) == "" {
			return nil, fmt.Errorf("files[%d] has no path", i)
		}
		key := path.Clean("/" + strings.TrimSpace(p))
		if first, dup := seen[key]; dup {
			return nil, fmt.Errorf("files[%d] repeats path %q of files[%d]", i, p, first)
		}
		seen[key] = i
		content, ok := item["content"].(string)
		if !ok {
			return nil, fmt.Errorf("files[%d] (%s) has no string content", i, p)
		}
		files[i] = models.GeneratedFile{Path: p, Content: content}
	}
	return files, nil
}

// RepairText прогоняет текст через шаги починки до первого успешного разбора.
func RepairText(raw string) ([]models.GeneratedFile, error) {
	candidate := raw
	var lastErr error
	for _, step := range repairSteps {
		candidate = step.apply(candidate)
		files, err := DecodeFiles(candidate)
		if err == nil {
			return files, nil
		}
		lastErr = fmt.Errorf("after %s: %w", step.name, err)
	}
	return nil, models.NewParseError(models.ErrCodeCodeGenParse, "response is not a JSON array of files", raw, lastErr)
}

// RepairReply разбирает ответ модели. Если вместо строки пришёл список частей,
// берётся строковое поле text или value первой части.
func RepairReply(reply *Reply) ([]models.GeneratedFile, error) {
	if reply == nil {
		return nil, models.NewParseError(models.ErrCodeCodeGenParse, "empty reply", "", nil)
	}
	if strings.TrimSpace(reply.Text) != "" || len(reply.Parts) == 0 {
		return RepairText(reply.Text)
	}

	first := reply.Parts[0]
	switch {
	case first.Text != "":
		return RepairText(first.Text)
	case first.Value != "":
		return RepairText(first.Value)
	}
	return nil, models.NewParseError(models.ErrCodeCodeGenParse,
		"first reply part has no text or value", reply.Raw(), nil)
}
