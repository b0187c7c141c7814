package inference

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"design-exporter/internal/common/logger"
	"design-exporter/internal/exporter/models"
)

// ============================================================
// Response parsing
// ============================================================

// MaxWidgetDepth ограничивает вложенность дерева виджетов из ответа модели.
const MaxWidgetDepth = 64

var fencedBlock = regexp.MustCompile("(?s)```[A-Za-z0-9_-]*[ \\t]*\\r?\\n?(.*?)```")

// ExtractCandidate возвращает содержимое первого огороженного блока кода.
// Если блоков нет, кандидатом считается весь ответ.
func ExtractCandidate(text string) string {
	if m := fencedBlock.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	return strings.TrimSpace(text)
}

// ParseStructure разбирает ответ модели в UIStructure. Любая ошибка даёт
// StructureParseError с сырым ответом, частичный результат не возвращается.
func ParseStructure(raw string) (models.UIStructure, error) {
	candidate := ExtractCandidate(raw)

	var doc any
	if err := json.Unmarshal([]byte(candidate), &doc); err != nil {
		return nil, models.NewParseError(models.ErrCodeStructureParse, "response is not valid JSON", raw, err)
	}

	structure, err := decodeStructure(doc)
	if err != nil {
		return nil, models.NewParseError(models.ErrCodeStructureParse, "response does not describe views", raw, err)
	}
	return structure, nil
}

func decodeStructure(doc any) (models.UIStructure, error) {
	var rawViews []any
	switch v := doc.(type) {
	case []any:
		rawViews = v
	case map[string]any:
		views, ok := v["views"].([]any)
		if !ok {
			return nil, fmt.Errorf("object without a views array")
		}
		rawViews = views
	default:
		return nil, fmt.Errorf("top level is %s, want array of views", kindOf(doc))
	}

	if len(rawViews) == 0 {
		return nil, fmt.Errorf("no views")
	}

	structure := make(models.UIStructure, len(rawViews))
	for i, rv := range rawViews {
		obj, ok := rv.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("views[%d] is %s, want object", i, kindOf(rv))
		}
		view, err := decodeView(obj, i)
		if err != nil {
			return nil, err
		}
		structure[i] = view
	}
	return structure, nil
}

func decodeView(obj map[string]any, index int) (models.View, error) {
	var view models.View
	for _, key := range []string{"name", "viewName"} {
		if name, ok := obj[key].(string); ok && strings.TrimSpace(name) != "" {
			view.Name = strings.TrimSpace(name)
			break
		}
	}
	if view.Name == "" {
		view.Name = "Screen" + strconv.Itoa(index+1)
	}

	rawWidgets, err := listField(obj, "widgets")
	if err != nil {
		return view, fmt.Errorf("view %q: %w", view.Name, err)
	}
	view.Widgets = make([]models.Widget, len(rawWidgets))
	if err := decodeWidgets(rawWidgets, view.Widgets, "views."+view.Name); err != nil {
		return view, err
	}
	return view, nil
}

// decodeWidgets заполняет дерево виджетов явным стеком. Срезы детей
// выделяются заранее и не растут, поэтому указатели на элементы стабильны.
func decodeWidgets(raw []any, dst []models.Widget, prefix string) error {
	type frame struct {
		raw   any
		dst   *models.Widget
		depth int
		path  string
	}

	stack := make([]frame, 0, len(raw))
	for i := len(raw) - 1; i >= 0; i-- {
		stack = append(stack, frame{raw: raw[i], dst: &dst[i], depth: 1, path: fmt.Sprintf("%s.widgets[%d]", prefix, i)})
	}

	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if top.depth > MaxWidgetDepth {
			return fmt.Errorf("%s: widget tree deeper than %d", top.path, MaxWidgetDepth)
		}

		obj, ok := top.raw.(map[string]any)
		if !ok {
			return fmt.Errorf("%s is %s, want object", top.path, kindOf(top.raw))
		}
		if err := decodeWidgetFields(obj, top.dst, top.path); err != nil {
			return err
		}

		children, err := listField(obj, "children")
		if err != nil {
			return fmt.Errorf("%s: %w", top.path, err)
		}
		if len(children) == 0 {
			continue
		}
		top.dst.Children = make([]models.Widget, len(children))
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, frame{
				raw:   children[i],
				dst:   &top.dst.Children[i],
				depth: top.depth + 1,
				path:  fmt.Sprintf("%s.children[%d]", top.path, i),
			})
		}
	}
	return nil
}

func decodeWidgetFields(obj map[string]any, w *models.Widget, path string) error {
	typ, ok := obj["type"].(string)
	if !ok || strings.TrimSpace(typ) == "" {
		return fmt.Errorf("%s: missing widget type", path)
	}
	w.Type = strings.TrimSpace(typ)

	var err error
	if w.Text, err = scalarText(obj["text"]); err != nil {
		return fmt.Errorf("%s.text: %w", path, err)
	}
	if w.Description, err = scalarText(obj["description"]); err != nil {
		return fmt.Errorf("%s.description: %w", path, err)
	}

	switch props := obj["properties"].(type) {
	case nil:
	case map[string]any:
		var rejected []string
		w.Properties, rejected = models.DecodeProperties(props)
		if len(rejected) > 0 {
			logger.Debug().Str("widget", path).Strs("keys", rejected).Msg("Widget properties kept untyped")
		}
	default:
		return fmt.Errorf("%s.properties is %s, want object", path, kindOf(props))
	}
	return nil
}

func listField(obj map[string]any, key string) ([]any, error) {
	switch v := obj[key].(type) {
	case nil:
		return nil, nil
	case []any:
		return v, nil
	default:
		return nil, fmt.Errorf("%s is %s, want array", key, kindOf(v))
	}
}

func scalarText(v any) (string, error) {
	switch t := v.(type) {
	case nil:
		return "", nil
	case string:
		return t, nil
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), nil
	case bool:
		return strconv.FormatBool(t), nil
	default:
		return "", fmt.Errorf("is %s, want string", kindOf(v))
	}
}

func kindOf(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case map[string]any:
		return "object"
	case []any:
		return "array"
	case string:
		return "string"
	case float64:
		return "number"
	case bool:
		return "boolean"
	}
	return fmt.Sprintf("%T", v)
}
