package codegen

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"design-exporter/internal/exporter/models"
)

// ============================================================
// Flutter hints
// ============================================================

// DefaultProjectName используется, когда имя первого экрана не даёт идентификатора.
const DefaultProjectName = "generated_flutter_app"

// DefaultImageSize: размер заглушки изображения без подсказок width/height.
const DefaultImageSize = 100.0

var nonIdentRun = regexp.MustCompile(`[^a-z0-9]+`)

// SnakeCase: "OtraVista" -> "otra_vista", "Product List" -> "product_list".
func SnakeCase(s string) string {
	var b strings.Builder
	runes := []rune(strings.TrimSpace(s))
	for i, r := range runes {
		if unicode.IsUpper(r) && i > 0 {
			prev := runes[i-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
				b.WriteByte('_')
			}
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return strings.Trim(nonIdentRun.ReplaceAllString(b.String(), "_"), "_")
}

// ProjectName: имя пакета по первому экрану.
func ProjectName(structure models.UIStructure) string {
	if len(structure) == 0 {
		return DefaultProjectName
	}
	name := SnakeCase(structure[0].Name)
	if name == "" {
		return DefaultProjectName
	}
	if name[0] >= '0' && name[0] <= '9' {
		name = "app_" + name
	}
	return name
}

// RouteName превращает имя экрана в путь маршрута: "OtraVista" -> "/otra_vista".
func RouteName(view string) string {
	return "/" + SnakeCase(view)
}

// DartColor переводит hex в Color(0xAARRGGBB); без альфы канал равен FF.
func DartColor(c models.HexColor) string {
	return fmt.Sprintf("Color(0x%08X)", c.ARGB())
}

// EdgeInsets выбирает самую короткую форму EdgeInsets для отступов.
func EdgeInsets(sp models.Spacing) string {
	switch {
	case sp.Top == sp.Right && sp.Right == sp.Bottom && sp.Bottom == sp.Left:
		return "EdgeInsets.all(" + dartNum(sp.Top) + ")"
	case sp.Top == sp.Bottom && sp.Left == sp.Right:
		return "EdgeInsets.symmetric(vertical: " + dartNum(sp.Top) + ", horizontal: " + dartNum(sp.Left) + ")"
	default:
		return "EdgeInsets.fromLTRB(" + dartNum(sp.Left) + ", " + dartNum(sp.Top) + ", " +
			dartNum(sp.Right) + ", " + dartNum(sp.Bottom) + ")"
	}
}

// IconRef сопоставляет имя иконки с Icons.<name> или FallbackIcon.
func IconRef(name string) string {
	n := strings.TrimSpace(name)
	n = strings.TrimPrefix(n, "Icons.")
	n = SnakeCase(n)
	if _, ok := materialIcons[n]; ok {
		return "Icons." + n
	}
	return FallbackIcon
}

// ImageWidget: сетевое изображение по sourceUrl, иначе заглушка по размерам.
func ImageWidget(p models.Properties) string {
	if url := strings.TrimSpace(p.SourceURL); url != "" {
		return "Image.network(" + dartString(url) + ")"
	}
	w, h := DefaultImageSize, DefaultImageSize
	if p.Width != nil && *p.Width > 0 {
		w = *p.Width
	}
	if p.Height != nil && *p.Height > 0 {
		h = *p.Height
	}
	return "Placeholder(fallbackWidth: " + dartNum(w) + ", fallbackHeight: " + dartNum(h) + ")"
}

func dartNum(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

var dartEscaper = strings.NewReplacer(`\`, `\\`, `'`, `\'`, `$`, `\$`, "\n", `\n`, "\r", `\r`)

func dartString(s string) string {
	return "'" + dartEscaper.Replace(s) + "'"
}

func pascalCase(s string) string {
	var b strings.Builder
	for _, part := range strings.Split(SnakeCase(s), "_") {
		if part == "" {
			continue
		}
		b.WriteString(strings.ToUpper(part[:1]))
		b.WriteString(part[1:])
	}
	return b.String()
}
