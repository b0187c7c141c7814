package template

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"design-exporter/internal/exporter/models"
)

// ============================================================
// Identifiers
// ============================================================

var nonAlnumRun = regexp.MustCompile(`[^a-z0-9]+`)

const defaultProjectID = "canvas_design"

// ProjectID переводит имя комнаты в имя пакета Dart: нижний регистр,
// серии не-буквенно-цифровых символов схлопываются в "_".
func ProjectID(room string) string {
	id := nonAlnumRun.ReplaceAllString(strings.ToLower(room), "_")
	id = strings.Trim(id, "_")
	if id == "" {
		return defaultProjectID
	}
	if id[0] >= '0' && id[0] <= '9' {
		id = "app_" + id
	}
	return id
}

// ============================================================
// Dart literals
// ============================================================

// dartDouble печатает число как литерал double: всегда с дробной частью.
func dartDouble(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "0.0"
	}
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

var dartEscaper = strings.NewReplacer(
	`\`, `\\`,
	`'`, `\'`,
	`$`, `\$`,
	"\n", `\n`,
	"\r", `\r`,
	"\t", `\t`,
)

// dartString возвращает строковый литерал в одинарных кавычках.
func dartString(s string) string {
	return "'" + dartEscaper.Replace(s) + "'"
}

// rgbo печатает Color.fromRGBO с альфой из opacity слоя.
func rgbo(c models.RGB, alpha float64) string {
	c = c.Clamped()
	return "Color.fromRGBO(" + strconv.Itoa(c.R) + ", " + strconv.Itoa(c.G) + ", " +
		strconv.Itoa(c.B) + ", " + dartDouble(alpha) + ")"
}

var commentBreaks = strings.NewReplacer("\r", " ", "\n", " ")

func commentSafe(s string) string {
	return commentBreaks.Replace(s)
}
