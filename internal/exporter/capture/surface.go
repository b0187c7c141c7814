package capture

import (
	"fmt"
	"html"
	"strconv"
	"strings"

	"design-exporter/internal/exporter/models"
)

// ============================================================
// Surface Renderer
// ============================================================

// Классы контейнера и корня SVG совпадают с разметкой холста в редакторе,
// поэтому и серверная поверхность, и присланная клиентом находятся
// одними и теми же селекторами.
const (
	containerClass = "absolute h-screen w-screen overflow-hidden"
	svgClass       = "h-screen w-screen"
)

// RenderSurface собирает разметку поверхности дизайна из снимка:
// контейнер с корнем SVG, по элементу на слой в порядке отрисовки.
func RenderSurface(snap *models.Snapshot) string {
	width, height := snap.Bounds()
	if width <= 0 {
		width = 1
	}
	if height <= 0 {
		height = 1
	}

	var b strings.Builder
	fmt.Fprintf(&b, `<div class="%s" data-design-surface="%s" style="background-color: %s">`+"\n",
		containerClass, html.EscapeString(snap.RoomName), hexRGB(snap.BackgroundColor))
	fmt.Fprintf(&b, `  <svg xmlns="http://www.w3.org/2000/svg" class="%s" viewBox="0 0 %s %s">`+"\n",
		svgClass, formatFloat(width), formatFloat(height))

	for _, layer := range snap.Ordered() {
		if elem := renderLayer(layer); elem != "" {
			b.WriteString("    ")
			b.WriteString(elem)
			b.WriteString("\n")
		}
	}

	b.WriteString("  </svg>\n</div>\n")
	return b.String()
}

func renderLayer(layer models.Layer) string {
	id := html.EscapeString(layer.ID)
	paint := paintAttrs(layer)

	switch layer.Type {
	case models.LayerRectangle:
		return fmt.Sprintf(`<rect id="%s" x="%s" y="%s" width="%s" height="%s" %s/>`,
			id, formatFloat(layer.X), formatFloat(layer.Y), formatFloat(layer.Width), formatFloat(layer.Height), paint)
	case models.LayerEllipse:
		rx, ry := layer.Width/2, layer.Height/2
		return fmt.Sprintf(`<ellipse id="%s" cx="%s" cy="%s" rx="%s" ry="%s" %s/>`,
			id, formatFloat(layer.X+rx), formatFloat(layer.Y+ry), formatFloat(rx), formatFloat(ry), paint)
	case models.LayerText:
		size := layer.FontSize
		if size <= 0 {
			size = 16
		}
		weight := "normal"
		if layer.Bold() {
			weight = "bold"
		}
		return fmt.Sprintf(`<text id="%s" x="%s" y="%s" font-size="%s" font-family="%s" font-weight="%s" dominant-baseline="hanging" %s>%s</text>`,
			id, formatFloat(layer.X), formatFloat(layer.Y), formatFloat(size),
			html.EscapeString(layer.FontFamily), weight, paint, html.EscapeString(layer.Text))
	}
	return ""
}

func paintAttrs(layer models.Layer) string {
	alpha := formatFloat(layer.Alpha())
	attrs := fmt.Sprintf(`fill="%s" fill-opacity="%s"`, hexRGB(layer.FillOrDefault()), alpha)
	if layer.Stroke != nil {
		attrs += fmt.Sprintf(` stroke="%s" stroke-opacity="%s" stroke-width="1"`, hexRGB(layer.Stroke.Clamped()), alpha)
	}
	return attrs
}

// ============================================================
// Formatting helpers
// ============================================================

func hexRGB(c models.RGB) string {
	c = c.Clamped()
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func formatFloat(val float64) string {
	return strconv.FormatFloat(val, 'f', -1, 64)
}
