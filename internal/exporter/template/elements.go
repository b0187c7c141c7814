package template

import (
	"fmt"
	"math"
	"strings"

	"design-exporter/internal/exporter/models"
)

// ============================================================
// Canvas elements
// ============================================================

const (
	defaultFontSize   = 16.0
	defaultFontFamily = "Arial"
	borderWidth       = 1.0
)

// layerMarker предшествует каждому примитиву в canvas_elements.dart.
func layerMarker(id string) string {
	return "// layer " + commentSafe(id)
}

type dartWriter struct {
	b     strings.Builder
	depth int
}

func (w *dartWriter) line(format string, args ...any) {
	if format == "" {
		w.b.WriteString("\n")
		return
	}
	w.b.WriteString(strings.Repeat("  ", w.depth))
	fmt.Fprintf(&w.b, format, args...)
	w.b.WriteString("\n")
}

func (w *dartWriter) open(format string, args ...any) {
	w.line(format, args...)
	w.depth++
}

func (w *dartWriter) close(s string) {
	w.depth--
	w.line("%s", s)
}

// canvasSize возвращает размер холста: максимальные правый и нижний края,
// но не меньше 1, чтобы масштабирование на экране оставалось конечным.
func canvasSize(snap *models.Snapshot) (float64, float64) {
	w, h := snap.Bounds()
	return math.Max(w, 1), math.Max(h, 1)
}

func renderCanvasElements(snap *models.Snapshot) string {
	width, height := canvasSize(snap)

	w := &dartWriter{}
	w.line("import 'package:flutter/material.dart';")
	w.line("")
	w.line("const double designWidth = %s;", dartDouble(width))
	w.line("const double designHeight = %s;", dartDouble(height))
	w.line("")
	w.open("class CanvasElements extends StatelessWidget {")
	w.line("const CanvasElements({super.key});")
	w.line("")
	w.line("@override")
	w.open("Widget build(BuildContext context) {")
	w.open("return Container(")
	w.line("width: designWidth,")
	w.line("height: designHeight,")
	w.line("color: %s,", rgbo(snap.BackgroundColor, 1))
	w.open("child: Stack(")
	w.open("children: <Widget>[")
	for _, layer := range snap.Ordered() {
		writeLayer(w, layer)
	}
	w.close("],")
	w.close("),")
	w.close(");")
	w.close("}")
	w.close("}")
	return w.b.String()
}

func writeLayer(w *dartWriter, layer models.Layer) {
	w.line("%s", layerMarker(layer.ID))
	w.open("Positioned(")
	w.line("left: %s,", dartDouble(layer.X))
	w.line("top: %s,", dartDouble(layer.Y))

	switch layer.Type {
	case models.LayerRectangle:
		writeBox(w, layer)
	case models.LayerEllipse:
		writeOval(w, layer)
	case models.LayerText:
		writeText(w, layer)
	}

	w.close("),")
}

func writeBox(w *dartWriter, layer models.Layer) {
	alpha := layer.Alpha()
	w.open("child: Container(")
	w.line("width: %s,", dartDouble(layer.Width))
	w.line("height: %s,", dartDouble(layer.Height))
	w.open("decoration: BoxDecoration(")
	w.line("color: %s,", rgbo(layer.FillOrDefault(), alpha))
	if layer.Stroke != nil {
		w.line("border: Border.all(color: %s, width: %s),", rgbo(*layer.Stroke, alpha), dartDouble(borderWidth))
	}
	w.close("),")
	w.close("),")
}

// writeOval клипует ту же коробку по вписанному эллипсу.
func writeOval(w *dartWriter, layer models.Layer) {
	alpha := layer.Alpha()
	w.open("child: Container(")
	w.line("width: %s,", dartDouble(layer.Width))
	w.line("height: %s,", dartDouble(layer.Height))
	w.open("decoration: ShapeDecoration(")
	w.line("color: %s,", rgbo(layer.FillOrDefault(), alpha))
	if layer.Stroke != nil {
		w.line("shape: OvalBorder(side: BorderSide(color: %s, width: %s)),", rgbo(*layer.Stroke, alpha), dartDouble(borderWidth))
	} else {
		w.line("shape: const OvalBorder(),")
	}
	w.close("),")
	w.close("),")
}

func writeText(w *dartWriter, layer models.Layer) {
	fontSize := layer.FontSize
	if fontSize <= 0 {
		fontSize = defaultFontSize
	}
	family := layer.FontFamily
	if family == "" {
		family = defaultFontFamily
	}
	weight := "FontWeight.normal"
	if layer.Bold() {
		weight = "FontWeight.bold"
	}

	w.open("child: Text(")
	w.line("%s,", dartString(layer.Text))
	w.open("style: TextStyle(")
	w.line("fontSize: %s,", dartDouble(fontSize))
	w.line("fontFamily: %s,", dartString(family))
	w.line("fontWeight: %s,", weight)
	w.line("color: %s,", rgbo(layer.FillOrDefault(), layer.Alpha()))
	w.close("),")
	w.close("),")
}
