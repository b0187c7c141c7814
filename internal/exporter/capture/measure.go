package capture

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ============================================================
// Geometry measurement
// ============================================================

// bbox: ограничивающий прямоугольник дочерней геометрии SVG.
type bbox struct {
	maxX, maxY float64
	empty      bool
}

func newBBox() bbox {
	return bbox{empty: true}
}

func (b *bbox) add(x, y float64) {
	if math.IsNaN(x) || math.IsNaN(y) || math.IsInf(x, 0) || math.IsInf(y, 0) {
		return
	}
	if b.empty || x > b.maxX {
		b.maxX = x
	}
	if b.empty || y > b.maxY {
		b.maxY = y
	}
	b.empty = false
}

// measure обходит потомков корня SVG и возвращает правый и нижний края
// их геометрии в координатах пользователя.
func measure(root *goquery.Selection) (float64, float64, bool) {
	box := newBBox()

	root.Find("*").Each(func(_ int, el *goquery.Selection) {
		switch goquery.NodeName(el) {
		case "rect", "image", "use", "foreignObject":
			x, y := attrNumber(el, "x"), attrNumber(el, "y")
			box.add(x+attrNumber(el, "width"), y+attrNumber(el, "height"))
		case "circle":
			r := attrNumber(el, "r")
			box.add(attrNumber(el, "cx")+r, attrNumber(el, "cy")+r)
		case "ellipse":
			box.add(attrNumber(el, "cx")+attrNumber(el, "rx"), attrNumber(el, "cy")+attrNumber(el, "ry"))
		case "line":
			box.add(attrNumber(el, "x1"), attrNumber(el, "y1"))
			box.add(attrNumber(el, "x2"), attrNumber(el, "y2"))
		case "polygon", "polyline":
			coords := parseCoords(el.AttrOr("points", ""))
			for i := 0; i+1 < len(coords); i += 2 {
				box.add(coords[i], coords[i+1])
			}
		case "path":
			for _, p := range pathPoints(el.AttrOr("d", "")) {
				box.add(p[0], p[1])
			}
		case "text":
			size := attrNumber(el, "font-size")
			if size <= 0 {
				size = 16
			}
			box.add(attrNumber(el, "x")+size*float64(len([]rune(el.Text())))*0.6, attrNumber(el, "y")+size)
		}
	})

	if box.empty || box.maxX <= 0 || box.maxY <= 0 {
		return 0, 0, false
	}
	return box.maxX, box.maxY, true
}

func attrNumber(el *goquery.Selection, name string) float64 {
	v, _ := parseLength(el.AttrOr(name, ""))
	return v
}

// parseLength разбирает длину SVG. Проценты и em не поддерживаются.
func parseLength(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "px")
	if s == "" || strings.HasSuffix(s, "%") || strings.HasSuffix(s, "em") {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// parseViewBox возвращает ширину и высоту из атрибута viewBox.
func parseViewBox(s string) (float64, float64, bool) {
	coords := parseCoords(s)
	if len(coords) != 4 || coords[2] <= 0 || coords[3] <= 0 {
		return 0, 0, false
	}
	return coords[2], coords[3], true
}

// ============================================================
// Path data
// ============================================================

var pathCommand = regexp.MustCompile(`([MmLlHhVvCcSsQqTtAaZz])([^MmLlHhVvCcSsQqTtAaZz]*)`)

// pathPoints возвращает опорные и контрольные точки path в абсолютных
// координатах. Контрольные точки кривых не выходят далеко за сами кривые,
// поэтому для оценки размера их достаточно.
func pathPoints(d string) [][2]float64 {
	var points [][2]float64
	var curX, curY, startX, startY float64

	for _, match := range pathCommand.FindAllStringSubmatch(strings.TrimSpace(d), -1) {
		cmd := match[1]
		args := parseCoords(match[2])
		rel := strings.ToLower(cmd) == cmd

		move := func(x, y float64) {
			if rel {
				x += curX
				y += curY
			}
			curX, curY = x, y
			points = append(points, [2]float64{curX, curY})
		}

		switch strings.ToUpper(cmd) {
		case "M":
			for i := 0; i+1 < len(args); i += 2 {
				move(args[i], args[i+1])
				if i == 0 {
					startX, startY = curX, curY
				}
			}
		case "L", "T":
			for i := 0; i+1 < len(args); i += 2 {
				move(args[i], args[i+1])
			}
		case "H":
			for _, x := range args {
				if rel {
					x += curX
				}
				curX = x
				points = append(points, [2]float64{curX, curY})
			}
		case "V":
			for _, y := range args {
				if rel {
					y += curY
				}
				curY = y
				points = append(points, [2]float64{curX, curY})
			}
		case "C":
			for i := 0; i+5 < len(args); i += 6 {
				baseX, baseY := curX, curY
				for j := 0; j < 4; j += 2 {
					x, y := args[i+j], args[i+j+1]
					if rel {
						x, y = x+baseX, y+baseY
					}
					points = append(points, [2]float64{x, y})
				}
				move(args[i+4], args[i+5])
			}
		case "S", "Q":
			for i := 0; i+3 < len(args); i += 4 {
				x, y := args[i], args[i+1]
				if rel {
					x, y = x+curX, y+curY
				}
				points = append(points, [2]float64{x, y})
				move(args[i+2], args[i+3])
			}
		case "A":
			for i := 0; i+6 < len(args); i += 7 {
				move(args[i+5], args[i+6])
			}
		case "Z":
			curX, curY = startX, startY
		}
	}
	return points
}

func parseCoords(s string) []float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	s = strings.ReplaceAll(s, ",", " ")
	parts := strings.Fields(s)

	var coords []float64
	for _, part := range parts {
		val, err := strconv.ParseFloat(part, 64)
		if err == nil {
			coords = append(coords, val)
		}
	}
	return coords
}
