package capture

import (
	"fmt"
	"image"
	"math"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
)

// ============================================================
// Vector strategy
// ============================================================

// ensureSize проставляет клону явные width/height (и viewBox, если его нет).
// Порядок источников: собственные атрибуты, viewBox, измеренная геометрия.
func ensureSize(svg *goquery.Selection) (float64, float64, error) {
	width, okW := parseLength(svg.AttrOr("width", ""))
	height, okH := parseLength(svg.AttrOr("height", ""))

	vbW, vbH, hasViewBox := parseViewBox(svg.AttrOr("viewBox", ""))
	if !okW || width <= 0 || !okH || height <= 0 {
		if hasViewBox {
			width, height = vbW, vbH
		} else if mw, mh, ok := measure(svg); ok {
			width, height = mw, mh
		} else {
			return 0, 0, fmt.Errorf("svg has no size and no measurable geometry")
		}
	}

	svg.SetAttr("width", formatFloat(width))
	svg.SetAttr("height", formatFloat(height))
	if !hasViewBox {
		svg.SetAttr("viewBox", "0 0 "+formatFloat(width)+" "+formatFloat(height))
	}
	return width, height, nil
}

// rasterizeVector клонирует корень SVG, сериализует его и растеризует.
// Исходный документ не меняется.
func rasterizeVector(svg *goquery.Selection) (*image.RGBA, error) {
	clone := svg.Clone()

	width, height, err := ensureSize(clone)
	if err != nil {
		return nil, err
	}
	w, h := int(math.Ceil(width)), int(math.Ceil(height))
	if err := checkDimensions(w, h); err != nil {
		return nil, err
	}

	markup, err := goquery.OuterHtml(clone)
	if err != nil {
		return nil, fmt.Errorf("serialize svg: %w", err)
	}

	icon, err := oksvg.ReadIconStream(strings.NewReader(markup), oksvg.IgnoreErrorMode)
	if err != nil {
		return nil, fmt.Errorf("parse svg: %w", err)
	}
	icon.SetTarget(0, 0, float64(w), float64(h))

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	scanner := rasterx.NewScannerGV(w, h, img, img.Bounds())
	icon.Draw(rasterx.NewDasher(w, h, scanner), 1)
	return img, nil
}

func checkDimensions(w, h int) error {
	if w <= 0 || h <= 0 {
		return fmt.Errorf("empty surface %dx%d", w, h)
	}
	if w > MaxDimension || h > MaxDimension {
		return fmt.Errorf("surface %dx%d exceeds %dpx", w, h, MaxDimension)
	}
	return nil
}
