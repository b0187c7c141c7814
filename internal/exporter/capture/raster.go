package capture

import (
	"fmt"
	"image"
	"math"
	"sync"

	"design-exporter/internal/exporter/models"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

// ============================================================
// Raster strategy
// ============================================================

var (
	fontsOnce   sync.Once
	regularFont *truetype.Font
	boldFont    *truetype.Font
	fontsErr    error
)

func loadFonts() error {
	fontsOnce.Do(func() {
		regularFont, fontsErr = truetype.Parse(goregular.TTF)
		if fontsErr != nil {
			return
		}
		boldFont, fontsErr = truetype.Parse(gobold.TTF)
	})
	return fontsErr
}

// rasterizeLayers рисует слои снимка в порядке отрисовки с масштабом scale
// на прозрачном фоне.
func rasterizeLayers(snap *models.Snapshot, scale int) (image.Image, error) {
	if snap == nil {
		return nil, fmt.Errorf("raster surface requires a snapshot")
	}
	if err := loadFonts(); err != nil {
		return nil, fmt.Errorf("load fonts: %w", err)
	}

	width, height := snap.Bounds()
	w := int(math.Ceil(math.Max(width, 1))) * scale
	h := int(math.Ceil(math.Max(height, 1))) * scale
	if err := checkDimensions(w, h); err != nil {
		return nil, err
	}

	s := float64(scale)
	dc := gg.NewContext(w, h)

	for _, layer := range snap.Ordered() {
		alpha := int(math.Round(layer.Alpha() * 255))
		x, y, lw, lh := layer.X*s, layer.Y*s, layer.Width*s, layer.Height*s

		switch layer.Type {
		case models.LayerRectangle:
			dc.DrawRectangle(x, y, lw, lh)
		case models.LayerEllipse:
			dc.DrawEllipse(x+lw/2, y+lh/2, lw/2, lh/2)
		case models.LayerText:
			face := textFace(layer, s)
			fill := layer.FillOrDefault()
			dc.SetFontFace(face)
			dc.SetRGBA255(fill.R, fill.G, fill.B, alpha)
			dc.DrawStringAnchored(layer.Text, x, y, 0, 1)
			_ = face.Close()
			continue
		default:
			continue
		}

		fill := layer.FillOrDefault()
		dc.SetRGBA255(fill.R, fill.G, fill.B, alpha)
		if layer.Stroke == nil {
			dc.Fill()
			continue
		}
		dc.FillPreserve()
		stroke := layer.Stroke.Clamped()
		dc.SetRGBA255(stroke.R, stroke.G, stroke.B, alpha)
		dc.SetLineWidth(s)
		dc.Stroke()
	}

	return dc.Image(), nil
}

func textFace(layer models.Layer, scale float64) font.Face {
	size := layer.FontSize
	if size <= 0 {
		size = 16
	}
	f := regularFont
	if layer.Bold() {
		f = boldFont
	}
	return truetype.NewFace(f, &truetype.Options{Size: size * scale})
}
