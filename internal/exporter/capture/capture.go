// Package capture растеризует поверхность дизайна в один PNG для модели зрения.
package capture

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"strings"

	"design-exporter/internal/common/logger"
	"design-exporter/internal/exporter/models"

	"github.com/PuerkitoBio/goquery"
	"github.com/valyala/bytebufferpool"
)

// ============================================================
// Visual Capture Service
// ============================================================

const (
	// MinSupersample: нижняя граница масштаба растровой стратегии.
	MinSupersample = 2
	// MaxDimension ограничивает сторону итогового изображения в пикселях.
	MaxDimension = 8192

	MIMEType = "image/png"
)

// Selector: одно правило поиска поверхности дизайна.
type Selector struct {
	Name  string
	Query string
}

// DefaultSelectors: точный элемент холста, корень SVG холста, любой SVG.
var DefaultSelectors = []Selector{
	{Name: "surface", Query: "[data-design-surface], .absolute.h-screen.w-screen.overflow-hidden"},
	{Name: "canvas-svg", Query: "svg.h-screen.w-screen"},
	{Name: "any-svg", Query: "svg"},
}

type Service struct {
	supersample int
	selectors   []Selector
	pool        *bytebufferpool.Pool
}

func NewService(supersample int) *Service {
	if supersample < MinSupersample {
		supersample = MinSupersample
	}
	return &Service{
		supersample: supersample,
		selectors:   DefaultSelectors,
		pool:        &bytebufferpool.Pool{},
	}
}

// Locate возвращает первый элемент, найденный по списку селекторов.
func (s *Service) Locate(doc *goquery.Document) (*goquery.Selection, string, error) {
	for _, sel := range s.selectors {
		if found := doc.Find(sel.Query).First(); found.Length() > 0 {
			return found, sel.Name, nil
		}
	}
	return nil, "", models.NewError(models.ErrCodeCaptureUnavailable, "design surface not found", nil)
}

// Capture находит поверхность в разметке и растеризует её. Пустая разметка
// означает поверхность, построенную сервером из снимка.
func (s *Service) Capture(ctx context.Context, markup string, snap *models.Snapshot) (*models.Bitmap, error) {
	if strings.TrimSpace(markup) == "" {
		if snap == nil {
			return nil, models.NewError(models.ErrCodeCaptureUnavailable, "no surface and no snapshot", nil)
		}
		markup = RenderSurface(snap)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return nil, models.NewError(models.ErrCodeCaptureUnavailable, "parse surface markup", err)
	}

	surface, selector, err := s.Locate(doc)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var img image.Image
	strategy := "raster"
	if goquery.NodeName(surface) == "svg" {
		strategy = "vector"
		img, err = rasterizeVector(surface)
	} else {
		img, err = rasterizeLayers(snap, s.supersample)
	}
	if err != nil {
		return nil, models.NewError(models.ErrCodeCaptureFailed, strategy+" capture", err)
	}

	bitmap, err := s.encode(img)
	if err != nil {
		return nil, models.NewError(models.ErrCodeCaptureFailed, "encode png", err)
	}

	logger.Debug().
		Str("selector", selector).
		Str("strategy", strategy).
		Int("width", bitmap.Width).
		Int("height", bitmap.Height).
		Int("bytes", len(bitmap.Data)).
		Msg("Surface captured")
	return bitmap, nil
}

// encode пишет PNG в буфер из пула и копирует результат наружу.
func (s *Service) encode(img image.Image) (*models.Bitmap, error) {
	buf := s.pool.Get()
	defer s.pool.Put(buf)

	if err := png.Encode(buf, img); err != nil {
		return nil, fmt.Errorf("png: %w", err)
	}

	data := make([]byte, buf.Len())
	copy(data, buf.B)

	bounds := img.Bounds()
	return &models.Bitmap{
		Data:     data,
		MIMEType: MIMEType,
		Width:    bounds.Dx(),
		Height:   bounds.Dy(),
	}, nil
}
