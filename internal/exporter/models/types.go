package models

import (
	"fmt"
	"math"
	"time"
)

// ============================================================
// Design Layers
// ============================================================

type LayerType string

const (
	LayerRectangle LayerType = "rectangle"
	LayerEllipse   LayerType = "ellipse"
	LayerText      LayerType = "text"
)

// Supported сообщает, умеет ли конвейер экспорта работать с этим типом слоя.
func (t LayerType) Supported() bool {
	switch t {
	case LayerRectangle, LayerEllipse, LayerText:
		return true
	}
	return false
}

// RGB: цвет слоя, каждый канал 0–255.
type RGB struct {
	R int `json:"r"`
	G int `json:"g"`
	B int `json:"b"`
}

// Clamped возвращает цвет с каналами, приведёнными к диапазону 0–255.
func (c RGB) Clamped() RGB {
	return RGB{R: clampChannel(c.R), G: clampChannel(c.G), B: clampChannel(c.B)}
}

func clampChannel(v int) int {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return v
}

var (
	White = RGB{R: 255, G: 255, B: 255}
	Black = RGB{R: 0, G: 0, B: 0}
)

type Layer struct {
	ID         string    `json:"id"`
	Type       LayerType `json:"type"`
	X          float64   `json:"x"`
	Y          float64   `json:"y"`
	Width      float64   `json:"width"`
	Height     float64   `json:"height"`
	Fill       *RGB      `json:"fill,omitempty"`
	Stroke     *RGB      `json:"stroke,omitempty"`
	Opacity    *float64  `json:"opacity,omitempty"` // 0–100, nil = 100
	Text       string    `json:"text,omitempty"`
	FontSize   float64   `json:"fontSize,omitempty"`
	FontFamily string    `json:"fontFamily,omitempty"`
	FontWeight string    `json:"fontWeight,omitempty"` // normal, bold
}

// Clone возвращает глубокую копию слоя: указатели не разделяются с оригиналом.
func (l Layer) Clone() Layer {
	out := l
	if l.Fill != nil {
		fill := *l.Fill
		out.Fill = &fill
	}
	if l.Stroke != nil {
		stroke := *l.Stroke
		out.Stroke = &stroke
	}
	if l.Opacity != nil {
		opacity := *l.Opacity
		out.Opacity = &opacity
	}
	return out
}

// Alpha линейно переводит opacity (0–100) в альфа-канал 0.0–1.0.
func (l Layer) Alpha() float64 {
	if l.Opacity == nil {
		return 1
	}
	o := *l.Opacity
	if math.IsNaN(o) || o <= 0 {
		return 0
	}
	if o >= 100 {
		return 1
	}
	return o / 100
}

// FillOrDefault: белый для фигур, чёрный для текста.
func (l Layer) FillOrDefault() RGB {
	if l.Fill != nil {
		return l.Fill.Clamped()
	}
	if l.Type == LayerText {
		return Black
	}
	return White
}

func (l Layer) Bold() bool {
	return l.FontWeight == "bold"
}

// ============================================================
// Canvas Snapshot
// ============================================================

// Snapshot: неизменяемый снимок дизайна комнаты на момент экспорта.
type Snapshot struct {
	Layers          map[string]Layer `json:"layers"`
	LayerIDs        []string         `json:"layerIds"`
	BackgroundColor RGB              `json:"backgroundColor"`
	RoomName        string           `json:"roomName"`
	ExportedAt      time.Time        `json:"exportedAt"`
}

// Validate проверяет инвариант: layerIds и ключи layers совпадают как множества.
func (s *Snapshot) Validate() error {
	if s == nil {
		return fmt.Errorf("snapshot is nil")
	}
	seen := make(map[string]struct{}, len(s.LayerIDs))
	for _, id := range s.LayerIDs {
		if _, dup := seen[id]; dup {
			return fmt.Errorf("layer %q listed twice in layerIds", id)
		}
		seen[id] = struct{}{}
		layer, ok := s.Layers[id]
		if !ok {
			return fmt.Errorf("layer %q listed in layerIds but missing from layers", id)
		}
		if layer.ID != "" && layer.ID != id {
			return fmt.Errorf("layer %q stored under key %q", layer.ID, id)
		}
	}
	for id := range s.Layers {
		if _, ok := seen[id]; !ok {
			return fmt.Errorf("layer %q missing from layerIds", id)
		}
	}
	return nil
}

// Ordered возвращает слои в порядке отрисовки.
func (s *Snapshot) Ordered() []Layer {
	out := make([]Layer, 0, len(s.LayerIDs))
	for _, id := range s.LayerIDs {
		if layer, ok := s.Layers[id]; ok {
			out = append(out, layer)
		}
	}
	return out
}

// Bounds возвращает правую и нижнюю границы дизайна.
func (s *Snapshot) Bounds() (float64, float64) {
	var maxX, maxY float64
	for _, layer := range s.Layers {
		if right := layer.X + layer.Width; right > maxX {
			maxX = right
		}
		if bottom := layer.Y + layer.Height; bottom > maxY {
			maxY = bottom
		}
	}
	return maxX, maxY
}

// ============================================================
// Generated output
// ============================================================

type GeneratedFile struct {
	Path    string `json:"path"`
	Content string `json:"content"`
}

// Bitmap: растровый снимок поверхности дизайна.
type Bitmap struct {
	Data     []byte
	MIMEType string
	Width    int
	Height   int
}

// ArchiveBlob: готовый к скачиванию архив проекта.
type ArchiveBlob struct {
	Filename string
	Data     []byte
}
