package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ============================================================
// UI Structure
// ============================================================

// UIStructure: упорядоченный список экранов, выведенный моделью по изображению.
type UIStructure []View

type View struct {
	Name    string   `json:"name"`
	Widgets []Widget `json:"widgets"`
}

type Widget struct {
	Type        string     `json:"type"`
	Text        string     `json:"text,omitempty"`
	Description string     `json:"description,omitempty"`
	Properties  Properties `json:"properties"`
	Children    []Widget   `json:"children,omitempty"`
}

// ============================================================
// Widget properties
// ============================================================

// Properties: типизированные известные ключи плюс остаточная карта Extra
// для всего, что модель прислала сверх них (или в неожиданном виде).
type Properties struct {
	Color           *HexColor
	BackgroundColor *HexColor
	Width           *float64
	Height          *float64
	FontSize        *float64
	FontWeight      string
	FontFamily      string
	Padding         *Spacing
	Margin          *Spacing
	IconName        string
	NavigateTo      string
	Placeholder     string
	Label           string
	SourceURL       string
	Alignment       string
	Extra           map[string]any
}

// DecodeProperties раскладывает сырую карту свойств по типизированным полям.
// Значения, не прошедшие типизацию, не теряются: они остаются в Extra,
// а их ключи возвращаются во втором результате.
func DecodeProperties(raw map[string]any) (Properties, []string) {
	var p Properties
	var rejected []string

	keep := func(key string, val any) {
		if p.Extra == nil {
			p.Extra = make(map[string]any)
		}
		p.Extra[key] = val
	}
	reject := func(key string, val any) {
		rejected = append(rejected, key)
		keep(key, val)
	}

	for key, val := range raw {
		switch key {
		case "color", "textColor":
			if c, ok := hexFrom(val); ok && p.Color == nil {
				p.Color = &c
			} else {
				reject(key, val)
			}
		case "backgroundColor", "background":
			if c, ok := hexFrom(val); ok {
				p.BackgroundColor = &c
			} else {
				reject(key, val)
			}
		case "width":
			if f, ok := numberFrom(val); ok {
				p.Width = &f
			} else {
				reject(key, val)
			}
		case "height":
			if f, ok := numberFrom(val); ok {
				p.Height = &f
			} else {
				reject(key, val)
			}
		case "fontSize":
			if f, ok := numberFrom(val); ok {
				p.FontSize = &f
			} else {
				reject(key, val)
			}
		case "padding":
			if sp, ok := spacingFrom(val); ok {
				p.Padding = &sp
			} else {
				reject(key, val)
			}
		case "margin":
			if sp, ok := spacingFrom(val); ok {
				p.Margin = &sp
			} else {
				reject(key, val)
			}
		case "fontWeight":
			p.FontWeight, rejected = stringInto(key, val, rejected, keep)
		case "fontFamily":
			p.FontFamily, rejected = stringInto(key, val, rejected, keep)
		case "iconName", "icon":
			if s, ok := val.(string); ok && p.IconName == "" {
				p.IconName = s
			} else {
				reject(key, val)
			}
		case "navigateTo":
			p.NavigateTo, rejected = stringInto(key, val, rejected, keep)
		case "placeholder":
			p.Placeholder, rejected = stringInto(key, val, rejected, keep)
		case "label":
			p.Label, rejected = stringInto(key, val, rejected, keep)
		case "sourceUrl", "sourceURL", "src":
			if s, ok := val.(string); ok && p.SourceURL == "" {
				p.SourceURL = s
			} else {
				reject(key, val)
			}
		case "alignment":
			p.Alignment, rejected = stringInto(key, val, rejected, keep)
		default:
			keep(key, val)
		}
	}
	return p, rejected
}

func stringInto(key string, val any, rejected []string, keep func(string, any)) (string, []string) {
	if s, ok := val.(string); ok {
		return s, rejected
	}
	keep(key, val)
	return "", append(rejected, key)
}

// MarshalJSON сворачивает типизированные поля обратно в плоскую карту.
func (p Properties) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(p.Extra)+8)
	for k, v := range p.Extra {
		out[k] = v
	}
	if p.Color != nil {
		out["color"] = p.Color.String()
	}
	if p.BackgroundColor != nil {
		out["backgroundColor"] = p.BackgroundColor.String()
	}
	setNumber(out, "width", p.Width)
	setNumber(out, "height", p.Height)
	setNumber(out, "fontSize", p.FontSize)
	if p.Padding != nil {
		out["padding"] = p.Padding.String()
	}
	if p.Margin != nil {
		out["margin"] = p.Margin.String()
	}
	setString(out, "fontWeight", p.FontWeight)
	setString(out, "fontFamily", p.FontFamily)
	setString(out, "iconName", p.IconName)
	setString(out, "navigateTo", p.NavigateTo)
	setString(out, "placeholder", p.Placeholder)
	setString(out, "label", p.Label)
	setString(out, "sourceUrl", p.SourceURL)
	setString(out, "alignment", p.Alignment)
	return json.Marshal(out)
}

// UnmarshalJSON принимает произвольный объект свойств.
func (p *Properties) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*p, _ = DecodeProperties(raw)
	return nil
}

func setNumber(m map[string]any, key string, v *float64) {
	if v != nil {
		m[key] = *v
	}
}

func setString(m map[string]any, key, v string) {
	if v != "" {
		m[key] = v
	}
}

func numberFrom(val any) (float64, bool) {
	switch v := val.(type) {
	case float64:
		return v, true
	case string:
		s := strings.TrimSuffix(strings.TrimSpace(v), "px")
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

// ============================================================
// Hex colors
// ============================================================

// HexColor: цвет #RRGGBB или #AARRGGBB. Без альфы считается непрозрачным.
type HexColor struct {
	A, R, G, B uint8
	HasAlpha   bool
}

// ParseHexColor разбирает #RRGGBB, #AARRGGBB и короткую форму #RGB.
func ParseHexColor(s string) (HexColor, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	switch len(h) {
	case 6:
		v, err := strconv.ParseUint(h, 16, 32)
		if err != nil {
			return HexColor{}, fmt.Errorf("invalid hex color %q", s)
		}
		return HexColor{A: 0xFF, R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, nil
	case 8:
		v, err := strconv.ParseUint(h, 16, 32)
		if err != nil {
			return HexColor{}, fmt.Errorf("invalid hex color %q", s)
		}
		return HexColor{A: uint8(v >> 24), R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), HasAlpha: true}, nil
	}
	return HexColor{}, fmt.Errorf("invalid hex color %q", s)
}

func (c HexColor) String() string {
	if c.HasAlpha {
		return fmt.Sprintf("#%02X%02X%02X%02X", c.A, c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

// ARGB возвращает 32-битное значение 0xAARRGGBB.
func (c HexColor) ARGB() uint32 {
	return uint32(c.A)<<24 | uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B)
}

func hexFrom(val any) (HexColor, bool) {
	s, ok := val.(string)
	if !ok || !strings.HasPrefix(strings.TrimSpace(s), "#") {
		return HexColor{}, false
	}
	c, err := ParseHexColor(s)
	return c, err == nil
}

// ============================================================
// Spacing
// ============================================================

// Spacing: отступы в порядке top, right, bottom, left.
type Spacing struct {
	Top, Right, Bottom, Left float64
}

// ParseSpacing принимает "16", "8,16" (вертикаль, горизонталь) и "T,R,B,L".
func ParseSpacing(s string) (Spacing, error) {
	parts := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' })
	vals := make([]float64, 0, len(parts))
	for _, part := range parts {
		f, err := strconv.ParseFloat(strings.TrimSuffix(part, "px"), 64)
		if err != nil {
			return Spacing{}, fmt.Errorf("invalid spacing %q", s)
		}
		vals = append(vals, f)
	}
	switch len(vals) {
	case 1:
		return Spacing{vals[0], vals[0], vals[0], vals[0]}, nil
	case 2:
		return Spacing{vals[0], vals[1], vals[0], vals[1]}, nil
	case 4:
		return Spacing{vals[0], vals[1], vals[2], vals[3]}, nil
	}
	return Spacing{}, fmt.Errorf("invalid spacing %q", s)
}

func (s Spacing) String() string {
	return strings.Join([]string{
		formatNumber(s.Top), formatNumber(s.Right), formatNumber(s.Bottom), formatNumber(s.Left),
	}, ",")
}

func spacingFrom(val any) (Spacing, bool) {
	switch v := val.(type) {
	case float64:
		return Spacing{v, v, v, v}, true
	case string:
		sp, err := ParseSpacing(v)
		return sp, err == nil
	}
	return Spacing{}, false
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
