package capture

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"strings"
	"testing"

	"design-exporter/internal/exporter/models"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func redRectangle() *models.Snapshot {
	return &models.Snapshot{
		Layers: map[string]models.Layer{
			"r1": {ID: "r1", Type: models.LayerRectangle, X: 10, Y: 20, Width: 100, Height: 50, Fill: &models.RGB{R: 255}},
		},
		LayerIDs: []string{"r1"},
		RoomName: "demo",
	}
}

func decode(t *testing.T, bm *models.Bitmap) image.Image {
	t.Helper()
	require.Equal(t, "image/png", bm.MIMEType)
	img, err := png.Decode(bytes.NewReader(bm.Data))
	require.NoError(t, err)
	return img
}

func rgba(img image.Image, x, y int) (uint8, uint8, uint8, uint8) {
	r, g, b, a := img.At(x, y).RGBA()
	return uint8(r >> 8), uint8(g >> 8), uint8(b >> 8), uint8(a >> 8)
}

func TestCaptureNoSurface(t *testing.T) {
	_, err := NewService(2).Capture(context.Background(), "<div><p>dashboard</p></div>", redRectangle())
	assert.ErrorIs(t, err, models.ErrCaptureUnavailable)
}

func TestCaptureServerSurfaceUsesRasterStrategy(t *testing.T) {
	bm, err := NewService(2).Capture(context.Background(), "", redRectangle())
	require.NoError(t, err)

	assert.Equal(t, 220, bm.Width)
	assert.Equal(t, 140, bm.Height)

	img := decode(t, bm)
	r, g, b, a := rgba(img, 60*2, 45*2)
	assert.Equal(t, [4]uint8{255, 0, 0, 255}, [4]uint8{r, g, b, a})

	_, _, _, a = rgba(img, 2, 2)
	assert.Zero(t, a, "background stays transparent")
}

func TestCaptureSupersampleFloor(t *testing.T) {
	assert.Equal(t, MinSupersample, NewService(1).supersample)
	assert.Equal(t, 3, NewService(3).supersample)
}

func TestCaptureVectorUsesViewBox(t *testing.T) {
	markup := `<html><body><svg class="h-screen w-screen" viewBox="0 0 40 20">` +
		`<rect x="0" y="0" width="40" height="20" fill="#00ff00"/></svg></body></html>`

	bm, err := NewService(2).Capture(context.Background(), markup, nil)
	require.NoError(t, err)
	assert.Equal(t, 40, bm.Width)
	assert.Equal(t, 20, bm.Height)

	r, g, _, a := rgba(decode(t, bm), 20, 10)
	assert.Less(t, r, uint8(10))
	assert.Greater(t, g, uint8(245))
	assert.Greater(t, a, uint8(245))
}

func TestCaptureVectorMeasuresGeometry(t *testing.T) {
	markup := `<svg><rect x="5" y="5" width="30" height="10" fill="#000"/><path d="M0 0 L 12 18"/></svg>`

	bm, err := NewService(2).Capture(context.Background(), markup, nil)
	require.NoError(t, err)
	assert.Equal(t, 35, bm.Width)
	assert.Equal(t, 18, bm.Height)
}

func TestCaptureVectorWithoutGeometryFails(t *testing.T) {
	_, err := NewService(2).Capture(context.Background(), `<svg></svg>`, nil)
	assert.ErrorIs(t, err, models.ErrCaptureFailed)
}

func TestRasterizeVectorLeavesSourceUntouched(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(`<svg viewBox="0 0 10 10"><rect width="10" height="10"/></svg>`))
	require.NoError(t, err)
	svg := doc.Find("svg")

	_, err = rasterizeVector(svg)
	require.NoError(t, err)
	_, has := svg.Attr("width")
	assert.False(t, has)
}

func TestLocateOrder(t *testing.T) {
	svc := NewService(2)
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(
		`<svg id="icon"></svg><div><svg id="canvas" class="h-screen w-screen"></svg></div>`))
	require.NoError(t, err)

	sel, name, err := svc.Locate(doc)
	require.NoError(t, err)
	assert.Equal(t, "canvas-svg", name)
	assert.Equal(t, "canvas", sel.AttrOr("id", ""))

	doc, err = goquery.NewDocumentFromReader(strings.NewReader(RenderSurface(redRectangle())))
	require.NoError(t, err)
	_, name, err = svc.Locate(doc)
	require.NoError(t, err)
	assert.Equal(t, "surface", name)
}

func TestRenderSurface(t *testing.T) {
	snap := redRectangle()
	op := 50.0
	snap.Layers["e1"] = models.Layer{ID: "e1", Type: models.LayerEllipse, X: 0, Y: 0, Width: 20, Height: 10, Opacity: &op}
	snap.Layers["t1"] = models.Layer{ID: "t1", Type: models.LayerText, Text: "a<b"}
	snap.LayerIDs = append(snap.LayerIDs, "e1", "t1")

	out := RenderSurface(snap)
	assert.Contains(t, out, `data-design-surface="demo"`)
	assert.Contains(t, out, `<rect id="r1" x="10" y="20" width="100" height="50" fill="#ff0000" fill-opacity="1"/>`)
	assert.Contains(t, out, `<ellipse id="e1" cx="10" cy="5" rx="10" ry="5" fill="#ffffff" fill-opacity="0.5"/>`)
	assert.Contains(t, out, `>a&lt;b</text>`)
	assert.Less(t, strings.Index(out, `id="r1"`), strings.Index(out, `id="e1"`))
}

func TestPathPoints(t *testing.T) {
	pts := pathPoints("M10 10 l 20 0 v 30 z")
	require.Len(t, pts, 3)
	assert.Equal(t, [2]float64{30, 40}, pts[2])

	box := newBBox()
	for _, p := range pathPoints("M0,0 C 10,50 20,-5 30,0 Q 40 10 45 0") {
		box.add(p[0], p[1])
	}
	assert.Equal(t, 45.0, box.maxX)
	assert.Equal(t, 50.0, box.maxY)
}

func TestParseLength(t *testing.T) {
	v, ok := parseLength("120px")
	assert.True(t, ok)
	assert.Equal(t, 120.0, v)

	_, ok = parseLength("100%")
	assert.False(t, ok)
	_, ok = parseLength("")
	assert.False(t, ok)
}
