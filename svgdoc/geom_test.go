package svgdoc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gridview/geometry"
)

func TestParsePoints(t *testing.T) {
	points := ParsePoints("27.5,0 500,0 972.5,-40")
	require.Len(t, points, 3)
	assert.Equal(t, geometry.Point{X: 972.5, Y: -40}, points[2])

	assert.Nil(t, ParsePoints("not points"))
	assert.Nil(t, ParsePoints(""))
}

func TestFormatPoints(t *testing.T) {
	s := FormatPoints([]geometry.Point{{X: 27.5, Y: 0}, {X: 500.456, Y: -40}})
	assert.Equal(t, "27.5,0 500.46,-40", s)
}

func TestParseTranslate(t *testing.T) {
	dx, dy, ok := ParseTranslate("translate(10,-20.5)")
	require.True(t, ok)
	assert.Equal(t, 10.0, dx)
	assert.Equal(t, -20.5, dy)

	dx, dy, ok = ParseTranslate(" translate(7) ")
	require.True(t, ok)
	assert.Equal(t, 7.0, dx)
	assert.Equal(t, 0.0, dy)

	_, _, ok = ParseTranslate("rotate(90)")
	assert.False(t, ok)
	_, _, ok = ParseTranslate("translate(1,2) rotate(3)")
	assert.False(t, ok)
}

func TestTranslateString(t *testing.T) {
	assert.Equal(t, "translate(10,-20.5)", TranslateString(geometry.Point{X: 10, Y: -20.5}))
}

func TestPathPoints(t *testing.T) {
	points := PathPoints("M27.5,0 L100,50 H200 V-10")
	require.Len(t, points, 4)
	assert.Equal(t, geometry.Point{X: 100, Y: 50}, points[1])
	// H keeps the previous y, V keeps the previous x.
	assert.Equal(t, geometry.Point{X: 200, Y: 50}, points[2])
	assert.Equal(t, geometry.Point{X: 200, Y: -10}, points[3])
}

func TestPathPointsArcAndCurve(t *testing.T) {
	points := PathPoints("M0,0 A27.5,27.5 0 1 1 55,0 C1,2 3,4 60,10")
	require.Len(t, points, 3)
	// Only the endpoints survive, not radii or control points.
	assert.Equal(t, geometry.Point{X: 55, Y: 0}, points[1])
	assert.Equal(t, geometry.Point{X: 60, Y: 10}, points[2])
}

func TestTranslatePathD(t *testing.T) {
	d := TranslatePathD("M0,0 L100,50 Z", 10, -5)
	assert.Equal(t, "M10,-5 L110,45 Z", d)
}

func TestTranslatePathDKeepsArcFlags(t *testing.T) {
	d := TranslatePathD("M27.5,0 A27.5,27.5 0 1 1 -27.5,0", 100, 0)
	assert.Equal(t, "M127.5,0 A27.5,27.5 0 1 1 72.5,0", d)
}

func TestRenderedPoints(t *testing.T) {
	doc, err := Parse(`<svg>
<g transform="translate(100,200)">
  <polyline id="p1" points="0,0 50,0"/>
  <path id="p2" d="M0,0 L10,10"/>
</g>
<polyline id="p3" points="1,2 3,4"/>
<rect id="r1" width="10" height="10"/>
</svg>`)
	require.NoError(t, err)

	points, ok := doc.RenderedPoints("p1")
	require.True(t, ok)
	assert.Equal(t, []geometry.Point{{X: 100, Y: 200}, {X: 150, Y: 200}}, points)

	points, ok = doc.RenderedPoints("p2")
	require.True(t, ok)
	assert.Equal(t, geometry.Point{X: 110, Y: 210}, points[1])

	points, ok = doc.RenderedPoints("p3")
	require.True(t, ok)
	assert.Equal(t, geometry.Point{X: 1, Y: 2}, points[0])

	_, ok = doc.RenderedPoints("r1")
	assert.False(t, ok)
	_, ok = doc.RenderedPoints("ghost")
	assert.False(t, ok)
}
