package diagram

import (
	"math"

	"gridview/geometry"
	"gridview/params"
)

// ViewBox is an SVG view box rectangle.
type ViewBox struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// MaxDimension returns the larger of width and height.
func (v ViewBox) MaxDimension() float64 {
	return math.Max(v.Width, v.Height)
}

// ComputeViewBox returns the bounding box of all node positions together with
// the text boxes they carry (node position + text shift, extended by the
// default text box extent), padded by the diagram padding on each side. Each
// coordinate is rounded to two decimals.
func ComputeViewBox(m *Metadata, lp params.LayoutParameters) ViewBox {
	if len(m.Nodes) == 0 {
		return ViewBox{}
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)

	extend := func(p geometry.Point) {
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}

	for _, n := range m.Nodes {
		extend(n.Position())
	}
	for _, t := range m.TextNodes {
		n := m.Node(t.VLNode)
		if n == nil {
			continue
		}
		corner := n.Position().Add(t.ShiftX, t.ShiftY)
		extend(corner)
		extend(corner.Add(params.TextBoxDefaultWidth, params.TextBoxDefaultHeight))
	}

	pad := lp.DiagramPadding()
	return ViewBox{
		X:      geometry.Round2(minX - pad),
		Y:      geometry.Round2(minY - pad),
		Width:  geometry.Round2(maxX - minX + 2*pad),
		Height: geometry.Round2(maxY - minY + 2*pad),
	}
}
