package viewer

import (
	"math"

	"gridview/edges"
	"gridview/geometry"
	"gridview/params"
)

// hoverTracker follows the nearest hoverable entity under the pointer while
// the controller is idle. Class changes apply immediately; the toggle-hover
// callback is debounced so rapid sweeps across the diagram emit one
// notification pair per rest position.
type hoverTracker struct {
	v        *Viewer
	debounce *debouncer
	kind     hitKind
	id       string
}

func (h *hoverTracker) update(pos geometry.Point) {
	v := h.v
	kind, id := v.hitTest(pos)
	if kind == h.kind && id == h.id {
		return
	}
	prevKind, prevID := h.kind, h.id
	h.kind, h.id = kind, id

	v.setHoverClass(prevID, false)
	v.setHoverClass(id, true)

	if v.bendMode {
		if e := v.meta.Edge(id); kind == hitEdge && e != nil && v.isBendable(e) {
			v.showBendPreview(e)
		} else {
			v.clearBendPreview()
		}
	}

	if v.cfg.OnToggleHover == nil {
		return
	}
	// The identity values are captured here, under the viewer lock; the
	// debounced closure runs on the timer goroutine and must not read
	// metadata.
	position := pos
	var prevEquip, prevType string
	if prevID != "" {
		_, prevEquip, prevType = v.describe(prevKind, prevID)
	}
	var equip, typeLabel string
	if id != "" {
		_, equip, typeLabel = v.describe(kind, id)
	}
	h.debounce.Trigger(func() {
		if prevID != "" {
			v.cfg.OnToggleHover(false, nil, prevEquip, prevType)
		}
		if id != "" {
			v.cfg.OnToggleHover(true, &position, equip, typeLabel)
		}
	})
}

// clear drops the current hover immediately, without debouncing the unhover
// notification.
func (h *hoverTracker) clear() {
	h.debounce.Cancel()
	if h.id == "" {
		return
	}
	v := h.v
	v.setHoverClass(h.id, false)
	v.clearBendPreview()
	if v.cfg.OnToggleHover != nil {
		_, equip, typeLabel := v.describe(h.kind, h.id)
		v.cfg.OnToggleHover(false, nil, equip, typeLabel)
	}
	h.kind, h.id = hitNone, ""
}

// hitTest returns the hoverable entity nearest to pos within the configured
// precision radius. Distance to a node is measured from its circle boundary,
// to an edge from its drawn polylines, to a legend from its box.
func (v *Viewer) hitTest(pos geometry.Point) (hitKind, string) {
	best := v.cfg.hoverPrecision()
	kind, id := hitNone, ""
	consider := func(d float64, k hitKind, candidate string) {
		if d < best {
			best = d
			kind, id = k, candidate
		}
	}

	for _, node := range v.meta.Nodes {
		if node.Invisible {
			continue
		}
		d := geometry.Distance(pos, node.Position()) - v.vlOuterRadius(node)
		if d < 0 {
			d = 0
		}
		consider(d, hitNode, node.SvgID)
	}

	for _, e := range v.meta.Edges {
		for side := 1; side <= 2; side++ {
			points, ok := v.doc.RenderedPoints(edges.HalfEdgeElementID(e.SvgID, side))
			if !ok {
				continue
			}
			consider(polylineDistance(pos, points), hitEdge, e.SvgID)
		}
	}

	for _, inj := range v.meta.Injections {
		points, _, ok := v.engine.InjectionStub(inj)
		if !ok {
			continue
		}
		consider(polylineDistance(pos, points), hitInjection, inj.SvgID)
	}

	for _, t := range v.meta.TextNodes {
		node := v.meta.Node(t.VLNode)
		if node == nil {
			continue
		}
		corner := node.Position().Add(t.ShiftX, t.ShiftY)
		if pos.X >= corner.X && pos.X <= corner.X+params.TextBoxDefaultWidth &&
			pos.Y >= corner.Y && pos.Y <= corner.Y+params.TextBoxDefaultHeight {
			consider(0, hitTextNode, t.SvgID)
		}
	}

	return kind, id
}

func polylineDistance(pos geometry.Point, points []geometry.Point) float64 {
	if len(points) == 0 {
		return math.Inf(1)
	}
	if len(points) == 1 {
		return geometry.Distance(pos, points[0])
	}
	min := math.Inf(1)
	for i := 1; i < len(points); i++ {
		d := geometry.SquaredSegmentDistance(pos, points[i-1], points[i])
		if d < min {
			min = d
		}
	}
	return math.Sqrt(min)
}

func (v *Viewer) setHoverClass(id string, on bool) {
	if id == "" {
		return
	}
	el := v.doc.ElementByID(id)
	if el == nil {
		return
	}
	if on {
		el.AddClass("hovered")
	} else {
		el.RemoveClass("hovered")
	}
}
