// Package edges computes the drawn geometry of branches: half-edge polylines
// from bus boundary to midpoint, fork geometry for parallel branches, loop and
// half-visible edge recovery, transformer and converter symbol anchors, and
// the fragmented bus annulus path.
//
// All computations are pure functions over the metadata snapshot; the only
// outside dependency is a RenderedPathReader for the geometry that is not
// derivable from metadata alone.
package edges

import (
	"log/slog"

	"gridview/diagram"
	"gridview/geometry"
	"gridview/params"
)

// HalfEdge is one side of a branch's drawn geometry: an ordered sequence of
// points from the bus boundary to the shared midpoint (or bend chain
// boundary). It is recomputed on every geometry-affecting event and never
// cached across redraws.
type HalfEdge struct {
	EdgeID             string
	Side               int // 1 or 2
	Points             []geometry.Point
	BusOuterRadius     float64
	VoltageLevelRadius float64
	Fork               bool
	EdgeInfoID         string
}

// ElementID returns the id of the rendered element for this half-edge.
func (h *HalfEdge) ElementID() string {
	return HalfEdgeElementID(h.EdgeID, h.Side)
}

// Start returns the bus-boundary end of the half-edge.
func (h *HalfEdge) Start() geometry.Point {
	return h.Points[0]
}

// End returns the midpoint end of the half-edge.
func (h *HalfEdge) End() geometry.Point {
	return h.Points[len(h.Points)-1]
}

// HalfEdgeElementID returns the rendered element id of one side of an edge:
// "<edgeSvgId>.1" or "<edgeSvgId>.2".
func HalfEdgeElementID(edgeID string, side int) string {
	if side == 1 {
		return edgeID + ".1"
	}
	return edgeID + ".2"
}

// RenderedPathReader recovers geometry already committed to the rendered
// document, in diagram coordinates (any element transform applied). It is the
// secondary source of truth for loop edges and half-visible edges, whose
// geometry cannot be derived from metadata alone.
type RenderedPathReader interface {
	RenderedPoints(svgID string) ([]geometry.Point, bool)
}

// Engine computes half-edge geometry over one metadata document.
type Engine struct {
	Meta   *diagram.Metadata
	Params params.SvgParameters
	Paths  RenderedPathReader // may be nil when no document is attached
	Log    *slog.Logger
}

func (g *Engine) logger() *slog.Logger {
	if g.Log != nil {
		return g.Log
	}
	return slog.Default()
}

// busOuterRadius returns the start-point distance and voltage level radius for
// one edge side. An empty or unresolvable bus id is the unknown-bus sentinel:
// the start point sits outside the outermost annulus by an extra margin.
func (g *Engine) busOuterRadius(node *diagram.Node, busID string) (outer, vlRadius float64) {
	if bus := g.Meta.BusNode(busID); bus != nil {
		r := diagram.NodeRadiusFor(bus, node, g.Params)
		return r.BusOuterRadius, r.VoltageLevelRadius
	}
	buses := g.Meta.BusNodesOf(node.SvgID)
	nb := len(buses)
	if nb == 0 {
		nb = 1
	}
	vlRadius = diagram.VoltageLevelRadius(nb, node, g.Params)
	outer = vlRadius - g.Params.InterAnnulusSpace()/2 + g.Params.UnknownBusNodeExtraRadius()
	return outer, vlRadius
}

// NodeAttachmentAngles returns the angles at which branches and injections
// attach to the given node, unsorted. Edges whose geometry cannot be computed
// are skipped.
func (g *Engine) NodeAttachmentAngles(node *diagram.Node) []float64 {
	center := node.Position()
	var angles []float64
	for _, e := range g.Meta.EdgesAt(node.SvgID) {
		for _, h := range g.HalfEdgesAt(e, node.SvgID) {
			if h != nil && len(h.Points) > 0 {
				angles = append(angles, geometry.Angle(center, h.Start()))
			}
		}
	}
	for _, inj := range g.Meta.InjectionsOf(node.SvgID) {
		angles = append(angles, geometry.Radians(inj.Angle))
	}
	return angles
}

// HalfEdgesAt returns the half-edges of e anchored on the given node: both for
// a loop edge, one otherwise.
func (g *Engine) HalfEdgesAt(e *diagram.Edge, nodeID string) []*HalfEdge {
	h1, h2 := g.BranchHalfEdges(e)
	if e.IsLoop() {
		return []*HalfEdge{h1, h2}
	}
	if e.Node1 == nodeID {
		return []*HalfEdge{h1}
	}
	return []*HalfEdge{h2}
}

// InjectionStub returns the two-point polyline from the bus boundary to the
// injection symbol anchor, plus the anchor itself. The injection angle is
// stored in degrees in the metadata document.
func (g *Engine) InjectionStub(inj *diagram.Injection) (points []geometry.Point, anchor geometry.Point, ok bool) {
	node := g.Meta.Node(inj.VLNode)
	if node == nil {
		g.logger().Warn("injection references missing node", "injection", inj.SvgID, "node", inj.VLNode)
		return nil, geometry.Point{}, false
	}
	outer, _ := g.busOuterRadius(node, inj.BusNodeID)
	angle := geometry.Radians(inj.Angle)
	start := geometry.PointAtAngle(node.Position(), angle, outer)
	anchor = geometry.PointAtAngle(node.Position(), angle, outer+g.Params.InjectionEdgeLength())
	return []geometry.Point{start, anchor}, anchor, true
}

// ArrowAnchor returns the position and rotation of the edge-info arrow on a
// half-edge: a configured shift along the polyline from the bus boundary,
// rotated with the segment it lands on.
func (g *Engine) ArrowAnchor(h *HalfEdge) (geometry.Point, float64, bool) {
	return pointAlong(h.Points, g.Params.ArrowShift())
}

// LabelAnchor returns the position of the edge-info value label, placed past
// the arrow along the polyline.
func (g *Engine) LabelAnchor(h *HalfEdge) (geometry.Point, bool) {
	p, _, ok := pointAlong(h.Points, g.Params.ArrowShift()+g.Params.ArrowLabelShift())
	return p, ok
}

// MiddleAnchor returns the center and rotation of the middle symbol
// (transformer circles or converter station) between two half-edges.
func (g *Engine) MiddleAnchor(h1, h2 *HalfEdge) (geometry.Point, float64) {
	center := geometry.Midpoint(h1.End(), h2.End())
	return center, geometry.Angle(h1.End(), h2.End())
}

// pointAlong walks the polyline to the given distance from its first point
// and returns the interpolated point plus the angle of the segment it falls
// on. Past the end of the polyline it returns the last point.
func pointAlong(points []geometry.Point, distance float64) (geometry.Point, float64, bool) {
	if len(points) < 2 {
		return geometry.Point{}, 0, false
	}
	walked := 0.0
	for i := 1; i < len(points); i++ {
		segment := geometry.Distance(points[i-1], points[i])
		if walked+segment >= distance && segment > 0 {
			t := (distance - walked) / segment
			return geometry.Interpolate(points[i-1], points[i], t),
				geometry.Angle(points[i-1], points[i]), true
		}
		walked += segment
	}
	last := len(points) - 1
	return points[last], geometry.Angle(points[last-1], points[last]), true
}
