package edges

import (
	"math"

	"gridview/diagram"
	"gridview/geometry"
)

// BranchHalfEdges computes the two half-edges of a branch from the metadata
// snapshot. Loop edges are recovered from the rendered document, three
// winding transformer legs are single-sided, and half-visible edges yield
// only their visible side. Missing node metadata returns (nil, nil): callers
// must null-check, per the best-effort policy for partially loaded metadata.
func (g *Engine) BranchHalfEdges(e *diagram.Edge) (*HalfEdge, *HalfEdge) {
	if e.IsLoop() {
		return g.LoopHalfEdges(e)
	}
	if e.Type.IsThreeWt() {
		return g.ThreeWtHalfEdge(e, nil), nil
	}
	if e.IsHalfVisible() {
		h := g.HalfVisibleHalfEdge(e, geometry.Point{}, false)
		if h == nil {
			return nil, nil
		}
		if h.Side == 1 {
			return h, nil
		}
		return nil, h
	}

	node1 := g.Meta.Node(e.Node1)
	node2 := g.Meta.Node(e.Node2)
	if node1 == nil || node2 == nil {
		g.logger().Warn("edge references missing node",
			"edge", e.SvgID, "node1", e.Node1, "node2", e.Node2)
		return nil, nil
	}
	p1, p2 := node1.Position(), node2.Position()
	outer1, vl1 := g.busOuterRadius(node1, e.BusNode1)
	outer2, vl2 := g.busOuterRadius(node2, e.BusNode2)

	group, iEdge := g.Meta.EdgeGroup(e)
	forked := len(group) > 1

	var fork1, fork2 geometry.Point
	if forked {
		aperture := g.Params.EdgesForkAperture()
		angle := geometry.Angle(p1, p2)
		alpha := -aperture/2 + float64(iEdge)*aperture/float64(len(group)-1)
		length := g.Params.EdgesForkLength()
		fork1 = geometry.PointAtAngle(p1, angle+alpha, length)
		fork2 = geometry.PointAtAngle(p2, angle+math.Pi-alpha, length)
	}

	target1, target2 := p2, p1
	if forked {
		target1, target2 = fork1, fork2
	}
	if len(e.BendingPoints) > 0 {
		target1 = e.BendingPoints[0]
		target2 = e.BendingPoints[len(e.BendingPoints)-1]
	}
	start1 := geometry.PointAtDistance(p1, target1, outer1)
	start2 := geometry.PointAtDistance(p2, target2, outer2)

	h1 := &HalfEdge{EdgeID: e.SvgID, Side: 1, BusOuterRadius: outer1, VoltageLevelRadius: vl1, Fork: forked}
	h2 := &HalfEdge{EdgeID: e.SvgID, Side: 2, BusOuterRadius: outer2, VoltageLevelRadius: vl2, Fork: forked}
	if info := e.EdgeInfo1; info != nil {
		h1.EdgeInfoID = info.SvgID
	}
	if info := e.EdgeInfo2; info != nil {
		h2.EdgeInfoID = info.SvgID
	}

	if len(e.BendingPoints) > 0 {
		chain := make([]geometry.Point, 0, len(e.BendingPoints)+2)
		chain = append(chain, start1)
		chain = append(chain, e.BendingPoints...)
		chain = append(chain, start2)
		h1.Points, h2.Points = geometry.SplitAtHalfLength(chain)
		return h1, h2
	}

	var mid geometry.Point
	if forked {
		mid = geometry.Midpoint(fork1, fork2)
		h1.Points = []geometry.Point{start1, fork1, mid}
		h2.Points = []geometry.Point{start2, fork2, mid}
	} else {
		mid = geometry.Midpoint(start1, start2)
		h1.Points = []geometry.Point{start1, mid}
		h2.Points = []geometry.Point{start2, mid}
	}

	// Leave room at the middle for transformer or converter symbols.
	if pullBack := g.middlePullBack(e); pullBack > 0 {
		retract(h1.Points, mid, pullBack)
		retract(h2.Points, mid, pullBack)
	}
	return h1, h2
}

// middlePullBack returns the distance each half-edge end is pulled back from
// the shared midpoint to leave room for the middle symbol.
func (g *Engine) middlePullBack(e *diagram.Edge) float64 {
	switch {
	case e.Type.IsTransformer():
		return 1.5 * g.Params.TransformerCircleRadius()
	case e.Type.IsHvdc():
		return g.Params.ConverterStationWidth() / 2
	default:
		return 0
	}
}

// retract pulls the last point of the polyline back from mid toward its
// predecessor by the given distance.
func retract(points []geometry.Point, mid geometry.Point, distance float64) {
	if len(points) < 2 {
		return
	}
	prev := points[len(points)-2]
	points[len(points)-1] = geometry.PointAtDistance(mid, prev, distance)
}

// ThreeWtHalfEdge computes the single-sided half-edge of a three winding
// transformer leg. Its start follows the bus-radius rule on the voltage level
// side; its end is the rendered polyline's last point, translated by
// pivotDelta when the transformer pivot itself just moved.
func (g *Engine) ThreeWtHalfEdge(e *diagram.Edge, pivotDelta *geometry.Point) *HalfEdge {
	node1 := g.Meta.Node(e.Node1)
	if node1 == nil {
		g.logger().Warn("three-winding edge references missing node", "edge", e.SvgID, "node", e.Node1)
		return nil
	}
	end, ok := g.renderedEnd(HalfEdgeElementID(e.SvgID, 1))
	if !ok {
		// No rendered geometry to anchor on: fall back to the pivot node.
		pivot := g.Meta.Node(e.Node2)
		if pivot == nil {
			g.logger().Warn("three-winding edge has no rendered path and no pivot", "edge", e.SvgID)
			return nil
		}
		end = pivot.Position()
	}
	if pivotDelta != nil {
		end = end.Add(pivotDelta.X, pivotDelta.Y)
	}
	outer, vl := g.busOuterRadius(node1, e.BusNode1)
	start := geometry.PointAtDistance(node1.Position(), end, outer)
	h := &HalfEdge{
		EdgeID:             e.SvgID,
		Side:               1,
		Points:             []geometry.Point{start, end},
		BusOuterRadius:     outer,
		VoltageLevelRadius: vl,
	}
	if e.EdgeInfo1 != nil {
		h.EdgeInfoID = e.EdgeInfo1.SvgID
	}
	return h
}

// LoopHalfEdges wraps the two rendered paths of a loop edge as half-edges.
// Loop geometry is the one thing not derivable from metadata; the reader
// returns points already in diagram coordinates.
func (g *Engine) LoopHalfEdges(e *diagram.Edge) (*HalfEdge, *HalfEdge) {
	halves := make([]*HalfEdge, 2)
	for side := 1; side <= 2; side++ {
		points, ok := g.readRendered(HalfEdgeElementID(e.SvgID, side))
		if !ok {
			g.logger().Warn("loop edge has no rendered path", "edge", e.SvgID, "side", side)
			return nil, nil
		}
		h := &HalfEdge{EdgeID: e.SvgID, Side: side, Points: points}
		if info := e.EdgeInfoAt(side); info != nil {
			h.EdgeInfoID = info.SvgID
		}
		halves[side-1] = h
	}
	return halves[0], halves[1]
}

// HalfVisibleHalfEdge reconstructs the visible side of a half-visible edge.
// The rendered polyline is kept, except its first point which is replaced by
// a freshly computed bus-boundary start. When fromSnapshot is true the
// polyline predates a node move and is first translated by delta (new
// position minus the position it was rendered at).
func (g *Engine) HalfVisibleHalfEdge(e *diagram.Edge, delta geometry.Point, fromSnapshot bool) *HalfEdge {
	side := 1
	if e.Invisible1 {
		side = 2
	}
	node := g.Meta.Node(e.NodeAt(side))
	if node == nil {
		g.logger().Warn("half-visible edge references missing node", "edge", e.SvgID, "side", side)
		return nil
	}
	points, ok := g.readRendered(HalfEdgeElementID(e.SvgID, side))
	if !ok || len(points) == 0 {
		g.logger().Warn("half-visible edge has no rendered polyline", "edge", e.SvgID, "side", side)
		return nil
	}
	if fromSnapshot {
		points = geometry.Translate(points, delta.X, delta.Y)
	}
	outer, vl := g.busOuterRadius(node, e.BusNodeAt(side))
	toward := points[0]
	if len(points) > 1 {
		toward = points[1]
	}
	points[0] = geometry.PointAtDistance(node.Position(), toward, outer)

	h := &HalfEdge{
		EdgeID:             e.SvgID,
		Side:               side,
		Points:             points,
		BusOuterRadius:     outer,
		VoltageLevelRadius: vl,
	}
	if info := e.EdgeInfoAt(side); info != nil {
		h.EdgeInfoID = info.SvgID
	}
	return h
}

func (g *Engine) readRendered(svgID string) ([]geometry.Point, bool) {
	if g.Paths == nil {
		return nil, false
	}
	points, ok := g.Paths.RenderedPoints(svgID)
	if !ok || len(points) == 0 {
		return nil, false
	}
	return append([]geometry.Point{}, points...), true
}

func (g *Engine) renderedEnd(svgID string) (geometry.Point, bool) {
	points, ok := g.readRendered(svgID)
	if !ok {
		return geometry.Point{}, false
	}
	return points[len(points)-1], true
}
