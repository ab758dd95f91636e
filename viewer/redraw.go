package viewer

import (
	"math"

	"gridview/diagram"
	"gridview/edges"
	"gridview/geometry"
	"gridview/svgdoc"
)

// moveNodeTo moves a voltage level (or transformer pivot) and repatches
// everything anchored on it: the node group transform, every touching edge,
// the bus annuli on both ends of those edges, the node's injections and its
// legend box and connection.
func (v *Viewer) moveNodeTo(node *diagram.Node, to, origin geometry.Point) {
	node.SetPosition(to)
	if el := v.doc.ElementByID(node.SvgID); el != nil {
		el.SetTranslate(to)
	}

	annuli := map[string]bool{node.SvgID: true}
	for _, e := range v.meta.EdgesAt(node.SvgID) {
		v.patchEdge(e, node.SvgID, origin)
		annuli[e.Node1] = true
		annuli[e.Node2] = true
	}
	for id := range annuli {
		if n := v.meta.Node(id); n != nil {
			v.redrawBusAnnuli(n)
		}
	}
	v.patchInjections(node)
	if t := v.meta.TextNodeForVL(node.SvgID); t != nil {
		v.patchTextNode(t, node)
	}
}

// patchEdge recomputes and writes the drawn geometry of one edge. movedNodeID
// names the node whose move triggered the patch ("" when none did), origin its
// pre-move position; the pair only matters for the rendered-geometry edge
// kinds, which translate instead of recomputing.
func (v *Viewer) patchEdge(e *diagram.Edge, movedNodeID string, origin geometry.Point) {
	switch {
	case e.IsLoop():
		v.translateLoop(e, movedNodeID, origin)
	case e.Type.IsThreeWt():
		var h *edges.HalfEdge
		if movedNodeID != "" && movedNodeID == e.Node2 {
			if pivot := v.meta.Node(movedNodeID); pivot != nil {
				delta := pivot.Position().Sub(origin)
				h = v.engine.ThreeWtHalfEdge(e, &delta)
			}
		} else {
			h = v.engine.ThreeWtHalfEdge(e, nil)
		}
		v.patchHalfEdge(h)
	case e.IsHalfVisible():
		side := 1
		if e.Invisible1 {
			side = 2
		}
		var delta geometry.Point
		fromSnapshot := false
		if movedNodeID != "" && e.NodeAt(side) == movedNodeID && v.snapshot != nil {
			if n := v.meta.Node(movedNodeID); n != nil {
				delta = n.Position().Sub(origin)
				fromSnapshot = true
			}
		}
		v.patchHalfEdge(v.engine.HalfVisibleHalfEdge(e, delta, fromSnapshot))
	default:
		h1, h2 := v.engine.BranchHalfEdges(e)
		v.patchHalfEdge(h1)
		v.patchHalfEdge(h2)
		if h1 != nil && h2 != nil {
			v.patchMiddleSymbol(e, h1, h2)
		}
	}
}

// translateLoop shifts both rendered loop paths by the node's displacement
// since drag start, working from the snapshot geometry so repeated moves of
// one gesture do not compound.
func (v *Viewer) translateLoop(e *diagram.Edge, movedNodeID string, origin geometry.Point) {
	if movedNodeID == "" || v.snapshot == nil {
		return
	}
	node := v.meta.Node(movedNodeID)
	if node == nil {
		return
	}
	delta := node.Position().Sub(origin)
	for side := 1; side <= 2; side++ {
		id := edges.HalfEdgeElementID(e.SvgID, side)
		name, value, ok := v.snapshot.RawAttr(id)
		if !ok {
			v.log.Warn("loop edge has no captured geometry", "edge", e.SvgID, "side", side)
			continue
		}
		el := v.doc.ElementByID(id)
		if el == nil {
			continue
		}
		switch name {
		case "d":
			el.SetAttr("d", svgdoc.TranslatePathD(value, delta.X, delta.Y))
		case "points":
			points := geometry.Translate(svgdoc.ParsePoints(value), delta.X, delta.Y)
			el.SetAttr("points", svgdoc.FormatPoints(points))
		}
	}
	// Edge infos follow the freshly translated live geometry.
	for side := 1; side <= 2; side++ {
		info := e.EdgeInfoAt(side)
		if info == nil {
			continue
		}
		points, ok := v.doc.RenderedPoints(edges.HalfEdgeElementID(e.SvgID, side))
		if !ok {
			continue
		}
		v.patchEdgeInfo(&edges.HalfEdge{EdgeID: e.SvgID, Side: side, Points: points, EdgeInfoID: info.SvgID})
	}
}

// patchHalfEdge writes the polyline of one computed half-edge and repositions
// its edge info. A nil half-edge (missing metadata) is a no-op.
func (v *Viewer) patchHalfEdge(h *edges.HalfEdge) {
	if h == nil {
		return
	}
	el := v.doc.ElementByID(h.ElementID())
	if el == nil {
		v.log.Warn("half-edge element not in document", "id", h.ElementID())
		return
	}
	el.SetAttr("points", svgdoc.FormatPoints(h.Points))
	v.patchEdgeInfo(h)
}

// patchMiddleSymbol repositions the transformer circles or converter station
// between two half-edges.
func (v *Viewer) patchMiddleSymbol(e *diagram.Edge, h1, h2 *edges.HalfEdge) {
	if !e.Type.IsTransformer() && !e.Type.IsHvdc() {
		return
	}
	el := v.doc.ElementByID(e.SvgID + ".mid")
	if el == nil {
		return
	}
	center, angle := v.engine.MiddleAnchor(h1, h2)
	el.SetAttr("transform", translateRotate(center, angle))
}

// patchEdgeInfo repositions the arrow/label group of a half-edge: the group
// translates to the arrow anchor, the arrow child rotates with the segment it
// sits on and the value label shifts further along the polyline.
func (v *Viewer) patchEdgeInfo(h *edges.HalfEdge) {
	if h.EdgeInfoID == "" || !v.svgParams.EdgeInfoDisplayed() {
		return
	}
	el := v.doc.ElementByID(h.EdgeInfoID)
	if el == nil {
		return
	}
	anchor, angle, ok := v.engine.ArrowAnchor(h)
	if !ok {
		return
	}
	el.SetTranslate(anchor)
	label, hasLabel := v.engine.LabelAnchor(h)
	for _, child := range el.Children {
		switch {
		case child.HasClass("arrow"):
			child.SetAttr("transform", rotateString(angle+math.Pi/2))
		case child.Name == "text":
			if hasLabel {
				child.SetTranslate(label.Sub(anchor))
			}
		}
	}
}

// redrawBusAnnuli recomputes the fragmented annulus path of every bus of the
// node from the current attachment angles. It reads the live document even
// mid-drag: edges are patched before annuli, so the document already holds
// current geometry.
func (v *Viewer) redrawBusAnnuli(node *diagram.Node) {
	paths := v.engine.Paths
	v.engine.Paths = v.doc
	angles := diagram.SortedAngles(v.engine.NodeAttachmentAngles(node))
	v.engine.Paths = paths

	hollow := v.svgParams.NodeHollowWidth()
	for _, bus := range v.meta.SortedBusNodes(node.SvgID, v.log) {
		el := v.doc.ElementByID(bus.SvgID)
		if el == nil {
			v.log.Warn("bus annulus element not in document", "busNode", bus.SvgID)
			continue
		}
		r := diagram.NodeRadiusFor(bus, node, v.svgParams)
		el.SetAttr("d", edges.FragmentedAnnulusPath(angles, r, hollow))
	}
}

// patchTextNode repositions the legend box and its connecting edge. The
// connection polyline starts on the voltage level circle boundary, aimed at
// the connection anchor.
func (v *Viewer) patchTextNode(t *diagram.TextNode, node *diagram.Node) {
	pos := node.Position()
	if el := v.doc.ElementByID(t.SvgID); el != nil {
		el.SetTranslate(pos.Add(t.ShiftX, t.ShiftY))
	}
	conn := v.doc.ElementByID(t.SvgID + ".conn")
	if conn == nil {
		return
	}
	anchor := pos.Add(t.ConnectionShiftX, t.ConnectionShiftY)
	start := geometry.PointAtDistance(pos, anchor, v.vlOuterRadius(node))
	conn.SetAttr("points", svgdoc.FormatPoints([]geometry.Point{start, anchor}))
}

func (v *Viewer) patchInjections(node *diagram.Node) {
	for _, inj := range v.meta.InjectionsOf(node.SvgID) {
		v.patchInjection(inj)
	}
}

// patchInjection rewrites the stub polyline and retranslates the symbol of
// one injection. The symbol is never redrawn in detail, only moved.
func (v *Viewer) patchInjection(inj *diagram.Injection) {
	points, anchor, ok := v.engine.InjectionStub(inj)
	if !ok {
		return
	}
	if stub := v.doc.ElementByID(inj.SvgID + ".edge"); stub != nil {
		stub.SetAttr("points", svgdoc.FormatPoints(points))
	}
	if icon := v.doc.ElementByID(inj.SvgID + ".icon"); icon != nil {
		icon.SetAttr("transform", translateRotate(anchor, geometry.Radians(inj.Angle)+math.Pi/2))
	}
	if inj.EdgeInfo != nil {
		v.patchEdgeInfo(&edges.HalfEdge{Points: points, EdgeInfoID: inj.EdgeInfo.SvgID})
	}
}

// redrawEdgeEnds refreshes the bus annuli at both ends of an edge, needed
// whenever the edge's attachment angles changed.
func (v *Viewer) redrawEdgeEnds(e *diagram.Edge) {
	if n := v.meta.Node(e.Node1); n != nil {
		v.redrawBusAnnuli(n)
	}
	if e.Node2 != e.Node1 {
		if n := v.meta.Node(e.Node2); n != nil {
			v.redrawBusAnnuli(n)
		}
	}
}

// vlOuterRadius returns the circle radius of a voltage level with its current
// bus count.
func (v *Viewer) vlOuterRadius(node *diagram.Node) float64 {
	nb := len(v.meta.BusNodesOf(node.SvgID))
	if nb == 0 {
		nb = 1
	}
	return diagram.VoltageLevelRadius(nb, node, v.svgParams)
}

func translateRotate(p geometry.Point, angle float64) string {
	return svgdoc.TranslateString(p) + " " + rotateString(angle)
}

func rotateString(angle float64) string {
	return "rotate(" + geometry.FormatCoord(geometry.Degrees(angle)) + ")"
}
