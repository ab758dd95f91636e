package viewer

import (
	"github.com/google/uuid"

	"gridview/diagram"
	"gridview/geometry"
	"gridview/svgdoc"
)

const (
	bendHandleLayerClass  = "bend-handles"
	bendPreviewLayerClass = "bend-previews"
	bendHandleRadius      = 5.0
	bendPreviewRadius     = 3.0
)

// handleLayer returns the bend handle layer group, creating it on first use.
func (v *Viewer) handleLayer() *svgdoc.Element {
	for _, child := range v.doc.Root.Children {
		if child.Name == "g" && child.HasClass(bendHandleLayerClass) {
			return child
		}
	}
	layer := v.doc.Root.CreateChild("g")
	layer.SetAttr("class", bendHandleLayerClass)
	return layer
}

// createBendHandle materializes the draggable circle for one bend point under
// a generated id and registers its {edge, index} reference.
func (v *Viewer) createBendHandle(e *diagram.Edge, index int) string {
	if index < 0 || index >= len(e.BendingPoints) {
		return ""
	}
	id := uuid.NewString()
	p := e.BendingPoints[index]
	circle := v.handleLayer().CreateChild("circle")
	circle.SetAttr("id", id)
	circle.SetAttr("class", "bend-handle")
	circle.SetAttr("cx", geometry.FormatCoord(p.X))
	circle.SetAttr("cy", geometry.FormatCoord(p.Y))
	circle.SetAttr("r", geometry.FormatCoord(bendHandleRadius))
	v.bendHandles[id] = bendHandleRef{EdgeID: e.SvgID, Index: index}
	return id
}

func (v *Viewer) moveBendHandleElement(handleID string, to geometry.Point) {
	el := v.doc.ElementByID(handleID)
	if el == nil {
		return
	}
	el.SetAttr("cx", geometry.FormatCoord(to.X))
	el.SetAttr("cy", geometry.FormatCoord(to.Y))
}

// shiftBendIndexes renumbers the handle references of one edge after a point
// insertion (delta +1, handles at or past index shift) or removal (delta -1,
// handles strictly past index shift).
func (v *Viewer) shiftBendIndexes(edgeID string, index, delta int) {
	for id, ref := range v.bendHandles {
		if ref.EdgeID != edgeID {
			continue
		}
		if (delta > 0 && ref.Index >= index) || (delta < 0 && ref.Index > index) {
			ref.Index += delta
			v.bendHandles[id] = ref
		}
	}
}

func (v *Viewer) removeBendHandle(handleID string) {
	if el := v.doc.ElementByID(handleID); el != nil {
		el.Remove()
	}
	delete(v.bendHandles, handleID)
}

// removeBendHandleLayer drops the handle layer, any preview markers and all
// handle bookkeeping.
func (v *Viewer) removeBendHandleLayer() {
	for _, child := range append([]*svgdoc.Element{}, v.doc.Root.Children...) {
		if child.Name == "g" && (child.HasClass(bendHandleLayerClass) || child.HasClass(bendPreviewLayerClass)) {
			child.Remove()
		}
	}
	v.bendHandles = make(map[string]bendHandleRef)
}

// moveBendPoint updates one bend point in place and repatches the owning
// edge, its end annuli and the handle element.
func (v *Viewer) moveBendPoint(edgeID string, index int, to geometry.Point, handleID string) {
	e := v.meta.Edge(edgeID)
	if e == nil || index < 0 || index >= len(e.BendingPoints) {
		return
	}
	e.BendingPoints[index] = to
	v.patchEdge(e, "", geometry.Point{})
	v.redrawEdgeEnds(e)
	v.moveBendHandleElement(handleID, to)
}

// startBending inserts a new bend point under the pointer on a bendable line
// and begins dragging it.
func (v *Viewer) startBending(e *diagram.Edge, pos geometry.Point) {
	node1 := v.meta.Node(e.Node1)
	node2 := v.meta.Node(e.Node2)
	if node1 == nil || node2 == nil {
		v.log.Warn("bend targets edge with missing node", "edge", e.SvgID)
		return
	}
	before := clonePoints(e.BendingPoints)
	newList, index := diagram.AddPointToList(e.BendingPoints, node1.Position(), node2.Position(), pos)
	e.BendingPoints = newList
	v.shiftBendIndexes(e.SvgID, index, 1)
	handleID := v.createBendHandle(e, index)
	v.patchEdge(e, "", geometry.Point{})
	v.redrawEdgeEnds(e)
	v.clearBendPreview()
	v.state = Bending{EdgeID: e.SvgID, HandleID: handleID, BendIndex: index, OriginBendPoints: before}
	v.panZoomSuspended = true
}

func (v *Viewer) bendMove(st Bending, pos geometry.Point) {
	v.moveBendPoint(st.EdgeID, st.BendIndex, pos, st.HandleID)
}

func (v *Viewer) commitBend(st Bending) {
	e := v.meta.Edge(st.EdgeID)
	if e == nil || v.cfg.OnBendLine == nil {
		return
	}
	v.cfg.OnBendLine(e.SvgID, e.EquipmentID, e.Type.TypeLabel(),
		clonePoints(e.BendingPoints), BendOperationBend)
}

// startStraightening marks an existing bend handle; the point is removed on
// release.
func (v *Viewer) startStraightening(handleID string) {
	ref := v.bendHandles[handleID]
	e := v.meta.Edge(ref.EdgeID)
	if e == nil || ref.Index < 0 || ref.Index >= len(e.BendingPoints) {
		v.log.Warn("stale bend handle", "handle", handleID, "edge", ref.EdgeID, "index", ref.Index)
		return
	}
	v.state = Straightening{
		EdgeID:           ref.EdgeID,
		HandleID:         handleID,
		BendIndex:        ref.Index,
		OriginBendPoints: clonePoints(e.BendingPoints),
	}
	v.panZoomSuspended = true
}

// commitStraighten removes the marked bend point, renumbers the remaining
// handles and reports the new point list (nil once the edge is straight).
func (v *Viewer) commitStraighten(st Straightening) {
	e := v.meta.Edge(st.EdgeID)
	if e == nil {
		return
	}
	e.BendingPoints = diagram.RemovePointAt(e.BendingPoints, st.BendIndex)
	v.removeBendHandle(st.HandleID)
	v.shiftBendIndexes(st.EdgeID, st.BendIndex, -1)
	v.patchEdge(e, "", geometry.Point{})
	v.redrawEdgeEnds(e)
	if v.cfg.OnBendLine == nil {
		return
	}
	var points []geometry.Point
	if len(e.BendingPoints) > 0 {
		points = clonePoints(e.BendingPoints)
	}
	v.cfg.OnBendLine(e.SvgID, e.EquipmentID, e.Type.TypeLabel(), points, BendOperationStraighten)
}

// showBendPreview marks candidate bend positions on a hovered bendable line:
// the midpoint of every drawn segment of both half-edges.
func (v *Viewer) showBendPreview(e *diagram.Edge) {
	v.clearBendPreview()
	h1, h2 := v.engine.BranchHalfEdges(e)
	if h1 == nil || h2 == nil {
		return
	}
	chain := clonePoints(h1.Points)
	// The second half runs far end to split point; append it reversed, its
	// shared split point skipped.
	for i := len(h2.Points) - 1; i >= 0; i-- {
		if h2.Points[i] != chain[len(chain)-1] {
			chain = append(chain, h2.Points[i])
		}
	}
	layer := v.doc.Root.CreateChild("g")
	layer.SetAttr("class", bendPreviewLayerClass)
	for i := 1; i < len(chain); i++ {
		if chain[i] == chain[i-1] {
			continue
		}
		mid := geometry.Midpoint(chain[i-1], chain[i])
		c := layer.CreateChild("circle")
		c.SetAttr("class", "bend-preview")
		c.SetAttr("cx", geometry.FormatCoord(mid.X))
		c.SetAttr("cy", geometry.FormatCoord(mid.Y))
		c.SetAttr("r", geometry.FormatCoord(bendPreviewRadius))
	}
}

func (v *Viewer) clearBendPreview() {
	for _, child := range append([]*svgdoc.Element{}, v.doc.Root.Children...) {
		if child.Name == "g" && child.HasClass(bendPreviewLayerClass) {
			child.Remove()
		}
	}
}
