package viewer

import (
	"gridview/diagram"
	"gridview/edges"
	"gridview/geometry"
)

func clonePoints(points []geometry.Point) []geometry.Point {
	if points == nil {
		return nil
	}
	return append([]geometry.Point{}, points...)
}

// edgeElementIDs returns the rendered half-edge ids of every edge touching
// the node, for snapshot capture before the node moves.
func (v *Viewer) edgeElementIDs(node *diagram.Node) []string {
	var ids []string
	for _, e := range v.meta.EdgesAt(node.SvgID) {
		ids = append(ids,
			edges.HalfEdgeElementID(e.SvgID, 1),
			edges.HalfEdgeElementID(e.SvgID, 2))
	}
	return ids
}

func (v *Viewer) startNodeDrag(node *diagram.Node, pointer geometry.Point) {
	v.beginSnapshot(v.edgeElementIDs(node))
	v.state = Dragging{
		Kind:           DragNode,
		SvgID:          node.SvgID,
		GrabOffset:     node.Position().Sub(pointer),
		OriginPosition: node.Position(),
	}
	v.panZoomSuspended = true
	v.hover.clear()
}

func (v *Viewer) startTextNodeDrag(t *diagram.TextNode, pointer geometry.Point) {
	node := v.meta.Node(t.VLNode)
	if node == nil {
		v.log.Warn("text node references missing node", "textNode", t.SvgID, "node", t.VLNode)
		return
	}
	boxPos := node.Position().Add(t.ShiftX, t.ShiftY)
	v.state = Dragging{
		Kind:            DragTextNode,
		SvgID:           t.SvgID,
		GrabOffset:      boxPos.Sub(pointer),
		OriginPosition:  t.Shift(),
		OriginConnShift: t.ConnectionShift(),
	}
	v.panZoomSuspended = true
	v.hover.clear()
}

func (v *Viewer) startBendHandleDrag(handleID string, pointer geometry.Point) {
	ref := v.bendHandles[handleID]
	e := v.meta.Edge(ref.EdgeID)
	if e == nil || ref.Index < 0 || ref.Index >= len(e.BendingPoints) {
		v.log.Warn("stale bend handle", "handle", handleID, "edge", ref.EdgeID, "index", ref.Index)
		return
	}
	point := e.BendingPoints[ref.Index]
	v.state = Dragging{
		Kind:             DragBendHandle,
		SvgID:            handleID,
		EdgeID:           ref.EdgeID,
		BendIndex:        ref.Index,
		GrabOffset:       point.Sub(pointer),
		OriginPosition:   point,
		OriginBendPoints: clonePoints(e.BendingPoints),
	}
	v.panZoomSuspended = true
	v.hover.clear()
}

func (v *Viewer) dragMove(st Dragging, ev PointerEvent) {
	target := ev.Position.Add(st.GrabOffset.X, st.GrabOffset.Y)
	switch st.Kind {
	case DragNode:
		if node := v.meta.Node(st.SvgID); node != nil {
			v.moveNodeTo(node, target, st.OriginPosition)
		}
	case DragTextNode:
		t := v.meta.TextNode(st.SvgID)
		if t == nil {
			return
		}
		node := v.meta.Node(t.VLNode)
		if node == nil {
			return
		}
		shift := target.Sub(node.Position())
		// The connection anchor follows the box by the same delta.
		delta := shift.Sub(st.OriginPosition)
		t.ShiftX, t.ShiftY = shift.X, shift.Y
		t.ConnectionShiftX = st.OriginConnShift.X + delta.X
		t.ConnectionShiftY = st.OriginConnShift.Y + delta.Y
		v.patchTextNode(t, node)
	case DragBendHandle:
		v.moveBendPoint(st.EdgeID, st.BendIndex, target, st.SvgID)
	}
}

func (v *Viewer) commitDrag(st Dragging) {
	switch st.Kind {
	case DragNode:
		node := v.meta.Node(st.SvgID)
		if node == nil || v.cfg.OnMoveNode == nil {
			return
		}
		v.cfg.OnMoveNode(node.EquipmentID, node.SvgID,
			node.X, node.Y, st.OriginPosition.X, st.OriginPosition.Y)
	case DragTextNode:
		t := v.meta.TextNode(st.SvgID)
		if t == nil || v.cfg.OnMoveTextNode == nil {
			return
		}
		v.cfg.OnMoveTextNode(t.EquipmentID, t.VLNode, t.SvgID,
			t.ShiftX, t.ShiftY, st.OriginPosition.X, st.OriginPosition.Y,
			t.ConnectionShiftX, t.ConnectionShiftY,
			st.OriginConnShift.X, st.OriginConnShift.Y)
	case DragBendHandle:
		e := v.meta.Edge(st.EdgeID)
		if e == nil || v.cfg.OnBendLine == nil {
			return
		}
		v.cfg.OnBendLine(e.SvgID, e.EquipmentID, e.Type.TypeLabel(),
			clonePoints(e.BendingPoints), BendOperationBend)
	}
}

// MoveNodeToCoordinates moves a voltage level programmatically, by equipment
// id. The document still holds the pre-move geometry, so the move runs under
// a snapshot exactly like a drag.
func (v *Viewer) MoveNodeToCoordinates(equipmentID string, x, y float64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.meta == nil {
		return
	}
	node := v.meta.NodeByEquipmentID(equipmentID)
	if node == nil {
		v.log.Warn("move targets unknown equipment", "equipmentId", equipmentID)
		return
	}
	origin := node.Position()
	v.beginSnapshot(v.edgeElementIDs(node))
	v.moveNodeTo(node, geometry.Point{X: x, Y: y}, origin)
	v.endSnapshot()
}
