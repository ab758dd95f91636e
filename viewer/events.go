package viewer

import (
	"strings"

	"gridview/diagram"
	"gridview/geometry"
)

// PointerEvent is one pointer interaction delivered by the embedder, with the
// position already converted to diagram coordinates and the id of the hit
// element (or "" for the bare canvas).
type PointerEvent struct {
	Position geometry.Point
	TargetID string
	ShiftKey bool
}

type hitKind int

const (
	hitNone hitKind = iota
	hitNode
	hitTextNode
	hitBendHandle
	hitEdge
	hitInjection
	hitBusNode
)

// classify resolves an arbitrary hit-tested element to the metadata entity
// that owns it, walking up the element tree when the hit landed on an
// unregistered sub-element.
func (v *Viewer) classify(targetID string) (hitKind, string) {
	if targetID == "" || v.meta == nil {
		return hitNone, ""
	}
	if el := v.doc.ElementByID(targetID); el != nil {
		for e := el; e != nil; e = e.Parent() {
			id := e.ID()
			if id == "" {
				continue
			}
			if kind, owner := v.classifyID(id); kind != hitNone {
				return kind, owner
			}
		}
		return hitNone, ""
	}
	return v.classifyID(targetID)
}

func (v *Viewer) classifyID(id string) (hitKind, string) {
	if _, ok := v.bendHandles[id]; ok {
		return hitBendHandle, id
	}
	if v.meta.Node(id) != nil {
		return hitNode, id
	}
	if v.meta.TextNode(id) != nil {
		return hitTextNode, id
	}
	if v.meta.BusNode(id) != nil {
		return hitBusNode, id
	}
	if v.meta.Injection(id) != nil {
		return hitInjection, id
	}
	if edgeID, ok := v.edgeIDFromElement(id); ok {
		return hitEdge, edgeID
	}
	return hitNone, ""
}

// edgeIDFromElement maps an edge element id, or one of its half/middle
// children ("x.1", "x.2", "x.mid"), back to the edge svg id.
func (v *Viewer) edgeIDFromElement(id string) (string, bool) {
	if v.meta.Edge(id) != nil {
		return id, true
	}
	for _, suffix := range []string{".1", ".2", ".mid"} {
		if base, ok := strings.CutSuffix(id, suffix); ok && v.meta.Edge(base) != nil {
			return base, true
		}
	}
	return "", false
}

// describe returns the callback identity of a hit: its svg id, equipment id
// and human type label.
func (v *Viewer) describe(kind hitKind, id string) (svgID, equipmentID, typeLabel string) {
	switch kind {
	case hitNode:
		n := v.meta.Node(id)
		return id, n.EquipmentID, "Voltage level"
	case hitTextNode:
		t := v.meta.TextNode(id)
		return id, t.EquipmentID, "Legend"
	case hitBusNode:
		b := v.meta.BusNode(id)
		return id, b.EquipmentID, "Bus"
	case hitEdge:
		e := v.meta.Edge(id)
		return id, e.EquipmentID, e.Type.TypeLabel()
	case hitInjection:
		inj := v.meta.Injection(id)
		label := inj.ComponentType
		if label == "" {
			label = "Injection"
		}
		return id, inj.EquipmentID, label
	default:
		return id, "", ""
	}
}

// OnPointerDown drives the Idle → Dragging / Bending / Straightening
// transitions. Interaction is disabled entirely without metadata.
func (v *Viewer) OnPointerDown(ev PointerEvent) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.meta == nil {
		return
	}
	if _, idle := v.state.(Idle); !idle {
		return
	}
	kind, id := v.classify(ev.TargetID)

	if ev.ShiftKey {
		if v.bendMode && kind == hitBendHandle {
			v.startStraightening(id)
		}
		return
	}

	if v.cfg.EnableDragInteraction {
		switch kind {
		case hitNode, hitBusNode:
			nodeID := id
			if kind == hitBusNode {
				nodeID = v.meta.BusNode(id).VLNode
			}
			if node := v.meta.Node(nodeID); node != nil {
				v.startNodeDrag(node, ev.Position)
				return
			}
		case hitTextNode:
			if t := v.meta.TextNode(id); t != nil {
				v.startTextNodeDrag(t, ev.Position)
				return
			}
		case hitBendHandle:
			v.startBendHandleDrag(id, ev.Position)
			return
		}
	}

	if v.bendMode && kind == hitEdge {
		if e := v.meta.Edge(id); e != nil && v.isBendable(e) {
			v.startBending(e, ev.Position)
			return
		}
	}

	if (kind == hitNode || kind == hitBusNode) && v.cfg.OnSelectNode != nil {
		nodeID := id
		if kind == hitBusNode {
			nodeID = v.meta.BusNode(id).VLNode
		}
		if node := v.meta.Node(nodeID); node != nil {
			v.cfg.OnSelectNode(node.EquipmentID, node.SvgID, ev.Position)
		}
	}
}

// OnPointerMove applies the current drag to metadata and issues a minimal
// redraw. Hover tracking runs whenever the controller is idle.
func (v *Viewer) OnPointerMove(ev PointerEvent) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.meta == nil {
		return
	}
	switch st := v.state.(type) {
	case Idle:
		v.hover.update(ev.Position)
	case Dragging:
		v.dragMove(st, ev)
	case Bending:
		v.bendMove(st, ev.Position)
	}
}

// OnPointerUp commits the current interaction, fires its callback and
// returns to Idle, re-enabling pan/zoom.
func (v *Viewer) OnPointerUp(ev PointerEvent) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.finishInteraction()
}

// OnPointerLeave ends the current interaction exactly like a pointer-up:
// releasing outside the canvas still commits.
func (v *Viewer) OnPointerLeave() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.finishInteraction()
	v.hover.clear()
}

// OnRightClick resolves the hit element and fires the right-click callback.
func (v *Viewer) OnRightClick(ev PointerEvent) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.meta == nil || v.cfg.OnRightClick == nil {
		return
	}
	kind, id := v.classify(ev.TargetID)
	if kind == hitNone {
		return
	}
	svgID, equipmentID, typeLabel := v.describe(kind, id)
	v.cfg.OnRightClick(svgID, equipmentID, typeLabel, ev.Position)
}

func (v *Viewer) finishInteraction() {
	if v.meta == nil {
		return
	}
	switch st := v.state.(type) {
	case Idle:
		return
	case Dragging:
		v.commitDrag(st)
	case Bending:
		v.commitBend(st)
	case Straightening:
		v.commitStraighten(st)
	}
	v.endSnapshot()
	v.state = Idle{}
	v.panZoomSuspended = false
}

func (v *Viewer) isBendable(e *diagram.Edge) bool {
	for _, candidate := range v.meta.BendableLines() {
		if candidate == e {
			return true
		}
	}
	return false
}
