package viewer

import "gridview/geometry"

// DragKind identifies what a drag operation is moving.
type DragKind int

const (
	DragNode DragKind = iota
	DragTextNode
	DragBendHandle
)

// String returns the drag kind name for logs.
func (k DragKind) String() string {
	switch k {
	case DragNode:
		return "node"
	case DragTextNode:
		return "text-node"
	case DragBendHandle:
		return "bend-handle"
	default:
		return "unknown"
	}
}

// InteractionState is the explicit state machine of the controller. Exactly
// one variant is active at a time; combinations of nullable fields never
// encode a state implicitly.
type InteractionState interface {
	interactionState()
}

// Idle: no interaction in progress. Hover tracking stays active.
type Idle struct{}

// Dragging: a pointer-down grabbed a draggable element and moves are being
// applied to metadata with minimal redraws.
type Dragging struct {
	Kind       DragKind
	SvgID      string         // node, text node or bend handle element id
	EdgeID     string         // owning edge for bend handles
	BendIndex  int            // bend point index for bend handles
	GrabOffset geometry.Point // element position minus pointer at drag start

	// Origin values reported in the commit callback.
	OriginPosition   geometry.Point // node position / text shift / bend point at drag start
	OriginConnShift  geometry.Point // text node connection shift at drag start
	OriginBendPoints []geometry.Point
}

// Bending: bend mode created a new bend point under the pointer and is
// dragging it until release.
type Bending struct {
	EdgeID           string
	HandleID         string
	BendIndex        int
	OriginBendPoints []geometry.Point // before insertion
}

// Straightening: shift+pointer-down marked an existing bend handle; the point
// is removed on release.
type Straightening struct {
	EdgeID           string
	HandleID         string
	BendIndex        int
	OriginBendPoints []geometry.Point
}

func (Idle) interactionState()          {}
func (Dragging) interactionState()      {}
func (Bending) interactionState()       {}
func (Straightening) interactionState() {}
