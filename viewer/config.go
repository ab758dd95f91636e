// Package viewer owns the mutable view state of one diagram instance: the
// interaction state machine (drag, select, bend, straighten, hover) and the
// incremental-patch redraw operations that keep the rendered SVG consistent
// with the metadata document.
package viewer

import (
	"log/slog"

	"gridview/diagram"
	"gridview/geometry"
)

// DefaultHoverPositionPrecision is the pixel tolerance used when matching a
// pointer position against thin hoverable geometry.
const DefaultHoverPositionPrecision = 10.0

// BendOperation labels the bend-line callback reason.
type BendOperation string

const (
	BendOperationBend       BendOperation = "BEND"
	BendOperationStraighten BendOperation = "STRAIGHTEN"
)

// Callback signatures. Each fires synchronously from the viewer call that
// caused it, with the viewer's internal lock held; callbacks must not call
// back into the viewer. Toggle-hover is the exception: it is debounced and
// delivered from a timer goroutine, with its identity values captured at
// schedule time.
type (
	MoveNodeFunc     func(equipmentID, nodeSvgID string, xNew, yNew, xOrig, yOrig float64)
	MoveTextNodeFunc func(equipmentID, vlNodeSvgID, textNodeSvgID string,
		shiftXNew, shiftYNew, shiftXOrig, shiftYOrig,
		connShiftXNew, connShiftYNew, connShiftXOrig, connShiftYOrig float64)
	SelectNodeFunc  func(equipmentID, nodeSvgID string, position geometry.Point)
	ToggleHoverFunc func(hovered bool, position *geometry.Point, equipmentID, equipmentType string)
	RightClickFunc  func(svgID, equipmentID, equipmentType string, position geometry.Point)
	BendLineFunc    func(svgID, equipmentID, equipmentType string, bendPoints []geometry.Point, operation BendOperation)
)

// ZoomLevel maps a view-box dimension threshold onto a CSS class. Levels are
// evaluated in descending threshold order; the first level whose threshold is
// not larger than the displayed dimension wins.
type ZoomLevel struct {
	MinDimension float64
	Class        string
}

// Config collects the recognized viewer options. The zero value is a static,
// non-interactive viewer.
type Config struct {
	MinWidth  float64
	MinHeight float64
	MaxWidth  float64
	MaxHeight float64

	EnableDragInteraction bool

	EnableLevelOfDetail bool
	ZoomLevels          []ZoomLevel

	EnableAdaptiveTextZoom    bool
	AdaptiveTextZoomThreshold float64

	HoverPositionPrecision float64 // 0 means DefaultHoverPositionPrecision

	InitialViewBox *diagram.ViewBox

	OnMoveNode     MoveNodeFunc
	OnMoveTextNode MoveTextNodeFunc
	OnSelectNode   SelectNodeFunc
	OnToggleHover  ToggleHoverFunc
	OnRightClick   RightClickFunc
	OnBendLine     BendLineFunc

	Logger *slog.Logger
}

func (c Config) hoverPrecision() float64 {
	if c.HoverPositionPrecision <= 0 {
		return DefaultHoverPositionPrecision
	}
	return c.HoverPositionPrecision
}

func (c Config) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}
