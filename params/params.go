// Package params exposes the optional configuration sections of the diagram
// metadata document through typed accessors with named defaults. The geometry
// engine never checks for a missing value itself: every magic constant lives
// behind one accessor here.
package params

import (
	"gridview/geometry"
)

// Defaults for the svgParameters section.
const (
	DefaultVoltageLevelCircleRadius           = 30.0
	DefaultFictitiousVoltageLevelCircleRadius = 15.0
	DefaultInterAnnulusSpace                  = 5.0
	DefaultTransformerCircleRadius            = 20.0
	DefaultConverterStationWidth              = 70.0
	DefaultEdgesForkLength                    = 80.0
	DefaultEdgesForkApertureDegrees           = 60.0
	DefaultNodeHollowWidth                    = 15.0
	DefaultUnknownBusNodeExtraRadius          = 10.0
	DefaultInjectionEdgeLength                = 40.0
	DefaultArrowShift                         = 30.0
	DefaultArrowLabelShift                    = 19.0
)

// Defaults for the layoutParameters section.
const (
	DefaultTextNodeShiftX               = 100.0
	DefaultTextNodeShiftY               = -40.0
	DefaultTextNodeEdgeConnectionYShift = 25.0
	DefaultDiagramPadding               = 200.0
)

// Text box extent assumed when computing the view box; the real rendered box
// size is only known to the embedder.
const (
	TextBoxDefaultWidth  = 200.0
	TextBoxDefaultHeight = 100.0
)

// RawSvgParameters is the svgParameters section as it appears in the metadata
// document. All fields are optional; nil means "use the default".
type RawSvgParameters struct {
	VoltageLevelCircleRadius           *float64 `json:"voltageLevelCircleRadius,omitempty"`
	FictitiousVoltageLevelCircleRadius *float64 `json:"fictitiousVoltageLevelCircleRadius,omitempty"`
	InterAnnulusSpace                  *float64 `json:"interAnnulusSpace,omitempty"`
	TransformerCircleRadius            *float64 `json:"transformerCircleRadius,omitempty"`
	ConverterStationWidth              *float64 `json:"converterStationWidth,omitempty"`
	EdgesForkLength                    *float64 `json:"edgesForkLength,omitempty"`
	EdgesForkAperture                  *float64 `json:"edgesForkAperture,omitempty"` // degrees
	NodeHollowWidth                    *float64 `json:"nodeHollowWidth,omitempty"`
	UnknownBusNodeExtraRadius          *float64 `json:"unknownBusNodeExtraRadius,omitempty"`
	InjectionEdgeLength                *float64 `json:"injectionEdgeLength,omitempty"`
	ArrowShift                         *float64 `json:"arrowShift,omitempty"`
	ArrowLabelShift                    *float64 `json:"arrowLabelShift,omitempty"`
	EdgeInfoDisplayed                  *bool    `json:"edgeInfoDisplayed,omitempty"`
	EdgeNameDisplayed                  *bool    `json:"edgeNameDisplayed,omitempty"`
	ValuePrecision                     *int     `json:"valuePrecision,omitempty"`
}

// SvgParameters resolves svgParameters values against their defaults. The zero
// value resolves everything to defaults.
type SvgParameters struct {
	raw *RawSvgParameters
}

// NewSvgParameters wraps an optional raw section; raw may be nil.
func NewSvgParameters(raw *RawSvgParameters) SvgParameters {
	return SvgParameters{raw: raw}
}

func resolve(v *float64, def float64) float64 {
	if v == nil {
		return def
	}
	return *v
}

// VoltageLevelCircleRadius is the base radius of a voltage level circle.
func (p SvgParameters) VoltageLevelCircleRadius() float64 {
	if p.raw == nil {
		return DefaultVoltageLevelCircleRadius
	}
	return resolve(p.raw.VoltageLevelCircleRadius, DefaultVoltageLevelCircleRadius)
}

// FictitiousVoltageLevelCircleRadius is the base radius used for fictitious
// voltage levels.
func (p SvgParameters) FictitiousVoltageLevelCircleRadius() float64 {
	if p.raw == nil {
		return DefaultFictitiousVoltageLevelCircleRadius
	}
	return resolve(p.raw.FictitiousVoltageLevelCircleRadius, DefaultFictitiousVoltageLevelCircleRadius)
}

// InterAnnulusSpace is the gap between two bus annuli on the same circle.
func (p SvgParameters) InterAnnulusSpace() float64 {
	if p.raw == nil {
		return DefaultInterAnnulusSpace
	}
	return resolve(p.raw.InterAnnulusSpace, DefaultInterAnnulusSpace)
}

// TransformerCircleRadius is the radius of a transformer symbol circle.
func (p SvgParameters) TransformerCircleRadius() float64 {
	if p.raw == nil {
		return DefaultTransformerCircleRadius
	}
	return resolve(p.raw.TransformerCircleRadius, DefaultTransformerCircleRadius)
}

// ConverterStationWidth is the width of an HVDC converter station symbol.
func (p SvgParameters) ConverterStationWidth() float64 {
	if p.raw == nil {
		return DefaultConverterStationWidth
	}
	return resolve(p.raw.ConverterStationWidth, DefaultConverterStationWidth)
}

// EdgesForkLength is the distance from a node center to the fork point of a
// parallel-edge group.
func (p SvgParameters) EdgesForkLength() float64 {
	if p.raw == nil {
		return DefaultEdgesForkLength
	}
	return resolve(p.raw.EdgesForkLength, DefaultEdgesForkLength)
}

// EdgesForkAperture is the angular aperture across which parallel edges are
// spread, in radians. The document stores it in degrees.
func (p SvgParameters) EdgesForkAperture() float64 {
	degrees := DefaultEdgesForkApertureDegrees
	if p.raw != nil {
		degrees = resolve(p.raw.EdgesForkAperture, DefaultEdgesForkApertureDegrees)
	}
	return geometry.Radians(degrees)
}

// NodeHollowWidth is the width of the gap cut into a bus annulus where an
// edge attaches.
func (p SvgParameters) NodeHollowWidth() float64 {
	if p.raw == nil {
		return DefaultNodeHollowWidth
	}
	return resolve(p.raw.NodeHollowWidth, DefaultNodeHollowWidth)
}

// UnknownBusNodeExtraRadius is the extra start-point margin applied when an
// edge side attaches to the unknown-bus sentinel.
func (p SvgParameters) UnknownBusNodeExtraRadius() float64 {
	if p.raw == nil {
		return DefaultUnknownBusNodeExtraRadius
	}
	return resolve(p.raw.UnknownBusNodeExtraRadius, DefaultUnknownBusNodeExtraRadius)
}

// InjectionEdgeLength is the length of the stub between a bus boundary and an
// injection symbol.
func (p SvgParameters) InjectionEdgeLength() float64 {
	if p.raw == nil {
		return DefaultInjectionEdgeLength
	}
	return resolve(p.raw.InjectionEdgeLength, DefaultInjectionEdgeLength)
}

// ArrowShift is the distance from a half-edge start point to its arrow anchor.
func (p SvgParameters) ArrowShift() float64 {
	if p.raw == nil {
		return DefaultArrowShift
	}
	return resolve(p.raw.ArrowShift, DefaultArrowShift)
}

// ArrowLabelShift is the distance from the arrow anchor to its value label.
func (p SvgParameters) ArrowLabelShift() float64 {
	if p.raw == nil {
		return DefaultArrowLabelShift
	}
	return resolve(p.raw.ArrowLabelShift, DefaultArrowLabelShift)
}

// EdgeInfoDisplayed reports whether edge-info arrows and labels are drawn.
func (p SvgParameters) EdgeInfoDisplayed() bool {
	if p.raw == nil || p.raw.EdgeInfoDisplayed == nil {
		return true
	}
	return *p.raw.EdgeInfoDisplayed
}

// ValuePrecision is the number of decimals used when formatting numeric
// branch values.
func (p SvgParameters) ValuePrecision() int {
	if p.raw == nil || p.raw.ValuePrecision == nil {
		return 0
	}
	return *p.raw.ValuePrecision
}

// RawLayoutParameters is the layoutParameters section of the metadata
// document. All fields are optional.
type RawLayoutParameters struct {
	TextNodeShiftX               *float64 `json:"textNodeShiftX,omitempty"`
	TextNodeShiftY               *float64 `json:"textNodeShiftY,omitempty"`
	TextNodeEdgeConnectionYShift *float64 `json:"textNodeEdgeConnectionYShift,omitempty"`
	DiagramPadding               *float64 `json:"diagramPadding,omitempty"`
}

// LayoutParameters resolves layoutParameters values against their defaults.
type LayoutParameters struct {
	raw *RawLayoutParameters
}

// NewLayoutParameters wraps an optional raw section; raw may be nil.
func NewLayoutParameters(raw *RawLayoutParameters) LayoutParameters {
	return LayoutParameters{raw: raw}
}

// TextNodeShift is the default shift of a text node from its voltage level.
func (p LayoutParameters) TextNodeShift() geometry.Point {
	x, y := DefaultTextNodeShiftX, DefaultTextNodeShiftY
	if p.raw != nil {
		x = resolve(p.raw.TextNodeShiftX, DefaultTextNodeShiftX)
		y = resolve(p.raw.TextNodeShiftY, DefaultTextNodeShiftY)
	}
	return geometry.Point{X: x, Y: y}
}

// TextNodeEdgeConnectionYShift is the vertical offset of the legend edge
// attachment below the text box corner.
func (p LayoutParameters) TextNodeEdgeConnectionYShift() float64 {
	if p.raw == nil {
		return DefaultTextNodeEdgeConnectionYShift
	}
	return resolve(p.raw.TextNodeEdgeConnectionYShift, DefaultTextNodeEdgeConnectionYShift)
}

// DiagramPadding is the padding added on each side of the computed view box.
func (p LayoutParameters) DiagramPadding() float64 {
	if p.raw == nil {
		return DefaultDiagramPadding
	}
	return resolve(p.raw.DiagramPadding, DefaultDiagramPadding)
}
