// Package diagram contains the metadata model of a network diagram and the
// derivation utilities built on it: id lookups, bus sorting and radii,
// parallel-edge grouping, view-box computation and bend-point editing.
//
// Every entity carries a unique svgId (the id of its rendered element) and an
// equipmentId (the external business identifier). Entities are supplied at
// construction inside the metadata document and mutated in place by the
// interaction handlers.
package diagram

import (
	"encoding/json"
	"fmt"

	"gridview/geometry"
	"gridview/params"
)

// EdgeType is the closed set of known branch kinds.
type EdgeType int

const (
	EdgeTypeUnknown EdgeType = iota
	EdgeTypeLine
	EdgeTypeTwoWt
	EdgeTypePst
	EdgeTypeHvdcLineVsc
	EdgeTypeHvdcLineLcc
	EdgeTypeDanglingLine
	EdgeTypeTieLine
	EdgeTypeThreeWt
	EdgeTypeThreeWtPst
)

var edgeTypeNames = map[EdgeType]string{
	EdgeTypeUnknown:      "Unknown",
	EdgeTypeLine:         "Line",
	EdgeTypeTwoWt:        "TwoWt",
	EdgeTypePst:          "Pst",
	EdgeTypeHvdcLineVsc:  "HvdcLineVsc",
	EdgeTypeHvdcLineLcc:  "HvdcLineLcc",
	EdgeTypeDanglingLine: "DanglingLine",
	EdgeTypeTieLine:      "TieLine",
	EdgeTypeThreeWt:      "ThreeWt",
	EdgeTypeThreeWtPst:   "ThreeWtPst",
}

var edgeTypeValues = map[string]EdgeType{
	"Line":         EdgeTypeLine,
	"TwoWt":        EdgeTypeTwoWt,
	"Pst":          EdgeTypePst,
	"HvdcLineVsc":  EdgeTypeHvdcLineVsc,
	"HvdcLineLcc":  EdgeTypeHvdcLineLcc,
	"DanglingLine": EdgeTypeDanglingLine,
	"TieLine":      EdgeTypeTieLine,
	"ThreeWt":      EdgeTypeThreeWt,
	"ThreeWtPst":   EdgeTypeThreeWtPst,
}

// String returns the wire name of the edge type.
func (t EdgeType) String() string {
	if name, ok := edgeTypeNames[t]; ok {
		return name
	}
	return "Unknown"
}

// EdgeTypeFromString maps a metadata type string to its variant. Unrecognized
// strings map to EdgeTypeUnknown, never to an error.
func EdgeTypeFromString(s string) EdgeType {
	if t, ok := edgeTypeValues[s]; ok {
		return t
	}
	return EdgeTypeUnknown
}

// MarshalJSON encodes the edge type as its wire name.
func (t EdgeType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON decodes a wire name, mapping unknown strings to Unknown.
func (t *EdgeType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*t = EdgeTypeFromString(s)
	return nil
}

// IsTransformer reports whether the type draws a two-winding transformer
// symbol at the edge middle.
func (t EdgeType) IsTransformer() bool {
	return t == EdgeTypeTwoWt || t == EdgeTypePst
}

// IsHvdc reports whether the type draws converter stations.
func (t EdgeType) IsHvdc() bool {
	return t == EdgeTypeHvdcLineVsc || t == EdgeTypeHvdcLineLcc
}

// IsThreeWt reports whether the type is one leg of a three-winding
// transformer.
func (t EdgeType) IsThreeWt() bool {
	return t == EdgeTypeThreeWt || t == EdgeTypeThreeWtPst
}

// TypeLabel returns the human-readable equipment label used in callbacks.
func (t EdgeType) TypeLabel() string {
	switch t {
	case EdgeTypeLine:
		return "Line"
	case EdgeTypeTwoWt:
		return "Two windings transformer"
	case EdgeTypePst:
		return "Phase shifting transformer"
	case EdgeTypeHvdcLineVsc, EdgeTypeHvdcLineLcc:
		return "HVDC line"
	case EdgeTypeDanglingLine:
		return "Dangling line"
	case EdgeTypeTieLine:
		return "Tie line"
	case EdgeTypeThreeWt, EdgeTypeThreeWtPst:
		return "Three windings transformer"
	default:
		return "Unknown"
	}
}

// Node is a voltage level (or a three-winding-transformer pivot) placed in the
// diagram. Position is mutated in place during drags.
type Node struct {
	SvgID       string  `json:"svgId"`
	EquipmentID string  `json:"equipmentId"`
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	Fictitious  bool    `json:"fictitious,omitempty"`
	Invisible   bool    `json:"invisible,omitempty"`
	TextNodeID  string  `json:"textNodeId,omitempty"`
	LegendID    string  `json:"legendId,omitempty"`
}

// Position returns the node center.
func (n *Node) Position() geometry.Point {
	return geometry.Point{X: n.X, Y: n.Y}
}

// SetPosition moves the node center.
func (n *Node) SetPosition(p geometry.Point) {
	n.X, n.Y = p.X, p.Y
}

// BusNode is one bus within a voltage level circle. Index selects the annulus
// slot; indices within a voltage level form a dense 0..k-1 sequence whose
// order defines the angular traversal around the circle.
type BusNode struct {
	SvgID        string `json:"svgId"`
	EquipmentID  string `json:"equipmentId"`
	VLNode       string `json:"vlNode"`
	Index        int    `json:"index"`
	NbNeighbours int    `json:"nbNeighbours"`
}

// EdgeInfo attaches an arrow/label element to one side of an edge.
type EdgeInfo struct {
	SvgID       string `json:"svgId"`
	EquipmentID string `json:"equipmentId,omitempty"`
}

// Edge is a branch connecting two (node, bus) pairs. BendingPoints are owned
// by the edge and mutated only by the bend/straighten operations.
type Edge struct {
	SvgID         string           `json:"svgId"`
	EquipmentID   string           `json:"equipmentId"`
	Node1         string           `json:"node1"`
	Node2         string           `json:"node2"`
	BusNode1      string           `json:"busNode1"`
	BusNode2      string           `json:"busNode2"`
	Type          EdgeType         `json:"type"`
	BendingPoints []geometry.Point `json:"bendingPoints,omitempty"`
	EdgeInfo1     *EdgeInfo        `json:"edgeInfo1,omitempty"`
	EdgeInfo2     *EdgeInfo        `json:"edgeInfo2,omitempty"`
	Invisible1    bool             `json:"invisible1,omitempty"`
	Invisible2    bool             `json:"invisible2,omitempty"`
}

// IsLoop reports whether both ends attach to the same node.
func (e *Edge) IsLoop() bool {
	return e.Node1 != "" && e.Node1 == e.Node2
}

// IsHalfVisible reports whether exactly one side is materialized in the
// rendered document.
func (e *Edge) IsHalfVisible() bool {
	return e.Invisible1 != e.Invisible2
}

// NodeAt returns the node svg id of side 1 or 2.
func (e *Edge) NodeAt(side int) string {
	if side == 1 {
		return e.Node1
	}
	return e.Node2
}

// BusNodeAt returns the bus node svg id of side 1 or 2.
func (e *Edge) BusNodeAt(side int) string {
	if side == 1 {
		return e.BusNode1
	}
	return e.BusNode2
}

// EdgeInfoAt returns the edge info of side 1 or 2, or nil.
func (e *Edge) EdgeInfoAt(side int) *EdgeInfo {
	if side == 1 {
		return e.EdgeInfo1
	}
	return e.EdgeInfo2
}

// TextNode is the floating legend box attached to a voltage level. Both shift
// vectors are relative to the owning node position: Shift places the box,
// ConnectionShift places the legend edge attachment.
type TextNode struct {
	SvgID            string  `json:"svgId"`
	EquipmentID      string  `json:"equipmentId"`
	VLNode           string  `json:"vlNode"`
	ShiftX           float64 `json:"shiftX"`
	ShiftY           float64 `json:"shiftY"`
	ConnectionShiftX float64 `json:"connectionShiftX"`
	ConnectionShiftY float64 `json:"connectionShiftY"`
}

// Shift returns the label box shift vector.
func (t *TextNode) Shift() geometry.Point {
	return geometry.Point{X: t.ShiftX, Y: t.ShiftY}
}

// ConnectionShift returns the legend edge attachment shift vector.
func (t *TextNode) ConnectionShift() geometry.Point {
	return geometry.Point{X: t.ConnectionShiftX, Y: t.ConnectionShiftY}
}

// Injection is a leaf device (load, generator, ...) attached to one bus. Its
// element is translated with the owning node but never redrawn in detail.
type Injection struct {
	SvgID         string    `json:"svgId"`
	EquipmentID   string    `json:"equipmentId"`
	ComponentType string    `json:"componentType,omitempty"`
	BusNodeID     string    `json:"busNodeId"`
	VLNode        string    `json:"vlNode"`
	Angle         float64   `json:"angle,omitempty"`
	EdgeInfo      *EdgeInfo `json:"edgeInfo,omitempty"`
}

// Metadata is the side-channel document describing the diagram topology. It
// owns the model objects for the viewer's lifetime and carries lazily built
// lookup indexes that are invalidated whenever the lists are replaced.
type Metadata struct {
	LayoutParameters *params.RawLayoutParameters `json:"layoutParameters,omitempty"`
	SvgParameters    *params.RawSvgParameters    `json:"svgParameters,omitempty"`
	BusNodes         []*BusNode                  `json:"busNodes"`
	Nodes            []*Node                     `json:"nodes"`
	Edges            []*Edge                     `json:"edges"`
	TextNodes        []*TextNode                 `json:"textNodes"`
	Injections       []*Injection                `json:"injections,omitempty"`

	idx *index `json:"-"`
}

// Parse decodes a metadata document from JSON.
func Parse(data []byte) (*Metadata, error) {
	var m Metadata
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse diagram metadata: %w", err)
	}
	return &m, nil
}

// JSON serializes the live metadata document, indented.
func (m *Metadata) JSON() ([]byte, error) {
	return json.MarshalIndent(m, "", "  ")
}
