package viewer

import (
	"encoding/json"
	"fmt"
	"strconv"

	"gridview/diagram"
	"gridview/edges"
	"gridview/geometry"
	"gridview/svgdoc"
)

// BranchState is one live operational update for a branch: side values,
// per-side connectivity and optional per-side bus reassignment. Values may be
// numbers (formatted and direction-classified) or literal strings.
type BranchState struct {
	BranchID      string          `json:"branchId"`
	Value1        json.RawMessage `json:"value1,omitempty"`
	Value2        json.RawMessage `json:"value2,omitempty"`
	Connected1    *bool           `json:"connected1,omitempty"`
	Connected2    *bool           `json:"connected2,omitempty"`
	ConnectedBus1 string          `json:"connectedBus1,omitempty"`
	ConnectedBus2 string          `json:"connectedBus2,omitempty"`
}

// BusValue carries the voltage/angle pair of one bus of a voltage level.
type BusValue struct {
	BusID   string  `json:"busId"`
	Voltage float64 `json:"voltage"`
	Angle   float64 `json:"angle"`
}

// VoltageLevelState is one live legend update for a voltage level.
type VoltageLevelState struct {
	VoltageLevelID string     `json:"voltageLevelId"`
	BusValue       []BusValue `json:"busValue"`
}

// SetJSONBranchStates decodes a branch-state list from JSON text and applies
// it. Only the decode can fail; per-branch problems are logged and skipped.
func (v *Viewer) SetJSONBranchStates(data []byte) error {
	var states []BranchState
	if err := json.Unmarshal(data, &states); err != nil {
		return fmt.Errorf("parse branch states: %w", err)
	}
	v.SetBranchStates(states)
	return nil
}

// SetBranchStates applies live operational state to branches without touching
// layout. Unknown branches, unknown buses and cross-voltage-level bus
// reassignments are logged and skipped.
func (v *Viewer) SetBranchStates(states []BranchState) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.meta == nil {
		return
	}
	for _, bs := range states {
		e := v.meta.EdgeByEquipmentID(bs.BranchID)
		if e == nil {
			v.log.Warn("branch state targets unknown branch", "branchId", bs.BranchID)
			continue
		}
		v.applyBranchSide(e, 1, bs.Value1, bs.Connected1, bs.ConnectedBus1)
		v.applyBranchSide(e, 2, bs.Value2, bs.Connected2, bs.ConnectedBus2)
	}
}

func (v *Viewer) applyBranchSide(e *diagram.Edge, side int, value json.RawMessage, connected *bool, busID string) {
	if len(value) > 0 {
		v.writeEdgeValue(e, side, value)
	}
	if connected != nil {
		v.setHalfEdgeConnected(e, side, *connected)
	}
	if busID != "" {
		v.reassignBus(e, side, busID)
	}
}

// writeEdgeValue updates the value label of one edge side. Numeric values are
// formatted with the configured precision and classified into a flow
// direction class; string values are written verbatim.
func (v *Viewer) writeEdgeValue(e *diagram.Edge, side int, value json.RawMessage) {
	info := e.EdgeInfoAt(side)
	if info == nil {
		return
	}
	el := v.doc.ElementByID(info.SvgID)
	if el == nil {
		v.log.Warn("edge info element not in document", "id", info.SvgID)
		return
	}

	var text string
	direction := ""
	var num float64
	if err := json.Unmarshal(value, &num); err == nil {
		text = strconv.FormatFloat(num, 'f', v.svgParams.ValuePrecision(), 64)
		if num < 0 {
			direction = "arrow-in"
		} else {
			direction = "arrow-out"
		}
	} else if err := json.Unmarshal(value, &text); err != nil {
		v.log.Warn("edge value is neither number nor string", "edge", e.SvgID, "side", side)
		return
	}

	for _, child := range el.Children {
		switch {
		case child.Name == "text":
			child.Text = text
		case child.HasClass("arrow") && direction != "":
			child.RemoveClass("arrow-in")
			child.RemoveClass("arrow-out")
			child.AddClass(direction)
		}
	}
}

// setHalfEdgeConnected toggles the disconnected state class on one half-edge.
func (v *Viewer) setHalfEdgeConnected(e *diagram.Edge, side int, connected bool) {
	el := v.doc.ElementByID(edges.HalfEdgeElementID(e.SvgID, side))
	if el == nil {
		return
	}
	if connected {
		el.RemoveClass("disconnected")
	} else {
		el.AddClass("disconnected")
	}
}

// reassignBus connects one edge side to a different bus of the same voltage
// level. A bus from another voltage level is rejected with a warning and the
// metadata is left unchanged. A changed connection rederives the branch's
// half-edges and both endpoint annuli, since the attachment radius changed.
func (v *Viewer) reassignBus(e *diagram.Edge, side int, busEquipmentID string) {
	bus := v.meta.BusNodeByEquipmentID(busEquipmentID)
	if bus == nil {
		v.log.Warn("bus reassignment targets unknown bus", "edge", e.SvgID, "busId", busEquipmentID)
		return
	}
	if bus.VLNode != e.NodeAt(side) {
		v.log.Warn("bus reassignment crosses voltage levels",
			"edge", e.SvgID, "side", side, "bus", bus.SvgID, "busNode", bus.VLNode, "edgeNode", e.NodeAt(side))
		return
	}
	if e.BusNodeAt(side) == bus.SvgID {
		return
	}
	if side == 1 {
		e.BusNode1 = bus.SvgID
	} else {
		e.BusNode2 = bus.SvgID
	}
	v.patchEdge(e, "", geometry.Point{})
	v.redrawEdgeEnds(e)
}

// SetJSONVoltageLevelStates decodes a voltage-level-state list from JSON text
// and applies it.
func (v *Viewer) SetJSONVoltageLevelStates(data []byte) error {
	var states []VoltageLevelState
	if err := json.Unmarshal(data, &states); err != nil {
		return fmt.Errorf("parse voltage level states: %w", err)
	}
	v.SetVoltageLevelStates(states)
	return nil
}

// SetVoltageLevelStates writes bus voltage/angle pairs into the rendered
// legend rows, addressed by each bus's annulus index. Missing legends, buses
// or rows are logged and skipped.
func (v *Viewer) SetVoltageLevelStates(states []VoltageLevelState) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.meta == nil {
		return
	}
	for _, vs := range states {
		node := v.meta.NodeByEquipmentID(vs.VoltageLevelID)
		if node == nil {
			v.log.Warn("voltage level state targets unknown voltage level", "voltageLevelId", vs.VoltageLevelID)
			continue
		}
		t := v.meta.TextNodeForVL(node.SvgID)
		if t == nil {
			v.log.Warn("voltage level has no legend", "voltageLevelId", vs.VoltageLevelID)
			continue
		}
		legend := v.doc.ElementByID(t.SvgID)
		if legend == nil {
			v.log.Warn("legend element not in document", "id", t.SvgID)
			continue
		}
		rows := legendRows(legend)
		for _, bv := range vs.BusValue {
			bus := v.meta.BusNodeByEquipmentID(bv.BusID)
			if bus == nil || bus.VLNode != node.SvgID {
				v.log.Warn("bus value targets unknown bus", "voltageLevelId", vs.VoltageLevelID, "busId", bv.BusID)
				continue
			}
			if bus.Index < 0 || bus.Index >= len(rows) {
				v.log.Warn("legend has no row for bus", "busNode", bus.SvgID, "index", bus.Index)
				continue
			}
			rows[bus.Index].Text = formatBusValue(bv, v.svgParams.ValuePrecision())
		}
	}
}

// legendRows collects the legend row elements in document order.
func legendRows(legend *svgdoc.Element) []*svgdoc.Element {
	var rows []*svgdoc.Element
	var walk func(el *svgdoc.Element)
	walk = func(el *svgdoc.Element) {
		for _, c := range el.Children {
			if c.HasClass("legend-row") {
				rows = append(rows, c)
				continue
			}
			walk(c)
		}
	}
	walk(legend)
	return rows
}

func formatBusValue(bv BusValue, precision int) string {
	return strconv.FormatFloat(bv.Voltage, 'f', precision, 64) + " kV / " +
		strconv.FormatFloat(bv.Angle, 'f', precision, 64) + "°"
}
