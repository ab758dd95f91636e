package diagram

import (
	"log/slog"
	"math"
	"sort"

	"gridview/geometry"
	"gridview/params"
)

// NodeRadius holds the annulus radii of one bus within its voltage level
// circle. It is recomputed on demand and never stored.
type NodeRadius struct {
	BusInnerRadius     float64
	BusOuterRadius     float64
	VoltageLevelRadius float64
}

// VoltageLevelRadius returns the circle radius of a voltage level holding the
// given number of buses: the base radius (smaller for fictitious nodes)
// scaled by clamp(nbBuses, 1, 2).
func VoltageLevelRadius(nbBuses int, node *Node, p params.SvgParameters) float64 {
	base := p.VoltageLevelCircleRadius()
	if node != nil && node.Fictitious {
		base = p.FictitiousVoltageLevelCircleRadius()
	}
	return geometry.Clamp(float64(nbBuses), 1, 2) * base
}

// NodeRadiusFor computes the annulus radii for one bus. The circle is divided
// into nbNeighbours+1 equal annuli of unitary width; each annulus is shrunk by
// half the inter-annulus space on both edges, except the innermost bus whose
// inner radius is zero.
func NodeRadiusFor(bus *BusNode, node *Node, p params.SvgParameters) NodeRadius {
	nbBuses := bus.NbNeighbours + 1
	vlRadius := VoltageLevelRadius(nbBuses, node, p)
	unitary := vlRadius / float64(nbBuses)
	halfSpace := p.InterAnnulusSpace() / 2

	r := NodeRadius{
		BusOuterRadius:     float64(bus.Index+1)*unitary - halfSpace,
		VoltageLevelRadius: vlRadius,
	}
	if bus.Index > 0 {
		r.BusInnerRadius = float64(bus.Index)*unitary + halfSpace
	}
	return r
}

// SortedBusNodes returns the buses of a voltage level ordered by their Index,
// which defines the angular traversal order around the circle. Buses with a
// negative index are dropped and sparse gaps are skipped rather than treated
// as errors; a metadata document with non-contiguous indices renders what it
// can.
func (m *Metadata) SortedBusNodes(vlNodeID string, log *slog.Logger) []*BusNode {
	buses := m.BusNodesOf(vlNodeID)
	if len(buses) == 0 {
		return nil
	}
	maxIndex := -1
	for _, b := range buses {
		if b.Index > maxIndex {
			maxIndex = b.Index
		}
	}
	if maxIndex < 0 {
		return nil
	}
	slots := make([]*BusNode, maxIndex+1)
	for _, b := range buses {
		if b.Index < 0 {
			if log != nil {
				log.Debug("dropping bus node with negative index",
					"busNode", b.SvgID, "index", b.Index)
			}
			continue
		}
		slots[b.Index] = b
	}
	sorted := make([]*BusNode, 0, len(buses))
	for _, b := range slots {
		if b != nil {
			sorted = append(sorted, b)
		}
	}
	return sorted
}

// SortedAngles returns the given attachment angles sorted ascending, with the
// first angle duplicated at +2π to close the circle for annulus
// fragmentation.
func SortedAngles(angles []float64) []float64 {
	if len(angles) == 0 {
		return nil
	}
	sorted := append([]float64{}, angles...)
	sort.Float64s(sorted)
	return append(sorted, sorted[0]+2*math.Pi)
}
