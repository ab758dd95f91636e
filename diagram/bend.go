package diagram

import (
	"gridview/geometry"
)

// AddPointToList inserts newPoint into the polyline position minimizing its
// clamped squared distance to one of the existing segments, including the two
// virtual boundary segments to node1 and node2. It returns the new ordered
// list and the index of the inserted point within it.
func AddPointToList(points []geometry.Point, node1, node2, newPoint geometry.Point) ([]geometry.Point, int) {
	chain := make([]geometry.Point, 0, len(points)+2)
	chain = append(chain, node1)
	chain = append(chain, points...)
	chain = append(chain, node2)

	best := 0
	bestDist := geometry.SquaredSegmentDistance(newPoint, chain[0], chain[1])
	for i := 1; i < len(chain)-1; i++ {
		d := geometry.SquaredSegmentDistance(newPoint, chain[i], chain[i+1])
		if d < bestDist {
			bestDist = d
			best = i
		}
	}

	out := make([]geometry.Point, 0, len(points)+1)
	out = append(out, points[:best]...)
	out = append(out, newPoint)
	out = append(out, points[best:]...)
	return out, best
}

// RemovePointAt returns a copy of points with the point at the given index
// removed. An out-of-range index returns the list unchanged.
func RemovePointAt(points []geometry.Point, index int) []geometry.Point {
	if index < 0 || index >= len(points) {
		return points
	}
	out := make([]geometry.Point, 0, len(points)-1)
	out = append(out, points[:index]...)
	out = append(out, points[index+1:]...)
	return out
}

// BendableLines returns the edges eligible for bend editing: Line-type edges
// that are not part of a parallel group and have both sides visible.
func (m *Metadata) BendableLines() []*Edge {
	var bendable []*Edge
	for _, e := range m.Edges {
		if e.Type != EdgeTypeLine || e.Invisible1 || e.Invisible2 || e.IsLoop() {
			continue
		}
		if group, _ := m.EdgeGroup(e); len(group) != 1 {
			continue
		}
		bendable = append(bendable, e)
	}
	return bendable
}
