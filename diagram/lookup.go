package diagram

import "strings"

// index holds the lazily built lookup maps over the metadata lists. It is
// instance-scoped: rebuilt on first use after InvalidateIndex.
type index struct {
	nodes          map[string]*Node
	busNodes       map[string]*BusNode
	edges          map[string]*Edge
	textNodes      map[string]*TextNode
	textNodeByVL   map[string]*TextNode
	busNodesByVL   map[string][]*BusNode
	edgesByNode    map[string][]*Edge
	injections     map[string]*Injection
	injectionsByVL map[string][]*Injection
	groupedEdges   map[string][]*Edge

	nodesByEquipment    map[string]*Node
	edgesByEquipment    map[string]*Edge
	busNodesByEquipment map[string]*BusNode
}

func (m *Metadata) ensureIndex() *index {
	if m.idx != nil {
		return m.idx
	}
	idx := &index{
		nodes:          make(map[string]*Node, len(m.Nodes)),
		busNodes:       make(map[string]*BusNode, len(m.BusNodes)),
		edges:          make(map[string]*Edge, len(m.Edges)),
		textNodes:      make(map[string]*TextNode, len(m.TextNodes)),
		textNodeByVL:   make(map[string]*TextNode, len(m.TextNodes)),
		busNodesByVL:   make(map[string][]*BusNode),
		edgesByNode:    make(map[string][]*Edge),
		injections:     make(map[string]*Injection, len(m.Injections)),
		injectionsByVL: make(map[string][]*Injection),
		groupedEdges:   make(map[string][]*Edge),

		nodesByEquipment:    make(map[string]*Node, len(m.Nodes)),
		edgesByEquipment:    make(map[string]*Edge, len(m.Edges)),
		busNodesByEquipment: make(map[string]*BusNode, len(m.BusNodes)),
	}
	for _, n := range m.Nodes {
		idx.nodes[n.SvgID] = n
		idx.nodesByEquipment[n.EquipmentID] = n
	}
	for _, b := range m.BusNodes {
		idx.busNodes[b.SvgID] = b
		idx.busNodesByVL[b.VLNode] = append(idx.busNodesByVL[b.VLNode], b)
		idx.busNodesByEquipment[b.EquipmentID] = b
	}
	for _, e := range m.Edges {
		idx.edges[e.SvgID] = e
		idx.edgesByEquipment[e.EquipmentID] = e
		idx.edgesByNode[e.Node1] = append(idx.edgesByNode[e.Node1], e)
		if e.Node2 != e.Node1 {
			idx.edgesByNode[e.Node2] = append(idx.edgesByNode[e.Node2], e)
		}
		if key := GroupedEdgesKey(e); key != "" {
			idx.groupedEdges[key] = append(idx.groupedEdges[key], e)
		}
	}
	for _, t := range m.TextNodes {
		idx.textNodes[t.SvgID] = t
		idx.textNodeByVL[t.VLNode] = t
	}
	for _, inj := range m.Injections {
		idx.injections[inj.SvgID] = inj
		idx.injectionsByVL[inj.VLNode] = append(idx.injectionsByVL[inj.VLNode], inj)
	}
	m.idx = idx
	return idx
}

// InvalidateIndex drops the lookup maps; they are rebuilt on next use. Call it
// after structurally changing any of the metadata lists.
func (m *Metadata) InvalidateIndex() {
	m.idx = nil
}

// Node returns the node with the given svg id, or nil.
func (m *Metadata) Node(svgID string) *Node {
	return m.ensureIndex().nodes[svgID]
}

// BusNode returns the bus node with the given svg id, or nil.
func (m *Metadata) BusNode(svgID string) *BusNode {
	return m.ensureIndex().busNodes[svgID]
}

// Edge returns the edge with the given svg id, or nil.
func (m *Metadata) Edge(svgID string) *Edge {
	return m.ensureIndex().edges[svgID]
}

// TextNode returns the text node with the given svg id, or nil.
func (m *Metadata) TextNode(svgID string) *TextNode {
	return m.ensureIndex().textNodes[svgID]
}

// TextNodeForVL returns the text node attached to a voltage level, or nil.
func (m *Metadata) TextNodeForVL(vlNodeID string) *TextNode {
	return m.ensureIndex().textNodeByVL[vlNodeID]
}

// BusNodesOf returns the bus nodes of a voltage level, in document order.
func (m *Metadata) BusNodesOf(vlNodeID string) []*BusNode {
	return m.ensureIndex().busNodesByVL[vlNodeID]
}

// EdgesAt returns every edge touching the given node (loop edges once).
func (m *Metadata) EdgesAt(nodeID string) []*Edge {
	return m.ensureIndex().edgesByNode[nodeID]
}

// Injection returns the injection with the given svg id, or nil.
func (m *Metadata) Injection(svgID string) *Injection {
	return m.ensureIndex().injections[svgID]
}

// InjectionsOf returns the injections attached to a voltage level.
func (m *Metadata) InjectionsOf(vlNodeID string) []*Injection {
	return m.ensureIndex().injectionsByVL[vlNodeID]
}

// NodeByEquipmentID returns the node with the given equipment id, or nil.
func (m *Metadata) NodeByEquipmentID(equipmentID string) *Node {
	return m.ensureIndex().nodesByEquipment[equipmentID]
}

// EdgeByEquipmentID returns the edge with the given equipment id, or nil.
func (m *Metadata) EdgeByEquipmentID(equipmentID string) *Edge {
	return m.ensureIndex().edgesByEquipment[equipmentID]
}

// BusNodeByEquipmentID returns the bus node with the given equipment id, or
// nil.
func (m *Metadata) BusNodeByEquipmentID(equipmentID string) *BusNode {
	return m.ensureIndex().busNodesByEquipment[equipmentID]
}

// GroupedEdgesKey returns the canonical unordered pair key grouping parallel
// edges that share the same two end nodes. The comparison is lexical, not
// numeric. Loop edges are excluded from grouping and yield "".
func GroupedEdgesKey(e *Edge) string {
	if e.IsLoop() {
		return ""
	}
	if strings.Compare(e.Node1, e.Node2) <= 0 {
		return e.Node1 + "_" + e.Node2
	}
	return e.Node2 + "_" + e.Node1
}

// EdgeGroup returns the parallel group the edge belongs to and its position
// within it. Loop edges form a group of one at position 0.
func (m *Metadata) EdgeGroup(e *Edge) (group []*Edge, position int) {
	key := GroupedEdgesKey(e)
	if key == "" {
		return []*Edge{e}, 0
	}
	group = m.ensureIndex().groupedEdges[key]
	for i, other := range group {
		if other == e {
			return group, i
		}
	}
	// Edge not in its own group: the index predates a metadata swap.
	return []*Edge{e}, 0
}
