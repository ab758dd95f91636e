package viewer

import (
	"gridview/geometry"
	"gridview/svgdoc"
)

// snapshotReader serves rendered geometry captured at drag start. During a
// drag the engine must see the geometry the gesture began from, not elements
// already patched by earlier moves of the same gesture; captured ids resolve
// from the snapshot, everything else falls through to the live document.
type snapshotReader struct {
	doc    *svgdoc.Document
	points map[string][]geometry.Point
	attrs  map[string]capturedAttr
}

type capturedAttr struct {
	name  string // "points" or "d"
	value string
}

func newSnapshotReader(doc *svgdoc.Document) *snapshotReader {
	return &snapshotReader{
		doc:    doc,
		points: make(map[string][]geometry.Point),
		attrs:  make(map[string]capturedAttr),
	}
}

// Capture records the current rendered geometry of the element, if any.
func (s *snapshotReader) Capture(svgID string) {
	el := s.doc.ElementByID(svgID)
	if el == nil {
		return
	}
	switch el.Name {
	case "polyline", "polygon":
		s.attrs[svgID] = capturedAttr{name: "points", value: el.Attr("points")}
	case "path":
		s.attrs[svgID] = capturedAttr{name: "d", value: el.Attr("d")}
	}
	if points, ok := s.doc.RenderedPoints(svgID); ok {
		s.points[svgID] = points
	}
}

// RenderedPoints implements edges.RenderedPathReader over the snapshot.
func (s *snapshotReader) RenderedPoints(svgID string) ([]geometry.Point, bool) {
	if points, ok := s.points[svgID]; ok {
		return points, true
	}
	return s.doc.RenderedPoints(svgID)
}

// RawAttr returns the captured geometry attribute of an element.
func (s *snapshotReader) RawAttr(svgID string) (name, value string, ok bool) {
	a, ok := s.attrs[svgID]
	return a.name, a.value, ok
}
