package diagram

import (
	"testing"

	"gridview/params"
)

func TestComputeViewBox(t *testing.T) {
	m := &Metadata{
		Nodes: []*Node{
			{SvgID: "n1", X: -500, Y: -500},
			{SvgID: "n2", X: 500, Y: 500},
		},
		TextNodes: []*TextNode{
			{SvgID: "t1", VLNode: "n1", ShiftX: 100, ShiftY: -40},
			{SvgID: "t2", VLNode: "n2", ShiftX: 100, ShiftY: -40},
		},
	}
	vb := ComputeViewBox(m, params.LayoutParameters{})

	want := ViewBox{X: -700, Y: -740, Width: 1700, Height: 1500}
	if vb != want {
		t.Errorf("got %+v, want %+v", vb, want)
	}
}

func TestComputeViewBoxEmpty(t *testing.T) {
	if vb := ComputeViewBox(&Metadata{}, params.LayoutParameters{}); vb != (ViewBox{}) {
		t.Errorf("got %+v, want zero view box", vb)
	}
}

func TestComputeViewBoxSkipsOrphanTextNodes(t *testing.T) {
	m := &Metadata{
		Nodes:     []*Node{{SvgID: "n1", X: 0, Y: 0}},
		TextNodes: []*TextNode{{SvgID: "t1", VLNode: "missing", ShiftX: 9999, ShiftY: 9999}},
	}
	vb := ComputeViewBox(m, params.LayoutParameters{})
	want := ViewBox{X: -200, Y: -200, Width: 400, Height: 400}
	if vb != want {
		t.Errorf("got %+v, want %+v", vb, want)
	}
}

func TestMaxDimension(t *testing.T) {
	vb := ViewBox{Width: 100, Height: 300}
	if got := vb.MaxDimension(); got != 300 {
		t.Errorf("got %v, want 300", got)
	}
}
