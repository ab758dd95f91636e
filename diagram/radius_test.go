package diagram

import (
	"log/slog"
	"math"
	"testing"

	"gridview/params"
)

func TestNodeRadiusForSingleBus(t *testing.T) {
	bus := &BusNode{Index: 0, NbNeighbours: 0}
	r := NodeRadiusFor(bus, &Node{}, params.SvgParameters{})

	if r.BusInnerRadius != 0 {
		t.Errorf("inner radius = %v, want 0", r.BusInnerRadius)
	}
	if r.BusOuterRadius != 27.5 {
		t.Errorf("outer radius = %v, want 27.5", r.BusOuterRadius)
	}
	if r.VoltageLevelRadius != 30 {
		t.Errorf("voltage level radius = %v, want 30", r.VoltageLevelRadius)
	}
}

func TestNodeRadiusForOutermostOfThree(t *testing.T) {
	bus := &BusNode{Index: 2, NbNeighbours: 2}
	r := NodeRadiusFor(bus, &Node{}, params.SvgParameters{})

	if r.BusInnerRadius != 42.5 {
		t.Errorf("inner radius = %v, want 42.5", r.BusInnerRadius)
	}
	if r.BusOuterRadius != 57.5 {
		t.Errorf("outer radius = %v, want 57.5", r.BusOuterRadius)
	}
	if r.VoltageLevelRadius != 60 {
		t.Errorf("voltage level radius = %v, want 60", r.VoltageLevelRadius)
	}
}

func TestOuterRadiusGrowsByUnitaryStep(t *testing.T) {
	p := params.SvgParameters{}
	node := &Node{}
	for nb := 0; nb < 5; nb++ {
		vl := VoltageLevelRadius(nb+1, node, p)
		unitary := vl / float64(nb+1)
		for i := 1; i <= nb; i++ {
			prev := NodeRadiusFor(&BusNode{Index: i - 1, NbNeighbours: nb}, node, p)
			cur := NodeRadiusFor(&BusNode{Index: i, NbNeighbours: nb}, node, p)
			if got := cur.BusOuterRadius - prev.BusOuterRadius; math.Abs(got-unitary) > 1e-9 {
				t.Errorf("nb=%d index=%d: outer step = %v, want %v", nb, i, got, unitary)
			}
		}
	}
}

func TestVoltageLevelRadiusClampsAtTwoBuses(t *testing.T) {
	p := params.SvgParameters{}
	node := &Node{}
	if got := VoltageLevelRadius(2, node, p); got != 60 {
		t.Errorf("radius for 2 buses = %v, want 60", got)
	}
	// Three or more buses do not grow the circle further.
	if got := VoltageLevelRadius(5, node, p); got != 60 {
		t.Errorf("radius for 5 buses = %v, want 60", got)
	}
}

func TestVoltageLevelRadiusFictitious(t *testing.T) {
	p := params.SvgParameters{}
	if got := VoltageLevelRadius(1, &Node{Fictitious: true}, p); got != 15 {
		t.Errorf("fictitious radius = %v, want 15", got)
	}
}

func TestSortedBusNodesDropsNegativeAndSkipsGaps(t *testing.T) {
	m := &Metadata{
		BusNodes: []*BusNode{
			{SvgID: "b3", VLNode: "vl", Index: 3},
			{SvgID: "bneg", VLNode: "vl", Index: -1},
			{SvgID: "b0", VLNode: "vl", Index: 0},
		},
	}
	sorted := m.SortedBusNodes("vl", slog.Default())

	if len(sorted) != 2 {
		t.Fatalf("got %d buses, want 2", len(sorted))
	}
	if sorted[0].SvgID != "b0" || sorted[1].SvgID != "b3" {
		t.Errorf("got order [%s %s], want [b0 b3]", sorted[0].SvgID, sorted[1].SvgID)
	}
}

func TestSortedAnglesClosesCircle(t *testing.T) {
	angles := SortedAngles([]float64{2.0, -1.0, 0.5})
	want := []float64{-1.0, 0.5, 2.0, -1.0 + 2*math.Pi}
	if len(angles) != len(want) {
		t.Fatalf("got %d angles, want %d", len(angles), len(want))
	}
	for i := range want {
		if math.Abs(angles[i]-want[i]) > 1e-12 {
			t.Errorf("angles[%d] = %v, want %v", i, angles[i], want[i])
		}
	}
}
