package edges

import (
	"math"
	"strings"
	"testing"

	"gridview/diagram"
)

func TestFragmentedAnnulusPathNoAttachments(t *testing.T) {
	r := diagram.NodeRadius{BusOuterRadius: 27.5}
	path := FragmentedAnnulusPath(nil, r, 15)

	if !strings.HasPrefix(path, "M27.5,0") {
		t.Errorf("path %q does not start on the outer circle", path)
	}
	if strings.Count(path, "A") != 2 {
		t.Errorf("full disc should be two arcs, got %q", path)
	}
}

func TestFragmentedAnnulusPathFullRing(t *testing.T) {
	r := diagram.NodeRadius{BusInnerRadius: 42.5, BusOuterRadius: 57.5}
	path := FragmentedAnnulusPath(nil, r, 15)

	// Outer circle plus inner circle wound the opposite way.
	if strings.Count(path, "A") != 4 {
		t.Errorf("full ring should be four arcs, got %q", path)
	}
	if !strings.Contains(path, "M42.5,0") {
		t.Errorf("path %q has no inner circle", path)
	}
}

func TestFragmentedAnnulusPathTwoSlices(t *testing.T) {
	angles := diagram.SortedAngles([]float64{0, math.Pi})
	r := diagram.NodeRadius{BusOuterRadius: 27.5}
	path := FragmentedAnnulusPath(angles, r, 15)

	if got := strings.Count(path, "M"); got != 2 {
		t.Errorf("got %d slices, want 2: %q", got, path)
	}
	// Innermost bus closes each slice through the center.
	if !strings.Contains(path, "L0,0 Z") {
		t.Errorf("path %q does not close through the center", path)
	}
}

func TestFragmentedAnnulusPathInnerArcs(t *testing.T) {
	angles := diagram.SortedAngles([]float64{0, math.Pi})
	r := diagram.NodeRadius{BusInnerRadius: 42.5, BusOuterRadius: 57.5}
	path := FragmentedAnnulusPath(angles, r, 15)

	if got := strings.Count(path, "M"); got != 2 {
		t.Errorf("got %d slices, want 2: %q", got, path)
	}
	if strings.Contains(path, "L0,0") {
		t.Errorf("outer bus must not close through the center: %q", path)
	}
	// Each slice carries an outer and an inner arc.
	if got := strings.Count(path, "A"); got != 4 {
		t.Errorf("got %d arcs, want 4: %q", got, path)
	}
}

func TestFragmentedAnnulusPathSkipsInvertedSlices(t *testing.T) {
	// Two attachments closer than the hollow width: the slice between them
	// inverts and is dropped, leaving only the wide slice.
	angles := diagram.SortedAngles([]float64{0, 0.01})
	r := diagram.NodeRadius{BusOuterRadius: 27.5}
	path := FragmentedAnnulusPath(angles, r, 15)

	if got := strings.Count(path, "M"); got != 1 {
		t.Errorf("got %d slices, want 1: %q", got, path)
	}
}

func TestFragmentedAnnulusPathAllInvertedFallsBack(t *testing.T) {
	// Attachments packed so tight every slice inverts: draw the whole disc.
	angles := diagram.SortedAngles([]float64{0, 0.01, 0.02, 0.03})
	r := diagram.NodeRadius{BusOuterRadius: 27.5}
	path := FragmentedAnnulusPath(angles, r, 200)

	if !strings.HasPrefix(path, "M27.5,0") || strings.Count(path, "A") != 2 {
		t.Errorf("expected the full disc fallback, got %q", path)
	}
}
