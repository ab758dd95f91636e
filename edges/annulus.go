package edges

import (
	"fmt"
	"math"
	"strings"

	"gridview/diagram"
	"gridview/geometry"
)

// FragmentedAnnulusPath draws a bus annulus as a sequence of closed slices
// between consecutive attachment angles, each inset by half the hollow width
// (converted to an angle at the respective radius) so edges enter the ring
// through a visual gap. Coordinates are local to the node center. Angles must
// be sorted ascending with the first angle duplicated at +2π, as produced by
// diagram.SortedAngles. Slices whose inset range inverts are skipped. With no
// attachment angles the whole annulus is drawn.
func FragmentedAnnulusPath(sortedAngles []float64, r diagram.NodeRadius, hollowWidth float64) string {
	if len(sortedAngles) < 2 {
		return fullAnnulusPath(r)
	}
	halfWidth := hollowWidth / 2
	outerInset := halfWidth / r.BusOuterRadius
	innerInset := 0.0
	if r.BusInnerRadius > 0 {
		innerInset = halfWidth / r.BusInnerRadius
	}

	var path strings.Builder
	for i := 0; i < len(sortedAngles)-1; i++ {
		outerStart := sortedAngles[i] + outerInset
		outerEnd := sortedAngles[i+1] - outerInset
		if outerEnd <= outerStart {
			continue
		}
		innerStart := sortedAngles[i] + innerInset
		innerEnd := sortedAngles[i+1] - innerInset
		if r.BusInnerRadius > 0 && innerEnd <= innerStart {
			continue
		}

		largeArc := 0
		if outerEnd-outerStart > math.Pi {
			largeArc = 1
		}
		p1 := geometry.PointAtAngle(geometry.Point{}, outerStart, r.BusOuterRadius)
		p2 := geometry.PointAtAngle(geometry.Point{}, outerEnd, r.BusOuterRadius)
		fmt.Fprintf(&path, "M%s,%s A%s,%s 0 %d 1 %s,%s ",
			geometry.FormatCoord(p1.X), geometry.FormatCoord(p1.Y),
			geometry.FormatCoord(r.BusOuterRadius), geometry.FormatCoord(r.BusOuterRadius),
			largeArc,
			geometry.FormatCoord(p2.X), geometry.FormatCoord(p2.Y))

		if r.BusInnerRadius > 0 {
			p3 := geometry.PointAtAngle(geometry.Point{}, innerEnd, r.BusInnerRadius)
			p4 := geometry.PointAtAngle(geometry.Point{}, innerStart, r.BusInnerRadius)
			fmt.Fprintf(&path, "L%s,%s A%s,%s 0 %d 0 %s,%s Z ",
				geometry.FormatCoord(p3.X), geometry.FormatCoord(p3.Y),
				geometry.FormatCoord(r.BusInnerRadius), geometry.FormatCoord(r.BusInnerRadius),
				largeArc,
				geometry.FormatCoord(p4.X), geometry.FormatCoord(p4.Y))
		} else {
			path.WriteString("L0,0 Z ")
		}
	}
	if path.Len() == 0 {
		// Every slice inverted: fall back to the whole ring.
		return fullAnnulusPath(r)
	}
	return strings.TrimRight(path.String(), " ")
}

// fullAnnulusPath draws the complete annulus as two full-circle arc pairs,
// the inner circle subtracted by winding the opposite way.
func fullAnnulusPath(r diagram.NodeRadius) string {
	var path strings.Builder
	circle := func(radius float64, sweep int) {
		right := geometry.FormatCoord(radius)
		left := geometry.FormatCoord(-radius)
		fmt.Fprintf(&path, "M%s,0 A%s,%s 0 1 %d %s,0 A%s,%s 0 1 %d %s,0 Z",
			right, right, right, sweep, left, right, right, sweep, right)
	}
	circle(r.BusOuterRadius, 1)
	if r.BusInnerRadius > 0 {
		path.WriteString(" ")
		circle(r.BusInnerRadius, 0)
	}
	return path.String()
}
