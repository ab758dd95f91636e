package geometry

import "math"

// Radians converts an angle in degrees to radians.
func Radians(degrees float64) float64 {
	return degrees * math.Pi / 180
}

// Degrees converts an angle in radians to degrees.
func Degrees(radians float64) float64 {
	return radians * 180 / math.Pi
}

// Clamp limits v to the range [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// SquaredSegmentDistance returns the squared distance from p to the segment
// [a, b]. The projection parameter is clamped to the segment, so endpoints
// count as nearest points for candidates beyond either end.
func SquaredSegmentDistance(p, a, b Point) float64 {
	dx := b.X - a.X
	dy := b.Y - a.Y
	lengthSq := dx*dx + dy*dy
	t := 0.0
	if lengthSq > 0 {
		t = Clamp(((p.X-a.X)*dx+(p.Y-a.Y)*dy)/lengthSq, 0, 1)
	}
	nx := a.X + t*dx - p.X
	ny := a.Y + t*dy - p.Y
	return nx*nx + ny*ny
}

// PolylineLength returns the cumulative length of the polyline.
func PolylineLength(points []Point) float64 {
	length := 0.0
	for i := 1; i < len(points); i++ {
		length += Distance(points[i-1], points[i])
	}
	return length
}

// SplitAtHalfLength splits a polyline at exactly half its cumulative length,
// inserting an interpolated point there. The first half runs from the first
// point to the split point; the second half runs from the last point back to
// the split point.
func SplitAtHalfLength(chain []Point) (first, second []Point) {
	if len(chain) < 2 {
		return nil, nil
	}
	half := PolylineLength(chain) / 2
	walked := 0.0
	for i := 1; i < len(chain); i++ {
		segment := Distance(chain[i-1], chain[i])
		if walked+segment >= half {
			t := 0.0
			if segment > 0 {
				t = (half - walked) / segment
			}
			mid := Interpolate(chain[i-1], chain[i], t)
			first = append(append([]Point{}, chain[:i]...), mid)
			for j := len(chain) - 1; j >= i; j-- {
				second = append(second, chain[j])
			}
			second = append(second, mid)
			return first, second
		}
		walked += segment
	}
	// Zero-length chain: split at the last point.
	first = append([]Point{}, chain...)
	second = []Point{chain[len(chain)-1]}
	return first, second
}
