// Package geometry contains the plane math used throughout the gridview
// diagram engine. All coordinates are in diagram units (SVG user space).
package geometry

import (
	"math"
	"strconv"
)

// Point represents a 2D coordinate in the diagram.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns p translated by (dx, dy).
func (p Point) Add(dx, dy float64) Point {
	return Point{X: p.X + dx, Y: p.Y + dy}
}

// Sub returns the vector from q to p.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Distance returns the Euclidean distance between two points.
func Distance(a, b Point) float64 {
	return math.Hypot(b.X-a.X, b.Y-a.Y)
}

// Midpoint returns the point halfway between a and b.
func Midpoint(a, b Point) Point {
	return Point{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2}
}

// Angle returns the angle of the vector from a to b, in radians.
func Angle(a, b Point) float64 {
	return math.Atan2(b.Y-a.Y, b.X-a.X)
}

// PointAtAngle returns the point at the given distance from center in the
// given direction.
func PointAtAngle(center Point, angle, distance float64) Point {
	return Point{
		X: center.X + distance*math.Cos(angle),
		Y: center.Y + distance*math.Sin(angle),
	}
}

// PointAtDistance returns the point at the given distance from a, in the
// direction of b.
func PointAtDistance(a, b Point, distance float64) Point {
	return PointAtAngle(a, Angle(a, b), distance)
}

// Interpolate returns the point a fraction t of the way from a to b.
func Interpolate(a, b Point, t float64) Point {
	return Point{X: a.X + t*(b.X-a.X), Y: a.Y + t*(b.Y-a.Y)}
}

// Translate returns a copy of points shifted by (dx, dy).
func Translate(points []Point, dx, dy float64) []Point {
	out := make([]Point, len(points))
	for i, p := range points {
		out[i] = p.Add(dx, dy)
	}
	return out
}

// Round2 rounds v to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Round2Point rounds both coordinates of p to two decimal places.
func Round2Point(p Point) Point {
	return Point{X: Round2(p.X), Y: Round2(p.Y)}
}

// FormatCoord formats a coordinate rounded to two decimal places, with no
// trailing zeros, the way it is written into SVG attributes.
func FormatCoord(v float64) string {
	return strconv.FormatFloat(Round2(v), 'f', -1, 64)
}
