package diagram

import (
	"math"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"gridview/geometry"
)

// TestBendPointProperties checks the invariants of bend-point insertion and
// the half-length split for arbitrary point chains.
func TestBendPointProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50

	properties := gopter.NewProperties(parameters)

	genCoord := gen.Float64Range(-1000, 1000)
	genPoint := gopter.CombineGens(genCoord, genCoord).Map(func(vals []interface{}) geometry.Point {
		return geometry.Point{X: vals[0].(float64), Y: vals[1].(float64)}
	})
	genPoints := gen.SliceOf(genPoint)

	properties.Property("insertion grows the list by one at a valid index", prop.ForAll(
		func(points []geometry.Point, node1, node2, newPoint geometry.Point) bool {
			out, index := AddPointToList(points, node1, node2, newPoint)
			if len(out) != len(points)+1 {
				return false
			}
			if index < 0 || index >= len(out) {
				return false
			}
			return out[index] == newPoint
		},
		genPoints, genPoint, genPoint, genPoint,
	))

	properties.Property("removal at the returned index restores the list", prop.ForAll(
		func(points []geometry.Point, node1, node2, newPoint geometry.Point) bool {
			out, index := AddPointToList(points, node1, node2, newPoint)
			restored := RemovePointAt(out, index)
			if len(restored) != len(points) {
				return false
			}
			for i := range points {
				if restored[i] != points[i] {
					return false
				}
			}
			return true
		},
		genPoints, genPoint, genPoint, genPoint,
	))

	properties.Property("split halves share the point at half the chain length", prop.ForAll(
		func(bends []geometry.Point, start1, start2 geometry.Point) bool {
			chain := make([]geometry.Point, 0, len(bends)+2)
			chain = append(chain, start1)
			chain = append(chain, bends...)
			chain = append(chain, start2)

			first, second := geometry.SplitAtHalfLength(chain)
			if len(first) == 0 || len(second) == 0 {
				return false
			}
			if first[len(first)-1] != second[len(second)-1] {
				return false
			}
			half := geometry.PolylineLength(chain) / 2
			return math.Abs(geometry.PolylineLength(first)-half) < 1e-6
		},
		genPoints, genPoint, genPoint,
	))

	properties.TestingRun(t)
}
