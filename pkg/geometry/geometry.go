// Package geometry provides the pure spatial predicates used by every
// higher layer: point-in-polygon, Euclidean distance, radius containment.
// All functions are stateless and referentially transparent.
package geometry

import (
	"math"

	"github.com/mesh-intelligence/gardenplot/pkg/types"
)

// PointInPolygon reports whether the point lies inside the polygon using
// the ray-casting algorithm: a horizontal ray from the point toggles an
// inside flag on each edge crossing. Degenerate polygons (nil, empty,
// fewer than three vertices) never contain any point.
//
// Points exactly on a polygon edge have implementation-defined results.
// This is a known ambiguity of the crossing test; callers should only
// rely on strictly interior and strictly exterior points.
func PointInPolygon(p types.Coordinate, poly types.Polygon) bool {
	if len(poly) < 3 {
		return false
	}

	inside := false
	j := len(poly) - 1
	for i := 0; i < len(poly); i++ {
		vi, vj := poly[i], poly[j]
		crosses := (vi.Y > p.Y) != (vj.Y > p.Y)
		if crosses && p.X < (vj.X-vi.X)*(p.Y-vi.Y)/(vj.Y-vi.Y)+vi.X {
			inside = !inside
		}
		j = i
	}
	return inside
}

// Distance returns the Euclidean distance between two coordinates.
func Distance(a, b types.Coordinate) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

// WithinRadius reports whether b lies within radius units of a.
func WithinRadius(a, b types.Coordinate, radius float64) bool {
	return Distance(a, b) <= radius
}
