package types

// Coordinate is a point on the garden canvas. The canvas uses the same
// unit for both axes; crops, structures, and queries all share it.
type Coordinate struct {
	X float64 `json:"x" mapstructure:"x"`
	Y float64 `json:"y" mapstructure:"y"`
}

// Polygon is an ordered list of vertices. Polygons with fewer than three
// vertices are degenerate and never contain any point.
type Polygon []Coordinate
