package types

import "time"

// Structure is a fixed polygonal area that blocks planting: a building,
// a path, a water tank. Loaded from the reference config or created by
// an administrative operation, effectively immutable thereafter.
type Structure struct {
	StructureID string    `json:"structure_id"`
	Name        string    `json:"name"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
	Polygon     Polygon   `json:"polygon"`
	CreatedAt   time.Time `json:"created_at"`
}

// Validate checks the structure is usable as a blocking area.
// Returns ErrInvalidPolygon when the polygon has fewer than three
// vertices. Degenerate polygons are still tolerated by the geometry
// layer (they contain no point); Validate exists for the creation path.
func (s Structure) Validate() error {
	if len(s.Polygon) < 3 {
		return ErrInvalidPolygon
	}
	return nil
}
