package types

import "time"

// Crop status values. A crop is created active; harvest and removal are
// status transitions, the node itself is never mutated otherwise.
const (
	CropStatusActive    = "active"
	CropStatusHarvested = "harvested"
	CropStatusRemoved   = "removed"
)

// validCropStatuses is the set of recognized crop status values.
var validCropStatuses = map[string]bool{
	CropStatusActive:    true,
	CropStatusHarvested: true,
	CropStatusRemoved:   true,
}

// PlacedCrop is a single planted instance of a vegetable type at a
// coordinate on the garden canvas.
type PlacedCrop struct {
	CropID string     `json:"crop_id"`
	TypeID int        `json:"type_id"`
	Coord  Coordinate `json:"coord"`
	SownAt time.Time  `json:"sown_at"`
	Status string     `json:"status"`
}

// SetStatus sets the crop status to the given value.
// Returns ErrInvalidStatus if the value is not recognized.
// Idempotent: setting the current status succeeds without error.
func (c *PlacedCrop) SetStatus(status string) error {
	if !validCropStatuses[status] {
		return ErrInvalidStatus
	}
	c.Status = status
	return nil
}

// Active reports whether the crop still occupies its coordinate for
// collision purposes.
func (c PlacedCrop) Active() bool {
	return c.Status == CropStatusActive
}
