package types

import "errors"

// Domain errors returned by the in-memory plot and the store layer.
var (
	// ErrCollision is returned by PlaceCrop when the requested coordinate
	// lies within the collision radius of an existing active crop. Always
	// recoverable: pick another coordinate.
	ErrCollision = errors.New("crop collides with an existing crop")

	// ErrUnknownVegetable is returned when a crop or annotation references
	// a vegetable type id that is not present in the reference set.
	ErrUnknownVegetable = errors.New("unknown vegetable type")

	// ErrInvalidPolygon is returned when a structure polygon has fewer
	// than three vertices.
	ErrInvalidPolygon = errors.New("polygon needs at least three vertices")

	// ErrAmbiguousTarget is returned when an annotation sets more than one
	// target reference. An annotation targets a crop, a vegetable type, or
	// the garden as a whole, never several at once.
	ErrAmbiguousTarget = errors.New("annotation has more than one target")

	// ErrNotFound is returned when an entity id does not resolve.
	ErrNotFound = errors.New("entity not found")

	// ErrStoreClosed is returned by store operations after Close.
	ErrStoreClosed = errors.New("store is closed")

	// ErrInvalidStatus is returned for unrecognized crop status values.
	ErrInvalidStatus = errors.New("invalid crop status")
)
