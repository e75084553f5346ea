package types

import (
	"strconv"
	"time"
)

// Annotation kinds carried over from the reference data model.
const (
	AnnotationNote     = "note"
	AnnotationEvent    = "event"
	AnnotationReminder = "reminder"
	AnnotationPhoto    = "photo"
)

// Specificity levels: what scale of the garden the note applies to.
const (
	SpecificityIndividual = "individual"
	SpecificitySpecies    = "species"
	SpecificityWindow     = "window"
	SpecificitySeason     = "season"
)

// Annotation target kinds. Every annotation resolves to exactly one.
const (
	TargetCrop   = "crop"
	TargetType   = "type"
	TargetGarden = "garden"
)

// Annotation is a free-text note attached to exactly one of: a placed
// crop, a vegetable type, or the garden as a whole. Annotations are
// created on demand and never mutated.
type Annotation struct {
	AnnotationID string    `json:"annotation_id"`
	Kind         string    `json:"kind"`
	Specificity  string    `json:"specificity"`
	NotedAt      time.Time `json:"noted_at"`
	Note         string    `json:"note"`
	Photos       []string  `json:"photos,omitempty"`
	Season       string    `json:"season,omitempty"`

	// Target references. At most one may be set; both unset means the
	// annotation targets the garden.
	CropID string `json:"crop_id,omitempty"`
	TypeID int    `json:"type_id,omitempty"`
}

// Target returns the target kind and the referenced id. The id is empty
// for garden-level annotations and is the decimal type id for
// vegetable-type annotations.
func (a Annotation) Target() (kind, id string) {
	switch {
	case a.CropID != "":
		return TargetCrop, a.CropID
	case a.TypeID != 0:
		return TargetType, strconv.Itoa(a.TypeID)
	default:
		return TargetGarden, ""
	}
}

// Validate checks the single-target invariant.
// Returns ErrAmbiguousTarget when both a crop and a vegetable type are
// referenced.
func (a Annotation) Validate() error {
	if a.CropID != "" && a.TypeID != 0 {
		return ErrAmbiguousTarget
	}
	return nil
}
