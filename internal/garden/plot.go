// Package garden holds the in-memory domain model of the plot and the
// collaborator-facing service that keeps it in sync with the store.
package garden

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mesh-intelligence/gardenplot/pkg/geometry"
	"github.com/mesh-intelligence/gardenplot/pkg/types"
)

// Plot is the authoritative in-memory set of crops, structures,
// annotations, and vegetable reference data. All mutating operations are
// visible to subsequent reads within the process; persistence is the
// store adapter's job, not the Plot's.
//
// A Plot is safe for concurrent use. Reads return copies.
type Plot struct {
	mu sync.RWMutex

	config      types.Config
	vegOrder    []int
	vegetables  map[int]types.VegetableType
	crops       []types.PlacedCrop
	structures  []types.Structure
	annotations []types.Annotation
}

// NewPlot creates a Plot with the given configuration and reference data.
// Vegetable types and structures are read-mostly after this point.
func NewPlot(config types.Config, vegetables []types.VegetableType, structures []types.Structure) *Plot {
	p := &Plot{
		config:     config,
		vegetables: make(map[int]types.VegetableType, len(vegetables)),
		structures: append([]types.Structure(nil), structures...),
	}
	for _, veg := range vegetables {
		if _, ok := p.vegetables[veg.ID]; !ok {
			p.vegOrder = append(p.vegOrder, veg.ID)
		}
		p.vegetables[veg.ID] = veg
	}
	return p
}

// newID generates a UUID v7 entity id, falling back to v4 when the
// monotonic clock source fails.
func newID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}

// PlaceCrop validates and stores a crop. The vegetable type must exist
// and the coordinate must not lie within the collision radius of any
// active crop. An empty CropID is assigned; an empty Status becomes
// active. Returns the crop id.
func (p *Plot) PlaceCrop(crop types.PlacedCrop) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := p.vegetables[crop.TypeID]; !ok {
		return "", types.ErrUnknownVegetable
	}

	radius := p.config.GetCollisionRadius()
	for _, existing := range p.crops {
		if !existing.Active() {
			continue
		}
		if geometry.Distance(existing.Coord, crop.Coord) < radius {
			return "", types.ErrCollision
		}
	}

	if crop.CropID == "" {
		crop.CropID = newID()
	}
	if crop.Status == "" {
		crop.Status = types.CropStatusActive
	}
	p.crops = append(p.crops, crop)
	return crop.CropID, nil
}

// FindCropAt returns the first active crop within the lookup tolerance of
// the coordinate. A miss is not an error: the second result is false.
func (p *Plot) FindCropAt(x, y float64) (types.PlacedCrop, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	point := types.Coordinate{X: x, Y: y}
	tolerance := p.config.GetLookupTolerance()
	for _, crop := range p.crops {
		if !crop.Active() {
			continue
		}
		if geometry.Distance(crop.Coord, point) < tolerance {
			return crop, true
		}
	}
	return types.PlacedCrop{}, false
}

// Crop returns the crop with the given id.
func (p *Plot) Crop(id string) (types.PlacedCrop, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	for _, crop := range p.crops {
		if crop.CropID == id {
			return crop, true
		}
	}
	return types.PlacedCrop{}, false
}

// SetCropStatus transitions the status of an existing crop.
// Returns ErrNotFound for unknown ids and ErrInvalidStatus for
// unrecognized status values.
func (p *Plot) SetCropStatus(id, status string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	for i := range p.crops {
		if p.crops[i].CropID == id {
			return p.crops[i].SetStatus(status)
		}
	}
	return types.ErrNotFound
}

// RemoveCrop marks a crop removed. The record stays for history; its
// coordinate no longer blocks planting.
func (p *Plot) RemoveCrop(id string) error {
	return p.SetCropStatus(id, types.CropStatusRemoved)
}

// Crops returns a snapshot of all crops in insertion order.
func (p *Plot) Crops() []types.PlacedCrop {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return append([]types.PlacedCrop(nil), p.crops...)
}

// CropsOfType returns all crops referencing the given vegetable type.
func (p *Plot) CropsOfType(typeID int) []types.PlacedCrop {
	p.mu.RLock()
	defer p.mu.RUnlock()

	var out []types.PlacedCrop
	for _, crop := range p.crops {
		if crop.TypeID == typeID {
			out = append(out, crop)
		}
	}
	return out
}

// AddStructure validates and stores a structure. An empty StructureID is
// assigned, a zero CreatedAt is stamped.
func (p *Plot) AddStructure(st types.Structure) (string, error) {
	if err := st.Validate(); err != nil {
		return "", err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if st.StructureID == "" {
		st.StructureID = newID()
	}
	if st.CreatedAt.IsZero() {
		st.CreatedAt = time.Now().UTC()
	}
	p.structures = append(p.structures, st)
	return st.StructureID, nil
}

// Structures returns a snapshot of all structures.
func (p *Plot) Structures() []types.Structure {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return append([]types.Structure(nil), p.structures...)
}

// AddAnnotation validates and stores an annotation by append. An empty
// AnnotationID is assigned, a zero NotedAt is stamped. There is no
// uniqueness check on content.
func (p *Plot) AddAnnotation(ann types.Annotation) (string, error) {
	if err := ann.Validate(); err != nil {
		return "", err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if ann.TypeID != 0 {
		if _, ok := p.vegetables[ann.TypeID]; !ok {
			return "", types.ErrUnknownVegetable
		}
	}

	if ann.AnnotationID == "" {
		ann.AnnotationID = newID()
	}
	if ann.NotedAt.IsZero() {
		ann.NotedAt = time.Now().UTC()
	}
	p.annotations = append(p.annotations, ann)
	return ann.AnnotationID, nil
}

// Annotation returns the annotation with the given id.
func (p *Plot) Annotation(id string) (types.Annotation, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	for _, ann := range p.annotations {
		if ann.AnnotationID == id {
			return ann, true
		}
	}
	return types.Annotation{}, false
}

// Structure returns the structure with the given id.
func (p *Plot) Structure(id string) (types.Structure, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	for _, st := range p.structures {
		if st.StructureID == id {
			return st, true
		}
	}
	return types.Structure{}, false
}

// AnnotationsFor returns annotations whose target matches exactly, in
// insertion order. Garden-level annotations are only returned for
// kind=TargetGarden, never for crop or type queries.
func (p *Plot) AnnotationsFor(kind, id string) []types.Annotation {
	p.mu.RLock()
	defer p.mu.RUnlock()

	var out []types.Annotation
	for _, ann := range p.annotations {
		annKind, annID := ann.Target()
		if annKind != kind {
			continue
		}
		if kind != types.TargetGarden && annID != id {
			continue
		}
		out = append(out, ann)
	}
	return out
}

// VegetableType returns the reference record for the given id.
func (p *Plot) VegetableType(id int) (types.VegetableType, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	veg, ok := p.vegetables[id]
	return veg, ok
}

// VegetableTypes returns all vegetable types in configuration order.
func (p *Plot) VegetableTypes() []types.VegetableType {
	p.mu.RLock()
	defer p.mu.RUnlock()

	out := make([]types.VegetableType, 0, len(p.vegOrder))
	for _, id := range p.vegOrder {
		out = append(out, p.vegetables[id])
	}
	return out
}

// Config returns the plot configuration.
func (p *Plot) Config() types.Config {
	return p.config
}
