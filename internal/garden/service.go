package garden

import (
	"context"
	"log/slog"

	"github.com/mesh-intelligence/gardenplot/internal/spatial"
	"github.com/mesh-intelligence/gardenplot/internal/store"
	"github.com/mesh-intelligence/gardenplot/pkg/types"
)

// Service is the collaborator-facing surface of the persistence core.
// Writes land in the in-memory plot first and are then forwarded to the
// store best-effort; a persistence failure is logged and does not roll
// back the memory write. Reads prefer the store and degrade to the plot,
// so callers never need to know whether the store is available.
type Service struct {
	plot    *Plot
	adapter *store.Adapter
	engine  *spatial.Engine
	log     *slog.Logger
}

// NewService wires the service to its plot, adapter, and query engine.
func NewService(plot *Plot, adapter *store.Adapter, engine *spatial.Engine, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{plot: plot, adapter: adapter, engine: engine, log: log}
}

// Plot exposes the underlying in-memory model.
func (s *Service) Plot() *Plot {
	return s.plot
}

// PlaceCrop validates and stores a crop in memory, then persists it.
// Returns ErrCollision when the coordinate conflicts with an active crop
// and ErrUnknownVegetable for an unknown type id; both leave the plot
// unchanged. Persistence failure is invisible to the caller.
func (s *Service) PlaceCrop(ctx context.Context, crop types.PlacedCrop) (string, error) {
	id, err := s.plot.PlaceCrop(crop)
	if err != nil {
		return "", err
	}

	stored, _ := s.plot.Crop(id)
	if !s.adapter.CreateCrop(ctx, stored) {
		s.log.Debug("crop not persisted, memory copy authoritative", "crop_id", id)
	}
	return id, nil
}

// RemoveCrop marks a crop removed in memory and in the store.
func (s *Service) RemoveCrop(ctx context.Context, id string) error {
	if err := s.plot.RemoveCrop(id); err != nil {
		return err
	}
	if !s.adapter.SetCropStatus(ctx, id, types.CropStatusRemoved) {
		s.log.Debug("crop removal not persisted", "crop_id", id)
	}
	return nil
}

// SetCropStatus transitions a crop's lifecycle status in memory and in
// the store.
func (s *Service) SetCropStatus(ctx context.Context, id, status string) error {
	if err := s.plot.SetCropStatus(id, status); err != nil {
		return err
	}
	if !s.adapter.SetCropStatus(ctx, id, status) {
		s.log.Debug("crop status not persisted", "crop_id", id)
	}
	return nil
}

// AddAnnotation stores an annotation in memory, then persists it with
// its single target edge.
func (s *Service) AddAnnotation(ctx context.Context, ann types.Annotation) (string, error) {
	id, err := s.plot.AddAnnotation(ann)
	if err != nil {
		return "", err
	}

	stored, _ := s.plot.Annotation(id)
	if !s.adapter.CreateAnnotation(ctx, stored) {
		s.log.Debug("annotation not persisted, memory copy authoritative", "annotation_id", id)
	}
	return id, nil
}

// AddStructure stores a structure in memory, then persists it.
func (s *Service) AddStructure(ctx context.Context, st types.Structure) (string, error) {
	id, err := s.plot.AddStructure(st)
	if err != nil {
		return "", err
	}

	stored, _ := s.plot.Structure(id)
	if !s.adapter.CreateStructure(ctx, stored) {
		s.log.Debug("structure not persisted, memory copy authoritative", "structure_id", id)
	}
	return id, nil
}

// FindCropAt returns the crop at the coordinate within the lookup
// tolerance. The store is consulted opportunistically; the in-memory
// lookup remains the fallback of record.
func (s *Service) FindCropAt(ctx context.Context, x, y float64) (types.PlacedCrop, bool) {
	tolerance := s.plot.Config().GetLookupTolerance()

	if hit, ok := s.adapter.QueryByCoordinate(ctx, x, y, tolerance); ok {
		return types.PlacedCrop{
			CropID: hit.CropID,
			TypeID: hit.TypeID,
			Coord:  hit.Coord(),
			SownAt: hit.SownAt,
			Status: hit.Status,
		}, true
	}
	return s.plot.FindCropAt(x, y)
}

// NearestCrops returns up to limit active crops within radius of the
// point, closest first.
func (s *Service) NearestCrops(ctx context.Context, x, y, radius float64, limit int) []store.CropHit {
	return s.engine.NearestCrops(ctx, x, y, radius, limit)
}

// StructuresIntersecting returns all structures containing the point.
func (s *Service) StructuresIntersecting(ctx context.Context, x, y float64) []types.Structure {
	return s.engine.StructuresIntersecting(ctx, x, y)
}

// IsUsable reports whether the point is free of blocking structures.
func (s *Service) IsUsable(ctx context.Context, x, y float64) bool {
	return s.engine.IsUsable(ctx, x, y)
}

// CropsOfType returns all crops of a vegetable type, newest first.
func (s *Service) CropsOfType(ctx context.Context, typeID int) []store.CropHit {
	return s.engine.CropsOfType(ctx, typeID)
}

// AnnotationsFor returns annotations for the exact target, in insertion
// order.
func (s *Service) AnnotationsFor(kind, id string) []types.Annotation {
	return s.plot.AnnotationsFor(kind, id)
}

// MigrateReferenceData pushes the plot's vegetable types and structures
// into the store, skipping nodes that already exist. Intended to run
// once at startup; re-running is a no-op. Returns false when the store
// is unavailable.
func (s *Service) MigrateReferenceData(ctx context.Context) bool {
	ok := s.adapter.MigrateReferenceData(ctx, s.plot.VegetableTypes())
	for _, st := range s.plot.Structures() {
		if !s.adapter.CreateStructure(ctx, st) {
			ok = false
		}
	}
	return ok
}
