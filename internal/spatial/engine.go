// Package spatial answers proximity and point-in-polygon queries over
// the garden, preferring the store and degrading to in-memory data.
package spatial

import (
	"context"
	"log/slog"
	"sort"

	"github.com/mesh-intelligence/gardenplot/internal/store"
	"github.com/mesh-intelligence/gardenplot/pkg/geometry"
	"github.com/mesh-intelligence/gardenplot/pkg/types"
)

// Source is the in-memory fallback the engine scans when the store is
// unavailable. The garden plot satisfies it.
type Source interface {
	Crops() []types.PlacedCrop
	CropsOfType(typeID int) []types.PlacedCrop
	Structures() []types.Structure
	VegetableType(id int) (types.VegetableType, bool)
}

// Engine runs spatial queries against the store with a transparent
// fallback to the in-memory source. Read operations never fail outright
// due to store unavailability: they silently degrade to possibly
// incomplete in-memory results.
type Engine struct {
	adapter *store.Adapter
	src     Source
	log     *slog.Logger
}

// NewEngine wires an Engine to the store adapter and its fallback
// source.
func NewEngine(adapter *store.Adapter, src Source, log *slog.Logger) *Engine {
	if log == nil {
		log = slog.Default()
	}
	return &Engine{adapter: adapter, src: src, log: log}
}

// NearestCrops returns up to limit active crops within radius of the
// point, ordered by ascending Euclidean distance. A nil result from the
// store path (unavailable or failed) triggers the in-memory scan; an
// empty store result is an answer, not a miss.
func (e *Engine) NearestCrops(ctx context.Context, x, y, radius float64, limit int) []store.CropHit {
	if limit <= 0 {
		limit = types.DefaultNearestLimit
	}

	if hits := e.adapter.NearestCrops(ctx, x, y, radius, limit); hits != nil {
		return hits
	}

	e.log.Debug("store path unavailable, scanning in-memory crops")
	return e.nearestInMemory(x, y, radius, limit)
}

func (e *Engine) nearestInMemory(x, y, radius float64, limit int) []store.CropHit {
	probe := types.Coordinate{X: x, Y: y}

	hits := []store.CropHit{}
	for _, crop := range e.src.Crops() {
		if !crop.Active() {
			continue
		}
		dist := geometry.Distance(probe, crop.Coord)
		if dist > radius {
			continue
		}
		hits = append(hits, e.toHit(crop, dist))
	}

	sort.Slice(hits, func(i, j int) bool { return hits[i].Distance < hits[j].Distance })
	if len(hits) > limit {
		hits = hits[:limit]
	}
	return hits
}

// StructuresIntersecting returns every structure whose polygon contains
// the point. A point may lie in multiple overlapping structures.
// Structures come from the store when available, else from the
// config-loaded in-memory set.
func (e *Engine) StructuresIntersecting(ctx context.Context, x, y float64) []types.Structure {
	structures := e.adapter.Structures(ctx)
	if structures == nil {
		structures = e.src.Structures()
	}

	point := types.Coordinate{X: x, Y: y}
	matches := []types.Structure{}
	for _, st := range structures {
		if geometry.PointInPolygon(point, st.Polygon) {
			matches = append(matches, st)
		}
	}
	return matches
}

// IsUsable reports whether the point is not blocked by any structure.
func (e *Engine) IsUsable(ctx context.Context, x, y float64) bool {
	return len(e.StructuresIntersecting(ctx, x, y)) == 0
}

// CropsOfType returns all crops of the given vegetable type, newest
// sowing first, falling back to the in-memory set when the store is
// unavailable.
func (e *Engine) CropsOfType(ctx context.Context, typeID int) []store.CropHit {
	if hits := e.adapter.CropsOfType(ctx, typeID); hits != nil {
		return hits
	}

	crops := e.src.CropsOfType(typeID)
	sort.Slice(crops, func(i, j int) bool { return crops[i].SownAt.After(crops[j].SownAt) })

	hits := make([]store.CropHit, 0, len(crops))
	for _, crop := range crops {
		hits = append(hits, e.toHit(crop, 0))
	}
	return hits
}

func (e *Engine) toHit(crop types.PlacedCrop, dist float64) store.CropHit {
	var typeName string
	if veg, ok := e.src.VegetableType(crop.TypeID); ok {
		typeName = veg.Name
	}
	return store.CropHit{
		CropID:   crop.CropID,
		TypeID:   crop.TypeID,
		TypeName: typeName,
		X:        crop.Coord.X,
		Y:        crop.Coord.Y,
		SownAt:   crop.SownAt,
		Status:   crop.Status,
		Distance: dist,
	}
}
