package spatial

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mesh-intelligence/gardenplot/internal/logger"
	"github.com/mesh-intelligence/gardenplot/internal/store"
	"github.com/mesh-intelligence/gardenplot/pkg/types"
)

// plotStub is a canned in-memory source for exercising the fallback
// path without a full garden plot.
type plotStub struct {
	crops      []types.PlacedCrop
	structures []types.Structure
	vegetables map[int]types.VegetableType
}

func (s *plotStub) Crops() []types.PlacedCrop { return s.crops }

func (s *plotStub) CropsOfType(typeID int) []types.PlacedCrop {
	var out []types.PlacedCrop
	for _, crop := range s.crops {
		if crop.TypeID == typeID {
			out = append(out, crop)
		}
	}
	return out
}

func (s *plotStub) Structures() []types.Structure { return s.structures }

func (s *plotStub) VegetableType(id int) (types.VegetableType, bool) {
	veg, ok := s.vegetables[id]
	return veg, ok
}

func offlineAdapter(t *testing.T) *store.Adapter {
	t.Helper()
	blocker := filepath.Join(t.TempDir(), "blocker")
	if err := os.WriteFile(blocker, []byte("x"), 0o600); err != nil {
		t.Fatalf("writing blocker file: %v", err)
	}
	m := store.NewManager(types.Config{DataDir: filepath.Join(blocker, "store")}, logger.Default())
	t.Cleanup(func() { m.Close() })
	if m.Available() {
		t.Fatal("manager unexpectedly available")
	}
	return store.NewAdapter(m, logger.Default())
}

func liveAdapter(t *testing.T) *store.Adapter {
	t.Helper()
	m := store.NewManager(types.Config{DataDir: t.TempDir()}, logger.Default())
	t.Cleanup(func() { m.Close() })
	ctx := context.Background()
	if !m.InitializeSchema(ctx) || !m.LoadInitialData(ctx) {
		t.Fatal("store setup failed")
	}
	return store.NewAdapter(m, logger.Default())
}

func stubCrop(id string, typeID int, x, y float64, status string) types.PlacedCrop {
	return types.PlacedCrop{
		CropID: id,
		TypeID: typeID,
		Coord:  types.Coordinate{X: x, Y: y},
		SownAt: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		Status: status,
	}
}

func TestNearestCropsFallback(t *testing.T) {
	src := &plotStub{
		crops: []types.PlacedCrop{
			stubCrop("crop-far", 1, 60, 0, types.CropStatusActive),
			stubCrop("crop-near", 1, 10, 0, types.CropStatusActive),
			stubCrop("crop-mid", 2, 30, 0, types.CropStatusActive),
			stubCrop("crop-harvested", 1, 5, 0, types.CropStatusHarvested),
			stubCrop("crop-outside", 1, 500, 500, types.CropStatusActive),
		},
		vegetables: map[int]types.VegetableType{1: {ID: 1, Name: "Tomato"}},
	}
	e := NewEngine(offlineAdapter(t), src, logger.Default())

	hits := e.NearestCrops(context.Background(), 0, 0, 100, 10)
	if len(hits) != 3 {
		t.Fatalf("expected 3 hits, got %d", len(hits))
	}
	if hits[0].CropID != "crop-near" || hits[1].CropID != "crop-mid" || hits[2].CropID != "crop-far" {
		t.Errorf("hits not sorted by distance: %v",
			[]string{hits[0].CropID, hits[1].CropID, hits[2].CropID})
	}
	if hits[0].TypeName != "Tomato" {
		t.Errorf("expected type name resolved from source, got %q", hits[0].TypeName)
	}
	if hits[0].Distance != 10 {
		t.Errorf("expected distance 10, got %v", hits[0].Distance)
	}

	limited := e.NearestCrops(context.Background(), 0, 0, 100, 2)
	if len(limited) != 2 {
		t.Errorf("limit not applied: got %d hits", len(limited))
	}
}

func TestNearestCropsEmptyStoreResultIsAnswer(t *testing.T) {
	// The source holds a crop the store does not know about. With the
	// store reachable, its empty result must win over the fallback scan.
	src := &plotStub{crops: []types.PlacedCrop{stubCrop("crop-ghost", 1, 400, 400, types.CropStatusActive)}}
	e := NewEngine(liveAdapter(t), src, logger.Default())

	hits := e.NearestCrops(context.Background(), 400, 400, 50, 5)
	if hits == nil {
		t.Fatal("expected a non-nil result from the store path")
	}
	if len(hits) != 0 {
		t.Errorf("expected zero hits from the store, got %d", len(hits))
	}
}

func TestNearestCropsStorePath(t *testing.T) {
	adapter := liveAdapter(t)
	ctx := context.Background()
	adapter.CreateCrop(ctx, stubCrop("crop-db", 1, 405, 400, types.CropStatusActive))

	e := NewEngine(adapter, &plotStub{}, logger.Default())
	hits := e.NearestCrops(ctx, 400, 400, 50, 5)
	if len(hits) != 1 || hits[0].CropID != "crop-db" {
		t.Fatalf("expected the stored crop, got %+v", hits)
	}
}

func TestStructuresIntersecting(t *testing.T) {
	shed := types.Structure{
		StructureID: "shed",
		Name:        "Shed",
		Polygon:     types.Polygon{{X: 0, Y: 0}, {X: 100, Y: 0}, {X: 100, Y: 100}, {X: 0, Y: 100}},
	}
	path := types.Structure{
		StructureID: "path",
		Name:        "Path",
		Polygon:     types.Polygon{{X: 50, Y: 50}, {X: 150, Y: 50}, {X: 150, Y: 150}, {X: 50, Y: 150}},
	}
	src := &plotStub{structures: []types.Structure{shed, path}}
	e := NewEngine(offlineAdapter(t), src, logger.Default())
	ctx := context.Background()

	// Inside both overlapping polygons.
	matches := e.StructuresIntersecting(ctx, 75, 75)
	if len(matches) != 2 {
		t.Errorf("expected 2 overlapping structures, got %d", len(matches))
	}

	matches = e.StructuresIntersecting(ctx, 25, 25)
	if len(matches) != 1 || matches[0].StructureID != "shed" {
		t.Errorf("expected only the shed, got %+v", matches)
	}

	if e.IsUsable(ctx, 75, 75) {
		t.Error("point inside structures reported usable")
	}
	if !e.IsUsable(ctx, 300, 300) {
		t.Error("open point reported unusable")
	}
}

func TestStructuresIntersectingPrefersStore(t *testing.T) {
	adapter := liveAdapter(t)
	ctx := context.Background()
	adapter.CreateStructure(ctx, types.Structure{
		StructureID: "bed",
		Name:        "Raised bed",
		Polygon:     types.Polygon{{X: 200, Y: 200}, {X: 300, Y: 200}, {X: 300, Y: 300}, {X: 200, Y: 300}},
	})

	// The decoy only exists in memory; with the store reachable it must
	// not influence the answer.
	decoy := types.Structure{
		StructureID: "decoy",
		Polygon:     types.Polygon{{X: 0, Y: 0}, {X: 50, Y: 0}, {X: 50, Y: 50}, {X: 0, Y: 50}},
	}
	e := NewEngine(adapter, &plotStub{structures: []types.Structure{decoy}}, logger.Default())

	if matches := e.StructuresIntersecting(ctx, 250, 250); len(matches) != 1 || matches[0].StructureID != "bed" {
		t.Errorf("expected the stored bed, got %+v", matches)
	}
	if matches := e.StructuresIntersecting(ctx, 25, 25); len(matches) != 0 {
		t.Errorf("decoy leaked into store-backed answer: %+v", matches)
	}
}

func TestCropsOfTypeFallbackOrder(t *testing.T) {
	early := stubCrop("crop-early", 1, 10, 10, types.CropStatusActive)
	early.SownAt = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	late := stubCrop("crop-late", 1, 20, 20, types.CropStatusActive)
	late.SownAt = time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	other := stubCrop("crop-other", 2, 30, 30, types.CropStatusActive)

	src := &plotStub{crops: []types.PlacedCrop{early, other, late}}
	e := NewEngine(offlineAdapter(t), src, logger.Default())

	hits := e.CropsOfType(context.Background(), 1)
	if len(hits) != 2 {
		t.Fatalf("expected 2 crops of type 1, got %d", len(hits))
	}
	if hits[0].CropID != "crop-late" {
		t.Errorf("expected newest sowing first, got %q", hits[0].CropID)
	}
}
