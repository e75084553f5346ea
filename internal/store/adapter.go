package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/mesh-intelligence/gardenplot/pkg/geometry"
	"github.com/mesh-intelligence/gardenplot/pkg/types"
)

// Adapter translates domain entities into store nodes and edges. Every
// operation is best-effort: a store failure is logged and converted to a
// boolean or empty result, never an error, so the in-memory write path
// always succeeds independent of store health. A false return means
// "operation skipped, memory copy remains authoritative".
type Adapter struct {
	mgr *Manager
	log *slog.Logger
}

// NewAdapter wires an Adapter to its connection manager.
func NewAdapter(mgr *Manager, log *slog.Logger) *Adapter {
	if log == nil {
		log = slog.Default()
	}
	return &Adapter{mgr: mgr, log: log}
}

// CropHit is one row of a spatial crop query, with the true Euclidean
// distance to the probe point filled in by the caller.
type CropHit struct {
	CropID   string
	TypeID   int
	TypeName string
	X        float64
	Y        float64
	SownAt   time.Time
	Status   string
	Distance float64
}

// Coord returns the hit position as a coordinate.
func (h CropHit) Coord() types.Coordinate {
	return types.Coordinate{X: h.X, Y: h.Y}
}

// CreateCrop persists a crop node with its OF_TYPE edge to the vegetable
// type and its LOCATED_IN/CONTAINS edge pair to the singleton garden.
// Idempotent: an existing node with the same id short-circuits to true.
func (a *Adapter) CreateCrop(ctx context.Context, crop types.PlacedCrop) bool {
	conn := a.mgr.Connect(ctx)
	if conn == nil {
		return false
	}
	defer a.mgr.ReleaseConn(conn)

	exists, err := a.nodeExists(ctx, conn, "SELECT crop_id FROM crops WHERE crop_id = $id", crop.CropID)
	if err != nil {
		return a.writeFailed("crop existence check", crop.CropID, err)
	}
	if exists {
		return true
	}

	now := time.Now().UTC().Format(time.RFC3339)
	err = a.mgr.exec(ctx, `INSERT INTO crops (crop_id, type_id, x, y, sown_at, status, created_at)
		VALUES ($id, $type_id, $x, $y, $sown_at, $status, $created_at)`,
		map[string]any{
			"id":         crop.CropID,
			"type_id":    crop.TypeID,
			"x":          crop.Coord.X,
			"y":          crop.Coord.Y,
			"sown_at":    crop.SownAt.UTC().Format(time.RFC3339),
			"status":     crop.Status,
			"created_at": now,
		}, conn)
	if err != nil {
		return a.writeFailed("crop node", crop.CropID, err)
	}

	if err := a.createEdge(ctx, conn, EdgeOfType, crop.CropID, strconv.Itoa(crop.TypeID)); err != nil {
		return a.writeFailed("crop type edge", crop.CropID, err)
	}
	if err := a.createEdge(ctx, conn, EdgeLocatedIn, crop.CropID, GardenID); err != nil {
		return a.writeFailed("crop location edge", crop.CropID, err)
	}
	if err := a.createEdge(ctx, conn, EdgeContains, GardenID, crop.CropID); err != nil {
		return a.writeFailed("garden containment edge", crop.CropID, err)
	}
	return true
}

// SetCropStatus updates the status of a crop node.
func (a *Adapter) SetCropStatus(ctx context.Context, cropID, status string) bool {
	conn := a.mgr.Connect(ctx)
	if conn == nil {
		return false
	}
	defer a.mgr.ReleaseConn(conn)

	err := a.mgr.exec(ctx, "UPDATE crops SET status = $status WHERE crop_id = $id",
		map[string]any{"status": status, "id": cropID}, conn)
	if err != nil {
		return a.writeFailed("crop status", cropID, err)
	}
	return true
}

// CreateAnnotation persists an annotation node and exactly one edge
// chosen by the target kind. Idempotent by id.
func (a *Adapter) CreateAnnotation(ctx context.Context, ann types.Annotation) bool {
	conn := a.mgr.Connect(ctx)
	if conn == nil {
		return false
	}
	defer a.mgr.ReleaseConn(conn)

	exists, err := a.nodeExists(ctx, conn, "SELECT annotation_id FROM annotations WHERE annotation_id = $id", ann.AnnotationID)
	if err != nil {
		return a.writeFailed("annotation existence check", ann.AnnotationID, err)
	}
	if exists {
		return true
	}

	photos, err := json.Marshal(ann.Photos)
	if err != nil {
		return a.writeFailed("annotation photos", ann.AnnotationID, err)
	}

	err = a.mgr.exec(ctx, `INSERT INTO annotations (annotation_id, kind, specificity, noted_at, note, photos, season, created_at)
		VALUES ($id, $kind, $specificity, $noted_at, $note, $photos, $season, $created_at)`,
		map[string]any{
			"id":          ann.AnnotationID,
			"kind":        ann.Kind,
			"specificity": ann.Specificity,
			"noted_at":    ann.NotedAt.UTC().Format(time.RFC3339),
			"note":        ann.Note,
			"photos":      string(photos),
			"season":      ann.Season,
			"created_at":  time.Now().UTC().Format(time.RFC3339),
		}, conn)
	if err != nil {
		return a.writeFailed("annotation node", ann.AnnotationID, err)
	}

	kind, targetID := ann.Target()
	var edgeType string
	switch kind {
	case types.TargetCrop:
		edgeType = EdgeAnnotatesCrop
	case types.TargetType:
		edgeType = EdgeAnnotatesType
	default:
		edgeType = EdgeAnnotatesGarden
		targetID = GardenID
	}
	if err := a.createEdge(ctx, conn, edgeType, ann.AnnotationID, targetID); err != nil {
		return a.writeFailed("annotation edge", ann.AnnotationID, err)
	}
	return true
}

// CreateStructure persists a structure node with its LOCATED_IN edge to
// the singleton garden. Idempotent by id.
func (a *Adapter) CreateStructure(ctx context.Context, st types.Structure) bool {
	conn := a.mgr.Connect(ctx)
	if conn == nil {
		return false
	}
	defer a.mgr.ReleaseConn(conn)

	exists, err := a.nodeExists(ctx, conn, "SELECT structure_id FROM structures WHERE structure_id = $id", st.StructureID)
	if err != nil {
		return a.writeFailed("structure existence check", st.StructureID, err)
	}
	if exists {
		return true
	}

	polygon, err := json.Marshal(st.Polygon)
	if err != nil {
		return a.writeFailed("structure polygon", st.StructureID, err)
	}

	createdAt := st.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	err = a.mgr.exec(ctx, `INSERT INTO structures (structure_id, name, category, description, polygon, created_at)
		VALUES ($id, $name, $category, $description, $polygon, $created_at)`,
		map[string]any{
			"id":          st.StructureID,
			"name":        st.Name,
			"category":    st.Category,
			"description": st.Description,
			"polygon":     string(polygon),
			"created_at":  createdAt.Format(time.RFC3339),
		}, conn)
	if err != nil {
		return a.writeFailed("structure node", st.StructureID, err)
	}

	if err := a.createEdge(ctx, conn, EdgeLocatedIn, st.StructureID, GardenID); err != nil {
		return a.writeFailed("structure location edge", st.StructureID, err)
	}
	return true
}

// MigrateReferenceData bulk-creates vegetable type nodes with a per-id
// existence check to avoid duplicates. Intended to run once at startup;
// re-running with the same set is a no-op.
func (a *Adapter) MigrateReferenceData(ctx context.Context, vegetables []types.VegetableType) bool {
	conn := a.mgr.Connect(ctx)
	if conn == nil {
		return false
	}
	defer a.mgr.ReleaseConn(conn)

	for _, veg := range vegetables {
		exists, err := a.nodeExists(ctx, conn, "SELECT type_id FROM vegetable_types WHERE type_id = $id", veg.ID)
		if err != nil {
			return a.writeFailed("vegetable existence check", veg.Name, err)
		}
		if exists {
			continue
		}

		pests, err := json.Marshal(veg.Pests)
		if err != nil {
			return a.writeFailed("vegetable pests", veg.Name, err)
		}
		care, err := json.Marshal(veg.CareNotes)
		if err != nil {
			return a.writeFailed("vegetable care notes", veg.Name, err)
		}

		err = a.mgr.exec(ctx, `INSERT INTO vegetable_types
			(type_id, name, description, cycle_days, sow_month_start, sow_month_end, pests, care_notes, footprint, min_spacing, created_at)
			VALUES ($id, $name, $description, $cycle_days, $sow_start, $sow_end, $pests, $care, $footprint, $min_spacing, $created_at)`,
			map[string]any{
				"id":          veg.ID,
				"name":        veg.Name,
				"description": veg.Description,
				"cycle_days":  veg.CycleDays,
				"sow_start":   veg.SowStartMonth,
				"sow_end":     veg.SowEndMonth,
				"pests":       string(pests),
				"care":        string(care),
				"footprint":   veg.Footprint,
				"min_spacing": veg.MinSpacing,
				"created_at":  time.Now().UTC().Format(time.RFC3339),
			}, conn)
		if err != nil {
			return a.writeFailed("vegetable node", veg.Name, err)
		}
	}
	a.log.Info("reference data migrated", "vegetables", len(vegetables))
	return true
}

// NearestCrops selects active crops within an axis-aligned bounding box
// of radius around the probe point, computes the true Euclidean distance
// per candidate, sorts ascending, and truncates to limit. Returns nil
// when the store is unavailable or the query fails.
func (a *Adapter) NearestCrops(ctx context.Context, x, y, radius float64, limit int) []CropHit {
	if limit <= 0 {
		limit = types.DefaultNearestLimit
	}

	rows, err := a.mgr.ExecuteQuery(ctx, `SELECT c.crop_id, c.type_id, COALESCE(v.name, ''), c.x, c.y, c.sown_at, c.status
		FROM crops c
		LEFT JOIN vegetable_types v ON v.type_id = c.type_id
		WHERE c.status = 'active'
		AND ABS(c.x - $x) <= $radius
		AND ABS(c.y - $y) <= $radius`,
		map[string]any{"x": x, "y": y, "radius": radius}, nil)
	if err != nil || rows == nil {
		return nil
	}
	defer rows.Close()

	probe := types.Coordinate{X: x, Y: y}
	// Non-nil even when empty: callers distinguish "no matches" from
	// "store path failed" (nil).
	hits := []CropHit{}
	for rows.Next() {
		hit, err := scanCropHit(rows)
		if err != nil {
			a.log.Warn("skipping malformed crop row", "error", err)
			continue
		}
		hit.Distance = geometry.Distance(probe, hit.Coord())
		if hit.Distance <= radius {
			hits = append(hits, hit)
		}
	}
	if err := rows.Err(); err != nil {
		a.log.Warn("crop query cursor failed", "error", err)
		return nil
	}

	sort.Slice(hits, func(i, j int) bool { return hits[i].Distance < hits[j].Distance })
	if len(hits) > limit {
		hits = hits[:limit]
	}
	return hits
}

// QueryByCoordinate returns the closest crop to the point within radius,
// or false when none is found or the store is unavailable.
func (a *Adapter) QueryByCoordinate(ctx context.Context, x, y, radius float64) (CropHit, bool) {
	hits := a.NearestCrops(ctx, x, y, radius, 1)
	if len(hits) == 0 {
		return CropHit{}, false
	}
	return hits[0], true
}

// CropsOfType returns all crops of the given vegetable type ordered by
// sowing date, newest first. Returns nil when the store is unavailable.
func (a *Adapter) CropsOfType(ctx context.Context, typeID int) []CropHit {
	rows, err := a.mgr.ExecuteQuery(ctx, `SELECT c.crop_id, c.type_id, COALESCE(v.name, ''), c.x, c.y, c.sown_at, c.status
		FROM crops c
		LEFT JOIN vegetable_types v ON v.type_id = c.type_id
		WHERE c.type_id = $type_id
		ORDER BY c.sown_at DESC`,
		map[string]any{"type_id": typeID}, nil)
	if err != nil || rows == nil {
		return nil
	}
	defer rows.Close()

	hits := []CropHit{}
	for rows.Next() {
		hit, err := scanCropHit(rows)
		if err != nil {
			a.log.Warn("skipping malformed crop row", "error", err)
			continue
		}
		hits = append(hits, hit)
	}
	if err := rows.Err(); err != nil {
		a.log.Warn("crop query cursor failed", "error", err)
		return nil
	}
	return hits
}

// Structures returns all structure nodes from the store. Returns nil
// when the store is unavailable, so callers fall back to the
// config-loaded set.
func (a *Adapter) Structures(ctx context.Context) []types.Structure {
	rows, err := a.mgr.ExecuteQuery(ctx,
		"SELECT structure_id, name, category, description, polygon, created_at FROM structures",
		nil, nil)
	if err != nil || rows == nil {
		return nil
	}
	defer rows.Close()

	out := []types.Structure{}
	for rows.Next() {
		var st types.Structure
		var polygon, createdAt string
		if err := rows.Scan(&st.StructureID, &st.Name, &st.Category, &st.Description, &polygon, &createdAt); err != nil {
			a.log.Warn("skipping malformed structure row", "error", err)
			continue
		}
		if err := json.Unmarshal([]byte(polygon), &st.Polygon); err != nil {
			a.log.Warn("skipping structure with malformed polygon", "structure_id", st.StructureID, "error", err)
			continue
		}
		if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
			st.CreatedAt = t
		}
		out = append(out, st)
	}
	if err := rows.Err(); err != nil {
		a.log.Warn("structure query cursor failed", "error", err)
		return nil
	}
	return out
}

// nodeExists runs a single-id probe query.
func (a *Adapter) nodeExists(ctx context.Context, conn *sql.Conn, query string, id any) (bool, error) {
	rows, err := a.mgr.ExecuteQuery(ctx, query, map[string]any{"id": id}, conn)
	if err != nil || rows == nil {
		return false, err
	}
	defer rows.Close()
	return rows.Next(), rows.Err()
}

// createEdge inserts a typed relationship. The unique index on
// (edge_type, from_id, to_id) makes re-creation a conflict; OR IGNORE
// keeps edge creation idempotent.
func (a *Adapter) createEdge(ctx context.Context, conn *sql.Conn, edgeType, fromID, toID string) error {
	return a.mgr.exec(ctx, `INSERT OR IGNORE INTO edges (edge_id, edge_type, from_id, to_id, created_at)
		VALUES ($id, $edge_type, $from_id, $to_id, $created_at)`,
		map[string]any{
			"id":         newEdgeID(),
			"edge_type":  edgeType,
			"from_id":    fromID,
			"to_id":      toID,
			"created_at": time.Now().UTC().Format(time.RFC3339),
		}, conn)
}

// writeFailed logs a best-effort write failure and reports false.
// ErrStoreClosed is expected during shutdown and logged at debug.
func (a *Adapter) writeFailed(what, id string, err error) bool {
	if errors.Is(err, types.ErrStoreClosed) {
		a.log.Debug("store write skipped, store closed", "what", what, "id", id)
		return false
	}
	a.log.Warn("store write failed", "what", what, "id", id, "error", err)
	return false
}

// newEdgeID generates a UUID v7 edge id, falling back to v4 when the
// monotonic clock source fails.
func newEdgeID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}

func scanCropHit(rows *sql.Rows) (CropHit, error) {
	var hit CropHit
	var sownAt string
	if err := rows.Scan(&hit.CropID, &hit.TypeID, &hit.TypeName, &hit.X, &hit.Y, &sownAt, &hit.Status); err != nil {
		return CropHit{}, err
	}
	if t, err := time.Parse(time.RFC3339, sownAt); err == nil {
		hit.SownAt = t
	}
	return hit, nil
}
