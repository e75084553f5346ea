// Package integration exercises the full garden stack against a real
// on-disk store.
package integration

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/mesh-intelligence/gardenplot/internal/config"
	"github.com/mesh-intelligence/gardenplot/internal/garden"
	"github.com/mesh-intelligence/gardenplot/internal/logger"
	"github.com/mesh-intelligence/gardenplot/internal/spatial"
	"github.com/mesh-intelligence/gardenplot/internal/store"
	"github.com/mesh-intelligence/gardenplot/pkg/types"
)

// testStack bundles the assembled components for one test.
type testStack struct {
	Service *garden.Service
	Manager *store.Manager
	Ref     *config.ReferenceData
	DataDir string
}

// setupStack assembles plot, store, engine, and service over an isolated
// temp directory with the built-in reference data, and initializes the
// store the way gardenctl init does.
func setupStack(t *testing.T) *testStack {
	t.Helper()
	dir := t.TempDir()

	refPath := filepath.Join(dir, "reference.toml")
	if err := config.WriteDefault(refPath); err != nil {
		t.Fatalf("WriteDefault: %v", err)
	}
	ref, err := config.Load(refPath)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	cfg := types.Config{
		DataDir:      filepath.Join(dir, "store"),
		CanvasWidth:  ref.Garden.Width,
		CanvasHeight: ref.Garden.Height,
	}

	log := logger.Default()
	m := store.NewManager(cfg, log)
	t.Cleanup(func() { m.Close() })

	ctx := context.Background()
	if !m.InitializeSchema(ctx) {
		t.Fatal("InitializeSchema failed")
	}
	if !m.LoadInitialData(ctx) {
		t.Fatal("LoadInitialData failed")
	}

	plot := garden.NewPlot(cfg, ref.Vegetables, ref.Structures)
	adapter := store.NewAdapter(m, log)
	engine := spatial.NewEngine(adapter, plot, log)
	svc := garden.NewService(plot, adapter, engine, log)

	if !svc.MigrateReferenceData(ctx) {
		t.Fatal("MigrateReferenceData failed")
	}

	return &testStack{Service: svc, Manager: m, Ref: ref, DataDir: cfg.DataDir}
}

// setupOfflineStack assembles the same components with a store that can
// never become available.
func setupOfflineStack(t *testing.T) *testStack {
	t.Helper()
	dir := t.TempDir()

	blocker := filepath.Join(dir, "blocker")
	if err := os.WriteFile(blocker, []byte("x"), 0o600); err != nil {
		t.Fatalf("writing blocker file: %v", err)
	}

	refPath := filepath.Join(dir, "reference.toml")
	if err := config.WriteDefault(refPath); err != nil {
		t.Fatalf("WriteDefault: %v", err)
	}
	ref, err := config.Load(refPath)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	cfg := types.Config{DataDir: filepath.Join(blocker, "store")}

	log := logger.Default()
	m := store.NewManager(cfg, log)
	t.Cleanup(func() { m.Close() })
	if m.Available() {
		t.Fatal("manager unexpectedly available")
	}

	plot := garden.NewPlot(cfg, ref.Vegetables, ref.Structures)
	adapter := store.NewAdapter(m, log)
	engine := spatial.NewEngine(adapter, plot, log)
	svc := garden.NewService(plot, adapter, engine, log)

	return &testStack{Service: svc, Manager: m, Ref: ref, DataDir: cfg.DataDir}
}

// reopenStack assembles a fresh stack over an existing data directory,
// simulating a process restart. The in-memory plot starts empty; all
// prior state lives in the store.
func reopenStack(t *testing.T, dataDir string) *testStack {
	t.Helper()

	refPath := filepath.Join(t.TempDir(), "reference.toml")
	if err := config.WriteDefault(refPath); err != nil {
		t.Fatalf("WriteDefault: %v", err)
	}
	ref, err := config.Load(refPath)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	cfg := types.Config{DataDir: dataDir}
	log := logger.Default()
	m := store.NewManager(cfg, log)
	t.Cleanup(func() { m.Close() })
	if !m.Available() {
		t.Fatal("store unavailable on reopen")
	}

	plot := garden.NewPlot(cfg, ref.Vegetables, ref.Structures)
	adapter := store.NewAdapter(m, log)
	engine := spatial.NewEngine(adapter, plot, log)
	svc := garden.NewService(plot, adapter, engine, log)

	return &testStack{Service: svc, Manager: m, Ref: ref, DataDir: dataDir}
}

// countNodes counts rows in a node table.
func countNodes(t *testing.T, m *store.Manager, table string) int {
	t.Helper()
	rows, err := m.ExecuteQuery(context.Background(), "SELECT COUNT(*) FROM "+table, nil, nil)
	if err != nil {
		t.Fatalf("count %s: %v", table, err)
	}
	defer rows.Close()
	rows.Next()
	var n int
	if err := rows.Scan(&n); err != nil {
		t.Fatalf("scan count: %v", err)
	}
	return n
}
