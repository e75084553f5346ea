// Package store implements the durable graph store for gardenplot on
// SQLite: connection lifecycle, schema bootstrap, idempotent seeding,
// raw query execution, and the entity synchronization adapter.
//
// The store is best-effort by design. It may be absent (data directory
// not writable, database not creatable) or partially initialized; every
// consumer checks Available and degrades to in-memory data.
package store

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/gardenplot/pkg/types"
)

//go:embed schema.sql
var schemaSQL string

//go:embed seed.sql
var seedSQL string

// DBFileName is the SQLite database file created inside the data dir.
const DBFileName = "garden.db"

// GardenID is the id of the singleton garden node.
const GardenID = "garden-default"

// Edge types wiring the graph together.
const (
	EdgeOfType          = "OF_TYPE"
	EdgeLocatedIn       = "LOCATED_IN"
	EdgeContains        = "CONTAINS"
	EdgeAnnotatesCrop   = "ANNOTATES_CROP"
	EdgeAnnotatesType   = "ANNOTATES_TYPE"
	EdgeAnnotatesGarden = "ANNOTATES_GARDEN"
)

// expectedTables is the fixed set of node and relationship tables the
// schema validation probes for.
var expectedTables = []string{
	"gardens",
	"vegetable_types",
	"crops",
	"structures",
	"annotations",
	"edges",
}

// Manager owns the lifecycle of connections to the store. The underlying
// pool is shared, but each logical operation obtains its own *sql.Conn
// through Connect and releases it through ReleaseConn; a single
// connection handle is never shared across concurrent callers.
type Manager struct {
	mu     sync.Mutex
	log    *slog.Logger
	dbPath string

	db        *sql.DB
	available bool
	closed    bool
}

// NewManager opens (creating if needed) the database under
// config.DataDir and probes it. When the directory cannot be created or
// the database cannot be opened, the manager is marked unavailable and
// every store operation degrades; construction itself never fails.
func NewManager(config types.Config, log *slog.Logger) *Manager {
	if log == nil {
		log = slog.Default()
	}
	m := &Manager{
		log:    log,
		dbPath: filepath.Join(config.DataDir, DBFileName),
	}

	if err := os.MkdirAll(config.DataDir, 0o755); err != nil {
		m.log.Warn("store unavailable: data dir not creatable",
			"data_dir", config.DataDir, "error", err)
		return m
	}

	db, err := sql.Open("sqlite", m.dbPath)
	if err != nil {
		m.log.Warn("store unavailable: cannot open database",
			"path", m.dbPath, "error", err)
		return m
	}
	if err := db.Ping(); err != nil {
		m.log.Warn("store unavailable: ping failed", "path", m.dbPath, "error", err)
		db.Close()
		return m
	}

	m.db = db
	m.available = true
	m.log.Info("store opened", "path", m.dbPath)
	return m
}

// Available reports whether the store could be initialized. It does not
// imply a live connection; Connect can still return nil.
func (m *Manager) Available() bool {
	_, ok := m.handle()
	return ok
}

// handle snapshots the shared pool under the lock. Callers use the
// snapshot for the whole operation: Close may nil m.db concurrently,
// but a closed pool returns errors instead of racing. The second result
// is false when the store is unavailable or closed.
func (m *Manager) handle() (*sql.DB, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.available || m.closed || m.db == nil {
		return nil, false
	}
	return m.db, true
}

// Connect returns a dedicated connection for one logical operation. The
// caller releases it with ReleaseConn. As a side effect, Connect probes
// for the required schema tables and triggers schema creation when any
// are missing; the bootstrap is best-effort and never fails the caller.
// Connect returns nil only when a connection cannot be produced at all.
// The schema probe runs on every call rather than being cached, because
// the database file can be deleted or recreated externally between
// calls.
func (m *Manager) Connect(ctx context.Context) *sql.Conn {
	db, ok := m.handle()
	if !ok {
		return nil
	}

	conn, err := db.Conn(ctx)
	if err != nil {
		m.log.Warn("store connect failed", "error", err)
		return nil
	}

	if missing := m.missingTables(ctx, conn); len(missing) > 0 {
		m.log.Info("schema incomplete, bootstrapping", "missing", missing)
		m.runStatements(ctx, conn, splitStatements(schemaSQL), "schema")
		if still := m.missingTables(ctx, conn); len(still) > 0 {
			m.log.Warn("schema bootstrap left tables missing", "missing", still)
		}
	}

	return conn
}

// ReleaseConn returns a connection to the pool. A nil or already
// released connection is a no-op.
func (m *Manager) ReleaseConn(conn *sql.Conn) {
	if conn == nil {
		return
	}
	// Closing twice returns sql.ErrConnDone; double release is a no-op.
	_ = conn.Close()
}

// Close releases the shared handle. Idempotent.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil
	}
	m.closed = true
	m.available = false
	if m.db != nil {
		if err := m.db.Close(); err != nil {
			return fmt.Errorf("closing store: %w", err)
		}
		m.db = nil
	}
	return nil
}

// InitializeSchema executes the embedded schema file: statements are
// applied independently, a failing statement is logged and skipped, and
// the batch is followed by validation probes for the expected node and
// relationship tables. Returns false when the store is unavailable or
// any expected table is missing after the batch.
func (m *Manager) InitializeSchema(ctx context.Context) bool {
	db, ok := m.handle()
	if !ok {
		m.log.Warn("store unavailable, skipping schema initialization")
		return false
	}

	conn, err := db.Conn(ctx)
	if err != nil {
		m.log.Warn("schema initialization: connect failed", "error", err)
		return false
	}
	defer m.ReleaseConn(conn)

	m.runStatements(ctx, conn, splitStatements(schemaSQL), "schema")

	missing := m.missingTables(ctx, conn)
	if len(missing) > 0 {
		m.log.Warn("schema validation failed", "missing", missing)
		return false
	}
	m.log.Info("schema initialized")
	return true
}

// LoadInitialData applies the embedded seed file: the singleton garden,
// sample crops, and sample relationships. Idempotent by existence check;
// vegetable-type rows are deliberately not seeded here because they are
// sourced from configuration and migrated by the adapter. Returns false
// when the store is unavailable or a post-check finds no garden node.
func (m *Manager) LoadInitialData(ctx context.Context) bool {
	db, ok := m.handle()
	if !ok {
		m.log.Warn("store unavailable, skipping initial data load")
		return false
	}

	conn, err := db.Conn(ctx)
	if err != nil {
		m.log.Warn("initial data load: connect failed", "error", err)
		return false
	}
	defer m.ReleaseConn(conn)

	m.runStatements(ctx, conn, splitStatements(seedSQL), "seed")

	var gardens int
	row := conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM gardens WHERE garden_id = $id", sql.Named("id", GardenID))
	if err := row.Scan(&gardens); err != nil || gardens == 0 {
		m.log.Warn("initial data validation failed: no garden node", "error", err)
		return false
	}
	m.log.Info("initial data loaded")
	return true
}

// ExecuteQuery runs a parameterized query and returns its forward-only
// cursor. When conn is nil the shared pool serves the query; a supplied
// conn is used as-is and stays owned by the caller. Unlike the schema
// and seed paths, query failures are not swallowed: they are logged with
// truncated query text and returned, since ad hoc callers need to know
// their query failed. An unavailable store yields (nil, nil).
func (m *Manager) ExecuteQuery(ctx context.Context, query string, params map[string]any, conn *sql.Conn) (*sql.Rows, error) {
	db, ok := m.handle()
	if !ok {
		return nil, nil
	}

	args := namedArgs(params)

	var rows *sql.Rows
	var err error
	if conn != nil {
		rows, err = conn.QueryContext(ctx, query, args...)
	} else {
		rows, err = db.QueryContext(ctx, query, args...)
	}
	if err != nil {
		m.log.Error("query failed", "query", truncateQuery(query), "error", err)
		return nil, fmt.Errorf("executing query: %w", err)
	}
	return rows, nil
}

// exec runs a statement that produces no rows. Same conn semantics as
// ExecuteQuery. Returns ErrStoreClosed when the store is unavailable so
// write paths can distinguish "skipped" from "failed".
func (m *Manager) exec(ctx context.Context, stmt string, params map[string]any, conn *sql.Conn) error {
	db, ok := m.handle()
	if !ok {
		return types.ErrStoreClosed
	}

	args := namedArgs(params)

	var err error
	if conn != nil {
		_, err = conn.ExecContext(ctx, stmt, args...)
	} else {
		_, err = db.ExecContext(ctx, stmt, args...)
	}
	if err != nil {
		m.log.Error("statement failed", "query", truncateQuery(stmt), "error", err)
		return fmt.Errorf("executing statement: %w", err)
	}
	return nil
}

// runStatements executes a batch independently: a failing statement is
// logged and skipped, never fatal to the rest of the batch.
func (m *Manager) runStatements(ctx context.Context, conn *sql.Conn, stmts []string, phase string) {
	for _, stmt := range stmts {
		if _, err := conn.ExecContext(ctx, stmt); err != nil {
			m.log.Warn("statement skipped", "phase", phase,
				"query", truncateQuery(stmt), "error", err)
		}
	}
}

// missingTables probes sqlite_master for the expected tables and returns
// the ones that are absent.
func (m *Manager) missingTables(ctx context.Context, conn *sql.Conn) []string {
	var missing []string
	for _, table := range expectedTables {
		var name string
		row := conn.QueryRowContext(ctx,
			"SELECT name FROM sqlite_master WHERE type = 'table' AND name = $name",
			sql.Named("name", table))
		if err := row.Scan(&name); err != nil {
			missing = append(missing, table)
		}
	}
	return missing
}

// namedArgs converts a flat key to value parameter map into named query
// arguments.
func namedArgs(params map[string]any) []any {
	args := make([]any, 0, len(params))
	for k, v := range params {
		args = append(args, sql.Named(k, v))
	}
	return args
}
