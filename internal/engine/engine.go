package engine

import (
	"fmt"
	"sync"

	"relDB/internal/index"
	"relDB/internal/logger"
	"relDB/internal/schema"
	"relDB/internal/storage"
	"relDB/internal/table"
	"relDB/internal/types"
	"relDB/internal/utils"
)

var log = logger.NewLogger()

// Config selects the index backend for new tables and where tables are
// saved and exported.
type Config struct {
	IndexKind index.Kind
	StoreDir  string
	ExportDir string
}

// ConfigFromEnv reads INDEX_KIND, STORE_DIR and EXPORT_DIR.
func ConfigFromEnv() (Config, error) {
	kind, err := index.ParseKind(utils.GetEnvOrDefault("INDEX_KIND", "hash"))
	if err != nil {
		return Config{}, err
	}
	return Config{
		IndexKind: kind,
		StoreDir:  utils.GetEnvOrDefault("STORE_DIR", "store"),
		ExportDir: utils.GetEnvOrDefault("EXPORT_DIR", "export"),
	}, nil
}

// DBEngine owns a catalog of named tables and runs the relational
// operators over them. Every operator result is registered in the catalog
// under a name from the engine's Namer.
//
// Writes (create, insert, load) are serialized against operator runs, so
// an operator never sees a table mid-insert.
type DBEngine struct {
	started bool
	cfg     Config
	catalog storage.Catalog
	files   storage.TableStore
	namer   *table.Namer

	mu sync.RWMutex
}

// New creates a new DBEngine over catalog. files may be nil, in which case
// Save and Load fail.
func New(cfg Config, catalog storage.Catalog, files storage.TableStore) *DBEngine {
	return &DBEngine{
		cfg:     cfg,
		catalog: catalog,
		files:   files,
		namer:   table.NewNamer(),
	}
}

// Start runs initialization steps for the engine.
func (e *DBEngine) Start() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.started {
		return fmt.Errorf("engine already started")
	}
	e.started = true
	log.Info().Str("index", e.cfg.IndexKind.String()).Str("store", e.cfg.StoreDir).Msg("engine started")
	return nil
}

func (e *DBEngine) checkStarted() error {
	if !e.started {
		return fmt.Errorf("engine not started")
	}
	return nil
}

// Config returns the engine configuration.
func (e *DBEngine) Config() Config { return e.cfg }

// CreateTable creates an empty table with the engine's default index kind.
func (e *DBEngine) CreateTable(def schema.Definition) (*table.Table, error) {
	return e.CreateTableWithIndex(def, e.cfg.IndexKind)
}

// CreateTableWithIndex creates an empty table with the given index kind.
func (e *DBEngine) CreateTableWithIndex(def schema.Definition, kind index.Kind) (*table.Table, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.checkStarted(); err != nil {
		return nil, err
	}
	s, err := schema.New(def)
	if err != nil {
		return nil, err
	}
	t, err := table.New(s, table.WithIndex(kind), table.WithNamer(e.namer))
	if err != nil {
		return nil, err
	}
	if err := e.catalog.Put(t); err != nil {
		return nil, err
	}
	e.namer.Reserve(def.Name)
	log.Debug().Str("table", def.Name).Str("index", kind.String()).Msg("created table")
	return t, nil
}

// InsertRow inserts a single typed tuple and returns its position.
func (e *DBEngine) InsertRow(tableName string, row types.Tuple) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.checkStarted(); err != nil {
		return -1, err
	}
	t, err := e.catalog.Get(tableName)
	if err != nil {
		return -1, err
	}
	return t.Insert(row)
}

// InsertValues coerces textual values to the table's domains and inserts
// them as one tuple. A nil entry is a null.
func (e *DBEngine) InsertValues(tableName string, values []*string) (int, error) {
	positions, err := e.InsertBatch(tableName, [][]*string{values})
	if err != nil {
		return -1, err
	}
	return positions[0], nil
}

// InsertBatch coerces and checks every row before inserting any of them,
// so a bad row leaves the table unchanged. It returns the position of
// each inserted row.
func (e *DBEngine) InsertBatch(tableName string, rows [][]*string) ([]int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.checkStarted(); err != nil {
		return nil, err
	}
	t, err := e.catalog.Get(tableName)
	if err != nil {
		return nil, err
	}

	tuples := make([]types.Tuple, len(rows))
	for i, values := range rows {
		row, err := parseRow(t.Schema(), values)
		if err == nil {
			err = t.Schema().CheckTuple(row)
		}
		if err != nil {
			return nil, fmt.Errorf("insert into %s: row %d: %w", tableName, i, err)
		}
		tuples[i] = row
	}

	positions := make([]int, len(tuples))
	for i, row := range tuples {
		pos, err := t.Insert(row)
		if err != nil {
			return nil, fmt.Errorf("insert into %s: row %d: %w", tableName, i, err)
		}
		positions[i] = pos
	}
	return positions, nil
}

// GetRow returns the tuple at position i of the table.
func (e *DBEngine) GetRow(tableName string, i int) (types.Tuple, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	t, err := e.table(tableName)
	if err != nil {
		return nil, err
	}
	return t.Get(i)
}

// SelectAll returns the attribute names and all tuples of the table.
func (e *DBEngine) SelectAll(tableName string) ([]string, []types.Tuple, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	t, err := e.table(tableName)
	if err != nil {
		return nil, nil, err
	}
	rows := make([]types.Tuple, t.Len())
	copy(rows, t.Tuples())
	return t.Attributes(), rows, nil
}

// Table returns the table registered under name.
func (e *DBEngine) Table(name string) (*table.Table, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.table(name)
}

// table is Table for callers already holding e.mu.
func (e *DBEngine) table(name string) (*table.Table, error) {
	if err := e.checkStarted(); err != nil {
		return nil, err
	}
	return e.catalog.Get(name)
}

// ListTables returns the names of all registered tables.
func (e *DBEngine) ListTables() ([]string, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if err := e.checkStarted(); err != nil {
		return nil, err
	}
	return e.catalog.List(), nil
}

// TableSchema returns the declaration of a table.
func (e *DBEngine) TableSchema(name string) (schema.Definition, error) {
	t, err := e.Table(name)
	if err != nil {
		return schema.Definition{}, err
	}
	return t.Schema().Definition(), nil
}

// DropTable removes a table from the catalog.
func (e *DBEngine) DropTable(name string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.checkStarted(); err != nil {
		return err
	}
	return e.catalog.Drop(name)
}

// Render returns the columnar dump of a table, followed by its index
// listing when withIndex is set.
func (e *DBEngine) Render(name string, withIndex bool) (string, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	t, err := e.table(name)
	if err != nil {
		return "", err
	}
	out := t.Render()
	if withIndex {
		out += t.RenderIndex()
	}
	return out, nil
}
