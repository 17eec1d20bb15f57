package engine

import (
	"fmt"

	"relDB/internal/storage/parquetstore"
	"relDB/internal/table"
)

// Save writes the table's image to the file store.
func (e *DBEngine) Save(name string) error {
	e.mu.RLock()
	defer e.mu.RUnlock()

	t, err := e.table(name)
	if err != nil {
		return err
	}
	if e.files == nil {
		return fmt.Errorf("save %s: no table store configured", name)
	}
	return e.files.Save(t)
}

// Load restores a saved table into the catalog, replacing any table of
// the same name. Results derived from it are named by the engine's namer.
func (e *DBEngine) Load(name string) (*table.Table, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.checkStarted(); err != nil {
		return nil, err
	}
	if e.files == nil {
		return nil, fmt.Errorf("load %s: no table store configured", name)
	}
	t, err := e.files.Load(name, table.WithNamer(e.namer))
	if err != nil {
		return nil, err
	}
	e.catalog.Replace(t)
	e.namer.Reserve(name)
	log.Info().Str("table", name).Int("rows", t.Len()).Str("index", t.IndexKind().String()).Msg("loaded table")
	return t, nil
}

// SavedTables lists the tables present in the file store.
func (e *DBEngine) SavedTables() ([]string, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if err := e.checkStarted(); err != nil {
		return nil, err
	}
	if e.files == nil {
		return nil, nil
	}
	return e.files.List()
}

// Export writes the table as a Parquet file under the export directory
// and returns the file path.
func (e *DBEngine) Export(name string) (string, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	t, err := e.table(name)
	if err != nil {
		return "", err
	}
	return parquetstore.Export(t, e.cfg.ExportDir)
}
