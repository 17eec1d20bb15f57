package storage

import "relDB/internal/table"

// Catalog is a registry of named tables.
//
// Implementations:
//   - memstore: tables held in memory for the life of the process
type Catalog interface {
	// Put registers t under its name. It fails if the name is taken.
	Put(t *table.Table) error

	// Replace registers t under its name, dropping any previous table.
	Replace(t *table.Table)

	// Get returns the table registered under name.
	Get(name string) (*table.Table, error)

	// Drop removes the table registered under name.
	Drop(name string) error

	// List returns the registered names in sorted order.
	List() []string
}

// TableStore saves and restores whole table images.
//
// Implementations:
//   - filestore: one binary file per table in a directory
type TableStore interface {
	Save(t *table.Table) error

	// Load restores the table saved under name, with its schema, tuple
	// sequence and index kind. opts are applied after the saved settings.
	Load(name string, opts ...table.Option) (*table.Table, error)

	List() ([]string, error)

	Remove(name string) error
}
