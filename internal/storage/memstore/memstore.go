package memstore

import (
	"fmt"
	"sort"
	"sync"

	"relDB/internal/errs"
	"relDB/internal/storage"
	"relDB/internal/table"
)

type memCatalog struct {
	mu     sync.RWMutex
	tables map[string]*table.Table
}

// New creates a new in-memory catalog.
func New() storage.Catalog {
	return &memCatalog{
		tables: make(map[string]*table.Table),
	}
}

func (c *memCatalog) Put(t *table.Table) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.tables[t.Name()]; exists {
		return fmt.Errorf("%w: %s", errs.ErrTableExists, t.Name())
	}
	c.tables[t.Name()] = t
	return nil
}

func (c *memCatalog) Replace(t *table.Table) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.tables[t.Name()] = t
}

func (c *memCatalog) Get(name string) (*table.Table, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	t, ok := c.tables[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", errs.ErrTableNotFound, name)
	}
	return t, nil
}

func (c *memCatalog) Drop(name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.tables[name]; !ok {
		return fmt.Errorf("%w: %s", errs.ErrTableNotFound, name)
	}
	delete(c.tables, name)
	return nil
}

func (c *memCatalog) List() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	names := make([]string, 0, len(c.tables))
	for n := range c.tables {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
