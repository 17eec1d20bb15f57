// Package table implements the schema-typed tuple store and the
// relational-algebra operators over it. Operators never mutate their
// inputs; each returns a freshly built Table.
package table

import (
	"fmt"

	"relDB/internal/errs"
	"relDB/internal/index"
	"relDB/internal/logger"
	"relDB/internal/schema"
	"relDB/internal/types"
)

var log = logger.NewLogger()

// Table is a named relation: a schema, the tuples in insertion order and
// an index over the primary-key projection.
//
// A Table has no internal locking. It is written by one goroutine and then
// read by operators; disjoint tables may be used concurrently.
type Table struct {
	schema *schema.Schema
	tuples []types.Tuple
	index  index.Index
	namer  *Namer
}

type options struct {
	kind  index.Kind
	namer *Namer
}

// Option configures a Table at construction time.
type Option func(*options)

// WithIndex selects the index backend. The default is index.KindNone.
func WithIndex(kind index.Kind) Option {
	return func(o *options) { o.kind = kind }
}

// WithNamer sets the naming context used for operator results. Tables
// built without one get a private Namer.
func WithNamer(n *Namer) Option {
	return func(o *options) { o.namer = n }
}

// New creates an empty table for s.
func New(s *schema.Schema, opts ...Option) (*Table, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.namer == nil {
		o.namer = NewNamer()
	}
	idx, err := index.New(o.kind)
	if err != nil {
		return nil, fmt.Errorf("table %s: %w", s.Name(), err)
	}
	return &Table{schema: s, index: idx, namer: o.namer}, nil
}

// NewWithTuples creates a table for s and inserts tuples in order. It
// fails on the first tuple that does not fit the schema.
func NewWithTuples(s *schema.Schema, tuples []types.Tuple, opts ...Option) (*Table, error) {
	t, err := New(s, opts...)
	if err != nil {
		return nil, err
	}
	for i, tup := range tuples {
		if _, err := t.Insert(tup); err != nil {
			return nil, fmt.Errorf("tuple %d: %w", i, err)
		}
	}
	return t, nil
}

// derive builds an operator result that shares t's index kind and naming
// context. rows are already known to fit s.
func (t *Table) derive(s *schema.Schema, rows []types.Tuple) *Table {
	idx, _ := index.New(t.index.Kind())
	out := &Table{schema: s, tuples: rows, index: idx, namer: t.namer}
	if idx.Kind() != index.KindNone {
		keyCols := s.KeyCols()
		for _, r := range rows {
			idx.Put(types.KeyOf(r, keyCols), r)
		}
	}
	return out
}

func (t *Table) nextName() string {
	return t.namer.Next(t.schema.Name())
}

func (t *Table) Name() string             { return t.schema.Name() }
func (t *Table) Schema() *schema.Schema   { return t.schema }
func (t *Table) IndexKind() index.Kind    { return t.index.Kind() }
func (t *Table) Namer() *Namer            { return t.namer }
func (t *Table) Len() int                 { return len(t.tuples) }
func (t *Table) Attributes() []string     { return t.schema.Attributes() }
func (t *Table) Key() []string            { return t.schema.Key() }
func (t *Table) Domains() []types.DataType { return t.schema.Domains() }

// Insert type-checks tup and appends a copy of it. With indexing enabled
// the key projection is upserted, so a later tuple with an equal key
// replaces the earlier index entry while both stay in the sequence.
// It returns the position of the new tuple.
func (t *Table) Insert(tup types.Tuple) (int, error) {
	if err := t.schema.CheckTuple(tup); err != nil {
		return -1, fmt.Errorf("insert into %s: %w", t.Name(), err)
	}
	cp := make(types.Tuple, len(tup))
	copy(cp, tup)

	t.tuples = append(t.tuples, cp)
	if t.index.Kind() != index.KindNone {
		t.index.Put(types.KeyOf(cp, t.schema.KeyCols()), cp)
	}
	return len(t.tuples) - 1, nil
}

// Get returns the tuple at position i.
func (t *Table) Get(i int) (types.Tuple, error) {
	if i < 0 || i >= len(t.tuples) {
		return nil, fmt.Errorf("%w: %d not in [0, %d) of %s", errs.ErrIndexOutOfRange, i, len(t.tuples), t.Name())
	}
	return t.tuples[i], nil
}

// Tuples returns the tuple sequence. The slice is shared; callers must not
// modify it.
func (t *Table) Tuples() []types.Tuple {
	return t.tuples
}

// Lookup probes the index with key.
func (t *Table) Lookup(key types.KeyType) (types.Tuple, bool, error) {
	if t.index.Kind() == index.KindNone {
		return nil, false, fmt.Errorf("%w: %s", errs.ErrIndexUnavailable, t.Name())
	}
	tup, ok := t.index.Get(key)
	return tup, ok, nil
}

// IndexEntries visits the index entries in backend order until fn returns
// false. A table without an index has none.
func (t *Table) IndexEntries(fn func(key types.KeyType, tup types.Tuple) bool) {
	t.index.Ascend(fn)
}
