// Package gen produces synthetic tuples for a set of related schemas:
// primary keys are unique per relation and foreign-key columns copy the key
// values of tuples already generated for the referenced relation.
package gen

import (
	"fmt"
	"math"
	"math/rand"

	"relDB/internal/errs"
	"relDB/internal/schema"
	"relDB/internal/types"
	"relDB/internal/utils"
)

const maxKeyAttempts = 100

// ForeignKey says that Attrs of a relation reference RefAttrs of Ref.
type ForeignKey struct {
	Attrs    []string
	Ref      string
	RefAttrs []string
}

type relation struct {
	schema *schema.Schema
	fkeys  []foreignCols
}

type foreignCols struct {
	cols    []int
	ref     *relation
	refCols []int
}

// Generator holds the registered relations in registration order.
// It is not safe for concurrent use.
type Generator struct {
	rng    *rand.Rand
	rels   []*relation
	byName map[string]*relation
}

// New returns a Generator whose numeric values come from seed.
func New(seed int64) *Generator {
	return &Generator{
		rng:    rand.New(rand.NewSource(seed)),
		byName: make(map[string]*relation),
	}
}

// AddRelSchema registers a relation. Referenced relations must already be
// registered.
func (g *Generator) AddRelSchema(name, attrs, domains, key string, fkeys ...ForeignKey) (*schema.Schema, error) {
	if _, dup := g.byName[name]; dup {
		return nil, fmt.Errorf("gen: %w: %s", errs.ErrTableExists, name)
	}
	s, err := schema.Parse(name, attrs, domains, key)
	if err != nil {
		return nil, fmt.Errorf("gen: %w", err)
	}

	rel := &relation{schema: s}
	for _, fk := range fkeys {
		ref, ok := g.byName[fk.Ref]
		if !ok {
			return nil, fmt.Errorf("gen: %s references %w: %s", name, errs.ErrTableNotFound, fk.Ref)
		}
		if len(fk.Attrs) != len(fk.RefAttrs) {
			return nil, fmt.Errorf("gen: %s: %w: %v against %v", name, errs.ErrInvalidForeignKey, fk.Attrs, fk.RefAttrs)
		}
		cols, err := s.Cols(fk.Attrs)
		if err != nil {
			return nil, fmt.Errorf("gen: %w", err)
		}
		refCols, err := ref.schema.Cols(fk.RefAttrs)
		if err != nil {
			return nil, fmt.Errorf("gen: %w", err)
		}
		for i := range cols {
			if s.Domain(cols[i]) != ref.schema.Domain(refCols[i]) {
				return nil, fmt.Errorf("gen: %s.%s: %w: references %s.%s", name, fk.Attrs[i],
					errs.ErrTypeMismatch, fk.Ref, fk.RefAttrs[i])
			}
		}
		rel.fkeys = append(rel.fkeys, foreignCols{cols: cols, ref: ref, refCols: refCols})
	}

	g.rels = append(g.rels, rel)
	g.byName[name] = rel
	return s, nil
}

// Schema returns the registered schema called name.
func (g *Generator) Schema(name string) (*schema.Schema, bool) {
	rel, ok := g.byName[name]
	if !ok {
		return nil, false
	}
	return rel.schema, true
}

// Generate produces counts[name] tuples for every registered relation, in
// registration order. A relation missing from counts gets none.
func (g *Generator) Generate(counts map[string]int) (map[string][]types.Tuple, error) {
	out := make(map[string][]types.Tuple, len(g.rels))
	for _, rel := range g.rels {
		name := rel.schema.Name()
		rows, err := g.generate(rel, counts[name], out)
		if err != nil {
			return nil, fmt.Errorf("gen: %s: %w", name, err)
		}
		out[name] = rows
	}
	return out, nil
}

func (g *Generator) generate(rel *relation, n int, done map[string][]types.Tuple) ([]types.Tuple, error) {
	s := rel.schema
	keyCols := s.KeyCols()
	seen := make(map[string]struct{}, n)
	rows := make([]types.Tuple, 0, n)

	for len(rows) < n {
		var tup types.Tuple
		for attempt := 0; ; attempt++ {
			if attempt == maxKeyAttempts {
				return nil, fmt.Errorf("no unique key after %d attempts at tuple %d", maxKeyAttempts, len(rows))
			}
			var err error
			if tup, err = g.tuple(rel, done); err != nil {
				return nil, err
			}
			enc := types.KeyOf(tup, keyCols).Encode()
			if _, dup := seen[enc]; !dup {
				seen[enc] = struct{}{}
				break
			}
		}
		rows = append(rows, tup)
	}
	return rows, nil
}

func (g *Generator) tuple(rel *relation, done map[string][]types.Tuple) (types.Tuple, error) {
	s := rel.schema
	tup := make(types.Tuple, s.Arity())
	for i := range tup {
		tup[i] = g.value(s.Attribute(i), s.Domain(i))
	}
	for _, fk := range rel.fkeys {
		parents := done[fk.ref.schema.Name()]
		if len(parents) == 0 {
			return nil, fmt.Errorf("referenced relation %s has no tuples", fk.ref.schema.Name())
		}
		p := parents[g.rng.Intn(len(parents))]
		for i, c := range fk.cols {
			tup[c] = p[fk.refCols[i]]
		}
	}
	return tup, nil
}

func (g *Generator) value(attr string, d types.DataType) types.Value {
	switch d {
	case types.TypeInt64:
		return types.Int64(g.rng.Int63n(1_000_000))
	case types.TypeInt32:
		return types.Int32(int32(g.rng.Intn(1_000_000)))
	case types.TypeInt16:
		return types.Int16(int16(g.rng.Intn(math.MaxInt16)))
	case types.TypeInt8:
		return types.Int8(int8(g.rng.Intn(math.MaxInt8)))
	case types.TypeFloat64:
		return types.Float64(g.rng.Float64() * 1000)
	case types.TypeFloat32:
		return types.Float32(g.rng.Float32() * 1000)
	case types.TypeChar:
		return types.Char(rune('A' + g.rng.Intn(26)))
	default:
		return types.Str(attr + utils.GenRandomString(8))
	}
}
