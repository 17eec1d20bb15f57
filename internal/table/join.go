package table

import (
	"fmt"

	"relDB/internal/errs"
	"relDB/internal/index"
	"relDB/internal/schema"
	"relDB/internal/types"
)

func concat(a, b types.Tuple) types.Tuple {
	out := make(types.Tuple, 0, len(a)+len(b))
	out = append(out, a...)
	return append(out, b...)
}

// sameDomains checks that column cols1[i] of s1 and cols2[i] of s2 share a
// domain for every i.
func sameDomains(s1 *schema.Schema, cols1 []int, s2 *schema.Schema, cols2 []int) error {
	for i := range cols1 {
		d1, d2 := s1.Domain(cols1[i]), s2.Domain(cols2[i])
		if d1 != d2 {
			return fmt.Errorf("%w: %s.%s is %s, %s.%s is %s", errs.ErrTypeMismatch,
				s1.Name(), s1.Attribute(cols1[i]), d1, s2.Name(), s2.Attribute(cols2[i]), d2)
		}
	}
	return nil
}

func (t *Table) joinSchema(o *Table) (*schema.Schema, error) {
	return t.schema.Join(t.nextName(), o.schema)
}

// Join is the nested-loop equi-join: it emits t ++ u for every pair whose
// values at attrs1 (in t) equal the values at attrs2 (in o), pairwise.
// Attribute names of o that clash with t's get a "2" suffix in the result.
func (t *Table) Join(attrs1, attrs2 []string, o *Table) (*Table, error) {
	if len(attrs1) != len(attrs2) || len(attrs1) == 0 {
		return nil, fmt.Errorf("join %s, %s: %w: %d attributes against %d",
			t.Name(), o.Name(), errs.ErrSchemaMismatch, len(attrs1), len(attrs2))
	}
	cols1, err := t.schema.Cols(attrs1)
	if err != nil {
		return nil, fmt.Errorf("join %s, %s: %w", t.Name(), o.Name(), err)
	}
	cols2, err := o.schema.Cols(attrs2)
	if err != nil {
		return nil, fmt.Errorf("join %s, %s: %w", t.Name(), o.Name(), err)
	}
	if err := sameDomains(t.schema, cols1, o.schema, cols2); err != nil {
		return nil, fmt.Errorf("join %s, %s: %w", t.Name(), o.Name(), err)
	}
	s, err := t.joinSchema(o)
	if err != nil {
		return nil, fmt.Errorf("join %s, %s: %w", t.Name(), o.Name(), err)
	}

	var rows []types.Tuple
	for _, tup := range t.tuples {
		for _, u := range o.tuples {
			if equalAt(tup, cols1, u, cols2) {
				rows = append(rows, concat(tup, u))
			}
		}
	}

	log.Debug().Str("op", "join").Str("table", t.Name()).Str("other", o.Name()).Strs("on", attrs1).Int("rows", len(rows)).Msg("RA")
	return t.derive(s, rows), nil
}

func equalAt(a types.Tuple, colsA []int, b types.Tuple, colsB []int) bool {
	for i := range colsA {
		if !opEq.holds(a[colsA[i]], b[colsB[i]]) {
			return false
		}
	}
	return true
}

// ThetaJoin is the nested-loop join on "<attr1> <op> <attr2>", attr1 in t
// and attr2 in o.
func (t *Table) ThetaJoin(cond string, o *Table) (*Table, error) {
	c, op, err := parseCondition(cond)
	if err != nil {
		return nil, fmt.Errorf("theta join %s, %s: %w", t.Name(), o.Name(), err)
	}
	col1 := t.schema.Col(c.Left)
	if col1 < 0 {
		return nil, fmt.Errorf("theta join %s, %s: %w: %q", t.Name(), o.Name(), errs.ErrUnknownAttribute, c.Left)
	}
	col2 := o.schema.Col(c.Right)
	if col2 < 0 {
		return nil, fmt.Errorf("theta join %s, %s: %w: %q", t.Name(), o.Name(), errs.ErrUnknownAttribute, c.Right)
	}
	if err := sameDomains(t.schema, []int{col1}, o.schema, []int{col2}); err != nil {
		return nil, fmt.Errorf("theta join %s, %s: %w", t.Name(), o.Name(), err)
	}
	s, err := t.joinSchema(o)
	if err != nil {
		return nil, fmt.Errorf("theta join %s, %s: %w", t.Name(), o.Name(), err)
	}

	var rows []types.Tuple
	for _, tup := range t.tuples {
		for _, u := range o.tuples {
			if op.holds(tup[col1], u[col2]) {
				rows = append(rows, concat(tup, u))
			}
		}
	}

	log.Debug().Str("op", "theta_join").Str("table", t.Name()).Str("other", o.Name()).Str("condition", cond).Int("rows", len(rows)).Msg("RA")
	return t.derive(s, rows), nil
}

// IJoin is the indexed equi-join. attrs2 must be exactly o's primary key
// (in any order) and attrs1 the matching foreign-key attributes of t; each
// tuple of t probes o's index once.
func (t *Table) IJoin(attrs1, attrs2 []string, o *Table) (*Table, error) {
	fail := func(err error) (*Table, error) {
		return nil, fmt.Errorf("i_join %s, %s: %w", t.Name(), o.Name(), err)
	}

	if len(attrs1) != len(attrs2) || !schema.SameAttributeSet(attrs2, o.Key()) {
		return fail(fmt.Errorf("%w: %v does not reference key %v of %s",
			errs.ErrInvalidForeignKey, attrs2, o.Key(), o.Name()))
	}
	cols1, err := t.schema.Cols(attrs1)
	if err != nil {
		return fail(fmt.Errorf("%w: %w", errs.ErrInvalidForeignKey, err))
	}
	if o.index.Kind() == index.KindNone {
		return fail(fmt.Errorf("%w: %s", errs.ErrIndexUnavailable, o.Name()))
	}

	// Reorder the probe columns to follow o's key order.
	probe := make([]int, len(cols1))
	for i, k := range o.Key() {
		for j, a := range attrs2 {
			if a == k {
				probe[i] = cols1[j]
				break
			}
		}
	}
	if err := sameDomains(t.schema, probe, o.schema, o.schema.KeyCols()); err != nil {
		return fail(err)
	}
	s, err := t.joinSchema(o)
	if err != nil {
		return fail(err)
	}

	var rows []types.Tuple
	for _, tup := range t.tuples {
		key := types.KeyOf(tup, probe)
		if hasNull(key) {
			continue
		}
		if u, ok := o.index.Get(key); ok {
			rows = append(rows, concat(tup, u))
		}
	}

	log.Debug().Str("op", "i_join").Str("table", t.Name()).Str("other", o.Name()).Strs("on", attrs1).Int("rows", len(rows)).Msg("RA")
	return t.derive(s, rows), nil
}

func hasNull(k types.KeyType) bool {
	for i := 0; i < k.Len(); i++ {
		if k.At(i).IsNull() {
			return true
		}
	}
	return false
}
