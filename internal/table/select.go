package table

import (
	"fmt"

	"relDB/internal/errs"
	"relDB/internal/index"
	"relDB/internal/types"
)

// Project keeps the named columns, in the given order, and drops rows that
// become exact duplicates. The key survives if every key attribute is
// kept; otherwise the projected attribute list becomes the key.
func (t *Table) Project(attrs []string) (*Table, error) {
	s, cols, err := t.schema.Project(t.nextName(), attrs)
	if err != nil {
		return nil, fmt.Errorf("project %s: %w", t.Name(), err)
	}

	rows := make([]types.Tuple, 0, len(t.tuples))
	seen := make(map[string]struct{}, len(t.tuples))
	for _, tup := range t.tuples {
		row := make(types.Tuple, len(cols))
		for i, c := range cols {
			row[i] = tup[c]
		}
		enc := types.EncodeTuple(row)
		if _, dup := seen[enc]; dup {
			continue
		}
		seen[enc] = struct{}{}
		rows = append(rows, row)
	}

	log.Debug().Str("op", "project").Str("table", t.Name()).Strs("attributes", attrs).Int("rows", len(rows)).Msg("RA")
	return t.derive(s, rows), nil
}

// Select keeps the tuples for which pred holds, in order.
func (t *Table) Select(pred func(types.Tuple) bool) *Table {
	var rows []types.Tuple
	for _, tup := range t.tuples {
		if pred(tup) {
			rows = append(rows, tup)
		}
	}
	log.Debug().Str("op", "select").Str("table", t.Name()).Int("rows", len(rows)).Msg("RA")
	return t.derive(t.schema.Rename(t.nextName()), rows)
}

// SelectCondition keeps the tuples satisfying "<attribute> <op> <literal>".
// The literal is coerced to the attribute's domain.
func (t *Table) SelectCondition(cond string) (*Table, error) {
	c, op, err := parseCondition(cond)
	if err != nil {
		return nil, fmt.Errorf("select %s: %w", t.Name(), err)
	}
	col := t.schema.Col(c.Left)
	if col < 0 {
		return nil, fmt.Errorf("select %s: %w: %q", t.Name(), errs.ErrUnknownAttribute, c.Left)
	}
	lit, err := types.ParseLiteral(t.schema.Domain(col), c.Right)
	if err != nil {
		return nil, fmt.Errorf("select %s: %w", t.Name(), err)
	}

	log.Debug().Str("op", "select").Str("table", t.Name()).Str("condition", cond).Msg("RA")
	return t.Select(func(tup types.Tuple) bool {
		return op.holds(tup[col], lit)
	}), nil
}

// SelectKey returns the tuple indexed under key as a one-row table, or an
// empty table when the key is absent.
func (t *Table) SelectKey(key types.KeyType) (*Table, error) {
	tup, ok, err := t.Lookup(key)
	if err != nil {
		return nil, fmt.Errorf("select %s by key: %w", t.Name(), err)
	}
	var rows []types.Tuple
	if ok {
		rows = append(rows, tup)
	}
	log.Debug().Str("op", "select_key").Str("table", t.Name()).Stringer("key", key).Int("rows", len(rows)).Msg("RA")
	return t.derive(t.schema.Rename(t.nextName()), rows), nil
}

// SelectRange returns the indexed tuples with from <= key < to, in key
// order. It needs an ordered index.
func (t *Table) SelectRange(from, to types.KeyType) (*Table, error) {
	r, ok := t.index.(index.Ranger)
	if !ok {
		return nil, fmt.Errorf("select %s by range: %w: %s index is not ordered", t.Name(), errs.ErrIndexUnavailable, t.index.Kind())
	}
	var rows []types.Tuple
	r.AscendRange(from, to, func(_ types.KeyType, tup types.Tuple) bool {
		rows = append(rows, tup)
		return true
	})
	log.Debug().Str("op", "select_range").Str("table", t.Name()).Int("rows", len(rows)).Msg("RA")
	return t.derive(t.schema.Rename(t.nextName()), rows), nil
}
