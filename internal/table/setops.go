package table

import (
	"fmt"

	"relDB/internal/types"
)

// keySet collects the encoded key projections of rows at cols.
func keySet(rows []types.Tuple, cols []int) map[string]struct{} {
	set := make(map[string]struct{}, len(rows))
	for _, r := range rows {
		set[types.KeyOf(r, cols).Encode()] = struct{}{}
	}
	return set
}

// Union returns t's tuples followed by every tuple of o whose key, taken
// at t's key positions, is not a key of t. Rows are compared by key only.
func (t *Table) Union(o *Table) (*Table, error) {
	if err := t.schema.Compatible(o.schema); err != nil {
		return nil, fmt.Errorf("union %s, %s: %w", t.Name(), o.Name(), err)
	}

	keyCols := t.schema.KeyCols()
	have := keySet(t.tuples, keyCols)

	rows := make([]types.Tuple, 0, len(t.tuples)+len(o.tuples))
	rows = append(rows, t.tuples...)
	for _, u := range o.tuples {
		if _, ok := have[types.KeyOf(u, keyCols).Encode()]; !ok {
			rows = append(rows, u)
		}
	}

	log.Debug().Str("op", "union").Str("table", t.Name()).Str("other", o.Name()).Int("rows", len(rows)).Msg("RA")
	return t.derive(t.schema.Rename(t.nextName()), rows), nil
}

// Minus returns the tuples of t whose key, taken at t's key positions, is
// not the key of any tuple of o. Non-key fields are not compared.
func (t *Table) Minus(o *Table) (*Table, error) {
	if err := t.schema.Compatible(o.schema); err != nil {
		return nil, fmt.Errorf("minus %s, %s: %w", t.Name(), o.Name(), err)
	}

	keyCols := t.schema.KeyCols()
	drop := keySet(o.tuples, keyCols)

	var rows []types.Tuple
	for _, tup := range t.tuples {
		if _, ok := drop[types.KeyOf(tup, keyCols).Encode()]; !ok {
			rows = append(rows, tup)
		}
	}

	log.Debug().Str("op", "minus").Str("table", t.Name()).Str("other", o.Name()).Int("rows", len(rows)).Msg("RA")
	return t.derive(t.schema.Rename(t.nextName()), rows), nil
}
