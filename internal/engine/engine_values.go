package engine

import (
	"fmt"

	"relDB/internal/errs"
	"relDB/internal/schema"
	"relDB/internal/types"
)

// parseRow coerces one textual value per attribute to the attribute's
// domain. nil values become nulls.
func parseRow(s *schema.Schema, values []*string) (types.Tuple, error) {
	if len(values) != s.Arity() {
		return nil, fmt.Errorf("%w: %s expects %d values, got %d", errs.ErrTypeMismatch, s.Name(), s.Arity(), len(values))
	}
	row := make(types.Tuple, len(values))
	for i, v := range values {
		if v == nil {
			row[i] = types.Null()
			continue
		}
		val, err := types.ParseLiteral(s.Domain(i), *v)
		if err != nil {
			return nil, fmt.Errorf("attribute %q: %w", s.Attribute(i), err)
		}
		row[i] = val
	}
	return row, nil
}

// parseKey coerces one textual value per key attribute, in key order.
func parseKey(s *schema.Schema, values []string) (types.KeyType, error) {
	keyCols := s.KeyCols()
	if len(values) != len(keyCols) {
		return types.KeyType{}, fmt.Errorf("%w: key of %s has %d attributes, got %d values",
			errs.ErrTypeMismatch, s.Name(), len(keyCols), len(values))
	}
	vals := make([]types.Value, len(values))
	for i, c := range keyCols {
		v, err := types.ParseLiteral(s.Domain(c), values[i])
		if err != nil {
			return types.KeyType{}, fmt.Errorf("key attribute %q: %w", s.Attribute(c), err)
		}
		vals[i] = v
	}
	return types.NewKey(vals...), nil
}
