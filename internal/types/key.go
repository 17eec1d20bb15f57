package types

import "strings"

// KeyType is an ordered composite key built from one or more values,
// usually the primary-key projection of a tuple. Keys are equal iff all
// components are equal in order, and order lexicographically.
type KeyType struct {
	vals []Value
}

// NewKey builds a key from the given components. The slice is copied.
func NewKey(vals ...Value) KeyType {
	cp := make([]Value, len(vals))
	copy(cp, vals)
	return KeyType{vals: cp}
}

// KeyOf projects tuple t onto the column positions cols.
func KeyOf(t Tuple, cols []int) KeyType {
	vals := make([]Value, len(cols))
	for i, c := range cols {
		vals[i] = t[c]
	}
	return KeyType{vals: vals}
}

func (k KeyType) Len() int       { return len(k.vals) }
func (k KeyType) At(i int) Value { return k.vals[i] }

// Compare orders keys lexicographically over their components; a key that
// is a strict prefix of another sorts first. Components of different
// domains order by domain tag.
func (k KeyType) Compare(o KeyType) int {
	n := min(len(k.vals), len(o.vals))
	for i := 0; i < n; i++ {
		a, b := k.vals[i], o.vals[i]
		if a.Type != b.Type && !a.IsNull() && !b.IsNull() {
			if a.Type < b.Type {
				return -1
			}
			return 1
		}
		if c := Compare(a, b); c != 0 {
			return c
		}
	}
	switch {
	case len(k.vals) < len(o.vals):
		return -1
	case len(k.vals) > len(o.vals):
		return 1
	default:
		return 0
	}
}

// Equal reports component-wise equality.
func (k KeyType) Equal(o KeyType) bool {
	if len(k.vals) != len(o.vals) {
		return false
	}
	for i := range k.vals {
		if !Equal(k.vals[i], o.vals[i]) {
			return false
		}
	}
	return true
}

// Encode returns the canonical byte encoding of the key as a string,
// suitable as a Go map key.
func (k KeyType) Encode() string {
	var buf []byte
	for _, v := range k.vals {
		buf = AppendEncoded(buf, v)
	}
	return string(buf)
}

func (k KeyType) String() string {
	parts := make([]string, len(k.vals))
	for i, v := range k.vals {
		parts[i] = v.String()
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
