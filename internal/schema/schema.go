package schema

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"relDB/internal/errs"
	"relDB/internal/types"
)

var validate = validator.New()

// Definition is the raw declaration of a relation schema, as it arrives
// from callers and over the wire.
type Definition struct {
	Name       string           `validate:"required"`
	Attributes []string         `validate:"required,min=1,unique,dive,required"`
	Domains    []types.DataType `validate:"required,eqfield=Attributes"`
	Key        []string         `validate:"required,min=1,unique,dive,required"`
}

// Schema describes a relation: its name, the ordered attribute names, one
// domain per attribute and the primary-key attribute subset.
// A Schema is immutable once built; accessors hand out copies.
type Schema struct {
	name    string
	attrs   []string
	domains []types.DataType
	key     []string

	colIndex map[string]int
	keyCols  []int
}

// New validates def and builds a Schema from it.
func New(def Definition) (*Schema, error) {
	if err := validate.Struct(def); err != nil {
		return nil, fmt.Errorf("schema %q: %w", def.Name, err)
	}
	for i, d := range def.Domains {
		if !d.IsDomain() {
			return nil, fmt.Errorf("schema %q: attribute %q: %w: %s is not a column domain",
				def.Name, def.Attributes[i], errs.ErrTypeMismatch, d)
		}
	}

	s := &Schema{
		name:     def.Name,
		attrs:    append([]string(nil), def.Attributes...),
		domains:  append([]types.DataType(nil), def.Domains...),
		key:      append([]string(nil), def.Key...),
		colIndex: make(map[string]int, len(def.Attributes)),
	}
	for i, a := range s.attrs {
		s.colIndex[a] = i
	}

	keyCols, err := s.Cols(s.key)
	if err != nil {
		return nil, fmt.Errorf("schema %q: key: %w", def.Name, err)
	}
	s.keyCols = keyCols
	return s, nil
}

// Parse builds a Schema from the declaration grammar: attributes, domains
// and key are each a space-separated token list, e.g.
//
//	Parse("movie", "title year length", "Utf8String Int32 Int32", "title year")
func Parse(name, attributes, domains, key string) (*Schema, error) {
	doms, err := types.ParseDomains(domains)
	if err != nil {
		return nil, fmt.Errorf("schema %q: %w: %v", name, errs.ErrTypeMismatch, err)
	}
	return New(Definition{
		Name:       name,
		Attributes: strings.Fields(attributes),
		Domains:    doms,
		Key:        strings.Fields(key),
	})
}

func (s *Schema) Name() string { return s.name }
func (s *Schema) Arity() int   { return len(s.attrs) }

func (s *Schema) Attributes() []string { return append([]string(nil), s.attrs...) }
func (s *Schema) Key() []string        { return append([]string(nil), s.key...) }
func (s *Schema) Domains() []types.DataType {
	return append([]types.DataType(nil), s.domains...)
}

func (s *Schema) Attribute(i int) string       { return s.attrs[i] }
func (s *Schema) Domain(i int) types.DataType { return s.domains[i] }

// KeyCols returns the column positions of the primary key, in key order.
func (s *Schema) KeyCols() []int { return append([]int(nil), s.keyCols...) }

// Definition returns a copy of the declaration this schema was built from.
func (s *Schema) Definition() Definition {
	return Definition{Name: s.name, Attributes: s.Attributes(), Domains: s.Domains(), Key: s.Key()}
}

// Col returns the column position of attr, or -1 when it does not exist.
func (s *Schema) Col(attr string) int {
	if i, ok := s.colIndex[attr]; ok {
		return i
	}
	return -1
}

// Cols resolves every name to its column position.
func (s *Schema) Cols(names []string) ([]int, error) {
	out := make([]int, len(names))
	for i, n := range names {
		c := s.Col(n)
		if c < 0 {
			return nil, fmt.Errorf("%w: %q in %s", errs.ErrUnknownAttribute, n, s.name)
		}
		out[i] = c
	}
	return out, nil
}

// Compatible reports whether o has the same arity and the same domain
// sequence, position by position. Attribute names may differ.
func (s *Schema) Compatible(o *Schema) error {
	if len(s.domains) != len(o.domains) {
		return fmt.Errorf("%w: %s has %d attributes, %s has %d",
			errs.ErrSchemaMismatch, s.name, len(s.domains), o.name, len(o.domains))
	}
	for i := range s.domains {
		if s.domains[i] != o.domains[i] {
			return fmt.Errorf("%w: %s and %s disagree on domain %d (%s vs %s)",
				errs.ErrSchemaMismatch, s.name, o.name, i, s.domains[i], o.domains[i])
		}
	}
	return nil
}

// CheckTuple validates arity and the per-position domain of t.
func (s *Schema) CheckTuple(t types.Tuple) error {
	if len(t) != len(s.attrs) {
		return fmt.Errorf("%w: %s expects %d values, got %d", errs.ErrTypeMismatch, s.name, len(s.attrs), len(t))
	}
	for i, v := range t {
		if !types.CheckDomain(v, s.domains[i]) {
			return fmt.Errorf("%w: attribute %q of %s expects %s, got %s",
				errs.ErrTypeMismatch, s.attrs[i], s.name, s.domains[i], v.Type)
		}
	}
	return nil
}

// Rename returns a copy of s carrying a different relation name.
func (s *Schema) Rename(name string) *Schema {
	cp := *s
	cp.name = name
	return &cp
}

// Project builds the schema of a projection onto attrs. The original key
// survives when every key attribute is kept; otherwise the whole
// projected attribute list becomes the key.
func (s *Schema) Project(name string, attrs []string) (*Schema, []int, error) {
	cols, err := s.Cols(attrs)
	if err != nil {
		return nil, nil, err
	}
	domains := make([]types.DataType, len(cols))
	for i, c := range cols {
		domains[i] = s.domains[c]
	}

	key := attrs
	if containsAll(attrs, s.key) {
		key = s.key
	}

	ps, err := New(Definition{Name: name, Attributes: attrs, Domains: domains, Key: key})
	if err != nil {
		return nil, nil, err
	}
	return ps, cols, nil
}

// Join builds the schema of the concatenation s ++ o. Any attribute of o
// whose name is already taken is renamed in the result by appending "2"
// until it is unique; o itself is left untouched. The key is s's key.
func (s *Schema) Join(name string, o *Schema) (*Schema, error) {
	attrs := make([]string, 0, len(s.attrs)+len(o.attrs))
	attrs = append(attrs, s.attrs...)

	taken := make(map[string]bool, cap(attrs))
	for _, a := range s.attrs {
		taken[a] = true
	}
	for _, a := range o.attrs {
		for taken[a] {
			a += "2"
		}
		taken[a] = true
		attrs = append(attrs, a)
	}

	domains := make([]types.DataType, 0, len(attrs))
	domains = append(domains, s.domains...)
	domains = append(domains, o.domains...)

	return New(Definition{Name: name, Attributes: attrs, Domains: domains, Key: s.Key()})
}

func containsAll(set, sub []string) bool {
	have := make(map[string]bool, len(set))
	for _, a := range set {
		have[a] = true
	}
	for _, a := range sub {
		if !have[a] {
			return false
		}
	}
	return true
}

// SameAttributeSet reports whether a and b hold the same names with the
// same length, in any order.
func SameAttributeSet(a, b []string) bool {
	return len(a) == len(b) && containsAll(a, b) && containsAll(b, a)
}
