// Package index provides the lookup accelerator a table keeps over its
// primary-key projection. Every backend satisfies the same Index contract;
// the backend is picked once, when the table is built.
package index

import (
	"fmt"
	"strings"

	"relDB/internal/types"
)

// Kind selects an Index backend.
type Kind int

const (
	// KindNone disables indexing: lookups always miss and key-based
	// operators refuse to run.
	KindNone Kind = iota
	// KindTree is an ordered map with sorted iteration.
	KindTree
	// KindHash is a hash map with unordered iteration.
	KindHash
	// KindBPTree is a clustered B+tree tuned for range scans.
	KindBPTree
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindTree:
		return "tree"
	case KindHash:
		return "hash"
	case KindBPTree:
		return "bptree"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Kinds lists every backend, KindNone first.
var Kinds = []Kind{KindNone, KindTree, KindHash, KindBPTree}

// ParseKind resolves a backend name. Besides the String forms it accepts
// NO_MAP, TREE_MAP, HASH_MAP and BPTREE_MAP.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "none", "no_map", "":
		return KindNone, nil
	case "tree", "tree_map":
		return KindTree, nil
	case "hash", "hash_map":
		return KindHash, nil
	case "bptree", "bptree_map":
		return KindBPTree, nil
	}
	return KindNone, fmt.Errorf("index: unknown kind %q", s)
}

// Index maps a primary-key projection to the tuple last stored under it.
// Put is an upsert; the index is a last-writer-wins accelerator, not a
// uniqueness constraint.
type Index interface {
	Kind() Kind
	Get(key types.KeyType) (types.Tuple, bool)
	Put(key types.KeyType, tup types.Tuple)
	// Ascend visits entries in backend order until fn returns false.
	Ascend(fn func(key types.KeyType, tup types.Tuple) bool)
	Len() int
}

// New returns an empty index of the given kind.
func New(kind Kind) (Index, error) {
	switch kind {
	case KindNone:
		return noIndex{}, nil
	case KindTree:
		return newTreeIndex(), nil
	case KindHash:
		return newHashIndex(), nil
	case KindBPTree:
		return newClusteredIndex(), nil
	}
	return nil, fmt.Errorf("index: unknown kind %d", int(kind))
}

type noIndex struct{}

func (noIndex) Kind() Kind                                  { return KindNone }
func (noIndex) Get(types.KeyType) (types.Tuple, bool)       { return nil, false }
func (noIndex) Put(types.KeyType, types.Tuple)              {}
func (noIndex) Ascend(func(types.KeyType, types.Tuple) bool) {}
func (noIndex) Len() int                                    { return 0 }

// Ranger is implemented by the ordered backends that can visit the
// half-open key range [from, to) without a full scan.
type Ranger interface {
	AscendRange(from, to types.KeyType, fn func(key types.KeyType, tup types.Tuple) bool)
}
