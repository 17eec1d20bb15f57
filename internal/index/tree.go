package index

import (
	"github.com/google/btree"

	"relDB/internal/types"
)

const treeDegree = 32

type entry struct {
	key types.KeyType
	tup types.Tuple
}

func lessEntry(a, b entry) bool {
	return a.key.Compare(b.key) < 0
}

// treeIndex is the ordered map backend.
type treeIndex struct {
	t *btree.BTreeG[entry]
}

func newTreeIndex() *treeIndex {
	return &treeIndex{t: btree.NewG[entry](treeDegree, lessEntry)}
}

func (x *treeIndex) Kind() Kind { return KindTree }

func (x *treeIndex) Get(key types.KeyType) (types.Tuple, bool) {
	e, ok := x.t.Get(entry{key: key})
	return e.tup, ok
}

func (x *treeIndex) Put(key types.KeyType, tup types.Tuple) {
	x.t.ReplaceOrInsert(entry{key: key, tup: tup})
}

func (x *treeIndex) Ascend(fn func(types.KeyType, types.Tuple) bool) {
	x.t.Ascend(func(e entry) bool {
		return fn(e.key, e.tup)
	})
}

func (x *treeIndex) Len() int { return x.t.Len() }

func (x *treeIndex) AscendRange(from, to types.KeyType, fn func(types.KeyType, types.Tuple) bool) {
	x.t.AscendRange(entry{key: from}, entry{key: to}, func(e entry) bool {
		return fn(e.key, e.tup)
	})
}
