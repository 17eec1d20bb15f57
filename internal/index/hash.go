package index

import "relDB/internal/types"

// hashIndex is the hash map backend, keyed by the canonical key encoding.
type hashIndex struct {
	m map[string]entry
}

func newHashIndex() *hashIndex {
	return &hashIndex{m: make(map[string]entry)}
}

func (x *hashIndex) Kind() Kind { return KindHash }

func (x *hashIndex) Get(key types.KeyType) (types.Tuple, bool) {
	e, ok := x.m[key.Encode()]
	return e.tup, ok
}

func (x *hashIndex) Put(key types.KeyType, tup types.Tuple) {
	x.m[key.Encode()] = entry{key: key, tup: tup}
}

func (x *hashIndex) Ascend(fn func(types.KeyType, types.Tuple) bool) {
	for _, e := range x.m {
		if !fn(e.key, e.tup) {
			return
		}
	}
}

func (x *hashIndex) Len() int { return len(x.m) }
