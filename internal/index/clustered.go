package index

import (
	"github.com/bits-and-blooms/bloom/v3"

	"relDB/internal/index/btree"
	"relDB/internal/types"
)

const (
	initialBloomCapacity = 1024
	bloomFalsePositive   = 0.01
)

// clusteredIndex is the B+tree backend. Tuples sit in the leaf pages next
// to their keys, so ordered and range scans read adjacent pages.
//
// A bloom filter over the encoded keys answers most misses without a root
// to leaf descent. It is rebuilt at twice the capacity whenever the tree
// outgrows it.
type clusteredIndex struct {
	t        *btree.Tree
	filter   *bloom.BloomFilter
	capacity uint
}

func newClusteredIndex() *clusteredIndex {
	return &clusteredIndex{
		t:        btree.New(btree.DefaultPageCapacity),
		filter:   bloom.NewWithEstimates(initialBloomCapacity, bloomFalsePositive),
		capacity: initialBloomCapacity,
	}
}

func (x *clusteredIndex) Kind() Kind { return KindBPTree }

func (x *clusteredIndex) Get(key types.KeyType) (types.Tuple, bool) {
	if !x.filter.TestString(key.Encode()) {
		return nil, false
	}
	return x.t.Get(key)
}

func (x *clusteredIndex) Put(key types.KeyType, tup types.Tuple) {
	x.t.Put(key, tup)
	x.filter.AddString(key.Encode())
	if uint(x.t.Len()) > x.capacity {
		x.grow()
	}
}

func (x *clusteredIndex) grow() {
	x.capacity *= 2
	x.filter = bloom.NewWithEstimates(x.capacity, bloomFalsePositive)
	x.t.Ascend(func(k types.KeyType, _ types.Tuple) bool {
		x.filter.AddString(k.Encode())
		return true
	})
}

func (x *clusteredIndex) Ascend(fn func(types.KeyType, types.Tuple) bool) {
	x.t.Ascend(fn)
}

// AscendRange visits entries with from <= key < to in key order.
func (x *clusteredIndex) AscendRange(from, to types.KeyType, fn func(types.KeyType, types.Tuple) bool) {
	x.t.AscendRange(from, to, fn)
}

func (x *clusteredIndex) Len() int { return x.t.Len() }
