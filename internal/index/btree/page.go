package btree

import (
	"sort"

	"relDB/internal/types"
)

const (
	PageTypeLeaf     = 1
	PageTypeInternal = 2

	// DefaultPageCapacity is the maximum number of keys a page holds
	// before it splits.
	DefaultPageCapacity = 64
)

// page is one node of the tree. Leaf pages cluster the tuples themselves
// next to their keys and are chained left to right through next; internal
// pages hold separator keys and len(keys)+1 children.
type page struct {
	pageType uint8
	keys     []Key

	tuples   []types.Tuple // leaf only
	next     *page         // leaf only
	children []*page       // internal only
}

func newLeaf() *page {
	return &page{pageType: PageTypeLeaf}
}

func (p *page) isLeaf() bool {
	return p.pageType == PageTypeLeaf
}

// search returns the first position whose key is >= key.
func (p *page) search(key Key) int {
	return sort.Search(len(p.keys), func(i int) bool {
		return p.keys[i].Compare(key) >= 0
	})
}

// childFor picks the child subtree of an internal page that covers key:
// keys equal to a separator live in the right subtree.
func (p *page) childFor(key Key) int {
	return sort.Search(len(p.keys), func(i int) bool {
		return key.Compare(p.keys[i]) < 0
	})
}

func insertAt[T any](s []T, i int, v T) []T {
	s = append(s, v)
	copy(s[i+1:], s[i:])
	s[i] = v
	return s
}
