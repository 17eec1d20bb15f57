// Package btree is an in-memory B+tree that clusters tuples in ordered,
// sibling-linked leaf pages. It backs the clustered index kind: lookups
// cost O(log n) and range scans walk adjacent leaves without revisiting
// internal pages.
package btree

import (
	"fmt"

	"relDB/internal/types"
)

// Key is the composite index key.
type Key = types.KeyType

// Tree is a B+tree keyed by Key. Put is an upsert: a second Put with an
// equal key replaces the stored tuple.
type Tree struct {
	root     *page
	capacity int
	size     int
	pages    int
}

// New creates an empty tree whose pages split once they exceed capacity
// keys. A capacity below 3 is raised to 3.
func New(capacity int) *Tree {
	if capacity < 3 {
		capacity = 3
	}
	return &Tree{root: newLeaf(), capacity: capacity, pages: 1}
}

// Len returns the number of distinct keys stored.
func (t *Tree) Len() int { return t.size }

// Pages returns the number of allocated pages.
func (t *Tree) Pages() int { return t.pages }

// Height returns the number of levels, 1 for a lone leaf root.
func (t *Tree) Height() int {
	h := 1
	for p := t.root; !p.isLeaf(); p = p.children[0] {
		h++
	}
	return h
}

// Get returns the tuple stored under key.
func (t *Tree) Get(key Key) (types.Tuple, bool) {
	leaf, _ := t.findLeafWithPath(key)
	pos := leaf.search(key)
	if pos < len(leaf.keys) && leaf.keys[pos].Compare(key) == 0 {
		return leaf.tuples[pos], true
	}
	return nil, false
}

// Put stores tup under key, replacing any tuple already there. It reports
// whether an existing entry was replaced.
func (t *Tree) Put(key Key, tup types.Tuple) bool {
	leaf, path := t.findLeafWithPath(key)

	pos := leaf.search(key)
	if pos < len(leaf.keys) && leaf.keys[pos].Compare(key) == 0 {
		leaf.tuples[pos] = tup
		return true
	}

	leaf.keys = insertAt(leaf.keys, pos, key)
	leaf.tuples = insertAt(leaf.tuples, pos, tup)
	t.size++

	if len(leaf.keys) > t.capacity {
		t.splitLeaf(leaf, path)
	}
	return false
}

// Ascend calls fn for every entry in key order until fn returns false.
func (t *Tree) Ascend(fn func(key Key, tup types.Tuple) bool) {
	leaf := t.root
	for !leaf.isLeaf() {
		leaf = leaf.children[0]
	}
	t.scan(leaf, 0, nil, fn)
}

// AscendRange calls fn for every entry with from <= key < to, in key
// order, until fn returns false.
func (t *Tree) AscendRange(from, to Key, fn func(key Key, tup types.Tuple) bool) {
	leaf, _ := t.findLeafWithPath(from)
	t.scan(leaf, leaf.search(from), &to, fn)
}

func (t *Tree) scan(leaf *page, pos int, to *Key, fn func(Key, types.Tuple) bool) {
	for ; leaf != nil; leaf, pos = leaf.next, 0 {
		for i := pos; i < len(leaf.keys); i++ {
			if to != nil && leaf.keys[i].Compare(*to) >= 0 {
				return
			}
			if !fn(leaf.keys[i], leaf.tuples[i]) {
				return
			}
		}
	}
}

// findLeafWithPath walks from the root down to the leaf where key belongs
// and returns it with the path of pages visited; path[len-1] is the leaf.
func (t *Tree) findLeafWithPath(key Key) (*page, []*page) {
	var path []*page
	p := t.root
	for {
		path = append(path, p)
		if p.isLeaf() {
			return p, path
		}
		p = p.children[p.childFor(key)]
	}
}

func (t *Tree) splitLeaf(leaf *page, path []*page) {
	split := len(leaf.keys) / 2

	right := newLeaf()
	right.keys = append([]Key(nil), leaf.keys[split:]...)
	right.tuples = append([]types.Tuple(nil), leaf.tuples[split:]...)
	right.next = leaf.next
	t.pages++

	leaf.keys = leaf.keys[:split]
	leaf.tuples = leaf.tuples[:split]
	leaf.next = right

	// Separator key is the first key of the right leaf.
	t.insertIntoParent(leaf, right, right.keys[0], path)
}

// insertIntoParent links right next to left in left's parent under sepKey,
// splitting internal pages upward as needed. path runs from the root to
// left.
func (t *Tree) insertIntoParent(left, right *page, sepKey Key, path []*page) {
	if len(path) == 1 {
		t.root = &page{
			pageType: PageTypeInternal,
			keys:     []Key{sepKey},
			children: []*page{left, right},
		}
		t.pages++
		return
	}

	parent := path[len(path)-2]
	pos := -1
	for i, c := range parent.children {
		if c == left {
			pos = i
			break
		}
	}
	if pos == -1 {
		panic(fmt.Sprintf("btree: parent does not reference left child (%d keys)", len(left.keys)))
	}

	parent.keys = insertAt(parent.keys, pos, sepKey)
	parent.children = insertAt(parent.children, pos+1, right)

	if len(parent.keys) <= t.capacity {
		return
	}

	// Internal split: the middle key moves up, it is not kept below.
	mid := len(parent.keys) / 2
	promote := parent.keys[mid]

	newRight := &page{
		pageType: PageTypeInternal,
		keys:     append([]Key(nil), parent.keys[mid+1:]...),
		children: append([]*page(nil), parent.children[mid+1:]...),
	}
	t.pages++

	parent.keys = parent.keys[:mid]
	parent.children = parent.children[:mid+1]

	t.insertIntoParent(parent, newRight, promote, path[:len(path)-1])
}
