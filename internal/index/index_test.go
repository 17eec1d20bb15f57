package index

import (
	"fmt"
	"testing"

	"relDB/internal/types"
)

func key(n int64) types.KeyType { return types.NewKey(types.Int64(n)) }

func TestParseKind(t *testing.T) {
	tests := map[string]Kind{
		"none":       KindNone,
		"NO_MAP":     KindNone,
		"tree":       KindTree,
		"TREE_MAP":   KindTree,
		"Hash":       KindHash,
		"HASH_MAP":   KindHash,
		"bptree":     KindBPTree,
		"BPTREE_MAP": KindBPTree,
	}
	for in, want := range tests {
		got, err := ParseKind(in)
		if err != nil {
			t.Fatalf("ParseKind(%q) failed: %v", in, err)
		}
		if got != want {
			t.Fatalf("ParseKind(%q): got %v, want %v", in, got, want)
		}
	}
	if _, err := ParseKind("skiplist"); err == nil {
		t.Fatalf("expected error for unknown kind")
	}
}

// Every enabled backend must honour the same upsert/lookup contract.
func TestBackendsConform(t *testing.T) {
	for _, kind := range []Kind{KindTree, KindHash, KindBPTree} {
		t.Run(kind.String(), func(t *testing.T) {
			idx, err := New(kind)
			if err != nil {
				t.Fatalf("New failed: %v", err)
			}
			if idx.Kind() != kind {
				t.Fatalf("Kind: got %v", idx.Kind())
			}

			const n = 3000
			for i := int64(0); i < n; i++ {
				idx.Put(key(i), types.Tuple{types.Int64(i), types.Str(fmt.Sprint("v", i))})
			}
			// Overwrite: last writer wins.
			idx.Put(key(7), types.Tuple{types.Int64(7), types.Str("seven")})

			if idx.Len() != n {
				t.Fatalf("Len: got %d, want %d", idx.Len(), n)
			}
			got, ok := idx.Get(key(7))
			if !ok || got[1].S != "seven" {
				t.Fatalf("Get(7): got %v, %v", got, ok)
			}
			if _, ok := idx.Get(key(n + 1)); ok {
				t.Fatalf("Get of absent key hit")
			}

			seen := 0
			idx.Ascend(func(k types.KeyType, tup types.Tuple) bool {
				if !types.Equal(k.At(0), tup[0]) {
					t.Fatalf("entry key %v does not match tuple %v", k, tup)
				}
				seen++
				return true
			})
			if seen != n {
				t.Fatalf("Ascend visited %d entries, want %d", seen, n)
			}
		})
	}
}

func TestOrderedBackendsIterateSorted(t *testing.T) {
	for _, kind := range []Kind{KindTree, KindBPTree} {
		idx, _ := New(kind)
		for _, v := range []int64{5, 1, 4, 2, 3} {
			idx.Put(key(v), types.Tuple{types.Int64(v)})
		}
		prev := int64(0)
		idx.Ascend(func(k types.KeyType, _ types.Tuple) bool {
			if k.At(0).I64 <= prev {
				t.Fatalf("%v: not sorted, %d after %d", kind, k.At(0).I64, prev)
			}
			prev = k.At(0).I64
			return true
		})

		r, ok := idx.(Ranger)
		if !ok {
			t.Fatalf("%v should support range scans", kind)
		}
		var got []int64
		r.AscendRange(key(2), key(4), func(k types.KeyType, _ types.Tuple) bool {
			got = append(got, k.At(0).I64)
			return true
		})
		if len(got) != 2 || got[0] != 2 || got[1] != 3 {
			t.Fatalf("%v: range [2,4) got %v", kind, got)
		}
	}
}

func TestNoIndex(t *testing.T) {
	idx, err := New(KindNone)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	idx.Put(key(1), types.Tuple{types.Int64(1)})
	if _, ok := idx.Get(key(1)); ok {
		t.Fatalf("disabled index should never hit")
	}
	if idx.Len() != 0 {
		t.Fatalf("disabled index should stay empty")
	}
}

func TestClusteredFilterSkipsMisses(t *testing.T) {
	x := newClusteredIndex()

	const n = 3000
	for i := int64(0); i < n; i++ {
		x.Put(key(2*i), types.Tuple{types.Int64(2 * i)})
	}
	if x.capacity < n {
		t.Fatalf("filter capacity %d below key count %d", x.capacity, n)
	}

	// the rebuilt filter must still admit every stored key
	for i := int64(0); i < n; i++ {
		if _, ok := x.Get(key(2 * i)); !ok {
			t.Fatalf("Get(%d) missed a stored key", 2*i)
		}
	}

	passed := 0
	for i := int64(0); i < n; i++ {
		enc := key(2*i + 1).Encode()
		if x.filter.TestString(enc) {
			passed++
		}
		if _, ok := x.Get(key(2*i + 1)); ok {
			t.Fatalf("Get(%d) hit an absent key", 2*i+1)
		}
	}
	// 1% target rate; allow slack
	if passed > n/20 {
		t.Fatalf("%d of %d misses reached the tree", passed, n)
	}
}
