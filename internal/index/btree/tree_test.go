package btree

import (
	"math/rand"
	"testing"

	"relDB/internal/types"
)

func intKey(n int64) Key { return types.NewKey(types.Int64(n)) }

func TestPutAndGet(t *testing.T) {
	tr := New(DefaultPageCapacity)

	tup := types.Tuple{types.Int64(42), types.Str("x")}
	if replaced := tr.Put(intKey(42), tup); replaced {
		t.Fatalf("first Put reported a replacement")
	}

	got, ok := tr.Get(intKey(42))
	if !ok {
		t.Fatalf("Get: key 42 not found")
	}
	if got[1].S != "x" {
		t.Fatalf("tuple mismatch: got %v", got)
	}
	if _, ok := tr.Get(intKey(7)); ok {
		t.Fatalf("Get: found a key that was never inserted")
	}
}

func TestPutReplacesEqualKey(t *testing.T) {
	tr := New(4)
	tr.Put(intKey(1), types.Tuple{types.Str("old")})
	if replaced := tr.Put(intKey(1), types.Tuple{types.Str("new")}); !replaced {
		t.Fatalf("second Put with equal key should replace")
	}
	if tr.Len() != 1 {
		t.Fatalf("expected 1 entry, got %d", tr.Len())
	}
	got, _ := tr.Get(intKey(1))
	if got[0].S != "new" {
		t.Fatalf("last writer should win, got %v", got)
	}
}

func TestSplitsKeepOrder(t *testing.T) {
	tr := New(4)

	const n = 1000
	perm := rand.New(rand.NewSource(1)).Perm(n)
	for _, v := range perm {
		tr.Put(intKey(int64(v)), types.Tuple{types.Int64(int64(v))})
	}

	if tr.Len() != n {
		t.Fatalf("expected %d entries, got %d", n, tr.Len())
	}
	if tr.Height() < 3 {
		t.Fatalf("expected internal splits, height is %d", tr.Height())
	}
	// every leaf holds at most 4 keys, and there is at least one internal page
	if tr.Pages() <= n/4 {
		t.Fatalf("expected more than %d pages, got %d", n/4, tr.Pages())
	}

	next := int64(0)
	tr.Ascend(func(k Key, tup types.Tuple) bool {
		if k.At(0).I64 != next || tup[0].I64 != next {
			t.Fatalf("out of order: expected %d, got key %v", next, k)
		}
		next++
		return true
	})
	if next != n {
		t.Fatalf("Ascend visited %d entries, want %d", next, n)
	}

	for _, v := range perm {
		if _, ok := tr.Get(intKey(int64(v))); !ok {
			t.Fatalf("key %d lost after splits", v)
		}
	}
}

func TestAscendRange(t *testing.T) {
	tr := New(3)
	for i := int64(0); i < 50; i += 2 {
		tr.Put(intKey(i), types.Tuple{types.Int64(i)})
	}

	var got []int64
	tr.AscendRange(intKey(9), intKey(17), func(k Key, _ types.Tuple) bool {
		got = append(got, k.At(0).I64)
		return true
	})
	want := []int64{10, 12, 14, 16}
	if len(got) != len(want) {
		t.Fatalf("range: got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("range: got %v, want %v", got, want)
		}
	}

	count := 0
	tr.Ascend(func(Key, types.Tuple) bool {
		count++
		return count < 5
	})
	if count != 5 {
		t.Fatalf("Ascend should stop when fn returns false, visited %d", count)
	}
}

func TestCompositeKeys(t *testing.T) {
	tr := New(3)
	for _, dept := range []string{"cs", "ee", "ma"} {
		for id := int64(3); id > 0; id-- {
			k := types.NewKey(types.Str(dept), types.Int64(id))
			tr.Put(k, types.Tuple{types.Str(dept), types.Int64(id)})
		}
	}

	var first []string
	tr.Ascend(func(k Key, _ types.Tuple) bool {
		first = append(first, k.String())
		return len(first) < 4
	})
	want := []string{"{cs, 1}", "{cs, 2}", "{cs, 3}", "{ee, 1}"}
	for i := range want {
		if first[i] != want[i] {
			t.Fatalf("composite order: got %v, want %v", first, want)
		}
	}
}
