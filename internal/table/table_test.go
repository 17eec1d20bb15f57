package table

import (
	"errors"
	"strings"
	"testing"

	"relDB/internal/errs"
	"relDB/internal/index"
	"relDB/internal/schema"
	"relDB/internal/types"
)

func mustSchema(t *testing.T, name, attrs, domains, key string) *schema.Schema {
	t.Helper()
	s, err := schema.Parse(name, attrs, domains, key)
	if err != nil {
		t.Fatalf("schema.Parse(%s) failed: %v", name, err)
	}
	return s
}

func mustTable(t *testing.T, s *schema.Schema, kind index.Kind, rows ...types.Tuple) *Table {
	t.Helper()
	tbl, err := NewWithTuples(s, rows, WithIndex(kind))
	if err != nil {
		t.Fatalf("NewWithTuples(%s) failed: %v", s.Name(), err)
	}
	return tbl
}

func people(t *testing.T, kind index.Kind) *Table {
	s := mustSchema(t, "people", "id name", "Int64 Utf8String", "id")
	return mustTable(t, s, kind,
		types.Tuple{types.Int64(1), types.Str("a")},
		types.Tuple{types.Int64(2), types.Str("b")},
	)
}

func TestInsertAndGet(t *testing.T) {
	tbl := people(t, index.KindHash)

	pos, err := tbl.Insert(types.Tuple{types.Int64(3), types.Null()})
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if pos != 2 {
		t.Fatalf("expected position 2, got %d", pos)
	}
	got, err := tbl.Get(2)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got[0].I64 != 3 || !got[1].IsNull() {
		t.Fatalf("unexpected tuple %v", got)
	}

	if _, err := tbl.Get(3); !errors.Is(err, errs.ErrIndexOutOfRange) {
		t.Fatalf("expected ErrIndexOutOfRange, got %v", err)
	}
	if _, err := tbl.Get(-1); !errors.Is(err, errs.ErrIndexOutOfRange) {
		t.Fatalf("expected ErrIndexOutOfRange for -1, got %v", err)
	}
}

func TestInsertTypeMismatchLeavesTableUnchanged(t *testing.T) {
	tbl := people(t, index.KindTree)

	_, err := tbl.Insert(types.Tuple{types.Str("3"), types.Str("c")})
	if !errors.Is(err, errs.ErrTypeMismatch) {
		t.Fatalf("expected ErrTypeMismatch, got %v", err)
	}
	if tbl.Len() != 2 {
		t.Fatalf("tuple count changed to %d", tbl.Len())
	}
	if _, ok, _ := tbl.Lookup(types.NewKey(types.Str("3"))); ok {
		t.Fatalf("rejected tuple reached the index")
	}

	if _, err := tbl.Insert(types.Tuple{types.Int64(3)}); !errors.Is(err, errs.ErrTypeMismatch) {
		t.Fatalf("expected ErrTypeMismatch for arity, got %v", err)
	}
}

func TestInsertCopiesTuple(t *testing.T) {
	tbl := people(t, index.KindNone)
	tup := types.Tuple{types.Int64(9), types.Str("z")}
	if _, err := tbl.Insert(tup); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	tup[1] = types.Str("changed")
	got, _ := tbl.Get(2)
	if got[1].S != "z" {
		t.Fatalf("table aliases the caller's tuple")
	}
}

func TestIndexLastWriterWins(t *testing.T) {
	for _, kind := range []index.Kind{index.KindTree, index.KindHash, index.KindBPTree} {
		tbl := people(t, kind)
		if _, err := tbl.Insert(types.Tuple{types.Int64(1), types.Str("again")}); err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
		if tbl.Len() != 3 {
			t.Fatalf("%v: both tuples should stay in the sequence, got %d", kind, tbl.Len())
		}
		got, ok, err := tbl.Lookup(types.NewKey(types.Int64(1)))
		if err != nil || !ok {
			t.Fatalf("%v: Lookup failed: %v %v", kind, ok, err)
		}
		if got[1].S != "again" {
			t.Fatalf("%v: index should hold the later tuple, got %v", kind, got)
		}
	}
}

func TestNamerNamesResults(t *testing.T) {
	n := NewNamer()
	s := mustSchema(t, "movie", "title year", "Utf8String Int32", "title")
	tbl, err := New(s, WithNamer(n))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	a, _ := tbl.Project([]string{"title"})
	b := tbl.Select(func(types.Tuple) bool { return true })
	if a.Name() != "movie1" || b.Name() != "movie2" {
		t.Fatalf("unexpected result names %q %q", a.Name(), b.Name())
	}
	c, _ := a.Project([]string{"title"})
	if c.Name() != "movie13" {
		t.Fatalf("derived tables should share the namer, got %q", c.Name())
	}
	if c.Namer() != n {
		t.Fatalf("namer not inherited")
	}
}

func TestRender(t *testing.T) {
	tbl := people(t, index.KindTree)
	out := tbl.Render()
	for _, want := range []string{"Table people", "id", "name", "|-"} {
		if !strings.Contains(out, want) {
			t.Fatalf("Render missing %q:\n%s", want, out)
		}
	}
	// title, 3 rules, header, 2 rows
	if lines := strings.Count(strings.TrimSpace(out), "\n") + 1; lines != 7 {
		t.Fatalf("expected 7 lines, got %d:\n%s", lines, out)
	}

	idx := tbl.RenderIndex()
	if !strings.Contains(idx, "{1} -> [1, a]") || !strings.Contains(idx, "{2} -> [2, b]") {
		t.Fatalf("RenderIndex output:\n%s", idx)
	}

	var b strings.Builder
	if err := tbl.Print(&b); err != nil || b.String() != out {
		t.Fatalf("Print should write Render, err=%v", err)
	}
}

func TestNamerSkipsIssuedNames(t *testing.T) {
	n := NewNamer()
	if got := n.Next("t"); got != "t1" {
		t.Fatalf("expected t1, got %q", got)
	}
	if got := n.Next("t1"); got != "t12" {
		t.Fatalf("expected t12, got %q", got)
	}
	seen := map[string]bool{"t1": true, "t12": true}
	for i := 0; i < 20; i++ {
		name := n.Next("t")
		if seen[name] {
			t.Fatalf("name %q handed out twice", name)
		}
		seen[name] = true
	}

	n.Reserve("u24")
	if got := n.Next("u"); got == "u24" {
		t.Fatalf("reserved name handed out")
	}
}
