package table

import (
	"errors"
	"reflect"
	"sort"
	"testing"

	"relDB/internal/errs"
	"relDB/internal/index"
	"relDB/internal/types"
)

// rowSet is the multiset of rows of tbl, as sorted canonical encodings.
func rowSet(tbl *Table) []string {
	out := make([]string, 0, tbl.Len())
	for _, tup := range tbl.Tuples() {
		out = append(out, types.EncodeTuple(tup))
	}
	sort.Strings(out)
	return out
}

func sameRows(a, b *Table) bool {
	return reflect.DeepEqual(rowSet(a), rowSet(b))
}

func students(t *testing.T, kind index.Kind) *Table {
	s := mustSchema(t, "student", "id name dept", "Int32 Utf8String Utf8String", "id")
	return mustTable(t, s, kind,
		types.Tuple{types.Int32(1), types.Str("ann"), types.Str("cs")},
		types.Tuple{types.Int32(2), types.Str("bob"), types.Str("ee")},
		types.Tuple{types.Int32(3), types.Str("cid"), types.Str("cs")},
		types.Tuple{types.Int32(4), types.Str("dee"), types.Null()},
	)
}

func transcripts(t *testing.T, kind index.Kind) *Table {
	s := mustSchema(t, "transcript", "sid crs grade", "Int32 Utf8String Char", "sid crs")
	return mustTable(t, s, kind,
		types.Tuple{types.Int32(1), types.Str("db"), types.Char('A')},
		types.Tuple{types.Int32(1), types.Str("os"), types.Char('B')},
		types.Tuple{types.Int32(3), types.Str("db"), types.Char('C')},
		types.Tuple{types.Int32(9), types.Str("db"), types.Char('A')},
	)
}

func TestSelectAndProjectScenario(t *testing.T) {
	tbl := people(t, index.KindHash)

	sel, err := tbl.SelectCondition("id == 2")
	if err != nil {
		t.Fatalf("SelectCondition failed: %v", err)
	}
	if sel.Len() != 1 {
		t.Fatalf("expected 1 row, got %d", sel.Len())
	}
	row, _ := sel.Get(0)
	if row[0].I64 != 2 || row[1].S != "b" {
		t.Fatalf("unexpected row %v", row)
	}

	proj, err := tbl.Project([]string{"name"})
	if err != nil {
		t.Fatalf("Project failed: %v", err)
	}
	if proj.Len() != 2 {
		t.Fatalf("expected 2 rows, got %d", proj.Len())
	}
	if !reflect.DeepEqual(proj.Key(), []string{"name"}) {
		t.Fatalf("key should become [name], got %v", proj.Key())
	}
	r0, _ := proj.Get(0)
	r1, _ := proj.Get(1)
	if r0[0].S != "a" || r1[0].S != "b" {
		t.Fatalf("unexpected projected rows %v %v", r0, r1)
	}
}

func TestProjectAllIsIdentity(t *testing.T) {
	tbl := students(t, index.KindTree)
	p, err := tbl.Project(tbl.Attributes())
	if err != nil {
		t.Fatalf("Project failed: %v", err)
	}
	if !reflect.DeepEqual(p.Attributes(), tbl.Attributes()) || !reflect.DeepEqual(p.Key(), tbl.Key()) {
		t.Fatalf("schema changed: %v/%v", p.Attributes(), p.Key())
	}
	if !sameRows(p, tbl) {
		t.Fatalf("rows changed")
	}
}

func TestProjectRemovesDuplicates(t *testing.T) {
	tbl := students(t, index.KindNone)
	p, err := tbl.Project([]string{"dept"})
	if err != nil {
		t.Fatalf("Project failed: %v", err)
	}
	// cs, ee, null
	if p.Len() != 3 {
		t.Fatalf("expected 3 distinct rows, got %d", p.Len())
	}
	if _, err := tbl.Project([]string{"gpa"}); !errors.Is(err, errs.ErrUnknownAttribute) {
		t.Fatalf("expected ErrUnknownAttribute, got %v", err)
	}
}

func TestSelectComposes(t *testing.T) {
	tbl := students(t, index.KindHash)
	p1 := func(tup types.Tuple) bool { return tup[0].I64 >= 2 }
	p2 := func(tup types.Tuple) bool { return tup[2].IsNull() || tup[2].S != "ee" }

	chained := tbl.Select(p1).Select(p2)
	both := tbl.Select(func(tup types.Tuple) bool { return p1(tup) && p2(tup) })
	if !sameRows(chained, both) || chained.Len() != 2 {
		t.Fatalf("select composition broken: %d vs %d rows", chained.Len(), both.Len())
	}
}

func TestSelectConditionOperators(t *testing.T) {
	tbl := students(t, index.KindNone)
	tests := []struct {
		cond string
		want int
	}{
		{"id == 3", 1},
		{"id != 3", 3},
		{"id < 3", 2},
		{"id <= 3", 3},
		{"id > 3", 1},
		{"id >= 1", 4},
		{"dept == cs", 2},
		// null never satisfies a comparison
		{"dept != cs", 1},
		{"  name   >  b  ", 3},
	}
	for _, tc := range tests {
		got, err := tbl.SelectCondition(tc.cond)
		if err != nil {
			t.Fatalf("SelectCondition(%q) failed: %v", tc.cond, err)
		}
		if got.Len() != tc.want {
			t.Errorf("SelectCondition(%q): got %d rows, want %d", tc.cond, got.Len(), tc.want)
		}
	}
}

func TestSelectConditionErrors(t *testing.T) {
	tbl := students(t, index.KindNone)
	tests := []struct {
		cond string
		want error
	}{
		{"gpa == 3", errs.ErrUnknownAttribute},
		{"id ~= 3", errs.ErrUnsupportedOperator},
		{"id == three", errs.ErrTypeMismatch},
		{"id ==", errs.ErrMalformedCondition},
		{"id == 3 extra", errs.ErrMalformedCondition},
	}
	for _, tc := range tests {
		if _, err := tbl.SelectCondition(tc.cond); !errors.Is(err, tc.want) {
			t.Errorf("SelectCondition(%q): expected %v, got %v", tc.cond, tc.want, err)
		}
	}
}

func TestSelectKey(t *testing.T) {
	for _, kind := range []index.Kind{index.KindTree, index.KindHash, index.KindBPTree} {
		tbl := students(t, kind)
		hit, err := tbl.SelectKey(types.NewKey(types.Int32(3)))
		if err != nil {
			t.Fatalf("%v: SelectKey failed: %v", kind, err)
		}
		if hit.Len() != 1 {
			t.Fatalf("%v: expected 1 row, got %d", kind, hit.Len())
		}
		miss, _ := tbl.SelectKey(types.NewKey(types.Int32(30)))
		if miss.Len() != 0 {
			t.Fatalf("%v: expected empty result", kind)
		}
	}

	_, err := students(t, index.KindNone).SelectKey(types.NewKey(types.Int32(3)))
	if !errors.Is(err, errs.ErrIndexUnavailable) {
		t.Fatalf("expected ErrIndexUnavailable, got %v", err)
	}
}

func TestSelectRange(t *testing.T) {
	tbl := students(t, index.KindBPTree)
	got, err := tbl.SelectRange(types.NewKey(types.Int32(2)), types.NewKey(types.Int32(4)))
	if err != nil {
		t.Fatalf("SelectRange failed: %v", err)
	}
	if got.Len() != 2 {
		t.Fatalf("expected ids 2 and 3, got %d rows", got.Len())
	}
	if _, err := students(t, index.KindHash).SelectRange(types.NewKey(types.Int32(2)), types.NewKey(types.Int32(4))); !errors.Is(err, errs.ErrIndexUnavailable) {
		t.Fatalf("hash index cannot range scan, got %v", err)
	}
}

func TestUnionAndMinus(t *testing.T) {
	s := mustSchema(t, "a", "id v", "Int64 Utf8String", "id")
	sb := mustSchema(t, "b", "k w", "Int64 Utf8String", "k")
	a := mustTable(t, s, index.KindHash,
		types.Tuple{types.Int64(1), types.Str("x")},
		types.Tuple{types.Int64(2), types.Str("y")},
	)
	b := mustTable(t, sb, index.KindHash,
		types.Tuple{types.Int64(2), types.Str("DIFFERENT")},
		types.Tuple{types.Int64(3), types.Str("z")},
	)

	u, err := a.Union(b)
	if err != nil {
		t.Fatalf("Union failed: %v", err)
	}
	// key 2 of b is dropped even though its value differs.
	if u.Len() != 3 {
		t.Fatalf("expected 3 rows, got %d", u.Len())
	}
	if !reflect.DeepEqual(u.Attributes(), a.Attributes()) {
		t.Fatalf("union should keep the left schema, got %v", u.Attributes())
	}

	m, err := a.Minus(b)
	if err != nil {
		t.Fatalf("Minus failed: %v", err)
	}
	if m.Len() != 1 {
		t.Fatalf("expected 1 row, got %d", m.Len())
	}
	if row, _ := m.Get(0); row[0].I64 != 1 {
		t.Fatalf("unexpected row %v", row)
	}

	// A ∪ B − B keeps exactly the keys of A that B lacks.
	um, err := u.Minus(b)
	if err != nil {
		t.Fatalf("Minus failed: %v", err)
	}
	if !sameRows(um, m) {
		t.Fatalf("union then minus did not recover A's unique keys")
	}
}

func TestUnionMinusSelf(t *testing.T) {
	tbl := students(t, index.KindTree)
	u, err := tbl.Union(tbl)
	if err != nil {
		t.Fatalf("Union failed: %v", err)
	}
	if !sameRows(u, tbl) {
		t.Fatalf("T ∪ T should equal T")
	}
	m, err := tbl.Minus(tbl)
	if err != nil {
		t.Fatalf("Minus failed: %v", err)
	}
	if m.Len() != 0 || !reflect.DeepEqual(m.Attributes(), tbl.Attributes()) {
		t.Fatalf("T − T should be empty with T's schema")
	}
}

func TestUnionSchemaMismatch(t *testing.T) {
	a := students(t, index.KindNone)
	b := transcripts(t, index.KindNone)
	if _, err := a.Union(b); !errors.Is(err, errs.ErrSchemaMismatch) {
		t.Fatalf("expected ErrSchemaMismatch, got %v", err)
	}
	if _, err := a.Minus(b); !errors.Is(err, errs.ErrSchemaMismatch) {
		t.Fatalf("expected ErrSchemaMismatch, got %v", err)
	}
}

func TestJoinMatchesIndexedJoin(t *testing.T) {
	for _, kind := range []index.Kind{index.KindTree, index.KindHash, index.KindBPTree} {
		tr := transcripts(t, kind)
		st := students(t, kind)

		nested, err := tr.Join([]string{"sid"}, []string{"id"}, st)
		if err != nil {
			t.Fatalf("%v: Join failed: %v", kind, err)
		}
		indexed, err := tr.IJoin([]string{"sid"}, []string{"id"}, st)
		if err != nil {
			t.Fatalf("%v: IJoin failed: %v", kind, err)
		}
		if nested.Len() != 3 {
			t.Fatalf("%v: expected 3 joined rows, got %d", kind, nested.Len())
		}
		if !sameRows(nested, indexed) {
			t.Fatalf("%v: nested and indexed joins disagree", kind)
		}
		want := []string{"sid", "crs", "grade", "id", "name", "dept"}
		if !reflect.DeepEqual(indexed.Attributes(), want) {
			t.Fatalf("%v: attributes %v", kind, indexed.Attributes())
		}
	}
}

func TestJoinDisambiguatesAndKeepsInputs(t *testing.T) {
	a := students(t, index.KindHash)
	b := students(t, index.KindHash)

	j, err := a.Join([]string{"id"}, []string{"id"}, b)
	if err != nil {
		t.Fatalf("Join failed: %v", err)
	}
	want := []string{"id", "name", "dept", "id2", "name2", "dept2"}
	if !reflect.DeepEqual(j.Attributes(), want) {
		t.Fatalf("attributes: got %v, want %v", j.Attributes(), want)
	}
	if !reflect.DeepEqual(b.Attributes(), []string{"id", "name", "dept"}) {
		t.Fatalf("right input mutated: %v", b.Attributes())
	}
	if j.Len() != 4 {
		t.Fatalf("expected 4 rows, got %d", j.Len())
	}

	// Join on a nullable column: nulls never match.
	d, err := a.Join([]string{"dept"}, []string{"dept"}, b)
	if err != nil {
		t.Fatalf("Join failed: %v", err)
	}
	// cs x cs = 4, ee x ee = 1
	if d.Len() != 5 {
		t.Fatalf("expected 5 rows, got %d", d.Len())
	}
}

func TestMultiAttributeJoin(t *testing.T) {
	tr := transcripts(t, index.KindTree)
	s := mustSchema(t, "offer", "course student", "Utf8String Int32", "course student")
	off := mustTable(t, s, index.KindTree,
		types.Tuple{types.Str("db"), types.Int32(1)},
		types.Tuple{types.Str("db"), types.Int32(3)},
		types.Tuple{types.Str("os"), types.Int32(3)},
	)

	nested, err := off.Join([]string{"student", "course"}, []string{"sid", "crs"}, tr)
	if err != nil {
		t.Fatalf("Join failed: %v", err)
	}
	indexed, err := off.IJoin([]string{"student", "course"}, []string{"sid", "crs"}, tr)
	if err != nil {
		t.Fatalf("IJoin failed: %v", err)
	}
	if nested.Len() != 2 || !sameRows(nested, indexed) {
		t.Fatalf("multi-attribute joins disagree: %d vs %d rows", nested.Len(), indexed.Len())
	}

	// key attributes given in the other order are aligned to the key.
	swapped, err := off.IJoin([]string{"course", "student"}, []string{"crs", "sid"}, tr)
	if err != nil {
		t.Fatalf("IJoin failed: %v", err)
	}
	if !sameRows(swapped, indexed) {
		t.Fatalf("IJoin depends on the order of the key attributes")
	}

	if _, err := off.Join([]string{"student"}, []string{"sid", "crs"}, tr); !errors.Is(err, errs.ErrSchemaMismatch) {
		t.Fatalf("expected ErrSchemaMismatch, got %v", err)
	}
	if _, err := off.Join([]string{"course"}, []string{"sid"}, tr); !errors.Is(err, errs.ErrTypeMismatch) {
		t.Fatalf("expected ErrTypeMismatch, got %v", err)
	}
}

func TestIJoinInvalidForeignKey(t *testing.T) {
	tr := transcripts(t, index.KindHash)
	st := students(t, index.KindHash)

	// crs alone is not the key of transcript.
	got, err := st.IJoin([]string{"name"}, []string{"crs"}, tr)
	if !errors.Is(err, errs.ErrInvalidForeignKey) {
		t.Fatalf("expected ErrInvalidForeignKey, got %v", err)
	}
	if got != nil {
		t.Fatalf("no rows should be returned")
	}
	if _, err := tr.IJoin([]string{"nope"}, []string{"id"}, st); !errors.Is(err, errs.ErrInvalidForeignKey) {
		t.Fatalf("expected ErrInvalidForeignKey for unknown attribute, got %v", err)
	}
	if _, err := tr.IJoin([]string{"sid"}, []string{"id"}, students(t, index.KindNone)); !errors.Is(err, errs.ErrIndexUnavailable) {
		t.Fatalf("expected ErrIndexUnavailable, got %v", err)
	}
}

func TestThetaJoin(t *testing.T) {
	st := students(t, index.KindNone)
	tr := transcripts(t, index.KindNone)

	j, err := st.ThetaJoin("id < sid", tr)
	if err != nil {
		t.Fatalf("ThetaJoin failed: %v", err)
	}
	// sid 3 pairs with ids 1 and 2, sid 9 with all four.
	if j.Len() != 6 {
		t.Fatalf("expected 6 rows, got %d", j.Len())
	}

	eq, err := tr.ThetaJoin("sid == id", st)
	if err != nil {
		t.Fatalf("ThetaJoin failed: %v", err)
	}
	nested, _ := tr.Join([]string{"sid"}, []string{"id"}, st)
	if !sameRows(eq, nested) {
		t.Fatalf("theta == should match the equi-join")
	}

	if _, err := st.ThetaJoin("id <> sid", tr); !errors.Is(err, errs.ErrUnsupportedOperator) {
		t.Fatalf("expected ErrUnsupportedOperator, got %v", err)
	}
	if _, err := st.ThetaJoin("id == nope", tr); !errors.Is(err, errs.ErrUnknownAttribute) {
		t.Fatalf("expected ErrUnknownAttribute, got %v", err)
	}
	if _, err := st.ThetaJoin("name == sid", tr); !errors.Is(err, errs.ErrTypeMismatch) {
		t.Fatalf("expected ErrTypeMismatch, got %v", err)
	}
}

func TestResultsInheritIndexKind(t *testing.T) {
	tbl := students(t, index.KindBPTree)
	p, err := tbl.Project([]string{"id", "name"})
	if err != nil {
		t.Fatalf("Project failed: %v", err)
	}
	if p.IndexKind() != index.KindBPTree {
		t.Fatalf("expected bptree result, got %v", p.IndexKind())
	}
	if _, ok, _ := p.Lookup(types.NewKey(types.Int32(4))); !ok {
		t.Fatalf("result index not populated")
	}
}
