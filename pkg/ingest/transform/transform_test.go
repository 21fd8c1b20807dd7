package transform

import (
	"math"
	"strings"
	"testing"

	"github.com/apache/arrow/go/v14/arrow"
	"github.com/apache/arrow/go/v14/arrow/array"

	"github.com/catflow/catflow/pkg/layout"
)

func testLayout() layout.Layout {
	l := layout.Layout{
		Code:            "91",
		FieldEndOffsets: []int{2, 6, 12, 20},
		FieldNames:      []string{"tipo_reg", "skip", "name", "amount", "coord"},
		DropFields:      map[string]bool{"skip": true},
		ScaledFields:    map[string]float64{"amount": 0.01, "coord": 1},
	}
	if err := l.Validate(); err != nil {
		panic(err)
	}
	return l
}

// line builds a fixed-width test line for testLayout.
func line(skip, name, amount, coord string) string {
	return "91" + pad(skip, 4) + pad(name, 6) + pad(amount, 8) + coord
}

func pad(s string, n int) string {
	if len(s) >= n {
		return s[:n]
	}
	return s + strings.Repeat(" ", n-len(s))
}

func TestFilter(t *testing.T) {
	lines := []string{
		"11AAA",
		"13BBB",
		"11CCC",
		"1",
		"",
		"x11 not at start",
	}

	got := Filter(lines, "11")
	if len(got) != 2 {
		t.Fatalf("Filter kept %d lines, want 2: %v", len(got), got)
	}
	if got[0] != "11AAA" || got[1] != "11CCC" {
		t.Errorf("Filter result = %v", got)
	}

	if kept := Filter(lines, "99"); len(kept) != 0 {
		t.Errorf("Filter on absent code kept %v", kept)
	}
}

func TestFilter_DoesNotMutateInput(t *testing.T) {
	lines := []string{"11a", "13b", "11c"}
	Filter(lines, "11")
	if lines[0] != "11a" || lines[1] != "13b" || lines[2] != "11c" {
		t.Errorf("Input mutated: %v", lines)
	}
}

func TestTransformer_Schema(t *testing.T) {
	tr := New(testLayout())
	schema := tr.Schema()

	if schema.NumFields() != 4 {
		t.Fatalf("Expected 4 fields (drop excluded), got %d", schema.NumFields())
	}

	wantNames := []string{"tipo_reg", "name", "amount", "coord"}
	for i, name := range wantNames {
		f := schema.Field(i)
		if f.Name != name {
			t.Errorf("Field %d = %q, want %q", i, f.Name, name)
		}
		if !f.Nullable {
			t.Errorf("Field %q should be nullable", f.Name)
		}
	}

	if schema.Field(2).Type.ID() != arrow.FLOAT64 {
		t.Errorf("amount type = %s, want float64", schema.Field(2).Type)
	}
	if schema.Field(1).Type.ID() != arrow.STRING {
		t.Errorf("name type = %s, want string", schema.Field(1).Type)
	}
}

func TestTransformer_Transform(t *testing.T) {
	tr := New(testLayout())

	rec := tr.Transform([]string{
		line("zz", "casa", "12345", "500"),
		line("zz", "", "junk", "7"),
	})
	if rec == nil {
		t.Fatal("Expected a record")
	}
	defer rec.Release()

	if rec.NumRows() != 2 {
		t.Fatalf("Rows = %d, want 2", rec.NumRows())
	}
	if rec.NumCols() != 4 {
		t.Fatalf("Cols = %d, want 4", rec.NumCols())
	}

	names := rec.Column(1).(*array.String)
	if names.Value(0) != "casa" {
		t.Errorf("name[0] = %q, want casa", names.Value(0))
	}
	if !names.IsNull(1) {
		t.Error("Empty text cell should be null")
	}

	amounts := rec.Column(2).(*array.Float64)
	if got := amounts.Value(0); math.Abs(got-123.45) > 1e-9 {
		t.Errorf("amount[0] = %v, want 123.45", got)
	}
	if !amounts.IsNull(1) {
		t.Error("Unparseable numeric cell should be null")
	}

	coords := rec.Column(3).(*array.Float64)
	if got := coords.Value(0); got != 500 {
		t.Errorf("coord[0] = %v, want 500 (factor 1)", got)
	}
	if got := coords.Value(1); got != 7 {
		t.Errorf("coord[1] = %v, want 7", got)
	}
}

func TestTransformer_EmptyChunk(t *testing.T) {
	tr := New(testLayout())
	if rec := tr.Transform(nil); rec != nil {
		rec.Release()
		t.Error("Empty chunk should produce no record")
	}
}

func TestTransformer_ShortLine(t *testing.T) {
	tr := New(testLayout())

	rec := tr.Transform([]string{"91"})
	if rec == nil {
		t.Fatal("Expected a record")
	}
	defer rec.Release()

	if got := rec.Column(0).(*array.String).Value(0); got != "91" {
		t.Errorf("tipo_reg = %q, want 91", got)
	}
	for i := 1; i < int(rec.NumCols()); i++ {
		if !rec.Column(i).IsNull(0) {
			t.Errorf("Column %d of a truncated line should be null", i)
		}
	}
}

func TestTransformer_Table16PriceScaling(t *testing.T) {
	l, err := layout.Get("16")
	if err != nil {
		t.Fatal(err)
	}
	tr := New(l)

	// Place "98700" in the pr1 span (positions 58..64).
	raw := []rune(strings.Repeat(" ", 120))
	copy(raw[0:2], []rune("16"))
	copy(raw[58:63], []rune("98700"))

	rec := tr.Transform([]string{string(raw)})
	if rec == nil {
		t.Fatal("Expected a record")
	}
	defer rec.Release()

	idx := rec.Schema().FieldIndices("pr1")
	if len(idx) != 1 {
		t.Fatal("pr1 column missing")
	}
	col := rec.Column(idx[0]).(*array.Float64)
	if got := col.Value(0); math.Abs(got-98.7) > 1e-9 {
		t.Errorf("pr1 = %v, want 98.7 (factor 0.001)", got)
	}
}
