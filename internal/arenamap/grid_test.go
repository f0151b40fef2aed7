package arenamap

import "testing"

func TestParseLayoutGrammar(t *testing.T) {
	raw := "WWW\nWOd\nWwD\n"
	g := ParseLayout(raw)

	if g.Columns != 3 || g.Rows != 3 {
		t.Fatalf("unexpected dimensions: %dx%d", g.Columns, g.Rows)
	}
	if g.At(0, 0).Kind != CellStandardWall {
		t.Fatalf("expected standard wall at (0,0)")
	}
	if g.At(1, 1).Kind != CellOpen {
		t.Fatalf("expected open cell at (1,1)")
	}
	if g.At(2, 1).Eligibility&EligibleFloatingDeath == 0 {
		t.Fatalf("expected death-wall eligibility at (2,1)")
	}
	if g.At(1, 2).Eligibility&EligibleFloatingStandard == 0 {
		t.Fatalf("expected standard-wall eligibility at (1,2)")
	}
	if g.At(2, 2).Kind != CellDeathWall {
		t.Fatalf("expected death wall at (2,2)")
	}
}

func TestIndexIsColPlusRowTimesColumns(t *testing.T) {
	g := &Grid{Columns: 5, Rows: 4}
	if g.Index(3, 2) != 3+2*5 {
		t.Fatalf("index formula mismatch: got %d", g.Index(3, 2))
	}
}

func TestEmbeddedLayoutsParse(t *testing.T) {
	entries := Entries()
	if len(entries) == 0 {
		t.Fatal("expected at least one embedded map layout")
	}
	for _, e := range entries {
		if e.Grid == nil {
			t.Fatalf("map %q has no parsed grid", e.Name)
		}
		if e.Grid.Columns != e.Columns || e.Grid.Rows != e.Rows {
			t.Fatalf("map %q: declared dims %dx%d, parsed grid %dx%d",
				e.Name, e.Columns, e.Rows, e.Grid.Columns, e.Grid.Rows)
		}
	}
}
</content>
