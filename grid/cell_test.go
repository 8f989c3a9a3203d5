package grid

import "testing"

func TestCellValue(t *testing.T) {
	tests := []struct {
		name string
		cell Cell
		want string
	}{
		{"empty", Cell{}, ""},
		{"string", Cell{Kind: String, Text: "Hello"}, "Hello"},
		{"integer", Cell{Kind: Number, Num: 42}, "42"},
		{"decimal", Cell{Kind: Number, Num: 3.14}, "3.14"},
		{"negative", Cell{Kind: Number, Num: -0.5}, "-0.5"},
		{"bool true", Cell{Kind: Bool, Flag: true}, "TRUE"},
		{"bool false", Cell{Kind: Bool, Flag: false}, "FALSE"},
		{"date serial", Cell{Kind: Date, Num: 45306.5}, "45306.5"},
		{"error", Cell{Kind: Error, Text: "#DIV/0!"}, "#DIV/0!"},
		{"formula no cache", Cell{Kind: Formula, Text: "A1+B1"}, ""},
		{"formula numeric cache", Cell{Kind: Formula, Text: "A1+B1", HasCache: true, CachedKind: Number, Num: 7}, "7"},
		{"formula string cache", Cell{Kind: Formula, Text: `CONCAT(A1,B1)`, HasCache: true, CachedKind: String, CachedText: "ab"}, "ab"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cell.Value(); got != tt.want {
				t.Errorf("Value() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCellNumber(t *testing.T) {
	tests := []struct {
		name   string
		cell   Cell
		want   float64
		wantOK bool
	}{
		{"number", Cell{Kind: Number, Num: 42}, 42, true},
		{"date", Cell{Kind: Date, Num: 45306}, 45306, true},
		{"formula cached", Cell{Kind: Formula, HasCache: true, CachedKind: Number, Num: 7}, 7, true},
		{"formula uncached", Cell{Kind: Formula, Text: "A1"}, 0, false},
		{"string", Cell{Kind: String, Text: "42"}, 0, false},
		{"bool", Cell{Kind: Bool, Flag: true}, 0, false},
		{"empty", Cell{}, 0, false},
		{"error", Cell{Kind: Error, Text: "#N/A"}, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.cell.Number()
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("Number() = (%v, %v), want (%v, %v)", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{42, "42"},
		{0, "0"},
		{3.14, "3.14"},
		{-1.5, "-1.5"},
		{0.1, "0.1"},
		{1000000, "1000000"},
	}

	for _, tt := range tests {
		if got := FormatNumber(tt.in); got != tt.want {
			t.Errorf("FormatNumber(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestGridBounds(t *testing.T) {
	g := New()

	rows, cols := g.Bounds()
	if rows != 0 || cols != 0 {
		t.Fatalf("empty grid Bounds() = (%d, %d), want (0, 0)", rows, cols)
	}

	g.Set(4, 2, Cell{Kind: Number, Num: 1})
	g.Set(0, 9, Cell{Kind: String, Text: "x"})

	rows, cols = g.Bounds()
	if rows != 5 || cols != 10 {
		t.Fatalf("Bounds() = (%d, %d), want (5, 10)", rows, cols)
	}

	// Overwriting the same coordinate must not change the bounds
	g.Set(4, 2, Cell{Kind: String, Text: "y"})
	rows, cols = g.Bounds()
	if rows != 5 || cols != 10 {
		t.Fatalf("Bounds() after overwrite = (%d, %d), want (5, 10)", rows, cols)
	}
	if g.Len() != 2 {
		t.Fatalf("Len() after overwrite = %d, want 2", g.Len())
	}
}

func TestGridSetEmptyDeletes(t *testing.T) {
	g := New()
	g.Set(1, 1, Cell{Kind: Number, Num: 5})
	g.Set(1, 1, Cell{})

	if g.Len() != 0 {
		t.Fatalf("Len() = %d, want 0", g.Len())
	}
	if rows, cols := g.Bounds(); rows != 0 || cols != 0 {
		t.Fatalf("Bounds() = (%d, %d), want (0, 0)", rows, cols)
	}
	if c := g.At(1, 1); c.Kind != Empty {
		t.Fatalf("At(1,1).Kind = %v, want Empty", c.Kind)
	}
}

func TestGridAtUnpopulated(t *testing.T) {
	g := New()
	c := g.At(100, 100)
	if c.Kind != Empty || c.Value() != "" {
		t.Fatalf("unpopulated cell = %+v, want Empty", c)
	}
}
