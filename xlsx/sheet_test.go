package xlsx

import (
	"bytes"
	"errors"
	"reflect"
	"testing"

	"github.com/stherrien/xlsxpress/grid"
)

// buildSheet constructs a sheet directly from cells for white-box tests.
func buildSheet(t *testing.T, cells map[grid.Coord]grid.Cell) *Sheet {
	t.Helper()
	g := grid.New()
	for at, c := range cells {
		g.Set(at.Row, at.Col, c)
	}
	return newSheet("Test", g)
}

func TestSheet_Dimensions(t *testing.T) {
	tests := []struct {
		name     string
		cells    map[grid.Coord]grid.Cell
		wantRows int
		wantCols int
	}{
		{
			name:     "empty",
			cells:    nil,
			wantRows: 0,
			wantCols: 0,
		},
		{
			name: "single cell at origin",
			cells: map[grid.Coord]grid.Cell{
				{Row: 0, Col: 0}: {Kind: grid.Number, Num: 1},
			},
			wantRows: 1,
			wantCols: 1,
		},
		{
			name: "sparse island",
			cells: map[grid.Coord]grid.Cell{
				{Row: 4, Col: 2}: {Kind: grid.Number, Num: 1},
			},
			wantRows: 5,
			wantCols: 3,
		},
		{
			name: "bounds from separate cells",
			cells: map[grid.Coord]grid.Cell{
				{Row: 9, Col: 0}: {Kind: grid.Number, Num: 1},
				{Row: 0, Col: 6}: {Kind: grid.Number, Num: 2},
			},
			wantRows: 10,
			wantCols: 7,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := buildSheet(t, tt.cells)
			rows, cols := s.Dimensions()
			if rows != tt.wantRows || cols != tt.wantCols {
				t.Errorf("Dimensions() = (%d, %d), want (%d, %d)",
					rows, cols, tt.wantRows, tt.wantCols)
			}
		})
	}
}

func TestSheet_Value(t *testing.T) {
	s := buildSheet(t, map[grid.Coord]grid.Cell{
		{Row: 0, Col: 0}: {Kind: grid.String, Text: "hello"},
		{Row: 0, Col: 1}: {Kind: grid.Number, Num: 3.14},
		{Row: 0, Col: 2}: {Kind: grid.Number, Num: 42},
		{Row: 0, Col: 3}: {Kind: grid.Bool, Flag: true},
		{Row: 0, Col: 4}: {Kind: grid.Error, Text: "#NAME?"},
		{Row: 0, Col: 5}: {Kind: grid.Formula, Text: "A1&B1"},
		{Row: 0, Col: 6}: {Kind: grid.Formula, Text: "SUM(1,2)", HasCache: true, CachedKind: grid.Number, Num: 3},
	})

	tests := []struct {
		col  int
		want string
	}{
		{0, "hello"},
		{1, "3.14"},
		{2, "42"},
		{3, "TRUE"},
		{4, "#NAME?"},
		{5, ""}, // formula without a cached result
		{6, "3"},
		{7, ""}, // beyond the populated area
	}
	for _, tt := range tests {
		if got := s.Value(0, tt.col); got != tt.want {
			t.Errorf("Value(0, %d) = %q, want %q", tt.col, got, tt.want)
		}
	}

	if got := s.Value(-1, -1); got != "" {
		t.Errorf("Value(-1, -1) = %q, want empty", got)
	}
}

func TestSheet_Number(t *testing.T) {
	s := buildSheet(t, map[grid.Coord]grid.Cell{
		{Row: 0, Col: 0}: {Kind: grid.Number, Num: 2.5},
		{Row: 0, Col: 1}: {Kind: grid.Date, Num: 44927},
		{Row: 0, Col: 2}: {Kind: grid.Formula, Text: "1+1", HasCache: true, CachedKind: grid.Number, Num: 2},
		{Row: 0, Col: 3}: {Kind: grid.String, Text: "12"},
	})

	for col, want := range map[int]float64{0: 2.5, 1: 44927, 2: 2} {
		got, err := s.Number(0, col)
		if err != nil {
			t.Errorf("Number(0, %d) failed: %v", col, err)
		}
		if got != want {
			t.Errorf("Number(0, %d) = %v, want %v", col, got, want)
		}
	}

	// Text, even numeric-looking, never coerces.
	if _, err := s.Number(0, 3); !errors.Is(err, ErrNotNumeric) {
		t.Errorf("Number(0, 3) error = %v, want ErrNotNumeric", err)
	}
	if _, err := s.Number(5, 5); !errors.Is(err, ErrNotNumeric) {
		t.Errorf("Number(5, 5) error = %v, want ErrNotNumeric", err)
	}
}

func TestSheet_Rows(t *testing.T) {
	s := buildSheet(t, map[grid.Coord]grid.Cell{
		{Row: 0, Col: 0}: {Kind: grid.String, Text: "a"},
		{Row: 0, Col: 2}: {Kind: grid.String, Text: "c"},
		{Row: 2, Col: 1}: {Kind: grid.Number, Num: 7},
	})

	want := [][]string{
		{"a", "", "c"},
		{"", "", ""},
		{"", "7", ""},
	}

	it := s.Rows()
	var got [][]string
	for row, ok := it.Next(); ok; row, ok = it.Next() {
		got = append(got, row)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Rows() yielded %v, want %v", got, want)
	}

	// Exhausted iterator stays exhausted.
	if row, ok := it.Next(); ok {
		t.Errorf("Next() after exhaustion = (%v, true), want (nil, false)", row)
	}

	// Each call starts a fresh iteration.
	if first, ok := s.Rows().Next(); !ok || !reflect.DeepEqual(first, want[0]) {
		t.Errorf("fresh Rows().Next() = (%v, %v), want (%v, true)", first, ok, want[0])
	}
}

func TestSheet_RowsEmpty(t *testing.T) {
	s := buildSheet(t, nil)
	if row, ok := s.Rows().Next(); ok {
		t.Errorf("Next() on empty sheet = (%v, true), want (nil, false)", row)
	}
}

func TestSheet_ToList(t *testing.T) {
	s := buildSheet(t, map[grid.Coord]grid.Cell{
		{Row: 0, Col: 0}: {Kind: grid.Number, Num: 1},
		{Row: 1, Col: 1}: {Kind: grid.Number, Num: 2},
	})

	want := [][]string{
		{"1", ""},
		{"", "2"},
	}
	if got := s.ToList(); !reflect.DeepEqual(got, want) {
		t.Errorf("ToList() = %v, want %v", got, want)
	}

	if got := buildSheet(t, nil).ToList(); len(got) != 0 {
		t.Errorf("ToList() on empty sheet = %v, want empty", got)
	}
}

func TestSheet_CSV(t *testing.T) {
	s := buildSheet(t, map[grid.Coord]grid.Cell{
		{Row: 0, Col: 0}: {Kind: grid.String, Text: "name"},
		{Row: 0, Col: 1}: {Kind: grid.String, Text: "with,comma"},
		{Row: 1, Col: 0}: {Kind: grid.Number, Num: 1.5},
		{Row: 1, Col: 1}: {Kind: grid.Bool, Flag: false},
	})

	var buf bytes.Buffer
	if err := s.CSV(&buf); err != nil {
		t.Fatalf("CSV() failed: %v", err)
	}

	want := "name,\"with,comma\"\n1.5,FALSE\n"
	if got := buf.String(); got != want {
		t.Errorf("CSV() = %q, want %q", got, want)
	}
}
