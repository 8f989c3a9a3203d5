package grid

import "testing"

func TestParseRef(t *testing.T) {
	tests := []struct {
		ref     string
		wantCol int
		wantRow int
		wantErr bool
	}{
		{"A1", 0, 0, false},
		{"B1", 1, 0, false},
		{"Z1", 25, 0, false},
		{"AA1", 26, 0, false},
		{"AB1", 27, 0, false},
		{"AZ1", 51, 0, false},
		{"BA1", 52, 0, false},
		{"A10", 0, 9, false},
		{"C100", 2, 99, false},
		{"AA100", 26, 99, false},
		{"XFD1048576", 16383, 1048575, false}, // Max Excel cell
		{"", 0, 0, true},
		{"1", 0, 0, true},
		{"A", 0, 0, true},
		{"A0", 0, 0, true},
		{"A-1", 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			col, row, err := ParseRef(tt.ref)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ParseRef(%q) expected error, got col=%d, row=%d", tt.ref, col, row)
				}
				return
			}
			if err != nil {
				t.Errorf("ParseRef(%q) unexpected error: %v", tt.ref, err)
				return
			}
			if col != tt.wantCol {
				t.Errorf("ParseRef(%q) col = %d, want %d", tt.ref, col, tt.wantCol)
			}
			if row != tt.wantRow {
				t.Errorf("ParseRef(%q) row = %d, want %d", tt.ref, row, tt.wantRow)
			}
		})
	}
}

func TestColumnIndex(t *testing.T) {
	tests := []struct {
		col  string
		want int
	}{
		{"A", 0},
		{"B", 1},
		{"Z", 25},
		{"AA", 26},
		{"AZ", 51},
		{"BA", 52},
		{"ZZ", 701},
		{"AAA", 702},
		{"XFD", 16383},
		{"a", 0}, // lowercase accepted
		{"", -1},
		{"A1", -1},
		{"!", -1},
	}

	for _, tt := range tests {
		t.Run(tt.col, func(t *testing.T) {
			if got := ColumnIndex(tt.col); got != tt.want {
				t.Errorf("ColumnIndex(%q) = %d, want %d", tt.col, got, tt.want)
			}
		})
	}
}

func TestColumnName(t *testing.T) {
	tests := []struct {
		index int
		want  string
	}{
		{0, "A"},
		{1, "B"},
		{25, "Z"},
		{26, "AA"},
		{51, "AZ"},
		{52, "BA"},
		{701, "ZZ"},
		{702, "AAA"},
		{16383, "XFD"},
		{-1, ""},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := ColumnName(tt.index); got != tt.want {
				t.Errorf("ColumnName(%d) = %q, want %q", tt.index, got, tt.want)
			}
		})
	}
}

func TestColumnRoundTrip(t *testing.T) {
	for i := 0; i < 20000; i++ {
		if got := ColumnIndex(ColumnName(i)); got != i {
			t.Fatalf("ColumnIndex(ColumnName(%d)) = %d", i, got)
		}
	}
}

func TestFormatRef(t *testing.T) {
	tests := []struct {
		col, row int
		want     string
	}{
		{0, 0, "A1"},
		{1, 0, "B1"},
		{26, 99, "AA100"},
		{16383, 1048575, "XFD1048576"},
	}

	for _, tt := range tests {
		if got := FormatRef(tt.col, tt.row); got != tt.want {
			t.Errorf("FormatRef(%d, %d) = %q, want %q", tt.col, tt.row, got, tt.want)
		}
	}
}

func TestParseRange(t *testing.T) {
	sc, sr, ec, er, err := ParseRange("A1:D10")
	if err != nil {
		t.Fatalf("ParseRange(A1:D10) error: %v", err)
	}
	if sc != 0 || sr != 0 || ec != 3 || er != 9 {
		t.Errorf("ParseRange(A1:D10) = (%d,%d,%d,%d)", sc, sr, ec, er)
	}

	// Single-cell dimension hints like "A1" are valid
	sc, sr, ec, er, err = ParseRange("B2")
	if err != nil {
		t.Fatalf("ParseRange(B2) error: %v", err)
	}
	if sc != 1 || sr != 1 || ec != 1 || er != 1 {
		t.Errorf("ParseRange(B2) = (%d,%d,%d,%d)", sc, sr, ec, er)
	}

	if _, _, _, _, err := ParseRange("A1:B2:C3"); err == nil {
		t.Error("ParseRange(A1:B2:C3) expected error")
	}
	if _, _, _, _, err := ParseRange("A1:ZZ"); err == nil {
		t.Error("ParseRange(A1:ZZ) expected error")
	}
}
