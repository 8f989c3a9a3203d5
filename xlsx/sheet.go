package xlsx

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/stherrien/xlsxpress/grid"
)

// Sheet is one parsed worksheet: a named, immutable sparse cell grid. Sheets
// are created by Reader.Worksheet and cached; they remain valid after the
// Reader is closed.
type Sheet struct {
	// Name is the worksheet name as stored in the workbook manifest.
	Name string

	cells *grid.Grid
	rows  int
	cols  int
}

func newSheet(name string, cells *grid.Grid) *Sheet {
	rows, cols := cells.Bounds()
	return &Sheet{Name: name, cells: cells, rows: rows, cols: cols}
}

// Dimensions returns the minimal bounding box covering all non-empty cells as
// (rowCount, colCount). An empty sheet is (0, 0). The box is derived from
// actual cell occupancy, never from the file's declared dimension hint.
func (s *Sheet) Dimensions() (rows, cols int) {
	return s.rows, s.cols
}

// Cell returns the typed cell at zero-based (row, col). Coordinates outside
// the populated area yield an Empty cell.
func (s *Sheet) Cell(row, col int) grid.Cell {
	if row < 0 || col < 0 {
		return grid.Cell{}
	}
	return s.cells.At(row, col)
}

// Value returns the cell at (row, col) coerced to its string representation.
// The coercion is total: numbers render as their shortest round-tripping
// decimal text in plain notation ("42", "3.14"), booleans as "TRUE"/"FALSE",
// dates as their serial number, formula cells as their cached result (or ""
// without one), error cells as their literal, and empty or out-of-range
// cells as "".
func (s *Sheet) Value(row, col int) string {
	return s.Cell(row, col).Value()
}

// Number returns the cell's numeric value: numbers, date serials, and
// formulas with a cached numeric result. Any other cell, including empty and
// out-of-range coordinates, fails with ErrNotNumeric.
func (s *Sheet) Number(row, col int) (float64, error) {
	c := s.Cell(row, col)
	if v, ok := c.Number(); ok {
		return v, nil
	}
	return 0, fmt.Errorf("%s!%s (%s): %w", s.Name, grid.FormatRef(col, row), c.Kind, ErrNotNumeric)
}

// Rows returns a fresh iterator over the sheet's rows. Each call starts a new
// iteration; every yielded row has length exactly colCount, with empty-string
// placeholders for unpopulated cells, and exactly rowCount rows are yielded.
func (s *Sheet) Rows() *RowIter {
	return &RowIter{sheet: s}
}

// RowIter iterates a sheet's rows in order as uniform-width string slices.
type RowIter struct {
	sheet *Sheet
	next  int
}

// Next returns the next row and true, or nil and false after the last row.
func (it *RowIter) Next() ([]string, bool) {
	if it.next >= it.sheet.rows {
		return nil, false
	}
	row := make([]string, it.sheet.cols)
	for col := range row {
		row[col] = it.sheet.Value(it.next, col)
	}
	it.next++
	return row, true
}

// ToList materializes the full grid as rows of string-rendered cells,
// row-major and dimensions-bounded. An empty sheet yields an empty slice.
func (s *Sheet) ToList() [][]string {
	out := make([][]string, 0, s.rows)
	it := s.Rows()
	for row, ok := it.Next(); ok; row, ok = it.Next() {
		out = append(out, row)
	}
	return out
}

// CSV writes the sheet's string-rendered grid to w in CSV form, one record
// per row, dimensions-bounded.
func (s *Sheet) CSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	it := s.Rows()
	for row, ok := it.Next(); ok; row, ok = it.Next() {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("csv export of %s: %w", s.Name, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("csv export of %s: %w", s.Name, err)
	}
	return nil
}
