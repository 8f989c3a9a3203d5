// Package grid provides the in-memory cell model for worksheet grids:
// typed cell values, sparse storage bounded by actual content, and the
// translation between zero-based (row, col) coordinates and the one-based
// "A1"-style references used in the wire format.
package grid

import "strconv"

// Kind identifies the type of value held by a cell. The set is closed;
// consumers switch exhaustively over it.
type Kind int

const (
	// Empty indicates a cell with no value. Empty cells are never stored.
	Empty Kind = iota
	// String indicates a text value, either shared or inline.
	String
	// Number indicates a 64-bit float value.
	Number
	// Bool indicates a boolean value.
	Bool
	// Date indicates a date/time stored as an Excel serial number plus a
	// number-format reference.
	Date
	// Formula indicates a formula with an optional cached result.
	Formula
	// Error indicates an error literal such as "#DIV/0!".
	Error
)

// String returns the name of the kind.
func (k Kind) String() string {
	switch k {
	case Empty:
		return "empty"
	case String:
		return "string"
	case Number:
		return "number"
	case Bool:
		return "boolean"
	case Date:
		return "date"
	case Formula:
		return "formula"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

// Cell is one typed cell value. Exactly one payload group is meaningful,
// selected by Kind:
//
//	String:  Text (resolved shared or inline text)
//	Number:  Num
//	Bool:    Flag
//	Date:    Num (serial), Style (format reference, opaque)
//	Formula: Text (formula body), Num/CachedText + HasCache (cached result)
//	Error:   Text (error literal)
type Cell struct {
	Kind Kind

	Text string
	Num  float64
	Flag bool

	// Style is the cell's format reference, preserved but not interpreted.
	Style int

	// Formula cache. CachedKind is Number or String when HasCache is set.
	HasCache   bool
	CachedKind Kind
	CachedText string
}

// Value renders the cell under the engine's documented coercion convention:
// numbers as shortest round-tripping decimal text (never scientific notation),
// booleans as "TRUE"/"FALSE", dates as their serial number, formulas as their
// cached result (or "" without one), error cells as their literal, empty
// cells as "".
func (c Cell) Value() string {
	switch c.Kind {
	case Empty:
		return ""
	case String:
		return c.Text
	case Number, Date:
		return FormatNumber(c.Num)
	case Bool:
		if c.Flag {
			return "TRUE"
		}
		return "FALSE"
	case Formula:
		if !c.HasCache {
			return ""
		}
		if c.CachedKind == String {
			return c.CachedText
		}
		return FormatNumber(c.Num)
	case Error:
		return c.Text
	default:
		return ""
	}
}

// Number returns the cell's numeric value. The second result reports whether
// the cell holds one: numbers, date serials, and formulas with a cached
// numeric result do; everything else does not.
func (c Cell) Number() (float64, bool) {
	switch c.Kind {
	case Number, Date:
		return c.Num, true
	case Formula:
		if c.HasCache && c.CachedKind == Number {
			return c.Num, true
		}
		return 0, false
	case Empty, String, Bool, Error:
		return 0, false
	default:
		return 0, false
	}
}

// FormatNumber renders a float as its canonical decimal text: the shortest
// form that parses back to the same value, in plain (non-scientific) notation
// with '.' as the decimal separator. Integral values render with no fraction.
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Coord addresses a cell by zero-based row and column.
type Coord struct {
	Row int
	Col int
}

// Grid is a sparse worksheet cell grid. Cells with no value are not
// materialized; absence means Empty. The zero value is not usable, use New.
type Grid struct {
	cells map[Coord]Cell
}

// New returns an empty grid.
func New() *Grid {
	return &Grid{cells: make(map[Coord]Cell)}
}

// Set stores the cell at (row, col), overwriting any prior value. Setting an
// Empty cell removes the entry so that dimension computation and memory use
// track actual content.
func (g *Grid) Set(row, col int, c Cell) {
	if c.Kind == Empty {
		delete(g.cells, Coord{Row: row, Col: col})
		return
	}
	g.cells[Coord{Row: row, Col: col}] = c
}

// At returns the cell at (row, col). Unpopulated coordinates yield an Empty
// cell.
func (g *Grid) At(row, col int) Cell {
	return g.cells[Coord{Row: row, Col: col}]
}

// Len returns the number of populated cells.
func (g *Grid) Len() int {
	return len(g.cells)
}

// Bounds returns the minimal bounding box covering all populated cells as
// (rowCount, colCount), derived from occupancy. An empty grid is (0, 0).
func (g *Grid) Bounds() (rows, cols int) {
	for at := range g.cells {
		if at.Row+1 > rows {
			rows = at.Row + 1
		}
		if at.Col+1 > cols {
			cols = at.Col + 1
		}
	}
	return rows, cols
}

// Each calls fn for every populated cell. Iteration order is unspecified.
func (g *Grid) Each(fn func(at Coord, c Cell)) {
	for at, c := range g.cells {
		fn(at, c)
	}
}
