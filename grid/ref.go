package grid

import (
	"fmt"
	"strconv"
	"strings"
)

// Excel sheet limits. Coordinates at or beyond these are invalid.
const (
	MaxRows = 1048576
	MaxCols = 16384
)

// ParseRef parses a cell reference like "A1" or "AA100" into column and row indices (0-indexed).
func ParseRef(ref string) (col, row int, err error) {
	if ref == "" {
		return 0, 0, fmt.Errorf("empty cell reference")
	}

	// Find where letters end and numbers begin
	i := 0
	for i < len(ref) && isLetter(ref[i]) {
		i++
	}

	if i == 0 {
		return 0, 0, fmt.Errorf("invalid cell reference %q: no column letters", ref)
	}
	if i == len(ref) {
		return 0, 0, fmt.Errorf("invalid cell reference %q: no row number", ref)
	}

	colPart := ref[:i]
	rowPart := ref[i:]

	// Parse column (A=0, B=1, ..., Z=25, AA=26, etc.)
	col = ColumnIndex(colPart)
	if col < 0 {
		return 0, 0, fmt.Errorf("invalid column in reference %q", ref)
	}

	// Parse row (1-indexed on the wire, convert to 0-indexed)
	rowNum, err := strconv.Atoi(rowPart)
	if err != nil || rowNum < 1 {
		return 0, 0, fmt.Errorf("invalid row in reference %q", ref)
	}
	row = rowNum - 1

	return col, row, nil
}

// ColumnIndex converts a column letter(s) to a 0-indexed column number.
// A=0, B=1, ..., Z=25, AA=26, AB=27, etc. Returns -1 for invalid input.
func ColumnIndex(col string) int {
	if col == "" {
		return -1
	}
	col = strings.ToUpper(col)
	result := 0
	for _, c := range col {
		if c < 'A' || c > 'Z' {
			return -1
		}
		result = result*26 + int(c-'A') + 1
	}
	return result - 1
}

// ColumnName converts a 0-indexed column number to column letter(s).
// 0=A, 1=B, ..., 25=Z, 26=AA, 27=AB, etc.
func ColumnName(index int) string {
	if index < 0 {
		return ""
	}

	result := ""
	index++ // Convert to 1-indexed for calculation
	for index > 0 {
		index-- // Adjust for 0-based modulo
		result = string(rune('A'+index%26)) + result
		index /= 26
	}
	return result
}

// FormatRef creates a cell reference string from column and row indices (0-indexed).
func FormatRef(col, row int) string {
	return fmt.Sprintf("%s%d", ColumnName(col), row+1)
}

func isLetter(c byte) bool {
	return (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
}

// ParseRange parses a range reference like "A1:D10" into start and end coordinates.
func ParseRange(ref string) (startCol, startRow, endCol, endRow int, err error) {
	parts := strings.Split(ref, ":")
	if len(parts) == 1 {
		// Single-cell range, e.g. a dimension of "A1"
		startCol, startRow, err = ParseRef(parts[0])
		return startCol, startRow, startCol, startRow, err
	}
	if len(parts) != 2 {
		return 0, 0, 0, 0, fmt.Errorf("invalid range reference: %s", ref)
	}

	startCol, startRow, err = ParseRef(parts[0])
	if err != nil {
		return 0, 0, 0, 0, fmt.Errorf("invalid start cell: %w", err)
	}

	endCol, endRow, err = ParseRef(parts[1])
	if err != nil {
		return 0, 0, 0, 0, fmt.Errorf("invalid end cell: %w", err)
	}

	return startCol, startRow, endCol, endRow, nil
}
