package xlsx

import "errors"

// Sentinel errors returned by Reader and Writer operations, always wrapped
// with the offending path, sheet name, or coordinate.
var (
	// ErrFormat reports a structurally invalid workbook: a missing or
	// malformed required part, an undecodable cell, or a shared-string
	// reference outside the table.
	ErrFormat = errors.New("xlsx: invalid workbook format")
	// ErrSheetNotFound reports a sheet name absent from the workbook
	// manifest.
	ErrSheetNotFound = errors.New("xlsx: sheet not found")
	// ErrNotNumeric reports a numeric coercion of a cell holding no
	// numeric value.
	ErrNotNumeric = errors.New("xlsx: cell is not numeric")
	// ErrDuplicateSheet reports a worksheet name already registered in the
	// Writer session.
	ErrDuplicateSheet = errors.New("xlsx: duplicate sheet name")
	// ErrInvalidSheetName reports a worksheet name violating the format's
	// naming constraints.
	ErrInvalidSheetName = errors.New("xlsx: invalid sheet name")
	// ErrBadCoordinate reports a negative or out-of-limits cell coordinate
	// on write.
	ErrBadCoordinate = errors.New("xlsx: cell coordinate out of range")
	// ErrSaved reports mutation of, or a second save on, an already-saved
	// Writer session.
	ErrSaved = errors.New("xlsx: workbook already saved")
)
