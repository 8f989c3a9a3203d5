// Package xlsx implements reading and writing of XLSX (Office Open XML
// Spreadsheet) workbooks.
//
// # Reading
//
// [OpenReader] opens a workbook package, parses the workbook manifest and the
// shared string table, and exposes worksheets on demand:
//
//	r, err := xlsx.OpenReader("data.xlsx")
//	if err != nil {
//	    // handle error
//	}
//	defer r.Close()
//	sheet, err := r.Worksheet("Sheet1")
//
// Worksheet grids are parsed lazily on first access and cached for the life
// of the Reader; the cached grid is immutable, so concurrent reads are safe.
// [Sheet] offers random access ([Sheet.Value], [Sheet.Number]), bounding
// dimensions derived from actual cell occupancy, and uniform-width row
// iteration ([Sheet.Rows], [Sheet.ToList]).
//
// # Writing
//
// [NewWriter] starts an empty workbook under construction. Worksheets are
// registered with [Writer.AddWorksheet] and populated through typed cell
// writes; string values are interned into a workbook-wide shared string table
// so repeated values occupy one slot. [Writer.Save] serializes every part and
// commits the package atomically; a Writer is single-shot and rejects
// mutation after a successful save.
//
// # Errors
//
// Failures are reported as wrapped sentinel errors ([ErrFormat],
// [ErrSheetNotFound], [ErrNotNumeric], [ErrDuplicateSheet],
// [ErrInvalidSheetName], [ErrBadCoordinate], [ErrSaved]) carrying the
// offending path, sheet name, or coordinate. Container-level failures
// surface the sentinels of the opc package.
package xlsx
