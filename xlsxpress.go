// Package xlsxpress reads and writes .xlsx spreadsheet workbooks.
//
// Reading:
//
//	r, err := xlsxpress.Open("report.xlsx")
//	if err != nil {
//	    // handle error
//	}
//	defer r.Close()
//	sheet, err := r.Worksheet("Sheet1")
//	if err != nil {
//	    // handle error
//	}
//	rows := sheet.ToList()
//
// Writing:
//
//	w := xlsxpress.New()
//	sw, err := w.AddWorksheet("Data")
//	if err != nil {
//	    // handle error
//	}
//	sw.WriteString(0, 0, "total")
//	sw.WriteNumber(0, 1, 1234.5)
//	err = w.Save("out.xlsx")
//
// For cell-level and part-level control, the lower-level xlsx, grid, sst,
// and opc packages are also available.
package xlsxpress

import (
	"github.com/stherrien/xlsxpress/xlsx"
)

// Open opens the workbook at path for reading. The returned Reader must be
// closed when done; worksheets already parsed stay usable after Close.
//
// Example:
//
//	r, err := xlsxpress.Open("report.xlsx")
func Open(path string) (*xlsx.Reader, error) {
	return xlsx.OpenReader(path)
}

// New returns an empty workbook writer. Populate it with AddWorksheet and
// the SheetWriter write methods, then call Save once.
//
// Example:
//
//	w := xlsxpress.New()
func New() *xlsx.Writer {
	return xlsx.NewWriter()
}

// Must is a helper that wraps a call to a function returning (T, error)
// and panics if the error is non-nil. It is intended for use in scripts
// or tests where error handling would be cumbersome.
//
// Example:
//
//	sheet := xlsxpress.Must(r.Worksheet("Sheet1"))
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}
