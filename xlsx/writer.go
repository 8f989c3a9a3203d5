package xlsx

import (
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/stherrien/xlsxpress/grid"
	"github.com/stherrien/xlsxpress/opc"
	"github.com/stherrien/xlsxpress/sst"
	"github.com/stherrien/xlsxpress/sxml"
)

// Writer accumulates a workbook under construction and serializes it into a
// complete package on Save. String values from every worksheet are interned
// into one shared string table. A Writer is single-shot: after a successful
// Save all further mutation fails with ErrSaved.
//
// A Writer requires a single logical owner. If the caller partitions sheets
// among goroutines, cell writes contend only on the shared string table,
// which is internally synchronized.
type Writer struct {
	strings *sst.Table
	sheets  []*SheetWriter
	names   map[string]bool

	title  string
	author string

	saved bool
}

// SheetWriter is one worksheet being populated. Handles are created by
// Writer.AddWorksheet and remain bound to their Writer session.
type SheetWriter struct {
	name  string
	cells *grid.Grid
	w     *Writer
}

// NewWriter returns an empty workbook writer.
func NewWriter() *Writer {
	return &Writer{
		strings: sst.New(),
		names:   make(map[string]bool),
	}
}

// SetTitle sets the document title written to the docProps part.
func (w *Writer) SetTitle(title string) { w.title = title }

// SetAuthor sets the document author written to the docProps part.
func (w *Writer) SetAuthor(author string) { w.author = author }

// AddWorksheet registers a new worksheet. Names must be non-empty, at most
// 31 characters, free of the characters []:*?/\ and of leading or trailing
// apostrophes, and unique within the session.
func (w *Writer) AddWorksheet(name string) (*SheetWriter, error) {
	if w.saved {
		return nil, ErrSaved
	}
	if err := validateSheetName(name); err != nil {
		return nil, err
	}
	if w.names[name] {
		return nil, fmt.Errorf("%w: %q", ErrDuplicateSheet, name)
	}
	w.names[name] = true

	sw := &SheetWriter{name: name, cells: grid.New(), w: w}
	w.sheets = append(w.sheets, sw)
	return sw, nil
}

// sheetNameLimit is the format's worksheet name length limit in characters.
const sheetNameLimit = 31

func validateSheetName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidSheetName)
	}
	if utf8.RuneCountInString(name) > sheetNameLimit {
		return fmt.Errorf("%w: %q exceeds %d characters", ErrInvalidSheetName, name, sheetNameLimit)
	}
	if strings.ContainsAny(name, `[]:*?/\`) {
		return fmt.Errorf("%w: %q contains a forbidden character", ErrInvalidSheetName, name)
	}
	if strings.HasPrefix(name, "'") || strings.HasSuffix(name, "'") {
		return fmt.Errorf("%w: %q starts or ends with an apostrophe", ErrInvalidSheetName, name)
	}
	return nil
}

// set validates the write and stores the cell, overwriting any prior value
// at the coordinate.
func (s *SheetWriter) set(row, col int, c grid.Cell) error {
	if s.w.saved {
		return ErrSaved
	}
	if row < 0 || col < 0 || row >= grid.MaxRows || col >= grid.MaxCols {
		return fmt.Errorf("%w: sheet %q (%d, %d)", ErrBadCoordinate, s.name, row, col)
	}
	s.cells.Set(row, col, c)
	return nil
}

// Name returns the worksheet name.
func (s *SheetWriter) Name() string { return s.name }

// WriteString sets the cell at zero-based (row, col) to a text value. The
// text is interned into the workbook's shared string table, so repeated
// values across all worksheets occupy one table slot.
func (s *SheetWriter) WriteString(row, col int, text string) error {
	if err := s.set(row, col, grid.Cell{Kind: grid.String, Text: text}); err != nil {
		return err
	}
	s.w.strings.Intern(text)
	return nil
}

// WriteNumber sets the cell at (row, col) to a numeric value.
func (s *SheetWriter) WriteNumber(row, col int, value float64) error {
	return s.set(row, col, grid.Cell{Kind: grid.Number, Num: value})
}

// WriteBool sets the cell at (row, col) to a boolean value.
func (s *SheetWriter) WriteBool(row, col int, value bool) error {
	return s.set(row, col, grid.Cell{Kind: grid.Bool, Flag: value})
}

// WriteDate sets the cell at (row, col) to a date/time, stored as its Excel
// serial number with a date format reference so consumers render it as a
// date.
func (s *SheetWriter) WriteDate(row, col int, t time.Time) error {
	return s.set(row, col, grid.Cell{Kind: grid.Date, Num: dateSerial(t), Style: dateXfIndex})
}

// WriteFormula sets the cell at (row, col) to a formula, given without a
// leading "=". An optional cached numeric result may be supplied; the
// formula is never evaluated by this engine.
func (s *SheetWriter) WriteFormula(row, col int, formula string, cached ...float64) error {
	c := grid.Cell{Kind: grid.Formula, Text: strings.TrimPrefix(formula, "=")}
	if len(cached) > 0 {
		c.HasCache = true
		c.CachedKind = grid.Number
		c.Num = cached[0]
	}
	return s.set(row, col, c)
}

// dateSerial converts a wall-clock time to an Excel date serial: days since
// 1899-12-30 plus the day fraction.
func dateSerial(t time.Time) float64 {
	epoch := time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	days := day.Sub(epoch).Hours() / 24
	frac := (float64(t.Hour())*3600 + float64(t.Minute())*60 + float64(t.Second())) / 86400
	return days + frac
}

// Cell format indices into the emitted styles part. Index 1 is the date
// format xf.
const (
	defaultXfIndex = 0
	dateXfIndex    = 1
)

// Save serializes the workbook and atomically materializes it at path. The
// worksheet order is the AddWorksheet call order; a session with zero
// worksheets still produces a structurally valid package. After a successful
// Save the session is consumed; a failed Save (for example an unwritable
// destination) leaves the session mutable so the caller may retry elsewhere.
func (w *Writer) Save(path string) error {
	if w.saved {
		return ErrSaved
	}

	b := opc.Create()

	parts := []struct {
		name string
		emit func(*sxml.Emitter)
	}{
		{partContentTypes, w.emitContentTypes},
		{partPackageRels, w.emitPackageRels},
		{partCoreProps, w.emitCoreProps},
		{partAppProps, w.emitAppProps},
		{partWorkbook, w.emitWorkbook},
		{partWorkbookRels, w.emitWorkbookRels},
		{partStyles, w.emitStyles},
		{partSharedStrings, w.emitSharedStrings},
	}
	for _, part := range parts {
		if err := w.emitPart(b, part.name, part.emit); err != nil {
			return err
		}
	}
	for i, sheet := range w.sheets {
		name := fmt.Sprintf("xl/worksheets/sheet%d.xml", i+1)
		if err := w.emitPart(b, name, sheet.emit); err != nil {
			return err
		}
	}

	if err := b.Finish(path); err != nil {
		return err
	}
	w.saved = true
	return nil
}

// emitPart streams one XML part into the builder.
func (w *Writer) emitPart(b *opc.Builder, name string, emit func(*sxml.Emitter)) error {
	pw, err := b.CreatePart(name)
	if err != nil {
		return err
	}
	e := sxml.NewEmitter(pw)
	emit(e)
	if err := e.Flush(); err != nil {
		return fmt.Errorf("xlsx: emitting %s: %w", name, err)
	}
	return nil
}

func attr(name, value string) sxml.Attr {
	return sxml.Attr{Name: name, Value: value}
}

func (w *Writer) emitContentTypes(e *sxml.Emitter) {
	e.Begin("Types", attr("xmlns", nsContentTypes))
	e.Element("Default", "", attr("Extension", "rels"), attr("ContentType", ctRels))
	e.Element("Default", "", attr("Extension", "xml"), attr("ContentType", ctXML))
	e.Element("Override", "", attr("PartName", "/"+partWorkbook), attr("ContentType", ctWorkbook))
	for i := range w.sheets {
		e.Element("Override", "",
			attr("PartName", fmt.Sprintf("/xl/worksheets/sheet%d.xml", i+1)),
			attr("ContentType", ctWorksheet))
	}
	e.Element("Override", "", attr("PartName", "/"+partStyles), attr("ContentType", ctStyles))
	e.Element("Override", "", attr("PartName", "/"+partSharedStrings), attr("ContentType", ctSharedStrings))
	e.Element("Override", "", attr("PartName", "/"+partCoreProps), attr("ContentType", ctCoreProps))
	e.Element("Override", "", attr("PartName", "/"+partAppProps), attr("ContentType", ctAppProps))
	e.End()
}

func (w *Writer) emitPackageRels(e *sxml.Emitter) {
	e.Begin("Relationships", attr("xmlns", nsPackageRels))
	e.Element("Relationship", "", attr("Id", "rId1"),
		attr("Type", relTypeOfficeDocument), attr("Target", partWorkbook))
	e.Element("Relationship", "", attr("Id", "rId2"),
		attr("Type", relTypeCoreProps), attr("Target", partCoreProps))
	e.Element("Relationship", "", attr("Id", "rId3"),
		attr("Type", relTypeAppProps), attr("Target", partAppProps))
	e.End()
}

func (w *Writer) emitCoreProps(e *sxml.Emitter) {
	e.Begin("cp:coreProperties",
		attr("xmlns:cp", nsCoreProps),
		attr("xmlns:dc", nsDublinCore),
		attr("xmlns:dcterms", nsDublinTerms))
	if w.title != "" {
		e.Element("dc:title", w.title)
	}
	if w.author != "" {
		e.Element("dc:creator", w.author)
	}
	e.End()
}

func (w *Writer) emitAppProps(e *sxml.Emitter) {
	e.Begin("Properties", attr("xmlns", nsExtendedProps))
	e.Element("Application", "xlsxpress")
	e.End()
}

func (w *Writer) emitWorkbook(e *sxml.Emitter) {
	e.Begin("workbook", attr("xmlns", nsSpreadsheetML), attr("xmlns:r", nsDocRels))
	e.Begin("sheets")
	for i, sheet := range w.sheets {
		e.Element("sheet", "",
			attr("name", sheet.name),
			attr("sheetId", fmt.Sprint(i+1)),
			attr("r:id", fmt.Sprintf("rId%d", i+1)))
	}
	e.End()
	e.End()
}

func (w *Writer) emitWorkbookRels(e *sxml.Emitter) {
	e.Begin("Relationships", attr("xmlns", nsPackageRels))
	for i := range w.sheets {
		e.Element("Relationship", "",
			attr("Id", fmt.Sprintf("rId%d", i+1)),
			attr("Type", relTypeWorksheet),
			attr("Target", fmt.Sprintf("worksheets/sheet%d.xml", i+1)))
	}
	e.Element("Relationship", "",
		attr("Id", fmt.Sprintf("rId%d", len(w.sheets)+1)),
		attr("Type", relTypeStyles), attr("Target", "styles.xml"))
	e.Element("Relationship", "",
		attr("Id", fmt.Sprintf("rId%d", len(w.sheets)+2)),
		attr("Type", relTypeSharedStrings), attr("Target", "sharedStrings.xml"))
	e.End()
}

// emitStyles writes the minimal style registry: the required base records
// plus two cell formats, the default and the date format (numFmtId 14).
func (w *Writer) emitStyles(e *sxml.Emitter) {
	e.Begin("styleSheet", attr("xmlns", nsSpreadsheetML))

	e.Begin("fonts", attr("count", "1"))
	e.Begin("font")
	e.Element("sz", "", attr("val", "11"))
	e.Element("name", "", attr("val", "Calibri"))
	e.End()
	e.End()

	e.Begin("fills", attr("count", "2"))
	e.Begin("fill")
	e.Element("patternFill", "", attr("patternType", "none"))
	e.End()
	e.Begin("fill")
	e.Element("patternFill", "", attr("patternType", "gray125"))
	e.End()
	e.End()

	e.Begin("borders", attr("count", "1"))
	e.Begin("border")
	for _, side := range []string{"left", "right", "top", "bottom", "diagonal"} {
		e.Element(side, "")
	}
	e.End()
	e.End()

	e.Begin("cellStyleXfs", attr("count", "1"))
	e.Element("xf", "", attr("numFmtId", "0"), attr("fontId", "0"),
		attr("fillId", "0"), attr("borderId", "0"))
	e.End()

	e.Begin("cellXfs", attr("count", "2"))
	e.Element("xf", "", attr("numFmtId", "0"), attr("fontId", "0"),
		attr("fillId", "0"), attr("borderId", "0"), attr("xfId", "0"))
	e.Element("xf", "", attr("numFmtId", "14"), attr("fontId", "0"),
		attr("fillId", "0"), attr("borderId", "0"), attr("xfId", "0"),
		attr("applyNumberFormat", "1"))
	e.End()

	e.Begin("cellStyles", attr("count", "1"))
	e.Element("cellStyle", "", attr("name", "Normal"), attr("xfId", "0"), attr("builtinId", "0"))
	e.End()

	e.End()
}

// emitSharedStrings writes the string pool. The count attribute is the number
// of cells referencing the table at save time, so overwritten string cells do
// not inflate it.
func (w *Writer) emitSharedStrings(e *sxml.Emitter) {
	pool := w.strings.Strings()
	refs := 0
	for _, sheet := range w.sheets {
		sheet.cells.Each(func(_ grid.Coord, c grid.Cell) {
			if c.Kind == grid.String {
				refs++
			}
		})
	}
	e.Begin("sst", attr("xmlns", nsSpreadsheetML),
		attr("count", fmt.Sprint(refs)),
		attr("uniqueCount", fmt.Sprint(len(pool))))
	for _, s := range pool {
		e.Begin("si")
		if needsSpacePreserve(s) {
			e.Element("t", s, attr("xml:space", "preserve"))
		} else {
			e.Element("t", s)
		}
		e.End()
	}
	e.End()
}

// needsSpacePreserve reports whether a string would lose whitespace under
// default XML whitespace handling.
func needsSpacePreserve(s string) bool {
	if s == "" {
		return false
	}
	return s != strings.TrimSpace(s)
}

// emit streams one worksheet part: rows in ascending order, cells in
// ascending column order, each with its one-based reference and type marker.
func (s *SheetWriter) emit(e *sxml.Emitter) {
	byRow := make(map[int]map[int]grid.Cell)
	s.cells.Each(func(at grid.Coord, c grid.Cell) {
		row := byRow[at.Row]
		if row == nil {
			row = make(map[int]grid.Cell)
			byRow[at.Row] = row
		}
		row[at.Col] = c
	})

	rows := make([]int, 0, len(byRow))
	for r := range byRow {
		rows = append(rows, r)
	}
	sort.Ints(rows)

	e.Begin("worksheet", attr("xmlns", nsSpreadsheetML), attr("xmlns:r", nsDocRels))
	if nr, nc := s.cells.Bounds(); nr > 0 {
		e.Element("dimension", "", attr("ref", "A1:"+grid.FormatRef(nc-1, nr-1)))
	}
	e.Begin("sheetData")
	for _, r := range rows {
		e.Begin("row", attr("r", fmt.Sprint(r+1)))

		cols := make([]int, 0, len(byRow[r]))
		for c := range byRow[r] {
			cols = append(cols, c)
		}
		sort.Ints(cols)

		for _, c := range cols {
			s.emitCell(e, r, c, byRow[r][c])
		}
		e.End()
	}
	e.End()
	e.End()
}

func (s *SheetWriter) emitCell(e *sxml.Emitter, row, col int, c grid.Cell) {
	attrs := []sxml.Attr{attr("r", grid.FormatRef(col, row))}
	if c.Style != 0 {
		attrs = append(attrs, attr("s", fmt.Sprint(c.Style)))
	}

	switch c.Kind {
	case grid.String:
		attrs = append(attrs, attr("t", "s"))
		e.Begin("c", attrs...)
		e.Element("v", fmt.Sprint(s.w.strings.Intern(c.Text)))
		e.End()
	case grid.Number, grid.Date:
		e.Begin("c", attrs...)
		e.Element("v", grid.FormatNumber(c.Num))
		e.End()
	case grid.Bool:
		attrs = append(attrs, attr("t", "b"))
		e.Begin("c", attrs...)
		if c.Flag {
			e.Element("v", "1")
		} else {
			e.Element("v", "0")
		}
		e.End()
	case grid.Formula:
		e.Begin("c", attrs...)
		e.Element("f", c.Text)
		if c.HasCache && c.CachedKind == grid.Number {
			e.Element("v", grid.FormatNumber(c.Num))
		}
		e.End()
	case grid.Error:
		attrs = append(attrs, attr("t", "e"))
		e.Begin("c", attrs...)
		e.Element("v", c.Text)
		e.End()
	case grid.Empty:
		// never stored
	}
}
