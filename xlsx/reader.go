package xlsx

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/stherrien/xlsxpress/grid"
	"github.com/stherrien/xlsxpress/opc"
	"github.com/stherrien/xlsxpress/sst"
	"github.com/stherrien/xlsxpress/sxml"
)

// Reader provides read access to a workbook package. The workbook manifest
// and shared string table are parsed on open; worksheet grids are parsed
// lazily on first access and cached. A Reader is safe for concurrent reads:
// the first parse of a given sheet name is serialized per name, and cached
// sheets are immutable.
type Reader struct {
	container *opc.Container
	names     []string          // manifest order
	targets   map[string]string // sheet name -> part name
	strings   *sst.Table
	formats   []int // cellXfs index -> numFmtId, opaque
	core      *corePropertiesXML
	app       *appPropertiesXML
	sheets    map[string]*sheetEntry
}

// sheetEntry guards the lazy parse of one worksheet. The first access to a
// sheet name is a mutual-exclusion region; later accesses return the cached
// grid without re-parsing.
type sheetEntry struct {
	once  sync.Once
	sheet *Sheet
	err   error
}

// OpenReader opens the workbook at path. It fails with an error satisfying
// errors.Is(err, fs.ErrNotExist) for a missing path, with opc sentinels for
// an unreadable archive, and with ErrFormat when a required part is missing
// or malformed. Worksheet contents are not parsed here.
func OpenReader(path string) (*Reader, error) {
	container, err := opc.Open(path)
	if err != nil {
		return nil, err
	}

	r := &Reader{
		container: container,
		targets:   make(map[string]string),
		sheets:    make(map[string]*sheetEntry),
	}

	if err := r.validate(); err != nil {
		container.Close()
		return nil, err
	}
	if err := r.parseWorkbook(); err != nil {
		container.Close()
		return nil, err
	}
	if err := r.parseSharedStrings(); err != nil {
		container.Close()
		return nil, err
	}
	if err := r.parseStyles(); err != nil {
		container.Close()
		return nil, err
	}

	// Metadata parts are optional
	r.parseCoreProperties()
	r.parseAppProperties()

	return r, nil
}

// Close releases the underlying container. Cached sheets remain usable;
// parsing a sheet not accessed before Close fails with an error wrapping
// opc.ErrClosed. Close is safe to call more than once.
func (r *Reader) Close() error {
	return r.container.Close()
}

// validate checks that the parts every workbook package must carry exist.
func (r *Reader) validate() error {
	for _, name := range []string{partContentTypes, partWorkbook} {
		if !r.container.Has(name) {
			return fmt.Errorf("%w: missing required part %s", ErrFormat, name)
		}
	}
	return nil
}

// parseWorkbook parses the workbook manifest and resolves each sheet's part
// location through the workbook relationships, falling back to positional
// part names for producers that omit them.
func (r *Reader) parseWorkbook() error {
	rels := r.parseRelationships()

	data, err := r.container.Part(partWorkbook)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrFormat, err)
	}

	var wb workbookXML
	if err := xml.Unmarshal(data, &wb); err != nil {
		return fmt.Errorf("%w: parsing %s: %v", ErrFormat, partWorkbook, err)
	}

	for i, ref := range wb.Sheets.Sheet {
		if ref.Name == "" {
			return fmt.Errorf("%w: sheet %d has no name", ErrFormat, i+1)
		}
		if _, dup := r.targets[ref.Name]; dup {
			return fmt.Errorf("%w: duplicate sheet name %q in manifest", ErrFormat, ref.Name)
		}

		target := rels[ref.RID]
		if target == "" {
			target = fmt.Sprintf("worksheets/sheet%d.xml", i+1)
		}
		target = normalizePartName(target)

		r.names = append(r.names, ref.Name)
		r.targets[ref.Name] = target
		r.sheets[ref.Name] = &sheetEntry{}
	}
	return nil
}

// parseRelationships reads the workbook relationships part. Relationships
// are optional; absence yields an empty map.
func (r *Reader) parseRelationships() map[string]string {
	rels := make(map[string]string)

	data, err := r.container.Part(partWorkbookRels)
	if err != nil {
		return rels
	}

	var parsed relationshipsXML
	if err := xml.Unmarshal(data, &parsed); err != nil {
		return rels
	}
	for _, rel := range parsed.Relationship {
		rels[rel.ID] = rel.Target
	}
	return rels
}

// normalizePartName resolves a workbook-relative relationship target to a
// package part name.
func normalizePartName(target string) string {
	target = strings.TrimPrefix(target, "/")
	if !strings.HasPrefix(target, "xl/") {
		target = "xl/" + target
	}
	return target
}

// parseSharedStrings parses the shared string part in full. The part is
// optional: a workbook with no shared strings simply has an empty table, and
// any cell that then references an index fails as a format error. Phonetic
// guide runs are excluded from entry text.
func (r *Reader) parseSharedStrings() error {
	rc, err := r.container.Reader(partSharedStrings)
	if err != nil {
		r.strings = sst.New()
		return nil
	}
	defer rc.Close()

	var (
		pool    []string
		entry   strings.Builder
		inEntry bool
		inText  bool
	)

	tok := sxml.NewTokenizer(rc)
	for {
		ev, err := tok.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("%w: parsing %s: %v", ErrFormat, partSharedStrings, err)
		}

		switch ev.Kind {
		case sxml.StartElement:
			switch ev.Name {
			case "si":
				entry.Reset()
				inEntry = true
			case "t":
				inText = inEntry
			case "rPh":
				// phonetic runs are display hints, not entry text
				if err := tok.Skip(); err != nil {
					return fmt.Errorf("%w: parsing %s: %v", ErrFormat, partSharedStrings, err)
				}
			}
		case sxml.CharData:
			if inText {
				entry.WriteString(ev.Text)
			}
		case sxml.EndElement:
			switch ev.Name {
			case "t":
				inText = false
			case "si":
				pool = append(pool, entry.String())
				inEntry = false
			}
		}
	}

	r.strings = sst.Load(pool)
	return nil
}

// parseStyles reads the cell format registry. Styles are optional and their
// number-format identifiers are preserved as opaque values.
func (r *Reader) parseStyles() error {
	data, err := r.container.Part(partStyles)
	if err != nil {
		return nil
	}

	var styles stylesXML
	if err := xml.Unmarshal(data, &styles); err != nil {
		return fmt.Errorf("%w: parsing %s: %v", ErrFormat, partStyles, err)
	}
	if styles.CellXfs != nil {
		r.formats = make([]int, len(styles.CellXfs.Xf))
		for i, xf := range styles.CellXfs.Xf {
			r.formats[i] = xf.NumFmtID
		}
	}
	return nil
}

func (r *Reader) parseCoreProperties() {
	data, err := r.container.Part(partCoreProps)
	if err != nil {
		return
	}
	r.core = &corePropertiesXML{}
	xml.Unmarshal(data, r.core)
}

func (r *Reader) parseAppProperties() {
	data, err := r.container.Part(partAppProps)
	if err != nil {
		return
	}
	r.app = &appPropertiesXML{}
	xml.Unmarshal(data, r.app)
}

// SheetNames returns the worksheet names in manifest order.
func (r *Reader) SheetNames() []string {
	names := make([]string, len(r.names))
	copy(names, r.names)
	return names
}

// SheetCount returns the number of worksheets in the workbook.
func (r *Reader) SheetCount() int {
	return len(r.names)
}

// Worksheet returns the named worksheet, parsing its grid on first access
// and returning the cached grid afterwards. A name absent from the manifest
// fails with ErrSheetNotFound.
func (r *Reader) Worksheet(name string) (*Sheet, error) {
	entry, ok := r.sheets[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrSheetNotFound, name)
	}
	entry.once.Do(func() {
		entry.sheet, entry.err = r.parseWorksheet(name, r.targets[name])
	})
	return entry.sheet, entry.err
}

// CellFormat returns the opaque number-format identifier for a cell's style
// reference, as recorded in the styles part.
func (r *Reader) CellFormat(style int) (numFmtID int, ok bool) {
	if style < 0 || style >= len(r.formats) {
		return 0, false
	}
	return r.formats[style], true
}

// Metadata returns the document metadata from the docProps parts.
func (r *Reader) Metadata() Metadata {
	var meta Metadata
	if r.core != nil {
		meta.Title = r.core.Title
		meta.Subject = r.core.Subject
		meta.Author = r.core.Creator
		meta.Keywords = r.core.Keywords
	}
	if r.app != nil {
		meta.Creator = r.app.Application
	}
	return meta
}

// parseWorksheet streams one sheet part into a sparse grid, converting
// one-based cell references to zero-based coordinates and resolving
// string-type cells through the shared string table. The declared dimension
// element is ignored: producers emit wrong hints, so bounds always derive
// from occupancy.
func (r *Reader) parseWorksheet(name, target string) (*Sheet, error) {
	rc, err := r.container.Reader(target)
	if err != nil {
		if errors.Is(err, opc.ErrClosed) {
			return nil, fmt.Errorf("xlsx: sheet %q: %w", name, err)
		}
		return nil, fmt.Errorf("%w: sheet %q: %v", ErrFormat, name, err)
	}
	defer rc.Close()

	cells := grid.New()
	p := &sheetParser{reader: r, sheet: name, cells: cells, curRow: -1}

	tok := sxml.NewTokenizer(rc)
	for {
		ev, err := tok.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: sheet %q: %v", ErrFormat, name, err)
		}
		if err := p.event(ev); err != nil {
			return nil, err
		}
	}

	return newSheet(name, cells), nil
}

// sheetParser is the event-driven state machine for one sheet part. It
// tracks the current cell between <c> and </c> and the implicit cursor for
// producers that omit r attributes.
type sheetParser struct {
	reader *Reader
	sheet  string
	cells  *grid.Grid

	curRow  int // implicit row cursor, 0-based; -1 before the first row
	nextCol int // implicit column cursor, 0-based

	inCell  bool
	cellRow int
	cellCol int
	typ     string
	style   int
	value   strings.Builder
	formula strings.Builder
	inline  strings.Builder
	hasVal  bool
	text    int // 0 none, 1 in <v>, 2 in <f>, 3 in <is><t>
}

func (p *sheetParser) event(ev sxml.Event) error {
	switch ev.Kind {
	case sxml.StartElement:
		return p.start(ev)
	case sxml.CharData:
		switch p.text {
		case 1:
			p.value.WriteString(ev.Text)
		case 2:
			p.formula.WriteString(ev.Text)
		case 3:
			p.inline.WriteString(ev.Text)
		}
	case sxml.EndElement:
		return p.end(ev)
	}
	return nil
}

func (p *sheetParser) start(ev sxml.Event) error {
	switch ev.Name {
	case "row":
		if v, ok := ev.Attr("r"); ok {
			n, err := strconv.Atoi(v)
			if err != nil || n < 1 {
				return fmt.Errorf("%w: sheet %q: invalid row number %q", ErrFormat, p.sheet, v)
			}
			p.curRow = n - 1
		} else {
			// unnumbered rows follow the previous row
			p.curRow++
		}
		p.nextCol = 0
	case "c":
		p.inCell = true
		p.cellRow = p.curRow
		p.cellCol = p.nextCol
		if ref, ok := ev.Attr("r"); ok {
			col, row, err := grid.ParseRef(ref)
			if err != nil {
				return fmt.Errorf("%w: sheet %q: %v", ErrFormat, p.sheet, err)
			}
			p.cellRow, p.cellCol = row, col
		}
		p.nextCol = p.cellCol + 1
		p.typ, _ = ev.Attr("t")
		p.style = 0
		if s, ok := ev.Attr("s"); ok {
			p.style, _ = strconv.Atoi(s)
		}
		p.value.Reset()
		p.formula.Reset()
		p.inline.Reset()
		p.hasVal = false
	case "v":
		if p.inCell {
			p.text = 1
			p.hasVal = true
		}
	case "f":
		if p.inCell {
			p.text = 2
		}
	case "t":
		if p.inCell {
			p.text = 3
		}
	}
	return nil
}

func (p *sheetParser) end(ev sxml.Event) error {
	switch ev.Name {
	case "v", "f", "t":
		p.text = 0
	case "c":
		p.inCell = false
		p.text = 0
		return p.finishCell()
	}
	return nil
}

// finishCell converts the accumulated cell state into a typed grid cell.
func (p *sheetParser) finishCell() error {
	cell := grid.Cell{Style: p.style}
	val := p.value.String()

	switch p.typ {
	case "s": // shared string
		idx, err := strconv.Atoi(strings.TrimSpace(val))
		if err != nil {
			return fmt.Errorf("%w: sheet %q cell %s: bad shared string reference %q",
				ErrFormat, p.sheet, grid.FormatRef(p.cellCol, p.cellRow), val)
		}
		text, err := p.reader.strings.Resolve(idx)
		if err != nil {
			return fmt.Errorf("%w: sheet %q cell %s: %v",
				ErrFormat, p.sheet, grid.FormatRef(p.cellCol, p.cellRow), err)
		}
		cell.Kind = grid.String
		cell.Text = text
	case "b": // boolean
		cell.Kind = grid.Bool
		cell.Flag = strings.TrimSpace(val) == "1"
	case "e": // error literal
		cell.Kind = grid.Error
		cell.Text = val
	case "str": // formula with string result
		if p.formula.Len() > 0 {
			cell.Kind = grid.Formula
			cell.Text = p.formula.String()
			cell.HasCache = true
			cell.CachedKind = grid.String
			cell.CachedText = val
		} else {
			cell.Kind = grid.String
			cell.Text = val
		}
	case "inlineStr": // inline string
		cell.Kind = grid.String
		cell.Text = p.inline.String()
	case "", "n": // number, or empty
		switch {
		case p.formula.Len() > 0:
			cell.Kind = grid.Formula
			cell.Text = p.formula.String()
			if p.hasVal && strings.TrimSpace(val) != "" {
				n, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
				if err != nil {
					return fmt.Errorf("%w: sheet %q cell %s: bad cached result %q",
						ErrFormat, p.sheet, grid.FormatRef(p.cellCol, p.cellRow), val)
				}
				cell.HasCache = true
				cell.CachedKind = grid.Number
				cell.Num = n
			}
		case p.hasVal && strings.TrimSpace(val) != "":
			n, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
			if err != nil {
				return fmt.Errorf("%w: sheet %q cell %s: bad numeric value %q",
					ErrFormat, p.sheet, grid.FormatRef(p.cellCol, p.cellRow), val)
			}
			cell.Kind = grid.Number
			cell.Num = n
		default:
			// no value: not materialized
			return nil
		}
	default:
		// unrecognized type marker: carry the raw text rather than drop data
		cell.Kind = grid.String
		cell.Text = val
	}

	p.cells.Set(p.cellRow, p.cellCol, cell)
	return nil
}
