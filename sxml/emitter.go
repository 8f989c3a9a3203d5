package sxml

import (
	"bufio"
	"encoding/xml"
	"fmt"
	"io"
)

const xmlDeclaration = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n"

// Emitter writes a well-formed XML document as a sequence of events. Every
// Begin must be matched by exactly one End in LIFO order; Flush fails if any
// element is still open. All attribute values and character data are escaped
// for the XML metacharacters. Write errors are sticky and surface on Flush.
type Emitter struct {
	w        *bufio.Writer
	stack    []string
	err      error
	declared bool
	open     bool // start tag written but not yet closed with '>'
}

// NewEmitter returns an emitter writing to w.
func NewEmitter(w io.Writer) *Emitter {
	return &Emitter{w: bufio.NewWriter(w)}
}

func (e *Emitter) setErr(err error) {
	if e.err == nil && err != nil {
		e.err = err
	}
}

func (e *Emitter) closeOpenTag() {
	if e.open {
		_, err := e.w.WriteString(">")
		e.setErr(err)
		e.open = false
	}
}

// Begin opens an element. The XML declaration is written before the first
// element.
func (e *Emitter) Begin(name string, attrs ...Attr) {
	if e.err != nil {
		return
	}
	if !e.declared {
		_, err := e.w.WriteString(xmlDeclaration)
		e.setErr(err)
		e.declared = true
	}
	e.closeOpenTag()

	e.w.WriteByte('<')
	e.w.WriteString(name)
	for _, a := range attrs {
		e.w.WriteByte(' ')
		e.w.WriteString(a.Name)
		e.w.WriteString(`="`)
		e.setErr(xml.EscapeText(e.w, []byte(a.Value)))
		e.w.WriteByte('"')
	}
	e.open = true
	e.stack = append(e.stack, name)
}

// Chars writes character data inside the current element, escaped.
func (e *Emitter) Chars(s string) {
	if e.err != nil {
		return
	}
	if len(e.stack) == 0 {
		e.setErr(fmt.Errorf("sxml: character data outside of any element"))
		return
	}
	e.closeOpenTag()
	e.setErr(xml.EscapeText(e.w, []byte(s)))
}

// End closes the most recently opened element. An element with no content is
// written self-closing.
func (e *Emitter) End() {
	if e.err != nil {
		return
	}
	if len(e.stack) == 0 {
		e.setErr(fmt.Errorf("sxml: End without matching Begin"))
		return
	}
	name := e.stack[len(e.stack)-1]
	e.stack = e.stack[:len(e.stack)-1]

	if e.open {
		_, err := e.w.WriteString("/>")
		e.setErr(err)
		e.open = false
		return
	}
	e.w.WriteString("</")
	e.w.WriteString(name)
	err := e.w.WriteByte('>')
	e.setErr(err)
}

// Element writes a complete element with text content in one call.
func (e *Emitter) Element(name, text string, attrs ...Attr) {
	e.Begin(name, attrs...)
	if text != "" {
		e.Chars(text)
	}
	e.End()
}

// Flush writes buffered output and reports any accumulated error, including
// elements left open.
func (e *Emitter) Flush() error {
	if e.err != nil {
		return e.err
	}
	if len(e.stack) > 0 {
		return fmt.Errorf("sxml: %d element(s) left open, innermost <%s>", len(e.stack), e.stack[len(e.stack)-1])
	}
	return e.w.Flush()
}
