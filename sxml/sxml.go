// Package sxml provides a streaming codec for the XML documents stored inside
// an OOXML package. The reader produces a lazy sequence of structural events
// (element start with attributes, character data, element end) over a byte
// stream; the writer accepts the same event shape and guarantees well-formed,
// escaped output. Neither side knows anything about spreadsheet semantics.
package sxml

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/transform"
)

// ErrMalformed reports structurally invalid XML input: unbalanced tags,
// invalid byte sequences, or an undecodable character encoding.
var ErrMalformed = errors.New("sxml: malformed XML")

// EventKind identifies the structural event type.
type EventKind int

const (
	// StartElement is an element open tag. Name and Attrs are set.
	StartElement EventKind = iota
	// CharData is character data between tags. Text is set.
	CharData
	// EndElement is an element close tag. Name is set.
	EndElement
)

// Attr is one element attribute.
type Attr struct {
	Name  string
	Value string
}

// Event is one structural event in an XML document.
type Event struct {
	Kind  EventKind
	Name  string
	Attrs []Attr
	Text  string
}

// Attr returns the value of the named attribute of a StartElement event, and
// whether it is present.
func (e Event) Attr(name string) (string, bool) {
	for _, a := range e.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// charsetReader decodes XML parts whose declaration names a non-UTF-8
// encoding. Encoding names are resolved through the IANA registry.
func charsetReader(charset string, input io.Reader) (io.Reader, error) {
	switch strings.ToLower(charset) {
	case "", "utf-8", "us-ascii":
		return input, nil
	}
	enc, err := ianaindex.IANA.Encoding(charset)
	if err != nil || enc == nil {
		return nil, fmt.Errorf("unsupported encoding %q", charset)
	}
	return transform.NewReader(input, enc.NewDecoder()), nil
}
