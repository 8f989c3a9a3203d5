package sxml

import (
	"encoding/xml"
	"fmt"
	"io"
)

// Tokenizer reads a lazy, finite sequence of events from an XML byte stream.
// A Tokenizer is not restartable once consumed; callers needing to re-scan
// must re-open the underlying stream.
type Tokenizer struct {
	dec  *xml.Decoder
	done bool
}

// NewTokenizer returns a tokenizer over r.
func NewTokenizer(r io.Reader) *Tokenizer {
	dec := xml.NewDecoder(r)
	dec.CharsetReader = charsetReader
	return &Tokenizer{dec: dec}
}

// Next returns the next structural event. It returns io.EOF after the last
// event of a well-formed document, and an error wrapping ErrMalformed for
// structurally invalid input. Comments, processing instructions, and
// directives are skipped.
func (t *Tokenizer) Next() (Event, error) {
	if t.done {
		return Event{}, io.EOF
	}

	for {
		tok, err := t.dec.Token()
		if err != nil {
			t.done = true
			if err == io.EOF {
				return Event{}, io.EOF
			}
			return Event{}, fmt.Errorf("%w: %v", ErrMalformed, err)
		}

		switch tk := tok.(type) {
		case xml.StartElement:
			ev := Event{Kind: StartElement, Name: tk.Name.Local}
			if len(tk.Attr) > 0 {
				ev.Attrs = make([]Attr, len(tk.Attr))
				for i, a := range tk.Attr {
					ev.Attrs[i] = Attr{Name: a.Name.Local, Value: a.Value}
				}
			}
			return ev, nil
		case xml.CharData:
			return Event{Kind: CharData, Text: string(tk)}, nil
		case xml.EndElement:
			return Event{Kind: EndElement, Name: tk.Name.Local}, nil
		default:
			// comment, procinst, directive
		}
	}
}

// Skip consumes events until the element whose start was just returned is
// closed. It is a no-op positioned anywhere other than immediately after a
// StartElement event.
func (t *Tokenizer) Skip() error {
	depth := 1
	for depth > 0 {
		ev, err := t.Next()
		if err != nil {
			if err == io.EOF {
				return fmt.Errorf("%w: unexpected end of document", ErrMalformed)
			}
			return err
		}
		switch ev.Kind {
		case StartElement:
			depth++
		case EndElement:
			depth--
		case CharData:
		}
	}
	return nil
}
