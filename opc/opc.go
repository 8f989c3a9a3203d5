// Package opc implements the package container codec for OOXML documents:
// reading and writing the ZIP archive of named parts that holds a workbook.
// It knows nothing about spreadsheet semantics.
//
// The read side ([Open], [Container]) exposes parts by name. The write side
// ([Create], [Builder]) accumulates compressed parts and commits them
// atomically: the destination path is touched only by the final rename, so an
// interrupted save never leaves a partially-written file in place.
package opc

import "errors"

// Container-level errors. All are returned wrapped with the offending path or
// part name; discriminate with errors.Is.
var (
	// ErrCorruptArchive reports an archive whose internal structure cannot
	// be parsed.
	ErrCorruptArchive = errors.New("opc: corrupt archive")
	// ErrLegacyFormat reports a file that is a legacy OLE compound document
	// (a pre-OOXML binary workbook) rather than a ZIP package.
	ErrLegacyFormat = errors.New("opc: legacy OLE compound document, not an OOXML package")
	// ErrMissingPart reports a requested part name absent from the package.
	ErrMissingPart = errors.New("opc: missing part")
	// ErrClosed reports part access on a closed Container.
	ErrClosed = errors.New("opc: container is closed")
	// ErrDuplicatePart reports a second write to an already-written part name.
	ErrDuplicatePart = errors.New("opc: duplicate part")
	// ErrFinished reports use of a Builder after Finish.
	ErrFinished = errors.New("opc: builder already finished")
)
