package opc

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/richardlehane/mscfb"
)

// Container is an open, read-only OOXML package.
type Container struct {
	zr *zip.ReadCloser
}

// Open opens the package at path. A missing or unreadable path yields an
// error satisfying errors.Is(err, fs.ErrNotExist) or the underlying
// permission error; an unparseable archive yields ErrCorruptArchive, or
// ErrLegacyFormat when the bytes are an OLE compound document (a legacy
// binary workbook saved by older producers).
func Open(path string) (*Container, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		if errors.Is(err, zip.ErrFormat) {
			if isCompoundFile(path) {
				return nil, fmt.Errorf("open %s: %w", path, ErrLegacyFormat)
			}
			return nil, fmt.Errorf("open %s: %w", path, ErrCorruptArchive)
		}
		return nil, fmt.Errorf("opc: open %s: %w", path, err)
	}
	return &Container{zr: zr}, nil
}

// isCompoundFile reports whether the file parses as an OLE compound document.
func isCompoundFile(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	_, err = mscfb.New(f)
	return err == nil
}

// Parts returns the part names in archive order, or nil on a closed
// container.
func (c *Container) Parts() []string {
	if c.zr == nil {
		return nil
	}
	names := make([]string, len(c.zr.File))
	for i, f := range c.zr.File {
		names[i] = f.Name
	}
	return names
}

// Has reports whether the named part exists. A closed container has no parts.
func (c *Container) Has(name string) bool {
	if c.zr == nil {
		return false
	}
	for _, f := range c.zr.File {
		if f.Name == name {
			return true
		}
	}
	return false
}

// Part reads the full content of the named part.
func (c *Container) Part(name string) ([]byte, error) {
	rc, err := c.Reader(name)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read part %s: %w", name, err)
	}
	return data, nil
}

// Reader opens the named part for streaming. The caller closes it. A closed
// container fails with ErrClosed.
func (c *Container) Reader(name string) (io.ReadCloser, error) {
	if c.zr == nil {
		return nil, fmt.Errorf("%w: %s", ErrClosed, name)
	}
	for _, f := range c.zr.File {
		if f.Name == name {
			rc, err := f.Open()
			if err != nil {
				return nil, fmt.Errorf("open part %s: %w", name, err)
			}
			return rc, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrMissingPart, name)
}

// Close releases the underlying file handle. It is safe to call more than
// once.
func (c *Container) Close() error {
	if c.zr != nil {
		err := c.zr.Close()
		c.zr = nil
		return err
	}
	return nil
}
