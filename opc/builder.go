package opc

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Builder accumulates named, compressed parts for a new package. Parts are
// buffered until Finish, which is the only point at which the destination
// path is touched.
type Builder struct {
	buf      bytes.Buffer
	zw       *zip.Writer
	written  map[string]bool
	finished bool
}

// Create returns an empty Builder.
func Create() *Builder {
	b := &Builder{written: make(map[string]bool)}
	b.zw = zip.NewWriter(&b.buf)
	return b
}

// AddPart appends one named compressed entry. Writing the same name twice is
// an error.
func (b *Builder) AddPart(name string, data []byte) error {
	w, err := b.CreatePart(name)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write part %s: %w", name, err)
	}
	return nil
}

// CreatePart opens a named entry for streaming. The returned writer is valid
// until the next CreatePart, AddPart, or Finish call.
func (b *Builder) CreatePart(name string) (io.Writer, error) {
	if b.finished {
		return nil, ErrFinished
	}
	if b.written[name] {
		return nil, fmt.Errorf("%w: %s", ErrDuplicatePart, name)
	}
	b.written[name] = true

	w, err := b.zw.Create(name)
	if err != nil {
		return nil, fmt.Errorf("create part %s: %w", name, err)
	}
	return w, nil
}

// Finish flushes the archive and atomically materializes it at path: the
// bytes are written to a temporary file in the destination directory, synced,
// and renamed into place. On any failure the temporary file is removed and
// the destination is left untouched. A Builder can be finished once.
func (b *Builder) Finish(path string) error {
	if b.finished {
		return ErrFinished
	}
	b.finished = true

	if err := b.zw.Close(); err != nil {
		return fmt.Errorf("opc: finalize archive: %w", err)
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp*")
	if err != nil {
		return fmt.Errorf("opc: create temp file in %s: %w", dir, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(b.buf.Bytes()); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("opc: write %s: %w", tmpName, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("opc: sync %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("opc: close %s: %w", tmpName, err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("opc: rename to %s: %w", path, err)
	}
	return nil
}
