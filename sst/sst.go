// Package sst implements the workbook-wide shared string table: a
// deduplicated, insertion-ordered pool of distinct string values referenced
// by dense zero-based index from cells.
package sst

import (
	"fmt"
	"sync"
)

// ErrIndexRange reports a shared-string index outside [0, Len()).
var ErrIndexRange = fmt.Errorf("sst: string index out of range")

// Table is a shared string table. Intern is safe for concurrent use; the
// table is the single point of contention when cell writes across worksheets
// run in parallel.
type Table struct {
	mu      sync.Mutex
	strings []string
	index   map[string]int
}

// New returns an empty table.
func New() *Table {
	return &Table{index: make(map[string]int)}
}

// Intern returns the index of s, appending it if not yet present. Indices are
// dense and stable: the first distinct string is 0, the next 1, and so on.
func (t *Table) Intern(s string) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	if i, ok := t.index[s]; ok {
		return i
	}
	i := len(t.strings)
	t.strings = append(t.strings, s)
	t.index[s] = i
	return i
}

// Resolve returns the string at index i.
func (t *Table) Resolve(i int) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if i < 0 || i >= len(t.strings) {
		return "", fmt.Errorf("index %d of %d: %w", i, len(t.strings), ErrIndexRange)
	}
	return t.strings[i], nil
}

// Len returns the number of distinct strings interned.
func (t *Table) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.strings)
}

// Strings returns the interned strings in insertion order. The result is a
// snapshot; interning afterwards does not mutate it. Serialization takes one
// snapshot after all cell writes, so the emitted table covers every index any
// cell references.
func (t *Table) Strings() []string {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]string, len(t.strings))
	copy(out, t.strings)
	return out
}

// Load seeds the table from an already-ordered string pool, as read from a
// workbook's shared-string part. Positions are preserved verbatim so that
// cell indices resolve against the file's own ordering, even for a producer
// that emitted duplicate entries; Intern on a loaded table still returns the
// first index of a duplicate.
func Load(strings []string) *Table {
	t := New()
	for i, s := range strings {
		t.strings = append(t.strings, s)
		if _, ok := t.index[s]; !ok {
			t.index[s] = i
		}
	}
	return t
}
