package opc

import (
	"archive/zip"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestBuilderRoundTrip(t *testing.T) {
	b := Create()
	if err := b.AddPart("[Content_Types].xml", []byte("<Types/>")); err != nil {
		t.Fatalf("AddPart: %v", err)
	}
	w, err := b.CreatePart("xl/workbook.xml")
	if err != nil {
		t.Fatalf("CreatePart: %v", err)
	}
	if _, err := w.Write([]byte("<workbook/>")); err != nil {
		t.Fatalf("write: %v", err)
	}

	path := filepath.Join(t.TempDir(), "out.xlsx")
	if err := b.Finish(path); err != nil {
		t.Fatalf("Finish: %v", err)
	}

	zr, err := zip.OpenReader(path)
	if err != nil {
		t.Fatalf("output is not a valid archive: %v", err)
	}
	defer zr.Close()

	if len(zr.File) != 2 {
		t.Fatalf("output has %d entries, want 2", len(zr.File))
	}
	if zr.File[0].Name != "[Content_Types].xml" || zr.File[1].Name != "xl/workbook.xml" {
		t.Errorf("entry names = %s, %s", zr.File[0].Name, zr.File[1].Name)
	}
	if zr.File[0].Method != zip.Deflate {
		t.Errorf("entry not compressed, method = %d", zr.File[0].Method)
	}
}

func TestBuilderDuplicatePart(t *testing.T) {
	b := Create()
	if err := b.AddPart("xl/workbook.xml", []byte("a")); err != nil {
		t.Fatal(err)
	}
	err := b.AddPart("xl/workbook.xml", []byte("b"))
	if !errors.Is(err, ErrDuplicatePart) {
		t.Errorf("second AddPart error = %v, want ErrDuplicatePart", err)
	}
}

func TestBuilderFinishOnce(t *testing.T) {
	dir := t.TempDir()

	b := Create()
	b.AddPart("a", []byte("x"))
	if err := b.Finish(filepath.Join(dir, "one.xlsx")); err != nil {
		t.Fatal(err)
	}
	if err := b.Finish(filepath.Join(dir, "two.xlsx")); !errors.Is(err, ErrFinished) {
		t.Errorf("second Finish error = %v, want ErrFinished", err)
	}
	if err := b.AddPart("b", []byte("y")); !errors.Is(err, ErrFinished) {
		t.Errorf("AddPart after Finish error = %v, want ErrFinished", err)
	}
}

func TestBuilderFinishFailureLeavesNoFiles(t *testing.T) {
	dir := t.TempDir()
	missing := filepath.Join(dir, "no-such-dir", "out.xlsx")

	b := Create()
	b.AddPart("a", []byte("x"))
	if err := b.Finish(missing); err == nil {
		t.Fatal("Finish into missing directory expected error")
	}

	if _, err := os.Stat(missing); !os.IsNotExist(err) {
		t.Error("destination exists after failed Finish")
	}
}

func TestBuilderFinishLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.xlsx")

	b := Create()
	b.AddPart("a", []byte("x"))
	if err := b.Finish(path); err != nil {
		t.Fatal(err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if strings.Contains(e.Name(), ".tmp") {
			t.Errorf("temp file left behind: %s", e.Name())
		}
	}
	if len(entries) != 1 {
		t.Errorf("directory has %d entries, want only the output", len(entries))
	}
}
