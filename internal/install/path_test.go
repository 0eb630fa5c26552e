package install

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func TestTargetPath(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	got, err := TargetPath(dir, "6.1.4-locietta-WSL2-xanmod1.2-lts")
	if err != nil {
		t.Fatalf("TargetPath: %v", err)
	}
	want := filepath.Join(dir, "6.1.4-locietta-WSL2-xanmod1.2-lts")
	if got != want {
		t.Fatalf("target: got %q want %q", got, want)
	}

	for _, bad := range []string{"", ".", "..", "a/b", `a\b`} {
		if _, err := TargetPath(dir, bad); err == nil {
			t.Fatalf("TargetPath(%q): expected error", bad)
		}
	}
	if _, err := TargetPath(" ", "name"); err == nil {
		t.Fatalf("expected error for empty dir")
	}
}

func TestExists(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "kernel")

	ok, err := Exists(path)
	if err != nil || ok {
		t.Fatalf("Exists before write: got %v, %v", ok, err)
	}
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	ok, err = Exists(path)
	if err != nil || !ok {
		t.Fatalf("Exists after write: got %v, %v", ok, err)
	}
}

func TestWriteNew(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "kernel")
	n, err := WriteNew(path, bytes.NewReader([]byte("image")))
	if err != nil {
		t.Fatalf("WriteNew: %v", err)
	}
	if n != 5 {
		t.Fatalf("bytes: got %d want 5", n)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != "image" {
		t.Fatalf("contents: got %q", string(data))
	}

	_, err = WriteNew(path, bytes.NewReader([]byte("other")))
	if !errors.Is(err, ErrAlreadyExists) {
		t.Fatalf("second write: got %v want ErrAlreadyExists", err)
	}
	data, _ = os.ReadFile(path)
	if string(data) != "image" {
		t.Fatalf("existing file overwritten: %q", string(data))
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, io.ErrUnexpectedEOF }

func TestWriteNewRemovesPartialFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "kernel")
	if _, err := WriteNew(path, io.MultiReader(bytes.NewReader([]byte("half")), failingReader{})); err == nil {
		t.Fatalf("expected error")
	}
	if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("partial file left behind: %v", err)
	}
}
