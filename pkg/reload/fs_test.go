package reload_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/ayazhafiz/hotreload/pkg/reload"
)

// TestOSFS_Copy tests byte-exact copying and full overwrite of a longer
// previous copy.
func TestOSFS_Copy(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.so")
	dst := filepath.Join(dir, "dst.so")
	fs := reload.OSFS{}

	if err := os.WriteFile(src, []byte("a longer first version"), 0o755); err != nil {
		t.Fatalf("WriteFile() failed: %v", err)
	}
	if err := fs.Copy(src, dst); err != nil {
		t.Fatalf("Copy() failed: %v", err)
	}

	got, err := os.ReadFile(dst)
	if err != nil {
		t.Fatalf("ReadFile() failed: %v", err)
	}
	if !bytes.Equal(got, []byte("a longer first version")) {
		t.Errorf("dst bytes = %q, want %q", got, "a longer first version")
	}

	// A shorter replacement must fully replace the old copy, not leave a
	// tail of stale bytes.
	if err := os.WriteFile(src, []byte("short v2"), 0o755); err != nil {
		t.Fatalf("WriteFile() failed: %v", err)
	}
	if err := fs.Copy(src, dst); err != nil {
		t.Fatalf("Copy() failed: %v", err)
	}

	got, err = os.ReadFile(dst)
	if err != nil {
		t.Fatalf("ReadFile() failed: %v", err)
	}
	if !bytes.Equal(got, []byte("short v2")) {
		t.Errorf("dst bytes after overwrite = %q, want %q", got, "short v2")
	}
}

// TestOSFS_Copy_MissingSource tests the error path.
func TestOSFS_Copy_MissingSource(t *testing.T) {
	dir := t.TempDir()
	fs := reload.OSFS{}

	err := fs.Copy(filepath.Join(dir, "absent.so"), filepath.Join(dir, "dst.so"))
	if err == nil {
		t.Error("Copy() succeeded with a missing source, want error")
	}
}

// TestOSFS_Exists tests existence checks.
func TestOSFS_Exists(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "probe")
	fs := reload.OSFS{}

	ok, err := fs.Exists(path)
	if err != nil {
		t.Fatalf("Exists() failed: %v", err)
	}
	if ok {
		t.Error("Exists() = true for a missing path, want false")
	}

	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatalf("WriteFile() failed: %v", err)
	}

	ok, err = fs.Exists(path)
	if err != nil {
		t.Fatalf("Exists() failed: %v", err)
	}
	if !ok {
		t.Error("Exists() = false for an existing path, want true")
	}
}

// TestOSFS_ModTime tests mtime reads and the missing-file error.
func TestOSFS_ModTime(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "file")
	fs := reload.OSFS{}

	if _, err := fs.ModTime(path); err == nil {
		t.Error("ModTime() succeeded for a missing path, want error")
	}

	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatalf("WriteFile() failed: %v", err)
	}
	want := baseTime()
	if err := os.Chtimes(path, want, want); err != nil {
		t.Fatalf("Chtimes() failed: %v", err)
	}

	got, err := fs.ModTime(path)
	if err != nil {
		t.Fatalf("ModTime() failed: %v", err)
	}
	if !got.Equal(want) {
		t.Errorf("ModTime() = %v, want %v", got, want)
	}
}
