package billy

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/jmgilman/go/filecollection/fs/core"
)

// TestNewMemory verifies NewMemory creates a usable filesystem.
func TestNewMemory(t *testing.T) {
	fsys := NewMemory()
	if fsys.Unwrap() == nil {
		t.Fatal("NewMemory() underlying filesystem is nil")
	}
	if got := fsys.Type(); got != core.FSTypeMemory {
		t.Errorf("Type() = %s, want %s", got, core.FSTypeMemory)
	}
}

// TestNewLocal_WithRoot verifies a rooted local filesystem resolves paths
// relative to the root.
func TestNewLocal_WithRoot(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "a.txt"), []byte("hello"), 0o644); err != nil {
		t.Fatalf("setup failed: %v", err)
	}

	fsys := NewLocal(WithRoot(dir))
	if got := fsys.Type(); got != core.FSTypeLocal {
		t.Errorf("Type() = %s, want %s", got, core.FSTypeLocal)
	}

	data, err := fsys.ReadFile("a.txt")
	if err != nil {
		t.Fatalf("ReadFile(a.txt): %v", err)
	}
	if string(data) != "hello" {
		t.Errorf("ReadFile(a.txt) = %q, want %q", data, "hello")
	}
}

// TestNewLocal_AbsolutePaths verifies the default root accepts absolute paths.
func TestNewLocal_AbsolutePaths(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "b.txt")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatalf("setup failed: %v", err)
	}

	ok, err := NewLocal().Exists(path)
	if err != nil || !ok {
		t.Fatalf("Exists(%s) = %v, %v; want true, nil", path, ok, err)
	}
}

func TestReadWrite(t *testing.T) {
	fsys := NewMemory()

	if err := fsys.MkdirAll("dir/sub", 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := fsys.WriteFile("dir/sub/f.txt", []byte("content"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	f, err := fsys.Create("dir/g.txt")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := io.WriteString(f, "more"); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if f.Name() != "dir/g.txt" {
		t.Errorf("Name() = %q, want %q", f.Name(), "dir/g.txt")
	}
	if err := f.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	rf, err := fsys.Open("dir/g.txt")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer func() { _ = rf.Close() }()
	info, err := rf.Stat()
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if info.Size() != 4 {
		t.Errorf("Size() = %d, want 4", info.Size())
	}

	entries, err := fsys.ReadDir("dir")
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	if want := []string{"g.txt", "sub"}; !reflect.DeepEqual(names, want) {
		t.Errorf("ReadDir(dir) = %v, want %v", names, want)
	}
}

func TestExists(t *testing.T) {
	fsys := NewMemory()
	if err := fsys.WriteFile("present.txt", nil, 0o644); err != nil {
		t.Fatalf("setup failed: %v", err)
	}

	tests := []struct {
		path string
		want bool
	}{
		{"present.txt", true},
		{"absent.txt", false},
	}
	for _, tt := range tests {
		got, err := fsys.Exists(tt.path)
		if err != nil {
			t.Fatalf("Exists(%s): %v", tt.path, err)
		}
		if got != tt.want {
			t.Errorf("Exists(%s) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func setupTree(t *testing.T) *FS {
	t.Helper()
	fsys := NewMemory()
	for _, p := range []string{"root/b.txt", "root/a/x.txt", "root/a/y.txt", "root/c/z.txt"} {
		if err := fsys.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatalf("setup failed: %v", err)
		}
		if err := fsys.WriteFile(p, []byte(p), 0o644); err != nil {
			t.Fatalf("setup failed: %v", err)
		}
	}
	return fsys
}

// TestWalk_LexicalOrder verifies Walk visits entries in lexical order.
func TestWalk_LexicalOrder(t *testing.T) {
	fsys := setupTree(t)

	var visited []string
	err := fsys.Walk("root", func(path string, _ fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		visited = append(visited, path)
		return nil
	})
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}

	want := []string{"root", "root/a", "root/a/x.txt", "root/a/y.txt", "root/b.txt", "root/c", "root/c/z.txt"}
	if !reflect.DeepEqual(visited, want) {
		t.Errorf("Walk visited %v, want %v", visited, want)
	}
}

// TestWalk_SkipAll verifies SkipAll ends the walk without error.
func TestWalk_SkipAll(t *testing.T) {
	fsys := setupTree(t)

	var visited []string
	err := fsys.Walk("root", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			visited = append(visited, path)
			return fs.SkipAll
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}
	if want := []string{"root/a/x.txt"}; !reflect.DeepEqual(visited, want) {
		t.Errorf("Walk visited %v, want %v", visited, want)
	}
}

// TestWalk_SkipDir verifies SkipDir prunes a directory.
func TestWalk_SkipDir(t *testing.T) {
	fsys := setupTree(t)

	var visited []string
	err := fsys.Walk("root", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() && path == "root/a" {
			return fs.SkipDir
		}
		if !d.IsDir() {
			visited = append(visited, path)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}
	if want := []string{"root/b.txt", "root/c/z.txt"}; !reflect.DeepEqual(visited, want) {
		t.Errorf("Walk visited %v, want %v", visited, want)
	}
}

// TestWalk_SkipDirOnFile verifies SkipDir returned for a file skips the
// remaining entries of its directory, as fs.WalkDir does.
func TestWalk_SkipDirOnFile(t *testing.T) {
	fsys := setupTree(t)

	var visited []string
	err := fsys.Walk("root", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		visited = append(visited, path)
		if path == "root/a/x.txt" {
			return fs.SkipDir
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}
	if want := []string{"root/a/x.txt", "root/b.txt", "root/c/z.txt"}; !reflect.DeepEqual(visited, want) {
		t.Errorf("Walk visited %v, want %v", visited, want)
	}
}

// TestWalk_MissingRoot verifies the root error is passed to walkFn.
func TestWalk_MissingRoot(t *testing.T) {
	fsys := NewMemory()

	var got error
	err := fsys.Walk("nope", func(_ string, _ fs.DirEntry, err error) error {
		got = err
		return err
	})
	if !errors.Is(got, fs.ErrNotExist) {
		t.Errorf("walkFn error = %v, want fs.ErrNotExist", got)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("Walk() = %v, want fs.ErrNotExist", err)
	}
}
