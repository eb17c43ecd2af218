package core

import (
	"io"
	"io/fs"
)

// FSType represents the underlying type of filesystem implementation.
type FSType int

const (
	// FSTypeUnknown indicates the filesystem type is unknown or unspecified.
	FSTypeUnknown FSType = iota
	// FSTypeLocal indicates a disk-backed filesystem whose paths can be
	// handed to OS facilities such as file watchers.
	FSTypeLocal
	// FSTypeMemory indicates an in-memory filesystem.
	FSTypeMemory
)

// String returns a string representation of the FSType.
func (t FSType) String() string {
	switch t {
	case FSTypeLocal:
		return "local"
	case FSTypeMemory:
		return "memory"
	default:
		return "unknown"
	}
}

// FS is the filesystem a file collection resolves against.
//
// Leaf collections only read and walk; WriteFS exists for leaves that
// materialize content lazily, such as archive trees expanding entries.
type FS interface {
	fs.FS
	ReadFS
	WalkFS
	WriteFS

	// Type returns the underlying filesystem type.
	Type() FSType
}

// ReadFS defines read-only filesystem operations.
type ReadFS interface {
	// Open opens the named file for reading.
	Open(name string) (fs.File, error)

	// Stat returns file metadata. Errors are *fs.PathError.
	Stat(name string) (fs.FileInfo, error)

	// ReadDir returns the entries of the named directory sorted by filename.
	ReadDir(name string) ([]fs.DirEntry, error)

	// ReadFile reads the named file and returns its contents.
	ReadFile(name string) ([]byte, error)

	// Exists reports whether the named file or directory exists.
	// A false result with a non-nil error means existence could not be
	// determined, not that the path is absent.
	Exists(name string) (bool, error)
}

// WalkFS defines directory tree traversal.
type WalkFS interface {
	// Walk walks the tree rooted at root in lexical order, calling walkFn for
	// each file or directory, including root. Returning fs.SkipDir skips a
	// directory; returning fs.SkipAll ends the walk without error.
	//
	// Walk reads one directory at a time, so an early SkipAll avoids listing
	// the directories that were never reached.
	Walk(root string, walkFn fs.WalkDirFunc) error
}

// WriteFS defines the write operations leaves need to materialize files.
type WriteFS interface {
	// Create creates or truncates the named file for writing.
	Create(name string) (File, error)

	// MkdirAll creates a directory along with any necessary parents.
	MkdirAll(path string, perm fs.FileMode) error

	// WriteFile writes data to the named file, creating it if necessary.
	WriteFile(name string, data []byte, perm fs.FileMode) error
}

// File is an open file handle that also accepts writes.
type File interface {
	fs.File
	io.Writer

	// Name returns the name as provided to Open or Create.
	Name() string
}
