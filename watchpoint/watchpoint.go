// Package watchpoint describes the regions of a file system whose changes may
// affect a file collection.
//
// Collections describe themselves into a Builder without touching the file
// system. The description is coarse and conservative: a directory point
// covers the whole tree below it, a file point covers one path, and a missing
// point marks a path that is expected to appear later (task outputs, for
// instance). Subset is the standard accumulator; the notify subpackage turns
// a Subset into live fsnotify registrations.
package watchpoint

import (
	"path/filepath"
	"slices"
	"strings"
)

// Builder receives watch points. Collections treat it as write-only.
type Builder interface {
	// AddDirectory registers the whole tree rooted at root.
	AddDirectory(root string)

	// AddFile registers a single file.
	AddFile(path string)

	// AddMissing registers a path that may not exist yet.
	AddMissing(path string)
}

// Kind distinguishes the three kinds of watch point.
type Kind int

const (
	// KindDirectory covers a directory and everything below it.
	KindDirectory Kind = iota
	// KindFile covers exactly one file.
	KindFile
	// KindMissing covers a path expected to be created later.
	KindMissing
)

// String returns a string representation of the Kind.
func (k Kind) String() string {
	switch k {
	case KindDirectory:
		return "directory"
	case KindFile:
		return "file"
	case KindMissing:
		return "missing"
	default:
		return "unknown"
	}
}

// Point is one registered region.
type Point struct {
	Kind Kind
	Path string
}

// Subset is an ordered, de-duplicating Builder.
//
// Registering the same point twice has no further effect, so a Subset is
// idempotent under repeated registration of an unchanged collection.
// The zero value is ready to use. A Subset is not safe for concurrent use.
type Subset struct {
	points []Point
	seen   map[Point]struct{}
}

// NewSubset returns an empty Subset.
func NewSubset() *Subset {
	return &Subset{}
}

// AddDirectory registers the tree rooted at root.
func (s *Subset) AddDirectory(root string) { s.add(KindDirectory, root) }

// AddFile registers a single file.
func (s *Subset) AddFile(path string) { s.add(KindFile, path) }

// AddMissing registers a path that may not exist yet.
func (s *Subset) AddMissing(path string) { s.add(KindMissing, path) }

func (s *Subset) add(kind Kind, path string) {
	if path == "" {
		return
	}
	p := Point{Kind: kind, Path: Clean(path)}
	if s.seen == nil {
		s.seen = make(map[Point]struct{})
	}
	if _, ok := s.seen[p]; ok {
		return
	}
	s.seen[p] = struct{}{}
	s.points = append(s.points, p)
}

// Points returns every registered point in registration order.
func (s *Subset) Points() []Point {
	return slices.Clone(s.points)
}

// Directories returns the registered directory roots.
func (s *Subset) Directories() []string { return s.paths(KindDirectory) }

// Files returns the registered files.
func (s *Subset) Files() []string { return s.paths(KindFile) }

// Missing returns the registered missing paths.
func (s *Subset) Missing() []string { return s.paths(KindMissing) }

func (s *Subset) paths(kind Kind) []string {
	var out []string
	for _, p := range s.points {
		if p.Kind == kind {
			out = append(out, p.Path)
		}
	}
	return out
}

// Len returns the number of distinct points.
func (s *Subset) Len() int {
	return len(s.points)
}

// IsEmpty reports whether nothing has been registered.
func (s *Subset) IsEmpty() bool {
	return len(s.points) == 0
}

// Contains reports whether a change at path is covered: path equals a
// registered file, or lies under a registered directory or missing path. A
// missing path may later appear as a whole tree, so it covers its subtree.
func (s *Subset) Contains(path string) bool {
	path = Clean(path)
	for _, p := range s.points {
		switch p.Kind {
		case KindFile:
			if path == p.Path {
				return true
			}
		default:
			if Within(path, p.Path) {
				return true
			}
		}
	}
	return false
}

// Roots returns the smallest set of points covering the same regions.
// Points that lie under another registered directory are dropped.
func (s *Subset) Roots() []Point {
	var roots []Point
	for _, p := range s.points {
		covered := false
		for _, d := range s.points {
			if d.Kind != KindDirectory || d == p {
				continue
			}
			if Within(p.Path, d.Path) {
				covered = true
				break
			}
		}
		if !covered {
			roots = append(roots, p)
		}
	}
	return roots
}

// Merge adds every point of other to s.
func (s *Subset) Merge(other *Subset) {
	if other == nil {
		return
	}
	for _, p := range other.points {
		s.add(p.Kind, p.Path)
	}
}

// Equal reports whether s and other hold the same points, in any order.
func (s *Subset) Equal(other *Subset) bool {
	if other == nil {
		return s.IsEmpty()
	}
	if len(s.points) != len(other.points) {
		return false
	}
	for _, p := range other.points {
		if _, ok := s.seen[p]; !ok {
			return false
		}
	}
	return true
}

// Clean normalizes a path the way registered points are stored.
func Clean(path string) string {
	return filepath.ToSlash(filepath.Clean(path))
}

// Within reports whether path equals dir or lies below it. Both arguments
// must already be cleaned.
func Within(path, dir string) bool {
	if path == dir {
		return true
	}
	switch dir {
	case ".":
		return !strings.HasPrefix(path, "/") && path != ".." && !strings.HasPrefix(path, "../")
	case "/":
		return strings.HasPrefix(path, "/")
	}
	return strings.HasPrefix(path, dir+"/")
}

var _ Builder = (*Subset)(nil)
