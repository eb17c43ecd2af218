package filetree

import (
	"context"
	"io/fs"
	"log/slog"
	"slices"

	"github.com/jmgilman/go/filecollection/collection"
	"github.com/jmgilman/go/filecollection/errors"
	"github.com/jmgilman/go/filecollection/fs/core"
	"github.com/jmgilman/go/filecollection/watchpoint"
)

// SingleFileVisitor is the capability for receiving Single leaves.
type SingleFileVisitor interface {
	VisitSingleFile(leaf *Single)
}

// FileListVisitor is the capability for receiving List leaves.
type FileListVisitor interface {
	VisitFileList(leaf *List)
}

// Single is a collection of at most one file.
type Single struct {
	fsys core.ReadFS
	path string
}

// SingleFile returns a collection holding path if it exists as a regular file
// when resolved, and nothing otherwise.
func SingleFile(fsys core.ReadFS, path string) *Single {
	return &Single{fsys: fsys, path: watchpoint.Clean(path)}
}

// Path returns the file's path.
func (s *Single) Path() string {
	return s.path
}

// String returns the file's path.
func (s *Single) String() string {
	return s.path
}

// RegisterWatchPoints registers the file.
func (s *Single) RegisterWatchPoints(builder watchpoint.Builder) {
	builder.AddFile(s.path)
}

// VisitLeafCollections reports s through VisitSingleFile when supported.
func (s *Single) VisitLeafCollections(visitor collection.LeafVisitor) {
	if v, ok := visitor.(SingleFileVisitor); ok {
		v.VisitSingleFile(s)
		return
	}
	visitor.VisitCollection(s)
}

// VisitContents visits the file if it exists.
func (s *Single) VisitContents(ctx context.Context, visitor collection.Visitor) (bool, error) {
	return visitFile(ctx, s.fsys, s.path, visitor)
}

// List is an explicit, ordered list of files.
type List struct {
	fsys   core.ReadFS
	paths  []string
	logger *slog.Logger
}

// FileList returns a collection of the given paths, in order. Paths that do
// not exist or are directories when resolved are skipped.
func FileList(fsys core.ReadFS, paths []string, opts ...Option) *List {
	cfg := newConfig(opts)
	l := &List{fsys: fsys, logger: cfg.logger}
	for _, p := range paths {
		if p != "" {
			l.paths = append(l.paths, watchpoint.Clean(p))
		}
	}
	return l
}

// Paths returns the declared paths.
func (l *List) Paths() []string {
	return slices.Clone(l.paths)
}

// RegisterWatchPoints registers each declared file.
func (l *List) RegisterWatchPoints(builder watchpoint.Builder) {
	for _, p := range l.paths {
		builder.AddFile(p)
	}
}

// VisitLeafCollections reports l through VisitFileList when supported.
func (l *List) VisitLeafCollections(visitor collection.LeafVisitor) {
	if v, ok := visitor.(FileListVisitor); ok {
		v.VisitFileList(l)
		return
	}
	visitor.VisitCollection(l)
}

// VisitContents visits the existing files in declared order.
func (l *List) VisitContents(ctx context.Context, visitor collection.Visitor) (bool, error) {
	l.logger.DebugContext(ctx, "resolving file list", "files", len(l.paths))
	for _, p := range l.paths {
		more, err := visitFile(ctx, l.fsys, p, visitor)
		if err != nil || !more {
			return false, err
		}
	}
	return true, nil
}

// visitFile calls visitor with path if it names an existing regular file.
func visitFile(ctx context.Context, fsys core.ReadFS, path string, visitor collection.Visitor) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	info, err := fsys.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return true, nil
		}
		return false, errors.WrapWithContext(err, errors.CodeResolveFailed, "failed to stat file", map[string]any{
			"path": path,
		})
	}
	if info.IsDir() {
		return true, nil
	}
	return visitor(collection.File(path))
}

var (
	_ collection.Node = (*Single)(nil)
	_ collection.Node = (*List)(nil)
)
