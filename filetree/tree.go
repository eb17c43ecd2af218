package filetree

import (
	"context"
	"io/fs"
	"log/slog"
	"path/filepath"

	"github.com/jmgilman/go/filecollection/collection"
	"github.com/jmgilman/go/filecollection/errors"
	"github.com/jmgilman/go/filecollection/fs/core"
	"github.com/jmgilman/go/filecollection/watchpoint"
)

// DirectoryTreeVisitor is the capability for receiving Tree leaves.
type DirectoryTreeVisitor interface {
	VisitDirectoryTree(leaf *Tree)
}

// fsReader is what a tree needs to resolve.
type fsReader interface {
	core.ReadFS
	core.WalkFS
}

// Tree is the set of files below a root directory that match its patterns.
type Tree struct {
	fsys     fsReader
	root     string
	patterns *Patterns
	logger   *slog.Logger
}

// DirectoryTree returns the files below root. WithInclude and WithExclude
// narrow the selection. A root that does not exist resolves to no files.
func DirectoryTree(fsys fsReader, root string, opts ...Option) (*Tree, error) {
	if root == "" {
		return nil, errors.New(errors.CodeInvalidInput, "directory tree root cannot be empty")
	}
	cfg := newConfig(opts)
	patterns, err := NewPatterns(cfg.include, cfg.exclude)
	if err != nil {
		return nil, err
	}
	return &Tree{
		fsys:     fsys,
		root:     watchpoint.Clean(root),
		patterns: patterns,
		logger:   cfg.logger,
	}, nil
}

// Root returns the tree's root directory.
func (t *Tree) Root() string {
	return t.root
}

// Patterns returns the tree's include and exclude patterns.
func (t *Tree) Patterns() *Patterns {
	return t.patterns
}

// String returns the root with its patterns, if any.
func (t *Tree) String() string {
	if t.patterns.IsEmpty() {
		return t.root
	}
	return t.root + " (filtered)"
}

// RegisterWatchPoints registers the whole tree below the root. Patterns are
// not taken into account.
func (t *Tree) RegisterWatchPoints(builder watchpoint.Builder) {
	builder.AddDirectory(t.root)
}

// VisitLeafCollections reports t through VisitDirectoryTree when supported.
func (t *Tree) VisitLeafCollections(visitor collection.LeafVisitor) {
	if v, ok := visitor.(DirectoryTreeVisitor); ok {
		v.VisitDirectoryTree(t)
		return
	}
	visitor.VisitCollection(t)
}

// VisitContents walks the tree in lexical order and visits every matching
// regular file. Directories are listed only as the walk reaches them.
func (t *Tree) VisitContents(ctx context.Context, visitor collection.Visitor) (bool, error) {
	t.logger.DebugContext(ctx, "resolving directory tree", "root", t.root)
	return walkFiles(ctx, t.fsys, t.root, t.patterns, visitor)
}

// walkFiles visits the regular files below root selected by patterns. A
// missing root yields nothing.
func walkFiles(ctx context.Context, fsys fsReader, root string, patterns *Patterns, visitor collection.Visitor) (bool, error) {
	exists, err := fsys.Exists(root)
	if err != nil {
		return false, errors.WrapWithContext(err, errors.CodeResolveFailed, "failed to stat directory", map[string]any{
			"root": root,
		})
	}
	if !exists {
		return true, nil
	}

	var (
		stopped  bool
		abortErr error
	)
	err = fsys.Walk(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			abortErr = errors.WrapWithContext(err, errors.CodeResolveFailed, "failed to walk directory", map[string]any{
				"root": root,
				"path": path,
			})
			return abortErr
		}
		if err := ctx.Err(); err != nil {
			abortErr = err
			return err
		}

		rel, err := relative(root, path)
		if err != nil {
			abortErr = errors.WrapWithContext(err, errors.CodeInternal, "walked outside of root", map[string]any{
				"root": root,
				"path": path,
			})
			return abortErr
		}

		if d.IsDir() {
			if rel != "." && patterns.Excludes(rel) {
				return fs.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() || !patterns.Match(rel) {
			return nil
		}

		more, err := visitor(collection.File(path))
		if err != nil {
			abortErr = err
			return err
		}
		if !more {
			stopped = true
			return fs.SkipAll
		}
		return nil
	})
	if abortErr != nil {
		return false, abortErr
	}
	if err != nil {
		return false, errors.WrapWithContext(err, errors.CodeResolveFailed, "failed to walk directory", map[string]any{
			"root": root,
		})
	}
	return !stopped, nil
}

// relative returns path relative to root in slash form.
func relative(root, path string) (string, error) {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return "", err
	}
	return filepath.ToSlash(rel), nil
}

var _ collection.Node = (*Tree)(nil)
