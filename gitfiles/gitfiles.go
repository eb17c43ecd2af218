// Package gitfiles provides a leaf collection of the files tracked by a git
// repository.
//
// The collection is read from the repository's index, so it includes staged
// files that were never committed and excludes untracked files even when
// they sit inside the worktree. The repository is opened each time the
// collection is resolved and never during construction.
//
// Example:
//
//	tracked, err := gitfiles.Tracked(repoPath, gitfiles.WithInclude("**/*.go"))
//	if err != nil {
//	    return err
//	}
//	files, err := collection.Files(ctx, tracked)
package gitfiles

import (
	"context"
	"log/slog"
	"path"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/cache"
	"github.com/go-git/go-git/v5/plumbing/filemode"
	"github.com/go-git/go-git/v5/plumbing/format/index"
	"github.com/go-git/go-git/v5/storage/filesystem"

	"github.com/jmgilman/go/filecollection/collection"
	"github.com/jmgilman/go/filecollection/errors"
	"github.com/jmgilman/go/filecollection/filetree"
	"github.com/jmgilman/go/filecollection/watchpoint"
)

// TrackedVisitor is the capability for receiving Index leaves.
type TrackedVisitor interface {
	VisitTracked(leaf *Index)
}

// Option configures a tracked-files collection.
type Option func(*options)

type options struct {
	fs      billy.Filesystem
	logger  *slog.Logger
	include []string
	exclude []string
}

// WithFilesystem resolves the repository path inside fs instead of the local
// disk. This is mainly useful for tests with memfs.
func WithFilesystem(fs billy.Filesystem) Option {
	return func(o *options) {
		o.fs = fs
	}
}

// WithLogger sets the logger used to report resolution progress.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithInclude restricts the collection to tracked paths matching any of
// patterns.
func WithInclude(patterns ...string) Option {
	return func(o *options) {
		o.include = append(o.include, patterns...)
	}
}

// WithExclude drops tracked paths matching any of patterns.
func WithExclude(patterns ...string) Option {
	return func(o *options) {
		o.exclude = append(o.exclude, patterns...)
	}
}

// Index is the set of files recorded in a repository's git index that are
// present in its worktree.
type Index struct {
	path     string
	fs       billy.Filesystem
	patterns *filetree.Patterns
	logger   *slog.Logger
}

// Tracked returns the files tracked by the repository whose worktree is at
// repoPath.
func Tracked(repoPath string, opts ...Option) (*Index, error) {
	if repoPath == "" {
		return nil, errors.New(errors.CodeInvalidInput, "repository path cannot be empty")
	}
	o := options{logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(&o)
	}
	patterns, err := filetree.NewPatterns(o.include, o.exclude)
	if err != nil {
		return nil, err
	}
	return &Index{
		path:     watchpoint.Clean(repoPath),
		fs:       o.fs,
		patterns: patterns,
		logger:   o.logger,
	}, nil
}

// Path returns the repository's worktree path.
func (i *Index) Path() string {
	return i.path
}

// String returns the repository's worktree path.
func (i *Index) String() string {
	return i.path
}

// RegisterWatchPoints registers the whole worktree, which also covers the
// index file under .git.
func (i *Index) RegisterWatchPoints(builder watchpoint.Builder) {
	builder.AddDirectory(i.path)
}

// VisitLeafCollections reports i through VisitTracked when supported.
func (i *Index) VisitLeafCollections(visitor collection.LeafVisitor) {
	if v, ok := visitor.(TrackedVisitor); ok {
		v.VisitTracked(i)
		return
	}
	visitor.VisitCollection(i)
}

// VisitContents visits the tracked files in index order, which is sorted by
// path. Submodules are skipped.
func (i *Index) VisitContents(ctx context.Context, visitor collection.Visitor) (bool, error) {
	i.logger.DebugContext(ctx, "resolving tracked files", "repository", i.path)

	worktree, entries, err := i.open()
	if err != nil {
		return false, err
	}

	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return false, err
		}
		if entry.Mode == filemode.Submodule || !i.patterns.Selects(entry.Name) {
			continue
		}
		info, err := worktree.Lstat(entry.Name)
		if err != nil {
			// tracked but deleted from the worktree
			continue
		}
		if info.IsDir() {
			continue
		}
		more, err := visitor(collection.File(path.Join(i.path, entry.Name)))
		if err != nil || !more {
			return false, err
		}
	}
	return true, nil
}

// open opens the repository and reads its index.
func (i *Index) open() (billy.Filesystem, []*index.Entry, error) {
	worktree, err := i.worktree()
	if err != nil {
		return nil, nil, i.wrap(err, "failed to scope filesystem to repository")
	}

	dotGit, err := worktree.Chroot(".git")
	if err != nil {
		return nil, nil, i.wrap(err, "failed to scope filesystem to .git")
	}
	storage := filesystem.NewStorage(dotGit, cache.NewObjectLRUDefault())

	repo, err := gogit.Open(storage, worktree)
	if err != nil {
		return nil, nil, i.wrap(err, "failed to open repository")
	}

	idx, err := repo.Storer.Index()
	if err != nil {
		return nil, nil, i.wrap(err, "failed to read index")
	}
	return worktree, idx.Entries, nil
}

func (i *Index) worktree() (billy.Filesystem, error) {
	if i.fs == nil {
		return osfs.New(i.path), nil
	}
	return i.fs.Chroot(i.path)
}

// wrap classifies go-git failures, keeping the cause in the chain.
func (i *Index) wrap(err error, message string) error {
	code := errors.CodeRepositoryFailed
	if errors.Is(err, gogit.ErrRepositoryNotExists) {
		code = errors.CodeNotFound
	}
	return errors.WrapWithContext(err, code, message, map[string]any{
		"repository": i.path,
	})
}

var _ collection.Node = (*Index)(nil)
