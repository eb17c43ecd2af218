package manifest

import (
	"context"
	"log/slog"
	"path"
	"path/filepath"
	"strings"

	gobilly "github.com/go-git/go-billy/v5"

	"github.com/jmgilman/go/filecollection/collection"
	"github.com/jmgilman/go/filecollection/errors"
	"github.com/jmgilman/go/filecollection/filetree"
	"github.com/jmgilman/go/filecollection/fs/core"
	"github.com/jmgilman/go/filecollection/gitfiles"
)

// Filesystem is what the collections built from a manifest resolve against.
// Archives are expanded into it.
type Filesystem interface {
	core.ReadFS
	core.WalkFS
	core.WriteFS
}

// Option configures a Loader.
type Option func(*Loader)

// WithLogger sets the logger handed to every collection the loader builds.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithBaseDir resolves relative paths in manifests against dir instead of
// the manifest's own directory.
func WithBaseDir(dir string) Option {
	return func(l *Loader) {
		l.baseDir = dir
	}
}

// Loader reads manifests from a filesystem and builds collections from them.
type Loader struct {
	fs      Filesystem
	baseDir string
	logger  *slog.Logger
}

// NewLoader creates a loader reading from and resolving against fsys.
func NewLoader(fsys Filesystem, opts ...Option) *Loader {
	l := &Loader{
		fs:     fsys,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load reads the manifest at manifestPath and builds its collection. The
// format is picked from the file extension.
//
// Returns CodeManifestLoadFailed when the file cannot be read or parsed.
// Returns CodeManifestDecodeFailed when it is not a valid expression.
func (l *Loader) Load(ctx context.Context, manifestPath string) (collection.Node, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.WrapWithContext(err, errors.CodeManifestLoadFailed, "context cancelled", map[string]any{
			"path": manifestPath,
		})
	}

	format, err := FormatFromPath(manifestPath)
	if err != nil {
		return nil, err
	}

	data, err := l.fs.ReadFile(manifestPath)
	if err != nil {
		return nil, errors.WrapWithContext(err, errors.CodeManifestLoadFailed, "failed to read manifest", map[string]any{
			"path": manifestPath,
		})
	}

	spec, err := Decode(ctx, data, format)
	if err != nil {
		return nil, errors.WithContext(err, "path", manifestPath)
	}

	base := l.baseDir
	if base == "" {
		base = path.Dir(manifestPath)
	}
	l.logger.DebugContext(ctx, "loaded manifest", "path", manifestPath, "format", string(format), "base", base)

	return l.build(spec, base)
}

// Build builds the collection described by spec. Relative paths are
// resolved against the loader's base directory.
func (l *Loader) Build(ctx context.Context, spec *Spec) (collection.Node, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, errors.CodeManifestDecodeFailed, "context cancelled")
	}
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	base := l.baseDir
	if base == "" {
		base = "."
	}
	return l.build(spec, base)
}

func (l *Loader) build(spec *Spec, base string) (collection.Node, error) {
	resolve := func(p string) string {
		if path.IsAbs(p) {
			return path.Clean(p)
		}
		return path.Join(base, p)
	}
	resolveAll := func(paths []string) []string {
		out := make([]string, len(paths))
		for i, p := range paths {
			out[i] = resolve(p)
		}
		return out
	}

	switch {
	case spec.Union != nil:
		children := make([]collection.Node, 0, len(spec.Union))
		for i := range spec.Union {
			child, err := l.build(&spec.Union[i], base)
			if err != nil {
				return nil, err
			}
			children = append(children, child)
		}
		return collection.Union(children, collection.WithParallelism(spec.Parallelism)), nil

	case spec.Filter != nil:
		source, err := l.build(&spec.Filter.Source, base)
		if err != nil {
			return nil, err
		}
		patterns, err := filetree.NewPatterns(spec.Filter.Include, spec.Filter.Exclude)
		if err != nil {
			return nil, err
		}
		return collection.Filter(source, func(file collection.File) bool {
			rel, ok := relativeTo(base, string(file))
			return ok && patterns.Selects(rel)
		}), nil

	case spec.File != "":
		return filetree.SingleFile(l.fs, resolve(spec.File)), nil

	case spec.Files != nil:
		return filetree.FileList(l.fs, resolveAll(spec.Files), filetree.WithLogger(l.logger)), nil

	case spec.Tree != nil:
		tree, err := filetree.DirectoryTree(l.fs, resolve(spec.Tree.Root),
			filetree.WithLogger(l.logger),
			filetree.WithInclude(spec.Tree.Include...),
			filetree.WithExclude(spec.Tree.Exclude...),
		)
		if err != nil {
			return nil, err
		}
		return tree, nil

	case spec.Archive != nil:
		opts := []filetree.Option{
			filetree.WithLogger(l.logger),
			filetree.WithInclude(spec.Archive.Include...),
			filetree.WithExclude(spec.Archive.Exclude...),
		}
		if spec.Archive.MaxEntries > 0 {
			opts = append(opts, filetree.WithMaxEntries(spec.Archive.MaxEntries))
		}
		if spec.Archive.MaxEntrySize > 0 {
			opts = append(opts, filetree.WithMaxEntrySize(spec.Archive.MaxEntrySize))
		}
		archive, err := filetree.ArchiveTree(l.fs, resolve(spec.Archive.Path), resolve(spec.Archive.ExpandDir), opts...)
		if err != nil {
			return nil, err
		}
		return archive, nil

	case spec.Generated != nil:
		return filetree.Generated(l.fs, resolveAll(spec.Generated), filetree.WithLogger(l.logger)), nil

	case spec.Git != nil:
		opts := []gitfiles.Option{
			gitfiles.WithLogger(l.logger),
			gitfiles.WithInclude(spec.Git.Include...),
			gitfiles.WithExclude(spec.Git.Exclude...),
		}
		if u, ok := l.fs.(interface{ Unwrap() gobilly.Filesystem }); ok {
			opts = append(opts, gitfiles.WithFilesystem(u.Unwrap()))
		}
		tracked, err := gitfiles.Tracked(resolve(spec.Git.Path), opts...)
		if err != nil {
			return nil, err
		}
		return tracked, nil
	}

	return nil, errors.New(errors.CodeManifestDecodeFailed, "expression sets no kind")
}

// relativeTo returns file as a slash path relative to base. Files outside
// base have no relative form.
func relativeTo(base, file string) (string, bool) {
	rel, err := filepath.Rel(filepath.FromSlash(base), filepath.FromSlash(file))
	if err != nil {
		return "", false
	}
	rel = filepath.ToSlash(rel)
	if rel == ".." || strings.HasPrefix(rel, "../") {
		return "", false
	}
	return rel, true
}
