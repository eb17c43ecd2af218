package filetree

import (
	"archive/tar"
	"bufio"
	"compress/gzip"
	"context"
	"io"
	"io/fs"
	"log/slog"
	"path"
	"strings"

	"github.com/jmgilman/go/filecollection/collection"
	"github.com/jmgilman/go/filecollection/errors"
	"github.com/jmgilman/go/filecollection/fs/core"
	"github.com/jmgilman/go/filecollection/watchpoint"
)

// ArchiveTreeVisitor is the capability for receiving Archive leaves.
type ArchiveTreeVisitor interface {
	VisitArchiveTree(leaf *Archive)
}

// archiveFS is what an archive tree needs to read the archive and expand it.
type archiveFS interface {
	core.ReadFS
	core.WriteFS
}

// Archive is the set of regular-file entries of a tar or tar.gz archive.
//
// Entries are expanded into a directory as the traversal reaches them, so
// the visited files are real paths below that directory.
type Archive struct {
	fsys         archiveFS
	archive      string
	expandDir    string
	patterns     *Patterns
	maxEntries   int
	maxEntrySize int64
	logger       *slog.Logger
}

// ArchiveTree returns the entries of archive, expanded below expandDir.
// Compression is detected from the content. WithInclude and WithExclude
// select entries by their path inside the archive.
func ArchiveTree(fsys archiveFS, archive, expandDir string, opts ...Option) (*Archive, error) {
	if archive == "" {
		return nil, errors.New(errors.CodeInvalidInput, "archive path cannot be empty")
	}
	if expandDir == "" {
		return nil, errors.New(errors.CodeInvalidInput, "expansion directory cannot be empty")
	}
	cfg := newConfig(opts)
	patterns, err := NewPatterns(cfg.include, cfg.exclude)
	if err != nil {
		return nil, err
	}
	return &Archive{
		fsys:         fsys,
		archive:      watchpoint.Clean(archive),
		expandDir:    watchpoint.Clean(expandDir),
		patterns:     patterns,
		maxEntries:   cfg.maxEntries,
		maxEntrySize: cfg.maxEntrySize,
		logger:       cfg.logger,
	}, nil
}

// Path returns the archive's path.
func (a *Archive) Path() string {
	return a.archive
}

// ExpandDir returns the directory entries are expanded into.
func (a *Archive) ExpandDir() string {
	return a.expandDir
}

// String returns the archive's path.
func (a *Archive) String() string {
	return a.archive
}

// RegisterWatchPoints registers the archive itself and the expansion
// directory the visited files live in.
func (a *Archive) RegisterWatchPoints(builder watchpoint.Builder) {
	builder.AddFile(a.archive)
	builder.AddDirectory(a.expandDir)
}

// VisitLeafCollections reports a through VisitArchiveTree when supported.
func (a *Archive) VisitLeafCollections(visitor collection.LeafVisitor) {
	if v, ok := visitor.(ArchiveTreeVisitor); ok {
		v.VisitArchiveTree(a)
		return
	}
	visitor.VisitCollection(a)
}

// VisitContents reads the archive entry by entry. Each selected regular file
// is expanded and then visited; entries after a stop are never read.
func (a *Archive) VisitContents(ctx context.Context, visitor collection.Visitor) (bool, error) {
	a.logger.DebugContext(ctx, "resolving archive tree", "archive", a.archive, "expand_dir", a.expandDir)

	f, err := a.fsys.Open(a.archive)
	if err != nil {
		code := errors.CodeArchiveFailed
		if errors.Is(err, fs.ErrNotExist) {
			code = errors.CodeNotFound
		}
		return false, errors.WrapWithContext(err, code, "failed to open archive", map[string]any{
			"archive": a.archive,
		})
	}
	defer func() { _ = f.Close() }()

	tr, closeReader, err := newTarReader(f)
	if err != nil {
		return false, errors.WrapWithContext(err, errors.CodeArchiveFailed, "failed to read archive", map[string]any{
			"archive": a.archive,
		})
	}
	defer closeReader()

	entries := 0
	for {
		if err := ctx.Err(); err != nil {
			return false, err
		}
		hdr, err := tr.Next()
		if err == io.EOF {
			return true, nil
		}
		if err != nil {
			return false, errors.WrapWithContext(err, errors.CodeArchiveFailed, "failed to read archive entry", map[string]any{
				"archive": a.archive,
			})
		}

		entries++
		if a.maxEntries > 0 && entries > a.maxEntries {
			return false, errors.WithContextMap(
				errors.Newf(errors.CodeArchiveFailed, "archive has more than %d entries", a.maxEntries),
				map[string]any{"archive": a.archive},
			)
		}

		name, err := entryName(hdr.Name)
		if err != nil {
			return false, errors.WrapWithContext(err, errors.CodeArchiveFailed, "unsafe archive entry", map[string]any{
				"archive": a.archive,
				"entry":   hdr.Name,
			})
		}
		if hdr.Typeflag != tar.TypeReg || !a.patterns.Selects(name) {
			continue
		}
		if a.maxEntrySize > 0 && hdr.Size > a.maxEntrySize {
			return false, errors.WithContextMap(
				errors.Newf(errors.CodeArchiveFailed, "archive entry exceeds %d bytes", a.maxEntrySize),
				map[string]any{"archive": a.archive, "entry": hdr.Name, "size": hdr.Size},
			)
		}

		target := path.Join(a.expandDir, name)
		if err := a.expand(tr, target); err != nil {
			return false, errors.WrapWithContext(err, errors.CodeArchiveFailed, "failed to expand archive entry", map[string]any{
				"archive": a.archive,
				"entry":   hdr.Name,
				"target":  target,
			})
		}

		more, err := visitor(collection.File(target))
		if err != nil || !more {
			return false, err
		}
	}
}

func (a *Archive) expand(r io.Reader, target string) error {
	if err := a.fsys.MkdirAll(path.Dir(target), 0o755); err != nil {
		return err
	}
	out, err := a.fsys.Create(target)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, r); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}

// newTarReader returns a tar reader over r, decompressing it first when it
// starts with the gzip magic number.
func newTarReader(r io.Reader) (*tar.Reader, func(), error) {
	br := bufio.NewReader(r)
	magic, err := br.Peek(2)
	if err != nil && err != io.EOF {
		return nil, nil, err
	}
	if len(magic) == 2 && magic[0] == 0x1f && magic[1] == 0x8b {
		gz, err := gzip.NewReader(br)
		if err != nil {
			return nil, nil, err
		}
		return tar.NewReader(gz), func() { _ = gz.Close() }, nil
	}
	return tar.NewReader(br), func() {}, nil
}

// entryName cleans an entry name and rejects names that would escape the
// expansion directory.
func entryName(name string) (string, error) {
	cleaned := path.Clean(strings.ReplaceAll(name, "\\", "/"))
	if path.IsAbs(cleaned) || cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", errors.Newf(errors.CodeArchiveFailed, "entry %q escapes the expansion directory", name)
	}
	return cleaned, nil
}

var _ collection.Node = (*Archive)(nil)
