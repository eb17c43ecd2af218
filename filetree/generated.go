package filetree

import (
	"context"
	"io/fs"
	"log/slog"
	"slices"

	"github.com/jmgilman/go/filecollection/collection"
	"github.com/jmgilman/go/filecollection/errors"
	"github.com/jmgilman/go/filecollection/watchpoint"
)

// Outputs is a collection of task outputs. An output may be a file or a
// directory and typically does not exist until the producing task has run.
type Outputs struct {
	fsys   fsReader
	paths  []string
	logger *slog.Logger
	all    *Patterns
}

// Generated returns a collection of the given output paths.
//
// Outputs have no dedicated visitor capability; leaf visitors receive them
// through VisitCollection.
func Generated(fsys fsReader, paths []string, opts ...Option) *Outputs {
	cfg := newConfig(opts)
	o := &Outputs{fsys: fsys, logger: cfg.logger, all: &Patterns{}}
	for _, p := range paths {
		if p != "" {
			o.paths = append(o.paths, watchpoint.Clean(p))
		}
	}
	return o
}

// Paths returns the declared output paths.
func (o *Outputs) Paths() []string {
	return slices.Clone(o.paths)
}

// RegisterWatchPoints registers each output as a path that may be missing.
func (o *Outputs) RegisterWatchPoints(builder watchpoint.Builder) {
	for _, p := range o.paths {
		builder.AddMissing(p)
	}
}

// VisitLeafCollections reports o through the generic method.
func (o *Outputs) VisitLeafCollections(visitor collection.LeafVisitor) {
	visitor.VisitCollection(o)
}

// VisitContents visits the outputs that exist now. A directory output is
// expanded to every regular file below it.
func (o *Outputs) VisitContents(ctx context.Context, visitor collection.Visitor) (bool, error) {
	o.logger.DebugContext(ctx, "resolving generated outputs", "outputs", len(o.paths))
	for _, p := range o.paths {
		if err := ctx.Err(); err != nil {
			return false, err
		}
		info, err := o.fsys.Stat(p)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return false, errors.WrapWithContext(err, errors.CodeResolveFailed, "failed to stat output", map[string]any{
				"path": p,
			})
		}

		var more bool
		if info.IsDir() {
			more, err = walkFiles(ctx, o.fsys, p, o.all, visitor)
		} else {
			more, err = visitor(collection.File(p))
		}
		if err != nil || !more {
			return false, err
		}
	}
	return true, nil
}

var _ collection.Node = (*Outputs)(nil)
