package collection

import (
	"context"

	"github.com/jmgilman/go/filecollection/watchpoint"
)

// Spec decides whether a resolved file belongs to a filtered collection.
type Spec func(file File) bool

// Filtered is the subset of a source collection's files accepted by a Spec.
//
// A filtered collection is indivisible: its files cannot be attributed to the
// source's leaves without resolving them, so it reports itself as a single
// generic leaf. Its watch points are the source's, which is a superset of
// what the filter can actually be affected by.
type Filtered struct {
	source Node
	spec   Spec
}

// Filter returns the files of source accepted by spec. A nil spec accepts
// every file.
func Filter(source Node, spec Spec) *Filtered {
	if spec == nil {
		spec = func(File) bool { return true }
	}
	return &Filtered{source: source, spec: spec}
}

// Source returns the unfiltered collection.
func (f *Filtered) Source() Node {
	return f.source
}

// RegisterWatchPoints registers the source's watch points.
func (f *Filtered) RegisterWatchPoints(builder watchpoint.Builder) {
	f.source.RegisterWatchPoints(builder)
}

// VisitLeafCollections reports the filtered collection itself.
func (f *Filtered) VisitLeafCollections(visitor LeafVisitor) {
	visitor.VisitCollection(f)
}

// VisitContents visits the source's files that satisfy the spec. Rejected
// files never reach visitor.
func (f *Filtered) VisitContents(ctx context.Context, visitor Visitor) (bool, error) {
	return f.source.VisitContents(ctx, func(file File) (bool, error) {
		if !f.spec(file) {
			return true, nil
		}
		return visitor(file)
	})
}

type empty struct{}

// Empty returns a collection with no files, no leaves and no watch points.
func Empty() Node {
	return empty{}
}

func (empty) RegisterWatchPoints(watchpoint.Builder) {}
func (empty) VisitLeafCollections(LeafVisitor)       {}
func (empty) VisitContents(context.Context, Visitor) (bool, error) {
	return true, nil
}

// Flatten returns a single-level union of node's leaves, in decomposition
// order. It is purely structural; no files are resolved.
func Flatten(node Node, opts ...UnionOption) *Composite {
	return Union(Leaves(node), opts...)
}
