package collection

import (
	"context"

	"github.com/jmgilman/go/filecollection/watchpoint"
)

// File identifies a single file-system path. The core never inspects it.
type File string

// String returns the path.
func (f File) String() string {
	return string(f)
}

// Node is a set of files, resolved or not.
//
// Every collection kind, leaf or composite, implements the three traversals
// below, and they must agree with each other: any file VisitContents can
// produce lies in a region RegisterWatchPoints describes, and the leaves
// VisitLeafCollections reports are exactly the nodes whose own contents make
// up this node's contents.
//
// Nodes are immutable once built. A traversal never retains the builder or
// visitor it was handed.
type Node interface {
	// RegisterWatchPoints adds a conservative description of the file-system
	// regions that could affect this collection. It must not resolve any
	// files. Registering too much is acceptable; omitting a region is not.
	RegisterWatchPoints(builder watchpoint.Builder)

	// VisitLeafCollections reports each indivisible leaf once per structural
	// occurrence. Composites report their children, never themselves. A leaf
	// reports itself through the most specific capability the visitor
	// implements and falls back to LeafVisitor.VisitCollection. It must not
	// resolve any files.
	VisitLeafCollections(visitor LeafVisitor)

	// VisitContents calls visitor once per resolved file, depth-first in
	// declared child order. It stops as soon as visitor returns false and
	// reports (false, nil). It returns (true, nil) only when every file was
	// visited. Resolution and visitor errors are returned unmodified and end
	// the traversal.
	VisitContents(ctx context.Context, visitor Visitor) (bool, error)
}

// Visitor is called once per resolved file. Returning false stops the
// traversal; returning an error aborts it with that error.
type Visitor func(file File) (bool, error)

// LeafVisitor receives the leaves of a collection hierarchy.
//
// VisitCollection is the generic fallback. Leaf kinds declare additional,
// more specific capabilities as separate interfaces; a visitor opts into a
// kind by also implementing that kind's interface:
//
//	type treesOnly struct{ roots []string }
//
//	func (v *treesOnly) VisitCollection(collection.Node) {}
//	func (v *treesOnly) VisitDirectoryTree(t *filetree.Tree) {
//	    v.roots = append(v.roots, t.Root())
//	}
type LeafVisitor interface {
	VisitCollection(leaf Node)
}

// LeafVisitorFunc adapts a function to the generic LeafVisitor. It declares
// no specific capabilities, so every leaf reaches it through VisitCollection.
type LeafVisitorFunc func(leaf Node)

// VisitCollection calls f(leaf).
func (f LeafVisitorFunc) VisitCollection(leaf Node) {
	f(leaf)
}
