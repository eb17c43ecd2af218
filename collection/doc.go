// Package collection defines the traversal contract shared by every file
// collection, along with the composition operators built on it.
//
// A collection is a Node: a possibly unresolved set of files. Nodes compose
// freely (Union, Filter, Flatten) and every node, leaf or composite, can be
// traversed three ways:
//
//   - RegisterWatchPoints describes which file-system regions could change the
//     collection, for a watch subsystem. Nothing is resolved.
//   - VisitLeafCollections decomposes the collection into the indivisible
//     leaves that produce its files, for dependency and caching analysis.
//     Nothing is resolved.
//   - VisitContents resolves and visits the files, leaf by leaf, and can be
//     stopped early by the visitor.
//
// # Leaf capabilities
//
// The set of leaf kinds is open. Each kind declares a visitor interface with a
// kind-specific method (filetree.DirectoryTreeVisitor, for example) and
// checks for it with a type assertion when it is visited, falling back to
// LeafVisitor.VisitCollection. Composites never know which kinds exist; see
// LeafVisitor for an example visitor that only cares about directory trees.
//
// # Early termination
//
//	found, err := collection.Contains(ctx, node, "src/main.go")
//
// Contains returns as soon as the file is seen; leaves after it are never
// resolved, and the leaf that produced it abandons its own enumeration.
//
// # Errors
//
// The package defines no errors of its own. A leaf's resolution error or a
// visitor's error is returned unmodified from VisitContents, and composites
// do not visit any further children after one.
package collection
