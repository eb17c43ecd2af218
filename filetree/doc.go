// Package filetree provides the concrete leaf collections that resolve
// against a core.FS.
//
// Each constructor returns an immutable leaf implementing collection.Node:
//
//   - SingleFile: one file that may or may not exist.
//   - FileList: an explicit, ordered list of files.
//   - DirectoryTree: the files below a root, narrowed by include and exclude
//     glob patterns.
//   - ArchiveTree: the entries of a tar or tar.gz archive, expanded one at a
//     time into a directory as the traversal reaches them.
//   - Generated: task outputs that may not exist yet.
//
// Leaves never touch the file system until VisitContents is called, and they
// resolve incrementally: a visitor that stops early prevents the remaining
// directories from being listed and the remaining archive entries from being
// read.
//
// Every kind except Generated declares a visitor capability
// (SingleFileVisitor, FileListVisitor, DirectoryTreeVisitor,
// ArchiveTreeVisitor). A collection.LeafVisitor that also implements one of
// them receives leaves of that kind through the specific method.
//
// Example:
//
//	fsys := billy.NewLocal(billy.WithRoot(workspace))
//	sources, err := filetree.DirectoryTree(fsys, "src",
//	    filetree.WithInclude("**/*.go"),
//	    filetree.WithExclude("**/*_test.go"),
//	)
//	if err != nil {
//	    return err
//	}
//	inputs := collection.Of(sources, filetree.SingleFile(fsys, "go.mod"))
package filetree
