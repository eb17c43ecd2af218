// Package billy provides a go-billy-backed implementation of core.FS.
//
// The adapter wraps osfs for local paths and memfs for in-memory trees.
// Tests for file collections build their fixtures in memory:
//
//	fsys := billy.NewMemory()
//	_ = fsys.WriteFile("src/main.go", []byte("package main"), 0o644)
//	tree := filetree.DirectoryTree(fsys, "src")
//
// Unwrap exposes the billy.Filesystem for libraries such as go-git.
//
// FS values are safe for concurrent use. File handles are not.
package billy
