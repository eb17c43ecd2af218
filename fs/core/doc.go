// Package core defines the filesystem contract that file collection leaves
// resolve against.
//
// The interfaces are deliberately small: leaves open, stat, list and walk
// paths, and a few (archive trees, object mirrors) write the files they
// materialize. Everything is expressed in terms of io/fs so any FS can be
// handed to standard library helpers as well.
//
//	func count(fsys core.FS, root string) (n int, err error) {
//	    err = fsys.Walk(root, func(path string, d fs.DirEntry, err error) error {
//	        if err == nil && !d.IsDir() {
//	            n++
//	        }
//	        return err
//	    })
//	    return n, err
//	}
package core
