// Package manifest builds file collections from declarative manifests written
// in CUE or YAML.
//
// A manifest is a single collection expression. Every node sets exactly one
// kind:
//
//	union:      ordered list of child expressions, with optional parallelism
//	filter:     a source expression with include and exclude patterns
//	file:       a single file path
//	files:      a list of file paths
//	tree:       a directory tree with optional patterns
//	archive:    a tar or tar.gz archive and the directory it expands into
//	generated:  build outputs that may not exist yet
//	git:        the files tracked by a repository
//
// Relative paths are resolved against the manifest's directory unless the
// loader was given a base directory. Filter patterns match paths relative to
// that same base.
//
// # YAML
//
//	union:
//	  - tree:
//	      root: src
//	      include: ["**/*.go"]
//	  - file: go.mod
//	  - generated: [build/out]
//	parallelism: 4
//
// # CUE
//
//	union: [
//	    {tree: {root: "src", include: ["**/*.go"]}},
//	    {file: "go.mod"},
//	    {generated: ["build/out"]},
//	]
//	parallelism: 4
//
// CUE manifests must be concrete; definitions and constraints are allowed as
// long as every field the expression uses resolves to a value.
//
// # Usage
//
//	loader := manifest.NewLoader(billy.NewLocal(), manifest.WithLogger(logger))
//	node, err := loader.Load(ctx, "collections/sources.yaml")
//	if err != nil {
//	    return err
//	}
//	files, err := collection.Files(ctx, node)
package manifest
