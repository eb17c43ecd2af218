package collection

import (
	"context"

	"github.com/jmgilman/go/filecollection/watchpoint"
)

// Files resolves node eagerly and returns each distinct file once, in first
// visit order.
func Files(ctx context.Context, node Node) ([]File, error) {
	var files []File
	seen := make(map[File]struct{})
	_, err := node.VisitContents(ctx, func(file File) (bool, error) {
		if _, ok := seen[file]; !ok {
			seen[file] = struct{}{}
			files = append(files, file)
		}
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

// Contains reports whether node resolves to file. Resolution stops at the
// first match.
func Contains(ctx context.Context, node Node, file File) (bool, error) {
	complete, err := node.VisitContents(ctx, func(f File) (bool, error) {
		return f != file, nil
	})
	if err != nil {
		return false, err
	}
	return !complete, nil
}

// IsEmpty reports whether node resolves to no files. Resolution stops at the
// first file.
func IsEmpty(ctx context.Context, node Node) (bool, error) {
	return node.VisitContents(ctx, func(File) (bool, error) {
		return false, nil
	})
}

// Leaves returns node's leaves in decomposition order, one entry per
// structural occurrence.
func Leaves(node Node) []Node {
	var leaves []Node
	node.VisitLeafCollections(LeafVisitorFunc(func(leaf Node) {
		leaves = append(leaves, leaf)
	}))
	return leaves
}

// WatchPoints collects node's watch points into a new Subset.
func WatchPoints(node Node) *watchpoint.Subset {
	subset := watchpoint.NewSubset()
	node.RegisterWatchPoints(subset)
	return subset
}
