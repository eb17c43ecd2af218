// Package collectiontest provides a conformance suite and test doubles for
// collection.Node implementations.
//
// Leaf and composite packages run the suite against a representative
// instance to verify that the three traversals honor the shared contract:
//
//	func TestTree_Conformance(t *testing.T) {
//	    collectiontest.TestNode(t, func() collection.Node {
//	        return filetree.DirectoryTree(fixture(t), "src")
//	    })
//	}
//
// The suite resolves the node several times, so newNode may return the same
// instance or a fresh one over an unchanged file system.
package collectiontest

import (
	"context"
	"slices"
	"testing"

	"github.com/jmgilman/go/filecollection/collection"
)

// Config adapts the suite to a node's characteristics.
type Config struct {
	// Files, when non-nil, is the expected set of resolved files.
	Files []collection.File

	// Unordered indicates contents may arrive in a different order on each
	// traversal, as with a parallel union.
	Unordered bool

	// SkipCoverage disables the check that every resolved file lies inside a
	// registered watch point. Use it only for nodes whose files live in a
	// different namespace from their watch points.
	SkipCoverage bool
}

// TestNode runs every conformance test with the default configuration.
func TestNode(t *testing.T, newNode func() collection.Node) {
	TestNodeWithConfig(t, newNode, Config{})
}

// TestNodeWithConfig runs every conformance test against nodes from newNode.
func TestNodeWithConfig(t *testing.T, newNode func() collection.Node, config Config) {
	t.Run("StructuralIdempotence", func(t *testing.T) {
		testStructuralIdempotence(t, newNode())
	})
	t.Run("ContentsComplete", func(t *testing.T) {
		testContentsComplete(t, newNode(), config)
	})
	t.Run("StopAtEveryPosition", func(t *testing.T) {
		testStopAtEveryPosition(t, newNode(), config)
	})
	t.Run("LeavesMatchContents", func(t *testing.T) {
		testLeavesMatchContents(t, newNode())
	})
	t.Run("WatchPointsCoverContents", func(t *testing.T) {
		if config.SkipCoverage {
			t.Skip("coverage check disabled by configuration")
		}
		testWatchPointsCoverContents(t, newNode())
	})
}

// resolve visits node to completion and returns the files in visit order.
func resolve(t *testing.T, node collection.Node) []collection.File {
	t.Helper()
	visitor, seen := Collect()
	complete, err := node.VisitContents(context.Background(), visitor)
	if err != nil {
		t.Fatalf("VisitContents: got error %v, want nil", err)
	}
	if !complete {
		t.Fatalf("VisitContents with an always-true visitor returned false")
	}
	return *seen
}

func asSet(files []collection.File) map[collection.File]struct{} {
	set := make(map[collection.File]struct{}, len(files))
	for _, f := range files {
		set[f] = struct{}{}
	}
	return set
}

func sameSet(a, b []collection.File) bool {
	sa, sb := asSet(a), asSet(b)
	if len(sa) != len(sb) {
		return false
	}
	for f := range sa {
		if _, ok := sb[f]; !ok {
			return false
		}
	}
	return true
}

// testStructuralIdempotence verifies repeated watch-point registration and
// leaf decomposition issue identical call sequences.
func testStructuralIdempotence(t *testing.T, node collection.Node) {
	first, second := &RecordingBuilder{}, &RecordingBuilder{}
	node.RegisterWatchPoints(first)
	node.RegisterWatchPoints(second)
	if !slices.Equal(first.Calls, second.Calls) {
		t.Errorf("RegisterWatchPoints: first %v, second %v", first.Calls, second.Calls)
	}

	v1, v2 := &RecordingLeafVisitor{}, &RecordingLeafVisitor{}
	node.VisitLeafCollections(v1)
	node.VisitLeafCollections(v2)
	if len(v1.Leaves) != len(v2.Leaves) {
		t.Fatalf("VisitLeafCollections: first reported %d leaves, second %d", len(v1.Leaves), len(v2.Leaves))
	}
	for i := range v1.Leaves {
		if v1.Leaves[i] != v2.Leaves[i] {
			t.Errorf("VisitLeafCollections: leaf %d differs between traversals", i)
		}
	}
}

// testContentsComplete verifies a full traversal reports completion and,
// when configured, resolves the expected files.
func testContentsComplete(t *testing.T, node collection.Node, config Config) {
	first := resolve(t, node)
	second := resolve(t, node)

	if config.Unordered {
		if !sameSet(first, second) {
			t.Errorf("VisitContents: traversals disagree: %v vs %v", first, second)
		}
	} else if !slices.Equal(first, second) {
		t.Errorf("VisitContents: traversals disagree: %v vs %v", first, second)
	}

	if config.Files != nil && !sameSet(first, config.Files) {
		t.Errorf("VisitContents: got files %v, want %v", first, config.Files)
	}
}

// testStopAtEveryPosition stops the traversal after each possible file and
// verifies nothing is delivered after the stop.
func testStopAtEveryPosition(t *testing.T, node collection.Node, config Config) {
	full := resolve(t, node)

	for n := 1; n <= len(full); n++ {
		visitor, seen := StopAfter(n)
		complete, err := node.VisitContents(context.Background(), visitor)
		if err != nil {
			t.Fatalf("VisitContents(stop after %d): got error %v", n, err)
		}
		if complete {
			t.Errorf("VisitContents(stop after %d): got true, want false", n)
		}
		if len(*seen) != n {
			t.Errorf("VisitContents(stop after %d): visitor called %d times", n, len(*seen))
		}
		if !config.Unordered && !slices.Equal(*seen, full[:n]) {
			t.Errorf("VisitContents(stop after %d): got %v, want prefix %v", n, *seen, full[:n])
		}
	}
}

// testLeavesMatchContents verifies the leaves together resolve exactly the
// node's files.
func testLeavesMatchContents(t *testing.T, node collection.Node) {
	want := resolve(t, node)

	var got []collection.File
	for _, leaf := range collection.Leaves(node) {
		got = append(got, resolve(t, leaf)...)
	}
	if !sameSet(got, want) {
		t.Errorf("leaf contents %v do not match node contents %v", got, want)
	}
}

// testWatchPointsCoverContents verifies each resolved file lies inside a
// registered watch point.
func testWatchPointsCoverContents(t *testing.T, node collection.Node) {
	subset := collection.WatchPoints(node)
	for _, f := range resolve(t, node) {
		if !subset.Contains(string(f)) {
			t.Errorf("file %s is not covered by watch points %v", f, subset.Points())
		}
	}
}
