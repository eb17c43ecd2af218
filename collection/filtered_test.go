package collection_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmgilman/go/filecollection/collection"
	"github.com/jmgilman/go/filecollection/collection/collectiontest"
)

func goFiles(f collection.File) bool {
	return strings.HasSuffix(string(f), ".go")
}

func TestFilter_Contents(t *testing.T) {
	source := collection.Of(
		collectiontest.NewStub("a", "main.go", "README.md"),
		collectiontest.NewStub("b", "util.go"),
	)

	files, err := collection.Files(context.Background(), collection.Filter(source, goFiles))
	require.NoError(t, err)
	assert.Equal(t, []collection.File{"main.go", "util.go"}, files)
}

func TestFilter_NilSpecAcceptsAll(t *testing.T) {
	source := collectiontest.NewStub("a", "main.go", "README.md")

	files, err := collection.Files(context.Background(), collection.Filter(source, nil))
	require.NoError(t, err)
	assert.Equal(t, []collection.File{"main.go", "README.md"}, files)
}

func TestFilter_RejectedFilesDoNotCountTowardStop(t *testing.T) {
	source := collectiontest.NewStub("a", "a.md", "b.go", "c.md", "d.go")

	visitor, seen := collectiontest.StopAfter(1)
	complete, err := collection.Filter(source, goFiles).VisitContents(context.Background(), visitor)

	require.NoError(t, err)
	assert.False(t, complete)
	assert.Equal(t, []collection.File{"b.go"}, *seen)
}

func TestFilter_IsSingleGenericLeaf(t *testing.T) {
	source := collection.Of(collectiontest.NewStub("a", "a.go"), collectiontest.NewStub("b", "b.go"))
	filtered := collection.Filter(source, goFiles)

	visitor := &collectiontest.RecordingStubVisitor{}
	collection.Of(filtered).VisitLeafCollections(visitor)

	require.Len(t, visitor.Calls, 1)
	assert.True(t, strings.HasPrefix(visitor.Calls[0], "generic:"))
	assert.Same(t, source, filtered.Source())
}

func TestFilter_RegistersSourceWatchPoints(t *testing.T) {
	source := collectiontest.NewStub("a", "a.go", "b.md")
	filtered := collection.Filter(source, goFiles)

	assert.True(t, collection.WatchPoints(filtered).Equal(collection.WatchPoints(source)))
}

func TestFilter_Conformance(t *testing.T) {
	collectiontest.TestNodeWithConfig(t, func() collection.Node {
		return collection.Filter(collection.Of(
			collectiontest.NewStub("a", "main.go", "README.md"),
			collectiontest.NewStub("b", "util.go", "LICENSE"),
		), goFiles)
	}, collectiontest.Config{Files: []collection.File{"main.go", "util.go"}})
}

func TestEmpty(t *testing.T) {
	empty := collection.Empty()

	files, err := collection.Files(context.Background(), empty)
	require.NoError(t, err)
	assert.Empty(t, files)
	assert.Empty(t, collection.Leaves(empty))
	assert.True(t, collection.WatchPoints(empty).IsEmpty())
}

func TestFlatten(t *testing.T) {
	a := collectiontest.NewStub("a", "a1")
	b := collectiontest.NewStub("b", "b1")
	c := collectiontest.NewStub("c", "c1")
	nested := collection.Of(a, collection.Of(b, collection.Of(c)), collection.Empty())

	flat := collection.Flatten(nested)
	assert.Equal(t, 0, a.Resolutions())

	children := flat.Children()
	require.Len(t, children, 3)
	assert.Same(t, a, children[0])
	assert.Same(t, b, children[1])
	assert.Same(t, c, children[2])

	want, err := collection.Files(context.Background(), nested)
	require.NoError(t, err)
	got, err := collection.Files(context.Background(), flat)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}
