package filetree

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmgilman/go/filecollection/collection"
	"github.com/jmgilman/go/filecollection/collection/collectiontest"
)

func TestSingleFile_Contents(t *testing.T) {
	fsys := memFS(t, map[string]string{"go.mod": "module x", "pkg/a.go": "package pkg"})

	tests := []struct {
		path string
		want []collection.File
	}{
		{"go.mod", []collection.File{"go.mod"}},
		{"./go.mod", []collection.File{"go.mod"}},
		{"missing.txt", nil},
		{"pkg", nil},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			files, err := collection.Files(context.Background(), SingleFile(fsys, tt.path))
			require.NoError(t, err)
			assert.Equal(t, tt.want, files)
		})
	}
}

func TestSingleFile_Structure(t *testing.T) {
	s := SingleFile(memFS(t, nil), "go.mod")

	recorder := &collectiontest.RecordingBuilder{}
	s.RegisterWatchPoints(recorder)
	assert.Equal(t, []string{"file:go.mod"}, recorder.Calls)

	specific := &capabilityVisitor{}
	s.VisitLeafCollections(specific)
	assert.Equal(t, []string{"single:go.mod"}, specific.calls)

	generic := &collectiontest.RecordingLeafVisitor{}
	s.VisitLeafCollections(generic)
	assert.Equal(t, []string{"go.mod"}, generic.Names())
}

func TestSingleFile_Conformance(t *testing.T) {
	fsys := memFS(t, map[string]string{"go.mod": "module x"})
	collectiontest.TestNodeWithConfig(t, func() collection.Node {
		return SingleFile(fsys, "go.mod")
	}, collectiontest.Config{Files: []collection.File{"go.mod"}})
}

func TestFileList_Contents(t *testing.T) {
	fsys := memFS(t, map[string]string{"b.txt": "b", "a.txt": "a", "dir/c.txt": "c"})
	list := FileList(fsys, []string{"b.txt", "", "missing", "dir", "a.txt"})

	assert.Equal(t, []string{"b.txt", "missing", "dir", "a.txt"}, list.Paths())

	files, err := collection.Files(context.Background(), list)
	require.NoError(t, err)
	assert.Equal(t, []collection.File{"b.txt", "a.txt"}, files)
}

func TestFileList_StopsEarly(t *testing.T) {
	fsys := memFS(t, map[string]string{"a": "", "b": "", "c": ""})
	visitor, seen := collectiontest.StopAfter(2)

	complete, err := FileList(fsys, []string{"a", "b", "c"}).VisitContents(context.Background(), visitor)
	require.NoError(t, err)
	assert.False(t, complete)
	assert.Equal(t, []collection.File{"a", "b"}, *seen)
}

func TestFileList_Structure(t *testing.T) {
	list := FileList(memFS(t, nil), []string{"a", "b", "a"})

	recorder := &collectiontest.RecordingBuilder{}
	list.RegisterWatchPoints(recorder)
	assert.Equal(t, []string{"file:a", "file:b", "file:a"}, recorder.Calls)

	specific := &capabilityVisitor{}
	list.VisitLeafCollections(specific)
	assert.Equal(t, []string{"list"}, specific.calls)
}

func TestFileList_CallerCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	visitor, _ := collectiontest.Collect()
	_, err := FileList(memFS(t, map[string]string{"a": ""}), []string{"a"}).VisitContents(ctx, visitor)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFileList_Conformance(t *testing.T) {
	fsys := memFS(t, map[string]string{"a": "1", "b": "2", "c": "3"})
	collectiontest.TestNodeWithConfig(t, func() collection.Node {
		return FileList(fsys, []string{"c", "a", "b"})
	}, collectiontest.Config{Files: []collection.File{"a", "b", "c"}})
}
