package watchpoint

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubset_AddAndQuery(t *testing.T) {
	s := NewSubset()
	s.AddDirectory("src/")
	s.AddFile("./build.cue")
	s.AddMissing("out/app")
	s.AddFile("")

	require.Equal(t, 3, s.Len())
	assert.Equal(t, []string{"src"}, s.Directories())
	assert.Equal(t, []string{"build.cue"}, s.Files())
	assert.Equal(t, []string{"out/app"}, s.Missing())
	assert.Equal(t, []Point{
		{Kind: KindDirectory, Path: "src"},
		{Kind: KindFile, Path: "build.cue"},
		{Kind: KindMissing, Path: "out/app"},
	}, s.Points())
}

func TestSubset_ZeroValue(t *testing.T) {
	var s Subset
	require.True(t, s.IsEmpty())
	s.AddFile("a")
	require.Equal(t, []string{"a"}, s.Files())
}

func TestSubset_Deduplicates(t *testing.T) {
	s := NewSubset()
	for range 3 {
		s.AddDirectory("src")
		s.AddFile("src/main.go")
	}
	// same path, different kind, is a distinct point
	s.AddMissing("src/main.go")

	assert.Equal(t, 3, s.Len())
}

func TestSubset_Contains(t *testing.T) {
	s := NewSubset()
	s.AddDirectory("/repo/src")
	s.AddFile("/repo/go.mod")
	s.AddMissing("/repo/out/bin")

	tests := []struct {
		path string
		want bool
	}{
		{"/repo/src", true},
		{"/repo/src/pkg/a.go", true},
		{"/repo/srcs/a.go", false},
		{"/repo/go.mod", true},
		{"/repo/go.sum", false},
		{"/repo/out/bin", true},
		{"/repo/out/bin/x", true},
		{"/repo/out/lib", false},
		{"/repo/go.mod/x", false},
		{"/repo", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, s.Contains(tt.path), tt.path)
	}
}

func TestWithin(t *testing.T) {
	tests := []struct {
		path, dir string
		want      bool
	}{
		{"a/b", "a", true},
		{"a", "a", true},
		{"ab", "a", false},
		{"a/b", ".", true},
		{"../a", ".", false},
		{"/abs", ".", false},
		{"/x/y", "/", true},
		{"x", "/", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Within(tt.path, tt.dir), "%s in %s", tt.path, tt.dir)
	}
}

func TestSubset_Roots(t *testing.T) {
	s := NewSubset()
	s.AddDirectory("src/pkg")
	s.AddFile("src/pkg/a.go")
	s.AddDirectory("src")
	s.AddFile("README.md")
	s.AddMissing("src/gen/out.go")

	assert.Equal(t, []Point{
		{Kind: KindDirectory, Path: "src"},
		{Kind: KindFile, Path: "README.md"},
	}, s.Roots())
}

func TestSubset_MergeAndEqual(t *testing.T) {
	a := NewSubset()
	a.AddDirectory("x")
	b := NewSubset()
	b.AddFile("y")
	b.AddDirectory("x")

	merged := NewSubset()
	merged.Merge(a)
	merged.Merge(b)
	merged.Merge(nil)

	want := NewSubset()
	want.AddFile("y")
	want.AddDirectory("x")

	assert.True(t, merged.Equal(want))
	assert.False(t, merged.Equal(a))
	assert.True(t, NewSubset().Equal(nil))
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "directory", KindDirectory.String())
	assert.Equal(t, "file", KindFile.String())
	assert.Equal(t, "missing", KindMissing.String())
	assert.Equal(t, "unknown", Kind(9).String())
}
