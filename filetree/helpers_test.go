package filetree

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jmgilman/go/filecollection/collection"
	"github.com/jmgilman/go/filecollection/fs/billy"
)

// memFS returns an in-memory filesystem holding files.
func memFS(t *testing.T, files map[string]string) *billy.FS {
	t.Helper()
	fsys := billy.NewMemory()
	for name, content := range files {
		require.NoError(t, fsys.WriteFile(name, []byte(content), 0o644))
	}
	return fsys
}

type tarEntry struct {
	name    string
	content string
	dir     bool
}

// tarball builds an archive from entries, gzipped when compress is set.
func tarball(t *testing.T, compress bool, entries ...tarEntry) []byte {
	t.Helper()
	var buf bytes.Buffer
	var w io.Writer = &buf
	var gz *gzip.Writer
	if compress {
		gz = gzip.NewWriter(&buf)
		w = gz
	}

	tw := tar.NewWriter(w)
	for _, e := range entries {
		hdr := &tar.Header{Name: e.name, Mode: 0o644, Size: int64(len(e.content)), Typeflag: tar.TypeReg}
		if e.dir {
			hdr = &tar.Header{Name: e.name, Mode: 0o755, Typeflag: tar.TypeDir}
		}
		require.NoError(t, tw.WriteHeader(hdr))
		if !e.dir {
			_, err := tw.Write([]byte(e.content))
			require.NoError(t, err)
		}
	}
	require.NoError(t, tw.Close())
	if gz != nil {
		require.NoError(t, gz.Close())
	}
	return buf.Bytes()
}

// capabilityVisitor implements every filetree capability and records the
// route each leaf took.
type capabilityVisitor struct {
	calls []string
}

func (v *capabilityVisitor) VisitCollection(collection.Node) {
	v.calls = append(v.calls, "generic")
}

func (v *capabilityVisitor) VisitSingleFile(leaf *Single) {
	v.calls = append(v.calls, "single:"+leaf.Path())
}

func (v *capabilityVisitor) VisitFileList(*List) {
	v.calls = append(v.calls, "list")
}

func (v *capabilityVisitor) VisitDirectoryTree(leaf *Tree) {
	v.calls = append(v.calls, "tree:"+leaf.Root())
}

func (v *capabilityVisitor) VisitArchiveTree(leaf *Archive) {
	v.calls = append(v.calls, "archive:"+leaf.Path())
}
