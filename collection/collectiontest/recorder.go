package collectiontest

import (
	"fmt"

	"github.com/jmgilman/go/filecollection/collection"
)

// RecordingBuilder is a watchpoint.Builder that records every call verbatim,
// including repeats, as "kind:path".
type RecordingBuilder struct {
	Calls []string
}

func (b *RecordingBuilder) AddDirectory(root string) { b.Calls = append(b.Calls, "directory:"+root) }
func (b *RecordingBuilder) AddFile(path string)      { b.Calls = append(b.Calls, "file:"+path) }
func (b *RecordingBuilder) AddMissing(path string)   { b.Calls = append(b.Calls, "missing:"+path) }

// RecordingLeafVisitor records the leaves it receives through the generic
// method. It declares no specific capabilities.
type RecordingLeafVisitor struct {
	Leaves []collection.Node
}

// VisitCollection records leaf.
func (v *RecordingLeafVisitor) VisitCollection(leaf collection.Node) {
	v.Leaves = append(v.Leaves, leaf)
}

// Names renders the recorded leaves with %v, for comparisons.
func (v *RecordingLeafVisitor) Names() []string {
	names := make([]string, len(v.Leaves))
	for i, leaf := range v.Leaves {
		names[i] = fmt.Sprint(leaf)
	}
	return names
}

// RecordingStubVisitor additionally implements StubVisitor and records which
// route each leaf took: "stub:<name>" or "generic:<leaf>".
type RecordingStubVisitor struct {
	Calls []string
}

// VisitCollection records a generic visit.
func (v *RecordingStubVisitor) VisitCollection(leaf collection.Node) {
	v.Calls = append(v.Calls, fmt.Sprintf("generic:%v", leaf))
}

// VisitStub records a specific visit.
func (v *RecordingStubVisitor) VisitStub(leaf *Stub) {
	v.Calls = append(v.Calls, "stub:"+leaf.Name)
}

// StopAfter returns a visitor that records files and asks to stop once it
// has seen n of them. The returned slice pointer collects the files seen.
func StopAfter(n int) (collection.Visitor, *[]collection.File) {
	var seen []collection.File
	return func(file collection.File) (bool, error) {
		seen = append(seen, file)
		return len(seen) < n, nil
	}, &seen
}

// Collect returns a visitor that records every file and never stops.
func Collect() (collection.Visitor, *[]collection.File) {
	var seen []collection.File
	return func(file collection.File) (bool, error) {
		seen = append(seen, file)
		return true, nil
	}, &seen
}
