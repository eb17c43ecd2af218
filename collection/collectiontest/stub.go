package collectiontest

import (
	"context"
	"sync/atomic"

	"github.com/jmgilman/go/filecollection/collection"
	"github.com/jmgilman/go/filecollection/watchpoint"
)

// StubVisitor is the capability a visitor implements to receive Stub leaves
// through their specific method instead of VisitCollection.
type StubVisitor interface {
	VisitStub(leaf *Stub)
}

// Stub is a scripted leaf collection for tests.
//
// It produces Files in order, registers Points, and counts how many times its
// contents were resolved. When Err is set, resolution fails with Err after
// the first FailAfter files have been visited.
type Stub struct {
	Name      string
	Files     []collection.File
	Points    []watchpoint.Point
	Err       error
	FailAfter int

	// OnResolve, if set, runs each time resolution starts.
	OnResolve func()

	resolutions atomic.Int32
}

// NewStub returns a stub leaf named name that produces files and registers
// each of them as a file watch point.
func NewStub(name string, files ...collection.File) *Stub {
	s := &Stub{Name: name, Files: files}
	for _, f := range files {
		s.Points = append(s.Points, watchpoint.Point{Kind: watchpoint.KindFile, Path: string(f)})
	}
	return s
}

// Resolutions reports how many times VisitContents started resolving.
func (s *Stub) Resolutions() int {
	return int(s.resolutions.Load())
}

// String returns the stub's name.
func (s *Stub) String() string {
	return s.Name
}

// RegisterWatchPoints registers the scripted points.
func (s *Stub) RegisterWatchPoints(builder watchpoint.Builder) {
	for _, p := range s.Points {
		switch p.Kind {
		case watchpoint.KindDirectory:
			builder.AddDirectory(p.Path)
		case watchpoint.KindMissing:
			builder.AddMissing(p.Path)
		default:
			builder.AddFile(p.Path)
		}
	}
}

// VisitLeafCollections reports the stub through VisitStub when supported.
func (s *Stub) VisitLeafCollections(visitor collection.LeafVisitor) {
	if v, ok := visitor.(StubVisitor); ok {
		v.VisitStub(s)
		return
	}
	visitor.VisitCollection(s)
}

// VisitContents visits the scripted files.
func (s *Stub) VisitContents(ctx context.Context, visitor collection.Visitor) (bool, error) {
	s.resolutions.Add(1)
	if s.OnResolve != nil {
		s.OnResolve()
	}
	for i, file := range s.Files {
		if s.Err != nil && i == s.FailAfter {
			return false, s.Err
		}
		if err := ctx.Err(); err != nil {
			return false, err
		}
		more, err := visitor(file)
		if err != nil {
			return false, err
		}
		if !more {
			return false, nil
		}
	}
	if s.Err != nil {
		return false, s.Err
	}
	return true, nil
}

var _ collection.Node = (*Stub)(nil)
