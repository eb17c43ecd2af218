package collection

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/jmgilman/go/filecollection/watchpoint"
	"golang.org/x/sync/errgroup"
)

// Composite is the union of an ordered sequence of child collections.
// Duplicates are tolerated; a file produced by two children is visited twice.
type Composite struct {
	children    []Node
	parallelism int
}

// UnionOption configures a Composite.
type UnionOption func(*Composite)

// WithParallelism lets VisitContents resolve up to n children at once.
//
// Visitor calls stay serialized, so the visitor does not need to be safe for
// concurrent use, and no file is delivered after the visitor asks to stop.
// Files from different children may interleave in any order. Values below 2
// keep the sequential, declared-order traversal.
func WithParallelism(n int) UnionOption {
	return func(c *Composite) {
		c.parallelism = n
	}
}

// Union returns a composite of children in the given order. Nil children are
// dropped. The slice is copied; the composite owns its children from here on.
func Union(children []Node, opts ...UnionOption) *Composite {
	c := &Composite{children: make([]Node, 0, len(children))}
	for _, child := range children {
		if child != nil {
			c.children = append(c.children, child)
		}
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Of is shorthand for Union(children).
func Of(children ...Node) *Composite {
	return Union(children)
}

// Children returns a copy of the child sequence.
func (c *Composite) Children() []Node {
	return slices.Clone(c.children)
}

// RegisterWatchPoints registers the watch points of every child.
func (c *Composite) RegisterWatchPoints(builder watchpoint.Builder) {
	for _, child := range c.children {
		child.RegisterWatchPoints(builder)
	}
}

// VisitLeafCollections decomposes every child in order.
func (c *Composite) VisitLeafCollections(visitor LeafVisitor) {
	for _, child := range c.children {
		child.VisitLeafCollections(visitor)
	}
}

// VisitContents visits each child's contents in order, stopping at the first
// child that was stopped or failed.
func (c *Composite) VisitContents(ctx context.Context, visitor Visitor) (bool, error) {
	if c.parallelism > 1 && len(c.children) > 1 {
		return c.visitConcurrently(ctx, visitor)
	}
	for _, child := range c.children {
		complete, err := child.VisitContents(ctx, visitor)
		if err != nil {
			return false, err
		}
		if !complete {
			return false, nil
		}
	}
	return true, nil
}

func (c *Composite) visitConcurrently(ctx context.Context, visitor Visitor) (bool, error) {
	stopCtx, stop := context.WithCancel(ctx)
	defer stop()

	var (
		mu       sync.Mutex
		stopped  bool
		visitErr error
	)
	guarded := func(file File) (bool, error) {
		mu.Lock()
		defer mu.Unlock()
		if stopped {
			return false, nil
		}
		more, err := visitor(file)
		if err != nil || !more {
			stopped = true
			visitErr = err
			stop()
		}
		return more, err
	}
	isStopped := func() bool {
		mu.Lock()
		defer mu.Unlock()
		return stopped
	}

	g, gctx := errgroup.WithContext(stopCtx)
	g.SetLimit(c.parallelism)
	for _, child := range c.children {
		if isStopped() {
			break
		}
		g.Go(func() error {
			if isStopped() {
				return nil
			}
			_, err := child.VisitContents(gctx, guarded)
			if err != nil && ctx.Err() == nil && gctx.Err() != nil && errors.Is(err, context.Canceled) {
				// cancelled by a sibling's stop or failure, not by the caller
				return nil
			}
			return err
		})
	}
	err := g.Wait()

	mu.Lock()
	visited := visitErr
	mu.Unlock()
	// a visitor error takes precedence over what the children returned for it
	if visited != nil {
		return false, visited
	}
	if err != nil {
		return false, err
	}
	return !isStopped(), nil
}
