package engine

import (
	"time"

	"github.com/joshuapare/treekit/tree"
	"github.com/joshuapare/treekit/tree/sched"
)

// Options configures an Engine. The zero value (or nil) is a valid unbatched
// configuration.
type Options struct {
	// Batching coalesces dirty marks arriving within BatchWindow into one
	// flush. See FlushReady.
	Batching bool

	// BatchWindow is the minimum age of a batch before it is flush-eligible.
	BatchWindow time.Duration

	// ArenaCapacity preallocates node storage for the expected tree size.
	ArenaCapacity int

	// Clock overrides the batching time source. For tests.
	Clock func() time.Time
}

// Engine owns one element tree and its build scheduler.
type Engine struct {
	owner *sched.Owner
	root  tree.Handle
}

// Stats aggregates scheduler and arena counters.
type Stats struct {
	Sched sched.Stats
	Arena tree.ArenaStats
}

// New mounts the initial tree for the root description and returns the
// engine driving it.
func New(root tree.Description, opts *Options) (*Engine, error) {
	var so sched.Options
	if opts != nil {
		so = sched.Options{
			Batching:      opts.Batching,
			BatchWindow:   opts.BatchWindow,
			ArenaCapacity: opts.ArenaCapacity,
			Clock:         opts.Clock,
		}
	}
	owner := sched.NewOwner(&so)
	h, err := owner.MountRoot(root)
	if err != nil {
		return nil, err
	}
	return &Engine{owner: owner, root: h}, nil
}

// Root returns the root handle.
func (e *Engine) Root() tree.Handle { return e.root }

// Owner exposes the underlying build owner for layers that need the full
// scheduling surface.
func (e *Engine) Owner() *sched.Owner { return e.owner }

// ChildrenOf returns the ordered children of h. ok=false for stale handles.
func (e *Engine) ChildrenOf(h tree.Handle) (kids []tree.Handle, ok bool) {
	e.owner.Read(func(a *tree.Arena) {
		kids, ok = tree.ChildrenOf(a, h)
	})
	return kids, ok
}

// ParentOf returns the parent of h (zero for the root).
func (e *Engine) ParentOf(h tree.Handle) (parent tree.Handle, ok bool) {
	e.owner.Read(func(a *tree.Arena) {
		parent, ok = tree.ParentOf(a, h)
	})
	return parent, ok
}

// DepthOf returns the depth of h (root is 0).
func (e *Engine) DepthOf(h tree.Handle) (depth int, ok bool) {
	e.owner.Read(func(a *tree.Arena) {
		depth, ok = tree.DepthOf(a, h)
	})
	return depth, ok
}

// Walk visits the whole tree depth-first, pre-order. fn returns false to
// prune descent.
func (e *Engine) Walk(fn func(h tree.Handle, depth int) bool) {
	e.owner.Read(func(a *tree.Arena) {
		tree.Walk(a, e.root, fn)
	})
}

// MarkNeedsBuild schedules h for rebuild in the current or next flush. This
// is the entry point handed to the layout layer and to state objects.
func (e *Engine) MarkNeedsBuild(h tree.Handle) error {
	return e.owner.ScheduleBuildFor(h)
}

// BuildScope runs fn and performs exactly one depth-ordered fixed-point
// flush. fn may be nil to flush already-scheduled work.
func (e *Engine) BuildScope(fn func(p *sched.Pass) error) error {
	return e.owner.BuildScope(fn)
}

// FlushReady reports whether BuildScope would have eligible work right now.
func (e *Engine) FlushReady() bool { return e.owner.FlushReady() }

// NotifyProvider reacts to a provider value change, scheduling exactly the
// registered dependents (or nothing, when the provider's predicate reports no
// meaningful difference). Returns the number scheduled.
func (e *Engine) NotifyProvider(provider tree.Handle, old, new any) (int, error) {
	return e.owner.NotifyProvider(provider, old, new)
}

// RegisterDependent records dependent as interested in the provider's value.
func (e *Engine) RegisterDependent(provider, dependent tree.Handle, aspect any) error {
	return e.owner.RegisterDependent(provider, dependent, aspect)
}

// ResolveGlobalKey returns the live node registered under a global key.
func (e *Engine) ResolveGlobalKey(k tree.Key) (tree.Handle, bool) {
	return e.owner.ResolveGlobalKey(k)
}

// Stats returns a snapshot of scheduler and arena counters.
func (e *Engine) Stats() Stats {
	s := Stats{Sched: e.owner.Stats()}
	e.owner.Read(func(a *tree.Arena) {
		s.Arena = a.Stats()
	})
	return s
}

// Verify checks the structural invariants of the whole tree (parent/child
// symmetry, depths, slot order) and returns the first violation found.
func (e *Engine) Verify() error {
	var err error
	e.owner.Read(func(a *tree.Arena) {
		err = tree.Verify(a, e.root)
	})
	return err
}
