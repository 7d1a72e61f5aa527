package sched

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/joshuapare/treekit/tree"
	"github.com/joshuapare/treekit/tree/provide"
	"github.com/joshuapare/treekit/tree/reconcile"
)

// Options configures an Owner. The zero value is a valid unbatched
// configuration.
type Options struct {
	// Batching delays flush eligibility so multiple dirty marks arriving in
	// a short window coalesce into one pass. See FlushReady.
	Batching bool

	// BatchWindow is the minimum duration between the first schedule of a
	// batch and the batch becoming eligible to flush. Only meaningful with
	// Batching set.
	BatchWindow time.Duration

	// ArenaCapacity preallocates arena storage for the expected node count.
	ArenaCapacity int

	// Clock overrides the time source for the batching window. For tests;
	// defaults to time.Now.
	Clock func() time.Time
}

// Owner is the build owner for one element tree: it owns the arena, the
// dirty set, the inactive holding set, and the global-key registry, and it
// drives reconciliation during build passes.
//
// Read-only navigation may happen concurrently; each build pass holds
// exclusive access. Only one BuildScope can be active at a time.
type Owner struct {
	opts Options

	// mu guards the arena, tree structure, holding set, and global registry.
	mu    sync.RWMutex
	arena *tree.Arena
	root  tree.Handle

	// inactive holds the roots of subtrees deactivated during the current
	// pass, pending reactivation or finalization.
	inactive map[tree.Handle]struct{}

	// globals maps global key values to live handles. At most one live
	// mapping per key.
	globals map[any]tree.Handle

	// passClaims records the global key values claimed by a description
	// during the current pass. A second claim of the same value in one pass
	// is a duplicate-key conflict, not an adoption.
	passClaims map[any]struct{}

	// scopeActive rejects reentrant BuildScope calls without touching mu
	// (the offending call usually comes from the goroutine holding it).
	scopeActive atomic.Bool

	// dirtyMu guards the dirty set, batch clock, and counters, so in-pass
	// scheduling and external scheduling share one fast path.
	dirtyMu    sync.Mutex
	dirty      []DirtyEntry
	dirtyIndex map[tree.Handle]struct{}
	batchStart time.Time
	stats      Stats
}

// NewOwner creates a build owner with an empty tree.
func NewOwner(opts *Options) *Owner {
	o := &Owner{
		arena:      tree.NewArena(64),
		inactive:   make(map[tree.Handle]struct{}),
		globals:    make(map[any]tree.Handle),
		passClaims: make(map[any]struct{}),
		dirtyIndex: make(map[tree.Handle]struct{}),
	}
	if opts != nil {
		o.opts = *opts
		if opts.ArenaCapacity > 0 {
			o.arena = tree.NewArena(opts.ArenaCapacity)
		}
	}
	return o
}

// MountRoot inflates and mounts the initial tree for d and returns the root
// handle. It may be called once per owner.
func (o *Owner) MountRoot(d tree.Description) (tree.Handle, error) {
	if d == nil {
		return tree.Handle{}, tree.ErrNilDescription
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	if !o.root.IsZero() {
		return tree.Handle{}, ErrRootMounted
	}
	clear(o.passClaims)
	h, err := o.inflate(tree.Handle{}, d, 0)
	if err != nil {
		return tree.Handle{}, err
	}
	o.root = h
	return h, nil
}

// Root returns the root handle (zero before MountRoot).
func (o *Owner) Root() tree.Handle {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.root
}

// Read runs fn with shared access to the arena for read-only navigation
// (tree.Walk, tree.ChildrenOf, ...). fn must not mutate nodes and must not
// retain the arena.
func (o *Owner) Read(fn func(a *tree.Arena)) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	fn(o.arena)
}

// ScheduleBuildFor marks the node as needing rebuild in the current or next
// flush. Marking an already-dirty node is a counted no-op. Stale handles
// return tree.ErrStaleHandle; scheduling a node that was never mounted is a
// lifecycle violation.
func (o *Owner) ScheduleBuildFor(h tree.Handle) error {
	o.mu.RLock()
	n, ok := o.arena.Get(h)
	if !ok {
		o.mu.RUnlock()
		return tree.ErrStaleHandle
	}
	err := o.schedule(h, n)
	o.mu.RUnlock()
	return err
}

// BuildScope runs fn (which may schedule work through the provided Pass) and
// then performs exactly one flush: pending entries are rebuilt in ascending
// depth order until the dirty set reaches a fixed point, after which the
// holding set is finalized. Reentrant calls return ErrReentrantScope.
//
// fn may be nil to flush already-scheduled work.
func (o *Owner) BuildScope(fn func(p *Pass) error) error {
	if !o.scopeActive.CompareAndSwap(false, true) {
		return ErrReentrantScope
	}
	defer o.scopeActive.Store(false)

	o.mu.Lock()
	defer o.mu.Unlock()

	clear(o.passClaims)

	p := &Pass{owner: o}
	defer func() { p.ended = true }()

	if fn != nil {
		if err := fn(p); err != nil {
			return err
		}
	}
	if err := o.flush(); err != nil {
		return err
	}
	return o.finalizePass()
}

// NotifyProvider reacts to the value exposed by a provider node changing. If
// the provider's predicate reports no meaningful difference, nothing is
// scheduled. Returns the number of dependents scheduled.
//
// Must not be called from inside an active build pass; provider values read
// during builds notify through the pass instead.
func (o *Owner) NotifyProvider(provider tree.Handle, old, new any) (int, error) {
	return provide.Notify(lockedView{o}, o, provider, old, new)
}

// RegisterDependent records dependent as interested in the provider's value.
// Most registrations happen through BuildContext.DependOn during builds; this
// is the external entry point for framework layers above.
func (o *Owner) RegisterDependent(provider, dependent tree.Handle, aspect any) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	return provide.Register(hostView{o}, provider, dependent, aspect)
}

// flush drains the dirty set in ascending depth order. Entries whose node was
// removed or deactivated since scheduling are skipped; entries scheduled
// during the flush are merged into it.
func (o *Owner) flush() error {
	o.bump(func(s *Stats) { s.Flushes++ })
	for {
		e, ok := o.popDirty()
		if !ok {
			return nil
		}
		if err := o.rebuild(e.Handle); err != nil {
			return err
		}
	}
}

// rebuild re-runs one node's build and reconciles its children. Stale and
// inactive entries are skipped; a Defunct node still reachable here is a
// lifecycle violation (finalization removes nodes from the arena, so this
// indicates a dangling reference).
func (o *Owner) rebuild(h tree.Handle) error {
	n, ok := o.arena.Get(h)
	if !ok {
		return nil
	}
	switch n.Phase() {
	case tree.PhaseActive:
	case tree.PhaseInactive:
		return nil
	default:
		return &tree.PhaseError{Handle: h, Op: "rebuild", Want: tree.PhaseActive, Got: n.Phase()}
	}
	o.bump(func(s *Stats) { s.Rebuilt++ })
	return o.buildNode(h, n)
}

// buildNode evaluates the node's description and reconciles the produced
// child descriptions against the current children.
func (o *Owner) buildNode(h tree.Handle, n *tree.Node) error {
	var kids []tree.Description
	if n.Kind() != tree.KindLeaf {
		kids = n.Description().Build(&buildContext{owner: o, self: h})
	}
	children, err := reconcile.UpdateChildren(hostView{o}, h, n.Children(), kids)
	if err != nil {
		return err
	}
	n.SetChildren(children)
	return nil
}

// finalizePass tears down every subtree still parked in the holding set:
// anything not reactivated during the pass becomes Defunct.
func (o *Owner) finalizePass() error {
	for h := range o.inactive {
		delete(o.inactive, h)
		n, ok := o.arena.Get(h)
		if !ok || n.Phase() != tree.PhaseInactive {
			// Already gone, or reactivated after parking.
			continue
		}
		if err := o.finalizeSubtree(h, n); err != nil {
			return err
		}
	}
	return nil
}

// finalizeSubtree disposes the subtree rooted at h, children first: hooks
// fire, dependency registrations and global-key mappings are released, and
// the nodes leave the arena (invalidating their handles). Children that were
// claimed by a global key elsewhere in the pass are skipped.
func (o *Owner) finalizeSubtree(h tree.Handle, n *tree.Node) error {
	for _, c := range n.Children() {
		cn, ok := o.arena.Get(c)
		if !ok || cn.Phase() != tree.PhaseInactive {
			continue
		}
		if err := o.finalizeSubtree(c, cn); err != nil {
			return err
		}
	}
	if err := n.Finalize(); err != nil {
		return err
	}
	for _, ph := range n.ProviderRefs() {
		provide.Unregister(hostView{o}, ph, h)
	}
	if k := n.Description().Key(); k.Global && !k.IsZero() {
		if cur, ok := o.globals[k.Value]; ok && cur == h {
			delete(o.globals, k.Value)
		}
	}
	o.clearDirty(h)
	o.arena.Remove(h)
	o.bump(func(s *Stats) { s.Finalized++ })
	return nil
}
