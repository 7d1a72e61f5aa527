package sched

import (
	"sort"
	"time"

	"github.com/joshuapare/treekit/tree"
)

// DirtyEntry is one pending rebuild. Depth is captured at schedule time and
// drives the ascending-depth processing order within a flush.
type DirtyEntry struct {
	Handle tree.Handle
	Depth  int
}

// Stats counts scheduler activity since the owner was created.
type Stats struct {
	Scheduled   uint64 // dirty marks accepted
	BuildsSaved uint64 // dirty marks collapsed into an already-pending entry
	Flushes     uint64 // completed flush passes
	Rebuilt     uint64 // nodes rebuilt from the dirty set
	Created     uint64 // nodes inflated
	Updated     uint64 // nodes that absorbed a new description in place
	Deactivated uint64 // subtrees parked in the holding set
	Finalized   uint64 // nodes torn down to Defunct
}

// schedule appends a dirty entry for the already-resolved node, deduplicating
// by handle. Callers hold at least shared tree access so the node cannot be
// torn down concurrently.
func (o *Owner) schedule(h tree.Handle, n *tree.Node) error {
	switch n.Phase() {
	case tree.PhaseActive, tree.PhaseInactive:
		// Inactive nodes are accepted; the flush skips them unless they are
		// reactivated first.
	default:
		return &tree.PhaseError{Handle: h, Op: "schedule", Want: tree.PhaseActive, Got: n.Phase()}
	}

	o.dirtyMu.Lock()
	defer o.dirtyMu.Unlock()
	if _, pending := o.dirtyIndex[h]; pending {
		o.stats.BuildsSaved++
		return nil
	}
	if o.opts.Batching && len(o.dirty) == 0 {
		o.batchStart = o.now()
	}
	o.dirtyIndex[h] = struct{}{}
	o.dirty = append(o.dirty, DirtyEntry{Handle: h, Depth: n.Depth()})
	o.stats.Scheduled++
	return nil
}

// popDirty removes and returns the shallowest pending entry. (The re-sort per
// pop keeps entries scheduled mid-flush correctly ordered; dirty sets are
// small and the sort is nearly-sorted after the first iteration.)
func (o *Owner) popDirty() (DirtyEntry, bool) {
	o.dirtyMu.Lock()
	defer o.dirtyMu.Unlock()
	if len(o.dirty) == 0 {
		o.batchStart = time.Time{}
		return DirtyEntry{}, false
	}
	sort.SliceStable(o.dirty, func(i, j int) bool {
		return o.dirty[i].Depth < o.dirty[j].Depth
	})
	e := o.dirty[0]
	o.dirty = o.dirty[1:]
	delete(o.dirtyIndex, e.Handle)
	return e, true
}

// isDirty reports whether h has a pending dirty entry.
func (o *Owner) isDirty(h tree.Handle) bool {
	o.dirtyMu.Lock()
	defer o.dirtyMu.Unlock()
	_, ok := o.dirtyIndex[h]
	return ok
}

// clearDirty drops any pending entry for h (the rebuild is happening through
// another path, or the node is being torn down).
func (o *Owner) clearDirty(h tree.Handle) {
	o.dirtyMu.Lock()
	defer o.dirtyMu.Unlock()
	if _, ok := o.dirtyIndex[h]; !ok {
		return
	}
	delete(o.dirtyIndex, h)
	for i, e := range o.dirty {
		if e.Handle == h {
			o.dirty = append(o.dirty[:i], o.dirty[i+1:]...)
			break
		}
	}
}

// FlushReady reports whether a call to BuildScope would have work to do right
// now. Without batching, any pending entry is ready; with batching, the batch
// is ready once BatchWindow has elapsed since its first schedule. Callers
// poll; nothing blocks.
func (o *Owner) FlushReady() bool {
	o.dirtyMu.Lock()
	defer o.dirtyMu.Unlock()
	if len(o.dirty) == 0 {
		return false
	}
	if !o.opts.Batching {
		return true
	}
	return o.now().Sub(o.batchStart) >= o.opts.BatchWindow
}

// Stats returns a snapshot of scheduler counters.
func (o *Owner) Stats() Stats {
	o.dirtyMu.Lock()
	defer o.dirtyMu.Unlock()
	return o.stats
}

func (o *Owner) bump(f func(s *Stats)) {
	o.dirtyMu.Lock()
	f(&o.stats)
	o.dirtyMu.Unlock()
}

func (o *Owner) now() time.Time {
	if o.opts.Clock != nil {
		return o.opts.Clock()
	}
	return time.Now()
}
