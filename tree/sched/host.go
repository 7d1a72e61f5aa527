package sched

import (
	"fmt"

	"github.com/joshuapare/treekit/tree"
)

// hostView is the mutation surface handed to reconciliation. All methods
// assume the exclusive tree access held by the active build pass.
type hostView struct {
	o *Owner
}

// lockedView resolves handles under shared tree access, for callers outside
// an active pass (provider notification).
type lockedView struct {
	o *Owner
}

func (v lockedView) Node(h tree.Handle) (*tree.Node, bool) {
	v.o.mu.RLock()
	defer v.o.mu.RUnlock()
	return v.o.arena.Get(h)
}

func (v hostView) Node(h tree.Handle) (*tree.Node, bool) {
	return v.o.arena.Get(h)
}

func (v hostView) InflateChild(parent tree.Handle, d tree.Description) (tree.Handle, error) {
	pn, ok := v.o.arena.Get(parent)
	if !ok {
		return tree.Handle{}, fmt.Errorf("sched: inflate under %s: %w", parent, tree.ErrStaleHandle)
	}
	return v.o.inflate(parent, d, pn.Depth()+1)
}

func (v hostView) UpdateChild(h tree.Handle, d tree.Description) error {
	return v.o.update(h, d)
}

func (v hostView) DeactivateChild(h tree.Handle) error {
	return v.o.deactivateSubtree(h, true)
}

func (v hostView) ResolveGlobal(k tree.Key) (tree.Handle, bool) {
	return v.o.resolveGlobal(k)
}

func (v hostView) AdoptChild(h, parent tree.Handle, d tree.Description) error {
	return v.o.adopt(h, parent, d)
}

// inflate creates a node for d, registers its global key if it has one,
// mounts it under parent, and recursively builds its children.
func (o *Owner) inflate(parent tree.Handle, d tree.Description, depth int) (tree.Handle, error) {
	if d == nil {
		return tree.Handle{}, tree.ErrNilDescription
	}
	n := tree.NewNode(d)
	h := o.arena.Insert(n)
	if k := d.Key(); k.Global && !k.IsZero() {
		if err := o.registerGlobal(k, h); err != nil {
			o.arena.Remove(h)
			return tree.Handle{}, err
		}
		o.passClaims[k.Value] = struct{}{}
	}
	if err := n.Mount(parent, depth); err != nil {
		return tree.Handle{}, err
	}
	o.bump(func(s *Stats) { s.Created++ })
	if err := o.buildNode(h, n); err != nil {
		return tree.Handle{}, err
	}
	return h, nil
}

// update gives an existing compatible node its new description. When the new
// description reports Equal to the old one and no rebuild is pending, the
// subtree is left untouched; otherwise the node is rebuilt immediately and
// any pending dirty entry for it is consumed.
func (o *Owner) update(h tree.Handle, d tree.Description) error {
	n, ok := o.arena.Get(h)
	if !ok {
		return fmt.Errorf("sched: update %s: %w", h, tree.ErrStaleHandle)
	}
	if n.Phase() != tree.PhaseActive {
		return &tree.PhaseError{Handle: h, Op: "update", Want: tree.PhaseActive, Got: n.Phase()}
	}
	if k := d.Key(); k.Global && !k.IsZero() {
		o.passClaims[k.Value] = struct{}{}
	}
	old := n.Description()
	n.SetDescription(d)
	o.bump(func(s *Stats) { s.Updated++ })
	if !o.isDirty(h) && descEqual(old, d) {
		return nil
	}
	o.clearDirty(h)
	return o.buildNode(h, n)
}

// deactivateSubtree moves the whole subtree Active→Inactive, depth-first.
// Only the subtree root is parked in the holding set; descendants follow
// their root's fate unless claimed individually through a global key.
func (o *Owner) deactivateSubtree(h tree.Handle, park bool) error {
	n, ok := o.arena.Get(h)
	if !ok {
		return fmt.Errorf("sched: deactivate %s: %w", h, tree.ErrStaleHandle)
	}
	if err := n.Deactivate(); err != nil {
		return err
	}
	for _, c := range n.Children() {
		if err := o.deactivateSubtree(c, false); err != nil {
			return err
		}
	}
	if park {
		o.inactive[h] = struct{}{}
		o.bump(func(s *Stats) { s.Deactivated++ })
	}
	return nil
}

// adopt reparents a global-keyed node under a new parent. A parked node is
// lifted out of the holding set; a node still active under its old parent is
// detached from it first, so adoption works regardless of which parent the
// pass reconciles first. The subtree is reactivated with recomputed depths
// and then updated with the claiming description.
//
// A key already claimed by another description in this pass is a genuine
// identity conflict and is rejected.
func (o *Owner) adopt(h, parent tree.Handle, d tree.Description) error {
	n, ok := o.arena.Get(h)
	if !ok {
		return fmt.Errorf("sched: adopt %s: %w", h, tree.ErrStaleHandle)
	}
	pn, ok := o.arena.Get(parent)
	if !ok {
		return fmt.Errorf("sched: adopt under %s: %w", parent, tree.ErrStaleHandle)
	}
	if k := d.Key(); k.Global && !k.IsZero() {
		if _, claimed := o.passClaims[k.Value]; claimed {
			return fmt.Errorf("sched: adopt %s under %s: %w", h, parent,
				&DuplicateGlobalKeyError{Key: k, Existing: h})
		}
	}
	switch n.Phase() {
	case tree.PhaseInactive:
		delete(o.inactive, h)
	case tree.PhaseActive:
		if err := o.detachChild(n.Parent(), h); err != nil {
			return err
		}
		if err := o.deactivateSubtree(h, false); err != nil {
			return err
		}
	default:
		return &tree.PhaseError{Handle: h, Op: "adopt", Want: tree.PhaseInactive, Got: n.Phase()}
	}
	if err := o.reactivateSubtree(h, parent, pn.Depth()+1); err != nil {
		return err
	}
	return o.update(h, d)
}

// detachChild removes child from parent's child list and re-slots the
// remaining siblings. The stored slice is replaced rather than spliced in
// place: child lists captured by an in-flight reconcile must keep their
// contents.
func (o *Owner) detachChild(parent, child tree.Handle) error {
	pn, ok := o.arena.Get(parent)
	if !ok {
		return fmt.Errorf("sched: detach %s from %s: %w", child, parent, tree.ErrStaleHandle)
	}
	cur := pn.Children()
	idx := -1
	for i, c := range cur {
		if c == child {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil
	}
	out := make([]tree.Handle, 0, len(cur)-1)
	out = append(out, cur[:idx]...)
	out = append(out, cur[idx+1:]...)
	pn.SetChildren(out)
	prev := tree.Handle{}
	if idx > 0 {
		prev = out[idx-1]
	}
	for i := idx; i < len(out); i++ {
		cn, ok := o.arena.Get(out[i])
		if !ok {
			return fmt.Errorf("sched: detach reslot %s: %w", out[i], tree.ErrStaleHandle)
		}
		cn.SetSlot(tree.Slot{Position: i, PreviousSibling: prev})
		prev = out[i]
	}
	return nil
}

func (o *Owner) reactivateSubtree(h, parent tree.Handle, depth int) error {
	n, ok := o.arena.Get(h)
	if !ok {
		return fmt.Errorf("sched: reactivate %s: %w", h, tree.ErrStaleHandle)
	}
	if err := n.Reactivate(parent, depth); err != nil {
		return err
	}
	for _, c := range n.Children() {
		if err := o.reactivateSubtree(c, h, depth+1); err != nil {
			return err
		}
	}
	return nil
}

// descEqual applies the optional Equaler fast path. Descriptions that do not
// implement it are always rebuilt on update.
func descEqual(old, next tree.Description) bool {
	if e, ok := next.(tree.Equaler); ok {
		return e.Equal(old)
	}
	return false
}
