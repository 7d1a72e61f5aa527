package reconcile

import (
	"fmt"

	"github.com/joshuapare/treekit/tree"
)

// UpdateChildren reconciles the existing ordered children of parent against
// the new ordered descriptions and returns the resulting ordered child
// handles. Reused nodes are updated in place; unmatched old nodes are
// deactivated into the pass's holding set; new descriptions with no match get
// fresh nodes.
//
// The caller (the build owner) stores the returned slice as the parent's
// child list.
func UpdateChildren(host Host, parent tree.Handle, old []tree.Handle, next []tree.Description) ([]tree.Handle, error) {
	if err := checkDuplicateKeys(next); err != nil {
		return nil, err
	}

	// Empty-list short circuits: deactivate all / create all.
	if len(next) == 0 {
		for _, h := range old {
			if err := deactivateIfOwned(host, parent, h); err != nil {
				return nil, err
			}
		}
		return nil, nil
	}

	result := make([]tree.Handle, len(next))

	oldHead, newHead := 0, 0
	oldTail, newTail := len(old)-1, len(next)-1

	// Phase 1: scan from the start while reusable.
	for oldHead <= oldTail && newHead <= newTail {
		if !reusable(host, parent, old[oldHead], next[newHead]) {
			break
		}
		h := old[oldHead]
		if err := host.UpdateChild(h, next[newHead]); err != nil {
			return nil, err
		}
		result[newHead] = h
		oldHead++
		newHead++
	}

	// Phase 2: scan from the end while reusable.
	for oldTail >= oldHead && newTail >= newHead {
		if !reusable(host, parent, old[oldTail], next[newTail]) {
			break
		}
		h := old[oldTail]
		if err := host.UpdateChild(h, next[newTail]); err != nil {
			return nil, err
		}
		result[newTail] = h
		oldTail--
		newTail--
	}

	// Phase 3: index the keyed middle of the old list, then resolve each
	// remaining new description against it.
	var middle map[tree.Key]tree.Handle
	for i := oldHead; i <= oldTail; i++ {
		h := old[i]
		n, ok := host.Node(h)
		if !ok {
			// Stale old child: nothing left to park or reuse.
			continue
		}
		if n.Parent() != parent {
			// Already adopted under another parent this pass; it is not
			// ours to reuse or deactivate anymore.
			continue
		}
		k := n.Description().Key()
		if k.IsZero() {
			// Unkeyed nodes are only reusable positionally, and the
			// positional matches were exhausted by phases 1-2.
			if err := host.DeactivateChild(h); err != nil {
				return nil, err
			}
			continue
		}
		if middle == nil {
			middle = make(map[tree.Key]tree.Handle, oldTail-i+1)
		}
		if _, dup := middle[k]; dup {
			return nil, &DuplicateKeyError{Key: k}
		}
		middle[k] = h
	}

	for i := newHead; i <= newTail; i++ {
		d := next[i]
		if k := d.Key(); !k.IsZero() {
			if h, ok := middle[k]; ok && reusable(host, parent, h, d) {
				delete(middle, k)
				if err := host.UpdateChild(h, d); err != nil {
					return nil, err
				}
				result[i] = h
				continue
			}
			if k.Global {
				if h, ok := host.ResolveGlobal(k); ok && compatible(host, h, d) {
					if err := host.AdoptChild(h, parent, d); err != nil {
						return nil, err
					}
					result[i] = h
					continue
				}
			}
		}
		h, err := host.InflateChild(parent, d)
		if err != nil {
			return nil, err
		}
		result[i] = h
	}

	// Keyed old nodes no new description claimed.
	for _, h := range middle {
		if err := deactivateIfOwned(host, parent, h); err != nil {
			return nil, err
		}
	}

	// Phase 4: assign slots in a single left-to-right pass.
	prev := tree.Handle{}
	for i, h := range result {
		n, ok := host.Node(h)
		if !ok {
			return nil, fmt.Errorf("reconcile: finalize child %d (%s): %w", i, h, tree.ErrStaleHandle)
		}
		n.SetSlot(tree.Slot{Position: i, PreviousSibling: prev})
		prev = h
	}

	return result, nil
}

// checkDuplicateKeys rejects ambiguous identities among the new descriptions
// before any mutation happens.
func checkDuplicateKeys(next []tree.Description) error {
	var seen map[tree.Key]struct{}
	for _, d := range next {
		if d == nil {
			return tree.ErrNilDescription
		}
		k := d.Key()
		if k.IsZero() {
			continue
		}
		if seen == nil {
			seen = make(map[tree.Key]struct{}, len(next))
		}
		if _, dup := seen[k]; dup {
			return &DuplicateKeyError{Key: k}
		}
		seen[k] = struct{}{}
	}
	return nil
}

// compatible reports whether the node at h can absorb d: same concrete type
// and same key, with absent keys only matching absent keys.
func compatible(host Host, h tree.Handle, d tree.Description) bool {
	n, ok := host.Node(h)
	if !ok {
		return false
	}
	return tree.CanUpdate(n.Description(), d)
}

// reusable reports whether the old child at h is still attached under parent
// and can absorb d. A node whose parent changed mid-pass was adopted by
// another subtree and must not be matched again here.
func reusable(host Host, parent, h tree.Handle, d tree.Description) bool {
	n, ok := host.Node(h)
	if !ok {
		return false
	}
	return n.Parent() == parent && tree.CanUpdate(n.Description(), d)
}

// deactivateIfOwned deactivates the old child at h unless it went stale or
// was reparented elsewhere during this pass.
func deactivateIfOwned(host Host, parent, h tree.Handle) error {
	n, ok := host.Node(h)
	if !ok || n.Parent() != parent {
		return nil
	}
	return host.DeactivateChild(h)
}
