package sched

import "github.com/joshuapare/treekit/tree"

// RegisterGlobalKey records h as the live owner of the global key k. A second
// live registration for the same key is a reported conflict; the existing
// mapping is never overwritten. Nodes inflated from global-keyed descriptions
// register automatically; this is the external entry point.
func (o *Owner) RegisterGlobalKey(k tree.Key, h tree.Handle) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.registerGlobal(k, h)
}

// UnregisterGlobalKey removes the mapping for k. Missing mappings are a
// no-op. Called automatically when the owning node becomes Defunct.
func (o *Owner) UnregisterGlobalKey(k tree.Key) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if k.IsZero() || !k.Global {
		return
	}
	delete(o.globals, k.Value)
}

// ResolveGlobalKey returns the live node registered under k.
func (o *Owner) ResolveGlobalKey(k tree.Key) (tree.Handle, bool) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.resolveGlobal(k)
}

func (o *Owner) registerGlobal(k tree.Key, h tree.Handle) error {
	if k.IsZero() || !k.Global {
		return ErrNotGlobalKey
	}
	if cur, ok := o.globals[k.Value]; ok && cur != h {
		// A stale mapping (owner already removed) may be replaced; a live one
		// may not.
		if _, alive := o.arena.Get(cur); alive {
			return &DuplicateGlobalKeyError{Key: k, Existing: cur, Attempted: h}
		}
	}
	o.globals[k.Value] = h
	return nil
}

func (o *Owner) resolveGlobal(k tree.Key) (tree.Handle, bool) {
	if k.IsZero() || !k.Global {
		return tree.Handle{}, false
	}
	h, ok := o.globals[k.Value]
	if !ok {
		return tree.Handle{}, false
	}
	if _, alive := o.arena.Get(h); !alive {
		return tree.Handle{}, false
	}
	return h, true
}
