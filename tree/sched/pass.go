package sched

import "github.com/joshuapare/treekit/tree"

// Pass is the scheduling handle given to the BuildScope callback. Scheduling
// through the Pass merges into the flush the scope is about to perform (or is
// performing). A Pass is only valid until its BuildScope returns.
type Pass struct {
	owner *Owner
	ended bool
}

// ScheduleBuildFor marks the node dirty within the active pass. Same
// contracts as Owner.ScheduleBuildFor.
func (p *Pass) ScheduleBuildFor(h tree.Handle) error {
	if p.ended {
		return ErrPassEnded
	}
	n, ok := p.owner.arena.Get(h)
	if !ok {
		return tree.ErrStaleHandle
	}
	return p.owner.schedule(h, n)
}

// NotifyProvider is the in-pass variant of Owner.NotifyProvider: dependents
// scheduled here are rebuilt by the same flush.
func (p *Pass) NotifyProvider(provider tree.Handle, old, new any) (int, error) {
	if p.ended {
		return 0, ErrPassEnded
	}
	return notifyIn(p.owner, p, provider, old, new)
}
