package provide

import (
	"errors"
	"fmt"

	"github.com/joshuapare/treekit/tree"
)

// Tree is the read surface Notify and Register need: handle resolution with
// stale-handle detection.
type Tree interface {
	Node(h tree.Handle) (*tree.Node, bool)
}

// Scheduler marks a node as needing rebuild. Implemented by the build owner
// and by the in-pass scheduling handle in tree/sched.
type Scheduler interface {
	ScheduleBuildFor(h tree.Handle) error
}

// Register adds dependent to the provider's dependency record, refreshing the
// aspect tag if already present, and records the reverse edge on the
// dependent so teardown can unregister it.
func Register(t Tree, provider, dependent tree.Handle, aspect any) error {
	pn, ok := t.Node(provider)
	if !ok {
		return fmt.Errorf("provide: register with provider %s: %w", provider, tree.ErrStaleHandle)
	}
	rec := pn.Dependencies()
	if rec == nil {
		return fmt.Errorf("provide: register with %s: %w", provider, tree.ErrNotProvider)
	}
	dn, ok := t.Node(dependent)
	if !ok {
		return fmt.Errorf("provide: register dependent %s: %w", dependent, tree.ErrStaleHandle)
	}
	rec.Add(dependent, aspect)
	dn.AddProviderRef(provider)
	return nil
}

// Unregister removes dependent from the provider's record. Missing entries
// are a no-op.
func Unregister(t Tree, provider, dependent tree.Handle) {
	pn, ok := t.Node(provider)
	if !ok {
		return
	}
	if rec := pn.Dependencies(); rec != nil {
		rec.Remove(dependent)
	}
}

// Notify reacts to the provider's exposed value changing from old to new.
//
// When the provider's ShouldNotify predicate reports the change is not
// meaningful, Notify returns (0, nil) without touching the scheduler.
// Otherwise every registered dependent is scheduled dirty; dependents whose
// handles have gone stale are skipped (they are pruned at finalization).
// Returns the number of dependents actually scheduled.
func Notify(t Tree, s Scheduler, provider tree.Handle, old, new any) (int, error) {
	pn, ok := t.Node(provider)
	if !ok {
		return 0, fmt.Errorf("provide: notify %s: %w", provider, tree.ErrStaleHandle)
	}
	pd, ok := pn.Description().(tree.ProviderDescription)
	if !ok {
		return 0, fmt.Errorf("provide: notify %s: %w", provider, tree.ErrNotProvider)
	}
	if !pd.ShouldNotify(old, new) {
		return 0, nil
	}
	rec := pn.Dependencies()
	if rec == nil {
		return 0, nil
	}
	count := 0
	var firstErr error
	rec.Each(func(dep tree.Handle, _ any) bool {
		if err := s.ScheduleBuildFor(dep); err != nil {
			if errors.Is(err, tree.ErrStaleHandle) {
				return true
			}
			firstErr = err
			return false
		}
		count++
		return true
	})
	return count, firstErr
}
