package sched

import (
	"github.com/joshuapare/treekit/tree"
	"github.com/joshuapare/treekit/tree/provide"
)

// buildContext implements tree.BuildContext for one node's Build call. It is
// only valid while the pass that created it is rebuilding that node.
type buildContext struct {
	owner *Owner
	self  tree.Handle
}

func (c *buildContext) Self() tree.Handle { return c.self }

func (c *buildContext) AncestorProvider(typeName string) (tree.Handle, bool) {
	n, ok := c.owner.arena.Get(c.self)
	if !ok {
		return tree.Handle{}, false
	}
	for cur := n.Parent(); !cur.IsZero(); {
		pn, ok := c.owner.arena.Get(cur)
		if !ok {
			break
		}
		if pn.Kind() == tree.KindProvider && pn.Description().TypeName() == typeName {
			return cur, true
		}
		cur = pn.Parent()
	}
	return tree.Handle{}, false
}

func (c *buildContext) DependOn(provider tree.Handle, aspect any) error {
	return provide.Register(hostView{c.owner}, provider, c.self, aspect)
}

func (c *buildContext) Peek(provider tree.Handle) (any, bool) {
	n, ok := c.owner.arena.Get(provider)
	if !ok {
		return nil, false
	}
	pd, ok := n.Description().(tree.ProviderDescription)
	if !ok {
		return nil, false
	}
	return pd.ProvidedValue(), true
}

// notifyIn runs provider notification with the pass's unlocked tree view, so
// hooks and builds running inside the flush can fan out dirty marks.
func notifyIn(o *Owner, s provide.Scheduler, provider tree.Handle, old, new any) (int, error) {
	return provide.Notify(hostView{o}, s, provider, old, new)
}
