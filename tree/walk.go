package tree

import "fmt"

// ChildrenOf returns a copy of the ordered child handles of h. ok=false when
// the handle is stale.
func ChildrenOf(a *Arena, h Handle) ([]Handle, bool) {
	n, ok := a.Get(h)
	if !ok {
		return nil, false
	}
	kids := n.Children()
	out := make([]Handle, len(kids))
	copy(out, kids)
	return out, true
}

// ParentOf returns the parent handle of h (zero for the root). ok=false when
// the handle is stale.
func ParentOf(a *Arena, h Handle) (Handle, bool) {
	n, ok := a.Get(h)
	if !ok {
		return Handle{}, false
	}
	return n.Parent(), true
}

// DepthOf returns the depth of h (root is 0). ok=false when the handle is
// stale.
func DepthOf(a *Arena, h Handle) (int, bool) {
	n, ok := a.Get(h)
	if !ok {
		return 0, false
	}
	return n.Depth(), true
}

// Walk visits the subtree rooted at root depth-first, pre-order. fn returns
// false to prune descent below the visited node. Stale handles encountered in
// child lists are skipped.
func Walk(a *Arena, root Handle, fn func(h Handle, depth int) bool) {
	n, ok := a.Get(root)
	if !ok {
		return
	}
	if !fn(root, n.Depth()) {
		return
	}
	for _, c := range n.Children() {
		Walk(a, c, fn)
	}
}

// Verify checks structural invariants of the subtree rooted at root:
// parent/child symmetry, depth monotonicity, slot positions matching child
// order with correct previous-sibling links, and Active phase for every
// attached node. It returns the first violation found, or nil.
func Verify(a *Arena, root Handle) error {
	rn, ok := a.Get(root)
	if !ok {
		return fmt.Errorf("tree: verify: root %s: %w", root, ErrStaleHandle)
	}
	return verifyNode(a, root, rn)
}

func verifyNode(a *Arena, h Handle, n *Node) error {
	if n.Phase() != PhaseActive {
		return fmt.Errorf("tree: verify: %s attached but %s", h, n.Phase())
	}
	prev := Handle{}
	for i, c := range n.Children() {
		cn, ok := a.Get(c)
		if !ok {
			return fmt.Errorf("tree: verify: %s child %d (%s): %w", h, i, c, ErrStaleHandle)
		}
		if cn.Parent() != h {
			return fmt.Errorf("tree: verify: %s child %s has parent %s", h, c, cn.Parent())
		}
		if cn.Depth() != n.Depth()+1 {
			return fmt.Errorf("tree: verify: %s child %s depth %d, want %d", h, c, cn.Depth(), n.Depth()+1)
		}
		if cn.Slot().Position != i {
			return fmt.Errorf("tree: verify: %s child %s position %d, want %d", h, c, cn.Slot().Position, i)
		}
		if cn.Slot().PreviousSibling != prev {
			return fmt.Errorf("tree: verify: %s child %s previous sibling %s, want %s",
				h, c, cn.Slot().PreviousSibling, prev)
		}
		if err := verifyNode(a, c, cn); err != nil {
			return err
		}
		prev = c
	}
	return nil
}
