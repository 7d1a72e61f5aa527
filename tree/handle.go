package tree

import "fmt"

// Handle is a generational reference to a node in an Arena.
//
// The zero Handle never refers to a live node. A Handle stays valid until the
// node it names is removed; if the underlying slot is later reused, the stale
// Handle fails the generation check and lookups report "not found".
type Handle struct {
	index      uint32
	generation uint32
}

// IsZero reports whether h is the zero Handle (refers to nothing).
func (h Handle) IsZero() bool {
	return h.generation == 0
}

// String renders the handle as "index@generation" for logs and errors.
func (h Handle) String() string {
	if h.IsZero() {
		return "handle(nil)"
	}
	return fmt.Sprintf("handle(%d@%d)", h.index, h.generation)
}

// Slot describes where a node sits among its siblings.
//
// PreviousSibling references the node immediately before this one in the
// parent's child order (zero Handle for the first child). It lets the
// render-side structure splice a node after its predecessor in O(1) without
// rescanning the sibling list.
type Slot struct {
	Position        int
	PreviousSibling Handle
}
