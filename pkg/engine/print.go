package engine

import (
	"fmt"
	"io"
	"strings"

	"github.com/joshuapare/treekit/tree"
)

// DumpOptions controls DebugDump output.
type DumpOptions struct {
	// MaxDepth limits recursion depth. 0 means unlimited.
	MaxDepth int

	// ShowSlots includes each node's position and previous-sibling link.
	ShowSlots bool
}

// DebugDump writes an indented rendering of the tree: one line per node with
// handle, kind, type name, key, and depth. Intended for debugging and test
// failure output, not machine consumption.
//
// Example output:
//
//	handle(1@1) Composite App
//	  handle(2@1) Provider Theme globalkey(theme)
//	    handle(3@1) Leaf Text key(title)
func (e *Engine) DebugDump(w io.Writer, opts DumpOptions) error {
	var err error
	e.owner.Read(func(a *tree.Arena) {
		rootDepth, _ := tree.DepthOf(a, e.root)
		tree.Walk(a, e.root, func(h tree.Handle, depth int) bool {
			if opts.MaxDepth > 0 && depth-rootDepth >= opts.MaxDepth {
				return false
			}
			n, ok := a.Get(h)
			if !ok {
				return false
			}
			line := fmt.Sprintf("%s%s %s %s",
				strings.Repeat("  ", depth-rootDepth), h, n.Kind(), n.Description().TypeName())
			if k := n.Description().Key(); !k.IsZero() {
				line += " " + k.String()
			}
			if opts.ShowSlots {
				s := n.Slot()
				line += fmt.Sprintf(" [pos=%d prev=%s]", s.Position, s.PreviousSibling)
			}
			if _, werr := fmt.Fprintln(w, line); werr != nil {
				err = werr
				return false
			}
			return true
		})
	})
	return err
}
