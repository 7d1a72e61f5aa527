package tree

import (
	"errors"
	"fmt"
)

var (
	// ErrStaleHandle indicates an operation received a handle whose slot has
	// been freed (or freed and reused). Accessors report this as a missing
	// node; operations that must fail loudly return this error.
	ErrStaleHandle = errors.New("tree: stale or invalid handle")

	// ErrNilDescription indicates a nil description was handed to the engine.
	ErrNilDescription = errors.New("tree: nil description")

	// ErrNotProvider indicates a dependency operation targeted a node that is
	// not a provider.
	ErrNotProvider = errors.New("tree: node is not a provider")
)

// PhaseError reports a lifecycle violation: an operation attempted on a node
// in the wrong phase. It indicates a dangling reference or a sequencing bug
// in the embedding framework, so it is surfaced rather than ignored.
type PhaseError struct {
	Handle Handle
	Op     string
	Want   Phase
	Got    Phase
}

func (e *PhaseError) Error() string {
	return fmt.Sprintf("tree: %s on %s: node is %s, want %s", e.Op, e.Handle, e.Got, e.Want)
}
