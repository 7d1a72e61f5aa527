package sched

import (
	"errors"
	"fmt"

	"github.com/joshuapare/treekit/tree"
)

var (
	// ErrReentrantScope indicates BuildScope was called while another scope
	// was already active. Nested passes would interleave conflicting rebuilds
	// and are rejected.
	ErrReentrantScope = errors.New("sched: build scope already active")

	// ErrRootMounted indicates MountRoot was called on an owner that already
	// has a root.
	ErrRootMounted = errors.New("sched: root already mounted")

	// ErrPassEnded indicates a *Pass was used after its BuildScope returned.
	ErrPassEnded = errors.New("sched: pass is no longer active")

	// ErrNotGlobalKey indicates a registry operation received a local or
	// absent key.
	ErrNotGlobalKey = errors.New("sched: key is not a global key")

	// ErrDuplicateGlobalKey matches any DuplicateGlobalKeyError via errors.Is.
	ErrDuplicateGlobalKey = errors.New("sched: global key already registered")
)

// DuplicateGlobalKeyError reports two live usages of one global key: either a
// registration colliding with a different live node, or a second claim of a
// key already consumed earlier in the same pass (Attempted is zero in that
// case). The existing mapping is preserved.
type DuplicateGlobalKeyError struct {
	Key       tree.Key
	Existing  tree.Handle
	Attempted tree.Handle
}

func (e *DuplicateGlobalKeyError) Error() string {
	return fmt.Sprintf("sched: %s already registered to %s (attempted %s)",
		e.Key, e.Existing, e.Attempted)
}

func (e *DuplicateGlobalKeyError) Is(target error) bool {
	return target == ErrDuplicateGlobalKey
}
