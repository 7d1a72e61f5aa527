package reconcile

import (
	"errors"
	"fmt"

	"github.com/joshuapare/treekit/tree"
)

// ErrDuplicateKey matches any DuplicateKeyError via errors.Is.
var ErrDuplicateKey = errors.New("reconcile: duplicate key among siblings")

// DuplicateKeyError reports two sibling descriptions carrying the same
// explicit key in one reconciliation pass. The identity is ambiguous, which
// indicates an application bug, so it is surfaced instead of tie-breaking.
type DuplicateKeyError struct {
	Key tree.Key
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("reconcile: duplicate %s among siblings", e.Key)
}

func (e *DuplicateKeyError) Is(target error) bool {
	return target == ErrDuplicateKey
}
