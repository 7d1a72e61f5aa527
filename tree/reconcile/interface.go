package reconcile

import "github.com/joshuapare/treekit/tree"

// Host is the mutation surface reconciliation drives. The build owner
// implements it; tests use a fake.
//
// All methods are called with exclusive tree access held by the active build
// pass.
type Host interface {
	// Node resolves a handle, reporting ok=false for stale handles.
	Node(h tree.Handle) (*tree.Node, bool)

	// InflateChild creates, mounts, and recursively builds a new node for d
	// under parent.
	InflateChild(parent tree.Handle, d tree.Description) (tree.Handle, error)

	// UpdateChild gives an existing compatible node its new description and
	// rebuilds its subtree (subject to the Equaler fast path).
	UpdateChild(h tree.Handle, d tree.Description) error

	// DeactivateChild moves the subtree rooted at h into the pass's holding
	// set (Active→Inactive).
	DeactivateChild(h tree.Handle) error

	// ResolveGlobal returns the live node registered under a global key.
	ResolveGlobal(k tree.Key) (tree.Handle, bool)

	// AdoptChild reparents a global-keyed node under parent and updates it
	// with d. The node may be parked in the holding set or still active
	// under its old parent.
	AdoptChild(h, parent tree.Handle, d tree.Description) error
}
