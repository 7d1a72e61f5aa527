// Package tree provides the core data model for the element tree: generational
// handles, the arena that owns all nodes, the element lifecycle state machine,
// and the contracts consumed from the declarative-description layer.
//
// # Overview
//
// A retained element tree mirrors an immutable tree of declarative
// descriptions. Each mutable node ("element") is owned by an Arena and is
// referred to exclusively through generational Handles. A Handle is valid only
// while the slot it points at is occupied with a matching generation; after
// the node is removed (and even after the slot is reused), lookups with the
// old Handle report "not found" instead of returning a different node.
//
// # Lifecycle
//
// Every node moves through a strict state machine:
//
//	Initial ──► Active ──► Inactive ──► Defunct
//	               │            │
//	               │            └──► Active (reactivated in the same pass)
//	               └──► Defunct (direct teardown)
//
// Transitions are enforced by the Node methods (Mount, Deactivate,
// Reactivate, Finalize); an out-of-order transition returns a *PhaseError
// rather than silently proceeding or panicking.
//
// # Collaborators
//
// The declarative layer supplies Description values (immutable, regenerated
// per frame). The persistent-state layer attaches LifecycleHooks through
// StatefulDescription. Provider descriptions additionally expose a value to
// descendants via ProviderDescription; the bookkeeping for who depends on a
// provider lives in DependencyRecord and is driven by the tree/provide
// package.
//
// Reconciliation of child lists lives in tree/reconcile, and scheduling of
// rebuild work in tree/sched. A high-level facade is provided by pkg/engine.
package tree
