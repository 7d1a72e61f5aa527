package tree

// Description is the immutable declarative input consumed by reconciliation.
// The declarative layer regenerates descriptions every frame; the element
// tree decides which existing nodes can absorb the new descriptions and which
// must be created or torn down.
//
// Implementations must be cheap to construct and must never be mutated after
// being handed to the engine.
type Description interface {
	// Key returns the identity key, or the zero Key for positional identity.
	Key() Key

	// TypeName returns the concrete type identity used by the compatibility
	// check. Two descriptions with different TypeNames can never share a node.
	TypeName() string

	// Build produces the child descriptions for this description. Terminal
	// descriptions return nil.
	Build(ctx BuildContext) []Description
}

// LeafDescription marks descriptions that are terminal: Build always returns
// nil and the node is stored as KindLeaf, skipping child reconciliation.
type LeafDescription interface {
	Description

	// LeafNode is a marker method; it is never called.
	LeafNode()
}

// ProviderDescription is implemented by descriptions that expose a value to
// their descendants. Descendants that register interest (BuildContext.DependOn)
// are scheduled for rebuild when the value changes; descendants that merely
// Peek are not.
type ProviderDescription interface {
	Description

	// ProvidedValue returns the currently exposed value.
	ProvidedValue() any

	// ShouldNotify reports whether a change from old to new is meaningful.
	// When it returns false, no dependent is scheduled at all.
	ShouldNotify(old, new any) bool
}

// LifecycleHooks receives callbacks from the element lifecycle state machine.
// All callbacks are synchronous and run inside the build pass that caused the
// transition.
type LifecycleHooks interface {
	// OnActivate fires on Initial→Active (mount) and Inactive→Active
	// (reactivation).
	OnActivate(h Handle)

	// OnDeactivate fires on Active→Inactive.
	OnDeactivate(h Handle)

	// OnDispose fires once when the node becomes Defunct. The handle is
	// invalid by the time the callback returns.
	OnDispose(h Handle)
}

// StatefulDescription lets a description attach persistent-state lifecycle
// hooks to the node created for it. Hooks is consulted once, at inflate time.
type StatefulDescription interface {
	Description

	Hooks() LifecycleHooks
}

// Equaler is an optional fast-path: when the new description reports Equal to
// the node's current one and the node is not otherwise dirty, the subtree
// rebuild is skipped and only the slot is updated. Descriptions that do not
// implement Equaler are always rebuilt on update.
type Equaler interface {
	Equal(other Description) bool
}

// BuildContext is handed to Description.Build. It exposes the read-only
// ancestor navigation and dependency registration a building description may
// perform. It is only valid for the duration of the Build call.
type BuildContext interface {
	// Self returns the handle of the node being built.
	Self() Handle

	// AncestorProvider walks up the tree and returns the nearest provider
	// node whose description has the given TypeName.
	AncestorProvider(typeName string) (Handle, bool)

	// DependOn registers the building node as a dependent of the provider.
	// The aspect tag is stored with the registration and is reserved for
	// partial-dependency granularity; pass nil when unused.
	DependOn(provider Handle, aspect any) error

	// Peek returns the provider's current value without registering a
	// dependency. Peek reads are never notified on change.
	Peek(provider Handle) (any, bool)
}

// CanUpdate reports whether an existing node built from old can absorb next:
// the concrete types must match and the keys must match, where an absent key
// only matches an absent key.
func CanUpdate(old, next Description) bool {
	if old == nil || next == nil {
		return false
	}
	return old.TypeName() == next.TypeName() && old.Key() == next.Key()
}
