package tree

// Kind is the closed set of node categories. Behavior differences between
// kinds are expressed as exhaustive switches rather than open interface
// hierarchies, keeping hot traversal paths free of indirection.
type Kind uint8

const (
	// KindComposite nodes build a list of child descriptions each pass.
	KindComposite Kind = iota

	// KindLeaf nodes are terminal: they never have children and skip child
	// reconciliation entirely.
	KindLeaf

	// KindProvider nodes are composites that additionally expose a value to
	// descendants and own a DependencyRecord.
	KindProvider
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindComposite:
		return "Composite"
	case KindLeaf:
		return "Leaf"
	case KindProvider:
		return "Provider"
	}
	return "Unknown"
}

// KindOf derives the node kind for a description. Provider takes precedence
// over the leaf marker: a provider always participates in child building.
func KindOf(d Description) Kind {
	if _, ok := d.(ProviderDescription); ok {
		return KindProvider
	}
	if _, ok := d.(LeafDescription); ok {
		return KindLeaf
	}
	return KindComposite
}

// Node is the mutable, persistent counterpart to one declarative description.
//
// Nodes are owned by an Arena and referenced through Handles. All lifecycle
// transitions go through the Mount/Deactivate/Reactivate/Finalize methods,
// which enforce the state machine and fire the attached hooks.
//
// NOT thread-safe. Mutation requires the exclusive tree access held by an
// active build pass.
type Node struct {
	self     Handle
	desc     Description
	kind     Kind
	phase    Phase
	parent   Handle
	depth    int
	children []Handle
	slot     Slot
	hooks    LifecycleHooks

	// deps is the dependency record for provider nodes, nil otherwise.
	deps *DependencyRecord

	// providerRefs lists the providers this node registered with, so teardown
	// can remove the reverse entries.
	providerRefs []Handle
}

// NewNode creates a node in PhaseInitial for the given description. The node
// has no handle until it is inserted into an Arena.
func NewNode(d Description) *Node {
	n := &Node{
		desc: d,
		kind: KindOf(d),
	}
	if n.kind == KindProvider {
		n.deps = NewDependencyRecord()
	}
	if sd, ok := d.(StatefulDescription); ok {
		n.hooks = sd.Hooks()
	}
	return n
}

// Handle returns the node's own handle (zero until inserted into an Arena).
func (n *Node) Handle() Handle { return n.self }

// Description returns the node's current declarative description.
func (n *Node) Description() Description { return n.desc }

// SetDescription replaces the description after a successful compatibility
// check during reconciliation.
func (n *Node) SetDescription(d Description) { n.desc = d }

// Kind returns the node's category.
func (n *Node) Kind() Kind { return n.kind }

// Phase returns the node's lifecycle phase.
func (n *Node) Phase() Phase { return n.phase }

// Parent returns the parent handle (zero for the root).
func (n *Node) Parent() Handle { return n.parent }

// Depth returns the node's distance from the root (root is 0).
func (n *Node) Depth() int { return n.depth }

// SetDepth rewrites the depth. Used by the build owner when a subtree is
// reparented through a global key.
func (n *Node) SetDepth(d int) { n.depth = d }

// Children returns the ordered child handles. The returned slice is the
// node's own storage; callers must not modify it.
func (n *Node) Children() []Handle { return n.children }

// SetChildren replaces the ordered child handles after reconciliation.
func (n *Node) SetChildren(c []Handle) { n.children = c }

// Slot returns the node's position descriptor among its siblings.
func (n *Node) Slot() Slot { return n.slot }

// SetSlot assigns the position descriptor. Written by reconciliation's
// finalize phase in a single left-to-right pass.
func (n *Node) SetSlot(s Slot) { n.slot = s }

// Dependencies returns the provider's dependency record, or nil when the node
// is not a provider.
func (n *Node) Dependencies() *DependencyRecord { return n.deps }

// ProviderRefs returns the providers this node registered with.
func (n *Node) ProviderRefs() []Handle { return n.providerRefs }

// AddProviderRef records that this node registered as a dependent of the
// given provider. Duplicate refs are collapsed.
func (n *Node) AddProviderRef(provider Handle) {
	for _, h := range n.providerRefs {
		if h == provider {
			return
		}
	}
	n.providerRefs = append(n.providerRefs, provider)
}

// Mount transitions Initial→Active, attaching the node under parent at the
// given depth, and fires OnActivate.
func (n *Node) Mount(parent Handle, depth int) error {
	if n.phase != PhaseInitial {
		return &PhaseError{Handle: n.self, Op: "mount", Want: PhaseInitial, Got: n.phase}
	}
	n.parent = parent
	n.depth = depth
	n.phase = PhaseActive
	if n.hooks != nil {
		n.hooks.OnActivate(n.self)
	}
	return nil
}

// Deactivate transitions Active→Inactive and fires OnDeactivate. The node is
// expected to be parked in the pass's holding set by the caller.
func (n *Node) Deactivate() error {
	if n.phase != PhaseActive {
		return &PhaseError{Handle: n.self, Op: "deactivate", Want: PhaseActive, Got: n.phase}
	}
	n.phase = PhaseInactive
	if n.hooks != nil {
		n.hooks.OnDeactivate(n.self)
	}
	return nil
}

// Reactivate transitions Inactive→Active, splicing the node back in under a
// (possibly different) parent, and fires OnActivate.
func (n *Node) Reactivate(parent Handle, depth int) error {
	if n.phase != PhaseInactive {
		return &PhaseError{Handle: n.self, Op: "reactivate", Want: PhaseInactive, Got: n.phase}
	}
	n.parent = parent
	n.depth = depth
	n.phase = PhaseActive
	if n.hooks != nil {
		n.hooks.OnActivate(n.self)
	}
	return nil
}

// Finalize transitions Inactive→Defunct (end-of-pass teardown) or
// Active→Defunct (direct teardown with no chance of reuse) and fires
// OnDispose. The caller removes the node from the arena afterwards.
func (n *Node) Finalize() error {
	if n.phase != PhaseInactive && n.phase != PhaseActive {
		return &PhaseError{Handle: n.self, Op: "finalize", Want: PhaseInactive, Got: n.phase}
	}
	n.phase = PhaseDefunct
	if n.hooks != nil {
		n.hooks.OnDispose(n.self)
	}
	return nil
}
