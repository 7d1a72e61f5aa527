package tree

import "fmt"

// Key identifies a description among its siblings, or, when Global is set,
// across the whole tree.
//
// Value must be a comparable type (it is used as a map key). A zero Key means
// the description is unkeyed and only matches positionally during
// reconciliation: an absent key never matches an explicit one.
type Key struct {
	Value  any
	Global bool
}

// LocalKey returns a sibling-scoped key wrapping v.
func LocalKey(v any) Key {
	return Key{Value: v}
}

// GlobalKey returns a tree-wide key wrapping v. Global keys additionally
// support reparenting: a node registered under a global key can be claimed by
// a matching description under a different parent in the same build pass.
func GlobalKey(v any) Key {
	return Key{Value: v, Global: true}
}

// IsZero reports whether k is the absent key.
func (k Key) IsZero() bool {
	return k.Value == nil
}

// String renders the key for logs and errors.
func (k Key) String() string {
	if k.IsZero() {
		return "key(none)"
	}
	if k.Global {
		return fmt.Sprintf("globalkey(%v)", k.Value)
	}
	return fmt.Sprintf("key(%v)", k.Value)
}
