// Package reconcile implements the keyed child-list diffing algorithm that
// decides, for one parent node, which existing children are reused in place,
// which are newly created, and which are deactivated.
//
// # Algorithm
//
// UpdateChildren runs four phases, each an attempt to avoid the general
// quadratic case:
//
//  1. Scan forward from the heads of both lists while the old child and new
//     description are compatible, updating in place. This handles the common
//     append/remove-at-end case with zero map overhead.
//  2. Scan backward from the tails, symmetrically, handling prepends and
//     removals at the front.
//  3. Index the remaining middle of old children by key. Unkeyed old children
//     are only reusable positionally and were exhausted by phases 1–2, so
//     they are deactivated. Each remaining new description either claims a
//     keyed old child from the index, claims a node registered elsewhere
//     under a global key (reparenting), or inflates a fresh node. Keyed old
//     children left unclaimed are deactivated.
//  4. Assign Position and PreviousSibling to every resulting child in one
//     left-to-right pass, so the render-side structure can splice in O(1).
//
// Two nodes are compatible iff their concrete types match and their keys
// match; an absent key only matches an absent key at the same position.
// Duplicate keys among the new descriptions are reported as an error, never
// resolved silently. Old children whose parent changed mid-pass were adopted
// by another subtree through their global key and are neither reused nor
// deactivated here.
//
// The algorithm is O(n) in the common no-reorder case and O(n) average with
// keyed reordering (one hash map over the middle section).
//
// All tree mutation goes through the Host interface, implemented by the build
// owner in tree/sched; the package is testable against a fake host.
package reconcile
