package tree

// Arena is the single owner of all nodes in one element tree. Storage is
// dense: freed slots go on a free list and are reused by later insertions,
// with a per-slot generation counter so stale handles are detected instead of
// resolving to the new occupant.
//
// All accessors validate the generation and report "not found" for stale
// handles; no method panics on a bad handle.
//
// NOT thread-safe. The build owner serializes access.
type Arena struct {
	slots    []arenaSlot
	free     []uint32
	live     int
	inserted uint64
	removed  uint64
}

type arenaSlot struct {
	// generation starts at 1 (so the zero Handle is never valid) and is
	// bumped every time the slot is freed.
	generation uint32
	occupied   bool
	node       *Node
}

// ArenaStats is a snapshot of arena occupancy.
type ArenaStats struct {
	Live     int    // currently occupied slots
	Free     int    // slots on the free list
	Capacity int    // total slots ever allocated
	Inserted uint64 // lifetime insert count
	Removed  uint64 // lifetime remove count
}

// NewArena creates an arena with capacity preallocated for capHint nodes.
func NewArena(capHint int) *Arena {
	if capHint < 0 {
		capHint = 0
	}
	return &Arena{
		slots: make([]arenaSlot, 0, capHint),
		free:  make([]uint32, 0, capHint/4),
	}
}

// Insert stores the node and returns its handle. The node's own Handle field
// is set so lifecycle callbacks can identify it. O(1) amortized.
func (a *Arena) Insert(n *Node) Handle {
	var idx uint32
	if len(a.free) > 0 {
		idx = a.free[len(a.free)-1]
		a.free = a.free[:len(a.free)-1]
	} else {
		a.slots = append(a.slots, arenaSlot{generation: 1})
		idx = uint32(len(a.slots) - 1)
	}
	s := &a.slots[idx]
	s.occupied = true
	s.node = n
	h := Handle{index: idx, generation: s.generation}
	n.self = h
	a.live++
	a.inserted++
	return h
}

// Get returns the node for h, or ok=false when the handle is zero, stale, or
// out of range.
func (a *Arena) Get(h Handle) (*Node, bool) {
	if h.IsZero() || int(h.index) >= len(a.slots) {
		return nil, false
	}
	s := &a.slots[h.index]
	if !s.occupied || s.generation != h.generation {
		return nil, false
	}
	return s.node, true
}

// Remove frees the slot for h and returns the evicted node. Removing with a
// stale handle is a no-op reporting ok=false. The slot's generation is bumped
// so the freed handle can never resolve again. O(1).
func (a *Arena) Remove(h Handle) (*Node, bool) {
	n, ok := a.Get(h)
	if !ok {
		return nil, false
	}
	s := &a.slots[h.index]
	s.occupied = false
	s.node = nil
	s.generation++
	a.free = append(a.free, h.index)
	a.live--
	a.removed++
	return n, true
}

// Len returns the number of live nodes.
func (a *Arena) Len() int { return a.live }

// Cap returns the total number of slots ever allocated, live or free.
func (a *Arena) Cap() int { return len(a.slots) }

// Stats returns an occupancy snapshot.
func (a *Arena) Stats() ArenaStats {
	return ArenaStats{
		Live:     a.live,
		Free:     len(a.free),
		Capacity: len(a.slots),
		Inserted: a.inserted,
		Removed:  a.removed,
	}
}
