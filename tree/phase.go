package tree

// Phase is the lifecycle state of a node.
type Phase uint8

const (
	// PhaseInitial is the state of a freshly created node, before mount.
	PhaseInitial Phase = iota

	// PhaseActive means the node is attached to the tree and may be rebuilt.
	PhaseActive

	// PhaseInactive means the node was removed from its parent's child list
	// during the current build pass and is parked in the holding set. It is
	// either reactivated later in the same pass or finalized to Defunct.
	PhaseInactive

	// PhaseDefunct means the node has been permanently torn down. Its handle
	// is invalid and any further use is a lifecycle violation.
	PhaseDefunct
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case PhaseInitial:
		return "Initial"
	case PhaseActive:
		return "Active"
	case PhaseInactive:
		return "Inactive"
	case PhaseDefunct:
		return "Defunct"
	}
	return "Unknown"
}
