package reconcile_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/treekit/internal/testutil"
	"github.com/joshuapare/treekit/tree"
	"github.com/joshuapare/treekit/tree/reconcile"
)

// fakeHost implements reconcile.Host over a bare arena, without recursive
// building, so the algorithm's decisions are observable in isolation.
type fakeHost struct {
	a           *tree.Arena
	parent      tree.Handle
	globals     map[any]tree.Handle
	parked      map[tree.Handle]bool
	created     int
	updated     int
	deactivated int
}

func newFakeHost(t *testing.T) *fakeHost {
	t.Helper()
	a := tree.NewArena(16)
	rootN := tree.NewNode(testutil.Box{})
	root := a.Insert(rootN)
	require.NoError(t, rootN.Mount(tree.Handle{}, 0))
	return &fakeHost{
		a:       a,
		parent:  root,
		globals: make(map[any]tree.Handle),
		parked:  make(map[tree.Handle]bool),
	}
}

// seed inflates an initial child list without counting it as reconciliation
// activity.
func (f *fakeHost) seed(t *testing.T, descs ...tree.Description) []tree.Handle {
	t.Helper()
	out := make([]tree.Handle, len(descs))
	for i, d := range descs {
		h, err := f.InflateChild(f.parent, d)
		require.NoError(t, err)
		out[i] = h
	}
	f.created = 0
	return out
}

func (f *fakeHost) Node(h tree.Handle) (*tree.Node, bool) { return f.a.Get(h) }

func (f *fakeHost) InflateChild(parent tree.Handle, d tree.Description) (tree.Handle, error) {
	n := tree.NewNode(d)
	h := f.a.Insert(n)
	if k := d.Key(); k.Global && !k.IsZero() {
		f.globals[k.Value] = h
	}
	if err := n.Mount(parent, 1); err != nil {
		return tree.Handle{}, err
	}
	f.created++
	return h, nil
}

func (f *fakeHost) UpdateChild(h tree.Handle, d tree.Description) error {
	n, ok := f.a.Get(h)
	if !ok {
		return tree.ErrStaleHandle
	}
	n.SetDescription(d)
	f.updated++
	return nil
}

func (f *fakeHost) DeactivateChild(h tree.Handle) error {
	n, ok := f.a.Get(h)
	if !ok {
		return tree.ErrStaleHandle
	}
	f.parked[h] = true
	f.deactivated++
	return n.Deactivate()
}

func (f *fakeHost) ResolveGlobal(k tree.Key) (tree.Handle, bool) {
	h, ok := f.globals[k.Value]
	if !ok {
		return tree.Handle{}, false
	}
	if _, alive := f.a.Get(h); !alive {
		return tree.Handle{}, false
	}
	return h, true
}

func (f *fakeHost) AdoptChild(h, parent tree.Handle, d tree.Description) error {
	n, ok := f.a.Get(h)
	if !ok {
		return tree.ErrStaleHandle
	}
	delete(f.parked, h)
	if err := n.Reactivate(parent, 1); err != nil {
		return err
	}
	n.SetDescription(d)
	return nil
}

// texts renders the reconciled children as their Text payloads, for readable
// diffs.
func (f *fakeHost) texts(t *testing.T, hs []tree.Handle) []string {
	t.Helper()
	out := make([]string, len(hs))
	for i, h := range hs {
		n, ok := f.a.Get(h)
		require.True(t, ok, "child %d (%s) is stale", i, h)
		switch d := n.Description().(type) {
		case testutil.Text:
			out[i] = d.S
		default:
			out[i] = d.TypeName()
		}
	}
	return out
}

func keyedText(k, s string) testutil.Text {
	return testutil.Text{K: tree.LocalKey(k), S: s}
}

// Test_UpdateChildren_KeyedReorder reconciles [A,B,C] against [C,A,B] and
// requires all three original handles to survive, in the new order, with no
// creations or deactivations.
func Test_UpdateChildren_KeyedReorder(t *testing.T) {
	f := newFakeHost(t)
	old := f.seed(t, keyedText("a", "A"), keyedText("b", "B"), keyedText("c", "C"))

	got, err := reconcile.UpdateChildren(f, f.parent,
		old, []tree.Description{keyedText("c", "C"), keyedText("a", "A"), keyedText("b", "B")})
	require.NoError(t, err)

	assert.Equal(t, []tree.Handle{old[2], old[0], old[1]}, got)
	assert.Equal(t, 0, f.created, "reorder must not create nodes")
	assert.Equal(t, 0, f.deactivated, "reorder must not deactivate nodes")

	if diff := cmp.Diff([]string{"C", "A", "B"}, f.texts(t, got)); diff != "" {
		t.Errorf("child order mismatch (-want +got):\n%s", diff)
	}
}

// Test_UpdateChildren_PositionalReuse verifies unkeyed same-type children are
// updated in place.
func Test_UpdateChildren_PositionalReuse(t *testing.T) {
	f := newFakeHost(t)
	old := f.seed(t, testutil.Text{S: "x"}, testutil.Text{S: "y"})

	got, err := reconcile.UpdateChildren(f, f.parent,
		old, []tree.Description{testutil.Text{S: "x2"}, testutil.Text{S: "y2"}})
	require.NoError(t, err)

	assert.Equal(t, old, got, "both nodes must be reused in place")
	assert.Equal(t, 0, f.created)
	assert.Equal(t, []string{"x2", "y2"}, f.texts(t, got))
}

// Test_UpdateChildren_TypeChangeRecreates verifies a type change at the same
// position produces a fresh node and parks the old one.
func Test_UpdateChildren_TypeChangeRecreates(t *testing.T) {
	f := newFakeHost(t)
	old := f.seed(t, testutil.Text{S: "x"})

	got, err := reconcile.UpdateChildren(f, f.parent,
		old, []tree.Description{testutil.Image{Src: "pic"}})
	require.NoError(t, err)

	require.Len(t, got, 1)
	assert.NotEqual(t, old[0], got[0], "type change must not reuse the node")
	assert.Equal(t, 1, f.created)
	assert.True(t, f.parked[old[0]], "old node must be parked")

	oldN, ok := f.a.Get(old[0])
	require.True(t, ok)
	assert.Equal(t, tree.PhaseInactive, oldN.Phase())
}

// Test_UpdateChildren_AppendAndTrim exercises the phase-1 forward scan: the
// common append/remove-at-end cases touch no map and reuse every surviving
// node.
func Test_UpdateChildren_AppendAndTrim(t *testing.T) {
	f := newFakeHost(t)
	old := f.seed(t, keyedText("a", "A"), keyedText("b", "B"))

	// Append.
	got, err := reconcile.UpdateChildren(f, f.parent,
		old, []tree.Description{keyedText("a", "A"), keyedText("b", "B"), keyedText("c", "C")})
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, old, got[:2])
	assert.Equal(t, 1, f.created)

	// Trim the tail.
	f.created = 0
	got2, err := reconcile.UpdateChildren(f, f.parent,
		got, []tree.Description{keyedText("a", "A"), keyedText("b", "B")})
	require.NoError(t, err)
	assert.Equal(t, got[:2], got2)
	assert.Equal(t, 0, f.created)
	assert.True(t, f.parked[got[2]])
}

// Test_UpdateChildren_Prepend exercises the phase-2 backward scan.
func Test_UpdateChildren_Prepend(t *testing.T) {
	f := newFakeHost(t)
	old := f.seed(t, keyedText("a", "A"), keyedText("b", "B"))

	got, err := reconcile.UpdateChildren(f, f.parent,
		old, []tree.Description{keyedText("c", "C"), keyedText("a", "A"), keyedText("b", "B")})
	require.NoError(t, err)

	require.Len(t, got, 3)
	assert.Equal(t, old[0], got[1])
	assert.Equal(t, old[1], got[2])
	assert.Equal(t, 1, f.created)
	assert.Equal(t, 0, f.deactivated)
}

// Test_UpdateChildren_UnkeyedMiddleDeactivates verifies unkeyed nodes that
// fall into the keyed middle phase are parked, not reused out of position.
func Test_UpdateChildren_UnkeyedMiddleDeactivates(t *testing.T) {
	f := newFakeHost(t)
	old := f.seed(t, testutil.Text{S: "plain"}, keyedText("a", "A"))

	got, err := reconcile.UpdateChildren(f, f.parent,
		old, []tree.Description{keyedText("a", "A"), testutil.Text{S: "fresh"}})
	require.NoError(t, err)

	require.Len(t, got, 2)
	assert.Equal(t, old[1], got[0], "keyed node reused across positions")
	assert.True(t, f.parked[old[0]], "unkeyed middle node parked")
	assert.Equal(t, 1, f.created)
}

// Test_UpdateChildren_DuplicateKey verifies ambiguous identities are rejected
// before any mutation.
func Test_UpdateChildren_DuplicateKey(t *testing.T) {
	f := newFakeHost(t)
	old := f.seed(t, keyedText("a", "A"))

	_, err := reconcile.UpdateChildren(f, f.parent,
		old, []tree.Description{keyedText("dup", "1"), keyedText("dup", "2")})
	require.ErrorIs(t, err, reconcile.ErrDuplicateKey)

	var dke *reconcile.DuplicateKeyError
	require.ErrorAs(t, err, &dke)
	assert.Equal(t, tree.LocalKey("dup"), dke.Key)

	// Nothing was touched.
	n, ok := f.a.Get(old[0])
	require.True(t, ok)
	assert.Equal(t, tree.PhaseActive, n.Phase())
	assert.Equal(t, 0, f.created+f.updated+f.deactivated)
}

// Test_UpdateChildren_EmptyLists verifies the create-all / deactivate-all
// short circuits.
func Test_UpdateChildren_EmptyLists(t *testing.T) {
	f := newFakeHost(t)

	got, err := reconcile.UpdateChildren(f, f.parent, nil,
		[]tree.Description{keyedText("a", "A"), keyedText("b", "B")})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 2, f.created)

	got2, err := reconcile.UpdateChildren(f, f.parent, got, nil)
	require.NoError(t, err)
	assert.Nil(t, got2)
	assert.Equal(t, 2, f.deactivated)
}

// Test_UpdateChildren_GlobalKeyAdoption verifies a parked global-keyed node
// is claimed intact by a matching description under a different parent.
func Test_UpdateChildren_GlobalKeyAdoption(t *testing.T) {
	f := newFakeHost(t)
	gk := tree.GlobalKey("hero")
	old := f.seed(t, testutil.Text{K: gk, S: "hero"})

	// First parent releases it.
	_, err := reconcile.UpdateChildren(f, f.parent, old, nil)
	require.NoError(t, err)
	require.True(t, f.parked[old[0]])

	// A different parent claims it.
	otherN := tree.NewNode(testutil.Box{})
	other := f.a.Insert(otherN)
	require.NoError(t, otherN.Mount(tree.Handle{}, 0))

	got, err := reconcile.UpdateChildren(f, other, nil,
		[]tree.Description{testutil.Text{K: gk, S: "hero moved"}})
	require.NoError(t, err)

	require.Len(t, got, 1)
	assert.Equal(t, old[0], got[0], "global key must reparent the original node")
	assert.Equal(t, 0, f.created)

	n, ok := f.a.Get(got[0])
	require.True(t, ok)
	assert.Equal(t, tree.PhaseActive, n.Phase())
	assert.Equal(t, other, n.Parent())
}

// Test_UpdateChildren_MovedChildNotDeactivated reconciles a parent whose
// stale child list still names a node that another parent already claimed
// through its global key. The node belongs to its new parent now and must be
// left alone, not parked or rematched.
func Test_UpdateChildren_MovedChildNotDeactivated(t *testing.T) {
	f := newFakeHost(t)
	gk := tree.GlobalKey("hero")
	old := f.seed(t, keyedText("a", "A"), testutil.Text{K: gk, S: "hero"})

	// Another parent claimed the keyed node earlier in the pass.
	otherN := tree.NewNode(testutil.Box{})
	other := f.a.Insert(otherN)
	require.NoError(t, otherN.Mount(tree.Handle{}, 0))
	moved, _ := f.a.Get(old[1])
	require.NoError(t, moved.Deactivate())
	require.NoError(t, moved.Reactivate(other, 1))

	got, err := reconcile.UpdateChildren(f, f.parent, old,
		[]tree.Description{keyedText("a", "A")})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, old[0], got[0])

	assert.Equal(t, 0, f.deactivated, "moved child is not ours to deactivate")
	assert.Equal(t, tree.PhaseActive, moved.Phase())
	assert.Equal(t, other, moved.Parent())
}

// Test_UpdateChildren_SlotFinalize verifies phase 4 assigns positions and
// previous-sibling links in one pass.
func Test_UpdateChildren_SlotFinalize(t *testing.T) {
	f := newFakeHost(t)
	old := f.seed(t, keyedText("a", "A"), keyedText("b", "B"), keyedText("c", "C"))

	got, err := reconcile.UpdateChildren(f, f.parent,
		old, []tree.Description{keyedText("c", "C"), keyedText("b", "B"), keyedText("a", "A")})
	require.NoError(t, err)

	prev := tree.Handle{}
	for i, h := range got {
		n, ok := f.a.Get(h)
		require.True(t, ok)
		assert.Equal(t, i, n.Slot().Position, "child %d position", i)
		assert.Equal(t, prev, n.Slot().PreviousSibling, "child %d previous sibling", i)
		prev = h
	}
}
