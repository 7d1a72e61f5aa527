package provide_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/treekit/internal/testutil"
	"github.com/joshuapare/treekit/tree"
	"github.com/joshuapare/treekit/tree/provide"
)

// fakeTree resolves handles straight from an arena.
type fakeTree struct {
	a *tree.Arena
}

func (f fakeTree) Node(h tree.Handle) (*tree.Node, bool) { return f.a.Get(h) }

// fakeScheduler records scheduled handles and optionally fails some of them.
type fakeScheduler struct {
	scheduled []tree.Handle
	stale     map[tree.Handle]bool
}

func (f *fakeScheduler) ScheduleBuildFor(h tree.Handle) error {
	if f.stale[h] {
		return tree.ErrStaleHandle
	}
	f.scheduled = append(f.scheduled, h)
	return nil
}

func mount(t *testing.T, a *tree.Arena, d tree.Description) tree.Handle {
	t.Helper()
	n := tree.NewNode(d)
	h := a.Insert(n)
	require.NoError(t, n.Mount(tree.Handle{}, 0))
	return h
}

func Test_Register_AddsBothDirections(t *testing.T) {
	a := tree.NewArena(8)
	ft := fakeTree{a}
	prov := mount(t, a, testutil.Theme{Val: 1})
	dep := mount(t, a, testutil.Text{S: "d"})

	require.NoError(t, provide.Register(ft, prov, dep, "color"))

	pn, _ := a.Get(prov)
	assert.True(t, pn.Dependencies().Has(dep))
	assert.Equal(t, 1, pn.Dependencies().Len())

	dn, _ := a.Get(dep)
	assert.Equal(t, []tree.Handle{prov}, dn.ProviderRefs())

	// Re-registering refreshes, never duplicates.
	require.NoError(t, provide.Register(ft, prov, dep, "size"))
	assert.Equal(t, 1, pn.Dependencies().Len())
	assert.Equal(t, []tree.Handle{prov}, dn.ProviderRefs())
}

func Test_Register_Errors(t *testing.T) {
	a := tree.NewArena(8)
	ft := fakeTree{a}
	prov := mount(t, a, testutil.Theme{Val: 1})
	plain := mount(t, a, testutil.Text{S: "p"})
	dep := mount(t, a, testutil.Text{S: "d"})

	assert.ErrorIs(t, provide.Register(ft, tree.Handle{}, dep, nil), tree.ErrStaleHandle)
	assert.ErrorIs(t, provide.Register(ft, plain, dep, nil), tree.ErrNotProvider)
	assert.ErrorIs(t, provide.Register(ft, prov, tree.Handle{}, nil), tree.ErrStaleHandle)
}

func Test_Unregister(t *testing.T) {
	a := tree.NewArena(8)
	ft := fakeTree{a}
	prov := mount(t, a, testutil.Theme{Val: 1})
	dep := mount(t, a, testutil.Text{S: "d"})
	require.NoError(t, provide.Register(ft, prov, dep, nil))

	provide.Unregister(ft, prov, dep)
	pn, _ := a.Get(prov)
	assert.Equal(t, 0, pn.Dependencies().Len())

	// Missing entries and stale providers are silent.
	provide.Unregister(ft, prov, dep)
	provide.Unregister(ft, tree.Handle{}, dep)
}

// Test_Notify_SchedulesOnlyDependents builds a wide provider subtree where
// only a few descendants registered interest and checks the notification
// fan-out is exactly those, not the descendant set.
func Test_Notify_SchedulesOnlyDependents(t *testing.T) {
	a := tree.NewArena(64)
	ft := fakeTree{a}
	prov := mount(t, a, testutil.Theme{Val: "light"})

	var deps []tree.Handle
	for i := 0; i < 20; i++ {
		h := mount(t, a, testutil.Text{S: "bystander"})
		if i%7 == 0 { // 3 of the 20
			require.NoError(t, provide.Register(ft, prov, h, nil))
			deps = append(deps, h)
		}
	}

	s := &fakeScheduler{}
	n, err := provide.Notify(ft, s, prov, "light", "dark")
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.ElementsMatch(t, deps, s.scheduled)
}

func Test_Notify_PredicateGates(t *testing.T) {
	a := tree.NewArena(8)
	ft := fakeTree{a}
	prov := mount(t, a, testutil.Theme{
		Val:      5,
		NotifyFn: func(old, new any) bool { return old.(int)/10 != new.(int)/10 },
	})
	dep := mount(t, a, testutil.Text{S: "d"})
	require.NoError(t, provide.Register(ft, prov, dep, nil))

	s := &fakeScheduler{}

	// Same bucket: nothing scheduled.
	n, err := provide.Notify(ft, s, prov, 5, 9)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.Empty(t, s.scheduled)

	// Bucket change: the dependent is scheduled.
	n, err = provide.Notify(ft, s, prov, 9, 12)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, []tree.Handle{dep}, s.scheduled)
}

func Test_Notify_SkipsStaleDependents(t *testing.T) {
	a := tree.NewArena(8)
	ft := fakeTree{a}
	prov := mount(t, a, testutil.Theme{Val: 1})
	live := mount(t, a, testutil.Text{S: "live"})
	gone := mount(t, a, testutil.Text{S: "gone"})
	require.NoError(t, provide.Register(ft, prov, live, nil))
	require.NoError(t, provide.Register(ft, prov, gone, nil))

	s := &fakeScheduler{stale: map[tree.Handle]bool{gone: true}}
	n, err := provide.Notify(ft, s, prov, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, 1, n, "stale dependents are skipped, not errors")
	assert.Equal(t, []tree.Handle{live}, s.scheduled)
}

func Test_Notify_Errors(t *testing.T) {
	a := tree.NewArena(8)
	ft := fakeTree{a}
	plain := mount(t, a, testutil.Text{S: "p"})

	_, err := provide.Notify(ft, &fakeScheduler{}, tree.Handle{}, 1, 2)
	assert.ErrorIs(t, err, tree.ErrStaleHandle)

	_, err = provide.Notify(ft, &fakeScheduler{}, plain, 1, 2)
	assert.ErrorIs(t, err, tree.ErrNotProvider)
}
