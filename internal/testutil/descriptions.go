// Package testutil provides fake description types and lifecycle recorders
// shared by the package tests and the integration tests. The fakes stand in
// for the declarative layer: Text is a terminal description, Box a composite
// with a fixed child list, Theme a provider, and Probe a composite whose
// builds and lifecycle transitions are counted.
package testutil

import (
	"sync"

	"github.com/joshuapare/treekit/tree"
)

// Text is a terminal (leaf) description carrying a string payload.
type Text struct {
	K tree.Key
	S string
}

func (t Text) Key() tree.Key                                { return t.K }
func (t Text) TypeName() string                             { return "Text" }
func (t Text) Build(_ tree.BuildContext) []tree.Description { return nil }
func (t Text) LeafNode()                                    {}

// Image is a second terminal type, for type-change tests.
type Image struct {
	K   tree.Key
	Src string
}

func (i Image) Key() tree.Key                                { return i.K }
func (i Image) TypeName() string                             { return "Image" }
func (i Image) Build(_ tree.BuildContext) []tree.Description { return nil }
func (i Image) LeafNode()                                    {}

// Box is a composite description with a fixed child list.
type Box struct {
	K    tree.Key
	Kids []tree.Description
}

func (b Box) Key() tree.Key                                { return b.K }
func (b Box) TypeName() string                             { return "Box" }
func (b Box) Build(_ tree.BuildContext) []tree.Description { return b.Kids }

// Theme is a provider description exposing Val to descendants. NotifyFn, when
// set, overrides the change predicate; the default treats any != as a
// meaningful change.
type Theme struct {
	K        tree.Key
	Val      any
	Kids     []tree.Description
	NotifyFn func(old, new any) bool
}

func (p Theme) Key() tree.Key                                { return p.K }
func (p Theme) TypeName() string                             { return "Theme" }
func (p Theme) Build(_ tree.BuildContext) []tree.Description { return p.Kids }
func (p Theme) ProvidedValue() any                           { return p.Val }

func (p Theme) ShouldNotify(old, new any) bool {
	if p.NotifyFn != nil {
		return p.NotifyFn(old, new)
	}
	return old != new
}

// Consumer is a leaf that registers with the nearest Theme ancestor during
// its build.
type Consumer struct {
	K tree.Key
}

func (c Consumer) Key() tree.Key    { return c.K }
func (c Consumer) TypeName() string { return "Consumer" }

func (c Consumer) Build(ctx tree.BuildContext) []tree.Description {
	if p, ok := ctx.AncestorProvider("Theme"); ok {
		_ = ctx.DependOn(p, nil)
	}
	return nil
}

// Peeker is a leaf that reads the nearest Theme value without registering.
type Peeker struct {
	K tree.Key
}

func (c Peeker) Key() tree.Key    { return c.K }
func (c Peeker) TypeName() string { return "Peeker" }

func (c Peeker) Build(ctx tree.BuildContext) []tree.Description {
	if p, ok := ctx.AncestorProvider("Theme"); ok {
		_, _ = ctx.Peek(p)
	}
	return nil
}

// Probe is a composite whose Build invocations are counted on a shared
// Recorder, for batching-dedup and rebuild-count assertions.
type Probe struct {
	K    tree.Key
	Name string
	Rec  *Recorder
	Kids []tree.Description
}

func (p Probe) Key() tree.Key    { return p.K }
func (p Probe) TypeName() string { return "Probe" }

func (p Probe) Build(_ tree.BuildContext) []tree.Description {
	if p.Rec != nil {
		p.Rec.CountBuild(p.Name)
	}
	return p.Kids
}

func (p Probe) Hooks() tree.LifecycleHooks {
	if p.Rec == nil {
		return nil
	}
	return &hooks{rec: p.Rec, name: p.Name}
}

// Memo is a composite with a value-comparable identity: an update whose new
// description reports Equal skips the subtree rebuild.
type Memo struct {
	K    tree.Key
	Val  any
	Name string
	Rec  *Recorder
	Kids []tree.Description
}

func (m Memo) Key() tree.Key    { return m.K }
func (m Memo) TypeName() string { return "Memo" }

func (m Memo) Build(_ tree.BuildContext) []tree.Description {
	if m.Rec != nil {
		m.Rec.CountBuild(m.Name)
	}
	return m.Kids
}

func (m Memo) Equal(other tree.Description) bool {
	o, ok := other.(Memo)
	return ok && o.Val == m.Val
}

// Dyn is a composite whose children come from a callback, letting tests
// change the declarative tree between frames the way an application's state
// would.
type Dyn struct {
	K       tree.Key
	Name    string
	Rec     *Recorder
	BuildFn func(ctx tree.BuildContext) []tree.Description
}

func (d Dyn) Key() tree.Key    { return d.K }
func (d Dyn) TypeName() string { return "Dyn" }

func (d Dyn) Build(ctx tree.BuildContext) []tree.Description {
	if d.Rec != nil {
		d.Rec.CountBuild(d.Name)
	}
	if d.BuildFn == nil {
		return nil
	}
	return d.BuildFn(ctx)
}

// Recorder collects build counts and lifecycle events across a test.
type Recorder struct {
	mu     sync.Mutex
	builds map[string]int
	events []string
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{builds: make(map[string]int)}
}

// CountBuild increments the build counter for name and records a
// "build:name" event, so tests can assert both counts and ordering.
func (r *Recorder) CountBuild(name string) {
	r.mu.Lock()
	r.builds[name]++
	r.events = append(r.events, "build:"+name)
	r.mu.Unlock()
}

// Builds returns the build count for name.
func (r *Recorder) Builds(name string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.builds[name]
}

// Event appends a lifecycle event string like "activate:title".
func (r *Recorder) Event(s string) {
	r.mu.Lock()
	r.events = append(r.events, s)
	r.mu.Unlock()
}

// Events returns a copy of the recorded event sequence.
func (r *Recorder) Events() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	copy(out, r.events)
	return out
}

type hooks struct {
	rec  *Recorder
	name string
}

func (h *hooks) OnActivate(tree.Handle)   { h.rec.Event("activate:" + h.name) }
func (h *hooks) OnDeactivate(tree.Handle) { h.rec.Event("deactivate:" + h.name) }
func (h *hooks) OnDispose(tree.Handle)    { h.rec.Event("dispose:" + h.name) }
