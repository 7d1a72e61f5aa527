// Command treetrace exercises the element tree engine: it mounts a demo tree,
// reorders keyed children and changes a provider value over a number of
// simulated frames, and reports scheduler and arena statistics.
//
// Usage:
//
//	treetrace -rows 200 -frames 60 -batch -window 4ms -dump
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/joshuapare/treekit/cmd/treetrace/logger"
	"github.com/joshuapare/treekit/pkg/engine"
	"github.com/joshuapare/treekit/tree"
)

type appState struct {
	rows  []int
	theme string
}

// rootDesc regenerates the declarative tree from the shared app state on
// every build, the way a framework's root view would.
type rootDesc struct {
	st *appState
}

func (r rootDesc) Key() tree.Key    { return tree.Key{} }
func (r rootDesc) TypeName() string { return "Root" }

func (r rootDesc) Build(_ tree.BuildContext) []tree.Description {
	kids := make([]tree.Description, 0, len(r.st.rows))
	for _, id := range r.st.rows {
		kids = append(kids, rowDesc{id: id})
	}
	return []tree.Description{themeDesc{val: r.st.theme, kids: kids}}
}

type themeDesc struct {
	val  string
	kids []tree.Description
}

func (t themeDesc) Key() tree.Key                                { return tree.Key{} }
func (t themeDesc) TypeName() string                             { return "Theme" }
func (t themeDesc) Build(_ tree.BuildContext) []tree.Description { return t.kids }
func (t themeDesc) ProvidedValue() any                           { return t.val }
func (t themeDesc) ShouldNotify(old, new any) bool               { return old != new }

type rowDesc struct {
	id int
}

func (r rowDesc) Key() tree.Key    { return tree.LocalKey(r.id) }
func (r rowDesc) TypeName() string { return "Row" }

// Build registers every third row as a theme dependent, so provider
// notifications schedule a subset of the tree rather than all of it.
func (r rowDesc) Build(ctx tree.BuildContext) []tree.Description {
	if r.id%3 == 0 {
		if p, ok := ctx.AncestorProvider("Theme"); ok {
			_ = ctx.DependOn(p, nil)
		}
	}
	return nil
}

func main() {
	rows := flag.Int("rows", 100, "number of keyed rows in the demo tree")
	frames := flag.Int("frames", 30, "number of simulated frames")
	batch := flag.Bool("batch", false, "enable dirty-mark batching")
	window := flag.Duration("window", 2*time.Millisecond, "batching window")
	dump := flag.Bool("dump", false, "dump the final tree to stdout")
	verbose := flag.Bool("v", false, "log per-frame details to stderr")
	seed := flag.Int64("seed", 1, "shuffle seed")
	flag.Parse()

	if err := logger.Init(logger.Options{Enabled: *verbose}); err != nil {
		fmt.Fprintf(os.Stderr, "treetrace: init logging: %v\n", err)
		os.Exit(1)
	}

	st := &appState{theme: "light"}
	for i := 0; i < *rows; i++ {
		st.rows = append(st.rows, i)
	}

	eng, err := engine.New(rootDesc{st: st}, &engine.Options{
		Batching:      *batch,
		BatchWindow:   *window,
		ArenaCapacity: *rows + 8,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "treetrace: mount: %v\n", err)
		os.Exit(1)
	}

	rng := rand.New(rand.NewSource(*seed))
	for frame := 0; frame < *frames; frame++ {
		rng.Shuffle(len(st.rows), func(i, j int) {
			st.rows[i], st.rows[j] = st.rows[j], st.rows[i]
		})
		if frame%10 == 9 {
			old := st.theme
			if st.theme == "light" {
				st.theme = "dark"
			} else {
				st.theme = "light"
			}
			if h, ok := themeHandle(eng); ok {
				n, err := eng.NotifyProvider(h, old, st.theme)
				if err != nil {
					fmt.Fprintf(os.Stderr, "treetrace: notify: %v\n", err)
					os.Exit(1)
				}
				logger.Info("theme changed", "frame", frame, "scheduled", n)
			}
		}
		if err := eng.MarkNeedsBuild(eng.Root()); err != nil {
			fmt.Fprintf(os.Stderr, "treetrace: schedule: %v\n", err)
			os.Exit(1)
		}
		for !eng.FlushReady() {
			time.Sleep(*window / 4)
		}
		if err := eng.BuildScope(nil); err != nil {
			fmt.Fprintf(os.Stderr, "treetrace: build: %v\n", err)
			os.Exit(1)
		}
		logger.Debug("frame complete", "frame", frame)
	}

	if err := eng.Verify(); err != nil {
		fmt.Fprintf(os.Stderr, "treetrace: verify: %v\n", err)
		os.Exit(1)
	}

	s := eng.Stats()
	fmt.Printf("frames:       %d\n", *frames)
	fmt.Printf("flushes:      %d\n", s.Sched.Flushes)
	fmt.Printf("rebuilt:      %d\n", s.Sched.Rebuilt)
	fmt.Printf("created:      %d\n", s.Sched.Created)
	fmt.Printf("updated:      %d\n", s.Sched.Updated)
	fmt.Printf("builds saved: %d\n", s.Sched.BuildsSaved)
	fmt.Printf("finalized:    %d\n", s.Sched.Finalized)
	fmt.Printf("live nodes:   %d (arena capacity %d)\n", s.Arena.Live, s.Arena.Capacity)

	if *dump {
		if err := eng.DebugDump(os.Stdout, engine.DumpOptions{ShowSlots: true}); err != nil {
			fmt.Fprintf(os.Stderr, "treetrace: dump: %v\n", err)
			os.Exit(1)
		}
	}
}

// themeHandle finds the Theme provider node (the root's only child).
func themeHandle(eng *engine.Engine) (tree.Handle, bool) {
	kids, ok := eng.ChildrenOf(eng.Root())
	if !ok || len(kids) == 0 {
		return tree.Handle{}, false
	}
	return kids[0], true
}
