// Package engine is the high-level facade over the element tree core. It
// wires the arena, reconciliation, build owner, and dependency tracking into
// one object, and exposes the narrow surfaces the surrounding framework
// layers consume:
//
//   - the layout/paint layer gets read-only tree navigation (ChildrenOf,
//     ParentOf, DepthOf, Walk) and MarkNeedsBuild;
//   - application code gets BuildScope, FlushReady, provider registration and
//     notification, and global-key resolution;
//   - diagnostics get Stats, Verify, and DebugDump.
//
// # Usage
//
//	eng, err := engine.New(appRoot, nil)
//	if err != nil {
//		return err
//	}
//	// ... mark nodes dirty as state changes ...
//	if eng.FlushReady() {
//		err = eng.BuildScope(nil) // one depth-ordered fixed-point flush
//	}
//
// Descriptions, lifecycle hooks, and provider predicates are supplied by the
// embedding framework; see the tree package for those contracts.
package engine
