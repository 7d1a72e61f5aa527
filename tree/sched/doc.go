// Package sched implements the build owner: the scheduler that tracks dirty
// nodes, orders and executes rebuilds, and owns the global-key registry.
//
// # Build passes
//
// Work is marked with ScheduleBuildFor and executed inside BuildScope, which
// performs exactly one flush: dirty entries are processed in ascending depth
// order until the dirty set is empty (a fixed-point pass, not a single
// sweep), so a parent's structural changes always land before any stale
// child-level work is attempted. Scheduling calls made while the flush is
// running (from rebuilds, lifecycle hooks, or provider notifications) merge
// into the same pass. Calling BuildScope from within an active scope is a
// reported error, never a nested pass.
//
// Scheduling the same handle twice before it is processed collapses to one
// rebuild; the saved builds are counted in Stats.
//
// # Batching
//
// With Options.Batching enabled, a batch becomes eligible to flush only after
// Options.BatchWindow has elapsed since the first schedule in the batch.
// Callers poll FlushReady and then call BuildScope; nothing blocks. Batching
// changes when work happens, never what: dedup and depth ordering are
// identical to the unbatched path.
//
// # Concurrency
//
// The tree is guarded by a reader/writer lock. BuildScope holds exclusive
// access for the whole pass; read-only navigation (Read, Root, resolve
// operations) takes shared access. Only one scope can be active at a time.
package sched
