// Package provide implements selective change notification for provider
// nodes: nodes that expose a value to their descendants.
//
// A provider owns a tree.DependencyRecord listing exactly the descendants
// that registered interest in its value. When the value changes, Notify first
// consults the provider's ShouldNotify predicate; if the change is not
// meaningful, nothing happens at all. Otherwise exactly the registered
// dependents are scheduled for rebuild; descendants that read the value
// without registering (a peek read) are never notified, no matter how many of
// them exist.
//
// Registrations are pruned by the build owner when a dependent becomes
// Defunct, so records cannot grow without bound or deliver notifications to
// stale handles.
package provide
