package tree

// DependencyRecord tracks which nodes depend on one provider's value. Each
// dependent appears at most once; re-registering refreshes the aspect tag.
//
// The aspect is an opaque tag reserved for partial-dependency granularity; it
// is stored and handed back on iteration but not otherwise interpreted.
type DependencyRecord struct {
	deps map[Handle]any
}

// NewDependencyRecord creates an empty record.
func NewDependencyRecord() *DependencyRecord {
	return &DependencyRecord{deps: make(map[Handle]any)}
}

// Add registers (or refreshes) a dependent with its aspect tag.
func (r *DependencyRecord) Add(dependent Handle, aspect any) {
	r.deps[dependent] = aspect
}

// Remove drops a dependent. Called when the dependent becomes Defunct so the
// record cannot grow without bound or notify stale handles.
func (r *DependencyRecord) Remove(dependent Handle) {
	delete(r.deps, dependent)
}

// Has reports whether the dependent is registered.
func (r *DependencyRecord) Has(dependent Handle) bool {
	_, ok := r.deps[dependent]
	return ok
}

// Len returns the number of registered dependents.
func (r *DependencyRecord) Len() int { return len(r.deps) }

// Each calls fn for every registered dependent until fn returns false.
// Iteration order is unspecified.
func (r *DependencyRecord) Each(fn func(dependent Handle, aspect any) bool) {
	for h, a := range r.deps {
		if !fn(h, a) {
			return
		}
	}
}
