package event

import (
	"fmt"
	"sort"
	"sync"
)

// Descriptor declares one concrete event type in a closed event set.
type Descriptor struct {
	// Name is the event name (e.g., "email.added").
	Name string

	// Revision is the schema revision, starting at 1.
	Revision Revision

	// Description explains the event's purpose.
	Description string

	// Deprecated marks a revision that is still readable but should no
	// longer be produced. Adapters binding a deprecated identity get a
	// warning at compile time.
	Deprecated bool
}

// Identity returns the descriptor's (name, revision) pair.
func (d Descriptor) Identity() Identity {
	return Identity{Name: d.Name, Revision: d.Revision}
}

// Registry is the closed set of event identities one source can produce.
//
// It doubles as the startup uniqueness check: registering two descriptors
// with the same (name, revision) fails, so a fully-registered registry
// proves the set has no identity collisions. Registration happens once at
// construction; the set never grows afterwards.
type Registry struct {
	mu         sync.RWMutex
	byIdentity map[Identity]Descriptor
	byName     map[string][]Revision
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byIdentity: make(map[Identity]Descriptor),
		byName:     make(map[string][]Revision),
	}
}

// Register adds a descriptor to the registry.
// It fails if the name is empty, the revision is zero, or the
// (name, revision) pair is already registered.
func (r *Registry) Register(d Descriptor) error {
	if d.Name == "" {
		return fmt.Errorf("event name is required")
	}
	if d.Revision == 0 {
		return fmt.Errorf("event %q: revision must be positive", d.Name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	id := d.Identity()
	if _, exists := r.byIdentity[id]; exists {
		return fmt.Errorf("duplicate event identity: %s", id)
	}

	r.byIdentity[id] = d
	r.byName[d.Name] = append(r.byName[d.Name], d.Revision)
	sort.Slice(r.byName[d.Name], func(i, j int) bool {
		return r.byName[d.Name][i] < r.byName[d.Name][j]
	})
	return nil
}

// MustRegister adds descriptors, panicking on error.
// Intended for package-level registration of a static event set.
func (r *Registry) MustRegister(descriptors ...Descriptor) {
	for _, d := range descriptors {
		if err := r.Register(d); err != nil {
			panic(fmt.Sprintf("evolve: register event: %v", err))
		}
	}
}

// Has reports whether the identity is part of the set.
func (r *Registry) Has(id Identity) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.byIdentity[id]
	return ok
}

// Get returns the descriptor for an identity.
func (r *Registry) Get(id Identity) (Descriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.byIdentity[id]
	return d, ok
}

// Identities returns every identity in the set, sorted by name then revision.
func (r *Registry) Identities() []Identity {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]Identity, 0, len(r.byIdentity))
	for id := range r.byIdentity {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		if ids[i].Name != ids[j].Name {
			return ids[i].Name < ids[j].Name
		}
		return ids[i].Revision < ids[j].Revision
	})
	return ids
}

// Revisions returns the registered revisions for a name, ascending.
func (r *Registry) Revisions(name string) []Revision {
	r.mu.RLock()
	defer r.mu.RUnlock()

	revs := r.byName[name]
	out := make([]Revision, len(revs))
	copy(out, revs)
	return out
}

// LatestRevision returns the highest registered revision for a name.
func (r *Registry) LatestRevision(name string) (Revision, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	revs := r.byName[name]
	if len(revs) == 0 {
		return 0, false
	}
	return revs[len(revs)-1], true
}

// Len returns the number of registered identities.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byIdentity)
}
