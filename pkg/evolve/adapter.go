package evolve

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/randalmurphal/evolve/pkg/evolve/event"
)

// Builder is a mutable builder for creating adapters.
// Use New to create a builder, then chain Bind calls to associate a strategy
// with every event type in the registry's closed set.
//
// Builder is NOT thread-safe during building. Use a single goroutine to
// construct the adapter, then call Compile() to create an immutable Adapter
// that can be safely shared.
//
// Example:
//
//	b := evolve.New[Services, storage.Email]("email", registry).
//	    Bind(evolve.BindInitialized[Services](asInitial)). // email.added
//	    Bind(evolve.BindAsIs[Services](asConfirmed)).      // email.confirmed
//	    Bind(evolve.BindSkip[Services, message.Posted, storage.Email]())
//
//	adapter, err := b.Compile()
type Builder[Ctx, T any] struct {
	mu       sync.Mutex
	name     string
	registry *event.Registry
	bindings map[event.Identity]Binding[Ctx, T]
}

// New creates an adapter builder.
//
// The type parameter Ctx is the context type shared by all strategy
// invocations; T is the adapter-wide transformed item type. The registry
// defines the closed set of event identities the adapter must cover.
func New[Ctx, T any](name string, registry *event.Registry) *Builder[Ctx, T] {
	return &Builder[Ctx, T]{
		name:     name,
		registry: registry,
		bindings: make(map[event.Identity]Binding[Ctx, T]),
	}
}

// Bind adds strategy bindings to the adapter.
// Returns the builder for method chaining.
//
// Panics if a binding's identity is invalid or already bound: exactly one
// binding per event type is a structural rule, not a runtime condition.
// Whether the identity belongs to the registry is checked at Compile() time.
func (b *Builder[Ctx, T]) Bind(bindings ...Binding[Ctx, T]) *Builder[Ctx, T] {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, binding := range bindings {
		if !binding.identity.Valid() {
			panic(fmt.Sprintf("evolve: invalid binding identity: %s", binding.identity))
		}
		if binding.apply == nil {
			panic("evolve: binding has no strategy")
		}
		if _, exists := b.bindings[binding.identity]; exists {
			panic(fmt.Sprintf("evolve: duplicate binding for %s", binding.identity))
		}
		b.bindings[binding.identity] = binding
	}
	return b
}

// Compile validates the bindings against the registry's closed event set and
// creates an immutable Adapter. Multiple validation errors are joined.
//
// Validation checks:
//  1. A registry must be set
//  2. Every registry identity must have exactly one binding
//  3. Every binding must reference a registry identity
//
// Binding a deprecated registry entry is legal (old events must remain
// readable) but is logged as a warning.
func (b *Builder[Ctx, T]) Compile() (*Adapter[Ctx, T], error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.registry == nil {
		return nil, ErrNoRegistry
	}

	var errs []error

	for _, id := range b.registry.Identities() {
		if _, bound := b.bindings[id]; !bound {
			errs = append(errs, fmt.Errorf("%w: %s", ErrUnboundEvent, id))
		}
	}

	for _, id := range sortedIdentities(b.bindings) {
		d, known := b.registry.Get(id)
		if !known {
			errs = append(errs, fmt.Errorf("%w: %s", ErrUnknownEvent, id))
			continue
		}
		if d.Deprecated {
			slog.Warn("adapter binds deprecated event",
				slog.String("adapter", b.name),
				slog.String("event", id.String()),
			)
		}
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	bindings := make(map[event.Identity]Binding[Ctx, T], len(b.bindings))
	for id, binding := range b.bindings {
		bindings[id] = binding
	}

	return &Adapter[Ctx, T]{
		name:     b.name,
		registry: b.registry,
		bindings: bindings,
	}, nil
}

// Adapter is an immutable, compiled event adapter.
// It is created by calling Compile() on a Builder.
//
// Adapter is thread-safe and can be used concurrently for multiple
// TransformAll calls. Bindings cannot be modified after compilation.
type Adapter[Ctx, T any] struct {
	name     string
	registry *event.Registry
	bindings map[event.Identity]Binding[Ctx, T]
}

// Name returns the adapter's name.
func (a *Adapter[Ctx, T]) Name() string {
	return a.name
}

// Identities returns the event identities this adapter handles, sorted.
func (a *Adapter[Ctx, T]) Identities() []event.Identity {
	return sortedIdentities(a.bindings)
}

// HasBinding reports whether the adapter has a binding for the identity.
func (a *Adapter[Ctx, T]) HasBinding(id event.Identity) bool {
	_, ok := a.bindings[id]
	return ok
}

// getBinding returns the binding for an identity.
// Used internally by the dispatcher.
func (a *Adapter[Ctx, T]) getBinding(id event.Identity) (Binding[Ctx, T], bool) {
	binding, ok := a.bindings[id]
	return binding, ok
}

func sortedIdentities[Ctx, T any](bindings map[event.Identity]Binding[Ctx, T]) []event.Identity {
	ids := make([]event.Identity, 0, len(bindings))
	for id := range bindings {
		ids = append(ids, id)
	}
	sortIdentities(ids)
	return ids
}

func sortIdentities(ids []event.Identity) {
	sort.Slice(ids, func(i, j int) bool {
		if ids[i].Name != ids[j].Name {
			return ids[i].Name < ids[j].Name
		}
		return ids[i].Revision < ids[j].Revision
	})
}
