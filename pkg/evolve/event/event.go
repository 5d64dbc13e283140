// Package event defines the identity machinery for versioned events.
//
// Every concrete event type carries a fixed (name, revision) identity. Names
// describe what happened ("email.added"); revisions increase as the schema of
// an event evolves. The identity is constant per type: EventName and
// EventRevision must return the same values for every instance, which lets
// IdentityOf derive the identity from a type's zero value.
package event

import "fmt"

// Revision is the schema revision number of an event.
// Zero is not a valid revision.
type Revision uint16

// Identity is the fixed (name, revision) pair identifying one concrete
// event type. Within a closed event set no two types may share an Identity;
// Registry enforces this at startup.
type Identity struct {
	Name     string
	Revision Revision
}

// String returns the identity in "name@rN" form.
func (id Identity) String() string {
	return fmt.Sprintf("%s@r%d", id.Name, id.Revision)
}

// Valid reports whether the identity has a name and a positive revision.
func (id Identity) Valid() bool {
	return id.Name != "" && id.Revision > 0
}

// Event is a versioned event. Implementations must return constant values
// from both methods: the identity belongs to the type, not the instance.
//
// Implement on value types, not pointers, so the zero value is usable:
//
//	type Added struct{ Email string }
//
//	func (Added) EventName() string            { return "email.added" }
//	func (Added) EventRevision() event.Revision { return 3 }
type Event interface {
	EventName() string
	EventRevision() Revision
}

// IdentityOf returns the identity of the concrete event type E,
// derived from its zero value.
func IdentityOf[E Event]() Identity {
	var ev E
	return Identity{Name: ev.EventName(), Revision: ev.EventRevision()}
}

// IdentityOfEvent returns the identity carried by an event value.
func IdentityOfEvent(ev Event) Identity {
	return Identity{Name: ev.EventName(), Revision: ev.EventRevision()}
}

// Initial marks an event that creates new consumer state, as opposed to
// events that mutate existing state. Strategies tag events as initializing by
// wrapping them; the wrapper keeps the inner event's identity.
type Initial[E Event] struct {
	Event E
}

// EventName returns the inner event's name.
func (i Initial[E]) EventName() string { return i.Event.EventName() }

// EventRevision returns the inner event's revision.
func (i Initial[E]) EventRevision() Revision { return i.Event.EventRevision() }
