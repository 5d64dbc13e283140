package event

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Metadata carries the transport-level fields of a persisted event.
type Metadata struct {
	// EventID uniquely identifies this event occurrence.
	EventID string `json:"id"`

	// CorrelationID groups related events; defaults to the event ID.
	CorrelationID string `json:"correlation_id"`

	// CausationID is the ID of the event that directly caused this one.
	CausationID string `json:"causation_id,omitempty"`

	// Timestamp is when the event occurred.
	Timestamp time.Time `json:"timestamp"`
}

// Raw is an event as persisted or received from an upstream source: an
// identity plus an opaque JSON payload. Raw events are converted to concrete
// types with As.
type Raw struct {
	Name     string          `json:"name"`
	Revision Revision        `json:"revision"`
	Meta     Metadata        `json:"metadata"`
	Data     json.RawMessage `json:"data"`
}

// Identity returns the raw event's (name, revision) pair.
func (r Raw) Identity() Identity {
	return Identity{Name: r.Name, Revision: r.Revision}
}

// RawOption configures raw event creation.
type RawOption func(*Metadata)

// WithEventID sets a specific event ID (default: auto-generated UUID).
func WithEventID(id string) RawOption {
	return func(m *Metadata) {
		m.EventID = id
	}
}

// WithCorrelationID sets the correlation ID.
func WithCorrelationID(id string) RawOption {
	return func(m *Metadata) {
		m.CorrelationID = id
	}
}

// WithCausationID sets the ID of the causing event.
func WithCausationID(id string) RawOption {
	return func(m *Metadata) {
		m.CausationID = id
	}
}

// WithTimestamp sets a specific timestamp (default: time.Now).
func WithTimestamp(t time.Time) RawOption {
	return func(m *Metadata) {
		m.Timestamp = t
	}
}

// NewRaw serializes a concrete event into its raw persisted form.
func NewRaw(ev Event, opts ...RawOption) (Raw, error) {
	data, err := json.Marshal(ev)
	if err != nil {
		return Raw{}, fmt.Errorf("marshal event %s: %w", IdentityOfEvent(ev), err)
	}

	meta := Metadata{
		EventID:   uuid.New().String(),
		Timestamp: time.Now().UTC(),
	}
	for _, opt := range opts {
		opt(&meta)
	}
	if meta.CorrelationID == "" {
		meta.CorrelationID = meta.EventID
	}

	return Raw{
		Name:     ev.EventName(),
		Revision: ev.EventRevision(),
		Meta:     meta,
		Data:     data,
	}, nil
}

// MismatchError reports a raw event that does not carry the identity of the
// concrete type it was converted to.
type MismatchError struct {
	// Want is the identity of the requested concrete type.
	Want Identity
	// Got is the identity carried by the raw event.
	Got Identity
}

// Error implements the error interface.
func (e *MismatchError) Error() string {
	return fmt.Sprintf("raw event %s does not match %s", e.Got, e.Want)
}

// As converts a raw event to the concrete type E.
//
// The raw event matches only when both its name and its revision equal E's
// identity: a name match with a different revision is a different schema and
// must go through an upgrade path, not a direct decode.
func As[E Event](raw Raw) (E, error) {
	var ev E
	want := IdentityOf[E]()
	if got := raw.Identity(); got != want {
		return ev, &MismatchError{Want: want, Got: got}
	}
	if err := json.Unmarshal(raw.Data, &ev); err != nil {
		return ev, fmt.Errorf("decode event %s: %w", want, err)
	}
	return ev, nil
}
