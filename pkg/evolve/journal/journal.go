// Package journal provides persistent storage for raw events, the input
// boundary the adapter pipeline reads from.
//
// A journal keeps per-stream, append-only sequences of event.Raw records.
// Reading is lazy: Events returns a stream that pulls rows on demand, so an
// adapter run over a long stream never materializes it.
package journal

import (
	"context"
	"errors"
	"fmt"

	"github.com/randalmurphal/evolve/pkg/evolve/event"
	"github.com/randalmurphal/evolve/pkg/evolve/stream"
)

// Store persists raw events per stream.
// Implementations must be safe for concurrent use.
type Store interface {
	// Append stores raw events at the end of a stream, in argument order.
	Append(ctx context.Context, streamID string, raws ...event.Raw) error

	// Events returns the stream's events in append order, lazily.
	// A storage failure surfaces as an error item and ends the stream.
	Events(ctx context.Context, streamID string) stream.Stream[event.Raw]

	// Len returns the number of events in a stream.
	// Returns 0 (not an error) for an unknown stream.
	Len(ctx context.Context, streamID string) (int, error)

	// Close releases any resources (connections, files).
	Close() error
}

// Sentinel errors for journal operations.
var (
	// ErrStoreClosed indicates the store has been closed.
	ErrStoreClosed = errors.New("journal store closed")

	// ErrNoDecodeRule indicates a raw event's identity has no registered
	// concrete type to decode into.
	ErrNoDecodeRule = errors.New("no decode rule for event")
)

// Decoder materializes a raw event into its concrete type.
// Build one rule per identity with DecodeAs.
type Decoder map[event.Identity]func(event.Raw) (event.Event, error)

// NewDecoder creates an empty decoder.
func NewDecoder() Decoder {
	return make(Decoder)
}

// DecodeAs registers the concrete type E as the decoding of its identity.
// Returns the decoder for method chaining.
func DecodeAs[E event.Event](d Decoder) Decoder {
	d[event.IdentityOf[E]()] = func(raw event.Raw) (event.Event, error) {
		return event.As[E](raw)
	}
	return d
}

// Decode materializes one raw event.
func (d Decoder) Decode(raw event.Raw) (event.Event, error) {
	fn, ok := d[raw.Identity()]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoDecodeRule, raw.Identity())
	}
	return fn(raw)
}

// DecodeStream maps a stream of raw events to concrete events.
// Decode failures become error items; raws after a failure are still decoded.
func (d Decoder) DecodeStream(raws stream.Stream[event.Raw]) stream.Stream[event.Event] {
	return func(yield func(event.Event, error) bool) {
		raws(func(raw event.Raw, err error) bool {
			if err != nil {
				return yield(nil, err)
			}
			return yield(d.Decode(raw))
		})
	}
}
