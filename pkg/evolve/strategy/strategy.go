// Package strategy defines the vocabulary of per-event-type transformation
// policies used by adapters.
//
// A Strategy converts one concrete event into zero, one, or many output
// items. Built-in strategies cover the common cases:
//
//   - AsIs passes the event through unchanged
//   - Skip drops the event
//   - Into converts each item to another type (decorator)
//   - Initialized tags each item as state-initializing (decorator)
//   - Split fans one event out into many
//   - Custom delegates entirely to user logic
//
// Decorators compose: Into(Initialized(AsIs), conv) tags the event and then
// converts it, each layer touching only its own concern.
package strategy

import (
	"context"

	"github.com/randalmurphal/evolve/pkg/evolve/event"
	"github.com/randalmurphal/evolve/pkg/evolve/stream"
)

// None is the degenerate capability for strategies that need nothing from
// the adapter's context. Every context type can be projected to None.
type None struct{}

// Strategy transforms one event of type E into a lazy stream of items of
// type T, using a capability value of type C projected from the adapter's
// context.
//
// Transform itself never fails: failures are error items in the returned
// stream. The event is consumed by value; the capability is borrowed for the
// duration of the call and must not be retained.
type Strategy[C any, E event.Event, T any] interface {
	Transform(ctx context.Context, cap C, ev E) stream.Stream[T]
}

// Func adapts a function to the Strategy interface. It is the Custom
// strategy's usual form.
type Func[C any, E event.Event, T any] func(ctx context.Context, cap C, ev E) stream.Stream[T]

// Transform implements Strategy.
func (f Func[C, E, T]) Transform(ctx context.Context, cap C, ev E) stream.Stream[T] {
	return f(ctx, cap, ev)
}

// Custom returns a strategy delegating entirely to fn. Use it when no
// built-in strategy fits: decode-then-split, conditional emission based on
// the capability, conversions that can fail, and so on.
func Custom[C any, E event.Event, T any](fn Func[C, E, T]) Strategy[C, E, T] {
	return fn
}
