package strategy

import (
	"context"

	"github.com/randalmurphal/evolve/pkg/evolve/event"
	"github.com/randalmurphal/evolve/pkg/evolve/stream"
)

type initialized[C any, E, S event.Event] struct {
	inner Strategy[C, E, S]
}

// Initialized decorates an inner strategy by wrapping each successful item
// in event.Initial, marking it as the event that creates new consumer state.
// Cardinality and error items are those of the inner strategy.
func Initialized[C any, E, S event.Event](inner Strategy[C, E, S]) Strategy[C, E, event.Initial[S]] {
	return initialized[C, E, S]{inner: inner}
}

// InitializedAsIs is Initialized with the default inner strategy AsIs:
// emit the event itself, tagged as initializing.
func InitializedAsIs[C any, E event.Event]() Strategy[C, E, event.Initial[E]] {
	return Initialized(AsIs[C, E]())
}

func (s initialized[C, E, S]) Transform(ctx context.Context, cap C, ev E) stream.Stream[event.Initial[S]] {
	return stream.MapOK(s.inner.Transform(ctx, cap, ev), func(v S) event.Initial[S] {
		return event.Initial[S]{Event: v}
	})
}
