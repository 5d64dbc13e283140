package strategy

import (
	"context"

	"github.com/randalmurphal/evolve/pkg/evolve/event"
	"github.com/randalmurphal/evolve/pkg/evolve/stream"
)

type asIs[C any, E event.Event] struct{}

// AsIs returns a strategy emitting the input event unchanged as its single
// output item. It cannot fail.
func AsIs[C any, E event.Event]() Strategy[C, E, E] {
	return asIs[C, E]{}
}

func (asIs[C, E]) Transform(_ context.Context, _ C, ev E) stream.Stream[E] {
	return stream.Of(ev)
}
