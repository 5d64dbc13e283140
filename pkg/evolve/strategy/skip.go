package strategy

import (
	"context"

	"github.com/randalmurphal/evolve/pkg/evolve/event"
	"github.com/randalmurphal/evolve/pkg/evolve/stream"
)

type skip[C any, E event.Event, T any] struct{}

// Skip returns a strategy emitting nothing, dropping events irrelevant to a
// consumer. It always succeeds.
func Skip[C any, E event.Event, T any]() Strategy[C, E, T] {
	return skip[C, E, T]{}
}

func (skip[C, E, T]) Transform(context.Context, C, E) stream.Stream[T] {
	return stream.Empty[T]()
}
