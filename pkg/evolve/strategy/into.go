package strategy

import (
	"context"

	"github.com/randalmurphal/evolve/pkg/evolve/event"
	"github.com/randalmurphal/evolve/pkg/evolve/stream"
)

type into[C any, E event.Event, S, T any] struct {
	inner Strategy[C, E, S]
	conv  func(S) T
}

// Into decorates an inner strategy with a structural conversion: each
// successful item is converted to T with conv. Error items from the inner
// strategy propagate unchanged; the conversion itself cannot fail.
func Into[C any, E event.Event, S, T any](inner Strategy[C, E, S], conv func(S) T) Strategy[C, E, T] {
	return into[C, E, S, T]{inner: inner, conv: conv}
}

// Convert is Into with the default inner strategy AsIs: emit the event
// converted to T.
func Convert[C any, E event.Event, T any](conv func(E) T) Strategy[C, E, T] {
	return Into(AsIs[C, E](), conv)
}

func (s into[C, E, S, T]) Transform(ctx context.Context, cap C, ev E) stream.Stream[T] {
	return stream.MapOK(s.inner.Transform(ctx, cap, ev), s.conv)
}
