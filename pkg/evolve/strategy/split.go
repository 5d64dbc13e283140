package strategy

import (
	"context"

	"github.com/randalmurphal/evolve/pkg/evolve/event"
	"github.com/randalmurphal/evolve/pkg/evolve/stream"
)

// Splitter turns one event into a finite, possibly empty, ordered sequence
// of items. Splitting is total: it cannot fail.
type Splitter[E event.Event, T any] interface {
	Split(ev E) []T
}

// SplitterFunc adapts a function to the Splitter interface.
type SplitterFunc[E event.Event, T any] func(E) []T

// Split implements Splitter.
func (f SplitterFunc[E, T]) Split(ev E) []T { return f(ev) }

type split[C any, E event.Event, T any] struct {
	splitter Splitter[E, T]
}

// Split returns a strategy fanning one event out into the items produced by
// the splitter, emitted in splitter order. Typical use is breaking a
// composite legacy event into the finer-grained events that replaced it.
func Split[C any, E event.Event, T any](sp Splitter[E, T]) Strategy[C, E, T] {
	return split[C, E, T]{splitter: sp}
}

// SplitFunc is Split with a plain function splitter.
func SplitFunc[C any, E event.Event, T any](fn func(E) []T) Strategy[C, E, T] {
	return split[C, E, T]{splitter: SplitterFunc[E, T](fn)}
}

func (s split[C, E, T]) Transform(_ context.Context, _ C, ev E) stream.Stream[T] {
	return stream.Of(s.splitter.Split(ev)...)
}
