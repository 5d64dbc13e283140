package evolve

import (
	"context"

	"github.com/randalmurphal/evolve/pkg/evolve/event"
	"github.com/randalmurphal/evolve/pkg/evolve/strategy"
	"github.com/randalmurphal/evolve/pkg/evolve/stream"
)

// Projection views the adapter's context value as the narrower capability
// type a strategy requires. Projections only borrow: they must not mutate or
// retain the context.
//
// Because a projection is an ordinary function from Ctx to C, the capability
// requirement is checked by the compiler: if Ctx cannot produce C, the
// projection cannot be written.
type Projection[Ctx, C any] func(Ctx) C

// Whole projects the context as itself, for strategies that want the full
// context type.
func Whole[Ctx any]() Projection[Ctx, Ctx] {
	return func(c Ctx) Ctx { return c }
}

// Nothing projects any context to the empty capability, for strategies that
// need nothing from it.
func Nothing[Ctx any]() Projection[Ctx, strategy.None] {
	return func(Ctx) strategy.None { return strategy.None{} }
}

// Binding associates one concrete event type with the strategy handling it,
// normalized to the adapter-wide output type T. Bindings are created by Bind
// and its shorthand variants, collected by a Builder, and frozen by Compile.
type Binding[Ctx, T any] struct {
	identity event.Identity
	apply    func(ctx context.Context, cap Ctx, ev event.Event) stream.Stream[T]
}

// Identity returns the event identity this binding handles.
func (b Binding[Ctx, T]) Identity() event.Identity {
	return b.identity
}

// Bind creates a binding for event type E from three pieces:
//
//   - st, the strategy handling E, producing items of type S
//   - project, viewing the adapter context Ctx as the capability C the
//     strategy requires
//   - conv, the structural upcast from S to the adapter-wide type T
//
// This mirrors what the shorthand Bind* constructors assemble for the common
// cases; reach for Bind directly when composing decorators or capabilities.
func Bind[Ctx, C any, E event.Event, S, T any](
	st strategy.Strategy[C, E, S],
	project Projection[Ctx, C],
	conv func(S) T,
) Binding[Ctx, T] {
	if st == nil {
		panic("evolve: strategy cannot be nil")
	}
	if project == nil {
		panic("evolve: projection cannot be nil")
	}
	if conv == nil {
		panic("evolve: conversion cannot be nil")
	}

	identity := event.IdentityOf[E]()
	return Binding[Ctx, T]{
		identity: identity,
		apply: func(ctx context.Context, cap Ctx, ev event.Event) stream.Stream[T] {
			concrete, ok := ev.(E)
			if !ok {
				return stream.Fail[T](&DispatchError{Identity: identity, Err: ErrUnbound})
			}
			return stream.MapOK(st.Transform(ctx, project(cap), concrete), conv)
		},
	}
}

// BindAsIs binds E to the AsIs strategy: the event itself is the single
// output item, converted to T with conv.
func BindAsIs[Ctx any, E event.Event, T any](conv func(E) T) Binding[Ctx, T] {
	return Bind(strategy.AsIs[strategy.None, E](), Nothing[Ctx](), conv)
}

// BindSkip binds E to the Skip strategy: the event is dropped.
func BindSkip[Ctx any, E event.Event, T any]() Binding[Ctx, T] {
	return Bind(strategy.Skip[strategy.None, E, T](), Nothing[Ctx](), ident[T])
}

// BindConvert binds E to the Into strategy over AsIs: the event is emitted
// once, converted to T.
func BindConvert[Ctx any, E event.Event, T any](conv func(E) T) Binding[Ctx, T] {
	return Bind(strategy.Convert[strategy.None, E, T](conv), Nothing[Ctx](), ident[T])
}

// BindInitialized binds E to the Initialized strategy over AsIs: the event
// is emitted once, tagged as initializing, then converted to T with conv.
func BindInitialized[Ctx any, E event.Event, T any](conv func(event.Initial[E]) T) Binding[Ctx, T] {
	return Bind(strategy.InitializedAsIs[strategy.None, E](), Nothing[Ctx](), conv)
}

// BindSplit binds E to the Split strategy with a plain function splitter.
func BindSplit[Ctx any, E event.Event, T any](split func(E) []T) Binding[Ctx, T] {
	return Bind(strategy.SplitFunc[strategy.None, E, T](split), Nothing[Ctx](), ident[T])
}

// BindCustom binds E to a custom transform function with full access to the
// adapter context.
func BindCustom[Ctx any, E event.Event, T any](
	fn func(ctx context.Context, cap Ctx, ev E) stream.Stream[T],
) Binding[Ctx, T] {
	return Bind(strategy.Custom[Ctx, E, T](fn), Whole[Ctx](), ident[T])
}

func ident[T any](v T) T { return v }
