/*
Package evolve adapts sequences of heterogeneously-typed, versioned events
into the event types a downstream consumer expects.

# Overview

Event schemas evolve: old event shapes must be upgraded, irrelevant events
dropped, composite legacy events split into finer-grained ones, and ad-hoc
conversions injected. evolve is a Go library for doing this with a fixed,
construction-time-checked set of per-event-type strategies:

  - A closed set of event identities lives in an event.Registry
  - Each identity is bound to a strategy (as-is, skip, convert, initialized,
    split, custom) at adapter construction
  - Compile() verifies every identity is bound exactly once, before the
    pipeline ever runs
  - TransformAll flattens per-event strategy outputs into one ordered, lazy
    result stream

# Basic Usage

Declare the event set, bind strategies, compile, and run:

	registry := event.NewRegistry()
	registry.MustRegister(event.Descriptor{Name: "email.added", Revision: 3})
	registry.MustRegister(event.Descriptor{Name: "email.confirmed", Revision: 3})
	registry.MustRegister(event.Descriptor{Name: "message.posted", Revision: 1})

	adapter, err := evolve.New[Services, EmailEvent]("email", registry).
	    Bind(evolve.BindAsIs[Services](wrapAdded)).
	    Bind(evolve.BindAsIs[Services](wrapConfirmed)).
	    Bind(evolve.BindSkip[Services, message.Posted, EmailEvent]()).
	    Compile()
	if err != nil {
	    log.Fatal(err)
	}

	out := adapter.TransformAll(ctx, services, source)
	for item, err := range out {
	    // items appear in input order; errors are items, not stops
	}

# Strategies

Built-in strategies cover the common transformation policies; see the
strategy package. Decorators compose, so upgrading a v1 event to the current
schema and tagging it as state-initializing is one binding:

	evolve.Bind(
	    strategy.Initialized(strategy.Convert[strategy.None, chatv1.Created](upgrade)),
	    evolve.Nothing[Services](),
	    wrapChat,
	)

# Capabilities

Strategies that need services beyond the event declare a capability type;
the binding projects the adapter's single context value into it. Projections
are plain functions, so a context that cannot satisfy a capability is a
compile error, never a runtime one.

# Laziness and ordering

Every stream in the pipeline is lazy and pull-based: nothing runs until the
consumer asks for the next item, at most one strategy's output stream is open
at a time, and breaking out of the range releases everything immediately.
Output order is input order, with each event's items contiguous.
*/
package evolve
