// Package evolve adapts sequences of versioned events into the event types a
// downstream consumer expects.
package evolve

import (
	"errors"
	"fmt"

	"github.com/randalmurphal/evolve/pkg/evolve/event"
)

// Sentinel errors for adapter building and compilation.
var (
	// ErrNoRegistry indicates New() was called with a nil registry.
	ErrNoRegistry = errors.New("event registry not set")

	// ErrUnboundEvent indicates a registry event has no strategy binding.
	ErrUnboundEvent = errors.New("event has no strategy binding")

	// ErrUnknownEvent indicates a binding references an identity outside
	// the registry's closed set.
	ErrUnknownEvent = errors.New("bound event not in registry")
)

// Sentinel errors for transformation.
var (
	// ErrUnbound indicates an event outside the adapter's closed set was
	// dispatched. Compile() rules this out for registry members, so it only
	// occurs when the input source yields foreign events.
	ErrUnbound = errors.New("no binding for event")
)

// DispatchError wraps a failure to dispatch one input event. It is yielded
// as an error item in the output stream; the driver keeps going.
type DispatchError struct {
	// Identity is the identity of the event that could not be dispatched.
	Identity event.Identity
	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *DispatchError) Error() string {
	return fmt.Sprintf("dispatch %s: %v", e.Identity, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *DispatchError) Unwrap() error {
	return e.Err
}

// TransformError wraps an error item produced by a strategy, adding the
// identity of the input event it came from.
type TransformError struct {
	// Identity is the identity of the input event whose strategy failed.
	Identity event.Identity
	// Err is the strategy's error.
	Err error
}

// Error implements the error interface.
func (e *TransformError) Error() string {
	return fmt.Sprintf("transform %s: %v", e.Identity, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *TransformError) Unwrap() error {
	return e.Err
}
