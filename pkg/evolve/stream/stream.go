// Package stream provides the lazy result sequence type the adapter pipeline
// is built on.
//
// A Stream carries zero or more (value, error) items. It is pull-based: no
// work happens until the consumer ranges over it, and breaking out of the
// range releases the producer immediately. Streams are finite unless the
// producer says otherwise, and are not restartable: range over a Stream at
// most once.
package stream

import "iter"

// Stream is a lazy sequence of (value, error) items.
//
// It is structurally an iter.Seq2[T, error], so it works directly with
// range-over-func:
//
//	for v, err := range s {
//	    if err != nil { ... }
//	}
//
// An item carries either a value or an error, never both.
type Stream[T any] func(yield func(T, error) bool)

// Of returns a stream yielding the given items, in order, all successful.
func Of[T any](items ...T) Stream[T] {
	return func(yield func(T, error) bool) {
		for _, v := range items {
			if !yield(v, nil) {
				return
			}
		}
	}
}

// Empty returns a stream that yields nothing.
func Empty[T any]() Stream[T] {
	return func(yield func(T, error) bool) {}
}

// Fail returns a stream yielding a single error item.
func Fail[T any](err error) Stream[T] {
	return func(yield func(T, error) bool) {
		var zero T
		yield(zero, err)
	}
}

// FromSeq adapts a plain sequence into a stream of successful items.
func FromSeq[T any](seq iter.Seq[T]) Stream[T] {
	return func(yield func(T, error) bool) {
		for v := range seq {
			if !yield(v, nil) {
				return
			}
		}
	}
}

// Concat returns a stream yielding all items of each input stream in order.
// Error items do not stop the concatenation; only the consumer can.
func Concat[T any](streams ...Stream[T]) Stream[T] {
	return func(yield func(T, error) bool) {
		for _, s := range streams {
			done := false
			s(func(v T, err error) bool {
				if !yield(v, err) {
					done = true
					return false
				}
				return true
			})
			if done {
				return
			}
		}
	}
}

// MapOK returns a stream applying fn to each successful item of s.
// Error items pass through unchanged.
func MapOK[A, B any](s Stream[A], fn func(A) B) Stream[B] {
	return func(yield func(B, error) bool) {
		s(func(v A, err error) bool {
			if err != nil {
				var zero B
				return yield(zero, err)
			}
			return yield(fn(v), nil)
		})
	}
}

// Seq exposes the stream as a standard iter.Seq2 for use with other
// iterator-based APIs.
func (s Stream[T]) Seq() iter.Seq2[T, error] {
	return iter.Seq2[T, error](s)
}

// Pull converts the stream to pull style. next reports the next item and
// whether one was available; stop releases the stream and must be called
// when the consumer is done early.
func (s Stream[T]) Pull() (next func() (T, error, bool), stop func()) {
	return iter.Pull2(s.Seq())
}

// Collect drains the stream into a slice, stopping at the first error item.
// The items collected before the error are returned alongside it.
func (s Stream[T]) Collect() ([]T, error) {
	var out []T
	var failure error
	s(func(v T, err error) bool {
		if err != nil {
			failure = err
			return false
		}
		out = append(out, v)
		return true
	})
	return out, failure
}

// CollectAll drains the entire stream, separating successful items from
// error items. Unlike Collect, error items do not stop consumption.
func (s Stream[T]) CollectAll() (ok []T, errs []error) {
	s(func(v T, err error) bool {
		if err != nil {
			errs = append(errs, err)
		} else {
			ok = append(ok, v)
		}
		return true
	})
	return ok, errs
}
