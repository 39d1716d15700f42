package group

import "fmt"

// Option is the record-level wrapper for fields whose component is allowed to
// be absent from the world. The zero Option is absent.
type Option[T any] struct {
	Value   T
	Present bool
}

// Some wraps a present value.
func Some[T any](v T) Option[T] {
	return Option[T]{Value: v, Present: true}
}

// None is the absent value.
func None[T any]() Option[T] {
	return Option[T]{}
}

// Get returns the wrapped value and whether it is present.
func (o Option[T]) Get() (T, bool) {
	return o.Value, o.Present
}

// OrElse returns the wrapped value, or fallback when absent.
func (o Option[T]) OrElse(fallback T) T {
	if o.Present {
		return o.Value
	}
	return fallback
}

func (o Option[T]) String() string {
	if !o.Present {
		return "None"
	}
	return fmt.Sprintf("Some(%v)", o.Value)
}
