// Package option models tri-state fields — not-yet-known, vs. a definite
// value — without resorting to a sentinel zero value.
package option

// Option holds a value that may not yet be known.
type Option[T any] struct {
	set bool
	val T
}

// None returns an unset Option.
func None[T any]() Option[T] { return Option[T]{} }

// Some returns an Option set to v.
func Some[T any](v T) Option[T] { return Option[T]{set: true, val: v} }

// IsSet reports whether a value has been latched.
func (o Option[T]) IsSet() bool { return o.set }

// Get returns the value and whether it was set.
func (o Option[T]) Get() (T, bool) { return o.val, o.set }

// MustGet returns the value, or the zero value if unset.
func (o Option[T]) MustGet() T { return o.val }
