package model

// Option holds either a value or nothing. It is used for the fields of a
// snapshot where absence is meaningful, so the zero value means absent.
type Option[T any] struct {
	value T
	ok    bool
}

// Some returns a present Option.
func Some[T any](v T) Option[T] { return Option[T]{value: v, ok: true} }

// None returns an absent Option.
func None[T any]() Option[T] { return Option[T]{} }

// Get returns the value and whether it is present.
func (o Option[T]) Get() (T, bool) { return o.value, o.ok }

// IsPresent reports whether o holds a value.
func (o Option[T]) IsPresent() bool { return o.ok }

// OrElse returns the value or def when absent.
func (o Option[T]) OrElse(def T) T {
	if o.ok {
		return o.value
	}
	return def
}

// MustGet returns the value and panics when absent.
func (o Option[T]) MustGet() T {
	if !o.ok {
		panic("model: MustGet on absent option")
	}
	return o.value
}
