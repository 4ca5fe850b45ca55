package domain

// Optional distinguishes "field absent from the update" from "field set
// to its zero value". Update inputs use it for every partial field so a
// caller can clear a note or archive a record without ambiguity.
type Optional[T any] struct {
	value T
	set   bool
}

// Some returns an Optional holding v.
func Some[T any](v T) Optional[T] {
	return Optional[T]{value: v, set: true}
}

// None returns an unset Optional.
func None[T any]() Optional[T] {
	return Optional[T]{}
}

// Get returns the value and whether it was set.
func (o Optional[T]) Get() (T, bool) {
	return o.value, o.set
}

// IsSet reports whether the value was provided.
func (o Optional[T]) IsSet() bool {
	return o.set
}

// Value returns the held value, or the zero value when unset.
func (o Optional[T]) Value() T {
	return o.value
}
