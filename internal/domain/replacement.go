package domain

// Replacement carries a wholesale replacement for a piece of session state.
// The zero value means "absent this turn": the receiver keeps what it had.
// A present Replacement holding an empty value clears the state.
type Replacement[T any] struct {
	value T
	set   bool
}

// Replace returns a present Replacement holding v.
func Replace[T any](v T) Replacement[T] {
	return Replacement[T]{value: v, set: true}
}

// Get returns the replacement value and whether it was present.
func (r Replacement[T]) Get() (T, bool) {
	return r.value, r.set
}

// Present reports whether the field was supplied.
func (r Replacement[T]) Present() bool {
	return r.set
}
