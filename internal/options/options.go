// Package options implements the functional option pattern used by
// bench.Runner and sweep.Driver.
package options

// Option configures a target of type T.
type Option[T any] interface {
	apply(T) error
}

type fnOption[T any] struct {
	fn func(T) error
}

func (o fnOption[T]) apply(target T) error {
	return o.fn(target)
}

// New wraps fn as an Option. An error returned by fn aborts Apply.
func New[T any](fn func(T) error) Option[T] {
	return fnOption[T]{fn: fn}
}

// NoError wraps a setter that cannot fail.
func NoError[T any](fn func(T)) Option[T] {
	return fnOption[T]{fn: func(target T) error {
		fn(target)
		return nil
	}}
}

// Apply applies opts to target in order and stops at the first error.
// Nil options are skipped.
func Apply[T any](target T, opts ...Option[T]) error {
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt.apply(target); err != nil {
			return err
		}
	}

	return nil
}
