// Package options implements the functional options used to configure
// encoders and converters.
package options

// Option configures a target of type T. Options run in the order they are
// passed; the first error stops the chain.
type Option[T any] func(T) error

// Apply applies opts to target in order, skipping nil options.
func Apply[T any](target T, opts ...Option[T]) error {
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(target); err != nil {
			return err
		}
	}

	return nil
}

// NoError wraps a setter that cannot fail.
func NoError[T any](fn func(T)) Option[T] {
	return func(target T) error {
		fn(target)
		return nil
	}
}
