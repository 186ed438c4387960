package observable

import (
	"fmt"
	"log"
)

// Middleware transforms a value before it is published. It receives the
// container so that it can look at the value currently held, for diffing or
// logging. Returning an error aborts the publish.
type Middleware[T any] func(c Observable[T], proposed T) (T, error)

// A Pipeline is an ordered chain of middlewares.
type Pipeline[T any] struct {
	middlewares []Middleware[T]
}

// NewPipeline creates a pipeline that applies the middlewares in the given
// order.
func NewPipeline[T any](middlewares ...Middleware[T]) *Pipeline[T] {
	p := &Pipeline[T]{
		middlewares: make([]Middleware[T], len(middlewares)),
	}
	copy(p.middlewares, middlewares)

	return p
}

// Len returns the number of middlewares in the pipeline.
func (p *Pipeline[T]) Len() int {
	return len(p.middlewares)
}

// Apply folds the proposed value through every middleware, left to right, and
// returns the value to publish. An empty pipeline returns the value as is.
func (p *Pipeline[T]) Apply(c Observable[T], proposed T) (T, error) {
	value := proposed

	for i, mw := range p.middlewares {
		next, err := mw(c, value)
		if err != nil {
			var zero T
			return zero, fmt.Errorf("middleware %d: %w", i, err)
		}

		value = next
	}

	return value, nil
}

// PublishThrough runs the value through the pipeline and publishes the result
// into the container. Nothing is published if a middleware fails. Middlewares
// only see a read-only view of the container.
func (p *Pipeline[T]) PublishThrough(c *Container[T], proposed T) (T, error) {
	value, err := p.Apply(c.AsObservable(), proposed)
	if err != nil {
		return value, err
	}

	c.Publish(value)

	return value, nil
}

// LoggingMiddleware writes every value that passes through into the logger
// and returns it unchanged.
func LoggingMiddleware[T any](logger *log.Logger) Middleware[T] {
	return func(_ Observable[T], proposed T) (T, error) {
		logger.Printf("%+v", proposed)
		return proposed, nil
	}
}
