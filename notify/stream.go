// Package notify provides bounded, synchronous fan-out used between systems.
// Every stream has a fixed subscriber capacity chosen by its owner, so the set
// of observers is known up front and cannot grow without bound.
package notify

import (
	"errors"
	"fmt"
)

var ErrFull = errors.New("notify: stream subscriber capacity reached")

// Unit is the payload of zero-payload notifications.
type Unit struct{}

type Stream[T any] struct {
	name     string
	capacity int
	subs     []func(T) error
}

func NewStream[T any](name string, capacity int) *Stream[T] {
	if capacity <= 0 {
		capacity = 1
	}
	return &Stream[T]{
		name:     name,
		capacity: capacity,
		subs:     make([]func(T) error, 0, capacity),
	}
}

// Subscribe registers fn. It fails with ErrFull once the capacity is used.
func (s *Stream[T]) Subscribe(fn func(T) error) error {
	if fn == nil {
		return nil
	}
	if len(s.subs) >= s.capacity {
		return fmt.Errorf("%s: %w", s.name, ErrFull)
	}
	s.subs = append(s.subs, fn)
	return nil
}

// Publish calls subscribers synchronously in subscription order and stops at
// the first error.
func (s *Stream[T]) Publish(v T) error {
	if s == nil {
		return nil
	}
	for _, fn := range s.subs {
		if err := fn(v); err != nil {
			return fmt.Errorf("%s: %w", s.name, err)
		}
	}
	return nil
}

func (s *Stream[T]) Len() int {
	if s == nil {
		return 0
	}
	return len(s.subs)
}
