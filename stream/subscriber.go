// SPDX-License-Identifier: Apache-2.0
// Copyright 2022 Jussi Maki

package stream

import (
	"sync"
)

// Subscriber is the producer's end of a subscription. It forwards signals to
// the observer while enforcing the stream protocol and owns the teardown
// functions of the subscription.
//
// A Subscriber is safe to use from multiple goroutines, but signals must not
// be emitted concurrently as the observer is not expected to be thread-safe.
type Subscriber[T any] struct {
	observer Observer[T]

	mu sync.Mutex
	// stopped is set when a terminal signal has been accepted.
	stopped bool
	// closed is set when teardowns have been run.
	closed    bool
	teardowns []func()
}

var _ Subscription = &Subscriber[int]{}

// NewSubscriber returns a subscriber delivering to 'observer'.
func NewSubscriber[T any](observer Observer[T]) *Subscriber[T] {
	return &Subscriber[T]{observer: observer}
}

// Next delivers a value. Dropped if the subscriber has terminated or was
// unsubscribed.
func (s *Subscriber[T]) Next(item T) {
	if s.isStopped() {
		reportViolation("next")
		return
	}
	if s.observer.Next != nil {
		s.observer.Next(item)
	}
}

// Error delivers a terminal error and releases the subscription.
func (s *Subscriber[T]) Error(err error) {
	if !s.stop() {
		reportViolation("error")
		return
	}
	if s.observer.Error != nil {
		s.observer.Error(err)
	} else {
		getLogger().Warn("Unhandled stream error", "err", err)
	}
	s.Unsubscribe()
}

// Complete delivers completion and releases the subscription.
func (s *Subscriber[T]) Complete() {
	if !s.stop() {
		reportViolation("complete")
		return
	}
	if s.observer.Complete != nil {
		s.observer.Complete()
	}
	s.Unsubscribe()
}

// Add registers a teardown function to run when the subscription is released.
// If the subscription is already released the teardown runs immediately.
func (s *Subscriber[T]) Add(teardown func()) {
	if teardown == nil {
		return
	}
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		teardown()
		return
	}
	s.teardowns = append(s.teardowns, teardown)
	s.mu.Unlock()
}

// Unsubscribe stops further deliveries and runs the teardowns in the order
// they were added. Only the first call has an effect.
func (s *Subscriber[T]) Unsubscribe() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.stopped = true
	s.closed = true
	teardowns := s.teardowns
	s.teardowns = nil
	s.mu.Unlock()

	for _, teardown := range teardowns {
		teardown()
	}
}

// Closed returns true once the subscription has been released.
func (s *Subscriber[T]) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Observer returns an observer that forwards all signals to this subscriber.
// Used by operators to subscribe upstream on behalf of their downstream.
func (s *Subscriber[T]) Observer() Observer[T] {
	return Observer[T]{
		Next:     s.Next,
		Error:    s.Error,
		Complete: s.Complete,
	}
}

func (s *Subscriber[T]) isStopped() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stopped
}

// stop marks the subscriber as terminated. Returns false if it already was.
func (s *Subscriber[T]) stop() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return false
	}
	s.stopped = true
	return true
}
