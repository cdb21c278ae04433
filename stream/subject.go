// SPDX-License-Identifier: Apache-2.0
// Copyright 2022 Jussi Maki

package stream

import (
	"sync"
)

// Subject is a hot observable fed by its Next, Error and Complete methods.
// Values are pushed to the observers subscribed at the time of the push;
// observers subscribing later miss them. Observers subscribing after the
// subject has terminated receive the terminal signal immediately.
//
// Subject is safe for concurrent use, but pushes must not be concurrent with
// each other as they are delivered on the pushing goroutine.
type Subject[T any] struct {
	mu     sync.Mutex
	nextID int
	subs   []subjectEntry[T]
	done   bool
	err    error
}

type subjectEntry[T any] struct {
	id  int
	sub *Subscriber[T]
}

var _ Observable[int] = &Subject[int]{}

// NewSubject returns a subject without observers.
func NewSubject[T any]() *Subject[T] {
	return &Subject[T]{}
}

func (s *Subject[T]) Subscribe(observer Observer[T]) Subscription {
	sub := NewSubscriber(observer)

	s.mu.Lock()
	if s.done {
		err := s.err
		s.mu.Unlock()
		if err != nil {
			sub.Error(err)
		} else {
			sub.Complete()
		}
		return sub
	}
	id := s.nextID
	s.nextID++
	s.subs = append(s.subs, subjectEntry[T]{id, sub})
	s.mu.Unlock()

	sub.Add(func() { s.remove(id) })
	return sub
}

// Next pushes 'item' to the current observers. Ignored after termination.
func (s *Subject[T]) Next(item T) {
	subs, ok := s.snapshot(false, nil)
	if !ok {
		reportViolation("next")
		return
	}
	for _, sub := range subs {
		sub.Next(item)
	}
}

// Error terminates the subject with 'err'.
func (s *Subject[T]) Error(err error) {
	subs, ok := s.snapshot(true, err)
	if !ok {
		reportViolation("error")
		return
	}
	for _, sub := range subs {
		sub.Error(err)
	}
}

// Complete terminates the subject.
func (s *Subject[T]) Complete() {
	subs, ok := s.snapshot(true, nil)
	if !ok {
		reportViolation("complete")
		return
	}
	for _, sub := range subs {
		sub.Complete()
	}
}

// Observed returns the number of current observers.
func (s *Subject[T]) Observed() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subs)
}

// snapshot returns the current subscribers, optionally marking the subject
// terminated. Returns false if the subject had already terminated.
func (s *Subject[T]) snapshot(terminate bool, err error) ([]*Subscriber[T], bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.done {
		return nil, false
	}
	if terminate {
		s.done = true
		s.err = err
	}
	subs := make([]*Subscriber[T], len(s.subs))
	for i, e := range s.subs {
		subs[i] = e.sub
	}
	return subs, true
}

func (s *Subject[T]) remove(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, e := range s.subs {
		if e.id == id {
			s.subs = append(s.subs[:i], s.subs[i+1:]...)
			return
		}
	}
}
