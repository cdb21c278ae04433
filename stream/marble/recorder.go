// SPDX-License-Identifier: Apache-2.0
// Copyright 2022 Jussi Maki

package marble

import (
	"sync"
	"time"

	"github.com/joamaki/lightbulb/stream"
)

// Recorder records the signals of a subscription with their virtual times.
//
// Recorder is safe for concurrent use.
type Recorder[T any] struct {
	sched stream.Scheduler
	start time.Time
	sub   stream.Subscription

	mu     sync.Mutex
	frames []Frame[T]
}

// Record subscribes to 'src' and records everything it emits. Frame times are
// relative to the time of this call on 'sched'.
func Record[T any](sched stream.Scheduler, src stream.Observable[T]) *Recorder[T] {
	r := &Recorder[T]{sched: sched, start: sched.Now()}
	r.sub = src.Subscribe(stream.Observer[T]{
		Next: func(item T) {
			r.add(Frame[T]{Kind: KindNext, Value: item})
		},
		Error: func(err error) {
			r.add(Frame[T]{Kind: KindError, Err: err})
		},
		Complete: func() {
			r.add(Frame[T]{Kind: KindComplete})
		},
	})
	return r
}

func (r *Recorder[T]) add(f Frame[T]) {
	f.Time = r.sched.Now().Sub(r.start)
	r.mu.Lock()
	r.frames = append(r.frames, f)
	r.mu.Unlock()
}

// Frames returns a snapshot copy of the recorded frames.
func (r *Recorder[T]) Frames() []Frame[T] {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := make([]Frame[T], len(r.frames))
	copy(cp, r.frames)
	return cp
}

// Values returns the recorded items in order.
func (r *Recorder[T]) Values() []T {
	frames := r.Frames()
	out := make([]T, 0, len(frames))
	for _, f := range frames {
		if f.Kind == KindNext {
			out = append(out, f.Value)
		}
	}
	return out
}

// Completed returns true if the stream completed.
func (r *Recorder[T]) Completed() bool {
	return r.last() == KindComplete
}

// Err returns the error the stream failed with, or nil.
func (r *Recorder[T]) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if n := len(r.frames); n > 0 && r.frames[n-1].Kind == KindError {
		return r.frames[n-1].Err
	}
	return nil
}

// Subscription returns the recorded subscription.
func (r *Recorder[T]) Subscription() stream.Subscription {
	return r.sub
}

// Unsubscribe releases the recorded subscription.
func (r *Recorder[T]) Unsubscribe() {
	r.sub.Unsubscribe()
}

func (r *Recorder[T]) last() Kind {
	r.mu.Lock()
	defer r.mu.Unlock()
	if n := len(r.frames); n > 0 {
		return r.frames[n-1].Kind
	}
	return KindNext
}
