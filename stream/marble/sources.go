// SPDX-License-Identifier: Apache-2.0
// Copyright 2022 Jussi Maki

package marble

import (
	"fmt"

	"github.com/joamaki/lightbulb/stream"
)

// Cold returns a cold observable replaying 'frames' on 'sched'. Every
// subscription gets its own copy of the frames, timed from the moment of
// subscribing.
func Cold[T any](sched stream.Scheduler, frames []Frame[T]) (stream.Observable[T], error) {
	for _, f := range frames {
		if f.Time < 0 {
			return nil, fmt.Errorf("%w: cold diagram cannot have a subscription point", ErrSyntax)
		}
	}
	return stream.FuncObservable[T](
		func(sub *stream.Subscriber[T]) {
			for _, f := range frames {
				f := f // per-iteration copy; go directive predates Go 1.22 loop semantics
				sub.Add(sched.Schedule(f.Time, func() { emit(sub, f) }))
			}
		}), nil
}

// Hot schedules 'frames' onto a subject right away and returns it.
// Frames before the subscription point can never be observed and are dropped.
func Hot[T any](sched stream.Scheduler, frames []Frame[T]) stream.Observable[T] {
	subject := stream.NewSubject[T]()
	for _, f := range frames {
		if f.Time < 0 {
			continue
		}
		f := f // per-iteration copy; go directive predates Go 1.22 loop semantics
		sched.Schedule(f.Time, func() {
			switch f.Kind {
			case KindNext:
				subject.Next(f.Value)
			case KindError:
				subject.Error(f.Err)
			case KindComplete:
				subject.Complete()
			}
		})
	}
	return subject
}

func emit[T any](sub *stream.Subscriber[T], f Frame[T]) {
	switch f.Kind {
	case KindNext:
		sub.Next(f.Value)
	case KindError:
		sub.Error(f.Err)
	case KindComplete:
		sub.Complete()
	}
}
