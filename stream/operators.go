// SPDX-License-Identifier: Apache-2.0
// Copyright 2022 Jussi Maki

package stream

import (
	"sync"
)

// Map applies a function onto an observable.
func Map[A, B any](src Observable[A], apply func(A) B) Observable[B] {
	return FuncObservable[B](
		func(sub *Subscriber[B]) {
			subscribeUpstream(sub, src, Observer[A]{
				Next:     func(a A) { sub.Next(apply(a)) },
				Error:    sub.Error,
				Complete: sub.Complete,
			})
		})
}

// Filter keeps only the elements for which the filter function returns true.
func Filter[T any](src Observable[T], filter func(T) bool) Observable[T] {
	return FuncObservable[T](
		func(sub *Subscriber[T]) {
			subscribeUpstream(sub, src, Observer[T]{
				Next: func(x T) {
					if filter(x) {
						sub.Next(x)
					}
				},
				Error:    sub.Error,
				Complete: sub.Complete,
			})
		})
}

// Scan takes an initial state and a step function that is called on each element with the
// previous state and returns an observable of the states returned by the step function.
// E.g. Scan is like Reduce that emits the intermediate states.
//
// The state is per subscription.
func Scan[In, Out any](src Observable[In], init Out, step func(Out, In) Out) Observable[Out] {
	return FuncObservable[Out](
		func(sub *Subscriber[Out]) {
			prev := init
			subscribeUpstream(sub, src, Observer[In]{
				Next: func(x In) {
					prev = step(prev, x)
					sub.Next(prev)
				},
				Error:    sub.Error,
				Complete: sub.Complete,
			})
		})
}

// OnNext calls the supplied function on each emitted item.
func OnNext[T any](src Observable[T], f func(T)) Observable[T] {
	return FuncObservable[T](
		func(sub *Subscriber[T]) {
			subscribeUpstream(sub, src, Observer[T]{
				Next: func(item T) {
					f(item)
					sub.Next(item)
				},
				Error:    sub.Error,
				Complete: sub.Complete,
			})
		})
}

// Take takes 'n' items from the source 'src'.
// After the n-th item the stream completes and the source is unsubscribed
// whether or not it has completed itself. If the source completes before
// emitting 'n' items the completion is forwarded as is. With n <= 0 the
// stream completes without subscribing to the source.
func Take[T any](n int, src Observable[T]) Observable[T] {
	return FuncObservable[T](
		func(sub *Subscriber[T]) {
			if n <= 0 {
				sub.Complete()
				return
			}
			remaining := n
			subscribeUpstream(sub, src, Observer[T]{
				Next: func(item T) {
					if remaining <= 0 {
						return
					}
					remaining--
					sub.Next(item)
					if remaining == 0 {
						sub.Complete()
					}
				},
				Error:    sub.Error,
				Complete: sub.Complete,
			})
		})
}

// TakeWhile takes items from the source until 'pred' returns false after which
// the observable is completed.
func TakeWhile[T any](pred func(T) bool, src Observable[T]) Observable[T] {
	return FuncObservable[T](
		func(sub *Subscriber[T]) {
			subscribeUpstream(sub, src, Observer[T]{
				Next: func(item T) {
					if pred(item) {
						sub.Next(item)
					} else {
						sub.Complete()
					}
				},
				Error:    sub.Error,
				Complete: sub.Complete,
			})
		})
}

// Skip skips the first 'n' items from the source.
func Skip[T any](n int, src Observable[T]) Observable[T] {
	return FuncObservable[T](
		func(sub *Subscriber[T]) {
			skip := n
			subscribeUpstream(sub, src, Observer[T]{
				Next: func(item T) {
					if skip > 0 {
						skip--
						return
					}
					sub.Next(item)
				},
				Error:    sub.Error,
				Complete: sub.Complete,
			})
		})
}

// StartWith emits 'seeds' on subscription before the items of 'src'.
func StartWith[T any](src Observable[T], seeds ...T) Observable[T] {
	return FuncObservable[T](
		func(sub *Subscriber[T]) {
			for _, seed := range seeds {
				if sub.Closed() {
					return
				}
				sub.Next(seed)
			}
			subscribeUpstream(sub, src, sub.Observer())
		})
}

// Concat takes one or more observable of the same type and emits the items from each of
// them in order. The next observable is subscribed when the previous completes.
func Concat[T any](srcs ...Observable[T]) Observable[T] {
	return FuncObservable[T](
		func(sub *Subscriber[T]) {
			var next func(i int)
			next = func(i int) {
				if i >= len(srcs) {
					sub.Complete()
					return
				}
				subscribeUpstream(sub, srcs[i], Observer[T]{
					Next:     sub.Next,
					Error:    sub.Error,
					Complete: func() { next(i + 1) },
				})
			}
			next(0)
		})
}

// Merge multiple observables into one. Error from any one of the sources
// completes the stream with the error and unsubscribes the others. The
// merged stream completes when all the sources have completed.
//
// The sources must not emit concurrently with each other.
func Merge[T any](srcs ...Observable[T]) Observable[T] {
	return FuncObservable[T](
		func(sub *Subscriber[T]) {
			if len(srcs) == 0 {
				sub.Complete()
				return
			}
			var mu sync.Mutex
			running := len(srcs)
			for _, src := range srcs {
				if sub.Closed() {
					return
				}
				subscribeUpstream(sub, src, Observer[T]{
					Next:  sub.Next,
					Error: sub.Error,
					Complete: func() {
						mu.Lock()
						running--
						done := running == 0
						mu.Unlock()
						if done {
							sub.Complete()
						}
					},
				})
			}
		})
}
