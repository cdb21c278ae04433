// SPDX-License-Identifier: Apache-2.0
// Copyright 2022 Jussi Maki

package stream

import (
	"sync"
	"time"
)

//
// Sources, e.g. operators that create new observables.
//

// Just creates an observable with a single item that then completes.
func Just[T any](item T) Observable[T] {
	return FuncObservable[T](
		func(sub *Subscriber[T]) {
			sub.Next(item)
			sub.Complete()
		})
}

// Never creates an observable that never emits anything and never completes.
// Mainly meant for testing.
func Never[T any]() Observable[T] {
	return FuncObservable[T](func(sub *Subscriber[T]) {})
}

// Error creates an observable that fails immediately with given error.
func Error[T any](err error) Observable[T] {
	return FuncObservable[T](
		func(sub *Subscriber[T]) {
			sub.Error(err)
		})
}

// Empty creates an empty observable that completes immediately.
func Empty[T any]() Observable[T] {
	return FuncObservable[T](
		func(sub *Subscriber[T]) {
			sub.Complete()
		})
}

// FromSlice converts a slice into an Observable. Emission stops early if the
// subscription is released midway.
func FromSlice[T any](items []T) Observable[T] {
	return FuncObservable[T](
		func(sub *Subscriber[T]) {
			for _, item := range items {
				if sub.Closed() {
					return
				}
				sub.Next(item)
			}
			sub.Complete()
		})
}

// FromChannel creates an observable from a channel. The channel is consumed
// by a goroutine started for each subscription and the stream completes when
// the channel is closed. Items are emitted from that goroutine.
func FromChannel[T any](in <-chan T) Observable[T] {
	return FuncObservable[T](
		func(sub *Subscriber[T]) {
			done := make(chan struct{})
			sub.Add(func() { close(done) })
			go func() {
				for {
					select {
					case <-done:
						return
					case v, ok := <-in:
						if !ok {
							sub.Complete()
							return
						}
						sub.Next(v)
					}
				}
			}()
		})
}

// Range creates an observable that emits integers in range from...to-1.
func Range(from, to int) Observable[int] {
	return FuncObservable[int](
		func(sub *Subscriber[int]) {
			for i := from; i < to; i++ {
				if sub.Closed() {
					return
				}
				sub.Next(i)
			}
			sub.Complete()
		})
}

// Interval emits an increasing counter value every 'interval' period.
func Interval(interval time.Duration, opts ...Option) Observable[int] {
	cfg := applyOptions(opts)
	return FuncObservable[int](
		func(sub *Subscriber[int]) {
			var (
				mu     sync.Mutex
				cancel func()
				i      int
				tick   func()
			)
			tick = func() {
				mu.Lock()
				defer mu.Unlock()
				if sub.Closed() {
					return
				}
				cancel = cfg.scheduler.Schedule(interval, func() {
					sub.Next(i)
					i++
					tick()
				})
			}
			sub.Add(func() {
				mu.Lock()
				stop := cancel
				mu.Unlock()
				if stop != nil {
					stop()
				}
			})
			tick()
		})
}

// Timer emits 'item' once after 'delay' and then completes.
func Timer[T any](delay time.Duration, item T, opts ...Option) Observable[T] {
	cfg := applyOptions(opts)
	return FuncObservable[T](
		func(sub *Subscriber[T]) {
			sub.Add(cfg.scheduler.Schedule(delay, func() {
				sub.Next(item)
				sub.Complete()
			}))
		})
}
