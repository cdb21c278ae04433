// SPDX-License-Identifier: Apache-2.0
// Copyright 2022 Jussi Maki

// Package stream is a small push-based reactive kernel: observables that push
// items to subscribed observers, composed with plain functions.
//
// Time-based operators take their timing from a Scheduler, either the wall
// clock or a VirtualScheduler that only advances when told to.
package stream

// Observable is a push-based stream of T's terminated by at most one
// completion or error signal.
type Observable[T any] interface {
	// Subscribe attaches 'observer' to the stream and returns the
	// subscription that owns the resources created for it.
	//
	// Implementations of Subscribe() must maintain the following invariants:
	// - Every call creates independent state. Nothing is shared between
	//   subscriptions of the same observable.
	// - Values are delivered sequentially, never concurrently.
	// - After a terminal signal (Error or Complete) nothing further is
	//   delivered and the subscription's resources are released.
	// - Unsubscribe on the returned subscription stops deliveries and
	//   releases everything the subscription created, transitively upstream.
	Subscribe(observer Observer[T]) Subscription
}

// Observer receives the signals of a stream. Any of the handlers may be nil,
// in which case the signal is dropped. An error without an Error handler is
// logged.
type Observer[T any] struct {
	Next     func(T)
	Error    func(error)
	Complete func()
}

// Subscription is the live binding between an observable and an observer.
type Subscription interface {
	// Unsubscribe stops deliveries and releases the resources of the
	// subscription. Safe to call multiple times.
	Unsubscribe()

	// Closed returns true after the subscription has been released, either
	// by Unsubscribe or by a terminal signal.
	Closed() bool
}

// FuncObservable wraps a producer function that implements Subscribe.
// Convenience when declaring a struct to implement Subscribe() is overkill.
//
// The producer is given the Subscriber of the new subscription. It emits through
// it and registers its resources with Subscriber.Add:
//
//	var ones Observable[int] = FuncObservable[int](
//		func(sub *Subscriber[int]) {
//			stop := sched.Schedule(time.Second, func() { sub.Next(1) })
//			sub.Add(stop)
//		})
type FuncObservable[T any] func(*Subscriber[T])

func (f FuncObservable[T]) Subscribe(observer Observer[T]) Subscription {
	sub := NewSubscriber(observer)
	f(sub)
	return sub
}

// Subscribe is a convenience for subscribing with only a 'next' handler.
func Subscribe[T any](src Observable[T], next func(T)) Subscription {
	return src.Subscribe(Observer[T]{Next: next})
}

// subscribeUpstream subscribes 'observer' to 'src' on behalf of 'down'. The
// upstream subscriber is registered with 'down' before 'src' starts
// producing, so releasing 'down' stops a source that is still emitting from
// within Subscribe.
func subscribeUpstream[T any](down interface{ Add(func()) }, src Observable[T], observer Observer[T]) Subscription {
	up := NewSubscriber(observer)
	down.Add(up.Unsubscribe)
	if up.Closed() {
		return up
	}
	if f, ok := src.(FuncObservable[T]); ok {
		f(up)
	} else {
		up.Add(src.Subscribe(up.Observer()).Unsubscribe)
	}
	return up
}
