// SPDX-License-Identifier: Apache-2.0
// Copyright 2022 Jussi Maki

package stream

import (
	"context"
	"sync"
)

//
// Sinks: operators that run an observable and send the output somewhere.
//

// ToSlice subscribes to 'src' and blocks until it terminates, returning the
// items it emitted. If 'ctx' is cancelled first, the subscription is released
// and the items so far are returned with ctx.Err().
func ToSlice[T any](ctx context.Context, src Observable[T]) ([]T, error) {
	var (
		mu    sync.Mutex
		items = make([]T, 0)
	)
	errs := make(chan error, 1)
	sub := src.Subscribe(Observer[T]{
		Next: func(item T) {
			mu.Lock()
			items = append(items, item)
			mu.Unlock()
		},
		Error:    func(err error) { errs <- err },
		Complete: func() { errs <- nil },
	})

	var err error
	select {
	case err = <-errs:
	case <-ctx.Done():
		err = ctx.Err()
	}
	sub.Unsubscribe()

	mu.Lock()
	defer mu.Unlock()
	return items, err
}

// First returns the first item from 'src' observable and then unsubscribes.
// ErrEmpty is returned if 'src' completes without items.
func First[T any](ctx context.Context, src Observable[T]) (item T, err error) {
	items, err := ToSlice(ctx, Take(1, src))
	if err != nil {
		return item, err
	}
	if len(items) == 0 {
		return item, ErrEmpty
	}
	return items[0], nil
}

// ToChannels converts an observable into an item channel and error channel.
// When the source terminates or 'ctx' is cancelled both channels are closed
// and an error (which may be nil) is always sent to the error channel.
//
// Sending to the item channel blocks the producer until the item is received.
func ToChannels[T any](ctx context.Context, src Observable[T]) (<-chan T, <-chan error) {
	out := make(chan T, 1)
	errs := make(chan error, 1)
	go func() {
		ctx, cancel := context.WithCancel(ctx)
		defer cancel()

		var (
			mu     sync.RWMutex
			closed bool
		)
		done := make(chan error, 1)
		sub := src.Subscribe(Observer[T]{
			Next: func(item T) {
				mu.RLock()
				defer mu.RUnlock()
				if closed {
					return
				}
				select {
				case out <- item:
				case <-ctx.Done():
				}
			},
			Error:    func(err error) { done <- err },
			Complete: func() { done <- nil },
		})

		var err error
		select {
		case err = <-done:
		case <-ctx.Done():
			err = ctx.Err()
		}

		// Unblock and stop the producer before closing the item channel.
		cancel()
		sub.Unsubscribe()
		mu.Lock()
		closed = true
		close(out)
		mu.Unlock()

		errs <- err
		close(errs)
	}()
	return out, errs
}
