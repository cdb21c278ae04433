// SPDX-License-Identifier: Apache-2.0
// Copyright 2022 Jussi Maki

package stream_test

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/joamaki/lightbulb/stream"
	"github.com/stretchr/testify/require"
)

func TestSubscriber_signalsAfterTerminationAreDropped(t *testing.T) {
	t.Parallel()

	var (
		items       []int
		completions int
		errs        []error
	)
	sub := stream.NewSubscriber(stream.Observer[int]{
		Next:     func(x int) { items = append(items, x) },
		Error:    func(err error) { errs = append(errs, err) },
		Complete: func() { completions++ },
	})

	sub.Next(1)
	sub.Complete()
	sub.Next(2)
	sub.Complete()
	sub.Error(errors.New("late"))

	require.Equal(t, []int{1}, items)
	require.Equal(t, 1, completions)
	require.Empty(t, errs)
	require.True(t, sub.Closed())
}

func TestSubscriber_errorRunsTeardown(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	var (
		got      error
		torndown bool
	)
	sub := stream.NewSubscriber(stream.Observer[int]{
		Error: func(err error) { got = err },
	})
	sub.Add(func() { torndown = true })

	sub.Error(boom)

	require.ErrorIs(t, got, boom)
	require.True(t, torndown)
	require.True(t, sub.Closed())
}

func TestSubscriber_teardownOrderAndIdempotence(t *testing.T) {
	t.Parallel()

	var order []string
	sub := stream.NewSubscriber(stream.Observer[int]{})
	sub.Add(func() { order = append(order, "first") })
	sub.Add(func() { order = append(order, "second") })
	sub.Add(nil)

	require.False(t, sub.Closed())
	sub.Unsubscribe()
	sub.Unsubscribe()
	require.Equal(t, []string{"first", "second"}, order)

	// Teardowns added after release run right away.
	sub.Add(func() { order = append(order, "late") })
	require.Equal(t, []string{"first", "second", "late"}, order)
}

func TestSubscriber_nilHandlersAreNoops(t *testing.T) {
	t.Parallel()

	sub := stream.NewSubscriber(stream.Observer[string]{})
	require.NotPanics(t, func() {
		sub.Next("a")
		sub.Error(errors.New("unhandled"))
		sub.Complete()
	})
}

func TestSubscriber_unsubscribeStopsDelivery(t *testing.T) {
	t.Parallel()

	var items []int
	sub := stream.NewSubscriber(stream.Observer[int]{
		Next: func(x int) { items = append(items, x) },
	})
	sub.Next(1)
	sub.Unsubscribe()
	sub.Next(2)

	require.Equal(t, []int{1}, items)
}

// Not parallel as it swaps the package logger.
func TestSubscriber_reportsViolations(t *testing.T) {
	var buf bytes.Buffer
	stream.SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { stream.SetLogger(nil) })

	sub := stream.NewSubscriber(stream.Observer[int]{})
	sub.Complete()
	sub.Next(1)

	require.Contains(t, buf.String(), stream.ErrSignalAfterTermination.Error())
	require.Contains(t, buf.String(), "signal=next")
}

func TestFuncObservable_independentSubscriptions(t *testing.T) {
	t.Parallel()

	var producers int
	src := stream.FuncObservable[int](func(sub *stream.Subscriber[int]) {
		producers++
		sub.Next(producers)
	})

	var a, b []int
	subA := stream.Subscribe[int](src, func(x int) { a = append(a, x) })
	subB := stream.Subscribe[int](src, func(x int) { b = append(b, x) })
	subA.Unsubscribe()

	require.Equal(t, []int{1}, a)
	require.Equal(t, []int{2}, b)
	require.True(t, subA.Closed())
	require.False(t, subB.Closed())
}
