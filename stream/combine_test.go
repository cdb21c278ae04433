// SPDX-License-Identifier: Apache-2.0
// Copyright 2022 Jussi Maki

package stream_test

import (
	"testing"

	"github.com/joamaki/lightbulb/stream"
	"github.com/joamaki/lightbulb/stream/streamtest"
	"github.com/stretchr/testify/require"
)

type pair = stream.Tuple2[string, string]

func TestCombineLatest2(t *testing.T) {
	t.Parallel()

	sched := streamtest.NewScheduler(t)
	pairs := map[string]pair{
		"P": {V1: "a", V2: "x"},
		"Q": {V1: "a", V2: "y"},
		"R": {V1: "b", V2: "y"},
	}
	values := map[string]string{"a": "a", "b": "b", "x": "x", "y": "y"}

	// 1. emits once both have emitted, completes when both have completed
	streamtest.ExpectMarble(t, sched,
		stream.CombineLatest2(
			streamtest.Cold(t, sched, "-a---b|", values),
			streamtest.Cold(t, sched, "--x-y|", values)),
		"--P-QR|", pairs)

	// 2. completes right away if a source completes without items
	streamtest.ExpectMarble(t, sched,
		stream.CombineLatest2(
			streamtest.Cold(t, sched, "---|", values),
			streamtest.Cold(t, sched, "-x", values)),
		"---|", pairs)

	// 3. errors pass through and unsubscribe the other source
	streamtest.ExpectMarble(t, sched,
		stream.CombineLatest2(
			streamtest.Cold(t, sched, "-#", values),
			streamtest.Cold(t, sched, "-x-y", values)),
		"-#", pairs)

	require.Zero(t, sched.Pending())
}

func TestCombineLatestMapSkip(t *testing.T) {
	t.Parallel()

	sched := streamtest.NewScheduler(t)
	ints := map[string]int{"1": 1, "5": 5, "s": 3, "t": 7, "u": 10}
	sum := func(a, b int) int { return a + b }

	// 1. without skipping the seed combination is emitted on subscription
	streamtest.ExpectMarble(t, sched,
		stream.CombineLatestMapSkip(
			streamtest.Cold(t, sched, "--5", ints),
			stream.Never[int](),
			1, 2, sum, 0),
		"s-t", ints)

	// 2. skipping the seed combination
	streamtest.ExpectMarble(t, sched,
		stream.CombineLatestMapSkip(
			streamtest.Cold(t, sched, "--5", ints),
			streamtest.Cold(t, sched, "---5|", ints),
			1, 2, sum, 1),
		"--tu", ints)
}

func TestCombineLatestMapSkip_xor(t *testing.T) {
	t.Parallel()

	xor := func(a, b bool) bool { return a != b }
	a, b := stream.NewSubject[bool](), stream.NewSubject[bool]()

	var lit []bool
	sub := stream.Subscribe(
		stream.CombineLatestMapSkip[bool, bool, bool](a, b, false, false, xor, 1),
		func(on bool) { lit = append(lit, on) })

	// Nothing is emitted for the seeds.
	require.Empty(t, lit)

	a.Next(true)
	require.Equal(t, []bool{true}, lit)
	b.Next(true)
	require.Equal(t, []bool{true, false}, lit)
	a.Next(false)
	require.Equal(t, []bool{true, false, true}, lit)

	// Not deduplicated.
	a.Next(false)
	require.Equal(t, []bool{true, false, true, true}, lit)

	sub.Unsubscribe()
	sub.Unsubscribe()
	a.Next(true)
	require.Len(t, lit, 4)
	require.Zero(t, a.Observed())
	require.Zero(t, b.Observed())
}

func TestCombineLatestMapSkip_completesWhenBothComplete(t *testing.T) {
	t.Parallel()

	sched := streamtest.NewScheduler(t)
	switches := map[string]bool{"i": true, "o": false}
	xor := func(a, b bool) bool { return a != b }

	streamtest.ExpectMarble(t, sched,
		stream.CombineLatestMapSkip(
			streamtest.Cold(t, sched, "i|", switches),
			streamtest.Cold(t, sched, "--o|", switches),
			false, false, xor, 1),
		"i-i|", switches)
}
