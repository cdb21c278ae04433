// SPDX-License-Identifier: Apache-2.0
// Copyright 2022 Jussi Maki

// Package streamtest contains test helpers asserting observables against
// marble diagrams on a virtual clock. The diagram syntax is described in
// package marble.
package streamtest

import (
	"testing"

	"github.com/joamaki/lightbulb/stream"
	"github.com/joamaki/lightbulb/stream/marble"
	"github.com/stretchr/testify/require"
)

// Cold parses 'diagram' and returns it as a cold observable on 'sched'.
func Cold[T any](t testing.TB, sched stream.Scheduler, diagram string, values map[string]T) stream.Observable[T] {
	t.Helper()
	frames, err := marble.Parse(diagram, values)
	require.NoError(t, err)
	src, err := marble.Cold(sched, frames)
	require.NoError(t, err)
	return src
}

// Hot parses 'diagram' and returns it as a hot observable on 'sched'. The
// '^' marker, if any, is placed at the current time of 'sched'.
func Hot[T any](t testing.TB, sched stream.Scheduler, diagram string, values map[string]T) stream.Observable[T] {
	t.Helper()
	frames, err := marble.Parse(diagram, values)
	require.NoError(t, err)
	return marble.Hot(sched, frames)
}
