// SPDX-License-Identifier: Apache-2.0
// Copyright 2022 Jussi Maki

package streamtest

import (
	"fmt"
	"log/slog"
	"strings"
	"testing"

	"github.com/joamaki/lightbulb/stream"
	"github.com/joamaki/lightbulb/stream/marble"
	"github.com/kr/pretty"
	"github.com/neilotoole/slogt"
	"github.com/stretchr/testify/require"
)

// NewLogger returns a logger writing to the test log.
func NewLogger(t testing.TB) *slog.Logger {
	return slogt.New(t)
}

// NewScheduler returns a virtual scheduler logging to the test log.
func NewScheduler(t testing.TB) *stream.VirtualScheduler {
	return stream.NewVirtualScheduler(NewLogger(t))
}

// ExpectMarble subscribes to 'src', runs 'sched' until no actions are
// pending and asserts that the recorded signals match 'diagram'.
//
// Sources that never stop scheduling, such as Interval, make this loop
// forever; bound them with Take.
func ExpectMarble[T any](t testing.TB, sched *stream.VirtualScheduler, src stream.Observable[T], diagram string, values map[string]T) {
	t.Helper()

	expected, err := marble.Parse(diagram, values)
	require.NoError(t, err)

	rec := marble.Record[T](sched, src)
	sched.Flush()
	rec.Unsubscribe()

	RequireFrames(t, expected, rec.Frames(), values)
}

// RequireFrames asserts that 'actual' equals 'expected'. On mismatch both are
// rendered as diagrams, keyed by 'values', along with a diff.
func RequireFrames[T any](t testing.TB, expected, actual []marble.Frame[T], values map[string]T) {
	t.Helper()

	if len(expected) == 0 && len(actual) == 0 {
		return
	}

	key := keyer(values)
	diff := pretty.Diff(expected, actual)
	require.Equal(t, expected, actual,
		"expected diagram %q, got %q\n%s",
		marble.Format(expected, key),
		marble.Format(actual, key),
		strings.Join(diff, "\n"))
}

// keyer returns a function naming items by their key in 'values'. Items
// without a key are printed in braces.
func keyer[T any](values map[string]T) func(T) string {
	return func(v T) string {
		want := fmt.Sprintf("%#v", v)
		for k, candidate := range values {
			if fmt.Sprintf("%#v", candidate) == want {
				return k
			}
		}
		return "{" + fmt.Sprint(v) + "}"
	}
}
