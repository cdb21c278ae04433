// SPDX-License-Identifier: Apache-2.0
// Copyright 2022 Jussi Maki

package marble_test

import (
	"testing"
	"time"

	"github.com/joamaki/lightbulb/stream/marble"
	"github.com/stretchr/testify/require"
)

var values = map[string]string{"a": "A", "b": "B", "c": "C", "1": "one"}

func next(at time.Duration, v string) marble.Frame[string] {
	return marble.Frame[string]{Time: at * time.Millisecond, Kind: marble.KindNext, Value: v}
}

func complete(at time.Duration) marble.Frame[string] {
	return marble.Frame[string]{Time: at * time.Millisecond, Kind: marble.KindComplete}
}

func fail(at time.Duration) marble.Frame[string] {
	return marble.Frame[string]{Time: at * time.Millisecond, Kind: marble.KindError, Err: marble.ErrMarble}
}

func TestParse(t *testing.T) {
	t.Parallel()

	tcs := []struct {
		name    string
		diagram string
		frames  []marble.Frame[string]
	}{
		{"empty", "", nil},
		{"dashes", "---", nil},
		{"items", "a-b|", []marble.Frame[string]{next(0, "A"), next(2, "B"), complete(3)}},
		{"error", "-a#", []marble.Frame[string]{next(1, "A"), fail(2)}},
		{"group", "(ab)-c", []marble.Frame[string]{next(0, "A"), next(0, "B"), next(5, "C")}},
		{"group with completion", "(a|)", []marble.Frame[string]{next(0, "A"), complete(0)}},
		{"spaces ignored", "   -a - b", []marble.Frame[string]{next(1, "A"), next(3, "B")}},
		{"time progression", "10ms a 1s b", []marble.Frame[string]{next(10, "A"), next(1011, "B")}},
		{"digit key", "-1", []marble.Frame[string]{next(1, "one")}},
		{"digit key after space", "a 1", []marble.Frame[string]{next(0, "A"), next(1, "one")}},
		{"subscription point", "-a^-b", []marble.Frame[string]{next(-1, "A"), next(2, "B")}},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			frames, err := marble.Parse(tc.diagram, values)
			require.NoError(t, err)
			require.Equal(t, tc.frames, frames)
		})
	}
}

func TestParse_errors(t *testing.T) {
	t.Parallel()

	for _, diagram := range []string{
		"a-x",
		"(a",
		"a)",
		"((a))",
		"(a-b)",
		"^-^",
		"a|b",
		"#-|",
	} {
		_, err := marble.Parse(diagram, values)
		require.ErrorIs(t, err, marble.ErrSyntax, "diagram %q", diagram)
	}
}

func TestFormat(t *testing.T) {
	t.Parallel()

	key := func(v string) string {
		switch v {
		case "A":
			return "a"
		case "B":
			return "b"
		}
		return "c"
	}

	for _, diagram := range []string{
		"a-b|",
		"(ab)-c",
		"-a#",
		"----------a",
		"(a|)",
	} {
		frames, err := marble.Parse(diagram, values)
		require.NoError(t, err)
		require.Equal(t, diagram, marble.Format(frames, key))
	}
}
