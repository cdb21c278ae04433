// SPDX-License-Identifier: Apache-2.0
// Copyright 2022 Jussi Maki

package bulb_test

import (
	"testing"

	"github.com/joamaki/lightbulb/bulb"
	"github.com/joamaki/lightbulb/stream"
	"github.com/joamaki/lightbulb/stream/streamtest"
)

var positions = map[string]bool{"i": true, "o": false}

func TestLightBulb_marbles(t *testing.T) {
	t.Parallel()

	sched := streamtest.NewScheduler(t)
	streamtest.ExpectMarble(t, sched,
		bulb.LightBulb(streamtest.Cold(t, sched, "i-o-i|", positions)),
		"i-o-i|", positions)
}

func TestLightTheBulb_marbles(t *testing.T) {
	t.Parallel()

	sched := streamtest.NewScheduler(t)

	streamtest.ExpectMarble(t, sched,
		bulb.LightTheBulb(streamtest.Cold(t, sched, "i", positions)),
		"(i|)", positions)

	streamtest.ExpectMarble(t, sched,
		bulb.LightTheBulb(streamtest.Cold(t, sched, "--o-i", positions)),
		"--(o|)", positions)
}

func TestLightBulbWithDelay_marbles(t *testing.T) {
	t.Parallel()

	sched := streamtest.NewScheduler(t)
	delayed := func(diagram string) stream.Observable[bool] {
		return bulb.LightBulbWithDelay(
			streamtest.Cold(t, sched, diagram, positions),
			stream.WithScheduler(sched))
	}

	streamtest.ExpectMarble(t, sched, delayed("i"), "----------i", positions)
	streamtest.ExpectMarble(t, sched, delayed("i"), "10ms i", positions)
	streamtest.ExpectMarble(t, sched, delayed("i-o|"), "10ms i-o|", positions)
}

func TestLightBulbWithStaircaseWiring_marbles(t *testing.T) {
	t.Parallel()

	tcs := []struct {
		name     string
		sw1, sw2 string
		expected string
	}{
		{"first switch ON", "--i", "---", "--i"},
		{"second switch ON", "---", "--i", "--i"},
		{"switching", "---i---o---i", "-i---o---i--", "           -i-o-i-o-i-o"},
		{"alternating", "i-o-i", "-i-o-i", "ioioio"},
		{"both complete", "i|", "-i|", "io|"},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			sched := streamtest.NewScheduler(t)
			streamtest.ExpectMarble(t, sched,
				bulb.LightBulbWithStaircaseWiring(
					streamtest.Cold(t, sched, tc.sw1, positions),
					streamtest.Cold(t, sched, tc.sw2, positions)),
				tc.expected, positions)
		})
	}
}
