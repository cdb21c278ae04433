// SPDX-License-Identifier: Apache-2.0
// Copyright 2022 Jussi Maki

// Package bulb wires light switches to a light bulb. A switch is a stream of
// positions (true is ON) and the bulb is the stream of its lit states.
package bulb

import (
	"time"

	"github.com/joamaki/lightbulb/stream"
)

// Delay is how long the delayed bulb takes to follow its switch.
const Delay = 10 * time.Millisecond

// LightBulb lights the bulb whenever the switch is ON.
func LightBulb(sw stream.Observable[bool]) stream.Observable[bool] {
	return sw
}

// LightTheBulb follows the first switch position and then burns out, e.g. the
// stream completes.
func LightTheBulb(sw stream.Observable[bool]) stream.Observable[bool] {
	return stream.Take(1, sw)
}

// LightBulbWithDelay follows the switch after Delay. The scheduler for the
// delay can be set with stream.WithScheduler.
func LightBulbWithDelay(sw stream.Observable[bool], opts ...stream.Option) stream.Observable[bool] {
	return stream.Delay(sw, Delay, opts...)
}

// LightBulbWithStaircaseWiring lights the bulb from two switches wired as a
// two-way (staircase) circuit: flipping either switch toggles the bulb. Both
// switches start OFF and the bulb starts dark; the initial dark state is not
// emitted.
func LightBulbWithStaircaseWiring(sw1, sw2 stream.Observable[bool]) stream.Observable[bool] {
	return stream.CombineLatestMapSkip(
		sw1, sw2,
		false, false,
		func(s1, s2 bool) bool { return s1 != s2 },
		1)
}
