// SPDX-License-Identifier: Apache-2.0
// Copyright 2022 Jussi Maki

package stream

// Option configures time-based sources and operators.
type Option func(*config)

type config struct {
	scheduler Scheduler
}

// WithScheduler sets the scheduler used for timing. Defaults to RealScheduler().
func WithScheduler(s Scheduler) Option {
	return func(c *config) {
		c.scheduler = s
	}
}

func applyOptions(opts []Option) config {
	c := config{}
	for _, opt := range opts {
		if opt != nil {
			opt(&c)
		}
	}
	if c.scheduler == nil {
		c.scheduler = RealScheduler()
	}
	return c
}
