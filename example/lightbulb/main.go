// SPDX-License-Identifier: Apache-2.0
// Copyright 2022 Jussi Maki

// lightbulb simulates the bulb wirings. By default the switches are given as
// marble diagrams and the bulb is printed as one:
//
//	lightbulb -demo staircase -switch1 'i-o-i' -switch2 '-i-o-i'
//	ioioio
//
// where 'i' is ON and 'o' is OFF. With -interactive the switches are flipped
// by typing 1 or 2 followed by enter.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/joamaki/lightbulb/bulb"
	"github.com/joamaki/lightbulb/stream"
	"github.com/joamaki/lightbulb/stream/marble"
)

var positions = map[string]bool{"i": true, "o": false}

func positionKey(on bool) string {
	if on {
		return "i"
	}
	return "o"
}

type wiring func(sw1, sw2 stream.Observable[bool], opts ...stream.Option) stream.Observable[bool]

var demos = map[string]wiring{
	"bulb": func(sw1, _ stream.Observable[bool], _ ...stream.Option) stream.Observable[bool] {
		return bulb.LightBulb(sw1)
	},
	"once": func(sw1, _ stream.Observable[bool], _ ...stream.Option) stream.Observable[bool] {
		return bulb.LightTheBulb(sw1)
	},
	"delay": func(sw1, _ stream.Observable[bool], opts ...stream.Option) stream.Observable[bool] {
		return bulb.LightBulbWithDelay(sw1, opts...)
	},
	"staircase": func(sw1, sw2 stream.Observable[bool], _ ...stream.Option) stream.Observable[bool] {
		return bulb.LightBulbWithStaircaseWiring(sw1, sw2)
	},
}

func main() {
	var (
		demo        = flag.String("demo", "staircase", "wiring to simulate: bulb, once, delay or staircase")
		switch1     = flag.String("switch1", "", "marble diagram of the first switch")
		switch2     = flag.String("switch2", "", "marble diagram of the second switch")
		interactive = flag.Bool("interactive", false, "flip the switches from stdin in real time")
		logLevel    = flag.String("log-level", "info", "log level: debug, info, warn or error")
	)
	flag.Parse()

	var level slog.Level
	if err := level.UnmarshalText([]byte(*logLevel)); err != nil {
		fmt.Fprintf(os.Stderr, "invalid -log-level: %s\n", err)
		os.Exit(2)
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	stream.SetLogger(log)

	wire, ok := demos[*demo]
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown -demo %q\n", *demo)
		os.Exit(2)
	}

	var err error
	if *interactive {
		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
		defer cancel()
		err = runInteractive(ctx, log, wire, os.Stdin)
	} else {
		var out string
		out, err = runMarbles(log, wire, *switch1, *switch2)
		if err == nil {
			fmt.Println(out)
		}
	}
	if err != nil {
		log.Error("Simulation failed", "demo", *demo, "err", err)
		os.Exit(1)
	}
}

// runMarbles runs the wiring on virtual time with the switches given as
// diagrams and returns the diagram of the bulb.
func runMarbles(log *slog.Logger, wire wiring, diagram1, diagram2 string) (string, error) {
	sched := stream.NewVirtualScheduler(log)

	sw1, err := coldSwitch(sched, diagram1)
	if err != nil {
		return "", fmt.Errorf("switch1: %w", err)
	}
	sw2, err := coldSwitch(sched, diagram2)
	if err != nil {
		return "", fmt.Errorf("switch2: %w", err)
	}

	rec := marble.Record(sched, wire(sw1, sw2, stream.WithScheduler(sched)))
	sched.Flush()
	rec.Unsubscribe()

	if err := rec.Err(); err != nil {
		return "", err
	}
	return marble.Format(rec.Frames(), positionKey), nil
}

func coldSwitch(sched stream.Scheduler, diagram string) (stream.Observable[bool], error) {
	frames, err := marble.Parse(diagram, positions)
	if err != nil {
		return nil, err
	}
	return marble.Cold(sched, frames)
}

// runInteractive flips the switches from lines read from 'in' and logs the
// bulb until 'in' is exhausted or 'ctx' is cancelled.
func runInteractive(ctx context.Context, log *slog.Logger, wire wiring, in io.Reader) error {
	sw1, sw2 := stream.NewSubject[bool](), stream.NewSubject[bool]()
	lit := wire(sw1, sw2)

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			lines <- strings.TrimSpace(scanner.Text())
		}
	}()

	g, ctx := errgroup.WithContext(ctx)

	bulbs, errs := stream.ToChannels(ctx, lit)
	g.Go(func() error {
		for on := range bulbs {
			log.Info("Bulb", "lit", on)
		}
		err := <-errs
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})

	g.Go(func() error {
		var pos1, pos2 bool
		defer sw1.Complete()
		defer sw2.Complete()
		fmt.Fprintln(os.Stderr, "Type 1 or 2 and enter to flip a switch.")
		for {
			select {
			case <-ctx.Done():
				return nil
			case line, ok := <-lines:
				if !ok {
					return nil
				}
				switch line {
				case "1":
					pos1 = !pos1
					log.Info("Switch", "switch", 1, "on", pos1)
					sw1.Next(pos1)
				case "2":
					pos2 = !pos2
					log.Info("Switch", "switch", 2, "on", pos2)
					sw2.Next(pos2)
				case "":
				default:
					log.Warn("Unknown switch", "input", line)
				}
			}
		}
	})

	return g.Wait()
}
