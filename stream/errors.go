// SPDX-License-Identifier: Apache-2.0
// Copyright 2022 Jussi Maki

package stream

import (
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
)

// ErrSignalAfterTermination is reported when a producer emits into a
// subscription that has already completed, failed or been unsubscribed.
// The signal is dropped.
var ErrSignalAfterTermination = errors.New("signal after termination")

// ErrEmpty is returned by First when the stream completes without items.
var ErrEmpty = errors.New("empty stream")

var logger atomic.Pointer[slog.Logger]

func init() {
	logger.Store(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// SetLogger sets the logger used for reporting protocol violations and
// unhandled errors. A nil logger discards everything.
func SetLogger(log *slog.Logger) {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	logger.Store(log)
}

func getLogger() *slog.Logger {
	return logger.Load()
}

func reportViolation(signal string) {
	getLogger().Debug("Dropping signal", "signal", signal, "err", ErrSignalAfterTermination)
}
