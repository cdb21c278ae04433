// SPDX-License-Identifier: Apache-2.0
// Copyright 2022 Jussi Maki

package stream

import (
	"sync"
)

// CombineLatest2 emits a pair of the latest items of 'src1' and 'src2' every
// time either of them emits, once both have emitted at least once. Equal
// pairs are emitted again.
//
// The stream completes when both sources have completed, or as soon as a
// source completes without ever having emitted as no pair can then be formed.
// An error from either source fails the stream and unsubscribes the other.
func CombineLatest2[V1, V2 any](src1 Observable[V1], src2 Observable[V2]) Observable[Tuple2[V1, V2]] {
	return FuncObservable[Tuple2[V1, V2]](
		func(sub *Subscriber[Tuple2[V1, V2]]) {
			var (
				mu           sync.Mutex
				latest       Tuple2[V1, V2]
				has1, has2   bool
				done1, done2 bool
			)

			// update applies 'set' to the latest pair and returns the pair
			// to emit, if any.
			update := func(set func()) (Tuple2[V1, V2], bool) {
				mu.Lock()
				defer mu.Unlock()
				set()
				return latest, has1 && has2
			}
			// finish marks one source done and reports whether the
			// combined stream is complete.
			finish := func(mark func() (done, has bool)) bool {
				mu.Lock()
				defer mu.Unlock()
				done, has := mark()
				return !has || done
			}

			subscribeUpstream(sub, src1, Observer[V1]{
				Next: func(v V1) {
					if pair, ok := update(func() { latest.V1, has1 = v, true }); ok {
						sub.Next(pair)
					}
				},
				Error: sub.Error,
				Complete: func() {
					if finish(func() (bool, bool) { done1 = true; return done2, has1 }) {
						sub.Complete()
					}
				},
			})
			if sub.Closed() {
				return
			}

			subscribeUpstream(sub, src2, Observer[V2]{
				Next: func(v V2) {
					if pair, ok := update(func() { latest.V2, has2 = v, true }); ok {
						sub.Next(pair)
					}
				},
				Error: sub.Error,
				Complete: func() {
					if finish(func() (bool, bool) { done2 = true; return done1, has2 }) {
						sub.Complete()
					}
				},
			})
		})
}

// CombineLatestMapSkip combines the latest items of 'a' and 'b' with
// 'combine'. Each source is seeded with an initial value, so a combination is
// available from the moment of subscription, and the first 'skip' combined
// items are suppressed.
//
// With both sources seeded, exactly one combined item is produced on
// subscription, before any real item from the sources. A skip of 1 therefore
// drops exactly the seed combination.
func CombineLatestMapSkip[X, Y, Z any](
	a Observable[X], b Observable[Y],
	seedA X, seedB Y,
	combine func(X, Y) Z,
	skip int,
) Observable[Z] {
	return Skip(
		skip,
		Map(
			CombineLatest2(StartWith(a, seedA), StartWith(b, seedB)),
			func(pair Tuple2[X, Y]) Z { return combine(pair.V1, pair.V2) },
		))
}
